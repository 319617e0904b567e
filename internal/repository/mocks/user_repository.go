package mocks

import (
	context "context"

	model "go_task_quest/internal/model"

	mock "github.com/stretchr/testify/mock"
	gorm "gorm.io/gorm"
)

// UserRepository is a mock type for the UserRepository type
type UserRepository struct {
	mock.Mock
}

// Create provides a mock function with given fields: ctx, db, user
func (_m *UserRepository) Create(ctx context.Context, db *gorm.DB, user *model.User) error {
	ret := _m.Called(ctx, db, user)

	if rf, ok := ret.Get(0).(func(context.Context, *gorm.DB, *model.User) error); ok {
		return rf(ctx, db, user)
	}
	return ret.Error(0)
}

// FindByID provides a mock function with given fields: ctx, db, userID
func (_m *UserRepository) FindByID(ctx context.Context, db *gorm.DB, userID uint) (*model.User, error) {
	ret := _m.Called(ctx, db, userID)
	return userResult(ret)
}

// FindByIDForUpdate provides a mock function with given fields: ctx, db, userID
func (_m *UserRepository) FindByIDForUpdate(ctx context.Context, db *gorm.DB, userID uint) (*model.User, error) {
	ret := _m.Called(ctx, db, userID)
	return userResult(ret)
}

// FindByEmail provides a mock function with given fields: ctx, db, email
func (_m *UserRepository) FindByEmail(ctx context.Context, db *gorm.DB, email string) (*model.User, error) {
	ret := _m.Called(ctx, db, email)
	return userResult(ret)
}

// FindByUsername provides a mock function with given fields: ctx, db, username
func (_m *UserRepository) FindByUsername(ctx context.Context, db *gorm.DB, username string) (*model.User, error) {
	ret := _m.Called(ctx, db, username)
	return userResult(ret)
}

// UpdateProfile provides a mock function with given fields: ctx, db, userID, fields
func (_m *UserRepository) UpdateProfile(ctx context.Context, db *gorm.DB, userID uint, fields map[string]interface{}) error {
	ret := _m.Called(ctx, db, userID, fields)
	return ret.Error(0)
}

// SaveProgress provides a mock function with given fields: ctx, db, user
func (_m *UserRepository) SaveProgress(ctx context.Context, db *gorm.DB, user *model.User) error {
	ret := _m.Called(ctx, db, user)
	return ret.Error(0)
}

// DebitXP provides a mock function with given fields: ctx, db, userID, amount
func (_m *UserRepository) DebitXP(ctx context.Context, db *gorm.DB, userID uint, amount int) (bool, error) {
	ret := _m.Called(ctx, db, userID, amount)
	return ret.Bool(0), ret.Error(1)
}

// ListLeaderboard provides a mock function with given fields: ctx, db
func (_m *UserRepository) ListLeaderboard(ctx context.Context, db *gorm.DB) ([]model.User, error) {
	ret := _m.Called(ctx, db)

	var r0 []model.User
	if ret.Get(0) != nil {
		r0 = ret.Get(0).([]model.User)
	}
	return r0, ret.Error(1)
}

// ListIDs provides a mock function with given fields: ctx, db
func (_m *UserRepository) ListIDs(ctx context.Context, db *gorm.DB) ([]uint, error) {
	ret := _m.Called(ctx, db)

	var r0 []uint
	if ret.Get(0) != nil {
		r0 = ret.Get(0).([]uint)
	}
	return r0, ret.Error(1)
}

func userResult(ret mock.Arguments) (*model.User, error) {
	var r0 *model.User
	if rf, ok := ret.Get(0).(func() *model.User); ok {
		r0 = rf()
	} else if ret.Get(0) != nil {
		r0 = ret.Get(0).(*model.User)
	}
	return r0, ret.Error(1)
}

// NewUserRepository creates a new instance of UserRepository. It also registers a testing interface on the mock and a cleanup function to assert the mocks expectations.
func NewUserRepository(t interface {
	mock.TestingT
	Cleanup(func())
}) *UserRepository {
	mock := &UserRepository{}
	mock.Mock.Test(t)

	t.Cleanup(func() { mock.AssertExpectations(t) })

	return mock
}
