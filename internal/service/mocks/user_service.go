package mocks

import (
	context "context"

	model "go_task_quest/internal/model"

	mock "github.com/stretchr/testify/mock"
)

// UserService is a mock type for the UserService type
type UserService struct {
	mock.Mock
}

// UpdateProfile provides a mock function with given fields: ctx, userID, req
func (_m *UserService) UpdateProfile(ctx context.Context, userID uint, req *model.UpdateUserRequest) (*model.User, error) {
	ret := _m.Called(ctx, userID, req)

	var r0 *model.User
	if ret.Get(0) != nil {
		r0 = ret.Get(0).(*model.User)
	}
	return r0, ret.Error(1)
}

// Leaderboard provides a mock function with given fields: ctx
func (_m *UserService) Leaderboard(ctx context.Context) ([]model.LeaderboardEntry, error) {
	ret := _m.Called(ctx)

	var r0 []model.LeaderboardEntry
	if ret.Get(0) != nil {
		r0 = ret.Get(0).([]model.LeaderboardEntry)
	}
	return r0, ret.Error(1)
}

// GetPublicProfile provides a mock function with given fields: ctx, email
func (_m *UserService) GetPublicProfile(ctx context.Context, email string) (*model.PublicProfile, error) {
	ret := _m.Called(ctx, email)

	var r0 *model.PublicProfile
	if ret.Get(0) != nil {
		r0 = ret.Get(0).(*model.PublicProfile)
	}
	return r0, ret.Error(1)
}

// UploadImage provides a mock function with given fields: ctx, userID, dataURL
func (_m *UserService) UploadImage(ctx context.Context, userID uint, dataURL string) (string, error) {
	ret := _m.Called(ctx, userID, dataURL)
	return ret.String(0), ret.Error(1)
}

// NewUserService creates a new instance of UserService. It also registers a testing interface on the mock and a cleanup function to assert the mocks expectations.
func NewUserService(t interface {
	mock.TestingT
	Cleanup(func())
}) *UserService {
	mock := &UserService{}
	mock.Mock.Test(t)

	t.Cleanup(func() { mock.AssertExpectations(t) })

	return mock
}
