package mocks

import (
	context "context"

	model "go_task_quest/internal/model"

	mock "github.com/stretchr/testify/mock"
)

// AuthService is a mock type for the AuthService type
type AuthService struct {
	mock.Mock
}

// Register provides a mock function with given fields: ctx, req
func (_m *AuthService) Register(ctx context.Context, req *model.RegisterRequest) (*model.User, error) {
	ret := _m.Called(ctx, req)

	var r0 *model.User
	if ret.Get(0) != nil {
		r0 = ret.Get(0).(*model.User)
	}
	return r0, ret.Error(1)
}

// Login provides a mock function with given fields: ctx, req
func (_m *AuthService) Login(ctx context.Context, req *model.LoginRequest) (*model.LoginResponse, error) {
	ret := _m.Called(ctx, req)

	var r0 *model.LoginResponse
	if ret.Get(0) != nil {
		r0 = ret.Get(0).(*model.LoginResponse)
	}
	return r0, ret.Error(1)
}

// Logout provides a mock function with given fields: ctx, session
func (_m *AuthService) Logout(ctx context.Context, session *model.Session) error {
	ret := _m.Called(ctx, session)
	return ret.Error(0)
}

// GetMe provides a mock function with given fields: ctx, userID
func (_m *AuthService) GetMe(ctx context.Context, userID uint) (*model.User, error) {
	ret := _m.Called(ctx, userID)

	var r0 *model.User
	if ret.Get(0) != nil {
		r0 = ret.Get(0).(*model.User)
	}
	return r0, ret.Error(1)
}

// NewAuthService creates a new instance of AuthService. It also registers a testing interface on the mock and a cleanup function to assert the mocks expectations.
func NewAuthService(t interface {
	mock.TestingT
	Cleanup(func())
}) *AuthService {
	mock := &AuthService{}
	mock.Mock.Test(t)

	t.Cleanup(func() { mock.AssertExpectations(t) })

	return mock
}
