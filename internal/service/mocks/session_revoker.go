package mocks

import (
	context "context"
	time "time"

	mock "github.com/stretchr/testify/mock"
)

// SessionRevoker is a mock type for the SessionRevoker type
type SessionRevoker struct {
	mock.Mock
}

// Revoke provides a mock function with given fields: ctx, jti, expiresAt
func (_m *SessionRevoker) Revoke(ctx context.Context, jti string, expiresAt time.Time) error {
	ret := _m.Called(ctx, jti, expiresAt)
	return ret.Error(0)
}

// NewSessionRevoker creates a new instance of SessionRevoker. It also registers a testing interface on the mock and a cleanup function to assert the mocks expectations.
func NewSessionRevoker(t interface {
	mock.TestingT
	Cleanup(func())
}) *SessionRevoker {
	mock := &SessionRevoker{}
	mock.Mock.Test(t)

	t.Cleanup(func() { mock.AssertExpectations(t) })

	return mock
}
