package mocks

import (
	context "context"

	mock "github.com/stretchr/testify/mock"
)

// SchedulePlanner is a mock type for the SchedulePlanner type
type SchedulePlanner struct {
	mock.Mock
}

// Plan provides a mock function with given fields: ctx, userMessage
func (_m *SchedulePlanner) Plan(ctx context.Context, userMessage string) (string, error) {
	ret := _m.Called(ctx, userMessage)
	return ret.String(0), ret.Error(1)
}

// NewSchedulePlanner creates a new instance of SchedulePlanner. It also registers a testing interface on the mock and a cleanup function to assert the mocks expectations.
func NewSchedulePlanner(t interface {
	mock.TestingT
	Cleanup(func())
}) *SchedulePlanner {
	mock := &SchedulePlanner{}
	mock.Mock.Test(t)

	t.Cleanup(func() { mock.AssertExpectations(t) })

	return mock
}
