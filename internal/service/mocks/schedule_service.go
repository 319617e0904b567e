package mocks

import (
	context "context"

	model "go_task_quest/internal/model"

	mock "github.com/stretchr/testify/mock"
)

// ScheduleService is a mock type for the ScheduleService type
type ScheduleService struct {
	mock.Mock
}

// Generate provides a mock function with given fields: ctx, userID, req
func (_m *ScheduleService) Generate(ctx context.Context, userID uint, req *model.GenerateScheduleRequest) (*model.GenerateScheduleResponse, error) {
	ret := _m.Called(ctx, userID, req)

	var r0 *model.GenerateScheduleResponse
	if ret.Get(0) != nil {
		r0 = ret.Get(0).(*model.GenerateScheduleResponse)
	}
	return r0, ret.Error(1)
}

// List provides a mock function with given fields: ctx, userID, date, limit
func (_m *ScheduleService) List(ctx context.Context, userID uint, date string, limit int) ([]model.Schedule, error) {
	ret := _m.Called(ctx, userID, date, limit)

	var r0 []model.Schedule
	if ret.Get(0) != nil {
		r0 = ret.Get(0).([]model.Schedule)
	}
	return r0, ret.Error(1)
}

// NewScheduleService creates a new instance of ScheduleService. It also registers a testing interface on the mock and a cleanup function to assert the mocks expectations.
func NewScheduleService(t interface {
	mock.TestingT
	Cleanup(func())
}) *ScheduleService {
	mock := &ScheduleService{}
	mock.Mock.Test(t)

	t.Cleanup(func() { mock.AssertExpectations(t) })

	return mock
}
