package mocks

import (
	context "context"

	model "go_task_quest/internal/model"

	mock "github.com/stretchr/testify/mock"
)

// TaskService is a mock type for the TaskService type
type TaskService struct {
	mock.Mock
}

// CreateTask provides a mock function with given fields: ctx, userID, req
func (_m *TaskService) CreateTask(ctx context.Context, userID uint, req *model.CreateTaskRequest) (*model.Task, error) {
	ret := _m.Called(ctx, userID, req)

	var r0 *model.Task
	if ret.Get(0) != nil {
		r0 = ret.Get(0).(*model.Task)
	}
	return r0, ret.Error(1)
}

// ListTasks provides a mock function with given fields: ctx, userID
func (_m *TaskService) ListTasks(ctx context.Context, userID uint) ([]model.Task, error) {
	ret := _m.Called(ctx, userID)

	var r0 []model.Task
	if ret.Get(0) != nil {
		r0 = ret.Get(0).([]model.Task)
	}
	return r0, ret.Error(1)
}

// CompleteTask provides a mock function with given fields: ctx, userID, taskID
func (_m *TaskService) CompleteTask(ctx context.Context, userID uint, taskID uint) (*model.CompleteTaskResponse, error) {
	ret := _m.Called(ctx, userID, taskID)

	var r0 *model.CompleteTaskResponse
	if ret.Get(0) != nil {
		r0 = ret.Get(0).(*model.CompleteTaskResponse)
	}
	return r0, ret.Error(1)
}

// DeleteTask provides a mock function with given fields: ctx, userID, taskID
func (_m *TaskService) DeleteTask(ctx context.Context, userID uint, taskID uint) error {
	ret := _m.Called(ctx, userID, taskID)
	return ret.Error(0)
}

// ValidateTask provides a mock function with given fields: ctx, req
func (_m *TaskService) ValidateTask(ctx context.Context, req *model.ValidateTaskRequest) model.ValidationResult {
	ret := _m.Called(ctx, req)
	return ret.Get(0).(model.ValidationResult)
}

// NewTaskService creates a new instance of TaskService. It also registers a testing interface on the mock and a cleanup function to assert the mocks expectations.
func NewTaskService(t interface {
	mock.TestingT
	Cleanup(func())
}) *TaskService {
	mock := &TaskService{}
	mock.Mock.Test(t)

	t.Cleanup(func() { mock.AssertExpectations(t) })

	return mock
}
