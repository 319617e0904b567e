package mocks

import (
	context "context"

	model "go_task_quest/internal/model"

	mock "github.com/stretchr/testify/mock"
)

// TaskValidator is a mock type for the TaskValidator type
type TaskValidator struct {
	mock.Mock
}

// Validate provides a mock function with given fields: ctx, title, description, difficulty
func (_m *TaskValidator) Validate(ctx context.Context, title string, description string, difficulty model.Difficulty) model.ValidationResult {
	ret := _m.Called(ctx, title, description, difficulty)
	return ret.Get(0).(model.ValidationResult)
}

// NewTaskValidator creates a new instance of TaskValidator. It also registers a testing interface on the mock and a cleanup function to assert the mocks expectations.
func NewTaskValidator(t interface {
	mock.TestingT
	Cleanup(func())
}) *TaskValidator {
	mock := &TaskValidator{}
	mock.Mock.Test(t)

	t.Cleanup(func() { mock.AssertExpectations(t) })

	return mock
}
