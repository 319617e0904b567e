package mocks

import (
	context "context"
	time "time"

	model "go_task_quest/internal/model"

	mock "github.com/stretchr/testify/mock"
)

// ReconcileService is a mock type for the ReconcileService type
type ReconcileService struct {
	mock.Mock
}

// RunDaily provides a mock function with given fields: ctx, now
func (_m *ReconcileService) RunDaily(ctx context.Context, now time.Time) (*model.CleanupSummary, error) {
	ret := _m.Called(ctx, now)

	var r0 *model.CleanupSummary
	if ret.Get(0) != nil {
		r0 = ret.Get(0).(*model.CleanupSummary)
	}
	return r0, ret.Error(1)
}

// NewReconcileService creates a new instance of ReconcileService. It also registers a testing interface on the mock and a cleanup function to assert the mocks expectations.
func NewReconcileService(t interface {
	mock.TestingT
	Cleanup(func())
}) *ReconcileService {
	mock := &ReconcileService{}
	mock.Mock.Test(t)

	t.Cleanup(func() { mock.AssertExpectations(t) })

	return mock
}
