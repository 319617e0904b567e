package mocks

import (
	context "context"

	model "go_task_quest/internal/model"

	mock "github.com/stretchr/testify/mock"
)

// StatsService is a mock type for the StatsService type
type StatsService struct {
	mock.Mock
}

// LeetCodeStats provides a mock function with given fields: ctx, username
func (_m *StatsService) LeetCodeStats(ctx context.Context, username string) (*model.LeetCodeStats, error) {
	ret := _m.Called(ctx, username)

	var r0 *model.LeetCodeStats
	if ret.Get(0) != nil {
		r0 = ret.Get(0).(*model.LeetCodeStats)
	}
	return r0, ret.Error(1)
}

// Quote provides a mock function with given fields: ctx
func (_m *StatsService) Quote(ctx context.Context) string {
	ret := _m.Called(ctx)
	return ret.String(0)
}

// NewStatsService creates a new instance of StatsService. It also registers a testing interface on the mock and a cleanup function to assert the mocks expectations.
func NewStatsService(t interface {
	mock.TestingT
	Cleanup(func())
}) *StatsService {
	mock := &StatsService{}
	mock.Mock.Test(t)

	t.Cleanup(func() { mock.AssertExpectations(t) })

	return mock
}
