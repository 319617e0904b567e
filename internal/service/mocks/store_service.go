package mocks

import (
	context "context"

	model "go_task_quest/internal/model"

	mock "github.com/stretchr/testify/mock"
)

// StoreService is a mock type for the StoreService type
type StoreService struct {
	mock.Mock
}

// ListItems provides a mock function with given fields: ctx, userID
func (_m *StoreService) ListItems(ctx context.Context, userID *uint) (*model.StoreItemsResponse, error) {
	ret := _m.Called(ctx, userID)

	var r0 *model.StoreItemsResponse
	if ret.Get(0) != nil {
		r0 = ret.Get(0).(*model.StoreItemsResponse)
	}
	return r0, ret.Error(1)
}

// BuyItem provides a mock function with given fields: ctx, userID, itemID
func (_m *StoreService) BuyItem(ctx context.Context, userID uint, itemID uint) error {
	ret := _m.Called(ctx, userID, itemID)
	return ret.Error(0)
}

// EquipItem provides a mock function with given fields: ctx, userID, itemID
func (_m *StoreService) EquipItem(ctx context.Context, userID uint, itemID uint) error {
	ret := _m.Called(ctx, userID, itemID)
	return ret.Error(0)
}

// UnequipItem provides a mock function with given fields: ctx, userID, itemType
func (_m *StoreService) UnequipItem(ctx context.Context, userID uint, itemType model.ItemType) error {
	ret := _m.Called(ctx, userID, itemType)
	return ret.Error(0)
}

// NewStoreService creates a new instance of StoreService. It also registers a testing interface on the mock and a cleanup function to assert the mocks expectations.
func NewStoreService(t interface {
	mock.TestingT
	Cleanup(func())
}) *StoreService {
	mock := &StoreService{}
	mock.Mock.Test(t)

	t.Cleanup(func() { mock.AssertExpectations(t) })

	return mock
}
