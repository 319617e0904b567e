package mocks

import (
	context "context"

	mock "github.com/stretchr/testify/mock"
)

// TextGenerator is a mock type for the TextGenerator type
type TextGenerator struct {
	mock.Mock
}

// Generate provides a mock function with given fields: ctx, prompt
func (_m *TextGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	ret := _m.Called(ctx, prompt)
	return ret.String(0), ret.Error(1)
}

// NewTextGenerator creates a new instance of TextGenerator. It also registers a testing interface on the mock and a cleanup function to assert the mocks expectations.
func NewTextGenerator(t interface {
	mock.TestingT
	Cleanup(func())
}) *TextGenerator {
	mock := &TextGenerator{}
	mock.Mock.Test(t)

	t.Cleanup(func() { mock.AssertExpectations(t) })

	return mock
}
