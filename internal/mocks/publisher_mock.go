package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"jrc-server/internal/messaging"
)

// MockPublisher is a mock type for the Publisher type
type MockPublisher struct {
	mock.Mock
}

// Publish provides a mock function with given fields: ctx, event
func (_m *MockPublisher) Publish(ctx context.Context, event messaging.PlanEvent) error {
	ret := _m.Called(ctx, event)
	return ret.Error(0)
}

// Close provides a mock function with no fields
func (_m *MockPublisher) Close() error {
	ret := _m.Called()
	return ret.Error(0)
}

// NewMockPublisher creates a new instance of MockPublisher.
func NewMockPublisher(t interface {
	mock.TestingT
	Cleanup(func())
}) *MockPublisher {
	m := &MockPublisher{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

var _ messaging.Publisher = (*MockPublisher)(nil)
