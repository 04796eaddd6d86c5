package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"jrc-server/internal/repository"
)

// MockStateRepository is a mock type for the StateRepository type
type MockStateRepository struct {
	mock.Mock
}

// Load provides a mock function with given fields: ctx, key
func (_m *MockStateRepository) Load(ctx context.Context, key string) ([]byte, error) {
	ret := _m.Called(ctx, key)

	var r0 []byte
	if ret.Get(0) != nil {
		r0 = ret.Get(0).([]byte)
	}
	return r0, ret.Error(1)
}

// Save provides a mock function with given fields: ctx, key, value
func (_m *MockStateRepository) Save(ctx context.Context, key string, value []byte) error {
	ret := _m.Called(ctx, key, value)
	return ret.Error(0)
}

// Delete provides a mock function with given fields: ctx, key
func (_m *MockStateRepository) Delete(ctx context.Context, key string) error {
	ret := _m.Called(ctx, key)
	return ret.Error(0)
}

// NewMockStateRepository creates a new instance of MockStateRepository.
func NewMockStateRepository(t interface {
	mock.TestingT
	Cleanup(func())
}) *MockStateRepository {
	m := &MockStateRepository{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

var _ repository.StateRepository = (*MockStateRepository)(nil)
