package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"jrc-server/internal/model"
	"jrc-server/internal/service"
)

// MockGenerator is a mock type for the Generator type
type MockGenerator struct {
	mock.Mock
}

// Generate provides a mock function with given fields: ctx, userID, req
func (_m *MockGenerator) Generate(ctx context.Context, userID string, req model.GenerationRequest) (*model.GeneratedPlan, error) {
	ret := _m.Called(ctx, userID, req)

	var r0 *model.GeneratedPlan
	if rf, ok := ret.Get(0).(func(context.Context, string, model.GenerationRequest) *model.GeneratedPlan); ok {
		r0 = rf(ctx, userID, req)
	} else if ret.Get(0) != nil {
		r0 = ret.Get(0).(*model.GeneratedPlan)
	}
	return r0, ret.Error(1)
}

// NewMockGenerator creates a new instance of MockGenerator.
func NewMockGenerator(t interface {
	mock.TestingT
	Cleanup(func())
}) *MockGenerator {
	m := &MockGenerator{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

var _ service.Generator = (*MockGenerator)(nil)
