package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"jrc-server/internal/service"
)

// MockAIClient is a mock type for the AIClient type
type MockAIClient struct {
	mock.Mock
}

// GenerateJSON provides a mock function with given fields: ctx, userID, systemPrompt, userInput, schema, params
func (_m *MockAIClient) GenerateJSON(ctx context.Context, userID string, systemPrompt string, userInput string, schema service.ResponseSchema, params service.GenerationParams) (string, service.UsageInfo, error) {
	ret := _m.Called(ctx, userID, systemPrompt, userInput, schema, params)

	var r0 string
	if rf, ok := ret.Get(0).(func(context.Context, string, string, string, service.ResponseSchema, service.GenerationParams) string); ok {
		r0 = rf(ctx, userID, systemPrompt, userInput, schema, params)
	} else {
		r0 = ret.String(0)
	}

	var r1 service.UsageInfo
	if ret.Get(1) != nil {
		r1 = ret.Get(1).(service.UsageInfo)
	}

	return r0, r1, ret.Error(2)
}

// NewMockAIClient creates a new instance of MockAIClient. It also registers a testing interface on the mock and a cleanup function to assert the mocks expectations.
func NewMockAIClient(t interface {
	mock.TestingT
	Cleanup(func())
}) *MockAIClient {
	m := &MockAIClient{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

var _ service.AIClient = (*MockAIClient)(nil)
