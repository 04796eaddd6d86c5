package service_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"jrc-server/internal/mocks"
	"jrc-server/internal/model"
	"jrc-server/internal/prompts"
	"jrc-server/internal/service"
)

const upstreamPlan = `{
  "id": "upstream-id",
  "theme": "upstream theme",
  "title": "Rondo 4v4",
  "description": "Jogo reduzido com superioridade.",
  "setup": {"players": "4 vs 4", "dimensions": "30x20m", "materials": ["cones"]},
  "rules": ["Máximo 2 toques"],
  "systemicFocus": "Reação à perda",
  "visualData": {"players": [
    {"id": "a1", "team": "A", "label": "1", "startX": 10, "startY": 20, "endX": 30, "endY": 40},
    {"id": "a2", "team": "A", "label": "2", "startX": 12, "startY": 50, "endX": 35, "endY": 55},
    {"id": "a3", "team": "A", "label": "3", "startX": 14, "startY": 70, "endX": 40, "endY": 65},
    {"id": "a4", "team": "A", "label": "4", "startX": 20, "startY": 35, "endX": 45, "endY": 30},
    {"id": "b1", "team": "B", "label": "1", "startX": 90, "startY": 20, "endX": 70, "endY": 40},
    {"id": "b2", "team": "B", "label": "2", "startX": 88, "startY": 50, "endX": 65, "endY": 55},
    {"id": "b3", "team": "B", "label": "3", "startX": 86, "startY": 70, "endX": 60, "endY": 65},
    {"id": "b4", "team": "B", "label": "4", "startX": 80, "startY": 35, "endX": 55, "endY": 30}
  ]}
}`

func newGenerator(t *testing.T, ai service.AIClient) *service.PlanGenerator {
	t.Helper()
	catalog, err := prompts.Load(zap.NewNop())
	require.NoError(t, err)
	return service.NewPlanGenerator(ai, catalog, service.PlanGeneratorConfig{
		Language:     "pt",
		QualityModel: "gemini-3-pro-preview",
		FastModel:    "gemini-2.5-flash",
	}, zap.NewNop())
}

func testRequest() model.GenerationRequest {
	return model.GenerationRequest{Theme: "Transição Defensiva", Category: "Sub-17", Duration: "15 min"}
}

func TestPlanGenerator_Success(t *testing.T) {
	ai := mocks.NewMockAIClient(t)
	ai.On("GenerateJSON", mock.Anything, "1",
		mock.MatchedBy(func(sys string) bool { return strings.Contains(sys, "Periodização Tática") }),
		mock.MatchedBy(func(prompt string) bool {
			return strings.Contains(prompt, "TEMA: Transição Defensiva") &&
				strings.Contains(prompt, "CATEGORIA: Sub-17") &&
				strings.Contains(prompt, "DURAÇÃO ESTIMADA: 15 min") &&
				strings.Contains(prompt, "INTENSIDADE: medium")
		}),
		mock.MatchedBy(func(s service.ResponseSchema) bool { return s.GenAI != nil && s.JSON != "" }),
		service.GenerationParams{Model: "gemini-3-pro-preview"},
	).Return(upstreamPlan, service.UsageInfo{TotalTokens: 100}, nil).Once()

	plan, err := newGenerator(t, ai).Generate(context.Background(), "1", testRequest())
	require.NoError(t, err)

	assert.NotEmpty(t, plan.ID)
	assert.NotEqual(t, "upstream-id", plan.ID)
	assert.Equal(t, "Transição Defensiva", plan.Theme)
	assert.Equal(t, "Sub-17", plan.Category)
	assert.Equal(t, "15 min", plan.Duration)
	assert.Equal(t, "Rondo 4v4", plan.Title)
	assert.Len(t, plan.VisualData.Players, model.ExpectedPlayerCount)
	assert.NotNil(t, plan.ComplexityPrinciples)
}

func TestPlanGenerator_FreshIDPerCall(t *testing.T) {
	ai := mocks.NewMockAIClient(t)
	ai.On("GenerateJSON", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return(upstreamPlan, service.UsageInfo{}, nil).Twice()

	g := newGenerator(t, ai)
	p1, err := g.Generate(context.Background(), "1", testRequest())
	require.NoError(t, err)
	p2, err := g.Generate(context.Background(), "1", testRequest())
	require.NoError(t, err)
	assert.NotEqual(t, p1.ID, p2.ID)
}

func TestPlanGenerator_FastModelTier(t *testing.T) {
	ai := mocks.NewMockAIClient(t)
	ai.On("GenerateJSON", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything,
		service.GenerationParams{Model: "gemini-2.5-flash"}).
		Return(upstreamPlan, service.UsageInfo{}, nil).Once()

	req := testRequest()
	req.Model = model.ModelTierFast
	_, err := newGenerator(t, ai).Generate(context.Background(), "1", req)
	require.NoError(t, err)
}

func TestPlanGenerator_ValidationFailureSkipsAI(t *testing.T) {
	ai := mocks.NewMockAIClient(t)

	req := testRequest()
	req.Theme = "   "
	_, err := newGenerator(t, ai).Generate(context.Background(), "1", req)

	require.ErrorIs(t, err, model.ErrValidation)
	assert.NotErrorIs(t, err, model.ErrGenerationFailed)
	ai.AssertNotCalled(t, "GenerateJSON")
}

func TestPlanGenerator_FailuresCollapseToGenerationFailed(t *testing.T) {
	tests := []struct {
		name     string
		response string
		err      error
	}{
		{"network error", "", errors.New("dial tcp: connection refused")},
		{"wrapped auth error", "", errors.Join(model.ErrGenerationFailed, model.ErrMissingCredential)},
		{"empty response", "", nil},
		{"json null", "null", nil},
		{"not json", "Desculpe", nil},
		{"missing rules", `{"title":"t","description":"d","systemicFocus":"f","rules":[],"visualData":{"players":[]}}`, nil},
		{"bad team", `{"title":"t","description":"d","systemicFocus":"f","rules":["r"],"visualData":{"players":[{"team":"Z"}]}}`, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ai := mocks.NewMockAIClient(t)
			ai.On("GenerateJSON", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).
				Return(tt.response, service.UsageInfo{}, tt.err).Once()

			plan, err := newGenerator(t, ai).Generate(context.Background(), "1", testRequest())
			assert.Nil(t, plan)
			assert.ErrorIs(t, err, model.ErrGenerationFailed)
		})
	}
}

func TestPlanGenerator_ClampsUpstreamCoordinates(t *testing.T) {
	doc := `{"title":"t","description":"d","systemicFocus":"f","rules":["r"],
	  "visualData":{"players":[{"id":"x","team":"a","startX":-20,"startY":150,"endX":50,"endY":50}]}}`
	ai := mocks.NewMockAIClient(t)
	ai.On("GenerateJSON", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return(doc, service.UsageInfo{}, nil).Once()

	plan, err := newGenerator(t, ai).Generate(context.Background(), "1", testRequest())
	require.NoError(t, err)
	p := plan.VisualData.Players[0]
	assert.Equal(t, 0.0, p.StartX)
	assert.Equal(t, 100.0, p.StartY)
	assert.Equal(t, model.TeamA, p.Team)
}
