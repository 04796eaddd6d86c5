package service

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"jrc-server/internal/model"
)

func validPlanDoc() *model.GeneratedPlan {
	return &model.GeneratedPlan{
		Title:         " Rondo 4v4 ",
		Description:   "Jogo reduzido",
		SystemicFocus: "Reação à perda",
		Rules:         []string{"Máximo 2 toques"},
		VisualData: model.VisualData{Players: []model.PlayerPosition{
			{ID: "a1", Team: "A", StartX: 10, StartY: 10, EndX: 20, EndY: 20},
			{ID: "b1", Team: "B", StartX: 90, StartY: 90, EndX: 80, EndY: 80},
		}},
	}
}

func TestSanitizePlan_ValidDocumentUnchanged(t *testing.T) {
	plan := validPlanDoc()
	report, err := SanitizePlan(plan)
	require.NoError(t, err)

	assert.Equal(t, "Rondo 4v4", plan.Title)
	assert.Zero(t, report.ClampedCoordinates)
	assert.Equal(t, 2, report.PlayerCount)
	assert.NotNil(t, plan.ComplexityPrinciples)
	assert.NotNil(t, plan.EmergentBehaviors)
	assert.NotNil(t, plan.Setup.Materials)
}

func TestSanitizePlan_ClampsCoordinates(t *testing.T) {
	plan := validPlanDoc()
	plan.VisualData.Players[0].StartX = -5
	plan.VisualData.Players[0].EndY = 140
	plan.VisualData.Players[1].StartY = math.NaN()

	report, err := SanitizePlan(plan)
	require.NoError(t, err)

	assert.Equal(t, 3, report.ClampedCoordinates)
	for _, p := range plan.VisualData.Players {
		for _, v := range []float64{p.StartX, p.StartY, p.EndX, p.EndY} {
			assert.GreaterOrEqual(t, v, 0.0)
			assert.LessOrEqual(t, v, 100.0)
		}
	}
	assert.Equal(t, 0.0, plan.VisualData.Players[0].StartX)
	assert.Equal(t, 100.0, plan.VisualData.Players[0].EndY)
	assert.Equal(t, 0.0, plan.VisualData.Players[1].StartY)
}

func TestSanitizePlan_NormalizesTeams(t *testing.T) {
	plan := validPlanDoc()
	plan.VisualData.Players[0].Team = " a "
	plan.VisualData.Players[1].Team = "b"

	_, err := SanitizePlan(plan)
	require.NoError(t, err)
	assert.Equal(t, model.TeamA, plan.VisualData.Players[0].Team)
	assert.Equal(t, model.TeamB, plan.VisualData.Players[1].Team)
}

func TestSanitizePlan_RejectsUnknownTeam(t *testing.T) {
	plan := validPlanDoc()
	plan.VisualData.Players[1].Team = "C"

	_, err := SanitizePlan(plan)
	assert.ErrorIs(t, err, model.ErrMalformedPlan)
}

func TestSanitizePlan_FillsAndDeduplicatesIDs(t *testing.T) {
	plan := validPlanDoc()
	plan.VisualData.Players = append(plan.VisualData.Players,
		model.PlayerPosition{ID: "", Team: "A"},
		model.PlayerPosition{ID: "a1", Team: "B"},
		model.PlayerPosition{ID: "a1", Team: "B"},
	)

	report, err := SanitizePlan(plan)
	require.NoError(t, err)

	ids := make([]string, 0, len(plan.VisualData.Players))
	for _, p := range plan.VisualData.Players {
		ids = append(ids, p.ID)
	}
	assert.Equal(t, []string{"a1", "b1", "p3", "a1-2", "a1-3"}, ids)
	assert.Equal(t, 1, report.FilledIDs)
	assert.Equal(t, 2, report.RenamedIDs)
}

func TestSanitizePlan_RequiredFields(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(p *model.GeneratedPlan)
	}{
		{"blank title", func(p *model.GeneratedPlan) { p.Title = "  " }},
		{"no description", func(p *model.GeneratedPlan) { p.Description = "" }},
		{"no systemic focus", func(p *model.GeneratedPlan) { p.SystemicFocus = "" }},
		{"nil rules", func(p *model.GeneratedPlan) { p.Rules = nil }},
		{"only blank rules", func(p *model.GeneratedPlan) { p.Rules = []string{" ", ""} }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			plan := validPlanDoc()
			tt.mutate(plan)
			_, err := SanitizePlan(plan)
			assert.ErrorIs(t, err, model.ErrMalformedPlan)
		})
	}
}

func TestSanitizePlan_NoPlayersStillValid(t *testing.T) {
	plan := validPlanDoc()
	plan.VisualData.Players = nil

	report, err := SanitizePlan(plan)
	require.NoError(t, err)
	assert.Equal(t, 0, report.PlayerCount)
	assert.NotNil(t, plan.VisualData.Players)
}
