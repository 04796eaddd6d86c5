package model

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewGenerationRequest_DefaultsIntensity(t *testing.T) {
	req, err := NewGenerationRequest("Transição Defensiva", "Sub-17", "15 min", "")
	require.NoError(t, err)
	assert.Equal(t, IntensityMedium, req.Intensity)
	assert.Equal(t, ModelTierQuality, req.Model)
}

func TestNewGenerationRequest_TrimsFields(t *testing.T) {
	req, err := NewGenerationRequest("  Pressão  ", " Sub-15", "20 min ", IntensityHigh)
	require.NoError(t, err)
	assert.Equal(t, "Pressão", req.Theme)
	assert.Equal(t, "Sub-15", req.Category)
	assert.Equal(t, "20 min", req.Duration)
}

func TestNewGenerationRequest_RejectsBlankFields(t *testing.T) {
	tests := []struct {
		name                      string
		theme, category, duration string
		field                     string
	}{
		{"blank theme", "   ", "Sub-17", "15 min", "theme"},
		{"empty category", "Pressão", "", "15 min", "category"},
		{"blank duration", "Pressão", "Sub-17", "\t", "duration"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewGenerationRequest(tt.theme, tt.category, tt.duration, IntensityLow)
			require.ErrorIs(t, err, ErrValidation)
			assert.Contains(t, err.Error(), tt.field)
		})
	}
}

func TestGenerationRequest_RejectsUnknownIntensity(t *testing.T) {
	_, err := NewGenerationRequest("Pressão", "Sub-17", "15 min", "extreme")
	require.ErrorIs(t, err, ErrValidation)
	assert.Contains(t, err.Error(), "intensity")
}

func TestGenerationRequest_RejectsUnknownModelTier(t *testing.T) {
	req := GenerationRequest{Theme: "a", Category: "b", Duration: "c", Model: "turbo"}.Normalize()
	require.ErrorIs(t, req.Validate(), ErrValidation)
}

func TestGeneratedPlan_EnsureSlicesMarshalsEmptyArrays(t *testing.T) {
	var p GeneratedPlan
	p.EnsureSlices()

	data, err := json.Marshal(p)
	require.NoError(t, err)
	assert.NotContains(t, string(data), "null")
	assert.Contains(t, string(data), `"rules":[]`)
	assert.Contains(t, string(data), `"players":[]`)
}

func TestPlaceholderSession(t *testing.T) {
	s := PlaceholderSession()
	assert.Equal(t, "1", s.ID)
	assert.Equal(t, "Treinador Pro", s.Name)
	assert.Equal(t, "coach@elite.com", s.Email)
	assert.Equal(t, UserStatusActive, s.Status)
}
