package render

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"jrc-server/internal/model"
	"jrc-server/internal/prompts"
)

func testLabels() prompts.ShareLabels {
	return prompts.ShareLabels{
		Header:               "Sheet",
		Theme:                "Theme",
		Dynamics:             "Dynamics",
		Setup:                "Setup",
		Players:              "Players",
		Dimensions:           "Dimensions",
		Materials:            "Materials",
		Rules:                "Rules",
		SystemicFocus:        "Systemic focus",
		ComplexityPrinciples: "Complexity principles",
		EmergentBehaviors:    "Emergent behaviours",
	}
}

func fullPlan() model.GeneratedPlan {
	return model.GeneratedPlan{
		ID:            "p-1",
		Title:         "Transição defensiva",
		Description:   "4v4 com recuperação em 6 segundos.",
		Theme:         "Defensive transition",
		Category:      "U17",
		Duration:      "15 min",
		SystemicFocus: "Pressão pós-perda",
		Rules:         []string{"Gol vale 2 após recuperação", "Máximo 3 toques"},
		Setup: model.Setup{
			Players:    "4 vs 4",
			Dimensions: "30x20m",
			Materials:  []string{"cones", "coletes"},
		},
		ComplexityPrinciples: []string{"Interação"},
		EmergentBehaviors:    []string{"Contra-pressão"},
	}
}

func TestShareSummary_FullPlan(t *testing.T) {
	got := ShareSummary(fullPlan(), testLabels())

	want := strings.Join([]string{
		"Sheet",
		"TRANSIÇÃO DEFENSIVA",
		"U17 • 15 min",
		"Theme: Defensive transition",
		"",
		"DYNAMICS",
		"4v4 com recuperação em 6 segundos.",
		"",
		"SETUP",
		"Players: 4 vs 4",
		"Dimensions: 30x20m",
		"Materials: cones, coletes",
		"",
		"RULES",
		"1. Gol vale 2 após recuperação",
		"2. Máximo 3 toques",
		"",
		"SYSTEMIC FOCUS",
		"Pressão pós-perda",
		"",
		"COMPLEXITY PRINCIPLES",
		"- Interação",
		"",
		"EMERGENT BEHAVIOURS",
		"- Contra-pressão",
	}, "\n") + "\n"

	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("ShareSummary mismatch (-want +got):\n%s", diff)
	}
}

func TestShareSummary_SkipsEmptySections(t *testing.T) {
	plan := model.GeneratedPlan{Title: "Rondo", Rules: []string{"Dois toques"}, Duration: "10 min"}

	got := ShareSummary(plan, testLabels())

	assert.Contains(t, got, "RONDO\n10 min\n")
	assert.Contains(t, got, "1. Dois toques")
	assert.NotContains(t, got, "SETUP")
	assert.NotContains(t, got, "COMPLEXITY PRINCIPLES")
	assert.NotContains(t, got, "Theme:")
	assert.True(t, strings.HasSuffix(got, "Dois toques\n"))
}

func TestShareSummary_WithCatalogLabels(t *testing.T) {
	catalog, err := prompts.Load(zap.NewNop())
	require.NoError(t, err)

	got := ShareSummary(fullPlan(), catalog.ShareLabels("pt"))

	assert.Contains(t, got, "FOCO SISTÊMICO")
	assert.Contains(t, got, "Materiais: cones, coletes")
}
