package prompts

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"jrc-server/internal/model"
)

func loadCatalog(t *testing.T) *Catalog {
	t.Helper()
	c, err := Load(zap.NewNop())
	require.NoError(t, err)
	return c
}

func TestLoad_EmbeddedCatalog(t *testing.T) {
	c := loadCatalog(t)

	sys, err := c.Prompt(KeySystem, "pt")
	require.NoError(t, err)
	assert.Contains(t, sys, "Periodização Tática")

	assert.Equal(t, "Erro ao conectar com a IA. Verifique sua chave API.", c.Message(MessageGenerationFailed, "pt"))
	assert.Equal(t, "SISTEMATIZANDO...", c.LoadingMessages("pt")[0])
	assert.Equal(t, "Foco Sistêmico", c.ShareLabels("pt").SystemicFocus)
}

func TestRenderPlanPrompt_ContainsAllFields(t *testing.T) {
	c := loadCatalog(t)
	req := model.GenerationRequest{Theme: "Transição Defensiva", Category: "Sub-17", Duration: "15 min", Intensity: model.IntensityHigh}

	prompt, err := c.RenderPlanPrompt(req, "pt")
	require.NoError(t, err)
	assert.Contains(t, prompt, "TEMA: Transição Defensiva")
	assert.Contains(t, prompt, "CATEGORIA: Sub-17")
	assert.Contains(t, prompt, "DURAÇÃO ESTIMADA: 15 min")
	assert.Contains(t, prompt, "INTENSIDADE: high")
	assert.Contains(t, prompt, "8 jogadores (4 vs 4)")
	assert.NotContains(t, prompt, "{{")
}

func TestCatalog_UnknownLanguageFallsBack(t *testing.T) {
	c := loadCatalog(t)

	prompt, err := c.Prompt(KeySystem, "de")
	require.NoError(t, err)
	assert.Contains(t, prompt, "Tactical Periodization")
	assert.Equal(t, "SYSTEMATISING...", c.LoadingMessages("de")[0])
}

func TestCatalog_UnknownLanguageWarnsOnce(t *testing.T) {
	core, logs := observer.New(zapcore.WarnLevel)
	c, err := Load(zap.New(core))
	require.NoError(t, err)

	assert.Equal(t, "en", c.ResolveLanguage("de"))
	assert.Equal(t, 1, logs.FilterMessage("Language not found in catalog, using fallback").Len())

	for i := 0; i < 5; i++ {
		c.Message(MessageGenerationFailed, "de")
		c.LoadingMessages("de")
		c.ShareLabels("de")
		_, err := c.RenderPlanPrompt(model.GenerationRequest{Theme: "t"}, "de")
		require.NoError(t, err)
	}
	assert.Equal(t, 1, logs.Len(), "per-request lookups must not log")

	assert.Equal(t, "pt", c.ResolveLanguage("pt"))
	assert.Equal(t, 1, logs.Len())
}

func TestCatalog_MissingKey(t *testing.T) {
	c := loadCatalog(t)
	_, err := c.Prompt("unknown", "pt")
	assert.ErrorIs(t, err, ErrPromptNotFound)
	assert.Equal(t, "unknown", c.Message("unknown", "pt"))
}

func TestLoadingMessages_ReturnsCopy(t *testing.T) {
	c := loadCatalog(t)
	msgs := c.LoadingMessages("pt")
	msgs[0] = "changed"
	assert.Equal(t, "SISTEMATIZANDO...", c.LoadingMessages("pt")[0])
}

func TestParse_Invalid(t *testing.T) {
	tests := []struct {
		name string
		yaml string
	}{
		{"not yaml", "languages: [:"},
		{"no languages", "fallback_language: en"},
		{"missing fallback", "fallback_language: en\nlanguages:\n  pt:\n    prompts: {system: a, plan: b}\n    loading: [x]\n"},
		{"missing plan prompt", "fallback_language: pt\nlanguages:\n  pt:\n    prompts: {system: a}\n    loading: [x]\n"},
		{"missing loading", "fallback_language: pt\nlanguages:\n  pt:\n    prompts: {system: a, plan: b}\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.yaml), nil)
			assert.Error(t, err)
		})
	}
}
