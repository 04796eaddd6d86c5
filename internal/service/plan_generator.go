package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"jrc-server/internal/model"
	"jrc-server/internal/prompts"
	"jrc-server/internal/schemas"
)

// Generator - операция генерации плана, используемая транспортом.
type Generator interface {
	Generate(ctx context.Context, userID string, req model.GenerationRequest) (*model.GeneratedPlan, error)
}

// PlanGeneratorConfig - настройки генератора.
type PlanGeneratorConfig struct {
	Language     string
	QualityModel string
	FastModel    string
}

// PlanGenerator строит промт, делает один вызов модели и превращает ответ в план.
// Побочных эффектов нет: запись в историю делает вызывающий.
type PlanGenerator struct {
	ai      AIClient
	catalog *prompts.Catalog
	cfg     PlanGeneratorConfig
	schema  ResponseSchema
	newID   func() string
	now     func() time.Time
	logger  *zap.Logger
}

var _ Generator = (*PlanGenerator)(nil)

func NewPlanGenerator(ai AIClient, catalog *prompts.Catalog, cfg PlanGeneratorConfig, logger *zap.Logger) *PlanGenerator {
	cfg.Language = catalog.ResolveLanguage(cfg.Language)
	return &PlanGenerator{
		ai:      ai,
		catalog: catalog,
		cfg:     cfg,
		schema: ResponseSchema{
			Name:  schemas.PlanSchemaName,
			JSON:  schemas.PlanJSONSchema,
			GenAI: schemas.PlanGenAISchema(),
		},
		newID:  uuid.NewString,
		now:    time.Now,
		logger: logger.Named("PlanGenerator"),
	}
}

// Generate возвращает план или ошибку, оборачивающую ErrValidation или ErrGenerationFailed.
func (g *PlanGenerator) Generate(ctx context.Context, userID string, req model.GenerationRequest) (*model.GeneratedPlan, error) {
	req = req.Normalize()
	if err := req.Validate(); err != nil {
		return nil, err
	}
	log := g.logger.With(
		zap.String("user_id", userID),
		zap.String("theme", req.Theme),
		zap.String("category", req.Category),
		zap.String("model_tier", string(req.Model)),
	)

	systemPrompt, err := g.catalog.Prompt(prompts.KeySystem, g.cfg.Language)
	if err != nil {
		log.Error("Failed to get system prompt", zap.Error(err))
		return nil, fmt.Errorf("%w: %v", model.ErrGenerationFailed, err)
	}
	userPrompt, err := g.catalog.RenderPlanPrompt(req, g.cfg.Language)
	if err != nil {
		log.Error("Failed to render plan prompt", zap.Error(err))
		return nil, fmt.Errorf("%w: %v", model.ErrGenerationFailed, err)
	}

	start := g.now()
	raw, usage, err := g.ai.GenerateJSON(ctx, userID, systemPrompt, userPrompt, g.schema, GenerationParams{Model: g.modelFor(req.Model)})
	if err != nil {
		log.Error("AI generation failed", zap.Error(err))
		if !errors.Is(err, model.ErrGenerationFailed) {
			err = fmt.Errorf("%w: %v", model.ErrGenerationFailed, err)
		}
		return nil, err
	}

	plan, err := schemas.ParsePlanDocument(raw)
	if err != nil {
		log.Error("Failed to parse AI plan document", zap.Error(err), zap.Int("response_bytes", len(raw)))
		return nil, fmt.Errorf("%w: %w", model.ErrGenerationFailed, err)
	}

	report, err := SanitizePlan(plan)
	if err != nil {
		log.Error("AI plan document failed validation", zap.Error(err))
		return nil, fmt.Errorf("%w: %w", model.ErrGenerationFailed, err)
	}
	if report.ClampedCoordinates > 0 || report.FilledIDs > 0 || report.RenamedIDs > 0 {
		log.Warn("AI visual data corrected",
			zap.Int("clamped_coordinates", report.ClampedCoordinates),
			zap.Int("filled_ids", report.FilledIDs),
			zap.Int("renamed_ids", report.RenamedIDs))
	}
	if report.PlayerCount != model.ExpectedPlayerCount {
		log.Warn("Unexpected number of players in visual data",
			zap.Int("expected", model.ExpectedPlayerCount),
			zap.Int("actual", report.PlayerCount))
	}

	plan.ID = g.newID()
	plan.Theme = req.Theme
	plan.Category = req.Category
	plan.Duration = req.Duration

	log.Info("Plan generated",
		zap.String("plan_id", plan.ID),
		zap.Duration("duration", g.now().Sub(start)),
		zap.Int("total_tokens", usage.TotalTokens))
	return plan, nil
}

func (g *PlanGenerator) modelFor(tier model.ModelTier) string {
	if tier == model.ModelTierFast && g.cfg.FastModel != "" {
		return g.cfg.FastModel
	}
	return g.cfg.QualityModel
}
