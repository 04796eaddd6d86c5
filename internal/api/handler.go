package api

import (
	"context"
	"time"

	"go.uber.org/zap"

	"jrc-server/internal/messaging"
	"jrc-server/internal/model"
	"jrc-server/internal/prompts"
	"jrc-server/internal/replay"
	"jrc-server/internal/service"
)

// HandlerConfig - настройки транспорта.
type HandlerConfig struct {
	Language        string
	LoadingInterval time.Duration
	PublishTimeout  time.Duration
}

// PlanHandler обслуживает HTTP и WebSocket API генерации планов.
type PlanHandler struct {
	store     *service.SessionStore
	generator service.Generator
	replays   *replay.Registry
	publisher messaging.Publisher
	catalog   *prompts.Catalog
	cfg       HandlerConfig
	logger    *zap.Logger
}

func NewPlanHandler(
	store *service.SessionStore,
	generator service.Generator,
	replays *replay.Registry,
	publisher messaging.Publisher,
	catalog *prompts.Catalog,
	cfg HandlerConfig,
	logger *zap.Logger,
) *PlanHandler {
	if publisher == nil {
		publisher = messaging.NoopPublisher{}
	}
	if cfg.PublishTimeout <= 0 {
		cfg.PublishTimeout = 5 * time.Second
	}
	cfg.Language = catalog.ResolveLanguage(cfg.Language)
	return &PlanHandler{
		store:     store,
		generator: generator,
		replays:   replays,
		publisher: publisher,
		catalog:   catalog,
		cfg:       cfg,
		logger:    logger.Named("PlanHandler"),
	}
}

// generateAndRecord - общий путь HTTP и WebSocket: генерация, запись в историю, событие.
// Неудачная генерация не трогает историю.
func (h *PlanHandler) generateAndRecord(ctx context.Context, userID string, req model.GenerationRequest) (*model.GeneratedPlan, error) {
	plan, err := h.generator.Generate(ctx, userID, req)
	if err != nil {
		return nil, err
	}
	evicted, err := h.store.RecordPlan(ctx, *plan)
	if err != nil {
		return nil, err
	}
	for _, id := range evicted {
		h.replays.Drop(id)
	}
	h.publish(ctx, messaging.NewPlanGeneratedEvent(userID, *plan))
	return plan, nil
}

// publish логирует ошибку публикации и не возвращает её.
func (h *PlanHandler) publish(ctx context.Context, event messaging.PlanEvent) {
	pubCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), h.cfg.PublishTimeout)
	defer cancel()
	if err := h.publisher.Publish(pubCtx, event); err != nil {
		h.logger.Warn("Failed to publish plan event",
			zap.String("event_type", string(event.Type)),
			zap.String("plan_id", event.PlanID),
			zap.Error(err))
	}
}
