package replay

import (
	"sync"
	"time"

	"go.uber.org/zap"

	"jrc-server/internal/model"
)

// Registry хранит реплеи по id плана. Реплей создаётся при первом обращении.
type Registry struct {
	duration time.Duration
	logger   *zap.Logger

	mu      sync.Mutex
	replays map[string]*Replay
}

func NewRegistry(duration time.Duration, logger *zap.Logger) *Registry {
	return &Registry{
		duration: duration,
		logger:   logger.Named("ReplayRegistry"),
		replays:  make(map[string]*Replay),
	}
}

// PlanLookup ищет план по id. Ошибка означает, что плана больше нет.
type PlanLookup func(planID string) (model.GeneratedPlan, error)

// Get возвращает реплей плана, создавая его в состоянии Idle.
// lookup вызывается под блокировкой реестра, поэтому реплей не создаётся
// для плана, уже удалённого из истории: Drop после удаления его не пропустит.
func (g *Registry) Get(planID string, lookup PlanLookup) (*Replay, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	plan, err := lookup(planID)
	if err != nil {
		if r, ok := g.replays[planID]; ok {
			r.Close()
			delete(g.replays, planID)
		}
		return nil, err
	}
	if r, ok := g.replays[plan.ID]; ok {
		return r, nil
	}
	r := New(plan.ID, plan.VisualData.Players, g.duration)
	g.replays[plan.ID] = r
	g.logger.Debug("Replay created", zap.String("plan_id", plan.ID), zap.Int("markers", len(plan.VisualData.Players)))
	return r, nil
}

// Drop закрывает и удаляет реплей плана, если он есть.
func (g *Registry) Drop(planID string) {
	g.mu.Lock()
	r, ok := g.replays[planID]
	delete(g.replays, planID)
	g.mu.Unlock()

	if ok {
		r.Close()
		g.logger.Debug("Replay dropped", zap.String("plan_id", planID))
	}
}

// Len - число активных реплеев.
func (g *Registry) Len() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return len(g.replays)
}

// Close останавливает все таймеры.
func (g *Registry) Close() {
	g.mu.Lock()
	replays := g.replays
	g.replays = make(map[string]*Replay)
	g.mu.Unlock()

	for _, r := range replays {
		r.Close()
	}
}
