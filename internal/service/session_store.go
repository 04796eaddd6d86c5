package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"jrc-server/internal/model"
	"jrc-server/internal/repository"
)

// SessionStore держит текущую сессию и историю планов в памяти и синхронно
// сохраняет их в StateRepository. Мутации сериализуются.
type SessionStore struct {
	repo   repository.StateRepository
	limit  int
	logger *zap.Logger

	mu      sync.RWMutex
	session *model.Session
	history []model.GeneratedPlan
}

func NewSessionStore(repo repository.StateRepository, historyLimit int, logger *zap.Logger) *SessionStore {
	if historyLimit <= 0 {
		historyLimit = model.DefaultHistoryLimit
	}
	return &SessionStore{
		repo:    repo,
		limit:   historyLimit,
		logger:  logger.Named("SessionStore"),
		history: []model.GeneratedPlan{},
	}
}

// Restore читает сохранённое состояние. Отсутствующие, нечитаемые или битые
// данные молча дают "нет сессии" и пустую историю.
func (s *SessionStore) Restore(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.session = nil
	var session model.Session
	if s.loadJSON(ctx, model.StateKeySession, &session) {
		if session.ID != "" {
			s.session = &session
		} else {
			s.logger.Warn("Stored session has no id, ignoring", zap.Error(model.ErrPersistenceCorruption))
		}
	}

	s.history = []model.GeneratedPlan{}
	var history []model.GeneratedPlan
	if s.loadJSON(ctx, model.StateKeyHistory, &history) && history != nil {
		if len(history) > s.limit {
			history = history[:s.limit]
		}
		for i := range history {
			history[i].EnsureSlices()
		}
		s.history = history
	}

	s.logger.Info("State restored",
		zap.Bool("has_session", s.session != nil),
		zap.Int("history_size", len(s.history)))
}

// loadJSON возвращает false, если ключа нет или данные не читаются.
func (s *SessionStore) loadJSON(ctx context.Context, key string, out any) bool {
	data, err := s.repo.Load(ctx, key)
	if err != nil {
		if !errors.Is(err, model.ErrStateNotFound) {
			s.logger.Warn("Failed to read persisted state, treating as empty", zap.String("key", key), zap.Error(err))
		}
		return false
	}
	if err := json.Unmarshal(data, out); err != nil {
		s.logger.Warn("Persisted state is corrupt, treating as empty",
			zap.String("key", key),
			zap.Error(fmt.Errorf("%w: %v", model.ErrPersistenceCorruption, err)))
		return false
	}
	return true
}

// Login создаёт фиксированного пользователя и сохраняет его. Повторный вход идемпотентен.
func (s *SessionStore) Login(ctx context.Context) (model.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	session := model.PlaceholderSession()
	if err := s.saveJSON(ctx, model.StateKeySession, session); err != nil {
		return model.Session{}, err
	}
	s.session = &session
	s.logger.Info("Session started", zap.String("user_id", session.ID))
	return session, nil
}

// Logout удаляет сессию. История остаётся.
func (s *SessionStore) Logout(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.repo.Delete(ctx, model.StateKeySession); err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}
	s.session = nil
	s.logger.Info("Session ended")
	return nil
}

// CurrentSession возвращает текущую сессию, если вход выполнен.
func (s *SessionStore) CurrentSession() (model.Session, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.session == nil {
		return model.Session{}, false
	}
	return *s.session, true
}

// RecordPlan добавляет план в начало истории и обрезает её до лимита.
// Возвращает id планов, вытесненных из истории.
// Ошибка сохранения возвращается, память остаётся в прежнем состоянии.
func (s *SessionStore) RecordPlan(ctx context.Context, plan model.GeneratedPlan) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := make([]model.GeneratedPlan, 0, min(len(s.history)+1, s.limit))
	next = append(next, plan)
	var evicted []string
	for _, p := range s.history {
		if len(next) == s.limit {
			evicted = append(evicted, p.ID)
			continue
		}
		next = append(next, p)
	}

	if err := s.saveJSON(ctx, model.StateKeyHistory, next); err != nil {
		return nil, err
	}
	s.history = next
	s.logger.Debug("Plan recorded",
		zap.String("plan_id", plan.ID),
		zap.Int("history_size", len(next)),
		zap.Strings("evicted", evicted))
	return evicted, nil
}

// DeletePlan удаляет план с данным id. Отсутствующий id не ошибка.
// Возвращает true, если что-то было удалено.
func (s *SessionStore) DeletePlan(ctx context.Context, id string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := make([]model.GeneratedPlan, 0, len(s.history))
	for _, p := range s.history {
		if p.ID != id {
			next = append(next, p)
		}
	}
	if len(next) == len(s.history) {
		return false, nil
	}

	if err := s.saveJSON(ctx, model.StateKeyHistory, next); err != nil {
		return false, err
	}
	s.history = next
	s.logger.Debug("Plan deleted", zap.String("plan_id", id), zap.Int("history_size", len(next)))
	return true, nil
}

// History возвращает копию истории, новые планы первыми.
func (s *SessionStore) History() []model.GeneratedPlan {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]model.GeneratedPlan{}, s.history...)
}

// GetPlan ищет план в истории.
func (s *SessionStore) GetPlan(id string) (model.GeneratedPlan, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, p := range s.history {
		if p.ID == id {
			return p, nil
		}
	}
	return model.GeneratedPlan{}, fmt.Errorf("%w: %s", model.ErrPlanNotFound, id)
}

func (s *SessionStore) saveJSON(ctx context.Context, key string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to marshal %s: %w", key, err)
	}
	if err := s.repo.Save(ctx, key, data); err != nil {
		s.logger.Error("Failed to persist state", zap.String("key", key), zap.Error(err))
		return fmt.Errorf("failed to persist %s: %w", key, err)
	}
	return nil
}
