package messaging

import (
	"context"
	"time"

	"github.com/google/uuid"

	"jrc-server/internal/model"
)

// EventType - тип события жизненного цикла плана.
type EventType string

const (
	EventPlanGenerated EventType = "plan.generated"
	EventPlanDeleted   EventType = "plan.deleted"
)

// PlanEvent - тело сообщения о плане.
type PlanEvent struct {
	EventID    string    `json:"eventId"`
	Type       EventType `json:"type"`
	PlanID     string    `json:"planId"`
	UserID     string    `json:"userId"`
	Title      string    `json:"title,omitempty"`
	Theme      string    `json:"theme,omitempty"`
	Category   string    `json:"category,omitempty"`
	Duration   string    `json:"duration,omitempty"`
	OccurredAt time.Time `json:"occurredAt"`
}

// Publisher отправляет события о планах. Ошибки публикации не должны ломать запрос.
type Publisher interface {
	Publish(ctx context.Context, event PlanEvent) error
	Close() error
}

func NewPlanGeneratedEvent(userID string, plan model.GeneratedPlan) PlanEvent {
	return PlanEvent{
		EventID:    uuid.NewString(),
		Type:       EventPlanGenerated,
		PlanID:     plan.ID,
		UserID:     userID,
		Title:      plan.Title,
		Theme:      plan.Theme,
		Category:   plan.Category,
		Duration:   plan.Duration,
		OccurredAt: time.Now().UTC(),
	}
}

func NewPlanDeletedEvent(userID, planID string) PlanEvent {
	return PlanEvent{
		EventID:    uuid.NewString(),
		Type:       EventPlanDeleted,
		PlanID:     planID,
		UserID:     userID,
		OccurredAt: time.Now().UTC(),
	}
}

// NoopPublisher используется, когда RABBITMQ_URL не задан.
type NoopPublisher struct{}

func (NoopPublisher) Publish(context.Context, PlanEvent) error { return nil }
func (NoopPublisher) Close() error                             { return nil }
