package messaging

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"
)

const appID = "jrc-server"

var _ Publisher = (*RabbitMQPublisher)(nil)

// RabbitMQPublisher публикует события в durable очередь через default exchange.
type RabbitMQPublisher struct {
	conn      *amqp.Connection
	channel   *amqp.Channel
	queueName string
	mu        sync.Mutex
	logger    *zap.Logger
}

// ConnectRabbitMQ подключается с несколькими попытками, открывает канал и объявляет очередь.
func ConnectRabbitMQ(ctx context.Context, url, queueName string, logger *zap.Logger) (*RabbitMQPublisher, error) {
	const maxRetries = 5
	retryDelay := 2 * time.Second

	var conn *amqp.Connection
	var err error
	for i := 1; i <= maxRetries; i++ {
		conn, err = amqp.Dial(url)
		if err == nil {
			break
		}
		logger.Warn("Не удалось подключиться к RabbitMQ",
			zap.Int("attempt", i),
			zap.Int("max_attempts", maxRetries),
			zap.Duration("retry_delay", retryDelay),
			zap.Error(err),
		)
		if i == maxRetries {
			return nil, fmt.Errorf("не удалось подключиться к RabbitMQ: %w", err)
		}
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(retryDelay):
		}
	}

	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("не удалось открыть канал RabbitMQ: %w", err)
	}

	if _, err := ch.QueueDeclare(
		queueName,
		true,  // durable
		false, // autoDelete
		false, // exclusive
		false, // noWait
		amqp.Table{"x-queue-mode": "lazy"},
	); err != nil {
		_ = ch.Close()
		_ = conn.Close()
		return nil, fmt.Errorf("не удалось объявить очередь '%s': %w", queueName, err)
	}

	logger.Info("RabbitMQ publisher ready", zap.String("queue", queueName))
	return &RabbitMQPublisher{
		conn:      conn,
		channel:   ch,
		queueName: queueName,
		logger:    logger.Named("PlanEventPublisher"),
	}, nil
}

// Publish отправляет событие как persistent JSON сообщение.
func (p *RabbitMQPublisher) Publish(ctx context.Context, event PlanEvent) error {
	body, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("ошибка сериализации события %s: %w", event.Type, err)
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	err = p.channel.PublishWithContext(ctx,
		"",
		p.queueName,
		false,
		false,
		amqp.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp.Persistent,
			Body:         body,
			Timestamp:    event.OccurredAt,
			AppId:        appID,
			MessageId:    event.EventID,
			Type:         string(event.Type),
		},
	)
	if err != nil {
		p.logger.Error("Ошибка публикации события", zap.String("type", string(event.Type)), zap.String("plan_id", event.PlanID), zap.Error(err))
		return fmt.Errorf("ошибка публикации события %s для плана %s: %w", event.Type, event.PlanID, err)
	}
	p.logger.Debug("Event published", zap.String("type", string(event.Type)), zap.String("plan_id", event.PlanID))
	return nil
}

// Close закрывает канал и соединение.
func (p *RabbitMQPublisher) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	chErr := p.channel.Close()
	connErr := p.conn.Close()
	if chErr != nil {
		return chErr
	}
	return connErr
}
