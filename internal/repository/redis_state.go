package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"jrc-server/internal/model"
)

var _ StateRepository = (*RedisStateRepository)(nil)

// RedisStateRepository хранит состояние в Redis под ключами с префиксом.
type RedisStateRepository struct {
	client    redis.Cmdable
	keyPrefix string
	logger    *zap.Logger
}

func NewRedisStateRepository(client redis.Cmdable, keyPrefix string, logger *zap.Logger) *RedisStateRepository {
	return &RedisStateRepository{
		client:    client,
		keyPrefix: keyPrefix,
		logger:    logger.Named("RedisStateRepo"),
	}
}

func (r *RedisStateRepository) key(k string) string {
	return r.keyPrefix + k
}

func (r *RedisStateRepository) Load(ctx context.Context, key string) ([]byte, error) {
	val, err := r.client.Get(ctx, r.key(key)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, model.ErrStateNotFound
		}
		r.logger.Error("Error loading state from redis", zap.String("key", key), zap.Error(err))
		return nil, fmt.Errorf("failed to load state key %s from redis: %w", key, err)
	}
	return val, nil
}

func (r *RedisStateRepository) Save(ctx context.Context, key string, value []byte) error {
	// Без TTL: состояние живёт до выхода из сессии.
	if err := r.client.Set(ctx, r.key(key), value, 0).Err(); err != nil {
		r.logger.Error("Error saving state to redis", zap.String("key", key), zap.Error(err))
		return fmt.Errorf("failed to save state key %s to redis: %w", key, err)
	}
	return nil
}

func (r *RedisStateRepository) Delete(ctx context.Context, key string) error {
	if err := r.client.Del(ctx, r.key(key)).Err(); err != nil {
		r.logger.Error("Error deleting state from redis", zap.String("key", key), zap.Error(err))
		return fmt.Errorf("failed to delete state key %s from redis: %w", key, err)
	}
	return nil
}
