package main

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"jrc-server/internal/config"
	"jrc-server/internal/database"
	"jrc-server/internal/repository"
)

// stateBackend - выбранное хранилище и то, что нужно закрыть при остановке.
type stateBackend struct {
	repo  repository.StateRepository
	redis *redis.Client
	close func()
}

func openPostgres(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*pgxpool.Pool, error) {
	logger.Info("Connecting to PostgreSQL", zap.String("dsn", cfg.MaskedDSN()))
	return database.Connect(ctx, database.PoolConfig{
		DSN:         cfg.GetDSN(),
		MaxConns:    cfg.DBMaxConns,
		IdleTimeout: cfg.DBIdleTimeout,
		MaxAttempts: 10,
		RetryDelay:  3 * time.Second,
	}, logger)
}

func openRedis(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})
	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to ping redis at %s: %w", cfg.RedisAddr, err)
	}
	logger.Info("Connected to Redis", zap.String("addr", cfg.RedisAddr))
	return client, nil
}

// openStateBackend создаёт хранилище сессии и истории по STATE_BACKEND.
func openStateBackend(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*stateBackend, error) {
	switch cfg.StateBackend {
	case config.StateBackendMemory:
		logger.Warn("Using in-memory state, history is lost on restart")
		return &stateBackend{repo: repository.NewMemoryStateRepository(), close: func() {}}, nil

	case config.StateBackendSQLite:
		repo, err := repository.NewSQLiteStateRepository(ctx, cfg.StateSQLitePath, logger)
		if err != nil {
			return nil, err
		}
		return &stateBackend{repo: repo, close: func() { _ = repo.Close() }}, nil

	case config.StateBackendPostgres:
		pool, err := openPostgres(ctx, cfg, logger)
		if err != nil {
			return nil, err
		}
		if err := database.NewMigrator(pool, logger).Up(); err != nil {
			pool.Close()
			return nil, fmt.Errorf("failed to apply migrations: %w", err)
		}
		return &stateBackend{repo: repository.NewPostgresStateRepository(pool, logger), close: pool.Close}, nil

	case config.StateBackendRedis:
		client, err := openRedis(ctx, cfg, logger)
		if err != nil {
			return nil, err
		}
		return &stateBackend{
			repo:  repository.NewRedisStateRepository(client, cfg.RedisKeyPrefix, logger),
			redis: client,
			close: func() { _ = client.Close() },
		}, nil

	default:
		return nil, fmt.Errorf("unsupported STATE_BACKEND %q", cfg.StateBackend)
	}
}
