package database

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

// PoolConfig - параметры пула соединений PostgreSQL.
type PoolConfig struct {
	DSN         string
	MaxConns    int32
	IdleTimeout time.Duration
	MaxAttempts int
	RetryDelay  time.Duration
}

// Connect создаёт пул и ждёт, пока база ответит на Ping, с повторами.
func Connect(ctx context.Context, cfg PoolConfig, logger *zap.Logger) (*pgxpool.Pool, error) {
	poolConfig, err := pgxpool.ParseConfig(cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("ошибка парсинга DSN: %w", err)
	}
	if cfg.MaxConns > 0 {
		poolConfig.MaxConns = cfg.MaxConns
	}
	if cfg.IdleTimeout > 0 {
		poolConfig.MaxConnIdleTime = cfg.IdleTimeout
	}
	attempts := cfg.MaxAttempts
	if attempts <= 0 {
		attempts = 5
	}
	delay := cfg.RetryDelay
	if delay <= 0 {
		delay = 2 * time.Second
	}

	var lastErr error
	for i := 1; i <= attempts; i++ {
		pool, err := tryConnect(ctx, poolConfig)
		if err == nil {
			logger.Info("Успешное подключение к PostgreSQL", zap.Int("attempt", i))
			return pool, nil
		}
		lastErr = err
		logger.Warn("Не удалось подключиться к PostgreSQL",
			zap.Int("attempt", i),
			zap.Int("max_attempts", attempts),
			zap.Duration("retry_delay", delay),
			zap.Error(err),
		)
		if i == attempts {
			break
		}
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(delay):
		}
	}
	return nil, fmt.Errorf("не удалось подключиться к БД после %d попыток: %w", attempts, lastErr)
}

func tryConnect(ctx context.Context, poolConfig *pgxpool.Config) (*pgxpool.Pool, error) {
	connectCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	pool, err := pgxpool.NewWithConfig(connectCtx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("не удалось создать пул соединений: %w", err)
	}
	if err := pool.Ping(connectCtx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping failed: %w", err)
	}
	return pool, nil
}
