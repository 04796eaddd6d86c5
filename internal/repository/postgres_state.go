package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"go.uber.org/zap"

	"jrc-server/internal/model"
)

const (
	pgLoadStateQuery   = `SELECT key, value, updated_at FROM app_state WHERE key = $1`
	pgUpsertStateQuery = `
        INSERT INTO app_state (key, value, updated_at)
        VALUES ($1, $2, NOW())
        ON CONFLICT (key) DO UPDATE SET
            value = EXCLUDED.value,
            updated_at = NOW()`
	pgDeleteStateQuery = `DELETE FROM app_state WHERE key = $1`
)

// DBTX - общий интерфейс для пула и транзакции pgx.
type DBTX interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

type stateRow struct {
	Key       string    `db:"key"`
	Value     []byte    `db:"value"`
	UpdatedAt time.Time `db:"updated_at"`
}

var _ StateRepository = (*PostgresStateRepository)(nil)

// PostgresStateRepository хранит состояние в таблице app_state (см. миграции).
type PostgresStateRepository struct {
	db     DBTX
	logger *zap.Logger
}

func NewPostgresStateRepository(db DBTX, logger *zap.Logger) *PostgresStateRepository {
	return &PostgresStateRepository{
		db:     db,
		logger: logger.Named("PgStateRepo"),
	}
}

func (r *PostgresStateRepository) Load(ctx context.Context, key string) ([]byte, error) {
	var row stateRow
	if err := pgxscan.Get(ctx, r.db, &row, pgLoadStateQuery, key); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, model.ErrStateNotFound
		}
		r.logger.Error("Error loading state", zap.String("key", key), zap.Error(err))
		return nil, fmt.Errorf("failed to load state key %s: %w", key, err)
	}
	return row.Value, nil
}

func (r *PostgresStateRepository) Save(ctx context.Context, key string, value []byte) error {
	if _, err := r.db.Exec(ctx, pgUpsertStateQuery, key, value); err != nil {
		r.logger.Error("Error saving state", zap.String("key", key), zap.Error(err))
		return fmt.Errorf("failed to save state key %s: %w", key, err)
	}
	return nil
}

func (r *PostgresStateRepository) Delete(ctx context.Context, key string) error {
	if _, err := r.db.Exec(ctx, pgDeleteStateQuery, key); err != nil {
		r.logger.Error("Error deleting state", zap.String("key", key), zap.Error(err))
		return fmt.Errorf("failed to delete state key %s: %w", key, err)
	}
	return nil
}
