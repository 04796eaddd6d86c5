package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"go.uber.org/zap"
	_ "modernc.org/sqlite"

	"jrc-server/internal/model"
)

const (
	sqliteCreateTableQuery = `
        CREATE TABLE IF NOT EXISTS app_state (
            key        TEXT PRIMARY KEY,
            value      TEXT NOT NULL,
            updated_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
        )`
	sqliteLoadQuery   = `SELECT value FROM app_state WHERE key = ?`
	sqliteUpsertQuery = `
        INSERT INTO app_state (key, value, updated_at)
        VALUES (?, ?, CURRENT_TIMESTAMP)
        ON CONFLICT(key) DO UPDATE SET
            value = excluded.value,
            updated_at = excluded.updated_at`
	sqliteDeleteQuery = `DELETE FROM app_state WHERE key = ?`
)

var _ StateRepository = (*SQLiteStateRepository)(nil)

// SQLiteStateRepository хранит состояние в локальном файле SQLite.
type SQLiteStateRepository struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewSQLiteStateRepository открывает (или создаёт) файл базы и таблицу app_state.
func NewSQLiteStateRepository(ctx context.Context, path string, logger *zap.Logger) (*SQLiteStateRepository, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite database %s: %w", path, err)
	}
	// Один писатель: SQLite не любит конкурентную запись.
	db.SetMaxOpenConns(1)

	if _, err := db.ExecContext(ctx, sqliteCreateTableQuery); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create app_state table: %w", err)
	}

	logger.Named("SQLiteStateRepo").Info("SQLite state store ready", zap.String("path", path))
	return &SQLiteStateRepository{db: db, logger: logger.Named("SQLiteStateRepo")}, nil
}

func (r *SQLiteStateRepository) Load(ctx context.Context, key string) ([]byte, error) {
	var value string
	err := r.db.QueryRowContext(ctx, sqliteLoadQuery, key).Scan(&value)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, model.ErrStateNotFound
		}
		r.logger.Error("Error loading state", zap.String("key", key), zap.Error(err))
		return nil, fmt.Errorf("failed to load state key %s: %w", key, err)
	}
	return []byte(value), nil
}

func (r *SQLiteStateRepository) Save(ctx context.Context, key string, value []byte) error {
	if _, err := r.db.ExecContext(ctx, sqliteUpsertQuery, key, string(value)); err != nil {
		r.logger.Error("Error saving state", zap.String("key", key), zap.Error(err))
		return fmt.Errorf("failed to save state key %s: %w", key, err)
	}
	return nil
}

func (r *SQLiteStateRepository) Delete(ctx context.Context, key string) error {
	if _, err := r.db.ExecContext(ctx, sqliteDeleteQuery, key); err != nil {
		r.logger.Error("Error deleting state", zap.String("key", key), zap.Error(err))
		return fmt.Errorf("failed to delete state key %s: %w", key, err)
	}
	return nil
}

// Close закрывает соединение с базой.
func (r *SQLiteStateRepository) Close() error {
	return r.db.Close()
}
