package repository

import (
	"context"
)

// StateRepository - долговременное key-value хранилище состояния сессии и истории.
// Аналог localStorage браузера: значение - непрозрачный JSON документ.
type StateRepository interface {
	// Load возвращает значение ключа или model.ErrStateNotFound.
	Load(ctx context.Context, key string) ([]byte, error)
	// Save создаёт или перезаписывает значение.
	Save(ctx context.Context, key string, value []byte) error
	// Delete удаляет ключ. Отсутствие ключа не ошибка.
	Delete(ctx context.Context, key string) error
}
