package repository

import (
	"context"
	"sync"

	"jrc-server/internal/model"
)

var _ StateRepository = (*MemoryStateRepository)(nil)

// MemoryStateRepository хранит состояние в памяти процесса. Для тестов и временных запусков.
type MemoryStateRepository struct {
	mu   sync.RWMutex
	data map[string][]byte
}

func NewMemoryStateRepository() *MemoryStateRepository {
	return &MemoryStateRepository{data: make(map[string][]byte)}
}

func (r *MemoryStateRepository) Load(_ context.Context, key string) ([]byte, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	v, ok := r.data[key]
	if !ok {
		return nil, model.ErrStateNotFound
	}
	return append([]byte(nil), v...), nil
}

func (r *MemoryStateRepository) Save(_ context.Context, key string, value []byte) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.data[key] = append([]byte(nil), value...)
	return nil
}

func (r *MemoryStateRepository) Delete(_ context.Context, key string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.data, key)
	return nil
}
