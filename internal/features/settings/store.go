package settings

import (
	"context"
	"sync"
)

// Store: доступ к записи настроек.
// Update меняет ровно одно поле одной атомарной операцией (последняя запись побеждает).
// Ошибки драйвера оборачиваются в common.ErrStoreUnavailable.
type Store interface {
	Get(ctx context.Context) (Record, error)
	Update(ctx context.Context, field Field, value any) error
}

// MemoryStore хранит запись в памяти процесса.
// Используется при STORE_DRIVER=memory и в тестах.
type MemoryStore struct {
	mu     sync.RWMutex
	record Record
}

// NewMemoryStore создаёт хранилище с начальной записью.
func NewMemoryStore(initial Record) *MemoryStore {
	return &MemoryStore{record: initial}
}

// Get возвращает копию текущей записи.
func (s *MemoryStore) Get(ctx context.Context) (Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.record, nil
}

// Update атомарно записывает одно поле.
func (s *MemoryStore) Update(ctx context.Context, field Field, value any) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.record.Apply(field, value)
}
