package members

import (
	"context"
	"fmt"
	"sync"
	"time"

	"serotonyl.ru/shopbot/internal/common"
)

// MemoryStorage хранит участников в памяти (STORE_DRIVER=memory и тесты).
type MemoryStorage struct {
	mu      sync.RWMutex
	members map[int64]Member
	nextID  int64
}

func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{members: make(map[int64]Member)}
}

func (s *MemoryStorage) Upsert(ctx context.Context, m *Member) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now().UTC()
	existing, ok := s.members[m.UserID]
	if !ok {
		s.nextID++
		existing = Member{ID: s.nextID, UserID: m.UserID, CreatedAt: now}
	}
	existing.Username = m.Username
	existing.FirstName = m.FirstName
	existing.LastName = m.LastName
	existing.IsAdmin = m.IsAdmin
	existing.UpdatedAt = now
	s.members[m.UserID] = existing
	return nil
}

func (s *MemoryStorage) GetByUserID(ctx context.Context, userID int64) (*Member, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	m, ok := s.members[userID]
	if !ok {
		return nil, fmt.Errorf("участник user_id=%d: %w", userID, common.ErrUserNotFound)
	}
	return &m, nil
}
