package user

import (
	"context"
	"sync"

	"github.com/google/uuid"
)

type memoryStore struct {
	mu    sync.RWMutex
	users map[uuid.UUID]User
}

// NewMemoryStore returns an in-memory user store.
func NewMemoryStore() Store {
	return &memoryStore{users: make(map[uuid.UUID]User)}
}

func (s *memoryStore) Create(ctx context.Context, u *User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.users[u.ID] = *u
	return nil
}

func (s *memoryStore) Get(ctx context.Context, id uuid.UUID) (*User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	u, exists := s.users[id]
	if !exists {
		return nil, ErrUserNotFound
	}
	cp := u
	return &cp, nil
}

func (s *memoryStore) Save(ctx context.Context, u *User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.users[u.ID]; !exists {
		return ErrUserNotFound
	}
	s.users[u.ID] = *u
	return nil
}

func (s *memoryStore) ListByCompany(ctx context.Context, companyID uuid.UUID) ([]*User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []*User
	for _, u := range s.users {
		if u.CompanyID == companyID {
			cp := u
			out = append(out, &cp)
		}
	}
	return out, nil
}
