package company

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
)

// memoryStore keeps an arena of company records keyed by ID, each guarded by
// its own mutex. The arena lock protects only the maps; record locks provide
// the per-company serialization the Store contract requires without any
// cross-company blocking.
type memoryStore struct {
	mu        sync.RWMutex
	records   map[uuid.UUID]*record
	bySubRef  map[string]uuid.UUID
	byCustRef map[string]uuid.UUID
}

type record struct {
	mu sync.Mutex
	c  Company
}

// NewMemoryStore returns an in-memory Store suitable for tests and
// single-process deployments.
func NewMemoryStore() Store {
	return &memoryStore{
		records:   make(map[uuid.UUID]*record),
		bySubRef:  make(map[string]uuid.UUID),
		byCustRef: make(map[string]uuid.UUID),
	}
}

func (s *memoryStore) Create(ctx context.Context, c *Company) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.records[c.ID]; exists {
		return ErrCompanyAlreadyExists
	}

	cp := *c
	cp.Version = 1
	s.records[c.ID] = &record{c: cp}
	s.indexRefsLocked(&cp)
	return nil
}

func (s *memoryStore) Get(ctx context.Context, id uuid.UUID) (*Company, error) {
	s.mu.RLock()
	rec, exists := s.records[id]
	s.mu.RUnlock()

	if !exists {
		return nil, ErrCompanyNotFound
	}

	rec.mu.Lock()
	defer rec.mu.Unlock()
	cp := rec.c
	return &cp, nil
}

func (s *memoryStore) GetBySubscriptionRef(ctx context.Context, ref string) (*Company, error) {
	if ref == "" {
		return nil, ErrCompanyNotFound
	}

	s.mu.RLock()
	id, exists := s.bySubRef[ref]
	s.mu.RUnlock()

	if !exists {
		return nil, ErrCompanyNotFound
	}
	return s.Get(ctx, id)
}

func (s *memoryStore) GetByCustomerRef(ctx context.Context, ref string) (*Company, error) {
	if ref == "" {
		return nil, ErrCompanyNotFound
	}

	s.mu.RLock()
	id, exists := s.byCustRef[ref]
	s.mu.RUnlock()

	if !exists {
		return nil, ErrCompanyNotFound
	}
	return s.Get(ctx, id)
}

func (s *memoryStore) Update(ctx context.Context, id uuid.UUID, fn func(*Company) error) (*Company, error) {
	s.mu.RLock()
	rec, exists := s.records[id]
	s.mu.RUnlock()

	if !exists {
		return nil, ErrCompanyNotFound
	}

	rec.mu.Lock()
	defer rec.mu.Unlock()

	// fn works on a copy so an aborted update leaves the record untouched.
	cp := rec.c
	if err := fn(&cp); err != nil {
		return nil, err
	}

	refsChanged := cp.Subscription.BillingSubscriptionRef != rec.c.Subscription.BillingSubscriptionRef ||
		cp.Subscription.BillingCustomerRef != rec.c.Subscription.BillingCustomerRef

	cp.Version = rec.c.Version + 1
	cp.UpdatedAt = time.Now().UTC()
	prev := rec.c
	rec.c = cp

	// Billing refs change rarely (first checkout, resubscribe). The arena
	// lock is only taken after record state is final; no other code path
	// acquires a record lock while holding the arena write lock, so the
	// ordering here cannot deadlock.
	if refsChanged {
		s.mu.Lock()
		s.dropRefsLocked(&prev)
		s.indexRefsLocked(&cp)
		s.mu.Unlock()
	}

	result := cp
	return &result, nil
}

func (s *memoryStore) indexRefsLocked(c *Company) {
	if c.Subscription.BillingSubscriptionRef != "" {
		s.bySubRef[c.Subscription.BillingSubscriptionRef] = c.ID
	}
	if c.Subscription.BillingCustomerRef != "" {
		s.byCustRef[c.Subscription.BillingCustomerRef] = c.ID
	}
}

func (s *memoryStore) dropRefsLocked(c *Company) {
	if c.Subscription.BillingSubscriptionRef != "" {
		delete(s.bySubRef, c.Subscription.BillingSubscriptionRef)
	}
	if c.Subscription.BillingCustomerRef != "" {
		delete(s.byCustRef, c.Subscription.BillingCustomerRef)
	}
}
