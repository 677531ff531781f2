package asset

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/fieldcheck/fieldcheck/pkg/quota"
)

// Service registers assets within a company's plan limits.
type Service struct {
	store Store
	gate  *quota.Gate
	log   *slog.Logger
}

// NewService creates an asset service.
func NewService(store Store, gate *quota.Gate, log *slog.Logger) *Service {
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	return &Service{store: store, gate: gate, log: log}
}

// Register creates a new asset after consuming asset quota. A policy denial
// comes back as a *quota.DeniedError.
func (s *Service) Register(ctx context.Context, companyID uuid.UUID, name, tag string, typ Type) (*Asset, error) {
	decision, err := s.gate.Authorize(ctx, companyID, quota.OpAddAsset)
	if err != nil {
		return nil, err
	}
	if !decision.Allowed {
		return nil, quota.Denied(decision.Reason)
	}

	now := time.Now().UTC()
	a := &Asset{
		ID:        uuid.New(),
		CompanyID: companyID,
		Name:      name,
		Tag:       tag,
		Type:      typ,
		Status:    StatusActive,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.store.Create(ctx, a); err != nil {
		return nil, err
	}

	s.log.InfoContext(ctx, "registered asset",
		"company_id", companyID.String(), "asset_id", a.ID.String(), "type", string(typ))
	return a, nil
}

type memoryStore struct {
	mu     sync.RWMutex
	assets map[uuid.UUID]Asset
}

// NewMemoryStore returns an in-memory asset store.
func NewMemoryStore() Store {
	return &memoryStore{assets: make(map[uuid.UUID]Asset)}
}

func (s *memoryStore) Create(ctx context.Context, a *Asset) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.assets[a.ID] = *a
	return nil
}

func (s *memoryStore) Get(ctx context.Context, id uuid.UUID) (*Asset, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	a, exists := s.assets[id]
	if !exists {
		return nil, ErrAssetNotFound
	}
	cp := a
	return &cp, nil
}

func (s *memoryStore) ListByCompany(ctx context.Context, companyID uuid.UUID) ([]*Asset, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []*Asset
	for _, a := range s.assets {
		if a.CompanyID == companyID {
			cp := a
			out = append(out, &cp)
		}
	}
	return out, nil
}
