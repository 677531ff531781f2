package inspection

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/fieldcheck/fieldcheck/pkg/ai"
	"github.com/fieldcheck/fieldcheck/pkg/quota"
)

// Service creates inspections within the company's monthly quota and
// attaches AI condition analysis where the plan allows it.
type Service struct {
	store    Store
	gate     *quota.Gate
	analyzer ai.Analyzer
	log      *slog.Logger
}

// NewService creates an inspection service. analyzer may be nil when no AI
// integration is configured; AttachAIAnalysis then fails before any quota
// check.
func NewService(store Store, gate *quota.Gate, analyzer ai.Analyzer, log *slog.Logger) *Service {
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	return &Service{store: store, gate: gate, analyzer: analyzer, log: log}
}

// Create records a new inspection. The gate applies the monthly counter
// reset and consumes one unit of inspection quota atomically; a policy
// denial comes back as a *quota.DeniedError.
func (s *Service) Create(ctx context.Context, companyID, assetID, inspectorID uuid.UUID, typ Type) (*Inspection, error) {
	decision, err := s.gate.Authorize(ctx, companyID, quota.OpCreateInspection)
	if err != nil {
		return nil, err
	}
	if !decision.Allowed {
		return nil, quota.Denied(decision.Reason)
	}

	i := &Inspection{
		ID:          uuid.New(),
		CompanyID:   companyID,
		AssetID:     assetID,
		InspectorID: inspectorID,
		Type:        typ,
		Status:      StatusInProgress,
		CreatedAt:   time.Now().UTC(),
	}
	if err := s.store.Create(ctx, i); err != nil {
		return nil, err
	}

	s.log.InfoContext(ctx, "created inspection",
		"company_id", companyID.String(), "inspection_id", i.ID.String(), "type", string(typ))
	return i, nil
}

// AttachAIAnalysis runs condition analysis on an inspection photo and stores
// the report. The operation is unmetered but requires the plan's AI
// entitlement.
func (s *Service) AttachAIAnalysis(ctx context.Context, inspectionID uuid.UUID, photo []byte, assetType, assetName string) (*Inspection, error) {
	i, err := s.store.Get(ctx, inspectionID)
	if err != nil {
		return nil, err
	}

	decision, err := s.gate.Authorize(ctx, i.CompanyID, quota.OpRunAIAnalysis)
	if err != nil {
		return nil, err
	}
	if !decision.Allowed {
		return nil, quota.Denied(decision.Reason)
	}

	report, err := s.analyzer.AnalyzeImage(ctx, photo, assetType, assetName)
	if err != nil {
		return nil, err
	}

	i.AIAnalysis = report
	if err := s.store.Save(ctx, i); err != nil {
		return nil, err
	}

	s.log.InfoContext(ctx, "attached ai analysis",
		"inspection_id", i.ID.String(), "condition", report.OverallCondition)
	return i, nil
}

// Complete marks an inspection finished with its findings.
func (s *Service) Complete(ctx context.Context, inspectionID uuid.UUID, summary string, findings []Finding) (*Inspection, error) {
	i, err := s.store.Get(ctx, inspectionID)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	i.Status = StatusCompleted
	i.Summary = summary
	i.Findings = findings
	i.CompletedAt = &now
	if err := s.store.Save(ctx, i); err != nil {
		return nil, err
	}
	return i, nil
}

type memoryStore struct {
	mu          sync.RWMutex
	inspections map[uuid.UUID]Inspection
}

// NewMemoryStore returns an in-memory inspection store.
func NewMemoryStore() Store {
	return &memoryStore{inspections: make(map[uuid.UUID]Inspection)}
}

func (s *memoryStore) Create(ctx context.Context, i *Inspection) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.inspections[i.ID] = *i
	return nil
}

func (s *memoryStore) Get(ctx context.Context, id uuid.UUID) (*Inspection, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	i, exists := s.inspections[id]
	if !exists {
		return nil, ErrInspectionNotFound
	}
	cp := i
	return &cp, nil
}

func (s *memoryStore) Save(ctx context.Context, i *Inspection) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.inspections[i.ID]; !exists {
		return ErrInspectionNotFound
	}
	s.inspections[i.ID] = *i
	return nil
}

func (s *memoryStore) ListByAsset(ctx context.Context, assetID uuid.UUID) ([]*Inspection, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []*Inspection
	for _, i := range s.inspections {
		if i.AssetID == assetID {
			cp := i
			out = append(out, &cp)
		}
	}
	return out, nil
}
