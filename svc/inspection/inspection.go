// Package inspection records equipment inspections and their AI-generated
// condition analysis. Creating an inspection consumes monthly quota; running
// AI analysis is unmetered but entitlement-gated.
package inspection

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/fieldcheck/fieldcheck/pkg/ai"
)

var ErrInspectionNotFound = errors.New("inspection not found")

// Type classifies why an inspection happens.
type Type string

const (
	TypeRoutine     Type = "routine"
	TypeMaintenance Type = "maintenance"
	TypeEmergency   Type = "emergency"
	TypePreventive  Type = "preventive"
	TypePredictive  Type = "predictive"
)

// Status tracks inspection progress.
type Status string

const (
	StatusScheduled  Status = "scheduled"
	StatusInProgress Status = "in_progress"
	StatusCompleted  Status = "completed"
	StatusReviewed   Status = "reviewed"
)

// Finding is a single observed issue.
type Finding struct {
	Title             string `json:"title"`
	Description       string `json:"description,omitempty"`
	Severity          string `json:"severity"` // minor|moderate|major|critical
	Location          string `json:"location,omitempty"`
	RecommendedAction string `json:"recommended_action,omitempty"`
}

// Inspection is one recorded examination of an asset.
type Inspection struct {
	ID          uuid.UUID           `json:"id"`
	CompanyID   uuid.UUID           `json:"company_id"`
	AssetID     uuid.UUID           `json:"asset_id"`
	InspectorID uuid.UUID           `json:"inspector_id"`
	Type        Type                `json:"type"`
	Status      Status              `json:"status"`
	Summary     string              `json:"summary,omitempty"`
	Findings    []Finding           `json:"findings,omitempty"`
	AIAnalysis  *ai.ConditionReport `json:"ai_analysis,omitempty"`
	CreatedAt   time.Time           `json:"created_at"`
	CompletedAt *time.Time          `json:"completed_at,omitempty"`
}

// Store defines inspection persistence.
type Store interface {
	Create(ctx context.Context, i *Inspection) error
	Get(ctx context.Context, id uuid.UUID) (*Inspection, error)
	Save(ctx context.Context, i *Inspection) error
	ListByAsset(ctx context.Context, assetID uuid.UUID) ([]*Inspection, error)
}
