// Package asset manages registered physical equipment. Registering an asset
// consumes quota against the company's plan limits.
package asset

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
)

var ErrAssetNotFound = errors.New("asset not found")

// Type classifies a piece of equipment.
type Type string

const (
	TypePump       Type = "pump"
	TypeMotor      Type = "motor"
	TypeConveyor   Type = "conveyor"
	TypeBoiler     Type = "boiler"
	TypeCompressor Type = "compressor"
	TypeGenerator  Type = "generator"
	TypeValve      Type = "valve"
	TypeTank       Type = "tank"
	TypeHVAC       Type = "hvac"
	TypeOther      Type = "other"
)

// Status is the asset's operational state.
type Status string

const (
	StatusActive         Status = "active"
	StatusMaintenance    Status = "maintenance"
	StatusInactive       Status = "inactive"
	StatusDecommissioned Status = "decommissioned"
)

// Location pins an asset within a site.
type Location struct {
	Building string `json:"building,omitempty"`
	Floor    string `json:"floor,omitempty"`
	Room     string `json:"room,omitempty"`
}

// Asset is a registered piece of physical equipment.
type Asset struct {
	ID           uuid.UUID `json:"id"`
	CompanyID    uuid.UUID `json:"company_id"`
	Name         string    `json:"name"`
	Tag          string    `json:"tag"` // human-assigned asset identifier
	Type         Type      `json:"type"`
	Manufacturer string    `json:"manufacturer,omitempty"`
	Model        string    `json:"model,omitempty"`
	SerialNumber string    `json:"serial_number,omitempty"`
	Location     Location  `json:"location"`
	Status       Status    `json:"status"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// Store defines asset persistence.
type Store interface {
	Create(ctx context.Context, a *Asset) error
	Get(ctx context.Context, id uuid.UUID) (*Asset, error)
	ListByCompany(ctx context.Context, companyID uuid.UUID) ([]*Asset, error)
}
