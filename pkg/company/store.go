package company

import (
	"context"

	"github.com/google/uuid"
)

// Store defines company persistence. Each company record includes its
// subscription, limits snapshot, and usage counters; Update is the only
// mutation path so that check-then-write sequences on a single record can
// never interleave.
type Store interface {
	// Create persists a new company.
	// Returns ErrCompanyAlreadyExists if the ID is already taken.
	Create(ctx context.Context, c *Company) error

	// Get retrieves a company by ID.
	// Returns ErrCompanyNotFound if no company exists.
	Get(ctx context.Context, id uuid.UUID) (*Company, error)

	// GetBySubscriptionRef retrieves a company by its billing provider
	// subscription reference.
	GetBySubscriptionRef(ctx context.Context, ref string) (*Company, error)

	// GetByCustomerRef retrieves a company by its billing provider
	// customer reference.
	GetByCustomerRef(ctx context.Context, ref string) (*Company, error)

	// Update applies fn to the company record as a single atomic transaction
	// scoped to that record. fn receives a private copy; if it returns an
	// error the update is discarded and the error propagated unchanged.
	// Concurrent updates to the same company serialize; updates to different
	// companies never block each other.
	Update(ctx context.Context, id uuid.UUID, fn func(*Company) error) (*Company, error)
}
