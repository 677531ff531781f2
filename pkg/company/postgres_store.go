package company

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// defaultUpdateRetries bounds how often an optimistic update is retried
// before surfacing ErrConflict.
const defaultUpdateRetries = 3

// PostgresStore persists companies in PostgreSQL with row-level optimistic
// concurrency: every write carries the version it read, and a lost race
// simply re-reads and retries.
type PostgresStore struct {
	pool    *pgxpool.Pool
	retries int
}

// NewPostgresStore creates a PostgreSQL-backed company store.
func NewPostgresStore(pool *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{pool: pool, retries: defaultUpdateRetries}
}

const companyColumns = `id, name, email, industry, plan, status,
	billing_customer_ref, billing_subscription_ref, current_period_end, trial_ends_at,
	limits, seats_used, assets_used, inspections_this_month, last_reset_at,
	settings, active, created_at, updated_at, version`

func (s *PostgresStore) Create(ctx context.Context, c *Company) error {
	limitsJSON, err := json.Marshal(c.Limits)
	if err != nil {
		return fmt.Errorf("marshal limits: %w", err)
	}
	settingsJSON, err := json.Marshal(c.Settings)
	if err != nil {
		return fmt.Errorf("marshal settings: %w", err)
	}

	_, err = s.pool.Exec(ctx, `
		INSERT INTO companies (`+companyColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, 1)`,
		c.ID, c.Name, c.Email, c.Industry,
		string(c.Subscription.Plan), string(c.Subscription.Status),
		nullString(c.Subscription.BillingCustomerRef), nullString(c.Subscription.BillingSubscriptionRef),
		c.Subscription.CurrentPeriodEnd, c.Subscription.TrialEndsAt,
		limitsJSON, c.Usage.SeatsUsed, c.Usage.AssetsUsed, c.Usage.InspectionsThisMonth, c.Usage.LastResetAt,
		settingsJSON, c.Active, c.CreatedAt, c.UpdatedAt,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return ErrCompanyAlreadyExists
		}
		return fmt.Errorf("insert company: %w", err)
	}
	return nil
}

func (s *PostgresStore) Get(ctx context.Context, id uuid.UUID) (*Company, error) {
	return s.queryOne(ctx, `SELECT `+companyColumns+` FROM companies WHERE id = $1`, id)
}

func (s *PostgresStore) GetBySubscriptionRef(ctx context.Context, ref string) (*Company, error) {
	if ref == "" {
		return nil, ErrCompanyNotFound
	}
	return s.queryOne(ctx, `SELECT `+companyColumns+` FROM companies WHERE billing_subscription_ref = $1`, ref)
}

func (s *PostgresStore) GetByCustomerRef(ctx context.Context, ref string) (*Company, error) {
	if ref == "" {
		return nil, ErrCompanyNotFound
	}
	return s.queryOne(ctx, `SELECT `+companyColumns+` FROM companies WHERE billing_customer_ref = $1`, ref)
}

func (s *PostgresStore) Update(ctx context.Context, id uuid.UUID, fn func(*Company) error) (*Company, error) {
	for attempt := 0; attempt < s.retries; attempt++ {
		c, err := s.Get(ctx, id)
		if err != nil {
			return nil, err
		}

		readVersion := c.Version
		if err := fn(c); err != nil {
			return nil, err
		}

		c.Version = readVersion + 1
		c.UpdatedAt = time.Now().UTC()

		ok, err := s.writeVersioned(ctx, c, readVersion)
		if err != nil {
			return nil, err
		}
		if ok {
			return c, nil
		}
		// Lost the race to a concurrent writer; re-read and retry.
	}
	return nil, ErrConflict
}

func (s *PostgresStore) writeVersioned(ctx context.Context, c *Company, readVersion int64) (bool, error) {
	limitsJSON, err := json.Marshal(c.Limits)
	if err != nil {
		return false, fmt.Errorf("marshal limits: %w", err)
	}
	settingsJSON, err := json.Marshal(c.Settings)
	if err != nil {
		return false, fmt.Errorf("marshal settings: %w", err)
	}

	tag, err := s.pool.Exec(ctx, `
		UPDATE companies SET
			name = $1, email = $2, industry = $3, plan = $4, status = $5,
			billing_customer_ref = $6, billing_subscription_ref = $7,
			current_period_end = $8, trial_ends_at = $9,
			limits = $10, seats_used = $11, assets_used = $12,
			inspections_this_month = $13, last_reset_at = $14,
			settings = $15, active = $16, updated_at = $17, version = $18
		WHERE id = $19 AND version = $20`,
		c.Name, c.Email, c.Industry,
		string(c.Subscription.Plan), string(c.Subscription.Status),
		nullString(c.Subscription.BillingCustomerRef), nullString(c.Subscription.BillingSubscriptionRef),
		c.Subscription.CurrentPeriodEnd, c.Subscription.TrialEndsAt,
		limitsJSON, c.Usage.SeatsUsed, c.Usage.AssetsUsed, c.Usage.InspectionsThisMonth, c.Usage.LastResetAt,
		settingsJSON, c.Active, c.UpdatedAt, c.Version,
		c.ID, readVersion,
	)
	if err != nil {
		return false, fmt.Errorf("update company: %w", err)
	}
	return tag.RowsAffected() == 1, nil
}

func (s *PostgresStore) queryOne(ctx context.Context, query string, arg any) (*Company, error) {
	row := s.pool.QueryRow(ctx, query, arg)

	var (
		c            Company
		plan, status string
		custRef      *string
		subRef       *string
		limitsJSON   []byte
		settingsJSON []byte
	)
	err := row.Scan(
		&c.ID, &c.Name, &c.Email, &c.Industry, &plan, &status,
		&custRef, &subRef, &c.Subscription.CurrentPeriodEnd, &c.Subscription.TrialEndsAt,
		&limitsJSON, &c.Usage.SeatsUsed, &c.Usage.AssetsUsed, &c.Usage.InspectionsThisMonth, &c.Usage.LastResetAt,
		&settingsJSON, &c.Active, &c.CreatedAt, &c.UpdatedAt, &c.Version,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrCompanyNotFound
		}
		return nil, fmt.Errorf("scan company: %w", err)
	}

	c.Subscription.Plan = Plan(plan)
	c.Subscription.Status = Status(status)
	if custRef != nil {
		c.Subscription.BillingCustomerRef = *custRef
	}
	if subRef != nil {
		c.Subscription.BillingSubscriptionRef = *subRef
	}
	if err := json.Unmarshal(limitsJSON, &c.Limits); err != nil {
		return nil, fmt.Errorf("unmarshal limits: %w", err)
	}
	if err := json.Unmarshal(settingsJSON, &c.Settings); err != nil {
		return nil, fmt.Errorf("unmarshal settings: %w", err)
	}

	return &c, nil
}

func nullString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
