package quota

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/fieldcheck/fieldcheck/pkg/company"
)

// Operation is the category of quota-consuming action being authorized.
type Operation string

const (
	OpAddSeat          Operation = "add_seat"
	OpAddAsset         Operation = "add_asset"
	OpCreateInspection Operation = "create_inspection"
	OpRunAIAnalysis    Operation = "run_ai_analysis"
)

// Valid reports whether op is a known operation class.
func (op Operation) Valid() bool {
	switch op {
	case OpAddSeat, OpAddAsset, OpCreateInspection, OpRunAIAnalysis:
		return true
	}
	return false
}

// Reason is a stable denial code, suitable for direct exposure to API
// callers.
type Reason string

const (
	ReasonSeatLimitReached       Reason = "seat_limit_reached"
	ReasonAssetLimitReached      Reason = "asset_limit_reached"
	ReasonInspectionLimitReached Reason = "inspection_limit_reached"
	ReasonFeatureNotAvailable    Reason = "feature_not_available"
	ReasonPaymentRequired        Reason = "subscription_payment_required"
	ReasonSubscriptionInactive   Reason = "subscription_inactive"
)

// Decision is the outcome of an authorization check. A denial is an ordinary
// result, never an error: callers distinguish policy rejections from system
// faults by the error return alone.
type Decision struct {
	Allowed bool   `json:"allowed"`
	Reason  Reason `json:"reason,omitempty"`
}

func allowed() Decision        { return Decision{Allowed: true} }
func denied(r Reason) Decision { return Decision{Reason: r} }

// errDenied aborts the store update for a denied operation, so that neither
// the counter increment nor the monthly reset is persisted. The sentinel
// never escapes Authorize.
var errDenied = errors.New("quota: operation denied")

// Gate enforces per-company plan limits. Every allowed operation increments
// its counter in the same atomic record update as the check, so two
// concurrent requests racing for the last slot can never both succeed.
type Gate struct {
	store company.Store
	log   *slog.Logger
	now   func() time.Time
}

// Option configures a Gate.
type Option func(*Gate)

// WithLogger sets the gate logger.
func WithLogger(log *slog.Logger) Option {
	return func(g *Gate) {
		if log != nil {
			g.log = log
		}
	}
}

// WithClock overrides the time source used for monthly resets, for tests.
func WithClock(now func() time.Time) Option {
	return func(g *Gate) {
		if now != nil {
			g.now = now
		}
	}
}

// NewGate creates a limit gate backed by the given company store.
func NewGate(store company.Store, opts ...Option) *Gate {
	if store == nil {
		panic("quota: company store is required")
	}

	g := &Gate{
		store: store,
		log:   slog.New(slog.DiscardHandler),
		now:   func() time.Time { return time.Now().UTC() },
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Authorize decides whether the company may perform op and, on allow,
// commits the counter increment. Check order: monthly reset (inspections
// only), then subscription status, then counters against limits. A past_due
// account is denied before any counter comparison, even when under quota.
//
// Returns company.ErrCompanyNotFound for unknown tenants and a
// company.ErrInvariantViolation-wrapped fault for corrupted records; neither
// is ever folded into a Decision.
func (g *Gate) Authorize(ctx context.Context, companyID uuid.UUID, op Operation) (Decision, error) {
	if !op.Valid() {
		return Decision{}, errors.Join(ErrUnknownOperation, errors.New(string(op)))
	}

	var decision Decision
	_, err := g.store.Update(ctx, companyID, func(c *company.Company) error {
		if err := c.CheckInvariants(); err != nil {
			g.log.ErrorContext(ctx, "company record failed invariant check",
				"company_id", companyID.String(), "operation", string(op), "error", err)
			return err
		}

		if op == OpCreateInspection {
			MaybeResetMonthly(&c.Usage, g.now())
		}

		decision = evaluate(c, op)
		if !decision.Allowed {
			return errDenied
		}
		return nil
	})

	switch {
	case err == nil:
		return decision, nil
	case errors.Is(err, errDenied):
		// The aborted update discarded any reset or increment; counters are
		// untouched on denial.
		return decision, nil
	default:
		return Decision{}, err
	}
}

// evaluate applies the decision order from the subscription policy:
// payment state first, then per-operation quota or feature checks.
// It mutates c's counters only on an allowed metered operation.
func evaluate(c *company.Company, op Operation) Decision {
	switch c.Subscription.Status {
	case company.StatusPastDue:
		return denied(ReasonPaymentRequired)
	case company.StatusCancelled:
		return denied(ReasonSubscriptionInactive)
	}

	switch op {
	case OpAddSeat:
		if limitReached(c.Usage.SeatsUsed, c.Limits.MaxSeats) {
			return denied(ReasonSeatLimitReached)
		}
		c.Usage.SeatsUsed++

	case OpAddAsset:
		if limitReached(c.Usage.AssetsUsed, c.Limits.MaxAssets) {
			return denied(ReasonAssetLimitReached)
		}
		c.Usage.AssetsUsed++

	case OpCreateInspection:
		if limitReached(c.Usage.InspectionsThisMonth, c.Limits.MaxInspectionsPerMonth) {
			return denied(ReasonInspectionLimitReached)
		}
		c.Usage.InspectionsThisMonth++

	case OpRunAIAnalysis:
		// Unmetered: entitlement check only, no counter.
		if !c.Limits.AIAnalysisEnabled {
			return denied(ReasonFeatureNotAvailable)
		}
	}

	return allowed()
}

func limitReached(used, limit int64) bool {
	if limit == company.Unlimited {
		return false
	}
	return used >= limit
}
