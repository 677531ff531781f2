package company

import (
	"time"

	"github.com/google/uuid"
)

// Plan identifies a pricing tier.
type Plan string

const (
	PlanTrial        Plan = "trial"
	PlanBasic        Plan = "basic"
	PlanProfessional Plan = "professional"
	PlanEnterprise   Plan = "enterprise"
)

// Status represents the current state of a company's subscription.
type Status string

const (
	StatusTrialing  Status = "trialing"
	StatusActive    Status = "active"
	StatusPastDue   Status = "past_due"
	StatusCancelled Status = "cancelled"
)

// Valid reports whether s is one of the known subscription statuses.
func (s Status) Valid() bool {
	switch s {
	case StatusTrialing, StatusActive, StatusPastDue, StatusCancelled:
		return true
	}
	return false
}

// Unlimited indicates no limit for a resource (-1 chosen for SQL compatibility).
const Unlimited int64 = -1

// Limits is the snapshot of plan thresholds a company is held to.
// Immutable once assigned: plan changes replace the whole value, never
// individual fields, so a company is never observed with a half-applied plan.
type Limits struct {
	MaxSeats               int64 `json:"max_seats" yaml:"max_seats"`
	MaxAssets              int64 `json:"max_assets" yaml:"max_assets"`
	MaxInspectionsPerMonth int64 `json:"max_inspections_per_month" yaml:"max_inspections_per_month"`
	AIAnalysisEnabled      bool  `json:"ai_analysis_enabled" yaml:"ai_analysis_enabled"`
}

// UsageCounters tracks live consumption against Limits.
// InspectionsThisMonth counts inspections created since LastResetAt.
type UsageCounters struct {
	SeatsUsed            int64     `json:"seats_used"`
	AssetsUsed           int64     `json:"assets_used"`
	InspectionsThisMonth int64     `json:"inspections_this_month"`
	LastResetAt          time.Time `json:"last_reset_at"`
}

// Subscription holds the billing state for a company.
// Status changes flow through the subscription package's transition logic
// or an explicit plan-change call, never through ad-hoc field writes.
type Subscription struct {
	Plan                   Plan       `json:"plan"`
	Status                 Status     `json:"status"`
	BillingCustomerRef     string     `json:"billing_customer_ref,omitempty"`
	BillingSubscriptionRef string     `json:"billing_subscription_ref,omitempty"`
	CurrentPeriodEnd       *time.Time `json:"current_period_end,omitempty"`
	TrialEndsAt            *time.Time `json:"trial_ends_at,omitempty"`
}

// IsTrialing returns true if the subscription is in trial status.
func (s *Subscription) IsTrialing() bool {
	return s.Status == StatusTrialing
}

// IsActive returns true if the subscription is active (paid).
func (s *Subscription) IsActive() bool {
	return s.Status == StatusActive
}

// IsCancelled returns true if the subscription is cancelled.
func (s *Subscription) IsCancelled() bool {
	return s.Status == StatusCancelled
}

// IsTrialExpired returns true if the trial period has ended.
func (s *Subscription) IsTrialExpired() bool {
	if s.TrialEndsAt == nil {
		return false
	}
	return time.Now().UTC().After(*s.TrialEndsAt)
}

// Settings stores per-company presentation and locale preferences.
type Settings struct {
	LogoURL      string `json:"logo_url,omitempty"`
	PrimaryColor string `json:"primary_color,omitempty"`
	Timezone     string `json:"timezone,omitempty"`
	Language     string `json:"language,omitempty"`
}

// Company is the tenant record: the unit of billing, quota, and data
// isolation. It owns exactly one Limits snapshot and one UsageCounters
// record for its whole lifetime.
type Company struct {
	ID           uuid.UUID     `json:"id"`
	Name         string        `json:"name"`
	Email        string        `json:"email"`
	Industry     string        `json:"industry,omitempty"`
	Subscription Subscription  `json:"subscription"`
	Limits       Limits        `json:"limits"`
	Usage        UsageCounters `json:"usage"`
	Settings     Settings      `json:"settings"`
	Active       bool          `json:"active"`
	CreatedAt    time.Time     `json:"created_at"`
	UpdatedAt    time.Time     `json:"updated_at"`

	// Version is the optimistic concurrency token. Stores bump it on every
	// successful update; callers never touch it.
	Version int64 `json:"-"`
}

// Snapshot is the read-only projection exposed to collaborators that must
// not mutate tenant state (dashboards, the AI-analysis invoker).
type Snapshot struct {
	Status Status        `json:"status"`
	Plan   Plan          `json:"plan"`
	Limits Limits        `json:"limits"`
	Usage  UsageCounters `json:"usage"`
}

// Snapshot returns a copy of the company's quota-relevant state.
func (c *Company) Snapshot() Snapshot {
	return Snapshot{
		Status: c.Subscription.Status,
		Plan:   c.Subscription.Plan,
		Limits: c.Limits,
		Usage:  c.Usage,
	}
}
