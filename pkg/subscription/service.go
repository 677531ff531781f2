package subscription

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/fieldcheck/fieldcheck/pkg/company"
)

// Service manages tenant subscriptions: registration, explicit plan changes,
// cancellation, and the billing-provider interactions around them.
type Service struct {
	store      company.Store
	catalog    *Catalog
	provider   BillingProvider
	reconciler *Reconciler
	log        *slog.Logger
	now        func() time.Time
}

// ServiceOption configures optional Service settings.
type ServiceOption func(*Service)

// WithLogger sets the service logger.
func WithLogger(log *slog.Logger) ServiceOption {
	return func(s *Service) {
		if log != nil {
			s.log = log
		}
	}
}

// WithClock overrides the time source, for tests.
func WithClock(now func() time.Time) ServiceOption {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

// NewService creates a subscription service. Panics on nil required
// dependencies to fail fast during initialization; provider may be nil when
// no billing integration is configured (checkout and portal calls then fail).
func NewService(store company.Store, catalog *Catalog, provider BillingProvider, opts ...ServiceOption) *Service {
	if store == nil {
		panic("subscription: company store is required")
	}
	if catalog == nil {
		panic("subscription: plan catalog is required")
	}

	s := &Service{
		store:    store,
		catalog:  catalog,
		provider: provider,
		log:      slog.New(slog.DiscardHandler),
		now:      func() time.Time { return time.Now().UTC() },
	}
	for _, opt := range opts {
		opt(s)
	}
	s.reconciler = NewReconciler(store, catalog, s.log)
	return s
}

// Register creates a new company on the trial plan: trialing status, trial
// limits snapshot, zeroed usage counters.
func (s *Service) Register(ctx context.Context, name, email string) (*company.Company, error) {
	trial, err := s.catalog.Resolve(company.PlanTrial)
	if err != nil {
		return nil, err
	}

	now := s.now()
	c := &company.Company{
		ID:        uuid.New(),
		Name:      name,
		Email:     email,
		Active:    true,
		CreatedAt: now,
		UpdatedAt: now,
		Limits:    trial.Limits,
		Usage: company.UsageCounters{
			LastResetAt: now,
		},
	}
	enterPlan(c, trial, now)

	if err := s.store.Create(ctx, c); err != nil {
		return nil, err
	}

	s.log.InfoContext(ctx, "registered company",
		"company_id", c.ID.String(), "plan", string(c.Subscription.Plan))
	return c, nil
}

// ChangePlan rewrites the company's plan and limits snapshot wholesale,
// leaving status and usage counters untouched. Downgrades never truncate
// existing usage; the next quota-consuming action is simply denied.
func (s *Service) ChangePlan(ctx context.Context, companyID uuid.UUID, newPlan company.Plan) (company.Limits, error) {
	plan, err := s.catalog.Resolve(newPlan)
	if err != nil {
		return company.Limits{}, err
	}

	updated, err := s.store.Update(ctx, companyID, func(c *company.Company) error {
		c.Subscription.Plan = plan.ID
		c.Limits = plan.Limits
		return nil
	})
	if err != nil {
		return company.Limits{}, err
	}

	s.log.InfoContext(ctx, "changed plan",
		"company_id", companyID.String(), "plan", string(newPlan))
	return updated.Limits, nil
}

// Subscribe explicitly places a company on a plan, entering trialing for
// trial plans and active otherwise. This is the only path out of the
// cancelled state.
func (s *Service) Subscribe(ctx context.Context, companyID uuid.UUID, planID company.Plan) (*company.Company, error) {
	plan, err := s.catalog.Resolve(planID)
	if err != nil {
		return nil, err
	}

	now := s.now()
	updated, err := s.store.Update(ctx, companyID, func(c *company.Company) error {
		enterPlan(c, plan, now)
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.log.InfoContext(ctx, "subscribed company",
		"company_id", companyID.String(),
		"plan", string(planID),
		"status", string(updated.Subscription.Status))
	return updated, nil
}

// Cancel explicitly cancels a company's subscription with the same effect as
// a provider deletion event: cancelled status, trial-equivalent limits.
func (s *Service) Cancel(ctx context.Context, companyID uuid.UUID) error {
	_, err := s.store.Update(ctx, companyID, func(c *company.Company) error {
		changed, err := applyEvent(c, WebhookEvent{Type: EventSubscriptionDeleted}, s.catalog)
		if err != nil {
			return err
		}
		_ = changed // cancelling an already-cancelled company is a no-op
		return nil
	})
	if err != nil {
		return err
	}

	s.log.InfoContext(ctx, "cancelled subscription", "company_id", companyID.String())
	return nil
}

// GetSnapshot returns the read-only projection of a company's subscription
// and quota state.
func (s *Service) GetSnapshot(ctx context.Context, companyID uuid.UUID) (company.Snapshot, error) {
	c, err := s.store.Get(ctx, companyID)
	if err != nil {
		return company.Snapshot{}, err
	}
	return c.Snapshot(), nil
}

// CreateCheckoutLink generates a hosted checkout link for a paid plan.
func (s *Service) CreateCheckoutLink(ctx context.Context, companyID uuid.UUID, planID company.Plan, opts CheckoutOptions) (*CheckoutLink, error) {
	plan, err := s.catalog.Resolve(planID)
	if err != nil {
		return nil, err
	}
	if plan.PriceID == "" {
		return nil, ErrPlanNotBillable
	}

	if _, err := s.store.Get(ctx, companyID); err != nil {
		return nil, err
	}

	return s.provider.CreateCheckoutLink(ctx, CheckoutRequest{
		PriceID:    plan.PriceID,
		CompanyID:  companyID.String(),
		Email:      opts.Email,
		SuccessURL: opts.SuccessURL,
		CancelURL:  opts.CancelURL,
	})
}

// GetCustomerPortalLink returns a portal link for subscription self-service.
func (s *Service) GetCustomerPortalLink(ctx context.Context, companyID uuid.UUID) (*PortalLink, error) {
	c, err := s.store.Get(ctx, companyID)
	if err != nil {
		return nil, err
	}
	if c.Subscription.BillingCustomerRef == "" {
		return nil, ErrMissingProviderCustomerRef
	}
	return s.provider.GetCustomerPortalLink(ctx,
		c.Subscription.BillingCustomerRef, c.Subscription.BillingSubscriptionRef)
}

// HandleWebhook verifies, normalizes, and applies a raw provider webhook.
func (s *Service) HandleWebhook(ctx context.Context, payload []byte, signature string) (Result, error) {
	ev, err := s.provider.ParseWebhook(ctx, payload, signature)
	if err != nil {
		return Result{}, err
	}
	return s.reconciler.Apply(ctx, *ev)
}

// Reconciler exposes the underlying event reconciler for callers that
// receive pre-normalized events.
func (s *Service) Reconciler() *Reconciler {
	return s.reconciler
}
