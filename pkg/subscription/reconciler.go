package subscription

import (
	"context"
	"errors"
	"log/slog"

	"github.com/google/uuid"

	"github.com/fieldcheck/fieldcheck/pkg/company"
)

// Result reports how a webhook event was handled.
type Result struct {
	Applied bool
	// Ignored names why the event produced no state change; empty when Applied.
	Ignored string
}

// Ignore reasons returned alongside Applied=false. None of these are errors:
// unmatched references and duplicate deliveries are expected noise from a
// shared billing account.
const (
	IgnoredUnknownReference = "unknown_reference"
	IgnoredNoEffect         = "no_effect"
)

// errNoEffect aborts a store update whose transition turned out to be a
// no-op, so duplicate deliveries don't bump record versions.
var errNoEffect = errors.New("subscription event had no effect")

// Reconciler applies billing-provider lifecycle events to tenant
// subscription state. Application is idempotent; ordering is last-write-wins
// (see transition.go).
type Reconciler struct {
	store   company.Store
	catalog *Catalog
	log     *slog.Logger
}

// NewReconciler creates a webhook reconciler. A nil logger discards logs.
func NewReconciler(store company.Store, catalog *Catalog, log *slog.Logger) *Reconciler {
	if store == nil {
		panic("subscription: company store is required")
	}
	if catalog == nil {
		panic("subscription: plan catalog is required")
	}
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	return &Reconciler{store: store, catalog: catalog, log: log}
}

// Apply resolves the event's target tenant and applies the transition as a
// single atomic record update. Status and limits rewrites always land in the
// same write, so a tenant is never observed with new status but stale limits.
func (r *Reconciler) Apply(ctx context.Context, ev WebhookEvent) (Result, error) {
	target, err := r.resolve(ctx, ev)
	if err != nil {
		if errors.Is(err, company.ErrCompanyNotFound) {
			r.log.DebugContext(ctx, "webhook event references unknown tenant",
				"event_type", string(ev.Type),
				"subscription_ref", ev.SubscriptionRef,
				"customer_ref", ev.CustomerRef)
			return Result{Ignored: IgnoredUnknownReference}, nil
		}
		return Result{}, err
	}

	updated, err := r.store.Update(ctx, target.ID, func(c *company.Company) error {
		bound := bindBillingRefs(c, ev)
		changed, err := applyEvent(c, ev, r.catalog)
		if err != nil {
			return err
		}
		if !changed && !bound {
			return errNoEffect
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, errNoEffect) {
			return Result{Ignored: IgnoredNoEffect}, nil
		}
		return Result{}, err
	}

	r.log.InfoContext(ctx, "applied billing event",
		"company_id", updated.ID.String(),
		"event_type", string(ev.Type),
		"status", string(updated.Subscription.Status),
		"plan", string(updated.Subscription.Plan))
	return Result{Applied: true}, nil
}

// bindBillingRefs records the provider's subscription and customer
// references on the tenant the first time an event carries them. Refs are
// bound only when empty, never rewritten, and deletion events bind nothing:
// a late duplicate of a cancellation must not resurrect the cleared
// subscription ref. Reports whether anything was bound.
func bindBillingRefs(c *company.Company, ev WebhookEvent) bool {
	if ev.Type == EventSubscriptionDeleted {
		return false
	}

	bound := false
	if ev.SubscriptionRef != "" && c.Subscription.BillingSubscriptionRef == "" {
		c.Subscription.BillingSubscriptionRef = ev.SubscriptionRef
		bound = true
	}
	if ev.CustomerRef != "" && c.Subscription.BillingCustomerRef == "" {
		c.Subscription.BillingCustomerRef = ev.CustomerRef
		bound = true
	}
	return bound
}

// resolve finds the tenant the event refers to: subscription lifecycle
// events correlate by subscription ref, invoice/payment events by customer
// ref, and checkout-originated events by the tenant ID echoed through the
// provider's custom data. The custom-data fallback is what binds a freshly
// registered tenant whose billing refs don't exist yet.
func (r *Reconciler) resolve(ctx context.Context, ev WebhookEvent) (*company.Company, error) {
	if ev.SubscriptionRef != "" {
		c, err := r.store.GetBySubscriptionRef(ctx, ev.SubscriptionRef)
		if err == nil || !errors.Is(err, company.ErrCompanyNotFound) {
			return c, err
		}
	}
	if ev.CustomerRef != "" {
		c, err := r.store.GetByCustomerRef(ctx, ev.CustomerRef)
		if err == nil || !errors.Is(err, company.ErrCompanyNotFound) {
			return c, err
		}
	}
	if ev.CompanyRef != "" {
		if id, err := uuid.Parse(ev.CompanyRef); err == nil {
			return r.store.Get(ctx, id)
		}
	}
	return nil, company.ErrCompanyNotFound
}
