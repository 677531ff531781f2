package subscription

import (
	"errors"
	"fmt"
	"time"

	"github.com/fieldcheck/fieldcheck/pkg/company"
)

// This file is the single authority for subscription status changes. Nothing
// else in the repository writes Subscription.Status.
//
// Event application is a last-write-wins projection onto the status and
// period-end fields: provider events carry no reliable sequence number, so an
// out-of-order delivery can overwrite newer state with older state. That is
// an accepted limitation of the billing transport, not a bug in the caller.

// applyEvent mutates c per the lifecycle transition table and reports
// whether anything changed. Cancelled is terminal: only an explicit
// resubscribe leaves it, so events targeting a cancelled tenant are no-ops.
func applyEvent(c *company.Company, ev WebhookEvent, catalog *Catalog) (bool, error) {
	sub := &c.Subscription

	switch ev.Type {
	case EventSubscriptionUpdated:
		if sub.IsCancelled() {
			return false, nil
		}
		if !ev.Status.Valid() {
			return false, errors.Join(ErrInvalidSubscriptionState,
				fmt.Errorf("provider reported unknown status %q", ev.Status))
		}

		changed := false
		if sub.Status != ev.Status {
			sub.Status = ev.Status
			changed = true
		}
		if ev.CurrentPeriodEnd != nil && !equalTime(sub.CurrentPeriodEnd, ev.CurrentPeriodEnd) {
			sub.CurrentPeriodEnd = ev.CurrentPeriodEnd
			changed = true
		}
		if ev.PriceID != "" {
			if plan, ok := catalog.ResolveByPriceID(ev.PriceID); ok && plan.ID != sub.Plan {
				// Plan and limits move together in the same record write.
				sub.Plan = plan.ID
				c.Limits = plan.Limits
				changed = true
			}
		}
		return changed, nil

	case EventSubscriptionDeleted:
		if sub.IsCancelled() {
			return false, nil
		}
		trial, err := catalog.Resolve(company.PlanTrial)
		if err != nil {
			return false, err
		}
		sub.Status = company.StatusCancelled
		sub.Plan = company.PlanTrial
		c.Limits = trial.Limits
		// The subscription is gone on the provider side; a resubscribe
		// creates a new one and binds its ref. The customer ref stays.
		sub.BillingSubscriptionRef = ""
		return true, nil

	case EventPaymentSucceeded:
		if sub.Status != company.StatusPastDue {
			return false, nil
		}
		sub.Status = company.StatusActive
		return true, nil

	case EventPaymentFailed:
		if sub.Status != company.StatusActive && sub.Status != company.StatusTrialing {
			return false, nil
		}
		sub.Status = company.StatusPastDue
		return true, nil

	default:
		return false, errors.Join(ErrUnsupportedEvent,
			fmt.Errorf("event type %q", ev.Type))
	}
}

// enterPlan places c on the given plan as an explicit subscribe or
// resubscribe: trial plans enter trialing with a trial deadline, paid plans
// enter active. This is the only path out of the cancelled state.
func enterPlan(c *company.Company, plan Plan, now time.Time) {
	c.Subscription.Plan = plan.ID
	c.Limits = plan.Limits
	c.Subscription.TrialEndsAt = nil

	if plan.TrialDays > 0 {
		c.Subscription.Status = company.StatusTrialing
		trialEnd := plan.TrialEndsAt(now)
		c.Subscription.TrialEndsAt = &trialEnd
	} else {
		c.Subscription.Status = company.StatusActive
	}
}

func equalTime(a, b *time.Time) bool {
	if a == nil || b == nil {
		return a == b
	}
	return a.Equal(*b)
}
