package subscription

import (
	"time"

	"github.com/fieldcheck/fieldcheck/pkg/company"
)

// EventType is the normalized billing lifecycle event type. Provider
// implementations map their own event names onto these.
type EventType string

const (
	EventSubscriptionUpdated EventType = "subscription_updated"
	EventSubscriptionDeleted EventType = "subscription_deleted"
	EventPaymentSucceeded    EventType = "payment_succeeded"
	EventPaymentFailed       EventType = "payment_failed"
)

// WebhookEvent is a normalized, transient billing-provider notification.
// Delivery is at-least-once and unordered: the reconciler must tolerate
// duplicates and events arriving out of chronological order.
type WebhookEvent struct {
	Type EventType

	// SubscriptionRef correlates subscription lifecycle events;
	// CustomerRef correlates invoice/payment events. At least one is set.
	SubscriptionRef string
	CustomerRef     string

	// CompanyRef is the internal tenant ID echoed back through provider
	// custom data on checkout-originated events. It lets the reconciler
	// find a tenant whose billing refs have not been bound yet.
	CompanyRef string

	// Status carries the provider-reported subscription status for
	// subscription_updated events.
	Status company.Status

	// PriceID is the provider price the tenant is currently on, when the
	// event carries one. Resolved through the catalog for plan rewrites.
	PriceID string

	CurrentPeriodEnd *time.Time
	OccurredAt       time.Time

	// ProviderEvent is the original provider event name, kept for logging.
	ProviderEvent string
}
