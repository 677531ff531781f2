package subscription

import (
	"context"
	"time"
)

// BillingProvider is the minimal interface to the payment provider. The
// provider owns hosted checkout and the customer portal; this core never
// touches card data. Implementations must verify webhook signatures in
// ParseWebhook before returning an event.
type BillingProvider interface {
	// CreateCheckoutLink creates a hosted checkout session.
	CreateCheckoutLink(ctx context.Context, req CheckoutRequest) (*CheckoutLink, error)

	// GetCustomerPortalLink returns a temporary link where customers manage
	// payment methods, cancellation, and plan changes.
	GetCustomerPortalLink(ctx context.Context, customerRef, subscriptionRef string) (*PortalLink, error)

	// ParseWebhook verifies and normalizes incoming webhook data.
	ParseWebhook(ctx context.Context, payload []byte, signature string) (*WebhookEvent, error)
}

// CheckoutRequest contains data needed to create a checkout session.
type CheckoutRequest struct {
	PriceID    string // Provider's price identifier
	CompanyID  string // Internal tenant ID, echoed back in webhook custom data
	Email      string // Optional billing email
	SuccessURL string // Redirect after successful payment
	CancelURL  string // Redirect if the customer abandons checkout
}

// CheckoutLink represents a hosted checkout session.
type CheckoutLink struct {
	URL       string
	SessionID string
	ExpiresAt time.Time
}

// PortalLink represents a customer portal session.
type PortalLink struct {
	URL       string
	ExpiresAt time.Time
}

// CheckoutOptions carries caller preferences into checkout creation.
type CheckoutOptions struct {
	Email      string
	SuccessURL string
	CancelURL  string
}
