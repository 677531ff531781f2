package subscription

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	paddle "github.com/PaddleHQ/paddle-go-sdk/v4"

	"github.com/fieldcheck/fieldcheck/pkg/company"
)

// PaddleConfig holds configuration for the Paddle billing provider.
type PaddleConfig struct {
	APIKey        string `env:"PADDLE_API_KEY,required"`
	WebhookSecret string `env:"PADDLE_WEBHOOK_SECRET,required"`
	Environment   string `env:"PADDLE_ENVIRONMENT" envDefault:"production"`
}

// PaddleProvider implements BillingProvider for Paddle.
type PaddleProvider struct {
	client   *paddle.SDK
	verifier *paddle.WebhookVerifier
}

// NewPaddleProvider creates a new Paddle billing provider.
func NewPaddleProvider(cfg PaddleConfig) (*PaddleProvider, error) {
	if cfg.APIKey == "" {
		return nil, ErrMissingAPIKey
	}
	if cfg.WebhookSecret == "" {
		return nil, ErrMissingWebhookSecret
	}

	var (
		client *paddle.SDK
		err    error
	)
	switch strings.ToLower(cfg.Environment) {
	case "sandbox":
		client, err = paddle.NewSandbox(cfg.APIKey)
	case "production", "":
		client, err = paddle.New(cfg.APIKey)
	default:
		return nil, errors.Join(ErrInvalidProviderEnvironment,
			fmt.Errorf("environment %q", cfg.Environment))
	}
	if err != nil {
		return nil, fmt.Errorf("create paddle client: %w", err)
	}

	return &PaddleProvider{
		client:   client,
		verifier: paddle.NewWebhookVerifier(cfg.WebhookSecret),
	}, nil
}

// CreateCheckoutLink creates a hosted checkout transaction in Paddle.
func (p *PaddleProvider) CreateCheckoutLink(ctx context.Context, req CheckoutRequest) (*CheckoutLink, error) {
	if req.PriceID == "" {
		return nil, ErrMissingPriceID
	}
	if req.CompanyID == "" {
		return nil, ErrMissingCompanyID
	}

	item := paddle.NewCreateTransactionItemsTransactionItemFromCatalog(&paddle.TransactionItemFromCatalog{
		PriceID:  req.PriceID,
		Quantity: 1,
	})

	txnReq := &paddle.CreateTransactionRequest{
		Items: []paddle.CreateTransactionItems{*item},
		CustomData: paddle.CustomData{
			"company_id": req.CompanyID,
		},
	}
	if req.Email != "" {
		txnReq.CustomData["email"] = req.Email
	}
	if req.SuccessURL != "" {
		txnReq.Checkout = &paddle.TransactionCheckout{
			URL: paddle.PtrTo(req.SuccessURL),
		}
	}

	txn, err := p.client.TransactionsClient.CreateTransaction(ctx, txnReq)
	if err != nil {
		return nil, fmt.Errorf("create paddle transaction: %w", err)
	}

	if txn.Checkout == nil || txn.Checkout.URL == nil {
		return nil, ErrNoCheckoutURL
	}

	return &CheckoutLink{
		URL:       *txn.Checkout.URL,
		SessionID: txn.ID,
		ExpiresAt: time.Now().Add(24 * time.Hour),
	}, nil
}

// GetCustomerPortalLink returns a link to Paddle's customer portal.
func (p *PaddleProvider) GetCustomerPortalLink(ctx context.Context, customerRef, subscriptionRef string) (*PortalLink, error) {
	if customerRef == "" {
		return nil, ErrMissingProviderCustomerRef
	}

	sessionReq := &paddle.CreateCustomerPortalSessionRequest{
		CustomerID: customerRef,
	}
	if subscriptionRef != "" {
		sessionReq.SubscriptionIDs = []string{subscriptionRef}
	}

	session, err := p.client.CustomerPortalSessionsClient.CreateCustomerPortalSession(ctx, sessionReq)
	if err != nil {
		return nil, fmt.Errorf("create paddle portal session: %w", err)
	}

	if session.URLs.General.Overview == "" {
		return nil, ErrNoPortalURL
	}

	return &PortalLink{
		URL:       session.URLs.General.Overview,
		ExpiresAt: time.Now().Add(24 * time.Hour),
	}, nil
}

// ParseWebhook verifies the Paddle signature and normalizes the payload into
// a WebhookEvent. Lifecycle events this core doesn't track come back with an
// empty-typed event error so callers can drop them.
func (p *PaddleProvider) ParseWebhook(ctx context.Context, payload []byte, signature string) (*WebhookEvent, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, "/webhook", bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("build verification request: %w", err)
	}
	req.Header.Set("Paddle-Signature", signature)

	valid, err := p.verifier.Verify(req)
	if err != nil {
		return nil, errors.Join(ErrWebhookVerificationFailed, err)
	}
	if !valid {
		return nil, ErrWebhookVerificationFailed
	}

	return parsePaddleEvent(payload)
}

// parsePaddleEvent normalizes a verified Paddle payload. Event types and
// subscription statuses this core doesn't track come back as
// ErrUnsupportedEvent so callers acknowledge instead of faulting; a fault
// here would make the provider redeliver the same payload forever.
func parsePaddleEvent(payload []byte) (*WebhookEvent, error) {
	var raw struct {
		EventType  string `json:"event_type"`
		OccurredAt string `json:"occurred_at"`
		Data       struct {
			ID                   string `json:"id"`
			Status               string `json:"status"`
			CustomerID           string `json:"customer_id"`
			SubscriptionID       string `json:"subscription_id"`
			CustomData           struct {
				CompanyID string `json:"company_id"`
			} `json:"custom_data"`
			CurrentBillingPeriod *struct {
				EndsAt string `json:"ends_at"`
			} `json:"current_billing_period"`
			Items []struct {
				Price struct {
					ID string `json:"id"`
				} `json:"price"`
			} `json:"items"`
		} `json:"data"`
	}
	if err := json.Unmarshal(payload, &raw); err != nil {
		return nil, fmt.Errorf("parse webhook payload: %w", err)
	}

	eventType, ok := mapPaddleEventType(raw.EventType)
	if !ok {
		return nil, errors.Join(ErrUnsupportedEvent, fmt.Errorf("paddle event %q", raw.EventType))
	}

	ev := &WebhookEvent{
		Type:          eventType,
		ProviderEvent: raw.EventType,
		CustomerRef:   raw.Data.CustomerID,
		CompanyRef:    raw.Data.CustomData.CompanyID,
	}

	// Subscription events carry their own ID; transaction events reference
	// the subscription they settle.
	if strings.HasPrefix(raw.EventType, "subscription.") {
		ev.SubscriptionRef = raw.Data.ID
	} else {
		ev.SubscriptionRef = raw.Data.SubscriptionID
	}

	if eventType == EventSubscriptionUpdated {
		status, ok := mapPaddleStatus(raw.Data.Status)
		if !ok {
			return nil, errors.Join(ErrUnsupportedEvent,
				fmt.Errorf("paddle subscription status %q", raw.Data.Status))
		}
		ev.Status = status
	}

	if raw.OccurredAt != "" {
		if t, err := time.Parse(time.RFC3339, raw.OccurredAt); err == nil {
			ev.OccurredAt = t
		}
	}
	if raw.Data.CurrentBillingPeriod != nil {
		if t, err := time.Parse(time.RFC3339, raw.Data.CurrentBillingPeriod.EndsAt); err == nil {
			ev.CurrentPeriodEnd = &t
		}
	}
	if len(raw.Data.Items) > 0 {
		ev.PriceID = raw.Data.Items[0].Price.ID
	}

	return ev, nil
}

func mapPaddleEventType(name string) (EventType, bool) {
	switch name {
	case "subscription.updated", "subscription.created":
		return EventSubscriptionUpdated, true
	case "subscription.canceled":
		return EventSubscriptionDeleted, true
	case "transaction.payment_succeeded", "transaction.completed":
		return EventPaymentSucceeded, true
	case "transaction.payment_failed":
		return EventPaymentFailed, true
	default:
		return "", false
	}
}

func mapPaddleStatus(status string) (company.Status, bool) {
	switch strings.ToLower(status) {
	case "trialing":
		return company.StatusTrialing, true
	case "active":
		return company.StatusActive, true
	case "past_due":
		return company.StatusPastDue, true
	case "canceled", "cancelled":
		return company.StatusCancelled, true
	default:
		// Paddle statuses with no lifecycle mapping here (paused, for one)
		// are dropped at this boundary, not faulted downstream.
		return "", false
	}
}
