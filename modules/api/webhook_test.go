package api_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fieldcheck/fieldcheck/modules/api"
	"github.com/fieldcheck/fieldcheck/pkg/company"
	"github.com/fieldcheck/fieldcheck/pkg/quota"
	"github.com/fieldcheck/fieldcheck/pkg/subscription"
)

// stubProvider normalizes the raw payload as a pre-built event, or fails
// verification when the signature doesn't match its secret.
type stubProvider struct {
	secret string
	event  *subscription.WebhookEvent
	err    error
}

func (p *stubProvider) CreateCheckoutLink(ctx context.Context, req subscription.CheckoutRequest) (*subscription.CheckoutLink, error) {
	return nil, subscription.ErrNoCheckoutURL
}

func (p *stubProvider) GetCustomerPortalLink(ctx context.Context, customerRef, subscriptionRef string) (*subscription.PortalLink, error) {
	return nil, subscription.ErrNoPortalURL
}

func (p *stubProvider) ParseWebhook(ctx context.Context, payload []byte, signature string) (*subscription.WebhookEvent, error) {
	if signature != p.secret {
		return nil, subscription.ErrWebhookVerificationFailed
	}
	if p.err != nil {
		return nil, p.err
	}
	return p.event, nil
}

func newWebhookServer(t *testing.T, provider subscription.BillingProvider) (http.Handler, company.Store) {
	t.Helper()

	store := company.NewMemoryStore()
	catalog, err := subscription.NewCatalog(context.Background(), subscription.NewDefaultSource())
	require.NoError(t, err)

	router := api.Router(api.RouterOptions{
		Gate:          quota.NewGate(store),
		Subscriptions: subscription.NewService(store, catalog, provider),
	})
	return router, store
}

func postWebhook(t *testing.T, h http.Handler, signature string) *httptest.ResponseRecorder {
	t.Helper()

	req := httptest.NewRequest(http.MethodPost, "/billing/webhook", bytes.NewBufferString(`{}`))
	req.Header.Set("Paddle-Signature", signature)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestBillingWebhookEndpoint(t *testing.T) {
	t.Parallel()

	t.Run("applies a verified event", func(t *testing.T) {
		t.Parallel()

		provider := &stubProvider{
			secret: "ts=1;h1=good",
			event: &subscription.WebhookEvent{
				Type:        subscription.EventPaymentFailed,
				CustomerRef: "ctm_hook",
			},
		}
		router, store := newWebhookServer(t, provider)
		c := seedActiveCompany(t, store, func(c *company.Company) {
			c.Subscription.BillingCustomerRef = "ctm_hook"
		})

		rec := postWebhook(t, router, "ts=1;h1=good")

		require.Equal(t, http.StatusOK, rec.Code)
		var res subscription.Result
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &res))
		assert.True(t, res.Applied)

		got, err := store.Get(context.Background(), c.ID)
		require.NoError(t, err)
		assert.Equal(t, company.StatusPastDue, got.Subscription.Status)
	})

	t.Run("bad signature is 401", func(t *testing.T) {
		t.Parallel()

		provider := &stubProvider{secret: "ts=1;h1=good"}
		router, _ := newWebhookServer(t, provider)

		rec := postWebhook(t, router, "ts=1;h1=forged")

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("unsupported events are acknowledged", func(t *testing.T) {
		t.Parallel()

		provider := &stubProvider{secret: "sig", err: subscription.ErrUnsupportedEvent}
		router, _ := newWebhookServer(t, provider)

		rec := postWebhook(t, router, "sig")

		require.Equal(t, http.StatusOK, rec.Code)
		var res subscription.Result
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &res))
		assert.False(t, res.Applied)
		assert.Equal(t, "unsupported_event", res.Ignored)
	})

	t.Run("unknown reference is acknowledged", func(t *testing.T) {
		t.Parallel()

		provider := &stubProvider{
			secret: "sig",
			event: &subscription.WebhookEvent{
				Type:            subscription.EventSubscriptionDeleted,
				SubscriptionRef: "sub_never_seen",
			},
		}
		router, _ := newWebhookServer(t, provider)

		rec := postWebhook(t, router, "sig")

		require.Equal(t, http.StatusOK, rec.Code)
		var res subscription.Result
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &res))
		assert.Equal(t, subscription.IgnoredUnknownReference, res.Ignored)
	})
}
