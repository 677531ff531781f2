package quota_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fieldcheck/fieldcheck/pkg/company"
	"github.com/fieldcheck/fieldcheck/pkg/quota"
)

// Test helpers

func basicLimits() company.Limits {
	return company.Limits{
		MaxSeats:               10,
		MaxAssets:              200,
		MaxInspectionsPerMonth: 500,
		AIAnalysisEnabled:      true,
	}
}

func seedCompany(t *testing.T, store company.Store, mutate func(*company.Company)) *company.Company {
	t.Helper()

	now := time.Now().UTC()
	c := &company.Company{
		ID:    uuid.New(),
		Name:  "Acme Field Services",
		Email: "ops@acme.test",
		Subscription: company.Subscription{
			Plan:   company.PlanBasic,
			Status: company.StatusActive,
		},
		Limits: basicLimits(),
		Usage: company.UsageCounters{
			LastResetAt: now,
		},
		Active:    true,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if mutate != nil {
		mutate(c)
	}
	require.NoError(t, store.Create(context.Background(), c))
	return c
}

func TestGate_Authorize(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	t.Run("allows and increments under the limit", func(t *testing.T) {
		t.Parallel()

		store := company.NewMemoryStore()
		c := seedCompany(t, store, func(c *company.Company) {
			c.Usage.SeatsUsed = 3
		})
		gate := quota.NewGate(store)

		decision, err := gate.Authorize(ctx, c.ID, quota.OpAddSeat)

		require.NoError(t, err)
		assert.True(t, decision.Allowed)
		assert.Empty(t, decision.Reason)

		stored, err := store.Get(ctx, c.ID)
		require.NoError(t, err)
		assert.Equal(t, int64(4), stored.Usage.SeatsUsed)
	})

	t.Run("denies at the limit and leaves counters untouched", func(t *testing.T) {
		t.Parallel()

		store := company.NewMemoryStore()
		c := seedCompany(t, store, func(c *company.Company) {
			c.Usage.AssetsUsed = 200
		})
		gate := quota.NewGate(store)

		decision, err := gate.Authorize(ctx, c.ID, quota.OpAddAsset)

		require.NoError(t, err)
		assert.False(t, decision.Allowed)
		assert.Equal(t, quota.ReasonAssetLimitReached, decision.Reason)

		stored, err := store.Get(ctx, c.ID)
		require.NoError(t, err)
		assert.Equal(t, int64(200), stored.Usage.AssetsUsed)
	})

	t.Run("past due is denied before any counter comparison", func(t *testing.T) {
		t.Parallel()

		store := company.NewMemoryStore()
		c := seedCompany(t, store, func(c *company.Company) {
			c.Subscription.Status = company.StatusPastDue
			c.Usage.SeatsUsed = 0 // well under quota
		})
		gate := quota.NewGate(store)

		decision, err := gate.Authorize(ctx, c.ID, quota.OpAddSeat)

		require.NoError(t, err)
		assert.False(t, decision.Allowed)
		assert.Equal(t, quota.ReasonPaymentRequired, decision.Reason)
	})

	t.Run("cancelled is denied for every operation", func(t *testing.T) {
		t.Parallel()

		store := company.NewMemoryStore()
		c := seedCompany(t, store, func(c *company.Company) {
			c.Subscription.Status = company.StatusCancelled
		})
		gate := quota.NewGate(store)

		for _, op := range []quota.Operation{
			quota.OpAddSeat, quota.OpAddAsset, quota.OpCreateInspection, quota.OpRunAIAnalysis,
		} {
			decision, err := gate.Authorize(ctx, c.ID, op)
			require.NoError(t, err)
			assert.False(t, decision.Allowed)
			assert.Equal(t, quota.ReasonSubscriptionInactive, decision.Reason)
		}
	})

	t.Run("usage above limit after downgrade is a denial not a fault", func(t *testing.T) {
		t.Parallel()

		store := company.NewMemoryStore()
		c := seedCompany(t, store, func(c *company.Company) {
			c.Usage.AssetsUsed = 800 // accrued on a larger plan
			c.Limits.MaxAssets = 200
		})
		gate := quota.NewGate(store)

		decision, err := gate.Authorize(ctx, c.ID, quota.OpAddAsset)

		require.NoError(t, err)
		assert.False(t, decision.Allowed)
		assert.Equal(t, quota.ReasonAssetLimitReached, decision.Reason)

		stored, err := store.Get(ctx, c.ID)
		require.NoError(t, err)
		assert.Equal(t, int64(800), stored.Usage.AssetsUsed)
	})

	t.Run("unlimited resources always pass the counter check", func(t *testing.T) {
		t.Parallel()

		store := company.NewMemoryStore()
		c := seedCompany(t, store, func(c *company.Company) {
			c.Limits.MaxAssets = company.Unlimited
			c.Usage.AssetsUsed = 1 << 40
		})
		gate := quota.NewGate(store)

		decision, err := gate.Authorize(ctx, c.ID, quota.OpAddAsset)

		require.NoError(t, err)
		assert.True(t, decision.Allowed)
	})

	t.Run("ai analysis is unmetered", func(t *testing.T) {
		t.Parallel()

		store := company.NewMemoryStore()
		c := seedCompany(t, store, nil)
		gate := quota.NewGate(store)

		for range 3 {
			decision, err := gate.Authorize(ctx, c.ID, quota.OpRunAIAnalysis)
			require.NoError(t, err)
			assert.True(t, decision.Allowed)
		}

		stored, err := store.Get(ctx, c.ID)
		require.NoError(t, err)
		assert.Zero(t, stored.Usage.SeatsUsed)
		assert.Zero(t, stored.Usage.AssetsUsed)
		assert.Zero(t, stored.Usage.InspectionsThisMonth)
	})

	t.Run("ai analysis denied when the plan lacks it", func(t *testing.T) {
		t.Parallel()

		store := company.NewMemoryStore()
		c := seedCompany(t, store, func(c *company.Company) {
			c.Limits.AIAnalysisEnabled = false
		})
		gate := quota.NewGate(store)

		decision, err := gate.Authorize(ctx, c.ID, quota.OpRunAIAnalysis)

		require.NoError(t, err)
		assert.False(t, decision.Allowed)
		assert.Equal(t, quota.ReasonFeatureNotAvailable, decision.Reason)
	})

	t.Run("unknown operation is an error", func(t *testing.T) {
		t.Parallel()

		store := company.NewMemoryStore()
		c := seedCompany(t, store, nil)
		gate := quota.NewGate(store)

		_, err := gate.Authorize(ctx, c.ID, quota.Operation("delete_everything"))

		require.ErrorIs(t, err, quota.ErrUnknownOperation)
	})

	t.Run("unknown company is an error not a denial", func(t *testing.T) {
		t.Parallel()

		gate := quota.NewGate(company.NewMemoryStore())

		_, err := gate.Authorize(ctx, uuid.New(), quota.OpAddSeat)

		require.ErrorIs(t, err, company.ErrCompanyNotFound)
	})

	t.Run("corrupted record surfaces as invariant fault", func(t *testing.T) {
		t.Parallel()

		store := company.NewMemoryStore()
		c := seedCompany(t, store, func(c *company.Company) {
			c.Usage.SeatsUsed = -1
		})
		gate := quota.NewGate(store)

		_, err := gate.Authorize(ctx, c.ID, quota.OpAddSeat)

		require.ErrorIs(t, err, company.ErrInvariantViolation)
	})
}

func TestGate_MonthlyReset(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	t.Run("stale month resets before the inspection check", func(t *testing.T) {
		t.Parallel()

		lastReset := time.Date(2026, time.January, 15, 10, 0, 0, 0, time.UTC)
		now := time.Date(2026, time.February, 1, 0, 0, 1, 0, time.UTC)

		store := company.NewMemoryStore()
		c := seedCompany(t, store, func(c *company.Company) {
			c.Usage.InspectionsThisMonth = 500 // at the limit
			c.Usage.LastResetAt = lastReset
		})
		gate := quota.NewGate(store, quota.WithClock(func() time.Time { return now }))

		decision, err := gate.Authorize(ctx, c.ID, quota.OpCreateInspection)

		require.NoError(t, err)
		assert.True(t, decision.Allowed)

		stored, err := store.Get(ctx, c.ID)
		require.NoError(t, err)
		assert.Equal(t, int64(1), stored.Usage.InspectionsThisMonth)
		assert.Equal(t, now, stored.Usage.LastResetAt)
	})

	t.Run("reset does not touch seats or assets", func(t *testing.T) {
		t.Parallel()

		store := company.NewMemoryStore()
		c := seedCompany(t, store, func(c *company.Company) {
			c.Usage.SeatsUsed = 7
			c.Usage.AssetsUsed = 120
			c.Usage.InspectionsThisMonth = 44
			c.Usage.LastResetAt = time.Date(2026, time.March, 3, 0, 0, 0, 0, time.UTC)
		})
		gate := quota.NewGate(store, quota.WithClock(func() time.Time {
			return time.Date(2026, time.April, 3, 0, 0, 0, 0, time.UTC)
		}))

		_, err := gate.Authorize(ctx, c.ID, quota.OpCreateInspection)
		require.NoError(t, err)

		stored, err := store.Get(ctx, c.ID)
		require.NoError(t, err)
		assert.Equal(t, int64(7), stored.Usage.SeatsUsed)
		assert.Equal(t, int64(120), stored.Usage.AssetsUsed)
		assert.Equal(t, int64(1), stored.Usage.InspectionsThisMonth)
	})

	t.Run("denied authorization persists nothing including the reset", func(t *testing.T) {
		t.Parallel()

		lastReset := time.Date(2026, time.January, 15, 10, 0, 0, 0, time.UTC)

		store := company.NewMemoryStore()
		c := seedCompany(t, store, func(c *company.Company) {
			c.Subscription.Status = company.StatusPastDue
			c.Usage.InspectionsThisMonth = 42
			c.Usage.LastResetAt = lastReset
		})
		gate := quota.NewGate(store, quota.WithClock(func() time.Time {
			return time.Date(2026, time.February, 10, 0, 0, 0, 0, time.UTC)
		}))

		decision, err := gate.Authorize(ctx, c.ID, quota.OpCreateInspection)

		require.NoError(t, err)
		assert.False(t, decision.Allowed)
		assert.Equal(t, quota.ReasonPaymentRequired, decision.Reason)

		stored, err := store.Get(ctx, c.ID)
		require.NoError(t, err)
		assert.Equal(t, int64(42), stored.Usage.InspectionsThisMonth)
		assert.Equal(t, lastReset, stored.Usage.LastResetAt)
	})
}
