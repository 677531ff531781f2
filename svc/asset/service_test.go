package asset_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fieldcheck/fieldcheck/pkg/company"
	"github.com/fieldcheck/fieldcheck/pkg/quota"
	"github.com/fieldcheck/fieldcheck/svc/asset"
)

func seedCompany(t *testing.T, store company.Store, assetsUsed, maxAssets int64) *company.Company {
	t.Helper()

	now := time.Now().UTC()
	c := &company.Company{
		ID:    uuid.New(),
		Name:  "Ridge Water Authority",
		Email: "ops@ridgewater.test",
		Subscription: company.Subscription{
			Plan:   company.PlanBasic,
			Status: company.StatusActive,
		},
		Limits: company.Limits{
			MaxSeats:               10,
			MaxAssets:              maxAssets,
			MaxInspectionsPerMonth: 500,
			AIAnalysisEnabled:      true,
		},
		Usage:     company.UsageCounters{AssetsUsed: assetsUsed, LastResetAt: now},
		Active:    true,
		CreatedAt: now,
		UpdatedAt: now,
	}
	require.NoError(t, store.Create(context.Background(), c))
	return c
}

func TestService_Register(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	t.Run("registers an asset and consumes quota", func(t *testing.T) {
		t.Parallel()

		companies := company.NewMemoryStore()
		c := seedCompany(t, companies, 0, 200)
		svc := asset.NewService(asset.NewMemoryStore(), quota.NewGate(companies), nil)

		a, err := svc.Register(ctx, c.ID, "Feedwater Pump 3", "FWP-003", asset.TypePump)
		require.NoError(t, err)
		assert.Equal(t, asset.StatusActive, a.Status)
		assert.Equal(t, asset.TypePump, a.Type)

		got, err := companies.Get(ctx, c.ID)
		require.NoError(t, err)
		assert.Equal(t, int64(1), got.Usage.AssetsUsed)
	})

	t.Run("asset limit denial creates nothing", func(t *testing.T) {
		t.Parallel()

		companies := company.NewMemoryStore()
		c := seedCompany(t, companies, 200, 200)
		store := asset.NewMemoryStore()
		svc := asset.NewService(store, quota.NewGate(companies), nil)

		_, err := svc.Register(ctx, c.ID, "One Too Many", "XTRA-001", asset.TypeValve)

		reason, denied := quota.IsDenied(err)
		require.True(t, denied)
		assert.Equal(t, quota.ReasonAssetLimitReached, reason)

		listed, err := store.ListByCompany(ctx, c.ID)
		require.NoError(t, err)
		assert.Empty(t, listed)
	})

	t.Run("unknown company is a fault", func(t *testing.T) {
		t.Parallel()

		svc := asset.NewService(asset.NewMemoryStore(), quota.NewGate(company.NewMemoryStore()), nil)

		_, err := svc.Register(ctx, uuid.New(), "Ghost Pump", "GP-1", asset.TypePump)
		require.ErrorIs(t, err, company.ErrCompanyNotFound)
	})
}
