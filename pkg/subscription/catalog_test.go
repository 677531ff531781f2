package subscription_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fieldcheck/fieldcheck/pkg/company"
	"github.com/fieldcheck/fieldcheck/pkg/subscription"
)

func TestNewCatalog(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	t.Run("loads the default catalog", func(t *testing.T) {
		t.Parallel()

		catalog, err := subscription.NewCatalog(ctx, subscription.NewDefaultSource())
		require.NoError(t, err)

		trial, err := catalog.Resolve(company.PlanTrial)
		require.NoError(t, err)
		assert.Equal(t, int64(5), trial.Limits.MaxSeats)
		assert.Equal(t, int64(50), trial.Limits.MaxAssets)
		assert.Equal(t, int64(100), trial.Limits.MaxInspectionsPerMonth)
		assert.Equal(t, 14, trial.TrialDays)

		enterprise, err := catalog.Resolve(company.PlanEnterprise)
		require.NoError(t, err)
		assert.Equal(t, company.Unlimited, enterprise.Limits.MaxAssets)
		assert.Equal(t, company.Unlimited, enterprise.Limits.MaxInspectionsPerMonth)
	})

	t.Run("every tier has ai analysis", func(t *testing.T) {
		t.Parallel()

		catalog, err := subscription.NewCatalog(ctx, subscription.NewDefaultSource())
		require.NoError(t, err)

		for _, plan := range catalog.Plans() {
			assert.True(t, plan.Limits.AIAnalysisEnabled, "plan %s", plan.ID)
		}
	})

	t.Run("missing required plan", func(t *testing.T) {
		t.Parallel()

		plans := subscription.DefaultPlans()
		delete(plans, company.PlanTrial)

		_, err := subscription.NewCatalog(ctx, subscription.NewInMemSource(plans))
		require.ErrorIs(t, err, subscription.ErrInvalidPlanConfiguration)
	})

	t.Run("zero limit is invalid", func(t *testing.T) {
		t.Parallel()

		plans := subscription.DefaultPlans()
		p := plans[company.PlanBasic]
		p.Limits.MaxAssets = 0
		plans[company.PlanBasic] = p

		_, err := subscription.NewCatalog(ctx, subscription.NewInMemSource(plans))
		require.ErrorIs(t, err, subscription.ErrInvalidPlanConfiguration)
	})

	t.Run("limit below the unlimited sentinel is invalid", func(t *testing.T) {
		t.Parallel()

		plans := subscription.DefaultPlans()
		p := plans[company.PlanBasic]
		p.Limits.MaxSeats = -2
		plans[company.PlanBasic] = p

		_, err := subscription.NewCatalog(ctx, subscription.NewInMemSource(plans))
		require.ErrorIs(t, err, subscription.ErrInvalidPlanConfiguration)
	})

	t.Run("id mismatch between key and plan", func(t *testing.T) {
		t.Parallel()

		plans := subscription.DefaultPlans()
		p := plans[company.PlanBasic]
		p.ID = company.PlanProfessional
		plans[company.PlanBasic] = p

		_, err := subscription.NewCatalog(ctx, subscription.NewInMemSource(plans))
		require.ErrorIs(t, err, subscription.ErrInvalidPlanConfiguration)
	})

	t.Run("unknown plan does not resolve", func(t *testing.T) {
		t.Parallel()

		catalog, err := subscription.NewCatalog(ctx, subscription.NewDefaultSource())
		require.NoError(t, err)

		_, err = catalog.Resolve(company.Plan("platinum"))
		require.ErrorIs(t, err, subscription.ErrPlanNotFound)
	})

	t.Run("resolves plans by provider price id", func(t *testing.T) {
		t.Parallel()

		plans := subscription.DefaultPlans()
		p := plans[company.PlanBasic]
		p.PriceID = "pri_basic_monthly"
		plans[company.PlanBasic] = p

		catalog, err := subscription.NewCatalog(ctx, subscription.NewInMemSource(plans))
		require.NoError(t, err)

		got, ok := catalog.ResolveByPriceID("pri_basic_monthly")
		require.True(t, ok)
		assert.Equal(t, company.PlanBasic, got.ID)

		_, ok = catalog.ResolveByPriceID("pri_unknown")
		assert.False(t, ok)
	})
}
