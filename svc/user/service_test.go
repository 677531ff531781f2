package user_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fieldcheck/fieldcheck/pkg/company"
	"github.com/fieldcheck/fieldcheck/pkg/quota"
	"github.com/fieldcheck/fieldcheck/pkg/roles"
	"github.com/fieldcheck/fieldcheck/svc/user"
)

func seedCompany(t *testing.T, store company.Store, seatsUsed, maxSeats int64) *company.Company {
	t.Helper()

	now := time.Now().UTC()
	c := &company.Company{
		ID:    uuid.New(),
		Name:  "Harbor Lift Co",
		Email: "ops@harborlift.test",
		Subscription: company.Subscription{
			Plan:   company.PlanBasic,
			Status: company.StatusActive,
		},
		Limits: company.Limits{
			MaxSeats:               maxSeats,
			MaxAssets:              200,
			MaxInspectionsPerMonth: 500,
			AIAnalysisEnabled:      true,
		},
		Usage:     company.UsageCounters{SeatsUsed: seatsUsed, LastResetAt: now},
		Active:    true,
		CreatedAt: now,
		UpdatedAt: now,
	}
	require.NoError(t, store.Create(context.Background(), c))
	return c
}

func TestService_Create(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	t.Run("creates a user and consumes a seat", func(t *testing.T) {
		t.Parallel()

		companies := company.NewMemoryStore()
		c := seedCompany(t, companies, 0, 10)
		svc := user.NewService(user.NewMemoryStore(), quota.NewGate(companies), nil)

		u, err := svc.Create(ctx, c.ID, "jo@harborlift.test", "Jo Field", roles.RoleEngineer)
		require.NoError(t, err)

		assert.Equal(t, roles.RoleEngineer, u.Role)
		assert.True(t, u.Permissions.CanCreateAssets)
		assert.False(t, u.Permissions.CanManageUsers)

		got, err := companies.Get(ctx, c.ID)
		require.NoError(t, err)
		assert.Equal(t, int64(1), got.Usage.SeatsUsed)
	})

	t.Run("seat limit denial surfaces as a quota denial", func(t *testing.T) {
		t.Parallel()

		companies := company.NewMemoryStore()
		c := seedCompany(t, companies, 10, 10)
		svc := user.NewService(user.NewMemoryStore(), quota.NewGate(companies), nil)

		_, err := svc.Create(ctx, c.ID, "late@harborlift.test", "Late Hire", roles.RoleTechnician)

		reason, denied := quota.IsDenied(err)
		require.True(t, denied)
		assert.Equal(t, quota.ReasonSeatLimitReached, reason)

		got, err := companies.Get(ctx, c.ID)
		require.NoError(t, err)
		assert.Equal(t, int64(10), got.Usage.SeatsUsed)
	})

	t.Run("rejects unknown roles before touching quota", func(t *testing.T) {
		t.Parallel()

		companies := company.NewMemoryStore()
		c := seedCompany(t, companies, 0, 10)
		svc := user.NewService(user.NewMemoryStore(), quota.NewGate(companies), nil)

		_, err := svc.Create(ctx, c.ID, "x@harborlift.test", "X", roles.Role("superuser"))
		require.ErrorIs(t, err, user.ErrInvalidRole)

		got, err := companies.Get(ctx, c.ID)
		require.NoError(t, err)
		assert.Zero(t, got.Usage.SeatsUsed)
	})
}

func TestService_ChangeRole(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	t.Run("re-derives permissions and consumes no seat", func(t *testing.T) {
		t.Parallel()

		companies := company.NewMemoryStore()
		c := seedCompany(t, companies, 0, 10)
		svc := user.NewService(user.NewMemoryStore(), quota.NewGate(companies), nil)

		u, err := svc.Create(ctx, c.ID, "jo@harborlift.test", "Jo Field", roles.RoleTechnician)
		require.NoError(t, err)
		assert.False(t, u.Permissions.CanCreateAssets)

		promoted, err := svc.ChangeRole(ctx, u.ID, roles.RoleManager)
		require.NoError(t, err)
		assert.Equal(t, roles.RoleManager, promoted.Role)
		assert.True(t, promoted.Permissions.CanCreateAssets)
		assert.True(t, promoted.Permissions.CanExportData)

		got, err := companies.Get(ctx, c.ID)
		require.NoError(t, err)
		assert.Equal(t, int64(1), got.Usage.SeatsUsed)
	})

	t.Run("unknown user", func(t *testing.T) {
		t.Parallel()

		companies := company.NewMemoryStore()
		seedCompany(t, companies, 0, 10)
		svc := user.NewService(user.NewMemoryStore(), quota.NewGate(companies), nil)

		_, err := svc.ChangeRole(ctx, uuid.New(), roles.RoleAdmin)
		require.ErrorIs(t, err, user.ErrUserNotFound)
	})
}
