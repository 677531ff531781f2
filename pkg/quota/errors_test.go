package quota_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/fieldcheck/fieldcheck/pkg/quota"
)

func TestIsDenied(t *testing.T) {
	t.Parallel()

	t.Run("extracts the reason through wrapping", func(t *testing.T) {
		t.Parallel()

		err := fmt.Errorf("create user: %w", quota.Denied(quota.ReasonSeatLimitReached))

		reason, ok := quota.IsDenied(err)
		assert.True(t, ok)
		assert.Equal(t, quota.ReasonSeatLimitReached, reason)
	})

	t.Run("plain errors are not denials", func(t *testing.T) {
		t.Parallel()

		reason, ok := quota.IsDenied(errors.New("database unreachable"))
		assert.False(t, ok)
		assert.Empty(t, reason)
	})
}
