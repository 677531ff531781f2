package company

import (
	"errors"
	"fmt"
)

// CheckInvariants verifies that a company record is internally consistent.
// A failure here means the stored state is corrupted; it must surface as a
// fault rather than be clamped into a plausible-looking value.
func (c *Company) CheckInvariants() error {
	if c.Usage.SeatsUsed < 0 || c.Usage.AssetsUsed < 0 || c.Usage.InspectionsThisMonth < 0 {
		return errors.Join(ErrInvariantViolation,
			fmt.Errorf("company %s has negative usage counters: seats=%d assets=%d inspections=%d",
				c.ID, c.Usage.SeatsUsed, c.Usage.AssetsUsed, c.Usage.InspectionsThisMonth))
	}

	if !c.Subscription.Status.Valid() {
		return errors.Join(ErrInvariantViolation,
			fmt.Errorf("company %s has unknown subscription status %q", c.ID, c.Subscription.Status))
	}

	// Limits must be positive or exactly the Unlimited sentinel. Zero means
	// the snapshot was never assigned; below the sentinel means corruption
	// that limitReached would otherwise read as a permanent denial.
	for _, limit := range []int64{c.Limits.MaxSeats, c.Limits.MaxAssets, c.Limits.MaxInspectionsPerMonth} {
		if limit == 0 || limit < Unlimited {
			return errors.Join(ErrInvariantViolation,
				fmt.Errorf("company %s has an invalid limits snapshot for plan %q: seats=%d assets=%d inspections=%d",
					c.ID, c.Subscription.Plan, c.Limits.MaxSeats, c.Limits.MaxAssets, c.Limits.MaxInspectionsPerMonth))
		}
	}

	return nil
}
