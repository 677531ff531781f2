package quota

import (
	"time"

	"github.com/fieldcheck/fieldcheck/pkg/company"
)

// MaybeResetMonthly zeroes the monthly inspection counter when the calendar
// month (and year) of now differs from the last reset. Safe to call on every
// authorization attempt: within the same month it is a no-op, and a tenant
// idle for several months resets exactly once, to zero, with no carry-over.
// Reports whether a reset happened.
func MaybeResetMonthly(u *company.UsageCounters, now time.Time) bool {
	if sameCalendarMonth(u.LastResetAt, now) {
		return false
	}
	u.InspectionsThisMonth = 0
	u.LastResetAt = now
	return true
}

func sameCalendarMonth(a, b time.Time) bool {
	return a.Year() == b.Year() && a.Month() == b.Month()
}
