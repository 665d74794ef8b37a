package rules

import (
	"time"

	"github.com/Dutaco/wingoo-clean/internal/domain/enums"
)

const (
	GiftsPerMonth   = 5
	FlightsPerMonth = 1
	NewsPerMonth    = 3

	// GiftFeeCents is charged per gift once the free monthly quota is
	// exhausted, under the charge-on-limit policy.
	GiftFeeCents = 50
)

func CapFor(feature enums.Feature) int {
	switch feature {
	case enums.FeatureGifts:
		return GiftsPerMonth
	case enums.FeatureFlights:
		return FlightsPerMonth
	case enums.FeatureNews:
		return NewsPerMonth
	default:
		return 0
	}
}

// SamePeriod reports whether two instants fall in the same UTC
// calendar month.
func SamePeriod(a, b time.Time) bool {
	a, b = a.UTC(), b.UTC()
	return a.Year() == b.Year() && a.Month() == b.Month()
}

// PeriodExpired reports whether counters marked at lastReset are due
// for a reset at now. A lastReset in the future counts as expired so
// clock inconsistencies resolve to "reset now" rather than an error.
func PeriodExpired(lastReset, now time.Time) bool {
	if lastReset.After(now) {
		return true
	}
	return !SamePeriod(lastReset, now)
}

// NextResetAt is the start of the next UTC calendar month.
func NextResetAt(now time.Time) time.Time {
	now = now.UTC()
	return time.Date(now.Year(), now.Month()+1, 1, 0, 0, 0, 0, time.UTC)
}
