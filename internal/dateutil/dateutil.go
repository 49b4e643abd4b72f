// Package dateutil provides weekend-aware date arithmetic for scheduling
// defaults. The weekend policy is always passed explicitly; automated date
// calculations honor it while manual date entry stays unrestricted.
package dateutil

import "time"

// WeekendPolicy says which weekend days count as workable days.
type WeekendPolicy struct {
	IncludeSaturday bool
	IncludeSunday   bool
}

// EveryDay treats all seven days as workable.
var EveryDay = WeekendPolicy{IncludeSaturday: true, IncludeSunday: true}

func (p WeekendPolicy) excluded(d time.Time) bool {
	switch d.Weekday() {
	case time.Saturday:
		return !p.IncludeSaturday
	case time.Sunday:
		return !p.IncludeSunday
	}
	return false
}

// IncrementDate moves a date by days (negative for backwards), skipping
// weekend days excluded by the policy. Skipped days do not consume an
// increment. With both weekend days included this is plain date arithmetic.
func IncrementDate(start time.Time, days int, policy WeekendPolicy) time.Time {
	if policy.IncludeSaturday && policy.IncludeSunday {
		return start.AddDate(0, 0, days)
	}

	direction := 1
	if days < 0 {
		direction = -1
		days = -days
	}

	current := start
	for days > 0 {
		current = current.AddDate(0, 0, direction)
		if !policy.excluded(current) {
			days--
		}
	}
	return current
}

// AdjustToBusinessDay moves a date forward to the next workable day if it
// falls on an excluded weekend day.
func AdjustToBusinessDay(target time.Time, policy WeekendPolicy) time.Time {
	current := target
	for policy.excluded(current) {
		current = current.AddDate(0, 0, 1)
	}
	return current
}

// NextBusinessDay returns the first workable day after the given date.
func NextBusinessDay(from time.Time, policy WeekendPolicy) time.Time {
	return IncrementDate(from, 1, policy)
}
