package types

import (
	"time"
)

// DateOnly truncates a timestamp to UTC midnight. Stay dates and rule
// validity windows are calendar dates; comparing anything finer than a day
// would make the same booking tax differently depending on the clock.
func DateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// NightsBetween returns the number of calendar nights between check-in and
// check-out. A stay from the 1st to the 3rd is 2 nights.
func NightsBetween(checkIn, checkOut time.Time) int {
	return int(DateOnly(checkOut).Sub(DateOnly(checkIn)).Hours() / 24)
}

// AgeOn returns the age in whole years on the reference date, using
// calendar-year arithmetic: the year difference, minus one when the birthday
// has not yet been reached in the reference year.
func AgeOn(birthDate, referenceDate time.Time) int {
	age := referenceDate.Year() - birthDate.Year()
	if referenceDate.Month() < birthDate.Month() ||
		(referenceDate.Month() == birthDate.Month() && referenceDate.Day() < birthDate.Day()) {
		age--
	}
	return age
}

// QuarterMonths maps a quarter (1-4) to its fixed 3-month group.
// Returns nil for an out-of-range quarter.
func QuarterMonths(quarter int) []time.Month {
	quarters := map[int][]time.Month{
		1: {time.January, time.February, time.March},
		2: {time.April, time.May, time.June},
		3: {time.July, time.August, time.September},
		4: {time.October, time.November, time.December},
	}
	return quarters[quarter]
}
