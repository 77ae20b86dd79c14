package types

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestNightsBetween(t *testing.T) {
	checkIn := time.Date(2025, 7, 1, 0, 0, 0, 0, time.UTC)

	assert.Equal(t, 2, NightsBetween(checkIn, checkIn.AddDate(0, 0, 2)))
	assert.Equal(t, 0, NightsBetween(checkIn, checkIn))
	assert.Equal(t, -1, NightsBetween(checkIn, checkIn.AddDate(0, 0, -1)))

	// Clock times are irrelevant: a late check-in and early check-out still
	// span the same calendar nights
	lateCheckIn := time.Date(2025, 7, 1, 23, 30, 0, 0, time.UTC)
	earlyCheckOut := time.Date(2025, 7, 3, 6, 0, 0, 0, time.UTC)
	assert.Equal(t, 2, NightsBetween(lateCheckIn, earlyCheckOut))
}

func TestAgeOn(t *testing.T) {
	birth := time.Date(2011, 7, 15, 0, 0, 0, 0, time.UTC)

	assert.Equal(t, 13, AgeOn(birth, time.Date(2025, 7, 14, 0, 0, 0, 0, time.UTC)))
	assert.Equal(t, 14, AgeOn(birth, time.Date(2025, 7, 15, 0, 0, 0, 0, time.UTC)), "birthday itself counts")
	assert.Equal(t, 14, AgeOn(birth, time.Date(2025, 12, 1, 0, 0, 0, 0, time.UTC)))
	assert.Equal(t, 13, AgeOn(birth, time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)))
}

func TestQuarterMonths(t *testing.T) {
	assert.Equal(t, []time.Month{time.January, time.February, time.March}, QuarterMonths(1))
	assert.Equal(t, []time.Month{time.October, time.November, time.December}, QuarterMonths(4))
	assert.Nil(t, QuarterMonths(5))
}
