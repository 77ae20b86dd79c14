package citytax

import (
	"testing"
	"time"

	"github.com/Bedotech/smartbook/internal/domain/guest"
	"github.com/Bedotech/smartbook/internal/domain/taxrule"
	ierr "github.com/Bedotech/smartbook/internal/errors"
	"github.com/Bedotech/smartbook/internal/types"
	"github.com/samber/lo"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	checkIn  = time.Date(2025, 7, 1, 0, 0, 0, 0, time.UTC)
	rate     = decimal.RequireFromString("2.50")
	standard = &taxrule.TaxRule{
		ID:               "taxrule_test",
		PropertyID:       "property_test",
		ValidFrom:        time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
		BaseRatePerNight: rate,
	}
)

func adultGuest(role types.GuestRole) *guest.Guest {
	return &guest.Guest{
		ID:          types.GenerateUUIDWithPrefix(types.UUID_PREFIX_GUEST),
		DateOfBirth: checkIn.AddDate(-35, 0, 0),
		Role:        role,
	}
}

func guestAged(years int) *guest.Guest {
	return &guest.Guest{
		ID:          types.GenerateUUIDWithPrefix(types.UUID_PREFIX_GUEST),
		DateOfBirth: checkIn.AddDate(-years, 0, 0),
		Role:        types.GuestRoleMember,
	}
}

func stay(nights int, guests []*guest.Guest, rule *taxrule.TaxRule) CalculationInput {
	return CalculationInput{
		BookingID:    "booking_test",
		CheckInDate:  checkIn,
		CheckOutDate: checkIn.AddDate(0, 0, nights),
		Guests:       guests,
		Rule:         rule,
	}
}

func TestCalculateAdultsNoExemptions(t *testing.T) {
	calc := NewCalculator()

	guests := []*guest.Guest{
		adultGuest(types.GuestRoleLeader),
		adultGuest(types.GuestRoleMember),
		adultGuest(types.GuestRoleMember),
	}

	result, err := calc.Calculate(stay(2, guests, standard))
	require.NoError(t, err)

	assert.Equal(t, 3, result.TotalGuests)
	assert.Equal(t, 3, result.TaxableGuests)
	assert.Equal(t, 0, result.ExemptGuests)
	assert.Equal(t, 2, result.TotalNights)
	assert.Equal(t, 2, result.TaxableNights)
	assert.True(t, result.TotalTaxAmount.Equal(decimal.RequireFromString("15.00")),
		"expected 15.00, got %s", result.TotalTaxAmount)
}

func TestCalculateMinorsExempt(t *testing.T) {
	calc := NewCalculator()

	guests := []*guest.Guest{adultGuest(types.GuestRoleLeader)}
	for i := 0; i < 9; i++ {
		guests = append(guests, guestAged(10))
	}

	result, err := calc.Calculate(stay(3, guests, standard))
	require.NoError(t, err)

	assert.Equal(t, 10, result.TotalGuests)
	assert.Equal(t, 1, result.TaxableGuests)
	assert.Equal(t, 9, result.ExemptGuests)
	assert.Equal(t, 9, result.ExemptionBreakdown.ExemptMinors)
	assert.Equal(t, types.DefaultAgeExemptionThreshold, result.ExemptionBreakdown.ExemptMinorsThreshold)
	assert.True(t, result.TotalTaxAmount.Equal(decimal.RequireFromString("7.50")))
}

// Reaching the threshold age exactly on the check-in date makes the
// guest taxable.
func TestCalculateAgeBoundary(t *testing.T) {
	calc := NewCalculator()

	guests := []*guest.Guest{
		guestAged(14),
		guestAged(13),
	}

	result, err := calc.Calculate(stay(1, guests, standard))
	require.NoError(t, err)

	assert.Equal(t, 1, result.TaxableGuests)
	assert.Equal(t, 1, result.ExemptionBreakdown.ExemptMinors)
}

func TestCalculateBusGroupDriverRatio(t *testing.T) {
	calc := NewCalculator()

	guests := make([]*guest.Guest, 0, 50)
	guests = append(guests,
		adultGuest(types.GuestRoleBusDriver),
		adultGuest(types.GuestRoleBusDriver),
	)
	for i := 0; i < 48; i++ {
		guests = append(guests, adultGuest(types.GuestRoleMember))
	}

	result, err := calc.Calculate(stay(2, guests, standard))
	require.NoError(t, err)

	assert.Equal(t, 50, result.TotalGuests)
	assert.Equal(t, 2, result.ExemptionBreakdown.ExemptDriversCount)
	assert.Equal(t, 2, result.ExemptionBreakdown.ExemptDriversAllowed)
	assert.Equal(t, types.DefaultBusDriverRatio, result.ExemptionBreakdown.ExemptDriversRatio)
	assert.Equal(t, 48, result.TaxableGuests)
	assert.True(t, result.TotalTaxAmount.Equal(decimal.RequireFromString("240.00")),
		"expected 240.00, got %s", result.TotalTaxAmount)
}

// Drivers beyond the ratio allowance stay taxable: 3 drivers in a party
// of 30 with ratio 25 leaves only 1 exemption.
func TestCalculateDriverRatioCapsExemptions(t *testing.T) {
	calc := NewCalculator()

	guests := make([]*guest.Guest, 0, 30)
	for i := 0; i < 3; i++ {
		guests = append(guests, adultGuest(types.GuestRoleBusDriver))
	}
	for i := 0; i < 27; i++ {
		guests = append(guests, adultGuest(types.GuestRoleMember))
	}

	result, err := calc.Calculate(stay(1, guests, standard))
	require.NoError(t, err)

	assert.Equal(t, 3, result.ExemptionBreakdown.ExemptDriversCount)
	assert.Equal(t, 1, result.ExemptionBreakdown.ExemptDriversAllowed)
	assert.Equal(t, 29, result.TaxableGuests)
}

// A party smaller than the ratio earns no driver exemption at all
func TestCalculateDriverRatioSmallParty(t *testing.T) {
	calc := NewCalculator()

	guests := []*guest.Guest{
		adultGuest(types.GuestRoleBusDriver),
		adultGuest(types.GuestRoleMember),
	}

	result, err := calc.Calculate(stay(1, guests, standard))
	require.NoError(t, err)

	assert.Equal(t, 1, result.ExemptionBreakdown.ExemptDriversCount)
	assert.Equal(t, 0, result.ExemptionBreakdown.ExemptDriversAllowed)
	assert.Equal(t, 2, result.TaxableGuests)
}

func TestCalculateMaxTaxableNightsCap(t *testing.T) {
	calc := NewCalculator()

	rule := &taxrule.TaxRule{
		ID:               "taxrule_capped",
		ValidFrom:        standard.ValidFrom,
		BaseRatePerNight: rate,
		MaxTaxableNights: lo.ToPtr(5),
	}

	guests := []*guest.Guest{
		adultGuest(types.GuestRoleLeader),
		adultGuest(types.GuestRoleMember),
	}

	result, err := calc.Calculate(stay(7, guests, rule))
	require.NoError(t, err)

	assert.Equal(t, 7, result.TotalNights)
	assert.Equal(t, 5, result.TaxableNights)
	assert.True(t, result.TotalTaxAmount.Equal(decimal.RequireFromString("25.00")))
}

// A cap larger than the stay leaves the stay untouched
func TestCalculateCapLargerThanStay(t *testing.T) {
	calc := NewCalculator()

	rule := &taxrule.TaxRule{
		ID:               "taxrule_capped",
		ValidFrom:        standard.ValidFrom,
		BaseRatePerNight: rate,
		MaxTaxableNights: lo.ToPtr(10),
	}

	result, err := calc.Calculate(stay(3, []*guest.Guest{adultGuest(types.GuestRoleLeader)}, rule))
	require.NoError(t, err)

	assert.Equal(t, 3, result.TaxableNights)
}

func TestCalculateMixedParty(t *testing.T) {
	calc := NewCalculator()

	guests := make([]*guest.Guest, 0, 26)
	guests = append(guests,
		adultGuest(types.GuestRoleTourGuide),
		adultGuest(types.GuestRoleBusDriver),
	)
	for i := 0; i < 10; i++ {
		guests = append(guests, guestAged(8))
	}
	for i := 0; i < 14; i++ {
		guests = append(guests, adultGuest(types.GuestRoleMember))
	}

	result, err := calc.Calculate(stay(3, guests, standard))
	require.NoError(t, err)

	assert.Equal(t, 26, result.TotalGuests)
	assert.Equal(t, 10, result.ExemptionBreakdown.ExemptMinors)
	assert.Equal(t, 1, result.ExemptionBreakdown.ExemptGuides)
	assert.Equal(t, 1, result.ExemptionBreakdown.ExemptDriversAllowed)
	assert.Equal(t, 12, result.ExemptGuests)
	assert.Equal(t, 14, result.TaxableGuests)
	assert.True(t, result.TotalTaxAmount.Equal(decimal.RequireFromString("105.00")),
		"expected 105.00, got %s", result.TotalTaxAmount)
}

func TestCalculatePreFlaggedExemption(t *testing.T) {
	calc := NewCalculator()

	flagged := adultGuest(types.GuestRoleMember)
	flagged.IsTaxExempt = true
	flagged.TaxExemptReason = "disability"

	guests := []*guest.Guest{flagged, adultGuest(types.GuestRoleLeader)}

	result, err := calc.Calculate(stay(2, guests, standard))
	require.NoError(t, err)

	assert.Equal(t, 1, result.ExemptionBreakdown.ExemptOther)
	assert.Equal(t, 1, result.TaxableGuests)
}

// A minor with a role is counted once, as a minor, never twice
func TestCalculateExemptionPrecedence(t *testing.T) {
	calc := NewCalculator()

	minorGuide := guestAged(12)
	minorGuide.Role = types.GuestRoleTourGuide
	minorGuide.IsTaxExempt = true

	result, err := calc.Calculate(stay(1, []*guest.Guest{minorGuide}, standard))
	require.NoError(t, err)

	assert.Equal(t, 1, result.ExemptionBreakdown.ExemptMinors)
	assert.Equal(t, 0, result.ExemptionBreakdown.ExemptGuides)
	assert.Equal(t, 0, result.ExemptionBreakdown.ExemptOther)
	assert.Equal(t, 1, result.ExemptGuests)
	assert.Equal(t, 0, result.TaxableGuests)
	assert.True(t, result.TotalTaxAmount.IsZero())
}

func TestCalculateCustomRuleParameters(t *testing.T) {
	calc := NewCalculator()

	rule := &taxrule.TaxRule{
		ID:                    "taxrule_custom",
		ValidFrom:             standard.ValidFrom,
		BaseRatePerNight:      decimal.RequireFromString("4.00"),
		AgeExemptionThreshold: lo.ToPtr(18),
		ExemptionConfig:       types.ExemptionConfig{BusDriverRatio: 10},
	}

	guests := make([]*guest.Guest, 0, 12)
	guests = append(guests,
		guestAged(16),
		adultGuest(types.GuestRoleBusDriver),
	)
	for i := 0; i < 10; i++ {
		guests = append(guests, adultGuest(types.GuestRoleMember))
	}

	result, err := calc.Calculate(stay(2, guests, rule))
	require.NoError(t, err)

	assert.Equal(t, 1, result.ExemptionBreakdown.ExemptMinors)
	assert.Equal(t, 18, result.ExemptionBreakdown.ExemptMinorsThreshold)
	assert.Equal(t, 1, result.ExemptionBreakdown.ExemptDriversAllowed)
	assert.Equal(t, 10, result.ExemptionBreakdown.ExemptDriversRatio)
	assert.Equal(t, 10, result.TaxableGuests)
	assert.True(t, result.TotalTaxAmount.Equal(decimal.RequireFromString("80.00")))
}

func TestCalculateNoRule(t *testing.T) {
	calc := NewCalculator()

	_, err := calc.Calculate(stay(2, []*guest.Guest{adultGuest(types.GuestRoleLeader)}, nil))
	require.Error(t, err)
	assert.True(t, ierr.IsTaxNotConfigured(err))
}

func TestCalculateNoGuests(t *testing.T) {
	calc := NewCalculator()

	_, err := calc.Calculate(stay(2, nil, standard))
	require.Error(t, err)
	assert.True(t, ierr.IsValidation(err))
}

func TestCalculateInvalidStay(t *testing.T) {
	calc := NewCalculator()

	input := stay(0, []*guest.Guest{adultGuest(types.GuestRoleLeader)}, standard)
	_, err := calc.Calculate(input)
	require.Error(t, err)
	assert.True(t, ierr.IsValidation(err))

	input.CheckOutDate = input.CheckInDate.AddDate(0, 0, -1)
	_, err = calc.Calculate(input)
	require.Error(t, err)
	assert.True(t, ierr.IsValidation(err))
}

// The guest partition always holds: taxable + exempt = total
func TestCalculatePartitionInvariant(t *testing.T) {
	calc := NewCalculator()

	guests := []*guest.Guest{
		adultGuest(types.GuestRoleLeader),
		adultGuest(types.GuestRoleTourGuide),
		guestAged(5),
		adultGuest(types.GuestRoleBusDriver),
	}

	result, err := calc.Calculate(stay(2, guests, standard))
	require.NoError(t, err)

	assert.Equal(t, result.TotalGuests, result.TaxableGuests+result.ExemptGuests)
}

// Identical inputs yield identical results and leave the inputs untouched
func TestCalculatePurity(t *testing.T) {
	calc := NewCalculator()

	guests := []*guest.Guest{
		adultGuest(types.GuestRoleLeader),
		guestAged(10),
	}
	input := stay(4, guests, standard)

	first, err := calc.Calculate(input)
	require.NoError(t, err)
	second, err := calc.Calculate(input)
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.False(t, guests[0].IsTaxExempt)
	assert.Equal(t, types.GuestRoleLeader, guests[0].Role)
}
