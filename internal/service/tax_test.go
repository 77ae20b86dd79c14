package service

import (
	"testing"
	"time"

	"github.com/Bedotech/smartbook/internal/api/dto"
	"github.com/Bedotech/smartbook/internal/domain/booking"
	"github.com/Bedotech/smartbook/internal/domain/citytax"
	"github.com/Bedotech/smartbook/internal/domain/guest"
	"github.com/Bedotech/smartbook/internal/domain/taxrule"
	ierr "github.com/Bedotech/smartbook/internal/errors"
	"github.com/Bedotech/smartbook/internal/testutil"
	"github.com/Bedotech/smartbook/internal/types"
	"github.com/samber/lo"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"
)

type TaxServiceSuite struct {
	testutil.BaseServiceTestSuite
	service TaxService
	params  ServiceParams
}

func TestTaxService(t *testing.T) {
	suite.Run(t, new(TaxServiceSuite))
}

func (s *TaxServiceSuite) SetupTest() {
	s.BaseServiceTestSuite.SetupTest()
	stores := s.GetStores()
	s.params = ServiceParams{
		Logger:      s.GetLogger(),
		Config:      s.GetConfig(),
		Cache:       s.GetCache(),
		Calculator:  citytax.NewCalculator(),
		TaxRuleRepo: stores.TaxRuleRepo,
		BookingRepo: stores.BookingRepo,
		GuestRepo:   stores.GuestRepo,
	}
	s.service = NewTaxService(s.params)
}

func (s *TaxServiceSuite) createRule(validFrom time.Time, validUntil *time.Time, rate string) *dto.TaxRuleResponse {
	resp, err := s.service.CreateTaxRule(s.GetContext(), dto.CreateTaxRuleRequest{
		PropertyID:       testutil.DefaultPropertyID,
		ValidFrom:        validFrom,
		ValidUntil:       validUntil,
		BaseRatePerNight: decimal.RequireFromString(rate),
	})
	s.Require().NoError(err)
	return resp
}

func (s *TaxServiceSuite) createBooking(checkIn time.Time, nights int) *booking.Booking {
	b := &booking.Booking{
		ID:            types.GenerateUUIDWithPrefix(types.UUID_PREFIX_BOOKING),
		PropertyID:    testutil.DefaultPropertyID,
		CheckInDate:   checkIn,
		CheckOutDate:  checkIn.AddDate(0, 0, nights),
		BookingType:   types.BookingTypeGroup,
		BookingStatus: types.BookingStatusComplete,
		BaseModel:     types.GetDefaultBaseModel(s.GetContext()),
	}
	s.Require().NoError(s.GetStores().BookingRepo.Create(s.GetContext(), b))
	return b
}

func (s *TaxServiceSuite) addGuest(bookingID string, age int, role types.GuestRole) *guest.Guest {
	g := &guest.Guest{
		ID:          types.GenerateUUIDWithPrefix(types.UUID_PREFIX_GUEST),
		BookingID:   bookingID,
		FirstName:   "Mario",
		LastName:    "Rossi",
		DateOfBirth: time.Now().UTC().AddDate(-age, -1, 0),
		Role:        role,
		BaseModel:   types.GetDefaultBaseModel(s.GetContext()),
	}
	s.Require().NoError(s.GetStores().GuestRepo.Create(s.GetContext(), g))
	return g
}

func (s *TaxServiceSuite) TestCreateAndGetTaxRule() {
	validFrom := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	created := s.createRule(validFrom, nil, "2.50")

	s.NotEmpty(created.ID)
	s.Equal(testutil.DefaultPropertyID, created.PropertyID)
	s.True(created.BaseRatePerNight.Equal(decimal.RequireFromString("2.50")))
	s.Equal(types.StatusPublished, created.Status)

	fetched, err := s.service.GetTaxRule(s.GetContext(), created.ID)
	s.NoError(err)
	s.Equal(created.ID, fetched.ID)
}

func (s *TaxServiceSuite) TestCreateTaxRuleValidation() {
	validFrom := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)

	_, err := s.service.CreateTaxRule(s.GetContext(), dto.CreateTaxRuleRequest{
		ValidFrom:        validFrom,
		BaseRatePerNight: decimal.Zero,
	})
	s.Error(err)
	s.True(ierr.IsValidation(err))

	until := validFrom.AddDate(0, 0, -1)
	_, err = s.service.CreateTaxRule(s.GetContext(), dto.CreateTaxRuleRequest{
		ValidFrom:        validFrom,
		ValidUntil:       &until,
		BaseRatePerNight: decimal.RequireFromString("2.50"),
	})
	s.Error(err)
	s.True(ierr.IsValidation(err))
}

func (s *TaxServiceSuite) TestGetTaxRuleNotFound() {
	_, err := s.service.GetTaxRule(s.GetContext(), "taxrule_missing")
	s.Error(err)
	s.True(ierr.IsNotFound(err))
}

func (s *TaxServiceSuite) TestGetActiveTaxRule() {
	validFrom := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	created := s.createRule(validFrom, nil, "2.50")

	resp, err := s.service.GetActiveTaxRule(s.GetContext(), testutil.DefaultPropertyID,
		time.Date(2025, 7, 1, 0, 0, 0, 0, time.UTC))
	s.NoError(err)
	s.Equal(created.ID, resp.ID)
}

func (s *TaxServiceSuite) TestGetActiveTaxRuleNotConfigured() {
	_, err := s.service.GetActiveTaxRule(s.GetContext(), testutil.DefaultPropertyID,
		time.Date(2025, 7, 1, 0, 0, 0, 0, time.UTC))
	s.Error(err)
	s.True(ierr.IsTaxNotConfigured(err))
}

// When validity windows overlap, the rule with the latest ValidFrom wins
func (s *TaxServiceSuite) TestGetActiveTaxRuleOverlap() {
	old := s.createRule(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), nil, "2.00")
	newer := s.createRule(time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC), nil, "3.00")

	resp, err := s.service.GetActiveTaxRule(s.GetContext(), testutil.DefaultPropertyID,
		time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC))
	s.NoError(err)
	s.Equal(newer.ID, resp.ID)

	// Before the newer rule starts, the old one still applies
	resp, err = s.service.GetActiveTaxRule(s.GetContext(), testutil.DefaultPropertyID,
		time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC))
	s.NoError(err)
	s.Equal(old.ID, resp.ID)
}

// Two rules sharing the same ValidFrom resolve to the most recently
// created one, never to whichever the storage returns first
func (s *TaxServiceSuite) TestGetActiveTaxRuleSameValidFrom() {
	validFrom := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)

	base := types.GetDefaultBaseModel(s.GetContext())
	base.CreatedAt = time.Date(2025, 1, 1, 10, 0, 0, 0, time.UTC)
	first := &taxrule.TaxRule{
		ID:               types.GenerateUUIDWithPrefix(types.UUID_PREFIX_TAX_RULE),
		PropertyID:       testutil.DefaultPropertyID,
		ValidFrom:        validFrom,
		BaseRatePerNight: decimal.RequireFromString("2.00"),
		BaseModel:        base,
	}
	s.Require().NoError(s.GetStores().TaxRuleRepo.Create(s.GetContext(), first))

	base.CreatedAt = time.Date(2025, 1, 2, 10, 0, 0, 0, time.UTC)
	second := &taxrule.TaxRule{
		ID:               types.GenerateUUIDWithPrefix(types.UUID_PREFIX_TAX_RULE),
		PropertyID:       testutil.DefaultPropertyID,
		ValidFrom:        validFrom,
		BaseRatePerNight: decimal.RequireFromString("3.00"),
		BaseModel:        base,
	}
	s.Require().NoError(s.GetStores().TaxRuleRepo.Create(s.GetContext(), second))

	resp, err := s.service.GetActiveTaxRule(s.GetContext(), testutil.DefaultPropertyID,
		time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC))
	s.NoError(err)
	s.Equal(second.ID, resp.ID)
}

func (s *TaxServiceSuite) TestUpdateTaxRule() {
	created := s.createRule(time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC), nil, "2.50")

	newRate := decimal.RequireFromString("3.00")
	updated, err := s.service.UpdateTaxRule(s.GetContext(), created.ID, dto.UpdateTaxRuleRequest{
		BaseRatePerNight: &newRate,
		MaxTaxableNights: lo.ToPtr(10),
	})
	s.NoError(err)
	s.True(updated.BaseRatePerNight.Equal(newRate))
	s.Equal(10, *updated.MaxTaxableNights)
}

func (s *TaxServiceSuite) TestDeleteTaxRule() {
	created := s.createRule(time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC), nil, "2.50")

	s.NoError(s.service.DeleteTaxRule(s.GetContext(), created.ID))

	_, err := s.service.GetTaxRule(s.GetContext(), created.ID)
	s.Error(err)
	s.True(ierr.IsNotFound(err))
}

// A rule change must be visible immediately, not after the cache TTL
func (s *TaxServiceSuite) TestRuleChangeInvalidatesCache() {
	created := s.createRule(time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC), nil, "2.50")
	date := time.Date(2025, 7, 1, 0, 0, 0, 0, time.UTC)

	// Warm the cache
	_, err := s.service.GetActiveTaxRule(s.GetContext(), testutil.DefaultPropertyID, date)
	s.NoError(err)

	s.NoError(s.service.DeleteTaxRule(s.GetContext(), created.ID))

	_, err = s.service.GetActiveTaxRule(s.GetContext(), testutil.DefaultPropertyID, date)
	s.Error(err)
	s.True(ierr.IsTaxNotConfigured(err))
}

func (s *TaxServiceSuite) TestListTaxRules() {
	s.createRule(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), nil, "2.00")
	s.createRule(time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC), nil, "2.50")
	s.createRule(time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC), nil, "3.00")

	resp, err := s.service.ListTaxRules(s.GetContext(), &types.TaxRuleFilter{
		QueryFilter: &types.QueryFilter{
			Limit:  lo.ToPtr(2),
			Offset: lo.ToPtr(0),
		},
	})
	s.NoError(err)
	s.Len(resp.Items, 2)
	s.Equal(3, resp.Pagination.Total)
	s.Equal(2, resp.Pagination.Limit)
}

func (s *TaxServiceSuite) TestValidateTaxRule() {
	resp, err := s.service.ValidateTaxRule(s.GetContext(), dto.CreateTaxRuleRequest{
		ValidFrom:        time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
		BaseRatePerNight: decimal.RequireFromString("2.50"),
	})
	s.NoError(err)
	s.True(resp.Valid)
	s.Empty(resp.Warnings)

	resp, err = s.service.ValidateTaxRule(s.GetContext(), dto.CreateTaxRuleRequest{
		ValidFrom:             time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
		BaseRatePerNight:      decimal.Zero,
		AgeExemptionThreshold: lo.ToPtr(21),
	})
	s.NoError(err)
	s.False(resp.Valid)
	s.Len(resp.Warnings, 2)
}

func (s *TaxServiceSuite) TestCalculateTaxForBooking() {
	s.createRule(time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC), nil, "2.50")

	checkIn := time.Date(2025, 7, 1, 0, 0, 0, 0, time.UTC)
	b := s.createBooking(checkIn, 2)
	s.addGuest(b.ID, 35, types.GuestRoleLeader)
	s.addGuest(b.ID, 32, types.GuestRoleMember)
	s.addGuest(b.ID, 10, types.GuestRoleMember)

	resp, err := s.service.CalculateTaxForBooking(s.GetContext(), b.ID)
	s.NoError(err)
	s.Equal(3, resp.TotalGuests)
	s.Equal(2, resp.TaxableGuests)
	s.Equal(1, resp.ExemptionBreakdown.ExemptMinors)
	s.True(resp.TotalTaxAmount.Equal(decimal.RequireFromString("10.00")))
}

// A rule that leaves the driver ratio unset uses the deployment's
// configured fallback, not the compiled-in constant
func (s *TaxServiceSuite) TestCalculateTaxUsesConfiguredDriverRatio() {
	original := s.GetConfig().Tax.DefaultBusDriverRatio
	s.GetConfig().Tax.DefaultBusDriverRatio = 1
	defer func() { s.GetConfig().Tax.DefaultBusDriverRatio = original }()

	s.createRule(time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC), nil, "2.50")

	b := s.createBooking(time.Date(2025, 7, 1, 0, 0, 0, 0, time.UTC), 2)
	s.addGuest(b.ID, 45, types.GuestRoleBusDriver)
	s.addGuest(b.ID, 35, types.GuestRoleLeader)

	resp, err := s.service.CalculateTaxForBooking(s.GetContext(), b.ID)
	s.NoError(err)
	s.Equal(1, resp.ExemptionBreakdown.ExemptDriversRatio)
	s.Equal(1, resp.ExemptionBreakdown.ExemptDriversAllowed)
	s.Equal(1, resp.TaxableGuests)
	s.True(resp.TotalTaxAmount.Equal(decimal.RequireFromString("5.00")))
}

// Same for the age threshold, and the stored rule must stay untouched
func (s *TaxServiceSuite) TestCalculateTaxUsesConfiguredAgeThreshold() {
	original := s.GetConfig().Tax.DefaultAgeExemptionThreshold
	s.GetConfig().Tax.DefaultAgeExemptionThreshold = 18
	defer func() { s.GetConfig().Tax.DefaultAgeExemptionThreshold = original }()

	created := s.createRule(time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC), nil, "2.50")

	b := s.createBooking(time.Date(2025, 7, 1, 0, 0, 0, 0, time.UTC), 2)
	s.addGuest(b.ID, 16, types.GuestRoleMember)
	s.addGuest(b.ID, 35, types.GuestRoleLeader)

	resp, err := s.service.CalculateTaxForBooking(s.GetContext(), b.ID)
	s.NoError(err)
	s.Equal(1, resp.ExemptionBreakdown.ExemptMinors)
	s.Equal(18, resp.ExemptionBreakdown.ExemptMinorsThreshold)
	s.Equal(1, resp.TaxableGuests)

	fetched, err := s.service.GetTaxRule(s.GetContext(), created.ID)
	s.NoError(err)
	s.Nil(fetched.AgeExemptionThreshold)
}

func (s *TaxServiceSuite) TestCalculateTaxForBookingNoRule() {
	b := s.createBooking(time.Date(2025, 7, 1, 0, 0, 0, 0, time.UTC), 2)
	s.addGuest(b.ID, 35, types.GuestRoleLeader)

	_, err := s.service.CalculateTaxForBooking(s.GetContext(), b.ID)
	s.Error(err)
	s.True(ierr.IsTaxNotConfigured(err))
}

func (s *TaxServiceSuite) TestCalculateTaxForBookingNoGuests() {
	s.createRule(time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC), nil, "2.50")
	b := s.createBooking(time.Date(2025, 7, 1, 0, 0, 0, 0, time.UTC), 2)

	_, err := s.service.CalculateTaxForBooking(s.GetContext(), b.ID)
	s.Error(err)
	s.True(ierr.IsValidation(err))
}

func (s *TaxServiceSuite) TestCalculateTaxForDateRange() {
	s.createRule(time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC), nil, "2.50")

	first := s.createBooking(time.Date(2025, 7, 1, 0, 0, 0, 0, time.UTC), 2)
	s.addGuest(first.ID, 35, types.GuestRoleLeader)
	s.addGuest(first.ID, 32, types.GuestRoleMember)

	second := s.createBooking(time.Date(2025, 7, 10, 0, 0, 0, 0, time.UTC), 3)
	s.addGuest(second.ID, 40, types.GuestRoleLeader)

	// A booking with no guests yet is skipped, not fatal
	s.createBooking(time.Date(2025, 7, 20, 0, 0, 0, 0, time.UTC), 1)

	// Outside the window
	outside := s.createBooking(time.Date(2025, 8, 5, 0, 0, 0, 0, time.UTC), 2)
	s.addGuest(outside.ID, 28, types.GuestRoleLeader)

	resp, err := s.service.CalculateTaxForDateRange(s.GetContext(), dto.DateRangeRequest{
		StartDate: time.Date(2025, 7, 1, 0, 0, 0, 0, time.UTC),
		EndDate:   time.Date(2025, 7, 31, 0, 0, 0, 0, time.UTC),
	})
	s.NoError(err)
	s.Len(resp.Items, 2)
	s.Equal(2, resp.Summary.TotalBookings)
	s.Equal(3, resp.Summary.TotalGuests)

	// 2 × 2.50 × 2 nights + 1 × 2.50 × 3 nights
	s.True(resp.Summary.TotalTaxCollected.Equal(decimal.RequireFromString("17.50")))
	s.True(resp.Summary.AverageTaxPerBooking.Equal(decimal.RequireFromString("8.75")))
}

func (s *TaxServiceSuite) TestCalculateTaxForDateRangeInvalid() {
	_, err := s.service.CalculateTaxForDateRange(s.GetContext(), dto.DateRangeRequest{
		StartDate: time.Date(2025, 7, 31, 0, 0, 0, 0, time.UTC),
		EndDate:   time.Date(2025, 7, 1, 0, 0, 0, 0, time.UTC),
	})
	s.Error(err)
	s.True(ierr.IsValidation(err))
}
