package citytax

import (
	"github.com/Bedotech/smartbook/internal/domain/guest"
	ierr "github.com/Bedotech/smartbook/internal/errors"
	"github.com/Bedotech/smartbook/internal/types"
	"github.com/shopspring/decimal"
)

// Calculator computes the City Tax for exactly one booking. It is pure:
// no I/O, no stored state, deterministic for identical inputs, and it
// never mutates the guests or the rule. Safe for concurrent use.
type Calculator interface {
	Calculate(input CalculationInput) (*CalculationResult, error)
}

type calculator struct{}

// NewCalculator creates a City Tax calculator
func NewCalculator() Calculator {
	return &calculator{}
}

func (c *calculator) Calculate(input CalculationInput) (*CalculationResult, error) {
	if input.Rule == nil {
		return nil, ierr.NewError("no tax rule provided").
			WithHintf("No active tax rule found for date %s", input.CheckInDate.Format("2006-01-02")).
			Mark(ierr.ErrTaxNotConfigured)
	}

	if len(input.Guests) == 0 {
		return nil, ierr.NewError("booking has no guests").
			WithHintf("No guests found for booking %s", input.BookingID).
			Mark(ierr.ErrValidation)
	}

	totalNights := types.NightsBetween(input.CheckInDate, input.CheckOutDate)
	if totalNights <= 0 {
		return nil, ierr.NewError("invalid stay length").
			WithHint("Check-out date must be after check-in date").
			Mark(ierr.ErrValidation)
	}

	// The cap only ever lowers taxable nights; a cap larger than the stay
	// leaves the stay length untouched.
	taxableNights := totalNights
	if input.Rule.MaxTaxableNights != nil && *input.Rule.MaxTaxableNights < taxableNights {
		taxableNights = *input.Rule.MaxTaxableNights
	}

	breakdown := c.calculateExemptions(input.Guests, input)

	taxableGuests := len(input.Guests) - breakdown.TotalExempt
	totalTax := input.Rule.BaseRatePerNight.
		Mul(decimal.NewFromInt(int64(taxableGuests))).
		Mul(decimal.NewFromInt(int64(taxableNights)))

	return &CalculationResult{
		BookingID:          input.BookingID,
		TotalGuests:        len(input.Guests),
		TaxableGuests:      taxableGuests,
		ExemptGuests:       breakdown.TotalExempt,
		BaseRatePerNight:   input.Rule.BaseRatePerNight,
		TotalNights:        totalNights,
		TaxableNights:      taxableNights,
		TotalTaxAmount:     totalTax,
		ExemptionBreakdown: breakdown,
	}, nil
}

// calculateExemptions runs the exemption pass once per guest with fixed
// precedence: age beats role beats pre-flagged exemption, and a guest is
// never counted in more than one category.
func (c *calculator) calculateExemptions(guests []*guest.Guest, input CalculationInput) ExemptionBreakdown {
	rule := input.Rule

	exemptMinors := 0
	driversPresent := 0
	exemptGuides := 0
	exemptOther := 0

	ageThreshold := rule.GetAgeExemptionThreshold()

	for _, g := range guests {
		// Age-based exemption (highest priority). Reaching the threshold
		// exactly on the check-in date makes the guest taxable.
		if g.AgeOn(input.CheckInDate) < ageThreshold {
			exemptMinors++
			continue
		}

		switch {
		case g.Role == types.GuestRoleBusDriver:
			// Counted now, capped by the ratio after the full pass
			driversPresent++
		case g.Role == types.GuestRoleTourGuide:
			exemptGuides++
		case g.IsTaxExempt:
			// Pre-set exemptions from unrelated rules (e.g. disability)
			exemptOther++
		}
	}

	// 1 exempt driver per N total guests, floor division. Drivers beyond
	// the allowance stay in the present count but are taxable; which
	// drivers lose the exemption is deliberately unspecified, the first
	// encountered keep it.
	driverRatio := rule.ExemptionConfig.GetBusDriverRatio()
	maxExemptDrivers := len(guests) / driverRatio
	exemptDrivers := driversPresent
	if maxExemptDrivers < exemptDrivers {
		exemptDrivers = maxExemptDrivers
	}

	return ExemptionBreakdown{
		TotalExempt:           exemptMinors + exemptDrivers + exemptGuides + exemptOther,
		ExemptMinors:          exemptMinors,
		ExemptMinorsThreshold: ageThreshold,
		ExemptDriversCount:    driversPresent,
		ExemptDriversAllowed:  exemptDrivers,
		ExemptDriversRatio:    driverRatio,
		ExemptGuides:          exemptGuides,
		ExemptOther:           exemptOther,
	}
}
