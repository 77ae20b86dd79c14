package citytax

import (
	"time"

	"github.com/Bedotech/smartbook/internal/domain/guest"
	"github.com/Bedotech/smartbook/internal/domain/taxrule"
	"github.com/shopspring/decimal"
)

// CalculationInput carries everything a single booking calculation needs.
// The caller resolves the rule for the check-in date before calling; the
// calculator never queries storage so it stays pure and reproducible.
type CalculationInput struct {
	BookingID    string
	CheckInDate  time.Time
	CheckOutDate time.Time
	Guests       []*guest.Guest
	Rule         *taxrule.TaxRule
}

// ExemptionBreakdown records every intermediate count of the exemption
// pass, including the parameters used, so a stored result can be audited
// without recomputation.
type ExemptionBreakdown struct {
	TotalExempt int `json:"total_exempt"`

	// Minors exempt by age, and the threshold applied
	ExemptMinors          int `json:"exempt_minors"`
	ExemptMinorsThreshold int `json:"exempt_minors_threshold"`

	// Drivers present with the role vs. drivers actually exempted by the
	// ratio cap, and the ratio applied
	ExemptDriversCount   int `json:"exempt_drivers_count"`
	ExemptDriversAllowed int `json:"exempt_drivers_allowed"`
	ExemptDriversRatio   int `json:"exempt_drivers_ratio"`

	// Tour guides are always exempt, no ratio limit
	ExemptGuides int `json:"exempt_guides"`

	// Guests pre-flagged exempt by unrelated business rules
	ExemptOther int `json:"exempt_other"`
}

// CalculationResult is the immutable outcome of one booking calculation.
// Amounts are exact decimals; serializing callers must keep them as
// decimal strings, never floats.
type CalculationResult struct {
	BookingID     string          `json:"booking_id"`
	TotalGuests   int             `json:"total_guests"`
	TaxableGuests int             `json:"taxable_guests"`
	ExemptGuests  int             `json:"exempt_guests"`

	BaseRatePerNight decimal.Decimal `json:"base_rate_per_night"`
	TotalNights      int             `json:"total_nights"`
	TaxableNights    int             `json:"taxable_nights"`

	TotalTaxAmount decimal.Decimal `json:"total_tax_amount"`

	ExemptionBreakdown ExemptionBreakdown `json:"exemption_breakdown"`
}
