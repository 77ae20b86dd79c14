package taxrule

import (
	"time"

	"github.com/Bedotech/smartbook/internal/types"
	"github.com/shopspring/decimal"
)

// TaxRule is a versioned City Tax (Imposta di Soggiorno) configuration,
// scoped to one property. Historical calculations must resolve the rule
// that was valid at check-in, never today's rule, so rules are only ever
// superseded by new rows, not mutated retroactively.
type TaxRule struct {
	ID         string `db:"id" json:"id"`
	PropertyID string `db:"property_id" json:"property_id"`

	// ValidFrom is inclusive; ValidUntil is inclusive and nil while the
	// rule is open ended
	ValidFrom  time.Time  `db:"valid_from" json:"valid_from"`
	ValidUntil *time.Time `db:"valid_until" json:"valid_until"`

	// BaseRatePerNight is the tax rate per guest per night in EUR
	BaseRatePerNight decimal.Decimal `db:"base_rate_per_night" json:"base_rate_per_night"`

	// MaxTaxableNights caps taxable nights (e.g. only the first 10 nights
	// are taxed); nil means unlimited
	MaxTaxableNights *int `db:"max_taxable_nights" json:"max_taxable_nights"`

	// AgeExemptionThreshold exempts guests strictly younger than this on
	// the check-in date; nil falls back to the default of 14
	AgeExemptionThreshold *int `db:"age_exemption_threshold" json:"age_exemption_threshold"`

	// ExemptionConfig holds role-based exemption parameters
	ExemptionConfig types.ExemptionConfig `db:"exemption_config" json:"exemption_config"`

	// StructureClassification is the hotel classification affecting the
	// rate (e.g. "3-star", "hostel")
	StructureClassification string `db:"structure_classification" json:"structure_classification,omitempty"`

	types.BaseModel
}

// IsActiveOn reports whether the rule's validity window covers the date
func (r *TaxRule) IsActiveOn(d time.Time) bool {
	day := types.DateOnly(d)
	if types.DateOnly(r.ValidFrom).After(day) {
		return false
	}
	if r.ValidUntil != nil && types.DateOnly(*r.ValidUntil).Before(day) {
		return false
	}
	return true
}

// IntersectsWindow reports whether the rule's validity window overlaps
// [start, end]
func (r *TaxRule) IntersectsWindow(start, end time.Time) bool {
	if types.DateOnly(r.ValidFrom).After(types.DateOnly(end)) {
		return false
	}
	if r.ValidUntil != nil && types.DateOnly(*r.ValidUntil).Before(types.DateOnly(start)) {
		return false
	}
	return true
}

// GetAgeExemptionThreshold returns the configured threshold or the default
func (r *TaxRule) GetAgeExemptionThreshold() int {
	if r.AgeExemptionThreshold != nil {
		return *r.AgeExemptionThreshold
	}
	return types.DefaultAgeExemptionThreshold
}

// ConfigurationWarnings returns advisory findings about implausible
// configuration values. These are hints for the administrator UI, never
// hard failures: a questionable rule still calculates.
func (r *TaxRule) ConfigurationWarnings() []string {
	warnings := []string{}

	if !r.BaseRatePerNight.IsPositive() {
		warnings = append(warnings, "Base rate must be greater than 0")
	}

	if r.AgeExemptionThreshold != nil && *r.AgeExemptionThreshold < 0 {
		warnings = append(warnings, "Age exemption threshold cannot be negative")
	}

	if r.AgeExemptionThreshold != nil && *r.AgeExemptionThreshold > 18 {
		warnings = append(warnings, "Age exemption threshold unusually high (> 18 years)")
	}

	if r.MaxTaxableNights != nil && *r.MaxTaxableNights <= 0 {
		warnings = append(warnings, "Max taxable nights must be greater than 0 if set")
	}

	if r.ExemptionConfig.BusDriverRatio < 0 {
		warnings = append(warnings, "Bus driver ratio must be greater than 0")
	}

	return warnings
}
