package dto

import (
	"context"
	"time"

	"github.com/Bedotech/smartbook/internal/domain/taxrule"
	ierr "github.com/Bedotech/smartbook/internal/errors"
	"github.com/Bedotech/smartbook/internal/types"
	"github.com/Bedotech/smartbook/internal/validator"
	"github.com/shopspring/decimal"
)

type CreateTaxRuleRequest struct {
	PropertyID              string                 `json:"property_id"`
	ValidFrom               time.Time              `json:"valid_from" validate:"required"`
	ValidUntil              *time.Time             `json:"valid_until,omitempty"`
	BaseRatePerNight        decimal.Decimal        `json:"base_rate_per_night"`
	MaxTaxableNights        *int                   `json:"max_taxable_nights,omitempty" validate:"omitempty,min=1"`
	AgeExemptionThreshold   *int                   `json:"age_exemption_threshold,omitempty" validate:"omitempty,min=0"`
	ExemptionConfig         *types.ExemptionConfig `json:"exemption_config,omitempty"`
	StructureClassification string                 `json:"structure_classification,omitempty"`
}

func (r *CreateTaxRuleRequest) Validate() error {
	if err := validator.ValidateRequest(r); err != nil {
		return err
	}

	if !r.BaseRatePerNight.IsPositive() {
		return ierr.NewError("base rate per night must be positive").
			WithHint("Base rate per night must be greater than 0").
			Mark(ierr.ErrValidation)
	}

	if r.ValidUntil != nil && types.DateOnly(*r.ValidUntil).Before(types.DateOnly(r.ValidFrom)) {
		return ierr.NewError("invalid validity window").
			WithHint("Valid until date must not be before valid from date").
			Mark(ierr.ErrValidation)
	}

	return nil
}

func (r *CreateTaxRuleRequest) ToTaxRule(ctx context.Context) *taxrule.TaxRule {
	rule := &taxrule.TaxRule{
		ID:                      types.GenerateUUIDWithPrefix(types.UUID_PREFIX_TAX_RULE),
		PropertyID:              r.PropertyID,
		ValidFrom:               types.DateOnly(r.ValidFrom),
		BaseRatePerNight:        r.BaseRatePerNight,
		MaxTaxableNights:        r.MaxTaxableNights,
		AgeExemptionThreshold:   r.AgeExemptionThreshold,
		StructureClassification: r.StructureClassification,
		BaseModel:               types.GetDefaultBaseModel(ctx),
	}
	if r.ValidUntil != nil {
		until := types.DateOnly(*r.ValidUntil)
		rule.ValidUntil = &until
	}
	if r.ExemptionConfig != nil {
		rule.ExemptionConfig = *r.ExemptionConfig
	}
	if rule.PropertyID == "" {
		rule.PropertyID = types.GetPropertyID(ctx)
	}
	return rule
}

// UpdateTaxRuleRequest patches a rule in place. Only non-nil fields are
// applied. Rates and validity windows of historical rules should be
// superseded by a new rule rather than edited, so handlers expose this
// for corrections only.
type UpdateTaxRuleRequest struct {
	ValidFrom               *time.Time             `json:"valid_from,omitempty"`
	ValidUntil              *time.Time             `json:"valid_until,omitempty"`
	BaseRatePerNight        *decimal.Decimal       `json:"base_rate_per_night,omitempty"`
	MaxTaxableNights        *int                   `json:"max_taxable_nights,omitempty" validate:"omitempty,min=1"`
	AgeExemptionThreshold   *int                   `json:"age_exemption_threshold,omitempty" validate:"omitempty,min=0"`
	ExemptionConfig         *types.ExemptionConfig `json:"exemption_config,omitempty"`
	StructureClassification *string                `json:"structure_classification,omitempty"`
}

func (r *UpdateTaxRuleRequest) Validate() error {
	if err := validator.ValidateRequest(r); err != nil {
		return err
	}

	if r.BaseRatePerNight != nil && !r.BaseRatePerNight.IsPositive() {
		return ierr.NewError("base rate per night must be positive").
			WithHint("Base rate per night must be greater than 0").
			Mark(ierr.ErrValidation)
	}

	return nil
}

// Apply copies the non-nil fields onto the rule
func (r *UpdateTaxRuleRequest) Apply(rule *taxrule.TaxRule) {
	if r.ValidFrom != nil {
		rule.ValidFrom = types.DateOnly(*r.ValidFrom)
	}
	if r.ValidUntil != nil {
		until := types.DateOnly(*r.ValidUntil)
		rule.ValidUntil = &until
	}
	if r.BaseRatePerNight != nil {
		rule.BaseRatePerNight = *r.BaseRatePerNight
	}
	if r.MaxTaxableNights != nil {
		rule.MaxTaxableNights = r.MaxTaxableNights
	}
	if r.AgeExemptionThreshold != nil {
		rule.AgeExemptionThreshold = r.AgeExemptionThreshold
	}
	if r.ExemptionConfig != nil {
		rule.ExemptionConfig = *r.ExemptionConfig
	}
	if r.StructureClassification != nil {
		rule.StructureClassification = *r.StructureClassification
	}
}

type TaxRuleResponse struct {
	*taxrule.TaxRule
}

type ListTaxRulesResponse struct {
	Items      []*TaxRuleResponse        `json:"items"`
	Pagination *types.PaginationResponse `json:"pagination"`
}

// ValidateTaxRuleResponse carries advisory configuration warnings. An
// empty list means the configuration looks plausible.
type ValidateTaxRuleResponse struct {
	Valid    bool     `json:"valid"`
	Warnings []string `json:"warnings"`
}
