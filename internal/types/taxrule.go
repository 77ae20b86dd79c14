package types

import (
	"database/sql/driver"
	"encoding/json"

	ierr "github.com/Bedotech/smartbook/internal/errors"
)

const (
	// DefaultAgeExemptionThreshold is the age below which guests are exempt
	// when a rule does not configure its own threshold.
	DefaultAgeExemptionThreshold = 14

	// DefaultBusDriverRatio allows 1 exempt bus driver per 25 guests when a
	// rule does not configure its own ratio.
	DefaultBusDriverRatio = 25
)

// ExemptionConfig holds the role-based exemption parameters of a tax rule.
// Recognized keys are typed fields; anything else round-trips through Extra
// so that newer configuration keys do not break older deployments.
type ExemptionConfig struct {
	// BusDriverRatio means 1 exempt driver per N total guests in the party
	BusDriverRatio int `json:"bus_driver_ratio,omitempty"`

	// Extra carries unrecognized configuration keys untouched
	Extra map[string]any `json:"-"`
}

// GetBusDriverRatio returns the configured ratio or the default when unset
func (c ExemptionConfig) GetBusDriverRatio() int {
	if c.BusDriverRatio > 0 {
		return c.BusDriverRatio
	}
	return DefaultBusDriverRatio
}

// TaxRuleFilter represents the filter options for tax rule queries
type TaxRuleFilter struct {
	*QueryFilter
	*TimeRangeFilter
	TaxRuleIDs  []string `json:"taxrule_ids,omitempty" form:"taxrule_ids"`
	PropertyIDs []string `json:"property_ids,omitempty" form:"property_ids"`
}

// NewTaxRuleFilter creates a new TaxRuleFilter with default values
func NewTaxRuleFilter() *TaxRuleFilter {
	return &TaxRuleFilter{
		QueryFilter: NewDefaultQueryFilter(),
	}
}

// NewNoLimitTaxRuleFilter creates a new TaxRuleFilter with no pagination limits
func NewNoLimitTaxRuleFilter() *TaxRuleFilter {
	return &TaxRuleFilter{
		QueryFilter: NewNoLimitQueryFilter(),
	}
}

func (f TaxRuleFilter) Validate() error {
	if f.QueryFilter != nil {
		if err := f.QueryFilter.Validate(); err != nil {
			return err
		}
	}
	if f.TimeRangeFilter != nil {
		if err := f.TimeRangeFilter.Validate(); err != nil {
			return err
		}
	}
	return nil
}

func (f TaxRuleFilter) GetLimit() int {
	if f.QueryFilter == nil {
		return NewDefaultQueryFilter().GetLimit()
	}
	return f.QueryFilter.GetLimit()
}

func (f TaxRuleFilter) GetOffset() int {
	if f.QueryFilter == nil {
		return NewDefaultQueryFilter().GetOffset()
	}
	return f.QueryFilter.GetOffset()
}

func (f TaxRuleFilter) IsUnlimited() bool {
	if f.QueryFilter == nil {
		return NewDefaultQueryFilter().IsUnlimited()
	}
	return f.QueryFilter.IsUnlimited()
}

func (f TaxRuleFilter) GetStatus() string {
	if f.QueryFilter == nil {
		return NewDefaultQueryFilter().GetStatus()
	}
	return f.QueryFilter.GetStatus()
}

// MarshalJSON emits recognized keys alongside the passthrough extras
func (c ExemptionConfig) MarshalJSON() ([]byte, error) {
	out := make(map[string]any, len(c.Extra)+1)
	for k, v := range c.Extra {
		out[k] = v
	}
	if c.BusDriverRatio > 0 {
		out["bus_driver_ratio"] = c.BusDriverRatio
	}
	return json.Marshal(out)
}

// UnmarshalJSON reads recognized keys into typed fields and keeps the rest
func (c *ExemptionConfig) UnmarshalJSON(data []byte) error {
	raw := map[string]any{}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	if v, ok := raw["bus_driver_ratio"]; ok {
		switch n := v.(type) {
		case float64:
			c.BusDriverRatio = int(n)
		case json.Number:
			if i, err := n.Int64(); err == nil {
				c.BusDriverRatio = int(i)
			}
		}
		delete(raw, "bus_driver_ratio")
	}
	if len(raw) > 0 {
		c.Extra = raw
	}
	return nil
}

// Value implements driver.Valuer so the config persists as a JSON column
func (c ExemptionConfig) Value() (driver.Value, error) {
	return json.Marshal(c)
}

// Scan implements sql.Scanner for reading the JSON column back
func (c *ExemptionConfig) Scan(value any) error {
	if value == nil {
		*c = ExemptionConfig{}
		return nil
	}
	var data []byte
	switch v := value.(type) {
	case []byte:
		data = v
	case string:
		data = []byte(v)
	default:
		return ierr.NewError("unsupported type for exemption config").
			WithHint("Exemption config must be stored as JSON").
			Mark(ierr.ErrValidation)
	}
	return c.UnmarshalJSON(data)
}
