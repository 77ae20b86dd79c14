package taxrule

import (
	"context"
	"time"

	"github.com/Bedotech/smartbook/internal/types"
)

// Repository defines the interface for tax rule data access
type Repository interface {
	Create(ctx context.Context, rule *TaxRule) error
	Get(ctx context.Context, id string) (*TaxRule, error)
	Update(ctx context.Context, rule *TaxRule) error
	Delete(ctx context.Context, rule *TaxRule) error
	List(ctx context.Context, filter *types.TaxRuleFilter) ([]*TaxRule, error)
	ListAll(ctx context.Context, filter *types.TaxRuleFilter) ([]*TaxRule, error)
	Count(ctx context.Context, filter *types.TaxRuleFilter) (int, error)

	// GetActiveRule returns the rule effective on referenceDate for the
	// property, or (nil, nil) when no rule covers the date. Not found is an
	// expected, common case the caller must branch on, not an error. When
	// validity windows overlap during an administrative transition, the
	// rule with the latest ValidFrom wins.
	GetActiveRule(ctx context.Context, propertyID string, referenceDate time.Time) (*TaxRule, error)

	// GetHistoricalRules returns all rules whose validity window intersects
	// [startDate, endDate], ordered by ValidFrom ascending. Used for
	// multi-period reporting where the rule changed mid-range.
	GetHistoricalRules(ctx context.Context, propertyID string, startDate, endDate time.Time) ([]*TaxRule, error)
}
