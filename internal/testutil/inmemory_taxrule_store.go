package testutil

import (
	"context"
	"time"

	"github.com/Bedotech/smartbook/internal/domain/taxrule"
	ierr "github.com/Bedotech/smartbook/internal/errors"
	"github.com/Bedotech/smartbook/internal/types"
	"github.com/samber/lo"
)

// InMemoryTaxRuleStore implements taxrule.Repository
type InMemoryTaxRuleStore struct {
	*InMemoryStore[*taxrule.TaxRule]
}

func NewInMemoryTaxRuleStore() *InMemoryTaxRuleStore {
	return &InMemoryTaxRuleStore{
		InMemoryStore: NewInMemoryStore[*taxrule.TaxRule](),
	}
}

// taxRuleFilterFn implements filtering logic for tax rules
func taxRuleFilterFn(ctx context.Context, rule *taxrule.TaxRule, filter interface{}) bool {
	if rule == nil {
		return false
	}

	if tenantID, ok := ctx.Value(types.CtxTenantID).(string); ok {
		if rule.TenantID != tenantID {
			return false
		}
	}

	if rule.Status != types.StatusPublished {
		return false
	}

	f, ok := filter.(*types.TaxRuleFilter)
	if !ok {
		return true
	}

	if len(f.TaxRuleIDs) > 0 {
		if !lo.Contains(f.TaxRuleIDs, rule.ID) {
			return false
		}
	}

	if len(f.PropertyIDs) > 0 {
		if !lo.Contains(f.PropertyIDs, rule.PropertyID) {
			return false
		}
	}

	if f.TimeRangeFilter != nil {
		if f.StartTime != nil && rule.CreatedAt.Before(*f.StartTime) {
			return false
		}
		if f.EndTime != nil && rule.CreatedAt.After(*f.EndTime) {
			return false
		}
	}

	return true
}

// taxRuleSortFn orders rules by ValidFrom descending; ties resolve by
// CreatedAt then ID so the ordering is deterministic
func taxRuleSortFn(i, j *taxrule.TaxRule) bool {
	if i == nil || j == nil {
		return false
	}
	if !i.ValidFrom.Equal(j.ValidFrom) {
		return i.ValidFrom.After(j.ValidFrom)
	}
	if !i.CreatedAt.Equal(j.CreatedAt) {
		return i.CreatedAt.After(j.CreatedAt)
	}
	return i.ID > j.ID
}

func (s *InMemoryTaxRuleStore) Create(ctx context.Context, rule *taxrule.TaxRule) error {
	if rule == nil {
		return ierr.NewError("tax rule cannot be nil").
			WithHint("Tax rule data is required").
			Mark(ierr.ErrValidation)
	}
	return s.InMemoryStore.Create(ctx, rule.ID, rule)
}

func (s *InMemoryTaxRuleStore) Get(ctx context.Context, id string) (*taxrule.TaxRule, error) {
	rule, err := s.InMemoryStore.Get(ctx, id)
	if err != nil {
		return nil, ierr.WithError(err).
			WithHintf("Tax rule with ID %s was not found", id).
			Mark(ierr.ErrNotFound)
	}
	return rule, nil
}

func (s *InMemoryTaxRuleStore) Update(ctx context.Context, rule *taxrule.TaxRule) error {
	if rule == nil {
		return ierr.NewError("tax rule cannot be nil").
			WithHint("Tax rule data is required").
			Mark(ierr.ErrValidation)
	}
	if err := s.InMemoryStore.Update(ctx, rule.ID, rule); err != nil {
		return ierr.WithError(err).
			WithHintf("Tax rule with ID %s was not found", rule.ID).
			Mark(ierr.ErrNotFound)
	}
	return nil
}

func (s *InMemoryTaxRuleStore) Delete(ctx context.Context, rule *taxrule.TaxRule) error {
	if rule == nil {
		return ierr.NewError("tax rule cannot be nil").
			WithHint("Tax rule data is required").
			Mark(ierr.ErrValidation)
	}
	if err := s.InMemoryStore.Delete(ctx, rule.ID); err != nil {
		return ierr.WithError(err).
			WithHintf("Tax rule with ID %s was not found", rule.ID).
			Mark(ierr.ErrNotFound)
	}
	return nil
}

func (s *InMemoryTaxRuleStore) List(ctx context.Context, filter *types.TaxRuleFilter) ([]*taxrule.TaxRule, error) {
	return s.InMemoryStore.List(ctx, filter, taxRuleFilterFn, taxRuleSortFn)
}

func (s *InMemoryTaxRuleStore) ListAll(ctx context.Context, filter *types.TaxRuleFilter) ([]*taxrule.TaxRule, error) {
	unlimited := &types.TaxRuleFilter{
		QueryFilter: types.NewNoLimitQueryFilter(),
	}
	if filter != nil {
		unlimited.TimeRangeFilter = filter.TimeRangeFilter
		unlimited.TaxRuleIDs = filter.TaxRuleIDs
		unlimited.PropertyIDs = filter.PropertyIDs
	}
	return s.List(ctx, unlimited)
}

func (s *InMemoryTaxRuleStore) Count(ctx context.Context, filter *types.TaxRuleFilter) (int, error) {
	return s.InMemoryStore.Count(ctx, filter, taxRuleFilterFn)
}

func (s *InMemoryTaxRuleStore) GetActiveRule(ctx context.Context, propertyID string, referenceDate time.Time) (*taxrule.TaxRule, error) {
	rules, err := s.ListAll(ctx, &types.TaxRuleFilter{PropertyIDs: []string{propertyID}})
	if err != nil {
		return nil, err
	}

	var active *taxrule.TaxRule
	for _, rule := range rules {
		if !rule.IsActiveOn(referenceDate) {
			continue
		}
		// Overlapping windows: the latest ValidFrom wins, with CreatedAt
		// then ID breaking exact ties
		if active == nil || taxRuleSortFn(rule, active) {
			active = rule
		}
	}
	return active, nil
}

func (s *InMemoryTaxRuleStore) GetHistoricalRules(ctx context.Context, propertyID string, startDate, endDate time.Time) ([]*taxrule.TaxRule, error) {
	rules, err := s.ListAll(ctx, &types.TaxRuleFilter{PropertyIDs: []string{propertyID}})
	if err != nil {
		return nil, err
	}

	matched := make([]*taxrule.TaxRule, 0, len(rules))
	for _, rule := range rules {
		if rule.IntersectsWindow(startDate, endDate) {
			matched = append(matched, rule)
		}
	}

	// ListAll sorts ValidFrom descending; historical order is ascending
	for i, j := 0, len(matched)-1; i < j; i, j = i+1, j-1 {
		matched[i], matched[j] = matched[j], matched[i]
	}
	return matched, nil
}
