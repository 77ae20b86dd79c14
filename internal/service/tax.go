package service

import (
	"context"
	"time"

	"github.com/Bedotech/smartbook/internal/api/dto"
	"github.com/Bedotech/smartbook/internal/cache"
	"github.com/Bedotech/smartbook/internal/domain/citytax"
	"github.com/Bedotech/smartbook/internal/domain/taxrule"
	ierr "github.com/Bedotech/smartbook/internal/errors"
	"github.com/Bedotech/smartbook/internal/types"
	"github.com/samber/lo"
	"github.com/shopspring/decimal"
)

// TaxService owns the tax rule lifecycle and per-booking calculations.
// Rule resolution is date-based: every calculation uses the rule valid at
// check-in, never the rule valid today.
type TaxService interface {
	CreateTaxRule(ctx context.Context, req dto.CreateTaxRuleRequest) (*dto.TaxRuleResponse, error)
	GetTaxRule(ctx context.Context, id string) (*dto.TaxRuleResponse, error)
	ListTaxRules(ctx context.Context, filter *types.TaxRuleFilter) (*dto.ListTaxRulesResponse, error)
	UpdateTaxRule(ctx context.Context, id string, req dto.UpdateTaxRuleRequest) (*dto.TaxRuleResponse, error)
	DeleteTaxRule(ctx context.Context, id string) error

	// GetActiveTaxRule returns the rule valid on the given date, or
	// ErrTaxNotConfigured when no rule covers it
	GetActiveTaxRule(ctx context.Context, propertyID string, date time.Time) (*dto.TaxRuleResponse, error)

	// ValidateTaxRule checks a candidate configuration without storing it
	ValidateTaxRule(ctx context.Context, req dto.CreateTaxRuleRequest) (*dto.ValidateTaxRuleResponse, error)

	CalculateTaxForBooking(ctx context.Context, bookingID string) (*dto.CalculationResponse, error)
	CalculateTaxForDateRange(ctx context.Context, req dto.DateRangeRequest) (*dto.CalculationBatchResponse, error)
}

type taxService struct {
	ServiceParams
}

func NewTaxService(params ServiceParams) TaxService {
	return &taxService{
		ServiceParams: params,
	}
}

func (s *taxService) CreateTaxRule(ctx context.Context, req dto.CreateTaxRuleRequest) (*dto.TaxRuleResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	rule := req.ToTaxRule(ctx)
	if rule.PropertyID == "" {
		rule.PropertyID = s.Config.Property.ID
	}

	if err := s.TaxRuleRepo.Create(ctx, rule); err != nil {
		return nil, err
	}

	s.invalidateRuleCache(ctx, rule.PropertyID)

	s.Logger.Infow("created tax rule",
		"tax_rule_id", rule.ID,
		"property_id", rule.PropertyID,
		"valid_from", rule.ValidFrom,
		"base_rate_per_night", rule.BaseRatePerNight,
	)

	return &dto.TaxRuleResponse{TaxRule: rule}, nil
}

func (s *taxService) GetTaxRule(ctx context.Context, id string) (*dto.TaxRuleResponse, error) {
	if id == "" {
		return nil, ierr.NewError("tax rule ID is required").
			WithHint("Tax rule ID is required").
			Mark(ierr.ErrValidation)
	}

	rule, err := s.TaxRuleRepo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	return &dto.TaxRuleResponse{TaxRule: rule}, nil
}

func (s *taxService) ListTaxRules(ctx context.Context, filter *types.TaxRuleFilter) (*dto.ListTaxRulesResponse, error) {
	if filter == nil {
		filter = types.NewTaxRuleFilter()
	}
	if err := filter.Validate(); err != nil {
		return nil, ierr.WithError(err).
			WithHint("Invalid filter parameters").
			Mark(ierr.ErrValidation)
	}

	rules, err := s.TaxRuleRepo.List(ctx, filter)
	if err != nil {
		return nil, err
	}

	count, err := s.TaxRuleRepo.Count(ctx, filter)
	if err != nil {
		return nil, err
	}

	items := make([]*dto.TaxRuleResponse, 0, len(rules))
	for _, rule := range rules {
		items = append(items, &dto.TaxRuleResponse{TaxRule: rule})
	}

	return &dto.ListTaxRulesResponse{
		Items:      items,
		Pagination: types.NewPaginationResponse(count, filter.GetLimit(), filter.GetOffset()),
	}, nil
}

func (s *taxService) UpdateTaxRule(ctx context.Context, id string, req dto.UpdateTaxRuleRequest) (*dto.TaxRuleResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	rule, err := s.TaxRuleRepo.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	req.Apply(rule)

	if rule.ValidUntil != nil && rule.ValidUntil.Before(rule.ValidFrom) {
		return nil, ierr.NewError("invalid validity window").
			WithHint("Valid until date must not be before valid from date").
			Mark(ierr.ErrValidation)
	}

	if err := s.TaxRuleRepo.Update(ctx, rule); err != nil {
		return nil, err
	}

	s.invalidateRuleCache(ctx, rule.PropertyID)

	return &dto.TaxRuleResponse{TaxRule: rule}, nil
}

func (s *taxService) DeleteTaxRule(ctx context.Context, id string) error {
	rule, err := s.TaxRuleRepo.Get(ctx, id)
	if err != nil {
		return err
	}

	if err := s.TaxRuleRepo.Delete(ctx, rule); err != nil {
		return err
	}

	s.invalidateRuleCache(ctx, rule.PropertyID)

	s.Logger.Infow("deleted tax rule",
		"tax_rule_id", rule.ID,
		"property_id", rule.PropertyID,
	)
	return nil
}

func (s *taxService) GetActiveTaxRule(ctx context.Context, propertyID string, date time.Time) (*dto.TaxRuleResponse, error) {
	rule, err := s.resolveActiveRule(ctx, propertyID, date)
	if err != nil {
		return nil, err
	}
	if rule == nil {
		return nil, ierr.NewError("no active tax rule").
			WithHintf("No active tax rule found for date %s", types.DateOnly(date).Format("2006-01-02")).
			WithReportableDetails(map[string]any{
				"property_id": propertyID,
				"date":        types.DateOnly(date).Format("2006-01-02"),
			}).
			Mark(ierr.ErrTaxNotConfigured)
	}
	return &dto.TaxRuleResponse{TaxRule: rule}, nil
}

func (s *taxService) ValidateTaxRule(ctx context.Context, req dto.CreateTaxRuleRequest) (*dto.ValidateTaxRuleResponse, error) {
	// Hard validation failures are reported as warnings too, so the
	// administrator UI shows a single finding list
	if err := validateAsWarnings(ctx, req); err != nil {
		return nil, err
	}

	rule := req.ToTaxRule(ctx)
	warnings := rule.ConfigurationWarnings()

	return &dto.ValidateTaxRuleResponse{
		Valid:    len(warnings) == 0,
		Warnings: warnings,
	}, nil
}

// validateAsWarnings rejects only requests too malformed to inspect
func validateAsWarnings(_ context.Context, req dto.CreateTaxRuleRequest) error {
	if req.ValidFrom.IsZero() {
		return ierr.NewError("valid_from is required").
			WithHint("A validity start date is required").
			Mark(ierr.ErrValidation)
	}
	return nil
}

func (s *taxService) CalculateTaxForBooking(ctx context.Context, bookingID string) (*dto.CalculationResponse, error) {
	if bookingID == "" {
		return nil, ierr.NewError("booking ID is required").
			WithHint("Booking ID is required").
			Mark(ierr.ErrValidation)
	}

	b, err := s.BookingRepo.Get(ctx, bookingID)
	if err != nil {
		return nil, err
	}

	guests, err := s.GuestRepo.GetByBookingID(ctx, b.ID)
	if err != nil {
		return nil, err
	}

	rule, err := s.resolveActiveRule(ctx, b.PropertyID, b.CheckInDate)
	if err != nil {
		return nil, err
	}

	result, err := s.Calculator.Calculate(citytax.CalculationInput{
		BookingID:    b.ID,
		CheckInDate:  b.CheckInDate,
		CheckOutDate: b.CheckOutDate,
		Guests:       guests,
		Rule:         s.withConfigDefaults(rule),
	})
	if err != nil {
		return nil, err
	}

	s.Logger.Debugw("calculated city tax",
		"booking_id", b.ID,
		"taxable_guests", result.TaxableGuests,
		"taxable_nights", result.TaxableNights,
		"total_tax_amount", result.TotalTaxAmount,
	)

	return &dto.CalculationResponse{CalculationResult: result}, nil
}

func (s *taxService) CalculateTaxForDateRange(ctx context.Context, req dto.DateRangeRequest) (*dto.CalculationBatchResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	propertyID := req.PropertyID
	if propertyID == "" {
		propertyID = s.Config.Property.ID
	}

	results, err := s.calculateRange(ctx, propertyID, req.StartDate, req.EndDate)
	if err != nil {
		return nil, err
	}

	items := make([]*dto.CalculationResponse, 0, len(results))
	for _, result := range results {
		items = append(items, &dto.CalculationResponse{CalculationResult: result})
	}

	return &dto.CalculationBatchResponse{
		Items:   items,
		Summary: summarize(results),
	}, nil
}

// calculateRange computes the tax for every booking checking in within
// the window. Bookings that cannot be calculated (no guests registered
// yet, no rule covering their check-in) are skipped with a warning so one
// incomplete booking never blocks a whole report.
func (s *taxService) calculateRange(ctx context.Context, propertyID string, startDate, endDate time.Time) ([]*citytax.CalculationResult, error) {
	bookings, err := s.BookingRepo.ListByCheckInRange(ctx, propertyID, startDate, endDate)
	if err != nil {
		return nil, err
	}

	results := make([]*citytax.CalculationResult, 0, len(bookings))
	for _, b := range bookings {
		guests, err := s.GuestRepo.GetByBookingID(ctx, b.ID)
		if err != nil {
			return nil, err
		}

		rule, err := s.resolveActiveRule(ctx, b.PropertyID, b.CheckInDate)
		if err != nil {
			return nil, err
		}

		result, err := s.Calculator.Calculate(citytax.CalculationInput{
			BookingID:    b.ID,
			CheckInDate:  b.CheckInDate,
			CheckOutDate: b.CheckOutDate,
			Guests:       guests,
			Rule:         s.withConfigDefaults(rule),
		})
		if err != nil {
			s.Logger.Warnw("skipping booking in batch calculation",
				"booking_id", b.ID,
				"error", err,
			)
			continue
		}
		results = append(results, result)
	}

	return results, nil
}

func summarize(results []*citytax.CalculationResult) *dto.TaxSummaryResponse {
	summary := &dto.TaxSummaryResponse{
		TotalTaxCollected:    decimal.Zero,
		AverageTaxPerBooking: decimal.Zero,
	}

	for _, result := range results {
		summary.TotalBookings++
		summary.TotalGuests += result.TotalGuests
		summary.TotalTaxableGuests += result.TaxableGuests
		summary.TotalExemptGuests += result.ExemptGuests
		summary.TotalTaxCollected = summary.TotalTaxCollected.Add(result.TotalTaxAmount)
	}

	if summary.TotalBookings > 0 {
		summary.AverageTaxPerBooking = summary.TotalTaxCollected.
			DivRound(decimal.NewFromInt(int64(summary.TotalBookings)), 2)
	}

	return summary
}

// withConfigDefaults returns a copy of the rule with the deployment's
// configured fallbacks filled in where the rule leaves an exemption
// parameter unset. The stored rule and the cached entry stay untouched.
func (s *taxService) withConfigDefaults(rule *taxrule.TaxRule) *taxrule.TaxRule {
	if rule == nil {
		return nil
	}

	r := *rule
	if r.AgeExemptionThreshold == nil && s.Config.Tax.DefaultAgeExemptionThreshold > 0 {
		r.AgeExemptionThreshold = lo.ToPtr(s.Config.Tax.DefaultAgeExemptionThreshold)
	}
	if r.ExemptionConfig.BusDriverRatio <= 0 && s.Config.Tax.DefaultBusDriverRatio > 0 {
		r.ExemptionConfig.BusDriverRatio = s.Config.Tax.DefaultBusDriverRatio
	}
	return &r
}

// resolveActiveRule is the cached active-rule lookup. A miss in storage is
// returned as (nil, nil); callers decide whether that is an error. Only
// hits are cached so a rule created later is visible immediately.
func (s *taxService) resolveActiveRule(ctx context.Context, propertyID string, date time.Time) (*taxrule.TaxRule, error) {
	key := cache.ActiveRuleKey(types.GetTenantID(ctx), propertyID, types.DateOnly(date))

	if cached, found := s.Cache.Get(ctx, key); found {
		if rule, ok := cached.(*taxrule.TaxRule); ok {
			return rule, nil
		}
	}

	rule, err := s.TaxRuleRepo.GetActiveRule(ctx, propertyID, date)
	if err != nil {
		return nil, err
	}
	if rule != nil {
		s.Cache.Set(ctx, key, rule, s.Config.Cache.ActiveRuleTTL)
	}
	return rule, nil
}

func (s *taxService) invalidateRuleCache(ctx context.Context, propertyID string) {
	cache.InvalidatePropertyRules(ctx, s.Cache, types.GetTenantID(ctx), propertyID)
}
