package service

import (
	"context"
	"time"

	"github.com/Bedotech/smartbook/internal/api/dto"
	"github.com/Bedotech/smartbook/internal/domain/report"
)

// ReportingService produces the municipality reports from per-booking
// calculation results. Reports are derived on demand and never stored.
type ReportingService interface {
	MonthlyReport(ctx context.Context, req dto.MonthlyReportRequest) (*report.Report, error)
	QuarterlyReport(ctx context.Context, req dto.QuarterlyReportRequest) (*report.Report, error)
	BookingDetailReport(ctx context.Context, req dto.DateRangeRequest) (*report.Report, error)

	// RenderText renders a report in the plain-text layout used for manual
	// submission to the municipality portal
	RenderText(r *report.Report) string
}

type reportingService struct {
	ServiceParams

	tax        *taxService
	aggregator *report.Aggregator
}

func NewReportingService(params ServiceParams) ReportingService {
	return &reportingService{
		ServiceParams: params,
		tax:           &taxService{ServiceParams: params},
		aggregator: report.NewAggregator(
			params.Config.Property.Name,
			params.Config.Property.FacilityCode,
		),
	}
}

func (s *reportingService) MonthlyReport(ctx context.Context, req dto.MonthlyReportRequest) (*report.Report, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	start := time.Date(req.Year, time.Month(req.Month), 1, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 1, -1)

	results, err := s.tax.calculateRange(ctx, s.propertyID(req.PropertyID), start, end)
	if err != nil {
		return nil, err
	}

	r := s.aggregator.MonthlyReport(req.Year, req.Month, results)

	s.Logger.Infow("generated monthly report",
		"year", req.Year,
		"month", req.Month,
		"total_bookings", r.Summary.TotalBookings,
		"total_tax", r.Summary.TotalTaxCollected,
	)
	return r, nil
}

func (s *reportingService) QuarterlyReport(ctx context.Context, req dto.QuarterlyReportRequest) (*report.Report, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	firstMonth := (req.Quarter-1)*3 + 1
	start := time.Date(req.Year, time.Month(firstMonth), 1, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 3, -1)

	results, err := s.tax.calculateRange(ctx, s.propertyID(req.PropertyID), start, end)
	if err != nil {
		return nil, err
	}

	r := s.aggregator.QuarterlyReport(req.Year, req.Quarter, results)

	s.Logger.Infow("generated quarterly report",
		"year", req.Year,
		"quarter", req.Quarter,
		"total_bookings", r.Summary.TotalBookings,
		"total_tax", r.Summary.TotalTaxCollected,
	)
	return r, nil
}

func (s *reportingService) BookingDetailReport(ctx context.Context, req dto.DateRangeRequest) (*report.Report, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	results, err := s.tax.calculateRange(ctx, s.propertyID(req.PropertyID), req.StartDate, req.EndDate)
	if err != nil {
		return nil, err
	}

	return s.aggregator.BookingDetailReport(results), nil
}

func (s *reportingService) RenderText(r *report.Report) string {
	return s.aggregator.RenderText(r)
}

func (s *reportingService) propertyID(requested string) string {
	if requested != "" {
		return requested
	}
	return s.Config.Property.ID
}
