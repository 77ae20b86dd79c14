package dto

import (
	"github.com/Bedotech/smartbook/internal/domain/report"
	ierr "github.com/Bedotech/smartbook/internal/errors"
)

type MonthlyReportRequest struct {
	PropertyID string `json:"property_id" form:"property_id"`
	Year       int    `json:"year" form:"year"`
	Month      int    `json:"month" form:"month"`
}

func (r *MonthlyReportRequest) Validate() error {
	if r.Year < 2000 || r.Year > 2100 {
		return ierr.NewError("invalid year").
			WithHint("Year must be a four digit year").
			Mark(ierr.ErrValidation)
	}
	if r.Month < 1 || r.Month > 12 {
		return ierr.NewError("invalid month").
			WithHint("Month must be between 1 and 12").
			Mark(ierr.ErrValidation)
	}
	return nil
}

type QuarterlyReportRequest struct {
	PropertyID string `json:"property_id" form:"property_id"`
	Year       int    `json:"year" form:"year"`
	Quarter    int    `json:"quarter" form:"quarter"`
}

func (r *QuarterlyReportRequest) Validate() error {
	if r.Year < 2000 || r.Year > 2100 {
		return ierr.NewError("invalid year").
			WithHint("Year must be a four digit year").
			Mark(ierr.ErrValidation)
	}
	if r.Quarter < 1 || r.Quarter > 4 {
		return ierr.NewError("invalid quarter").
			WithHint("Quarter must be between 1 and 4").
			Mark(ierr.ErrValidation)
	}
	return nil
}

type ReportResponse struct {
	*report.Report

	// Text is the plain-text rendering, included when format=text is
	// requested
	Text string `json:"text,omitempty"`
}
