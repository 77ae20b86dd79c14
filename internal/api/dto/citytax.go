package dto

import (
	"time"

	"github.com/Bedotech/smartbook/internal/domain/citytax"
	ierr "github.com/Bedotech/smartbook/internal/errors"
	"github.com/shopspring/decimal"
)

type CalculationResponse struct {
	*citytax.CalculationResult
}

// DateRangeRequest bounds a batch calculation or a detail report by
// check-in date, both ends inclusive.
type DateRangeRequest struct {
	PropertyID string    `json:"property_id" form:"property_id"`
	StartDate  time.Time `json:"start_date" form:"start_date" time_format:"2006-01-02"`
	EndDate    time.Time `json:"end_date" form:"end_date" time_format:"2006-01-02"`
}

func (r *DateRangeRequest) Validate() error {
	if r.StartDate.IsZero() || r.EndDate.IsZero() {
		return ierr.NewError("missing date range").
			WithHint("Both start_date and end_date are required").
			Mark(ierr.ErrValidation)
	}
	if r.EndDate.Before(r.StartDate) {
		return ierr.NewError("invalid date range").
			WithHint("End date must not be before start date").
			Mark(ierr.ErrValidation)
	}
	return nil
}

// TaxSummaryResponse condenses a batch of calculation results into the
// totals an operator checks before submitting the official report.
type TaxSummaryResponse struct {
	TotalBookings        int             `json:"total_bookings"`
	TotalGuests          int             `json:"total_guests"`
	TotalTaxableGuests   int             `json:"total_taxable_guests"`
	TotalExemptGuests    int             `json:"total_exempt_guests"`
	TotalTaxCollected    decimal.Decimal `json:"total_tax_collected"`
	AverageTaxPerBooking decimal.Decimal `json:"average_tax_per_booking"`
}

type CalculationBatchResponse struct {
	Items   []*CalculationResponse `json:"items"`
	Summary *TaxSummaryResponse    `json:"summary"`
}
