package report

import (
	"time"

	"github.com/Bedotech/smartbook/internal/domain/citytax"
	"github.com/shopspring/decimal"
)

// ReportType distinguishes the report layouts submitted to the municipality
type ReportType string

const (
	ReportTypeMonthly   ReportType = "monthly"
	ReportTypeQuarterly ReportType = "quarterly"
	ReportTypeDetailed  ReportType = "detailed"
)

// Period identifies the reporting window. MonthName and Months carry the
// Italian month names used on the printed report.
type Period struct {
	Year      int      `json:"year"`
	Month     int      `json:"month,omitempty"`
	MonthName string   `json:"month_name,omitempty"`
	Quarter   int      `json:"quarter,omitempty"`
	Months    []string `json:"months,omitempty"`
}

// Property identifies the reporting structure
type Property struct {
	Name         string `json:"name"`
	FacilityCode string `json:"facility_code"`
}

// Summary holds the period totals. Night totals are guest-nights
// (nights × guests), the unit the municipality accounts in, not calendar
// nights.
type Summary struct {
	TotalBookings      int             `json:"total_bookings"`
	TotalGuests        int             `json:"total_guests"`
	TotalTaxableGuests int             `json:"total_taxable_guests"`
	TotalExemptGuests  int             `json:"total_exempt_guests"`
	TotalNights        int             `json:"total_nights"`
	TotalTaxableNights int             `json:"total_taxable_nights"`
	TotalTaxCollected  decimal.Decimal `json:"total_tax_collected"`
}

// Exemptions sums the exemption categories across all bookings
type Exemptions struct {
	Minors     int `json:"minors"`
	BusDrivers int `json:"bus_drivers"`
	TourGuides int `json:"tour_guides"`
	Other      int `json:"other"`
	Total      int `json:"total"`
}

// Averages holds zero-guarded per-booking averages
type Averages struct {
	GuestsPerBooking decimal.Decimal `json:"guests"`
	TaxPerBooking    decimal.Decimal `json:"tax"`
}

// BookingRow is one line of the detail report, carrying the full
// calculation result for line-item audit trails.
type BookingRow struct {
	BookingID     string                     `json:"booking_id"`
	Guests        int                        `json:"guests"`
	TaxableGuests int                        `json:"taxable_guests"`
	ExemptGuests  int                        `json:"exempt_guests"`
	Nights        int                        `json:"nights"`
	TaxableNights int                        `json:"taxable_nights"`
	RatePerNight  decimal.Decimal            `json:"rate_per_night"`
	TaxAmount     decimal.Decimal            `json:"tax_amount"`
	Exemptions    citytax.ExemptionBreakdown `json:"exemptions"`
}

// Report is a derived, ephemeral aggregate over calculation results; it is
// never persisted here. Rendering to PDF is a downstream concern.
type Report struct {
	ReportType  ReportType   `json:"report_type"`
	Period      *Period      `json:"period,omitempty"`
	Property    Property     `json:"property"`
	Summary     *Summary     `json:"summary,omitempty"`
	Exemptions  *Exemptions  `json:"exemptions,omitempty"`
	Averages    *Averages    `json:"average_per_booking,omitempty"`
	Bookings    []BookingRow `json:"bookings,omitempty"`
	GeneratedAt time.Time    `json:"generated_at"`
}
