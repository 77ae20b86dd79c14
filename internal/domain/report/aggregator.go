package report

import (
	"fmt"
	"strings"
	"time"

	"github.com/Bedotech/smartbook/internal/domain/citytax"
	"github.com/shopspring/decimal"
)

// Aggregator rolls per-booking calculation results into municipality
// reports. Pure aggregation: it never recomputes tax, performs no I/O and
// holds no mutable state, so it may be shared across goroutines.
type Aggregator struct {
	propertyName string
	facilityCode string
}

// NewAggregator creates a report aggregator for one property. The property
// identity is a construction-time value, not global configuration.
func NewAggregator(propertyName, facilityCode string) *Aggregator {
	return &Aggregator{
		propertyName: propertyName,
		facilityCode: facilityCode,
	}
}

// Italian month names, fixed 1-12 lookup
var monthNames = map[int]string{
	1: "Gennaio", 2: "Febbraio", 3: "Marzo", 4: "Aprile",
	5: "Maggio", 6: "Giugno", 7: "Luglio", 8: "Agosto",
	9: "Settembre", 10: "Ottobre", 11: "Novembre", 12: "Dicembre",
}

// quarterMonths maps a quarter to its fixed 3-month group
var quarterMonths = map[int][]string{
	1: {"Gennaio", "Febbraio", "Marzo"},
	2: {"Aprile", "Maggio", "Giugno"},
	3: {"Luglio", "Agosto", "Settembre"},
	4: {"Ottobre", "Novembre", "Dicembre"},
}

// MonthlyReport aggregates a month's results. Empty input is a valid
// steady state and yields a zeroed summary, never an error.
func (a *Aggregator) MonthlyReport(year, month int, results []*citytax.CalculationResult) *Report {
	r := a.aggregate(results)
	r.ReportType = ReportTypeMonthly
	r.Period = &Period{
		Year:      year,
		Month:     month,
		MonthName: monthNames[month],
	}
	return r
}

// QuarterlyReport aggregates a quarter's results; quarter is 1-4.
func (a *Aggregator) QuarterlyReport(year, quarter int, results []*citytax.CalculationResult) *Report {
	r := a.aggregate(results)
	r.ReportType = ReportTypeQuarterly
	r.Period = &Period{
		Year:    year,
		Quarter: quarter,
		Months:  quarterMonths[quarter],
	}
	return r
}

// BookingDetailReport lists one row per booking with the complete
// calculation breakdown for line-item audit trails.
func (a *Aggregator) BookingDetailReport(results []*citytax.CalculationResult) *Report {
	rows := make([]BookingRow, 0, len(results))
	for _, result := range results {
		rows = append(rows, BookingRow{
			BookingID:     result.BookingID,
			Guests:        result.TotalGuests,
			TaxableGuests: result.TaxableGuests,
			ExemptGuests:  result.ExemptGuests,
			Nights:        result.TotalNights,
			TaxableNights: result.TaxableNights,
			RatePerNight:  result.BaseRatePerNight,
			TaxAmount:     result.TotalTaxAmount,
			Exemptions:    result.ExemptionBreakdown,
		})
	}

	return &Report{
		ReportType:  ReportTypeDetailed,
		Property:    a.property(),
		Bookings:    rows,
		GeneratedAt: time.Now().UTC(),
	}
}

func (a *Aggregator) aggregate(results []*citytax.CalculationResult) *Report {
	summary := &Summary{TotalTaxCollected: decimal.Zero}
	exemptions := &Exemptions{}
	averages := &Averages{
		GuestsPerBooking: decimal.Zero,
		TaxPerBooking:    decimal.Zero,
	}

	for _, result := range results {
		summary.TotalBookings++
		summary.TotalGuests += result.TotalGuests
		summary.TotalTaxableGuests += result.TaxableGuests
		summary.TotalExemptGuests += result.ExemptGuests

		// Guest-nights: weight calendar nights by party size
		summary.TotalNights += result.TotalNights * result.TotalGuests
		summary.TotalTaxableNights += result.TaxableNights * result.TaxableGuests

		summary.TotalTaxCollected = summary.TotalTaxCollected.Add(result.TotalTaxAmount)

		exemptions.Minors += result.ExemptionBreakdown.ExemptMinors
		exemptions.BusDrivers += result.ExemptionBreakdown.ExemptDriversAllowed
		exemptions.TourGuides += result.ExemptionBreakdown.ExemptGuides
		exemptions.Other += result.ExemptionBreakdown.ExemptOther
		exemptions.Total += result.ExemptGuests
	}

	// Zero bookings is valid; guard the division instead of raising
	if summary.TotalBookings > 0 {
		bookings := decimal.NewFromInt(int64(summary.TotalBookings))
		averages.GuestsPerBooking = decimal.NewFromInt(int64(summary.TotalGuests)).
			DivRound(bookings, 2)
		averages.TaxPerBooking = summary.TotalTaxCollected.DivRound(bookings, 2)
	}

	return &Report{
		Property:    a.property(),
		Summary:     summary,
		Exemptions:  exemptions,
		Averages:    averages,
		GeneratedAt: time.Now().UTC(),
	}
}

func (a *Aggregator) property() Property {
	return Property{
		Name:         a.propertyName,
		FacilityCode: a.facilityCode,
	}
}

// FormatCurrency renders an amount for the Italian locale (EUR), e.g.
// "€ 1.234,56". Presentation only: the underlying decimal is untouched.
func FormatCurrency(amount decimal.Decimal) string {
	fixed := amount.StringFixed(2)

	negative := strings.HasPrefix(fixed, "-")
	fixed = strings.TrimPrefix(fixed, "-")

	parts := strings.SplitN(fixed, ".", 2)
	intPart, fracPart := parts[0], parts[1]

	var grouped []string
	for len(intPart) > 3 {
		grouped = append([]string{intPart[len(intPart)-3:]}, grouped...)
		intPart = intPart[:len(intPart)-3]
	}
	grouped = append([]string{intPart}, grouped...)

	sign := ""
	if negative {
		sign = "-"
	}
	return fmt.Sprintf("€ %s%s,%s", sign, strings.Join(grouped, "."), fracPart)
}

// RenderText produces the plain-text rendering of a report, the one
// convenience output format the aggregator owns; JSON and PDF rendering
// belong to the callers.
func (a *Aggregator) RenderText(r *Report) string {
	divider := strings.Repeat("=", 60)
	section := strings.Repeat("-", 60)

	var b strings.Builder
	fmt.Fprintln(&b, divider)
	fmt.Fprintf(&b, "IMPOSTA DI SOGGIORNO - REPORT %s\n", strings.ToUpper(string(r.ReportType)))
	fmt.Fprintln(&b, divider)
	fmt.Fprintln(&b)
	fmt.Fprintf(&b, "Struttura: %s\n", r.Property.Name)
	fmt.Fprintf(&b, "Codice: %s\n", r.Property.FacilityCode)
	fmt.Fprintln(&b)

	if r.Period != nil {
		switch r.ReportType {
		case ReportTypeMonthly:
			fmt.Fprintf(&b, "Periodo: %s %d\n", r.Period.MonthName, r.Period.Year)
		case ReportTypeQuarterly:
			fmt.Fprintf(&b, "Periodo: Q%d %d\n", r.Period.Quarter, r.Period.Year)
		}
		fmt.Fprintln(&b)
	}

	if r.Summary != nil {
		fmt.Fprintln(&b, "RIEPILOGO")
		fmt.Fprintln(&b, section)
		fmt.Fprintf(&b, "Prenotazioni totali: %d\n", r.Summary.TotalBookings)
		fmt.Fprintf(&b, "Ospiti totali: %d\n", r.Summary.TotalGuests)
		fmt.Fprintf(&b, "Ospiti soggetti a imposta: %d\n", r.Summary.TotalTaxableGuests)
		fmt.Fprintf(&b, "Ospiti esenti: %d\n", r.Summary.TotalExemptGuests)
		fmt.Fprintln(&b)
		fmt.Fprintf(&b, "TOTALE IMPOSTA: %s\n", FormatCurrency(r.Summary.TotalTaxCollected))
		fmt.Fprintln(&b)
	}

	if r.Exemptions != nil {
		fmt.Fprintln(&b, "DETTAGLIO ESENZIONI")
		fmt.Fprintln(&b, section)
		fmt.Fprintf(&b, "Minori: %d\n", r.Exemptions.Minors)
		fmt.Fprintf(&b, "Autisti pullman: %d\n", r.Exemptions.BusDrivers)
		fmt.Fprintf(&b, "Guide turistiche: %d\n", r.Exemptions.TourGuides)
		fmt.Fprintln(&b)
	}

	fmt.Fprintln(&b, divider)
	fmt.Fprintf(&b, "Generato il: %s\n", r.GeneratedAt.Format("2006-01-02"))
	fmt.Fprint(&b, divider)

	return b.String()
}
