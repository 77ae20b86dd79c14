package booking

import (
	"time"

	"github.com/Bedotech/smartbook/internal/types"
)

// Booking is a group stay at a property. The tax engine only reads its
// stay dates; guest identity collection and compliance submission live in
// other services.
type Booking struct {
	ID         string `db:"id" json:"id"`
	PropertyID string `db:"property_id" json:"property_id"`

	CheckInDate  time.Time `db:"check_in_date" json:"check_in_date"`
	CheckOutDate time.Time `db:"check_out_date" json:"check_out_date"`

	BookingType   types.BookingType   `db:"booking_type" json:"booking_type"`
	BookingStatus types.BookingStatus `db:"booking_status" json:"booking_status"`

	types.BaseModel
}

// TotalNights returns the calendar nights between check-in and check-out
func (b *Booking) TotalNights() int {
	return types.NightsBetween(b.CheckInDate, b.CheckOutDate)
}
