package booking

import (
	"context"
	"time"
)

// Repository defines the interface for booking data access
type Repository interface {
	Create(ctx context.Context, booking *Booking) error
	Get(ctx context.Context, id string) (*Booking, error)
	Update(ctx context.Context, booking *Booking) error
	Delete(ctx context.Context, booking *Booking) error

	// ListByCheckInRange returns bookings for a property whose check-in
	// date falls inside [startDate, endDate], for periodic tax reporting
	ListByCheckInRange(ctx context.Context, propertyID string, startDate, endDate time.Time) ([]*Booking, error)
}
