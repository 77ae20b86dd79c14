package guest

import (
	"context"
)

// Repository defines the interface for guest data access
type Repository interface {
	Create(ctx context.Context, guest *Guest) error
	Get(ctx context.Context, id string) (*Guest, error)
	GetByBookingID(ctx context.Context, bookingID string) ([]*Guest, error)
	Update(ctx context.Context, guest *Guest) error
	Delete(ctx context.Context, guest *Guest) error
}
