package testutil

import (
	"context"
	"time"

	"github.com/Bedotech/smartbook/internal/domain/booking"
	ierr "github.com/Bedotech/smartbook/internal/errors"
	"github.com/Bedotech/smartbook/internal/types"
)

// InMemoryBookingStore implements booking.Repository
type InMemoryBookingStore struct {
	*InMemoryStore[*booking.Booking]
}

func NewInMemoryBookingStore() *InMemoryBookingStore {
	return &InMemoryBookingStore{
		InMemoryStore: NewInMemoryStore[*booking.Booking](),
	}
}

func bookingFilterFn(ctx context.Context, b *booking.Booking, _ interface{}) bool {
	if b == nil {
		return false
	}
	if tenantID, ok := ctx.Value(types.CtxTenantID).(string); ok {
		if b.TenantID != tenantID {
			return false
		}
	}
	return b.Status == types.StatusPublished
}

func bookingSortFn(i, j *booking.Booking) bool {
	if i == nil || j == nil {
		return false
	}
	return i.CheckInDate.Before(j.CheckInDate)
}

func (s *InMemoryBookingStore) Create(ctx context.Context, b *booking.Booking) error {
	if b == nil {
		return ierr.NewError("booking cannot be nil").
			WithHint("Booking data is required").
			Mark(ierr.ErrValidation)
	}
	return s.InMemoryStore.Create(ctx, b.ID, b)
}

func (s *InMemoryBookingStore) Get(ctx context.Context, id string) (*booking.Booking, error) {
	b, err := s.InMemoryStore.Get(ctx, id)
	if err != nil {
		return nil, ierr.WithError(err).
			WithHintf("Booking with ID %s was not found", id).
			Mark(ierr.ErrNotFound)
	}
	return b, nil
}

func (s *InMemoryBookingStore) Update(ctx context.Context, b *booking.Booking) error {
	if b == nil {
		return ierr.NewError("booking cannot be nil").
			WithHint("Booking data is required").
			Mark(ierr.ErrValidation)
	}
	if err := s.InMemoryStore.Update(ctx, b.ID, b); err != nil {
		return ierr.WithError(err).
			WithHintf("Booking with ID %s was not found", b.ID).
			Mark(ierr.ErrNotFound)
	}
	return nil
}

func (s *InMemoryBookingStore) Delete(ctx context.Context, b *booking.Booking) error {
	if b == nil {
		return ierr.NewError("booking cannot be nil").
			WithHint("Booking data is required").
			Mark(ierr.ErrValidation)
	}
	if err := s.InMemoryStore.Delete(ctx, b.ID); err != nil {
		return ierr.WithError(err).
			WithHintf("Booking with ID %s was not found", b.ID).
			Mark(ierr.ErrNotFound)
	}
	return nil
}

func (s *InMemoryBookingStore) ListByCheckInRange(ctx context.Context, propertyID string, startDate, endDate time.Time) ([]*booking.Booking, error) {
	start := types.DateOnly(startDate)
	end := types.DateOnly(endDate)

	filterFn := func(ctx context.Context, b *booking.Booking, _ interface{}) bool {
		if !bookingFilterFn(ctx, b, nil) {
			return false
		}
		if b.PropertyID != propertyID {
			return false
		}
		checkIn := types.DateOnly(b.CheckInDate)
		return !checkIn.Before(start) && !checkIn.After(end)
	}

	return s.InMemoryStore.List(ctx, nil, filterFn, bookingSortFn)
}
