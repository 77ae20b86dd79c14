package testutil

import (
	"context"

	"github.com/Bedotech/smartbook/internal/domain/guest"
	ierr "github.com/Bedotech/smartbook/internal/errors"
	"github.com/Bedotech/smartbook/internal/types"
)

// InMemoryGuestStore implements guest.Repository
type InMemoryGuestStore struct {
	*InMemoryStore[*guest.Guest]
}

func NewInMemoryGuestStore() *InMemoryGuestStore {
	return &InMemoryGuestStore{
		InMemoryStore: NewInMemoryStore[*guest.Guest](),
	}
}

func guestFilterFn(ctx context.Context, g *guest.Guest, _ interface{}) bool {
	if g == nil {
		return false
	}
	if tenantID, ok := ctx.Value(types.CtxTenantID).(string); ok {
		if g.TenantID != tenantID {
			return false
		}
	}
	return g.Status == types.StatusPublished
}

func guestSortFn(i, j *guest.Guest) bool {
	if i == nil || j == nil {
		return false
	}
	return i.CreatedAt.Before(j.CreatedAt)
}

func (s *InMemoryGuestStore) Create(ctx context.Context, g *guest.Guest) error {
	if g == nil {
		return ierr.NewError("guest cannot be nil").
			WithHint("Guest data is required").
			Mark(ierr.ErrValidation)
	}
	return s.InMemoryStore.Create(ctx, g.ID, g)
}

func (s *InMemoryGuestStore) Get(ctx context.Context, id string) (*guest.Guest, error) {
	g, err := s.InMemoryStore.Get(ctx, id)
	if err != nil {
		return nil, ierr.WithError(err).
			WithHintf("Guest with ID %s was not found", id).
			Mark(ierr.ErrNotFound)
	}
	return g, nil
}

func (s *InMemoryGuestStore) GetByBookingID(ctx context.Context, bookingID string) ([]*guest.Guest, error) {
	filterFn := func(ctx context.Context, g *guest.Guest, _ interface{}) bool {
		return guestFilterFn(ctx, g, nil) && g.BookingID == bookingID
	}
	return s.InMemoryStore.List(ctx, nil, filterFn, guestSortFn)
}

func (s *InMemoryGuestStore) Update(ctx context.Context, g *guest.Guest) error {
	if g == nil {
		return ierr.NewError("guest cannot be nil").
			WithHint("Guest data is required").
			Mark(ierr.ErrValidation)
	}
	if err := s.InMemoryStore.Update(ctx, g.ID, g); err != nil {
		return ierr.WithError(err).
			WithHintf("Guest with ID %s was not found", g.ID).
			Mark(ierr.ErrNotFound)
	}
	return nil
}

func (s *InMemoryGuestStore) Delete(ctx context.Context, g *guest.Guest) error {
	if g == nil {
		return ierr.NewError("guest cannot be nil").
			WithHint("Guest data is required").
			Mark(ierr.ErrValidation)
	}
	if err := s.InMemoryStore.Delete(ctx, g.ID); err != nil {
		return ierr.WithError(err).
			WithHintf("Guest with ID %s was not found", g.ID).
			Mark(ierr.ErrNotFound)
	}
	return nil
}
