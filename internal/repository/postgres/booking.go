package postgres

import (
	"context"
	"database/sql"
	"time"

	"github.com/Bedotech/smartbook/internal/domain/booking"
	ierr "github.com/Bedotech/smartbook/internal/errors"
	"github.com/Bedotech/smartbook/internal/logger"
	"github.com/Bedotech/smartbook/internal/postgres"
	"github.com/Bedotech/smartbook/internal/types"
	"github.com/cockroachdb/errors"
)

type bookingRepository struct {
	db     *postgres.DB
	logger *logger.Logger
}

// NewBookingRepository creates a postgres-backed booking.Repository
func NewBookingRepository(db *postgres.DB, logger *logger.Logger) booking.Repository {
	return &bookingRepository{db: db, logger: logger}
}

const bookingColumns = `
	id, tenant_id, property_id, check_in_date, check_out_date,
	booking_type, booking_status,
	status, created_at, updated_at, created_by, updated_by`

func (r *bookingRepository) Create(ctx context.Context, b *booking.Booking) error {
	query := `
		INSERT INTO bookings (` + bookingColumns + `)
		VALUES (
			:id, :tenant_id, :property_id, :check_in_date, :check_out_date,
			:booking_type, :booking_status,
			:status, :created_at, :updated_at, :created_by, :updated_by
		)`

	if _, err := r.db.NamedExecContext(ctx, query, b); err != nil {
		return ierr.WithError(err).
			WithHint("Failed to create booking").
			WithReportableDetails(map[string]any{
				"booking_id": b.ID,
			}).
			Mark(ierr.ErrDatabase)
	}
	return nil
}

func (r *bookingRepository) Get(ctx context.Context, id string) (*booking.Booking, error) {
	query := `
		SELECT ` + bookingColumns + `
		FROM bookings
		WHERE id = $1 AND tenant_id = $2 AND status = $3`

	var b booking.Booking
	err := r.db.GetQuerier(ctx).GetContext(ctx, &b, query,
		id, types.GetTenantID(ctx), types.StatusPublished)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ierr.WithError(err).
				WithHintf("Booking with ID %s was not found", id).
				WithReportableDetails(map[string]any{
					"booking_id": id,
				}).
				Mark(ierr.ErrNotFound)
		}
		return nil, ierr.WithError(err).
			WithHint("Failed to get booking").
			Mark(ierr.ErrDatabase)
	}
	return &b, nil
}

func (r *bookingRepository) Update(ctx context.Context, b *booking.Booking) error {
	b.UpdatedAt = time.Now().UTC()
	b.UpdatedBy = types.GetUserID(ctx)

	query := `
		UPDATE bookings SET
			check_in_date = :check_in_date,
			check_out_date = :check_out_date,
			booking_type = :booking_type,
			booking_status = :booking_status,
			status = :status,
			updated_at = :updated_at,
			updated_by = :updated_by
		WHERE id = :id AND tenant_id = :tenant_id`

	result, err := r.db.NamedExecContext(ctx, query, b)
	if err != nil {
		return ierr.WithError(err).
			WithHint("Failed to update booking").
			Mark(ierr.ErrDatabase)
	}
	if rows, err := result.RowsAffected(); err == nil && rows == 0 {
		return ierr.NewError("booking not found").
			WithHintf("Booking with ID %s was not found", b.ID).
			Mark(ierr.ErrNotFound)
	}
	return nil
}

func (r *bookingRepository) Delete(ctx context.Context, b *booking.Booking) error {
	b.Status = types.StatusDeleted
	b.UpdatedAt = time.Now().UTC()
	b.UpdatedBy = types.GetUserID(ctx)

	query := `
		UPDATE bookings SET
			status = :status,
			updated_at = :updated_at,
			updated_by = :updated_by
		WHERE id = :id AND tenant_id = :tenant_id`

	result, err := r.db.NamedExecContext(ctx, query, b)
	if err != nil {
		return ierr.WithError(err).
			WithHint("Failed to delete booking").
			Mark(ierr.ErrDatabase)
	}
	if rows, err := result.RowsAffected(); err == nil && rows == 0 {
		return ierr.NewError("booking not found").
			WithHintf("Booking with ID %s was not found", b.ID).
			Mark(ierr.ErrNotFound)
	}
	return nil
}

func (r *bookingRepository) ListByCheckInRange(ctx context.Context, propertyID string, startDate, endDate time.Time) ([]*booking.Booking, error) {
	query := `
		SELECT ` + bookingColumns + `
		FROM bookings
		WHERE tenant_id = $1 AND property_id = $2 AND status = $3
		  AND check_in_date >= $4 AND check_in_date <= $5
		ORDER BY check_in_date ASC`

	var bookings []*booking.Booking
	err := r.db.GetQuerier(ctx).SelectContext(ctx, &bookings, query,
		types.GetTenantID(ctx), propertyID, types.StatusPublished,
		types.DateOnly(startDate), types.DateOnly(endDate))
	if err != nil {
		return nil, ierr.WithError(err).
			WithHint("Failed to list bookings").
			Mark(ierr.ErrDatabase)
	}
	return bookings, nil
}
