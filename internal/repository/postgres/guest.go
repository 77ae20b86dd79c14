package postgres

import (
	"context"
	"database/sql"
	"time"

	"github.com/Bedotech/smartbook/internal/domain/guest"
	ierr "github.com/Bedotech/smartbook/internal/errors"
	"github.com/Bedotech/smartbook/internal/logger"
	"github.com/Bedotech/smartbook/internal/postgres"
	"github.com/Bedotech/smartbook/internal/types"
	"github.com/cockroachdb/errors"
)

type guestRepository struct {
	db     *postgres.DB
	logger *logger.Logger
}

// NewGuestRepository creates a postgres-backed guest.Repository
func NewGuestRepository(db *postgres.DB, logger *logger.Logger) guest.Repository {
	return &guestRepository{db: db, logger: logger}
}

const guestColumns = `
	id, tenant_id, booking_id, first_name, last_name, date_of_birth,
	role, is_tax_exempt, tax_exempt_reason,
	status, created_at, updated_at, created_by, updated_by`

func (r *guestRepository) Create(ctx context.Context, g *guest.Guest) error {
	query := `
		INSERT INTO guests (` + guestColumns + `)
		VALUES (
			:id, :tenant_id, :booking_id, :first_name, :last_name, :date_of_birth,
			:role, :is_tax_exempt, :tax_exempt_reason,
			:status, :created_at, :updated_at, :created_by, :updated_by
		)`

	if _, err := r.db.NamedExecContext(ctx, query, g); err != nil {
		return ierr.WithError(err).
			WithHint("Failed to create guest").
			WithReportableDetails(map[string]any{
				"guest_id": g.ID,
			}).
			Mark(ierr.ErrDatabase)
	}
	return nil
}

func (r *guestRepository) Get(ctx context.Context, id string) (*guest.Guest, error) {
	query := `
		SELECT ` + guestColumns + `
		FROM guests
		WHERE id = $1 AND tenant_id = $2 AND status = $3`

	var g guest.Guest
	err := r.db.GetQuerier(ctx).GetContext(ctx, &g, query,
		id, types.GetTenantID(ctx), types.StatusPublished)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ierr.WithError(err).
				WithHintf("Guest with ID %s was not found", id).
				WithReportableDetails(map[string]any{
					"guest_id": id,
				}).
				Mark(ierr.ErrNotFound)
		}
		return nil, ierr.WithError(err).
			WithHint("Failed to get guest").
			Mark(ierr.ErrDatabase)
	}
	return &g, nil
}

func (r *guestRepository) GetByBookingID(ctx context.Context, bookingID string) ([]*guest.Guest, error) {
	query := `
		SELECT ` + guestColumns + `
		FROM guests
		WHERE tenant_id = $1 AND booking_id = $2 AND status = $3
		ORDER BY created_at ASC`

	var guests []*guest.Guest
	err := r.db.GetQuerier(ctx).SelectContext(ctx, &guests, query,
		types.GetTenantID(ctx), bookingID, types.StatusPublished)
	if err != nil {
		return nil, ierr.WithError(err).
			WithHint("Failed to list guests for booking").
			WithReportableDetails(map[string]any{
				"booking_id": bookingID,
			}).
			Mark(ierr.ErrDatabase)
	}
	return guests, nil
}

func (r *guestRepository) Update(ctx context.Context, g *guest.Guest) error {
	g.UpdatedAt = time.Now().UTC()
	g.UpdatedBy = types.GetUserID(ctx)

	query := `
		UPDATE guests SET
			first_name = :first_name,
			last_name = :last_name,
			date_of_birth = :date_of_birth,
			role = :role,
			is_tax_exempt = :is_tax_exempt,
			tax_exempt_reason = :tax_exempt_reason,
			status = :status,
			updated_at = :updated_at,
			updated_by = :updated_by
		WHERE id = :id AND tenant_id = :tenant_id`

	result, err := r.db.NamedExecContext(ctx, query, g)
	if err != nil {
		return ierr.WithError(err).
			WithHint("Failed to update guest").
			Mark(ierr.ErrDatabase)
	}
	if rows, err := result.RowsAffected(); err == nil && rows == 0 {
		return ierr.NewError("guest not found").
			WithHintf("Guest with ID %s was not found", g.ID).
			Mark(ierr.ErrNotFound)
	}
	return nil
}

func (r *guestRepository) Delete(ctx context.Context, g *guest.Guest) error {
	g.Status = types.StatusDeleted
	g.UpdatedAt = time.Now().UTC()
	g.UpdatedBy = types.GetUserID(ctx)

	query := `
		UPDATE guests SET
			status = :status,
			updated_at = :updated_at,
			updated_by = :updated_by
		WHERE id = :id AND tenant_id = :tenant_id`

	result, err := r.db.NamedExecContext(ctx, query, g)
	if err != nil {
		return ierr.WithError(err).
			WithHint("Failed to delete guest").
			Mark(ierr.ErrDatabase)
	}
	if rows, err := result.RowsAffected(); err == nil && rows == 0 {
		return ierr.NewError("guest not found").
			WithHintf("Guest with ID %s was not found", g.ID).
			Mark(ierr.ErrNotFound)
	}
	return nil
}
