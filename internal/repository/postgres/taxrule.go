package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/Bedotech/smartbook/internal/domain/taxrule"
	ierr "github.com/Bedotech/smartbook/internal/errors"
	"github.com/Bedotech/smartbook/internal/logger"
	"github.com/Bedotech/smartbook/internal/postgres"
	"github.com/Bedotech/smartbook/internal/types"
	"github.com/cockroachdb/errors"
	"github.com/lib/pq"
)

type taxRuleRepository struct {
	db     *postgres.DB
	logger *logger.Logger
}

// NewTaxRuleRepository creates a postgres-backed taxrule.Repository
func NewTaxRuleRepository(db *postgres.DB, logger *logger.Logger) taxrule.Repository {
	return &taxRuleRepository{db: db, logger: logger}
}

const taxRuleColumns = `
	id, tenant_id, property_id, valid_from, valid_until,
	base_rate_per_night, max_taxable_nights, age_exemption_threshold,
	exemption_config, structure_classification,
	status, created_at, updated_at, created_by, updated_by`

func (r *taxRuleRepository) Create(ctx context.Context, rule *taxrule.TaxRule) error {
	r.logger.Debugw("creating tax rule",
		"tax_rule_id", rule.ID,
		"property_id", rule.PropertyID,
		"valid_from", rule.ValidFrom,
	)

	query := `
		INSERT INTO tax_rules (` + taxRuleColumns + `)
		VALUES (
			:id, :tenant_id, :property_id, :valid_from, :valid_until,
			:base_rate_per_night, :max_taxable_nights, :age_exemption_threshold,
			:exemption_config, :structure_classification,
			:status, :created_at, :updated_at, :created_by, :updated_by
		)`

	if _, err := r.db.NamedExecContext(ctx, query, rule); err != nil {
		return ierr.WithError(err).
			WithHint("Failed to create tax rule").
			WithReportableDetails(map[string]any{
				"tax_rule_id": rule.ID,
			}).
			Mark(ierr.ErrDatabase)
	}
	return nil
}

func (r *taxRuleRepository) Get(ctx context.Context, id string) (*taxrule.TaxRule, error) {
	query := `
		SELECT ` + taxRuleColumns + `
		FROM tax_rules
		WHERE id = $1 AND tenant_id = $2 AND status = $3`

	var rule taxrule.TaxRule
	err := r.db.GetQuerier(ctx).GetContext(ctx, &rule, query,
		id, types.GetTenantID(ctx), types.StatusPublished)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ierr.WithError(err).
				WithHintf("Tax rule with ID %s was not found", id).
				WithReportableDetails(map[string]any{
					"tax_rule_id": id,
				}).
				Mark(ierr.ErrNotFound)
		}
		return nil, ierr.WithError(err).
			WithHint("Failed to get tax rule").
			Mark(ierr.ErrDatabase)
	}
	return &rule, nil
}

// GetActiveRule resolves the rule effective on referenceDate. Overlapping
// windows are tolerated during administrative transitions: the latest
// valid_from wins. No match is (nil, nil), not an error.
func (r *taxRuleRepository) GetActiveRule(ctx context.Context, propertyID string, referenceDate time.Time) (*taxrule.TaxRule, error) {
	query := `
		SELECT ` + taxRuleColumns + `
		FROM tax_rules
		WHERE tenant_id = $1 AND property_id = $2 AND status = $3
		  AND valid_from <= $4
		  AND (valid_until IS NULL OR valid_until >= $4)
		ORDER BY valid_from DESC, created_at DESC, id DESC
		LIMIT 1`

	var rule taxrule.TaxRule
	err := r.db.GetQuerier(ctx).GetContext(ctx, &rule, query,
		types.GetTenantID(ctx), propertyID, types.StatusPublished,
		types.DateOnly(referenceDate))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, ierr.WithError(err).
			WithHint("Failed to resolve active tax rule").
			Mark(ierr.ErrDatabase)
	}
	return &rule, nil
}

func (r *taxRuleRepository) GetHistoricalRules(ctx context.Context, propertyID string, startDate, endDate time.Time) ([]*taxrule.TaxRule, error) {
	query := `
		SELECT ` + taxRuleColumns + `
		FROM tax_rules
		WHERE tenant_id = $1 AND property_id = $2 AND status = $3
		  AND valid_from <= $4
		  AND (valid_until IS NULL OR valid_until >= $5)
		ORDER BY valid_from ASC`

	var rules []*taxrule.TaxRule
	err := r.db.GetQuerier(ctx).SelectContext(ctx, &rules, query,
		types.GetTenantID(ctx), propertyID, types.StatusPublished,
		types.DateOnly(endDate), types.DateOnly(startDate))
	if err != nil {
		return nil, ierr.WithError(err).
			WithHint("Failed to get historical tax rules").
			Mark(ierr.ErrDatabase)
	}
	return rules, nil
}

func (r *taxRuleRepository) List(ctx context.Context, filter *types.TaxRuleFilter) ([]*taxrule.TaxRule, error) {
	if filter == nil {
		filter = types.NewTaxRuleFilter()
	}

	where, args := r.buildConditions(ctx, filter)

	query := `
		SELECT ` + taxRuleColumns + `
		FROM tax_rules
		WHERE ` + where + `
		ORDER BY valid_from DESC, created_at DESC, id DESC`

	if !filter.IsUnlimited() {
		query += fmt.Sprintf(" LIMIT %d OFFSET %d", filter.GetLimit(), filter.GetOffset())
	}

	var rules []*taxrule.TaxRule
	if err := r.db.GetQuerier(ctx).SelectContext(ctx, &rules, query, args...); err != nil {
		return nil, ierr.WithError(err).
			WithHint("Failed to list tax rules").
			Mark(ierr.ErrDatabase)
	}
	return rules, nil
}

func (r *taxRuleRepository) ListAll(ctx context.Context, filter *types.TaxRuleFilter) ([]*taxrule.TaxRule, error) {
	if filter == nil {
		filter = types.NewNoLimitTaxRuleFilter()
	}
	unlimited := &types.TaxRuleFilter{
		QueryFilter:     types.NewNoLimitQueryFilter(),
		TimeRangeFilter: filter.TimeRangeFilter,
		TaxRuleIDs:      filter.TaxRuleIDs,
		PropertyIDs:     filter.PropertyIDs,
	}
	return r.List(ctx, unlimited)
}

func (r *taxRuleRepository) Count(ctx context.Context, filter *types.TaxRuleFilter) (int, error) {
	if filter == nil {
		filter = types.NewTaxRuleFilter()
	}

	where, args := r.buildConditions(ctx, filter)

	var count int
	query := `SELECT COUNT(*) FROM tax_rules WHERE ` + where
	if err := r.db.GetQuerier(ctx).GetContext(ctx, &count, query, args...); err != nil {
		return 0, ierr.WithError(err).
			WithHint("Failed to count tax rules").
			Mark(ierr.ErrDatabase)
	}
	return count, nil
}

func (r *taxRuleRepository) Update(ctx context.Context, rule *taxrule.TaxRule) error {
	rule.UpdatedAt = time.Now().UTC()
	rule.UpdatedBy = types.GetUserID(ctx)

	query := `
		UPDATE tax_rules SET
			valid_from = :valid_from,
			valid_until = :valid_until,
			base_rate_per_night = :base_rate_per_night,
			max_taxable_nights = :max_taxable_nights,
			age_exemption_threshold = :age_exemption_threshold,
			exemption_config = :exemption_config,
			structure_classification = :structure_classification,
			status = :status,
			updated_at = :updated_at,
			updated_by = :updated_by
		WHERE id = :id AND tenant_id = :tenant_id`

	result, err := r.db.NamedExecContext(ctx, query, rule)
	if err != nil {
		return ierr.WithError(err).
			WithHint("Failed to update tax rule").
			Mark(ierr.ErrDatabase)
	}
	if rows, err := result.RowsAffected(); err == nil && rows == 0 {
		return ierr.NewError("tax rule not found").
			WithHintf("Tax rule with ID %s was not found", rule.ID).
			Mark(ierr.ErrNotFound)
	}
	return nil
}

func (r *taxRuleRepository) Delete(ctx context.Context, rule *taxrule.TaxRule) error {
	rule.Status = types.StatusDeleted
	rule.UpdatedAt = time.Now().UTC()
	rule.UpdatedBy = types.GetUserID(ctx)

	query := `
		UPDATE tax_rules SET
			status = :status,
			updated_at = :updated_at,
			updated_by = :updated_by
		WHERE id = :id AND tenant_id = :tenant_id`

	result, err := r.db.NamedExecContext(ctx, query, rule)
	if err != nil {
		return ierr.WithError(err).
			WithHint("Failed to delete tax rule").
			Mark(ierr.ErrDatabase)
	}
	if rows, err := result.RowsAffected(); err == nil && rows == 0 {
		return ierr.NewError("tax rule not found").
			WithHintf("Tax rule with ID %s was not found", rule.ID).
			Mark(ierr.ErrNotFound)
	}
	return nil
}

func (r *taxRuleRepository) buildConditions(ctx context.Context, filter *types.TaxRuleFilter) (string, []any) {
	conditions := []string{"tenant_id = $1", "status = $2"}
	args := []any{types.GetTenantID(ctx), filter.GetStatus()}

	if len(filter.TaxRuleIDs) > 0 {
		args = append(args, pq.Array(filter.TaxRuleIDs))
		conditions = append(conditions, fmt.Sprintf("id = ANY($%d)", len(args)))
	}
	if len(filter.PropertyIDs) > 0 {
		args = append(args, pq.Array(filter.PropertyIDs))
		conditions = append(conditions, fmt.Sprintf("property_id = ANY($%d)", len(args)))
	}
	if filter.TimeRangeFilter != nil {
		if filter.StartTime != nil {
			args = append(args, *filter.StartTime)
			conditions = append(conditions, fmt.Sprintf("created_at >= $%d", len(args)))
		}
		if filter.EndTime != nil {
			args = append(args, *filter.EndTime)
			conditions = append(conditions, fmt.Sprintf("created_at <= $%d", len(args)))
		}
	}

	return strings.Join(conditions, " AND "), args
}
