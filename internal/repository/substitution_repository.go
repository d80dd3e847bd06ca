package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/smartedudesk/timetable-api/internal/models"
)

// SubstitutionRepository persists the substitution overlay. Records are never
// merged into the grid; the availability checker consults them alongside it.
type SubstitutionRepository struct {
	db *sqlx.DB
}

// NewSubstitutionRepository constructs a SubstitutionRepository.
func NewSubstitutionRepository(db *sqlx.DB) *SubstitutionRepository {
	return &SubstitutionRepository{db: db}
}

const substitutionColumns = "id, date, day, period, class_id, original_subject, absent_teacher_id, substitute_teacher_id, reason, is_override, created_at, updated_at"

// Create inserts a substitution record.
func (r *SubstitutionRepository) Create(ctx context.Context, sub *models.Substitution) error {
	const query = `INSERT INTO substitutions (id, date, day, period, class_id, original_subject, absent_teacher_id, substitute_teacher_id, reason, is_override, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`
	_, err := r.db.ExecContext(ctx, query,
		sub.ID, sub.Date, sub.Day, sub.Period, sub.ClassID, sub.OriginalSubject,
		sub.AbsentTeacherID, sub.SubstituteTeacherID, sub.Reason, sub.IsOverride,
		sub.CreatedAt, sub.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("create substitution: %w", err)
	}
	return nil
}

// UpdateSubstitute reassigns the covering teacher on an existing slip.
func (r *SubstitutionRepository) UpdateSubstitute(ctx context.Context, id string, substituteTeacherID *string, isOverride bool) error {
	const query = `UPDATE substitutions SET substitute_teacher_id = $2, is_override = $3, updated_at = NOW() WHERE id = $1`
	res, err := r.db.ExecContext(ctx, query, id, substituteTeacherID, isOverride)
	if err != nil {
		return fmt.Errorf("update substitution %s: %w", id, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update substitution %s: %w", id, err)
	}
	if affected == 0 {
		return fmt.Errorf("substitution %s not found", id)
	}
	return nil
}

// FindByID fetches one substitution record.
func (r *SubstitutionRepository) FindByID(ctx context.Context, id string) (*models.Substitution, error) {
	query := fmt.Sprintf("SELECT %s FROM substitutions WHERE id = $1", substitutionColumns)
	var sub models.Substitution
	if err := r.db.GetContext(ctx, &sub, query, id); err != nil {
		return nil, err
	}
	return &sub, nil
}

// ListByDate returns the overlay active on a calendar date, in creation order
// so batch scoring sees earlier picks first.
func (r *SubstitutionRepository) ListByDate(ctx context.Context, date string) ([]models.Substitution, error) {
	query := fmt.Sprintf("SELECT %s FROM substitutions WHERE date = $1 ORDER BY created_at ASC, id ASC", substitutionColumns)
	var subs []models.Substitution
	if err := r.db.SelectContext(ctx, &subs, query, date); err != nil {
		return nil, fmt.Errorf("list substitutions for %s: %w", date, err)
	}
	return subs, nil
}

// ExistsForSlot reports whether the slot already has an active substitution
// for the absent teacher. At most one may exist; the storage key does not
// enforce it, so services check before insert.
func (r *SubstitutionRepository) ExistsForSlot(ctx context.Context, date, day string, period int, absentTeacherID string) (bool, error) {
	const query = `SELECT COUNT(*) FROM substitutions WHERE date = $1 AND day = $2 AND period = $3 AND absent_teacher_id = $4`
	var count int
	if err := r.db.GetContext(ctx, &count, query, date, day, period, absentTeacherID); err != nil {
		return false, fmt.Errorf("check substitution slot: %w", err)
	}
	return count > 0, nil
}

// Delete removes one record.
func (r *SubstitutionRepository) Delete(ctx context.Context, id string) error {
	const query = `DELETE FROM substitutions WHERE id = $1`
	res, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("delete substitution %s: %w", id, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete substitution %s: %w", id, err)
	}
	if affected == 0 {
		return fmt.Errorf("substitution %s not found", id)
	}
	return nil
}

// DeleteByDate removes every record for a calendar date.
func (r *SubstitutionRepository) DeleteByDate(ctx context.Context, date string) error {
	const query = `DELETE FROM substitutions WHERE date = $1`
	if _, err := r.db.ExecContext(ctx, query, date); err != nil {
		return fmt.Errorf("delete substitutions for %s: %w", date, err)
	}
	return nil
}

// DeleteAll clears the overlay. Used by the grid reset flow.
func (r *SubstitutionRepository) DeleteAll(ctx context.Context) error {
	const query = `DELETE FROM substitutions`
	if _, err := r.db.ExecContext(ctx, query); err != nil {
		return fmt.Errorf("delete substitutions: %w", err)
	}
	return nil
}
