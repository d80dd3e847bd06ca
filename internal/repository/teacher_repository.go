package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/jmoiron/sqlx/types"

	"github.com/smartedudesk/timetable-api/internal/models"
)

// TeacherRepository reads the teaching roster. The roster is maintained by an
// external admin surface; the engine only consumes it.
type TeacherRepository struct {
	db *sqlx.DB
}

// NewTeacherRepository constructs a TeacherRepository.
func NewTeacherRepository(db *sqlx.DB) *TeacherRepository {
	return &TeacherRepository{db: db}
}

// teacherRow mirrors the teachers table. Subjects and assignments live in
// JSONB columns and are decoded into the domain model on read.
type teacherRow struct {
	ID              string         `db:"id"`
	FullName        string         `db:"full_name"`
	Designation     sql.NullString `db:"designation"`
	Subjects        types.JSONText `db:"subjects"`
	Assignments     types.JSONText `db:"assignments"`
	WeeklyLimit     int            `db:"weekly_limit"`
	ClassInChargeOf sql.NullString `db:"class_in_charge_of"`
	Active          bool           `db:"active"`
	CreatedAt       time.Time      `db:"created_at"`
	UpdatedAt       time.Time      `db:"updated_at"`
}

func (row teacherRow) toModel() (models.Teacher, error) {
	t := models.Teacher{
		ID:              row.ID,
		FullName:        row.FullName,
		Designation:     row.Designation.String,
		WeeklyLimit:     row.WeeklyLimit,
		ClassInChargeOf: row.ClassInChargeOf.String,
		Active:          row.Active,
		CreatedAt:       row.CreatedAt,
		UpdatedAt:       row.UpdatedAt,
	}
	if len(row.Subjects) > 0 {
		if err := json.Unmarshal(row.Subjects, &t.Subjects); err != nil {
			return t, fmt.Errorf("decode subjects for teacher %s: %w", row.ID, err)
		}
	}
	if len(row.Assignments) > 0 {
		if err := json.Unmarshal(row.Assignments, &t.Assignments); err != nil {
			return t, fmt.Errorf("decode assignments for teacher %s: %w", row.ID, err)
		}
	}
	return t, nil
}

const teacherColumns = "id, full_name, designation, subjects, assignments, weekly_limit, class_in_charge_of, active, created_at, updated_at"

// ListActive returns the active roster in stable creation order. The engine
// relies on this ordering for deterministic generation and tie-breaking.
func (r *TeacherRepository) ListActive(ctx context.Context) ([]models.Teacher, error) {
	query := fmt.Sprintf("SELECT %s FROM teachers WHERE active = TRUE ORDER BY created_at ASC, id ASC", teacherColumns)
	var rows []teacherRow
	if err := r.db.SelectContext(ctx, &rows, query); err != nil {
		return nil, fmt.Errorf("list teachers: %w", err)
	}

	teachers := make([]models.Teacher, 0, len(rows))
	for _, row := range rows {
		t, err := row.toModel()
		if err != nil {
			return nil, err
		}
		teachers = append(teachers, t)
	}
	return teachers, nil
}

// FindByID fetches a teacher by ID.
func (r *TeacherRepository) FindByID(ctx context.Context, id string) (*models.Teacher, error) {
	query := fmt.Sprintf("SELECT %s FROM teachers WHERE id = $1", teacherColumns)
	var row teacherRow
	if err := r.db.GetContext(ctx, &row, query, id); err != nil {
		return nil, err
	}
	t, err := row.toModel()
	if err != nil {
		return nil, err
	}
	return &t, nil
}
