package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/jmoiron/sqlx/types"

	"github.com/smartedudesk/timetable-api/internal/timetable"
)

// MasterBoard is the name of the live weekly grid.
const MasterBoard = "master"

// TimetableRepository stores each named board as one JSONB grid document.
type TimetableRepository struct {
	db *sqlx.DB
}

// NewTimetableRepository constructs a TimetableRepository.
func NewTimetableRepository(db *sqlx.DB) *TimetableRepository {
	return &TimetableRepository{db: db}
}

// Save upserts the grid document for the named board.
func (r *TimetableRepository) Save(ctx context.Context, board string, grid timetable.Grid) error {
	payload, err := json.Marshal(grid)
	if err != nil {
		return fmt.Errorf("marshal grid for board %s: %w", board, err)
	}

	const query = `INSERT INTO timetables (board, grid, updated_at)
		VALUES ($1, $2, NOW())
		ON CONFLICT (board) DO UPDATE SET grid = EXCLUDED.grid, updated_at = NOW()`
	if _, err := r.db.ExecContext(ctx, query, board, types.JSONText(payload)); err != nil {
		return fmt.Errorf("save board %s: %w", board, err)
	}
	return nil
}

// Load returns the grid for the named board. A board with no saved document
// is a fully empty grid, not an error.
func (r *TimetableRepository) Load(ctx context.Context, board string) (timetable.Grid, error) {
	const query = `SELECT grid FROM timetables WHERE board = $1`
	var raw types.JSONText
	if err := r.db.GetContext(ctx, &raw, query, board); err != nil {
		if err == sql.ErrNoRows {
			return timetable.NewGrid(), nil
		}
		return nil, fmt.Errorf("load board %s: %w", board, err)
	}

	var grid timetable.Grid
	if err := json.Unmarshal(raw, &grid); err != nil {
		return nil, fmt.Errorf("decode board %s: %w", board, err)
	}
	return grid, nil
}

// Reset deletes the board document.
func (r *TimetableRepository) Reset(ctx context.Context, board string) error {
	const query = `DELETE FROM timetables WHERE board = $1`
	if _, err := r.db.ExecContext(ctx, query, board); err != nil {
		return fmt.Errorf("reset board %s: %w", board, err)
	}
	return nil
}
