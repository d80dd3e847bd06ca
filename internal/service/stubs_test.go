package service

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/smartedudesk/timetable-api/internal/models"
	"github.com/smartedudesk/timetable-api/internal/timetable"
)

type boardRepoStub struct {
	grids    map[string]timetable.Grid
	loads    int
	saveErr  error
	resetHit bool
}

func newBoardRepoStub() *boardRepoStub {
	return &boardRepoStub{grids: map[string]timetable.Grid{}}
}

func (s *boardRepoStub) Save(ctx context.Context, board string, grid timetable.Grid) error {
	if s.saveErr != nil {
		return s.saveErr
	}
	s.grids[board] = grid.Clone()
	return nil
}

func (s *boardRepoStub) Load(ctx context.Context, board string) (timetable.Grid, error) {
	s.loads++
	if grid, ok := s.grids[board]; ok {
		return grid.Clone(), nil
	}
	return timetable.NewGrid(), nil
}

func (s *boardRepoStub) Reset(ctx context.Context, board string) error {
	s.resetHit = true
	delete(s.grids, board)
	return nil
}

type rosterRepoStub struct {
	teachers []models.Teacher
	err      error
}

func (s *rosterRepoStub) ListActive(ctx context.Context) ([]models.Teacher, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.teachers, nil
}

func (s *rosterRepoStub) FindByID(ctx context.Context, id string) (*models.Teacher, error) {
	if s.err != nil {
		return nil, s.err
	}
	for i := range s.teachers {
		if s.teachers[i].ID == id {
			return &s.teachers[i], nil
		}
	}
	return nil, sql.ErrNoRows
}

type substitutionRepoStub struct {
	records []models.Substitution
	err     error
}

func (s *substitutionRepoStub) Create(ctx context.Context, sub *models.Substitution) error {
	if s.err != nil {
		return s.err
	}
	s.records = append(s.records, *sub)
	return nil
}

func (s *substitutionRepoStub) UpdateSubstitute(ctx context.Context, id string, substituteTeacherID *string, isOverride bool) error {
	if s.err != nil {
		return s.err
	}
	for i := range s.records {
		if s.records[i].ID == id {
			s.records[i].SubstituteTeacherID = substituteTeacherID
			s.records[i].IsOverride = isOverride
			return nil
		}
	}
	return fmt.Errorf("substitution %s not found", id)
}

func (s *substitutionRepoStub) FindByID(ctx context.Context, id string) (*models.Substitution, error) {
	if s.err != nil {
		return nil, s.err
	}
	for i := range s.records {
		if s.records[i].ID == id {
			sub := s.records[i]
			return &sub, nil
		}
	}
	return nil, sql.ErrNoRows
}

func (s *substitutionRepoStub) ListByDate(ctx context.Context, date string) ([]models.Substitution, error) {
	if s.err != nil {
		return nil, s.err
	}
	var out []models.Substitution
	for _, sub := range s.records {
		if sub.Date == date {
			out = append(out, sub)
		}
	}
	return out, nil
}

func (s *substitutionRepoStub) ExistsForSlot(ctx context.Context, date, day string, period int, absentTeacherID string) (bool, error) {
	if s.err != nil {
		return false, s.err
	}
	for _, sub := range s.records {
		if sub.Date == date && sub.Day == day && sub.Period == period && sub.AbsentTeacherID == absentTeacherID {
			return true, nil
		}
	}
	return false, nil
}

func (s *substitutionRepoStub) Delete(ctx context.Context, id string) error {
	if s.err != nil {
		return s.err
	}
	for i := range s.records {
		if s.records[i].ID == id {
			s.records = append(s.records[:i], s.records[i+1:]...)
			return nil
		}
	}
	return fmt.Errorf("substitution %s not found", id)
}

func (s *substitutionRepoStub) DeleteByDate(ctx context.Context, date string) error {
	var keep []models.Substitution
	for _, sub := range s.records {
		if sub.Date != date {
			keep = append(keep, sub)
		}
	}
	s.records = keep
	return nil
}

func (s *substitutionRepoStub) DeleteAll(ctx context.Context) error {
	s.records = nil
	return nil
}

type cacheStub struct {
	values  map[string][]byte
	sets    int
	deletes int
}

func newCacheStub() *cacheStub {
	return &cacheStub{values: map[string][]byte{}}
}

func (s *cacheStub) Get(ctx context.Context, key string, dest interface{}) error {
	raw, ok := s.values[key]
	if !ok {
		return fmt.Errorf("cache miss for %s", key)
	}
	return json.Unmarshal(raw, dest)
}

func (s *cacheStub) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	s.values[key] = raw
	s.sets++
	return nil
}

func (s *cacheStub) DeleteByPattern(ctx context.Context, pattern string) error {
	prefix := strings.TrimSuffix(pattern, "*")
	for key := range s.values {
		if strings.HasPrefix(key, prefix) {
			delete(s.values, key)
		}
	}
	s.deletes++
	return nil
}
