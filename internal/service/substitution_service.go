package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/smartedudesk/timetable-api/internal/dto"
	"github.com/smartedudesk/timetable-api/internal/models"
	"github.com/smartedudesk/timetable-api/internal/repository"
	"github.com/smartedudesk/timetable-api/internal/timetable"
	appErrors "github.com/smartedudesk/timetable-api/pkg/errors"
	"github.com/smartedudesk/timetable-api/pkg/export"
)

type substitutionRepository interface {
	Create(ctx context.Context, sub *models.Substitution) error
	UpdateSubstitute(ctx context.Context, id string, substituteTeacherID *string, isOverride bool) error
	FindByID(ctx context.Context, id string) (*models.Substitution, error)
	ListByDate(ctx context.Context, date string) ([]models.Substitution, error)
	ExistsForSlot(ctx context.Context, date, day string, period int, absentTeacherID string) (bool, error)
	Delete(ctx context.Context, id string) error
	DeleteByDate(ctx context.Context, date string) error
}

type boardReader interface {
	Load(ctx context.Context, board string) (timetable.Grid, error)
}

// SubstitutionService resolves absences against the master grid. Every slot is
// handled as an independent operation that re-reads the overlay committed so
// far, so a day-absence batch never double-books one substitute.
type SubstitutionService struct {
	subs      substitutionRepository
	boards    boardReader
	roster    rosterRepository
	finder    *timetable.SubstituteFinder
	metrics   *MetricsService
	validator *validator.Validate
	logger    *zap.Logger
	csv       *export.CSVExporter
	pdf       *export.PDFExporter
}

// NewSubstitutionService constructs a SubstitutionService.
func NewSubstitutionService(
	subs substitutionRepository,
	boards boardReader,
	roster rosterRepository,
	finder *timetable.SubstituteFinder,
	metrics *MetricsService,
	validate *validator.Validate,
	logger *zap.Logger,
) *SubstitutionService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validator.New()
	}
	if finder == nil {
		finder = timetable.NewSubstituteFinder(timetable.DefaultScoreWeights())
	}
	return &SubstitutionService{
		subs:      subs,
		boards:    boards,
		roster:    roster,
		finder:    finder,
		metrics:   metrics,
		validator: validate,
		logger:    logger,
		csv:       export.NewCSVExporter(),
		pdf:       export.NewPDFExporter(),
	}
}

// ProcessAbsence resolves one vacated slot: it scores every free teacher,
// records the slip, and reports whether the pick itself breaks the streak
// policy. A slip is recorded even when nobody is free, so the vacancy stays
// visible.
func (s *SubstitutionService) ProcessAbsence(ctx context.Context, req dto.ProcessAbsenceRequest) (*dto.SubstitutionResponse, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid absence payload")
	}
	day := timetable.Day(req.Day)
	if !timetable.ValidDay(day) {
		return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("unknown day %q", req.Day))
	}

	exists, err := s.subs.ExistsForSlot(ctx, req.Date, req.Day, req.Period, req.AbsentTeacherID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check slot")
	}
	if exists {
		return nil, appErrors.Clone(appErrors.ErrConflict, "slot already has an active substitution")
	}

	return s.resolveSlot(ctx, req, false)
}

// resolveSlot runs the selector against the latest grid and overlay state and
// persists the outcome.
func (s *SubstitutionService) resolveSlot(ctx context.Context, req dto.ProcessAbsenceRequest, override bool) (*dto.SubstitutionResponse, error) {
	grid, err := s.boards.Load(ctx, repository.MasterBoard)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load grid")
	}
	teachers, err := s.roster.ListActive(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load roster")
	}
	queryStart := time.Now()
	overlay, err := s.subs.ListByDate(ctx, req.Date)
	s.metrics.ObserveDBQuery("substitutions_by_date", time.Since(queryStart))
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load substitutions")
	}

	day := timetable.Day(req.Day)
	result := s.finder.Find(req.AbsentTeacherID, day, req.Period, req.ClassID, req.Subject, grid, teachers, overlay)

	now := time.Now().UTC()
	sub := models.Substitution{
		ID:              uuid.NewString(),
		Date:            req.Date,
		Day:             req.Day,
		Period:          req.Period,
		ClassID:         req.ClassID,
		OriginalSubject: req.Subject,
		AbsentTeacherID: req.AbsentTeacherID,
		Reason:          req.Reason,
		IsOverride:      override,
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	resp := &dto.SubstitutionResponse{
		WouldViolate: result.WouldViolate,
		Streak:       result.Streak,
	}
	if result.Teacher != nil {
		id := result.Teacher.ID
		sub.SubstituteTeacherID = &id
		resp.SubstituteName = result.Teacher.FullName
	}

	if err := s.subs.Create(ctx, &sub); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to record substitution")
	}
	s.metrics.CountSubstitution()

	if result.Teacher == nil {
		s.logger.Warn("no substitute available",
			zap.String("date", req.Date),
			zap.String("day", req.Day),
			zap.Int("period", req.Period),
			zap.String("classId", req.ClassID),
		)
	} else if result.WouldViolate {
		s.logger.Warn("substitute exceeds streak policy",
			zap.String("substituteId", result.Teacher.ID),
			zap.Int("streak", result.Streak),
		)
	}

	resp.Substitution = sub
	return resp, nil
}

// MarkDayAbsent resolves every slot the teacher holds on the given day. Slots
// are processed in period order as independent operations; each pick is
// committed before the next slot is scored, so it counts as busy for the rest
// of the batch.
func (s *SubstitutionService) MarkDayAbsent(ctx context.Context, req dto.DayAbsenceRequest) ([]dto.SubstitutionResponse, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid day-absence payload")
	}
	day := timetable.Day(req.Day)
	if !timetable.ValidDay(day) {
		return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("unknown day %q", req.Day))
	}

	grid, err := s.boards.Load(ctx, repository.MasterBoard)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load grid")
	}

	responses := []dto.SubstitutionResponse{}
	for period := 1; period <= timetable.PeriodsPerDay; period++ {
		entry, ok := grid.EntryFor(req.AbsentTeacherID, day, period)
		if !ok {
			continue
		}

		exists, err := s.subs.ExistsForSlot(ctx, req.Date, req.Day, period, req.AbsentTeacherID)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check slot")
		}
		if exists {
			continue
		}

		resp, err := s.resolveSlot(ctx, dto.ProcessAbsenceRequest{
			Date:            req.Date,
			Day:             req.Day,
			Period:          period,
			ClassID:         entry.ClassID,
			Subject:         entry.Subject,
			AbsentTeacherID: req.AbsentTeacherID,
			Reason:          req.Reason,
		}, false)
		if err != nil {
			return nil, err
		}
		responses = append(responses, *resp)
	}

	return responses, nil
}

// Reassign overrides the covering teacher on an existing slip. The engine's
// streak verdict for the new teacher is reported, never enforced.
func (s *SubstitutionService) Reassign(ctx context.Context, id string, req dto.ReassignRequest) (*dto.SubstitutionResponse, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid reassign payload")
	}

	sub, err := s.subs.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "substitution not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to fetch substitution")
	}

	teacher, err := s.roster.FindByID(ctx, req.SubstituteTeacherID)
	if err != nil {
		return nil, appErrors.Clone(appErrors.ErrNotFound, fmt.Sprintf("teacher %s not found", req.SubstituteTeacherID))
	}

	grid, err := s.boards.Load(ctx, repository.MasterBoard)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load grid")
	}
	overlay, err := s.subs.ListByDate(ctx, sub.Date)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load substitutions")
	}

	// The slip being edited must not count against its own candidate.
	remaining := overlay[:0:0]
	for _, o := range overlay {
		if o.ID != sub.ID {
			remaining = append(remaining, o)
		}
	}

	streak := timetable.Streak(teacher.ID, timetable.Day(sub.Day), sub.Period, grid, remaining)

	if err := s.subs.UpdateSubstitute(ctx, id, &teacher.ID, true); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update substitution")
	}

	sub.SubstituteTeacherID = &teacher.ID
	sub.IsOverride = true
	sub.UpdatedAt = time.Now().UTC()

	return &dto.SubstitutionResponse{
		Substitution:   *sub,
		SubstituteName: teacher.FullName,
		WouldViolate:   streak > 3,
		Streak:         streak,
	}, nil
}

// List returns the slips active on a calendar date.
func (s *SubstitutionService) List(ctx context.Context, date string) ([]models.Substitution, error) {
	if date == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "date is required")
	}
	subs, err := s.subs.ListByDate(ctx, date)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list substitutions")
	}
	return subs, nil
}

// ClearDate removes every slip for a calendar date.
func (s *SubstitutionService) ClearDate(ctx context.Context, date string) error {
	if date == "" {
		return appErrors.Clone(appErrors.ErrValidation, "date is required")
	}
	if err := s.subs.DeleteByDate(ctx, date); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to clear substitutions")
	}
	return nil
}

// Delete removes one slip.
func (s *SubstitutionService) Delete(ctx context.Context, id string) error {
	if err := s.subs.Delete(ctx, id); err != nil {
		return appErrors.Wrap(err, appErrors.ErrNotFound.Code, appErrors.ErrNotFound.Status, "substitution not found")
	}
	return nil
}

// ExportSlips renders the slips of one date as CSV or PDF.
func (s *SubstitutionService) ExportSlips(ctx context.Context, date, format string) ([]byte, string, error) {
	subs, err := s.List(ctx, date)
	if err != nil {
		return nil, "", err
	}

	teachers, err := s.roster.ListActive(ctx)
	if err != nil {
		return nil, "", appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load roster")
	}
	names := make(map[string]string, len(teachers))
	for _, t := range teachers {
		names[t.ID] = t.FullName
	}
	nameFor := func(id string) string {
		if name, ok := names[id]; ok {
			return name
		}
		return id
	}

	sort.SliceStable(subs, func(i, j int) bool {
		if subs[i].Day != subs[j].Day {
			return subs[i].Day < subs[j].Day
		}
		return subs[i].Period < subs[j].Period
	})

	dataset := export.Dataset{
		Headers: []string{"Day", "Period", "Class", "Subject", "Absent Teacher", "Substitute", "Override"},
	}
	for _, sub := range subs {
		substitute := "UNCOVERED"
		if sub.SubstituteTeacherID != nil {
			substitute = nameFor(*sub.SubstituteTeacherID)
		}
		override := ""
		if sub.IsOverride {
			override = "yes"
		}
		dataset.Rows = append(dataset.Rows, map[string]string{
			"Day":            sub.Day,
			"Period":         fmt.Sprintf("%d", sub.Period),
			"Class":          sub.ClassID,
			"Subject":        sub.OriginalSubject,
			"Absent Teacher": nameFor(sub.AbsentTeacherID),
			"Substitute":     substitute,
			"Override":       override,
		})
	}

	switch format {
	case "csv", "":
		payload, err := s.csv.Render(dataset)
		if err != nil {
			return nil, "", appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render csv")
		}
		return payload, "text/csv", nil
	case "pdf":
		payload, err := s.pdf.Render(dataset, fmt.Sprintf("Substitution slips %s", date))
		if err != nil {
			return nil, "", appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render pdf")
		}
		return payload, "application/pdf", nil
	default:
		return nil, "", appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("unsupported export format %q", format))
	}
}
