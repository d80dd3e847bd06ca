package service

import (
	"context"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/smartedudesk/timetable-api/internal/dto"
	"github.com/smartedudesk/timetable-api/internal/models"
	"github.com/smartedudesk/timetable-api/internal/repository"
	"github.com/smartedudesk/timetable-api/internal/timetable"
	appErrors "github.com/smartedudesk/timetable-api/pkg/errors"
)

type boardRepository interface {
	Save(ctx context.Context, board string, grid timetable.Grid) error
	Load(ctx context.Context, board string) (timetable.Grid, error)
	Reset(ctx context.Context, board string) error
}

type rosterRepository interface {
	ListActive(ctx context.Context) ([]models.Teacher, error)
	FindByID(ctx context.Context, id string) (*models.Teacher, error)
}

type overlayCleaner interface {
	DeleteAll(ctx context.Context) error
}

type reportCache interface {
	Get(ctx context.Context, key string, dest interface{}) error
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	DeleteByPattern(ctx context.Context, pattern string) error
}

// EngineOptions tunes the validator composition and report caching.
type EngineOptions struct {
	RuleSet             string
	TeachStreakSeverity timetable.Severity
	ValidationCacheTTL  time.Duration
}

// TimetableService owns the master grid lifecycle: generation, import, manual
// edits, reset, and validation reporting. Edits are applied one at a time; the
// engine underneath stays pure.
type TimetableService struct {
	boards    boardRepository
	roster    rosterRepository
	overlay   overlayCleaner
	cache     reportCache
	metrics   *MetricsService
	validator *validator.Validate
	logger    *zap.Logger
	opts      EngineOptions
	generator *timetable.Generator
}

// NewTimetableService constructs a TimetableService.
func NewTimetableService(
	boards boardRepository,
	roster rosterRepository,
	overlay overlayCleaner,
	cache reportCache,
	metrics *MetricsService,
	validate *validator.Validate,
	logger *zap.Logger,
	opts EngineOptions,
) *TimetableService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validator.New()
	}
	if opts.RuleSet == "" {
		opts.RuleSet = timetable.RuleSetStandard
	}
	if opts.TeachStreakSeverity == "" {
		opts.TeachStreakSeverity = timetable.SeverityWarning
	}
	if opts.ValidationCacheTTL <= 0 {
		opts.ValidationCacheTTL = 5 * time.Minute
	}
	return &TimetableService{
		boards:    boards,
		roster:    roster,
		overlay:   overlay,
		cache:     cache,
		metrics:   metrics,
		validator: validate,
		logger:    logger,
		opts:      opts,
		generator: timetable.NewGenerator(),
	}
}

// ruleSetFor resolves a rule-set name, falling back to the configured default.
func (s *TimetableService) ruleSetFor(name string) (timetable.RuleSet, error) {
	if name == "" {
		name = s.opts.RuleSet
	}
	switch name {
	case timetable.RuleSetStandard:
		return timetable.StandardRuleSet(s.opts.TeachStreakSeverity), nil
	case timetable.RuleSetLegacy:
		return timetable.LegacyRuleSet(), nil
	default:
		return timetable.RuleSet{}, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("unknown rule set %q", name))
	}
}

// Generate builds a fresh baseline grid from the active roster, persists it as
// the master board, and returns it with a validation report.
func (s *TimetableService) Generate(ctx context.Context) (*dto.TimetableResponse, error) {
	queryStart := time.Now()
	teachers, err := s.roster.ListActive(ctx)
	s.metrics.ObserveDBQuery("roster_list_active", time.Since(queryStart))
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load roster")
	}

	started := time.Now()
	grid := s.generator.Generate(teachers)
	s.metrics.ObserveGeneration(time.Since(started))

	if err := s.boards.Save(ctx, repository.MasterBoard, grid); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to persist generated grid")
	}
	s.invalidateReports(ctx)

	demand := 0
	for i := range teachers {
		demand += teachers[i].RequiredPeriods()
	}

	report := s.buildReport(grid, teachers, s.opts.RuleSet)
	s.logger.Info("baseline timetable generated",
		zap.Int("teachers", len(teachers)),
		zap.Int("requiredPeriods", demand),
		zap.Int("errors", report.ErrorCount),
		zap.Int("warnings", report.WarnCount),
	)

	return &dto.TimetableResponse{Board: repository.MasterBoard, Grid: grid, Report: report}, nil
}

// Import accepts an externally generated grid of the standard shape. It is
// persisted and validated exactly like a locally generated one.
func (s *TimetableService) Import(ctx context.Context, req dto.ImportTimetableRequest) (*dto.TimetableResponse, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid import payload")
	}
	for day, periods := range req.Grid {
		if !timetable.ValidDay(day) {
			return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("unknown day %q in grid", day))
		}
		for period := range periods {
			if !timetable.ValidPeriod(period) {
				return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("period %d out of range on %s", period, day))
			}
		}
	}

	if err := s.boards.Save(ctx, repository.MasterBoard, req.Grid); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to persist imported grid")
	}
	s.invalidateReports(ctx)

	teachers, err := s.roster.ListActive(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load roster")
	}

	report := s.buildReport(req.Grid, teachers, s.opts.RuleSet)
	return &dto.TimetableResponse{Board: repository.MasterBoard, Grid: req.Grid, Report: report}, nil
}

// Get returns the current master grid.
func (s *TimetableService) Get(ctx context.Context) (*dto.TimetableResponse, error) {
	grid, err := s.boards.Load(ctx, repository.MasterBoard)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load grid")
	}
	return &dto.TimetableResponse{Board: repository.MasterBoard, Grid: grid}, nil
}

// UpdateSlot applies one manual edit to the master grid.
func (s *TimetableService) UpdateSlot(ctx context.Context, req dto.UpdateSlotRequest) (*dto.TimetableResponse, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid slot payload")
	}
	day := timetable.Day(req.Day)
	if !timetable.ValidDay(day) {
		return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("unknown day %q", req.Day))
	}

	if _, err := s.roster.FindByID(ctx, req.TeacherID); err != nil {
		return nil, appErrors.Clone(appErrors.ErrNotFound, fmt.Sprintf("teacher %s not found", req.TeacherID))
	}

	grid, err := s.boards.Load(ctx, repository.MasterBoard)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load grid")
	}

	if req.Remove {
		grid.Remove(req.TeacherID, day, req.Period)
	} else {
		grid.Set(day, req.Period, timetable.Entry{
			ClassID:   req.ClassID,
			Subject:   req.Subject,
			TeacherID: req.TeacherID,
		})
	}

	if err := s.boards.Save(ctx, repository.MasterBoard, grid); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to persist grid")
	}
	s.invalidateReports(ctx)

	return &dto.TimetableResponse{Board: repository.MasterBoard, Grid: grid}, nil
}

// Reset clears the master grid and the whole substitution overlay.
func (s *TimetableService) Reset(ctx context.Context) error {
	if err := s.boards.Reset(ctx, repository.MasterBoard); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to reset grid")
	}
	if err := s.overlay.DeleteAll(ctx); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to clear substitutions")
	}
	s.invalidateReports(ctx)
	s.logger.Info("timetable reset", zap.String("board", repository.MasterBoard))
	return nil
}

// Validate runs the configured rule set over the master grid. Reports are
// cached until the next mutation or TTL expiry.
func (s *TimetableService) Validate(ctx context.Context, ruleSetName string) (*dto.ValidationReport, error) {
	set, err := s.ruleSetFor(ruleSetName)
	if err != nil {
		return nil, err
	}

	cacheKey := fmt.Sprintf("validation:%s:%s", repository.MasterBoard, set.Name)
	if s.cache != nil {
		var cached dto.ValidationReport
		started := time.Now()
		if err := s.cache.Get(ctx, cacheKey, &cached); err == nil {
			s.metrics.RecordCacheOperation(true, time.Since(started))
			return &cached, nil
		}
		s.metrics.RecordCacheOperation(false, time.Since(started))
	}

	grid, err := s.boards.Load(ctx, repository.MasterBoard)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load grid")
	}
	teachers, err := s.roster.ListActive(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load roster")
	}

	report := s.reportFor(set, grid, teachers)

	if s.cache != nil {
		started := time.Now()
		if err := s.cache.Set(ctx, cacheKey, report, s.opts.ValidationCacheTTL); err != nil {
			s.logger.Warn("failed to cache validation report", zap.Error(err))
		}
		s.metrics.ObserveCacheWrite(time.Since(started))
	}

	return report, nil
}

func (s *TimetableService) buildReport(grid timetable.Grid, teachers []models.Teacher, ruleSetName string) *dto.ValidationReport {
	set, err := s.ruleSetFor(ruleSetName)
	if err != nil {
		set = timetable.StandardRuleSet(s.opts.TeachStreakSeverity)
	}
	return s.reportFor(set, grid, teachers)
}

func (s *TimetableService) reportFor(set timetable.RuleSet, grid timetable.Grid, teachers []models.Teacher) *dto.ValidationReport {
	issues := timetable.NewValidator(set).Validate(grid, teachers)

	report := &dto.ValidationReport{
		RuleSet:     set.Name,
		Issues:      issues,
		GeneratedAt: time.Now().UTC(),
	}
	for _, issue := range issues {
		switch issue.Type {
		case timetable.SeverityError:
			report.ErrorCount++
		case timetable.SeverityWarning:
			report.WarnCount++
		}
	}
	s.metrics.ObserveValidation(set.Name, report.ErrorCount, report.WarnCount)
	return report
}

func (s *TimetableService) invalidateReports(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.DeleteByPattern(ctx, "validation:*"); err != nil {
		s.logger.Warn("failed to invalidate validation reports", zap.Error(err))
	}
}
