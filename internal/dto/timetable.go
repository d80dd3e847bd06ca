package dto

import (
	"time"

	"github.com/smartedudesk/timetable-api/internal/timetable"
)

// TimetableResponse returns the master grid together with a fresh validation
// report.
type TimetableResponse struct {
	Board  string            `json:"board"`
	Grid   timetable.Grid    `json:"grid"`
	Report *ValidationReport `json:"report,omitempty"`
}

// ImportTimetableRequest accepts an externally generated grid. It must follow
// the day -> period -> teacherId nesting; no other shape is accepted and no
// special handling applies to imported grids.
type ImportTimetableRequest struct {
	Grid timetable.Grid `json:"grid" validate:"required"`
}

// UpdateSlotRequest edits a single slot. With Remove set the teacher's entry
// at the slot is cleared; otherwise ClassID and Subject are required.
type UpdateSlotRequest struct {
	Day       string `json:"day" validate:"required"`
	Period    int    `json:"period" validate:"required,min=1,max=8"`
	TeacherID string `json:"teacherId" validate:"required"`
	ClassID   string `json:"classId" validate:"required_unless=Remove true"`
	Subject   string `json:"subject" validate:"required_unless=Remove true"`
	Remove    bool   `json:"remove"`
}

// ValidationReport is the cached product of one validation pass.
type ValidationReport struct {
	RuleSet     string            `json:"ruleSet"`
	Issues      []timetable.Issue `json:"issues"`
	ErrorCount  int               `json:"errorCount"`
	WarnCount   int               `json:"warnCount"`
	GeneratedAt time.Time         `json:"generatedAt"`
}
