package dto

import "github.com/smartedudesk/timetable-api/internal/models"

// ProcessAbsenceRequest resolves a single vacated slot.
type ProcessAbsenceRequest struct {
	Date            string `json:"date" validate:"required"`
	Day             string `json:"day" validate:"required"`
	Period          int    `json:"period" validate:"required,min=1,max=8"`
	ClassID         string `json:"classId" validate:"required"`
	Subject         string `json:"subject" validate:"required"`
	AbsentTeacherID string `json:"absentTeacherId" validate:"required"`
	Reason          string `json:"reason"`
}

// DayAbsenceRequest marks a teacher absent for a full day. Every slot the
// teacher holds on that day is resolved as its own independent operation.
type DayAbsenceRequest struct {
	Date            string `json:"date" validate:"required"`
	Day             string `json:"day" validate:"required"`
	AbsentTeacherID string `json:"absentTeacherId" validate:"required"`
	Reason          string `json:"reason"`
}

// ReassignRequest replaces the covering teacher on an existing slip.
type ReassignRequest struct {
	SubstituteTeacherID string `json:"substituteTeacherId" validate:"required"`
}

// SubstitutionResponse returns the slip plus the engine's verdict on the
// selected substitute.
type SubstitutionResponse struct {
	Substitution   models.Substitution `json:"substitution"`
	SubstituteName string              `json:"substituteName,omitempty"`
	WouldViolate   bool                `json:"wouldViolate"`
	Streak         int                 `json:"streak"`
}
