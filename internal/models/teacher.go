package models

import "time"

// TeacherAssignment is one workload requirement the generator must satisfy:
// this teacher owes classId periodsPerWeek periods of subject.
type TeacherAssignment struct {
	ClassID        string `json:"classId"`
	Subject        string `json:"subject"`
	PeriodsPerWeek int    `json:"periodsPerWeek"`
}

// Teacher is the roster record. The engine treats it as read-only input;
// creation and edits belong to the roster admin surface.
type Teacher struct {
	ID              string              `json:"id"`
	FullName        string              `json:"fullName"`
	Designation     string              `json:"designation,omitempty"`
	Subjects        []string            `json:"subjects"`
	Assignments     []TeacherAssignment `json:"assignments"`
	WeeklyLimit     int                 `json:"weeklyLimit"`
	ClassInChargeOf string              `json:"classInChargeOf,omitempty"`
	Active          bool                `json:"active"`
	CreatedAt       time.Time           `json:"createdAt"`
	UpdatedAt       time.Time           `json:"updatedAt"`
}

// Qualified reports whether the teacher is qualified to teach subject.
func (t *Teacher) Qualified(subject string) bool {
	for _, s := range t.Subjects {
		if s == subject {
			return true
		}
	}
	return false
}

// IsInCharge reports whether the teacher is the designated in-charge of classID.
func (t *Teacher) IsInCharge(classID string) bool {
	return t.ClassInChargeOf != "" && t.ClassInChargeOf == classID
}

// RequiredPeriods sums periodsPerWeek across all assignments.
func (t *Teacher) RequiredPeriods() int {
	total := 0
	for _, a := range t.Assignments {
		total += a.PeriodsPerWeek
	}
	return total
}
