package models

import "time"

// Substitution is a temporary reassignment overlay consulted alongside the
// master grid. It is never merged into the grid itself.
type Substitution struct {
	ID                  string    `db:"id" json:"id"`
	Date                string    `db:"date" json:"date"`
	Day                 string    `db:"day" json:"day"`
	Period              int       `db:"period" json:"period"`
	ClassID             string    `db:"class_id" json:"classId"`
	OriginalSubject     string    `db:"original_subject" json:"originalSubject"`
	AbsentTeacherID     string    `db:"absent_teacher_id" json:"absentTeacherId"`
	SubstituteTeacherID *string   `db:"substitute_teacher_id" json:"substituteTeacherId,omitempty"`
	Reason              string    `db:"reason" json:"reason,omitempty"`
	IsOverride          bool      `db:"is_override" json:"isOverride"`
	CreatedAt           time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt           time.Time `db:"updated_at" json:"updatedAt"`
}
