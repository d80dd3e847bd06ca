package timetable

import "github.com/smartedudesk/timetable-api/internal/models"

// IsBusy reports whether the teacher is committed at (day, period), either by
// the master grid or by an active substitution naming them as substitute.
// Substitutions are matched on both day and period.
func IsBusy(teacherID string, day Day, period int, grid Grid, subs []models.Substitution) bool {
	if _, ok := grid.EntryFor(teacherID, day, period); ok {
		return true
	}
	for _, s := range subs {
		if s.SubstituteTeacherID != nil && *s.SubstituteTeacherID == teacherID &&
			Day(s.Day) == day && s.Period == period {
			return true
		}
	}
	return false
}

// Streak returns the length of the contiguous run of committed periods
// containing (day, period) for the teacher: 1 for the queried slot plus the
// busy runs extending backward and forward from it. When the queried slot is
// currently free the result reads as "streak if assigned here".
func Streak(teacherID string, day Day, period int, grid Grid, subs []models.Substitution) int {
	streak := 1
	for p := period - 1; p >= 1; p-- {
		if !IsBusy(teacherID, day, p, grid, subs) {
			break
		}
		streak++
	}
	for p := period + 1; p <= PeriodsPerDay; p++ {
		if !IsBusy(teacherID, day, p, grid, subs) {
			break
		}
		streak++
	}
	return streak
}

// DailyLoad counts the teacher's committed periods on the given day.
func DailyLoad(teacherID string, day Day, grid Grid, subs []models.Substitution) int {
	load := 0
	for p := 1; p <= PeriodsPerDay; p++ {
		if IsBusy(teacherID, day, p, grid, subs) {
			load++
		}
	}
	return load
}
