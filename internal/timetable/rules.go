package timetable

import (
	"fmt"
	"sort"

	"github.com/smartedudesk/timetable-api/internal/models"
)

// Severity classifies a validation issue.
type Severity string

const (
	SeverityError   Severity = "ERROR"
	SeverityWarning Severity = "WARNING"
)

// Location points an issue at a slot, optionally naming the class or teacher
// involved.
type Location struct {
	Day       Day    `json:"day"`
	Period    int    `json:"period"`
	ClassID   string `json:"classId,omitempty"`
	TeacherID string `json:"teacherId,omitempty"`
}

// Issue is one rule violation. Issues are ephemeral: every validation pass
// recomputes the full list. IDs are derived from the location so an unchanged
// grid always yields an identical issue set.
type Issue struct {
	ID       string   `json:"id"`
	Type     Severity `json:"type"`
	Message  string   `json:"message"`
	Location Location `json:"location"`
}

// Rule inspects the grid against the roster and reports its violations. Rules
// are independent and carry their own severity; a rule set is an ordered list
// of them.
type Rule func(grid Grid, teachers []models.Teacher) []Issue

// FixedSlot pins a class/subject to an exact day and period. The same list
// drives both generator pre-seeding and validation, so placement and checking
// cannot drift apart.
type FixedSlot struct {
	ClassID string `json:"classId"`
	Subject string `json:"subject"`
	Day     Day    `json:"day"`
	Period  int    `json:"period"`
}

// FixedSlots returns the curricular pins currently in force.
func FixedSlots() []FixedSlot {
	return []FixedSlot{
		{ClassID: "10th", Subject: "Science", Day: Friday, Period: 3},
		{ClassID: "9th", Subject: "Science", Day: Tuesday, Period: 2},
		{ClassID: "8th", Subject: "Science", Day: Wednesday, Period: 2},
	}
}

// coreSubjects and seniorClasses drive the morning-preference policy shared by
// the generator and the legacy core-placement rule.
var coreSubjects = []string{"Math", "Science", "English", "SST"}

var seniorClasses = []string{"8th", "9th", "10th"}

// gradingSubjects are assessed practically and sit best late in the day.
var gradingSubjects = []string{"Art", "Agri", "W.L.", "Phy Edu"}

func contains(list []string, v string) bool {
	for _, s := range list {
		if s == v {
			return true
		}
	}
	return false
}

// assignedClasses derives the set of class IDs any teacher serves, sorted for
// deterministic iteration.
func assignedClasses(teachers []models.Teacher) []string {
	seen := map[string]bool{}
	for _, t := range teachers {
		for _, a := range t.Assignments {
			seen[a.ClassID] = true
		}
	}
	classes := make([]string, 0, len(seen))
	for c := range seen {
		classes = append(classes, c)
	}
	sort.Strings(classes)
	return classes
}

func sortedTeacherIDs(entries map[string]Entry) []string {
	ids := make([]string, 0, len(entries))
	for id := range entries {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// DoubleBookingRule reports any class served by more than one teacher in the
// same slot. The grid cannot structurally prevent this.
func DoubleBookingRule(severity Severity) Rule {
	return func(grid Grid, teachers []models.Teacher) []Issue {
		var issues []Issue
		for _, day := range Days() {
			for period := 1; period <= PeriodsPerDay; period++ {
				entries := grid.EntriesAt(day, period)
				byClass := map[string]int{}
				for _, tID := range sortedTeacherIDs(entries) {
					byClass[entries[tID].ClassID]++
				}
				classes := make([]string, 0, len(byClass))
				for c := range byClass {
					classes = append(classes, c)
				}
				sort.Strings(classes)
				for _, classID := range classes {
					if n := byClass[classID]; n > 1 {
						issues = append(issues, Issue{
							ID:       fmt.Sprintf("conf-%s-%d-%s", day, period, classID),
							Type:     severity,
							Message:  fmt.Sprintf("Class %s has %d teachers assigned at once!", classID, n),
							Location: Location{Day: day, Period: period, ClassID: classID},
						})
					}
				}
			}
		}
		return issues
	}
}

// VacantPeriodRule reports every slot where a class with assigned teachers has
// nobody scheduled.
func VacantPeriodRule(severity Severity) Rule {
	return func(grid Grid, teachers []models.Teacher) []Issue {
		classes := assignedClasses(teachers)
		var issues []Issue
		for _, day := range Days() {
			for period := 1; period <= PeriodsPerDay; period++ {
				for _, classID := range classes {
					if !grid.ClassOccupied(classID, day, period) {
						issues = append(issues, Issue{
							ID:       fmt.Sprintf("vacant-%s-%d-%s", day, period, classID),
							Type:     severity,
							Message:  fmt.Sprintf("Vacant Period: Class %s has no teacher assigned for Period %d.", classID, period),
							Location: Location{Day: day, Period: period, ClassID: classID},
						})
					}
				}
			}
		}
		return issues
	}
}

// TeachStreakRule flags each period a teacher teaches beyond three in a row.
func TeachStreakRule(severity Severity) Rule {
	return func(grid Grid, teachers []models.Teacher) []Issue {
		var issues []Issue
		for _, day := range Days() {
			for _, t := range teachers {
				streak := 0
				for period := 1; period <= PeriodsPerDay; period++ {
					if _, busy := grid.EntryFor(t.ID, day, period); !busy {
						streak = 0
						continue
					}
					streak++
					if streak > 3 {
						issues = append(issues, Issue{
							ID:       fmt.Sprintf("streak-teach-%s-%d-%s", day, period, t.ID),
							Type:     severity,
							Message:  fmt.Sprintf("%s has %d consecutive teaching periods. Max 3 allowed.", t.FullName, streak),
							Location: Location{Day: day, Period: period, TeacherID: t.ID},
						})
					}
				}
			}
		}
		return issues
	}
}

// FreeStreakRule flags each period a teacher sits idle beyond two in a row.
func FreeStreakRule(severity Severity) Rule {
	return func(grid Grid, teachers []models.Teacher) []Issue {
		var issues []Issue
		for _, day := range Days() {
			for _, t := range teachers {
				free := 0
				for period := 1; period <= PeriodsPerDay; period++ {
					if _, busy := grid.EntryFor(t.ID, day, period); busy {
						free = 0
						continue
					}
					free++
					if free > 2 {
						issues = append(issues, Issue{
							ID:       fmt.Sprintf("streak-free-%s-%d-%s", day, period, t.ID),
							Type:     severity,
							Message:  fmt.Sprintf("%s has %d consecutive free periods. Max 2 allowed.", t.FullName, free),
							Location: Location{Day: day, Period: period, TeacherID: t.ID},
						})
					}
				}
			}
		}
		return issues
	}
}

// AfternoonBlockRule flags a teacher teaching all three post-recess periods
// back to back.
func AfternoonBlockRule(severity Severity) Rule {
	return func(grid Grid, teachers []models.Teacher) []Issue {
		var issues []Issue
		for _, day := range Days() {
			for _, t := range teachers {
				streak := 0
				for period := 1; period <= PeriodsPerDay; period++ {
					if _, busy := grid.EntryFor(t.ID, day, period); !busy {
						streak = 0
						continue
					}
					streak++
					if period == PeriodsPerDay && streak >= 3 {
						issues = append(issues, Issue{
							ID:       fmt.Sprintf("streak-afternoon-%s-%d-%s", day, period, t.ID),
							Type:     severity,
							Message:  fmt.Sprintf("%s teaching all 3 periods after recess continuously. Prohibited.", t.FullName),
							Location: Location{Day: day, Period: period, TeacherID: t.ID},
						})
					}
				}
			}
		}
		return issues
	}
}

// MorningOnlyRule flags a teacher whose entire daily load sits before recess.
func MorningOnlyRule(severity Severity) Rule {
	return func(grid Grid, teachers []models.Teacher) []Issue {
		var issues []Issue
		for _, day := range Days() {
			for _, t := range teachers {
				before, after := 0, 0
				for period := 1; period <= PeriodsPerDay; period++ {
					if _, busy := grid.EntryFor(t.ID, day, period); !busy {
						continue
					}
					if period <= RecessAfterPeriod {
						before++
					} else {
						after++
					}
				}
				if before > 0 && after == 0 {
					issues = append(issues, Issue{
						ID:       fmt.Sprintf("balance-morning-only-%s-%s", day, t.ID),
						Type:     severity,
						Message:  fmt.Sprintf("%s is only busy before recess. Must have balanced load.", t.FullName),
						Location: Location{Day: day, Period: 1, TeacherID: t.ID},
					})
				}
			}
		}
		return issues
	}
}

// VacantAfterRecessRule flags a working teacher with zero load in periods 6-8.
func VacantAfterRecessRule(severity Severity) Rule {
	return func(grid Grid, teachers []models.Teacher) []Issue {
		var issues []Issue
		for _, day := range Days() {
			for _, t := range teachers {
				working, afterRecess := false, false
				for period := 1; period <= PeriodsPerDay; period++ {
					if _, busy := grid.EntryFor(t.ID, day, period); !busy {
						continue
					}
					working = true
					if period > RecessAfterPeriod {
						afterRecess = true
					}
				}
				if working && !afterRecess {
					issues = append(issues, Issue{
						ID:       fmt.Sprintf("vacant-post-recess-%s-%s", day, t.ID),
						Type:     severity,
						Message:  fmt.Sprintf("%s is completely vacant after recess. Prohibited.", t.FullName),
						Location: Location{Day: day, Period: RecessAfterPeriod + 1, TeacherID: t.ID},
					})
				}
			}
		}
		return issues
	}
}

// CoreAfterRecessRule flags core subjects landing after recess for senior
// classes. Part of the legacy rule set.
func CoreAfterRecessRule(severity Severity) Rule {
	return func(grid Grid, teachers []models.Teacher) []Issue {
		var issues []Issue
		for _, day := range Days() {
			for period := RecessAfterPeriod + 1; period <= PeriodsPerDay; period++ {
				entries := grid.EntriesAt(day, period)
				for _, tID := range sortedTeacherIDs(entries) {
					e := entries[tID]
					if contains(seniorClasses, e.ClassID) && contains(coreSubjects, e.Subject) {
						issues = append(issues, Issue{
							ID:       fmt.Sprintf("rule-core-%s-%d-%s", day, period, tID),
							Type:     severity,
							Message:  fmt.Sprintf("%s scheduled for Class %s after recess (Period %d). Core subjects are preferred in morning.", e.Subject, e.ClassID, period),
							Location: Location{Day: day, Period: period, ClassID: e.ClassID, TeacherID: tID},
						})
					}
				}
			}
		}
		return issues
	}
}

// FixedSlotRule checks that every pinned class/subject entry landed at its
// exact day and period.
func FixedSlotRule(severity Severity, slots []FixedSlot) Rule {
	return func(grid Grid, teachers []models.Teacher) []Issue {
		var issues []Issue
		for _, fs := range slots {
			if grid.HasEntry(fs.ClassID, fs.Subject, fs.Day, fs.Period) {
				continue
			}
			issues = append(issues, Issue{
				ID:       fmt.Sprintf("fixed-missing-%s-%d-%s", fs.Day, fs.Period, fs.ClassID),
				Type:     severity,
				Message:  fmt.Sprintf("Strict Requirement: %s %s must be at Period %d on %s.", fs.ClassID, fs.Subject, fs.Period, fs.Day),
				Location: Location{Day: fs.Day, Period: fs.Period, ClassID: fs.ClassID},
			})
		}
		return issues
	}
}
