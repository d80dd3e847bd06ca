package timetable

import (
	"encoding/json"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/smartedudesk/timetable-api/internal/models"
)

func rosterFixture() []models.Teacher {
	return []models.Teacher{
		{
			ID:       "t1",
			FullName: "Gurpreet Kaur",
			Subjects: []string{"Math", "Science"},
			Assignments: []models.TeacherAssignment{
				{ClassID: "10th", Subject: "Math", PeriodsPerWeek: 6},
			},
		},
		{
			ID:       "t2",
			FullName: "Harjit Singh",
			Subjects: []string{"English"},
			Assignments: []models.TeacherAssignment{
				{ClassID: "10th", Subject: "English", PeriodsPerWeek: 6},
			},
		},
	}
}

// fullGridFor fills every period of every day for each teacher's first
// assignment so vacancy and balance rules stay quiet.
func fullGridFor(teachers []models.Teacher) Grid {
	g := NewGrid()
	for _, day := range Days() {
		for p := 1; p <= PeriodsPerDay; p++ {
			for _, t := range teachers {
				a := t.Assignments[0]
				g.Set(day, p, Entry{ClassID: a.ClassID + "-" + t.ID, Subject: a.Subject, TeacherID: t.ID})
			}
		}
	}
	return g
}

func issueIDs(issues []Issue) []string {
	ids := make([]string, len(issues))
	for i, is := range issues {
		ids[i] = is.ID
	}
	return ids
}

func findIssues(issues []Issue, prefix string) []Issue {
	var out []Issue
	for _, is := range issues {
		if len(is.ID) >= len(prefix) && is.ID[:len(prefix)] == prefix {
			out = append(out, is)
		}
	}
	return out
}

func TestValidateDeterministic(t *testing.T) {
	teachers := rosterFixture()
	g := NewGrid()
	g.Set(Monday, 1, Entry{ClassID: "10th", Subject: "Math", TeacherID: "t1"})
	g.Set(Monday, 1, Entry{ClassID: "10th", Subject: "English", TeacherID: "t2"})

	v := NewValidator(StandardRuleSet(SeverityWarning))
	first := v.Validate(g, teachers)
	second := v.Validate(g, teachers)

	require.Equal(t, len(first), len(second))
	assert.Equal(t, issueIDs(first), issueIDs(second))
	assert.Equal(t, first, second)
}

func TestDoubleBookingEmitsExactlyOneIssuePerSlot(t *testing.T) {
	teachers := rosterFixture()
	g := NewGrid()
	g.Set(Monday, 2, Entry{ClassID: "10th", Subject: "Math", TeacherID: "t1"})
	g.Set(Monday, 2, Entry{ClassID: "10th", Subject: "English", TeacherID: "t2"})

	issues := DoubleBookingRule(SeverityError)(g, teachers)

	require.Len(t, issues, 1)
	assert.Equal(t, "conf-MON-2-10th", issues[0].ID)
	assert.Equal(t, SeverityError, issues[0].Type)
	assert.Equal(t, Location{Day: Monday, Period: 2, ClassID: "10th"}, issues[0].Location)
}

func TestVacantPeriodReportsEveryUnstaffedSlot(t *testing.T) {
	teachers := rosterFixture()
	g := NewGrid()
	g.Set(Monday, 1, Entry{ClassID: "10th", Subject: "Math", TeacherID: "t1"})

	issues := VacantPeriodRule(SeverityError)(g, teachers)

	// 6 days x 8 periods for class 10th, minus the one filled slot.
	assert.Len(t, issues, 6*8-1)
	assert.NotContains(t, issueIDs(issues), "vacant-MON-1-10th")
	assert.Contains(t, issueIDs(issues), "vacant-MON-2-10th")
}

func TestTeachStreakRuleFlagsBeyondThree(t *testing.T) {
	teachers := rosterFixture()
	g := NewGrid()
	for _, p := range []int{1, 2, 3, 4, 5} {
		g.Set(Monday, p, Entry{ClassID: "10th", Subject: "Math", TeacherID: "t1"})
	}

	issues := TeachStreakRule(SeverityWarning)(g, teachers)

	require.Len(t, issues, 2)
	assert.Equal(t, "streak-teach-MON-4-t1", issues[0].ID)
	assert.Equal(t, "streak-teach-MON-5-t1", issues[1].ID)
	assert.Equal(t, SeverityWarning, issues[0].Type)
}

func TestFreeStreakRuleFlagsBeyondTwo(t *testing.T) {
	teachers := rosterFixture()[:1]
	g := NewGrid()
	// Busy at 1 and 8 only: free run of 6 between them.
	g.Set(Monday, 1, Entry{ClassID: "10th", Subject: "Math", TeacherID: "t1"})
	g.Set(Monday, 8, Entry{ClassID: "10th", Subject: "Math", TeacherID: "t1"})

	issues := findIssues(FreeStreakRule(SeverityError)(g, teachers), "streak-free-MON")

	// Periods 4 through 7 exceed the free-run limit of two.
	require.Len(t, issues, 4)
	assert.Equal(t, "streak-free-MON-4-t1", issues[0].ID)
}

func TestAfternoonBlockRule(t *testing.T) {
	teachers := rosterFixture()[:1]
	g := NewGrid()
	for _, p := range []int{6, 7, 8} {
		g.Set(Monday, p, Entry{ClassID: "10th", Subject: "Math", TeacherID: "t1"})
	}

	issues := AfternoonBlockRule(SeverityError)(g, teachers)

	require.Len(t, issues, 1)
	assert.Equal(t, "streak-afternoon-MON-8-t1", issues[0].ID)
}

func TestAfternoonBlockRuleQuietWhenBroken(t *testing.T) {
	teachers := rosterFixture()[:1]
	g := NewGrid()
	g.Set(Monday, 6, Entry{ClassID: "10th", Subject: "Math", TeacherID: "t1"})
	g.Set(Monday, 8, Entry{ClassID: "10th", Subject: "Math", TeacherID: "t1"})

	assert.Empty(t, AfternoonBlockRule(SeverityError)(g, teachers))
}

func TestMorningOnlyAndVacantAfterRecessRules(t *testing.T) {
	teachers := rosterFixture()[:1]
	g := NewGrid()
	g.Set(Monday, 2, Entry{ClassID: "10th", Subject: "Math", TeacherID: "t1"})
	g.Set(Monday, 3, Entry{ClassID: "10th", Subject: "Math", TeacherID: "t1"})

	morning := MorningOnlyRule(SeverityError)(g, teachers)
	require.Len(t, morning, 1)
	assert.Equal(t, "balance-morning-only-MON-t1", morning[0].ID)

	recess := VacantAfterRecessRule(SeverityError)(g, teachers)
	require.Len(t, recess, 1)
	assert.Equal(t, "vacant-post-recess-MON-t1", recess[0].ID)
	assert.Equal(t, 6, recess[0].Location.Period)

	// An afternoon period silences both.
	g.Set(Monday, 7, Entry{ClassID: "10th", Subject: "Math", TeacherID: "t1"})
	assert.Empty(t, MorningOnlyRule(SeverityError)(g, teachers))
	assert.Empty(t, VacantAfterRecessRule(SeverityError)(g, teachers))
}

func TestFixedSlotRule(t *testing.T) {
	teachers := rosterFixture()
	g := NewGrid()
	g.Set(Friday, 3, Entry{ClassID: "10th", Subject: "Science", TeacherID: "t1"})

	issues := FixedSlotRule(SeverityError, FixedSlots())(g, teachers)

	require.Len(t, issues, 2)
	assert.Equal(t, "fixed-missing-TUE-2-9th", issues[0].ID)
	assert.Equal(t, "fixed-missing-WED-2-8th", issues[1].ID)
}

func TestCoreAfterRecessRuleLegacy(t *testing.T) {
	teachers := rosterFixture()
	g := NewGrid()
	g.Set(Monday, 6, Entry{ClassID: "10th", Subject: "Math", TeacherID: "t1"})
	g.Set(Monday, 6, Entry{ClassID: "6th", Subject: "Math", TeacherID: "t2"})
	g.Set(Monday, 3, Entry{ClassID: "10th", Subject: "Math", TeacherID: "t2"})

	issues := CoreAfterRecessRule(SeverityWarning)(g, teachers)

	// Junior classes and morning slots are exempt.
	require.Len(t, issues, 1)
	assert.Equal(t, "rule-core-MON-6-t1", issues[0].ID)
	assert.Equal(t, SeverityWarning, issues[0].Type)
}

func TestLegacyRuleSetComposition(t *testing.T) {
	teachers := rosterFixture()
	g := fullGridFor(teachers)
	g.Set(Monday, 6, Entry{ClassID: "10th", Subject: "Math", TeacherID: "t1"})

	issues := NewValidator(LegacyRuleSet()).Validate(g, teachers)

	for _, is := range issues {
		assert.NotContains(t, is.ID, "streak-free")
		assert.NotContains(t, is.ID, "fixed-missing")
	}
}

func TestValidateSurvivesSerializationRoundTrip(t *testing.T) {
	teachers := rosterFixture()
	g := NewGrid()
	g.Set(Monday, 1, Entry{ClassID: "10th", Subject: "Math", TeacherID: "t1"})
	g.Set(Monday, 1, Entry{ClassID: "10th", Subject: "English", TeacherID: "t2"})

	v := NewValidator(StandardRuleSet(SeverityWarning))
	direct := v.Validate(g, teachers)

	raw, err := json.Marshal(g)
	require.NoError(t, err)
	var decoded Grid
	require.NoError(t, json.Unmarshal(raw, &decoded))

	assert.Equal(t, direct, v.Validate(decoded, teachers))
}

func TestValidatePartialGridTreatedAsEmpty(t *testing.T) {
	teachers := rosterFixture()

	assert.NotPanics(t, func() {
		issues := NewValidator(StandardRuleSet(SeverityWarning)).Validate(Grid{}, teachers)
		for _, day := range Days() {
			assert.Contains(t, issueIDs(issues), fmt.Sprintf("vacant-%s-1-10th", day))
		}
	})
}
