package timetable

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/smartedudesk/timetable-api/internal/models"
)

func substituteRoster() []models.Teacher {
	return []models.Teacher{
		{ID: "t1", FullName: "Gurpreet Kaur", Subjects: []string{"Science"}},
		{ID: "t2", FullName: "Harjit Singh", Subjects: []string{"Science", "Math"}},
		{ID: "t3", FullName: "Amrit Kaur", Subjects: []string{"Punjabi"}},
	}
}

func TestFindSubstituteQualificationDominates(t *testing.T) {
	teachers := substituteRoster()
	finder := NewSubstituteFinder(DefaultScoreWeights())

	res := finder.Find("t1", Monday, 3, "7th", "Science", NewGrid(), teachers, nil)

	require.NotNil(t, res.Teacher)
	assert.Equal(t, "t2", res.Teacher.ID)
	assert.False(t, res.WouldViolate)
	assert.Equal(t, 1, res.Streak)
}

func TestFindSubstituteInChargeBreaksQualificationTie(t *testing.T) {
	teachers := substituteRoster()
	teachers[2].Subjects = []string{"Science"}
	teachers[2].ClassInChargeOf = "7th"
	finder := NewSubstituteFinder(DefaultScoreWeights())

	res := finder.Find("t1", Monday, 3, "7th", "Science", NewGrid(), teachers, nil)

	require.NotNil(t, res.Teacher)
	assert.Equal(t, "t3", res.Teacher.ID)
}

func TestFindSubstituteNoCandidates(t *testing.T) {
	teachers := substituteRoster()
	g := NewGrid()
	g.Set(Monday, 3, Entry{ClassID: "6th", Subject: "Math", TeacherID: "t2"})
	g.Set(Monday, 3, Entry{ClassID: "8th", Subject: "Punjabi", TeacherID: "t3"})

	res := NewSubstituteFinder(DefaultScoreWeights()).Find("t1", Monday, 3, "7th", "Science", g, teachers, nil)

	assert.Nil(t, res.Teacher)
	assert.False(t, res.WouldViolate)
	assert.Zero(t, res.Streak)
}

func TestFindSubstituteExcludesAbsentTeacher(t *testing.T) {
	teachers := substituteRoster()[:1]

	res := NewSubstituteFinder(DefaultScoreWeights()).Find("t1", Monday, 3, "7th", "Science", NewGrid(), teachers, nil)

	assert.Nil(t, res.Teacher)
}

func TestFindSubstituteStreakPenalties(t *testing.T) {
	teachers := substituteRoster()
	g := NewGrid()
	// t2 would hit a streak of 4; t3 is fresh but unqualified.
	for _, p := range []int{1, 2, 4} {
		g.Set(Monday, p, Entry{ClassID: "6th", Subject: "Math", TeacherID: "t2"})
	}

	finder := NewSubstituteFinder(DefaultScoreWeights())
	res := finder.Find("t1", Monday, 3, "7th", "Science", g, teachers, nil)

	// Qualified 100 - over-streak 200 - load 3 < unqualified 0 - load 0.
	require.NotNil(t, res.Teacher)
	assert.Equal(t, "t3", res.Teacher.ID)
	assert.False(t, res.WouldViolate)
}

func TestFindSubstituteReportsViolationWhenUnavoidable(t *testing.T) {
	teachers := substituteRoster()[:2]
	g := NewGrid()
	for _, p := range []int{1, 2, 4} {
		g.Set(Monday, p, Entry{ClassID: "6th", Subject: "Math", TeacherID: "t2"})
	}

	res := NewSubstituteFinder(DefaultScoreWeights()).Find("t1", Monday, 3, "7th", "Science", g, teachers, nil)

	require.NotNil(t, res.Teacher)
	assert.Equal(t, "t2", res.Teacher.ID)
	assert.True(t, res.WouldViolate)
	assert.Equal(t, 4, res.Streak)
}

func TestFindSubstituteDailyLoadTieBreak(t *testing.T) {
	teachers := []models.Teacher{
		{ID: "t1", FullName: "Gurpreet Kaur", Subjects: []string{"Science"}},
		{ID: "t2", FullName: "Harjit Singh", Subjects: []string{"Science"}},
		{ID: "t3", FullName: "Amrit Kaur", Subjects: []string{"Science"}},
	}
	g := NewGrid()
	// Both candidates qualified; t2 carries more load that day.
	g.Set(Monday, 1, Entry{ClassID: "6th", Subject: "Science", TeacherID: "t2"})
	g.Set(Monday, 8, Entry{ClassID: "6th", Subject: "Science", TeacherID: "t2"})
	g.Set(Monday, 1, Entry{ClassID: "7th", Subject: "Science", TeacherID: "t3"})

	res := NewSubstituteFinder(DefaultScoreWeights()).Find("t1", Monday, 4, "7th", "Science", g, teachers, nil)

	require.NotNil(t, res.Teacher)
	assert.Equal(t, "t3", res.Teacher.ID)
}

func TestFindSubstituteTiesGoToRosterOrder(t *testing.T) {
	teachers := []models.Teacher{
		{ID: "t2", FullName: "Harjit Singh", Subjects: []string{"Science"}},
		{ID: "t3", FullName: "Amrit Kaur", Subjects: []string{"Science"}},
	}

	res := NewSubstituteFinder(DefaultScoreWeights()).Find("t1", Monday, 4, "7th", "Science", NewGrid(), teachers, nil)

	require.NotNil(t, res.Teacher)
	assert.Equal(t, "t2", res.Teacher.ID)
}

func TestFindSubstituteSeesCommittedBatch(t *testing.T) {
	teachers := substituteRoster()
	finder := NewSubstituteFinder(DefaultScoreWeights())

	// t2 already picked for period 3 earlier in the same batch.
	subs := []models.Substitution{
		{ID: "s1", Day: "MON", Period: 3, ClassID: "6th", SubstituteTeacherID: strPtr("t2")},
	}

	res := finder.Find("t1", Monday, 3, "7th", "Science", NewGrid(), teachers, subs)

	require.NotNil(t, res.Teacher)
	assert.Equal(t, "t3", res.Teacher.ID, "a substitute committed earlier in the batch is busy now")
}
