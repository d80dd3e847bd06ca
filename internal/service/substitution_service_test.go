package service

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/smartedudesk/timetable-api/internal/dto"
	"github.com/smartedudesk/timetable-api/internal/models"
	"github.com/smartedudesk/timetable-api/internal/repository"
	"github.com/smartedudesk/timetable-api/internal/timetable"
	appErrors "github.com/smartedudesk/timetable-api/pkg/errors"
)

func substitutionRoster() []models.Teacher {
	return []models.Teacher{
		{ID: "t1", FullName: "Gurpreet Kaur", Subjects: []string{"Science"}, Active: true},
		{ID: "t2", FullName: "Harjit Singh", Subjects: []string{"Science"}, Active: true},
		{ID: "t3", FullName: "Amrit Kaur", Subjects: []string{"Science"}, Active: true},
	}
}

func newSubstitutionService(subs *substitutionRepoStub, boards *boardRepoStub, roster *rosterRepoStub) *SubstitutionService {
	return NewSubstitutionService(subs, boards, roster, nil, nil, nil, nil)
}

func masterWith(entries ...timetable.Entry) *boardRepoStub {
	boards := newBoardRepoStub()
	grid := timetable.NewGrid()
	for i, e := range entries {
		grid.Set(timetable.Monday, i+1, e)
	}
	boards.grids[repository.MasterBoard] = grid
	return boards
}

func TestProcessAbsenceSelectsSubstitute(t *testing.T) {
	boards := masterWith(timetable.Entry{ClassID: "7th", Subject: "Science", TeacherID: "t1"})
	subs := &substitutionRepoStub{}
	svc := newSubstitutionService(subs, boards, &rosterRepoStub{teachers: substitutionRoster()})

	resp, err := svc.ProcessAbsence(context.Background(), dto.ProcessAbsenceRequest{
		Date:            "2026-09-07",
		Day:             "MON",
		Period:          1,
		ClassID:         "7th",
		Subject:         "Science",
		AbsentTeacherID: "t1",
		Reason:          "sick leave",
	})
	require.NoError(t, err)

	require.Len(t, subs.records, 1)
	require.NotNil(t, resp.Substitution.SubstituteTeacherID)
	assert.Equal(t, "t2", *resp.Substitution.SubstituteTeacherID)
	assert.Equal(t, "Harjit Singh", resp.SubstituteName)
	assert.False(t, resp.WouldViolate)
	assert.NotEmpty(t, resp.Substitution.ID, "the service mints the identifier")
}

func TestProcessAbsenceRejectsDuplicateSlot(t *testing.T) {
	subs := &substitutionRepoStub{records: []models.Substitution{
		{ID: "sub-1", Date: "2026-09-07", Day: "MON", Period: 1, AbsentTeacherID: "t1"},
	}}
	svc := newSubstitutionService(subs, newBoardRepoStub(), &rosterRepoStub{teachers: substitutionRoster()})

	_, err := svc.ProcessAbsence(context.Background(), dto.ProcessAbsenceRequest{
		Date:            "2026-09-07",
		Day:             "MON",
		Period:          1,
		ClassID:         "7th",
		Subject:         "Science",
		AbsentTeacherID: "t1",
	})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrConflict.Code, appErrors.FromError(err).Code)
}

func TestProcessAbsenceRecordsUncoveredSlot(t *testing.T) {
	// Everyone else is teaching during period 1.
	boards := newBoardRepoStub()
	grid := timetable.NewGrid()
	grid.Set(timetable.Monday, 1, timetable.Entry{ClassID: "7th", Subject: "Science", TeacherID: "t1"})
	grid.Set(timetable.Monday, 1, timetable.Entry{ClassID: "8th", Subject: "Science", TeacherID: "t2"})
	grid.Set(timetable.Monday, 1, timetable.Entry{ClassID: "9th", Subject: "Science", TeacherID: "t3"})
	boards.grids[repository.MasterBoard] = grid

	subs := &substitutionRepoStub{}
	svc := newSubstitutionService(subs, boards, &rosterRepoStub{teachers: substitutionRoster()})

	resp, err := svc.ProcessAbsence(context.Background(), dto.ProcessAbsenceRequest{
		Date:            "2026-09-07",
		Day:             "MON",
		Period:          1,
		ClassID:         "7th",
		Subject:         "Science",
		AbsentTeacherID: "t1",
	})
	require.NoError(t, err)

	require.Len(t, subs.records, 1)
	assert.Nil(t, resp.Substitution.SubstituteTeacherID, "uncovered slips stay visible")
	assert.Empty(t, resp.SubstituteName)
}

func TestMarkDayAbsentBalancesAcrossBatch(t *testing.T) {
	// t1 teaches periods 1 and 2. Both candidates are equally qualified; the
	// first slot goes to t2 on roster order, and the committed slip raises
	// t2's load so the second slot goes to t3.
	boards := masterWith(
		timetable.Entry{ClassID: "7th", Subject: "Science", TeacherID: "t1"},
		timetable.Entry{ClassID: "7th", Subject: "Science", TeacherID: "t1"},
	)
	subs := &substitutionRepoStub{}
	svc := newSubstitutionService(subs, boards, &rosterRepoStub{teachers: substitutionRoster()})

	responses, err := svc.MarkDayAbsent(context.Background(), dto.DayAbsenceRequest{
		Date:            "2026-09-07",
		Day:             "MON",
		AbsentTeacherID: "t1",
		Reason:          "medical",
	})
	require.NoError(t, err)
	require.Len(t, responses, 2)

	require.NotNil(t, responses[0].Substitution.SubstituteTeacherID)
	require.NotNil(t, responses[1].Substitution.SubstituteTeacherID)
	assert.Equal(t, "t2", *responses[0].Substitution.SubstituteTeacherID)
	assert.Equal(t, "t3", *responses[1].Substitution.SubstituteTeacherID)
}

func TestMarkDayAbsentSkipsAlreadyCoveredSlots(t *testing.T) {
	boards := masterWith(
		timetable.Entry{ClassID: "7th", Subject: "Science", TeacherID: "t1"},
		timetable.Entry{ClassID: "7th", Subject: "Science", TeacherID: "t1"},
	)
	subs := &substitutionRepoStub{records: []models.Substitution{
		{ID: "sub-1", Date: "2026-09-07", Day: "MON", Period: 1, AbsentTeacherID: "t1"},
	}}
	svc := newSubstitutionService(subs, boards, &rosterRepoStub{teachers: substitutionRoster()})

	responses, err := svc.MarkDayAbsent(context.Background(), dto.DayAbsenceRequest{
		Date:            "2026-09-07",
		Day:             "MON",
		AbsentTeacherID: "t1",
	})
	require.NoError(t, err)
	require.Len(t, responses, 1)
	assert.Equal(t, 2, responses[0].Substitution.Period)
}

func TestReassignOverridesSubstitute(t *testing.T) {
	boards := masterWith(timetable.Entry{ClassID: "7th", Subject: "Science", TeacherID: "t1"})
	cover := "t2"
	subs := &substitutionRepoStub{records: []models.Substitution{
		{ID: "sub-1", Date: "2026-09-07", Day: "MON", Period: 1, ClassID: "7th", OriginalSubject: "Science", AbsentTeacherID: "t1", SubstituteTeacherID: &cover},
	}}
	svc := newSubstitutionService(subs, boards, &rosterRepoStub{teachers: substitutionRoster()})

	resp, err := svc.Reassign(context.Background(), "sub-1", dto.ReassignRequest{SubstituteTeacherID: "t3"})
	require.NoError(t, err)

	assert.True(t, resp.Substitution.IsOverride)
	require.NotNil(t, resp.Substitution.SubstituteTeacherID)
	assert.Equal(t, "t3", *resp.Substitution.SubstituteTeacherID)
	assert.Equal(t, "Amrit Kaur", resp.SubstituteName)
	assert.False(t, resp.WouldViolate)

	require.NotNil(t, subs.records[0].SubstituteTeacherID)
	assert.Equal(t, "t3", *subs.records[0].SubstituteTeacherID)
}

func TestReassignUnknownSlip(t *testing.T) {
	svc := newSubstitutionService(&substitutionRepoStub{}, newBoardRepoStub(), &rosterRepoStub{teachers: substitutionRoster()})

	_, err := svc.Reassign(context.Background(), "missing", dto.ReassignRequest{SubstituteTeacherID: "t3"})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
}

func TestClearDateRemovesOnlyThatDate(t *testing.T) {
	subs := &substitutionRepoStub{records: []models.Substitution{
		{ID: "sub-1", Date: "2026-09-07", Day: "MON", Period: 1, AbsentTeacherID: "t1"},
		{ID: "sub-2", Date: "2026-09-08", Day: "TUE", Period: 2, AbsentTeacherID: "t1"},
	}}
	svc := newSubstitutionService(subs, newBoardRepoStub(), &rosterRepoStub{teachers: substitutionRoster()})

	require.NoError(t, svc.ClearDate(context.Background(), "2026-09-07"))
	require.Len(t, subs.records, 1)
	assert.Equal(t, "sub-2", subs.records[0].ID)

	err := svc.ClearDate(context.Background(), "")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}

func TestExportSlipsCSV(t *testing.T) {
	cover := "t2"
	subs := &substitutionRepoStub{records: []models.Substitution{
		{ID: "sub-1", Date: "2026-09-07", Day: "MON", Period: 3, ClassID: "7th", OriginalSubject: "Science", AbsentTeacherID: "t1", SubstituteTeacherID: &cover},
		{ID: "sub-2", Date: "2026-09-07", Day: "MON", Period: 1, ClassID: "8th", OriginalSubject: "Math", AbsentTeacherID: "t3"},
	}}
	svc := newSubstitutionService(subs, newBoardRepoStub(), &rosterRepoStub{teachers: substitutionRoster()})

	payload, contentType, err := svc.ExportSlips(context.Background(), "2026-09-07", "csv")
	require.NoError(t, err)
	assert.Equal(t, "text/csv", contentType)

	body := string(payload)
	lines := strings.Split(strings.TrimSpace(body), "\n")
	require.Len(t, lines, 3)
	assert.Contains(t, lines[0], "Absent Teacher")
	// Rows sorted by day then period: the period-1 slip comes first.
	assert.Contains(t, lines[1], "UNCOVERED")
	assert.Contains(t, lines[2], "Harjit Singh")
	assert.Contains(t, body, "Gurpreet Kaur")
}

func TestExportSlipsUnknownFormat(t *testing.T) {
	svc := newSubstitutionService(&substitutionRepoStub{}, newBoardRepoStub(), &rosterRepoStub{teachers: substitutionRoster()})

	_, _, err := svc.ExportSlips(context.Background(), "2026-09-07", "xlsx")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}
