package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/smartedudesk/timetable-api/internal/dto"
	"github.com/smartedudesk/timetable-api/internal/timetable"
	appErrors "github.com/smartedudesk/timetable-api/pkg/errors"
)

type timetableServiceMock struct {
	resp        *dto.TimetableResponse
	report      *dto.ValidationReport
	validateErr error
	resetHit    bool
	ruleSetSeen string
}

func (m *timetableServiceMock) Generate(ctx context.Context) (*dto.TimetableResponse, error) {
	return m.resp, nil
}

func (m *timetableServiceMock) Import(ctx context.Context, req dto.ImportTimetableRequest) (*dto.TimetableResponse, error) {
	return m.resp, nil
}

func (m *timetableServiceMock) Get(ctx context.Context) (*dto.TimetableResponse, error) {
	return m.resp, nil
}

func (m *timetableServiceMock) UpdateSlot(ctx context.Context, req dto.UpdateSlotRequest) (*dto.TimetableResponse, error) {
	return m.resp, nil
}

func (m *timetableServiceMock) Reset(ctx context.Context) error {
	m.resetHit = true
	return nil
}

func (m *timetableServiceMock) Validate(ctx context.Context, ruleSetName string) (*dto.ValidationReport, error) {
	m.ruleSetSeen = ruleSetName
	if m.validateErr != nil {
		return nil, m.validateErr
	}
	return m.report, nil
}

func TestTimetableHandlerGet(t *testing.T) {
	gin.SetMode(gin.TestMode)
	mock := &timetableServiceMock{resp: &dto.TimetableResponse{Board: "master", Grid: timetable.NewGrid()}}
	handler := NewTimetableHandler(mock)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req, _ := http.NewRequest(http.MethodGet, "/timetable", nil)
	c.Request = req

	handler.Get(c)
	require.Equal(t, http.StatusOK, w.Code)

	var envelope struct {
		Data dto.TimetableResponse `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &envelope))
	assert.Equal(t, "master", envelope.Data.Board)
}

func TestTimetableHandlerImportInvalidBody(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := NewTimetableHandler(&timetableServiceMock{})
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req, _ := http.NewRequest(http.MethodPost, "/timetable/import", bytes.NewReader([]byte(`not json`)))
	req.Header.Set("Content-Type", "application/json")
	c.Request = req

	handler.Import(c)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestTimetableHandlerValidatePassesRuleSet(t *testing.T) {
	gin.SetMode(gin.TestMode)
	mock := &timetableServiceMock{report: &dto.ValidationReport{RuleSet: "legacy"}}
	handler := NewTimetableHandler(mock)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req, _ := http.NewRequest(http.MethodGet, "/timetable/validation?ruleset=legacy", nil)
	c.Request = req

	handler.Validate(c)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "legacy", mock.ruleSetSeen)
}

func TestTimetableHandlerValidateUnknownRuleSet(t *testing.T) {
	gin.SetMode(gin.TestMode)
	mock := &timetableServiceMock{validateErr: appErrors.Clone(appErrors.ErrValidation, "unknown rule set")}
	handler := NewTimetableHandler(mock)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req, _ := http.NewRequest(http.MethodGet, "/timetable/validation?ruleset=bogus", nil)
	c.Request = req

	handler.Validate(c)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestTimetableHandlerReset(t *testing.T) {
	gin.SetMode(gin.TestMode)
	mock := &timetableServiceMock{}
	handler := NewTimetableHandler(mock)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req, _ := http.NewRequest(http.MethodDelete, "/timetable", nil)
	c.Request = req

	handler.Reset(c)
	c.Writer.WriteHeaderNow()
	require.Equal(t, http.StatusNoContent, w.Code)
	assert.True(t, mock.resetHit)
}
