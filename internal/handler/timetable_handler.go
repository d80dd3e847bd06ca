package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/smartedudesk/timetable-api/internal/dto"
	appErrors "github.com/smartedudesk/timetable-api/pkg/errors"
	"github.com/smartedudesk/timetable-api/pkg/response"
)

type timetableService interface {
	Generate(ctx context.Context) (*dto.TimetableResponse, error)
	Import(ctx context.Context, req dto.ImportTimetableRequest) (*dto.TimetableResponse, error)
	Get(ctx context.Context) (*dto.TimetableResponse, error)
	UpdateSlot(ctx context.Context, req dto.UpdateSlotRequest) (*dto.TimetableResponse, error)
	Reset(ctx context.Context) error
	Validate(ctx context.Context, ruleSetName string) (*dto.ValidationReport, error)
}

// TimetableHandler exposes the master grid endpoints.
type TimetableHandler struct {
	service timetableService
}

// NewTimetableHandler builds a new handler.
func NewTimetableHandler(service timetableService) *TimetableHandler {
	return &TimetableHandler{service: service}
}

// Get godoc
// @Summary Fetch the master timetable
// @Tags Timetable
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /timetable [get]
func (h *TimetableHandler) Get(c *gin.Context) {
	resp, err := h.service.Get(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, resp)
}

// Generate godoc
// @Summary Generate a baseline timetable from the active roster
// @Tags Timetable
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /timetable/generate [post]
func (h *TimetableHandler) Generate(c *gin.Context) {
	resp, err := h.service.Generate(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, resp)
}

// Import godoc
// @Summary Import an externally generated timetable
// @Tags Timetable
// @Accept json
// @Produce json
// @Param payload body dto.ImportTimetableRequest true "Grid document"
// @Success 200 {object} response.Envelope
// @Router /timetable/import [post]
func (h *TimetableHandler) Import(c *gin.Context) {
	var req dto.ImportTimetableRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid grid payload"))
		return
	}

	resp, err := h.service.Import(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, resp)
}

// UpdateSlot godoc
// @Summary Edit one timetable slot
// @Tags Timetable
// @Accept json
// @Produce json
// @Param payload body dto.UpdateSlotRequest true "Slot edit"
// @Success 200 {object} response.Envelope
// @Router /timetable/slot [put]
func (h *TimetableHandler) UpdateSlot(c *gin.Context) {
	var req dto.UpdateSlotRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid slot payload"))
		return
	}

	resp, err := h.service.UpdateSlot(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, resp)
}

// Reset godoc
// @Summary Clear the master timetable and all substitutions
// @Tags Timetable
// @Success 204
// @Router /timetable [delete]
func (h *TimetableHandler) Reset(c *gin.Context) {
	if err := h.service.Reset(c.Request.Context()); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// Validate godoc
// @Summary Run the constraint validator over the master timetable
// @Tags Timetable
// @Produce json
// @Param ruleset query string false "Rule set (standard or legacy)"
// @Success 200 {object} response.Envelope
// @Router /timetable/validation [get]
func (h *TimetableHandler) Validate(c *gin.Context) {
	report, err := h.service.Validate(c.Request.Context(), c.Query("ruleset"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, report)
}
