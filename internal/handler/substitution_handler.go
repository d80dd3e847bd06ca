package handler

import (
	"context"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/smartedudesk/timetable-api/internal/dto"
	"github.com/smartedudesk/timetable-api/internal/models"
	appErrors "github.com/smartedudesk/timetable-api/pkg/errors"
	"github.com/smartedudesk/timetable-api/pkg/response"
)

type substitutionService interface {
	ProcessAbsence(ctx context.Context, req dto.ProcessAbsenceRequest) (*dto.SubstitutionResponse, error)
	MarkDayAbsent(ctx context.Context, req dto.DayAbsenceRequest) ([]dto.SubstitutionResponse, error)
	Reassign(ctx context.Context, id string, req dto.ReassignRequest) (*dto.SubstitutionResponse, error)
	List(ctx context.Context, date string) ([]models.Substitution, error)
	ClearDate(ctx context.Context, date string) error
	Delete(ctx context.Context, id string) error
	ExportSlips(ctx context.Context, date, format string) ([]byte, string, error)
}

// SubstitutionHandler exposes absence-handling endpoints.
type SubstitutionHandler struct {
	service substitutionService
}

// NewSubstitutionHandler builds a new handler.
func NewSubstitutionHandler(service substitutionService) *SubstitutionHandler {
	return &SubstitutionHandler{service: service}
}

// Create godoc
// @Summary Process a single-slot absence
// @Tags Substitutions
// @Accept json
// @Produce json
// @Param payload body dto.ProcessAbsenceRequest true "Absence"
// @Success 201 {object} response.Envelope
// @Router /substitutions [post]
func (h *SubstitutionHandler) Create(c *gin.Context) {
	var req dto.ProcessAbsenceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid absence payload"))
		return
	}

	resp, err := h.service.ProcessAbsence(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, resp)
}

// CreateDayAbsence godoc
// @Summary Mark a teacher absent for a whole day
// @Tags Substitutions
// @Accept json
// @Produce json
// @Param payload body dto.DayAbsenceRequest true "Day absence"
// @Success 201 {object} response.Envelope
// @Router /substitutions/day-absence [post]
func (h *SubstitutionHandler) CreateDayAbsence(c *gin.Context) {
	var req dto.DayAbsenceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid day-absence payload"))
		return
	}

	resp, err := h.service.MarkDayAbsent(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, resp)
}

// Reassign godoc
// @Summary Override the substitute on an existing slip
// @Tags Substitutions
// @Accept json
// @Produce json
// @Param id path string true "Substitution ID"
// @Param payload body dto.ReassignRequest true "New substitute"
// @Success 200 {object} response.Envelope
// @Router /substitutions/{id} [put]
func (h *SubstitutionHandler) Reassign(c *gin.Context) {
	var req dto.ReassignRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid reassign payload"))
		return
	}

	resp, err := h.service.Reassign(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, resp)
}

// List godoc
// @Summary List substitution slips for a date
// @Tags Substitutions
// @Produce json
// @Param date query string true "Calendar date (YYYY-MM-DD)"
// @Success 200 {object} response.Envelope
// @Router /substitutions [get]
func (h *SubstitutionHandler) List(c *gin.Context) {
	subs, err := h.service.List(c.Request.Context(), c.Query("date"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, subs)
}

// ClearDate godoc
// @Summary Delete every slip for a date
// @Tags Substitutions
// @Param date query string true "Calendar date (YYYY-MM-DD)"
// @Success 204
// @Router /substitutions [delete]
func (h *SubstitutionHandler) ClearDate(c *gin.Context) {
	if err := h.service.ClearDate(c.Request.Context(), c.Query("date")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// Delete godoc
// @Summary Delete a substitution slip
// @Tags Substitutions
// @Param id path string true "Substitution ID"
// @Success 204
// @Router /substitutions/{id} [delete]
func (h *SubstitutionHandler) Delete(c *gin.Context) {
	if err := h.service.Delete(c.Request.Context(), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// Export godoc
// @Summary Export the slips of a date as CSV or PDF
// @Tags Substitutions
// @Produce octet-stream
// @Param date query string true "Calendar date (YYYY-MM-DD)"
// @Param format query string false "csv or pdf" default(csv)
// @Success 200 {file} byte
// @Router /substitutions/export [get]
func (h *SubstitutionHandler) Export(c *gin.Context) {
	date := c.Query("date")
	format := c.DefaultQuery("format", "csv")

	payload, contentType, err := h.service.ExportSlips(c.Request.Context(), date, format)
	if err != nil {
		response.Error(c, err)
		return
	}

	filename := fmt.Sprintf("substitution-slips-%s.%s", date, format)
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(http.StatusOK, contentType, payload)
}
