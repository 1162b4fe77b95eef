package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/sma-adp-api/internal/dto"
	"github.com/noah-isme/sma-adp-api/internal/service"
	appErrors "github.com/noah-isme/sma-adp-api/pkg/errors"
	"github.com/noah-isme/sma-adp-api/pkg/response"
)

// TimetableHandler exposes the genetic-algorithm timetable generator.
type TimetableHandler struct {
	service *service.TimetableService
}

// NewTimetableHandler constructs a timetable handler.
func NewTimetableHandler(svc *service.TimetableService) *TimetableHandler {
	return &TimetableHandler{service: svc}
}

// Generate godoc
// @Summary Generate a timetable from scratch
// @Tags Timetable
// @Accept json
// @Produce json
// @Param payload body dto.GenerateTimetableRequest true "Generation inputs"
// @Success 200 {object} response.Envelope
// @Router /timetable/generate [post]
func (h *TimetableHandler) Generate(c *gin.Context) {
	var req dto.GenerateTimetableRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}

	proposalID, timetable, err := h.service.Generate(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, gin.H{"proposalId": proposalID, "timetable": timetable}, nil)
}

// Optimize godoc
// @Summary Optimize an existing timetable
// @Tags Timetable
// @Accept json
// @Produce json
// @Param payload body dto.OptimizeTimetableRequest true "Optimize inputs"
// @Success 200 {object} response.Envelope
// @Router /timetable/optimize [post]
func (h *TimetableHandler) Optimize(c *gin.Context) {
	var req dto.OptimizeTimetableRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}

	proposalID, result, err := h.service.Optimize(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, gin.H{"proposalId": proposalID, "result": result}, nil)
}

// Analyze godoc
// @Summary Analyze a timetable for conflicts and quality
// @Tags Timetable
// @Accept json
// @Produce json
// @Param payload body dto.AnalyzeTimetableRequest true "Analyze inputs"
// @Success 200 {object} response.Envelope
// @Router /timetable/analyze [post]
func (h *TimetableHandler) Analyze(c *gin.Context) {
	var req dto.AnalyzeTimetableRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}

	result, err := h.service.Analyze(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, result, nil)
}

// Save godoc
// @Summary Commit a generated or optimized proposal as a semester schedule
// @Tags Timetable
// @Accept json
// @Produce json
// @Param payload body service.SaveTimetableRequest true "Save inputs"
// @Success 201 {object} response.Envelope
// @Router /timetable/save [post]
func (h *TimetableHandler) Save(c *gin.Context) {
	var req service.SaveTimetableRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}

	schedule, err := h.service.Save(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, schedule)
}

// Export godoc
// @Summary Export a cached proposal as CSV or PDF
// @Tags Timetable
// @Produce application/json
// @Param id path string true "Proposal ID"
// @Param format query string false "csv or pdf" default(csv)
// @Success 200 {file} byte
// @Router /timetable/proposals/{id}/export [get]
func (h *TimetableHandler) Export(c *gin.Context) {
	format := c.DefaultQuery("format", "csv")
	payload, contentType, err := h.service.ExportProposal(c.Request.Context(), c.Param("id"), format)
	if err != nil {
		response.Error(c, err)
		return
	}
	c.Data(http.StatusOK, contentType, payload)
}
