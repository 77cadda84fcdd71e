package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/uni-timetable-api/internal/dto"
	"github.com/noah-isme/uni-timetable-api/internal/models"
	"github.com/noah-isme/uni-timetable-api/internal/service"
	appErrors "github.com/noah-isme/uni-timetable-api/pkg/errors"
	"github.com/noah-isme/uni-timetable-api/pkg/response"
)

type timetableManager interface {
	List(ctx context.Context, query dto.TimetableQuery) ([]models.TimetableEntry, *models.Pagination, error)
	SemesterView(ctx context.Context, semesterID string) ([]models.TimetableEntry, error)
	Get(ctx context.Context, id string) (*models.TimetableEntry, error)
	Create(ctx context.Context, req dto.CreateTimetableEntryRequest) (*models.TimetableEntry, error)
	Update(ctx context.Context, id string, req dto.UpdateTimetableEntryRequest) (*models.TimetableEntry, error)
	Delete(ctx context.Context, id string) error
	ClearSemester(ctx context.Context, semesterID string) (int64, error)
	ExportCSV(ctx context.Context, semesterID string) ([]byte, error)
	ExportPDF(ctx context.Context, semesterID string) ([]byte, error)
}

type statisticsReporter interface {
	Statistics(ctx context.Context, semesterID string) (*models.TimetableStatistics, error)
}

// TimetableHandler exposes timetable entry endpoints.
type TimetableHandler struct {
	service timetableManager
	stats   statisticsReporter
}

// NewTimetableHandler constructs the handler.
func NewTimetableHandler(svc *service.TimetableService, stats *service.TimetableGeneratorService) *TimetableHandler {
	return &TimetableHandler{service: svc, stats: stats}
}

// List godoc
// @Summary List timetable entries
// @Tags Timetable
// @Produce json
// @Param semesterId query string false "Semester ID"
// @Param courseId query string false "Course ID"
// @Param instructorId query string false "Instructor ID"
// @Param roomId query string false "Room ID"
// @Param day query string false "Day of week"
// @Param page query int false "Page"
// @Param pageSize query int false "Page size"
// @Success 200 {object} response.Envelope
// @Router /timetable [get]
func (h *TimetableHandler) List(c *gin.Context) {
	var query dto.TimetableQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid timetable query"))
		return
	}
	entries, pagination, err := h.service.List(c.Request.Context(), query)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, entries, pagination)
}

// SemesterView godoc
// @Summary Get the full timetable for a semester
// @Tags Timetable
// @Produce json
// @Param semesterId path string true "Semester ID"
// @Success 200 {object} response.Envelope
// @Router /timetable/semester/{semesterId} [get]
func (h *TimetableHandler) SemesterView(c *gin.Context) {
	entries, err := h.service.SemesterView(c.Request.Context(), c.Param("semesterId"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, entries, nil)
}

// Get godoc
// @Summary Get one timetable entry
// @Tags Timetable
// @Produce json
// @Param id path string true "Entry ID"
// @Success 200 {object} response.Envelope
// @Router /timetable/{id} [get]
func (h *TimetableHandler) Get(c *gin.Context) {
	entry, err := h.service.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, entry, nil)
}

// Create godoc
// @Summary Create a manual timetable entry
// @Tags Timetable
// @Accept json
// @Produce json
// @Param payload body dto.CreateTimetableEntryRequest true "Entry payload"
// @Success 201 {object} response.Envelope
// @Router /timetable [post]
func (h *TimetableHandler) Create(c *gin.Context) {
	var req dto.CreateTimetableEntryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid entry payload"))
		return
	}
	entry, err := h.service.Create(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, entry)
}

// Update godoc
// @Summary Move a timetable entry
// @Tags Timetable
// @Accept json
// @Produce json
// @Param id path string true "Entry ID"
// @Param payload body dto.UpdateTimetableEntryRequest true "Update payload"
// @Success 200 {object} response.Envelope
// @Router /timetable/{id} [put]
func (h *TimetableHandler) Update(c *gin.Context) {
	var req dto.UpdateTimetableEntryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid update payload"))
		return
	}
	entry, err := h.service.Update(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, entry, nil)
}

// Delete godoc
// @Summary Delete a timetable entry
// @Tags Timetable
// @Param id path string true "Entry ID"
// @Success 204
// @Router /timetable/{id} [delete]
func (h *TimetableHandler) Delete(c *gin.Context) {
	if err := h.service.Delete(c.Request.Context(), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// ClearSemester godoc
// @Summary Delete every timetable entry in a semester
// @Tags Timetable
// @Produce json
// @Param semesterId path string true "Semester ID"
// @Success 200 {object} response.Envelope
// @Router /timetable/semester/{semesterId} [delete]
func (h *TimetableHandler) ClearSemester(c *gin.Context) {
	removed, err := h.service.ClearSemester(c.Request.Context(), c.Param("semesterId"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, gin.H{"removed": removed}, nil)
}

// Statistics godoc
// @Summary Get utilization statistics for a semester timetable
// @Tags Timetable
// @Produce json
// @Param semesterId path string true "Semester ID"
// @Success 200 {object} response.Envelope
// @Router /timetable/semester/{semesterId}/statistics [get]
func (h *TimetableHandler) Statistics(c *gin.Context) {
	stats, err := h.stats.Statistics(c.Request.Context(), c.Param("semesterId"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, stats, nil)
}

// ExportCSV godoc
// @Summary Export a semester timetable as CSV
// @Tags Timetable
// @Produce text/csv
// @Param semesterId path string true "Semester ID"
// @Success 200 {string} string "CSV payload"
// @Router /timetable/semester/{semesterId}/export/csv [get]
func (h *TimetableHandler) ExportCSV(c *gin.Context) {
	payload, err := h.service.ExportCSV(c.Request.Context(), c.Param("semesterId"))
	if err != nil {
		response.Error(c, err)
		return
	}
	c.Header("Content-Disposition", `attachment; filename="timetable.csv"`)
	c.Data(http.StatusOK, "text/csv", payload)
}

// ExportPDF godoc
// @Summary Export a semester timetable as PDF
// @Tags Timetable
// @Produce application/pdf
// @Param semesterId path string true "Semester ID"
// @Success 200 {string} string "PDF payload"
// @Router /timetable/semester/{semesterId}/export/pdf [get]
func (h *TimetableHandler) ExportPDF(c *gin.Context) {
	payload, err := h.service.ExportPDF(c.Request.Context(), c.Param("semesterId"))
	if err != nil {
		response.Error(c, err)
		return
	}
	c.Header("Content-Disposition", `attachment; filename="timetable.pdf"`)
	c.Data(http.StatusOK, "application/pdf", payload)
}
