package handler

import (
	"context"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/uni-timetable-api/internal/dto"
	"github.com/noah-isme/uni-timetable-api/internal/models"
	"github.com/noah-isme/uni-timetable-api/internal/service"
	appErrors "github.com/noah-isme/uni-timetable-api/pkg/errors"
	"github.com/noah-isme/uni-timetable-api/pkg/response"
)

type instructorManager interface {
	List(ctx context.Context, filter models.InstructorFilter) ([]models.Instructor, *models.Pagination, error)
	Get(ctx context.Context, id string) (*models.Instructor, error)
	Create(ctx context.Context, req dto.CreateInstructorRequest) (*models.Instructor, error)
	Update(ctx context.Context, id string, req dto.UpdateInstructorRequest) (*models.Instructor, error)
	Delete(ctx context.Context, id string) error
	ListAvailability(ctx context.Context, instructorID string) ([]models.InstructorAvailability, error)
	AddAvailability(ctx context.Context, instructorID string, req dto.AvailabilityRequest) (*models.InstructorAvailability, error)
	RemoveAvailability(ctx context.Context, instructorID, windowID string) error
	ListPreferences(ctx context.Context, instructorID string) ([]models.InstructorPreference, error)
	SetPreference(ctx context.Context, instructorID string, req dto.PreferenceRequest) (*models.InstructorPreference, error)
}

// InstructorHandler exposes instructor catalog endpoints.
type InstructorHandler struct {
	service instructorManager
}

// NewInstructorHandler constructs the handler.
func NewInstructorHandler(svc *service.InstructorService) *InstructorHandler {
	return &InstructorHandler{service: svc}
}

// List godoc
// @Summary List instructors
// @Tags Catalog
// @Produce json
// @Param departmentId query string false "Department ID"
// @Param search query string false "Search by name or email"
// @Success 200 {object} response.Envelope
// @Router /instructors [get]
func (h *InstructorHandler) List(c *gin.Context) {
	page, _ := strconv.Atoi(c.Query("page"))
	size, _ := strconv.Atoi(c.Query("pageSize"))
	filter := models.InstructorFilter{
		DepartmentID: c.Query("departmentId"),
		Search:       c.Query("search"),
		Page:         page,
		PageSize:     size,
		SortBy:       c.Query("sort"),
		SortOrder:    c.Query("order"),
	}
	instructors, pagination, err := h.service.List(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, instructors, pagination)
}

// Get godoc
// @Summary Get one instructor
// @Tags Catalog
// @Produce json
// @Param id path string true "Instructor ID"
// @Success 200 {object} response.Envelope
// @Router /instructors/{id} [get]
func (h *InstructorHandler) Get(c *gin.Context) {
	instructor, err := h.service.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, instructor, nil)
}

// Create godoc
// @Summary Register an instructor
// @Tags Catalog
// @Accept json
// @Produce json
// @Param payload body dto.CreateInstructorRequest true "Instructor payload"
// @Success 201 {object} response.Envelope
// @Router /instructors [post]
func (h *InstructorHandler) Create(c *gin.Context) {
	var req dto.CreateInstructorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid instructor payload"))
		return
	}
	instructor, err := h.service.Create(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, instructor)
}

// Update godoc
// @Summary Update an instructor
// @Tags Catalog
// @Accept json
// @Produce json
// @Param id path string true "Instructor ID"
// @Param payload body dto.UpdateInstructorRequest true "Update payload"
// @Success 200 {object} response.Envelope
// @Router /instructors/{id} [put]
func (h *InstructorHandler) Update(c *gin.Context) {
	var req dto.UpdateInstructorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid instructor payload"))
		return
	}
	instructor, err := h.service.Update(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, instructor, nil)
}

// Delete godoc
// @Summary Delete an instructor
// @Tags Catalog
// @Param id path string true "Instructor ID"
// @Success 204
// @Router /instructors/{id} [delete]
func (h *InstructorHandler) Delete(c *gin.Context) {
	if err := h.service.Delete(c.Request.Context(), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// ListAvailability godoc
// @Summary List availability windows for an instructor
// @Tags Catalog
// @Produce json
// @Param id path string true "Instructor ID"
// @Success 200 {object} response.Envelope
// @Router /instructors/{id}/availability [get]
func (h *InstructorHandler) ListAvailability(c *gin.Context) {
	windows, err := h.service.ListAvailability(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, windows, nil)
}

// AddAvailability godoc
// @Summary Declare an availability window
// @Tags Catalog
// @Accept json
// @Produce json
// @Param id path string true "Instructor ID"
// @Param payload body dto.AvailabilityRequest true "Availability payload"
// @Success 201 {object} response.Envelope
// @Router /instructors/{id}/availability [post]
func (h *InstructorHandler) AddAvailability(c *gin.Context) {
	var req dto.AvailabilityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid availability payload"))
		return
	}
	window, err := h.service.AddAvailability(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, window)
}

// RemoveAvailability godoc
// @Summary Delete an availability window
// @Tags Catalog
// @Param id path string true "Instructor ID"
// @Param windowId path string true "Window ID"
// @Success 204
// @Router /instructors/{id}/availability/{windowId} [delete]
func (h *InstructorHandler) RemoveAvailability(c *gin.Context) {
	if err := h.service.RemoveAvailability(c.Request.Context(), c.Param("id"), c.Param("windowId")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// ListPreferences godoc
// @Summary List course preferences for an instructor
// @Tags Catalog
// @Produce json
// @Param id path string true "Instructor ID"
// @Success 200 {object} response.Envelope
// @Router /instructors/{id}/preferences [get]
func (h *InstructorHandler) ListPreferences(c *gin.Context) {
	prefs, err := h.service.ListPreferences(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, prefs, nil)
}

// SetPreference godoc
// @Summary Set a course preference score
// @Tags Catalog
// @Accept json
// @Produce json
// @Param id path string true "Instructor ID"
// @Param payload body dto.PreferenceRequest true "Preference payload"
// @Success 200 {object} response.Envelope
// @Router /instructors/{id}/preferences [put]
func (h *InstructorHandler) SetPreference(c *gin.Context) {
	var req dto.PreferenceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid preference payload"))
		return
	}
	pref, err := h.service.SetPreference(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, pref, nil)
}
