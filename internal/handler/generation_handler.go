package handler

import (
	"context"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/uni-timetable-api/internal/dto"
	"github.com/noah-isme/uni-timetable-api/internal/service"
	appErrors "github.com/noah-isme/uni-timetable-api/pkg/errors"
	"github.com/noah-isme/uni-timetable-api/pkg/response"
)

type generationManager interface {
	CreateJob(ctx context.Context, req dto.GenerateTimetableRequest) (*dto.GenerationJobResponse, error)
	GetJob(ctx context.Context, id string) (*dto.GenerationJobResponse, error)
	GetResult(ctx context.Context, id string) (*dto.GenerationRunResult, error)
	ListJobs(ctx context.Context, semesterID string, limit int) ([]dto.GenerationJobResponse, error)
}

// GenerationHandler exposes timetable generation endpoints.
type GenerationHandler struct {
	service generationManager
}

// NewGenerationHandler constructs the handler.
func NewGenerationHandler(svc *service.GenerationService) *GenerationHandler {
	return &GenerationHandler{service: svc}
}

// Generate godoc
// @Summary Start a timetable generation run
// @Description Creates a generation job and queues it for background processing. Poll the job endpoint for completion.
// @Tags Generation
// @Accept json
// @Produce json
// @Param payload body dto.GenerateTimetableRequest true "Generation request"
// @Success 202 {object} response.Envelope
// @Router /timetable/generate [post]
func (h *GenerationHandler) Generate(c *gin.Context) {
	var req dto.GenerateTimetableRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid generation payload"))
		return
	}
	job, err := h.service.CreateJob(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusAccepted, job, nil)
}

// GetJob godoc
// @Summary Get a generation job
// @Tags Generation
// @Produce json
// @Param id path string true "Job ID"
// @Success 200 {object} response.Envelope
// @Router /generation-jobs/{id} [get]
func (h *GenerationHandler) GetJob(c *gin.Context) {
	job, err := h.service.GetJob(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, job, nil)
}

// GetResult godoc
// @Summary Get the outcome of a finished generation job
// @Tags Generation
// @Produce json
// @Param id path string true "Job ID"
// @Success 200 {object} response.Envelope
// @Router /generation-jobs/{id}/result [get]
func (h *GenerationHandler) GetResult(c *gin.Context) {
	result, err := h.service.GetResult(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, result, nil)
}

// ListJobs godoc
// @Summary List generation jobs for a semester
// @Tags Generation
// @Produce json
// @Param semesterId query string true "Semester ID"
// @Param limit query int false "Maximum jobs returned"
// @Success 200 {object} response.Envelope
// @Router /generation-jobs [get]
func (h *GenerationHandler) ListJobs(c *gin.Context) {
	limit, _ := strconv.Atoi(c.Query("limit"))
	list, err := h.service.ListJobs(c.Request.Context(), c.Query("semesterId"), limit)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, list, nil)
}
