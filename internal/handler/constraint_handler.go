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

type constraintManager interface {
	List(ctx context.Context) ([]models.ConstraintDefinition, error)
	Upsert(ctx context.Context, req dto.ConstraintUpsertRequest) (*models.ConstraintDefinition, error)
	Delete(ctx context.Context, id string) error
}

// ConstraintHandler exposes the constraint registry endpoints.
type ConstraintHandler struct {
	service constraintManager
}

// NewConstraintHandler constructs the handler.
func NewConstraintHandler(svc *service.ConstraintService) *ConstraintHandler {
	return &ConstraintHandler{service: svc}
}

// List godoc
// @Summary List registered constraint definitions
// @Tags Constraints
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /constraints [get]
func (h *ConstraintHandler) List(c *gin.Context) {
	defs, err := h.service.List(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, defs, nil)
}

// Upsert godoc
// @Summary Register or update a constraint definition
// @Tags Constraints
// @Accept json
// @Produce json
// @Param payload body dto.ConstraintUpsertRequest true "Constraint payload"
// @Success 200 {object} response.Envelope
// @Router /constraints [put]
func (h *ConstraintHandler) Upsert(c *gin.Context) {
	var req dto.ConstraintUpsertRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid constraint payload"))
		return
	}
	def, err := h.service.Upsert(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, def, nil)
}

// Delete godoc
// @Summary Delete a constraint definition
// @Tags Constraints
// @Param id path string true "Constraint ID"
// @Success 204
// @Router /constraints/{id} [delete]
func (h *ConstraintHandler) Delete(c *gin.Context) {
	if err := h.service.Delete(c.Request.Context(), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}
