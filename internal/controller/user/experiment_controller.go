package user

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/lshigami/Bilim/internal/controller"
	"github.com/lshigami/Bilim/internal/dto"
	"github.com/lshigami/Bilim/internal/service"
)

type ExperimentController struct {
	experimentService service.ExperimentService
}

func NewExperimentController(es service.ExperimentService) *ExperimentController {
	return &ExperimentController{experimentService: es}
}

// Assign godoc
// @Summary Get the visitor's variant of an experiment
// @Description Deterministic per visitor and experiment; a stored assignment always wins.
// @Tags Experiments
// @Accept json
// @Produce json
// @Param name path string true "Experiment name"
// @Param visitor body dto.AssignmentRequest true "Visitor"
// @Success 200 {object} dto.AssignmentResponse
// @Failure 400 {object} dto.ErrorResponse "Missing visitor id"
// @Failure 404 {object} dto.ErrorResponse "Unknown experiment"
// @Router /experiments/{name}/assignments [post]
func (c *ExperimentController) Assign(ctx *gin.Context) {
	var req dto.AssignmentRequest
	if !controller.BindJSON(ctx, &req) {
		return
	}
	resp, err := c.experimentService.Assign(ctx.Request.Context(), ctx.Param("name"), req.VisitorID)
	if err != nil {
		controller.RespondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, resp)
}

// RecordEvent godoc
// @Summary Record a view or conversion
// @Tags Experiments
// @Accept json
// @Param name path string true "Experiment name"
// @Param event body dto.ExperimentEventRequest true "Event"
// @Success 204
// @Failure 400 {object} dto.ErrorResponse "Invalid event"
// @Failure 404 {object} dto.ErrorResponse "Unknown experiment"
// @Router /experiments/{name}/events [post]
func (c *ExperimentController) RecordEvent(ctx *gin.Context) {
	var req dto.ExperimentEventRequest
	if !controller.BindJSON(ctx, &req) {
		return
	}
	if err := c.experimentService.RecordEvent(ctx.Request.Context(), ctx.Param("name"), req); err != nil {
		controller.RespondError(ctx, err)
		return
	}
	ctx.Status(http.StatusNoContent)
}
