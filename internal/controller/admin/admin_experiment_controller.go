package admin

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/lshigami/Bilim/internal/controller"
	"github.com/lshigami/Bilim/internal/service"
)

type AdminExperimentController struct {
	experimentService service.ExperimentService
}

func NewAdminExperimentController(es service.ExperimentService) *AdminExperimentController {
	return &AdminExperimentController{experimentService: es}
}

// Stats godoc
// @Summary Views and conversions per variant
// @Tags Admin Experiments
// @Produce json
// @Security BearerAuth
// @Param name path string true "Experiment name"
// @Success 200 {object} dto.ExperimentStatsDTO
// @Failure 404 {object} dto.ErrorResponse "Unknown experiment"
// @Router /admin/experiments/{name}/stats [get]
func (c *AdminExperimentController) Stats(ctx *gin.Context) {
	stats, err := c.experimentService.Stats(ctx.Request.Context(), ctx.Param("name"))
	if err != nil {
		controller.RespondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, stats)
}
