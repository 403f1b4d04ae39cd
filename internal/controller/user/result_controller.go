package user

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/lshigami/Bilim/internal/controller"
	"github.com/lshigami/Bilim/internal/dto"
	"github.com/lshigami/Bilim/internal/middleware"
	"github.com/lshigami/Bilim/internal/service"
	"github.com/rs/zerolog/log"
)

type ResultController struct {
	resultService service.ResultService
	statsService  service.StatsService
}

func NewResultController(rs service.ResultService, ss service.StatsService) *ResultController {
	return &ResultController{resultService: rs, statsService: ss}
}

// SubmitResult godoc
// @Summary Store a completed test result
// @Description When testId is given the server re-scores the answers; otherwise the numbers are checked for consistency. Updates the caller's stats.
// @Tags Results
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param result body dto.ResultSubmitRequest true "Completed test"
// @Success 201 {object} dto.ResultResponse
// @Failure 400 {object} dto.ErrorResponse "Missing or inconsistent fields"
// @Failure 401 {object} dto.ErrorResponse "Not authenticated"
// @Failure 500 {object} dto.ErrorResponse "Storage failure"
// @Router /results [post]
func (c *ResultController) SubmitResult(ctx *gin.Context) {
	var req dto.ResultSubmitRequest
	if !controller.BindJSON(ctx, &req) {
		return
	}
	userID := middleware.UserID(ctx)
	log.Info().Uint("userID", userID).Int("answerCount", len(req.Answers)).Msg("Received result submission")

	resp, err := c.resultService.SubmitRequest(ctx.Request.Context(), userID, req)
	if err != nil {
		controller.RespondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusCreated, resp)
}

// ListResults godoc
// @Summary List my results
// @Description The caller's results, newest first.
// @Tags Results
// @Produce json
// @Security BearerAuth
// @Success 200 {array} dto.ResultResponse
// @Router /results [get]
func (c *ResultController) ListResults(ctx *gin.Context) {
	results, err := c.resultService.ListResults(ctx.Request.Context(), middleware.UserID(ctx))
	if err != nil {
		controller.RespondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, results)
}

// GetResult godoc
// @Summary Get one of my results with its answers
// @Tags Results
// @Produce json
// @Security BearerAuth
// @Param result_id path int true "Result ID"
// @Success 200 {object} dto.ResultResponse
// @Failure 403 {object} dto.ErrorResponse "Result belongs to another user"
// @Failure 404 {object} dto.ErrorResponse "Result not found"
// @Router /results/{result_id} [get]
func (c *ResultController) GetResult(ctx *gin.Context) {
	resultID, ok := controller.UintParam(ctx, "result_id")
	if !ok {
		return
	}
	resp, err := c.resultService.GetResult(ctx.Request.Context(), middleware.UserID(ctx), resultID)
	if err != nil {
		controller.RespondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, resp)
}

// GetMyStats godoc
// @Summary Aggregated statistics for the caller
// @Tags Stats
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.StatsResponse
// @Failure 503 {object} dto.ErrorResponse "Result store unavailable"
// @Router /stats/me [get]
func (c *ResultController) GetMyStats(ctx *gin.Context) {
	stats, err := c.statsService.GetStats(ctx.Request.Context(), middleware.UserID(ctx))
	if err != nil {
		controller.RespondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, stats)
}
