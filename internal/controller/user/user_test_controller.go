package user

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/lshigami/Bilim/internal/controller"
	"github.com/lshigami/Bilim/internal/dto"
	"github.com/lshigami/Bilim/internal/middleware"
	"github.com/lshigami/Bilim/internal/model"
	"github.com/lshigami/Bilim/internal/service"
	"github.com/rs/zerolog/log"
)

type UserTestController struct {
	userTestService service.UserTestService
}

func NewUserTestController(uts service.UserTestService) *UserTestController {
	return &UserTestController{userTestService: uts}
}

// GetAllTests godoc
// @Summary List available tests
// @Description Catalogue of tests, optionally filtered by subject, difficulty and language.
// @Tags Tests
// @Produce json
// @Security BearerAuth
// @Param subject query string false "Subject"
// @Param difficulty query string false "easy, medium or hard"
// @Param language query string false "ru or kk"
// @Success 200 {array} dto.TestSummaryDTO
// @Failure 400 {object} dto.ErrorResponse "Invalid filter"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /tests [get]
func (c *UserTestController) GetAllTests(ctx *gin.Context) {
	var filter dto.TestFilter
	if err := ctx.ShouldBindQuery(&filter); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: err.Error()})
		return
	}
	tests, err := c.userTestService.GetAllTests(ctx.Request.Context(), filter)
	if err != nil {
		controller.RespondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, tests)
}

// GetTestDetails godoc
// @Summary Get a test with its questions
// @Description Correct answers are only included for teachers and admins.
// @Tags Tests
// @Produce json
// @Security BearerAuth
// @Param test_id path int true "Test ID"
// @Success 200 {object} dto.TestResponseDTO
// @Failure 400 {object} dto.ErrorResponse "Invalid Test ID format"
// @Failure 404 {object} dto.ErrorResponse "Test not found"
// @Router /tests/{test_id} [get]
func (c *UserTestController) GetTestDetails(ctx *gin.Context) {
	testID, ok := controller.UintParam(ctx, "test_id")
	if !ok {
		return
	}
	role := middleware.Role(ctx)
	reveal := role == model.RoleTeacher || role == model.RoleAdmin

	details, err := c.userTestService.GetTestDetails(ctx.Request.Context(), testID, reveal)
	if err != nil {
		log.Warn().Err(err).Uint("testID", testID).Msg("GetTestDetails: service error")
		controller.RespondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, details)
}
