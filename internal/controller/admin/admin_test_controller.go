package admin

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/lshigami/Bilim/internal/controller"
	"github.com/lshigami/Bilim/internal/dto"
	"github.com/lshigami/Bilim/internal/middleware"
	"github.com/lshigami/Bilim/internal/service"
	"github.com/rs/zerolog/log"
)

type AdminTestController struct {
	adminTestService service.AdminTestService
	questionService  service.QuestionService
}

func NewAdminTestController(ats service.AdminTestService, qs service.QuestionService) *AdminTestController {
	return &AdminTestController{adminTestService: ats, questionService: qs}
}

// CreateTest godoc
// @Summary Create a new test with questions
// @Description Teachers and admins can author tests. Question order follows the request.
// @Tags Admin Tests
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param test body dto.TestCreateDTO true "Test with questions"
// @Success 201 {object} dto.TestResponseDTO
// @Failure 400 {object} dto.ErrorResponse "Invalid input"
// @Failure 403 {object} dto.ErrorResponse "Role not allowed"
// @Router /admin/tests [post]
func (c *AdminTestController) CreateTest(ctx *gin.Context) {
	var req dto.TestCreateDTO
	if !controller.BindJSON(ctx, &req) {
		return
	}
	authorID := middleware.UserID(ctx)
	test, err := c.adminTestService.CreateTest(ctx.Request.Context(), authorID, req)
	if err != nil {
		controller.RespondError(ctx, err)
		return
	}
	log.Info().Uint("authorID", authorID).Uint("testID", test.ID).Msg("Test created")
	ctx.JSON(http.StatusCreated, test)
}

// DeleteTest godoc
// @Summary Delete a test
// @Description Tests that already have results cannot be deleted.
// @Tags Admin Tests
// @Security BearerAuth
// @Param test_id path int true "Test ID"
// @Success 204
// @Failure 400 {object} dto.ErrorResponse "Test has results"
// @Failure 404 {object} dto.ErrorResponse "Test not found"
// @Router /admin/tests/{test_id} [delete]
func (c *AdminTestController) DeleteTest(ctx *gin.Context) {
	testID, ok := controller.UintParam(ctx, "test_id")
	if !ok {
		return
	}
	if err := c.adminTestService.DeleteTest(ctx.Request.Context(), testID); err != nil {
		controller.RespondError(ctx, err)
		return
	}
	ctx.Status(http.StatusNoContent)
}

// ImportQuestions godoc
// @Summary Append questions from an Excel workbook
// @Description Columns: A text, B-F options, G correct option (letter or 1-based number), H subject, I difficulty. The first row is a header.
// @Tags Admin Tests
// @Accept multipart/form-data
// @Produce json
// @Security BearerAuth
// @Param test_id path int true "Test ID"
// @Param file formData file true "xlsx workbook"
// @Success 201 {object} dto.ImportResultDTO
// @Failure 400 {object} dto.ErrorResponse "Missing or unreadable file"
// @Failure 404 {object} dto.ErrorResponse "Test not found"
// @Router /admin/tests/{test_id}/questions/import [post]
func (c *AdminTestController) ImportQuestions(ctx *gin.Context) {
	testID, ok := controller.UintParam(ctx, "test_id")
	if !ok {
		return
	}
	header, err := ctx.FormFile("file")
	if err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "file is required"})
		return
	}
	file, err := header.Open()
	if err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "cannot read uploaded file"})
		return
	}
	defer file.Close()

	result, err := c.questionService.ImportQuestions(ctx.Request.Context(), testID, file)
	if err != nil {
		controller.RespondError(ctx, err)
		return
	}
	log.Info().Uint("testID", testID).Str("file", header.Filename).Int("imported", result.Imported).Int("skipped", result.Skipped).Msg("Questions imported")
	ctx.JSON(http.StatusCreated, result)
}

// GetQuestions godoc
// @Summary List a test's questions with correct answers
// @Tags Admin Tests
// @Produce json
// @Security BearerAuth
// @Param test_id path int true "Test ID"
// @Success 200 {array} dto.QuestionResponseDTO
// @Failure 404 {object} dto.ErrorResponse "Test not found"
// @Router /admin/tests/{test_id}/questions [get]
func (c *AdminTestController) GetQuestions(ctx *gin.Context) {
	testID, ok := controller.UintParam(ctx, "test_id")
	if !ok {
		return
	}
	questions, err := c.questionService.GetQuestions(ctx.Request.Context(), testID, true)
	if err != nil {
		controller.RespondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, questions)
}
