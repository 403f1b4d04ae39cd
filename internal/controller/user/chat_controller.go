package user

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/lshigami/Bilim/internal/controller"
	"github.com/lshigami/Bilim/internal/dto"
	"github.com/lshigami/Bilim/internal/middleware"
	"github.com/lshigami/Bilim/internal/service"
)

type ChatController struct {
	tutorService service.TutorService
}

func NewChatController(ts service.TutorService) *ChatController {
	return &ChatController{tutorService: ts}
}

// Chat godoc
// @Summary Ask the AI tutor
// @Description Providers are tried in the configured order. When all of them fail the reply is a canned phrase in the requested language and fallback is true.
// @Tags Tutor
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param message body dto.ChatRequest true "Question for the tutor"
// @Success 200 {object} dto.ChatResponse
// @Failure 400 {object} dto.ErrorResponse "Invalid input"
// @Router /chat [post]
func (c *ChatController) Chat(ctx *gin.Context) {
	var req dto.ChatRequest
	if !controller.BindJSON(ctx, &req) {
		return
	}
	resp, err := c.tutorService.Chat(ctx.Request.Context(), middleware.UserID(ctx), req)
	if err != nil {
		controller.RespondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, resp)
}

// History godoc
// @Summary My recent tutor exchanges
// @Tags Tutor
// @Produce json
// @Security BearerAuth
// @Success 200 {array} dto.ChatMessageDTO
// @Router /chat/history [get]
func (c *ChatController) History(ctx *gin.Context) {
	msgs, err := c.tutorService.History(ctx.Request.Context(), middleware.UserID(ctx))
	if err != nil {
		controller.RespondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, msgs)
}
