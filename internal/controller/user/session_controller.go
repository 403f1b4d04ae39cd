package user

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/lshigami/Bilim/internal/controller"
	"github.com/lshigami/Bilim/internal/dto"
	"github.com/lshigami/Bilim/internal/middleware"
	"github.com/lshigami/Bilim/internal/service"
	"github.com/rs/zerolog/log"
)

const writeWait = 5 * time.Second

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

type SessionController struct {
	sessionService service.SessionService
}

func NewSessionController(ss service.SessionService) *SessionController {
	return &SessionController{sessionService: ss}
}

// Start godoc
// @Summary Start a timed session over a test
// @Description The countdown runs on the server. Answering the last question or running out of time completes the session and stores the result.
// @Tags Sessions
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param session body dto.StartSessionRequest true "Test to take"
// @Success 201 {object} dto.SessionResponse
// @Failure 400 {object} dto.ErrorResponse "Test has no questions"
// @Failure 404 {object} dto.ErrorResponse "Test not found"
// @Router /sessions [post]
func (c *SessionController) Start(ctx *gin.Context) {
	var req dto.StartSessionRequest
	if !controller.BindJSON(ctx, &req) {
		return
	}
	resp, err := c.sessionService.Start(ctx.Request.Context(), middleware.UserID(ctx), req.TestID)
	if err != nil {
		controller.RespondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusCreated, resp)
}

// Get godoc
// @Summary Current state of a session
// @Tags Sessions
// @Produce json
// @Security BearerAuth
// @Param session_id path string true "Session ID"
// @Success 200 {object} dto.SessionResponse
// @Failure 403 {object} dto.ErrorResponse "Session belongs to another user"
// @Failure 404 {object} dto.ErrorResponse "Session not found"
// @Router /sessions/{session_id} [get]
func (c *SessionController) Get(ctx *gin.Context) {
	resp, err := c.sessionService.Get(ctx.Request.Context(), middleware.UserID(ctx), ctx.Param("session_id"))
	c.respond(ctx, resp, err)
}

// SelectAnswer godoc
// @Summary Pick an option for the current question
// @Description Replaces any earlier pick for the same question.
// @Tags Sessions
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param session_id path string true "Session ID"
// @Param answer body dto.SelectAnswerRequest true "Chosen option"
// @Success 200 {object} dto.SessionResponse
// @Failure 400 {object} dto.ErrorResponse "Option out of range or session not running"
// @Router /sessions/{session_id}/answer [post]
func (c *SessionController) SelectAnswer(ctx *gin.Context) {
	var req dto.SelectAnswerRequest
	if !controller.BindJSON(ctx, &req) {
		return
	}
	resp, err := c.sessionService.SelectAnswer(ctx.Request.Context(), middleware.UserID(ctx), ctx.Param("session_id"), *req.OptionIndex)
	c.respond(ctx, resp, err)
}

// Advance godoc
// @Summary Commit the pick and move to the next question
// @Tags Sessions
// @Produce json
// @Security BearerAuth
// @Param session_id path string true "Session ID"
// @Success 200 {object} dto.SessionResponse
// @Failure 400 {object} dto.ErrorResponse "No option selected"
// @Router /sessions/{session_id}/advance [post]
func (c *SessionController) Advance(ctx *gin.Context) {
	resp, err := c.sessionService.Advance(ctx.Request.Context(), middleware.UserID(ctx), ctx.Param("session_id"))
	c.respond(ctx, resp, err)
}

// Restart godoc
// @Summary Start the same questions over
// @Tags Sessions
// @Produce json
// @Security BearerAuth
// @Param session_id path string true "Session ID"
// @Success 200 {object} dto.SessionResponse
// @Router /sessions/{session_id}/restart [post]
func (c *SessionController) Restart(ctx *gin.Context) {
	resp, err := c.sessionService.Restart(ctx.Request.Context(), middleware.UserID(ctx), ctx.Param("session_id"))
	c.respond(ctx, resp, err)
}

// Cancel godoc
// @Summary Abandon a session
// @Description Nothing is stored.
// @Tags Sessions
// @Security BearerAuth
// @Param session_id path string true "Session ID"
// @Success 204
// @Failure 404 {object} dto.ErrorResponse "Session not found"
// @Router /sessions/{session_id} [delete]
func (c *SessionController) Cancel(ctx *gin.Context) {
	if err := c.sessionService.Cancel(ctx.Request.Context(), middleware.UserID(ctx), ctx.Param("session_id")); err != nil {
		controller.RespondError(ctx, err)
		return
	}
	ctx.Status(http.StatusNoContent)
}

// Watch godoc
// @Summary Stream session snapshots over a websocket
// @Description Sends the current snapshot, then one per change including every timer tick. Browsers pass the JWT in the token query parameter.
// @Tags Sessions
// @Param session_id path string true "Session ID"
// @Param token query string false "JWT when no Authorization header can be sent"
// @Router /sessions/{session_id}/ws [get]
func (c *SessionController) Watch(ctx *gin.Context) {
	userID := middleware.UserID(ctx)
	sessionID := ctx.Param("session_id")

	updates, unsubscribe, err := c.sessionService.Subscribe(userID, sessionID)
	if err != nil {
		controller.RespondError(ctx, err)
		return
	}
	defer unsubscribe()

	conn, err := upgrader.Upgrade(ctx.Writer, ctx.Request, nil)
	if err != nil {
		log.Error().Err(err).Str("sessionID", sessionID).Msg("Failed to upgrade to websocket")
		return
	}
	defer conn.Close()
	log.Info().Uint("userID", userID).Str("sessionID", sessionID).Msg("Session watcher connected")

	// The read loop only notices the client going away.
	closed := make(chan struct{})
	go func() {
		defer close(closed)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	for {
		select {
		case snap, ok := <-updates:
			if !ok {
				_ = conn.WriteControl(websocket.CloseMessage,
					websocket.FormatCloseMessage(websocket.CloseNormalClosure, "session closed"),
					time.Now().Add(writeWait))
				return
			}
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteJSON(snap); err != nil {
				log.Warn().Err(err).Str("sessionID", sessionID).Msg("Websocket write failed")
				return
			}
		case <-closed:
			log.Info().Str("sessionID", sessionID).Msg("Session watcher disconnected")
			return
		}
	}
}

func (c *SessionController) respond(ctx *gin.Context, resp *dto.SessionResponse, err error) {
	if err != nil {
		controller.RespondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, resp)
}
