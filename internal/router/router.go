// Package router mounts the HTTP API on a gin engine.
package router

import (
	"github.com/gin-gonic/gin"
	adminctrl "github.com/lshigami/Bilim/internal/controller/admin"
	userctrl "github.com/lshigami/Bilim/internal/controller/user"
	"github.com/lshigami/Bilim/internal/middleware"
	"github.com/lshigami/Bilim/internal/model"
	"go.uber.org/fx"
)

// Controllers collects every handler set the API exposes.
type Controllers struct {
	fx.In

	Auth            *userctrl.AuthController
	Tests           *userctrl.UserTestController
	Results         *userctrl.ResultController
	Sessions        *userctrl.SessionController
	Chat            *userctrl.ChatController
	Experiments     *userctrl.ExperimentController
	AdminTests      *adminctrl.AdminTestController
	AdminExperiment *adminctrl.AdminExperimentController
}

// Register mounts all routes under /api/v1. Registration, login and the
// experiment endpoints are public; everything else needs a JWT, and /admin
// additionally needs the teacher or admin role.
func Register(r *gin.Engine, tokens middleware.TokenParser, c Controllers) {
	api := r.Group("/api/v1")

	api.POST("/auth/register", c.Auth.Register)
	api.POST("/auth/login", c.Auth.Login)

	api.POST("/experiments/:name/assignments", c.Experiments.Assign)
	api.POST("/experiments/:name/events", c.Experiments.RecordEvent)

	authed := api.Group("", middleware.JWTAuth(tokens))
	{
		authed.GET("/auth/me", c.Auth.Me)

		authed.GET("/tests", c.Tests.GetAllTests)
		authed.GET("/tests/:test_id", c.Tests.GetTestDetails)

		authed.POST("/results", c.Results.SubmitResult)
		authed.GET("/results", c.Results.ListResults)
		authed.GET("/results/:result_id", c.Results.GetResult)
		authed.GET("/stats/me", c.Results.GetMyStats)

		sessions := authed.Group("/sessions")
		sessions.POST("", c.Sessions.Start)
		sessions.GET("/:session_id", c.Sessions.Get)
		sessions.POST("/:session_id/answer", c.Sessions.SelectAnswer)
		sessions.POST("/:session_id/advance", c.Sessions.Advance)
		sessions.POST("/:session_id/restart", c.Sessions.Restart)
		sessions.DELETE("/:session_id", c.Sessions.Cancel)
		sessions.GET("/:session_id/ws", c.Sessions.Watch)

		authed.POST("/chat", c.Chat.Chat)
		authed.GET("/chat/history", c.Chat.History)
	}

	admin := authed.Group("/admin", middleware.RequireRole(model.RoleTeacher, model.RoleAdmin))
	{
		tests := admin.Group("/tests")
		tests.POST("", c.AdminTests.CreateTest)
		tests.DELETE("/:test_id", c.AdminTests.DeleteTest)
		tests.POST("/:test_id/questions/import", c.AdminTests.ImportQuestions)
		tests.GET("/:test_id/questions", c.AdminTests.GetQuestions)

		admin.GET("/experiments/:name/stats", c.AdminExperiment.Stats)
	}
}
