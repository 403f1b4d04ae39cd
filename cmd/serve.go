package main

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/lshigami/Bilim/config"
	"github.com/lshigami/Bilim/database"
	_ "github.com/lshigami/Bilim/docs" // Swagger docs - generated by swag init
	adminctrl "github.com/lshigami/Bilim/internal/controller/admin"
	userctrl "github.com/lshigami/Bilim/internal/controller/user"
	"github.com/lshigami/Bilim/internal/experiment"
	"github.com/lshigami/Bilim/internal/llm"
	"github.com/lshigami/Bilim/internal/logger"
	"github.com/lshigami/Bilim/internal/middleware"
	"github.com/lshigami/Bilim/internal/repository"
	"github.com/lshigami/Bilim/internal/router"
	"github.com/lshigami/Bilim/internal/scheduler"
	"github.com/lshigami/Bilim/internal/service"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"go.uber.org/fx"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API",
	RunE: func(cmd *cobra.Command, args []string) error {
		app := newApp()
		if err := app.Start(context.Background()); err != nil {
			log.Error().Err(err).Msg("Failed to start application")
			return err
		}

		<-app.Done()
		log.Info().Msg("Application shutting down gracefully...")
		stopCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		return app.Stop(stopCtx)
	},
}

func newApp() *fx.App {
	return fx.New(
		// Core Application Components
		fx.Provide(
			config.NewConfig,
			database.NewDatabase,
			router.NewEngine,
			func(cfg *config.Config) (*llm.Chain, error) {
				return llm.NewChainFromConfig(context.Background(), cfg.LLM)
			},
			func(cfg *config.Config, repo repository.ExperimentRepository) (*experiment.Assigner, error) {
				return experiment.NewAssigner(repo, cfg.Experiments)
			},
		),

		// Repositories Layer
		fx.Provide(
			repository.NewUserRepository,
			repository.NewTestRepository,
			repository.NewQuestionRepository,
			repository.NewResultRepository,
			repository.NewUserStatsRepository,
			repository.NewExperimentRepository,
			repository.NewChatRepository,
		),

		// Services Layer
		fx.Provide(
			service.NewAuthService,
			func(auth service.AuthService) middleware.TokenParser { return auth },
			service.NewUserTestService,
			service.NewAdminTestService,
			service.NewQuestionService,
			service.NewResultService,
			service.NewStatsService,
			service.NewSessionService,
			service.NewExperimentService,
			service.NewTutorService,
			func(sessions service.SessionService) *scheduler.Scheduler {
				return scheduler.New(sessions, scheduler.DefaultReapInterval)
			},
		),

		// API Controllers Layer
		fx.Provide(
			userctrl.NewAuthController,
			userctrl.NewUserTestController,
			userctrl.NewResultController,
			userctrl.NewSessionController,
			userctrl.NewChatController,
			userctrl.NewExperimentController,
			adminctrl.NewAdminTestController,
			adminctrl.NewAdminExperimentController,
		),

		fx.Invoke(func(cfg *config.Config) { logger.SetLevel(cfg.LogLevel) }),
		fx.Invoke(database.AutoMigrate),
		fx.Invoke(StartBackgroundJobs),
		fx.Invoke(RegisterRoutesAndStartServer),
	)
}

// StartBackgroundJobs runs the session reaper for the lifetime of the app and
// stops every live session timer on shutdown.
func StartBackgroundJobs(lc fx.Lifecycle, sched *scheduler.Scheduler, sessions service.SessionService) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			return sched.Start()
		},
		OnStop: func(ctx context.Context) error {
			sched.Stop()
			sessions.Shutdown()
			return nil
		},
	})
}

// RegisterRoutesAndStartServer configures API routes and manages server lifecycle.
func RegisterRoutesAndStartServer(
	lc fx.Lifecycle,
	engine *gin.Engine,
	cfg *config.Config,
	tokens middleware.TokenParser,
	ctrls router.Controllers,
) {
	router.Register(engine, tokens, ctrls)

	server := &http.Server{
		Addr:    ":" + cfg.Server.Port,
		Handler: engine,
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			log.Info().Msgf("Bilim API server starting on port %s", cfg.Server.Port)
			log.Info().Msgf("Swagger UI available at http://localhost:%s/swagger/index.html", cfg.Server.Port)
			go func() {
				if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					log.Fatal().Err(err).Msg("Server ListenAndServe failed")
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			log.Info().Msg("Server shutting down...")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			return server.Shutdown(shutdownCtx)
		},
	})
}
