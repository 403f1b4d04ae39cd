package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/lshigami/Bilim/internal/logger"
	"github.com/spf13/cobra"
)

// @title Bilim API
// @version 1.0
// @description Test preparation backend for Russian and Kazakh speaking students: timed test sessions, results, statistics, A/B experiments and an AI tutor.
// @contact.name API Support
// @contact.email support@bilim.kz
// @license.name Apache 2.0
// @license.url http://www.apache.org/licenses/LICENSE-2.0.html
// @host localhost:8080
// @BasePath /api/v1
// @schemes http https
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	logger.Init()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		stop()
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:          "bilim",
	Short:        "ЕНТ/ҰБТ test preparation backend",
	SilenceUsage: true,
}

func init() {
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(seedCmd)
	rootCmd.AddCommand(importCmd)
	rootCmd.AddCommand(assignCmd)
	rootCmd.AddCommand(playCmd)
}
