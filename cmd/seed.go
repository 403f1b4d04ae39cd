package main

import (
	"fmt"

	"github.com/lshigami/Bilim/internal/repository"
	"github.com/lshigami/Bilim/internal/seed"
	"github.com/spf13/cobra"
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Load the starter Russian and Kazakh tests",
	RunE: func(cmd *cobra.Command, args []string) error {
		_, db, err := openDB()
		if err != nil {
			return err
		}
		created, skipped, err := seed.Load(cmd.Context(), db, repository.NewTestRepository(db))
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "seeded %d tests, %d already present\n", created, skipped)
		return nil
	},
}
