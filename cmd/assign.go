package main

import (
	"fmt"

	"github.com/lshigami/Bilim/config"
	"github.com/lshigami/Bilim/internal/experiment"
	"github.com/spf13/cobra"
)

var assignCmd = &cobra.Command{
	Use:   "assign <visitor-id> [experiment]",
	Short: "Show which variant a visitor gets",
	Long:  "Computes the deterministic bucket and variant for a visitor without touching the database. The experiment defaults to landing.",
	Args:  cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		name := "landing"
		if len(args) == 2 {
			name = args[1]
		}

		var exps []experiment.Experiment
		if table, _ := cmd.Flags().GetString("table"); table != "" {
			parsed, err := experiment.ParseTable(table)
			if err != nil {
				return err
			}
			exps = parsed
		} else {
			cfg, err := config.NewConfig()
			if err != nil {
				return err
			}
			exps = cfg.Experiments
		}

		assigner, err := experiment.NewAssigner(experiment.NewMemoryStore(), exps)
		if err != nil {
			return err
		}
		a, err := assigner.Assign(cmd.Context(), args[0], name)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "experiment=%s visitor=%s bucket=%d variant=%s\n",
			name, args[0], experiment.Bucket(args[0], name), a.Variant)
		return nil
	},
}

func init() {
	assignCmd.Flags().String("table", "", `experiment table overriding EXPERIMENTS, e.g. "landing=control:50,B:50"`)
}
