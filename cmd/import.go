package main

import (
	"fmt"
	"os"
	"strconv"

	"github.com/lshigami/Bilim/internal/repository"
	"github.com/lshigami/Bilim/internal/service"
	"github.com/spf13/cobra"
)

var importCmd = &cobra.Command{
	Use:   "import <test-id> <file.xlsx>",
	Short: "Append questions from an Excel workbook to a test",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		testID, err := strconv.ParseUint(args[0], 10, 32)
		if err != nil {
			return fmt.Errorf("invalid test id %q", args[0])
		}
		f, err := os.Open(args[1])
		if err != nil {
			return err
		}
		defer f.Close()

		_, db, err := openDB()
		if err != nil {
			return err
		}
		questions := service.NewQuestionService(repository.NewQuestionRepository(db), repository.NewTestRepository(db))
		res, err := questions.ImportQuestions(cmd.Context(), uint(testID), f)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "imported %d questions into test %d, skipped %d rows\n", res.Imported, res.TestID, res.Skipped)
		for _, e := range res.Errors {
			fmt.Fprintln(out, "  "+e)
		}
		return nil
	},
}
