package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/lshigami/Bilim/internal/client"
	"github.com/lshigami/Bilim/internal/dto"
	"github.com/lshigami/Bilim/internal/quiz"
	"github.com/lshigami/Bilim/internal/repository"
	"github.com/lshigami/Bilim/internal/service"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

var playCmd = &cobra.Command{
	Use:   "play <test-id>",
	Short: "Take a timed test in the terminal",
	Long: `Runs a test session locally. Type the option number and Enter to answer,
"r" to restart, "q" to quit. With --email the result is stored for that
account, on --server when given or in the local database otherwise.`,
	Args: cobra.ExactArgs(1),
	RunE: runPlay,
}

func init() {
	playCmd.Flags().String("server", "", "base URL of a Bilim API to store the result on")
	playCmd.Flags().String("email", "", "account the result is stored for")
	playCmd.Flags().String("password", "", "password of that account")
}

func runPlay(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	testID, err := strconv.ParseUint(args[0], 10, 32)
	if err != nil {
		return fmt.Errorf("invalid test id %q", args[0])
	}

	cfg, db, err := openDB()
	if err != nil {
		return err
	}
	testRepo := repository.NewTestRepository(db)
	questions, test, err := service.NewUserTestService(testRepo).QuizForTest(ctx, uint(testID))
	if err != nil {
		return err
	}

	var (
		submitter quiz.ResultSubmitter
		userID    uint
	)
	email, _ := cmd.Flags().GetString("email")
	password, _ := cmd.Flags().GetString("password")
	server, _ := cmd.Flags().GetString("server")
	switch {
	case email == "":
	case server != "":
		c := client.New(server, "")
		if err := c.Login(ctx, email, password); err != nil {
			return fmt.Errorf("login on %s: %w", server, err)
		}
		submitter = c
	default:
		auth := service.NewAuthService(repository.NewUserRepository(db), cfg)
		resp, err := auth.Login(ctx, dto.LoginRequest{Email: email, Password: password})
		if err != nil {
			return err
		}
		userID = resp.User.ID
		submitter = service.NewResultService(testRepo, repository.NewResultRepository(db), repository.NewUserStatsRepository(db), db)
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "%s (%d questions)\n", test.Title, len(questions))

	sess := quiz.NewSession(cfg.Quiz.SessionConfig())
	if err := sess.Start(questions); err != nil {
		return err
	}
	if err := playLoop(ctx, sess, cmd.InOrStdin(), out); err != nil {
		return err
	}
	if sess.Status() != quiz.StatusCompleted {
		fmt.Fprintln(out, "Test cancelled.")
		return nil
	}

	res, _ := sess.Result()
	fmt.Fprintf(out, "\nScore: %d/%d (%d%%), %d skipped, %s\n",
		res.Score, res.Total, res.Percentage, res.Skipped, time.Duration(res.TimeSpentSeconds)*time.Second)

	if submitter == nil {
		return nil
	}
	testIDu := test.ID
	rec, err := submitter.Submit(ctx, quiz.Submission{
		UserID:     userID,
		TestID:     &testIDu,
		Subject:    test.Subject,
		Difficulty: test.Difficulty,
		Result:     res,
	})
	if err != nil {
		log.Warn().Err(err).Msg("Failed to store result")
		fmt.Fprintf(out, "The result was not saved: %v\n", err)
		return nil
	}
	fmt.Fprintf(out, "Saved as result #%d.\n", rec.ID)
	return nil
}

// playLoop drives the session from input lines and a one second ticker until
// it completes or the player quits.
func playLoop(ctx context.Context, sess *quiz.Session, in io.Reader, out io.Writer) error {
	lines := make(chan string)
	go func() {
		defer close(lines)
		scanner := bufio.NewScanner(in)
		for scanner.Scan() {
			select {
			case lines <- strings.TrimSpace(scanner.Text()):
			case <-ctx.Done():
				return
			}
		}
	}()

	ticker := time.NewTicker(time.Second)
	defer ticker.Stop()

	printQuestion(out, sess.Snapshot())
	for sess.Status() == quiz.StatusInProgress {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			if sess.Tick() {
				fmt.Fprintln(out, "\nTime is up.")
			}
		case line, ok := <-lines:
			if !ok {
				return errors.New("input closed before the test was finished")
			}
			switch line {
			case "q":
				return sess.Cancel()
			case "r":
				if err := sess.Restart(); err != nil {
					return err
				}
				printQuestion(out, sess.Snapshot())
				continue
			}
			n, err := strconv.Atoi(line)
			if err != nil {
				fmt.Fprintln(out, "Enter an option number, r or q.")
				continue
			}
			if err := sess.SelectAnswer(n - 1); err != nil {
				fmt.Fprintln(out, err)
				continue
			}
			done, err := sess.Advance()
			if err != nil {
				return err
			}
			if !done {
				printQuestion(out, sess.Snapshot())
			}
		}
	}
	return nil
}

func printQuestion(out io.Writer, snap quiz.Snapshot) {
	if snap.Current == nil {
		return
	}
	fmt.Fprintf(out, "\n[%d/%d]", snap.CurrentIndex+1, snap.TotalQuestions)
	if snap.TimeRemainingSeconds > 0 {
		fmt.Fprintf(out, " %s left", time.Duration(snap.TimeRemainingSeconds)*time.Second)
	}
	fmt.Fprintf(out, "\n%s\n", snap.Current.Text)
	for i, opt := range snap.Current.Options {
		fmt.Fprintf(out, "  %d) %s\n", i+1, opt)
	}
}
