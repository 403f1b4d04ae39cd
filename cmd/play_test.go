package main

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/lshigami/Bilim/internal/quiz"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func playQuestions() []quiz.Question {
	return []quiz.Question{
		{ID: "1", Text: "2+2", Options: []string{"3", "4"}, CorrectAnswerIndex: 1, Subject: "math", Difficulty: quiz.Easy},
		{ID: "2", Text: "3*3", Options: []string{"9", "6"}, CorrectAnswerIndex: 0, Subject: "math", Difficulty: quiz.Easy},
	}
}

func TestPlayLoop_AnswersEveryQuestion(t *testing.T) {
	sess := quiz.NewSession(quiz.Config{})
	require.NoError(t, sess.Start(playQuestions()))

	var out bytes.Buffer
	in := strings.NewReader("x\n7\n2\n2\n")
	require.NoError(t, playLoop(context.Background(), sess, in, &out))

	assert.Equal(t, quiz.StatusCompleted, sess.Status())
	res, ok := sess.Result()
	require.True(t, ok)
	assert.Equal(t, 1, res.Score)
	assert.Contains(t, out.String(), "Enter an option number")
	assert.Contains(t, out.String(), "[2/2]")
}

func TestPlayLoop_QuitCancels(t *testing.T) {
	sess := quiz.NewSession(quiz.Config{})
	require.NoError(t, sess.Start(playQuestions()))

	require.NoError(t, playLoop(context.Background(), sess, strings.NewReader("q\n"), &bytes.Buffer{}))
	assert.Equal(t, quiz.StatusNotStarted, sess.Status())
}

func TestPlayLoop_InputClosed(t *testing.T) {
	sess := quiz.NewSession(quiz.Config{})
	require.NoError(t, sess.Start(playQuestions()))

	err := playLoop(context.Background(), sess, strings.NewReader("2\n"), &bytes.Buffer{})
	assert.Error(t, err)
}

func TestAssignCommand(t *testing.T) {
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetArgs([]string{"assign", "visitor-1", "landing", "--table", "landing=control:50,B:50"})
	require.NoError(t, rootCmd.Execute())

	assert.Contains(t, out.String(), "experiment=landing visitor=visitor-1")
	assert.Regexp(t, `variant=(control|B)\n`, out.String())
}
