package seed

import (
	"context"
	"testing"

	"github.com/lshigami/Bilim/database"
	"github.com/lshigami/Bilim/internal/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTests_AreValidAndBilingual(t *testing.T) {
	langs := map[string]int{}
	for _, test := range Tests() {
		langs[test.Language]++
		require.NotEmpty(t, test.Questions, test.Title)
		for i := range test.Questions {
			assert.NoError(t, test.Questions[i].ToQuiz().Validate(), "%s #%d", test.Title, i+1)
		}
	}
	assert.Positive(t, langs["ru"])
	assert.Positive(t, langs["kk"])
}

func TestLoad_Idempotent(t *testing.T) {
	db, err := database.NewInMemory()
	require.NoError(t, err)
	repo := repository.NewTestRepository(db)
	ctx := context.Background()

	created, skipped, err := Load(ctx, db, repo)
	require.NoError(t, err)
	assert.Equal(t, len(Tests()), created)
	assert.Zero(t, skipped)

	created, skipped, err = Load(ctx, db, repo)
	require.NoError(t, err)
	assert.Zero(t, created)
	assert.Equal(t, len(Tests()), skipped)
}
