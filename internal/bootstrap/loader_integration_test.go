package bootstrap

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bookcatalog/internal/book"
	"bookcatalog/internal/testutil"
)

func TestLoader_Run_Postgres(t *testing.T) {
	repo := book.NewPostgresRepo(testutil.OpenTestDB(t), 5*time.Second)

	seedFile := filepath.Join(t.TempDir(), "books.json")
	seed := `[{"title":"Dune","author":"Herbert","isbn":"123","image_url":"u","description":"d"}]`
	require.NoError(t, os.WriteFile(seedFile, []byte(seed), 0o600))

	loader := NewLoader(repo, seedFile)
	ctx := context.Background()

	report, err := loader.Run(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, report.Created)

	list, err := repo.ListSummaries(ctx)
	require.NoError(t, err)
	assert.Equal(t, []book.Summary{{ID: 1, Title: "Dune", Author: "Herbert", ImageURL: "u"}}, list)

	// A second start sees the seeded row and inserts nothing.
	again, err := loader.Run(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, again.Existing)
	assert.False(t, again.Seeded)

	n, err := repo.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}
