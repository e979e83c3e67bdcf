package storage

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ahrav/go-rubric/internal/domain"
)

func openTestScoreStore(t *testing.T) *SQLiteScoreStore {
	t.Helper()
	store, err := OpenScoreStore(filepath.Join(t.TempDir(), "scores", "scores.db"))
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func TestSQLiteScoreStoreAppendAndList(t *testing.T) {
	ctx := context.Background()
	store := openTestScoreStore(t)

	first := domain.Score{
		TaskID:    "t1",
		Model:     "openai/gpt-4o-mini",
		Quality:   4,
		ToneFit:   3,
		SessionID: "s1",
		CreatedAt: time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC),
	}
	second := domain.Score{
		TaskID:    "t1",
		Model:     "anthropic/claude-3.5-sonnet",
		Quality:   5,
		ToneFit:   5,
		SessionID: "s1",
		CreatedAt: time.Date(2025, 6, 1, 10, 1, 0, 0, time.UTC),
	}

	require.NoError(t, store.Append(ctx, first))
	require.NoError(t, store.Append(ctx, second))

	got, err := store.List(ctx)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, first, got[0], "rows come back in insertion order")
	assert.Equal(t, second, got[1])
}

func TestSQLiteScoreStoreRescoreAppends(t *testing.T) {
	ctx := context.Background()
	store := openTestScoreStore(t)

	score := domain.Score{
		TaskID: "t1", Model: "openai/gpt-4o-mini",
		Quality: 2, ToneFit: 2, SessionID: "s1",
		CreatedAt: time.Now().UTC(),
	}
	require.NoError(t, store.Append(ctx, score))

	score.Quality = 5
	score.CreatedAt = score.CreatedAt.Add(time.Minute)
	require.NoError(t, store.Append(ctx, score))

	got, err := store.List(ctx)
	require.NoError(t, err)
	assert.Len(t, got, 2, "re-scoring appends, never updates")
}

func TestSQLiteScoreStoreRejectsOutOfRangeRating(t *testing.T) {
	ctx := context.Background()
	store := openTestScoreStore(t)

	err := store.Append(ctx, domain.Score{
		TaskID: "t1", Model: "openai/gpt-4o-mini",
		Quality: 9, ToneFit: 3, SessionID: "s1",
		CreatedAt: time.Now().UTC(),
	})
	require.Error(t, err, "schema check constraint enforces the 1-5 scale")
}

func TestSQLiteScoreStoreEmptyList(t *testing.T) {
	store := openTestScoreStore(t)
	got, err := store.List(context.Background())
	require.NoError(t, err)
	assert.Empty(t, got)
}
