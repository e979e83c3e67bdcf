package leaderboard

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ahrav/go-rubric/internal/domain"
)

var epoch = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

func score(taskID, model string, quality, tone int, at time.Duration) domain.Score {
	return domain.Score{
		TaskID:    taskID,
		Model:     model,
		Quality:   quality,
		ToneFit:   tone,
		SessionID: "s1",
		CreatedAt: epoch.Add(at),
	}
}

func TestComputeMeansAndRanking(t *testing.T) {
	categories := map[string]domain.Category{
		"fun-1":   domain.CategoryFun,
		"fun-2":   domain.CategoryFun,
		"teach-1": domain.CategoryTeaching,
	}
	scores := []domain.Score{
		score("fun-1", "openai/alpha", 2, 3, 0),
		score("fun-2", "openai/alpha", 2, 2, time.Minute),
		score("fun-1", "anthropic/beta", 4, 5, 2*time.Minute),
		score("fun-2", "anthropic/beta", 4, 4, 3*time.Minute),
		score("teach-1", "openai/alpha", 5, 5, 4*time.Minute),
	}

	overall, byCategory := Compute(scores, categories)

	require.Len(t, overall, 2)
	assert.Equal(t, "anthropic/beta", overall[0].Model)
	assert.InDelta(t, 4.0, overall[0].MeanQuality, 1e-9)
	assert.InDelta(t, 4.5, overall[0].MeanTone, 1e-9)
	assert.Equal(t, 2, overall[0].NScored)

	assert.Equal(t, "openai/alpha", overall[1].Model)
	assert.InDelta(t, 3.0, overall[1].MeanQuality, 1e-9)
	assert.Equal(t, 3, overall[1].NScored)

	require.Len(t, byCategory, 3)
	// Fun sorts ahead of Teaching; within Fun, beta's mean 4 beats alpha's 2.
	assert.Equal(t, domain.CategoryFun, byCategory[0].Category)
	assert.Equal(t, "anthropic/beta", byCategory[0].Model)
	assert.Equal(t, domain.CategoryFun, byCategory[1].Category)
	assert.Equal(t, "openai/alpha", byCategory[1].Model)
	assert.Equal(t, domain.CategoryTeaching, byCategory[2].Category)
	assert.Equal(t, "openai/alpha", byCategory[2].Model)
	assert.Equal(t, 1, byCategory[2].NScored)
}

func TestComputeLatestScoreWins(t *testing.T) {
	scores := []domain.Score{
		score("t1", "openai/alpha", 1, 1, 0),
		score("t1", "openai/alpha", 5, 4, time.Hour),
		score("t1", "openai/alpha", 3, 3, 30*time.Minute),
	}

	overall, _ := Compute(scores, nil)
	require.Len(t, overall, 1)
	assert.InDelta(t, 5.0, overall[0].MeanQuality, 1e-9, "only the newest rating counts")
	assert.InDelta(t, 4.0, overall[0].MeanTone, 1e-9)
	assert.Equal(t, 1, overall[0].NScored)
}

func TestComputeTimestampTieFavorsLaterRow(t *testing.T) {
	scores := []domain.Score{
		score("t1", "openai/alpha", 1, 1, 0),
		score("t1", "openai/alpha", 4, 4, 0),
	}

	overall, _ := Compute(scores, nil)
	require.Len(t, overall, 1)
	assert.InDelta(t, 4.0, overall[0].MeanQuality, 1e-9)
}

func TestComputeTieBreaks(t *testing.T) {
	scores := []domain.Score{
		// Equal quality means; tone decides.
		score("t1", "v/tone-high", 4, 5, 0),
		score("t2", "v/tone-low", 4, 2, time.Minute),
		// Equal quality and tone; count decides, then model name.
		score("t3", "v/pair-a", 3, 3, 2*time.Minute),
		score("t4", "v/pair-a", 3, 3, 3*time.Minute),
		score("t5", "v/pair-b", 3, 3, 4*time.Minute),
		score("t6", "v/pair-c", 3, 3, 5*time.Minute),
	}

	overall, _ := Compute(scores, nil)
	models := make([]string, len(overall))
	for i, row := range overall {
		models[i] = row.Model
	}
	assert.Equal(t, []string{"v/tone-high", "v/tone-low", "v/pair-a", "v/pair-b", "v/pair-c"}, models)
}

func TestComputeEmptyInputs(t *testing.T) {
	overall, byCategory := Compute(nil, nil)
	assert.Empty(t, overall)
	assert.Empty(t, byCategory)
}

func TestComputeUnknownTaskCountsOverallOnly(t *testing.T) {
	scores := []domain.Score{
		score("ghost-task", "openai/alpha", 5, 5, 0),
	}

	overall, byCategory := Compute(scores, map[string]domain.Category{})
	require.Len(t, overall, 1)
	assert.Empty(t, byCategory, "scores without a category join no category group")
}

func TestComputeDeterministicAcrossRuns(t *testing.T) {
	categories := map[string]domain.Category{"t1": domain.CategoryFun, "t2": domain.CategoryCritique}
	scores := []domain.Score{
		score("t1", "a/one", 3, 3, 0),
		score("t2", "b/two", 3, 3, time.Minute),
		score("t1", "c/three", 3, 3, 2*time.Minute),
		score("t2", "a/one", 3, 3, 3*time.Minute),
	}

	firstOverall, firstByCategory := Compute(scores, categories)
	for range 10 {
		overall, byCategory := Compute(scores, categories)
		assert.Equal(t, firstOverall, overall)
		assert.Equal(t, firstByCategory, byCategory)
	}
}
