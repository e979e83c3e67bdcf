package leaderboard

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ahrav/go-rubric/internal/domain"
)

func TestWriteCSV(t *testing.T) {
	rows := []domain.LeaderboardRow{
		{Model: "anthropic/beta", Category: "", MeanQuality: 4, MeanTone: 4.5, NScored: 2},
		{Model: "openai/alpha", Category: domain.CategoryFun, MeanQuality: 2.3333333, MeanTone: 3, NScored: 3},
	}

	var buf strings.Builder
	require.NoError(t, WriteCSV(&buf, rows))

	want := "model,category,mean_quality,mean_tone,n_scored\n" +
		"anthropic/beta,,4.00,4.50,2\n" +
		"openai/alpha,Fun,2.33,3.00,3\n"
	assert.Equal(t, want, buf.String())
}

func TestWriteCSVEmpty(t *testing.T) {
	var buf strings.Builder
	require.NoError(t, WriteCSV(&buf, nil))
	assert.Equal(t, "model,category,mean_quality,mean_tone,n_scored\n", buf.String())
}
