package leaderboard

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/ahrav/go-rubric/internal/domain"
)

// WriteCSV renders leaderboard rows as a tabular summary with a header.
// Overall rows carry an empty category column.
func WriteCSV(w io.Writer, rows []domain.LeaderboardRow) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"model", "category", "mean_quality", "mean_tone", "n_scored"}); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}
	for _, row := range rows {
		record := []string{
			row.Model,
			string(row.Category),
			strconv.FormatFloat(row.MeanQuality, 'f', 2, 64),
			strconv.FormatFloat(row.MeanTone, 'f', 2, 64),
			strconv.Itoa(row.NScored),
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("write csv row: %w", err)
		}
	}
	cw.Flush()
	return cw.Error()
}
