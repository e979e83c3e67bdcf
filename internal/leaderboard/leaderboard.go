// Package leaderboard turns the raw score log into ranked per-model
// statistics. Compute is a pure function of its inputs: no hidden state,
// fully deterministic output order.
package leaderboard

import (
	"sort"

	"github.com/ahrav/go-rubric/internal/domain"
)

// pairKey identifies one (task, model) rating target for deduplication.
type pairKey struct {
	taskID string
	model  string
}

// effective reduces the append-only log to one authoritative score per
// (task, model): the most recent by CreatedAt. Insertion order breaks
// exact timestamp ties in favor of the later row.
func effective(scores []domain.Score) map[pairKey]domain.Score {
	out := make(map[pairKey]domain.Score, len(scores))
	for _, score := range scores {
		key := pairKey{taskID: score.TaskID, model: score.Model}
		if prev, ok := out[key]; ok && prev.CreatedAt.After(score.CreatedAt) {
			continue
		}
		out[key] = score
	}
	return out
}

// accumulator collects running sums for one leaderboard group.
type accumulator struct {
	quality int
	tone    int
	n       int
}

func (a *accumulator) add(score domain.Score) {
	a.quality += score.Quality
	a.tone += score.ToneFit
	a.n++
}

func (a *accumulator) row(model string, category domain.Category) domain.LeaderboardRow {
	return domain.LeaderboardRow{
		Model:       model,
		Category:    category,
		MeanQuality: float64(a.quality) / float64(a.n),
		MeanTone:    float64(a.tone) / float64(a.n),
		NScored:     a.n,
	}
}

// Compute aggregates the score log into ranked rows: one overall row per
// model followed by per-(model, category) rows. categoryByTask maps task
// IDs to their category; scores referencing unknown tasks contribute to the
// overall rows only. Groups with zero effective scores are omitted.
//
// Rows sort by mean quality descending, ties broken by mean tone descending,
// then by score count descending (better-evidenced rows first), then by
// model identifier ascending, so output order is fully deterministic.
func Compute(scores []domain.Score, categoryByTask map[string]domain.Category) (overall, byCategory []domain.LeaderboardRow) {
	type groupKey struct {
		model    string
		category domain.Category
	}

	overallGroups := make(map[string]*accumulator)
	categoryGroups := make(map[groupKey]*accumulator)

	for _, score := range effective(scores) {
		if overallGroups[score.Model] == nil {
			overallGroups[score.Model] = &accumulator{}
		}
		overallGroups[score.Model].add(score)

		category, ok := categoryByTask[score.TaskID]
		if !ok {
			continue
		}
		key := groupKey{model: score.Model, category: category}
		if categoryGroups[key] == nil {
			categoryGroups[key] = &accumulator{}
		}
		categoryGroups[key].add(score)
	}

	for model, acc := range overallGroups {
		overall = append(overall, acc.row(model, ""))
	}
	for key, acc := range categoryGroups {
		byCategory = append(byCategory, acc.row(key.model, key.category))
	}

	rank(overall)
	rank(byCategory)
	return overall, byCategory
}

// rank sorts rows into the deterministic leaderboard order. Category rows
// group by category first so the per-category table reads contiguously.
func rank(rows []domain.LeaderboardRow) {
	sort.Slice(rows, func(i, j int) bool {
		a, b := rows[i], rows[j]
		if a.Category != b.Category {
			return a.Category < b.Category
		}
		if a.MeanQuality != b.MeanQuality {
			return a.MeanQuality > b.MeanQuality
		}
		if a.MeanTone != b.MeanTone {
			return a.MeanTone > b.MeanTone
		}
		if a.NScored != b.NScored {
			return a.NScored > b.NScored
		}
		return a.Model < b.Model
	})
}
