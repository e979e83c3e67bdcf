package domain

// LeaderboardRow is one derived ranking entry. Rows are recomputed on demand
// from the score store and never persisted.
type LeaderboardRow struct {
	// Model is the composite "vendor/name" identifier.
	Model string

	// Category scopes the row to one task category. Empty for rows in the
	// overall (all-categories) ranking.
	Category Category

	// MeanQuality is the arithmetic mean of effective quality scores.
	MeanQuality float64

	// MeanTone is the arithmetic mean of effective tone-fit scores.
	MeanTone float64

	// NScored counts the effective (post-deduplication) scores behind the
	// means. Rows with zero effective scores are omitted, not emitted.
	NScored int
}
