package domain

import "time"

// Score bounds for quality and tone-fit ratings.
const (
	MinScore = 1
	MaxScore = 5
)

// Score is one append-only rating of a model's output for a task.
// Re-scoring the same (task, model) pair appends a new record; the
// aggregator treats the latest record by CreatedAt as authoritative.
type Score struct {
	// TaskID references the rated task.
	TaskID string `json:"task_id"`

	// Model is the composite "vendor/name" identifier of the rated model.
	Model string `json:"model"`

	// Quality rates overall response quality on a 1-5 scale.
	Quality int `json:"quality"`

	// ToneFit rates how well the response tone matched the task on a
	// 1-5 scale.
	ToneFit int `json:"tone_fit"`

	// SessionID ties the record to the blind session that produced it.
	SessionID string `json:"session_id"`

	// CreatedAt orders records for latest-wins deduplication.
	CreatedAt time.Time `json:"created_at"`
}

// ValidRating reports whether a rating value is on the 1-5 scale.
func ValidRating(v int) bool { return v >= MinScore && v <= MaxScore }
