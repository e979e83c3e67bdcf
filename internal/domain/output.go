package domain

import "time"

// OutputStatus reports whether a (model, task) generation succeeded or was
// recorded as a terminal failure.
type OutputStatus string

const (
	// OutputSucceeded marks an artifact containing model-generated text.
	OutputSucceeded OutputStatus = "succeeded"

	// OutputFailed marks an explicit failure record written after all
	// attempts for the pair were exhausted. A failed pair is never silently
	// missing from the store.
	OutputFailed OutputStatus = "failed"
)

// Output is one generation artifact, keyed by (model, task). Exactly one
// Output exists per pair after a completed run. Artifacts are only replaced
// by an explicit overwriting re-run, never mutated in place.
type Output struct {
	Model  ModelSpec
	TaskID string
	Status OutputStatus

	// Text holds the raw model response. Empty when Status is OutputFailed.
	Text string

	// Failure describes the terminal failure. Nil when Status is
	// OutputSucceeded.
	Failure *FailureRecord
}

// FailureRecord is the structured failure marker persisted in place of
// response text when every attempt for a pair failed.
type FailureRecord struct {
	// ErrorKind is the classified failure category, e.g. "rate_limited"
	// or "invalid_model".
	ErrorKind string `json:"error_kind"`

	// Message is the final attempt's error text.
	Message string `json:"message"`

	// Attempts counts how many calls were made before giving up.
	Attempts int `json:"attempts"`

	// FailedAt records when the pair was abandoned.
	FailedAt time.Time `json:"failed_at"`
}
