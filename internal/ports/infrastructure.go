// Package ports declares the interfaces through which the benchmark core
// talks to external collaborators: the completion transport, the output
// artifact store, the score store, and the task source. Implementations
// live under infrastructure/ and internal/tasks.
package ports

import (
	"context"

	"github.com/ahrav/go-rubric/internal/domain"
)

// CompletionClient sends a prompt to a model and returns the generated text.
// Implementations handle authentication, retries, rate limiting, and
// per-attempt timeouts; callers see either text or a final classified error.
type CompletionClient interface {
	// Complete requests a completion from the given model.
	// The model is the composite "vendor/name" identifier; routing to a
	// provider or gateway is the implementation's concern.
	//
	// Common options:
	//   - "temperature": float64
	//   - "max_tokens": int
	Complete(ctx context.Context, model domain.ModelSpec, prompt string, options map[string]any) (string, error)
}

// OutputStore persists one artifact per (model, task) pair, addressable by
// that pair. Writes must be atomic per key: a reader never observes a
// partially written artifact, and an abandoned in-flight call leaves no
// record at all.
type OutputStore interface {
	// HasSuccess reports whether a successful artifact exists for the pair.
	// Failure markers do not count; a re-run retries failed pairs.
	HasSuccess(ctx context.Context, model domain.ModelSpec, taskID string) (bool, error)

	// WriteSuccess stores response text for the pair, replacing any
	// previous artifact or failure marker.
	WriteSuccess(ctx context.Context, model domain.ModelSpec, taskID, text string) error

	// WriteFailure stores an explicit structured failure marker for the
	// pair so the pair is visibly failed rather than silently absent.
	WriteFailure(ctx context.Context, model domain.ModelSpec, taskID string, failure domain.FailureRecord) error

	// ReadSuccess returns the response text for the pair, or
	// domain.ErrOutputNotFound when no successful artifact exists.
	ReadSuccess(ctx context.Context, model domain.ModelSpec, taskID string) (string, error)
}

// ScoreStore is an append-only record of blind-session ratings.
// There are no updates or deletes; re-scores are new rows disambiguated
// by timestamp during aggregation.
type ScoreStore interface {
	// Append persists one score record.
	Append(ctx context.Context, score domain.Score) error

	// List returns every score record ever appended, in insertion order.
	List(ctx context.Context) ([]domain.Score, error)
}

// TaskSource loads the fixed, ordered benchmark task set.
type TaskSource interface {
	// Load reads and validates all task records. IDs are unique and every
	// category is one of the seven fixed values.
	Load(ctx context.Context) ([]domain.Task, error)
}
