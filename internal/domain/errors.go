package domain

import "errors"

// Common domain errors shared across stores, sessions, and loaders.
var (
	// ErrInvalidCategory indicates a task record carried a category outside
	// the fixed seven-value set.
	ErrInvalidCategory = errors.New("invalid task category")

	// ErrInvalidModelSpec indicates a model identifier that does not parse
	// as "vendor/name".
	ErrInvalidModelSpec = errors.New("invalid model spec")

	// ErrDuplicateTaskID indicates two task records shared an ID.
	ErrDuplicateTaskID = errors.New("duplicate task id")

	// ErrOutputNotFound indicates no successful artifact exists for the
	// requested (model, task) pair.
	ErrOutputNotFound = errors.New("output not found")

	// ErrTaskNotBegun indicates a session operation referenced a task that
	// BeginTask has not been called for.
	ErrTaskNotBegun = errors.New("task not begun in session")

	// ErrUnknownLabel indicates a score referenced a slot label outside the
	// task's blind mapping.
	ErrUnknownLabel = errors.New("unknown slot label")

	// ErrRevealBeforeComplete indicates a reveal was requested while at
	// least one slot of the task was still unscored. Reveals are refused,
	// not warned, until every slot has a score.
	ErrRevealBeforeComplete = errors.New("reveal requested before task fully scored")

	// ErrInvalidRating indicates a quality or tone rating outside the
	// 1-5 scale.
	ErrInvalidRating = errors.New("rating outside 1-5 scale")

	// ErrNothingToScore indicates a task has no successful outputs and is
	// skipped by the scoring session entirely.
	ErrNothingToScore = errors.New("no successful outputs for task")
)
