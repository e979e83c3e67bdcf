package domain

import "fmt"

// PairState tracks the lifecycle of a single (model, task) pair during a
// benchmark run. The orchestrator drives each pair from PairPending to one
// of the two terminal states; PairSkipped is assigned without any network
// call when a successful artifact already exists.
type PairState int

const (
	// PairPending means no attempt has been made yet this run.
	PairPending PairState = iota

	// PairInFlight means a model call is currently outstanding.
	PairInFlight

	// PairSucceeded means a successful artifact was written this run.
	PairSucceeded

	// PairFailedTerminal means all attempts failed and a failure marker
	// was written.
	PairFailedTerminal

	// PairSkipped means a successful artifact from an earlier run was
	// found, so the pair was not re-attempted.
	PairSkipped
)

// String returns the lowercase state name for logs and metrics labels.
func (s PairState) String() string {
	switch s {
	case PairPending:
		return "pending"
	case PairInFlight:
		return "in_flight"
	case PairSucceeded:
		return "succeeded"
	case PairFailedTerminal:
		return "failed"
	case PairSkipped:
		return "skipped"
	default:
		return fmt.Sprintf("unknown(%d)", int(s))
	}
}

// Pair identifies one (model, task) unit of work.
type Pair struct {
	Model  ModelSpec
	TaskID string
}

// String renders the pair as "vendor/name:task" for reports and logs.
func (p Pair) String() string { return p.Model.ID() + ":" + p.TaskID }

// RunReport summarizes a completed benchmark run. Failures are enumerated
// rather than raised so a partial run still covers every pair.
type RunReport struct {
	// Succeeded counts pairs whose model call produced an artifact this run.
	Succeeded int

	// Failed counts pairs recorded as terminal failures this run.
	Failed int

	// Skipped counts pairs satisfied by artifacts from earlier runs.
	Skipped int

	// FailedPairs lists every pair counted in Failed.
	FailedPairs []Pair
}

// Total returns the number of pairs the run covered.
func (r RunReport) Total() int { return r.Succeeded + r.Failed + r.Skipped }
