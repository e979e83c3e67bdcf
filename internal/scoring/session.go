// Package scoring implements the blind evaluation session: it hides model
// identity behind anonymized slot labels in a deterministic per-task order,
// records ratings against the real models, and gates identity reveal on
// complete coverage of every slot.
package scoring

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/ahrav/go-rubric/internal/domain"
	"github.com/ahrav/go-rubric/internal/ports"
)

// Slot is one anonymized output presented to the rater. It deliberately
// carries no model identity; only Reveal discloses the mapping, and only
// after the task is fully scored.
type Slot struct {
	// Label is the anonymized display identifier ("A", "B", ...).
	Label string

	// Text is the model's raw output for the task.
	Text string
}

// taskState tracks one task's blind layout and rating progress within a
// session.
type taskState struct {
	labels       []string
	labelToModel map[string]domain.ModelSpec
	rated        map[string]bool
}

// Session drives one rater through blind evaluation of the available
// outputs. The blind layout for each task is a deterministic function of
// (taskID, seed): re-opening a task mid-session reproduces the exact same
// labels, while a new session with a different seed reshuffles everything.
// A Session serves a single interactive rater and is not safe for
// concurrent use.
type Session struct {
	id      string
	seed    uint64
	models  []domain.ModelSpec
	outputs ports.OutputStore
	scores  ports.ScoreStore
	tasks   map[string]*taskState
	now     func() time.Time
}

// NewSession creates a blind scoring session over the given model set.
func NewSession(seed uint64, models []domain.ModelSpec, outputs ports.OutputStore, scores ports.ScoreStore) *Session {
	return &Session{
		id:      uuid.NewString(),
		seed:    seed,
		models:  models,
		outputs: outputs,
		scores:  scores,
		tasks:   make(map[string]*taskState),
		now:     time.Now,
	}
}

// ID returns the session identifier stamped on every score record.
func (s *Session) ID() string { return s.id }

// BeginTask derives the blind layout for a task and returns its slots in
// label order. Only models with a successful output participate; failed or
// missing pairs are excluded from the blind set entirely. A task with no
// successful outputs returns domain.ErrNothingToScore and is skipped.
// Calling BeginTask again for the same task reproduces the same layout and
// preserves ratings already recorded in this session.
func (s *Session) BeginTask(ctx context.Context, taskID string) ([]Slot, error) {
	candidates, err := s.candidates(ctx, taskID)
	if err != nil {
		return nil, err
	}
	if len(candidates) == 0 {
		return nil, fmt.Errorf("%w: %s", domain.ErrNothingToScore, taskID)
	}

	perm := permutation(taskID, s.seed, len(candidates))

	state, ok := s.tasks[taskID]
	if !ok {
		state = &taskState{
			labelToModel: make(map[string]domain.ModelSpec, len(candidates)),
			rated:        make(map[string]bool, len(candidates)),
		}
		s.tasks[taskID] = state
	}
	state.labels = state.labels[:0]

	slots := make([]Slot, len(candidates))
	for i, j := range perm {
		label := slotLabel(i)
		model := candidates[j]

		text, err := s.outputs.ReadSuccess(ctx, model, taskID)
		if err != nil {
			return nil, fmt.Errorf("load output for task %s: %w", taskID, err)
		}

		state.labels = append(state.labels, label)
		state.labelToModel[label] = model
		slots[i] = Slot{Label: label, Text: text}
	}
	return slots, nil
}

// candidates returns the models with a successful output for the task, in
// a canonical order independent of configuration order so the permutation
// is the only source of slot placement.
func (s *Session) candidates(ctx context.Context, taskID string) ([]domain.ModelSpec, error) {
	var out []domain.ModelSpec
	for _, model := range s.models {
		ok, err := s.outputs.HasSuccess(ctx, model, taskID)
		if err != nil {
			return nil, fmt.Errorf("check output for task %s: %w", taskID, err)
		}
		if ok {
			out = append(out, model)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID() < out[j].ID() })
	return out, nil
}

// RecordScore resolves a slot label to its real model, appends a score
// record, and marks the slot rated in this session.
func (s *Session) RecordScore(ctx context.Context, taskID, label string, quality, toneFit int) error {
	state, ok := s.tasks[taskID]
	if !ok {
		return fmt.Errorf("%w: %s", domain.ErrTaskNotBegun, taskID)
	}
	model, ok := state.labelToModel[label]
	if !ok {
		return fmt.Errorf("%w: %q for task %s", domain.ErrUnknownLabel, label, taskID)
	}
	if !domain.ValidRating(quality) || !domain.ValidRating(toneFit) {
		return fmt.Errorf("%w: quality=%d tone=%d", domain.ErrInvalidRating, quality, toneFit)
	}

	score := domain.Score{
		TaskID:    taskID,
		Model:     model.ID(),
		Quality:   quality,
		ToneFit:   toneFit,
		SessionID: s.id,
		CreatedAt: s.now(),
	}
	if err := s.scores.Append(ctx, score); err != nil {
		return err
	}
	state.rated[label] = true
	return nil
}

// IsTaskComplete reports whether every slot in the task's current layout
// has a recorded score this session. Partial coverage is not completion.
func (s *Session) IsTaskComplete(taskID string) bool {
	state, ok := s.tasks[taskID]
	if !ok || len(state.labels) == 0 {
		return false
	}
	for _, label := range state.labels {
		if !state.rated[label] {
			return false
		}
	}
	return true
}

// Reveal discloses the label-to-model mapping for a fully scored task.
// It refuses with domain.ErrRevealBeforeComplete while any slot is
// unscored, so identity cannot leak mid-task.
func (s *Session) Reveal(taskID string) (map[string]string, error) {
	if _, ok := s.tasks[taskID]; !ok {
		return nil, fmt.Errorf("%w: %s", domain.ErrTaskNotBegun, taskID)
	}
	if !s.IsTaskComplete(taskID) {
		return nil, fmt.Errorf("%w: %s", domain.ErrRevealBeforeComplete, taskID)
	}

	state := s.tasks[taskID]
	mapping := make(map[string]string, len(state.labels))
	for _, label := range state.labels {
		mapping[label] = state.labelToModel[label].ID()
	}
	return mapping, nil
}
