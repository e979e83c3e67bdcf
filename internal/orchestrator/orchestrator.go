// Package orchestrator drives a benchmark run to completion: for every
// configured (model, task) pair it ensures exactly one output artifact
// exists, calling the completion transport only for pairs that are missing
// one. Pairs are independent, so calls fan out concurrently up to a
// configurable limit; per-pair failures are recorded, never raised, so a
// run always covers the full matrix.
package orchestrator

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/ahrav/go-rubric/internal/domain"
	"github.com/ahrav/go-rubric/internal/ports"
)

// DefaultConcurrency bounds in-flight model calls when the config does not.
const DefaultConcurrency = 4

// Config controls a benchmark run.
type Config struct {
	// Concurrency caps outstanding model calls. Values below 1 fall back
	// to DefaultConcurrency.
	Concurrency int

	// Overwrite re-generates pairs that already have successful artifacts
	// instead of skipping them.
	Overwrite bool

	// Attempts is the transport's per-call attempt budget, recorded in
	// failure markers for the verify report.
	Attempts int

	// RequestOptions is passed through to every completion call
	// (temperature, max_tokens, ...).
	RequestOptions map[string]any
}

// Orchestrator executes benchmark runs against an output store.
type Orchestrator struct {
	client ports.CompletionClient
	store  ports.OutputStore
	config Config
	logger *slog.Logger
}

// New creates an Orchestrator. A nil logger disables run logging.
func New(client ports.CompletionClient, store ports.OutputStore, config Config, logger *slog.Logger) *Orchestrator {
	if config.Concurrency < 1 {
		config.Concurrency = DefaultConcurrency
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Orchestrator{client: client, store: store, config: config, logger: logger}
}

// pairResult is the terminal state of one pair after a run.
type pairResult struct {
	pair  domain.Pair
	state domain.PairState
}

// Run ensures an output artifact exists for every (model, task) pair.
// It returns an error only when the run is canceled or the output store is
// unusable; individual call failures become failure markers and are
// enumerated in the report. Re-running after a partial failure re-attempts
// only pairs without a successful artifact.
func (o *Orchestrator) Run(ctx context.Context, models []domain.ModelSpec, tasks []domain.Task) (domain.RunReport, error) {
	pairs := make([]domain.Pair, 0, len(models)*len(tasks))
	for _, model := range models {
		for _, task := range tasks {
			pairs = append(pairs, domain.Pair{Model: model, TaskID: task.ID})
		}
	}
	promptByTask := make(map[string]string, len(tasks))
	for _, task := range tasks {
		promptByTask[task.ID] = task.Prompt
	}

	o.logger.Info("starting benchmark run",
		"models", len(models), "tasks", len(tasks),
		"pairs", len(pairs), "concurrency", o.config.Concurrency)

	results := make([]pairResult, len(pairs))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(o.config.Concurrency)

	for i, pair := range pairs {
		g.Go(func() error {
			state, err := o.ensurePair(gctx, pair, promptByTask[pair.TaskID])
			if err != nil {
				return err
			}
			results[i] = pairResult{pair: pair, state: state}
			observePair(state)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return domain.RunReport{}, fmt.Errorf("benchmark run aborted: %w", err)
	}

	var report domain.RunReport
	for _, result := range results {
		switch result.state {
		case domain.PairSucceeded:
			report.Succeeded++
		case domain.PairSkipped:
			report.Skipped++
		case domain.PairFailedTerminal:
			report.Failed++
			report.FailedPairs = append(report.FailedPairs, result.pair)
		}
	}

	o.logger.Info("benchmark run complete",
		"succeeded", report.Succeeded, "failed", report.Failed, "skipped", report.Skipped)
	return report, nil
}

// ensurePair drives one pair to a terminal state. The returned error is
// reserved for cancellation and store unavailability; call failures are
// absorbed into a failure marker.
func (o *Orchestrator) ensurePair(ctx context.Context, pair domain.Pair, prompt string) (domain.PairState, error) {
	if !o.config.Overwrite {
		done, err := o.store.HasSuccess(ctx, pair.Model, pair.TaskID)
		if err != nil {
			return domain.PairPending, fmt.Errorf("check artifact for %s: %w", pair, err)
		}
		if done {
			o.logger.Debug("pair already satisfied", "pair", pair.String())
			return domain.PairSkipped, nil
		}
	}

	text, err := o.client.Complete(ctx, pair.Model, prompt, o.config.RequestOptions)
	if err != nil {
		// A canceled call must not leave a record; the pair stays pending
		// for the next run.
		if ctx.Err() != nil {
			return domain.PairInFlight, ctx.Err()
		}

		failure := domain.FailureRecord{
			ErrorKind: errorKind(err),
			Message:   err.Error(),
			Attempts:  o.config.Attempts,
			FailedAt:  time.Now().UTC(),
		}
		if werr := o.store.WriteFailure(ctx, pair.Model, pair.TaskID, failure); werr != nil {
			return domain.PairInFlight, fmt.Errorf("record failure for %s: %w", pair, werr)
		}
		o.logger.Warn("pair failed terminally",
			"pair", pair.String(), "kind", failure.ErrorKind, "error", err)
		return domain.PairFailedTerminal, nil
	}

	if err := o.store.WriteSuccess(ctx, pair.Model, pair.TaskID, text); err != nil {
		return domain.PairInFlight, fmt.Errorf("store artifact for %s: %w", pair, err)
	}
	o.logger.Debug("pair succeeded", "pair", pair.String(), "bytes", len(text))
	return domain.PairSucceeded, nil
}

// errorKind extracts the transport's classification, defaulting to
// "unknown" for unclassified errors.
func errorKind(err error) string {
	var kinder ports.ErrorKinder
	if errors.As(err, &kinder) {
		return kinder.ErrorKind()
	}
	return "unknown"
}
