// Package verify audits the output store after a run: it reports every
// (model, task) pair without a successful artifact, and flags pairs of
// model outputs for the same task that are suspiciously similar, which
// usually means a gateway served a cached or misrouted response.
package verify

import (
	"context"
	"fmt"
	"unicode/utf8"

	"github.com/agnivade/levenshtein"
	"golang.org/x/text/cases"

	"github.com/ahrav/go-rubric/internal/domain"
	"github.com/ahrav/go-rubric/internal/ports"
)

// DefaultSimilarityThreshold flags output pairs whose normalized
// Levenshtein similarity meets or exceeds this value. Independent models
// answering an open-ended prompt essentially never agree this closely.
const DefaultSimilarityThreshold = 0.9

// foldCaser is a package-level Unicode case folder shared across scans.
var foldCaser = cases.Fold()

// Missing records one pair with no successful artifact, with the failure
// marker's classification when one was recorded.
type Missing struct {
	Model  domain.ModelSpec
	TaskID string

	// FailureKind is the recorded failure classification, or empty when
	// the pair was never attempted.
	FailureKind string
}

// NearDuplicate records two models whose outputs for the same task are
// nearly identical.
type NearDuplicate struct {
	TaskID     string
	ModelA     string
	ModelB     string
	Similarity float64
}

// Report is the result of auditing the output store.
type Report struct {
	// Pairs is the total number of (model, task) pairs audited.
	Pairs int

	// Missing lists pairs without a successful artifact.
	Missing []Missing

	// NearDuplicates lists flagged output pairs per task.
	NearDuplicates []NearDuplicate
}

// Complete reports whether every audited pair has a successful artifact.
func (r Report) Complete() bool { return len(r.Missing) == 0 }

// failureReader is the optional store extension exposing failure markers.
// The filesystem store implements it; the audit degrades gracefully when a
// store does not.
type failureReader interface {
	ReadFailure(ctx context.Context, model domain.ModelSpec, taskID string) (domain.FailureRecord, error)
}

// Run audits the store for the full (models × tasks) matrix.
// threshold <= 0 selects DefaultSimilarityThreshold.
func Run(ctx context.Context, store ports.OutputStore, models []domain.ModelSpec, tasks []domain.Task, threshold float64) (Report, error) {
	if threshold <= 0 {
		threshold = DefaultSimilarityThreshold
	}

	report := Report{Pairs: len(models) * len(tasks)}
	failures, _ := store.(failureReader)

	for _, task := range tasks {
		var (
			present []string
			texts   []string
		)
		for _, model := range models {
			ok, err := store.HasSuccess(ctx, model, task.ID)
			if err != nil {
				return Report{}, fmt.Errorf("audit %s/%s: %w", model.ID(), task.ID, err)
			}
			if !ok {
				missing := Missing{Model: model, TaskID: task.ID}
				if failures != nil {
					if record, err := failures.ReadFailure(ctx, model, task.ID); err == nil {
						missing.FailureKind = record.ErrorKind
					}
				}
				report.Missing = append(report.Missing, missing)
				continue
			}

			text, err := store.ReadSuccess(ctx, model, task.ID)
			if err != nil {
				return Report{}, fmt.Errorf("audit %s/%s: %w", model.ID(), task.ID, err)
			}
			present = append(present, model.ID())
			texts = append(texts, foldCaser.String(text))
		}

		for i := 0; i < len(present); i++ {
			for j := i + 1; j < len(present); j++ {
				similarity := Similarity(texts[i], texts[j])
				if similarity >= threshold {
					report.NearDuplicates = append(report.NearDuplicates, NearDuplicate{
						TaskID:     task.ID,
						ModelA:     present[i],
						ModelB:     present[j],
						Similarity: similarity,
					})
				}
			}
		}
	}
	return report, nil
}

// Similarity returns the normalized Levenshtein similarity of two strings:
// 1.0 for identical inputs, 0.0 for maximal edit distance.
func Similarity(a, b string) float64 {
	if a == b {
		return 1.0
	}
	longest := utf8.RuneCountInString(a)
	if n := utf8.RuneCountInString(b); n > longest {
		longest = n
	}
	if longest == 0 {
		return 1.0
	}
	distance := levenshtein.ComputeDistance(a, b)
	return 1.0 - float64(distance)/float64(longest)
}
