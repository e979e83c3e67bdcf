// Package domain defines the core types for benchmark runs, blind scoring
// sessions, and leaderboard aggregation. Types in this package are plain
// values with no infrastructure dependencies; stores and transports consume
// them through the interfaces in the ports package.
package domain

import "fmt"

// Category classifies a benchmark task by the kind of response it probes.
// The set is fixed; task files referencing any other value are rejected
// at load time.
type Category string

// The seven task categories recognized by the benchmark.
const (
	CategoryFun          Category = "Fun"
	CategoryInsightful   Category = "Insightful"
	CategoryBSMeter      Category = "BS-Meter"
	CategoryTeaching     Category = "Teaching"
	CategoryProfessional Category = "Professional"
	CategoryPlanning     Category = "Planning"
	CategoryCritique     Category = "Critique"
)

// Categories returns all valid task categories in display order.
func Categories() []Category {
	return []Category{
		CategoryFun,
		CategoryInsightful,
		CategoryBSMeter,
		CategoryTeaching,
		CategoryProfessional,
		CategoryPlanning,
		CategoryCritique,
	}
}

// ParseCategory validates a raw category string from a task record.
func ParseCategory(s string) (Category, error) {
	for _, c := range Categories() {
		if string(c) == s {
			return c, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidCategory, s)
}

// Task is a single benchmark prompt. Tasks are immutable once loaded and
// referenced everywhere else by ID.
type Task struct {
	// ID uniquely identifies the task across the whole task set.
	ID string `json:"id"`

	// Category is one of the seven fixed task categories.
	Category Category `json:"category"`

	// Prompt is the text sent verbatim to each model under test.
	Prompt string `json:"prompt"`
}
