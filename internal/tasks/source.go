// Package tasks loads the benchmark task set from line-delimited JSON.
package tasks

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/ahrav/go-rubric/internal/domain"
	"github.com/ahrav/go-rubric/internal/ports"
)

// maxRecordBytes bounds a single task record line. Prompts are short by
// construction; anything near this size is a malformed file.
const maxRecordBytes = 1 << 20

var _ ports.TaskSource = (*FileSource)(nil)

// FileSource reads tasks from a JSONL file, one record per line:
//
//	{"id": "t1", "category": "Fun", "prompt": "..."}
//
// Blank lines are ignored. Loading fails on the first malformed record,
// unknown category, or duplicate ID, reporting the offending line number.
type FileSource struct {
	path string
}

// NewFileSource creates a task source for the given JSONL file path.
func NewFileSource(path string) *FileSource { return &FileSource{path: path} }

// Load implements ports.TaskSource.
func (s *FileSource) Load(ctx context.Context) ([]domain.Task, error) {
	f, err := os.Open(s.path)
	if err != nil {
		return nil, fmt.Errorf("open task file: %w", err)
	}
	defer f.Close()

	tasks, err := Parse(ctx, f)
	if err != nil {
		return nil, fmt.Errorf("parse task file %s: %w", s.path, err)
	}
	return tasks, nil
}

// rawTask mirrors the wire record before category validation.
type rawTask struct {
	ID       string `json:"id"`
	Category string `json:"category"`
	Prompt   string `json:"prompt"`
}

// Parse reads line-delimited task records from r, preserving file order.
func Parse(ctx context.Context, r io.Reader) ([]domain.Task, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxRecordBytes)

	var tasks []domain.Task
	seen := make(map[string]struct{})
	line := 0

	for scanner.Scan() {
		line++
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		text := strings.TrimSpace(scanner.Text())
		if text == "" {
			continue
		}

		var raw rawTask
		if err := json.Unmarshal([]byte(text), &raw); err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		if raw.ID == "" {
			return nil, fmt.Errorf("line %d: task id is required", line)
		}
		if raw.Prompt == "" {
			return nil, fmt.Errorf("line %d: task %q has an empty prompt", line, raw.ID)
		}
		if _, dup := seen[raw.ID]; dup {
			return nil, fmt.Errorf("line %d: %w: %q", line, domain.ErrDuplicateTaskID, raw.ID)
		}
		category, err := domain.ParseCategory(raw.Category)
		if err != nil {
			return nil, fmt.Errorf("line %d: task %q: %w", line, raw.ID, err)
		}

		seen[raw.ID] = struct{}{}
		tasks = append(tasks, domain.Task{ID: raw.ID, Category: category, Prompt: raw.Prompt})
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read task records: %w", err)
	}
	return tasks, nil
}
