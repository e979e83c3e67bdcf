// Package storage provides the persistence backends for benchmark runs:
// a filesystem output store holding one artifact per (model, task) pair,
// and a SQLite score store holding the append-only rating log.
package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/ahrav/go-rubric/internal/domain"
	"github.com/ahrav/go-rubric/internal/ports"
)

var _ ports.OutputStore = (*FileOutputStore)(nil)

// FileOutputStore persists artifacts under root/{vendor}/{name}/, one file
// per task: {task_id}.txt for successes and {task_id}.failed.json for
// terminal failures. Writes go through a temp file and an atomic rename so
// readers never see a partially written artifact and an abandoned call
// leaves nothing behind.
type FileOutputStore struct {
	root string
}

// NewFileOutputStore creates a store rooted at the given directory.
// The directory is created on first write, not here.
func NewFileOutputStore(root string) *FileOutputStore {
	return &FileOutputStore{root: root}
}

func (s *FileOutputStore) successPath(model domain.ModelSpec, taskID string) string {
	return filepath.Join(s.root, model.Vendor, model.Name, taskID+".txt")
}

func (s *FileOutputStore) failurePath(model domain.ModelSpec, taskID string) string {
	return filepath.Join(s.root, model.Vendor, model.Name, taskID+".failed.json")
}

// HasSuccess implements ports.OutputStore.
func (s *FileOutputStore) HasSuccess(ctx context.Context, model domain.ModelSpec, taskID string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	_, err := os.Stat(s.successPath(model, taskID))
	if err == nil {
		return true, nil
	}
	if errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}
	return false, fmt.Errorf("stat output artifact: %w", err)
}

// WriteSuccess implements ports.OutputStore. A success supersedes any
// earlier failure marker for the pair.
func (s *FileOutputStore) WriteSuccess(ctx context.Context, model domain.ModelSpec, taskID, text string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := s.writeAtomic(s.successPath(model, taskID), []byte(text)); err != nil {
		return fmt.Errorf("write output artifact: %w", err)
	}
	if err := os.Remove(s.failurePath(model, taskID)); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("clear stale failure marker: %w", err)
	}
	return nil
}

// WriteFailure implements ports.OutputStore.
func (s *FileOutputStore) WriteFailure(ctx context.Context, model domain.ModelSpec, taskID string, failure domain.FailureRecord) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	data, err := json.MarshalIndent(failure, "", "  ")
	if err != nil {
		return fmt.Errorf("encode failure marker: %w", err)
	}
	if err := s.writeAtomic(s.failurePath(model, taskID), data); err != nil {
		return fmt.Errorf("write failure marker: %w", err)
	}
	return nil
}

// ReadSuccess implements ports.OutputStore.
func (s *FileOutputStore) ReadSuccess(ctx context.Context, model domain.ModelSpec, taskID string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	data, err := os.ReadFile(s.successPath(model, taskID))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return "", fmt.Errorf("%w: %s for task %s", domain.ErrOutputNotFound, model.ID(), taskID)
		}
		return "", fmt.Errorf("read output artifact: %w", err)
	}
	return string(data), nil
}

// ReadFailure returns the failure marker for a pair, or
// domain.ErrOutputNotFound when none exists. Used by the verify report to
// show why a model is absent from a task's blind set.
func (s *FileOutputStore) ReadFailure(ctx context.Context, model domain.ModelSpec, taskID string) (domain.FailureRecord, error) {
	var record domain.FailureRecord
	if err := ctx.Err(); err != nil {
		return record, err
	}
	data, err := os.ReadFile(s.failurePath(model, taskID))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return record, fmt.Errorf("%w: no failure marker for %s/%s", domain.ErrOutputNotFound, model.ID(), taskID)
		}
		return record, fmt.Errorf("read failure marker: %w", err)
	}
	if err := json.Unmarshal(data, &record); err != nil {
		return record, fmt.Errorf("decode failure marker: %w", err)
	}
	return record, nil
}

// writeAtomic writes data to path via a temp file in the same directory
// followed by a rename.
func (s *FileOutputStore) writeAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(path)+".tmp-*")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return err
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return err
	}
	return nil
}
