package storage

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"github.com/ahrav/go-rubric/internal/domain"
	"github.com/ahrav/go-rubric/internal/ports"
)

// scoresSchema creates the append-only rating log. There are no UPDATE or
// DELETE paths anywhere in the codebase; re-scores are new rows.
const scoresSchema = `
CREATE TABLE IF NOT EXISTS scores (
	id         INTEGER PRIMARY KEY AUTOINCREMENT,
	task_id    TEXT    NOT NULL,
	model      TEXT    NOT NULL,
	quality    INTEGER NOT NULL CHECK (quality BETWEEN 1 AND 5),
	tone_fit   INTEGER NOT NULL CHECK (tone_fit BETWEEN 1 AND 5),
	session_id TEXT    NOT NULL,
	created_at TEXT    NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_scores_pair ON scores(task_id, model);
`

var _ ports.ScoreStore = (*SQLiteScoreStore)(nil)

// SQLiteScoreStore persists scores in a SQLite database.
type SQLiteScoreStore struct {
	db *sql.DB
}

// OpenScoreStore opens (creating if necessary) the score database at path
// and ensures the schema exists.
func OpenScoreStore(path string) (*SQLiteScoreStore, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create score store directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", "file:"+path+"?_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("open score store: %w", err)
	}
	if _, err := db.Exec(scoresSchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("ensure scores schema: %w", err)
	}
	return &SQLiteScoreStore{db: db}, nil
}

// Close releases the underlying database handle.
func (s *SQLiteScoreStore) Close() error { return s.db.Close() }

// Append implements ports.ScoreStore.
func (s *SQLiteScoreStore) Append(ctx context.Context, score domain.Score) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO scores(task_id, model, quality, tone_fit, session_id, created_at) VALUES (?,?,?,?,?,?)`,
		score.TaskID, score.Model, score.Quality, score.ToneFit, score.SessionID,
		score.CreatedAt.UTC().Format(time.RFC3339Nano))
	if err != nil {
		return fmt.Errorf("append score: %w", err)
	}
	return nil
}

// List implements ports.ScoreStore, returning rows in insertion order.
func (s *SQLiteScoreStore) List(ctx context.Context) ([]domain.Score, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT task_id, model, quality, tone_fit, session_id, created_at FROM scores ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("list scores: %w", err)
	}
	defer rows.Close()

	var scores []domain.Score
	for rows.Next() {
		var score domain.Score
		var createdAt string
		if err := rows.Scan(&score.TaskID, &score.Model, &score.Quality, &score.ToneFit, &score.SessionID, &createdAt); err != nil {
			return nil, fmt.Errorf("scan score row: %w", err)
		}
		score.CreatedAt, err = time.Parse(time.RFC3339Nano, createdAt)
		if err != nil {
			return nil, fmt.Errorf("parse score timestamp %q: %w", createdAt, err)
		}
		scores = append(scores, score)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate score rows: %w", err)
	}
	return scores, nil
}
