package tasks

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ahrav/go-rubric/internal/domain"
)

func TestParse(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    []domain.Task
		wantErr string
	}{
		{
			name: "valid records preserve file order",
			input: `{"id":"t1","category":"Fun","prompt":"tell a joke"}
{"id":"t2","category":"Teaching","prompt":"explain recursion"}`,
			want: []domain.Task{
				{ID: "t1", Category: domain.CategoryFun, Prompt: "tell a joke"},
				{ID: "t2", Category: domain.CategoryTeaching, Prompt: "explain recursion"},
			},
		},
		{
			name: "blank lines are skipped",
			input: `
{"id":"t1","category":"BS-Meter","prompt":"evaluate this claim"}

`,
			want: []domain.Task{
				{ID: "t1", Category: domain.CategoryBSMeter, Prompt: "evaluate this claim"},
			},
		},
		{
			name: "duplicate id is rejected",
			input: `{"id":"t1","category":"Fun","prompt":"a"}
{"id":"t1","category":"Critique","prompt":"b"}`,
			wantErr: "duplicate task id",
		},
		{
			name:    "unknown category is rejected",
			input:   `{"id":"t1","category":"Comedy","prompt":"a"}`,
			wantErr: "invalid task category",
		},
		{
			name:    "missing id is rejected",
			input:   `{"category":"Fun","prompt":"a"}`,
			wantErr: "task id is required",
		},
		{
			name:    "empty prompt is rejected",
			input:   `{"id":"t1","category":"Fun","prompt":""}`,
			wantErr: "empty prompt",
		},
		{
			name:    "malformed json reports line number",
			input:   `{"id":"t1",`,
			wantErr: "line 1",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Parse(context.Background(), strings.NewReader(tt.input))
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestFileSourceLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tasks.jsonl")
	content := `{"id":"t1","category":"Planning","prompt":"plan a trip"}` + "\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	got, err := NewFileSource(path).Load(context.Background())
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "t1", got[0].ID)
	assert.Equal(t, domain.CategoryPlanning, got[0].Category)
}

func TestFileSourceLoadMissingFile(t *testing.T) {
	_, err := NewFileSource(filepath.Join(t.TempDir(), "absent.jsonl")).Load(context.Background())
	require.Error(t, err)
}
