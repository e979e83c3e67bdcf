package verify

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ahrav/go-rubric/internal/domain"
)

// auditStore is a seeded in-memory store; failure markers are optional so
// the degraded (no failureReader) path can be exercised too.
type auditStore struct {
	texts    map[string]map[string]string
	failures map[string]map[string]domain.FailureRecord
}

func (s *auditStore) HasSuccess(_ context.Context, model domain.ModelSpec, taskID string) (bool, error) {
	_, ok := s.texts[model.ID()][taskID]
	return ok, nil
}

func (s *auditStore) WriteSuccess(context.Context, domain.ModelSpec, string, string) error {
	panic("audits never write")
}

func (s *auditStore) WriteFailure(context.Context, domain.ModelSpec, string, domain.FailureRecord) error {
	panic("audits never write")
}

func (s *auditStore) ReadSuccess(_ context.Context, model domain.ModelSpec, taskID string) (string, error) {
	text, ok := s.texts[model.ID()][taskID]
	if !ok {
		return "", domain.ErrOutputNotFound
	}
	return text, nil
}

func (s *auditStore) ReadFailure(_ context.Context, model domain.ModelSpec, taskID string) (domain.FailureRecord, error) {
	record, ok := s.failures[model.ID()][taskID]
	if !ok {
		return domain.FailureRecord{}, domain.ErrOutputNotFound
	}
	return record, nil
}

var auditModels = []domain.ModelSpec{
	{Vendor: "openai", Name: "alpha"},
	{Vendor: "anthropic", Name: "beta"},
}

var auditTasks = []domain.Task{
	{ID: "t1", Category: domain.CategoryFun, Prompt: "p1"},
	{ID: "t2", Category: domain.CategoryPlanning, Prompt: "p2"},
}

func TestRunCompleteStore(t *testing.T) {
	store := &auditStore{texts: map[string]map[string]string{
		"openai/alpha":   {"t1": "a distinctive first answer", "t2": "something else entirely"},
		"anthropic/beta": {"t1": "a wholly different take on it", "t2": "no resemblance at all here"},
	}}

	report, err := Run(context.Background(), store, auditModels, auditTasks, 0)
	require.NoError(t, err)

	assert.Equal(t, 4, report.Pairs)
	assert.True(t, report.Complete())
	assert.Empty(t, report.NearDuplicates)
}

func TestRunReportsMissingWithFailureKind(t *testing.T) {
	store := &auditStore{
		texts: map[string]map[string]string{
			"openai/alpha":   {"t1": "answer one", "t2": "answer two"},
			"anthropic/beta": {"t1": "answer three"},
		},
		failures: map[string]map[string]domain.FailureRecord{
			"anthropic/beta": {"t2": {ErrorKind: "rate_limited", Message: "429"}},
		},
	}

	report, err := Run(context.Background(), store, auditModels, auditTasks, 0)
	require.NoError(t, err)

	assert.False(t, report.Complete())
	require.Len(t, report.Missing, 1)
	missing := report.Missing[0]
	assert.Equal(t, "anthropic/beta", missing.Model.ID())
	assert.Equal(t, "t2", missing.TaskID)
	assert.Equal(t, "rate_limited", missing.FailureKind)
}

func TestRunMissingWithoutMarker(t *testing.T) {
	store := &auditStore{texts: map[string]map[string]string{
		"openai/alpha": {"t1": "only output present"},
	}}

	report, err := Run(context.Background(), store, auditModels, auditTasks[:1], 0)
	require.NoError(t, err)

	require.Len(t, report.Missing, 1)
	assert.Empty(t, report.Missing[0].FailureKind, "never-attempted pairs carry no kind")
}

func TestRunFlagsNearDuplicates(t *testing.T) {
	shared := strings.Repeat("the same cached gateway response ", 10)
	store := &auditStore{texts: map[string]map[string]string{
		"openai/alpha":   {"t1": shared},
		"anthropic/beta": {"t1": strings.ToUpper(shared)},
	}}

	report, err := Run(context.Background(), store, auditModels, auditTasks[:1], 0)
	require.NoError(t, err)

	require.Len(t, report.NearDuplicates, 1, "case differences must not hide duplicates")
	dup := report.NearDuplicates[0]
	assert.Equal(t, "t1", dup.TaskID)
	assert.Equal(t, "openai/alpha", dup.ModelA)
	assert.Equal(t, "anthropic/beta", dup.ModelB)
	assert.InDelta(t, 1.0, dup.Similarity, 1e-9)
}

func TestRunThresholdSeparatesDistinctOutputs(t *testing.T) {
	store := &auditStore{texts: map[string]map[string]string{
		"openai/alpha":   {"t1": "completely original answer about planning a trip"},
		"anthropic/beta": {"t1": "unrelated commentary on breakfast cereal rankings"},
	}}

	report, err := Run(context.Background(), store, auditModels, auditTasks[:1], 0.9)
	require.NoError(t, err)
	assert.Empty(t, report.NearDuplicates)
}

func TestSimilarity(t *testing.T) {
	cases := []struct {
		name string
		a, b string
		want float64
	}{
		{name: "identical", a: "hello", b: "hello", want: 1.0},
		{name: "both empty", a: "", b: "", want: 1.0},
		{name: "one empty", a: "abcd", b: "", want: 0.0},
		{name: "disjoint", a: "aaaa", b: "bbbb", want: 0.0},
		{name: "one edit in ten", a: "abcdefghij", b: "abcdefghiX", want: 0.9},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.InDelta(t, tc.want, Similarity(tc.a, tc.b), 1e-9)
		})
	}
}
