package scoring

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSlotLabel(t *testing.T) {
	cases := []struct {
		index int
		want  string
	}{
		{0, "A"},
		{1, "B"},
		{25, "Z"},
		{26, "AA"},
		{27, "AB"},
		{51, "AZ"},
		{52, "BA"},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, slotLabel(tc.index), "index %d", tc.index)
	}
}

func TestPermutationDeterministic(t *testing.T) {
	first := permutation("task-7", 42, 6)
	second := permutation("task-7", 42, 6)
	assert.Equal(t, first, second, "same (task, seed) must reproduce the layout")
}

func TestPermutationIsValid(t *testing.T) {
	perm := permutation("task-7", 42, 8)
	require.Len(t, perm, 8)

	seen := make(map[int]bool, len(perm))
	for _, j := range perm {
		assert.GreaterOrEqual(t, j, 0)
		assert.Less(t, j, 8)
		assert.False(t, seen[j], "index %d appears twice", j)
		seen[j] = true
	}
}

func TestPermutationVariesAcrossInputs(t *testing.T) {
	// With n=10 there are 3.6 million orderings; a collision across these
	// inputs would indicate the hash is not actually feeding the generator.
	base := permutation("task-7", 42, 10)
	assert.NotEqual(t, base, permutation("task-8", 42, 10), "task ID must perturb the order")
	assert.NotEqual(t, base, permutation("task-7", 43, 10), "seed must perturb the order")
}
