package scoring

import (
	"crypto/sha256"
	"encoding/binary"
	"math/rand/v2"
)

// slotAlphabet is the fixed label alphabet. Tasks with more candidates than
// letters continue with two-letter labels (AA, AB, ...), though benchmark
// runs compare a handful of models in practice.
const slotAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ"

// slotLabel returns the i-th anonymized display label.
func slotLabel(i int) string {
	n := len(slotAlphabet)
	if i < n {
		return string(slotAlphabet[i])
	}
	return string(slotAlphabet[i/n-1]) + string(slotAlphabet[i%n])
}

// permutation returns a pseudo-random permutation of n indexes that is a
// pure function of (taskID, seed): the same inputs always reproduce the
// same order, and distinct task IDs within one session diverge, so slot
// positions leak nothing across tasks. No process-wide random state is
// consulted.
func permutation(taskID string, seed uint64, n int) []int {
	h := sha256.New()
	h.Write([]byte(taskID))
	var seedBytes [8]byte
	binary.LittleEndian.PutUint64(seedBytes[:], seed)
	h.Write(seedBytes[:])
	sum := h.Sum(nil)

	rng := rand.New(rand.NewPCG(
		binary.LittleEndian.Uint64(sum[0:8]),
		binary.LittleEndian.Uint64(sum[8:16]),
	))
	return rng.Perm(n)
}
