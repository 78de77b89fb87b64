package quantum

import (
	crand "crypto/rand"
	"encoding/binary"
	"fmt"
	"math"
	"math/rand"

	"golang.org/x/crypto/sha3"
)

// RandomSource yields independent uniform draws in [0, 1).
// *rand.Rand satisfies it. Implementations need not be safe for concurrent use;
// every stochastic operation takes its source explicitly so callers can give
// each worker its own stream.
type RandomSource interface {
	Float64() float64
}

// NewSeededSource creates a deterministic pseudo-random stream
func NewSeededSource(seed int64) *rand.Rand {
	return rand.New(rand.NewSource(seed))
}

// NewSeed draws a high-entropy seed from crypto/rand
func NewSeed() (int64, error) {
	var b [8]byte
	if _, err := crand.Read(b[:]); err != nil {
		return 0, fmt.Errorf("read random seed: %w", err)
	}

	return int64(binary.LittleEndian.Uint64(b[:])), nil
}

// DeriveSeed derives an independent child seed from a master seed and a label.
// The same (master, label) pair always yields the same seed, and distinct labels
// yield unrelated streams.
func DeriveSeed(master int64, label string) int64 {
	var buf [8]byte
	binary.LittleEndian.PutUint64(buf[:], uint64(master))

	h := sha3.New256()
	h.Write(buf[:])
	h.Write([]byte(label))
	sum := h.Sum(nil)

	return int64(binary.LittleEndian.Uint64(sum[:8]))
}

// ClampProbability forces p into [0, 1] so it can be used as a Bernoulli parameter.
// NaN collapses to 0.
func ClampProbability(p float64) float64 {
	if math.IsNaN(p) || p < 0 {
		return 0
	}
	if p > 1 {
		return 1
	}
	return p
}
