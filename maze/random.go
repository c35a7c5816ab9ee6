package maze

import (
	"math/rand"
	"time"
)

// RandomSource supplies uniform integers in [0, n).
type RandomSource interface {
	Intn(n int) int
}

// RandSource is a seeded RandomSource backed by math/rand.
type RandSource struct {
	seed int64
	rng  *rand.Rand
}

// NewRandSource creates a RandSource. A zero seed is replaced by the current time.
func NewRandSource(seed int64) *RandSource {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return &RandSource{
		seed: seed,
		rng:  rand.New(rand.NewSource(seed)),
	}
}

// Intn returns a uniform integer in [0, n).
func (r *RandSource) Intn(n int) int {
	return r.rng.Intn(n)
}

// Seed returns the seed the source was created with.
func (r *RandSource) Seed() int64 {
	return r.seed
}
