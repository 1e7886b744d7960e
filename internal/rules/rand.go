package rules

import "math/rand/v2"

// Rand is the source of every random decision a variant makes. *rand.Rand
// from math/rand/v2 satisfies it.
type Rand interface {
	Float64() float64
	IntN(n int) int
	Shuffle(n int, swap func(i, j int))
}

// NewRand returns a PCG-backed generator; equal seeds replay equal runs.
func NewRand(seed int64) *rand.Rand {
	return rand.New(rand.NewPCG(uint64(seed), 0))
}
