package engine

import "math/rand/v2"

// RNG is the only source of nondeterminism in a session. *rand.Rand
// satisfies it.
type RNG interface {
	Float64() float64
	IntN(n int) int
}

// NewRNG returns a PCG generator. Equal seeds replay equal sessions.
func NewRNG(seed uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}
