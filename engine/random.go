package engine

import (
	"math/rand/v2"
	"time"
)

// RandomSource is the uniform randomness the engine draws from
// *rand.Rand from math/rand/v2 satisfies it
type RandomSource interface {
	// Float64 returns a value in [0, 1)
	Float64() float64
	// IntN returns a value in [0, n); n > 0
	IntN(n int) int
}

// NewRandomSource returns a PCG-backed source; seed 0 seeds from the clock
func NewRandomSource(seed uint64) *rand.Rand {
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}
	return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}
