package main

import "math/rand"

// RNG supplies every random draw the engine makes. Tests substitute a
// scripted implementation to pin exact outcomes down.
type RNG interface {
	// IntBetween returns a uniform integer in [lo, hi] inclusive.
	IntBetween(lo, hi int) int
	// Float64 returns a uniform real in [0, 1).
	Float64() float64
}

type mathRNG struct {
	r *rand.Rand
}

func newMathRNG(seed int64) *mathRNG {
	return &mathRNG{r: rand.New(rand.NewSource(seed))}
}

func (m *mathRNG) IntBetween(lo, hi int) int {
	if hi <= lo {
		return lo
	}
	return lo + m.r.Intn(hi-lo+1)
}

func (m *mathRNG) Float64() float64 {
	return m.r.Float64()
}
