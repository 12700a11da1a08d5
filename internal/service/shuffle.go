package service

import (
	"math/rand/v2"
	"time"
)

// NewRand returns a PCG-backed generator. A zero seed draws one from the clock.
func NewRand(seed uint64) *rand.Rand {
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}
	return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}

// Shuffle permutes items in place with a uniform Fisher–Yates shuffle.
// The same seed always yields the same permutation.
func Shuffle[T any](rng *rand.Rand, items []T) {
	for i := len(items) - 1; i > 0; i-- {
		j := rng.IntN(i + 1)
		items[i], items[j] = items[j], items[i]
	}
}

// Shuffled returns a shuffled copy of items.
func Shuffled[T any](rng *rand.Rand, items []T) []T {
	out := append([]T(nil), items...)
	Shuffle(rng, out)
	return out
}
