package systems

import "math/rand"

// RandomSource is the single random stream shared by the field, the
// weather and every species. *rand.Rand satisfies it, and so can a
// scripted stub in tests.
type RandomSource interface {
	Float64() float64
	Intn(n int) int
}

// NewRandomSource returns a seeded source.
func NewRandomSource(seed int64) *rand.Rand {
	return rand.New(rand.NewSource(seed))
}

// shuffle permutes locs in place (Fisher-Yates) using rng.
func shuffle[T any](rng RandomSource, locs []T) {
	for i := len(locs) - 1; i > 0; i-- {
		j := rng.Intn(i + 1)
		locs[i], locs[j] = locs[j], locs[i]
	}
}

// coinFlip returns true with probability one half.
func coinFlip(rng RandomSource) bool {
	return rng.Intn(2) == 0
}
