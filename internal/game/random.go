package game

import (
	"hash/fnv"
	"math/rand"
)

// DefaultSeed seeds worlds constructed without an explicit seed.
const DefaultSeed = "interactor"

// DeterministicSeedValue hashes a root seed and subsystem label into a
// non-zero RNG seed.
func DeterministicSeedValue(rootSeed, label string) int64 {
	hasher := fnv.New64a()
	hasher.Write([]byte(rootSeed))
	hasher.Write([]byte{0})
	hasher.Write([]byte(label))
	sum := hasher.Sum64()
	if sum == 0 {
		sum = 1
	}
	return int64(sum)
}

// NewDeterministicRNG builds a subsystem RNG from a root seed.
func NewDeterministicRNG(rootSeed, label string) *rand.Rand {
	return rand.New(rand.NewSource(DeterministicSeedValue(rootSeed, label)))
}
