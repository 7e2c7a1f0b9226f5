package activation

import "math/rand"

// DefaultSeed is the seed used when callers pass seed == 0.
const DefaultSeed int64 = 1

// NewRand returns a deterministic *rand.Rand. Seed 0 maps to DefaultSeed.
//
// math/rand.Rand is not goroutine-safe; give every run its own stream.
func NewRand(seed int64) *rand.Rand {
	if seed == 0 {
		seed = DefaultSeed
	}

	return rand.New(rand.NewSource(seed))
}

// mixSeed folds a stream id into a parent seed with the SplitMix64
// finalizer so that neighbouring stream ids give unrelated seeds.
func mixSeed(parent int64, stream uint64) int64 {
	var x uint64
	x = uint64(parent) ^ (stream + 0x9e3779b97f4a7c15)
	x += 0x9e3779b97f4a7c15
	x = (x ^ (x >> 30)) * 0xbf58476d1ce4e5b9
	x = (x ^ (x >> 27)) * 0x94d049bb133111eb
	x ^= x >> 31

	return int64(x)
}

// DeriveSeed returns the seed of an independent stream for the given id.
// Distinct ids under the same seed give unrelated streams; seed 0 maps to
// DefaultSeed.
func DeriveSeed(seed int64, stream uint64) int64 {
	if seed == 0 {
		seed = DefaultSeed
	}

	return mixSeed(seed, stream)
}
