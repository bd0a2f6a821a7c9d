// Package rng provides the single reproducible random source threaded
// through every randomized step of the Leiden algorithm: initial queue
// permutations in local-moving, node visitation order in refinement, and
// the proportional cluster selection inside refinement.
//
// The generator is math/rand/v2's PCG (a permuted congruential generator)
// with a documented, portable stream — the same (seed) always produces the same
// sequence regardless of host, satisfying the cross-platform
// reproducibility contract in spec §6.
package rng

import "math/rand/v2"

// Source wraps a *rand.Rand so every randomized call in the engine goes
// through one value-owned generator, never a package-level or thread-local
// one. It is passed by pointer through the call graph and is never safe
// for concurrent use — each invocation of Partition/HierarchicalPartition
// owns its own Source exclusively, per the single-threaded model in spec §5.
type Source struct {
	r *rand.Rand
}

// New creates a Source seeded deterministically from a 64-bit seed.
func New(seed uint64) *Source {
	return &Source{r: rand.New(rand.NewPCG(seed, splitMix64(seed)))}
}

// FromEntropy creates a Source seeded from the process entropy source, for
// callers that did not supply a seed. The resulting seed is not reported
// back to the caller; callers who need reproducibility must supply a seed.
func FromEntropy() *Source {
	return New(EntropySeed())
}

// EntropySeed draws a fresh master seed from the process entropy source,
// for callers (such as pkg/leiden) that need the raw seed value itself
// rather than an already-constructed Source — e.g. to log it or derive
// per-trial sub-seeds from it.
func EntropySeed() uint64 {
	// math/rand/v2's top-level generator is auto-seeded from the OS entropy
	// source once per process; crypto/rand would be overkill here since
	// non-deterministic seeding does not need to be cryptographically secure.
	return rand.Uint64()
}

// Float64 returns a pseudo-random number in [0, 1).
func (s *Source) Float64() float64 {
	return s.r.Float64()
}

// IntN returns a pseudo-random number in [0, n).
func (s *Source) IntN(n int) int {
	return s.r.IntN(n)
}

// Shuffle permutes [0, n) in place via swap(i, j), using the Fisher-Yates
// algorithm driven by this Source.
func (s *Source) Shuffle(n int, swap func(i, j int)) {
	s.r.Shuffle(n, swap)
}

// Permutation returns a fresh random permutation of [0, n), used to seed
// the initial node-visitation order for local-moving and refinement.
func (s *Source) Permutation(n int) []int {
	order := make([]int, n)
	for i := range order {
		order[i] = i
	}
	s.Shuffle(n, func(i, j int) { order[i], order[j] = order[j], order[i] })
	return order
}

// SubSeed derives an independent sub-seed for trial t (0-indexed) of a
// multi-trial Partition run. Mixing the trial index through splitMix64
// before folding it into the PCG stream keeps trials statistically
// independent while remaining a pure function of (seed, t), so repeated
// runs with the same master seed reproduce the same per-trial streams.
func SubSeed(masterSeed uint64, trial int) uint64 {
	return masterSeed ^ splitMix64(masterSeed+1+uint64(trial))
}

// splitMix64 is the standard SplitMix64 mixing function, used here purely
// to decorrelate a counter (a trial index, or the seed itself) from the
// seed it is mixed with before handing both halves to PCG.
func splitMix64(x uint64) uint64 {
	x += 0x9E3779B97F4A7C15
	z := x
	z = (z ^ (z >> 30)) * 0xBF58476D1CE4E5B9
	z = (z ^ (z >> 27)) * 0x94D049BB133111EB
	z = z ^ (z >> 31)
	return z
}
