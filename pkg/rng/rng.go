package rng

import (
	"crypto/sha256"
	"encoding/binary"
	"math/rand"
)

// RNG is the single deterministic random source shared across a solve call.
//
// Every draw the solver pipeline makes — per-variable sampling, tie-breaks,
// shuffles, strategy fallbacks — must go through the same *RNG instance in a
// fixed order for a given input, so that seed -> assignment is reproducible
// bit-for-bit. The underlying generator is Go's math/rand source from
// rand.NewSource (an additive lagged Fibonacci generator); no other
// algorithm is used, and no process-wide default exists.
//
// RNG is NOT safe for concurrent use: a single solve is single-threaded by
// design (see the package doc of pkg/solver), and callers holding multiple
// problems against one RNG must serialize their calls.
type RNG struct {
	seed   uint64
	label  string
	source *rand.Rand
}

// NewRNG creates the root random source for a solve call, seeded directly.
// Same seed, same *RNG, same sequence of draws.
func NewRNG(seed uint64) *RNG {
	return &RNG{
		seed:   seed,
		source: rand.New(rand.NewSource(int64(seed))),
	}
}

// NewDerivedRNG derives an independent sub-seed from a master seed using
// SHA-256 over (masterSeed, label, configHash), the first 8 bytes of the
// digest becoming the new seed:
//
//	seed_label = H(masterSeed, label, configHash)
//
// This is for callers that fan a single CLI/config seed out into several
// independent solves and want each call's randomness isolated from, and
// insensitive to reordering of, the others — it is not used inside a single
// solve, which must share one RNG throughout. cmd/crandgen does not use it:
// its successive calls share the one RNG that config.Build seeds.
func NewDerivedRNG(masterSeed uint64, label string, configHash []byte) *RNG {
	h := sha256.New()
	var buf [8]byte
	binary.BigEndian.PutUint64(buf[:], masterSeed)
	h.Write(buf[:])
	h.Write([]byte(label))
	h.Write(configHash)

	hash := h.Sum(nil)
	derivedSeed := binary.BigEndian.Uint64(hash[:8])

	return &RNG{
		seed:   derivedSeed,
		label:  label,
		source: rand.New(rand.NewSource(int64(derivedSeed))),
	}
}

// Uint64 returns a pseudo-random 64-bit unsigned integer.
func (r *RNG) Uint64() uint64 {
	return r.source.Uint64()
}

// Intn returns a pseudo-random integer in [0, n). Panics if n <= 0.
func (r *RNG) Intn(n int) int {
	if n <= 0 {
		panic("rng: Intn argument must be positive")
	}
	return r.source.Intn(n)
}

// Float64 returns a pseudo-random float64 in [0.0, 1.0).
func (r *RNG) Float64() float64 {
	return r.source.Float64()
}

// Shuffle pseudo-randomizes the order of elements in place via swap.
func (r *RNG) Shuffle(n int, swap func(i, j int)) {
	r.source.Shuffle(n, swap)
}

// Seed returns this RNG's effective seed (root seed, or derived sub-seed).
func (r *RNG) Seed() uint64 {
	return r.seed
}

// Label returns the derivation label, empty for a root RNG.
func (r *RNG) Label() string {
	return r.label
}

// IntRange returns a pseudo-random integer in [lo, hi] inclusive.
// Panics if lo > hi.
func (r *RNG) IntRange(lo, hi int) int {
	if lo > hi {
		panic("rng: IntRange lo must be <= hi")
	}
	if lo == hi {
		return lo
	}
	return lo + r.source.Intn(hi-lo+1)
}

// Float64Range returns a pseudo-random float64 in [lo, hi). Panics if lo >= hi.
func (r *RNG) Float64Range(lo, hi float64) float64 {
	if lo >= hi {
		panic("rng: Float64Range lo must be < hi")
	}
	return lo + r.source.Float64()*(hi-lo)
}

// Bool returns a pseudo-random boolean value.
func (r *RNG) Bool() bool {
	return r.source.Intn(2) == 1
}

// WeightedChoice selects an index from weights using weighted random
// selection. Weights must be non-negative. Returns -1 if all weights are
// zero or weights is empty.
func (r *RNG) WeightedChoice(weights []float64) int {
	if len(weights) == 0 {
		return -1
	}

	total := 0.0
	for _, w := range weights {
		if w < 0 {
			panic("rng: WeightedChoice weights must be non-negative")
		}
		total += w
	}
	if total == 0 {
		return -1
	}

	randVal := r.Float64() * total
	cumulative := 0.0
	for i, w := range weights {
		cumulative += w
		if randVal < cumulative {
			return i
		}
	}
	return len(weights) - 1
}

// WeightedIntChoice is WeightedChoice for integer weights, the shape the
// domain package's weighted-map domain carries (spec: "a mapping from
// (value | range) to positive integer weight; sampled proportionally").
func (r *RNG) WeightedIntChoice(weights []int64) int {
	if len(weights) == 0 {
		return -1
	}
	floats := make([]float64, len(weights))
	var total int64
	for i, w := range weights {
		if w < 0 {
			panic("rng: WeightedIntChoice weights must be non-negative")
		}
		floats[i] = float64(w)
		total += w
	}
	if total == 0 {
		return -1
	}
	return r.WeightedChoice(floats)
}

// Choice picks one element uniformly from a non-empty slice.
func Choice[T any](r *RNG, items []T) T {
	if len(items) == 0 {
		var zero T
		return zero
	}
	return items[r.Intn(len(items))]
}

// ShuffleSlice shuffles items in place using r.
func ShuffleSlice[T any](r *RNG, items []T) {
	r.Shuffle(len(items), func(i, j int) {
		items[i], items[j] = items[j], items[i]
	})
}
