// Package rng provides the single deterministic random source the solver
// pipeline threads through every variable, constraint, and strategy.
//
// # Overview
//
// constrainedrandom's reproducibility contract — same seed, same sequence of
// internal draws, same final assignment — depends on every consumer of
// randomness sharing one *RNG instance. NewRNG seeds that instance directly;
// NewDerivedRNG exists for callers that want to fan one top-level seed out
// into several independent, isolated solves, not for use inside a single
// solve.
//
// # Sub-Seed Derivation
//
// NewDerivedRNG derives a seed using SHA-256:
//
//	seed_label = H(masterSeed, label, configHash)
//
// where:
//   - masterSeed: the top-level seed the caller was handed
//   - label: identifies the fan-out unit (e.g. "solve-3")
//   - configHash: hash of whatever configuration affects the result
//
// This ensures:
//  1. Same inputs always produce the same RNG sequence (determinism)
//  2. Different fan-out units get independent random sequences (isolation)
//  3. Config changes result in different sequences (sensitivity)
//
// # Usage
//
//	r := rng.NewRNG(seed)
//	v := r.IntRange(0, 99)
//	idx := r.WeightedIntChoice([]int64{50, 25, 25})
//
// # Thread Safety
//
// RNG is NOT thread-safe. A solve is single-threaded by design (see
// pkg/solver's package doc); callers holding multiple problems against one
// RNG must serialize their calls themselves.
package rng
