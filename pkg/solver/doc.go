// Package solver drives the three-strategy fallback pipeline that maps a
// (problem, seed) pair to a satisfying Assignment: naive rejection
// sampling, a sparse layered explorer grouped by order hint, and a
// thorough exhaustive CSP enumerator (spec.md §4).
//
// Scheduling model: single-threaded and fully synchronous. Solve performs
// no I/O and no yielding; it runs to completion or failure without
// suspension. This is deliberate — parallelism would break the bit-for-bit
// seed reproducibility that is this package's core contract. Every draw a
// strategy makes flows through the problem's single shared *rng.RNG in a
// fixed order, so the same (problem, seed) always retraverses the
// identical sequence of strategy attempts.
package solver
