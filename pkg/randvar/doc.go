// Package randvar implements RandVar, the per-variable sampling unit the
// solver composes into full assignments. A RandVar knows its own domain and
// local (scalar or list) constraints and draws candidate values on a
// best-effort basis; it has no notion of other variables or multi-variable
// constraints — that is pkg/problem and pkg/solver's job.
package randvar
