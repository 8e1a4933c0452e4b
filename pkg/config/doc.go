// Package config loads a declarative problem definition from YAML and
// builds a *problem.MultiVarProblem from it.
//
// Only the three domain kinds with a serializable shape — bit-width,
// enum, and weighted — can be expressed in YAML; a Function domain is an
// opaque Go callable and must be registered on the built problem in code
// after loading (spec.md's design note on random-source injection applies
// equally here: the caller must pass the problem's own *rng.RNG into any
// function-domain variable it adds).
//
// Multi-variable constraints are likewise not arbitrary code in YAML.
// Config describes them by a fixed vocabulary of constraint kinds (see
// constraints.go) resolved against a small built-in registry; a caller
// needing a bespoke predicate adds it directly via problem.AddConstraint
// after Build.
package config
