// Package domain defines the four declarative value domains a random
// variable can draw from: fixed-width bit vectors, enumerated lists,
// weighted maps, and opaque functions.
//
// A Domain is an explicit tagged union (Kind plus one populated field set),
// not an interface hierarchy — dispatch is a switch on Kind, matching the
// rest of this module's preference for plain structs over polymorphism.
// Sampling and enumeration both flow through the shared *rng.RNG so that a
// given seed reproduces a given sequence of values.
package domain
