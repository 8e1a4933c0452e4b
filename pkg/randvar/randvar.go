package randvar

import (
	"fmt"

	"github.com/dshills/constrainedrandom/pkg/domain"
	"github.com/dshills/constrainedrandom/pkg/rng"
)

// DefaultScalarRetries bounds how many times Draw retries a scalar value
// against ScalarConstraints before giving up and returning the last attempt.
const DefaultScalarRetries = 5

// DefaultListRetries bounds how many times Draw retries a whole list against
// ListConstraints before giving up and returning the last attempt (spec:
// "a small bounded number of retries, implementation-defined, e.g. 10").
const DefaultListRetries = 10

// maxListEnumerateCandidates and maxListEnumerateAttempts bound
// EnumerateList's work independent of the k it's asked for: a list
// variable's Length-tuple space has no cheap full-enumeration shortcut the
// way a scalar domain's does, so an oversized request (e.g. a sparse group's
// proportional-allocation heuristic sized for a scalar domain) can't be
// allowed to translate into millions of draws.
const (
	maxListEnumerateCandidates = 256
	maxListEnumerateAttempts   = 4096
)

// Predicate is a scalar constraint: a pure function from one candidate value
// to boolean, satisfied iff it returns true. Predicates are opaque to the
// engine; a panicking predicate is treated as a failed check, never as a
// fatal error (see pkg/solver's fault-tolerance policy).
type Predicate func(value any) bool

// ListPredicate is a whole-list constraint over a variable's Length values.
type ListPredicate func(values []any) bool

// RandVar is one random variable: a name, a domain, an optional list shape,
// and the predicates it tries to satisfy on its own before the solver's
// multi-variable constraints ever see it.
//
// RandVar is immutable after construction except for its append-only
// constraint slices, which callers must stop mutating once a solve begins
// (see pkg/problem's lifecycle note).
type RandVar struct {
	Name              string
	Domain            domain.Domain
	Length            int // 0 = scalar, N>0 = list of N elements
	ScalarConstraints []Predicate
	ListConstraints   []ListPredicate
	Order             int // sparse-strategy group hint, default 0
	Initial           any // default nil

	// ScalarRetries and ListRetries override the package defaults when > 0.
	ScalarRetries int
	ListRetries   int
}

// New creates a scalar RandVar.
func New(name string, d domain.Domain) *RandVar {
	return &RandVar{Name: name, Domain: d}
}

// NewList creates a list RandVar of the given length over a shared scalar
// domain. Panics if length <= 0; use New for scalar variables.
func NewList(name string, d domain.Domain, length int) *RandVar {
	if length <= 0 {
		panic("randvar: NewList length must be > 0")
	}
	return &RandVar{Name: name, Domain: d, Length: length}
}

// Validate checks the configuration-error invariants from spec.md §3/§7:
// length must be non-negative, list constraints must be empty on a scalar
// variable, and a Function-domain variable cannot carry scalar constraints
// (the engine has no enumerable view to check them against ahead of a draw).
func (v *RandVar) Validate() error {
	if v.Name == "" {
		return fmt.Errorf("randvar: name must not be empty")
	}
	if v.Length < 0 {
		return fmt.Errorf("randvar %q: length must be >= 0", v.Name)
	}
	if v.Length == 0 && len(v.ListConstraints) > 0 {
		return fmt.Errorf("randvar %q: list constraints on a scalar variable (length=0)", v.Name)
	}
	if v.Domain.Kind == domain.Function && len(v.ScalarConstraints) > 0 {
		return fmt.Errorf("randvar %q: function-domain variable cannot carry scalar constraints", v.Name)
	}
	return nil
}

func (v *RandVar) scalarRetries() int {
	if v.ScalarRetries > 0 {
		return v.ScalarRetries
	}
	return DefaultScalarRetries
}

func (v *RandVar) listRetries() int {
	if v.ListRetries > 0 {
		return v.ListRetries
	}
	return DefaultListRetries
}

// SatisfiesScalarConstraints reports whether value passes every
// ScalarConstraints check, with the same panic-as-failure handling as Draw.
// Used by the thorough strategy to filter a variable's full enumeration
// down to constraint-satisfying candidates before CSP search.
func (v *RandVar) SatisfiesScalarConstraints(value any) bool {
	return v.checkScalar(value)
}

// checkScalar evaluates all ScalarConstraints against value. A panicking
// predicate is caught and counted as a failed check (spec §7: "user-
// predicate fault ... treated as constraint violation").
func (v *RandVar) checkScalar(value any) (ok bool) {
	for _, pred := range v.ScalarConstraints {
		if !safeCall(pred, value) {
			return false
		}
	}
	return true
}

func safeCall(pred Predicate, value any) (ok bool) {
	defer func() {
		if recover() != nil {
			ok = false
		}
	}()
	return pred(value)
}

func (v *RandVar) checkList(values []any) (ok bool) {
	for _, pred := range v.ListConstraints {
		if !safeCallList(pred, values) {
			return false
		}
	}
	return true
}

func safeCallList(pred ListPredicate, values []any) (ok bool) {
	defer func() {
		if recover() != nil {
			ok = false
		}
	}()
	return pred(values)
}

// drawScalar draws a single candidate and retries against ScalarConstraints
// up to scalarRetries(), returning the last attempt and whether it held.
func (v *RandVar) drawScalar(r *rng.RNG) (any, bool) {
	var last any
	for attempt := 0; attempt < v.scalarRetries(); attempt++ {
		last = v.Domain.Sample(r)
		if v.checkScalar(last) {
			return last, true
		}
	}
	return last, false
}

// Draw produces one candidate value honoring the variable's domain and
// attempting its local constraints on a best-effort basis. The second
// return reports whether every local constraint held for the returned
// value (spec §4.2: "reports, together with each draw, whether all its
// local constraints held").
func (v *RandVar) Draw(r *rng.RNG) (any, bool) {
	if v.Length == 0 {
		return v.drawScalar(r)
	}
	return v.drawList(r)
}

func (v *RandVar) drawList(r *rng.RNG) ([]any, bool) {
	retries := 1
	if len(v.ListConstraints) > 0 {
		retries = v.listRetries()
	}

	var last []any
	var lastScalarOK bool
	for attempt := 0; attempt < retries; attempt++ {
		values := make([]any, v.Length)
		allScalarOK := true
		for i := range values {
			val, ok := v.drawScalar(r)
			values[i] = val
			allScalarOK = allScalarOK && ok
		}
		last = values
		lastScalarOK = allScalarOK

		if v.checkList(values) {
			return values, allScalarOK
		}
	}
	return last, lastScalarOK && len(v.ListConstraints) == 0
}

// SatisfiesListConstraints reports whether values passes every
// ListConstraints check, with the same panic-as-failure handling as Draw.
func (v *RandVar) SatisfiesListConstraints(values []any) bool {
	return v.checkList(values)
}

// EnumerateList asks for up to k distinct candidate lists for a list
// variable (Length > 0), each already satisfying ScalarConstraints and
// ListConstraints. Unlike Enumerate, there is no domain to enumerate
// directly — a list variable's "domain" is the set of Length-tuples over
// its scalar domain — so candidates come from repeated fresh draws,
// filtered and deduplicated by value. Returns fewer than k entries if the
// domain can't supply more distinct, constraint-satisfying lists within
// the oversampling budget.
func (v *RandVar) EnumerateList(k int, r *rng.RNG) [][]any {
	if k <= 0 || v.Length == 0 {
		return nil
	}

	if k > maxListEnumerateCandidates {
		k = maxListEnumerateCandidates
	}

	out := make([][]any, 0, k)
	seen := make(map[string]bool, k)
	oversample := k * 8
	if oversample < 64 {
		oversample = 64
	}
	// Unlike a scalar domain, the set of distinct Length-tuples has no cheap
	// full-enumeration shortcut, so the attempt budget is capped outright
	// rather than scaled with an unbounded requested k.
	if oversample > maxListEnumerateAttempts {
		oversample = maxListEnumerateAttempts
	}
	for attempt := 0; attempt < oversample && len(out) < k; attempt++ {
		values := make([]any, v.Length)
		scalarOK := true
		for i := range values {
			val, ok := v.drawScalar(r)
			values[i] = val
			scalarOK = scalarOK && ok
		}
		if !scalarOK || !v.checkList(values) {
			continue
		}
		key := fmt.Sprint(values)
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, values)
	}
	return out
}

// Enumerate asks the domain for up to k distinct candidate values that
// satisfy ScalarConstraints, for use by the sparse strategy (spec §4.2,
// "domain resolution"). It over-samples to compensate for
// filtering and returns fewer than k values if the domain can't supply
// more distinct, constraint-satisfying candidates.
func (v *RandVar) Enumerate(k int, r *rng.RNG) []any {
	if k <= 0 {
		return nil
	}
	if len(v.ScalarConstraints) == 0 {
		return v.Domain.Enumerate(k, r)
	}

	out := make([]any, 0, k)
	seen := make(map[string]bool, k)
	oversample := k * 8
	if oversample < 64 {
		oversample = 64
	}
	candidates := v.Domain.Enumerate(oversample, r)
	for _, c := range candidates {
		if len(out) >= k {
			break
		}
		key := fmt.Sprint(c)
		if seen[key] {
			continue
		}
		if v.checkScalar(c) {
			seen[key] = true
			out = append(out, c)
		}
	}
	return out
}
