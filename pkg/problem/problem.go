package problem

import (
	"fmt"

	"github.com/dshills/constrainedrandom/pkg/randvar"
	"github.com/dshills/constrainedrandom/pkg/rng"
)

// DefaultMaxIterations bounds naive and sparse-strategy iteration counts so
// that typical problems converge in well under 100ms (spec §3).
const DefaultMaxIterations = 1000

// DefaultMaxDomainSize bounds the product of enumerated domain sizes handed
// to the thorough strategy (spec §3).
const DefaultMaxDomainSize = int64(1_000_000)

// Predicate is a multi-variable constraint: a pure function from the
// ordered tuple of values named in MultiConstraint.Vars to boolean. Like
// randvar.Predicate, it is opaque and a panic is treated as "false".
type Predicate func(values []any) bool

// MultiConstraint pairs a Predicate with the ordered tuple of variable
// names it reads (spec §3: "each predicate carries the tuple of variable
// names it reads").
type MultiConstraint struct {
	Pred Predicate
	Vars []string
}

// Assignment is a complete mapping from every variable name to a concrete
// value (scalar or []any for a list variable), produced atomically — a
// partial assignment is never handed to a caller.
type Assignment map[string]any

// SolverFlags independently enables or disables each strategy in the
// solver pipeline (spec §3, §4.6). All default to enabled.
type SolverFlags struct {
	Naive    bool
	Sparse   bool
	Thorough bool
}

// MultiVarProblem holds the full declarative description of a
// randomization problem: its variables, its multi-variable constraints,
// and the tuning knobs that bound solver effort.
//
// Variables and constraints are frozen once a solve begins; MultiVarProblem
// performs no locking itself (spec §5: "core performs no locking"; callers
// owning the shared RNG across multiple problems must serialize their own
// calls).
type MultiVarProblem struct {
	// RNG is the single random source shared by every variable and by the
	// solver (spec §3, "ownership").
	RNG *rng.RNG

	varOrder []string
	vars     map[string]*randvar.RandVar

	MultiConstraints []MultiConstraint

	MaxIterations int
	MaxDomainSize int64
	Flags         SolverFlags

	// PreRandomize and PostRandomize are optional hooks invoked by the
	// solver pipeline before the first strategy runs and after a
	// successful solve, respectively (spec §4.6). They are never invoked
	// on failure after the final strategy.
	PreRandomize  func()
	PostRandomize func()
}

// New creates an empty problem bound to r, with default tuning and all
// strategies enabled.
func New(r *rng.RNG) *MultiVarProblem {
	return &MultiVarProblem{
		RNG:           r,
		vars:          make(map[string]*randvar.RandVar),
		MaxIterations: DefaultMaxIterations,
		MaxDomainSize: DefaultMaxDomainSize,
		Flags:         SolverFlags{Naive: true, Sparse: true, Thorough: true},
	}
}

// AddVar registers v, preserving insertion order. Returns a configuration
// error immediately if v is invalid or its name is already taken — spec §7:
// "surfaced immediately at add_*, never deferred to randomize".
func (p *MultiVarProblem) AddVar(v *randvar.RandVar) error {
	if v == nil {
		return fmt.Errorf("problem: cannot add nil variable")
	}
	if err := v.Validate(); err != nil {
		return fmt.Errorf("problem: %w", err)
	}
	if _, exists := p.vars[v.Name]; exists {
		return fmt.Errorf("problem: variable %q already exists", v.Name)
	}
	p.vars[v.Name] = v
	p.varOrder = append(p.varOrder, v.Name)
	return nil
}

// AddConstraint registers a multi-variable (or single-variable post-hoc)
// predicate over the named variables, in insertion order. Returns a
// configuration error if any referenced variable is unknown.
func (p *MultiVarProblem) AddConstraint(pred Predicate, vars ...string) error {
	if pred == nil {
		return fmt.Errorf("problem: cannot add nil predicate")
	}
	for _, name := range vars {
		if _, exists := p.vars[name]; !exists {
			return fmt.Errorf("problem: constraint references unknown variable %q", name)
		}
	}
	p.MultiConstraints = append(p.MultiConstraints, MultiConstraint{Pred: pred, Vars: vars})
	return nil
}

// VarOrder returns variable names in insertion order. The returned slice is
// a copy; mutating it does not affect the problem.
func (p *MultiVarProblem) VarOrder() []string {
	out := make([]string, len(p.varOrder))
	copy(out, p.varOrder)
	return out
}

// Var returns the named variable, or nil if it does not exist.
func (p *MultiVarProblem) Var(name string) *randvar.RandVar {
	return p.vars[name]
}

// NumVars returns the number of registered variables.
func (p *MultiVarProblem) NumVars() int {
	return len(p.vars)
}

// CheckPredicate evaluates pred against values, treating a panic as a
// failed check (spec §7: "a single flaky predicate should not abort an
// otherwise solvable problem").
func CheckPredicate(pred Predicate, values []any) (ok bool) {
	defer func() {
		if recover() != nil {
			ok = false
		}
	}()
	return pred(values)
}

// Eval resolves mc's variable tuple from assignment and evaluates its
// predicate. Returns false if any referenced variable is unassigned.
func (mc MultiConstraint) Eval(assignment Assignment) bool {
	values := make([]any, len(mc.Vars))
	for i, name := range mc.Vars {
		v, ok := assignment[name]
		if !ok {
			return false
		}
		values[i] = v
	}
	return CheckPredicate(mc.Pred, values)
}

// AllAssigned reports whether every variable mc.Vars names is present in
// assignment — used by the sparse strategy to decide which group a
// constraint belongs to (spec §4.4: "evaluated at the earliest group that
// contains all its referenced variables").
func (mc MultiConstraint) AllAssigned(assignment Assignment) bool {
	for _, name := range mc.Vars {
		if _, ok := assignment[name]; !ok {
			return false
		}
	}
	return true
}
