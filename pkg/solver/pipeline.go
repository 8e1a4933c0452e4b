package solver

import (
	"github.com/dshills/constrainedrandom/pkg/problem"
)

// RandomizeOptions carries the per-call overrides spec §6 names: temporary
// constraints and fixed values that apply only for the duration of one
// Solve call, plus the Debug flag controlling attempt retention.
type RandomizeOptions struct {
	// WithConstraints are appended to the problem's multi-constraint list
	// for the duration of this call only; they never mutate the problem
	// (spec §4.6, "temporary isolation").
	WithConstraints []problem.MultiConstraint

	// WithValues fixes named variables to constant values for this call.
	// A fixed variable's Draw is replaced with the constant; constraints
	// involving it treat it as already assigned (spec §4.6 step 1).
	WithValues problem.Assignment

	// Debug, when true, retains every violating attempt across every
	// strategy (capped at MaxRetainedAttempts) instead of just the
	// minimum diagnostic fields.
	Debug bool
}

// runContext is the read-only view of one Solve call that every strategy
// receives: the problem, the temporarily-combined constraint list, the
// fixed-value overrides, and the debug info being accumulated in place.
type runContext struct {
	Problem     *problem.MultiVarProblem
	Constraints []problem.MultiConstraint
	Fixed       problem.Assignment
	Debug       *RandomizationDebugInfo
	DebugMode   bool
}

// Solve drives the three strategies in the fixed order naive, sparse,
// thorough — skipping any whose flag is disabled — returning the first
// satisfying Assignment, or a *RandomizationError carrying structured
// debug info if every enabled strategy fails (spec §4.6, §6, §7).
//
// pre_randomize runs once, before the first strategy; post_randomize runs
// once, only on success, before Solve returns (spec §4.6: "never run on
// failure after the final strategy").
func Solve(p *problem.MultiVarProblem, opts RandomizeOptions) (problem.Assignment, error) {
	fixed := make(problem.Assignment, len(opts.WithValues))
	for k, v := range opts.WithValues {
		fixed[k] = v
	}

	constraints := make([]problem.MultiConstraint, 0, len(p.MultiConstraints)+len(opts.WithConstraints))
	constraints = append(constraints, p.MultiConstraints...)
	constraints = append(constraints, opts.WithConstraints...)

	ctx := &runContext{
		Problem:     p,
		Constraints: constraints,
		Fixed:       fixed,
		Debug:       newDebugInfo(),
		DebugMode:   opts.Debug,
	}

	if p.PreRandomize != nil {
		p.PreRandomize()
	}

	if !p.Flags.Thorough {
		ctx.Debug.ThoroughReason = "disabled"
	}

	type stage struct {
		name    string
		enabled bool
		run     func(*runContext) (problem.Assignment, bool)
	}
	stages := []stage{
		{"naive", p.Flags.Naive, runNaive},
		{"sparse", p.Flags.Sparse, runSparse},
		{"thorough", p.Flags.Thorough, runThorough},
	}

	for _, s := range stages {
		if !s.enabled {
			continue
		}
		ctx.Debug.StrategiesAttempted = append(ctx.Debug.StrategiesAttempted, s.name)
		if assignment, ok := s.run(ctx); ok {
			if p.PostRandomize != nil {
				p.PostRandomize()
			}
			return assignment, nil
		}
	}

	return nil, &RandomizationError{DebugInfo: ctx.Debug}
}

func cloneAssignment(a problem.Assignment) problem.Assignment {
	out := make(problem.Assignment, len(a))
	for k, v := range a {
		out[k] = v
	}
	return out
}
