package solver

import "github.com/dshills/constrainedrandom/pkg/problem"

// runNaive is pure rejection sampling over the joint space (spec §4.3): for
// up to MaxIterations attempts, draw every variable once in insertion
// order, then check every constraint in ctx; return on the first hit.
func runNaive(ctx *runContext) (problem.Assignment, bool) {
	p := ctx.Problem
	maxIter := p.MaxIterations
	if maxIter <= 0 {
		maxIter = problem.DefaultMaxIterations
	}

	var lastAssignment problem.Assignment
	for iter := 0; iter < maxIter; iter++ {
		ctx.Debug.NaiveIterations = iter + 1

		assignment := drawFullAssignment(ctx)
		violated := failingConstraints(ctx.Constraints, assignment)

		if len(violated) == 0 {
			return assignment, true
		}

		lastAssignment = assignment
		ctx.Debug.NaiveLastViolation = assignment
		ctx.Debug.NaiveLastViolatedConstraints = violated
		ctx.Debug.recordAttempt(ctx.DebugMode, AttemptRecord{
			Strategy:          "naive",
			Assignment:        assignment,
			FailedConstraints: violated,
		})
	}

	_ = lastAssignment
	return nil, false
}

// drawFullAssignment draws every problem variable once, in insertion
// order, honoring ctx.Fixed overrides — the single in-order pass the
// naive strategy relies on for seed reproducibility (spec §4.3: "insertion
// order — stable for seed reproducibility").
func drawFullAssignment(ctx *runContext) problem.Assignment {
	assignment := make(problem.Assignment, ctx.Problem.NumVars())
	for _, name := range ctx.Problem.VarOrder() {
		if fixedVal, ok := ctx.Fixed[name]; ok {
			assignment[name] = fixedVal
			continue
		}
		v := ctx.Problem.Var(name)
		value, _ := v.Draw(ctx.Problem.RNG)
		assignment[name] = value
	}
	return assignment
}

// failingConstraints returns the variable tuples of every constraint in
// cs that is fully assigned in assignment but evaluates false.
func failingConstraints(cs []problem.MultiConstraint, assignment problem.Assignment) [][]string {
	var failed [][]string
	for _, mc := range cs {
		if !mc.AllAssigned(assignment) {
			continue
		}
		if !mc.Eval(assignment) {
			failed = append(failed, mc.Vars)
		}
	}
	return failed
}
