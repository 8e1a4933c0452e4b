package solver

import (
	"strconv"

	"github.com/dshills/constrainedrandom/pkg/domain"
	"github.com/dshills/constrainedrandom/pkg/problem"
)

// runThorough is the exhaustive CSP fallback of spec §4.5: enumerate every
// free variable's full domain (filtered through its own scalar constraints),
// backtrack across the product space collecting every satisfying
// assignment, then pick uniformly among them with the shared RNG. It
// refuses to run — recording why in debug info — when the search space
// isn't safely enumerable.
func runThorough(ctx *runContext) (problem.Assignment, bool) {
	names := make([]string, 0, ctx.Problem.NumVars())
	for _, name := range ctx.Problem.VarOrder() {
		if _, fixed := ctx.Fixed[name]; fixed {
			continue
		}
		names = append(names, name)
	}

	if reason, ok := thoroughPreconditions(ctx, names); !ok {
		ctx.Debug.ThoroughReason = reason
		return nil, false
	}

	domains := make([][]any, len(names))
	for i, name := range names {
		v := ctx.Problem.Var(name)
		full := v.Domain.Enumerate(int(v.Domain.Size()), ctx.Problem.RNG)
		filtered := make([]any, 0, len(full))
		for _, val := range full {
			if v.SatisfiesScalarConstraints(val) {
				filtered = append(filtered, val)
			}
		}
		domains[i] = filtered
	}

	var solutions []problem.Assignment
	partial := make(problem.Assignment, len(names))

	var recurse func(depth int)
	recurse = func(depth int) {
		if depth == len(names) {
			full := cloneAssignment(ctx.Fixed)
			for k, v := range partial {
				full[k] = v
			}
			if len(failingConstraints(ctx.Constraints, full)) == 0 {
				solutions = append(solutions, full)
			}
			return
		}
		name := names[depth]
		for _, val := range domains[depth] {
			partial[name] = val
			recurse(depth + 1)
		}
		delete(partial, name)
	}
	recurse(0)

	if len(solutions) == 0 {
		ctx.Debug.ThoroughReason = "exhausted: no satisfying assignment in the enumerated space"
		return nil, false
	}

	pick := ctx.Problem.RNG.Intn(len(solutions))
	return solutions[pick], true
}

// thoroughPreconditions enforces spec §4.5's fail-fast rules: a Function
// domain can't be enumerated, and the product of free-variable domain
// sizes must not exceed MaxDomainSize.
func thoroughPreconditions(ctx *runContext, names []string) (string, bool) {
	if len(names) == 0 {
		return "", true
	}

	product := int64(1)
	for _, name := range names {
		v := ctx.Problem.Var(name)
		if v.Domain.Kind == domain.Function {
			return "variable \"" + name + "\" has a function domain, which cannot be enumerated", false
		}
		if v.Length > 0 {
			return "variable \"" + name + "\" has a list shape (length " + strconv.Itoa(v.Length) + "), which the thorough strategy does not enumerate", false
		}
		size := v.Domain.Size()
		if size < 0 {
			return "variable \"" + name + "\" has an unbounded domain", false
		}
		product *= size
		if product > ctx.Problem.MaxDomainSize || product < 0 {
			return "joint domain size exceeds MaxDomainSize", false
		}
	}
	return "", true
}
