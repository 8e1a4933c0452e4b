package solver

import (
	"math"

	"github.com/dshills/constrainedrandom/pkg/problem"
	"github.com/dshills/constrainedrandom/pkg/randvar"
	"github.com/dshills/constrainedrandom/pkg/rng"
)

// DefaultSparseWidth bounds how many sibling candidate values the
// depth-first per-group search tries at each depth before backtracking
// (spec §4.4: "allow up to a bounded number of sibling alternatives at
// each depth").
const DefaultSparseWidth = 3

// DefaultMaxWideners bounds how many times a group's candidate set is
// doubled and retried before the group gives up (spec §4.4: "up to a
// bounded number of wideners").
const DefaultMaxWideners = 4

// DefaultGroupBacktrackAttempts bounds how many fresh attempts are made at
// a group before the sparse strategy backtracks to the previous group
// (spec §4.4: "request a fresh group solution").
const DefaultGroupBacktrackAttempts = 5

type sparseGroup struct {
	order int
	vars  []string
}

// runSparse is the layered, bounded, best-first search of spec §4.4:
// variables are partitioned into ordered groups by Order, each group
// solved as a micro-CSP, with group-level backtracking on failure.
func runSparse(ctx *runContext) (problem.Assignment, bool) {
	groups, constraintsByGroup := partitionGroups(ctx)

	if len(groups) == 0 {
		// Every variable is fixed; there is nothing to search. Check the
		// constraints directly against the fixed assignment.
		assignment := cloneAssignment(ctx.Fixed)
		if len(failingConstraints(ctx.Constraints, assignment)) == 0 {
			return assignment, true
		}
		return nil, false
	}

	attempts := make([]int, len(groups))
	context := cloneAssignment(ctx.Fixed)
	groupIndex := 0

	// Hard safety cap on total node visits across the whole strategy, so a
	// pathological problem can't spin forever even with group backtracking.
	totalBudget := ctx.Problem.MaxIterations * len(groups) * (DefaultMaxWideners + 1)
	totalUsed := 0

	for groupIndex < len(groups) {
		if totalUsed > totalBudget {
			return nil, false
		}

		groupAssignment, ok, nodes, wideners := solveGroup(groups[groupIndex], constraintsByGroup[groupIndex], context, ctx)
		totalUsed += nodes
		ctx.Debug.SparseNodesVisited += nodes
		if wideners > ctx.Debug.SparseWidenersUsed {
			ctx.Debug.SparseWidenersUsed = wideners
		}
		attempts[groupIndex]++

		if ok {
			for k, v := range groupAssignment {
				context[k] = v
			}
			if groupIndex > ctx.Debug.SparseDeepestGroup || ctx.Debug.SparseDeepestAssignment == nil {
				ctx.Debug.SparseDeepestGroup = groupIndex
				ctx.Debug.SparseDeepestAssignment = cloneAssignment(context)
			}
			groupIndex++
			continue
		}

		if groupIndex >= ctx.Debug.SparseDeepestGroup {
			ctx.Debug.SparseDeepestGroup = groupIndex
			ctx.Debug.SparseDeepestAssignment = cloneAssignment(context)
		}

		if attempts[groupIndex] >= DefaultGroupBacktrackAttempts {
			attempts[groupIndex] = 0
			groupIndex--
			if groupIndex < 0 {
				return nil, false
			}
			for _, name := range groups[groupIndex].vars {
				delete(context, name)
			}
		}
		// else: retry the same group; the shared RNG has already advanced,
		// so the retry samples a different region of the space.
	}

	return context, true
}

// partitionGroups buckets the problem's non-fixed variables by Order
// (ascending, smallest first) and distributes each multi-constraint to the
// earliest group that contains every variable it reads (spec §4.4).
func partitionGroups(ctx *runContext) ([]sparseGroup, [][]problem.MultiConstraint) {
	byOrder := make(map[int][]string)
	for _, name := range ctx.Problem.VarOrder() {
		if _, fixed := ctx.Fixed[name]; fixed {
			continue
		}
		order := ctx.Problem.Var(name).Order
		byOrder[order] = append(byOrder[order], name)
	}

	orders := make([]int, 0, len(byOrder))
	for o := range byOrder {
		orders = append(orders, o)
	}
	sortInts(orders)

	groups := make([]sparseGroup, len(orders))
	groupIndexOfVar := make(map[string]int, len(ctx.Problem.VarOrder()))
	for i, o := range orders {
		groups[i] = sparseGroup{order: o, vars: byOrder[o]}
		for _, name := range byOrder[o] {
			groupIndexOfVar[name] = i
		}
	}

	constraintsByGroup := make([][]problem.MultiConstraint, len(groups))
	for _, mc := range ctx.Constraints {
		maxIdx := -1
		for _, name := range mc.Vars {
			if idx, ok := groupIndexOfVar[name]; ok && idx > maxIdx {
				maxIdx = idx
			}
		}
		if maxIdx == -1 {
			if len(groups) == 0 {
				continue
			}
			maxIdx = 0
		}
		constraintsByGroup[maxIdx] = append(constraintsByGroup[maxIdx], mc)
	}

	return groups, constraintsByGroup
}

func sortInts(xs []int) {
	for i := 1; i < len(xs); i++ {
		for j := i; j > 0 && xs[j-1] > xs[j]; j-- {
			xs[j-1], xs[j] = xs[j], xs[j-1]
		}
	}
}

// solveGroup treats one order-group as a micro-CSP: it widens its
// candidate set up to DefaultMaxWideners times, each time enumerating
// fresh candidates per variable, shuffling them, and running a bounded
// depth-first search.
func solveGroup(group sparseGroup, constraints []problem.MultiConstraint, context problem.Assignment, ctx *runContext) (problem.Assignment, bool, int, int) {
	vars := make([]*randvar.RandVar, len(group.vars))
	sizes := make([]int64, len(group.vars))
	for i, name := range group.vars {
		v := ctx.Problem.Var(name)
		vars[i] = v
		// The proportional-allocation heuristic below only needs a rough
		// per-variable scale; for a list variable that's still its scalar
		// domain's size (EnumerateList draws Length-tuples over it), not an
		// inflated power-of-Length figure.
		size := v.Domain.Size()
		if size < 0 || size > ctx.Problem.MaxDomainSize {
			size = ctx.Problem.MaxDomainSize
		}
		sizes[i] = size
	}

	D := computeGroupD(sizes, ctx.Problem.MaxDomainSize)
	totalNodes := 0

	for widen := 0; widen <= DefaultMaxWideners; widen++ {
		if widen > 0 {
			for i := range D {
				D[i] *= 2
			}
		}

		candidates := make([][]any, len(group.vars))
		for i, v := range vars {
			var cands []any
			if v.Length > 0 {
				lists := v.EnumerateList(D[i], ctx.Problem.RNG)
				cands = make([]any, len(lists))
				for j, lst := range lists {
					cands[j] = lst
				}
			} else {
				cands = v.Enumerate(D[i], ctx.Problem.RNG)
			}
			if len(cands) == 0 {
				val, _ := v.Draw(ctx.Problem.RNG)
				cands = []any{val}
			}
			rng.ShuffleSlice(ctx.Problem.RNG, cands)
			candidates[i] = cands
		}

		assignment, ok, nodes := searchGroup(group.vars, candidates, constraints, context, ctx.Problem.MaxIterations)
		totalNodes += nodes
		if ok {
			return assignment, true, totalNodes, widen
		}
	}

	return nil, false, totalNodes, DefaultMaxWideners
}

// computeGroupD distributes a per-variable candidate count D proportional
// to each variable's domain size, floor 1, so that the product of group
// domain sizes handed to exploration stays roughly within maxDomainSize
// (spec §4.4 step 1).
func computeGroupD(sizes []int64, maxDomainSize int64) []int {
	n := len(sizes)
	if n == 0 {
		return nil
	}
	budget := maxDomainSize
	if budget < int64(n) {
		budget = int64(n)
	}
	base := math.Pow(float64(budget), 1.0/float64(n))

	var total float64
	for _, s := range sizes {
		total += float64(s)
	}
	avg := total / float64(n)

	D := make([]int, n)
	for i, s := range sizes {
		d := base
		if avg > 0 {
			d = base * (float64(s) / avg)
		}
		di := int(d)
		if di < 1 {
			di = 1
		}
		D[i] = di
	}
	return D
}

// searchGroup runs a width-bounded depth-first search over the product of
// candidates, pruning on the first constraint violation it can evaluate at
// each node (spec §4.4 steps 2-3).
func searchGroup(names []string, candidates [][]any, constraints []problem.MultiConstraint, base problem.Assignment, nodeBudget int) (problem.Assignment, bool, int) {
	partial := make(problem.Assignment, len(names))
	nodes := 0
	budgetExceeded := false

	var recurse func(depth int) bool
	recurse = func(depth int) bool {
		if budgetExceeded {
			return false
		}
		if depth == len(names) {
			return true
		}
		name := names[depth]
		cands := candidates[depth]
		tries := 0
		for _, val := range cands {
			if tries >= DefaultSparseWidth {
				break
			}
			tries++
			nodes++
			if nodes >= nodeBudget {
				budgetExceeded = true
				return false
			}
			partial[name] = val
			if constraintsViolatedAtNode(constraints, base, partial) {
				delete(partial, name)
				continue
			}
			if recurse(depth + 1) {
				return true
			}
			delete(partial, name)
		}
		return false
	}

	if !recurse(0) {
		return nil, false, nodes
	}
	return cloneAssignment(partial), true, nodes
}

// constraintsViolatedAtNode checks every constraint whose variable tuple
// is fully covered by base+partial, returning true on the first violation.
func constraintsViolatedAtNode(constraints []problem.MultiConstraint, base, partial problem.Assignment) bool {
	for _, mc := range constraints {
		vals := make([]any, len(mc.Vars))
		complete := true
		for i, name := range mc.Vars {
			if v, ok := partial[name]; ok {
				vals[i] = v
				continue
			}
			if v, ok := base[name]; ok {
				vals[i] = v
				continue
			}
			complete = false
			break
		}
		if !complete {
			continue
		}
		if !problem.CheckPredicate(mc.Pred, vals) {
			return true
		}
	}
	return false
}
