package solver

import (
	"testing"

	"pgregory.net/rapid"

	"github.com/dshills/constrainedrandom/pkg/domain"
	"github.com/dshills/constrainedrandom/pkg/problem"
	"github.com/dshills/constrainedrandom/pkg/randvar"
	"github.com/dshills/constrainedrandom/pkg/rng"
)

// buildSumProblem constructs a small multi-variable problem: numVars
// bit-width variables, each maxBits wide, constrained so their sum
// must reach at least threshold. The shape is generated by rapid so the
// property tests below sweep a broad range of domain sizes and constraint
// tightness rather than a handful of hand-picked scenarios.
func buildSumProblem(seed uint64, numVars, maxBits, threshold int) *problem.MultiVarProblem {
	p := problem.New(rng.NewRNG(seed))
	names := make([]string, numVars)
	for i := 0; i < numVars; i++ {
		name := string(rune('a' + i))
		names[i] = name
		mustAddVarNoT(p, randvar.New(name, domain.NewBitWidth(maxBits)))
	}
	mustAddConstraintNoT(p, func(vals []any) bool {
		sum := 0
		for _, v := range vals {
			sum += v.(int)
		}
		return sum >= threshold
	}, names...)
	return p
}

func mustAddVarNoT(p *problem.MultiVarProblem, v *randvar.RandVar) {
	if err := p.AddVar(v); err != nil {
		panic(err)
	}
}

func mustAddConstraintNoT(p *problem.MultiVarProblem, pred problem.Predicate, vars ...string) {
	if err := p.AddConstraint(pred, vars...); err != nil {
		panic(err)
	}
}

// TestProperty_SolveIsDeterministic generates random small sum problems and
// checks spec §8's core invariant: solving the same problem shape with the
// same seed twice produces the identical outcome, success or failure alike.
func TestProperty_SolveIsDeterministic(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		seed := rapid.Uint64().Draw(rt, "seed")
		numVars := rapid.IntRange(1, 3).Draw(rt, "numVars")
		maxBits := rapid.IntRange(1, 4).Draw(rt, "maxBits")
		threshold := rapid.IntRange(0, numVars*(1<<maxBits)).Draw(rt, "threshold")

		p1 := buildSumProblem(seed, numVars, maxBits, threshold)
		p2 := buildSumProblem(seed, numVars, maxBits, threshold)

		a1, err1 := Solve(p1, RandomizeOptions{})
		a2, err2 := Solve(p2, RandomizeOptions{})

		if (err1 == nil) != (err2 == nil) {
			rt.Fatalf("determinism broken: err1=%v err2=%v", err1, err2)
		}
		if err1 != nil {
			return
		}
		for name, v1 := range a1 {
			if v2, ok := a2[name]; !ok || v1 != v2 {
				rt.Fatalf("determinism broken on %q: %v vs %v", name, v1, a2[name])
			}
		}
	})
}

// TestProperty_SolveSatisfiesConstraintsAndDomains generates random small sum
// problems and checks that every successful solve both respects each
// variable's declared domain and satisfies the sum constraint it was given —
// the universal satisfaction invariant of spec §8, swept over randomly
// generated problems rather than a fixed set of scenarios.
func TestProperty_SolveSatisfiesConstraintsAndDomains(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		seed := rapid.Uint64().Draw(rt, "seed")
		numVars := rapid.IntRange(1, 3).Draw(rt, "numVars")
		maxBits := rapid.IntRange(1, 4).Draw(rt, "maxBits")
		// Bias toward a satisfiable threshold most of the time so this
		// property actually exercises the success path, while still letting
		// rapid occasionally generate an unsolvable one.
		threshold := rapid.IntRange(0, numVars*(1<<maxBits)/2+1).Draw(rt, "threshold")

		p := buildSumProblem(seed, numVars, maxBits, threshold)
		assignment, err := Solve(p, RandomizeOptions{})
		if err != nil {
			return
		}

		sum := 0
		for _, name := range p.VarOrder() {
			val, ok := assignment[name].(int)
			if !ok {
				rt.Fatalf("variable %q missing or wrong type in assignment: %v", name, assignment[name])
			}
			if val < 0 || val >= 1<<maxBits {
				rt.Fatalf("variable %q = %d outside its bit-width-%d domain", name, val, maxBits)
			}
			sum += val
		}
		if sum < threshold {
			rt.Fatalf("assignment sum %d violates threshold %d: %v", sum, threshold, assignment)
		}
	})
}
