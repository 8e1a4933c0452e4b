package config

import (
	"fmt"

	"github.com/dshills/constrainedrandom/pkg/problem"
)

// constraintFactory builds a problem.Predicate from a ConstraintCfg. The
// returned predicate receives values in the same order as cc.Vars.
type constraintFactory func(cc ConstraintCfg) (problem.Predicate, error)

// constraintRegistry is the fixed vocabulary of structural constraint
// kinds Config can express without embedding code. It intentionally
// covers only generic integer comparisons and sums — anything bespoke
// (address alignment masks, conditional implications over more than two
// variables) is added directly against the built problem in Go.
var constraintRegistry = map[string]constraintFactory{
	"ne":           buildComparison(func(a, b int64) bool { return a != b }),
	"eq":           buildComparison(func(a, b int64) bool { return a == b }),
	"lt":           buildComparison(func(a, b int64) bool { return a < b }),
	"le":           buildComparison(func(a, b int64) bool { return a <= b }),
	"gt":           buildComparison(func(a, b int64) bool { return a > b }),
	"ge":           buildComparison(func(a, b int64) bool { return a >= b }),
	"sum_at_least": buildSum(func(sum, param int64) bool { return sum >= param }, "min"),
	"sum_equals":   buildSum(func(sum, param int64) bool { return sum == param }, "value"),
}

func buildComparison(cmp func(a, b int64) bool) constraintFactory {
	return func(cc ConstraintCfg) (problem.Predicate, error) {
		if len(cc.Vars) != 2 {
			return nil, fmt.Errorf("%s: requires exactly 2 variables, got %d", cc.Kind, len(cc.Vars))
		}
		return func(values []any) bool {
			a, aOK := toInt64(values[0])
			b, bOK := toInt64(values[1])
			if !aOK || !bOK {
				return false
			}
			return cmp(a, b)
		}, nil
	}
}

func buildSum(cmp func(sum, param int64) bool, paramName string) constraintFactory {
	return func(cc ConstraintCfg) (problem.Predicate, error) {
		if len(cc.Vars) == 0 {
			return nil, fmt.Errorf("%s: requires at least 1 variable", cc.Kind)
		}
		param, ok := cc.Params[paramName]
		if !ok {
			return nil, fmt.Errorf("%s: missing required param %q", cc.Kind, paramName)
		}
		target := int64(param)
		return func(values []any) bool {
			var sum int64
			for _, v := range values {
				n, ok := toInt64(v)
				if !ok {
					return false
				}
				sum += n
			}
			return cmp(sum, target)
		}, nil
	}
}

// toInt64 widens the concrete integer kinds a variable's value can carry
// (int from BitWidth, YAML enum values and Weighted picks; int64 or int32
// from values a Go caller put into an Enum or Function domain) into a
// common type for comparison.
func toInt64(v any) (int64, bool) {
	switch n := v.(type) {
	case int:
		return int64(n), true
	case int64:
		return n, true
	case int32:
		return int64(n), true
	default:
		return 0, false
	}
}
