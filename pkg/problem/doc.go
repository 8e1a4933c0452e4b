// Package problem defines MultiVarProblem: the set of variables, the
// multi-variable constraints over them, and the tuning parameters that
// bound how hard pkg/solver is allowed to work on any one solve call.
//
// A problem is built up with AddVar/AddConstraint, which surface
// configuration errors immediately rather than deferring them to solve
// time (spec.md §7). Once a solve begins, the problem's variables and
// constraints are treated as frozen for the duration of that call.
package problem
