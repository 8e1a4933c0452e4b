package solver

import (
	"fmt"

	"github.com/dshills/constrainedrandom/pkg/problem"
)

// MaxRetainedAttempts caps how many violating attempts Debug:true retains
// across every strategy, so a pathological problem can't balloon memory
// (spec §9: "cap retained records... and note truncation").
const MaxRetainedAttempts = 10000

// AttemptRecord is one retained violating attempt, kept only when the
// caller asked for Debug:true.
type AttemptRecord struct {
	Strategy   string
	Assignment problem.Assignment
	// FailedConstraints holds the variable tuples of constraints that
	// failed against Assignment, for post-mortem inspection.
	FailedConstraints [][]string
}

// RandomizationDebugInfo is the structured diagnostic payload returned
// alongside a RandomizationError (spec §4.6, §6). It always records at
// least the fields spec.md names as a minimum; with Debug:true it also
// retains violating attempts from every strategy in one list, keeping the
// first MaxRetainedAttempts and setting Truncated once later ones are dropped.
type RandomizationDebugInfo struct {
	// StrategiesAttempted lists the strategies that actually ran, in order.
	StrategiesAttempted []string

	// NaiveIterations is how many draw-and-check attempts the naive
	// strategy made before giving up (0 if naive was disabled).
	NaiveIterations int
	// NaiveLastViolation is the most recent violating assignment the naive
	// strategy produced.
	NaiveLastViolation problem.Assignment
	// NaiveLastViolatedConstraints names the variable tuples whose
	// constraint failed on NaiveLastViolation.
	NaiveLastViolatedConstraints [][]string

	// SparseDeepestGroup is the index (0-based) of the deepest order-group
	// the sparse strategy reached before failing.
	SparseDeepestGroup int
	// SparseDeepestAssignment is the partial assignment accumulated up to
	// SparseDeepestGroup.
	SparseDeepestAssignment problem.Assignment
	// SparseWidenersUsed counts how many times the sparse strategy widened
	// its candidate set before giving up on the deepest group.
	SparseWidenersUsed int
	// SparseNodesVisited totals node visits across all groups attempted.
	SparseNodesVisited int

	// ThoroughReason explains why the thorough strategy refused to run or
	// found no solution: "disabled" when its flag is off, otherwise a
	// message naming the cause (a function-domain, list-shaped or unbounded
	// variable, a joint domain size over MaxDomainSize, or an exhausted
	// search with no satisfying assignment).
	ThoroughReason string

	// Attempts retains violating attempts across every strategy, capped at
	// MaxRetainedAttempts, only when the caller passed Debug:true.
	Attempts  []AttemptRecord
	Truncated bool
}

func newDebugInfo() *RandomizationDebugInfo {
	return &RandomizationDebugInfo{}
}

func (d *RandomizationDebugInfo) recordAttempt(debug bool, rec AttemptRecord) {
	if !debug {
		return
	}
	if len(d.Attempts) >= MaxRetainedAttempts {
		d.Truncated = true
		return
	}
	d.Attempts = append(d.Attempts, rec)
}

// RandomizationError is the single error randomize() surfaces when every
// enabled strategy fails (spec §6, §7). It always carries structured
// DebugInfo rather than an opaque message.
type RandomizationError struct {
	ProblemName string
	DebugInfo   *RandomizationDebugInfo
}

func (e *RandomizationError) Error() string {
	if e.ProblemName != "" {
		return fmt.Sprintf("constrainedrandom: randomize(%s) failed: all enabled strategies exhausted (%v)",
			e.ProblemName, e.DebugInfo.StrategiesAttempted)
	}
	return fmt.Sprintf("constrainedrandom: randomize failed: all enabled strategies exhausted (%v)",
		e.DebugInfo.StrategiesAttempted)
}
