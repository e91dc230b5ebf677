// Package rewrite implements the heuristic optimizer of SPEC_FULL.md §4.7-
// §4.9: four named passes over an algebra tree, each a pure function that
// traverses recursively and reconstructs its input on the return path.
// Grounded on the post-order traversal shape of
// freeeve-machparse/visitor/rewrite.go, adapted from in-place mutation to
// tree reconstruction since algebra nodes are never mutated (algebra/algebra.go).
package rewrite

import "github.com/freeeve/qalgebra/algebra"

// Heuristic identifies one of the four named passes.
type Heuristic string

const (
	PushDownSelections        Heuristic = "PUSH_DOWN_SELECTIONS"
	PushDownProjections       Heuristic = "PUSH_DOWN_PROJECTIONS"
	ApplyMostRestrictiveFirst Heuristic = "APPLY_MOST_RESTRICTIVE_FIRST"
	AvoidCartesianProduct     Heuristic = "AVOID_CARTESIAN_PRODUCT"
)

// DefaultPipeline is the order applied when a caller asks for "all four",
// per SPEC_FULL.md §4.8.
var DefaultPipeline = []Heuristic{
	PushDownSelections,
	PushDownProjections,
	ApplyMostRestrictiveFirst,
	AvoidCartesianProduct,
}

type passFunc func(algebra.Node) (algebra.Node, []string)

var passes = map[Heuristic]passFunc{
	PushDownSelections:        pushDownSelections,
	PushDownProjections:       pushDownProjections,
	ApplyMostRestrictiveFirst: mostRestrictiveFirst,
	AvoidCartesianProduct:     avoidCartesianProduct,
}

// Result carries the optimized tree and the flat, ordered list of
// human-readable descriptions of every rewrite that actually fired.
type Result struct {
	Optimized    algebra.Node
	AppliedRules []string
}

// Optimize runs the named heuristics over tree in the order given (the
// caller may pass any subset, including none, in any order; DefaultPipeline
// is the conventional default). Unknown heuristic identifiers are ignored
// silently, per SPEC_FULL.md §6.
func Optimize(tree algebra.Node, heuristics []Heuristic) Result {
	applied := []string{}
	current := tree
	for _, h := range heuristics {
		pass, ok := passes[h]
		if !ok {
			continue
		}
		var ruleApplied []string
		current, ruleApplied = pass(current)
		applied = append(applied, ruleApplied...)
	}
	return Result{Optimized: current, AppliedRules: applied}
}
