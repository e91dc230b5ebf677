package rewrite

import (
	"testing"

	"github.com/freeeve/qalgebra/parser"
	"github.com/freeeve/qalgebra/render"
	"github.com/freeeve/qalgebra/translator"
)

func optimizeSQL(t *testing.T, src string, heuristics []Heuristic) (string, []string) {
	t.Helper()
	stmt, errs := parser.Parse(src)
	if len(errs) != 0 {
		t.Fatalf("unexpected parse errors for %q: %v", src, errs)
	}
	tree, err := translator.Translate(stmt)
	if err != nil {
		t.Fatalf("unexpected translate error for %q: %v", src, err)
	}
	result := Optimize(tree, heuristics)
	return render.Algebra(result.Optimized), result.AppliedRules
}

func TestOptimizeIdentityOnEmptyHeuristicSet(t *testing.T) {
	got, applied := optimizeSQL(t, "SELECT * FROM users WHERE age > 18", nil)
	if got != "π[*](σ[age > 18](users))" {
		t.Fatalf("got %q", got)
	}
	if len(applied) != 0 {
		t.Fatalf("expected no applied rules, got %v", applied)
	}
}

func TestOptimizeProjectionMerging(t *testing.T) {
	got, applied := optimizeSQL(t, "SELECT id FROM (SELECT * FROM users) AS u", DefaultPipeline)
	if got != "π[id](users)" {
		t.Fatalf("got %q", got)
	}
	found := false
	for _, a := range applied {
		if a == "Combine consecutive projections" {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected a Combine consecutive projections entry, got %v", applied)
	}
}

func TestOptimizeJoinWhereDecomposition(t *testing.T) {
	got, applied := optimizeSQL(t,
		"SELECT u.name, o.total FROM users u INNER JOIN orders o ON u.id = o.user_id WHERE u.age > 18 AND o.total > 100",
		DefaultPipeline)
	want := "π[u.name, o.total](⨝[u.id = o.user_id](π[u.id, u.name](σ[u.age > 18](users)), π[o.total, o.user_id](σ[o.total > 100](orders))))"
	if got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
	if len(applied) == 0 {
		t.Fatalf("expected applied rules, got none")
	}
}

func TestOptimizeJoinWhereSelectionsOnlyNoProjectionDecoration(t *testing.T) {
	got, _ := optimizeSQL(t,
		"SELECT u.name, o.total FROM users u INNER JOIN orders o ON u.id = o.user_id WHERE u.age > 18 AND o.total > 100",
		[]Heuristic{PushDownSelections})
	want := "π[u.name, o.total](⨝[u.id = o.user_id](σ[u.age > 18](users), σ[o.total > 100](orders)))"
	if got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestOptimizeSingleRelationCompoundWhereUnchanged(t *testing.T) {
	got, applied := optimizeSQL(t, "SELECT id FROM users WHERE age > 18 AND name = 'John'", DefaultPipeline)
	want := "π[id](σ[(age > 18 AND name = 'John')](users))"
	if got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
	if len(applied) != 0 {
		t.Fatalf("expected no applied rules for a single-relation compound WHERE, got %v", applied)
	}
}

func TestOptimizeCartesianProductEliminatedIntoJoin(t *testing.T) {
	got, applied := optimizeSQL(t, "SELECT * FROM a CROSS JOIN b WHERE a.id = b.id", DefaultPipeline)
	want := "π[*](⨝[a.id = b.id](a, b))"
	if got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
	found := false
	for _, a := range applied {
		if a == "Convert Cartesian product to join" {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected Convert Cartesian product to join, got %v", applied)
	}
}

func TestOptimizeCartesianProductLeftUnchangedWhenUnrelated(t *testing.T) {
	got, _ := optimizeSQL(t, "SELECT * FROM a CROSS JOIN b WHERE a.id > 5", []Heuristic{AvoidCartesianProduct})
	want := "π[*](σ[a.id > 5]((a × b)))"
	if got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestMostRestrictiveFirstSwapsEqualityCloserToRelation(t *testing.T) {
	// outer "x = 1" (score 0.1) is more restrictive than inner "a OR b"
	// (score 1.5), so the pass swaps them to bring it closer to the relation.
	chain := []string{"x = 1", "a OR b"}
	swapped, applied := bubbleSwapOnce(chain)
	if swapped[0] != "a OR b" || swapped[1] != "x = 1" {
		t.Fatalf("expected swap bringing the more restrictive predicate closer to the relation, got %v", swapped)
	}
	if len(applied) != 1 {
		t.Fatalf("expected one swap recorded, got %v", applied)
	}
}

func TestMostRestrictiveFirstNoSwapWhenAlreadyOrdered(t *testing.T) {
	chain := []string{"a OR b", "x = 1"}
	swapped, applied := bubbleSwapOnce(chain)
	if swapped[0] != "a OR b" || swapped[1] != "x = 1" {
		t.Fatalf("got %v", swapped)
	}
	if len(applied) != 0 {
		t.Fatalf("expected no swap, got %v", applied)
	}
}

func TestSplitTopLevelAndHandlesNestedParens(t *testing.T) {
	got := splitTopLevelAnd("(((a = 1 AND b = 2) AND c = 3) AND d = 4)")
	want := []string{"a = 1", "b = 2", "c = 3", "d = 4"}
	if len(got) != len(want) {
		t.Fatalf("got %v", got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("got %v, want %v", got, want)
		}
	}
}

func TestRestrictivenessScoreOrdering(t *testing.T) {
	if restrictivenessScore("x = 1") >= restrictivenessScore("a OR b") {
		t.Fatalf("equality predicate should score more restrictive than a disjunction")
	}
	if restrictivenessScore("x > 1") >= restrictivenessScore("a OR b") {
		t.Fatalf("range predicate should score more restrictive than a disjunction")
	}
}

