package translator

import (
	"testing"

	"github.com/freeeve/qalgebra/algebra"
	"github.com/freeeve/qalgebra/parser"
	"github.com/freeeve/qalgebra/render"
)

func translateSQL(t *testing.T, src string) algebra.Node {
	t.Helper()
	stmt, errs := parser.Parse(src)
	if len(errs) != 0 {
		t.Fatalf("unexpected parse errors for %q: %v", src, errs)
	}
	tree, err := Translate(stmt)
	if err != nil {
		t.Fatalf("unexpected translate error for %q: %v", src, err)
	}
	return tree
}

func TestTranslateStar(t *testing.T) {
	tree := translateSQL(t, "SELECT * FROM users")
	if got := render.Algebra(tree); got != "π[*](users)" {
		t.Fatalf("got %q", got)
	}
}

func TestTranslateColumnList(t *testing.T) {
	tree := translateSQL(t, "SELECT id, name FROM users")
	if got := render.Algebra(tree); got != "π[id, name](users)" {
		t.Fatalf("got %q", got)
	}
}

func TestTranslateSelection(t *testing.T) {
	tree := translateSQL(t, "SELECT * FROM users WHERE age > 18")
	if got := render.Algebra(tree); got != "π[*](σ[age > 18](users))" {
		t.Fatalf("got %q", got)
	}
}

func TestTranslateCompoundWhere(t *testing.T) {
	tree := translateSQL(t, "SELECT id FROM users WHERE age > 18 AND name = 'John'")
	want := "π[id](σ[(age > 18 AND name = 'John')](users))"
	if got := render.Algebra(tree); got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestTranslateSubquerySource(t *testing.T) {
	tree := translateSQL(t, "SELECT id FROM (SELECT * FROM users) AS u")
	want := "π[id](π[*](users))"
	if got := render.Algebra(tree); got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestTranslateJoinWithCompoundWhere(t *testing.T) {
	tree := translateSQL(t, "SELECT u.name, o.total FROM users u INNER JOIN orders o ON u.id = o.user_id WHERE u.age > 18 AND o.total > 100")
	want := "π[u.name, o.total](σ[(u.age > 18 AND o.total > 100)](⨝[u.id = o.user_id](users, orders)))"
	if got := render.Algebra(tree); got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestTranslateCrossJoin(t *testing.T) {
	tree := translateSQL(t, "SELECT * FROM a CROSS JOIN b")
	want := "π[*]((a × b))"
	if got := render.Algebra(tree); got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestTranslateJoinChainLeftAssociative(t *testing.T) {
	tree := translateSQL(t, "SELECT * FROM a JOIN b ON a.id = b.id JOIN c ON b.id = c.id")
	want := "π[*](⨝[b.id = c.id](⨝[a.id = b.id](a, b), c))"
	if got := render.Algebra(tree); got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

// The alias is never rendered (SPEC_FULL.md §4.5), but it must reach the
// algebra.Relation nodes so alias-qualified WHERE predicates can later be
// matched to the correct side during selection push-down (see rewrite/).
func TestTranslatePropagatesAliasOntoRelationWithoutRenderingIt(t *testing.T) {
	tree := translateSQL(t, "SELECT u.name FROM users u INNER JOIN orders o ON u.id = o.user_id")
	proj, ok := tree.(*algebra.Projection)
	if !ok {
		t.Fatalf("expected a Projection root, got %T", tree)
	}
	join, ok := proj.Input.(*algebra.Join)
	if !ok {
		t.Fatalf("expected a Join under the projection, got %T", proj.Input)
	}
	left, ok := join.Left.(*algebra.Relation)
	if !ok || left.Name != "users" || left.Alias != "u" {
		t.Fatalf("left relation = %+v", join.Left)
	}
	right, ok := join.Right.(*algebra.Relation)
	if !ok || right.Name != "orders" || right.Alias != "o" {
		t.Fatalf("right relation = %+v", join.Right)
	}
	if got := render.Algebra(tree); got != "π[u.name](⨝[u.id = o.user_id](users, orders))" {
		t.Fatalf("alias leaked into rendering: %q", got)
	}
}
