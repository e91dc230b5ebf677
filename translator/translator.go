// Package translator implements the pure AST → algebra lowering of
// SPEC_FULL.md §4.5: bottom-up construction of relation/join/selection/
// projection nodes, with join chains built left-associatively and WHERE/ON
// expressions rendered to the opaque condition strings the rewrite rules
// pattern-match on. Grounded on the structural-recursion shape of
// freeeve-machparse/visitor/visitor.go, adapted from a read-only visit into
// a bottom-up fold that produces a new tree.
package translator

import (
	"strconv"
	"strings"

	"github.com/freeeve/qalgebra/algebra"
	"github.com/freeeve/qalgebra/ast"
	"github.com/freeeve/qalgebra/internal/ambient"
)

// ErrUnsupportedStatement is returned when Translate is given a Statement
// variant other than *ast.SelectStatement. The AST is kept "open" for
// future statement kinds per SPEC_FULL.md §3.2; this is the structured
// failure the translator returns instead of a type-assertion panic.
var ErrUnsupportedStatement = ambient.Newf(ambient.StageTranslate, "translation not supported for this statement kind")

// Translate lowers stmt to its canonical algebra tree.
func Translate(stmt ast.Statement) (algebra.Node, error) {
	sel, ok := stmt.(*ast.SelectStatement)
	if !ok {
		return nil, ErrUnsupportedStatement
	}
	return translateSelect(sel)
}

func translateSelect(sel *ast.SelectStatement) (algebra.Node, error) {
	if sel == nil || sel.From == nil {
		return nil, ambient.Newf(ambient.StageTranslate, "select statement has no FROM source to translate")
	}

	base, err := translateSource(sel.From.Source, sel.From.Alias)
	if err != nil {
		return nil, err
	}

	for _, j := range sel.Joins {
		right, err := translateSource(j.Source, j.Alias)
		if err != nil {
			return nil, err
		}
		if j.Type == ast.CrossJoin {
			base = &algebra.CrossProduct{Left: base, Right: right}
			continue
		}
		base = &algebra.Join{
			Condition: renderExpr(j.On),
			Left:      base,
			Right:     right,
		}
	}

	if sel.Where != nil {
		base = &algebra.Selection{Condition: renderExpr(sel.Where), Input: base}
	}

	return &algebra.Projection{Attributes: extractAttributes(sel.Columns), Input: base}, nil
}

func translateSource(src ast.TableSource, alias string) (algebra.Node, error) {
	switch s := src.(type) {
	case *ast.TableName:
		return &algebra.Relation{Name: s.Name, Alias: alias}, nil
	case *ast.SubquerySource:
		node, err := translateSelect(s.Select)
		if err != nil {
			return nil, err
		}
		if proj, ok := node.(*algebra.Projection); ok {
			proj.Alias = alias
		}
		return node, nil
	default:
		return nil, ambient.Newf(ambient.StageTranslate, "unsupported table source %T", src)
	}
}

func extractAttributes(cols []ast.Column) []string {
	attrs := make([]string, 0, len(cols))
	for _, c := range cols {
		switch col := c.(type) {
		case *ast.StarColumn:
			attrs = append(attrs, "*")
		case *ast.NamedColumn:
			attrs = append(attrs, col.Name)
		}
	}
	return attrs
}

// renderExpr renders a boolean expression to its standard infix form, the
// sole representation rewrite rules pattern-match against (SPEC_FULL.md
// §9). Logical expressions are always parenthesized; binary comparisons
// never are.
func renderExpr(e ast.Expr) string {
	switch n := e.(type) {
	case *ast.BinaryExpr:
		return renderOperand(n.Left) + " " + n.Op.String() + " " + renderOperand(n.Right)
	case *ast.LogicalExpr:
		return "(" + renderExpr(n.Left) + " " + n.Op.String() + " " + renderExpr(n.Right) + ")"
	}
	return ""
}

func renderOperand(o ast.Operand) string {
	switch op := o.(type) {
	case *ast.ColumnReference:
		return op.Name
	case *ast.NumberLiteral:
		if op.Text != "" {
			return op.Text
		}
		return strconv.FormatFloat(op.Value, 'g', -1, 64)
	case *ast.StringLiteral:
		var b strings.Builder
		b.WriteByte('\'')
		b.WriteString(op.Value)
		b.WriteByte('\'')
		return b.String()
	}
	return ""
}
