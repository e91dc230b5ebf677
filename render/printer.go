// Package render turns an algebra tree into the standard Greek-symbol
// notation of SPEC_FULL.md §4.6 and into the node/edge graph description of
// §4.10. Both are pure, deterministic functions of the tree. Grounded on
// freeeve-machparse/format/formatter.go's Formatter-plus-bytes.Buffer-
// helper shape, repurposed for algebra notation rather than SQL
// regeneration — parallel structure, disjoint vocabulary.
package render

import (
	"strings"

	"github.com/freeeve/qalgebra/algebra"
)

// Algebra renders n in standard relational-algebra notation.
func Algebra(n algebra.Node) string {
	var b strings.Builder
	writeNode(&b, n)
	return b.String()
}

func writeNode(b *strings.Builder, n algebra.Node) {
	switch t := n.(type) {
	case *algebra.Relation:
		b.WriteString(t.Name)
	case *algebra.Projection:
		b.WriteString("π[")
		if algebra.IsWildcard(t.Attributes) {
			b.WriteString("*")
		} else {
			b.WriteString(strings.Join(t.Attributes, ", "))
		}
		b.WriteString("](")
		writeNode(b, t.Input)
		b.WriteString(")")
	case *algebra.Selection:
		b.WriteString("σ[")
		b.WriteString(t.Condition)
		b.WriteString("](")
		writeNode(b, t.Input)
		b.WriteString(")")
	case *algebra.Join:
		b.WriteString("⨝[")
		b.WriteString(t.Condition)
		b.WriteString("](")
		writeNode(b, t.Left)
		b.WriteString(", ")
		writeNode(b, t.Right)
		b.WriteString(")")
	case *algebra.CrossProduct:
		b.WriteString("(")
		writeNode(b, t.Left)
		b.WriteString(" × ")
		writeNode(b, t.Right)
		b.WriteString(")")
	}
}
