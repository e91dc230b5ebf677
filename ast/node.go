// Package ast defines the abstract syntax produced by the parser: a single
// SelectStatement variant built from columns, a FROM source, zero or more
// joins, and an optional WHERE expression (SPEC_FULL.md §3.2). The AST is
// immutable after construction — there is no in-place mutation API, unlike
// the teacher's pooled, mutate-in-place AST nodes (see DESIGN.md).
package ast

import "github.com/freeeve/qalgebra/token"

// Node is the common interface every AST type implements.
type Node interface {
	Pos() token.Pos
	End() token.Pos
}

// Statement is the root of a parsed query. SelectStatement is the only
// variant today; the interface is kept open, per SPEC_FULL.md §3.2, so a
// caller can reject a future non-SELECT variant with a structured error
// instead of a type assertion panic.
type Statement interface {
	Node
	statementNode()
}

// Expr is a boolean WHERE expression: a Logical combination of Binary
// comparisons.
type Expr interface {
	Node
	exprNode()
}

// Operand is a comparison operand: a column reference or a literal.
type Operand interface {
	Node
	operandNode()
}

// TableSource is a FROM/JOIN source: a table name or a parenthesized
// subquery.
type TableSource interface {
	Node
	tableSourceNode()
}
