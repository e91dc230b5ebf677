package ast

import "github.com/freeeve/qalgebra/token"

// LogicalOp is AND or OR.
type LogicalOp int

const (
	LogicalAnd LogicalOp = iota
	LogicalOr
)

func (op LogicalOp) String() string {
	if op == LogicalOr {
		return "OR"
	}
	return "AND"
}

// CmpOp is one of the six comparison operators. CmpNEQ and CmpNEQAngle
// (!= and <>) are distinct syntactic forms with identical semantics, per §3.2.
type CmpOp int

const (
	CmpEQ CmpOp = iota
	CmpNEQ
	CmpNEQAngle // <>
	CmpLT
	CmpLE
	CmpGT
	CmpGE
)

func (op CmpOp) String() string {
	switch op {
	case CmpEQ:
		return "="
	case CmpNEQ:
		return "!="
	case CmpNEQAngle:
		return "<>"
	case CmpLT:
		return "<"
	case CmpLE:
		return "<="
	case CmpGT:
		return ">"
	case CmpGE:
		return ">="
	}
	return "?"
}

// CmpOpFromToken maps a comparison token to its CmpOp.
func CmpOpFromToken(t token.Token) (CmpOp, bool) {
	switch t {
	case token.EQ:
		return CmpEQ, true
	case token.NEQ:
		return CmpNEQ, true
	case token.LT:
		return CmpLT, true
	case token.LE:
		return CmpLE, true
	case token.GT:
		return CmpGT, true
	case token.GE:
		return CmpGE, true
	}
	return 0, false
}

// LogicalExpr is `left op right` where op is AND or OR, left-associative.
type LogicalExpr struct {
	StartPos token.Pos
	EndPos   token.Pos
	Left     Expr
	Op       LogicalOp
	Right    Expr
}

func (e *LogicalExpr) exprNode()      {}
func (e *LogicalExpr) Pos() token.Pos { return e.StartPos }
func (e *LogicalExpr) End() token.Pos { return e.EndPos }

// BinaryExpr is a single comparison `left op right`.
type BinaryExpr struct {
	StartPos token.Pos
	EndPos   token.Pos
	Left     Operand
	Op       CmpOp
	Right    Operand
}

func (e *BinaryExpr) exprNode()      {}
func (e *BinaryExpr) Pos() token.Pos { return e.StartPos }
func (e *BinaryExpr) End() token.Pos { return e.EndPos }

// ColumnReference is an operand naming a column, qualified or not.
type ColumnReference struct {
	StartPos token.Pos
	EndPos   token.Pos
	Name     string
}

func (o *ColumnReference) operandNode()  {}
func (o *ColumnReference) Pos() token.Pos { return o.StartPos }
func (o *ColumnReference) End() token.Pos { return o.EndPos }

// Qualifier returns the table/alias portion of a qualified reference, or ""
// if unqualified.
func (o *ColumnReference) Qualifier() string {
	for i := 0; i < len(o.Name); i++ {
		if o.Name[i] == '.' {
			return o.Name[:i]
		}
	}
	return ""
}

// Unqualified returns the column portion of the reference.
func (o *ColumnReference) Unqualified() string {
	for i := 0; i < len(o.Name); i++ {
		if o.Name[i] == '.' {
			return o.Name[i+1:]
		}
	}
	return o.Name
}

// NumberLiteral is a decimal numeric operand; Text preserves the original
// lexeme (matching `\d+(\.\d+)?`) and Value holds its parsed float64.
type NumberLiteral struct {
	StartPos token.Pos
	EndPos   token.Pos
	Text     string
	Value    float64
}

func (o *NumberLiteral) operandNode()  {}
func (o *NumberLiteral) Pos() token.Pos { return o.StartPos }
func (o *NumberLiteral) End() token.Pos { return o.EndPos }

// StringLiteral is a quoted operand with the surrounding quote already
// stripped and no escape processing applied (§6).
type StringLiteral struct {
	StartPos token.Pos
	EndPos   token.Pos
	Value    string
}

func (o *StringLiteral) operandNode()  {}
func (o *StringLiteral) Pos() token.Pos { return o.StartPos }
func (o *StringLiteral) End() token.Pos { return o.EndPos }
