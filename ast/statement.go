package ast

import "github.com/freeeve/qalgebra/token"

// SelectStatement is the sole Statement variant accepted by this grammar.
type SelectStatement struct {
	StartPos token.Pos
	EndPos   token.Pos

	Columns []Column
	From    *FromClause
	Joins   []*JoinClause
	Where   Expr // nil when no WHERE clause is present
}

func (s *SelectStatement) statementNode() {}
func (s *SelectStatement) Pos() token.Pos { return s.StartPos }
func (s *SelectStatement) End() token.Pos { return s.EndPos }

// Column is either Star or a Named column reference, per §3.2.
type Column interface {
	Node
	columnNode()
}

// StarColumn represents the `*` select-list item.
type StarColumn struct {
	StartPos token.Pos
}

func (c *StarColumn) columnNode()      {}
func (c *StarColumn) Pos() token.Pos   { return c.StartPos }
func (c *StarColumn) End() token.Pos   { return token.Pos{Offset: c.StartPos.Offset + 1, Line: c.StartPos.Line, Column: c.StartPos.Column + 1} }

// NamedColumn is `ident` or `qualifier.ident`, stored verbatim including
// the dot when qualified.
type NamedColumn struct {
	StartPos token.Pos
	EndPos   token.Pos
	Name     string
}

func (c *NamedColumn) columnNode()    {}
func (c *NamedColumn) Pos() token.Pos { return c.StartPos }
func (c *NamedColumn) End() token.Pos { return c.EndPos }

// Qualifier returns the portion before the dot, or "" if Name is unqualified.
func (c *NamedColumn) Qualifier() string {
	for i := 0; i < len(c.Name); i++ {
		if c.Name[i] == '.' {
			return c.Name[:i]
		}
	}
	return ""
}

// Unqualified returns the portion after the dot, or the whole name if
// unqualified.
func (c *NamedColumn) Unqualified() string {
	for i := 0; i < len(c.Name); i++ {
		if c.Name[i] == '.' {
			return c.Name[i+1:]
		}
	}
	return c.Name
}

// FromClause names the base table or subquery source of a query, with its
// optional alias.
type FromClause struct {
	StartPos token.Pos
	EndPos   token.Pos
	Source   TableSource
	Alias    string // "" if absent
}

func (f *FromClause) Pos() token.Pos { return f.StartPos }
func (f *FromClause) End() token.Pos { return f.EndPos }

// TableName is a plain table/source identifier, from an IDENT or a quoted
// STRING_LITERAL (FROM "users" is accepted per §4.1).
type TableName struct {
	StartPos token.Pos
	EndPos   token.Pos
	Name     string
}

func (t *TableName) tableSourceNode() {}
func (t *TableName) Pos() token.Pos   { return t.StartPos }
func (t *TableName) End() token.Pos   { return t.EndPos }

// SubquerySource wraps a parenthesized SELECT used as a FROM/JOIN source.
type SubquerySource struct {
	StartPos token.Pos
	EndPos   token.Pos
	Select   *SelectStatement
}

func (s *SubquerySource) tableSourceNode() {}
func (s *SubquerySource) Pos() token.Pos   { return s.StartPos }
func (s *SubquerySource) End() token.Pos   { return s.EndPos }

// JoinType distinguishes INNER from CROSS joins.
type JoinType int

const (
	InnerJoin JoinType = iota
	CrossJoin
)

func (jt JoinType) String() string {
	if jt == CrossJoin {
		return "CROSS"
	}
	return "INNER"
}

// JoinClause is one JOIN in a chain. On is required for InnerJoin and nil
// for CrossJoin, per §3.2.
type JoinClause struct {
	StartPos token.Pos
	EndPos   token.Pos

	Type   JoinType
	Source TableSource
	Alias  string
	On     Expr // nil for CROSS JOIN
}

func (j *JoinClause) Pos() token.Pos { return j.StartPos }
func (j *JoinClause) End() token.Pos { return j.EndPos }
