// Package validator implements the schema-aware semantic checker of
// SPEC_FULL.md §4.4: alias-scope column resolution and the type-
// compatibility lattice for WHERE comparisons. It never panics; every
// problem is reported as a ValidationError value, grounded on
// Chahine-tech-sqlens/pkg/schema/validator.go's Validator-struct-plus-
// accumulated-error-slice shape, adapted to this repo's AST and the exact
// algorithm spec.md prescribes.
package validator

import (
	"fmt"
	"strings"

	"github.com/freeeve/qalgebra/ast"
	"github.com/freeeve/qalgebra/internal/ambient"
	"github.com/freeeve/qalgebra/schema"
)

// Kind is the closed set of validation problems this checker reports.
type Kind int

const (
	KindUnknownTable Kind = iota
	KindUnknownColumn
	KindAmbiguousColumn
	KindTypeMismatch
	KindInvalidComparison
)

func (k Kind) String() string {
	switch k {
	case KindUnknownTable:
		return "UNKNOWN_TABLE"
	case KindUnknownColumn:
		return "UNKNOWN_COLUMN"
	case KindAmbiguousColumn:
		return "AMBIGUOUS_COLUMN"
	case KindTypeMismatch:
		return "TYPE_MISMATCH"
	case KindInvalidComparison:
		return "INVALID_COMPARISON"
	}
	return "UNKNOWN"
}

// Error is a single validation problem. Table/Column are set when the
// problem names a specific one. Tables is set instead of Table for
// KindAmbiguousColumn, naming every relation in scope the column matched.
type Error struct {
	Kind    Kind
	Message string
	Table   string
	Column  string
	Tables  []string
}

func (e *Error) Error() string { return fmt.Sprintf("[%s] %s", e.Kind, e.Message) }

// scopeEntry is one alias-scope binding. Table is nil for a subquery
// source: this grammar's subqueries carry no declared output schema, so
// column references against a subquery alias are assumed valid rather than
// rejected (the validator has no structural type to check them against).
type scopeEntry struct {
	canonicalName string
	table         *schema.TableSchema
}

// scope is an ordered mapping from lowercased alias/table name to its
// binding, built incrementally as FROM then each JOIN is visited, per
// SPEC_FULL.md §9 "Alias scope".
type scope struct {
	order   []string
	entries map[string]scopeEntry
}

func newScope() *scope { return &scope{entries: make(map[string]scopeEntry)} }

func (s *scope) add(alias string, e scopeEntry) {
	key := strings.ToLower(alias)
	if _, exists := s.entries[key]; !exists {
		s.order = append(s.order, key)
	}
	s.entries[key] = e
}

func (s *scope) lookup(alias string) (scopeEntry, bool) {
	e, ok := s.entries[strings.ToLower(alias)]
	return e, ok
}

// Validate checks stmt against db and returns every problem found; a nil
// slice means the statement is fully valid.
func Validate(stmt *ast.SelectStatement, db *schema.Database) []*Error {
	v := &validation{db: db}
	v.validateSelect(stmt)
	return v.errs
}

type validation struct {
	db   *schema.Database
	errs []*Error
}

func (v *validation) report(e *Error) { v.errs = append(v.errs, e) }

func (v *validation) validateSelect(stmt *ast.SelectStatement) *scope {
	sc := newScope()
	if stmt.From == nil {
		return sc
	}

	if _, isSubquery := stmt.From.Source.(*ast.SubquerySource); isSubquery && stmt.From.Alias == "" {
		v.report(&Error{
			Kind:    KindInvalidComparison,
			Message: ambient.Newf(ambient.StageValidate, "subquery in FROM clause must have an alias").Error(),
		})
	}

	entry, ok := v.resolveSource(stmt.From.Source)
	if !ok {
		return sc
	}
	alias := stmt.From.Alias
	if alias == "" {
		alias = entry.canonicalName
	}
	sc.add(alias, entry)

	for _, j := range stmt.Joins {
		if _, isSubquery := j.Source.(*ast.SubquerySource); isSubquery && j.Alias == "" {
			v.report(&Error{
				Kind:    KindInvalidComparison,
				Message: ambient.Newf(ambient.StageValidate, "subquery in JOIN clause must have an alias").Error(),
			})
		}
		jEntry, ok := v.resolveSource(j.Source)
		if !ok {
			continue
		}
		jAlias := j.Alias
		if jAlias == "" {
			jAlias = jEntry.canonicalName
		}
		sc.add(jAlias, jEntry)
		if j.Type == ast.InnerJoin && j.On != nil {
			v.validateExpr(j.On, sc)
		}
	}

	for _, col := range stmt.Columns {
		if named, ok := col.(*ast.NamedColumn); ok {
			v.validateNamedColumn(named, sc)
		}
	}

	if stmt.Where != nil {
		v.validateExpr(stmt.Where, sc)
	}

	return sc
}

// resolveSource validates a FROM/JOIN source and returns the scope entry it
// contributes. ok is false when resolution failed and the caller must skip
// further checks that depend on this source (per §4.4 step 1: "abort
// further checks" on an unknown table).
func (v *validation) resolveSource(src ast.TableSource) (scopeEntry, bool) {
	switch s := src.(type) {
	case *ast.TableName:
		tbl, ok := v.db.Table(s.Name)
		if !ok {
			v.report(&Error{
				Kind:    KindUnknownTable,
				Message: ambient.Newf(ambient.StageValidate, "table %q is not defined in the schema", s.Name).Error(),
				Table:   s.Name,
			})
			return scopeEntry{}, false
		}
		return scopeEntry{canonicalName: tbl.Name, table: tbl}, true
	case *ast.SubquerySource:
		v.validateSelect(s.Select)
		return scopeEntry{canonicalName: "", table: nil}, true
	default:
		return scopeEntry{}, false
	}
}

func (v *validation) validateNamedColumn(col *ast.NamedColumn, sc *scope) {
	if qualifier := col.Qualifier(); qualifier != "" {
		v.validateQualifiedColumn(qualifier, col.Unqualified(), sc)
		return
	}
	v.validateUnqualifiedColumn(col.Unqualified(), sc)
}

func (v *validation) validateQualifiedColumn(qualifier, column string, sc *scope) {
	entry, ok := sc.lookup(qualifier)
	if !ok {
		v.report(&Error{
			Kind:    KindUnknownTable,
			Message: ambient.Newf(ambient.StageValidate, "unknown qualifier %q", qualifier).Error(),
			Table:   qualifier,
		})
		return
	}
	if entry.table == nil {
		return // subquery source: no declared schema to check against
	}
	if !entry.table.HasColumn(column) {
		v.report(&Error{
			Kind:    KindUnknownColumn,
			Message: ambient.Newf(ambient.StageValidate, "column %q not found on table %q", column, entry.table.Name).Error(),
			Table:   entry.table.Name,
			Column:  column,
		})
	}
}

func (v *validation) validateUnqualifiedColumn(column string, sc *scope) {
	if len(sc.order) == 1 {
		entry := sc.entries[sc.order[0]]
		if entry.table != nil && !entry.table.HasColumn(column) {
			v.report(&Error{
				Kind:    KindUnknownColumn,
				Message: ambient.Newf(ambient.StageValidate, "column %q not found on table %q", column, entry.table.Name).Error(),
				Column:  column,
			})
		}
		return
	}

	var matchedTables []string
	for _, key := range sc.order {
		entry := sc.entries[key]
		if entry.table != nil && entry.table.HasColumn(column) {
			matchedTables = append(matchedTables, entry.table.Name)
		}
	}
	switch {
	case len(matchedTables) == 0:
		v.report(&Error{
			Kind:    KindUnknownColumn,
			Message: ambient.Newf(ambient.StageValidate, "column %q not found on any relation in scope", column).Error(),
			Column:  column,
		})
	case len(matchedTables) > 1:
		v.report(&Error{
			Kind:    KindAmbiguousColumn,
			Message: ambient.Newf(ambient.StageValidate, "column reference %q is ambiguous: present on tables %s", column, strings.Join(matchedTables, ", ")).Error(),
			Column:  column,
			Tables:  matchedTables,
		})
	}
}

// validateExpr recurses through a WHERE/ON expression, checking operand
// type compatibility at every comparison leaf.
func (v *validation) validateExpr(e ast.Expr, sc *scope) {
	switch n := e.(type) {
	case *ast.LogicalExpr:
		v.validateExpr(n.Left, sc)
		v.validateExpr(n.Right, sc)
	case *ast.BinaryExpr:
		for _, col := range ast.ColumnReferences(n) {
			v.validateColumnOperand(col, sc)
		}
		v.validateComparison(n, sc)
	}
}

func (v *validation) validateColumnOperand(col *ast.ColumnReference, sc *scope) {
	if qualifier := col.Qualifier(); qualifier != "" {
		v.validateQualifiedColumn(qualifier, col.Unqualified(), sc)
		return
	}
	v.validateUnqualifiedColumn(col.Unqualified(), sc)
}

// operandType resolves the schema type of an operand, or false when no
// type can be determined (unknown column, or a column sourced from a
// subquery with no declared schema).
func (v *validation) operandType(o ast.Operand, sc *scope) (schema.ColumnType, string, bool) {
	switch op := o.(type) {
	case *ast.NumberLiteral:
		return schema.DECIMAL, op.Text, true
	case *ast.StringLiteral:
		return schema.VARCHAR, "'" + op.Value + "'", true
	case *ast.ColumnReference:
		qualifier, column := op.Qualifier(), op.Unqualified()
		if qualifier != "" {
			entry, ok := sc.lookup(qualifier)
			if !ok || entry.table == nil {
				return 0, op.Name, false
			}
			def, ok := entry.table.Column(column)
			if !ok {
				return 0, op.Name, false
			}
			return def.Type, op.Name, true
		}
		for _, key := range sc.order {
			entry := sc.entries[key]
			if entry.table == nil {
				continue
			}
			if def, ok := entry.table.Column(column); ok {
				return def.Type, op.Name, true
			}
		}
		return 0, op.Name, false
	}
	return 0, "", false
}

func (v *validation) validateComparison(n *ast.BinaryExpr, sc *scope) {
	leftType, leftDesc, leftOK := v.operandType(n.Left, sc)
	rightType, rightDesc, rightOK := v.operandType(n.Right, sc)
	if !leftOK || !rightOK {
		return // unresolved operand: already reported by validateColumnOperand, or an unchecked subquery column
	}
	equalityOnly := n.Op == ast.CmpEQ || n.Op == ast.CmpNEQ || n.Op == ast.CmpNEQAngle
	if !leftType.CompatibleFor(rightType, equalityOnly) {
		v.report(&Error{
			Kind: KindTypeMismatch,
			Message: ambient.Newf(ambient.StageValidate, "cannot compare %s (%s) %s %s (%s)",
				leftDesc, leftType, n.Op, rightDesc, rightType).Error(),
		})
	}
}
