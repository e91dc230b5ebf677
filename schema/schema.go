// Package schema models the declared database schema that a query is
// validated against (SPEC_FULL.md §3.3): a database is a mapping from table
// name to table, and a table is a mapping from column name to column
// definition. Names are stored with their declared casing but matched
// case-insensitively everywhere in the core, mirroring
// Chahine-tech-sqlens/pkg/schema/schema.go's Table/Column/Schema shape.
package schema

import (
	"fmt"
	"strings"
)

// ColumnType is the closed set of column types the core understands.
type ColumnType int

const (
	INT ColumnType = iota
	TINYINT
	VARCHAR
	DATETIME
	DECIMAL
	BOOLEAN
)

var typeNames = map[ColumnType]string{
	INT:      "INT",
	TINYINT:  "TINYINT",
	VARCHAR:  "VARCHAR",
	DATETIME: "DATETIME",
	DECIMAL:  "DECIMAL",
	BOOLEAN:  "BOOLEAN",
}

func (t ColumnType) String() string {
	if name, ok := typeNames[t]; ok {
		return name
	}
	return "UNKNOWN"
}

// ParseColumnType resolves a type name (case-insensitively) against the
// closed set, per SPEC_FULL.md §6: "unknown column type values must be
// rejected at schema-load time".
func ParseColumnType(name string) (ColumnType, bool) {
	switch strings.ToUpper(name) {
	case "INT":
		return INT, true
	case "TINYINT":
		return TINYINT, true
	case "VARCHAR":
		return VARCHAR, true
	case "DATETIME":
		return DATETIME, true
	case "DECIMAL":
		return DECIMAL, true
	case "BOOLEAN":
		return BOOLEAN, true
	}
	return 0, false
}

// isNumeric reports whether t is one of the numeric types (§4.4).
func (t ColumnType) isNumeric() bool {
	switch t {
	case INT, TINYINT, DECIMAL:
		return true
	}
	return false
}

// CompatibleFor reports whether a comparison between this type and other is
// legal for the given comparison-operator family, per the lattice in
// SPEC_FULL.md §4.4. equalityOnly should be true for = / != / <>, false for
// the ordering operators.
func (t ColumnType) CompatibleFor(other ColumnType, equalityOnly bool) bool {
	switch {
	case t.isNumeric() && other.isNumeric():
		return true
	case t == VARCHAR && other == VARCHAR:
		return true
	case t == DATETIME && other == DATETIME:
		return true
	case t == BOOLEAN && other == BOOLEAN:
		return equalityOnly
	}
	return false
}

// ColumnDefinition describes one column of a table.
type ColumnDefinition struct {
	Name       string
	Type       ColumnType
	Length     int
	Precision  int
	Scale      int
	Nullable   bool
	PrimaryKey bool
	Unique     bool
}

// TableSchema is a table's declared column set.
type TableSchema struct {
	Name    string
	columns map[string]*ColumnDefinition // keyed by lowercased column name
	order   []string                     // declared column names, in insertion order
}

// NewTableSchema creates an empty table named name.
func NewTableSchema(name string) *TableSchema {
	return &TableSchema{Name: name, columns: make(map[string]*ColumnDefinition)}
}

// AddColumn registers col on the table.
func (t *TableSchema) AddColumn(col *ColumnDefinition) {
	key := strings.ToLower(col.Name)
	if _, exists := t.columns[key]; !exists {
		t.order = append(t.order, key)
	}
	t.columns[key] = col
}

// Column looks up a column by name, case-insensitively.
func (t *TableSchema) Column(name string) (*ColumnDefinition, bool) {
	col, ok := t.columns[strings.ToLower(name)]
	return col, ok
}

// HasColumn reports whether name names a column of t, case-insensitively.
func (t *TableSchema) HasColumn(name string) bool {
	_, ok := t.columns[strings.ToLower(name)]
	return ok
}

// Columns returns the table's columns in declaration order.
func (t *TableSchema) Columns() []*ColumnDefinition {
	out := make([]*ColumnDefinition, 0, len(t.order))
	for _, key := range t.order {
		out = append(out, t.columns[key])
	}
	return out
}

// Database is the top-level schema: a case-insensitively keyed set of
// tables.
type Database struct {
	Name   string
	tables map[string]*TableSchema // keyed by lowercased table name
	order  []string
}

// NewDatabase creates an empty, named schema.
func NewDatabase(name string) *Database {
	return &Database{Name: name, tables: make(map[string]*TableSchema)}
}

// AddTable registers t on the database.
func (d *Database) AddTable(t *TableSchema) {
	key := strings.ToLower(t.Name)
	if _, exists := d.tables[key]; !exists {
		d.order = append(d.order, key)
	}
	d.tables[key] = t
}

// Table looks up a table by name, case-insensitively.
func (d *Database) Table(name string) (*TableSchema, bool) {
	t, ok := d.tables[strings.ToLower(name)]
	return t, ok
}

// HasTable reports whether name names a table of d, case-insensitively.
func (d *Database) HasTable(name string) bool {
	_, ok := d.tables[strings.ToLower(name)]
	return ok
}

// Tables returns every table in declaration order.
func (d *Database) Tables() []*TableSchema {
	out := make([]*TableSchema, 0, len(d.order))
	for _, key := range d.order {
		out = append(out, d.tables[key])
	}
	return out
}

// Column resolves tableName.columnName against the schema, returning an
// error naming whichever part is missing.
func (d *Database) Column(tableName, columnName string) (*ColumnDefinition, error) {
	t, ok := d.Table(tableName)
	if !ok {
		return nil, fmt.Errorf("table %q not found in schema", tableName)
	}
	col, ok := t.Column(columnName)
	if !ok {
		return nil, fmt.Errorf("column %q not found in table %q", columnName, tableName)
	}
	return col, nil
}
