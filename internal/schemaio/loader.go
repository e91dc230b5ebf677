// Package schemaio loads a schema.Database from the YAML document shape of
// SPEC_FULL.md §11.1. Grounded on Chahine-tech-sqlens/pkg/schema/loader.go's
// overall shape — a loader unmarshaling into an intermediate wire struct,
// then building the typed domain model field by field — rebuilt against
// this repo's schema.Database/TableSchema/ColumnDefinition types and using
// gopkg.in/yaml.v2, the teacher's own already-declared dependency, rather
// than sqlens's yaml.v3.
package schemaio

import (
	"github.com/freeeve/qalgebra/schema"
	"github.com/juju/errors"
	"gopkg.in/yaml.v2"
)

type wireColumn struct {
	Type       string `yaml:"type"`
	Length     int    `yaml:"length,omitempty"`
	Precision  int    `yaml:"precision,omitempty"`
	Scale      int    `yaml:"scale,omitempty"`
	Nullable   bool   `yaml:"nullable,omitempty"`
	PrimaryKey bool   `yaml:"primary_key,omitempty"`
	Unique     bool   `yaml:"unique,omitempty"`
}

type wireTable struct {
	Columns map[string]wireColumn `yaml:"columns"`
}

type wireDatabase struct {
	Name   string               `yaml:"name"`
	Tables map[string]wireTable `yaml:"tables"`
}

// Load parses data as the YAML schema document described in SPEC_FULL.md
// §11.1 and builds the typed schema.Database it describes. An unknown
// column type value is rejected here, per spec.md §6: "unknown column type
// values must be rejected at schema-load time by the collaborator."
func Load(data []byte) (*schema.Database, error) {
	var wire wireDatabase
	if err := yaml.Unmarshal(data, &wire); err != nil {
		return nil, errors.Annotate(err, "parsing schema document")
	}

	db := schema.NewDatabase(wire.Name)
	for tableName, wt := range wire.Tables {
		table := schema.NewTableSchema(tableName)
		for colName, wc := range wt.Columns {
			colType, ok := schema.ParseColumnType(wc.Type)
			if !ok {
				return nil, errors.Errorf("table %q column %q: unknown column type %q", tableName, colName, wc.Type)
			}
			table.AddColumn(&schema.ColumnDefinition{
				Name:       colName,
				Type:       colType,
				Length:     wc.Length,
				Precision:  wc.Precision,
				Scale:      wc.Scale,
				Nullable:   wc.Nullable,
				PrimaryKey: wc.PrimaryKey,
				Unique:     wc.Unique,
			})
		}
		db.AddTable(table)
	}
	return db, nil
}
