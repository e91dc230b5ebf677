// Package compat implements the differential check of SPEC_FULL.md §10.4/
// §11: the same SQL text is parsed by this repo's restricted-SELECT
// grammar and by github.com/blastrain/vitess-sqlparser, and the two are
// compared on the coarse surface both can express — the set of base table
// names referenced. Grounded on the teacher's compat_test.go/
// compare_test.go differential-testing idea, scoped down to the SELECT
// subset this grammar actually accepts.
//
// This file carries the _test.go suffix deliberately, keeping
// vitess-sqlparser test-only exactly as the teacher's go.mod declares it:
// promoting it to non-test code would pull a full general-purpose SQL
// engine into the module's production build for a one-dialect subset
// grammar, which is precisely the complexity this grammar's BNF is scoped
// to avoid (see DESIGN.md).
package compat

import (
	"regexp"
	"sort"
	"strings"

	vitess "github.com/blastrain/vitess-sqlparser/sqlparser"

	"github.com/freeeve/qalgebra/algebra"
	"github.com/freeeve/qalgebra/parser"
	"github.com/freeeve/qalgebra/translator"
)

// Result is the outcome of comparing both parsers on one SQL text.
type Result struct {
	OurTables    []string
	VitessTables []string
	Agree        bool
}

// Compare parses sql with this repo's grammar and with vitess-sqlparser,
// translating the former to algebra and extracting the latter's
// re-serialized FROM/JOIN table names by text scan (vitess's AST shape is
// out of scope to depend on directly beyond its Parse/String entry
// points), then compares the two table-name sets.
func Compare(sql string) (*Result, error) {
	stmt, errs := parser.Parse(sql)
	if len(errs) != 0 {
		return nil, errs[0]
	}
	tree, err := translator.Translate(stmt)
	if err != nil {
		return nil, err
	}
	ourTables := sortedNames(collectTableNames(tree))

	vstmt, err := vitess.Parse(sql)
	if err != nil {
		return nil, err
	}
	vitessTables := extractTableNames(vitess.String(vstmt))

	return &Result{
		OurTables:    ourTables,
		VitessTables: vitessTables,
		Agree:        sameSet(ourTables, vitessTables),
	}, nil
}

// collectTableNames walks tree collecting base relation names only — not
// their aliases (algebra.RelationNames mixes the two for rewrite-rule
// matching, which would make this comparison trivially disagree whenever a
// query uses aliases).
func collectTableNames(n algebra.Node) map[string]bool {
	out := map[string]bool{}
	var walk func(algebra.Node)
	walk = func(n algebra.Node) {
		switch t := n.(type) {
		case *algebra.Relation:
			out[strings.ToLower(t.Name)] = true
		case *algebra.Projection:
			walk(t.Input)
		case *algebra.Selection:
			walk(t.Input)
		case *algebra.Join:
			walk(t.Left)
			walk(t.Right)
		case *algebra.CrossProduct:
			walk(t.Left)
			walk(t.Right)
		}
	}
	walk(n)
	return out
}

var tableRefRe = regexp.MustCompile("(?i)\\b(?:from|join)\\s+`?([A-Za-z_][A-Za-z0-9_]*)`?")

func extractTableNames(sql string) []string {
	seen := map[string]bool{}
	for _, m := range tableRefRe.FindAllStringSubmatch(sql, -1) {
		seen[strings.ToLower(m[1])] = true
	}
	return sortedNames(seen)
}

func sortedNames(set map[string]bool) []string {
	out := make([]string, 0, len(set))
	for k := range set {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

func sameSet(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
