package compat

import (
	"testing"

	"github.com/freeeve/qalgebra/parser"
)

// Queries drawn from the accepted SELECT subset this grammar's BNF covers;
// the teacher's TestVitessCompatibility exercises a much larger dialect
// surface (UNION, CTEs, subquery operators) that has no equivalent here.
var agreeingQueries = []string{
	"SELECT * FROM users",
	"SELECT id, name FROM users",
	"SELECT * FROM users WHERE age > 18",
	"SELECT u.name, o.total FROM users u INNER JOIN orders o ON u.id = o.user_id WHERE u.age > 18",
	"SELECT * FROM a CROSS JOIN b",
	"SELECT * FROM a JOIN b ON a.id = b.id JOIN c ON b.id = c.id",
}

func TestCompareAgreesOnAcceptedSubset(t *testing.T) {
	for _, q := range agreeingQueries {
		t.Run(q, func(t *testing.T) {
			result, err := Compare(q)
			if err != nil {
				t.Fatalf("unexpected error for %q: %v", q, err)
			}
			if !result.Agree {
				t.Fatalf("table sets disagree for %q: ours=%v vitess=%v", q, result.OurTables, result.VitessTables)
			}
		})
	}
}

func TestCompareRejectsWhatThisGrammarDoesNotAccept(t *testing.T) {
	// Non-SELECT statements are outside this grammar entirely; vitess
	// accepts them, but our parser must not.
	if _, errs := parser.Parse("INSERT INTO users (id) VALUES (1)"); len(errs) == 0 {
		t.Fatal("expected a parse error for a non-SELECT statement")
	}
}
