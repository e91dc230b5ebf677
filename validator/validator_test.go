package validator

import (
	"testing"

	"github.com/freeeve/qalgebra/parser"
	"github.com/freeeve/qalgebra/schema"
)

func testSchema() *schema.Database {
	db := schema.NewDatabase("shop")
	users := schema.NewTableSchema("users")
	users.AddColumn(&schema.ColumnDefinition{Name: "id", Type: schema.INT})
	users.AddColumn(&schema.ColumnDefinition{Name: "name", Type: schema.VARCHAR})
	users.AddColumn(&schema.ColumnDefinition{Name: "age", Type: schema.TINYINT})
	db.AddTable(users)

	orders := schema.NewTableSchema("orders")
	orders.AddColumn(&schema.ColumnDefinition{Name: "id", Type: schema.INT})
	orders.AddColumn(&schema.ColumnDefinition{Name: "user_id", Type: schema.INT})
	orders.AddColumn(&schema.ColumnDefinition{Name: "total", Type: schema.DECIMAL})
	db.AddTable(orders)
	return db
}

func mustValidate(t *testing.T, src string) []*Error {
	t.Helper()
	stmt, errs := parser.Parse(src)
	if len(errs) != 0 {
		t.Fatalf("unexpected parse errors: %v", errs)
	}
	return Validate(stmt, testSchema())
}

func TestValidSelectHasNoErrors(t *testing.T) {
	errs := mustValidate(t, "SELECT id, name FROM users WHERE age > 18")
	if len(errs) != 0 {
		t.Fatalf("got %v", errs)
	}
}

func TestUnknownTable(t *testing.T) {
	errs := mustValidate(t, "SELECT * FROM nope")
	if len(errs) != 1 || errs[0].Kind != KindUnknownTable {
		t.Fatalf("got %v", errs)
	}
}

func TestUnknownQualifiedColumn(t *testing.T) {
	errs := mustValidate(t, "SELECT u.nope FROM users u")
	if len(errs) != 1 || errs[0].Kind != KindUnknownColumn {
		t.Fatalf("got %v", errs)
	}
}

func TestUnknownQualifierIsUnknownTable(t *testing.T) {
	errs := mustValidate(t, "SELECT z.id FROM users u")
	if len(errs) != 1 || errs[0].Kind != KindUnknownTable {
		t.Fatalf("got %v", errs)
	}
}

func TestAmbiguousUnqualifiedColumn(t *testing.T) {
	errs := mustValidate(t, "SELECT id FROM users u JOIN orders o ON u.id = o.user_id")
	if len(errs) != 1 || errs[0].Kind != KindAmbiguousColumn {
		t.Fatalf("got %v", errs)
	}
	if !containsSubstring(errs[0].Message, "ambiguous") {
		t.Fatalf("message should contain 'ambiguous': %q", errs[0].Message)
	}
}

func TestTypeMismatch(t *testing.T) {
	errs := mustValidate(t, "SELECT * FROM users WHERE name > 5")
	if len(errs) != 1 || errs[0].Kind != KindTypeMismatch {
		t.Fatalf("got %v", errs)
	}
}

func TestNumericCrossTypeComparisonOK(t *testing.T) {
	errs := mustValidate(t, "SELECT * FROM orders WHERE total > 100")
	if len(errs) != 0 {
		t.Fatalf("INT/DECIMAL should be compatible: got %v", errs)
	}
}

func TestSubqueryWithoutAliasIsInvalid(t *testing.T) {
	errs := mustValidate(t, "SELECT id FROM (SELECT * FROM users)")
	found := false
	for _, e := range errs {
		if e.Kind == KindInvalidComparison {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected INVALID_COMPARISON for unaliased subquery, got %v", errs)
	}
}

func TestSubqueryWithAliasOK(t *testing.T) {
	errs := mustValidate(t, "SELECT id FROM (SELECT * FROM users) AS u")
	for _, e := range errs {
		if e.Kind == KindInvalidComparison {
			t.Fatalf("aliased subquery should not report INVALID_COMPARISON: %v", errs)
		}
	}
}

func containsSubstring(s, sub string) bool {
	for i := 0; i+len(sub) <= len(s); i++ {
		if s[i:i+len(sub)] == sub {
			return true
		}
	}
	return false
}
