package autocomplete

import (
	"testing"

	"github.com/freeeve/qalgebra/schema"
)

func testDB() *schema.Database {
	db := schema.NewDatabase("test")
	users := schema.NewTableSchema("users")
	users.AddColumn(&schema.ColumnDefinition{Name: "id", Type: schema.INT})
	users.AddColumn(&schema.ColumnDefinition{Name: "name", Type: schema.VARCHAR})
	users.AddColumn(&schema.ColumnDefinition{Name: "age", Type: schema.INT})
	db.AddTable(users)
	orders := schema.NewTableSchema("orders")
	orders.AddColumn(&schema.ColumnDefinition{Name: "id", Type: schema.INT})
	orders.AddColumn(&schema.ColumnDefinition{Name: "total", Type: schema.DECIMAL})
	db.AddTable(orders)
	return db
}

func kinds(sugs []Suggestion) map[Kind]bool {
	out := map[Kind]bool{}
	for _, s := range sugs {
		out[s.Kind] = true
	}
	return out
}

func insertTexts(sugs []Suggestion) map[string]bool {
	out := map[string]bool{}
	for _, s := range sugs {
		out[s.InsertText] = true
	}
	return out
}

func TestSuggestAfterFromOffersTables(t *testing.T) {
	got := Suggest("SELECT * FROM ", testDB())
	texts := insertTexts(got)
	if !texts["users"] || !texts["orders"] {
		t.Fatalf("expected both tables suggested, got %+v", got)
	}
}

func TestSuggestAfterFromFiltersByPrefix(t *testing.T) {
	got := Suggest("SELECT * FROM us", testDB())
	texts := insertTexts(got)
	if !texts["users"] {
		t.Fatalf("expected users, got %+v", got)
	}
	if texts["orders"] {
		t.Fatalf("did not expect orders for prefix 'us', got %+v", got)
	}
}

func TestSuggestAfterJoinOffersTables(t *testing.T) {
	got := Suggest("SELECT * FROM users u JOIN ", testDB())
	texts := insertTexts(got)
	if !texts["orders"] {
		t.Fatalf("expected orders suggested after JOIN, got %+v", got)
	}
}

func TestSuggestAfterWhereOffersColumnsAndOperators(t *testing.T) {
	got := Suggest("SELECT * FROM users WHERE ", testDB())
	ks := kinds(got)
	if !ks[KindColumn] {
		t.Fatalf("expected column suggestions, got %+v", got)
	}
	if !ks[KindOperator] {
		t.Fatalf("expected operator suggestions, got %+v", got)
	}
	texts := insertTexts(got)
	if !texts["id"] || !texts["name"] || !texts["age"] {
		t.Fatalf("expected unqualified columns for a single-relation scope, got %+v", got)
	}
}

func TestSuggestAfterWhereQualifiesColumnsWithMultipleRelationsInScope(t *testing.T) {
	got := Suggest("SELECT * FROM users u JOIN orders o ON u.id = o.id WHERE ", testDB())
	texts := insertTexts(got)
	if !texts["u.id"] || !texts["o.total"] {
		t.Fatalf("expected alias-qualified columns with two relations in scope, got %+v", got)
	}
}

func TestSuggestAtStatementStartOffersSelectKeyword(t *testing.T) {
	got := Suggest("", testDB())
	texts := insertTexts(got)
	if !texts["SELECT"] {
		t.Fatalf("expected SELECT keyword suggestion, got %+v", got)
	}
}

func TestSuggestNilSchemaSkipsTableAndColumnSuggestions(t *testing.T) {
	got := Suggest("SELECT * FROM ", nil)
	for _, s := range got {
		if s.Kind == KindTable || s.Kind == KindColumn {
			t.Fatalf("did not expect table/column suggestions with a nil schema, got %+v", got)
		}
	}
}
