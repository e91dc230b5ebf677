// Package autocomplete implements the suggestion provider of SPEC_FULL.md
// §4.12: a pure function from (partial_text, schema) to a ranked list of
// completions. Context is recovered two ways — a best-effort parse of the
// prefix when it happens to be a complete, valid statement, and a fallback
// token scan plus regex anchoring for the incomplete prefixes autocomplete
// actually runs against. Grounded on the keyword/identifier vocabulary of
// token/keywords.go; has no direct teacher analogue (machparse has no
// interactive-completion surface).
package autocomplete

import (
	"regexp"
	"strings"

	"github.com/freeeve/qalgebra/ast"
	"github.com/freeeve/qalgebra/lexer"
	"github.com/freeeve/qalgebra/parser"
	"github.com/freeeve/qalgebra/schema"
	"github.com/freeeve/qalgebra/token"
)

// Kind distinguishes what a Suggestion completes to.
type Kind string

const (
	KindKeyword  Kind = "keyword"
	KindTable    Kind = "table"
	KindColumn   Kind = "column"
	KindOperator Kind = "operator"
)

// Suggestion is one completion candidate.
type Suggestion struct {
	Kind       Kind
	InsertText string
	Detail     string
	// Rank orders the result list; lower sorts first. Context-appropriate
	// suggestions (tables right after FROM/JOIN, columns in SELECT/WHERE)
	// get the lowest ranks.
	Rank int
}

// keywordCatalog is the static set of reserved words, derived once from
// the token package's keyword enum rather than hand-duplicated.
var keywordCatalog = []string{
	token.SELECT.String(), token.FROM.String(), token.WHERE.String(),
	token.AND.String(), token.OR.String(), token.AS.String(),
	token.JOIN.String(), token.INNER.String(), token.CROSS.String(), token.ON.String(),
}

var operatorCatalog = []string{"=", "!=", "<>", "<", "<=", ">", ">="}

var (
	wordRe        = regexp.MustCompile(`[A-Za-z_][A-Za-z0-9_]*$`)
	afterSelectRe = regexp.MustCompile(`(?i)\bSELECT\s+(?:[A-Za-z_][A-Za-z0-9_]*)?$`)
	afterFromRe   = regexp.MustCompile(`(?i)\bFROM\s+(?:[A-Za-z_][A-Za-z0-9_]*)?$`)
	afterJoinRe   = regexp.MustCompile(`(?i)\bJOIN\s+(?:[A-Za-z_][A-Za-z0-9_]*)?$`)
	afterWhereRe  = regexp.MustCompile(`(?i)\bWHERE\s+(?:[A-Za-z_][A-Za-z0-9_]*)?$`)
)

// Suggest returns the ranked completion list for partial, a prefix of a
// SELECT statement, against db (nil is accepted: table/column suggestions
// are simply omitted).
func Suggest(partial string, db *schema.Database) []Suggestion {
	prefixWord := wordRe.FindString(partial)

	var out []Suggestion
	for _, kw := range keywordCatalog {
		if hasPrefixFold(kw, prefixWord) {
			out = append(out, Suggestion{Kind: KindKeyword, InsertText: kw, Detail: "keyword", Rank: 1})
		}
	}

	switch {
	case afterFromRe.MatchString(partial), afterJoinRe.MatchString(partial):
		out = append(out, tableSuggestions(db, prefixWord)...)
	case afterSelectRe.MatchString(partial):
		out = append(out, columnSuggestions(db, recoverScope(partial), prefixWord)...)
	case afterWhereRe.MatchString(partial):
		out = append(out, columnSuggestions(db, recoverScope(partial), prefixWord)...)
		for _, op := range operatorCatalog {
			out = append(out, Suggestion{Kind: KindOperator, InsertText: op, Detail: "comparison operator", Rank: 2})
		}
	}

	return out
}

func hasPrefixFold(s, prefix string) bool {
	if prefix == "" {
		return true
	}
	return strings.HasPrefix(strings.ToLower(s), strings.ToLower(prefix))
}

func tableSuggestions(db *schema.Database, prefixWord string) []Suggestion {
	if db == nil {
		return nil
	}
	var out []Suggestion
	for _, t := range db.Tables() {
		if hasPrefixFold(t.Name, prefixWord) {
			out = append(out, Suggestion{Kind: KindTable, InsertText: t.Name, Detail: "table", Rank: 0})
		}
	}
	return out
}

func columnSuggestions(db *schema.Database, scope map[string]string, prefixWord string) []Suggestion {
	if db == nil || len(scope) == 0 {
		return nil
	}
	qualify := len(scope) > 1
	var out []Suggestion
	// Deterministic order: the order aliases were declared in is not
	// recoverable from a map, so iterate the in-scope aliases sorted by name.
	for _, alias := range sortedKeys(scope) {
		tableName := scope[alias]
		tbl, ok := db.Table(tableName)
		if !ok {
			continue
		}
		for _, col := range tbl.Columns() {
			insert := col.Name
			if qualify {
				insert = alias + "." + col.Name
			}
			if hasPrefixFold(insert, prefixWord) {
				out = append(out, Suggestion{
					Kind:       KindColumn,
					InsertText: insert,
					Detail:     tbl.Name + "." + col.Name + " " + col.Type.String(),
					Rank:       0,
				})
			}
		}
	}
	return out
}

func sortedKeys(m map[string]string) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	for i := 1; i < len(out); i++ {
		for j := i; j > 0 && out[j-1] > out[j]; j-- {
			out[j-1], out[j] = out[j], out[j-1]
		}
	}
	return out
}

// recoverScope builds the alias/table-name → canonical table name map for
// partial, per SPEC_FULL.md §4.12: first by attempting a full parse (the
// prefix may already be a complete, valid statement), falling back to a
// best-effort token scan for the FROM/JOIN table references when it isn't.
func recoverScope(partial string) map[string]string {
	if stmt, errs := parser.Parse(partial); len(errs) == 0 {
		return scopeFromStatement(stmt)
	}
	return scopeFromTokens(partial)
}

func scopeFromStatement(stmt *ast.SelectStatement) map[string]string {
	out := map[string]string{}
	if stmt == nil || stmt.From == nil {
		return out
	}
	addSourceToScope(out, stmt.From.Source, stmt.From.Alias)
	for _, j := range stmt.Joins {
		addSourceToScope(out, j.Source, j.Alias)
	}
	return out
}

func addSourceToScope(scope map[string]string, src ast.TableSource, alias string) {
	tn, ok := src.(*ast.TableName)
	if !ok {
		return // subquery sources have no table to suggest columns from
	}
	key := alias
	if key == "" {
		key = tn.Name
	}
	scope[strings.ToLower(key)] = tn.Name
}

// scopeFromTokens lexes partial and scans for `FROM ident [[AS] alias]` and
// `JOIN ident [[AS] alias]` patterns, tolerating the trailing incompleteness
// a full parse would reject.
func scopeFromTokens(partial string) map[string]string {
	out := map[string]string{}
	lx := lexer.New(partial)
	var items []token.Item
	for {
		it := lx.Next()
		if it.Type == token.EOF {
			break
		}
		items = append(items, it)
	}
	for i := 0; i < len(items); i++ {
		if items[i].Type != token.FROM && items[i].Type != token.JOIN {
			continue
		}
		idx := i + 1
		if idx >= len(items) || items[idx].Type != token.IDENTIFIER {
			continue
		}
		tableName := items[idx].Value
		idx++
		alias := ""
		if idx < len(items) && items[idx].Type == token.AS && idx+1 < len(items) && items[idx+1].Type == token.IDENTIFIER {
			alias = items[idx+1].Value
		} else if idx < len(items) && items[idx].Type == token.IDENTIFIER {
			alias = items[idx].Value
		}
		key := alias
		if key == "" {
			key = tableName
		}
		out[strings.ToLower(key)] = tableName
	}
	return out
}
