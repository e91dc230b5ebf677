// Package qalgebra is the top-level facade of SPEC_FULL.md §6: it wires
// the lexer, parser, validator, translator, rewrite, render, and
// autocomplete packages into the six library entry points the spec
// names, and assembles the ParseResult sum type of §3.5/§4.11.
//
// Grounded on the teacher's sqlparser.go, which exposes the same kind of
// package-level Parse/String convenience wrapper over its own pooled
// parser/format packages; this facade plays the identical role one layer
// up, composing this module's own sub-packages rather than re-exporting
// a single one of them.
package qalgebra

import (
	"github.com/freeeve/qalgebra/algebra"
	"github.com/freeeve/qalgebra/ast"
	"github.com/freeeve/qalgebra/autocomplete"
	"github.com/freeeve/qalgebra/lexer"
	"github.com/freeeve/qalgebra/parser"
	"github.com/freeeve/qalgebra/render"
	"github.com/freeeve/qalgebra/rewrite"
	"github.com/freeeve/qalgebra/schema"
	"github.com/freeeve/qalgebra/token"
	"github.com/freeeve/qalgebra/translator"
	"github.com/freeeve/qalgebra/validator"
)

// Stage names a pipeline step that produced a Failure, per §4.11.
const (
	StageLexer     = "lexer"
	StageParser    = "parser"
	StageTranslate = "translate"
)

// Optimization is the { optimized, appliedRules } pair of §3.5.
type Optimization struct {
	Optimized    algebra.Node
	AppliedRules []string
}

// ParseResult is the sum type of §3.5: exactly one of Success or Failure
// is populated, distinguished by Ok.
type ParseResult struct {
	Ok bool

	// Success fields.
	AST                *ast.SelectStatement
	Translation        algebra.Node
	TranslationString  string
	Optimization       Optimization
	OptimizationString string

	// Failure fields.
	Stage   string
	Message string
	Details []string
}

func failure(stage, message string, details []string) ParseResult {
	return ParseResult{Ok: false, Stage: stage, Message: message, Details: details}
}

// Parse runs the full pipeline of §4.11 over sql: lex, then parse, then
// translate to algebra, then optimize with the default heuristic
// pipeline. A lex or parse failure short-circuits before translation is
// attempted; a statement that does not translate (only SELECT does)
// short-circuits before optimization.
func Parse(sql string) ParseResult {
	return parseWithHeuristics(sql, rewrite.DefaultPipeline)
}

// ParseWithHeuristics is Parse, but runs only the named subset of
// heuristics during optimization (§6: "optimize(tree, heuristics) allows
// callers to select rule subsets"). An empty slice yields identity
// optimization.
func ParseWithHeuristics(sql string, heuristics []rewrite.Heuristic) ParseResult {
	return parseWithHeuristics(sql, heuristics)
}

func parseWithHeuristics(sql string, heuristics []rewrite.Heuristic) ParseResult {
	if lexErrs := lexErrors(sql); len(lexErrs) != 0 {
		return failure(StageLexer, "lexical analysis failed", lexErrs)
	}

	stmt, parseErrs := parser.Parse(sql)
	if len(parseErrs) != 0 {
		details := make([]string, len(parseErrs))
		for i, e := range parseErrs {
			details[i] = e.Error()
		}
		return failure(StageParser, "syntax error", details)
	}

	tree, err := translator.Translate(stmt)
	if err != nil {
		return failure(StageTranslate, "Translation not supported", []string{err.Error()})
	}

	result := rewrite.Optimize(tree, heuristics)

	return ParseResult{
		Ok:                true,
		AST:               stmt,
		Translation:       tree,
		TranslationString: render.Algebra(tree),
		Optimization: Optimization{
			Optimized:    result.Optimized,
			AppliedRules: result.AppliedRules,
		},
		OptimizationString: render.Algebra(result.Optimized),
	}
}

// lexErrors runs the lexer alone to completion and reports any errors it
// accumulated, without invoking the parser. This is what lets Parse
// distinguish a §4.1 "lexer" failure from a §4.2 "parser" failure even
// though Parser.Parse folds lexer errors into its own error list for
// convenience.
func lexErrors(sql string) []string {
	l := lexer.New(sql)
	for {
		if l.Next().Type == token.EOF {
			break
		}
	}
	errs := l.Errors()
	if len(errs) == 0 {
		return nil
	}
	out := make([]string, len(errs))
	for i, e := range errs {
		out[i] = e.Error()
	}
	return out
}

// Validate runs lex + parse + schema validation, per §6. It returns the
// validation errors first and the lexer or parser error messages second;
// when lexing or parsing fails, validation is not run and the first result
// is nil.
func Validate(sql string, db *schema.Database) ([]*validator.Error, []string) {
	if lexErrs := lexErrors(sql); len(lexErrs) != 0 {
		return nil, lexErrs
	}
	stmt, parseErrs := parser.Parse(sql)
	if len(parseErrs) != 0 {
		details := make([]string, len(parseErrs))
		for i, e := range parseErrs {
			details[i] = e.Error()
		}
		return nil, details
	}
	return validator.Validate(stmt, db), nil
}

// Optimize exposes the rewrite engine directly for callers that already
// hold an algebra tree (e.g. from a prior Parse call) and want to
// re-optimize under a different heuristic set.
func Optimize(tree algebra.Node, heuristics []rewrite.Heuristic) Optimization {
	result := rewrite.Optimize(tree, heuristics)
	return Optimization{Optimized: result.Optimized, AppliedRules: result.AppliedRules}
}

// RenderAlgebra renders tree in standard relational-algebra notation.
func RenderAlgebra(tree algebra.Node) string {
	return render.Algebra(tree)
}

// RenderGraph renders tree as the node/edge/rootId graph description of
// §4.10.
func RenderGraph(tree algebra.Node) *render.Graph {
	return render.BuildGraph(tree)
}

// Autocomplete returns context-aware suggestions for partial, per §4.12.
func Autocomplete(partial string, db *schema.Database) []autocomplete.Suggestion {
	return autocomplete.Suggest(partial, db)
}
