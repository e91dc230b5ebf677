// Package parser implements the recursive-descent grammar of SPEC_FULL.md
// §4.2: a single SELECT production with column lists, table/subquery
// sources with aliases, INNER/CROSS JOIN chains, and a boolean WHERE
// expression parsed with explicit OR/AND/comparison precedence levels.
//
// Unlike the teacher's parser/expression.go, which climbs a general
// operator-precedence table to cover a much larger SQL grammar, this
// package's expression parser is three small mutually recursive functions
// matching the BNF directly — this grammar has no arithmetic operators to
// justify a generic climber.
package parser

import (
	"strconv"
	"sync"

	"github.com/freeeve/qalgebra/ast"
	"github.com/freeeve/qalgebra/internal/ambient"
	"github.com/freeeve/qalgebra/lexer"
	"github.com/freeeve/qalgebra/token"
)

// ParseError is a single syntax error with its source position.
type ParseError struct {
	Pos     token.Pos
	Message string
}

func (e ParseError) Error() string {
	return e.Pos.String() + ": " + e.Message
}

// Parser consumes a token stream and builds a *ast.SelectStatement.
type Parser struct {
	lex    *lexer.Lexer
	cur    token.Item
	errs   []ParseError
}

var parserPool = sync.Pool{
	New: func() any { return &Parser{} },
}

// New creates a Parser over src and primes the first token.
func New(src string) *Parser {
	p := &Parser{lex: lexer.New(src)}
	p.advance()
	return p
}

// Get returns a pooled Parser reset to parse src. Pairs with Put. Mirrors
// the teacher's parser.Get/Put pool; see SPEC_FULL.md §5 on why this
// pooling stops at the Parser/Lexer value and never reaches into AST nodes.
func Get(src string) *Parser {
	p := parserPool.Get().(*Parser)
	p.lex = lexer.Get(src)
	p.cur = token.Item{}
	p.errs = p.errs[:0]
	p.advance()
	return p
}

// Put returns the Parser (and its Lexer) to their pools.
func Put(p *Parser) {
	lexer.Put(p.lex)
	p.lex = nil
	parserPool.Put(p)
}

// Errors returns every syntax error accumulated during Parse.
func (p *Parser) Errors() []ParseError { return p.errs }

func (p *Parser) advance() { p.cur = p.lex.Next() }

func (p *Parser) curIs(t token.Token) bool { return p.cur.Type == t }

func (p *Parser) errorf(format string, args ...any) {
	p.errs = append(p.errs, ParseError{
		Pos:     p.cur.Pos,
		Message: ambient.Newf(ambient.StageParse, format, args...).Error(),
	})
}

// expect asserts the current token is t, consumes it, and reports an error
// otherwise. Returns the consumed item and whether it matched.
func (p *Parser) expect(t token.Token) (token.Item, bool) {
	if !p.curIs(t) {
		p.errorf("expected %s, got %s %q", t, p.cur.Type, p.cur.Value)
		return token.Item{}, false
	}
	it := p.cur
	p.advance()
	return it, true
}

// Parse runs the full SELECT grammar over the Parser's token stream. The
// lexer's own errors (if any) are folded in as parse errors so a single
// failure stage check suffices downstream (the pipeline facade still
// reports "lexer" as the failing stage when only lexer errors exist — see
// cmd/qalgebra and qalgebra.go).
func (p *Parser) Parse() (*ast.SelectStatement, []ParseError) {
	stmt := p.parseSelect()
	for _, le := range p.lex.Errors() {
		p.errs = append(p.errs, ParseError{Pos: le.Pos, Message: le.Message})
	}
	if !p.curIs(token.EOF) {
		if p.curIs(token.SEMICOLON) {
			p.advance()
		}
	}
	return stmt, p.errs
}

func (p *Parser) parseSelect() *ast.SelectStatement {
	start, ok := p.expect(token.SELECT)
	if !ok {
		return nil
	}
	stmt := &ast.SelectStatement{StartPos: start.Pos}

	stmt.Columns = p.parseColumnList()

	if _, ok := p.expect(token.FROM); !ok {
		stmt.EndPos = p.cur.Pos
		return stmt
	}

	stmt.From = p.parseFromClause()

	for p.curIs(token.JOIN) || p.curIs(token.INNER) || p.curIs(token.CROSS) {
		stmt.Joins = append(stmt.Joins, p.parseJoin())
	}

	if p.curIs(token.WHERE) {
		p.advance()
		stmt.Where = p.parseOrExpr()
	}

	stmt.EndPos = p.cur.Pos
	return stmt
}

func (p *Parser) parseColumnList() []ast.Column {
	if p.curIs(token.STAR) {
		pos := p.cur.Pos
		p.advance()
		return []ast.Column{&ast.StarColumn{StartPos: pos}}
	}

	var cols []ast.Column
	cols = append(cols, p.parseColumnRef())
	for p.curIs(token.COMMA) {
		p.advance()
		cols = append(cols, p.parseColumnRef())
	}
	return cols
}

func (p *Parser) parseColumnRef() ast.Column {
	start := p.cur.Pos
	name, ok := p.expect(token.IDENTIFIER)
	if !ok {
		return &ast.NamedColumn{StartPos: start, EndPos: p.cur.Pos, Name: ""}
	}
	full := name.Value
	if p.curIs(token.DOT) {
		p.advance()
		second, ok := p.expect(token.IDENTIFIER)
		if ok {
			full = full + "." + second.Value
		}
	}
	return &ast.NamedColumn{StartPos: start, EndPos: p.cur.Pos, Name: full}
}

func (p *Parser) parseFromClause() *ast.FromClause {
	start := p.cur.Pos
	source := p.parseTableRef()
	alias := p.parseOptionalAlias()
	return &ast.FromClause{StartPos: start, EndPos: p.cur.Pos, Source: source, Alias: alias}
}

func (p *Parser) parseTableRef() ast.TableSource {
	start := p.cur.Pos
	switch {
	case p.curIs(token.IDENTIFIER):
		it := p.cur
		p.advance()
		return &ast.TableName{StartPos: start, EndPos: p.cur.Pos, Name: it.Value}
	case p.curIs(token.STRING):
		it := p.cur
		p.advance()
		return &ast.TableName{StartPos: start, EndPos: p.cur.Pos, Name: it.Value}
	case p.curIs(token.LPAREN):
		p.advance()
		inner := p.parseSelect()
		p.expect(token.RPAREN)
		return &ast.SubquerySource{StartPos: start, EndPos: p.cur.Pos, Select: inner}
	default:
		p.errorf("expected table name, string literal, or subquery, got %s %q", p.cur.Type, p.cur.Value)
		p.advance()
		return &ast.TableName{StartPos: start, EndPos: p.cur.Pos, Name: ""}
	}
}

// parseOptionalAlias implements `alias ::= AS IDENT | IDENT`. A bare
// identifier is only consumed as an alias when it cannot start another
// clause — since this grammar's only clause-leading keywords (JOIN, INNER,
// CROSS, WHERE) are reserved words, any IDENTIFIER token here is
// unambiguously an alias.
func (p *Parser) parseOptionalAlias() string {
	if p.curIs(token.AS) {
		p.advance()
		it, _ := p.expect(token.IDENTIFIER)
		return it.Value
	}
	if p.curIs(token.IDENTIFIER) {
		it := p.cur
		p.advance()
		return it.Value
	}
	return ""
}

func (p *Parser) parseJoin() *ast.JoinClause {
	start := p.cur.Pos
	joinType := ast.InnerJoin
	if p.curIs(token.CROSS) {
		joinType = ast.CrossJoin
		p.advance()
	} else if p.curIs(token.INNER) {
		p.advance()
	}
	p.expect(token.JOIN)

	source := p.parseTableRef()
	alias := p.parseOptionalAlias()

	jc := &ast.JoinClause{StartPos: start, Type: joinType, Source: source, Alias: alias}

	if joinType == ast.InnerJoin {
		if _, ok := p.expect(token.ON); ok {
			jc.On = p.parseOrExpr()
		}
	}
	jc.EndPos = p.cur.Pos
	return jc
}

// parseOrExpr implements `or_expr ::= and_expr (OR and_expr)*`, left
// associative.
func (p *Parser) parseOrExpr() ast.Expr {
	left := p.parseAndExpr()
	for p.curIs(token.OR) {
		start := left.Pos()
		p.advance()
		right := p.parseAndExpr()
		left = &ast.LogicalExpr{StartPos: start, EndPos: p.cur.Pos, Left: left, Op: ast.LogicalOr, Right: right}
	}
	return left
}

// parseAndExpr implements `and_expr ::= primary_expr (AND primary_expr)*`,
// left associative, binding tighter than OR.
func (p *Parser) parseAndExpr() ast.Expr {
	left := p.parsePrimaryExpr()
	for p.curIs(token.AND) {
		start := left.Pos()
		p.advance()
		right := p.parsePrimaryExpr()
		left = &ast.LogicalExpr{StartPos: start, EndPos: p.cur.Pos, Left: left, Op: ast.LogicalAnd, Right: right}
	}
	return left
}

// parsePrimaryExpr implements `primary_expr ::= LPAREN or_expr RPAREN |
// cmp_expr`.
func (p *Parser) parsePrimaryExpr() ast.Expr {
	if p.curIs(token.LPAREN) {
		p.advance()
		inner := p.parseOrExpr()
		p.expect(token.RPAREN)
		return inner
	}
	return p.parseCmpExpr()
}

// parseCmpExpr implements `cmp_expr ::= operand cmp_op operand`.
func (p *Parser) parseCmpExpr() ast.Expr {
	start := p.cur.Pos
	left := p.parseOperand()
	op, ok := ast.CmpOpFromToken(p.cur.Type)
	if !ok {
		p.errorf("expected comparison operator, got %s %q", p.cur.Type, p.cur.Value)
		return &ast.BinaryExpr{StartPos: start, EndPos: p.cur.Pos, Left: left, Op: ast.CmpEQ, Right: left}
	}
	if p.cur.Type == token.NEQ && p.cur.Value == "<>" {
		op = ast.CmpNEQAngle
	}
	p.advance()
	right := p.parseOperand()
	return &ast.BinaryExpr{StartPos: start, EndPos: p.cur.Pos, Left: left, Op: op, Right: right}
}

// parseOperand implements `operand ::= column_ref | NUMBER | STRING_LITERAL`.
func (p *Parser) parseOperand() ast.Operand {
	start := p.cur.Pos
	switch p.cur.Type {
	case token.IDENTIFIER:
		col := p.parseColumnRef().(*ast.NamedColumn)
		return &ast.ColumnReference{StartPos: col.StartPos, EndPos: col.EndPos, Name: col.Name}
	case token.NUMBER:
		it := p.cur
		p.advance()
		v, _ := strconv.ParseFloat(it.Value, 64)
		return &ast.NumberLiteral{StartPos: start, EndPos: p.cur.Pos, Text: it.Value, Value: v}
	case token.STRING:
		it := p.cur
		p.advance()
		return &ast.StringLiteral{StartPos: start, EndPos: p.cur.Pos, Value: it.Value}
	default:
		p.errorf("expected column reference, number, or string literal, got %s %q", p.cur.Type, p.cur.Value)
		p.advance()
		return &ast.NumberLiteral{StartPos: start, EndPos: p.cur.Pos, Text: "0", Value: 0}
	}
}

// Parse is a convenience wrapper that parses src in one call without
// pooling.
func Parse(src string) (*ast.SelectStatement, []ParseError) {
	return New(src).Parse()
}
