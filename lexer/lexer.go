// Package lexer tokenizes the restricted SELECT dialect described in
// SPEC_FULL.md §4.1: case-insensitive keywords, ASCII identifiers, decimal
// number literals, single- or double-quoted strings taken verbatim, and the
// comparison/punctuation operators the grammar needs.
package lexer

import (
	"sync"

	"github.com/freeeve/qalgebra/internal/ambient"
	"github.com/freeeve/qalgebra/token"
)

// Lexer tokenizes input one item at a time.
type Lexer struct {
	input   string
	start   int // start offset of the token currently being scanned
	pos     int // current scan offset
	line    int // current line, 1-indexed
	linePos int // offset where the current line started
	item    token.Item
	peeked  bool
	errs    []Error
}

// Error is a lexical error: an unrecognized character at a given position.
type Error struct {
	Message string
	Pos     token.Pos
}

func (e Error) Error() string { return e.Message }

var lexerPool = sync.Pool{
	New: func() any { return &Lexer{} },
}

// New creates a Lexer over input.
func New(input string) *Lexer {
	l := &Lexer{}
	l.Reset(input)
	return l
}

// Get returns a pooled Lexer reset to scan input. Pairs with Put. Pooling
// here is a construction-time allocation optimization only — it has no
// bearing on the immutability of any AST or algebra tree produced from the
// tokens (see SPEC_FULL.md §5).
func Get(input string) *Lexer {
	l := lexerPool.Get().(*Lexer)
	l.Reset(input)
	return l
}

// Put returns l to the pool. Callers must not use l afterward.
func Put(l *Lexer) { lexerPool.Put(l) }

// Reset rewinds l to scan a new input string.
func (l *Lexer) Reset(input string) {
	l.input = input
	l.start = 0
	l.pos = 0
	l.line = 1
	l.linePos = 0
	l.item = token.Item{}
	l.peeked = false
	l.errs = l.errs[:0]
}

// Errors returns every lexical error accumulated so far.
func (l *Lexer) Errors() []Error { return l.errs }

// Next consumes and returns the next token, EOF at end of input.
func (l *Lexer) Next() token.Item {
	if l.peeked {
		l.peeked = false
		return l.item
	}
	l.item = l.scan()
	return l.item
}

// Peek returns the next token without consuming it.
func (l *Lexer) Peek() token.Item {
	if !l.peeked {
		l.item = l.scan()
		l.peeked = true
	}
	return l.item
}

func (l *Lexer) pos0() token.Pos {
	return token.Pos{Offset: l.start, Line: l.line, Column: l.start - l.linePos + 1}
}

func (l *Lexer) makeItem(typ token.Token, val string) token.Item {
	return token.Item{Type: typ, Value: val, Pos: l.pos0()}
}

func (l *Lexer) skipWhitespace() {
	for l.pos < len(l.input) {
		c := l.input[l.pos]
		switch c {
		case ' ', '\t', '\r':
			l.pos++
		case '\n':
			l.pos++
			l.line++
			l.linePos = l.pos
		default:
			return
		}
	}
}

func (l *Lexer) scan() token.Item {
	l.skipWhitespace()
	l.start = l.pos
	if l.pos >= len(l.input) {
		return l.makeItem(token.EOF, "")
	}

	c := l.input[l.pos]
	switch {
	case isIdentStart(c):
		return l.scanIdentifier()
	case isDigit(c):
		return l.scanNumber()
	case c == '\'' || c == '"':
		return l.scanString(c)
	}

	switch c {
	case '*':
		l.pos++
		return l.makeItem(token.STAR, "*")
	case ',':
		l.pos++
		return l.makeItem(token.COMMA, ",")
	case '.':
		l.pos++
		return l.makeItem(token.DOT, ".")
	case '(':
		l.pos++
		return l.makeItem(token.LPAREN, "(")
	case ')':
		l.pos++
		return l.makeItem(token.RPAREN, ")")
	case ';':
		l.pos++
		return l.makeItem(token.SEMICOLON, ";")
	case '=':
		l.pos++
		return l.makeItem(token.EQ, "=")
	case '!':
		if l.peekByte(1) == '=' {
			l.pos += 2
			return l.makeItem(token.NEQ, "!=")
		}
		return l.illegal(c)
	case '<':
		switch l.peekByte(1) {
		case '=':
			l.pos += 2
			return l.makeItem(token.LE, "<=")
		case '>':
			l.pos += 2
			return l.makeItem(token.NEQ, "<>")
		}
		l.pos++
		return l.makeItem(token.LT, "<")
	case '>':
		if l.peekByte(1) == '=' {
			l.pos += 2
			return l.makeItem(token.GE, ">=")
		}
		l.pos++
		return l.makeItem(token.GT, ">")
	}
	return l.illegal(c)
}

// illegal records a lexical error and resynchronizes by skipping one byte,
// per SPEC_FULL.md §4.1.
func (l *Lexer) illegal(c byte) token.Item {
	pos := l.pos0()
	l.errs = append(l.errs, Error{
		Message: ambient.Newf(ambient.StageLex, "unexpected character %s", string(c)).Error(),
		Pos:     pos,
	})
	l.pos++
	return token.Item{Type: token.ILLEGAL, Value: string(c), Pos: pos}
}

func (l *Lexer) peekByte(offset int) byte {
	if l.pos+offset >= len(l.input) {
		return 0
	}
	return l.input[l.pos+offset]
}

func (l *Lexer) scanIdentifier() token.Item {
	for l.pos < len(l.input) && isIdentChar(l.input[l.pos]) {
		l.pos++
	}
	val := l.input[l.start:l.pos]
	return l.makeItem(token.LookupIdent(val), val)
}

func (l *Lexer) scanNumber() token.Item {
	for l.pos < len(l.input) && isDigit(l.input[l.pos]) {
		l.pos++
	}
	if l.pos < len(l.input) && l.input[l.pos] == '.' && l.pos+1 < len(l.input) && isDigit(l.input[l.pos+1]) {
		l.pos++
		for l.pos < len(l.input) && isDigit(l.input[l.pos]) {
			l.pos++
		}
	}
	return l.makeItem(token.NUMBER, l.input[l.start:l.pos])
}

// scanString consumes a single- or double-quoted literal. The quote
// character is stripped; the content between the quotes is returned
// verbatim, with no escape-sequence interpretation (SPEC_FULL.md §6 is
// explicit that this differs from the teacher's scanString, which
// interprets backslash escapes and doubled quotes).
func (l *Lexer) scanString(quote byte) token.Item {
	l.pos++ // consume opening quote
	contentStart := l.pos
	for l.pos < len(l.input) && l.input[l.pos] != quote {
		if l.input[l.pos] == '\n' {
			l.line++
			l.linePos = l.pos + 1
		}
		l.pos++
	}
	val := l.input[contentStart:l.pos]
	if l.pos < len(l.input) {
		l.pos++ // consume closing quote
	} else {
		l.errs = append(l.errs, Error{
			Message: ambient.Newf(ambient.StageLex, "unterminated string literal").Error(),
			Pos:     l.pos0(),
		})
	}
	return l.makeItem(token.STRING, val)
}

func isIdentStart(c byte) bool {
	return c == '_' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isIdentChar(c byte) bool {
	return isIdentStart(c) || isDigit(c)
}

func isDigit(c byte) bool { return c >= '0' && c <= '9' }
