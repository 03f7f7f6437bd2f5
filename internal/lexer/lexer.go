// Package lexer implements the Language's single-pass tokenizer
// (spec.md §4.1).
package lexer

import (
	"github.com/kvlang/keyva/internal/diag"
	"github.com/kvlang/keyva/internal/token"
)

// Lexer scans an entire source buffer into a flat token stream. It is
// line-agnostic: the whole program is one buffer, matching the
// reference's file-mode single `tokenize_line` call over a concatenated
// buffer (main.c's main()).
type Lexer struct {
	src    string
	pos    int // index of the next unread byte
	line   int
	column int
}

// New returns a Lexer positioned at the start of src.
func New(src string) *Lexer {
	return &Lexer{src: src, line: 1, column: 1}
}

func (l *Lexer) peek() byte {
	if l.pos >= len(l.src) {
		return 0
	}
	return l.src[l.pos]
}

func (l *Lexer) advance() byte {
	b := l.src[l.pos]
	l.pos++
	if b == '\n' {
		l.line++
		l.column = 1
	} else {
		l.column++
	}
	return b
}

func (l *Lexer) atEnd() bool {
	return l.pos >= len(l.src)
}

func isLetter(b byte) bool {
	return b == '_' || (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z')
}

func isDigit(b byte) bool {
	return b >= '0' && b <= '9'
}

func isIdentChar(b byte) bool {
	return isLetter(b) || isDigit(b)
}

func isOperatorChar(b byte) bool {
	switch b {
	case '+', '-', '*', '/', '=', '<', '>', '!':
		return true
	}
	return false
}

var recognizedOperators = map[string]bool{
	"+": true, "-": true, "*": true, "/": true,
	"=": true, "<": true, ">": true,
	"<=": true, ">=": true, "==": true, "!=": true,
}

// Lex scans the entire buffer and returns its token stream, terminated by
// an EOF token. The returned diagnostics are lexical errors encountered
// along the way; scanning continues past an error by skipping the
// offending character/run so later tokens can still be reported.
func Lex(src string) ([]token.Token, []*diag.Diagnostic) {
	l := New(src)
	var tokens []token.Token
	var diags []*diag.Diagnostic

	for {
		l.skipWhitespace()
		if l.atEnd() {
			tokens = append(tokens, token.NewAt(token.EOF, "", l.line, l.column))
			break
		}

		line, col := l.line, l.column
		b := l.peek()

		switch {
		case b == '#':
			l.skipLineComment()
			continue

		case b == '"' || b == '\'':
			lit, err := l.scanString(b)
			if err != nil {
				diags = append(diags, err)
				continue
			}
			tokens = append(tokens, token.NewAt(token.STRING, lit, line, col))

		case isDigit(b):
			lit := l.scanNumber()
			tokens = append(tokens, token.NewAt(token.NUMBER, lit, line, col))

		case isLetter(b):
			lit := l.scanIdent()
			kind := token.IDENT
			if token.IsKeyword(lit) {
				kind = token.KEYWORD
			}
			tokens = append(tokens, token.NewAt(kind, lit, line, col))

		case isOperatorChar(b):
			lit := l.scanOperator()
			if !recognizedOperators[lit] {
				diags = append(diags, diag.Lexf("unknown operator %q", lit))
				continue
			}
			tokens = append(tokens, token.NewAt(token.OPERATOR, lit, line, col))

		case b == '(' || b == ')' || b == ',' || b == '[' || b == ']':
			l.advance()
			tokens = append(tokens, token.NewAt(token.DELIMITER, string(b), line, col))

		default:
			l.advance()
			diags = append(diags, diag.Lexf("unknown character %q", string(b)))
		}
	}

	return tokens, diags
}

func (l *Lexer) skipWhitespace() {
	for !l.atEnd() {
		switch l.peek() {
		case ' ', '\t', '\r', '\n':
			l.advance()
		default:
			return
		}
	}
}

// skipLineComment drops everything from '#' up to the next newline (not
// consuming the newline itself), matching spec.md §4.1 rule 2's "runs to
// the newline" wording rather than the reference's whole-buffer quirk
// (see DESIGN.md Open Question 4).
func (l *Lexer) skipLineComment() {
	for !l.atEnd() && l.peek() != '\n' {
		l.advance()
	}
}

func (l *Lexer) scanString(quote byte) (string, *diag.Diagnostic) {
	l.advance() // opening quote
	start := l.pos
	for {
		if l.atEnd() {
			return "", diag.Lexf("unterminated string literal")
		}
		if l.peek() == quote {
			lit := l.src[start:l.pos]
			l.advance() // closing quote
			return lit, nil
		}
		l.advance()
	}
}

func (l *Lexer) scanNumber() string {
	start := l.pos
	for !l.atEnd() && isDigit(l.peek()) {
		l.advance()
	}
	return l.src[start:l.pos]
}

func (l *Lexer) scanIdent() string {
	start := l.pos
	for !l.atEnd() && isIdentChar(l.peek()) {
		l.advance()
	}
	return l.src[start:l.pos]
}

// scanOperator consumes a maximal run of operator characters, per
// spec.md §4.1 rule 6, then lets the caller validate it against the
// recognized set.
func (l *Lexer) scanOperator() string {
	start := l.pos
	for !l.atEnd() && isOperatorChar(l.peek()) {
		l.advance()
	}
	return l.src[start:l.pos]
}
