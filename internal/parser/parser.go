// Package parser implements the Language's recursive-descent grammar
// (spec.md §4.2), producing an internal/ast.Block per statement list.
//
// This is a fresh recursive-descent parser, not the teacher's Pratt
// parser: spec.md's grammar names an explicit precedence chain
// (expr -> comparison -> additive -> term -> factor) and a fixed
// statement-dispatch order, both of which a direct recursive-descent
// translation expresses more plainly than a Pratt table would.
package parser

import (
	"fmt"

	"github.com/kvlang/keyva/internal/ast"
	"github.com/kvlang/keyva/internal/lexer"
	"github.com/kvlang/keyva/internal/token"
)

// Parser turns a token stream into statement trees. Errors are collected
// rather than panicked, matching the teacher's Parser.Errors convention
// (parser/parser.go).
type Parser struct {
	tokens []token.Token
	pos    int

	Errors []string

	// Funcs is the function table that def statements register into at
	// parse time (spec.md §4.3 "Function definition").
	Funcs *ast.FuncTable

	// MaxFunctions bounds Funcs; 0 means unlimited. Resource errors are
	// appended to Errors using the "resource" taxonomy wording.
	MaxFunctions int
}

// New returns a Parser over src's token stream, registering function
// definitions into funcs (pass ast.NewFuncTable() for a fresh table, or
// share one across a REPL session so earlier definitions stay callable).
func New(src string, funcs *ast.FuncTable) *Parser {
	toks, lexDiags := lexer.Lex(src)
	p := &Parser{tokens: toks, Funcs: funcs}
	for _, d := range lexDiags {
		p.Errors = append(p.Errors, d.Message)
	}
	return p
}

// HasErrors reports whether any parse or lex error was recorded.
func (p *Parser) HasErrors() bool {
	return len(p.Errors) > 0
}

func (p *Parser) cur() token.Token {
	if p.pos >= len(p.tokens) {
		return p.tokens[len(p.tokens)-1] // EOF
	}
	return p.tokens[p.pos]
}

func (p *Parser) peekAt(offset int) token.Token {
	i := p.pos + offset
	if i >= len(p.tokens) {
		return p.tokens[len(p.tokens)-1]
	}
	return p.tokens[i]
}

func (p *Parser) advance() token.Token {
	t := p.cur()
	if p.pos < len(p.tokens)-1 {
		p.pos++
	}
	return t
}

func (p *Parser) atEOF() bool {
	return p.cur().Kind == token.EOF
}

func (p *Parser) isKeyword(lit string) bool {
	t := p.cur()
	return t.Kind == token.KEYWORD && t.Literal == lit
}

func (p *Parser) errorf(format string, args ...any) {
	p.Errors = append(p.Errors, fmt.Sprintf(format, args...))
}

// expectOperator consumes the current token if it is the operator op,
// else records an error and returns false.
func (p *Parser) expectOperator(op string) bool {
	if p.cur().Kind == token.OPERATOR && p.cur().Literal == op {
		p.advance()
		return true
	}
	p.errorf("Expected %q but found %s", op, p.cur())
	return false
}

func (p *Parser) expectDelimiter(d string) bool {
	if p.cur().Kind == token.DELIMITER && p.cur().Literal == d {
		p.advance()
		return true
	}
	p.errorf("Expected %q after expression but found %s", d, p.cur())
	return false
}

func (p *Parser) expectKeyword(kw string) bool {
	if p.isKeyword(kw) {
		p.advance()
		return true
	}
	p.errorf("Expected keyword %q but found %s", kw, p.cur())
	return false
}

// ParseProgram parses the entire token stream as a sequence of top-level
// statements, matching `program := statement*`.
func (p *Parser) ParseProgram() ast.Block {
	var stmts ast.Block
	for !p.atEOF() {
		startPos := p.pos
		stmt := p.parseStatement()
		if stmt != nil {
			stmts = append(stmts, stmt)
		}
		if p.pos == startPos {
			// Safety net: parseStatement must always advance on error.
			p.advance()
		}
	}
	return stmts
}

// parseBlock parses statements until `else` or `end` (not consumed), per
// spec.md §4.2's block termination rule.
func (p *Parser) parseBlock() ast.Block {
	var stmts ast.Block
	for !p.atEOF() && !p.isKeyword(token.ELSE) && !p.isKeyword(token.END) {
		startPos := p.pos
		stmt := p.parseStatement()
		if stmt != nil {
			stmts = append(stmts, stmt)
		}
		if p.pos == startPos {
			p.advance()
		}
	}
	return stmts
}

// parseStatement dispatches in the mandatory order spec.md §4.2 names:
// for, if, while, def, return, call, print, assignment. On a grammar
// error it records one message, synchronizes to the next statement
// boundary, and returns nil so the caller skips the offending statement
// rather than aborting the whole program (DESIGN.md Open Question 5).
func (p *Parser) parseStatement() ast.Node {
	errsBefore := len(p.Errors)
	var stmt ast.Node

	switch {
	case p.isKeyword(token.FOR):
		stmt = p.parseFor()
	case p.isKeyword(token.IF):
		stmt = p.parseIf()
	case p.isKeyword(token.WHILE):
		stmt = p.parseWhile()
	case p.isKeyword(token.DEF):
		stmt = p.parseDef()
	case p.isKeyword(token.RETURN):
		stmt = p.parseReturn()
	case p.cur().Kind == token.IDENT && p.peekAt(1).Kind == token.DELIMITER && p.peekAt(1).Literal == token.LParen:
		stmt = p.parseCallStatement()
	case p.isKeyword(token.PRINT):
		stmt = p.parsePrint()
	default:
		stmt = p.parseAssignment()
	}

	if len(p.Errors) > errsBefore {
		p.synchronize()
		return nil
	}
	return stmt
}

// synchronize skips tokens until a position that plausibly starts a new
// statement, so one bad statement doesn't poison the rest of the parse.
func (p *Parser) synchronize() {
	if p.pos == 0 {
		p.advance()
		return
	}
	p.advance()
	for !p.atEOF() {
		t := p.cur()
		if t.Kind == token.KEYWORD {
			switch t.Literal {
			case token.FOR, token.IF, token.WHILE, token.DEF, token.RETURN, token.PRINT, token.END, token.ELSE:
				return
			}
		}
		if t.Kind == token.IDENT {
			return
		}
		p.advance()
	}
}

func (p *Parser) parseIf() ast.Node {
	p.advance() // 'if'
	cond := p.parseExpr()
	then := p.parseBlock()
	var elseBlock ast.Block
	if p.isKeyword(token.ELSE) {
		p.advance()
		elseBlock = p.parseBlock()
	}
	p.expectKeyword(token.END)
	return &ast.If{Cond: cond, Then: then, Else: elseBlock}
}

func (p *Parser) parseWhile() ast.Node {
	p.advance() // 'while'
	cond := p.parseExpr()
	body := p.parseBlock()
	p.expectKeyword(token.END)
	return &ast.While{Cond: cond, Body: body}
}

func (p *Parser) parseFor() ast.Node {
	p.advance() // 'for'
	if p.cur().Kind != token.IDENT {
		p.errorf("Expected identifier after 'for' but found %s", p.cur())
		return nil
	}
	loopVar := p.advance().Literal
	p.expectKeyword(token.IN)
	expr := p.parseExpr()
	body := p.parseBlock()
	p.expectKeyword(token.END)
	return &ast.For{LoopVar: loopVar, Expr: expr, Body: body}
}

func (p *Parser) parseDef() ast.Node {
	p.advance() // 'def'
	if p.cur().Kind != token.IDENT {
		p.errorf("Expected function name after 'def' but found %s", p.cur())
		return nil
	}
	name := p.advance().Literal
	if !p.expectDelimiter(token.LParen) {
		return nil
	}
	var params []string
	if !(p.cur().Kind == token.DELIMITER && p.cur().Literal == token.RParen) {
		for {
			if p.cur().Kind != token.IDENT {
				p.errorf("Expected parameter name but found %s", p.cur())
				return nil
			}
			params = append(params, p.advance().Literal)
			if p.cur().Kind == token.DELIMITER && p.cur().Literal == token.Comma {
				p.advance()
				continue
			}
			break
		}
	}
	if !p.expectDelimiter(token.RParen) {
		return nil
	}
	body := p.parseBlock()
	p.expectKeyword(token.END)

	fd := &ast.FunctionDefinition{Name: name, Params: params, Body: body}
	if p.Funcs != nil {
		if err := p.Funcs.Define(fd, p.MaxFunctions); err != nil {
			p.errorf("%s", err.Error())
		}
	}
	return fd
}

func (p *Parser) parseReturn() ast.Node {
	p.advance() // 'return'
	if p.statementEnds() {
		return &ast.Return{Expr: nil}
	}
	expr := p.parseExpr()
	return &ast.Return{Expr: expr}
}

// statementEnds reports whether the parser sits at a position that ends
// a statement without an expression following (end of block, EOF, or the
// start of a new statement keyword) — used by `return` to detect an
// omitted expression.
func (p *Parser) statementEnds() bool {
	if p.atEOF() {
		return true
	}
	t := p.cur()
	if t.Kind == token.KEYWORD {
		switch t.Literal {
		case token.END, token.ELSE, token.FOR, token.IF, token.WHILE, token.DEF, token.RETURN, token.PRINT:
			return true
		}
	}
	return false
}

func (p *Parser) parsePrint() ast.Node {
	p.advance() // 'print'
	if !p.expectDelimiter(token.LParen) {
		return nil
	}
	expr := p.parseExpr()
	if !p.expectDelimiter(token.RParen) {
		return nil
	}
	return &ast.Print{Expr: expr}
}

// parseCallStatement parses IDENT '(' args ')' used as a standalone
// statement (its value is discarded, e.g. calling a function for its
// side effects).
func (p *Parser) parseCallStatement() ast.Node {
	return p.parseCallExpr()
}

func (p *Parser) parseCallExpr() ast.Node {
	name := p.advance().Literal
	p.advance() // '('
	var args []ast.Node
	if !(p.cur().Kind == token.DELIMITER && p.cur().Literal == token.RParen) {
		for {
			args = append(args, p.parseExpr())
			if p.cur().Kind == token.DELIMITER && p.cur().Literal == token.Comma {
				p.advance()
				continue
			}
			break
		}
	}
	p.expectDelimiter(token.RParen)
	return &ast.FunctionCall{Name: name, Args: args}
}

// parseAssignment parses (IDENT | IDENT '[' expr ']') '=' expr.
func (p *Parser) parseAssignment() ast.Node {
	if p.cur().Kind != token.IDENT {
		p.errorf("Expected statement but found %s", p.cur())
		return nil
	}
	name := p.advance().Literal

	target := ast.AssignTarget{Name: name}
	if p.cur().Kind == token.DELIMITER && p.cur().Literal == token.LBracket {
		p.advance()
		index := p.parseExpr()
		if !p.expectDelimiter(token.RBracket) {
			return nil
		}
		target.Index = index
	}

	if !p.expectOperator(token.Assign) {
		return nil
	}
	value := p.parseExpr()
	return &ast.Assignment{Target: target, Value: value}
}

// parseExpr is the grammar's `expr := comparison` entry point.
func (p *Parser) parseExpr() ast.Node {
	return p.parseComparison()
}

var comparisonOps = map[string]ast.Op{
	"<": ast.Lt, ">": ast.Gt, "<=": ast.Le, ">=": ast.Ge, "==": ast.Eq, "!=": ast.Ne,
}

func (p *Parser) parseComparison() ast.Node {
	left := p.parseAdditive()
	for p.cur().Kind == token.OPERATOR {
		op, ok := comparisonOps[p.cur().Literal]
		if !ok {
			break
		}
		p.advance()
		right := p.parseAdditive()
		left = &ast.BinaryOp{Op: op, Left: left, Right: right}
	}
	return left
}

func (p *Parser) parseAdditive() ast.Node {
	left := p.parseTerm()
	for p.cur().Kind == token.OPERATOR && (p.cur().Literal == token.Plus || p.cur().Literal == token.Minus) {
		op := ast.Add
		if p.cur().Literal == token.Minus {
			op = ast.Sub
		}
		p.advance()
		right := p.parseTerm()
		left = &ast.BinaryOp{Op: op, Left: left, Right: right}
	}
	return left
}

func (p *Parser) parseTerm() ast.Node {
	left := p.parseFactor()
	for p.cur().Kind == token.OPERATOR && (p.cur().Literal == token.Star || p.cur().Literal == token.Slash) {
		op := ast.Mul
		if p.cur().Literal == token.Slash {
			op = ast.Div
		}
		p.advance()
		right := p.parseFactor()
		left = &ast.BinaryOp{Op: op, Left: left, Right: right}
	}
	return left
}

// parseFactor implements:
//
//	factor := '(' expr ')' | NUMBER | STRING | IDENT '(' args ')'
//	        | IDENT '[' expr ']' | IDENT
func (p *Parser) parseFactor() ast.Node {
	t := p.cur()
	switch {
	case t.Kind == token.DELIMITER && t.Literal == token.LParen:
		p.advance()
		expr := p.parseExpr()
		p.expectDelimiter(token.RParen)
		return expr

	case t.Kind == token.NUMBER || t.Kind == token.STRING:
		p.advance()
		return &ast.Literal{Text: t.Literal}

	case t.Kind == token.IDENT:
		if p.peekAt(1).Kind == token.DELIMITER && p.peekAt(1).Literal == token.LParen {
			return p.parseCallExpr()
		}
		name := p.advance().Literal
		if p.cur().Kind == token.DELIMITER && p.cur().Literal == token.LBracket {
			p.advance()
			index := p.parseExpr()
			p.expectDelimiter(token.RBracket)
			return &ast.ArrayAccess{Name: name, Index: index}
		}
		return &ast.Identifier{Name: name}

	default:
		p.errorf("Unexpected token %s in expression", t)
		return &ast.Literal{Text: "0"}
	}
}
