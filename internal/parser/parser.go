// Package parser implements the Compiscript parser using Pratt parsing.
//
// The precedence ladder follows the language's operator table:
// assignment binds lowest and associates right, then the ternary
// conditional, ||, &&, equality, relational, additive, multiplicative,
// unary, and finally the postfix forms (index, member access, call).
package parser

import (
	"fmt"

	"github.com/compiscript/compiscript/internal/ast"
	"github.com/compiscript/compiscript/internal/lexer"
)

// Precedence levels for operators (lowest to highest).
const (
	_ int = iota
	LOWEST
	ASSIGN      // =
	TERNARY     // ?:
	OR          // ||
	AND         // &&
	EQUALS      // == !=
	LESSGREATER // < <= > >=
	SUM         // + -
	PRODUCT     // * / %
	PREFIX      // -x, !x
	POSTFIX     // call(), index[], member.
)

// precedences maps token types to their precedence levels.
var precedences = map[lexer.TokenType]int{
	lexer.ASSIGN:     ASSIGN,
	lexer.QUESTION:   TERNARY,
	lexer.OR_OR:      OR,
	lexer.AND_AND:    AND,
	lexer.EQ:         EQUALS,
	lexer.NOT_EQ:     EQUALS,
	lexer.LESS:       LESSGREATER,
	lexer.LESS_EQ:    LESSGREATER,
	lexer.GREATER:    LESSGREATER,
	lexer.GREATER_EQ: LESSGREATER,
	lexer.PLUS:       SUM,
	lexer.MINUS:      SUM,
	lexer.ASTERISK:   PRODUCT,
	lexer.SLASH:      PRODUCT,
	lexer.PERCENT:    PRODUCT,
	lexer.LPAREN:     POSTFIX,
	lexer.LBRACK:     POSTFIX,
	lexer.DOT:        POSTFIX,
}

// prefixParseFn parses prefix expressions (literals, unary ops, grouping).
type prefixParseFn func() ast.Expression

// infixParseFn parses infix expressions (binary ops, calls, member access).
type infixParseFn func(ast.Expression) ast.Expression

// Error is a single parse error with its source position.
type Error struct {
	Pos     lexer.Position
	Message string
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s at %s", e.Message, e.Pos)
}

// Parser parses a token stream into an AST.
type Parser struct {
	l *lexer.Lexer

	curToken  lexer.Token
	peekToken lexer.Token

	errors []*Error

	prefixParseFns map[lexer.TokenType]prefixParseFn
	infixParseFns  map[lexer.TokenType]infixParseFn
}

// New creates a new Parser reading from the given lexer.
func New(l *lexer.Lexer) *Parser {
	p := &Parser{l: l}

	p.prefixParseFns = map[lexer.TokenType]prefixParseFn{
		lexer.IDENT:  p.parseIdentifier,
		lexer.INT:    p.parseIntegerLiteral,
		lexer.STRING: p.parseStringLiteral,
		lexer.TRUE:   p.parseBooleanLiteral,
		lexer.FALSE:  p.parseBooleanLiteral,
		lexer.NULL:   p.parseNullLiteral,
		lexer.LPAREN: p.parseGroupedExpression,
		lexer.MINUS:  p.parseUnaryExpression,
		lexer.BANG:   p.parseUnaryExpression,
		lexer.LBRACK: p.parseArrayLiteral,
		lexer.NEW:    p.parseNewExpression,
		lexer.THIS:   p.parseThisExpression,
		lexer.SUPER:  p.parseSuperExpression,
	}

	p.infixParseFns = map[lexer.TokenType]infixParseFn{
		lexer.PLUS:       p.parseBinaryExpression,
		lexer.MINUS:      p.parseBinaryExpression,
		lexer.ASTERISK:   p.parseBinaryExpression,
		lexer.SLASH:      p.parseBinaryExpression,
		lexer.PERCENT:    p.parseBinaryExpression,
		lexer.EQ:         p.parseBinaryExpression,
		lexer.NOT_EQ:     p.parseBinaryExpression,
		lexer.LESS:       p.parseBinaryExpression,
		lexer.LESS_EQ:    p.parseBinaryExpression,
		lexer.GREATER:    p.parseBinaryExpression,
		lexer.GREATER_EQ: p.parseBinaryExpression,
		lexer.AND_AND:    p.parseBinaryExpression,
		lexer.OR_OR:      p.parseBinaryExpression,
		lexer.QUESTION:   p.parseTernaryExpression,
		lexer.ASSIGN:     p.parseAssignExpression,
		lexer.LPAREN:     p.parseCallExpression,
		lexer.LBRACK:     p.parseIndexExpression,
		lexer.DOT:        p.parseMemberExpression,
	}

	// Read two tokens so curToken and peekToken are both set.
	p.nextToken()
	p.nextToken()
	return p
}

// Errors returns the accumulated parse errors.
func (p *Parser) Errors() []*Error { return p.errors }

// ParseProgram parses the whole input and returns the root node.
func (p *Parser) ParseProgram() *ast.Program {
	program := &ast.Program{}

	for !p.curTokenIs(lexer.EOF) {
		stmt := p.parseStatement()
		if stmt != nil {
			program.Statements = append(program.Statements, stmt)
		} else {
			p.synchronize()
		}
		p.nextToken()
	}

	return program
}

func (p *Parser) nextToken() {
	p.curToken = p.peekToken
	p.peekToken = p.l.NextToken()
}

func (p *Parser) curTokenIs(t lexer.TokenType) bool  { return p.curToken.Type == t }
func (p *Parser) peekTokenIs(t lexer.TokenType) bool { return p.peekToken.Type == t }

// expectPeek advances if the next token has the expected type, otherwise
// records an error and stays put.
func (p *Parser) expectPeek(t lexer.TokenType) bool {
	if p.peekTokenIs(t) {
		p.nextToken()
		return true
	}
	p.peekError(t)
	return false
}

func (p *Parser) peekError(t lexer.TokenType) {
	p.errors = append(p.errors, &Error{
		Pos:     p.peekToken.Pos,
		Message: fmt.Sprintf("expected %s, got %s", t, p.peekToken.Type),
	})
}

func (p *Parser) addError(pos lexer.Position, format string, args ...any) {
	p.errors = append(p.errors, &Error{Pos: pos, Message: fmt.Sprintf(format, args...)})
}

func (p *Parser) peekPrecedence() int {
	if prec, ok := precedences[p.peekToken.Type]; ok {
		return prec
	}
	return LOWEST
}

// synchronize skips tokens until a likely statement boundary so that one
// malformed statement yields one error, not a cascade.
func (p *Parser) synchronize() {
	for !p.curTokenIs(lexer.EOF) && !p.curTokenIs(lexer.SEMICOLON) && !p.curTokenIs(lexer.RBRACE) {
		p.nextToken()
	}
}

// expectSemicolon consumes the terminating semicolon of a statement.
func (p *Parser) expectSemicolon() {
	if p.peekTokenIs(lexer.SEMICOLON) {
		p.nextToken()
		return
	}
	p.peekError(lexer.SEMICOLON)
}
