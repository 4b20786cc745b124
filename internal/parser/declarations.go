package parser

import (
	"github.com/compiscript/compiscript/internal/ast"
	"github.com/compiscript/compiscript/internal/lexer"
)

// parseVarDeclaration parses `let x: T = e;` / `var x: T = e;`.
// Both the annotation and the initializer are optional.
func (p *Parser) parseVarDeclaration() ast.Statement {
	stmt := &ast.VarDeclaration{Token: p.curToken}

	if !p.expectPeek(lexer.IDENT) {
		return nil
	}
	stmt.Name = &ast.Identifier{Token: p.curToken, Value: p.curToken.Literal}

	if p.peekTokenIs(lexer.COLON) {
		p.nextToken()
		p.nextToken()
		stmt.TypeAnn = p.parseTypeExpression()
		if stmt.TypeAnn == nil {
			return nil
		}
	}

	if p.peekTokenIs(lexer.ASSIGN) {
		p.nextToken()
		p.nextToken()
		stmt.Value = p.parseExpression(LOWEST)
	}

	p.expectSemicolon()
	return stmt
}

// parseConstDeclaration parses `const x: T = e;`. The missing-initializer
// case parses, and the semantic analyzer rejects it; this keeps error
// recovery local to one statement.
func (p *Parser) parseConstDeclaration() ast.Statement {
	stmt := &ast.ConstDeclaration{Token: p.curToken}

	if !p.expectPeek(lexer.IDENT) {
		return nil
	}
	stmt.Name = &ast.Identifier{Token: p.curToken, Value: p.curToken.Literal}

	if p.peekTokenIs(lexer.COLON) {
		p.nextToken()
		p.nextToken()
		stmt.TypeAnn = p.parseTypeExpression()
		if stmt.TypeAnn == nil {
			return nil
		}
	}

	if p.peekTokenIs(lexer.ASSIGN) {
		p.nextToken()
		p.nextToken()
		stmt.Value = p.parseExpression(LOWEST)
	}

	p.expectSemicolon()
	return stmt
}

// parseTypeExpression parses a type annotation: a primitive or class name
// followed by any number of [] suffixes.
func (p *Parser) parseTypeExpression() ast.TypeExpression {
	var base ast.TypeExpression

	switch p.curToken.Type {
	case lexer.IDENT, lexer.INTEGER_TYPE, lexer.STRING_TYPE, lexer.BOOLEAN_TYPE, lexer.VOID:
		base = &ast.NamedType{Token: p.curToken, Name: p.curToken.Literal}
	default:
		p.addError(p.curToken.Pos, "expected type name, got %s", p.curToken.Type)
		return nil
	}

	for p.peekTokenIs(lexer.LBRACK) {
		bracket := p.peekToken
		p.nextToken()
		if !p.expectPeek(lexer.RBRACK) {
			return nil
		}
		base = &ast.ArrayTypeExpression{Token: bracket, Element: base}
	}

	return base
}

// parseFunctionDeclaration parses `function name(params): T { body }`.
// Inside a class body the spellings `function constructor(...)` and
// `init(...)` both declare the constructor.
func (p *Parser) parseFunctionDeclaration(inClass bool) *ast.FunctionDeclaration {
	decl := &ast.FunctionDeclaration{Token: p.curToken}

	if !p.expectPeek(lexer.IDENT) {
		return nil
	}
	decl.Name = &ast.Identifier{Token: p.curToken, Value: p.curToken.Literal}
	if inClass && decl.Name.Value == "constructor" {
		decl.IsConstructor = true
	}

	if !p.expectPeek(lexer.LPAREN) {
		return nil
	}
	decl.Parameters = p.parseParameterList()

	if p.peekTokenIs(lexer.COLON) {
		p.nextToken()
		p.nextToken()
		decl.ReturnType = p.parseTypeExpression()
	}

	if !p.expectPeek(lexer.LBRACE) {
		return nil
	}
	decl.Body = p.parseBlockStatement()

	return decl
}

// parseParameterList parses (a: T, b: U) with the ( as current token.
func (p *Parser) parseParameterList() []*ast.Parameter {
	params := []*ast.Parameter{}

	if p.peekTokenIs(lexer.RPAREN) {
		p.nextToken()
		return params
	}

	p.nextToken()
	if param := p.parseParameter(); param != nil {
		params = append(params, param)
	}

	for p.peekTokenIs(lexer.COMMA) {
		p.nextToken()
		p.nextToken()
		if param := p.parseParameter(); param != nil {
			params = append(params, param)
		}
	}

	if !p.expectPeek(lexer.RPAREN) {
		return params
	}

	return params
}

func (p *Parser) parseParameter() *ast.Parameter {
	if !p.curTokenIs(lexer.IDENT) {
		p.addError(p.curToken.Pos, "expected parameter name, got %s", p.curToken.Type)
		return nil
	}
	param := &ast.Parameter{
		Name: &ast.Identifier{Token: p.curToken, Value: p.curToken.Literal},
	}

	if p.peekTokenIs(lexer.COLON) {
		p.nextToken()
		p.nextToken()
		param.TypeAnn = p.parseTypeExpression()
	}

	return param
}
