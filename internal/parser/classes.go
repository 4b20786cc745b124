package parser

import (
	"github.com/compiscript/compiscript/internal/ast"
	"github.com/compiscript/compiscript/internal/lexer"
)

// parseClassDeclaration parses `class C : P { members }`.
// Members are field declarations (let/var/const), methods, and at most
// one constructor in either the `function constructor` or `init` form.
func (p *Parser) parseClassDeclaration() ast.Statement {
	decl := &ast.ClassDeclaration{Token: p.curToken}

	if !p.expectPeek(lexer.IDENT) {
		return nil
	}
	decl.Name = &ast.Identifier{Token: p.curToken, Value: p.curToken.Literal}

	if p.peekTokenIs(lexer.COLON) {
		p.nextToken()
		if !p.expectPeek(lexer.IDENT) {
			return nil
		}
		decl.Parent = &ast.Identifier{Token: p.curToken, Value: p.curToken.Literal}
	}

	if !p.expectPeek(lexer.LBRACE) {
		return nil
	}

	p.nextToken()
	for !p.curTokenIs(lexer.RBRACE) && !p.curTokenIs(lexer.EOF) {
		switch {
		case p.curTokenIs(lexer.LET), p.curTokenIs(lexer.VAR):
			if field := p.parseVarDeclaration(); field != nil {
				decl.Fields = append(decl.Fields, field)
			} else {
				p.synchronize()
			}
		case p.curTokenIs(lexer.CONST):
			if field := p.parseConstDeclaration(); field != nil {
				decl.Fields = append(decl.Fields, field)
			} else {
				p.synchronize()
			}
		case p.curTokenIs(lexer.FUNCTION):
			if method := p.parseFunctionDeclaration(true); method != nil {
				decl.Methods = append(decl.Methods, method)
			} else {
				p.synchronize()
			}
		case p.curTokenIs(lexer.IDENT) && p.curToken.Literal == "init" && p.peekTokenIs(lexer.LPAREN):
			if ctor := p.parseInitConstructor(); ctor != nil {
				decl.Methods = append(decl.Methods, ctor)
			} else {
				p.synchronize()
			}
		default:
			p.addError(p.curToken.Pos, "unexpected token %s in class body", p.curToken.Type)
			p.synchronize()
		}
		p.nextToken()
	}

	if !p.curTokenIs(lexer.RBRACE) {
		p.addError(p.curToken.Pos, "expected } to close class body")
	}

	return decl
}

// parseInitConstructor parses the `init(params) { body }` constructor
// spelling, with the init identifier as the current token.
func (p *Parser) parseInitConstructor() *ast.FunctionDeclaration {
	decl := &ast.FunctionDeclaration{
		Token:         p.curToken,
		Name:          &ast.Identifier{Token: p.curToken, Value: p.curToken.Literal},
		IsConstructor: true,
	}

	if !p.expectPeek(lexer.LPAREN) {
		return nil
	}
	decl.Parameters = p.parseParameterList()

	if !p.expectPeek(lexer.LBRACE) {
		return nil
	}
	decl.Body = p.parseBlockStatement()

	return decl
}
