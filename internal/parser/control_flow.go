package parser

import (
	"github.com/compiscript/compiscript/internal/ast"
	"github.com/compiscript/compiscript/internal/lexer"
)

func (p *Parser) parseIfStatement() ast.Statement {
	stmt := &ast.IfStatement{Token: p.curToken}

	if !p.expectPeek(lexer.LPAREN) {
		return nil
	}
	p.nextToken()
	stmt.Condition = p.parseExpression(LOWEST)
	if !p.expectPeek(lexer.RPAREN) {
		return nil
	}
	if !p.expectPeek(lexer.LBRACE) {
		return nil
	}
	stmt.Then = p.parseBlockStatement()

	if p.peekTokenIs(lexer.ELSE) {
		p.nextToken()
		if p.peekTokenIs(lexer.IF) {
			p.nextToken()
			stmt.Else = p.parseIfStatement()
		} else {
			if !p.expectPeek(lexer.LBRACE) {
				return nil
			}
			stmt.Else = p.parseBlockStatement()
		}
	}

	return stmt
}

func (p *Parser) parseWhileStatement() ast.Statement {
	stmt := &ast.WhileStatement{Token: p.curToken}

	if !p.expectPeek(lexer.LPAREN) {
		return nil
	}
	p.nextToken()
	stmt.Condition = p.parseExpression(LOWEST)
	if !p.expectPeek(lexer.RPAREN) {
		return nil
	}
	if !p.expectPeek(lexer.LBRACE) {
		return nil
	}
	stmt.Body = p.parseBlockStatement()

	return stmt
}

func (p *Parser) parseDoWhileStatement() ast.Statement {
	stmt := &ast.DoWhileStatement{Token: p.curToken}

	if !p.expectPeek(lexer.LBRACE) {
		return nil
	}
	stmt.Body = p.parseBlockStatement()

	if !p.expectPeek(lexer.WHILE) {
		return nil
	}
	if !p.expectPeek(lexer.LPAREN) {
		return nil
	}
	p.nextToken()
	stmt.Condition = p.parseExpression(LOWEST)
	if !p.expectPeek(lexer.RPAREN) {
		return nil
	}
	p.expectSemicolon()

	return stmt
}

func (p *Parser) parseForStatement() ast.Statement {
	stmt := &ast.ForStatement{Token: p.curToken}

	if !p.expectPeek(lexer.LPAREN) {
		return nil
	}

	// Initializer: declaration, expression, or empty. The declaration and
	// expression paths consume their own semicolon.
	p.nextToken()
	switch p.curToken.Type {
	case lexer.SEMICOLON:
		// no initializer
	case lexer.LET, lexer.VAR:
		stmt.Init = p.parseVarDeclaration()
	default:
		init := &ast.ExpressionStatement{Token: p.curToken}
		init.Expression = p.parseExpression(LOWEST)
		p.expectSemicolon()
		stmt.Init = init
	}

	// Condition, up to the second semicolon.
	if !p.peekTokenIs(lexer.SEMICOLON) {
		p.nextToken()
		stmt.Condition = p.parseExpression(LOWEST)
	}
	if !p.expectPeek(lexer.SEMICOLON) {
		return nil
	}

	// Step, up to the closing parenthesis.
	if !p.peekTokenIs(lexer.RPAREN) {
		p.nextToken()
		stmt.Post = p.parseExpression(LOWEST)
	}
	if !p.expectPeek(lexer.RPAREN) {
		return nil
	}

	if !p.expectPeek(lexer.LBRACE) {
		return nil
	}
	stmt.Body = p.parseBlockStatement()

	return stmt
}

func (p *Parser) parseForeachStatement() ast.Statement {
	stmt := &ast.ForeachStatement{Token: p.curToken}

	if !p.expectPeek(lexer.LPAREN) {
		return nil
	}
	if !p.expectPeek(lexer.IDENT) {
		return nil
	}
	stmt.Variable = &ast.Identifier{Token: p.curToken, Value: p.curToken.Literal}

	if !p.expectPeek(lexer.IN) {
		return nil
	}
	p.nextToken()
	stmt.Collection = p.parseExpression(LOWEST)

	if !p.expectPeek(lexer.RPAREN) {
		return nil
	}
	if !p.expectPeek(lexer.LBRACE) {
		return nil
	}
	stmt.Body = p.parseBlockStatement()

	return stmt
}

func (p *Parser) parseSwitchStatement() ast.Statement {
	stmt := &ast.SwitchStatement{Token: p.curToken}

	if !p.expectPeek(lexer.LPAREN) {
		return nil
	}
	p.nextToken()
	stmt.Subject = p.parseExpression(LOWEST)
	if !p.expectPeek(lexer.RPAREN) {
		return nil
	}
	if !p.expectPeek(lexer.LBRACE) {
		return nil
	}

	p.nextToken()
	seenDefault := false
	for !p.curTokenIs(lexer.RBRACE) && !p.curTokenIs(lexer.EOF) {
		switch p.curToken.Type {
		case lexer.CASE:
			clause := &ast.CaseClause{Token: p.curToken}
			p.nextToken()
			clause.Value = p.parseExpression(LOWEST)
			if !p.expectPeek(lexer.COLON) {
				return nil
			}
			clause.Body = p.parseCaseBody()
			stmt.Cases = append(stmt.Cases, clause)
		case lexer.DEFAULT:
			if seenDefault {
				p.addError(p.curToken.Pos, "duplicate default case")
			}
			seenDefault = true
			clause := &ast.CaseClause{Token: p.curToken}
			if !p.expectPeek(lexer.COLON) {
				return nil
			}
			clause.Body = p.parseCaseBody()
			stmt.Cases = append(stmt.Cases, clause)
		default:
			p.addError(p.curToken.Pos, "unexpected token %s in switch body", p.curToken.Type)
			p.synchronize()
			p.nextToken()
		}
	}

	if !p.curTokenIs(lexer.RBRACE) {
		p.addError(p.curToken.Pos, "expected } to close switch")
	}

	return stmt
}

// parseCaseBody parses the statements of one case arm, stopping before
// the next case/default label or the closing brace. The colon is the
// current token on entry; the token before the stopper is current on exit.
func (p *Parser) parseCaseBody() []ast.Statement {
	var body []ast.Statement

	for !p.peekTokenIs(lexer.CASE) && !p.peekTokenIs(lexer.DEFAULT) &&
		!p.peekTokenIs(lexer.RBRACE) && !p.peekTokenIs(lexer.EOF) {
		p.nextToken()
		stmt := p.parseStatement()
		if stmt != nil {
			body = append(body, stmt)
		} else {
			p.synchronize()
		}
	}

	p.nextToken()
	return body
}
