package ast

import "github.com/compiscript/compiscript/internal/lexer"

// NamedType is a type annotation naming a primitive or class type.
type NamedType struct {
	Token lexer.Token // The type name token
	Name  string
}

func (nt *NamedType) typeExpressionNode()  {}
func (nt *NamedType) TokenLiteral() string { return nt.Token.Literal }
func (nt *NamedType) String() string       { return nt.Name }
func (nt *NamedType) Pos() lexer.Position  { return nt.Token.Pos }

// ArrayTypeExpression is a type annotation of the form T[].
type ArrayTypeExpression struct {
	Token   lexer.Token // The [ token
	Element TypeExpression
}

func (at *ArrayTypeExpression) typeExpressionNode()  {}
func (at *ArrayTypeExpression) TokenLiteral() string { return at.Token.Literal }
func (at *ArrayTypeExpression) String() string       { return at.Element.String() + "[]" }
func (at *ArrayTypeExpression) Pos() lexer.Position  { return at.Element.Pos() }
