package ast

import (
	"bytes"

	"github.com/compiscript/compiscript/internal/lexer"
)

// VarDeclaration represents `let x: T = e;` or `var x: T = e;`.
// The annotation and the initializer are each optional, but not both:
// without an annotation the type is inferred from the initializer.
type VarDeclaration struct {
	Token   lexer.Token // The let or var token
	Name    *Identifier
	TypeAnn TypeExpression // may be nil
	Value   Expression     // may be nil
}

func (vd *VarDeclaration) statementNode()       {}
func (vd *VarDeclaration) TokenLiteral() string { return vd.Token.Literal }
func (vd *VarDeclaration) Pos() lexer.Position  { return vd.Token.Pos }

func (vd *VarDeclaration) String() string {
	var out bytes.Buffer
	out.WriteString(vd.Token.Literal)
	out.WriteString(" ")
	out.WriteString(vd.Name.Value)
	if vd.TypeAnn != nil {
		out.WriteString(": ")
		out.WriteString(vd.TypeAnn.String())
	}
	if vd.Value != nil {
		out.WriteString(" = ")
		out.WriteString(vd.Value.String())
	}
	out.WriteString("; ")
	return out.String()
}

// ConstDeclaration represents `const x: T = e;`.
// Constants require an initializer at declaration.
type ConstDeclaration struct {
	Token   lexer.Token // The const token
	Name    *Identifier
	TypeAnn TypeExpression // may be nil
	Value   Expression
}

func (cd *ConstDeclaration) statementNode()       {}
func (cd *ConstDeclaration) TokenLiteral() string { return cd.Token.Literal }
func (cd *ConstDeclaration) Pos() lexer.Position  { return cd.Token.Pos }

func (cd *ConstDeclaration) String() string {
	var out bytes.Buffer
	out.WriteString("const ")
	out.WriteString(cd.Name.Value)
	if cd.TypeAnn != nil {
		out.WriteString(": ")
		out.WriteString(cd.TypeAnn.String())
	}
	if cd.Value != nil {
		out.WriteString(" = ")
		out.WriteString(cd.Value.String())
	}
	out.WriteString("; ")
	return out.String()
}

// BlockStatement represents a brace-delimited statement list. Each block
// opens a child scope.
type BlockStatement struct {
	Token      lexer.Token // The { token
	Statements []Statement
}

func (bs *BlockStatement) statementNode()       {}
func (bs *BlockStatement) TokenLiteral() string { return bs.Token.Literal }
func (bs *BlockStatement) Pos() lexer.Position  { return bs.Token.Pos }

func (bs *BlockStatement) String() string {
	var out bytes.Buffer
	out.WriteString("{ ")
	for _, s := range bs.Statements {
		out.WriteString(s.String())
	}
	out.WriteString("} ")
	return out.String()
}

// ExpressionStatement wraps an expression used in statement position.
type ExpressionStatement struct {
	Token      lexer.Token // First token of the expression
	Expression Expression
}

func (es *ExpressionStatement) statementNode()       {}
func (es *ExpressionStatement) TokenLiteral() string { return es.Token.Literal }
func (es *ExpressionStatement) Pos() lexer.Position  { return es.Token.Pos }

func (es *ExpressionStatement) String() string {
	if es.Expression != nil {
		return es.Expression.String() + "; "
	}
	return "; "
}

// PrintStatement represents `print(e);`.
type PrintStatement struct {
	Token lexer.Token // The print token
	Value Expression
}

func (ps *PrintStatement) statementNode()       {}
func (ps *PrintStatement) TokenLiteral() string { return ps.Token.Literal }
func (ps *PrintStatement) Pos() lexer.Position  { return ps.Token.Pos }

func (ps *PrintStatement) String() string {
	return "print(" + ps.Value.String() + "); "
}

// ReturnStatement represents `return;` or `return e;`.
type ReturnStatement struct {
	Token lexer.Token // The return token
	Value Expression  // may be nil
}

func (rs *ReturnStatement) statementNode()       {}
func (rs *ReturnStatement) TokenLiteral() string { return rs.Token.Literal }
func (rs *ReturnStatement) Pos() lexer.Position  { return rs.Token.Pos }

func (rs *ReturnStatement) String() string {
	if rs.Value != nil {
		return "return " + rs.Value.String() + "; "
	}
	return "return; "
}

// TryCatchStatement represents `try { } catch (id) { }`.
// The form is syntactic: the handler binds id as a string and no
// unwinding semantics are attached.
type TryCatchStatement struct {
	Token   lexer.Token // The try token
	Body    *BlockStatement
	Param   *Identifier
	Handler *BlockStatement
}

func (ts *TryCatchStatement) statementNode()       {}
func (ts *TryCatchStatement) TokenLiteral() string { return ts.Token.Literal }
func (ts *TryCatchStatement) Pos() lexer.Position  { return ts.Token.Pos }

func (ts *TryCatchStatement) String() string {
	return "try " + ts.Body.String() + "catch (" + ts.Param.Value + ") " + ts.Handler.String()
}
