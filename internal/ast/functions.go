package ast

import (
	"bytes"
	"strings"

	"github.com/compiscript/compiscript/internal/lexer"
)

// Parameter is one formal parameter of a function or method.
type Parameter struct {
	Name    *Identifier
	TypeAnn TypeExpression
}

func (p *Parameter) String() string {
	if p.TypeAnn != nil {
		return p.Name.Value + ": " + p.TypeAnn.String()
	}
	return p.Name.Value
}

// FunctionDeclaration represents a free function or, inside a class body,
// a method or constructor.
type FunctionDeclaration struct {
	Token      lexer.Token // The function token (or the init identifier)
	Name       *Identifier
	Parameters []*Parameter
	ReturnType TypeExpression // nil means void
	Body       *BlockStatement

	// IsConstructor marks the `function constructor(...)` and `init(...)`
	// spellings inside a class body.
	IsConstructor bool
}

func (fd *FunctionDeclaration) statementNode()       {}
func (fd *FunctionDeclaration) TokenLiteral() string { return fd.Token.Literal }
func (fd *FunctionDeclaration) Pos() lexer.Position  { return fd.Token.Pos }

func (fd *FunctionDeclaration) String() string {
	var out bytes.Buffer
	params := make([]string, 0, len(fd.Parameters))
	for _, p := range fd.Parameters {
		params = append(params, p.String())
	}
	// The init(...) constructor spelling has no leading keyword.
	if !(fd.IsConstructor && fd.Name.Value == "init") {
		out.WriteString("function ")
	}
	out.WriteString(fd.Name.Value)
	out.WriteString("(")
	out.WriteString(strings.Join(params, ", "))
	out.WriteString(")")
	if fd.ReturnType != nil {
		out.WriteString(": ")
		out.WriteString(fd.ReturnType.String())
	}
	out.WriteString(" ")
	out.WriteString(fd.Body.String())
	return out.String()
}
