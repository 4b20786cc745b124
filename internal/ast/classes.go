package ast

import (
	"bytes"

	"github.com/compiscript/compiscript/internal/lexer"
)

// ClassDeclaration represents `class C : P { fields; methods; }`.
// Parent is nil for base classes. Members appear in declaration order;
// field order determines the object layout.
type ClassDeclaration struct {
	Token   lexer.Token // The class token
	Name    *Identifier
	Parent  *Identifier // may be nil
	Fields  []Statement // *VarDeclaration / *ConstDeclaration, in order
	Methods []*FunctionDeclaration
}

func (cd *ClassDeclaration) statementNode()       {}
func (cd *ClassDeclaration) TokenLiteral() string { return cd.Token.Literal }
func (cd *ClassDeclaration) Pos() lexer.Position  { return cd.Token.Pos }

func (cd *ClassDeclaration) String() string {
	var out bytes.Buffer
	out.WriteString("class ")
	out.WriteString(cd.Name.Value)
	if cd.Parent != nil {
		out.WriteString(" : ")
		out.WriteString(cd.Parent.Value)
	}
	out.WriteString(" { ")
	for _, f := range cd.Fields {
		out.WriteString(f.String())
	}
	for _, m := range cd.Methods {
		out.WriteString(m.String())
	}
	out.WriteString("} ")
	return out.String()
}

// Constructor returns the class's constructor declaration, if any.
func (cd *ClassDeclaration) Constructor() *FunctionDeclaration {
	for _, m := range cd.Methods {
		if m.IsConstructor {
			return m
		}
	}
	return nil
}
