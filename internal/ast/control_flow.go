package ast

import (
	"bytes"

	"github.com/compiscript/compiscript/internal/lexer"
)

// IfStatement represents `if (cond) { } else { }`. The else branch may be
// a nested IfStatement for `else if` chains, or nil.
type IfStatement struct {
	Token     lexer.Token // The if token
	Condition Expression
	Then      *BlockStatement
	Else      Statement // *BlockStatement, *IfStatement, or nil
}

func (is *IfStatement) statementNode()       {}
func (is *IfStatement) TokenLiteral() string { return is.Token.Literal }
func (is *IfStatement) Pos() lexer.Position  { return is.Token.Pos }

func (is *IfStatement) String() string {
	var out bytes.Buffer
	out.WriteString("if (")
	out.WriteString(is.Condition.String())
	out.WriteString(") ")
	out.WriteString(is.Then.String())
	if is.Else != nil {
		out.WriteString("else ")
		out.WriteString(is.Else.String())
	}
	return out.String()
}

// WhileStatement represents `while (cond) { }`.
type WhileStatement struct {
	Token     lexer.Token // The while token
	Condition Expression
	Body      *BlockStatement
}

func (ws *WhileStatement) statementNode()       {}
func (ws *WhileStatement) TokenLiteral() string { return ws.Token.Literal }
func (ws *WhileStatement) Pos() lexer.Position  { return ws.Token.Pos }

func (ws *WhileStatement) String() string {
	return "while (" + ws.Condition.String() + ") " + ws.Body.String()
}

// DoWhileStatement represents `do { } while (cond);`.
type DoWhileStatement struct {
	Token     lexer.Token // The do token
	Body      *BlockStatement
	Condition Expression
}

func (ds *DoWhileStatement) statementNode()       {}
func (ds *DoWhileStatement) TokenLiteral() string { return ds.Token.Literal }
func (ds *DoWhileStatement) Pos() lexer.Position  { return ds.Token.Pos }

func (ds *DoWhileStatement) String() string {
	return "do " + ds.Body.String() + "while (" + ds.Condition.String() + "); "
}

// ForStatement represents `for (init; cond; post) { }`. Each of the three
// header parts may be absent.
type ForStatement struct {
	Token     lexer.Token // The for token
	Init      Statement   // *VarDeclaration or *ExpressionStatement, may be nil
	Condition Expression  // may be nil
	Post      Expression  // may be nil
	Body      *BlockStatement
}

func (fs *ForStatement) statementNode()       {}
func (fs *ForStatement) TokenLiteral() string { return fs.Token.Literal }
func (fs *ForStatement) Pos() lexer.Position  { return fs.Token.Pos }

func (fs *ForStatement) String() string {
	var out bytes.Buffer
	out.WriteString("for (")
	if fs.Init != nil {
		out.WriteString(fs.Init.String())
	} else {
		out.WriteString("; ")
	}
	if fs.Condition != nil {
		out.WriteString(fs.Condition.String())
	}
	out.WriteString("; ")
	if fs.Post != nil {
		out.WriteString(fs.Post.String())
	}
	out.WriteString(") ")
	out.WriteString(fs.Body.String())
	return out.String()
}

// ForeachStatement represents `foreach (x in e) { }`. The collection must
// have an array type T[] and x is bound with type T.
type ForeachStatement struct {
	Token      lexer.Token // The foreach token
	Variable   *Identifier
	Collection Expression
	Body       *BlockStatement
}

func (fs *ForeachStatement) statementNode()       {}
func (fs *ForeachStatement) TokenLiteral() string { return fs.Token.Literal }
func (fs *ForeachStatement) Pos() lexer.Position  { return fs.Token.Pos }

func (fs *ForeachStatement) String() string {
	return "foreach (" + fs.Variable.Value + " in " + fs.Collection.String() + ") " + fs.Body.String()
}

// CaseClause is one `case e:` arm of a switch, or the `default:` arm when
// Value is nil.
type CaseClause struct {
	Token lexer.Token // The case or default token
	Value Expression  // nil for default
	Body  []Statement
}

func (cc *CaseClause) TokenLiteral() string { return cc.Token.Literal }
func (cc *CaseClause) Pos() lexer.Position  { return cc.Token.Pos }

func (cc *CaseClause) String() string {
	var out bytes.Buffer
	if cc.Value != nil {
		out.WriteString("case ")
		out.WriteString(cc.Value.String())
		out.WriteString(": ")
	} else {
		out.WriteString("default: ")
	}
	for _, s := range cc.Body {
		out.WriteString(s.String())
	}
	return out.String()
}

// SwitchStatement represents `switch (e) { case v: ... default: ... }`.
// Cases fall through to the next case's body; an explicit break jumps to
// the end of the switch.
type SwitchStatement struct {
	Token   lexer.Token // The switch token
	Subject Expression
	Cases   []*CaseClause // the default clause, if any, is last
}

func (ss *SwitchStatement) statementNode()       {}
func (ss *SwitchStatement) TokenLiteral() string { return ss.Token.Literal }
func (ss *SwitchStatement) Pos() lexer.Position  { return ss.Token.Pos }

func (ss *SwitchStatement) String() string {
	var out bytes.Buffer
	out.WriteString("switch (")
	out.WriteString(ss.Subject.String())
	out.WriteString(") { ")
	for _, c := range ss.Cases {
		out.WriteString(c.String())
	}
	out.WriteString("} ")
	return out.String()
}

// BreakStatement represents `break;`.
type BreakStatement struct {
	Token lexer.Token // The break token
}

func (bs *BreakStatement) statementNode()       {}
func (bs *BreakStatement) TokenLiteral() string { return bs.Token.Literal }
func (bs *BreakStatement) String() string       { return "break; " }
func (bs *BreakStatement) Pos() lexer.Position  { return bs.Token.Pos }

// ContinueStatement represents `continue;`.
type ContinueStatement struct {
	Token lexer.Token // The continue token
}

func (cs *ContinueStatement) statementNode()       {}
func (cs *ContinueStatement) TokenLiteral() string { return cs.Token.Literal }
func (cs *ContinueStatement) String() string       { return "continue; " }
func (cs *ContinueStatement) Pos() lexer.Position  { return cs.Token.Pos }
