package semantic

import (
	"github.com/compiscript/compiscript/internal/ast"
	"github.com/compiscript/compiscript/internal/errors"
	"github.com/compiscript/compiscript/internal/types"
)

// checkFunctionDecl opens the function scope, binds the parameters, and
// checks the body. For methods, recv is the enclosing class and `this`
// is visible inside the body.
func (a *Analyzer) checkFunctionDecl(decl *ast.FunctionDeclaration, sig *types.FunctionType, recv *types.ClassType) {
	prevFunc := a.currentFunc
	prevClass := a.currentClass
	a.currentFunc = sig
	if recv != nil {
		a.currentClass = recv
	}

	scope := a.table.EnterScope(ScopeFunction)
	scope.Owner = a.info.Defs[decl]

	for i, p := range decl.Parameters {
		var pt types.Type = types.Unknown
		if i < len(sig.Parameters) {
			pt = sig.Parameters[i]
		}
		sym := &Symbol{
			Name:        p.Name.Value,
			Kind:        SymbolParameter,
			Type:        pt,
			Pos:         p.Name.Pos(),
			Initialized: true,
		}
		if err := a.table.Declare(sym); err != nil {
			a.errorf(errors.DuplicateDeclaration, p.Name.Pos(), "%s", err)
			continue
		}
		a.info.ParamDefs[p] = sym
	}

	for _, stmt := range decl.Body.Statements {
		a.checkStatement(stmt)
	}

	if sig.ReturnType != types.Void && sig.ReturnType != types.Unknown &&
		!blockTerminates(decl.Body.Statements) {
		a.errorf(errors.MissingReturn, decl.Name.Pos(),
			"function '%s' must return %s on all paths", decl.Name.Value, sig.ReturnType)
	}

	a.table.ExitScope()
	a.currentFunc = prevFunc
	a.currentClass = prevClass
}

// blockTerminates reports whether a statement list definitely returns.
func blockTerminates(stmts []ast.Statement) bool {
	for _, stmt := range stmts {
		if stmtTerminates(stmt) {
			return true
		}
	}
	return false
}

// stmtTerminates reports whether a single statement definitely returns
// on every path through it. Loops are treated conservatively except
// do-while, whose body always runs.
func stmtTerminates(stmt ast.Statement) bool {
	switch s := stmt.(type) {
	case *ast.ReturnStatement:
		return true
	case *ast.BlockStatement:
		return blockTerminates(s.Statements)
	case *ast.IfStatement:
		if s.Else == nil {
			return false
		}
		return blockTerminates(s.Then.Statements) && stmtTerminates(s.Else)
	case *ast.DoWhileStatement:
		return blockTerminates(s.Body.Statements)
	case *ast.TryCatchStatement:
		return blockTerminates(s.Body.Statements) && blockTerminates(s.Handler.Statements)
	}
	return false
}
