package semantic

import (
	"github.com/compiscript/compiscript/internal/ast"
	"github.com/compiscript/compiscript/internal/errors"
	"github.com/compiscript/compiscript/internal/types"
)

// checkProgram is the second pass: statement and body checking.
// Global statements run in the global scope; class and function bodies
// were only collected so far and are checked here.
func (a *Analyzer) checkProgram(program *ast.Program) {
	for _, stmt := range program.Statements {
		a.checkStatement(stmt)
	}
}

func (a *Analyzer) checkStatement(stmt ast.Statement) {
	switch s := stmt.(type) {
	case *ast.VarDeclaration:
		a.checkVarDeclaration(s)
	case *ast.ConstDeclaration:
		a.checkConstDeclaration(s)
	case *ast.FunctionDeclaration:
		a.checkNestedOrTopFunction(s)
	case *ast.ClassDeclaration:
		if a.table.Current() != a.table.Global() {
			a.errorf(errors.Syntax, s.Pos(), "classes must be declared at file scope")
			return
		}
		a.checkClassBody(s)
	case *ast.ExpressionStatement:
		if s.Expression != nil {
			a.checkExpr(s.Expression)
		}
	case *ast.PrintStatement:
		a.checkExpr(s.Value)
	case *ast.BlockStatement:
		a.checkBlock(s, false, false)
	case *ast.IfStatement:
		a.checkCondition(s.Condition)
		a.checkBlock(s.Then, false, false)
		if s.Else != nil {
			a.checkStatement(s.Else)
		}
	case *ast.WhileStatement:
		a.checkCondition(s.Condition)
		a.checkBlock(s.Body, true, false)
	case *ast.DoWhileStatement:
		a.checkBlock(s.Body, true, false)
		a.checkCondition(s.Condition)
	case *ast.ForStatement:
		a.checkForStatement(s)
	case *ast.ForeachStatement:
		a.checkForeachStatement(s)
	case *ast.SwitchStatement:
		a.checkSwitchStatement(s)
	case *ast.BreakStatement:
		if a.table.InnermostBreakable() == nil {
			a.errorf(errors.BreakContinueOutsideLoop, s.Pos(), "break outside of a loop or switch")
		}
	case *ast.ContinueStatement:
		if a.table.InnermostLoop() == nil {
			a.errorf(errors.BreakContinueOutsideLoop, s.Pos(), "continue outside of a loop")
		}
	case *ast.ReturnStatement:
		a.checkReturn(s)
	case *ast.TryCatchStatement:
		a.checkBlock(s.Body, false, false)
		a.checkCatchHandler(s)
	}
}

// checkBlock opens a block scope and checks the statements inside it.
// loop marks the scope as a break/continue target, breakable as a
// break-only target (switch bodies).
func (a *Analyzer) checkBlock(block *ast.BlockStatement, loop, breakable bool) {
	scope := a.table.EnterScope(ScopeBlock)
	scope.Loop = loop
	scope.Breakable = breakable
	for _, stmt := range block.Statements {
		a.checkStatement(stmt)
	}
	a.table.ExitScope()
}

// checkCondition requires a boolean controlling expression.
func (a *Analyzer) checkCondition(cond ast.Expression) {
	tv := a.checkExpr(cond)
	if tv.Type != types.Boolean && tv.Type != types.Unknown {
		a.errorf(errors.BadCondition, cond.Pos(), "condition must be boolean, got %s", tv.Type)
	}
}

func (a *Analyzer) checkVarDeclaration(s *ast.VarDeclaration) {
	var declared types.Type
	if s.TypeAnn != nil {
		declared = a.resolveTypeExpr(s.TypeAnn)
		if declared == types.Void {
			a.errorf(errors.TypeMismatch, s.TypeAnn.Pos(), "variable '%s' cannot have type void", s.Name.Value)
			declared = types.Unknown
		}
	}

	if s.Value != nil {
		tv := a.checkExpr(s.Value)
		if tv.Type == types.Void {
			a.errorf(errors.TypeMismatch, s.Value.Pos(), "cannot use a void call as an initializer")
			tv.Type = types.Unknown
		}
		if declared == nil {
			if tv.Type == types.Null {
				a.errorf(errors.TypeMismatch, s.Value.Pos(), "cannot infer the type of '%s' from null", s.Name.Value)
				declared = types.Unknown
			} else {
				declared = tv.Type
			}
		} else if !types.AssignableTo(tv.Type, declared) {
			a.errorf(errors.TypeMismatch, s.Value.Pos(), "cannot assign %s to '%s' of type %s", tv.Type, s.Name.Value, declared)
		}
	} else if declared == nil {
		a.errorf(errors.TypeMismatch, s.Pos(), "variable '%s' needs a type annotation or an initializer", s.Name.Value)
		declared = types.Unknown
	}

	sym := &Symbol{
		Name:        s.Name.Value,
		Kind:        SymbolVariable,
		Type:        declared,
		Pos:         s.Name.Pos(),
		Initialized: s.Value != nil,
	}
	if err := a.table.Declare(sym); err != nil {
		a.errorf(errors.DuplicateDeclaration, s.Name.Pos(), "%s", err)
		return
	}
	a.info.Defs[s] = sym
}

func (a *Analyzer) checkConstDeclaration(s *ast.ConstDeclaration) {
	var declared types.Type
	if s.TypeAnn != nil {
		declared = a.resolveTypeExpr(s.TypeAnn)
	}

	if s.Value == nil {
		a.errorf(errors.TypeMismatch, s.Pos(), "constant '%s' requires an initializer", s.Name.Value)
		if declared == nil {
			declared = types.Unknown
		}
	} else {
		tv := a.checkExpr(s.Value)
		if tv.Type == types.Void {
			a.errorf(errors.TypeMismatch, s.Value.Pos(), "cannot use a void call as an initializer")
			tv.Type = types.Unknown
		}
		if declared == nil {
			if tv.Type == types.Null {
				a.errorf(errors.TypeMismatch, s.Value.Pos(), "cannot infer the type of '%s' from null", s.Name.Value)
				declared = types.Unknown
			} else {
				declared = tv.Type
			}
		} else if !types.AssignableTo(tv.Type, declared) {
			a.errorf(errors.TypeMismatch, s.Value.Pos(), "cannot assign %s to '%s' of type %s", tv.Type, s.Name.Value, declared)
		}
	}

	sym := &Symbol{
		Name:        s.Name.Value,
		Kind:        SymbolConstant,
		Type:        declared,
		Pos:         s.Name.Pos(),
		Initialized: true,
	}
	if err := a.table.Declare(sym); err != nil {
		a.errorf(errors.DuplicateDeclaration, s.Name.Pos(), "%s", err)
		return
	}
	a.info.Defs[s] = sym
}

// checkNestedOrTopFunction checks a function body. Top-level functions
// were declared by the collect pass; functions nested in blocks are
// declared here.
func (a *Analyzer) checkNestedOrTopFunction(s *ast.FunctionDeclaration) {
	sym, collected := a.info.Defs[s]
	if !collected {
		// Top-level functions were declared by the collect pass; one
		// that is missing there already produced a duplicate error.
		if a.table.Current() == a.table.Global() {
			return
		}
		sig := a.functionSignature(s)
		sym = &Symbol{Name: s.Name.Value, Kind: SymbolFunction, Type: sig, Pos: s.Name.Pos()}
		if err := a.table.Declare(sym); err != nil {
			a.errorf(errors.DuplicateDeclaration, s.Name.Pos(), "%s", err)
			return
		}
		a.info.Defs[s] = sym
	}
	a.checkFunctionDecl(s, sym.Type.(*types.FunctionType), nil)
}

func (a *Analyzer) checkForStatement(s *ast.ForStatement) {
	scope := a.table.EnterScope(ScopeBlock)
	scope.Loop = true

	if s.Init != nil {
		a.checkStatement(s.Init)
	}
	if s.Condition != nil {
		a.checkCondition(s.Condition)
	}
	if s.Post != nil {
		a.checkExpr(s.Post)
	}
	for _, stmt := range s.Body.Statements {
		a.checkStatement(stmt)
	}

	a.table.ExitScope()
}

func (a *Analyzer) checkForeachStatement(s *ast.ForeachStatement) {
	tv := a.checkExpr(s.Collection)

	var elem types.Type = types.Unknown
	if arr, ok := tv.Type.(*types.ArrayType); ok {
		elem = arr.Element
	} else if tv.Type != types.Unknown {
		a.errorf(errors.TypeMismatch, s.Collection.Pos(), "foreach requires an array, got %s", tv.Type)
	}

	scope := a.table.EnterScope(ScopeBlock)
	scope.Loop = true

	sym := &Symbol{
		Name:        s.Variable.Value,
		Kind:        SymbolVariable,
		Type:        elem,
		Pos:         s.Variable.Pos(),
		Initialized: true,
	}
	if err := a.table.Declare(sym); err != nil {
		a.errorf(errors.DuplicateDeclaration, s.Variable.Pos(), "%s", err)
	} else {
		a.info.Defs[s] = sym
	}

	for _, stmt := range s.Body.Statements {
		a.checkStatement(stmt)
	}

	a.table.ExitScope()
}

// checkSwitchStatement checks the subject, requires each case value to
// be comparable with it under == (same type, or null against a
// reference type), and opens a break-targetable scope per
// arm. Cases fall through; only an explicit break leaves the switch.
func (a *Analyzer) checkSwitchStatement(s *ast.SwitchStatement) {
	subj := a.checkExpr(s.Subject)

	for _, c := range s.Cases {
		if c.Value != nil {
			tv := a.checkExpr(c.Value)
			if !types.Comparable(subj.Type, tv.Type) {
				a.errorf(errors.TypeMismatch, c.Value.Pos(), "case value of type %s does not match switch subject of type %s", tv.Type, subj.Type)
			}
		}

		scope := a.table.EnterScope(ScopeBlock)
		scope.Breakable = true
		for _, stmt := range c.Body {
			a.checkStatement(stmt)
		}
		a.table.ExitScope()
	}
}

func (a *Analyzer) checkReturn(s *ast.ReturnStatement) {
	if a.currentFunc == nil {
		a.errorf(errors.ReturnOutsideFunction, s.Pos(), "return outside of a function")
		if s.Value != nil {
			a.checkExpr(s.Value)
		}
		return
	}

	ret := a.currentFunc.ReturnType
	if s.Value == nil {
		if ret != types.Void && ret != types.Unknown {
			a.errorf(errors.ReturnTypeMismatch, s.Pos(), "missing return value, expected %s", ret)
		}
		return
	}

	tv := a.checkExpr(s.Value)
	if ret == types.Void {
		a.errorf(errors.ReturnTypeMismatch, s.Value.Pos(), "void function cannot return a value")
		return
	}
	if !types.AssignableTo(tv.Type, ret) {
		a.errorf(errors.ReturnTypeMismatch, s.Value.Pos(), "cannot return %s, expected %s", tv.Type, ret)
	}
}

func (a *Analyzer) checkCatchHandler(s *ast.TryCatchStatement) {
	a.table.EnterScope(ScopeBlock)

	sym := &Symbol{
		Name:        s.Param.Value,
		Kind:        SymbolVariable,
		Type:        types.String,
		Pos:         s.Param.Pos(),
		Initialized: true,
	}
	if err := a.table.Declare(sym); err != nil {
		a.errorf(errors.DuplicateDeclaration, s.Param.Pos(), "%s", err)
	} else {
		a.info.Defs[s] = sym
	}

	for _, stmt := range s.Handler.Statements {
		a.checkStatement(stmt)
	}

	a.table.ExitScope()
}
