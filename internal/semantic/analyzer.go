// Package semantic implements the Compiscript middle end: the scoped
// symbol table, the type-and-scope checker, and the expression evaluator
// that assigns every expression a type and a value category.
//
// Analysis runs in two passes. The first collects class and function
// signatures so forward references and recursion work; the second checks
// bodies. Diagnostics accumulate: analysis recovers from every error by
// assigning the Unknown sentinel and continuing.
package semantic

import (
	"github.com/compiscript/compiscript/internal/ast"
	"github.com/compiscript/compiscript/internal/errors"
	"github.com/compiscript/compiscript/internal/lexer"
	"github.com/compiscript/compiscript/internal/types"
)

// Analyzer checks a program against the language rules and fills the
// Info side table.
type Analyzer struct {
	table *SymbolTable
	info  *Info
	diags errors.List

	currentClass *types.ClassType
	currentFunc  *types.FunctionType

	classOrder  []*ast.ClassDeclaration
	constFields map[*types.Field]bool
}

// NewAnalyzer creates an analyzer with an empty global scope.
func NewAnalyzer() *Analyzer {
	return &Analyzer{
		table:       NewSymbolTable(),
		info:        NewInfo(),
		constFields: make(map[*types.Field]bool),
	}
}

// Analyze runs both passes over the program.
func (a *Analyzer) Analyze(program *ast.Program) {
	a.collect(program)
	a.checkProgram(program)
}

// Diagnostics returns the accumulated diagnostics in reporting order.
func (a *Analyzer) Diagnostics() []errors.Diagnostic { return a.diags.All() }

// Failed reports whether any diagnostic was produced.
func (a *Analyzer) Failed() bool { return !a.diags.Empty() }

// Info returns the filled side table.
func (a *Analyzer) Info() *Info { return a.info }

// Table returns the symbol table, with the scope tree intact.
func (a *Analyzer) Table() *SymbolTable { return a.table }

func (a *Analyzer) errorf(kind errors.Kind, pos lexer.Position, format string, args ...any) {
	a.diags.Add(kind, pos, format, args...)
}

// IsConstField reports whether a class field was declared const.
func (a *Analyzer) IsConstField(f *types.Field) bool { return a.constFields[f] }

// declareQuiet inserts a symbol and swallows duplicate errors. Used when
// re-declaring class members into a class scope after the collect pass
// already reported the collision.
func (a *Analyzer) declareQuiet(sym *Symbol) {
	_ = a.table.Declare(sym)
}

// resolveTypeExpr maps a syntactic type annotation to a type term.
// Unresolvable names yield Unknown after a diagnostic.
func (a *Analyzer) resolveTypeExpr(te ast.TypeExpression) types.Type {
	switch t := te.(type) {
	case *ast.NamedType:
		switch t.Name {
		case "integer":
			return types.Integer
		case "string":
			return types.String
		case "boolean":
			return types.Boolean
		case "void":
			return types.Void
		}
		sym, ok := a.table.Resolve(t.Name)
		if !ok {
			a.errorf(errors.UndeclaredIdentifier, t.Pos(), "unknown type '%s'", t.Name)
			return types.Unknown
		}
		if sym.Kind != SymbolClass {
			a.errorf(errors.TypeMismatch, t.Pos(), "'%s' is not a type", t.Name)
			return types.Unknown
		}
		return sym.Type
	case *ast.ArrayTypeExpression:
		return types.NewArray(a.resolveTypeExpr(t.Element))
	}
	return types.Unknown
}

// functionSignature builds a signature from a declaration's annotations.
// A missing return annotation means void.
func (a *Analyzer) functionSignature(decl *ast.FunctionDeclaration) *types.FunctionType {
	params := make([]types.Type, 0, len(decl.Parameters))
	for _, p := range decl.Parameters {
		var pt types.Type = types.Unknown
		if p.TypeAnn != nil {
			pt = a.resolveTypeExpr(p.TypeAnn)
			if pt == types.Void {
				a.errorf(errors.TypeMismatch, p.TypeAnn.Pos(), "parameter '%s' cannot have type void", p.Name.Value)
				pt = types.Unknown
			}
		}
		params = append(params, pt)
	}

	var ret types.Type = types.Void
	if decl.ReturnType != nil {
		ret = a.resolveTypeExpr(decl.ReturnType)
	}

	return types.NewFunction(params, ret)
}

// collect is the first pass: class names, inheritance links, class
// members with field layout, and top-level function signatures.
func (a *Analyzer) collect(program *ast.Program) {
	// Class names first, so annotations and parent links can refer to
	// classes declared later in the file.
	for _, stmt := range program.Statements {
		decl, ok := stmt.(*ast.ClassDeclaration)
		if !ok {
			continue
		}
		cls := types.NewClass(decl.Name.Value)
		sym := &Symbol{Name: decl.Name.Value, Kind: SymbolClass, Type: cls, Pos: decl.Name.Pos()}
		if err := a.table.Declare(sym); err != nil {
			a.errorf(errors.DuplicateDeclaration, decl.Name.Pos(), "%s", err)
			continue
		}
		a.info.Classes[decl] = cls
		a.info.Defs[decl] = sym
		a.classOrder = append(a.classOrder, decl)
	}

	a.collectParents()

	// Members in topological order, parents before children, so
	// override checks and inherited layout see completed parents.
	for _, decl := range a.topoClasses() {
		a.collectClassMembers(decl, a.info.Classes[decl])
	}
	for _, decl := range a.topoClasses() {
		a.info.Classes[decl].Close()
	}

	// Top-level function signatures.
	for _, stmt := range program.Statements {
		decl, ok := stmt.(*ast.FunctionDeclaration)
		if !ok {
			continue
		}
		sig := a.functionSignature(decl)
		sym := &Symbol{Name: decl.Name.Value, Kind: SymbolFunction, Type: sig, Pos: decl.Name.Pos()}
		if err := a.table.Declare(sym); err != nil {
			a.errorf(errors.DuplicateDeclaration, decl.Name.Pos(), "%s", err)
			continue
		}
		a.info.Defs[decl] = sym
	}
}

// collectParents resolves `class C : P` links and rejects self and
// cyclic inheritance and non-class parents.
func (a *Analyzer) collectParents() {
	for _, decl := range a.classOrder {
		if decl.Parent == nil {
			continue
		}
		cls := a.info.Classes[decl]

		sym, ok := a.table.Resolve(decl.Parent.Value)
		if !ok {
			a.errorf(errors.BadInheritance, decl.Parent.Pos(), "unknown parent class '%s'", decl.Parent.Value)
			continue
		}
		if sym.Kind != SymbolClass {
			a.errorf(errors.BadInheritance, decl.Parent.Pos(), "'%s' is not a class", decl.Parent.Value)
			continue
		}
		parent := sym.Type.(*types.ClassType)
		if parent == cls {
			a.errorf(errors.BadInheritance, decl.Parent.Pos(), "class '%s' cannot inherit from itself", cls.Name)
			continue
		}
		cls.Parent = parent
	}

	// Break inheritance cycles so later passes terminate.
	for _, decl := range a.classOrder {
		cls := a.info.Classes[decl]
		seen := map[*types.ClassType]bool{cls: true}
		for p := cls.Parent; p != nil; p = p.Parent {
			if seen[p] {
				a.errorf(errors.BadInheritance, decl.Name.Pos(), "inheritance cycle through class '%s'", cls.Name)
				cls.Parent = nil
				break
			}
			seen[p] = true
		}
	}
}

// topoClasses orders class declarations parents-first.
func (a *Analyzer) topoClasses() []*ast.ClassDeclaration {
	declFor := make(map[*types.ClassType]*ast.ClassDeclaration, len(a.classOrder))
	for _, decl := range a.classOrder {
		declFor[a.info.Classes[decl]] = decl
	}

	var ordered []*ast.ClassDeclaration
	done := make(map[*types.ClassType]bool)

	var visit func(cls *types.ClassType)
	visit = func(cls *types.ClassType) {
		if cls == nil || done[cls] {
			return
		}
		done[cls] = true
		visit(cls.Parent)
		if decl, ok := declFor[cls]; ok {
			ordered = append(ordered, decl)
		}
	}

	for _, decl := range a.classOrder {
		visit(a.info.Classes[decl])
	}
	return ordered
}
