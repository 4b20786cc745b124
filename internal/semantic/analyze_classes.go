package semantic

import (
	"github.com/compiscript/compiscript/internal/ast"
	"github.com/compiscript/compiscript/internal/errors"
	"github.com/compiscript/compiscript/internal/types"
)

// collectClassMembers fills one class type with its fields, methods and
// constructor. The parent class is already complete.
func (a *Analyzer) collectClassMembers(decl *ast.ClassDeclaration, cls *types.ClassType) {
	for _, stmt := range decl.Fields {
		var (
			name    *ast.Identifier
			typeAnn ast.TypeExpression
			isConst bool
		)
		switch f := stmt.(type) {
		case *ast.VarDeclaration:
			name, typeAnn = f.Name, f.TypeAnn
		case *ast.ConstDeclaration:
			name, typeAnn, isConst = f.Name, f.TypeAnn, true
		default:
			continue
		}

		if cls.OwnField(name.Value) != nil || cls.OwnMethod(name.Value) != nil {
			a.errorf(errors.DuplicateDeclaration, name.Pos(), "'%s' is already declared in class '%s'", name.Value, cls.Name)
			continue
		}
		if cls.Parent != nil && cls.Parent.LookupField(name.Value) != nil {
			a.errorf(errors.DuplicateDeclaration, name.Pos(), "field '%s' is already declared in an ancestor of '%s'", name.Value, cls.Name)
			continue
		}

		var ft types.Type = types.Unknown
		if typeAnn != nil {
			ft = a.resolveTypeExpr(typeAnn)
			if ft == types.Void {
				a.errorf(errors.TypeMismatch, typeAnn.Pos(), "field '%s' cannot have type void", name.Value)
				ft = types.Unknown
			}
		} else {
			a.errorf(errors.TypeMismatch, name.Pos(), "field '%s' requires a type annotation", name.Value)
		}

		field := cls.AddField(name.Value, ft)
		if isConst {
			a.constFields[field] = true
		}
	}

	for _, m := range decl.Methods {
		if m.IsConstructor {
			if cls.Constructor != nil {
				a.errorf(errors.DuplicateDeclaration, m.Name.Pos(), "class '%s' already has a constructor", cls.Name)
				continue
			}
			sig := a.functionSignature(m)
			sig.ReturnType = types.Void
			cls.Constructor = sig
			continue
		}

		if cls.OwnMethod(m.Name.Value) != nil || cls.OwnField(m.Name.Value) != nil {
			a.errorf(errors.DuplicateDeclaration, m.Name.Pos(), "'%s' is already declared in class '%s'", m.Name.Value, cls.Name)
			continue
		}

		sig := a.functionSignature(m)

		// Child overrides parent by name; the signatures must match.
		if cls.Parent != nil {
			if inherited := cls.Parent.LookupMethod(m.Name.Value); inherited != nil && !types.SignaturesEqual(inherited, sig) {
				a.errorf(errors.OverrideSignatureMismatch, m.Name.Pos(),
					"method '%s' overrides '%s.%s' with signature %s, expected %s",
					m.Name.Value, cls.Parent.Name, m.Name.Value, sig, inherited)
			}
		}

		cls.AddMethod(m.Name.Value, sig)
	}
}

// checkClassBody opens the class scope, binds all visible members, and
// checks every method body with `this` in scope.
func (a *Analyzer) checkClassBody(decl *ast.ClassDeclaration) {
	cls, ok := a.info.Classes[decl]
	if !ok {
		return
	}
	classSym := a.info.Defs[decl]

	scope := a.table.EnterScope(ScopeClass)
	scope.Owner = classSym

	// Inherited fields first, then own, matching the layout order.
	for _, f := range cls.AllFields() {
		kind := SymbolVariable
		if a.constFields[f] {
			kind = SymbolConstant
		}
		a.declareQuiet(&Symbol{
			Name:        f.Name,
			Kind:        kind,
			Type:        f.Type,
			Pos:         decl.Name.Pos(),
			Initialized: true,
			Field:       f,
		})
	}

	// Methods, nearest declaration first so overrides shadow.
	for c := cls; c != nil; c = c.Parent {
		for _, name := range c.MethodOrder {
			a.declareQuiet(&Symbol{
				Name: name,
				Kind: SymbolFunction,
				Type: c.Methods[name],
				Pos:  decl.Name.Pos(),
			})
		}
	}

	prevClass := a.currentClass
	a.currentClass = cls

	// Field initializers are evaluated in constructor context.
	for _, stmt := range decl.Fields {
		a.checkFieldInitializer(cls, stmt)
	}

	for _, m := range decl.Methods {
		sig := cls.OwnMethod(m.Name.Value)
		if m.IsConstructor {
			sig = cls.Constructor
		}
		if sig == nil {
			// Declaration failed in the collect pass.
			continue
		}
		if m.IsConstructor {
			a.info.Defs[m] = &Symbol{Name: m.Name.Value, Kind: SymbolFunction, Type: sig, Pos: m.Name.Pos()}
		} else if sym := scope.Lookup(m.Name.Value); sym != nil {
			a.info.Defs[m] = sym
		}
		a.checkFunctionDecl(m, sig, cls)
	}

	a.currentClass = prevClass
	a.table.ExitScope()
}

func (a *Analyzer) checkFieldInitializer(cls *types.ClassType, stmt ast.Statement) {
	var (
		name  *ast.Identifier
		value ast.Expression
	)
	switch f := stmt.(type) {
	case *ast.VarDeclaration:
		name, value = f.Name, f.Value
	case *ast.ConstDeclaration:
		name, value = f.Name, f.Value
		if value == nil {
			a.errorf(errors.TypeMismatch, f.Pos(), "constant field '%s' requires an initializer", name.Value)
			return
		}
	default:
		return
	}
	if value == nil {
		return
	}

	field := cls.OwnField(name.Value)
	if field == nil {
		return
	}

	tv := a.checkExpr(value)
	if tv.Type == types.Void {
		a.errorf(errors.TypeMismatch, value.Pos(), "cannot initialize field '%s' with a void expression", name.Value)
		return
	}
	if !types.AssignableTo(tv.Type, field.Type) {
		a.errorf(errors.TypeMismatch, value.Pos(), "cannot initialize field '%s' of type %s with %s", name.Value, field.Type, tv.Type)
	}
}
