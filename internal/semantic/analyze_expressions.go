package semantic

import (
	"github.com/compiscript/compiscript/internal/ast"
	"github.com/compiscript/compiscript/internal/errors"
	"github.com/compiscript/compiscript/internal/types"
)

// checkExpr assigns a type and a value category to an expression node,
// records the result in the Info table, and returns it. On a rule
// violation it reports a diagnostic and recovers with Unknown.
func (a *Analyzer) checkExpr(e ast.Expression) TypeAndValue {
	var tv TypeAndValue

	switch expr := e.(type) {
	case *ast.IntegerLiteral:
		tv = TypeAndValue{Type: types.Integer}
	case *ast.StringLiteral:
		tv = TypeAndValue{Type: types.String}
	case *ast.BooleanLiteral:
		tv = TypeAndValue{Type: types.Boolean}
	case *ast.NullLiteral:
		tv = TypeAndValue{Type: types.Null}
	case *ast.ArrayLiteral:
		tv = a.checkArrayLiteral(expr)
	case *ast.Identifier:
		tv = a.checkIdentifier(expr, false)
	case *ast.UnaryExpression:
		tv = a.checkUnary(expr)
	case *ast.BinaryExpression:
		tv = a.checkBinary(expr)
	case *ast.TernaryExpression:
		tv = a.checkTernary(expr)
	case *ast.AssignExpression:
		tv = a.checkAssign(expr)
	case *ast.IndexExpression:
		tv = a.checkIndex(expr)
	case *ast.MemberExpression:
		tv = a.checkMember(expr)
	case *ast.CallExpression:
		tv = a.checkCall(expr)
	case *ast.NewExpression:
		tv = a.checkNew(expr)
	case *ast.ThisExpression:
		tv = a.checkThis(expr)
	case *ast.SuperExpression:
		a.errorf(errors.TypeMismatch, expr.Pos(), "'super' can only be used to access parent members")
		tv = TypeAndValue{Type: types.Unknown}
	default:
		tv = TypeAndValue{Type: types.Unknown}
	}

	a.info.Types[e] = tv
	return tv
}

// checkIdentifier resolves a name. With forWrite set, the read-side
// checks (uninitialized use, value misuse of classes and functions) are
// skipped: the caller validates writability itself.
func (a *Analyzer) checkIdentifier(expr *ast.Identifier, forWrite bool) TypeAndValue {
	sym, ok := a.table.Resolve(expr.Value)
	if !ok {
		a.errorf(errors.UndeclaredIdentifier, expr.Pos(), "undeclared identifier '%s'", expr.Value)
		return TypeAndValue{Type: types.Unknown}
	}
	a.info.Uses[expr] = sym

	if !forWrite {
		switch sym.Kind {
		case SymbolClass:
			a.errorf(errors.TypeMismatch, expr.Pos(), "class '%s' used as a value", expr.Value)
			return TypeAndValue{Type: types.Unknown}
		case SymbolFunction:
			a.errorf(errors.TypeMismatch, expr.Pos(), "function '%s' used as a value", expr.Value)
			return TypeAndValue{Type: types.Unknown}
		case SymbolVariable:
			if !sym.Initialized {
				a.errorf(errors.UninitializedRead, expr.Pos(), "variable '%s' is read before being initialized", expr.Value)
			}
		}
	}

	lvalue := sym.Kind == SymbolVariable || sym.Kind == SymbolParameter
	return TypeAndValue{Type: sym.Type, Lvalue: lvalue}
}

func (a *Analyzer) checkArrayLiteral(expr *ast.ArrayLiteral) TypeAndValue {
	if len(expr.Elements) == 0 {
		return TypeAndValue{Type: types.NewArray(types.Unknown)}
	}

	first := a.checkExpr(expr.Elements[0])
	elem := first.Type
	for _, el := range expr.Elements[1:] {
		tv := a.checkExpr(el)
		if !tv.Type.Equals(elem) && tv.Type != types.Unknown && elem != types.Unknown {
			a.errorf(errors.BadArrayLiteral, el.Pos(),
				"array literal elements must share one type: got %s, expected %s", tv.Type, elem)
		}
	}

	return TypeAndValue{Type: types.NewArray(elem)}
}

func (a *Analyzer) checkUnary(expr *ast.UnaryExpression) TypeAndValue {
	tv := a.checkExpr(expr.Operand)

	switch expr.Operator {
	case "-":
		if tv.Type != types.Integer && tv.Type != types.Unknown {
			a.errorf(errors.TypeMismatch, expr.Pos(), "operator - requires integer, got %s", tv.Type)
			return TypeAndValue{Type: types.Unknown}
		}
		return TypeAndValue{Type: types.Integer}
	case "!":
		if tv.Type != types.Boolean && tv.Type != types.Unknown {
			a.errorf(errors.TypeMismatch, expr.Pos(), "operator ! requires boolean, got %s", tv.Type)
			return TypeAndValue{Type: types.Unknown}
		}
		return TypeAndValue{Type: types.Boolean}
	}
	return TypeAndValue{Type: types.Unknown}
}

func (a *Analyzer) checkBinary(expr *ast.BinaryExpression) TypeAndValue {
	lt := a.checkExpr(expr.Left).Type
	rt := a.checkExpr(expr.Right).Type

	mismatch := func() TypeAndValue {
		a.errorf(errors.TypeMismatch, expr.Pos(),
			"operator %s cannot be applied to %s and %s", expr.Operator, lt, rt)
		return TypeAndValue{Type: types.Unknown}
	}

	if lt == types.Unknown || rt == types.Unknown {
		switch expr.Operator {
		case "==", "!=", "<", "<=", ">", ">=", "&&", "||":
			return TypeAndValue{Type: types.Boolean}
		default:
			return TypeAndValue{Type: types.Unknown}
		}
	}

	switch expr.Operator {
	case "+":
		switch {
		case lt == types.Integer && rt == types.Integer:
			return TypeAndValue{Type: types.Integer}
		case lt == types.String && rt == types.String:
			return TypeAndValue{Type: types.String}
		// Coerced concatenation: one string side, one integer side.
		case lt == types.String && rt == types.Integer,
			lt == types.Integer && rt == types.String:
			return TypeAndValue{Type: types.String}
		}
		return mismatch()

	case "-", "*", "/", "%":
		if lt == types.Integer && rt == types.Integer {
			return TypeAndValue{Type: types.Integer}
		}
		return mismatch()

	case "<", "<=", ">", ">=":
		if lt == types.Integer && rt == types.Integer || lt == types.String && rt == types.String {
			return TypeAndValue{Type: types.Boolean}
		}
		return mismatch()

	case "==", "!=":
		if types.Comparable(lt, rt) {
			return TypeAndValue{Type: types.Boolean}
		}
		return mismatch()

	case "&&", "||":
		if lt == types.Boolean && rt == types.Boolean {
			return TypeAndValue{Type: types.Boolean}
		}
		return mismatch()
	}

	return TypeAndValue{Type: types.Unknown}
}

func (a *Analyzer) checkTernary(expr *ast.TernaryExpression) TypeAndValue {
	cond := a.checkExpr(expr.Condition)
	if cond.Type != types.Boolean && cond.Type != types.Unknown {
		a.errorf(errors.TypeMismatch, expr.Condition.Pos(), "ternary condition must be boolean, got %s", cond.Type)
	}

	thenTV := a.checkExpr(expr.Then)
	elseTV := a.checkExpr(expr.Else)

	if thenTV.Type == types.Unknown {
		return TypeAndValue{Type: elseTV.Type}
	}
	if elseTV.Type == types.Unknown {
		return TypeAndValue{Type: thenTV.Type}
	}
	if !thenTV.Type.Equals(elseTV.Type) {
		a.errorf(errors.TypeMismatch, expr.Pos(),
			"ternary branches must have the same type: %s and %s", thenTV.Type, elseTV.Type)
		return TypeAndValue{Type: types.Unknown}
	}
	return TypeAndValue{Type: thenTV.Type}
}

// checkAssign validates target writability and value assignability, and
// marks identifier targets initialized.
func (a *Analyzer) checkAssign(expr *ast.AssignExpression) TypeAndValue {
	var target TypeAndValue

	switch t := expr.Target.(type) {
	case *ast.Identifier:
		target = a.checkIdentifier(t, true)
		a.info.Types[expr.Target] = target
		if sym, ok := a.info.Uses[t]; ok {
			if !sym.Writable() {
				a.errorf(errors.AssignToImmutable, t.Pos(), "cannot assign to %s '%s'", sym.Kind, t.Value)
			} else if sym.Field != nil && a.constFields[sym.Field] {
				a.errorf(errors.AssignToImmutable, t.Pos(), "cannot assign to constant field '%s'", t.Value)
			} else {
				sym.Initialized = true
			}
		}
	case *ast.IndexExpression:
		target = a.checkExpr(t)
	case *ast.MemberExpression:
		target = a.checkExpr(t)
		if sel, ok := a.info.Selections[t]; ok {
			if sel.Method != nil {
				a.errorf(errors.AssignToImmutable, t.Pos(), "cannot assign to method '%s'", t.Member.Value)
			} else if sel.Field != nil && a.constFields[sel.Field] {
				a.errorf(errors.AssignToImmutable, t.Pos(), "cannot assign to constant field '%s'", t.Member.Value)
			}
		}
	default:
		a.checkExpr(expr.Target)
		a.errorf(errors.TypeMismatch, expr.Target.Pos(), "expression is not assignable")
		target = TypeAndValue{Type: types.Unknown}
	}

	value := a.checkExpr(expr.Value)
	if value.Type == types.Void {
		a.errorf(errors.TypeMismatch, expr.Value.Pos(), "cannot assign a void call")
	} else if !types.AssignableTo(value.Type, target.Type) {
		a.errorf(errors.TypeMismatch, expr.Value.Pos(),
			"cannot assign %s to a target of type %s", value.Type, target.Type)
	}

	return TypeAndValue{Type: target.Type}
}

func (a *Analyzer) checkIndex(expr *ast.IndexExpression) TypeAndValue {
	left := a.checkExpr(expr.Left)
	idx := a.checkExpr(expr.Index)

	if idx.Type != types.Integer && idx.Type != types.Unknown {
		a.errorf(errors.BadIndex, expr.Index.Pos(), "array index must be integer, got %s", idx.Type)
	}

	arr, ok := left.Type.(*types.ArrayType)
	if !ok {
		if left.Type != types.Unknown {
			a.errorf(errors.BadIndex, expr.Pos(), "cannot index a value of type %s", left.Type)
		}
		return TypeAndValue{Type: types.Unknown, Lvalue: true}
	}

	return TypeAndValue{Type: arr.Element, Lvalue: true}
}

// checkMember resolves obj.name as a field or method of the static type
// of obj, walking the inheritance chain.
func (a *Analyzer) checkMember(expr *ast.MemberExpression) TypeAndValue {
	// super.m resolves in the parent's method table only.
	if _, isSuper := expr.Object.(*ast.SuperExpression); isSuper {
		return a.checkSuperMember(expr)
	}

	obj := a.checkExpr(expr.Object)
	cls, ok := obj.Type.(*types.ClassType)
	if !ok {
		if obj.Type != types.Unknown {
			a.errorf(errors.BadPropertyAccess, expr.Pos(),
				"type %s has no properties", obj.Type)
		}
		return TypeAndValue{Type: types.Unknown}
	}

	if field := cls.LookupField(expr.Member.Value); field != nil {
		a.info.Selections[expr] = &Selection{Class: cls, Field: field}
		return TypeAndValue{Type: field.Type, Lvalue: true}
	}
	if method := cls.LookupMethod(expr.Member.Value); method != nil {
		a.info.Selections[expr] = &Selection{Class: cls, Method: method}
		return TypeAndValue{Type: method}
	}

	a.errorf(errors.BadPropertyAccess, expr.Member.Pos(),
		"class '%s' has no property '%s'", cls.Name, expr.Member.Value)
	return TypeAndValue{Type: types.Unknown}
}

func (a *Analyzer) checkSuperMember(expr *ast.MemberExpression) TypeAndValue {
	sup := expr.Object.(*ast.SuperExpression)
	if a.currentClass == nil {
		a.errorf(errors.ThisOutsideClass, sup.Pos(), "'super' used outside of a class")
		return TypeAndValue{Type: types.Unknown}
	}
	parent := a.currentClass.Parent
	if parent == nil {
		a.errorf(errors.BadInheritance, sup.Pos(), "class '%s' has no parent class", a.currentClass.Name)
		return TypeAndValue{Type: types.Unknown}
	}
	a.info.Types[expr.Object] = TypeAndValue{Type: parent}

	if method := parent.LookupMethod(expr.Member.Value); method != nil {
		a.info.Selections[expr] = &Selection{Class: parent, Method: method}
		return TypeAndValue{Type: method}
	}

	a.errorf(errors.BadMethodCall, expr.Member.Pos(),
		"class '%s' has no method '%s'", parent.Name, expr.Member.Value)
	return TypeAndValue{Type: types.Unknown}
}

func (a *Analyzer) checkCall(expr *ast.CallExpression) TypeAndValue {
	switch callee := expr.Callee.(type) {
	case *ast.Identifier:
		sym, ok := a.table.Resolve(callee.Value)
		if !ok {
			a.errorf(errors.UndeclaredIdentifier, callee.Pos(), "undeclared identifier '%s'", callee.Value)
			a.checkArgsRecover(expr.Arguments)
			return TypeAndValue{Type: types.Unknown}
		}
		a.info.Uses[callee] = sym

		switch sym.Kind {
		case SymbolFunction:
			sig := sym.Type.(*types.FunctionType)
			a.info.Types[expr.Callee] = TypeAndValue{Type: sig}
			a.checkArguments(sig, expr.Arguments, expr, callee.Value)
			return TypeAndValue{Type: sig.ReturnType}
		case SymbolClass:
			a.errorf(errors.TypeMismatch, callee.Pos(), "cannot call class '%s'; use new %s(...)", callee.Value, callee.Value)
		default:
			a.errorf(errors.TypeMismatch, callee.Pos(), "'%s' is not a function", callee.Value)
		}
		a.checkArgsRecover(expr.Arguments)
		return TypeAndValue{Type: types.Unknown}

	case *ast.MemberExpression:
		sel := a.resolveMethodCallee(callee)
		if sel == nil {
			a.checkArgsRecover(expr.Arguments)
			return TypeAndValue{Type: types.Unknown}
		}
		a.checkArguments(sel.Method, expr.Arguments, expr, callee.Member.Value)
		return TypeAndValue{Type: sel.Method.ReturnType}

	default:
		a.checkExpr(expr.Callee)
		a.errorf(errors.TypeMismatch, expr.Callee.Pos(), "expression is not callable")
		a.checkArgsRecover(expr.Arguments)
		return TypeAndValue{Type: types.Unknown}
	}
}

// resolveMethodCallee resolves the obj.m of a method call: the method is
// looked up on the static type of the receiver, walking ancestors, or in
// the parent's method table only for super.m. Returns nil after a
// diagnostic when no method is found.
func (a *Analyzer) resolveMethodCallee(callee *ast.MemberExpression) *Selection {
	if _, isSuper := callee.Object.(*ast.SuperExpression); isSuper {
		tv := a.checkSuperMember(callee)
		a.info.Types[callee] = tv
		if sel := a.info.Selections[callee]; sel != nil && sel.Method != nil {
			return sel
		}
		return nil
	}

	obj := a.checkExpr(callee.Object)
	cls, ok := obj.Type.(*types.ClassType)
	if !ok {
		if obj.Type != types.Unknown {
			a.errorf(errors.BadMethodCall, callee.Pos(), "type %s has no methods", obj.Type)
		}
		a.info.Types[callee] = TypeAndValue{Type: types.Unknown}
		return nil
	}

	if method := cls.LookupMethod(callee.Member.Value); method != nil {
		sel := &Selection{Class: cls, Method: method}
		a.info.Selections[callee] = sel
		a.info.Types[callee] = TypeAndValue{Type: method}
		return sel
	}

	if field := cls.LookupField(callee.Member.Value); field != nil {
		a.errorf(errors.BadMethodCall, callee.Member.Pos(),
			"'%s' is a field of class '%s', not a method", callee.Member.Value, cls.Name)
	} else {
		a.errorf(errors.BadMethodCall, callee.Member.Pos(),
			"class '%s' has no method '%s'", cls.Name, callee.Member.Value)
	}
	a.info.Types[callee] = TypeAndValue{Type: types.Unknown}
	return nil
}

// checkArguments validates positional arity and per-argument
// assignability against a signature.
func (a *Analyzer) checkArguments(sig *types.FunctionType, args []ast.Expression, call ast.Expression, name string) {
	if len(args) != len(sig.Parameters) {
		a.errorf(errors.ArityMismatch, call.Pos(),
			"call to '%s': expected %d, got %d", name, len(sig.Parameters), len(args))
	}

	for i, arg := range args {
		tv := a.checkExpr(arg)
		if i >= len(sig.Parameters) {
			continue
		}
		if tv.Type == types.Void {
			a.errorf(errors.TypeMismatch, arg.Pos(), "cannot pass a void call as an argument")
			continue
		}
		if !types.AssignableTo(tv.Type, sig.Parameters[i]) {
			a.errorf(errors.TypeMismatch, arg.Pos(),
				"argument %d of '%s': cannot assign %s to parameter of type %s",
				i+1, name, tv.Type, sig.Parameters[i])
		}
	}
}

// checkArgsRecover types the arguments of a call whose callee failed, so
// nested errors still surface.
func (a *Analyzer) checkArgsRecover(args []ast.Expression) {
	for _, arg := range args {
		a.checkExpr(arg)
	}
}

func (a *Analyzer) checkNew(expr *ast.NewExpression) TypeAndValue {
	sym, ok := a.table.Resolve(expr.Class.Value)
	if !ok {
		a.errorf(errors.UndeclaredIdentifier, expr.Class.Pos(), "unknown class '%s'", expr.Class.Value)
		a.checkArgsRecover(expr.Arguments)
		return TypeAndValue{Type: types.Unknown}
	}
	a.info.Uses[expr.Class] = sym
	if sym.Kind != SymbolClass {
		a.errorf(errors.TypeMismatch, expr.Class.Pos(), "'%s' is not a class", expr.Class.Value)
		a.checkArgsRecover(expr.Arguments)
		return TypeAndValue{Type: types.Unknown}
	}

	cls := sym.Type.(*types.ClassType)
	a.info.NewClasses[expr] = cls

	if ctor := cls.LookupConstructor(); ctor != nil {
		a.checkArguments(ctor, expr.Arguments, expr, expr.Class.Value)
	} else if len(expr.Arguments) != 0 {
		a.errorf(errors.ArityMismatch, expr.Pos(),
			"class '%s' has no constructor: expected 0, got %d", cls.Name, len(expr.Arguments))
		a.checkArgsRecover(expr.Arguments)
	}

	return TypeAndValue{Type: cls}
}

func (a *Analyzer) checkThis(expr *ast.ThisExpression) TypeAndValue {
	if a.currentClass == nil {
		a.errorf(errors.ThisOutsideClass, expr.Pos(), "'this' used outside of a class")
		return TypeAndValue{Type: types.Unknown}
	}
	return TypeAndValue{Type: a.currentClass}
}
