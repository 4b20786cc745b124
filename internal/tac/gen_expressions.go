package tac

import (
	"github.com/compiscript/compiscript/internal/ast"
	"github.com/compiscript/compiscript/internal/semantic"
)

// genExpr lowers one expression in value context and returns the operand
// holding its result. Subexpressions evaluate left to right, one fresh
// temporary per intermediate result.
func (g *Generator) genExpr(e ast.Expression) Operand {
	switch expr := e.(type) {
	case *ast.IntegerLiteral:
		return IntConst{Value: expr.Value}
	case *ast.StringLiteral:
		return StrConst{Value: expr.Value}
	case *ast.BooleanLiteral:
		if expr.Value {
			return IntConst{Value: 1}
		}
		return IntConst{Value: 0}
	case *ast.NullLiteral:
		return IntConst{Value: 0}
	case *ast.Identifier:
		return g.genIdentifier(expr)
	case *ast.ThisExpression:
		return Frame{Offset: -1}
	case *ast.UnaryExpression:
		operand := g.genExpr(expr.Operand)
		t := g.newTemp()
		g.emit(unary(t, expr.Operator, operand))
		return t
	case *ast.BinaryExpression:
		return g.genBinary(expr)
	case *ast.TernaryExpression:
		return g.genTernary(expr)
	case *ast.AssignExpression:
		return g.genAssign(expr)
	case *ast.IndexExpression:
		arr := g.genExpr(expr.Left)
		index := g.ensureTemp(g.genExpr(expr.Index))
		t := g.newTemp()
		g.emit(assign(t, Cell{Base: arr, Index: index}))
		return t
	case *ast.MemberExpression:
		return g.genMemberRead(expr)
	case *ast.CallExpression:
		return g.genCall(expr)
	case *ast.NewExpression:
		return g.genNew(expr)
	case *ast.ArrayLiteral:
		return g.genArrayLiteral(expr)
	}
	return IntConst{Value: 0}
}

// genIdentifier reads a symbol's storage. Bare field names inside a
// method address the receiver.
func (g *Generator) genIdentifier(expr *ast.Identifier) Operand {
	sym, ok := g.info.Uses[expr]
	if !ok {
		return IntConst{Value: 0}
	}
	return g.location(sym)
}

// genBinary lowers arithmetic and comparison operators directly; the
// short-circuit operators route through value-context boolean lowering.
func (g *Generator) genBinary(expr *ast.BinaryExpression) Operand {
	if expr.Operator == "&&" || expr.Operator == "||" {
		return g.genBoolValue(expr)
	}

	left := g.genExpr(expr.Left)
	right := g.genExpr(expr.Right)
	t := g.newTemp()
	g.emit(binary(t, left, expr.Operator, right))
	return t
}

func (g *Generator) genTernary(expr *ast.TernaryExpression) Operand {
	k := g.nextLabelID()
	trueLabel := labelName("IF_TRUE", k)
	falseLabel := labelName("IF_FALSE", k)
	endLabel := labelName("IF_END", k)

	result := g.newTemp()
	g.genCondition(expr.Condition, trueLabel, falseLabel)

	g.emit(label(trueLabel))
	thenV := g.genExpr(expr.Then)
	g.emit(assign(result, thenV))
	g.emit(goTo(endLabel))

	g.emit(label(falseLabel))
	elseV := g.genExpr(expr.Else)
	g.emit(assign(result, elseV))

	g.emit(label(endLabel))
	return result
}

// genAssign lowers target = value: the value computes into an operand,
// then stores into the target's storage location.
func (g *Generator) genAssign(expr *ast.AssignExpression) Operand {
	switch target := expr.Target.(type) {
	case *ast.Identifier:
		v := g.genExpr(expr.Value)
		loc := g.genIdentifier(target)
		g.emit(assign(loc, v))
		return loc

	case *ast.IndexExpression:
		arr := g.genExpr(target.Left)
		index := g.ensureTemp(g.genExpr(target.Index))
		v := g.genExpr(expr.Value)
		g.emit(assign(Cell{Base: arr, Index: index}, v))
		return v

	case *ast.MemberExpression:
		base := g.genExpr(target.Object)
		sel := g.info.Selections[target]
		if sel == nil || sel.Field == nil {
			return g.genExpr(expr.Value)
		}
		v := g.genExpr(expr.Value)
		g.emit(assign(Cell{Base: base, Index: IntConst{Value: int64(sel.Field.Offset)}}, v))
		return v
	}

	return g.genExpr(expr.Value)
}

// genMemberRead lowers obj.f into t := obj[off].
func (g *Generator) genMemberRead(expr *ast.MemberExpression) Operand {
	base := g.genExpr(expr.Object)
	sel := g.info.Selections[expr]
	if sel == nil || sel.Field == nil {
		return base
	}
	t := g.newTemp()
	g.emit(assign(t, Cell{Base: base, Index: IntConst{Value: int64(sel.Field.Offset)}}))
	return t
}

// genCall lowers calls. Methods pass the receiver as the first param;
// the result is copied out of R.
func (g *Generator) genCall(expr *ast.CallExpression) Operand {
	switch callee := expr.Callee.(type) {
	case *ast.Identifier:
		sym := g.info.Uses[callee]

		// A bare method name inside a class body calls through this.
		if sym != nil && sym.Scope != nil && sym.Scope.Kind == semantic.ScopeClass {
			return g.emitCall(callee.Value, Frame{Offset: -1}, expr.Arguments)
		}
		return g.emitCall(callee.Value, nil, expr.Arguments)

	case *ast.MemberExpression:
		if _, isSuper := callee.Object.(*ast.SuperExpression); isSuper {
			return g.emitCall(callee.Member.Value, Frame{Offset: -1}, expr.Arguments)
		}
		receiver := g.genExpr(callee.Object)
		return g.emitCall(callee.Member.Value, receiver, expr.Arguments)
	}

	return IntConst{Value: 0}
}

// emitCall evaluates the arguments left to right, emits the PARAM
// sequence (receiver first when present), the CALL, and the copy out of
// R.
func (g *Generator) emitCall(name string, receiver Operand, args []ast.Expression) Operand {
	operands := make([]Operand, 0, len(args)+1)
	if receiver != nil {
		operands = append(operands, receiver)
	}
	for _, arg := range args {
		operands = append(operands, g.genExpr(arg))
	}

	for _, op := range operands {
		g.emit(param(op))
	}
	g.emit(call(name, len(operands)))

	t := g.newTemp()
	g.emit(assign(t, R))
	return t
}

// genNew lowers new C(args) to CALL newC,argc; the backend implements
// newC as allocation plus constructor dispatch, with the fresh object
// address appearing in R.
func (g *Generator) genNew(expr *ast.NewExpression) Operand {
	cls := g.info.NewClasses[expr]
	name := "new" + expr.Class.Value
	if cls != nil {
		name = AllocatorName(cls.Name)
	}

	operands := make([]Operand, 0, len(expr.Arguments))
	for _, arg := range expr.Arguments {
		operands = append(operands, g.genExpr(arg))
	}
	for _, op := range operands {
		g.emit(param(op))
	}
	g.emit(call(name, len(operands)))

	t := g.newTemp()
	g.emit(assign(t, R))
	return t
}

// genArrayLiteral allocates a fresh array via the backend's newarray
// intrinsic and stores each element.
func (g *Generator) genArrayLiteral(expr *ast.ArrayLiteral) Operand {
	g.emit(param(IntConst{Value: int64(len(expr.Elements))}))
	g.emit(call("newarray", 1))
	arr := g.newTemp()
	g.emit(assign(arr, R))

	for i, el := range expr.Elements {
		v := g.genExpr(el)
		index := g.newTemp()
		g.emit(assign(index, IntConst{Value: int64(i)}))
		g.emit(assign(Cell{Base: arr, Index: index}, v))
	}

	return arr
}

// ensureTemp copies a non-temporary operand into a fresh temporary.
// Array cells always index through a temporary so the backend can tell
// element indices (temporaries) from field byte offsets (literals).
func (g *Generator) ensureTemp(op Operand) Operand {
	if _, ok := op.(Temp); ok {
		return op
	}
	t := g.newTemp()
	g.emit(assign(t, op))
	return t
}

// genCondition lowers a boolean expression in control context: evaluate
// and jump to trueLabel or falseLabel, short-circuiting && and ||
// through their continuation labels.
func (g *Generator) genCondition(e ast.Expression, trueLabel, falseLabel string) {
	switch expr := e.(type) {
	case *ast.BooleanLiteral:
		if expr.Value {
			g.emit(goTo(trueLabel))
		} else {
			g.emit(goTo(falseLabel))
		}
		return

	case *ast.UnaryExpression:
		if expr.Operator == "!" {
			g.genCondition(expr.Operand, falseLabel, trueLabel)
			return
		}

	case *ast.BinaryExpression:
		switch expr.Operator {
		case "&&":
			cont := labelName("AND_CONT", g.nextLabelID())
			g.genCondition(expr.Left, cont, falseLabel)
			g.emit(label(cont))
			g.genCondition(expr.Right, trueLabel, falseLabel)
			return
		case "||":
			cont := labelName("OR_CONT", g.nextLabelID())
			g.genCondition(expr.Left, trueLabel, cont)
			g.emit(label(cont))
			g.genCondition(expr.Right, trueLabel, falseLabel)
			return
		case "==", "!=", "<", "<=", ">", ">=":
			left := g.genExpr(expr.Left)
			right := g.genExpr(expr.Right)
			t := g.newTemp()
			g.emit(binary(t, left, expr.Operator, right))
			g.emit(ifGoto(t, trueLabel))
			g.emit(goTo(falseLabel))
			return
		}
	}

	// Any other boolean expression: compute a 0/1 temp and branch on it.
	cond := g.ensureTemp(g.genExpr(e))
	g.emit(ifGoto(cond, trueLabel))
	g.emit(goTo(falseLabel))
}

// genBoolValue lowers a short-circuit expression in value context: a
// small label structure sets a fresh temporary to 0 or 1.
func (g *Generator) genBoolValue(e ast.Expression) Operand {
	k := g.nextLabelID()
	trueLabel := labelName("IF_TRUE", k)
	falseLabel := labelName("IF_FALSE", k)
	endLabel := labelName("IF_END", k)

	result := g.newTemp()
	g.genCondition(e, trueLabel, falseLabel)

	g.emit(label(trueLabel))
	g.emit(assign(result, IntConst{Value: 1}))
	g.emit(goTo(endLabel))

	g.emit(label(falseLabel))
	g.emit(assign(result, IntConst{Value: 0}))

	g.emit(label(endLabel))
	return result
}
