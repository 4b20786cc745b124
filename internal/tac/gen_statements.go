package tac

import (
	"strconv"

	"github.com/compiscript/compiscript/internal/ast"
)

func (g *Generator) genStatement(stmt ast.Statement) {
	switch s := stmt.(type) {
	case *ast.VarDeclaration:
		g.genDeclaration(s, s.Value)
	case *ast.ConstDeclaration:
		g.genDeclaration(s, s.Value)
	case *ast.ExpressionStatement:
		if s.Expression != nil {
			g.genExpr(s.Expression)
		}
	case *ast.PrintStatement:
		v := g.genExpr(s.Value)
		g.emit(param(v))
		g.emit(call("print", 1))
	case *ast.BlockStatement:
		for _, inner := range s.Statements {
			g.genStatement(inner)
		}
	case *ast.IfStatement:
		g.genIf(s)
	case *ast.WhileStatement:
		g.genWhile(s)
	case *ast.DoWhileStatement:
		g.genDoWhile(s)
	case *ast.ForStatement:
		g.genFor(s)
	case *ast.ForeachStatement:
		g.genForeach(s)
	case *ast.SwitchStatement:
		g.genSwitch(s)
	case *ast.BreakStatement:
		if target, ok := g.breakTarget(); ok {
			g.emit(goTo(target))
		}
	case *ast.ContinueStatement:
		if target, ok := g.continueTarget(); ok {
			g.emit(goTo(target))
		}
	case *ast.ReturnStatement:
		if s.Value != nil {
			v := g.genExpr(s.Value)
			g.emit(ret(v))
		} else {
			g.emit(ret(nil))
		}
	case *ast.TryCatchStatement:
		g.genTryCatch(s)
	case *ast.FunctionDeclaration:
		// Functions declared inside a body are emitted once the
		// enclosing function closes.
		g.pending = append(g.pending, s)
	}
}

// genDeclaration stores an initializer into the declared symbol's slot.
// Globals got their G[k] slots up front; locals allocate a frame slot on
// first touch.
func (g *Generator) genDeclaration(stmt ast.Statement, value ast.Expression) {
	sym, ok := g.info.Defs[stmt]
	if !ok {
		return
	}
	loc := g.location(sym)
	if value == nil {
		return
	}
	v := g.genExpr(value)
	g.emit(assign(loc, v))
}

// genIf lowers an if statement onto the IF_TRUE/IF_FALSE/IF_END label
// family. A missing else collapses the false label into the end label.
func (g *Generator) genIf(s *ast.IfStatement) {
	k := g.nextLabelID()
	trueLabel := labelName("IF_TRUE", k)
	endLabel := labelName("IF_END", k)
	falseLabel := endLabel
	if s.Else != nil {
		falseLabel = labelName("IF_FALSE", k)
	}

	g.genCondition(s.Condition, trueLabel, falseLabel)

	g.emit(label(trueLabel))
	g.genStatement(s.Then)
	if s.Else != nil {
		g.emit(goTo(endLabel))
		g.emit(label(falseLabel))
		g.genStatement(s.Else)
	}
	g.emit(label(endLabel))
}

// genWhile lowers a while loop. Continue jumps to the start label and
// break to the end label.
func (g *Generator) genWhile(s *ast.WhileStatement) {
	k := g.nextLabelID()
	startLabel := labelName("STARTWHILE", k)
	trueLabel := labelName("LABEL_TRUE", k)
	endLabel := labelName("ENDWHILE", k)

	g.emit(label(startLabel))
	g.genCondition(s.Condition, trueLabel, endLabel)

	g.emit(label(trueLabel))
	g.pushLoop(loopContext{continueLabel: startLabel, breakLabel: endLabel, isLoop: true})
	g.genStatement(s.Body)
	g.popLoop()

	g.emit(goTo(startLabel))
	g.emit(label(endLabel))
}

// genDoWhile lowers a do-while: the body label comes first and the test
// jumps back on true.
func (g *Generator) genDoWhile(s *ast.DoWhileStatement) {
	k := g.nextLabelID()
	startLabel := labelName("STARTDO", k)
	condLabel := labelName("DOCOND", k)
	endLabel := labelName("ENDDO", k)

	g.emit(label(startLabel))
	g.pushLoop(loopContext{continueLabel: condLabel, breakLabel: endLabel, isLoop: true})
	g.genStatement(s.Body)
	g.popLoop()

	g.emit(label(condLabel))
	g.genCondition(s.Condition, startLabel, endLabel)
	g.emit(label(endLabel))
}

// genFor hoists the initializer, then lowers onto the while scheme with
// the step appended before the back-jump. Continue targets the step.
func (g *Generator) genFor(s *ast.ForStatement) {
	if s.Init != nil {
		g.genStatement(s.Init)
	}

	k := g.nextLabelID()
	startLabel := labelName("STARTWHILE", k)
	trueLabel := labelName("LABEL_TRUE", k)
	stepLabel := labelName("FORSTEP", k)
	endLabel := labelName("ENDWHILE", k)

	g.emit(label(startLabel))
	if s.Condition != nil {
		g.genCondition(s.Condition, trueLabel, endLabel)
	}
	g.emit(label(trueLabel))

	g.pushLoop(loopContext{continueLabel: stepLabel, breakLabel: endLabel, isLoop: true})
	g.genStatement(s.Body)
	g.popLoop()

	g.emit(label(stepLabel))
	if s.Post != nil {
		g.genExpr(s.Post)
	}
	g.emit(goTo(startLabel))
	g.emit(label(endLabel))
}

// genForeach materializes an integer index and lowers onto the while
// scheme, with the collection length obtained from the backend's len
// intrinsic.
func (g *Generator) genForeach(s *ast.ForeachStatement) {
	arr := g.ensureTemp(g.genExpr(s.Collection))

	g.emit(param(arr))
	g.emit(call("len", 1))
	length := g.newTemp()
	g.emit(assign(length, R))

	index := g.newTemp()
	g.emit(assign(index, IntConst{Value: 0}))

	k := g.nextLabelID()
	startLabel := labelName("STARTWHILE", k)
	trueLabel := labelName("LABEL_TRUE", k)
	stepLabel := labelName("FORSTEP", k)
	endLabel := labelName("ENDWHILE", k)

	g.emit(label(startLabel))
	cond := g.newTemp()
	g.emit(binary(cond, index, "<", length))
	g.emit(ifGoto(cond, trueLabel))
	g.emit(goTo(endLabel))

	g.emit(label(trueLabel))
	if sym, ok := g.info.Defs[s]; ok {
		loc := g.location(sym)
		g.emit(assign(loc, Cell{Base: arr, Index: index}))
	}

	g.pushLoop(loopContext{continueLabel: stepLabel, breakLabel: endLabel, isLoop: true})
	g.genStatement(s.Body)
	g.popLoop()

	g.emit(label(stepLabel))
	g.emit(binary(index, index, "+", IntConst{Value: 1}))
	g.emit(goTo(startLabel))
	g.emit(label(endLabel))
}

// genSwitch lowers a switch to sequential equality tests that jump into
// a run of case bodies. Bodies fall through to the next case's body; an
// explicit break jumps to the end label. The default case is tried last.
func (g *Generator) genSwitch(s *ast.SwitchStatement) {
	k := g.nextLabelID()
	endLabel := labelName("ENDSWITCH", k)
	defaultLabel := labelName("DEFAULT", k)

	subject := g.ensureTemp(g.genExpr(s.Subject))

	caseLabels := make(map[*ast.CaseClause]string)
	hasDefault := false
	caseIndex := 0
	for _, c := range s.Cases {
		if c.Value == nil {
			hasDefault = true
			caseLabels[c] = defaultLabel
			continue
		}
		caseLabels[c] = labelName("CASE", k) + "_" + strconv.Itoa(caseIndex)
		caseIndex++
	}

	for _, c := range s.Cases {
		if c.Value == nil {
			continue
		}
		v := g.genExpr(c.Value)
		t := g.newTemp()
		g.emit(binary(t, subject, "==", v))
		g.emit(ifGoto(t, caseLabels[c]))
	}
	if hasDefault {
		g.emit(goTo(defaultLabel))
	} else {
		g.emit(goTo(endLabel))
	}

	g.pushLoop(loopContext{breakLabel: endLabel, isLoop: false})
	for _, c := range s.Cases {
		g.emit(label(caseLabels[c]))
		for _, stmt := range c.Body {
			g.genStatement(stmt)
		}
	}
	g.popLoop()

	g.emit(label(endLabel))
}

// genTryCatch lowers the syntactic try/catch: the protected body runs,
// then control skips the handler. No unwinding is attached; the labels
// keep the shape visible to the backend.
func (g *Generator) genTryCatch(s *ast.TryCatchStatement) {
	k := g.nextLabelID()
	catchLabel := labelName("CATCH", k)
	endLabel := labelName("ENDTRY", k)

	g.genStatement(s.Body)
	g.emit(goTo(endLabel))

	g.emit(label(catchLabel))
	if sym, ok := g.info.Defs[s]; ok {
		loc := g.location(sym)
		g.emit(assign(loc, StrConst{Value: ""}))
	}
	g.genStatement(s.Handler)
	g.emit(label(endLabel))
}

