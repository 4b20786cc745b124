package tac

import (
	"github.com/compiscript/compiscript/internal/ast"
)

// ConstructorName returns the TAC-level name of a class's constructor
// body. `new C(args)` itself lowers to `CALL newC,argc`; the backend
// implements newC as allocation followed by a call to this function with
// the fresh address as the receiver.
func ConstructorName(className string) string { return "init" + className }

// AllocatorName returns the backend-synthesized allocator invoked by a
// new-expression.
func AllocatorName(className string) string { return "new" + className }

// genFunction lowers one function or method body. Counters reset here so
// temporaries and labels are locally stable.
func (g *Generator) genFunction(decl *ast.FunctionDeclaration, name string, isMethod bool, fieldInits []fieldInit) {
	g.tempCount = 0
	g.labelCount = 0
	g.frameOffset = 0
	g.loops = g.loops[:0]
	prevMethod := g.inMethod
	g.inMethod = isMethod

	g.emit(funcBegin(name))

	// Parameters: fp[-1], fp[-2], ... In methods fp[-1] is the receiver
	// and the declared parameters follow.
	base := 1
	if isMethod {
		base = 2
	}
	for i, p := range decl.Parameters {
		if sym, ok := g.info.ParamDefs[p]; ok {
			g.locations[sym] = Frame{Offset: -(base + i)}
		}
	}

	// Constructors first store the declared field initializers, then run
	// their own body.
	for _, f := range fieldInits {
		g.genFieldInit(f)
	}

	for _, stmt := range decl.Body.Statements {
		g.genStatement(stmt)
	}

	// Every function body ends on a return.
	if n := len(g.out); n == 0 || g.out[n-1].Op != OpReturn {
		g.emit(ret(nil))
	}

	g.emit(funcEnd(name))
	g.inMethod = prevMethod

	g.drainPending()
}

// fieldInit pairs a field's layout offset with its initializer.
type fieldInit struct {
	offset int
	value  ast.Expression
}

// genClass lowers every method of a class. The constructor body is
// emitted under ConstructorName; a class with field initializers but no
// declared constructor gets a synthetic one so the stores still run.
func (g *Generator) genClass(decl *ast.ClassDeclaration) {
	cls, ok := g.info.Classes[decl]
	if !ok {
		return
	}

	var fieldInits []fieldInit
	for _, stmt := range decl.Fields {
		var (
			name  string
			value ast.Expression
		)
		switch f := stmt.(type) {
		case *ast.VarDeclaration:
			name, value = f.Name.Value, f.Value
		case *ast.ConstDeclaration:
			name, value = f.Name.Value, f.Value
		default:
			continue
		}
		if value == nil {
			continue
		}
		if field := cls.OwnField(name); field != nil {
			fieldInits = append(fieldInits, fieldInit{offset: field.Offset, value: value})
		}
	}

	ctor := decl.Constructor()
	if ctor != nil {
		g.genFunction(ctor, ConstructorName(cls.Name), true, fieldInits)
	} else if len(fieldInits) > 0 {
		g.genSyntheticConstructor(cls.Name, fieldInits)
	}

	for _, m := range decl.Methods {
		if m.IsConstructor {
			continue
		}
		g.genFunction(m, m.Name.Value, true, nil)
	}
}

// genSyntheticConstructor emits a parameterless constructor holding only
// the field initializer stores.
func (g *Generator) genSyntheticConstructor(className string, fieldInits []fieldInit) {
	g.tempCount = 0
	g.labelCount = 0
	g.frameOffset = 0
	prevMethod := g.inMethod
	g.inMethod = true

	name := ConstructorName(className)
	g.emit(funcBegin(name))
	for _, f := range fieldInits {
		g.genFieldInit(f)
	}
	g.emit(ret(nil))
	g.emit(funcEnd(name))

	g.inMethod = prevMethod
}

// genFieldInit lowers one `let f: T = e;` class field into a store
// through the receiver.
func (g *Generator) genFieldInit(f fieldInit) {
	v := g.genExpr(f.value)
	g.emit(assign(Cell{Base: Frame{Offset: -1}, Index: IntConst{Value: int64(f.offset)}}, v))
}

// drainPending emits function declarations collected from inside other
// bodies.
func (g *Generator) drainPending() {
	for len(g.pending) > 0 {
		next := g.pending[0]
		g.pending = g.pending[1:]
		g.genFunction(next, next.Name.Value, false, nil)
	}
}

// genMain wraps the global-scope statements in a synthetic main.
// Declaration initializers store into their global slots; class and
// function declarations were emitted separately.
func (g *Generator) genMain(program *ast.Program) {
	g.tempCount = 0
	g.labelCount = 0
	g.frameOffset = 0
	g.loops = g.loops[:0]
	g.inMethod = false

	g.emit(funcBegin("main"))

	for _, stmt := range program.Statements {
		switch stmt.(type) {
		case *ast.FunctionDeclaration, *ast.ClassDeclaration:
			continue
		}
		g.genStatement(stmt)
	}

	if n := len(g.out); n == 0 || g.out[n-1].Op != OpReturn {
		g.emit(ret(nil))
	}
	g.emit(funcEnd("main"))

	g.drainPending()
}
