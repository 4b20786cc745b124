package tac

import (
	"fmt"

	"github.com/compiscript/compiscript/internal/ast"
	"github.com/compiscript/compiscript/internal/semantic"
	"github.com/compiscript/compiscript/internal/types"
)

// loopContext tracks the jump targets of the innermost enclosing loop or
// switch while its body is being lowered.
type loopContext struct {
	continueLabel string
	breakLabel    string
	isLoop        bool
}

// Generator lowers an analyzed program to a flat TAC instruction stream.
// It only reads the semantic Info side table; names are never re-resolved.
type Generator struct {
	info *semantic.Info
	out  []Instruction

	// Temporary and label counters reset at each function boundary so
	// generated code is locally stable.
	tempCount  int
	labelCount int

	loops []loopContext

	// locations maps symbols to their storage: global slots, frame
	// offsets, or receiver-relative field cells.
	locations    map[*semantic.Symbol]Operand
	globalOffset int
	frameOffset  int

	inMethod bool

	// pending holds function declarations found inside other bodies;
	// they are emitted after the enclosing function closes.
	pending []*ast.FunctionDeclaration
}

// NewGenerator creates a generator over the analyzer's side table.
func NewGenerator(info *semantic.Info) *Generator {
	return &Generator{
		info:      info,
		locations: make(map[*semantic.Symbol]Operand),
	}
}

// Generate lowers the whole program. Named functions and methods come
// first in source order; the global-scope statements are wrapped in a
// synthetic main at the end.
func (g *Generator) Generate(program *ast.Program) []Instruction {
	g.assignGlobalSlots(program)

	for _, stmt := range program.Statements {
		switch decl := stmt.(type) {
		case *ast.FunctionDeclaration:
			g.genFunction(decl, decl.Name.Value, false, nil)
		case *ast.ClassDeclaration:
			g.genClass(decl)
		}
	}

	g.genMain(program)

	return g.out
}

// assignGlobalSlots gives every top-level variable and constant a G[k]
// slot in declaration order.
func (g *Generator) assignGlobalSlots(program *ast.Program) {
	for _, stmt := range program.Statements {
		switch stmt.(type) {
		case *ast.VarDeclaration, *ast.ConstDeclaration:
			sym, ok := g.info.Defs[stmt]
			if !ok {
				continue
			}
			g.locations[sym] = Global{Offset: g.globalOffset}
			g.globalOffset += types.WordSize
		}
	}
}

// GlobalSize returns the number of bytes of global storage assigned.
func (g *Generator) GlobalSize() int { return g.globalOffset }

func (g *Generator) emit(in Instruction) {
	g.out = append(g.out, in)
}

func (g *Generator) newTemp() Temp {
	t := Temp{N: g.tempCount}
	g.tempCount++
	return t
}

// nextLabelID returns the monotonic counter value shared by the labels
// of one lowered construct.
func (g *Generator) nextLabelID() int {
	id := g.labelCount
	g.labelCount++
	return id
}

func labelName(family string, id int) string {
	return fmt.Sprintf("%s_%d", family, id)
}

// location returns the storage operand of a symbol, allocating a frame
// slot on first use for locals declared in the current function.
func (g *Generator) location(sym *semantic.Symbol) Operand {
	if loc, ok := g.locations[sym]; ok {
		return loc
	}

	// Field symbols address the receiver.
	if sym.Field != nil {
		return Cell{Base: Frame{Offset: -1}, Index: IntConst{Value: int64(sym.Field.Offset)}}
	}

	loc := Frame{Offset: g.frameOffset}
	g.frameOffset += types.WordSize
	g.locations[sym] = loc
	return loc
}

func (g *Generator) pushLoop(ctx loopContext) { g.loops = append(g.loops, ctx) }
func (g *Generator) popLoop()                 { g.loops = g.loops[:len(g.loops)-1] }

// breakTarget returns the innermost break label (loop or switch).
func (g *Generator) breakTarget() (string, bool) {
	if len(g.loops) == 0 {
		return "", false
	}
	return g.loops[len(g.loops)-1].breakLabel, true
}

// continueTarget returns the innermost loop continue label, skipping
// switch contexts.
func (g *Generator) continueTarget() (string, bool) {
	for i := len(g.loops) - 1; i >= 0; i-- {
		if g.loops[i].isLoop {
			return g.loops[i].continueLabel, true
		}
	}
	return "", false
}
