// Package mips lowers the TAC contract to MIPS32 assembly runnable under
// SPIM and MARS.
//
// The lowering is deliberately naive: every TAC slot lives in memory and
// each instruction loads its operands, computes, and stores back. The
// calling convention matches the TAC storage model: the caller pushes
// params so that fp[-1] is the leftmost (the receiver for methods), the
// callee saves $ra/$fp and reserves one word per local and temporary,
// and R is $v0.
//
// String runtime operations (concatenation, numeric conversion) are
// declared but not implemented: they assemble to calls into stub labels.
package mips

import (
	"fmt"
	"strings"

	"github.com/compiscript/compiscript/internal/tac"
)

// Class carries the metadata the backend needs to synthesize the newC
// allocators: instance size and the TAC-level name of the constructor
// body to dispatch (possibly inherited), or "" when the class has none.
type Class struct {
	Name        string
	Size        int
	Constructor string
}

// Generator translates one TAC stream into assembly text.
type Generator struct {
	out     strings.Builder
	classes map[string]Class

	globalSize int

	strings     map[string]string // literal value -> data label
	stringOrder []string

	// Per-function layout, rebuilt at each FUNCTION marker.
	localBytes int
	tempBase   int

	params []tac.Operand // buffered PARAM operands until the CALL
}

// New creates a generator. globalSize is the number of bytes of G[...]
// storage; classes describes every class the program instantiates.
func New(globalSize int, classes []Class) *Generator {
	byName := make(map[string]Class, len(classes))
	for _, c := range classes {
		byName[c.Name] = c
	}
	return &Generator{
		classes:    byName,
		globalSize: globalSize,
		strings:    make(map[string]string),
	}
}

// Generate emits the full assembly module for a TAC stream.
func (g *Generator) Generate(instrs []tac.Instruction) string {
	g.collectStrings(instrs)
	g.emitData()

	g.line(".text")
	g.line(".globl main")

	for i := 0; i < len(instrs); i++ {
		in := instrs[i]
		if in.Op != tac.OpFuncBegin {
			continue
		}
		end := i + 1
		for end < len(instrs) && instrs[end].Op != tac.OpFuncEnd {
			end++
		}
		g.emitFunction(in.Name, instrs[i+1:end])
		i = end
	}

	g.emitRuntime()
	return g.out.String()
}

func (g *Generator) line(format string, args ...any) {
	fmt.Fprintf(&g.out, format+"\n", args...)
}

func (g *Generator) collectStrings(instrs []tac.Instruction) {
	add := func(op tac.Operand) {
		s, ok := op.(tac.StrConst)
		if !ok {
			return
		}
		if _, seen := g.strings[s.Value]; !seen {
			label := fmt.Sprintf("str_%d", len(g.stringOrder))
			g.strings[s.Value] = label
			g.stringOrder = append(g.stringOrder, s.Value)
		}
	}
	for _, in := range instrs {
		for _, op := range []tac.Operand{in.Dst, in.Src1, in.Src2} {
			if op != nil {
				add(op)
			}
		}
	}
}

func (g *Generator) emitData() {
	g.line(".data")
	size := g.globalSize
	if size < 4 {
		size = 4
	}
	g.line("globals: .space %d", size)
	for _, value := range g.stringOrder {
		g.line("%s: .asciiz %q", g.strings[value], value)
	}
	g.line("newline: .asciiz \"\\n\"")
	g.line("")
}

// frameLayout scans a body for the highest local offset and temporary
// number so the prologue can reserve the frame in one step.
func (g *Generator) frameLayout(body []tac.Instruction) (localBytes, tempCount int) {
	maxLocal := -4
	maxTemp := -1

	var scan func(op tac.Operand)
	scan = func(op tac.Operand) {
		switch o := op.(type) {
		case tac.Frame:
			if o.Offset >= 0 && o.Offset > maxLocal {
				maxLocal = o.Offset
			}
		case tac.Temp:
			if o.N > maxTemp {
				maxTemp = o.N
			}
		case tac.Cell:
			scan(o.Base)
			scan(o.Index)
		}
	}

	for _, in := range body {
		for _, op := range []tac.Operand{in.Dst, in.Src1, in.Src2} {
			if op != nil {
				scan(op)
			}
		}
	}

	return maxLocal + 4, maxTemp + 1
}

func (g *Generator) emitFunction(name string, body []tac.Instruction) {
	localBytes, tempCount := g.frameLayout(body)
	g.localBytes = localBytes
	g.tempBase = localBytes + 4

	reserve := localBytes + tempCount*4

	g.line("%s:", name)
	g.line("  addiu $sp, $sp, -8")
	g.line("  sw $ra, 4($sp)")
	g.line("  sw $fp, 0($sp)")
	g.line("  move $fp, $sp")
	if reserve > 0 {
		g.line("  addiu $sp, $sp, -%d", reserve)
	}

	for _, in := range body {
		g.emitInstruction(name, in)
	}

	g.emitEpilogue(name)
	g.line("")
}

func (g *Generator) emitEpilogue(name string) {
	g.line("%s_epilogue:", name)
	if name == "main" {
		g.line("  li $v0, 10")
		g.line("  syscall")
		return
	}
	g.line("  move $sp, $fp")
	g.line("  lw $fp, 0($sp)")
	g.line("  lw $ra, 4($sp)")
	g.line("  addiu $sp, $sp, 8")
	g.line("  jr $ra")
}

// address renders the memory operand of a frame slot, temp or global.
// Parameters sit above the saved registers; locals and temporaries below
// the frame pointer.
func (g *Generator) address(op tac.Operand) string {
	switch o := op.(type) {
	case tac.Frame:
		if o.Offset < 0 {
			// fp[-i] -> 8 + 4*(i-1) above $fp
			return fmt.Sprintf("%d($fp)", 8+4*(-o.Offset-1))
		}
		return fmt.Sprintf("-%d($fp)", o.Offset+4)
	case tac.Temp:
		return fmt.Sprintf("-%d($fp)", g.tempBase+4*o.N)
	case tac.Global:
		return fmt.Sprintf("globals+%d", o.Offset)
	}
	return ""
}

// load places an operand's value into a register. $t8/$t9 are reserved
// for cell addressing.
func (g *Generator) load(op tac.Operand, reg string) {
	switch o := op.(type) {
	case tac.IntConst:
		g.line("  li %s, %d", reg, o.Value)
	case tac.StrConst:
		g.line("  la %s, %s", reg, g.strings[o.Value])
	case tac.Register:
		g.line("  move %s, $v0", reg)
	case tac.Frame, tac.Temp, tac.Global:
		g.line("  lw %s, %s", reg, g.address(op))
	case tac.Cell:
		g.cellAddress(o)
		g.line("  lw %s, 0($t8)", reg)
	}
}

func (g *Generator) store(reg string, op tac.Operand) {
	switch o := op.(type) {
	case tac.Frame, tac.Temp, tac.Global:
		g.line("  sw %s, %s", reg, g.address(op))
	case tac.Cell:
		g.cellAddress(o)
		g.line("  sw %s, 0($t8)", reg)
	case tac.Register:
		g.line("  move $v0, %s", reg)
	}
}

// cellAddress leaves the effective address of base[index] in $t8.
// A literal index is a field byte offset; a temporary index is an array
// element index scaled by the word size.
func (g *Generator) cellAddress(c tac.Cell) {
	g.load(c.Base, "$t8")
	switch idx := c.Index.(type) {
	case tac.IntConst:
		g.line("  addiu $t8, $t8, %d", idx.Value)
	default:
		g.load(idx, "$t9")
		g.line("  sll $t9, $t9, 2")
		g.line("  addu $t8, $t8, $t9")
	}
}

var binaryOps = map[string]string{
	"+":  "addu",
	"-":  "subu",
	"*":  "mul",
	"/":  "div",
	"%":  "rem",
	"==": "seq",
	"!=": "sne",
	"<":  "slt",
	"<=": "sle",
	">":  "sgt",
	">=": "sge",
	"&&": "and",
	"||": "or",
}

func (g *Generator) emitInstruction(fn string, in tac.Instruction) {
	switch in.Op {
	case tac.OpAssign:
		g.load(in.Src1, "$t0")
		g.store("$t0", in.Dst)

	case tac.OpBinary:
		g.load(in.Src1, "$t0")
		g.load(in.Src2, "$t1")
		g.line("  %s $t2, $t0, $t1", binaryOps[in.Operator])
		g.store("$t2", in.Dst)

	case tac.OpUnary:
		g.load(in.Src1, "$t0")
		if in.Operator == "-" {
			g.line("  negu $t2, $t0")
		} else {
			g.line("  xori $t2, $t0, 1")
		}
		g.store("$t2", in.Dst)

	case tac.OpLabel:
		g.line("%s:", in.Label)

	case tac.OpGoto:
		g.line("  j %s", in.Label)

	case tac.OpIf:
		g.load(in.Src1, "$t0")
		g.line("  bgtz $t0, %s", in.Label)

	case tac.OpParam:
		g.params = append(g.params, in.Src1)

	case tac.OpCall:
		g.emitCall(in)
		g.params = g.params[:0]

	case tac.OpReturn:
		if in.Src1 != nil {
			g.load(in.Src1, "$v0")
		}
		g.line("  j %s_epilogue", fn)
	}
}

// pushParams pushes the buffered params right to left so the leftmost
// ends up at the lowest address, where the callee expects fp[-1].
func (g *Generator) pushParams(params []tac.Operand) {
	for i := len(params) - 1; i >= 0; i-- {
		g.load(params[i], "$t0")
		g.line("  addiu $sp, $sp, -4")
		g.line("  sw $t0, 0($sp)")
	}
}

func (g *Generator) popParams(n int) {
	if n > 0 {
		g.line("  addiu $sp, $sp, %d", 4*n)
	}
}

func (g *Generator) emitCall(in tac.Instruction) {
	// Intrinsics first.
	switch in.Name {
	case "print":
		g.emitPrint()
		return
	case "len", "newarray", "concat", "str":
		g.pushParams(g.params)
		g.line("  jal rt_%s", in.Name)
		g.popParams(len(g.params))
		return
	}

	// Backend-synthesized allocator: CALL newC,argc allocates sizeof(C)
	// and dispatches the constructor body with the fresh address as the
	// receiver.
	if cls, ok := g.classForAllocator(in.Name); ok {
		g.line("  li $a0, %d", max(cls.Size, 4))
		g.line("  li $v0, 9")
		g.line("  syscall")
		if cls.Constructor != "" {
			g.line("  move $s0, $v0")
			g.pushParams(g.params)
			g.line("  addiu $sp, $sp, -4")
			g.line("  sw $s0, 0($sp)")
			g.line("  jal %s", cls.Constructor)
			g.popParams(len(g.params) + 1)
			g.line("  move $v0, $s0")
		}
		return
	}

	g.pushParams(g.params)
	g.line("  jal %s", in.Name)
	g.popParams(len(g.params))
}

func (g *Generator) classForAllocator(callName string) (Class, bool) {
	name, ok := strings.CutPrefix(callName, "new")
	if !ok {
		return Class{}, false
	}
	cls, found := g.classes[name]
	return cls, found
}

// emitPrint lowers the print intrinsic: string literals use syscall 4,
// everything else prints as an integer via syscall 1.
func (g *Generator) emitPrint() {
	if len(g.params) != 1 {
		return
	}
	if _, isStr := g.params[0].(tac.StrConst); isStr {
		g.load(g.params[0], "$a0")
		g.line("  li $v0, 4")
	} else {
		g.load(g.params[0], "$a0")
		g.line("  li $v0, 1")
	}
	g.line("  syscall")
	g.line("  la $a0, newline")
	g.line("  li $v0, 4")
	g.line("  syscall")
}

// emitRuntime appends the declared-but-unimplemented runtime stubs.
func (g *Generator) emitRuntime() {
	g.line("# runtime stubs")
	g.line("rt_len:")
	g.line("  lw $v0, 0($sp)")
	g.line("  lw $v0, -4($v0)")
	g.line("  jr $ra")
	g.line("rt_newarray:")
	g.line("  lw $a0, 0($sp)")
	g.line("  sll $a0, $a0, 2")
	g.line("  addiu $a0, $a0, 4")
	g.line("  li $v0, 9")
	g.line("  syscall")
	g.line("  lw $t0, 0($sp)")
	g.line("  sw $t0, 0($v0)")
	g.line("  addiu $v0, $v0, 4")
	g.line("  jr $ra")
	g.line("rt_concat:")
	g.line("  jr $ra")
	g.line("rt_str:")
	g.line("  jr $ra")
}

func max(a, b int) int {
	if a > b {
		return a
	}
	return b
}
