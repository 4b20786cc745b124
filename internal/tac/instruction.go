// Package tac defines the Three-Address Code intermediate representation:
// the instruction set, its textual format, and the generator that lowers
// an analyzed AST to a flat instruction stream.
//
// The textual format is the contract the backend reads. One instruction
// per line; function bodies are bracketed by `FUNCTION name:` and
// `END FUNCTION name`; labels end with a colon. The format round-trips
// through Parse.
package tac

import (
	"fmt"
	"strconv"
)

// Op is the instruction opcode.
type Op int

const (
	// OpAssign is a copy: x := y.
	OpAssign Op = iota

	// OpBinary is x := y op z with op in + - * / %, the comparisons, or
	// && ||.
	OpBinary

	// OpUnary is x := op y with op in - !.
	OpUnary

	// OpLabel defines a jump target: L:.
	OpLabel

	// OpGoto is an unconditional jump: GOTO L.
	OpGoto

	// OpIf is a conditional jump on a boolean temp: IF cond > 0 GOTO L.
	OpIf

	// OpParam pushes one argument, leftmost first; the receiver is the
	// first param of a method call.
	OpParam

	// OpCall invokes a function with n stacked params; the result
	// appears in R.
	OpCall

	// OpReturn returns from the current function, optionally with a value.
	OpReturn

	// OpFuncBegin and OpFuncEnd bracket a function body.
	OpFuncBegin
	OpFuncEnd
)

// Instruction is one TAC instruction. The populated fields depend on Op.
type Instruction struct {
	Op       Op
	Dst      Operand // OpAssign, OpBinary, OpUnary
	Src1     Operand // OpAssign, OpBinary, OpUnary, OpIf, OpParam, OpReturn
	Src2     Operand // OpBinary
	Operator string  // OpBinary, OpUnary
	Label    string  // OpLabel, OpGoto, OpIf
	Name     string  // OpCall, OpFuncBegin, OpFuncEnd
	NArgs    int     // OpCall
}

// String renders the instruction in the textual TAC format.
func (in Instruction) String() string {
	switch in.Op {
	case OpAssign:
		return in.Dst.String() + " := " + in.Src1.String()
	case OpBinary:
		return fmt.Sprintf("%s := %s %s %s", in.Dst, in.Src1, in.Operator, in.Src2)
	case OpUnary:
		return fmt.Sprintf("%s := %s%s", in.Dst, in.Operator, in.Src1)
	case OpLabel:
		return in.Label + ":"
	case OpGoto:
		return "GOTO " + in.Label
	case OpIf:
		return fmt.Sprintf("IF %s > 0 GOTO %s", in.Src1, in.Label)
	case OpParam:
		return "PARAM " + in.Src1.String()
	case OpCall:
		return "CALL " + in.Name + "," + strconv.Itoa(in.NArgs)
	case OpReturn:
		if in.Src1 != nil {
			return "RETURN " + in.Src1.String()
		}
		return "RETURN"
	case OpFuncBegin:
		return "FUNCTION " + in.Name + ":"
	case OpFuncEnd:
		return "END FUNCTION " + in.Name
	}
	return ""
}

// Convenience constructors used by the generator.

func assign(dst, src Operand) Instruction {
	return Instruction{Op: OpAssign, Dst: dst, Src1: src}
}

func binary(dst, left Operand, op string, right Operand) Instruction {
	return Instruction{Op: OpBinary, Dst: dst, Src1: left, Operator: op, Src2: right}
}

func unary(dst Operand, op string, src Operand) Instruction {
	return Instruction{Op: OpUnary, Dst: dst, Operator: op, Src1: src}
}

func label(name string) Instruction {
	return Instruction{Op: OpLabel, Label: name}
}

func goTo(name string) Instruction {
	return Instruction{Op: OpGoto, Label: name}
}

func ifGoto(cond Operand, name string) Instruction {
	return Instruction{Op: OpIf, Src1: cond, Label: name}
}

func param(v Operand) Instruction {
	return Instruction{Op: OpParam, Src1: v}
}

func call(name string, nargs int) Instruction {
	return Instruction{Op: OpCall, Name: name, NArgs: nargs}
}

func ret(v Operand) Instruction {
	return Instruction{Op: OpReturn, Src1: v}
}

func funcBegin(name string) Instruction {
	return Instruction{Op: OpFuncBegin, Name: name}
}

func funcEnd(name string) Instruction {
	return Instruction{Op: OpFuncEnd, Name: name}
}
