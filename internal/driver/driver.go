// Package driver runs the staged compilation pipeline: lex, parse,
// semantic analysis, and TAC generation. Each stage consumes the
// previous stage's artifact; analysis runs only when parsing reported no
// errors, and TAC is generated only when analysis is clean.
package driver

import (
	"github.com/compiscript/compiscript/internal/ast"
	"github.com/compiscript/compiscript/internal/errors"
	"github.com/compiscript/compiscript/internal/lexer"
	"github.com/compiscript/compiscript/internal/mips"
	"github.com/compiscript/compiscript/internal/parser"
	"github.com/compiscript/compiscript/internal/semantic"
	"github.com/compiscript/compiscript/internal/tac"
	"github.com/compiscript/compiscript/internal/types"
)

// Result is the artifact bundle of one compilation.
type Result struct {
	Program *ast.Program
	Info    *semantic.Info
	Table   *semantic.SymbolTable

	// SyntaxErrors and Diagnostics partition the failure modes: parse
	// failures carry exit code 2, semantic failures exit code 1.
	SyntaxErrors []errors.Diagnostic
	Diagnostics  []errors.Diagnostic

	// TAC is the lowered instruction stream, present only when both
	// lists are empty.
	TAC []tac.Instruction

	// GlobalSize is the number of bytes of global storage the TAC
	// stream addresses.
	GlobalSize int
}

// Ok reports whether the run produced no diagnostics.
func (r *Result) Ok() bool {
	return len(r.SyntaxErrors) == 0 && len(r.Diagnostics) == 0
}

// All returns every diagnostic of the run, syntax first.
func (r *Result) All() []errors.Diagnostic {
	out := make([]errors.Diagnostic, 0, len(r.SyntaxErrors)+len(r.Diagnostics))
	out = append(out, r.SyntaxErrors...)
	out = append(out, r.Diagnostics...)
	return out
}

// Compile runs the pipeline over one source buffer.
func Compile(source string) *Result {
	res := &Result{}

	l := lexer.New(source)
	p := parser.New(l)
	res.Program = p.ParseProgram()

	for _, perr := range p.Errors() {
		res.SyntaxErrors = append(res.SyntaxErrors, errors.New(errors.Syntax, perr.Pos, "%s", perr.Message))
	}

	// A broken parse would drown the analyzer in follow-on noise;
	// semantic analysis only runs on a syntactically clean tree.
	analyzer := semantic.NewAnalyzer()
	if len(res.SyntaxErrors) == 0 {
		analyzer.Analyze(res.Program)
	}
	res.Info = analyzer.Info()
	res.Table = analyzer.Table()
	res.Diagnostics = analyzer.Diagnostics()

	if !res.Ok() {
		return res
	}

	gen := tac.NewGenerator(res.Info)
	res.TAC = gen.Generate(res.Program)
	res.GlobalSize = gen.GlobalSize()

	return res
}

// MIPSClasses derives the backend class metadata from the analysis and
// the TAC stream. The constructor a newC allocator dispatches is the
// class's own init function when the stream defines one (declared or
// synthesized for field initializers), else the nearest ancestor's.
func (r *Result) MIPSClasses() []mips.Class {
	var classes []mips.Class
	if r.Info == nil {
		return classes
	}

	defined := make(map[string]bool)
	for _, in := range r.TAC {
		if in.Op == tac.OpFuncBegin {
			defined[in.Name] = true
		}
	}

	for _, cls := range r.classTypesInOrder() {
		ctor := ""
		if own := tac.ConstructorName(cls.Name); defined[own] {
			ctor = own
		} else if owner := cls.ConstructorOwner(); owner != nil {
			ctor = tac.ConstructorName(owner.Name)
		}
		classes = append(classes, mips.Class{
			Name:        cls.Name,
			Size:        cls.Size(),
			Constructor: ctor,
		})
	}
	return classes
}

// classTypesInOrder walks the program so the class list is deterministic.
func (r *Result) classTypesInOrder() []*types.ClassType {
	var out []*types.ClassType
	if r.Program == nil {
		return out
	}
	for _, stmt := range r.Program.Statements {
		decl, ok := stmt.(*ast.ClassDeclaration)
		if !ok {
			continue
		}
		if cls, found := r.Info.Classes[decl]; found {
			out = append(out, cls)
		}
	}
	return out
}

// EmitMIPS lowers the TAC stream to assembly text. The result is only
// meaningful on a clean run.
func (r *Result) EmitMIPS() string {
	gen := mips.New(r.GlobalSize, r.MIPSClasses())
	return gen.Generate(r.TAC)
}
