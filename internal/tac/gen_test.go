package tac

import (
	"strings"
	"testing"

	"github.com/compiscript/compiscript/internal/lexer"
	"github.com/compiscript/compiscript/internal/parser"
	"github.com/compiscript/compiscript/internal/semantic"
)

// lower parses, analyzes and lowers a clean program.
func lower(t *testing.T, input string) []Instruction {
	t.Helper()

	p := parser.New(lexer.New(input))
	program := p.ParseProgram()
	if len(p.Errors()) != 0 {
		t.Fatalf("parser errors: %v", p.Errors())
	}

	a := semantic.NewAnalyzer()
	a.Analyze(program)
	if a.Failed() {
		t.Fatalf("semantic errors: %v", a.Diagnostics())
	}

	return NewGenerator(a.Info()).Generate(program)
}

func lowerText(t *testing.T, input string) string {
	t.Helper()
	return Format(lower(t, input))
}

// functionBody extracts the instructions between FUNCTION name: and its
// END marker.
func functionBody(instrs []Instruction, name string) []Instruction {
	for i, in := range instrs {
		if in.Op == OpFuncBegin && in.Name == name {
			for j := i + 1; j < len(instrs); j++ {
				if instrs[j].Op == OpFuncEnd {
					return instrs[i+1 : j]
				}
			}
		}
	}
	return nil
}

func TestGlobalStatementsWrappedInMain(t *testing.T) {
	text := lowerText(t, "let x: integer = 1;")

	if !strings.Contains(text, "FUNCTION main:") {
		t.Errorf("missing synthetic main:\n%s", text)
	}
	if !strings.Contains(text, "END FUNCTION main") {
		t.Errorf("missing main end marker:\n%s", text)
	}
	if !strings.Contains(text, "G[0] := 1") {
		t.Errorf("missing global store:\n%s", text)
	}
}

func TestGlobalSlotsInDeclarationOrder(t *testing.T) {
	text := lowerText(t, `
		let a: integer = 1;
		let b: integer = 2;
		let c: integer = 3;
	`)

	for _, want := range []string{"G[0] := 1", "G[4] := 2", "G[8] := 3"} {
		if !strings.Contains(text, want) {
			t.Errorf("missing %q:\n%s", want, text)
		}
	}
}

// The parameter-arity scenario: the method call pushes the receiver
// first, then the arguments leftmost-first.
func TestMethodCallParamOrder(t *testing.T) {
	text := lowerText(t, `
		class T { function add(a: integer, b: integer): integer { return a + b; } }
		let o: T = new T();
		let r: integer = o.add(1, 2);
	`)

	wantSeq := []string{
		"PARAM G[0]",
		"PARAM 1",
		"PARAM 2",
		"CALL add,3",
	}
	pos := 0
	for _, want := range wantSeq {
		idx := strings.Index(text[pos:], want)
		if idx < 0 {
			t.Fatalf("missing %q after position %d:\n%s", want, pos, text)
		}
		pos += idx + len(want)
	}

	if !strings.Contains(text, ":= R") {
		t.Errorf("call result should be copied out of R:\n%s", text)
	}
	if !strings.Contains(text, "CALL newT,0") {
		t.Errorf("constructor call should lower to the allocator:\n%s", text)
	}
}

// Method bodies address their parameters after the receiver slot.
func TestMethodParameterOffsets(t *testing.T) {
	instrs := lower(t, `
		class T { function add(a: integer, b: integer): integer { return a + b; } }
		let o: T = new T();
		let r: integer = o.add(1, 2);
	`)

	body := Format(functionBody(instrs, "add"))
	if !strings.Contains(body, "fp[-2] + fp[-3]") {
		t.Errorf("parameters should sit at fp[-2], fp[-3] behind the receiver:\n%s", body)
	}
}

// The while-lowering scenario: label shapes and jumps.
func TestWhileLowering(t *testing.T) {
	text := lowerText(t, `
		let i: integer = 0;
		while (i < 5) { i = i + 1; }
	`)

	for _, want := range []string{
		"STARTWHILE_0:",
		"GOTO LABEL_TRUE_0",
		"GOTO ENDWHILE_0",
		"LABEL_TRUE_0:",
		"GOTO STARTWHILE_0",
		"ENDWHILE_0:",
		"< 5",
	} {
		if !strings.Contains(text, want) {
			t.Errorf("missing %q:\n%s", want, text)
		}
	}
	if !strings.Contains(text, "IF t0 > 0 GOTO LABEL_TRUE_0") {
		t.Errorf("condition should branch on a comparison temp:\n%s", text)
	}
}

// The short-circuit scenario: OR_CONT/AND_CONT labels, and the second
// conjunct is only reachable through the AND continuation.
func TestShortCircuitLowering(t *testing.T) {
	text := lowerText(t, `
		let x: integer = 0;
		let y: integer = 0;
		if (x < 100 || (x > 200 && x != y)) { x = 0; }
	`)

	if !strings.Contains(text, "OR_CONT_") {
		t.Errorf("missing OR continuation label:\n%s", text)
	}
	if !strings.Contains(text, "AND_CONT_") {
		t.Errorf("missing AND continuation label:\n%s", text)
	}

	// The x != y test must come after the AND continuation label, so it
	// is skipped whenever x < 100 already decided the disjunction.
	andLabel := strings.Index(text, "AND_CONT_")
	neqTest := strings.Index(text, "!=")
	if neqTest < andLabel {
		t.Errorf("x != y must be evaluated only behind the AND continuation:\n%s", text)
	}
}

// The inheritance scenario: field access through the layout offset.
func TestInheritedFieldOffsets(t *testing.T) {
	text := lowerText(t, `
		class Persona {
			let nombre: string;
			let edad: integer;
			let color: string;
		}
		class Estudiante : Persona { let grado: integer; }
		let juan: Estudiante = new Estudiante();
		let g: integer = juan.grado;
		let e: integer = juan.edad;
	`)

	if !strings.Contains(text, "G[0][12]") {
		t.Errorf("grado should load from offset 12:\n%s", text)
	}
	if !strings.Contains(text, "G[0][4]") {
		t.Errorf("edad should load from inherited offset 4:\n%s", text)
	}
}

func TestFieldAssignmentLowering(t *testing.T) {
	text := lowerText(t, `
		class P { let edad: integer; }
		let p: P = new P();
		p.edad = 30;
	`)

	if !strings.Contains(text, "G[0][0] := 30") {
		t.Errorf("field store should write through the base and offset:\n%s", text)
	}
}

func TestIfElseLowering(t *testing.T) {
	text := lowerText(t, `
		let x: integer = 1;
		if (x < 2) { x = 10; } else { x = 20; }
	`)

	for _, want := range []string{"IF_TRUE_0:", "IF_FALSE_0:", "IF_END_0:", "GOTO IF_END_0"} {
		if !strings.Contains(text, want) {
			t.Errorf("missing %q:\n%s", want, text)
		}
	}
}

func TestIfWithoutElseCollapsesFalseLabel(t *testing.T) {
	text := lowerText(t, `
		let x: integer = 1;
		if (x < 2) { x = 10; }
	`)

	if strings.Contains(text, "IF_FALSE_0") {
		t.Errorf("missing else should collapse the false label into the end label:\n%s", text)
	}
	if !strings.Contains(text, "IF_END_0:") {
		t.Errorf("missing end label:\n%s", text)
	}
}

func TestDoWhileLowering(t *testing.T) {
	text := lowerText(t, `
		let i: integer = 0;
		do { i = i + 1; } while (i < 3);
	`)

	for _, want := range []string{"STARTDO_0:", "DOCOND_0:", "ENDDO_0:", "GOTO STARTDO_0"} {
		if !strings.Contains(text, want) {
			t.Errorf("missing %q:\n%s", want, text)
		}
	}
}

func TestForLoweringAndContinueTarget(t *testing.T) {
	text := lowerText(t, `
		let s: integer = 0;
		for (let i: integer = 0; i < 10; i = i + 1) {
			if (i == 5) { continue; }
			s = s + i;
		}
	`)

	if !strings.Contains(text, "FORSTEP_0:") {
		t.Errorf("for should carry a step label:\n%s", text)
	}
	if !strings.Contains(text, "GOTO FORSTEP_0") {
		t.Errorf("continue inside for should target the step label:\n%s", text)
	}
}

func TestForeachLowering(t *testing.T) {
	text := lowerText(t, `
		let nums: integer[] = [1, 2, 3];
		foreach (n in nums) { print(n); }
	`)

	for _, want := range []string{"CALL len,1", "STARTWHILE_", "FORSTEP_", "ENDWHILE_"} {
		if !strings.Contains(text, want) {
			t.Errorf("missing %q:\n%s", want, text)
		}
	}
}

func TestSwitchLowering(t *testing.T) {
	text := lowerText(t, `
		let x: integer = 2;
		let y: integer = 0;
		switch (x) {
			case 1: y = 1; break;
			case 2: y = 2;
			default: y = 9;
		}
	`)

	for _, want := range []string{
		"CASE_0_0:",
		"CASE_0_1:",
		"DEFAULT_0:",
		"ENDSWITCH_0:",
		"GOTO ENDSWITCH_0",
	} {
		if !strings.Contains(text, want) {
			t.Errorf("missing %q:\n%s", want, text)
		}
	}

	// No implicit break: the body of case 2 must fall through into the
	// default body, i.e. there is no jump between them.
	caseTwo := strings.Index(text, "CASE_0_1:")
	deflt := strings.Index(text, "DEFAULT_0:")
	between := text[caseTwo:deflt]
	if strings.Contains(between, "GOTO") {
		t.Errorf("case 2 should fall through into default:\n%s", between)
	}
}

func TestBreakJumpsToLoopEnd(t *testing.T) {
	text := lowerText(t, `
		let i: integer = 0;
		while (i < 10) { if (i == 5) { break; } i = i + 1; }
	`)

	if !strings.Contains(text, "GOTO ENDWHILE_0") {
		t.Errorf("break should jump to the loop end label:\n%s", text)
	}
}

func TestTernaryValueLowering(t *testing.T) {
	text := lowerText(t, `
		let x: integer = 5;
		let y: integer = x > 0 ? 1 : 2;
	`)

	for _, want := range []string{"IF_TRUE_0:", "IF_FALSE_0:", "IF_END_0:"} {
		if !strings.Contains(text, want) {
			t.Errorf("missing %q:\n%s", want, text)
		}
	}
}

func TestBooleanValueContext(t *testing.T) {
	text := lowerText(t, `
		let a: boolean = true;
		let b: boolean = false;
		let c: boolean = a && b;
	`)

	// Value context materializes 0/1 through the small label structure.
	if !strings.Contains(text, ":= 1") || !strings.Contains(text, ":= 0") {
		t.Errorf("value-context boolean should set 0/1:\n%s", text)
	}
	if !strings.Contains(text, "AND_CONT_") {
		t.Errorf("missing AND continuation:\n%s", text)
	}
}

func TestConstructorLowering(t *testing.T) {
	text := lowerText(t, `
		class P {
			let edad: integer;
			function constructor(e: integer) { this.edad = e; }
		}
		let p: P = new P(30);
	`)

	if !strings.Contains(text, "FUNCTION initP:") {
		t.Errorf("constructor body should be emitted under initP:\n%s", text)
	}
	if !strings.Contains(text, "fp[-1][0] := fp[-2]") {
		t.Errorf("constructor should store through the receiver:\n%s", text)
	}
	if !strings.Contains(text, "PARAM 30") || !strings.Contains(text, "CALL newP,1") {
		t.Errorf("new should push args and call the allocator:\n%s", text)
	}
}

func TestFieldInitializersRunInConstructor(t *testing.T) {
	text := lowerText(t, `
		class C { let x: integer = 7; }
		let c: C = new C();
	`)

	if !strings.Contains(text, "FUNCTION initC:") {
		t.Errorf("field initializers need a synthetic constructor:\n%s", text)
	}
	if !strings.Contains(text, "fp[-1][0] := 7") {
		t.Errorf("field initializer should store through the receiver:\n%s", text)
	}
}

func TestBareFieldAccessInMethod(t *testing.T) {
	text := lowerText(t, `
		class C {
			let n: integer;
			function bump() { n = n + 1; }
		}
		let c: C = new C();
		c.bump();
	`)

	body := ""
	if i := strings.Index(text, "FUNCTION bump:"); i >= 0 {
		body = text[i:strings.Index(text, "END FUNCTION bump")]
	}
	if !strings.Contains(body, "fp[-1][0]") {
		t.Errorf("bare field names should address the receiver:\n%s", text)
	}
}

// Counters reset per function: every function starts numbering at t0,
// and labels within one function are unique.
func TestCountersResetPerFunction(t *testing.T) {
	instrs := lower(t, `
		function f(): integer { return 1 + 2; }
		function g(): integer { return 3 + 4; }
	`)

	for _, name := range []string{"f", "g"} {
		body := functionBody(instrs, name)
		found := false
		for _, in := range body {
			if tmp, ok := in.Dst.(Temp); ok && tmp.N == 0 {
				found = true
			}
		}
		if !found {
			t.Errorf("function %s should start numbering at t0:\n%s", name, Format(body))
		}
	}
}

func TestLabelsUniqueWithinFunction(t *testing.T) {
	instrs := lower(t, `
		let x: integer = 0;
		if (x < 1) { x = 1; }
		if (x < 2) { x = 2; }
		while (x < 5) { x = x + 1; }
	`)

	body := functionBody(instrs, "main")
	seen := map[string]bool{}
	for _, in := range body {
		if in.Op != OpLabel {
			continue
		}
		if seen[in.Label] {
			t.Errorf("label %s defined twice", in.Label)
		}
		seen[in.Label] = true
	}
}

func TestPrintLowering(t *testing.T) {
	text := lowerText(t, `print("hola");`)

	if !strings.Contains(text, `PARAM "hola"`) || !strings.Contains(text, "CALL print,1") {
		t.Errorf("print should push its operand and call the intrinsic:\n%s", text)
	}
}

func TestTryCatchLowering(t *testing.T) {
	text := lowerText(t, `
		let x: integer = 0;
		try { x = 1; } catch (err) { x = 2; }
	`)

	for _, want := range []string{"CATCH_0:", "ENDTRY_0:", "GOTO ENDTRY_0"} {
		if !strings.Contains(text, want) {
			t.Errorf("missing %q:\n%s", want, text)
		}
	}
}

func TestArrayIndexThroughTemporary(t *testing.T) {
	text := lowerText(t, `
		let a: integer[] = [10, 20];
		let x: integer = a[1];
	`)

	// Element indices go through a temporary so the backend can tell
	// them apart from literal field offsets.
	if !strings.Contains(text, "t") {
		t.Fatalf("expected temporaries:\n%s", text)
	}
	if strings.Contains(text, "G[0][1]") {
		t.Errorf("array index should be a temp, not a literal cell index:\n%s", text)
	}
}
