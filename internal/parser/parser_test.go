package parser

import (
	"fmt"
	"testing"

	"github.com/compiscript/compiscript/internal/ast"
	"github.com/compiscript/compiscript/internal/lexer"
)

func parseProgram(t *testing.T, input string) *ast.Program {
	t.Helper()
	p := New(lexer.New(input))
	program := p.ParseProgram()
	if len(p.Errors()) != 0 {
		t.Fatalf("parser errors for %q: %v", input, p.Errors())
	}
	return program
}

func firstExpr(t *testing.T, input string) ast.Expression {
	t.Helper()
	program := parseProgram(t, input)
	if len(program.Statements) == 0 {
		t.Fatalf("no statements for %q", input)
	}
	stmt, ok := program.Statements[0].(*ast.ExpressionStatement)
	if !ok {
		t.Fatalf("expected expression statement, got %T", program.Statements[0])
	}
	return stmt.Expression
}

func TestOperatorPrecedence(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"1 + 2 * 3;", "(1 + (2 * 3))"},
		{"1 * 2 + 3;", "((1 * 2) + 3)"},
		{"-a * b;", "((-a) * b)"},
		{"!x && y;", "((!x) && y)"},
		{"a + b < c + d;", "((a + b) < (c + d))"},
		{"a < b == c > d;", "((a < b) == (c > d))"},
		{"a && b || c && d;", "((a && b) || (c && d))"},
		{"a == b && c != d;", "((a == b) && (c != d))"},
		{"a % b + c;", "((a % b) + c)"},
		{"(1 + 2) * 3;", "((1 + 2) * 3)"},
		{"a.b.c;", "a.b.c"},
		{"a[1][2];", "a[1][2]"},
		{"f(1, 2 + 3);", "f(1, (2 + 3))"},
		{"o.m(x)[0];", "o.m(x)[0]"},
	}

	for _, tt := range tests {
		expr := firstExpr(t, tt.input)
		if expr.String() != tt.want {
			t.Errorf("%q: got %s, want %s", tt.input, expr.String(), tt.want)
		}
	}
}

func TestAssignmentBindsLowestAndRight(t *testing.T) {
	expr := firstExpr(t, "a = b = c + 1;")
	assign, ok := expr.(*ast.AssignExpression)
	if !ok {
		t.Fatalf("expected assignment, got %T", expr)
	}
	if _, ok := assign.Value.(*ast.AssignExpression); !ok {
		t.Fatalf("assignment should associate right, value is %T", assign.Value)
	}
	if expr.String() != "a = b = (c + 1)" {
		t.Errorf("got %s", expr.String())
	}
}

func TestTernaryExpression(t *testing.T) {
	expr := firstExpr(t, "a < b ? 1 : 2;")
	tern, ok := expr.(*ast.TernaryExpression)
	if !ok {
		t.Fatalf("expected ternary, got %T", expr)
	}
	if tern.Condition.String() != "(a < b)" {
		t.Errorf("wrong condition: %s", tern.Condition.String())
	}
}

func TestVarDeclarations(t *testing.T) {
	tests := []struct {
		input     string
		name      string
		typeAnn   string
		hasValue  bool
	}{
		{"let x: integer = 5;", "x", "integer", true},
		{"var y: string;", "y", "string", false},
		{"let z = true;", "z", "", true},
		{"let m: integer[][];", "m", "integer[][]", false},
	}

	for _, tt := range tests {
		program := parseProgram(t, tt.input)
		decl, ok := program.Statements[0].(*ast.VarDeclaration)
		if !ok {
			t.Fatalf("%q: expected var declaration, got %T", tt.input, program.Statements[0])
		}
		if decl.Name.Value != tt.name {
			t.Errorf("%q: name %s", tt.input, decl.Name.Value)
		}
		if tt.typeAnn == "" && decl.TypeAnn != nil {
			t.Errorf("%q: unexpected annotation", tt.input)
		}
		if tt.typeAnn != "" && (decl.TypeAnn == nil || decl.TypeAnn.String() != tt.typeAnn) {
			t.Errorf("%q: annotation %v", tt.input, decl.TypeAnn)
		}
		if (decl.Value != nil) != tt.hasValue {
			t.Errorf("%q: initializer presence mismatch", tt.input)
		}
	}
}

func TestConstDeclaration(t *testing.T) {
	program := parseProgram(t, "const limit: integer = 100;")
	decl, ok := program.Statements[0].(*ast.ConstDeclaration)
	if !ok {
		t.Fatalf("expected const declaration, got %T", program.Statements[0])
	}
	if decl.Name.Value != "limit" || decl.Value == nil {
		t.Errorf("wrong const: %s", decl.String())
	}
}

func TestFunctionDeclaration(t *testing.T) {
	program := parseProgram(t, "function add(a: integer, b: integer): integer { return a + b; }")
	decl, ok := program.Statements[0].(*ast.FunctionDeclaration)
	if !ok {
		t.Fatalf("expected function declaration, got %T", program.Statements[0])
	}
	if decl.Name.Value != "add" || len(decl.Parameters) != 2 {
		t.Fatalf("wrong signature: %s", decl.String())
	}
	if decl.ReturnType == nil || decl.ReturnType.String() != "integer" {
		t.Errorf("wrong return type")
	}
	if len(decl.Body.Statements) != 1 {
		t.Errorf("wrong body size")
	}
}

func TestClassDeclaration(t *testing.T) {
	input := `class Estudiante : Persona {
		let grado: integer;
		function constructor(g: integer) { this.grado = g; }
		function estudiar(): string { return "ok"; }
	}`

	program := parseProgram(t, input)
	decl, ok := program.Statements[0].(*ast.ClassDeclaration)
	if !ok {
		t.Fatalf("expected class declaration, got %T", program.Statements[0])
	}
	if decl.Name.Value != "Estudiante" || decl.Parent == nil || decl.Parent.Value != "Persona" {
		t.Fatalf("wrong header: %s", decl.String())
	}
	if len(decl.Fields) != 1 || len(decl.Methods) != 2 {
		t.Fatalf("wrong members: %d fields, %d methods", len(decl.Fields), len(decl.Methods))
	}
	ctor := decl.Constructor()
	if ctor == nil || !ctor.IsConstructor || len(ctor.Parameters) != 1 {
		t.Errorf("constructor not recognized")
	}
}

func TestInitConstructorSpelling(t *testing.T) {
	program := parseProgram(t, "class C { init(x: integer) { } }")
	decl := program.Statements[0].(*ast.ClassDeclaration)
	ctor := decl.Constructor()
	if ctor == nil || ctor.Name.Value != "init" || !ctor.IsConstructor {
		t.Fatalf("init constructor not recognized: %s", decl.String())
	}
}

func TestControlFlowStatements(t *testing.T) {
	inputs := []string{
		"if (a < b) { x = 1; } else if (a == b) { x = 2; } else { x = 3; }",
		"while (i < 5) { i = i + 1; }",
		"do { i = i + 1; } while (i < 5);",
		"for (let i: integer = 0; i < 5; i = i + 1) { print(i); }",
		"for (;;) { break; }",
		"foreach (n in nums) { print(n); }",
		"switch (x) { case 1: y = 1; break; case 2: y = 2; default: y = 0; }",
		"try { riesgo(); } catch (err) { print(err); }",
	}

	for _, input := range inputs {
		program := parseProgram(t, input)
		if len(program.Statements) != 1 {
			t.Errorf("%q: expected 1 statement, got %d", input, len(program.Statements))
		}
	}
}

func TestSwitchShape(t *testing.T) {
	program := parseProgram(t, "switch (x) { case 1: a = 1; case 2: a = 2; break; default: a = 0; }")
	sw := program.Statements[0].(*ast.SwitchStatement)
	if len(sw.Cases) != 3 {
		t.Fatalf("expected 3 clauses, got %d", len(sw.Cases))
	}
	if sw.Cases[2].Value != nil {
		t.Error("default clause should have nil value")
	}
	if len(sw.Cases[1].Body) != 2 {
		t.Errorf("case 2 should hold two statements, got %d", len(sw.Cases[1].Body))
	}
}

func TestNewAndMemberExpressions(t *testing.T) {
	expr := firstExpr(t, "new Persona(\"Juan\", 25);")
	ne, ok := expr.(*ast.NewExpression)
	if !ok {
		t.Fatalf("expected new expression, got %T", expr)
	}
	if ne.Class.Value != "Persona" || len(ne.Arguments) != 2 {
		t.Errorf("wrong new expression: %s", ne.String())
	}

	expr = firstExpr(t, "this.edad = super.edadBase();")
	if _, ok := expr.(*ast.AssignExpression); !ok {
		t.Fatalf("expected assignment, got %T", expr)
	}
}

func TestArrayLiteral(t *testing.T) {
	expr := firstExpr(t, "[1, 2, 3];")
	arr, ok := expr.(*ast.ArrayLiteral)
	if !ok {
		t.Fatalf("expected array literal, got %T", expr)
	}
	if len(arr.Elements) != 3 {
		t.Errorf("wrong element count: %d", len(arr.Elements))
	}
}

func TestParseErrors(t *testing.T) {
	inputs := []string{
		"let = 5;",
		"if x { }",
		"class { }",
		"function f( { }",
		"let x: = 1;",
	}

	for _, input := range inputs {
		p := New(lexer.New(input))
		p.ParseProgram()
		if len(p.Errors()) == 0 {
			t.Errorf("%q: expected parse errors", input)
		}
	}
}

// Pretty-printing a parsed program and re-parsing the output must yield
// the same tree.
func TestPrintReparseRoundTrip(t *testing.T) {
	input := `const max: integer = 10;
let total: integer = 0;
class Persona {
	let nombre: string;
	let edad: integer;
	init(n: string, e: integer) { this.nombre = n; this.edad = e; }
	function mayor(): boolean { return this.edad >= 18; }
}
function sumar(hasta: integer): integer {
	let s: integer = 0;
	for (let i: integer = 0; i < hasta; i = i + 1) { s = s + i; }
	return s;
}
let p: Persona = new Persona("Juan", 25);
while (total < max) { total = total + 1; }
if (p.mayor() && total != 0) { print(p.nombre); } else { print("menor"); }
`

	first := parseProgram(t, input)
	printed := first.String()
	second := parseProgram(t, printed)

	if second.String() != printed {
		t.Errorf("round trip unstable:\nfirst:  %s\nsecond: %s", printed, second.String())
	}
	if fmt.Sprintf("%d", len(first.Statements)) != fmt.Sprintf("%d", len(second.Statements)) {
		t.Errorf("statement count changed across round trip")
	}
}
