package lexer

import "testing"

func TestNextTokenOperators(t *testing.T) {
	input := `= == != < <= > >= + - * / % && || ! ? : . , ; ( ) [ ] { }`

	expected := []TokenType{
		ASSIGN, EQ, NOT_EQ, LESS, LESS_EQ, GREATER, GREATER_EQ,
		PLUS, MINUS, ASTERISK, SLASH, PERCENT, AND_AND, OR_OR, BANG,
		QUESTION, COLON, DOT, COMMA, SEMICOLON,
		LPAREN, RPAREN, LBRACK, RBRACK, LBRACE, RBRACE, EOF,
	}

	l := New(input)
	for i, want := range expected {
		tok := l.NextToken()
		if tok.Type != want {
			t.Fatalf("token %d: expected %s, got %s (%q)", i, want, tok.Type, tok.Literal)
		}
	}
}

func TestNextTokenProgram(t *testing.T) {
	input := `let edad: integer = 25;
class Estudiante : Persona {
  function saludar(): string { return "hola"; }
}
// comment
/* block
   comment */
foreach (x in nums) { print(x); }`

	tests := []struct {
		wantType    TokenType
		wantLiteral string
	}{
		{LET, "let"},
		{IDENT, "edad"},
		{COLON, ":"},
		{INTEGER_TYPE, "integer"},
		{ASSIGN, "="},
		{INT, "25"},
		{SEMICOLON, ";"},
		{CLASS, "class"},
		{IDENT, "Estudiante"},
		{COLON, ":"},
		{IDENT, "Persona"},
		{LBRACE, "{"},
		{FUNCTION, "function"},
		{IDENT, "saludar"},
		{LPAREN, "("},
		{RPAREN, ")"},
		{COLON, ":"},
		{STRING_TYPE, "string"},
		{LBRACE, "{"},
		{RETURN, "return"},
		{STRING, "hola"},
		{SEMICOLON, ";"},
		{RBRACE, "}"},
		{RBRACE, "}"},
		{FOREACH, "foreach"},
		{LPAREN, "("},
		{IDENT, "x"},
		{IN, "in"},
		{IDENT, "nums"},
		{RPAREN, ")"},
		{LBRACE, "{"},
		{PRINT, "print"},
		{LPAREN, "("},
		{IDENT, "x"},
		{RPAREN, ")"},
		{SEMICOLON, ";"},
		{RBRACE, "}"},
		{EOF, ""},
	}

	l := New(input)
	for i, tt := range tests {
		tok := l.NextToken()
		if tok.Type != tt.wantType {
			t.Fatalf("token %d: expected type %s, got %s (%q)", i, tt.wantType, tok.Type, tok.Literal)
		}
		if tok.Literal != tt.wantLiteral {
			t.Fatalf("token %d: expected literal %q, got %q", i, tt.wantLiteral, tok.Literal)
		}
	}
}

func TestStringEscapes(t *testing.T) {
	l := New(`"a\nb\t\"c\""`)
	tok := l.NextToken()
	if tok.Type != STRING {
		t.Fatalf("expected STRING, got %s", tok.Type)
	}
	if tok.Literal != "a\nb\t\"c\"" {
		t.Errorf("wrong decoded value: %q", tok.Literal)
	}
}

func TestUnterminatedString(t *testing.T) {
	l := New("\"abc\nlet")
	tok := l.NextToken()
	if tok.Type != ILLEGAL {
		t.Fatalf("expected ILLEGAL for unterminated string, got %s", tok.Type)
	}
}

func TestPositions(t *testing.T) {
	input := "let x;\n  x = 1;"
	l := New(input)

	tests := []struct {
		line, column int
	}{
		{1, 1}, // let
		{1, 5}, // x
		{1, 6}, // ;
		{2, 3}, // x
		{2, 5}, // =
		{2, 7}, // 1
		{2, 8}, // ;
	}

	for i, tt := range tests {
		tok := l.NextToken()
		if tok.Pos.Line != tt.line || tok.Pos.Column != tt.column {
			t.Errorf("token %d (%q): expected %d:%d, got %d:%d",
				i, tok.Literal, tt.line, tt.column, tok.Pos.Line, tok.Pos.Column)
		}
	}
}

func TestReservedWords(t *testing.T) {
	for _, word := range []string{"let", "class", "while", "this", "null", "integer"} {
		if !IsReservedWord(word) {
			t.Errorf("%q should be reserved", word)
		}
	}
	for _, word := range []string{"constructor", "init", "main", "edad"} {
		if IsReservedWord(word) {
			t.Errorf("%q should not be reserved", word)
		}
	}
}
