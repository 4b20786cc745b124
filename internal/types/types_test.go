package types

import "testing"

func TestPrimitiveEquality(t *testing.T) {
	if !Integer.Equals(Integer) {
		t.Error("integer should equal itself")
	}
	if Integer.Equals(Boolean) {
		t.Error("integer should not equal boolean")
	}
}

func TestArrayStructuralEquality(t *testing.T) {
	a := NewArray(Integer)
	b := NewArray(Integer)
	c := NewArray(String)
	nested := NewArray(NewArray(Integer))

	if !a.Equals(b) {
		t.Error("integer[] should equal integer[] structurally")
	}
	if a.Equals(c) {
		t.Error("integer[] should not equal string[]")
	}
	if a.Equals(nested) {
		t.Error("integer[] should not equal integer[][]")
	}
	if nested.String() != "integer[][]" {
		t.Errorf("wrong spelling: %s", nested.String())
	}
}

func TestClassNominalEquality(t *testing.T) {
	a := NewClass("Persona")
	b := NewClass("Persona")

	if !a.Equals(a) {
		t.Error("a class should equal itself")
	}
	if a.Equals(b) {
		t.Error("class equality is nominal: two distinct classes never match")
	}
}

func TestFunctionTypeEquality(t *testing.T) {
	f1 := NewFunction([]Type{Integer, Integer}, Integer)
	f2 := NewFunction([]Type{Integer, Integer}, Integer)
	f3 := NewFunction([]Type{Integer}, Integer)
	f4 := NewFunction([]Type{Integer, Integer}, Void)

	if !f1.Equals(f2) {
		t.Error("identical signatures should match")
	}
	if f1.Equals(f3) {
		t.Error("different arity should not match")
	}
	if f1.Equals(f4) {
		t.Error("different return type should not match")
	}
	if !SignaturesEqual(f1, f2) {
		t.Error("SignaturesEqual should agree with Equals")
	}
}

func TestAssignability(t *testing.T) {
	persona := NewClass("Persona")
	arr := NewArray(Integer)

	tests := []struct {
		name     string
		src, dst Type
		want     bool
	}{
		{"identical primitives", Integer, Integer, true},
		{"different primitives", Integer, Boolean, false},
		{"null to class", Null, persona, true},
		{"null to array", Null, arr, true},
		{"null to integer", Null, Integer, false},
		{"unknown to anything", Unknown, Integer, true},
		{"anything to unknown", String, Unknown, true},
		{"array to identical array", NewArray(Integer), arr, true},
		{"array to different array", NewArray(String), arr, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := AssignableTo(tt.src, tt.dst); got != tt.want {
				t.Errorf("AssignableTo(%s, %s) = %v, want %v", tt.src, tt.dst, got, tt.want)
			}
		})
	}
}

func TestComparable(t *testing.T) {
	persona := NewClass("Persona")

	if !Comparable(Null, persona) || !Comparable(persona, Null) {
		t.Error("null should compare against reference types")
	}
	if Comparable(Null, Integer) {
		t.Error("null should not compare against integer")
	}
	if !Comparable(Integer, Integer) {
		t.Error("identical types should compare")
	}
	if Comparable(Integer, String) {
		t.Error("different types should not compare")
	}
}

// Field layout: inherited fields first in parent order, then own fields
// in declaration order, one word per slot.
func TestFieldLayout(t *testing.T) {
	persona := NewClass("Persona")
	persona.AddField("nombre", String)
	persona.AddField("edad", Integer)
	persona.AddField("color", String)

	estudiante := NewClass("Estudiante")
	estudiante.Parent = persona
	estudiante.AddField("grado", Integer)

	estudiante.Close()

	wantOffsets := map[string]int{
		"nombre": 0,
		"edad":   4,
		"color":  8,
		"grado":  12,
	}
	for name, want := range wantOffsets {
		f := estudiante.LookupField(name)
		if f == nil {
			t.Fatalf("field %s not found", name)
		}
		if f.Offset != want {
			t.Errorf("field %s: offset %d, want %d", name, f.Offset, want)
		}
	}

	if persona.Size() != 12 {
		t.Errorf("Persona size = %d, want 12", persona.Size())
	}
	if estudiante.Size() != 16 {
		t.Errorf("Estudiante size = %d, want 16", estudiante.Size())
	}
}

// Closing twice must not move any offset.
func TestCloseIdempotent(t *testing.T) {
	c := NewClass("C")
	c.AddField("a", Integer)
	c.AddField("b", Integer)

	c.Close()
	first := []int{c.Fields[0].Offset, c.Fields[1].Offset}
	c.Close()
	second := []int{c.Fields[0].Offset, c.Fields[1].Offset}

	if first[0] != second[0] || first[1] != second[1] {
		t.Errorf("offsets moved across Close calls: %v then %v", first, second)
	}
}

func TestMethodLookupWalksAncestors(t *testing.T) {
	parent := NewClass("P")
	parent.AddMethod("saludar", NewFunction(nil, String))
	child := NewClass("C")
	child.Parent = parent

	if child.LookupMethod("saludar") == nil {
		t.Error("method lookup should walk the inheritance chain")
	}
	if child.OwnMethod("saludar") != nil {
		t.Error("OwnMethod should not walk ancestors")
	}

	// The nearest declaration wins.
	override := NewFunction(nil, String)
	child.AddMethod("saludar", override)
	if child.LookupMethod("saludar") != override {
		t.Error("override should shadow the inherited method")
	}
}
