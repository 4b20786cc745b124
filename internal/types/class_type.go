package types

// Field describes one instance field of a class: its name, type and the
// byte offset of its slot from the object base address. Offsets are fixed
// when the class body is closed and never change afterwards.
type Field struct {
	Name   string
	Type   Type
	Offset int
}

// ClassType represents a named class with optional single inheritance.
// Type equality for classes is nominal.
type ClassType struct {
	Name   string
	Parent *ClassType

	// Fields holds only the fields declared by this class, in
	// declaration order. The full layout (inherited first) is produced
	// by Close.
	Fields []*Field

	// Methods maps method names to signatures for methods declared on
	// this class. Lookup walks the parent chain.
	Methods     map[string]*FunctionType
	MethodOrder []string

	// Constructor is the class constructor signature, if any.
	// Both the `function constructor(...)` and `init(...)` spellings
	// populate this slot; at most one is permitted.
	Constructor *FunctionType

	closed bool
	size   int
}

// NewClass creates an open (not yet closed) class type.
func NewClass(name string) *ClassType {
	return &ClassType{
		Name:    name,
		Methods: make(map[string]*FunctionType),
	}
}

func (c *ClassType) String() string { return c.Name }

func (c *ClassType) Equals(other Type) bool {
	o, ok := other.(*ClassType)
	return ok && c == o
}

// AddField appends a field declared by this class. Offsets are assigned
// by Close.
func (c *ClassType) AddField(name string, typ Type) *Field {
	f := &Field{Name: name, Type: typ}
	c.Fields = append(c.Fields, f)
	return f
}

// AddMethod records a method declared by this class.
func (c *ClassType) AddMethod(name string, sig *FunctionType) {
	if _, exists := c.Methods[name]; !exists {
		c.MethodOrder = append(c.MethodOrder, name)
	}
	c.Methods[name] = sig
}

// OwnField returns the field declared directly on this class, if any.
func (c *ClassType) OwnField(name string) *Field {
	for _, f := range c.Fields {
		if f.Name == name {
			return f
		}
	}
	return nil
}

// LookupField resolves a field on this class or any ancestor.
func (c *ClassType) LookupField(name string) *Field {
	for cls := c; cls != nil; cls = cls.Parent {
		if f := cls.OwnField(name); f != nil {
			return f
		}
	}
	return nil
}

// OwnMethod returns the method declared directly on this class, if any.
func (c *ClassType) OwnMethod(name string) *FunctionType {
	return c.Methods[name]
}

// LookupMethod resolves a method on this class or any ancestor.
// The nearest declaration wins, which implements overriding.
func (c *ClassType) LookupMethod(name string) *FunctionType {
	for cls := c; cls != nil; cls = cls.Parent {
		if sig, ok := cls.Methods[name]; ok {
			return sig
		}
	}
	return nil
}

// LookupConstructor resolves the constructor on this class or the nearest
// ancestor that declares one.
func (c *ClassType) LookupConstructor() *FunctionType {
	if owner := c.ConstructorOwner(); owner != nil {
		return owner.Constructor
	}
	return nil
}

// ConstructorOwner returns the nearest class in the ancestry (including
// this one) that declares a constructor, or nil.
func (c *ClassType) ConstructorOwner() *ClassType {
	for cls := c; cls != nil; cls = cls.Parent {
		if cls.Constructor != nil {
			return cls
		}
	}
	return nil
}

// InheritsFrom reports whether c has ancestor (strictly above itself).
func (c *ClassType) InheritsFrom(ancestor *ClassType) bool {
	for cls := c.Parent; cls != nil; cls = cls.Parent {
		if cls == ancestor {
			return true
		}
	}
	return false
}

// Close fixes the field layout: inherited fields keep the offsets they
// were assigned in the parent layout, and fields declared here follow in
// declaration order, one WordSize slot each. An open parent is closed
// first. Closing is idempotent.
func (c *ClassType) Close() {
	if c.closed {
		return
	}
	base := 0
	if c.Parent != nil {
		c.Parent.Close()
		base = c.Parent.size
	}
	for i, f := range c.Fields {
		f.Offset = base + i*WordSize
	}
	c.size = base + len(c.Fields)*WordSize
	c.closed = true
}

// Size returns the instance size in bytes. Valid after Close.
func (c *ClassType) Size() int { return c.size }

// Closed reports whether the layout has been fixed.
func (c *ClassType) Closed() bool { return c.closed }

// AllFields returns the complete layout in offset order: inherited fields
// first, then own fields. Valid after Close.
func (c *ClassType) AllFields() []*Field {
	var fields []*Field
	if c.Parent != nil {
		fields = c.Parent.AllFields()
	}
	return append(fields, c.Fields...)
}
