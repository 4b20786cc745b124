package semantic

import (
	"github.com/compiscript/compiscript/internal/lexer"
	"github.com/compiscript/compiscript/internal/types"
)

// SymbolKind distinguishes the declaration forms a name can refer to.
type SymbolKind int

const (
	SymbolVariable SymbolKind = iota
	SymbolConstant
	SymbolParameter
	SymbolFunction
	SymbolClass
)

var symbolKindNames = [...]string{
	SymbolVariable:  "variable",
	SymbolConstant:  "constant",
	SymbolParameter: "parameter",
	SymbolFunction:  "function",
	SymbolClass:     "class",
}

func (k SymbolKind) String() string {
	if int(k) < len(symbolKindNames) {
		return symbolKindNames[k]
	}
	return "unknown"
}

// Symbol is a named declaration bound inside a scope.
type Symbol struct {
	Name string
	Kind SymbolKind

	// Type is the declared or inferred type: the value type for
	// variables and constants, a *types.FunctionType for functions and
	// methods, a *types.ClassType for classes.
	Type types.Type

	// Pos is the declaration site.
	Pos lexer.Position

	// Initialized tracks the flow-insensitive declaration-site analysis:
	// true once the symbol has an initializer or a textually earlier
	// assignment. Parameters and fields start initialized.
	Initialized bool

	// Field links a class-field symbol to its layout slot.
	Field *types.Field

	// Scope is the defining scope, set by Declare.
	Scope *Scope
}

// Writable reports whether the symbol may appear as an assignment target.
func (s *Symbol) Writable() bool {
	switch s.Kind {
	case SymbolVariable, SymbolParameter:
		return true
	}
	return false
}
