package semantic

import (
	"github.com/compiscript/compiscript/internal/ast"
	"github.com/compiscript/compiscript/internal/types"
)

// TypeAndValue is the analysis result for one expression node: its type
// and whether it denotes a storage location.
type TypeAndValue struct {
	Type   types.Type
	Lvalue bool
}

// Selection records what a member access resolved to on the static type
// of its receiver: exactly one of Field or Method is set.
type Selection struct {
	Class  *types.ClassType
	Field  *types.Field
	Method *types.FunctionType
}

// Info is the side table the analyzer fills in. Later stages read it
// instead of re-resolving names, so TAC generation is a pure lowering.
type Info struct {
	// Types maps every checked expression to its type and value category.
	Types map[ast.Expression]TypeAndValue

	// Uses maps identifier references to the symbol they resolve to.
	Uses map[*ast.Identifier]*Symbol

	// Defs maps declaration nodes (variable, constant, function, class,
	// foreach binding) to the symbol they introduce.
	Defs map[ast.Node]*Symbol

	// ParamDefs maps formal parameters to their symbols.
	ParamDefs map[*ast.Parameter]*Symbol

	// Selections maps member accesses to the field or method they name.
	Selections map[*ast.MemberExpression]*Selection

	// Classes maps class declarations to their class types.
	Classes map[*ast.ClassDeclaration]*types.ClassType

	// NewClasses maps new-expressions to the instantiated class.
	NewClasses map[*ast.NewExpression]*types.ClassType
}

// NewInfo creates an empty side table.
func NewInfo() *Info {
	return &Info{
		Types:      make(map[ast.Expression]TypeAndValue),
		Uses:       make(map[*ast.Identifier]*Symbol),
		Defs:       make(map[ast.Node]*Symbol),
		ParamDefs:  make(map[*ast.Parameter]*Symbol),
		Selections: make(map[*ast.MemberExpression]*Selection),
		Classes:    make(map[*ast.ClassDeclaration]*types.ClassType),
		NewClasses: make(map[*ast.NewExpression]*types.ClassType),
	}
}

// TypeOf returns the recorded type of an expression, or Unknown.
func (i *Info) TypeOf(e ast.Expression) types.Type {
	if tv, ok := i.Types[e]; ok {
		return tv.Type
	}
	return types.Unknown
}
