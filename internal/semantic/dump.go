package semantic

import (
	"fmt"
	"io"
	"strings"
)

// Dump writes the scope tree as a textual diagnostic: one scope per
// indent level, each symbol as `kind name : type [const] [init]`.
func (t *SymbolTable) Dump(w io.Writer) {
	dumpScope(w, t.global, 0)
}

func dumpScope(w io.Writer, s *Scope, depth int) {
	indent := strings.Repeat("  ", depth)

	label := s.Kind.String()
	if s.Owner != nil {
		label += " " + s.Owner.Name
	}
	fmt.Fprintf(w, "%s%s\n", indent, label)

	for _, name := range s.names {
		sym := s.symbols[name]
		line := fmt.Sprintf("%s  %s %s : %s", indent, sym.Kind, sym.Name, sym.Type)
		if sym.Kind == SymbolConstant {
			line += " [const]"
		}
		if sym.Initialized && sym.Kind != SymbolFunction && sym.Kind != SymbolClass {
			line += " [init]"
		}
		fmt.Fprintln(w, line)
	}

	for _, child := range s.children {
		dumpScope(w, child, depth+1)
	}
}
