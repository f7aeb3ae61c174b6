package embedder

import (
	"strings"

	"github.com/codelensd/engine/pkg/types"
)

// SymbolToText renders a symbol as the text an embedding provider encodes:
// name, kind, signature, and doc comment joined by spaces. Matches the
// field order and join style of the reference system's symbol-to-text
// conversion so vectors indexed today stay comparable with anything
// re-embedded later under the same convention.
func SymbolToText(sym types.Symbol) string {
	parts := make([]string, 0, 4)
	parts = append(parts, sym.Name, string(sym.Kind))
	if sym.Signature != "" {
		parts = append(parts, sym.Signature)
	}
	if sym.DocComment != "" {
		parts = append(parts, sym.DocComment)
	}
	return strings.Join(parts, " ")
}
