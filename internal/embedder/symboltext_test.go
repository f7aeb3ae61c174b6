package embedder_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/codelensd/engine/internal/embedder"
	"github.com/codelensd/engine/pkg/types"
)

func TestSymbolToTextIncludesNameKindSignatureDoc(t *testing.T) {
	sym := types.Symbol{
		Name:       "authenticate_user",
		Kind:       types.KindFunction,
		Signature:  "fn authenticate_user(username: &str, password: &str) -> bool",
		DocComment: "Authenticates a user with username and password",
	}
	text := embedder.SymbolToText(sym)
	assert.Contains(t, text, "authenticate_user")
	assert.Contains(t, text, string(types.KindFunction))
	assert.Contains(t, text, "Authenticates")
}

func TestSymbolToTextOmitsEmptyFields(t *testing.T) {
	sym := types.Symbol{Name: "x", Kind: types.KindVariable}
	text := embedder.SymbolToText(sym)
	assert.Equal(t, "x variable", text)
}
