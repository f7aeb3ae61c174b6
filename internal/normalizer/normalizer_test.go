package normalizer_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/codelensd/engine/internal/normalizer"
)

func TestNormalizeSymbolCamelCase(t *testing.T) {
	n := normalizer.New()
	result := n.NormalizeSymbol("getUserAuthentication")
	assert.Contains(t, result, "user")
	assert.Contains(t, result, "authent")
}

func TestNormalizeSymbolSnakeCase(t *testing.T) {
	n := normalizer.New()
	result := n.NormalizeSymbol("user_authentication_handler")
	assert.Contains(t, result, "user")
	assert.Contains(t, result, "authent")
	assert.Contains(t, result, "handler")
}

func TestNormalizeProseStemsToIndex(t *testing.T) {
	n := normalizer.New()
	result := n.NormalizeProse("indexing")
	assert.Equal(t, []string{"index"}, result)
}

func TestNormalizeProseDropsStopWords(t *testing.T) {
	n := normalizer.New()
	result := n.NormalizeProse("the new user of the service")
	assert.NotContains(t, result, "the")
	assert.NotContains(t, result, "new")
	assert.Contains(t, result, "servic")
}

func TestNormalizeIsIdempotentOnAlreadyNormalizedInput(t *testing.T) {
	n := normalizer.New()
	first := n.NormalizeProse("authentication handler")
	second := n.NormalizeProse(joinTokens(first))
	assert.Equal(t, first, second)
}

func joinTokens(tokens []string) string {
	out := ""
	for i, t := range tokens {
		if i > 0 {
			out += " "
		}
		out += t
	}
	return out
}
