package analyzer

import (
	"strings"

	"github.com/codelensd/engine/pkg/types"
)

// QueryType is the classification assigned to a query string.
type QueryType string

const (
	TypeExactSymbol    QueryType = "exact_symbol"
	TypeFilePath       QueryType = "file_path"
	TypeSemanticIntent QueryType = "semantic_intent"
	TypeCodeContent    QueryType = "code_content"
	TypeMixed          QueryType = "mixed"
)

var fileExtensions = []string{".rs", ".ts", ".js", ".py", ".go", ".java"}

var semanticPrefixes = []string{"how", "what", "why", "where", "when"}

var codeKeywords = []string{
	"fn ", "async ", "class ", "impl ", "struct ", "trait ", "interface ", "function ",
}

// Analyze classifies a raw query string. Rule order matters: a query is
// checked for file-path shape first, then semantic-intent phrasing, then
// code-shaped keywords, then falls through to exact-symbol (single token)
// or mixed (multiple tokens).
func Analyze(query string) QueryType {
	lower := strings.ToLower(query)
	words := strings.Fields(query)

	if looksLikeFilePath(query) {
		return TypeFilePath
	}

	if looksLikeSemanticIntent(lower) {
		return TypeSemanticIntent
	}

	if looksLikeCodeContent(query) {
		return TypeCodeContent
	}

	if len(words) == 1 {
		return TypeExactSymbol
	}

	return TypeMixed
}

func looksLikeFilePath(query string) bool {
	if strings.ContainsAny(query, "/\\") {
		return true
	}
	for _, ext := range fileExtensions {
		if strings.HasSuffix(query, ext) {
			return true
		}
	}
	return false
}

func looksLikeSemanticIntent(lower string) bool {
	if strings.Contains(lower, "how to") {
		return true
	}
	for _, prefix := range semanticPrefixes {
		if strings.HasPrefix(lower, prefix) {
			return true
		}
	}
	return false
}

func looksLikeCodeContent(query string) bool {
	for _, kw := range codeKeywords {
		if strings.Contains(query, kw) {
			return true
		}
	}
	return false
}

// ConfigFor returns the HybridConfig preset matched to a query type.
func ConfigFor(qt QueryType) types.HybridConfig {
	switch qt {
	case TypeExactSymbol:
		return types.ExactMatchConfig()
	case TypeFilePath:
		return types.FilePathConfig()
	case TypeSemanticIntent:
		return types.SemanticFocusedConfig()
	case TypeCodeContent:
		return types.ContentFocusedConfig()
	default:
		return types.DefaultHybridConfig()
	}
}
