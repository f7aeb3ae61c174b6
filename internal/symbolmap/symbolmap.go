package symbolmap

import (
	"sort"
	"strings"

	"github.com/codelensd/engine/pkg/types"
)

const (
	scoreExact      = 1.0
	scoreNormalized = 0.8
	scoreSubstring  = 0.5
)

// Normalizer produces the normalized tokens used to query the
// NormalizedSymbolMap tier. Implemented by *normalizer.Normalizer; kept as
// an interface here so this package has no import-time dependency on it.
type Normalizer interface {
	NormalizeSymbol(name string) []string
}

// Search runs the three-tier traditional lookup (exact, normalized,
// substring) over idx for each keyword, returning deduplicated chunks
// ordered by descending relevance score.
func Search(idx *types.CodebaseIndex, keywords []string, norm Normalizer, maxResults int) []types.CodeChunk {
	seen := make(map[string]*types.CodeChunk)

	addAll := func(symbols []types.Symbol, score float64) {
		for _, sym := range symbols {
			chunk := symbolToChunk(sym, score)
			key := chunk.Key()
			if existing, ok := seen[key]; !ok || chunk.RelevanceScore > existing.RelevanceScore {
				seen[key] = &chunk
			}
		}
	}

	for _, keyword := range keywords {
		if symbols, ok := idx.SymbolMap[keyword]; ok {
			addAll(symbols, scoreExact)
		}

		for _, token := range norm.NormalizeSymbol(keyword) {
			if symbols, ok := idx.NormalizedSymbolMap[token]; ok {
				addAll(symbols, scoreNormalized)
			}
		}

		lowerKeyword := strings.ToLower(keyword)
		for name, symbols := range idx.SymbolMap {
			if name == keyword {
				continue
			}
			if strings.Contains(strings.ToLower(name), lowerKeyword) {
				addAll(symbols, scoreSubstring)
			}
		}
	}

	results := make([]types.CodeChunk, 0, len(seen))
	for _, c := range seen {
		results = append(results, *c)
	}

	sort.Slice(results, func(i, j int) bool {
		return results[i].RelevanceScore > results[j].RelevanceScore
	})

	if maxResults > 0 && len(results) > maxResults {
		results = results[:maxResults]
	}

	return results
}

func symbolToChunk(sym types.Symbol, score float64) types.CodeChunk {
	return types.CodeChunk{
		FilePath:       sym.FilePath,
		StartLine:      sym.StartLine,
		EndLine:        sym.EndLine,
		Content:        sym.Signature,
		Language:       sym.Language,
		Symbols:        []types.Symbol{sym},
		RelevanceScore: score,
	}
}
