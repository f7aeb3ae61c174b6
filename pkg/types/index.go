package types

// CodebaseIndex is the in-memory result of indexing a project: one
// IndexedFile per source file plus the derived symbol-map tiers the
// traditional retrieval backend queries directly.
type CodebaseIndex struct {
	RootPath   string
	Files      []IndexedFile
	TotalFiles int

	// SymbolMap is the exact-name tier: symbol name -> all symbols with
	// that exact name across the project.
	SymbolMap map[string][]Symbol

	// NormalizedSymbolMap is the normalized tier: a normalized token (see
	// internal/normalizer) -> all symbols whose name produces that token.
	NormalizedSymbolMap map[string][]Symbol
}

// NewCodebaseIndex creates an empty index rooted at rootPath.
func NewCodebaseIndex(rootPath string) *CodebaseIndex {
	return &CodebaseIndex{
		RootPath:            rootPath,
		SymbolMap:           make(map[string][]Symbol),
		NormalizedSymbolMap: make(map[string][]Symbol),
	}
}

// AddFile records an indexed file and folds its symbols into both
// symbol-map tiers. Normalization tokens are supplied by the caller so
// this type has no dependency on the normalizer package.
func (idx *CodebaseIndex) AddFile(file IndexedFile, normalize func(string) []string) {
	idx.Files = append(idx.Files, file)
	idx.TotalFiles++

	for _, sym := range file.Symbols {
		idx.SymbolMap[sym.Name] = append(idx.SymbolMap[sym.Name], sym)
		for _, tok := range normalize(sym.Name) {
			idx.NormalizedSymbolMap[tok] = append(idx.NormalizedSymbolMap[tok], sym)
		}
	}
}

// VectorMetadata is the sidecar record kept alongside each vector in the
// vector index, at the same slice position as the vector's id.
type VectorMetadata struct {
	SymbolName string
	FilePath   string
	Language   string
	StartLine  int
	EndLine    int
	Signature  string
	DocComment string
}

// CacheMetadata describes a persisted project cache: when it was built and
// the file mtimes it was built from, used to decide cache validity on the
// next load.
type CacheMetadata struct {
	ProjectPath    string
	CachedAt       int64 // unix seconds
	FileCount      int
	FileTimestamps map[string]int64 // relative path -> unix mtime seconds

	// VectorDimensions is 0 when the build ran without an embedder
	// (vectors.usearch was not written); otherwise the dimensionality
	// needed to reconstruct the HNSW graph on load.
	VectorDimensions int
}

// IsValid reports whether the cache remains valid against the current set
// of file mtimes: every cached file must still exist with an identical
// mtime, and no new files may have appeared.
func (m *CacheMetadata) IsValid(current map[string]int64) bool {
	if len(m.FileTimestamps) != len(current) {
		return false
	}

	for path, cachedTime := range m.FileTimestamps {
		currentTime, ok := current[path]
		if !ok || currentTime != cachedTime {
			return false
		}
	}

	for path := range current {
		if _, ok := m.FileTimestamps[path]; !ok {
			return false
		}
	}

	return true
}

// HybridConfig controls how the three retrieval backends are weighted and
// fused by the RRF fuser.
type HybridConfig struct {
	TraditionalWeight float64
	FullTextWeight    float64
	SemanticWeight    float64
	RRFConstant       float64
	MaxResults        int
}

// DefaultHybridConfig is the Mixed-query preset: balanced across full-text
// and semantic, traditional symbol lookup de-emphasized.
func DefaultHybridConfig() HybridConfig {
	return HybridConfig{
		TraditionalWeight: 0.2,
		FullTextWeight:    0.4,
		SemanticWeight:    0.4,
		RRFConstant:       60.0,
		MaxResults:        50,
	}
}

// ExactMatchConfig favors the symbol-map backend, for single-token
// likely-symbol queries.
func ExactMatchConfig() HybridConfig {
	cfg := DefaultHybridConfig()
	cfg.TraditionalWeight = 0.7
	cfg.FullTextWeight = 0.2
	cfg.SemanticWeight = 0.1
	return cfg
}

// FilePathConfig favors traditional/path-oriented retrieval and disables
// the semantic backend entirely, for queries that look like file paths.
func FilePathConfig() HybridConfig {
	cfg := DefaultHybridConfig()
	cfg.TraditionalWeight = 0.8
	cfg.FullTextWeight = 0.2
	cfg.SemanticWeight = 0.0
	return cfg
}

// SemanticFocusedConfig favors the vector backend, for natural-language
// intent queries ("how does X work").
func SemanticFocusedConfig() HybridConfig {
	cfg := DefaultHybridConfig()
	cfg.TraditionalWeight = 0.1
	cfg.FullTextWeight = 0.2
	cfg.SemanticWeight = 0.7
	return cfg
}

// ContentFocusedConfig favors the full-text backend, for queries that
// contain code-shaped tokens (keywords like "func", "class").
func ContentFocusedConfig() HybridConfig {
	cfg := DefaultHybridConfig()
	cfg.TraditionalWeight = 0.1
	cfg.FullTextWeight = 0.6
	cfg.SemanticWeight = 0.3
	return cfg
}
