package engine

import "github.com/codelensd/engine/pkg/types"

// IndexQuery is the request shape for QueryIndex: keywords drive the
// traditional and full-text backends, the joined keyword text drives the
// semantic backend, and the optional filters narrow the fused result set.
type IndexQuery struct {
	Keywords       []string
	SymbolKinds    []types.SymbolKind
	FilePatterns   []string
	NamingPatterns []string // supplemental filter: "repository", "service", "handler", "controller", "entity"
	MaxResults     int
	HybridConfig   *types.HybridConfig
}

// IndexResult is the response shape for IndexCodebase.
type IndexResult struct {
	Success      bool
	TotalFiles   int
	TotalSymbols int
	Languages    []string
	DurationMs   int64
	Errors       []string
}

// BackendHealth reports whether each retrieval backend is usable for the
// currently loaded project.
type BackendHealth struct {
	FullTextOpen    bool
	VectorIndexOpen bool
	EmbedderReady   bool
}

// Stats is the response shape for GetIndexStats.
type Stats struct {
	TotalFiles int
	Languages  map[string]int
	RootPath   string
	IndexedAt  int64
	Health     BackendHealth
}
