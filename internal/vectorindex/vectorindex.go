package vectorindex

import (
	"fmt"
	"io"
	"sync"

	"github.com/coder/hnsw"

	"github.com/codelensd/engine/pkg/types"
)

// coder/hnsw has no separate construction-time ef; EfSearch governs the
// candidate list size used both while inserting and while querying.
const (
	graphM   = 16
	searchEf = 64
)

// Index is a disk-backed HNSW vector index plus its sidecar metadata.
// Safe for concurrent Search calls; Add/Clear take an exclusive lock since
// the vector id assigned to a new entry must be the next slice position.
type Index struct {
	mu         sync.RWMutex
	graph      *hnsw.Graph[uint64]
	metadata   []types.VectorMetadata
	dimensions int
	nextID     uint64
}

// New creates an empty index for vectors of the given dimensionality.
func New(dimensions int) *Index {
	g := hnsw.NewGraph[uint64]()
	g.M = graphM
	g.EfSearch = searchEf
	g.Distance = hnsw.CosineDistance
	return &Index{
		graph:      g,
		dimensions: dimensions,
	}
}

// Add inserts a vector and its associated metadata, returning the id
// assigned to it. The caller must have already L2-normalized vector.
func (idx *Index) Add(vector []float32, meta types.VectorMetadata) (uint64, error) {
	if len(vector) != idx.dimensions {
		return 0, fmt.Errorf("%w: expected %d, got %d", types.ErrDimensionMismatch, idx.dimensions, len(vector))
	}

	idx.mu.Lock()
	defer idx.mu.Unlock()

	id := idx.nextID
	idx.graph.Add(hnsw.MakeNode(id, vector))
	idx.metadata = append(idx.metadata, meta)
	idx.nextID++

	return id, nil
}

// Result is a single nearest-neighbor match.
type Result struct {
	Metadata   types.VectorMetadata
	Similarity float64
}

// Search returns the k nearest neighbors to query, ranked by descending
// cosine similarity (1 - cosine distance).
func (idx *Index) Search(query []float32, k int) ([]Result, error) {
	if len(query) != idx.dimensions {
		return nil, fmt.Errorf("%w: expected %d, got %d", types.ErrDimensionMismatch, idx.dimensions, len(query))
	}

	idx.mu.RLock()
	defer idx.mu.RUnlock()

	neighbors := idx.graph.Search(query, k)

	results := make([]Result, 0, len(neighbors))
	for _, n := range neighbors {
		if int(n.Key) >= len(idx.metadata) {
			continue
		}
		dist := hnsw.CosineDistance(query, n.Value)
		results = append(results, Result{
			Metadata:   idx.metadata[n.Key],
			Similarity: 1 - float64(dist),
		})
	}

	return results, nil
}

// Len returns the number of vectors stored in the index.
func (idx *Index) Len() int {
	idx.mu.RLock()
	defer idx.mu.RUnlock()
	return len(idx.metadata)
}

// AllMetadata returns the dense, id-ordered metadata slice (id == index).
// Used by the cache layer to persist vectors_metadata.bin.
func (idx *Index) AllMetadata() []types.VectorMetadata {
	idx.mu.RLock()
	defer idx.mu.RUnlock()
	out := make([]types.VectorMetadata, len(idx.metadata))
	copy(out, idx.metadata)
	return out
}

// Clear discards all vectors and metadata, resetting the index to empty.
func (idx *Index) Clear() {
	idx.mu.Lock()
	defer idx.mu.Unlock()

	g := hnsw.NewGraph[uint64]()
	g.M = graphM
	g.EfSearch = searchEf
	g.Distance = hnsw.CosineDistance
	idx.graph = g
	idx.metadata = nil
	idx.nextID = 0
}

// Dimensions returns the configured vector dimensionality.
func (idx *Index) Dimensions() int {
	return idx.dimensions
}

// Export serializes the HNSW graph itself (not the sidecar metadata,
// which the cache layer persists separately) so it can be reloaded
// without re-inserting every vector.
func (idx *Index) Export(w io.Writer) error {
	idx.mu.RLock()
	defer idx.mu.RUnlock()
	return idx.graph.Export(w)
}

// Load reconstructs an Index from a previously Exported graph plus the
// metadata slice persisted alongside it; the two must have been saved
// from the same build so that vector ids and metadata rows line up.
func Load(r io.Reader, dimensions int, meta []types.VectorMetadata) (*Index, error) {
	g := hnsw.NewGraph[uint64]()
	g.M = graphM
	g.EfSearch = searchEf
	g.Distance = hnsw.CosineDistance

	if err := g.Import(r); err != nil {
		return nil, fmt.Errorf("import vector graph: %w", err)
	}

	return &Index{
		graph:      g,
		metadata:   meta,
		dimensions: dimensions,
		nextID:     uint64(len(meta)),
	}, nil
}
