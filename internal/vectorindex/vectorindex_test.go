package vectorindex_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/codelensd/engine/internal/vectorindex"
	"github.com/codelensd/engine/pkg/types"
)

func normalize(v []float32) []float32 {
	var sumSq float32
	for _, x := range v {
		sumSq += x * x
	}
	if sumSq == 0 {
		return v
	}
	norm := float32(1) / sqrt32(sumSq)
	out := make([]float32, len(v))
	for i, x := range v {
		out[i] = x * norm
	}
	return out
}

func sqrt32(x float32) float32 {
	// Newton's method seeded at x; twenty iterations converge to float32
	// precision for the small sums of squares these test vectors produce.
	z := x
	for i := 0; i < 20; i++ {
		z -= (z*z - x) / (2 * z)
	}
	return z
}

func meta(name string) types.VectorMetadata {
	return types.VectorMetadata{SymbolName: name, FilePath: "a.rs", StartLine: 1, EndLine: 2}
}

func TestAddSearchRoundTrip(t *testing.T) {
	idx := vectorindex.New(4)
	vec := normalize([]float32{1, 0, 0, 0})

	id, err := idx.Add(vec, meta("exact"))
	require.NoError(t, err)
	assert.Equal(t, uint64(0), id)

	results, err := idx.Search(vec, 1)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "exact", results[0].Metadata.SymbolName)
	assert.InDelta(t, 1.0, results[0].Similarity, 1e-3)
}

func TestAddDimensionMismatch(t *testing.T) {
	idx := vectorindex.New(4)
	_, err := idx.Add([]float32{1, 0}, meta("bad"))
	assert.ErrorIs(t, err, types.ErrDimensionMismatch)
}

func TestSearchDimensionMismatch(t *testing.T) {
	idx := vectorindex.New(4)
	_, err := idx.Search([]float32{1, 0}, 1)
	assert.ErrorIs(t, err, types.ErrDimensionMismatch)
}

func TestSearchRanksNearDuplicateAboveDissimilar(t *testing.T) {
	idx := vectorindex.New(4)

	near := normalize([]float32{1, 0, 0, 0})
	query := normalize([]float32{0.95, 0.05, 0, 0})
	far := normalize([]float32{0, 0, 0, 1})

	_, err := idx.Add(near, meta("near"))
	require.NoError(t, err)
	_, err = idx.Add(far, meta("far"))
	require.NoError(t, err)

	results, err := idx.Search(query, 2)
	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.Equal(t, "near", results[0].Metadata.SymbolName)
	assert.Greater(t, results[0].Similarity, results[1].Similarity)
}

func TestLenAndAllMetadataTrackInsertOrder(t *testing.T) {
	idx := vectorindex.New(2)
	v1 := normalize([]float32{1, 0})
	v2 := normalize([]float32{0, 1})

	_, _ = idx.Add(v1, meta("first"))
	_, _ = idx.Add(v2, meta("second"))

	assert.Equal(t, 2, idx.Len())
	all := idx.AllMetadata()
	require.Len(t, all, 2)
	assert.Equal(t, "first", all[0].SymbolName)
	assert.Equal(t, "second", all[1].SymbolName)
}

func TestClearResetsIndex(t *testing.T) {
	idx := vectorindex.New(2)
	v := normalize([]float32{1, 0})
	_, _ = idx.Add(v, meta("gone"))
	require.Equal(t, 1, idx.Len())

	idx.Clear()
	assert.Equal(t, 0, idx.Len())
	assert.Empty(t, idx.AllMetadata())

	id, err := idx.Add(v, meta("fresh"))
	require.NoError(t, err)
	assert.Equal(t, uint64(0), id, "id sequence should restart after Clear")
}

func TestDimensions(t *testing.T) {
	idx := vectorindex.New(384)
	assert.Equal(t, 384, idx.Dimensions())
}
