package fulltext_test

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/codelensd/engine/internal/fulltext"
	"github.com/codelensd/engine/pkg/types"
)

func openTemp(t *testing.T) *fulltext.Index {
	t.Helper()
	idx, err := fulltext.Open(filepath.Join(t.TempDir(), "tantivy"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = idx.Close() })
	return idx
}

func TestOpenCreatesIndexWhenMissing(t *testing.T) {
	idx := openTemp(t)
	assert.NotNil(t, idx)
}

func TestAddSymbolAndSearchFindsByName(t *testing.T) {
	idx := openTemp(t)

	batch := idx.NewBatch()
	require.NoError(t, idx.AddSymbol(batch, types.Symbol{
		Name: "authenticate_user", Kind: types.KindFunction, FilePath: "auth.rs",
		Language: "rust", Signature: "fn authenticate_user(token: &str) -> bool",
		StartLine: 10, EndLine: 20,
	}))
	require.NoError(t, idx.AddSymbol(batch, types.Symbol{
		Name: "parse_json", Kind: types.KindFunction, FilePath: "utils.rs",
		Language: "rust", Signature: "fn parse_json(s: &str) -> Value",
		StartLine: 1, EndLine: 5,
	}))
	require.NoError(t, idx.Commit(batch))

	results, err := idx.Search([]string{"authenticate"}, 10)
	require.NoError(t, err)
	require.NotEmpty(t, results)
	assert.Equal(t, "auth.rs", results[0].FilePath)
}

func TestSearchEmptyKeywordsReturnsNothing(t *testing.T) {
	idx := openTemp(t)
	results, err := idx.Search(nil, 10)
	require.NoError(t, err)
	assert.Empty(t, results)
}

func TestSearchRespectsMaxResults(t *testing.T) {
	idx := openTemp(t)

	batch := idx.NewBatch()
	for i := 0; i < 5; i++ {
		require.NoError(t, idx.AddSymbol(batch, types.Symbol{
			Name: "handler_fn", Kind: types.KindFunction, FilePath: "h.rs",
			Language: "rust", Signature: "fn handler_fn()",
			StartLine: i*2 + 1, EndLine: i*2 + 2,
		}))
	}
	require.NoError(t, idx.Commit(batch))

	results, err := idx.Search([]string{"handler"}, 2)
	require.NoError(t, err)
	assert.LessOrEqual(t, len(results), 2)
}

func TestCommitOfEmptyBatchIsNoop(t *testing.T) {
	idx := openTemp(t)
	require.NoError(t, idx.Commit(idx.NewBatch()))
}
