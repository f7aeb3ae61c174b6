package engine_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/codelensd/engine/internal/engine"
	"github.com/codelensd/engine/pkg/types"
)

const authSource = `
fn authenticate_user(username: &str, password: &str) -> bool {
    username.len() > 0 && password.len() > 0
}
`

const utilsSource = `
fn parse_json(input: &str) -> bool {
    input.starts_with("{")
}
`

func newTestEngine(t *testing.T) *engine.Engine {
	t.Helper()
	e, err := engine.New(engine.Config{CacheDir: t.TempDir(), Workers: 2})
	require.NoError(t, err)
	t.Cleanup(func() { _ = e.Close() })
	return e
}

func writeProject(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "auth.rs"), []byte(authSource), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "utils.rs"), []byte(utilsSource), 0o644))
	return dir
}

func TestIndexCodebaseBuildsProjectAndReportsStats(t *testing.T) {
	e := newTestEngine(t)
	project := writeProject(t)

	result, err := e.IndexCodebase(context.Background(), project, false)
	require.NoError(t, err)
	assert.True(t, result.Success)
	assert.Equal(t, 2, result.TotalFiles)
	assert.Contains(t, result.Languages, "rust")

	stats, err := e.GetIndexStats()
	require.NoError(t, err)
	assert.Equal(t, 2, stats.TotalFiles)
	assert.True(t, stats.Health.FullTextOpen)
}

func TestQueryIndexRanksExactKeywordMatchFirst(t *testing.T) {
	e := newTestEngine(t)
	project := writeProject(t)

	_, err := e.IndexCodebase(context.Background(), project, false)
	require.NoError(t, err)

	chunks, err := e.QueryIndex(context.Background(), engine.IndexQuery{Keywords: []string{"authenticate"}})
	require.NoError(t, err)
	require.NotEmpty(t, chunks)
	assert.Contains(t, chunks[0].Symbols[0].Name, "authenticate")
}

func TestSearchFilesReturnsExactFileMatch(t *testing.T) {
	e := newTestEngine(t)
	project := writeProject(t)

	_, err := e.IndexCodebase(context.Background(), project, false)
	require.NoError(t, err)

	paths, err := e.SearchFiles("auth.rs", 10)
	require.NoError(t, err)
	require.Len(t, paths, 1)
	assert.Equal(t, "auth.rs", paths[0])
}

func TestGetFileSymbolsReturnsSymbolsForFile(t *testing.T) {
	e := newTestEngine(t)
	project := writeProject(t)

	_, err := e.IndexCodebase(context.Background(), project, false)
	require.NoError(t, err)

	symbols, err := e.GetFileSymbols("auth.rs")
	require.NoError(t, err)
	require.Len(t, symbols, 1)
	assert.Equal(t, "authenticate_user", symbols[0].Name)
}

func TestQueryIndexBeforeBuildReturnsErrNotIndexed(t *testing.T) {
	e := newTestEngine(t)
	_, err := e.QueryIndex(context.Background(), engine.IndexQuery{Keywords: []string{"x"}})
	assert.ErrorIs(t, err, types.ErrNotIndexed)
}

func TestSearchSemanticWithoutEmbeddingsReturnsErrEmbedderUnavailable(t *testing.T) {
	e := newTestEngine(t)
	project := writeProject(t)

	_, err := e.IndexCodebase(context.Background(), project, false)
	require.NoError(t, err)

	_, err = e.SearchSemantic(context.Background(), "authentication", 5)
	assert.ErrorIs(t, err, types.ErrEmbedderUnavailable)
}

func TestIndexCodebaseRebuildsAfterMtimeChange(t *testing.T) {
	e := newTestEngine(t)
	project := writeProject(t)

	first, err := e.IndexCodebase(context.Background(), project, false)
	require.NoError(t, err)
	require.True(t, first.Success)

	utilsPath := filepath.Join(project, "utils.rs")
	newer := time.Now().Add(2 * time.Hour)
	require.NoError(t, os.Chtimes(utilsPath, newer, newer))

	second, err := e.IndexCodebase(context.Background(), project, false)
	require.NoError(t, err)
	assert.True(t, second.Success)
	assert.Equal(t, 2, second.TotalFiles)
}

func TestIndexCodebaseSkipsRebuildWhenCacheValid(t *testing.T) {
	e := newTestEngine(t)
	project := writeProject(t)

	first, err := e.IndexCodebase(context.Background(), project, false)
	require.NoError(t, err)
	require.True(t, first.Success)

	second, err := e.IndexCodebase(context.Background(), project, false)
	require.NoError(t, err)
	assert.True(t, second.Success)
	assert.Zero(t, second.DurationMs, "a cache load reports zero build duration")
}

func TestIndexCodebaseRejectsMissingPath(t *testing.T) {
	e := newTestEngine(t)
	_, err := e.IndexCodebase(context.Background(), filepath.Join(t.TempDir(), "does-not-exist"), false)
	assert.ErrorIs(t, err, types.ErrProjectNotFound)
}

func TestQueryIndexFiltersBySymbolKind(t *testing.T) {
	e := newTestEngine(t)
	project := writeProject(t)

	_, err := e.IndexCodebase(context.Background(), project, false)
	require.NoError(t, err)

	chunks, err := e.QueryIndex(context.Background(), engine.IndexQuery{
		Keywords:    []string{"authenticate"},
		SymbolKinds: []types.SymbolKind{types.KindStruct},
	})
	require.NoError(t, err)
	assert.Empty(t, chunks, "authenticate_user is a function, not a struct")
}

func TestQueryIndexPopulatesContentFromSource(t *testing.T) {
	e := newTestEngine(t)
	project := writeProject(t)

	_, err := e.IndexCodebase(context.Background(), project, false)
	require.NoError(t, err)

	chunks, err := e.QueryIndex(context.Background(), engine.IndexQuery{Keywords: []string{"authenticate"}})
	require.NoError(t, err)
	require.NotEmpty(t, chunks)
	assert.Contains(t, chunks[0].Content, "fn authenticate_user")
}

func TestIndexedProjectLoadsFromCacheInNewEngineInstance(t *testing.T) {
	cacheDir := t.TempDir()
	project := writeProject(t)

	e1, err := engine.New(engine.Config{CacheDir: cacheDir, Workers: 2})
	require.NoError(t, err)
	_, err = e1.IndexCodebase(context.Background(), project, false)
	require.NoError(t, err)
	require.NoError(t, e1.Close())

	e2, err := engine.New(engine.Config{CacheDir: cacheDir, Workers: 2})
	require.NoError(t, err)
	t.Cleanup(func() { _ = e2.Close() })

	result, err := e2.IndexCodebase(context.Background(), project, false)
	require.NoError(t, err)
	assert.True(t, result.Success)
	assert.Zero(t, result.DurationMs, "a valid cache is loaded, not rebuilt")

	stats, err := e2.GetIndexStats()
	require.NoError(t, err)
	assert.Equal(t, 2, stats.TotalFiles)
}
