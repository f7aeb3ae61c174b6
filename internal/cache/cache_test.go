package cache_test

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/codelensd/engine/internal/cache"
	"github.com/codelensd/engine/pkg/types"
)

func newStore(t *testing.T) *cache.Store {
	t.Helper()
	s, err := cache.New(t.TempDir())
	require.NoError(t, err)
	return s
}

func TestProjectDirIsStableAndDistinct(t *testing.T) {
	s := newStore(t)
	a1 := s.ProjectDir("/home/user/project-a")
	a2 := s.ProjectDir("/home/user/project-a")
	b := s.ProjectDir("/home/user/project-b")

	assert.Equal(t, a1, a2)
	assert.NotEqual(t, a1, b)
}

func TestHasCachedIndexFalseUntilBothFilesExist(t *testing.T) {
	s := newStore(t)
	project := "/repo"

	assert.False(t, s.HasCachedIndex(project))

	_, err := s.EnsureProjectDir(project)
	require.NoError(t, err)
	require.NoError(t, s.SaveIndex(project, types.NewCodebaseIndex(project)))
	assert.False(t, s.HasCachedIndex(project), "metadata.json still missing")

	require.NoError(t, s.SaveMetadata(project, types.CacheMetadata{ProjectPath: project}))
	assert.True(t, s.HasCachedIndex(project))
}

func TestSaveLoadIndexRoundTrip(t *testing.T) {
	s := newStore(t)
	project := "/repo"
	_, err := s.EnsureProjectDir(project)
	require.NoError(t, err)

	idx := types.NewCodebaseIndex(project)
	idx.Files = append(idx.Files, types.IndexedFile{Path: "a.rs", Language: "rust"})
	idx.TotalFiles = 1

	require.NoError(t, s.SaveIndex(project, idx))

	loaded, err := s.LoadIndex(project)
	require.NoError(t, err)
	assert.Equal(t, project, loaded.RootPath)
	assert.Equal(t, 1, loaded.TotalFiles)
	require.Len(t, loaded.Files, 1)
	assert.Equal(t, "a.rs", loaded.Files[0].Path)
}

func TestSaveLoadVectorMetadataRoundTrip(t *testing.T) {
	s := newStore(t)
	project := "/repo"
	_, err := s.EnsureProjectDir(project)
	require.NoError(t, err)

	meta := []types.VectorMetadata{
		{SymbolName: "foo", FilePath: "a.rs", StartLine: 1, EndLine: 2},
		{SymbolName: "bar", FilePath: "b.rs", StartLine: 3, EndLine: 4},
	}
	require.NoError(t, s.SaveVectorMetadata(project, meta))

	loaded, err := s.LoadVectorMetadata(project)
	require.NoError(t, err)
	assert.Equal(t, meta, loaded)
}

func TestSaveLoadMetadataRoundTrip(t *testing.T) {
	s := newStore(t)
	project := "/repo"
	_, err := s.EnsureProjectDir(project)
	require.NoError(t, err)

	meta := types.CacheMetadata{
		ProjectPath:    project,
		CachedAt:       1234,
		FileCount:      2,
		FileTimestamps: map[string]int64{"a.rs": 100, "b.rs": 200},
	}
	require.NoError(t, s.SaveMetadata(project, meta))

	loaded, err := s.LoadMetadata(project)
	require.NoError(t, err)
	assert.Equal(t, meta, loaded)
}

func TestLoadMetadataMissingReturnsCacheCorrupt(t *testing.T) {
	s := newStore(t)
	_, err := s.LoadMetadata("/never/indexed")
	assert.ErrorIs(t, err, types.ErrCacheCorrupt)
}

func TestClearProjectRemovesDirectory(t *testing.T) {
	s := newStore(t)
	project := "/repo"
	dir, err := s.EnsureProjectDir(project)
	require.NoError(t, err)

	require.NoError(t, s.ClearProject(project))
	assert.NoDirExists(t, dir)

	// Clearing an already-absent project is a no-op, not an error.
	assert.NoError(t, s.ClearProject(project))
}

func TestListProjectsReflectsSavedMetadata(t *testing.T) {
	s := newStore(t)
	project := "/repo-one"
	_, err := s.EnsureProjectDir(project)
	require.NoError(t, err)
	require.NoError(t, s.SaveMetadata(project, types.CacheMetadata{ProjectPath: project, FileCount: 5}))

	infos, err := s.ListProjects()
	require.NoError(t, err)
	require.Len(t, infos, 1)
	assert.Equal(t, project, infos[0].ProjectPath)
	assert.Equal(t, 5, infos[0].FileCount)
}

func TestDefaultBaseDirJoinsCodelensdIndexes(t *testing.T) {
	dir, err := cache.DefaultBaseDir()
	require.NoError(t, err)
	assert.Equal(t, "codelensd", filepath.Base(filepath.Dir(dir)))
	assert.Equal(t, "indexes", filepath.Base(dir))
}
