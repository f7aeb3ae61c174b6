package cache

import (
	"encoding/gob"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"

	"github.com/cespare/xxhash/v2"

	"github.com/codelensd/engine/pkg/types"
)

const (
	indexFileName          = "index.bin"
	vectorIndexFileName    = "vectors.usearch"
	vectorMetadataFileName = "vectors_metadata.bin"
	fullTextDirName        = "tantivy"
	metadataFileName       = "metadata.json"
)

// Store locates and manages per-project cache directories under a single
// base directory, each keyed by a stable hash of the project's absolute
// path so the same project always resolves to the same directory.
type Store struct {
	baseDir string
}

// New returns a Store rooted at baseDir, creating it if necessary.
func New(baseDir string) (*Store, error) {
	if err := os.MkdirAll(baseDir, 0o755); err != nil {
		return nil, types.NewEngineError(types.CategoryIO, "cache.New", baseDir, err)
	}
	return &Store{baseDir: baseDir}, nil
}

// DefaultBaseDir returns the per-user cache root: $XDG_CACHE_HOME (or its
// platform equivalent via os.UserCacheDir) joined with "codelensd/indexes".
func DefaultBaseDir() (string, error) {
	dir, err := os.UserCacheDir()
	if err != nil {
		return "", fmt.Errorf("resolve user cache dir: %w", err)
	}
	return filepath.Join(dir, "codelensd", "indexes"), nil
}

// hashPath returns a stable, non-cryptographic, hex-encoded 64-bit hash of
// the absolute project path, used as that project's cache directory name.
func hashPath(projectPath string) string {
	return strconv.FormatUint(xxhash.Sum64String(projectPath), 16)
}

// ProjectDir returns the directory holding projectPath's cached index.
func (s *Store) ProjectDir(projectPath string) string {
	return filepath.Join(s.baseDir, hashPath(projectPath))
}

// EnsureProjectDir creates (if needed) and returns the project's cache
// directory.
func (s *Store) EnsureProjectDir(projectPath string) (string, error) {
	dir := s.ProjectDir(projectPath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", types.NewEngineError(types.CategoryIO, "cache.EnsureProjectDir", dir, err)
	}
	return dir, nil
}

func (s *Store) IndexPath(projectPath string) string {
	return filepath.Join(s.ProjectDir(projectPath), indexFileName)
}

func (s *Store) VectorMetadataPath(projectPath string) string {
	return filepath.Join(s.ProjectDir(projectPath), vectorMetadataFileName)
}

func (s *Store) FullTextDir(projectPath string) string {
	return filepath.Join(s.ProjectDir(projectPath), fullTextDirName)
}

func (s *Store) MetadataPath(projectPath string) string {
	return filepath.Join(s.ProjectDir(projectPath), metadataFileName)
}

// VectorIndexPath is the exported HNSW graph file. The name
// (vectors.usearch) is kept from the on-disk contract this cache layer
// was modeled on even though the engine backing it is coder/hnsw, not
// usearch — the same naming-continuity choice already made for
// FullTextDir's "tantivy" name.
func (s *Store) VectorIndexPath(projectPath string) string {
	return filepath.Join(s.ProjectDir(projectPath), vectorIndexFileName)
}

// WriteVectorIndex creates this project's vector-index file and hands it
// to write, so the caller (which owns the actual vectorindex.Index) can
// serialize it without this package depending on that type.
func (s *Store) WriteVectorIndex(projectPath string, write func(w io.Writer) error) error {
	path := s.VectorIndexPath(projectPath)
	f, err := os.Create(path)
	if err != nil {
		return types.NewEngineError(types.CategoryIO, "cache.WriteVectorIndex", path, err)
	}
	defer f.Close()

	if err := write(f); err != nil {
		return types.NewEngineError(types.CategoryBackend, "cache.WriteVectorIndex", path, err)
	}
	return nil
}

// ReadVectorIndex opens this project's vector-index file and hands it to
// read for deserialization.
func (s *Store) ReadVectorIndex(projectPath string, read func(r io.Reader) error) error {
	path := s.VectorIndexPath(projectPath)
	f, err := os.Open(path)
	if err != nil {
		return types.NewEngineError(types.CategoryIO, "cache.ReadVectorIndex", path, err)
	}
	defer f.Close()

	if err := read(f); err != nil {
		return types.NewEngineError(types.CategoryBackend, "cache.ReadVectorIndex", path, err)
	}
	return nil
}

// HasCachedIndex reports whether both the index and metadata files exist
// for projectPath.
func (s *Store) HasCachedIndex(projectPath string) bool {
	if _, err := os.Stat(s.IndexPath(projectPath)); err != nil {
		return false
	}
	if _, err := os.Stat(s.MetadataPath(projectPath)); err != nil {
		return false
	}
	return true
}

// ClearProject removes the entire cache directory for projectPath.
func (s *Store) ClearProject(projectPath string) error {
	dir := s.ProjectDir(projectPath)
	if _, err := os.Stat(dir); os.IsNotExist(err) {
		return nil
	}
	if err := os.RemoveAll(dir); err != nil {
		return types.NewEngineError(types.CategoryIO, "cache.ClearProject", dir, err)
	}
	return nil
}

// SaveIndex gob-encodes idx to this project's index.bin.
func (s *Store) SaveIndex(projectPath string, idx *types.CodebaseIndex) error {
	path := s.IndexPath(projectPath)
	f, err := os.Create(path)
	if err != nil {
		return types.NewEngineError(types.CategoryIO, "cache.SaveIndex", path, err)
	}
	defer f.Close()

	if err := gob.NewEncoder(f).Encode(idx); err != nil {
		return types.NewEngineError(types.CategoryState, "cache.SaveIndex", path, err)
	}
	return nil
}

// LoadIndex decodes the cached CodebaseIndex for projectPath.
func (s *Store) LoadIndex(projectPath string) (*types.CodebaseIndex, error) {
	path := s.IndexPath(projectPath)
	f, err := os.Open(path)
	if err != nil {
		return nil, types.NewEngineError(types.CategoryIO, "cache.LoadIndex", path, err)
	}
	defer f.Close()

	var idx types.CodebaseIndex
	if err := gob.NewDecoder(f).Decode(&idx); err != nil {
		return nil, types.NewEngineError(types.CategoryState, "cache.LoadIndex", path, err)
	}
	return &idx, nil
}

// SaveVectorMetadata gob-encodes the dense, id-ordered vector metadata
// slice to this project's vectors_metadata.bin.
func (s *Store) SaveVectorMetadata(projectPath string, meta []types.VectorMetadata) error {
	path := s.VectorMetadataPath(projectPath)
	f, err := os.Create(path)
	if err != nil {
		return types.NewEngineError(types.CategoryIO, "cache.SaveVectorMetadata", path, err)
	}
	defer f.Close()

	if err := gob.NewEncoder(f).Encode(meta); err != nil {
		return types.NewEngineError(types.CategoryState, "cache.SaveVectorMetadata", path, err)
	}
	return nil
}

// LoadVectorMetadata decodes the cached vector metadata slice.
func (s *Store) LoadVectorMetadata(projectPath string) ([]types.VectorMetadata, error) {
	path := s.VectorMetadataPath(projectPath)
	f, err := os.Open(path)
	if err != nil {
		return nil, types.NewEngineError(types.CategoryIO, "cache.LoadVectorMetadata", path, err)
	}
	defer f.Close()

	var meta []types.VectorMetadata
	if err := gob.NewDecoder(f).Decode(&meta); err != nil {
		return nil, types.NewEngineError(types.CategoryState, "cache.LoadVectorMetadata", path, err)
	}
	return meta, nil
}

// SaveMetadata writes CacheMetadata as human-readable JSON.
func (s *Store) SaveMetadata(projectPath string, meta types.CacheMetadata) error {
	path := s.MetadataPath(projectPath)
	data, err := json.MarshalIndent(meta, "", "  ")
	if err != nil {
		return types.NewEngineError(types.CategoryState, "cache.SaveMetadata", path, err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return types.NewEngineError(types.CategoryIO, "cache.SaveMetadata", path, err)
	}
	return nil
}

// LoadMetadata reads and parses this project's metadata.json. A missing
// or corrupt file is reported via types.ErrCacheCorrupt so callers can
// treat it uniformly as "rebuild from scratch".
func (s *Store) LoadMetadata(projectPath string) (types.CacheMetadata, error) {
	path := s.MetadataPath(projectPath)
	data, err := os.ReadFile(path)
	if err != nil {
		return types.CacheMetadata{}, fmt.Errorf("%w: %v", types.ErrCacheCorrupt, err)
	}

	var meta types.CacheMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return types.CacheMetadata{}, fmt.Errorf("%w: %v", types.ErrCacheCorrupt, err)
	}
	return meta, nil
}

// Info summarizes one project's cache for listing/status reporting.
type Info struct {
	ProjectPath string
	CachedAt    int64
	FileCount   int
	SizeBytes   int64
}

// ListProjects enumerates every cached project under the store's base
// directory.
func (s *Store) ListProjects() ([]Info, error) {
	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, types.NewEngineError(types.CategoryIO, "cache.ListProjects", s.baseDir, err)
	}

	var infos []Info
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		dir := filepath.Join(s.baseDir, entry.Name())
		metaPath := filepath.Join(dir, metadataFileName)
		data, err := os.ReadFile(metaPath)
		if err != nil {
			continue
		}
		var meta types.CacheMetadata
		if err := json.Unmarshal(data, &meta); err != nil {
			continue
		}
		size, _ := dirSize(dir)
		infos = append(infos, Info{
			ProjectPath: meta.ProjectPath,
			CachedAt:    meta.CachedAt,
			FileCount:   meta.FileCount,
			SizeBytes:   size,
		})
	}
	return infos, nil
}

func dirSize(root string) (int64, error) {
	var total int64
	entries, err := os.ReadDir(root)
	if err != nil {
		return 0, err
	}
	for _, entry := range entries {
		path := filepath.Join(root, entry.Name())
		if entry.IsDir() {
			sub, err := dirSize(path)
			if err != nil {
				continue
			}
			total += sub
		} else {
			info, err := entry.Info()
			if err != nil {
				continue
			}
			total += info.Size()
		}
	}
	return total, nil
}
