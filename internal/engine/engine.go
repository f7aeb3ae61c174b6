package engine

import (
	"context"
	"crypto/sha256"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/bmatcuk/doublestar/v4"
	lru "github.com/hashicorp/golang-lru/v2"
	"golang.org/x/sync/errgroup"

	"github.com/codelensd/engine/internal/analyzer"
	"github.com/codelensd/engine/internal/cache"
	"github.com/codelensd/engine/internal/chunker"
	"github.com/codelensd/engine/internal/embedder"
	"github.com/codelensd/engine/internal/fulltext"
	"github.com/codelensd/engine/internal/fusion"
	"github.com/codelensd/engine/internal/normalizer"
	"github.com/codelensd/engine/internal/parser"
	"github.com/codelensd/engine/internal/symbolmap"
	"github.com/codelensd/engine/internal/vectorindex"
	"github.com/codelensd/engine/pkg/types"
)

const queryCacheSize = 1000

// Config configures a new Engine.
type Config struct {
	// CacheDir is the base directory holding every project's cache
	// subdirectory. Empty means cache.DefaultBaseDir().
	CacheDir string

	// Workers bounds the indexing worker pool. <=0 means runtime.NumCPU().
	Workers int

	// GenerateEmbeddings controls whether a build populates the vector
	// backend at all; when false (or when the embedder cannot be
	// constructed) the build proceeds with traditional and full-text
	// retrieval only, matching the degraded-embedder propagation policy.
	GenerateEmbeddings bool
}

// Engine orchestrates indexing and querying for one project's state at a
// time. Its mutable state is partitioned across three locks: locksMu
// (the indexer-instance mutex, guarding the per-project build-lock
// table), stateMu (the loaded-CodebaseIndex mutex, guarding the active
// project's in-memory index and backends), and embedMu (the
// persistence-config mutex, guarding the lazily-constructed shared
// embedder). The query-result cache is guarded separately by queryMu.
type Engine struct {
	cfg    Config
	store  *cache.Store
	parser *parser.Parser
	norm   *normalizer.Normalizer

	embedMu  sync.Mutex
	embedder embedder.Embedder

	stateMu    sync.RWMutex
	project    string
	index      *types.CodebaseIndex
	fulltext   *fulltext.Index
	vectors    *vectorindex.Index
	embedReady bool
	indexedAt  int64

	locksMu sync.Mutex
	locks   map[string]*buildLock

	queryMu    sync.Mutex
	queryCache *lru.Cache[[32]byte, []types.CodeChunk]
}

// New constructs an Engine and its cache store, creating the cache
// directory if necessary.
func New(cfg Config) (*Engine, error) {
	baseDir := cfg.CacheDir
	if baseDir == "" {
		dir, err := cache.DefaultBaseDir()
		if err != nil {
			return nil, fmt.Errorf("resolve cache dir: %w", err)
		}
		baseDir = dir
	}

	store, err := cache.New(baseDir)
	if err != nil {
		return nil, err
	}

	if cfg.Workers <= 0 {
		cfg.Workers = runtime.NumCPU()
	}

	qc, err := lru.New[[32]byte, []types.CodeChunk](queryCacheSize)
	if err != nil {
		return nil, fmt.Errorf("create query cache: %w", err)
	}

	return &Engine{
		cfg:        cfg,
		store:      store,
		parser:     parser.New(),
		norm:       normalizer.New(),
		locks:      make(map[string]*buildLock),
		queryCache: qc,
	}, nil
}

// Close releases the parser's pooled tree-sitter grammars, the active
// full-text index, and the shared embedder.
func (e *Engine) Close() error {
	e.parser.Close()

	e.stateMu.Lock()
	if e.fulltext != nil {
		e.fulltext.Close()
		e.fulltext = nil
	}
	e.stateMu.Unlock()

	e.embedMu.Lock()
	if e.embedder != nil {
		e.embedder.Close()
		e.embedder = nil
	}
	e.embedMu.Unlock()

	return nil
}

func (e *Engine) ensureEmbedder() (embedder.Embedder, error) {
	e.embedMu.Lock()
	defer e.embedMu.Unlock()

	if e.embedder != nil {
		return e.embedder, nil
	}

	emb, err := embedder.NewFromEnv()
	if err != nil {
		return nil, err
	}
	e.embedder = emb
	return emb, nil
}

func (e *Engine) acquireLock(project string) *buildLock {
	e.locksMu.Lock()
	l, ok := e.locks[project]
	if !ok {
		l = &buildLock{}
		e.locks[project] = l
	}
	e.locksMu.Unlock()

	if l.tryAcquire() {
		return l
	}
	return nil
}

// IndexCodebase performs a cache check then rebuild-or-load, matching
// spec.md's index_codebase contract. Concurrent calls for the same
// project fail fast with types.ErrIndexingInProgress rather than
// queueing.
func (e *Engine) IndexCodebase(ctx context.Context, rootPath string, forceReindex bool) (*IndexResult, error) {
	absPath, err := filepath.Abs(rootPath)
	if err != nil {
		return nil, types.NewEngineError(types.CategoryInput, "engine.IndexCodebase", rootPath, err)
	}

	info, statErr := os.Stat(absPath)
	if statErr != nil || !info.IsDir() {
		return nil, fmt.Errorf("%w: %s", types.ErrProjectNotFound, absPath)
	}

	lock := e.acquireLock(absPath)
	if lock == nil {
		return nil, types.ErrIndexingInProgress
	}
	defer lock.release()

	start := time.Now()

	if !forceReindex && e.store.HasCachedIndex(absPath) {
		meta, loadErr := e.store.LoadMetadata(absPath)
		if loadErr == nil {
			current, walkErr := e.collectTimestamps(absPath)
			if walkErr == nil && meta.IsValid(current) {
				return e.loadFromCache(absPath, meta)
			}
		}
	}

	return e.rebuild(ctx, absPath, start)
}

// fileEntry pairs a file's absolute path (used for reading/parsing) with
// its project-relative path (used as the cache-metadata timestamp key and
// the IndexedFile.Path recorded in the index).
type fileEntry struct {
	abs string
	rel string
}

func (e *Engine) discoverFiles(root string) ([]fileEntry, []string) {
	var files []fileEntry
	var errs []string
	ignore := newIgnoreSet(root)

	_ = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			errs = append(errs, fmt.Sprintf("%s: %v", path, err))
			return nil
		}

		rel, relErr := filepath.Rel(root, path)
		if relErr != nil {
			rel = path
		}
		rel = filepath.ToSlash(rel)

		if d.IsDir() {
			if rel != "." && ignore.matches(rel) {
				return filepath.SkipDir
			}
			ignore.loadDir(path)
			return nil
		}

		if ignore.matches(rel) {
			return nil
		}
		if parser.DetectLanguage(path) == parser.LangUnknown {
			return nil
		}

		files = append(files, fileEntry{abs: path, rel: rel})
		return nil
	})

	sort.Slice(files, func(i, j int) bool { return files[i].rel < files[j].rel })
	return files, errs
}

func (e *Engine) collectTimestamps(root string) (map[string]int64, error) {
	files, _ := e.discoverFiles(root)
	timestamps := make(map[string]int64, len(files))
	for _, f := range files {
		info, err := os.Stat(f.abs)
		if err != nil {
			return nil, err
		}
		timestamps[f.rel] = info.ModTime().Unix()
	}
	return timestamps, nil
}

// rebuild performs a from-scratch build: parse every discovered file
// concurrently, then merge results into the three backends in
// deterministic (sorted relative path) order, so vector ids stay
// monotonically increasing in discovery order as spec.md requires.
func (e *Engine) rebuild(ctx context.Context, absPath string, start time.Time) (*IndexResult, error) {
	if _, err := e.store.EnsureProjectDir(absPath); err != nil {
		return nil, err
	}

	files, errMsgs := e.discoverFiles(absPath)
	parsed := make([]*types.IndexedFile, len(files))

	g, gctx := errgroup.WithContext(ctx)
	sem := make(chan struct{}, e.cfg.Workers)
	var mu sync.Mutex

	for i, f := range files {
		i, f := i, f
		g.Go(func() error {
			select {
			case sem <- struct{}{}:
			case <-gctx.Done():
				return gctx.Err()
			}
			defer func() { <-sem }()

			data, readErr := os.ReadFile(f.abs)
			if readErr != nil {
				mu.Lock()
				errMsgs = append(errMsgs, fmt.Sprintf("%s: %v", f.rel, readErr))
				mu.Unlock()
				return nil
			}

			file, parseErr := e.parser.ParseFile(f.rel, data)
			if parseErr != nil {
				mu.Lock()
				errMsgs = append(errMsgs, fmt.Sprintf("%s: %v", f.rel, parseErr))
				mu.Unlock()
				return nil
			}

			parsed[i] = file
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	if err := os.RemoveAll(e.store.FullTextDir(absPath)); err != nil && !os.IsNotExist(err) {
		return nil, types.NewEngineError(types.CategoryIO, "engine.rebuild", absPath, err)
	}
	ft, err := fulltext.Open(e.store.FullTextDir(absPath))
	if err != nil {
		return nil, types.NewEngineError(types.CategoryBackend, "engine.rebuild", absPath, err)
	}

	var emb embedder.Embedder
	if e.cfg.GenerateEmbeddings {
		var embErr error
		emb, embErr = e.ensureEmbedder()
		if embErr != nil {
			errMsgs = append(errMsgs, fmt.Sprintf("embeddings disabled: %v", embErr))
			emb = nil
		}
	}

	var vec *vectorindex.Index
	if emb != nil {
		vec = vectorindex.New(emb.Dimension())
	}

	idx := types.NewCodebaseIndex(absPath)
	batch := ft.NewBatch()
	totalSymbols := 0

	for _, file := range parsed {
		if file == nil {
			continue
		}
		idx.AddFile(*file, e.norm.NormalizeSymbol)
		totalSymbols += len(file.Symbols)

		for _, sym := range file.Symbols {
			if addErr := ft.AddSymbol(batch, sym); addErr != nil {
				errMsgs = append(errMsgs, fmt.Sprintf("fulltext add %s: %v", sym.Name, addErr))
			}
		}

		if vec != nil && len(file.Symbols) > 0 {
			e.embedFileSymbols(ctx, emb, vec, file.Symbols, &errMsgs)
		}
	}

	if err := ft.Commit(batch); err != nil {
		errMsgs = append(errMsgs, fmt.Sprintf("fulltext commit: %v", err))
	}

	timestamps := make(map[string]int64, len(files))
	for _, f := range files {
		if info, statErr := os.Stat(f.abs); statErr == nil {
			timestamps[f.rel] = info.ModTime().Unix()
		}
	}

	if err := e.finalize(absPath, idx, ft, vec, timestamps); err != nil {
		return nil, err
	}

	return &IndexResult{
		Success:      true,
		TotalFiles:   idx.TotalFiles,
		TotalSymbols: totalSymbols,
		Languages:    collectLanguages(idx),
		DurationMs:   time.Since(start).Milliseconds(),
		Errors:       errMsgs,
	}, nil
}

func (e *Engine) embedFileSymbols(ctx context.Context, emb embedder.Embedder, vec *vectorindex.Index, symbols []types.Symbol, errMsgs *[]string) {
	texts := make([]string, len(symbols))
	for i, sym := range symbols {
		texts[i] = embedder.SymbolToText(sym)
	}

	resp, err := emb.GenerateBatch(ctx, embedder.BatchEmbeddingRequest{Texts: texts})
	if err != nil {
		*errMsgs = append(*errMsgs, fmt.Sprintf("embedding batch: %v", err))
		return
	}

	for i, sym := range symbols {
		if i >= len(resp.Embeddings) || resp.Embeddings[i] == nil {
			continue
		}
		meta := types.VectorMetadata{
			SymbolName: sym.Name,
			FilePath:   sym.FilePath,
			Language:   sym.Language,
			StartLine:  sym.StartLine,
			EndLine:    sym.EndLine,
			Signature:  sym.Signature,
			DocComment: sym.DocComment,
		}
		if _, addErr := vec.Add(resp.Embeddings[i].Vector, meta); addErr != nil {
			*errMsgs = append(*errMsgs, fmt.Sprintf("vector add %s: %v", sym.Name, addErr))
		}
	}
}

func (e *Engine) finalize(project string, idx *types.CodebaseIndex, ft *fulltext.Index, vec *vectorindex.Index, timestamps map[string]int64) error {
	if err := e.store.SaveIndex(project, idx); err != nil {
		return err
	}

	meta := types.CacheMetadata{
		ProjectPath:    project,
		CachedAt:       time.Now().Unix(),
		FileCount:      idx.TotalFiles,
		FileTimestamps: timestamps,
	}

	if vec != nil {
		if err := e.store.SaveVectorMetadata(project, vec.AllMetadata()); err != nil {
			return err
		}
		if err := e.store.WriteVectorIndex(project, vec.Export); err != nil {
			return err
		}
		meta.VectorDimensions = vec.Dimensions()
	}

	if err := e.store.SaveMetadata(project, meta); err != nil {
		return err
	}

	e.stateMu.Lock()
	e.closeCurrentLocked()
	e.project = project
	e.index = idx
	e.fulltext = ft
	e.vectors = vec
	e.embedReady = vec != nil
	e.indexedAt = meta.CachedAt
	e.stateMu.Unlock()

	e.invalidateQueryCache()
	return nil
}

// closeCurrentLocked must be called with stateMu held for writing.
func (e *Engine) closeCurrentLocked() {
	if e.fulltext != nil {
		e.fulltext.Close()
	}
}

func (e *Engine) loadFromCache(project string, meta types.CacheMetadata) (*IndexResult, error) {
	idx, err := e.store.LoadIndex(project)
	if err != nil {
		return nil, err
	}

	ft, err := fulltext.Open(e.store.FullTextDir(project))
	if err != nil {
		return nil, types.NewEngineError(types.CategoryBackend, "engine.loadFromCache", project, err)
	}

	var vec *vectorindex.Index
	if meta.VectorDimensions > 0 {
		vmeta, vErr := e.store.LoadVectorMetadata(project)
		if vErr == nil {
			_ = e.store.ReadVectorIndex(project, func(r io.Reader) error {
				loaded, loadErr := vectorindex.Load(r, meta.VectorDimensions, vmeta)
				if loadErr != nil {
					return loadErr
				}
				vec = loaded
				return nil
			})
		}
	}

	e.stateMu.Lock()
	e.closeCurrentLocked()
	e.project = project
	e.index = idx
	e.fulltext = ft
	e.vectors = vec
	e.embedReady = vec != nil
	e.indexedAt = meta.CachedAt
	e.stateMu.Unlock()

	e.invalidateQueryCache()

	return &IndexResult{
		Success:      true,
		TotalFiles:   idx.TotalFiles,
		TotalSymbols: countSymbols(idx),
		Languages:    collectLanguages(idx),
		DurationMs:   0,
	}, nil
}

func collectLanguages(idx *types.CodebaseIndex) []string {
	set := make(map[string]struct{})
	for _, f := range idx.Files {
		set[f.Language] = struct{}{}
	}
	langs := make([]string, 0, len(set))
	for l := range set {
		langs = append(langs, l)
	}
	sort.Strings(langs)
	return langs
}

func countSymbols(idx *types.CodebaseIndex) int {
	total := 0
	for _, f := range idx.Files {
		total += len(f.Symbols)
	}
	return total
}

// QueryIndex runs the hybrid search: traditional symbol-map, full-text,
// and (when an embedder is available) vector retrieval fan out
// concurrently, are fused via reciprocal rank fusion, then filtered by
// any symbol-kind/file-pattern/naming-pattern constraints on q.
func (e *Engine) QueryIndex(ctx context.Context, q IndexQuery) ([]types.CodeChunk, error) {
	e.stateMu.RLock()
	idx, ft, vec, project := e.index, e.fulltext, e.vectors, e.project
	e.stateMu.RUnlock()

	if idx == nil {
		return nil, types.ErrNotIndexed
	}

	maxResults := q.MaxResults
	if maxResults <= 0 {
		maxResults = 50
	}

	cfg := types.DefaultHybridConfig()
	if q.HybridConfig != nil {
		cfg = *q.HybridConfig
	} else if len(q.Keywords) > 0 {
		cfg = analyzer.ConfigFor(analyzer.Analyze(strings.Join(q.Keywords, " ")))
	}
	cfg.MaxResults = maxResults

	key := queryCacheKey(project, q, cfg)
	if cached, ok := e.queryCacheGet(key); ok {
		return cached, nil
	}

	var traditional, fullTextResults, semantic []types.CodeChunk
	var wg sync.WaitGroup
	wg.Add(3)

	go func() {
		defer wg.Done()
		traditional = symbolmap.Search(idx, q.Keywords, e.norm, maxResults*2)
	}()

	go func() {
		defer wg.Done()
		if ft == nil || len(q.Keywords) == 0 {
			return
		}
		if res, err := ft.Search(q.Keywords, maxResults*2); err == nil {
			fullTextResults = res
		}
	}()

	go func() {
		defer wg.Done()
		if vec == nil || len(q.Keywords) == 0 {
			return
		}
		emb, err := e.ensureEmbedder()
		if err != nil {
			return
		}
		resp, err := emb.GenerateEmbedding(ctx, embedder.EmbeddingRequest{Text: strings.Join(q.Keywords, " ")})
		if err != nil {
			return
		}
		hits, err := vec.Search(resp.Vector, maxResults*2)
		if err != nil {
			return
		}
		semantic = make([]types.CodeChunk, 0, len(hits))
		for _, h := range hits {
			semantic = append(semantic, metadataToChunk(h.Metadata, h.Similarity))
		}
	}()

	wg.Wait()

	lists := []fusion.WeightedList{
		{Results: traditional, Weight: cfg.TraditionalWeight},
		{Results: fullTextResults, Weight: cfg.FullTextWeight},
		{Results: semantic, Weight: cfg.SemanticWeight},
	}
	fused := fusion.Fuse(lists, cfg.RRFConstant, maxResults*4)

	filtered := e.applyFilters(fused, q)
	if len(filtered) > maxResults {
		filtered = filtered[:maxResults]
	}
	filtered = e.enrichContent(project, filtered)

	e.queryCacheSet(key, filtered)
	return filtered, nil
}

// enrichContent replaces each chunk's placeholder Content (its symbol's
// signature, set by whichever backend produced the hit) with the verbatim
// source text it spans. A chunk whose file can no longer be read (moved,
// deleted since indexing) keeps its signature rather than erroring the
// whole query.
func (e *Engine) enrichContent(project string, chunks []types.CodeChunk) []types.CodeChunk {
	for i := range chunks {
		if text, err := chunker.Extract(project, chunks[i].FilePath, chunks[i].StartLine, chunks[i].EndLine); err == nil {
			chunks[i].Content = text
		}
	}
	return chunks
}

func metadataToChunk(meta types.VectorMetadata, similarity float64) types.CodeChunk {
	return types.CodeChunk{
		FilePath:       meta.FilePath,
		StartLine:      meta.StartLine,
		EndLine:        meta.EndLine,
		Content:        meta.Signature,
		Language:       meta.Language,
		RelevanceScore: similarity,
		Symbols: []types.Symbol{{
			Name:       meta.SymbolName,
			FilePath:   meta.FilePath,
			Language:   meta.Language,
			StartLine:  meta.StartLine,
			EndLine:    meta.EndLine,
			Signature:  meta.Signature,
			DocComment: meta.DocComment,
		}},
	}
}

func (e *Engine) applyFilters(chunks []types.CodeChunk, q IndexQuery) []types.CodeChunk {
	if len(q.SymbolKinds) == 0 && len(q.FilePatterns) == 0 && len(q.NamingPatterns) == 0 {
		return chunks
	}

	kindSet := make(map[types.SymbolKind]struct{}, len(q.SymbolKinds))
	for _, k := range q.SymbolKinds {
		kindSet[k] = struct{}{}
	}
	namingSet := make(map[string]struct{}, len(q.NamingPatterns))
	for _, n := range q.NamingPatterns {
		namingSet[strings.ToLower(n)] = struct{}{}
	}

	filtered := make([]types.CodeChunk, 0, len(chunks))
	for _, c := range chunks {
		if len(q.FilePatterns) > 0 && !matchesAnyPattern(c.FilePath, q.FilePatterns) {
			continue
		}
		if len(kindSet) > 0 && !chunkHasKind(c, kindSet) {
			continue
		}
		if len(namingSet) > 0 && !chunkHasNaming(c, namingSet) {
			continue
		}
		filtered = append(filtered, c)
	}
	return filtered
}

func matchesAnyPattern(path string, patterns []string) bool {
	for _, p := range patterns {
		if ok, err := doublestar.Match(p, path); err == nil && ok {
			return true
		}
		if strings.Contains(path, p) {
			return true
		}
	}
	return false
}

func chunkHasKind(c types.CodeChunk, kinds map[types.SymbolKind]struct{}) bool {
	for _, s := range c.Symbols {
		if _, ok := kinds[s.Kind]; ok {
			return true
		}
	}
	return false
}

func chunkHasNaming(c types.CodeChunk, naming map[string]struct{}) bool {
	for _, s := range c.Symbols {
		if _, ok := naming["repository"]; ok && s.IsRepository {
			return true
		}
		if _, ok := naming["service"]; ok && s.IsService {
			return true
		}
		if _, ok := naming["handler"]; ok && s.IsHandler {
			return true
		}
		if _, ok := naming["controller"]; ok && s.IsController {
			return true
		}
		if _, ok := naming["entity"]; ok && s.IsEntity {
			return true
		}
	}
	return false
}

// GetIndexStats returns the currently loaded project's summary plus
// per-backend health flags.
func (e *Engine) GetIndexStats() (*Stats, error) {
	e.stateMu.RLock()
	defer e.stateMu.RUnlock()

	if e.index == nil {
		return nil, types.ErrNotIndexed
	}

	langs := make(map[string]int)
	for _, f := range e.index.Files {
		langs[f.Language]++
	}

	e.embedMu.Lock()
	embedderReady := e.embedder != nil
	e.embedMu.Unlock()

	return &Stats{
		TotalFiles: e.index.TotalFiles,
		Languages:  langs,
		RootPath:   e.index.RootPath,
		IndexedAt:  e.indexedAt,
		Health: BackendHealth{
			FullTextOpen:    e.fulltext != nil,
			VectorIndexOpen: e.vectors != nil,
			EmbedderReady:   embedderReady || e.embedReady,
		},
	}, nil
}

// GetFileSymbols returns the symbols extracted from filePath, matched
// either by its full recorded path or its base name.
func (e *Engine) GetFileSymbols(filePath string) ([]types.Symbol, error) {
	e.stateMu.RLock()
	defer e.stateMu.RUnlock()

	if e.index == nil {
		return nil, types.ErrNotIndexed
	}

	for _, f := range e.index.Files {
		if f.Path == filePath || filepath.Base(f.Path) == filePath {
			return f.Symbols, nil
		}
	}
	return nil, nil
}

// SearchFiles returns indexed file paths matching query, either as a
// substring or as a doublestar glob pattern.
func (e *Engine) SearchFiles(query string, maxResults int) ([]string, error) {
	e.stateMu.RLock()
	defer e.stateMu.RUnlock()

	if e.index == nil {
		return nil, types.ErrNotIndexed
	}
	if maxResults <= 0 {
		maxResults = 50
	}

	lower := strings.ToLower(query)
	seen := make(map[string]struct{})
	var matches []string

	for _, f := range e.index.Files {
		if _, ok := seen[f.Path]; ok {
			continue
		}
		hit := strings.Contains(strings.ToLower(f.Path), lower)
		if !hit {
			if ok, err := doublestar.Match(query, f.Path); err == nil && ok {
				hit = true
			}
		}
		if hit {
			seen[f.Path] = struct{}{}
			matches = append(matches, f.Path)
		}
	}

	sort.Strings(matches)
	if len(matches) > maxResults {
		matches = matches[:maxResults]
	}
	return matches, nil
}

// SearchSemantic runs a vector-only search against the currently loaded
// project's vector backend.
func (e *Engine) SearchSemantic(ctx context.Context, query string, maxResults int) ([]types.CodeChunk, error) {
	e.stateMu.RLock()
	idx, vec := e.index, e.vectors
	e.stateMu.RUnlock()

	if idx == nil {
		return nil, types.ErrNotIndexed
	}
	if vec == nil {
		return nil, fmt.Errorf("%w: no vector index for this project", types.ErrEmbedderUnavailable)
	}
	if maxResults <= 0 {
		maxResults = 50
	}

	emb, err := e.ensureEmbedder()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", types.ErrEmbedderUnavailable, err)
	}

	resp, err := emb.GenerateEmbedding(ctx, embedder.EmbeddingRequest{Text: query})
	if err != nil {
		return nil, err
	}

	hits, err := vec.Search(resp.Vector, maxResults)
	if err != nil {
		return nil, err
	}

	chunks := make([]types.CodeChunk, 0, len(hits))
	for _, h := range hits {
		chunks = append(chunks, metadataToChunk(h.Metadata, h.Similarity))
	}

	e.stateMu.RLock()
	project := e.project
	e.stateMu.RUnlock()
	chunks = e.enrichContent(project, chunks)

	return chunks, nil
}

func (e *Engine) queryCacheGet(key [32]byte) ([]types.CodeChunk, bool) {
	e.queryMu.Lock()
	defer e.queryMu.Unlock()

	v, ok := e.queryCache.Get(key)
	if !ok {
		return nil, false
	}
	out := make([]types.CodeChunk, len(v))
	copy(out, v)
	return out, true
}

func (e *Engine) queryCacheSet(key [32]byte, chunks []types.CodeChunk) {
	e.queryMu.Lock()
	defer e.queryMu.Unlock()

	cp := make([]types.CodeChunk, len(chunks))
	copy(cp, chunks)
	e.queryCache.Add(key, cp)
}

func (e *Engine) invalidateQueryCache() {
	e.queryMu.Lock()
	defer e.queryMu.Unlock()
	e.queryCache.Purge()
}

func queryCacheKey(project string, q IndexQuery, cfg types.HybridConfig) [32]byte {
	var b strings.Builder
	b.WriteString(project)
	b.WriteByte('|')
	b.WriteString(strings.Join(q.Keywords, ","))
	b.WriteByte('|')

	kinds := make([]string, len(q.SymbolKinds))
	for i, k := range q.SymbolKinds {
		kinds[i] = string(k)
	}
	sort.Strings(kinds)
	b.WriteString(strings.Join(kinds, ","))
	b.WriteByte('|')

	patterns := append([]string{}, q.FilePatterns...)
	sort.Strings(patterns)
	b.WriteString(strings.Join(patterns, ","))
	b.WriteByte('|')

	naming := append([]string{}, q.NamingPatterns...)
	sort.Strings(naming)
	b.WriteString(strings.Join(naming, ","))

	fmt.Fprintf(&b, "|%.4f|%.4f|%.4f|%.4f|%d",
		cfg.TraditionalWeight, cfg.FullTextWeight, cfg.SemanticWeight, cfg.RRFConstant, cfg.MaxResults)

	return sha256.Sum256([]byte(b.String()))
}
