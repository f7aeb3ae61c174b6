package fulltext

import (
	"fmt"
	"os"
	"strconv"

	"github.com/blevesearch/bleve/v2"
	"github.com/blevesearch/bleve/v2/search"
	"github.com/blevesearch/bleve/v2/search/query"

	"github.com/codelensd/engine/pkg/types"
)

// document is the eight-field mapping indexed per symbol.
type document struct {
	SymbolName string `json:"symbol_name"`
	FilePath   string `json:"file_path"`
	Language   string `json:"language"`
	SymbolKind string `json:"symbol_kind"`
	Signature  string `json:"signature"`
	DocComment string `json:"doc_comment"`
	StartLine  int    `json:"start_line"`
	EndLine    int    `json:"end_line"`
}

// analyzedFields are the text fields the disjunction query is formed over.
var analyzedFields = []string{"symbol_name", "signature", "doc_comment", "file_path"}

// Index is the bleve-backed full-text index, persisted as a directory.
type Index struct {
	bleve bleve.Index
	path  string
}

// Open opens the full-text index directory at path, creating it with the
// eight-field mapping if it does not already exist.
func Open(path string) (*Index, error) {
	if _, statErr := os.Stat(path); statErr == nil {
		idx, err := bleve.Open(path)
		if err != nil {
			return nil, fmt.Errorf("open full-text index: %w", err)
		}
		return &Index{bleve: idx, path: path}, nil
	}

	idx, err := bleve.New(path, buildMapping())
	if err != nil {
		return nil, fmt.Errorf("create full-text index: %w", err)
	}
	return &Index{bleve: idx, path: path}, nil
}

func buildMapping() *bleve.IndexMapping {
	symbolField := bleve.NewTextFieldMapping()
	symbolField.Analyzer = "standard"

	keywordField := bleve.NewTextFieldMapping()
	keywordField.Analyzer = "keyword"

	numericField := bleve.NewNumericFieldMapping()

	doc := bleve.NewDocumentMapping()
	doc.AddFieldMappingsAt("symbol_name", symbolField)
	doc.AddFieldMappingsAt("file_path", symbolField)
	doc.AddFieldMappingsAt("language", keywordField)
	doc.AddFieldMappingsAt("symbol_kind", keywordField)
	doc.AddFieldMappingsAt("signature", symbolField)
	doc.AddFieldMappingsAt("doc_comment", symbolField)
	doc.AddFieldMappingsAt("start_line", numericField)
	doc.AddFieldMappingsAt("end_line", numericField)

	mapping := bleve.NewIndexMapping()
	mapping.DefaultMapping = doc
	return mapping
}

// Close releases the underlying bleve index.
func (idx *Index) Close() error {
	return idx.bleve.Close()
}

// docID is the dedup key shared with types.CodeChunk.Key(): file_path plus
// the symbol's line span.
func docID(filePath string, startLine, endLine int) string {
	return filePath + ":" + strconv.Itoa(startLine) + ":" + strconv.Itoa(endLine)
}

// AddSymbol adds one document for the given symbol to batch. The engine
// accumulates every file's symbols in a single batch and calls Commit once
// after the whole traversal.
func (idx *Index) AddSymbol(batch *bleve.Batch, sym types.Symbol) error {
	doc := document{
		SymbolName: sym.Name,
		FilePath:   sym.FilePath,
		Language:   sym.Language,
		SymbolKind: string(sym.Kind),
		Signature:  sym.Signature,
		DocComment: sym.DocComment,
		StartLine:  sym.StartLine,
		EndLine:    sym.EndLine,
	}
	return batch.Index(docID(sym.FilePath, sym.StartLine, sym.EndLine), doc)
}

// NewBatch returns a fresh batch for accumulating AddSymbol calls before a
// Commit.
func (idx *Index) NewBatch() *bleve.Batch {
	return idx.bleve.NewBatch()
}

// Commit flushes a batch of indexed documents to disk.
func (idx *Index) Commit(batch *bleve.Batch) error {
	if batch.Size() == 0 {
		return nil
	}
	return idx.bleve.Batch(batch)
}

// Search runs an OR-joined match query over the analyzed text fields and
// returns chunks ranked by bleve's relevance score. Each chunk's Content is
// the symbol's signature, same as the symbol map backend; the engine later
// replaces it with the source text the span covers.
func (idx *Index) Search(keywords []string, maxResults int) ([]types.CodeChunk, error) {
	if len(keywords) == 0 {
		return nil, nil
	}

	disjuncts := make([]query.Query, 0, len(keywords)*len(analyzedFields))
	for _, kw := range keywords {
		for _, field := range analyzedFields {
			mq := bleve.NewMatchQuery(kw)
			mq.SetField(field)
			disjuncts = append(disjuncts, mq)
		}
	}

	req := bleve.NewSearchRequestOptions(query.NewDisjunctionQuery(disjuncts), maxResults, 0, false)
	req.Fields = []string{"file_path", "language", "symbol_name", "start_line", "end_line", "symbol_kind", "signature", "doc_comment"}

	result, err := idx.bleve.Search(req)
	if err != nil {
		return nil, fmt.Errorf("full-text search: %w", err)
	}

	chunks := make([]types.CodeChunk, 0, len(result.Hits))
	for _, hit := range result.Hits {
		chunk, ok := hitToChunk(hit)
		if !ok {
			continue
		}
		chunks = append(chunks, chunk)
	}
	return chunks, nil
}

func hitToChunk(hit *search.DocumentMatch) (types.CodeChunk, bool) {
	filePath, _ := hit.Fields["file_path"].(string)
	if filePath == "" {
		return types.CodeChunk{}, false
	}
	signature, _ := hit.Fields["signature"].(string)
	language, _ := hit.Fields["language"].(string)
	symbolName, _ := hit.Fields["symbol_name"].(string)

	startLine := fieldToInt(hit.Fields["start_line"])
	endLine := fieldToInt(hit.Fields["end_line"])

	return types.CodeChunk{
		FilePath:       filePath,
		StartLine:      startLine,
		EndLine:        endLine,
		Content:        signature,
		Language:       language,
		RelevanceScore: hit.Score,
		Symbols:        []types.Symbol{{Name: symbolName, FilePath: filePath, StartLine: startLine, EndLine: endLine}},
	}, true
}

func fieldToInt(v interface{}) int {
	switch n := v.(type) {
	case float64:
		return int(n)
	case int:
		return n
	default:
		return 0
	}
}
