package parser

import (
	"fmt"
	"os"
	"strings"
	"sync"
	"time"

	ts "github.com/tree-sitter/go-tree-sitter"

	"github.com/codelensd/engine/pkg/types"
)

const maxSignatureLen = 500

// Parser extracts declarations from source files across every supported
// language, keeping one pool of *ts.Parser per (language, TSX-variant)
// grammar.
type Parser struct {
	mu    sync.Mutex
	pools map[string]*pool
}

// New creates a Parser with empty, lazily-filled grammar pools.
func New() *Parser {
	return &Parser{pools: make(map[string]*pool)}
}

// Close releases every pooled parser. The Parser must not be used after
// Close returns.
func (p *Parser) Close() {
	p.mu.Lock()
	defer p.mu.Unlock()
	for _, pl := range p.pools {
		pl.close()
	}
	p.pools = make(map[string]*pool)
}

func (p *Parser) poolFor(lang Language, tsx bool) (*pool, error) {
	key := string(lang)
	if tsx {
		key += ":tsx"
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	if pl, ok := p.pools[key]; ok {
		return pl, nil
	}

	grammar, err := languageGrammar(lang, tsx)
	if err != nil {
		return nil, err
	}
	pl := newPool(grammar, defaultPoolSize)
	p.pools[key] = pl
	return pl, nil
}

// ParseFile parses a single source file and extracts its declarations,
// imports, and naming-pattern tags. Returns types.ErrUnsupportedLanguage
// (wrapped) if the file's extension is not one of the supported languages.
func (p *Parser) ParseFile(path string, source []byte) (*types.IndexedFile, error) {
	lang := DetectLanguage(path)
	if lang == LangUnknown {
		return nil, types.NewEngineError(types.CategoryInput, "parser.ParseFile", path, types.ErrUnsupportedLanguage)
	}

	pl, err := p.poolFor(lang, IsTSXFile(path))
	if err != nil {
		return nil, types.NewEngineError(types.CategoryBackend, "parser.ParseFile", path, err)
	}

	tsParser, err := pl.acquire()
	if err != nil {
		return nil, types.NewEngineError(types.CategoryBackend, "parser.ParseFile", path, err)
	}
	defer pl.release(tsParser)

	tree := tsParser.Parse(source, nil)
	if tree == nil {
		return nil, types.NewEngineError(types.CategoryParse, "parser.ParseFile", path, fmt.Errorf("parse produced no tree"))
	}
	defer tree.Close()

	file := &types.IndexedFile{
		Path:     path,
		Language: string(lang),
	}

	visitor := &extractor{
		source:   source,
		path:     path,
		language: lang,
		file:     file,
	}
	visitor.visit(tree.RootNode())

	if info, statErr := os.Stat(path); statErr == nil {
		file.LastModified = info.ModTime()
	} else {
		file.LastModified = time.Now()
	}

	return file, nil
}

// extractor performs the depth-first, per-node-kind-dispatch walk that
// populates an IndexedFile's Symbols and Imports.
type extractor struct {
	source   []byte
	path     string
	language Language
	file     *types.IndexedFile
}

func (e *extractor) visit(node *ts.Node) {
	if node == nil {
		return
	}

	kind := node.Kind()

	if kinds, ok := importKinds[e.language]; ok && kinds[kind] {
		if kind == "export_statement" {
			e.file.Exports = append(e.file.Exports, e.text(node))
		} else {
			e.file.Imports = append(e.file.Imports, e.text(node))
		}
	}

	if symbolKind, ok := nodeKinds[e.language][kind]; ok {
		sym := e.buildSymbol(node, symbolKind)
		if sym != nil {
			applyNamingPattern(sym)
			e.file.Symbols = append(e.file.Symbols, *sym)
		}
	}

	count := node.ChildCount()
	for i := uint(0); i < count; i++ {
		e.visit(node.Child(i))
	}
}

// buildSymbol does not infer parent linkage: every symbol's Parent is left
// at its zero value.
func (e *extractor) buildSymbol(node *ts.Node, kind types.SymbolKind) *types.Symbol {
	name := e.extractName(node)
	if name == "" {
		return nil
	}

	start := node.StartPosition()
	end := node.EndPosition()

	return &types.Symbol{
		Name:      name,
		Kind:      kind,
		FilePath:  e.path,
		Language:  string(e.language),
		Signature: e.signature(node),
		StartLine: int(start.Row) + 1,
		EndLine:   int(end.Row) + 1,
	}
}

// extractName finds the first child whose kind is "identifier",
// "type_identifier", or contains the substring "name" — the same
// heuristic used by the system this engine was modeled on. It is a
// heuristic, not a per-grammar field lookup, and can miss a name on node
// kinds whose name child uses a different kind string (e.g. a JS class
// method's "property_identifier").
func (e *extractor) extractName(node *ts.Node) string {
	count := node.ChildCount()
	for i := uint(0); i < count; i++ {
		child := node.Child(i)
		if child == nil {
			continue
		}
		k := child.Kind()
		if k == "identifier" || k == "type_identifier" || strings.Contains(k, "name") {
			return e.text(child)
		}
	}
	return ""
}

func (e *extractor) signature(node *ts.Node) string {
	text := e.text(node)
	if len(text) > maxSignatureLen {
		return text[:maxSignatureLen] + "..."
	}
	return text
}

func (e *extractor) text(node *ts.Node) string {
	return string(e.source[node.StartByte():node.EndByte()])
}
