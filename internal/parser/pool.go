package parser

import (
	"fmt"
	"sync"

	ts "github.com/tree-sitter/go-tree-sitter"
	tsjavascript "github.com/tree-sitter/tree-sitter-javascript/bindings/go"
	tspython "github.com/tree-sitter/tree-sitter-python/bindings/go"
	tsrust "github.com/tree-sitter/tree-sitter-rust/bindings/go"
	tstypescript "github.com/tree-sitter/tree-sitter-typescript/bindings/go"
)

// defaultPoolSize bounds how many concurrent parsers a language pool will
// create; additional acquirers block until one is released.
const defaultPoolSize = 4

// languageGrammar returns the tree-sitter grammar for lang, selecting the
// TSX variant of the TypeScript grammar when tsx is true.
func languageGrammar(lang Language, tsx bool) (*ts.Language, error) {
	switch lang {
	case LangRust:
		return ts.NewLanguage(tsrust.Language()), nil
	case LangJavaScript:
		return ts.NewLanguage(tsjavascript.Language()), nil
	case LangTypeScript:
		if tsx {
			return ts.NewLanguage(tstypescript.LanguageTSX()), nil
		}
		return ts.NewLanguage(tstypescript.LanguageTypescript()), nil
	case LangPython:
		return ts.NewLanguage(tspython.Language()), nil
	default:
		return nil, fmt.Errorf("parser: no grammar for language %q", lang)
	}
}

// pool is a channel-based, lazily-filled pool of *ts.Parser for a single
// grammar. tree-sitter parsers are not safe for concurrent reuse, so each
// goroutine indexing a file of a given language acquires one for the
// duration of that file's parse.
type pool struct {
	parsers chan *ts.Parser
	grammar *ts.Language
	maxSize int

	mu      sync.Mutex
	created int
}

func newPool(grammar *ts.Language, maxSize int) *pool {
	return &pool{
		parsers: make(chan *ts.Parser, maxSize),
		grammar: grammar,
		maxSize: maxSize,
	}
}

func (p *pool) acquire() (*ts.Parser, error) {
	select {
	case parser := <-p.parsers:
		return parser, nil
	default:
		return p.createOrWait()
	}
}

func (p *pool) createOrWait() (*ts.Parser, error) {
	p.mu.Lock()
	if p.created < p.maxSize {
		parser := ts.NewParser()
		if err := parser.SetLanguage(p.grammar); err != nil {
			p.mu.Unlock()
			return nil, fmt.Errorf("parser: set language: %w", err)
		}
		p.created++
		p.mu.Unlock()
		return parser, nil
	}
	p.mu.Unlock()
	return <-p.parsers, nil
}

func (p *pool) release(parser *ts.Parser) {
	if parser == nil {
		return
	}
	select {
	case p.parsers <- parser:
	default:
		parser.Close()
	}
}

func (p *pool) close() {
	close(p.parsers)
	for parser := range p.parsers {
		parser.Close()
	}
}
