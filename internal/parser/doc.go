// Package parser turns a source file into a declaration listing using
// tree-sitter concrete syntax trees.
//
// Supported languages are selected by file extension (.rs, .js/.jsx,
// .ts/.tsx, .py); each language gets its own pooled *sitter.Parser since
// tree-sitter parsers are not safe for concurrent reuse. Symbol extraction
// walks the resulting tree depth-first, dispatching on node.Kind() to the
// per-language node-kind table in kinds.go.
//
//	p := parser.New()
//	defer p.Close()
//	file, err := p.ParseFile("src/auth.ts", source)
package parser
