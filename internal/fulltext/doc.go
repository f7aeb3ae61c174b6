// Package fulltext is the disk-backed inverted full-text index over symbol
// names, signatures and doc comments. It wraps a bleve index with an
// eight-field document mapping (symbol_name, file_path, language,
// symbol_kind, signature, doc_comment, start_line, end_line) and exposes
// open-or-create lifecycle, one-document-per-symbol indexing, and a
// disjunction query across the analyzed text fields.
package fulltext
