// Package symbolmap implements the in-memory, exact/normalized/substring
// traditional retrieval backend over a CodebaseIndex's symbol tables.
//
// Three tiers are tried for each keyword, each contributing chunks at a
// fixed confidence score: exact name match (1.0), normalized-token match
// (0.8), and case-insensitive substring match (0.5). Results are
// deduplicated by (file_path, start_line, end_line) before being returned,
// the same key the RRF fuser uses downstream.
package symbolmap
