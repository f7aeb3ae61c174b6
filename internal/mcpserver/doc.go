// Package mcpserver implements the Model Context Protocol (MCP) server that
// exposes the retrieval engine to AI coding assistants over stdio.
//
// # Tools
//
// Six tools are registered, one per internal/engine operation:
//
//	index_codebase    build or load the cached index for a project
//	query_index       hybrid (traditional + full-text + semantic) search
//	get_index_stats   file/language counts and per-backend health
//	get_file_symbols  symbols declared in a single file
//	search_files      path-only search, no content ranking
//	search_semantic   vector-only search
//
// # Protocol
//
// MCP is JSON-RPC 2.0 over stdio:
//
//	Client → Server: {"method": "tools/call", "params": {"name": "query_index", "arguments": {...}}}
//	Server → Client: {"result": {"content": [{"type": "text", "text": "{...}"}]}}
//
// # Error codes
//
//	-32602  invalid params (missing/malformed arguments)
//	-32603  internal error (parse/backend failure)
//	-32001  project not found
//	-32002  indexing already in progress for this project
//	-32003  project not indexed
//	-32004  query parameter is empty
//
// # Logging
//
// The server logs to stderr; stdout is reserved for the MCP transport.
package mcpserver
