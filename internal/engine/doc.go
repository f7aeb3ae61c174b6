// Package engine is the orchestrator that ties the parser, the three
// retrieval backends (traditional symbol map, full-text, vector), the RRF
// fuser, and the on-disk cache together behind the six operations exposed
// to the application shell: index_codebase, query_index, get_index_stats,
// get_file_symbols, search_files, and search_semantic.
//
// Process-wide state is partitioned across three locks rather than a
// single global mutex: one guarding the per-project build lock table, one
// guarding the loaded CodebaseIndex and its live backends, and one
// guarding the lazily-constructed embedder. The query-result cache has a
// separate lock of its own. A
// single Engine serves one project's state at a time; indexing a second
// project replaces the first's in-memory state (its cache directory is
// untouched and reloadable).
package engine
