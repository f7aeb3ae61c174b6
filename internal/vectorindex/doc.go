// Package vectorindex implements the semantic retrieval backend: an HNSW
// approximate-nearest-neighbor graph over L2-normalized embedding vectors,
// with a parallel, append-only metadata slice keyed by vector id.
//
// Configuration: M=16 (graph connectivity), ef=64, cosine distance, one
// vector per id. coder/hnsw has no separate construction-time ef, so the
// same ef governs both insertion and search.
package vectorindex
