// Package types provides shared type definitions for the codelensd engine.
//
// This package defines the domain types used across the symbol extractor,
// the three retrieval backends, the query fuser, and the cache layer:
// Symbol, IndexedFile, CodebaseIndex, CodeChunk, VectorMetadata,
// CacheMetadata, and HybridConfig.
//
// # Core Types
//
// Symbol represents a declaration extracted from a source file via
// tree-sitter parsing, independent of source language:
//
//	symbol := &types.Symbol{
//	    Name:      "authenticateUser",
//	    Kind:      types.KindFunction,
//	    FilePath:  "src/auth.ts",
//	    Signature: "function authenticateUser(token: string): boolean",
//	}
//
// CodeChunk represents a retrievable unit of source returned from a query:
//
//	chunk := &types.CodeChunk{
//	    FilePath:       "src/auth.ts",
//	    StartLine:      10,
//	    EndLine:        24,
//	    Language:       "typescript",
//	    RelevanceScore: 0.92,
//	}
//
// # Naming Pattern Detection
//
// Symbol types carry flags for naming-convention tagging, used by the
// optional naming_patterns filter on query_index:
//
//	symbol.IsRepository  // "*Repository" suffix
//	symbol.IsService     // "*Service" suffix
//	symbol.IsHandler     // "*Handler" suffix
//
// # Validation
//
// Domain types implement validation methods to catch malformed input at
// construction time rather than at retrieval time:
//
//	if err := symbol.Validate(); err != nil {
//	    log.Fatal(err)
//	}
//
// Relevance scores produced by the fuser are not bounded to [0, 1]; RRF
// scores are sums of weight/(k+rank+1) terms and are only meaningful in relative
// order, not in absolute magnitude.
package types
