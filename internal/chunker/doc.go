// Package chunker extracts the verbatim source text backing a symbol span
// so query results carry real code, not just a signature.
//
// # Basic usage
//
//	content, err := chunker.Extract(rootPath, "internal/auth/service.rs", 12, 30)
//	if err != nil {
//	    // file moved or was deleted since indexing; callers fall back to
//	    // the symbol's signature.
//	}
package chunker
