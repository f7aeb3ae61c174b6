// Package cache manages each indexed project's on-disk cache directory:
// a path-hashed directory under the store's base directory (by default the
// user's cache directory, see DefaultBaseDir) holding
// index.bin (gob-encoded CodebaseIndex), vectors_metadata.bin, a
// tantivy/ directory owned by the full-text index, and metadata.json
// (CacheMetadata) recording the source-file mtime manifest used to
// decide whether a cached index is still valid.
package cache
