package embedder

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"

	lru "github.com/hashicorp/golang-lru/v2"
)

// Common errors
var (
	ErrInvalidInput   = errors.New("invalid input")
	ErrProviderFailed = errors.New("embedding provider failed")
	ErrEmptyText      = errors.New("text cannot be empty")
)

// Embedding represents a vector embedding with metadata
type Embedding struct {
	Vector    []float32
	Dimension int
	Provider  string
	Model     string
	Hash      string // Content hash for caching
}

// EmbeddingRequest represents a request to generate embeddings
type EmbeddingRequest struct {
	Text  string
	Model string // Optional: override default model
}

// BatchEmbeddingRequest represents a batch request
type BatchEmbeddingRequest struct {
	Texts []string
	Model string // Optional: override default model
}

// BatchEmbeddingResponse represents a batch response
type BatchEmbeddingResponse struct {
	Embeddings []*Embedding
	Provider   string
	Model      string
}

// Embedder interface defines methods for generating embeddings
type Embedder interface {
	// GenerateEmbedding generates a single embedding for the given text
	GenerateEmbedding(ctx context.Context, req EmbeddingRequest) (*Embedding, error)

	// GenerateBatch generates embeddings for multiple texts efficiently
	GenerateBatch(ctx context.Context, req BatchEmbeddingRequest) (*BatchEmbeddingResponse, error)

	// Dimension returns the embedding dimension for this provider
	Dimension() int

	// Provider returns the provider name
	Provider() string

	// Model returns the model name
	Model() string

	// Close releases any resources held by the embedder
	Close() error
}

// Cache is an LRU cache of embeddings keyed by content hash, so re-indexing
// an unchanged symbol never re-runs the encoder.
type Cache struct {
	store *lru.Cache[string, *Embedding]
}

// NewCache creates a new embedding cache holding at most maxLen entries.
func NewCache(maxLen int) *Cache {
	if maxLen <= 0 {
		maxLen = 10000 // Default: cache 10k embeddings
	}
	store, err := lru.New[string, *Embedding](maxLen)
	if err != nil {
		// lru.New only fails for size <= 0, which the guard above rules out.
		panic(err)
	}
	return &Cache{store: store}
}

// Get retrieves a copy of a cached embedding, so callers that mutate the
// returned vector do not alter the cached entry.
func (c *Cache) Get(hash string) (*Embedding, bool) {
	emb, ok := c.store.Get(hash)
	if !ok {
		return nil, false
	}
	cp := *emb
	cp.Vector = append([]float32(nil), emb.Vector...)
	return &cp, true
}

// Set stores an embedding in cache, evicting the least recently used entry
// if at capacity.
func (c *Cache) Set(hash string, emb *Embedding) {
	c.store.Add(hash, emb)
}

// Size returns the current cache size
func (c *Cache) Size() int {
	return c.store.Len()
}

// Clear empties the cache
func (c *Cache) Clear() {
	c.store.Purge()
}

// ComputeHash computes SHA-256 hash of text for caching
func ComputeHash(text string) string {
	h := sha256.Sum256([]byte(text))
	return hex.EncodeToString(h[:])
}

// ValidateRequest validates an embedding request
func ValidateRequest(req EmbeddingRequest) error {
	if req.Text == "" {
		return ErrEmptyText
	}
	return nil
}

// ValidateBatchRequest validates a batch embedding request
func ValidateBatchRequest(req BatchEmbeddingRequest) error {
	if len(req.Texts) == 0 {
		return fmt.Errorf("%w: no texts provided", ErrInvalidInput)
	}

	for i, text := range req.Texts {
		if text == "" {
			return fmt.Errorf("%w: text at index %d is empty", ErrInvalidInput, i)
		}
	}

	return nil
}
