package embedder

// Config holds embedder configuration.
type Config struct {
	CacheSize int
}

// NewFromEnv creates the on-device embedder. Model and tokenizer locations
// are read from CODELENSD_LOCAL_MODEL_PATH / CODELENSD_LOCAL_TOKENIZER_PATH
// by LocalProvider itself; this constructor only owns the embedding cache.
func NewFromEnv() (Embedder, error) {
	return NewLocalProvider(NewCache(10000))
}

// New creates an embedder with explicit cache sizing.
func New(cfg Config) (Embedder, error) {
	var cache *Cache
	if cfg.CacheSize > 0 {
		cache = NewCache(cfg.CacheSize)
	}
	return NewLocalProvider(cache)
}
