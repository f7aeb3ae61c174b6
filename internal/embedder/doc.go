// Package embedder generates vector embeddings for code chunks using an
// on-device transformer model: no network calls, no API key, fully offline.
//
// # Basic Usage
//
//	emb, err := embedder.NewFromEnv()
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer emb.Close()
//
//	result, err := emb.GenerateEmbedding(ctx, embedder.EmbeddingRequest{
//	    Text: "func ParseFile(path string) error { ... }",
//	})
//	fmt.Printf("Vector dimension: %d\n", len(result.Vector))
//
// # Batch Processing
//
// For efficiency, use batch processing:
//
//	texts := []string{chunk1.Content, chunk2.Content, chunk3.Content}
//
//	resp, err := emb.GenerateBatch(ctx, embedder.BatchEmbeddingRequest{
//	    Texts: texts,
//	})
//
//	for i, embedding := range resp.Embeddings {
//	    // Store embedding for chunk i
//	}
//
// # Model
//
// The embedder runs all-MiniLM-L6-v2 (a BERT-family sentence-transformer,
// 384 dimensions) through ONNX Runtime. The session is created lazily on
// first use; construction never touches the filesystem. Model and tokenizer
// paths default to a per-user cache directory and can be overridden:
//
//	CODELENSD_LOCAL_MODEL_PATH      path to model.onnx
//	CODELENSD_LOCAL_TOKENIZER_PATH  path to tokenizer.json
//	CODELENSD_ONNX_LIBRARY_PATH     path to the onnxruntime shared library
//
// # Caching
//
// The embedder includes an LRU cache, keyed by content hash, so re-indexing
// an unchanged symbol never re-runs the encoder:
//
//	cache := embedder.NewCache(10000) // cache 10k embeddings
//
//	hash := embedder.ComputeHash(text)
//	if emb, ok := cache.Get(hash); ok {
//	    return emb // cache hit
//	}
//
// # Error Handling
//
//	emb, err := provider.GenerateBatch(ctx, req)
//	if errors.Is(err, embedder.ErrProviderFailed) {
//	    // model unavailable: missing weights, bad tokenizer, ONNX init failure
//	}
package embedder
