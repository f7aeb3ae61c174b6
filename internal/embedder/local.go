package embedder

import (
	"context"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"sync"

	ort "github.com/yalue/onnxruntime_go"
	"github.com/sugarme/tokenizer"
	"github.com/sugarme/tokenizer/pretrained"
)

const (
	// ProviderLocal identifies the on-device embedder.
	ProviderLocal = "local"

	// LocalDimension is all-MiniLM-L6-v2's hidden size.
	LocalDimension = 384

	localModelName = "all-MiniLM-L6-v2"
	localMaxTokens = 256

	envLocalModelPath     = "CODELENSD_LOCAL_MODEL_PATH"
	envLocalTokenizerPath = "CODELENSD_LOCAL_TOKENIZER_PATH"
	envOnnxLibraryPath    = "CODELENSD_ONNX_LIBRARY_PATH"
)

// localEncoder turns a batch of texts into pooled, L2-normalized vectors.
// The production path runs all-MiniLM-L6-v2 through ONNX Runtime; tests
// substitute a deterministic fake so CI doesn't need model weights on disk.
type localEncoder interface {
	encode(texts []string) ([][]float32, error)
	dimension() int
	close() error
}

// LocalProvider implements Embedder with an on-device model: no network
// calls, no API key, fully offline. The encoder is initialized lazily on
// first use so construction never touches the filesystem.
type LocalProvider struct {
	mu            sync.Mutex
	model         string
	cache         *Cache
	modelPath     string
	tokenizerPath string
	encoder       localEncoder
}

// NewLocalProvider creates a local embedder. Model and tokenizer paths are
// read from CODELENSD_LOCAL_MODEL_PATH / CODELENSD_LOCAL_TOKENIZER_PATH,
// falling back to a per-user cache directory convention.
func NewLocalProvider(cache *Cache) (*LocalProvider, error) {
	return &LocalProvider{
		model:         localModelName,
		cache:         cache,
		modelPath:     envOrDefault(envLocalModelPath, defaultLocalModelPath()),
		tokenizerPath: envOrDefault(envLocalTokenizerPath, defaultLocalTokenizerPath()),
	}, nil
}

func envOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func defaultLocalModelPath() string {
	dir, err := os.UserCacheDir()
	if err != nil {
		dir = "."
	}
	return filepath.Join(dir, "codelensd", "models", localModelName, "model.onnx")
}

func defaultLocalTokenizerPath() string {
	dir, err := os.UserCacheDir()
	if err != nil {
		dir = "."
	}
	return filepath.Join(dir, "codelensd", "models", localModelName, "tokenizer.json")
}

func (l *LocalProvider) ensureEncoder() (localEncoder, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.encoder != nil {
		return l.encoder, nil
	}

	enc, err := newOnnxEncoder(l.modelPath, l.tokenizerPath)
	if err != nil {
		return nil, fmt.Errorf("%w: local model unavailable: %v", ErrProviderFailed, err)
	}
	l.encoder = enc
	return enc, nil
}

func (l *LocalProvider) GenerateEmbedding(ctx context.Context, req EmbeddingRequest) (*Embedding, error) {
	if err := ValidateRequest(req); err != nil {
		return nil, err
	}

	hash := ComputeHash(req.Text)
	if l.cache != nil {
		if emb, ok := l.cache.Get(hash); ok {
			return emb, nil
		}
	}

	resp, err := l.GenerateBatch(ctx, BatchEmbeddingRequest{Texts: []string{req.Text}, Model: req.Model})
	if err != nil {
		return nil, err
	}
	if len(resp.Embeddings) == 0 {
		return nil, fmt.Errorf("%w: no embeddings returned", ErrProviderFailed)
	}
	return resp.Embeddings[0], nil
}

func (l *LocalProvider) GenerateBatch(ctx context.Context, req BatchEmbeddingRequest) (*BatchEmbeddingResponse, error) {
	if err := ValidateBatchRequest(req); err != nil {
		return nil, err
	}
	if ctx.Err() != nil {
		return nil, ctx.Err()
	}

	enc, err := l.ensureEncoder()
	if err != nil {
		return nil, err
	}

	vectors, err := enc.encode(req.Texts)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrProviderFailed, err)
	}

	embeddings := make([]*Embedding, len(vectors))
	for i, vec := range vectors {
		hash := ComputeHash(req.Texts[i])
		emb := &Embedding{
			Vector:    NormalizeVector(vec),
			Dimension: enc.dimension(),
			Provider:  ProviderLocal,
			Model:     l.model,
			Hash:      hash,
		}
		if l.cache != nil {
			l.cache.Set(hash, emb)
		}
		embeddings[i] = emb
	}

	return &BatchEmbeddingResponse{
		Embeddings: embeddings,
		Provider:   ProviderLocal,
		Model:      l.model,
	}, nil
}

func (l *LocalProvider) Dimension() int {
	return LocalDimension
}

func (l *LocalProvider) Provider() string {
	return ProviderLocal
}

func (l *LocalProvider) Model() string {
	return l.model
}

func (l *LocalProvider) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.encoder == nil {
		return nil
	}
	err := l.encoder.close()
	l.encoder = nil
	return err
}

// onnxEncoder runs all-MiniLM-L6-v2 (a BERT-family sentence-transformer)
// through ONNX Runtime: tokenize, forward pass, attention-masked mean
// pooling. L2 normalization happens in the caller via NormalizeVector,
// mirroring the reference pipeline's tokenize -> forward -> mean-pool ->
// normalize stages.
type onnxEncoder struct {
	session  *ort.DynamicAdvancedSession
	tk       *tokenizer.Tokenizer
	hiddenSz int
}

func newOnnxEncoder(modelPath, tokenizerPath string) (*onnxEncoder, error) {
	if _, err := os.Stat(modelPath); err != nil {
		return nil, fmt.Errorf("onnx model not found at %s: %w", modelPath, err)
	}
	if _, err := os.Stat(tokenizerPath); err != nil {
		return nil, fmt.Errorf("tokenizer not found at %s: %w", tokenizerPath, err)
	}

	if libPath := os.Getenv(envOnnxLibraryPath); libPath != "" {
		ort.SetSharedLibraryPath(libPath)
	}
	if !ort.IsInitialized() {
		if err := ort.InitializeEnvironment(); err != nil {
			return nil, fmt.Errorf("initialize onnx runtime: %w", err)
		}
	}

	tk, err := pretrained.FromFile(tokenizerPath)
	if err != nil {
		return nil, fmt.Errorf("load tokenizer: %w", err)
	}

	session, err := ort.NewDynamicAdvancedSession(
		modelPath,
		[]string{"input_ids", "attention_mask", "token_type_ids"},
		[]string{"last_hidden_state"},
		nil,
	)
	if err != nil {
		return nil, fmt.Errorf("create onnx session: %w", err)
	}

	return &onnxEncoder{session: session, tk: tk, hiddenSz: LocalDimension}, nil
}

func (e *onnxEncoder) dimension() int {
	return e.hiddenSz
}

func (e *onnxEncoder) encode(texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return nil, nil
	}

	batch := len(texts)
	seqLen := 0
	allIDs := make([][]int64, batch)
	allMask := make([][]int64, batch)

	for i, text := range texts {
		enc, err := e.tk.EncodeSingle(text, true)
		if err != nil {
			return nil, fmt.Errorf("tokenize text %d: %w", i, err)
		}
		ids := enc.Ids
		if len(ids) > localMaxTokens {
			ids = ids[:localMaxTokens]
		}
		idsInt64 := make([]int64, len(ids))
		mask := make([]int64, len(ids))
		for j, id := range ids {
			idsInt64[j] = int64(id)
			mask[j] = 1
		}
		allIDs[i] = idsInt64
		allMask[i] = mask
		if len(idsInt64) > seqLen {
			seqLen = len(idsInt64)
		}
	}

	inputIDs := make([]int64, batch*seqLen)
	attentionMask := make([]int64, batch*seqLen)
	tokenTypeIDs := make([]int64, batch*seqLen)
	for i := 0; i < batch; i++ {
		for j := 0; j < seqLen; j++ {
			idx := i*seqLen + j
			if j < len(allIDs[i]) {
				inputIDs[idx] = allIDs[i][j]
				attentionMask[idx] = allMask[i][j]
			}
		}
	}

	shape := ort.NewShape(int64(batch), int64(seqLen))
	idsTensor, err := ort.NewTensor(shape, inputIDs)
	if err != nil {
		return nil, fmt.Errorf("build input_ids tensor: %w", err)
	}
	defer idsTensor.Destroy()

	maskTensor, err := ort.NewTensor(shape, attentionMask)
	if err != nil {
		return nil, fmt.Errorf("build attention_mask tensor: %w", err)
	}
	defer maskTensor.Destroy()

	typeTensor, err := ort.NewTensor(shape, tokenTypeIDs)
	if err != nil {
		return nil, fmt.Errorf("build token_type_ids tensor: %w", err)
	}
	defer typeTensor.Destroy()

	outputShape := ort.NewShape(int64(batch), int64(seqLen), int64(e.hiddenSz))
	outputTensor, err := ort.NewEmptyTensor[float32](outputShape)
	if err != nil {
		return nil, fmt.Errorf("allocate output tensor: %w", err)
	}
	defer outputTensor.Destroy()

	if err := e.session.Run([]ort.Value{idsTensor, maskTensor, typeTensor}, []ort.Value{outputTensor}); err != nil {
		return nil, fmt.Errorf("run model: %w", err)
	}

	return meanPool(outputTensor.GetData(), attentionMask, batch, seqLen, e.hiddenSz), nil
}

// meanPool performs attention-masked mean pooling over the sequence
// dimension: sum(hidden * mask) / sum(mask), per batch element.
func meanPool(hidden []float32, mask []int64, batch, seqLen, hiddenSz int) [][]float32 {
	out := make([][]float32, batch)
	for b := 0; b < batch; b++ {
		vec := make([]float32, hiddenSz)
		var count float32
		for s := 0; s < seqLen; s++ {
			m := mask[b*seqLen+s]
			if m == 0 {
				continue
			}
			count++
			base := (b*seqLen + s) * hiddenSz
			for h := 0; h < hiddenSz; h++ {
				vec[h] += hidden[base+h]
			}
		}
		if count > 0 {
			for h := range vec {
				vec[h] /= count
			}
		}
		out[b] = vec
	}
	return out
}

func (e *onnxEncoder) close() error {
	if e.session != nil {
		e.session.Destroy()
	}
	return nil
}

// NormalizeVector normalizes a vector to unit length (for cosine similarity)
func NormalizeVector(v []float32) []float32 {
	var sum float64
	for _, val := range v {
		sum += float64(val * val)
	}

	if sum == 0 {
		return v
	}

	norm := float32(math.Sqrt(sum))
	result := make([]float32, len(v))
	for i, val := range v {
		result[i] = val / norm
	}

	return result
}
