package embedder

import "testing"

func TestNewFromEnvReturnsLocalProvider(t *testing.T) {
	emb, err := NewFromEnv()
	if err != nil {
		t.Fatalf("NewFromEnv() error = %v", err)
	}
	defer emb.Close()

	if emb.Provider() != ProviderLocal {
		t.Errorf("Provider() = %s, want %s", emb.Provider(), ProviderLocal)
	}
	if emb.Dimension() != LocalDimension {
		t.Errorf("Dimension() = %d, want %d", emb.Dimension(), LocalDimension)
	}
}

func TestNewWithExplicitCacheSize(t *testing.T) {
	emb, err := New(Config{CacheSize: 50})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	defer emb.Close()

	if emb.Provider() != ProviderLocal {
		t.Errorf("Provider() = %s, want %s", emb.Provider(), ProviderLocal)
	}
}

func TestNewWithZeroCacheSizeSkipsCache(t *testing.T) {
	emb, err := New(Config{})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	defer emb.Close()

	lp, ok := emb.(*LocalProvider)
	if !ok {
		t.Fatalf("New() returned %T, want *LocalProvider", emb)
	}
	if lp.cache != nil {
		t.Error("expected no cache when CacheSize is 0")
	}
}
