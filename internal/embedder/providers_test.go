package embedder

import (
	"context"
	"encoding/json"
	"math"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
)

func TestOllamaProviderGenerateBatch(t *testing.T) {
	var calls atomic.Int32

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)

		if r.URL.Path != "/api/embed" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}

		var req struct {
			Input []string `json:"input"`
			Model string   `json:"model"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatalf("decode request: %v", err)
		}

		// Unnormalized vectors: the provider must normalize them
		resp := map[string]interface{}{
			"model": req.Model,
			"embeddings": func() [][]float32 {
				out := make([][]float32, len(req.Input))
				for i := range req.Input {
					out[i] = []float32{3, 4, 0}
				}
				return out
			}(),
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(resp)
	}))
	defer server.Close()

	cache := NewCache(10)
	provider, err := NewOllamaProvider(server.URL, cache)
	if err != nil {
		t.Fatalf("NewOllamaProvider() error = %v", err)
	}
	defer func() { _ = provider.Close() }()

	resp, err := provider.GenerateBatch(context.Background(), BatchEmbeddingRequest{
		Texts: []string{"admission methods", "scholarship deadline"},
	})
	if err != nil {
		t.Fatalf("GenerateBatch() error = %v", err)
	}

	if len(resp.Embeddings) != 2 {
		t.Fatalf("got %d embeddings, want 2", len(resp.Embeddings))
	}
	for _, emb := range resp.Embeddings {
		var sum float64
		for _, v := range emb.Vector {
			sum += float64(v) * float64(v)
		}
		if math.Abs(math.Sqrt(sum)-1.0) > 1e-4 {
			t.Errorf("vector norm = %f, want 1.0", math.Sqrt(sum))
		}
	}

	// Second single request for a batched text must hit the cache
	before := calls.Load()
	emb, err := provider.GenerateEmbedding(context.Background(), EmbeddingRequest{Text: "admission methods"})
	if err != nil {
		t.Fatalf("GenerateEmbedding() error = %v", err)
	}
	if emb == nil {
		t.Fatal("nil embedding from cache")
	}
	if calls.Load() != before {
		t.Errorf("expected cache hit, server saw %d extra calls", calls.Load()-before)
	}
}

func TestOllamaProviderServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "model not found", http.StatusNotFound)
	}))
	defer server.Close()

	provider, err := NewOllamaProvider(server.URL, nil)
	if err != nil {
		t.Fatalf("NewOllamaProvider() error = %v", err)
	}
	defer func() { _ = provider.Close() }()

	_, err = provider.GenerateEmbedding(context.Background(), EmbeddingRequest{Text: "test"})
	if err == nil {
		t.Fatal("expected error from failing server")
	}
}

func TestOllamaProviderEmbeddingCountMismatch(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]interface{}{
			"embeddings": [][]float32{{1, 0}},
		})
	}))
	defer server.Close()

	provider, err := NewOllamaProvider(server.URL, nil)
	if err != nil {
		t.Fatalf("NewOllamaProvider() error = %v", err)
	}
	defer func() { _ = provider.Close() }()

	_, err = provider.GenerateBatch(context.Background(), BatchEmbeddingRequest{
		Texts: []string{"a", "b"},
	})
	if err == nil {
		t.Fatal("expected error on embedding count mismatch")
	}
}
