// Package embedder generates vector embeddings for queries and corpus
// documents using pluggable providers.
//
// Three providers are supported: OpenAI (hosted API), Ollama (self-hosted
// server), and a deterministic local provider for offline runs and tests.
// Every provider unit-normalizes its vectors before returning them, so the
// ranker's dot-product scoring is always a valid cosine similarity.
//
// # Provider Selection
//
// The factory selects a provider from the environment:
//
//  1. If CAMPUSQA_EMBEDDING_PROVIDER is set, use that provider
//  2. Else if OPENAI_API_KEY is set, use OpenAI
//  3. Else if OLLAMA_HOST is set, use Ollama
//  4. Else fall back to the local provider (offline mode)
//
// # Caching
//
// Embeddings are cached in memory by SHA-256 content hash with LRU
// eviction, so re-embedding an unchanged document or a repeated query is
// free:
//
//	cache := embedder.NewCache(10000)
//	emb, _ := embedder.NewOpenAIProvider("", cache)
//
// # Error Handling
//
// Transient API failures are retried with exponential backoff. After the
// retry budget is spent, errors wrap ErrProviderFailed:
//
//	_, err := emb.GenerateBatch(ctx, req)
//	if errors.Is(err, embedder.ErrProviderFailed) {
//	    // provider temporarily unavailable
//	}
package embedder
