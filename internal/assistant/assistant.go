package assistant

import (
	"context"
	"fmt"
	"log"
	"strings"

	"golang.org/x/sync/singleflight"

	"github.com/campusqa/campusqa/internal/cache"
	"github.com/campusqa/campusqa/internal/config"
	"github.com/campusqa/campusqa/internal/corpus"
	"github.com/campusqa/campusqa/internal/embedder"
	"github.com/campusqa/campusqa/internal/generator"
	"github.com/campusqa/campusqa/internal/ranker"
	"github.com/campusqa/campusqa/pkg/types"
)

// Assistant coordinates the retrieval and answer pipeline behind two cache
// layers. Ranked retrieval results live in a TTL query cache; synthesized
// answers live in an LRU response cache. At most one computation per key is
// in flight at any time; concurrent callers for the same key share it.
type Assistant struct {
	cfg       config.Config
	store     corpus.Store
	embedder  embedder.Embedder
	generator generator.AnswerGenerator

	queries   *cache.QueryCache
	responses *cache.ResponseCache

	knowledgeFlight singleflight.Group
	responseFlight  singleflight.Group

	logger *log.Logger
}

// New wires the pipeline and verifies the corpus against the embedding
// provider. A stored embedding with the wrong dimension or an invalid
// configuration refuses to serve rather than mis-score.
func New(ctx context.Context, cfg config.Config, store corpus.Store, emb embedder.Embedder, gen generator.AnswerGenerator, logger *log.Logger) (*Assistant, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = log.Default()
	}

	if err := store.ValidateDimension(ctx, emb.Dimension()); err != nil {
		return nil, fmt.Errorf("corpus validation: %w", err)
	}

	responses, err := cache.NewResponseCache(cfg.ResponseCacheCap)
	if err != nil {
		return nil, err
	}

	return &Assistant{
		cfg:       cfg,
		store:     store,
		embedder:  emb,
		generator: gen,
		queries:   cache.NewQueryCache(cfg.QueryCacheTTL),
		responses: responses,
		logger:    logger,
	}, nil
}

// NormalizeKey derives the cache key for a query: trim plus case-fold.
// Textually different queries stay distinct keys even when semantically
// equivalent.
func NormalizeKey(raw string) string {
	return strings.ToLower(strings.TrimSpace(raw))
}

// FetchKnowledge returns the top ranked documents for a query. Results come
// from the query cache when fresh; otherwise one shared retrieval runs per
// key and every concurrent caller receives its outcome. A non-positive limit
// uses the configured default.
func (a *Assistant) FetchKnowledge(ctx context.Context, query string, limit int) ([]types.RankedDocument, error) {
	key := NormalizeKey(query)
	if key == "" {
		return []types.RankedDocument{}, nil
	}
	if limit <= 0 || limit > a.cfg.ResultLimit {
		limit = a.cfg.ResultLimit
	}

	ctx, cancel := a.withTimeout(ctx)
	defer cancel()

	if cached, ok := a.queries.Get(key); ok {
		return clip(cached, limit), nil
	}

	// The computation runs on a detached context so a timed-out caller
	// abandons its wait without aborting work other waiters depend on.
	detached := context.WithoutCancel(ctx)
	ch := a.knowledgeFlight.DoChan(key, func() (interface{}, error) {
		return a.computeKnowledge(detached, key)
	})

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		return clip(res.Val.([]types.RankedDocument), limit), nil
	}
}

// FetchResponse returns a synthesized answer for a message. Answers come
// from the response cache when present; otherwise retrieval plus generation
// runs once per key. Provider errors propagate to every waiter and are
// never cached.
func (a *Assistant) FetchResponse(ctx context.Context, message string) (string, error) {
	key := NormalizeKey(message)
	if key == "" {
		return "", generator.ErrEmptyQuestion
	}

	ctx, cancel := a.withTimeout(ctx)
	defer cancel()

	if answer, ok := a.responses.Get(key); ok {
		return answer, nil
	}

	detached := context.WithoutCancel(ctx)
	ch := a.responseFlight.DoChan(key, func() (interface{}, error) {
		return a.computeResponse(detached, key, message)
	})

	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return "", res.Err
		}
		return res.Val.(string), nil
	}
}

// computeKnowledge runs the full retrieval pipeline for one cache miss and
// stores the result. Only successful rankings are cached.
func (a *Assistant) computeKnowledge(ctx context.Context, key string) ([]types.RankedDocument, error) {
	textResults, err := a.store.SearchText(ctx, key, a.cfg.ResultLimit)
	if err != nil {
		return nil, fmt.Errorf("text search: %w", err)
	}

	vectorResults, embeddedIDs, err := a.scoreVectors(ctx, key)
	if err != nil {
		// Degraded mode: rank on lexical scores alone instead of failing
		// the request.
		a.logger.Printf("query embedding failed, ranking on text scores only: %v", err)
		vectorResults = nil
	}

	for _, tr := range textResults {
		if embeddedIDs != nil && !embeddedIDs[tr.DocumentID] {
			a.logger.Printf("document %s matched by text index but has no embedding", tr.DocumentID)
		}
	}

	ranked := ranker.Combine(vectorResults, textScores(textResults), ranker.Options{
		VectorWeight:    a.cfg.VectorWeight,
		TextWeight:      a.cfg.TextWeight,
		VectorThreshold: a.cfg.VectorThreshold,
		Limit:           a.cfg.ResultLimit,
	})

	if err := a.hydrate(ctx, ranked); err != nil {
		return nil, err
	}

	a.queries.Put(key, ranked, 0)
	return ranked, nil
}

func (a *Assistant) computeResponse(ctx context.Context, key, message string) (string, error) {
	docs, err := a.FetchKnowledge(ctx, key, a.cfg.ResultLimit)
	if err != nil {
		return "", err
	}

	resp, err := a.generator.Generate(ctx, generator.Request{
		Question:  strings.TrimSpace(message),
		Documents: docs,
	})
	if err != nil {
		return "", err
	}

	a.responses.Put(key, resp.Answer)
	return resp.Answer, nil
}

// scoreVectors embeds the query and scores it against every stored
// embedding. The returned set records which documents carry an embedding.
func (a *Assistant) scoreVectors(ctx context.Context, query string) ([]ranker.DocScore, map[string]bool, error) {
	emb, err := a.embedder.GenerateEmbedding(ctx, embedder.EmbeddingRequest{Text: query})
	if err != nil {
		return nil, nil, err
	}

	docEmbeddings, err := a.store.AllEmbeddings(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("load embeddings: %w", err)
	}

	scores := make([]ranker.DocScore, 0, len(docEmbeddings))
	embedded := make(map[string]bool, len(docEmbeddings))
	for _, de := range docEmbeddings {
		embedded[de.DocumentID] = true

		score, err := ranker.Score(emb.Vector, de.Vector)
		if err != nil {
			// Startup validation makes this unreachable for a consistent
			// corpus; skip the document rather than fail the request.
			a.logger.Printf("skipping document %s: %v", de.DocumentID, err)
			continue
		}
		scores = append(scores, ranker.DocScore{DocumentID: de.DocumentID, Score: score})
	}

	return scores, embedded, nil
}

// hydrate fills titles, categories, and content on ranked results.
func (a *Assistant) hydrate(ctx context.Context, ranked []types.RankedDocument) error {
	if len(ranked) == 0 {
		return nil
	}

	ids := make([]string, len(ranked))
	for i, r := range ranked {
		ids[i] = r.DocumentID
	}

	docs, err := a.store.GetDocuments(ctx, ids)
	if err != nil {
		return fmt.Errorf("load documents: %w", err)
	}

	for i := range ranked {
		if doc, ok := docs[ranked[i].DocumentID]; ok {
			ranked[i].Title = doc.Title
			ranked[i].Category = doc.Category
			ranked[i].Content = doc.Content
		}
	}
	return nil
}

// StatusReport summarizes corpus and cache state for operators.
type StatusReport struct {
	Corpus            corpus.Status
	QueryCacheLen     int
	ResponseCacheLen  int
	EmbeddingProvider string
	EmbeddingModel    string
	GenerationModel   string
}

// Status reports corpus health and cache occupancy.
func (a *Assistant) Status(ctx context.Context) (*StatusReport, error) {
	status, err := a.store.GetStatus(ctx)
	if err != nil {
		return nil, err
	}

	return &StatusReport{
		Corpus:            *status,
		QueryCacheLen:     a.queries.Len(),
		ResponseCacheLen:  a.responses.Len(),
		EmbeddingProvider: a.embedder.Provider(),
		EmbeddingModel:    a.embedder.Model(),
		GenerationModel:   a.generator.Model(),
	}, nil
}

// PurgeCaches drops both cache layers.
func (a *Assistant) PurgeCaches() {
	a.queries.Purge()
	a.responses.Purge()
}

func (a *Assistant) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if a.cfg.RequestTimeout > 0 {
		return context.WithTimeout(ctx, a.cfg.RequestTimeout)
	}
	return context.WithCancel(ctx)
}

func clip(results []types.RankedDocument, limit int) []types.RankedDocument {
	if limit > 0 && len(results) > limit {
		return results[:limit]
	}
	return results
}

func textScores(textResults []corpus.TextResult) []ranker.DocScore {
	scores := make([]ranker.DocScore, len(textResults))
	for i, tr := range textResults {
		scores[i] = ranker.DocScore{DocumentID: tr.DocumentID, Score: tr.TextScore}
	}
	return scores
}
