package loader

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"os"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/campusqa/campusqa/internal/corpus"
	"github.com/campusqa/campusqa/internal/embedder"
	"github.com/campusqa/campusqa/pkg/types"
)

// Common errors
var (
	ErrEmptyFile   = errors.New("document file contains no documents")
	ErrInvalidFile = errors.New("invalid document file")
)

// Defaults for the ingestion pipeline
const (
	DefaultConcurrency = 4
	DefaultBatchSize   = embedder.DefaultBatchSize
)

// InputDocument is one record in a crawled document JSON file.
type InputDocument struct {
	URL         string `json:"url"`
	Title       string `json:"title"`
	Content     string `json:"content"`
	Category    string `json:"category"`
	Keywords    string `json:"keywords"`
	ContentType string `json:"content_type"`
}

// Result summarizes one ingestion run.
type Result struct {
	Loaded   int
	Embedded int
	Skipped  int
	Elapsed  time.Duration
}

// Loader ingests crawled documents: parse, embed in batches, store.
type Loader struct {
	store       corpus.Store
	embedder    embedder.Embedder
	concurrency int
	batchSize   int
	logger      *log.Logger
}

// New creates a loader. Non-positive concurrency or batch size fall back to
// defaults.
func New(store corpus.Store, emb embedder.Embedder, concurrency, batchSize int, logger *log.Logger) *Loader {
	if concurrency <= 0 {
		concurrency = DefaultConcurrency
	}
	if batchSize <= 0 {
		batchSize = DefaultBatchSize
	}
	if batchSize > embedder.MaxBatchSize {
		batchSize = embedder.MaxBatchSize
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Loader{
		store:       store,
		embedder:    emb,
		concurrency: concurrency,
		batchSize:   batchSize,
		logger:      logger,
	}
}

// LoadFile reads a JSON document file and ingests its contents.
func (l *Loader) LoadFile(ctx context.Context, path string) (*Result, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}

	var inputs []InputDocument
	if err := json.Unmarshal(data, &inputs); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidFile, err)
	}

	return l.Load(ctx, inputs)
}

// Load embeds and stores the given documents. Batches are embedded
// concurrently by a bounded worker pool; a document that fails validation is
// skipped and logged, a provider failure aborts the run.
func (l *Loader) Load(ctx context.Context, inputs []InputDocument) (*Result, error) {
	start := time.Now()

	docs := make([]*types.Document, 0, len(inputs))
	skipped := 0
	for i, in := range inputs {
		doc, err := toDocument(in)
		if err != nil {
			l.logger.Printf("skipping document %d: %v", i, err)
			skipped++
			continue
		}
		docs = append(docs, doc)
	}
	if len(docs) == 0 {
		return nil, ErrEmptyFile
	}

	var mu sync.Mutex
	embedded := 0

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(l.concurrency)

	for startIdx := 0; startIdx < len(docs); startIdx += l.batchSize {
		batch := docs[startIdx:min(startIdx+l.batchSize, len(docs))]
		g.Go(func() error {
			n, err := l.embedBatch(gctx, batch)
			if err != nil {
				return err
			}
			mu.Lock()
			embedded += n
			mu.Unlock()
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	for _, doc := range docs {
		if err := l.store.UpsertDocument(ctx, doc); err != nil {
			return nil, fmt.Errorf("store %s: %w", doc.ID, err)
		}
	}

	return &Result{
		Loaded:   len(docs),
		Embedded: embedded,
		Skipped:  skipped,
		Elapsed:  time.Since(start),
	}, nil
}

// embedBatch generates embeddings for one batch and attaches them to the
// documents in place.
func (l *Loader) embedBatch(ctx context.Context, batch []*types.Document) (int, error) {
	texts := make([]string, len(batch))
	for i, doc := range batch {
		texts[i] = embedder.Truncate(embeddingText(doc))
	}

	resp, err := l.embedder.GenerateBatch(ctx, embedder.BatchEmbeddingRequest{Texts: texts})
	if err != nil {
		return 0, fmt.Errorf("embed batch: %w", err)
	}
	if len(resp.Embeddings) != len(batch) {
		return 0, fmt.Errorf("expected %d embeddings, got %d", len(batch), len(resp.Embeddings))
	}

	for i, emb := range resp.Embeddings {
		batch[i].Embedding = embedder.NormalizeVector(emb.Vector)
	}
	return len(batch), nil
}

// embeddingText combines the fields that carry semantic signal.
func embeddingText(doc *types.Document) string {
	parts := []string{doc.Title}
	if doc.Keywords != "" {
		parts = append(parts, doc.Keywords)
	}
	parts = append(parts, doc.Content)
	return strings.Join(parts, "\n")
}

// toDocument converts an input record into a stored document with a
// content-addressed ID derived from the source URL.
func toDocument(in InputDocument) (*types.Document, error) {
	doc := &types.Document{
		ID:          DocumentID(in.URL, in.Title),
		SourceURL:   in.URL,
		Title:       strings.TrimSpace(in.Title),
		Content:     strings.TrimSpace(in.Content),
		Category:    strings.TrimSpace(in.Category),
		Keywords:    strings.TrimSpace(in.Keywords),
		ContentType: strings.TrimSpace(in.ContentType),
		UpdatedAt:   time.Now().UTC(),
	}
	if err := doc.Validate(); err != nil {
		return nil, err
	}
	return doc, nil
}

// DocumentID derives a stable ID from the source URL, falling back to the
// title for documents without one. Re-ingesting the same source updates the
// existing row instead of duplicating it.
func DocumentID(url, title string) string {
	source := strings.TrimSpace(url)
	if source == "" {
		source = strings.TrimSpace(title)
	}
	sum := sha256.Sum256([]byte(source))
	return hex.EncodeToString(sum[:8])
}
