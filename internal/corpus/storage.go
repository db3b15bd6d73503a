package corpus

import (
	"context"

	"github.com/campusqa/campusqa/pkg/types"
)

// Store defines the interface for persisting and querying the document corpus.
// The corpus is written only by the loader; the retrieval path reads it.
type Store interface {
	// Document operations
	UpsertDocument(ctx context.Context, doc *types.Document) error
	GetDocument(ctx context.Context, id string) (*types.Document, error)
	GetDocuments(ctx context.Context, ids []string) (map[string]*types.Document, error)
	ListDocuments(ctx context.Context, limit int) ([]*types.Document, error)
	ListByCategory(ctx context.Context, category string, limit int) ([]*types.Document, error)
	DeleteDocument(ctx context.Context, id string) error
	CountDocuments(ctx context.Context) (int, error)

	// Search operations
	SearchText(ctx context.Context, query string, limit int) ([]TextResult, error)
	AllEmbeddings(ctx context.Context) ([]DocumentEmbedding, error)

	// ValidateDimension checks every stored embedding against the expected
	// dimension. A mismatch is a fatal corpus configuration error.
	ValidateDimension(ctx context.Context, dim int) error

	// Status operations
	GetStatus(ctx context.Context) (*Status, error)

	Close() error
}

// TextResult is one lexical match from the full-text index. TextScore is
// normalized to (0, 1), higher is better.
type TextResult struct {
	DocumentID string
	TextScore  float64
}

// DocumentEmbedding pairs a document with its stored embedding vector.
type DocumentEmbedding struct {
	DocumentID string
	Vector     []float32
}

// Status summarizes corpus health for operators.
type Status struct {
	DocumentCount   int
	EmbeddedCount   int
	EmbeddingDim    int
	CategoryCounts  map[string]int
	FTSIndexPresent bool
}
