package types

import "time"

// Document represents a single corpus entry. Documents are immutable for the
// lifetime of a corpus snapshot; only the loader writes them.
type Document struct {
	ID          string
	SourceURL   string
	Title       string
	Content     string
	Category    string
	Keywords    string // Comma-separated, weighted above content in text search
	ContentType string
	Embedding   []float32 // Unit-normalized, dimension fixed per corpus
	UpdatedAt   time.Time
}

// Validate checks that a document is storable.
func (d *Document) Validate() error {
	if d.ID == "" {
		return ErrEmptyDocumentID
	}
	if d.Title == "" {
		return ErrEmptyTitle
	}
	if d.Content == "" {
		return ErrEmptyContent
	}
	return nil
}

// RankedDocument is a transient retrieval result produced by the hybrid
// ranker. It is owned by the call that produced it and never persisted.
type RankedDocument struct {
	DocumentID    string
	Title         string
	Category      string
	Content       string
	VectorScore   float64 // 0 when the document missed the vector threshold
	TextScore     float64 // 0 when the text index did not match
	CombinedScore float64
}

// Validate checks if the ranked document is valid.
func (r *RankedDocument) Validate() error {
	if r.DocumentID == "" {
		return ErrEmptyDocumentID
	}
	if r.CombinedScore < 0 {
		return ErrInvalidScore
	}
	return nil
}
