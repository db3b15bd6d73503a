package corpus

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/campusqa/campusqa/pkg/types"
)

var (
	// ErrNotFound is returned when a requested document doesn't exist
	ErrNotFound = errors.New("not found")
)

// SQLiteStore implements the Store interface using SQLite
type SQLiteStore struct {
	db *sql.DB
}

// openDatabase opens a SQLite database with appropriate settings
func openDatabase(dbPath string) (*sql.DB, error) {
	db, err := sql.Open(DriverName, dbPath)
	if err != nil {
		return nil, err
	}

	// Enable WAL mode for better concurrency
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to enable WAL mode: %w", err)
	}

	// Set connection pool settings
	db.SetMaxOpenConns(1) // SQLite benefits from single writer
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	// Enable foreign keys
	if _, err := db.Exec("PRAGMA foreign_keys=ON"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
	}

	return db, nil
}

// NewSQLiteStore creates a new SQLite corpus store
func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	db, err := openDatabase(dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Apply migrations
	if err := ApplyMigrations(context.Background(), db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to apply migrations: %w", err)
	}

	return &SQLiteStore{db: db}, nil
}

// Close closes the database connection
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// UpsertDocument inserts or replaces a document by ID
func (s *SQLiteStore) UpsertDocument(ctx context.Context, doc *types.Document) error {
	if err := doc.Validate(); err != nil {
		return fmt.Errorf("invalid document: %w", err)
	}

	var blob []byte
	dim := 0
	if len(doc.Embedding) > 0 {
		blob = serializeVector(doc.Embedding)
		dim = len(doc.Embedding)
	}

	query := `
		INSERT INTO documents (id, source_url, title, content, category, keywords, content_type, embedding, embedding_dim, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			source_url = excluded.source_url,
			title = excluded.title,
			content = excluded.content,
			category = excluded.category,
			keywords = excluded.keywords,
			content_type = excluded.content_type,
			embedding = excluded.embedding,
			embedding_dim = excluded.embedding_dim,
			updated_at = excluded.updated_at
	`
	now := time.Now()
	_, err := s.db.ExecContext(ctx, query,
		doc.ID, nullable(doc.SourceURL), doc.Title, doc.Content, doc.Category,
		doc.Keywords, doc.ContentType, blob, dim, now)
	if err != nil {
		return fmt.Errorf("failed to upsert document: %w", err)
	}

	doc.UpdatedAt = now
	return nil
}

// GetDocument retrieves a document by ID
func (s *SQLiteStore) GetDocument(ctx context.Context, id string) (*types.Document, error) {
	query := `
		SELECT id, source_url, title, content, category, keywords, content_type, embedding, updated_at
		FROM documents
		WHERE id = ?
	`
	return s.scanDocument(s.db.QueryRowContext(ctx, query, id))
}

// GetDocuments retrieves multiple documents by ID in one query. Missing IDs
// are simply absent from the result map.
func (s *SQLiteStore) GetDocuments(ctx context.Context, ids []string) (map[string]*types.Document, error) {
	if len(ids) == 0 {
		return map[string]*types.Document{}, nil
	}

	query := `
		SELECT id, source_url, title, content, category, keywords, content_type, embedding, updated_at
		FROM documents
		WHERE id IN (`
	args := make([]interface{}, len(ids))
	for i, id := range ids {
		if i > 0 {
			query += ","
		}
		query += "?"
		args[i] = id
	}
	query += ")"

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query documents: %w", err)
	}
	defer func() { _ = rows.Close() }()

	docs := make(map[string]*types.Document, len(ids))
	for rows.Next() {
		doc, err := scanDocumentRow(rows)
		if err != nil {
			return nil, err
		}
		docs[doc.ID] = doc
	}
	return docs, rows.Err()
}

// ListDocuments returns up to limit documents
func (s *SQLiteStore) ListDocuments(ctx context.Context, limit int) ([]*types.Document, error) {
	query := `
		SELECT id, source_url, title, content, category, keywords, content_type, embedding, updated_at
		FROM documents
		ORDER BY id
		LIMIT ?
	`
	return s.queryDocuments(ctx, query, limit)
}

// ListByCategory returns up to limit documents in the given category
func (s *SQLiteStore) ListByCategory(ctx context.Context, category string, limit int) ([]*types.Document, error) {
	query := `
		SELECT id, source_url, title, content, category, keywords, content_type, embedding, updated_at
		FROM documents
		WHERE category = ?
		ORDER BY id
		LIMIT ?
	`
	return s.queryDocuments(ctx, query, category, limit)
}

// DeleteDocument removes a document by ID
func (s *SQLiteStore) DeleteDocument(ctx context.Context, id string) error {
	result, err := s.db.ExecContext(ctx, "DELETE FROM documents WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("failed to delete document: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

// CountDocuments returns the total number of documents
func (s *SQLiteStore) CountDocuments(ctx context.Context) (int, error) {
	var count int
	err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM documents").Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count documents: %w", err)
	}
	return count, nil
}

// AllEmbeddings returns every stored embedding. Documents without an
// embedding are omitted; retrieval degrades to their text score alone.
func (s *SQLiteStore) AllEmbeddings(ctx context.Context) ([]DocumentEmbedding, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT id, embedding FROM documents WHERE embedding IS NOT NULL ORDER BY id")
	if err != nil {
		return nil, fmt.Errorf("failed to query embeddings: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var embeddings []DocumentEmbedding
	for rows.Next() {
		var id string
		var blob []byte
		if err := rows.Scan(&id, &blob); err != nil {
			return nil, err
		}
		embeddings = append(embeddings, DocumentEmbedding{
			DocumentID: id,
			Vector:     deserializeVector(blob),
		})
	}
	return embeddings, rows.Err()
}

// ValidateDimension checks every stored embedding against the expected
// dimension. Any mismatch is fatal: the process must refuse to serve rather
// than silently mis-score.
func (s *SQLiteStore) ValidateDimension(ctx context.Context, dim int) error {
	rows, err := s.db.QueryContext(ctx,
		"SELECT id, embedding_dim FROM documents WHERE embedding IS NOT NULL AND embedding_dim != ?", dim)
	if err != nil {
		return fmt.Errorf("failed to validate dimensions: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var mismatched []string
	for rows.Next() {
		var id string
		var stored int
		if err := rows.Scan(&id, &stored); err != nil {
			return err
		}
		mismatched = append(mismatched, fmt.Sprintf("%s (dim %d)", id, stored))
	}
	if err := rows.Err(); err != nil {
		return err
	}

	if len(mismatched) > 0 {
		return fmt.Errorf("%w: expected dimension %d, corpus has %d mismatched documents, first: %s",
			types.ErrDimensionMismatch, dim, len(mismatched), mismatched[0])
	}
	return nil
}

// GetStatus summarizes corpus contents for the status tool
func (s *SQLiteStore) GetStatus(ctx context.Context) (*Status, error) {
	status := &Status{CategoryCounts: make(map[string]int)}

	err := s.db.QueryRowContext(ctx,
		"SELECT COUNT(*), COUNT(embedding), COALESCE(MAX(embedding_dim), 0) FROM documents").
		Scan(&status.DocumentCount, &status.EmbeddedCount, &status.EmbeddingDim)
	if err != nil {
		return nil, fmt.Errorf("failed to get corpus status: %w", err)
	}

	rows, err := s.db.QueryContext(ctx,
		"SELECT category, COUNT(*) FROM documents GROUP BY category")
	if err != nil {
		return nil, fmt.Errorf("failed to count categories: %w", err)
	}
	defer func() { _ = rows.Close() }()

	for rows.Next() {
		var category string
		var count int
		if err := rows.Scan(&category, &count); err != nil {
			return nil, err
		}
		status.CategoryCounts[category] = count
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	var ftsName string
	err = s.db.QueryRowContext(ctx,
		"SELECT name FROM sqlite_master WHERE type='table' AND name='documents_fts'").Scan(&ftsName)
	status.FTSIndexPresent = err == nil

	return status, nil
}

// scanner abstracts *sql.Row and *sql.Rows for document scanning
type scanner interface {
	Scan(dest ...interface{}) error
}

func (s *SQLiteStore) scanDocument(row *sql.Row) (*types.Document, error) {
	doc, err := scanDocumentRow(row)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	return doc, err
}

func scanDocumentRow(row scanner) (*types.Document, error) {
	var doc types.Document
	var sourceURL sql.NullString
	var blob []byte
	err := row.Scan(&doc.ID, &sourceURL, &doc.Title, &doc.Content, &doc.Category,
		&doc.Keywords, &doc.ContentType, &blob, &doc.UpdatedAt)
	if err != nil {
		return nil, err
	}
	if sourceURL.Valid {
		doc.SourceURL = sourceURL.String
	}
	if len(blob) > 0 {
		doc.Embedding = deserializeVector(blob)
	}
	return &doc, nil
}

func (s *SQLiteStore) queryDocuments(ctx context.Context, query string, args ...interface{}) ([]*types.Document, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query documents: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var docs []*types.Document
	for rows.Next() {
		doc, err := scanDocumentRow(rows)
		if err != nil {
			return nil, err
		}
		docs = append(docs, doc)
	}
	return docs, rows.Err()
}

// nullable converts an empty string to NULL for UNIQUE columns
func nullable(s string) interface{} {
	if s == "" {
		return nil
	}
	return s
}

// Ensure SQLiteStore implements Store
var _ Store = (*SQLiteStore)(nil)
