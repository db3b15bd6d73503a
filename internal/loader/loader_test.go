package loader

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/campusqa/campusqa/internal/corpus"
	"github.com/campusqa/campusqa/internal/embedder"
)

func sampleInputs() []InputDocument {
	return []InputDocument{
		{
			URL:      "https://example.edu/admissions",
			Title:    "Admission methods",
			Content:  "The university offers three admission methods.",
			Category: "admissions",
			Keywords: "admission,entrance exam",
		},
		{
			URL:      "https://example.edu/scholarships",
			Title:    "Scholarship programs",
			Content:  "Merit scholarships cover full tuition.",
			Category: "scholarships",
		},
	}
}

func newTestLoader(t *testing.T) (*Loader, *corpus.SQLiteStore, *countingEmbedder) {
	t.Helper()

	store, err := corpus.NewSQLiteStore(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	emb := newCountingEmbedder(t)
	return New(store, emb, 2, 10, nil), store, emb
}

// countingEmbedder wraps the local provider and counts batch calls
type countingEmbedder struct {
	embedder.Embedder
	batchCalls atomic.Int32
}

func newCountingEmbedder(t *testing.T) *countingEmbedder {
	t.Helper()
	inner, err := embedder.NewLocalProvider(nil)
	require.NoError(t, err)
	return &countingEmbedder{Embedder: inner}
}

func (c *countingEmbedder) GenerateBatch(ctx context.Context, req embedder.BatchEmbeddingRequest) (*embedder.BatchEmbeddingResponse, error) {
	c.batchCalls.Add(1)
	return c.Embedder.GenerateBatch(ctx, req)
}

func TestLoadStoresEmbeddedDocuments(t *testing.T) {
	l, store, emb := newTestLoader(t)
	ctx := context.Background()

	result, err := l.Load(ctx, sampleInputs())
	require.NoError(t, err)
	assert.Equal(t, 2, result.Loaded)
	assert.Equal(t, 2, result.Embedded)
	assert.Equal(t, 0, result.Skipped)
	assert.Equal(t, int32(1), emb.batchCalls.Load())

	count, err := store.CountDocuments(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, count)

	doc, err := store.GetDocument(ctx, DocumentID("https://example.edu/admissions", ""))
	require.NoError(t, err)
	assert.Equal(t, "Admission methods", doc.Title)
	assert.Len(t, doc.Embedding, embedder.LocalDimension)
}

func TestLoadSkipsInvalidDocuments(t *testing.T) {
	l, _, _ := newTestLoader(t)

	inputs := append(sampleInputs(), InputDocument{URL: "https://example.edu/empty"})
	result, err := l.Load(context.Background(), inputs)
	require.NoError(t, err)
	assert.Equal(t, 2, result.Loaded)
	assert.Equal(t, 1, result.Skipped)
}

func TestLoadAllInvalid(t *testing.T) {
	l, _, _ := newTestLoader(t)

	_, err := l.Load(context.Background(), []InputDocument{{URL: "https://example.edu/x"}})
	assert.ErrorIs(t, err, ErrEmptyFile)
}

func TestLoadReingestUpdatesInPlace(t *testing.T) {
	l, store, _ := newTestLoader(t)
	ctx := context.Background()

	_, err := l.Load(ctx, sampleInputs())
	require.NoError(t, err)

	updated := sampleInputs()
	updated[0].Content = "Four admission methods are now offered."
	_, err = l.Load(ctx, updated)
	require.NoError(t, err)

	count, err := store.CountDocuments(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, count)

	doc, err := store.GetDocument(ctx, DocumentID("https://example.edu/admissions", ""))
	require.NoError(t, err)
	assert.Contains(t, doc.Content, "Four admission methods")
}

func TestLoadFile(t *testing.T) {
	l, _, _ := newTestLoader(t)

	path := filepath.Join(t.TempDir(), "docs.json")
	data, err := json.Marshal(sampleInputs())
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(path, data, 0o644))

	result, err := l.LoadFile(context.Background(), path)
	require.NoError(t, err)
	assert.Equal(t, 2, result.Loaded)
}

func TestLoadFileInvalidJSON(t *testing.T) {
	l, _, _ := newTestLoader(t)

	path := filepath.Join(t.TempDir(), "bad.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o644))

	_, err := l.LoadFile(context.Background(), path)
	assert.ErrorIs(t, err, ErrInvalidFile)
}

func TestDocumentIDStable(t *testing.T) {
	a := DocumentID("https://example.edu/admissions", "")
	b := DocumentID("https://example.edu/admissions", "different title")
	assert.Equal(t, a, b)

	c := DocumentID("", "Admission methods")
	assert.NotEmpty(t, c)
	assert.NotEqual(t, a, c)
}

func TestEmbeddingTextTruncated(t *testing.T) {
	l, store, _ := newTestLoader(t)
	ctx := context.Background()

	long := InputDocument{
		URL:     "https://example.edu/long",
		Title:   "Very long page",
		Content: strings.Repeat("admission ", embedder.MaxInputChars),
	}
	result, err := l.Load(ctx, []InputDocument{long})
	require.NoError(t, err)
	assert.Equal(t, 1, result.Embedded)

	// Full content is stored even though embedding input was clipped
	doc, err := store.GetDocument(ctx, DocumentID("https://example.edu/long", ""))
	require.NoError(t, err)
	assert.Greater(t, len(doc.Content), embedder.MaxInputChars)
}
