package corpus

import (
	"context"
	"encoding/binary"
	"fmt"
	"math"
	"regexp"
	"strings"
)

// FTS5 column weights: title matches rank highest, then keywords, then body
// content. Mirrors the weighting of the original production text index.
const (
	ftsTitleWeight   = 10.0
	ftsKeywordWeight = 5.0
	ftsContentWeight = 1.0
)

// SearchText performs BM25 full-text search over the corpus. Scores are
// normalized to (0, 1), higher is better; non-matching documents are absent.
func (s *SQLiteStore) SearchText(ctx context.Context, query string, limit int) ([]TextResult, error) {
	sanitized := sanitizeFTSQuery(query)
	if sanitized == "" {
		return []TextResult{}, nil
	}
	if limit <= 0 {
		return []TextResult{}, nil
	}

	// bm25() returns negative scores, lower is better
	sqlQuery := fmt.Sprintf(`
		SELECT d.id, bm25(documents_fts, %g, %g, %g) AS score
		FROM documents_fts
		INNER JOIN documents d ON documents_fts.rowid = d.rowid
		WHERE documents_fts MATCH ?
		ORDER BY score
		LIMIT ?
	`, ftsTitleWeight, ftsKeywordWeight, ftsContentWeight)

	rows, err := s.db.QueryContext(ctx, sqlQuery, sanitized, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to execute FTS search: %w", err)
	}
	defer func() { _ = rows.Close() }()

	results := make([]TextResult, 0, limit)
	for rows.Next() {
		var result TextResult
		var raw float64
		if err := rows.Scan(&result.DocumentID, &raw); err != nil {
			return nil, fmt.Errorf("failed to scan result: %w", err)
		}

		// Convert BM25 score (negative, more negative is more relevant)
		// to a normalized score in (0, 1) that increases with relevance
		result.TextScore = math.Abs(raw) / (math.Abs(raw) + 50.0)
		results = append(results, result)
	}

	return results, rows.Err()
}

// serializeVector converts a float32 slice to a byte blob (little-endian)
func serializeVector(vector []float32) []byte {
	blob := make([]byte, len(vector)*4)
	for i, v := range vector {
		binary.LittleEndian.PutUint32(blob[i*4:], math.Float32bits(v))
	}
	return blob
}

// deserializeVector converts a byte blob back to a float32 slice
func deserializeVector(blob []byte) []float32 {
	vector := make([]float32, len(blob)/4)
	for i := range vector {
		bits := binary.LittleEndian.Uint32(blob[i*4:])
		vector[i] = math.Float32frombits(bits)
	}
	return vector
}

// FTS5 operator pattern for escaping Boolean operators
var ftsOperatorPattern = regexp.MustCompile(`\b(AND|OR|NOT|NEAR)\b`)

// sanitizeFTSQuery turns free-form user text into a safe FTS5 match
// expression: each term is double-quoted so punctuation and Boolean
// operators lose their special meaning. Terms are OR-ed so a natural
// language question matches documents containing any of its words; BM25
// ranking rewards documents matching more of them.
func sanitizeFTSQuery(query string) string {
	query = strings.TrimSpace(ftsOperatorPattern.ReplaceAllString(query, " "))
	if query == "" {
		return ""
	}

	fields := strings.Fields(query)
	terms := make([]string, 0, len(fields))
	for _, f := range fields {
		f = strings.ReplaceAll(f, `"`, "")
		if f == "" {
			continue
		}
		terms = append(terms, `"`+f+`"`)
	}
	return strings.Join(terms, " OR ")
}

// SerializeVector is an exported helper for testing
func SerializeVector(vector []float32) []byte {
	return serializeVector(vector)
}

// DeserializeVector is an exported helper for testing
func DeserializeVector(blob []byte) []float32 {
	return deserializeVector(blob)
}
