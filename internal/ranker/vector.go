package ranker

import (
	"fmt"
	"math"

	"github.com/campusqa/campusqa/pkg/types"
)

// zeroNormEpsilon is the squared-norm floor below which an embedding is
// treated as degenerate and scored 0 instead of producing NaN.
const zeroNormEpsilon = 1e-12

// Score computes the similarity between two unit-normalized embeddings.
//
// Because the embedding provider guarantees unit length, the dot product
// equals the cosine similarity. A length mismatch is a corpus configuration
// error, never silently truncated or padded.
func Score(query, doc []float32) (float64, error) {
	if len(query) != len(doc) {
		return 0, fmt.Errorf("%w: query dimension %d, document dimension %d",
			types.ErrDimensionMismatch, len(query), len(doc))
	}

	var dot, normQ, normD float64
	for i := range query {
		dot += float64(query[i]) * float64(doc[i])
		normQ += float64(query[i]) * float64(query[i])
		normD += float64(doc[i]) * float64(doc[i])
	}

	// Degenerate embeddings score 0 rather than NaN.
	if normQ < zeroNormEpsilon || normD < zeroNormEpsilon {
		return 0, nil
	}

	return dot, nil
}

// Normalize returns a unit-length copy of v. Zero vectors are returned as-is.
func Normalize(v []float32) []float32 {
	var sum float64
	for _, val := range v {
		sum += float64(val) * float64(val)
	}

	if sum < zeroNormEpsilon {
		return v
	}

	norm := float32(math.Sqrt(sum))
	result := make([]float32, len(v))
	for i, val := range v {
		result[i] = val / norm
	}
	return result
}
