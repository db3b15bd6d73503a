package ranker

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func defaultOptions() Options {
	return Options{
		VectorWeight:    0.7,
		TextWeight:      0.3,
		VectorThreshold: 0.3,
		Limit:           15,
	}
}

// TestCombineKnownCorpus verifies the fusion arithmetic against hand-computed
// scores for a three-document corpus.
func TestCombineKnownCorpus(t *testing.T) {
	vectorResults := []DocScore{
		{DocumentID: "doc-a", Score: 0.52},
		{DocumentID: "doc-b", Score: 0.46},
		{DocumentID: "doc-c", Score: 0.30},
	}
	textResults := []DocScore{
		{DocumentID: "doc-a", Score: 0.10},
		{DocumentID: "doc-b", Score: 0.05},
		{DocumentID: "doc-c", Score: 0.40},
	}

	ranked := Combine(vectorResults, textResults, defaultOptions())
	require.Len(t, ranked, 3)

	// 0.52*0.7 + 0.10*0.3 = 0.394
	// 0.46*0.7 + 0.05*0.3 = 0.337
	// 0.30*0.7 + 0.40*0.3 = 0.330
	assert.Equal(t, "doc-a", ranked[0].DocumentID)
	assert.InDelta(t, 0.394, ranked[0].CombinedScore, 1e-9)
	assert.Equal(t, "doc-b", ranked[1].DocumentID)
	assert.InDelta(t, 0.337, ranked[1].CombinedScore, 1e-9)
	assert.Equal(t, "doc-c", ranked[2].DocumentID)
	assert.InDelta(t, 0.330, ranked[2].CombinedScore, 1e-9)
}

func TestCombineDeterminism(t *testing.T) {
	vectorResults := []DocScore{
		{DocumentID: "m", Score: 0.8},
		{DocumentID: "z", Score: 0.5},
		{DocumentID: "a", Score: 0.5},
		{DocumentID: "k", Score: 0.35},
	}
	textResults := []DocScore{
		{DocumentID: "z", Score: 0.2},
		{DocumentID: "q", Score: 0.9},
		{DocumentID: "a", Score: 0.2},
	}

	first := Combine(vectorResults, textResults, defaultOptions())
	for i := 0; i < 50; i++ {
		assert.Equal(t, first, Combine(vectorResults, textResults, defaultOptions()))
	}
}

// TestCombineThresholdExclusion checks that a document below the vector
// threshold keeps its place in the ranking through its text score alone.
func TestCombineThresholdExclusion(t *testing.T) {
	vectorResults := []DocScore{
		{DocumentID: "strong", Score: 0.9},
		{DocumentID: "weak", Score: 0.1}, // Below threshold 0.3
	}
	textResults := []DocScore{
		{DocumentID: "weak", Score: 0.5},
	}

	ranked := Combine(vectorResults, textResults, defaultOptions())
	require.Len(t, ranked, 2)

	assert.Equal(t, "strong", ranked[0].DocumentID)
	assert.Equal(t, "weak", ranked[1].DocumentID)
	// Vector contribution dropped entirely, text contribution retained
	assert.Equal(t, 0.0, ranked[1].VectorScore)
	assert.InDelta(t, 0.15, ranked[1].CombinedScore, 1e-9)
}

func TestCombineBelowThresholdWithoutTextDropped(t *testing.T) {
	vectorResults := []DocScore{
		{DocumentID: "only-weak-vector", Score: 0.1},
	}

	ranked := Combine(vectorResults, nil, defaultOptions())
	assert.Empty(t, ranked)
}

func TestCombineMissingSideContributesZero(t *testing.T) {
	vectorOnly := Combine([]DocScore{{DocumentID: "v", Score: 0.5}}, nil, defaultOptions())
	require.Len(t, vectorOnly, 1)
	assert.InDelta(t, 0.35, vectorOnly[0].CombinedScore, 1e-9)
	assert.Equal(t, 0.0, vectorOnly[0].TextScore)

	textOnly := Combine(nil, []DocScore{{DocumentID: "t", Score: 0.5}}, defaultOptions())
	require.Len(t, textOnly, 1)
	assert.InDelta(t, 0.15, textOnly[0].CombinedScore, 1e-9)
	assert.Equal(t, 0.0, textOnly[0].VectorScore)
}

func TestCombineTieBreaking(t *testing.T) {
	// Same combined score, different vector scores
	vectorResults := []DocScore{
		{DocumentID: "high-vector", Score: 0.6},
	}
	textResults := []DocScore{
		{DocumentID: "high-text", Score: 1.4}, // 1.4*0.3 = 0.42 = 0.6*0.7
	}

	ranked := Combine(vectorResults, textResults, defaultOptions())
	require.Len(t, ranked, 2)
	assert.Equal(t, "high-vector", ranked[0].DocumentID)
	assert.Equal(t, "high-text", ranked[1].DocumentID)

	// Fully tied scores fall back to document ID order
	tied := Combine(
		[]DocScore{{DocumentID: "beta", Score: 0.5}, {DocumentID: "alpha", Score: 0.5}},
		nil,
		defaultOptions(),
	)
	require.Len(t, tied, 2)
	assert.Equal(t, "alpha", tied[0].DocumentID)
	assert.Equal(t, "beta", tied[1].DocumentID)
}

func TestCombineLimit(t *testing.T) {
	var vectorResults []DocScore
	for _, id := range []string{"a", "b", "c", "d", "e"} {
		vectorResults = append(vectorResults, DocScore{DocumentID: id, Score: 0.9})
	}

	opts := defaultOptions()
	opts.Limit = 3
	ranked := Combine(vectorResults, nil, opts)
	assert.Len(t, ranked, 3)

	// Fewer qualifying documents than the limit returns all of them
	opts.Limit = 100
	ranked = Combine(vectorResults, nil, opts)
	assert.Len(t, ranked, 5)
}

func TestCombineEmptyInputs(t *testing.T) {
	assert.Empty(t, Combine(nil, nil, defaultOptions()))
	assert.Empty(t, Combine([]DocScore{}, []DocScore{}, defaultOptions()))
}

func TestCombineNonPositiveTextScoresIgnored(t *testing.T) {
	textResults := []DocScore{
		{DocumentID: "zero", Score: 0},
		{DocumentID: "negative", Score: -0.2},
		{DocumentID: "positive", Score: 0.3},
	}

	ranked := Combine(nil, textResults, defaultOptions())
	require.Len(t, ranked, 1)
	assert.Equal(t, "positive", ranked[0].DocumentID)
}
