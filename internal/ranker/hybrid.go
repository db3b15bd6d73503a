package ranker

import (
	"sort"

	"github.com/campusqa/campusqa/pkg/types"
)

// DocScore pairs a document with a single-source relevance score.
type DocScore struct {
	DocumentID string
	Score      float64
}

// Options configures a single fusion pass. Weights must sum to 1.0; that is
// enforced by config validation at startup, not re-checked per call.
type Options struct {
	VectorWeight    float64
	TextWeight      float64
	VectorThreshold float64
	Limit           int
}

// Combine fuses vector similarity and lexical match scores into one ranked
// list. It is a pure transform: no I/O, no shared state, identical inputs
// produce byte-identical output.
//
// A document below the vector threshold loses only its vector contribution;
// a positive text score still earns it a place in the ranking. A document
// missing from one source contributes 0 for that side. Ordering is total:
// combined score descending, then vector score descending, then document ID
// ascending.
func Combine(vectorResults, textResults []DocScore, opts Options) []types.RankedDocument {
	merged := make(map[string]*types.RankedDocument, len(vectorResults)+len(textResults))

	for _, vr := range vectorResults {
		if vr.Score < opts.VectorThreshold {
			continue
		}
		merged[vr.DocumentID] = &types.RankedDocument{
			DocumentID:  vr.DocumentID,
			VectorScore: vr.Score,
		}
	}

	for _, tr := range textResults {
		if tr.Score <= 0 {
			continue
		}
		doc, ok := merged[tr.DocumentID]
		if !ok {
			doc = &types.RankedDocument{DocumentID: tr.DocumentID}
			merged[tr.DocumentID] = doc
		}
		doc.TextScore = tr.Score
	}

	ranked := make([]types.RankedDocument, 0, len(merged))
	for _, doc := range merged {
		doc.CombinedScore = doc.VectorScore*opts.VectorWeight + doc.TextScore*opts.TextWeight
		ranked = append(ranked, *doc)
	}

	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].CombinedScore != ranked[j].CombinedScore {
			return ranked[i].CombinedScore > ranked[j].CombinedScore
		}
		if ranked[i].VectorScore != ranked[j].VectorScore {
			return ranked[i].VectorScore > ranked[j].VectorScore
		}
		return ranked[i].DocumentID < ranked[j].DocumentID
	})

	if opts.Limit > 0 && len(ranked) > opts.Limit {
		ranked = ranked[:opts.Limit]
	}

	return ranked
}
