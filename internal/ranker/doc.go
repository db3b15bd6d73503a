// Package ranker implements the scoring and fusion layer of hybrid retrieval.
//
// Score computes cosine similarity between unit-normalized embeddings (the
// dot product, given the provider's normalization contract). Combine fuses
// per-document vector and lexical scores into one deterministically ordered
// list:
//
//	combined = vectorScore*vectorWeight + textScore*textWeight
//
// Documents below the vector threshold lose only their vector contribution;
// a lexical match still ranks them. Ties are broken by vector score, then by
// document ID, so identical inputs always produce identical output.
//
// Both functions are pure: no I/O, no shared state, safe for concurrent use.
package ranker
