// Package types provides shared type definitions for the CampusQA retrieval core.
//
// This package defines the domain types used across components: corpus
// documents, ranked retrieval results, and the domain error taxonomy.
//
// # Core Types
//
// Document represents one corpus entry with its pre-computed embedding:
//
//	doc := &types.Document{
//	    ID:       "uit_2025_admission_methods",
//	    Title:    "Admission methods for 2025",
//	    Content:  body,
//	    Category: "admissions",
//	}
//
// RankedDocument is the transient result of hybrid retrieval. It carries the
// per-source scores alongside the fused score so callers can inspect how a
// document earned its rank:
//
//	ranked := types.RankedDocument{
//	    DocumentID:    "uit_2025_admission_methods",
//	    VectorScore:   0.52,
//	    TextScore:     0.10,
//	    CombinedScore: 0.394,
//	}
//
// # Error Taxonomy
//
// ErrDimensionMismatch and ErrInvalidConfig are fatal: they indicate a corpus
// or configuration problem the process must refuse to serve with.
// ErrProviderFailed is transient: an external embedding or generation call
// failed and the caller may retry.
package types
