package types

import "errors"

// Domain errors shared across the retrieval core
var (
	// Fatal at startup: the process must refuse to serve.
	ErrDimensionMismatch = errors.New("embedding dimension mismatch")
	ErrInvalidConfig     = errors.New("invalid configuration")

	// Transient: an external provider call failed; callers may retry.
	ErrProviderFailed = errors.New("provider failed")

	// Validation errors
	ErrEmptyDocumentID = errors.New("document ID cannot be empty")
	ErrEmptyTitle      = errors.New("title cannot be empty")
	ErrEmptyContent    = errors.New("content cannot be empty")
	ErrInvalidScore    = errors.New("score must be non-negative")
)
