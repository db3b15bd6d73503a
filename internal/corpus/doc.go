// Package corpus persists the document corpus in SQLite and serves the two
// retrieval primitives the ranker consumes: BM25 full-text search over an
// FTS5 index (title weighted above keywords, keywords above content) and
// enumeration of stored embedding vectors.
//
// Two build modes are supported: the default pure Go driver
// (modernc.org/sqlite) and a CGO build using github.com/mattn/go-sqlite3 via
// the cgo_sqlite tag. Schema changes go through versioned migrations.
package corpus
