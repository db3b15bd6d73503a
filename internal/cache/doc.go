// Package cache provides the two in-memory caching layers of the retrieval
// pipeline.
//
// QueryCache holds ranked retrieval results keyed by normalized query text,
// bounded by time: entries expire after a TTL (default one hour), checked
// lazily on read. QueryCache.Sweep exists for callers that want proactive
// cleanup, but the read contract does not depend on it.
//
// ResponseCache holds fully synthesized answers keyed by normalized message
// text, bounded by capacity: the least-recently-accessed entry is evicted
// when an insert would exceed the limit (default 100). It deliberately has
// no expiry: generation is the most expensive step in the pipeline, so
// entries are reused for the life of the process.
//
// Both caches are safe for concurrent use and are created once at process
// start; neither is ever persisted.
package cache
