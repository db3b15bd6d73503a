// Package assistant coordinates retrieval and answer generation behind two
// cache layers. FetchKnowledge serves ranked documents through a TTL query
// cache; FetchResponse serves synthesized answers through an LRU response
// cache. Concurrent callers for the same key share a single in-flight
// computation, and a caller's deadline detaches the caller from that
// computation rather than aborting it.
package assistant
