// Package loader ingests crawled documents into the corpus store. It parses
// a JSON document file, embeds documents in batches through a bounded worker
// pool, and upserts them under content-addressed IDs so re-ingesting a
// source updates rows in place.
package loader
