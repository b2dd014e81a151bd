// Package library implements the book index and query engine behind the
// OPDS catalog: it enumerates EPUB files under a content root, extracts
// bibliographic metadata, maintains derived in-memory indexes (recency,
// year, author) and answers paginated queries against them.
//
// All caches live on an explicitly constructed Index with a bound
// lifetime; there is no package-level state. Caches build lazily on first
// access and are dropped wholesale by Invalidate, either administratively
// or when a cached path turns out to be missing at hydration time.
package library
