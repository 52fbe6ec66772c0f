// Package lexical implements the token-based inverted index.
//
// The index is split into a mutable Staging structure owned by the write
// path and immutable Snapshot values served to queries. Postings are
// keyed by the canonical (diacritic-preserving) token form; the
// ASCII-folded alternate of every term aliases the same postings list,
// so "mükellef" and "mukellef" resolve to identical matches without
// duplicating postings.
//
// Scoring combines within-article term frequency with inverse document
// frequency. Phrase queries additionally require positional adjacency
// within the query's window and earn a proximity bonus inversely
// proportional to the token gap. Ordering is fully deterministic: score,
// then raw term frequency, then article length, then article ID.
package lexical
