// Package query turns raw user input into retrieval-ready queries.
//
// A built Query carries an ordered term sequence for the lexical
// backend, with per-term OR variants (exact, prefix, ASCII-folded) each
// weighted differently, and the untouched normalized text for the
// semantic backend. A query that normalizes to nothing is an explicit
// empty marker, not an error; callers short-circuit to empty results.
package query
