// Package analysis provides normalization and linguistic annotation for
// Turkish legal text.
//
// The Analyzer type produces two retained forms of every input:
//   - a diacritic-preserving canonical form (Turkish lowercasing,
//     punctuation stripped)
//   - an ASCII-folded alternate form (ç/ğ/ı/ö/ş/ü folded)
//
// Both forms are indexed so queries match either spelling. On top of
// normalization the analyzer detects legal terms against a curated
// gazetteer, extracts citations (madde, fıkra, bent, sayılı kanun) with
// their referenced numbers, and ranks keywords by frequency against a
// read-only corpus frequency snapshot.
//
// All functions are pure: malformed or empty input yields an empty
// analysis, never an error.
package analysis
