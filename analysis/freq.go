package analysis

import (
	"maps"
	"math"
)

// FrequencyTable tracks per-term document frequencies across the corpus
// seen so far. The indexer owns a mutable table; readers receive an
// immutable copy via Snapshot so keyword ranking stays reproducible
// across concurrent calls.
type FrequencyTable struct {
	docCount int
	docFreq  map[string]int
}

// NewFrequencyTable returns an empty frequency table.
func NewFrequencyTable() *FrequencyTable {
	return &FrequencyTable{docFreq: make(map[string]int)}
}

// AddDocument records one document's unique canonical terms.
func (t *FrequencyTable) AddDocument(terms map[string]struct{}) {
	t.docCount++
	for term := range terms {
		t.docFreq[term]++
	}
}

// RemoveDocument reverses AddDocument for a tombstoned document.
func (t *FrequencyTable) RemoveDocument(terms map[string]struct{}) {
	if t.docCount == 0 {
		return
	}
	t.docCount--
	for term := range terms {
		if t.docFreq[term] <= 1 {
			delete(t.docFreq, term)
			continue
		}
		t.docFreq[term]--
	}
}

// Snapshot returns a deep copy safe for concurrent read-only use.
func (t *FrequencyTable) Snapshot() *FrequencyTable {
	return &FrequencyTable{
		docCount: t.docCount,
		docFreq:  maps.Clone(t.docFreq),
	}
}

// DocCount reports how many documents the table has seen.
func (t *FrequencyTable) DocCount() int {
	return t.docCount
}

// DocFreq reports how many documents contain the canonical term.
func (t *FrequencyTable) DocFreq(term string) int {
	return t.docFreq[term]
}

// IDF computes the smoothed inverse document frequency of a term.
// Unknown terms get the highest weight.
func (t *FrequencyTable) IDF(term string) float64 {
	return math.Log(1 + float64(t.docCount)/float64(1+t.docFreq[term]))
}
