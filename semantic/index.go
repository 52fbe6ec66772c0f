// Copyright 2026 Kodeks Bilisim
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package semantic

import (
	"container/heap"
	"fmt"
	"sort"

	"github.com/kodeks/mevzu/core"
)

// Staging accumulates vectors destined for the next snapshot. It is
// not safe for concurrent use; the indexer serializes access.
type Staging struct {
	gen     uint64
	dim     int
	vectors map[core.ID][]float32
}

// NewStaging creates an empty staging area bound to a vocabulary
// generation.
func NewStaging(gen uint64) *Staging {
	return &Staging{gen: gen, vectors: make(map[core.ID][]float32)}
}

// Gen reports the vocabulary generation the staging area accepts.
func (s *Staging) Gen() uint64 { return s.gen }

// Add stages a vector. Vectors from a different vocabulary generation
// are rejected with ErrVocabGenMismatch: mixing generations in one
// index would make cosine scores meaningless.
func (s *Staging) Add(vec core.EmbeddingVector) error {
	if vec.VocabGen != s.gen {
		return fmt.Errorf("%w: got %d, staging at %d", ErrVocabGenMismatch, vec.VocabGen, s.gen)
	}
	if len(vec.Values) == 0 {
		// Zero vector: the article has no in-vocabulary content. It
		// simply never matches semantically.
		delete(s.vectors, vec.ArticleId)
		return nil
	}
	if s.dim == 0 {
		s.dim = len(vec.Values)
	} else if len(vec.Values) != s.dim {
		return fmt.Errorf("%w: got %d, want %d", ErrDimensionMismatch, len(vec.Values), s.dim)
	}
	s.vectors[vec.ArticleId] = vec.Values
	return nil
}

// Remove drops a staged vector.
func (s *Staging) Remove(id core.ID) {
	delete(s.vectors, id)
}

// Contains reports whether the article has a staged vector.
func (s *Staging) Contains(id core.ID) bool {
	_, ok := s.vectors[id]
	return ok
}

// Len returns the number of staged vectors.
func (s *Staging) Len() int { return len(s.vectors) }

// Reset clears the staging area, keeping its generation.
func (s *Staging) Reset() {
	s.dim = 0
	s.vectors = make(map[core.ID][]float32)
}

// Snapshot is an immutable vector index. All methods are safe for
// concurrent use.
type Snapshot struct {
	gen     uint64
	dim     int
	ids     []core.ID
	vectors [][]float32
}

// Build freezes the staging contents into a snapshot. The staging area
// stays usable afterwards; the snapshot never observes later changes.
func (s *Staging) Build() *Snapshot {
	ids := make([]core.ID, 0, len(s.vectors))
	for id := range s.vectors {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	snap := &Snapshot{
		gen:     s.gen,
		dim:     s.dim,
		ids:     ids,
		vectors: make([][]float32, len(ids)),
	}
	for i, id := range ids {
		src := s.vectors[id]
		dst := make([]float32, len(src))
		copy(dst, src)
		snap.vectors[i] = dst
	}
	return snap
}

// Gen reports the vocabulary generation of the snapshot.
func (s *Snapshot) Gen() uint64 { return s.gen }

// Len returns the number of indexed vectors.
func (s *Snapshot) Len() int {
	if s == nil {
		return 0
	}
	return len(s.ids)
}

// Contains reports whether the snapshot holds a vector for the article.
func (s *Snapshot) Contains(id core.ID) bool {
	if s == nil {
		return false
	}
	i := sort.Search(len(s.ids), func(i int) bool { return s.ids[i] >= id })
	return i < len(s.ids) && s.ids[i] == id
}

// Search returns up to topK articles by descending cosine similarity
// to the query vector. Stored vectors and query vectors are unit
// normalized, so cosine reduces to a dot product. Selection uses a
// bounded min-heap instead of sorting the whole corpus. A nil snapshot,
// nil query, or mismatched dimension yields an empty result: semantic
// search degrades to a no-op rather than failing the request.
func (s *Snapshot) Search(query []float32, topK int) []core.Candidate {
	if s == nil || topK <= 0 || len(query) == 0 || len(query) != s.dim {
		return nil
	}

	h := &candidateHeap{}
	heap.Init(h)
	for i, vec := range s.vectors {
		sim := dot(query, vec)
		if sim <= 0 {
			continue
		}
		c := core.Candidate{ArticleId: s.ids[i], Score: sim}
		if h.Len() < topK {
			heap.Push(h, c)
			continue
		}
		if worseThan((*h)[0], c) {
			(*h)[0] = c
			heap.Fix(h, 0)
		}
	}

	out := make([]core.Candidate, h.Len())
	for i := len(out) - 1; i >= 0; i-- {
		out[i] = heap.Pop(h).(core.Candidate)
	}
	return out
}

func dot(a, b []float32) float64 {
	var sum float64
	for i := range a {
		sum += float64(a[i]) * float64(b[i])
	}
	return sum
}

// worseThan reports whether a ranks below b: lower similarity, or equal
// similarity with a higher article id. The id tie-break keeps results
// deterministic across runs.
func worseThan(a, b core.Candidate) bool {
	if a.Score != b.Score {
		return a.Score < b.Score
	}
	return a.ArticleId > b.ArticleId
}

// candidateHeap is a min-heap by rank: the root is the candidate that
// would be evicted first.
type candidateHeap []core.Candidate

func (h candidateHeap) Len() int           { return len(h) }
func (h candidateHeap) Less(i, j int) bool { return worseThan(h[i], h[j]) }
func (h candidateHeap) Swap(i, j int)      { h[i], h[j] = h[j], h[i] }
func (h *candidateHeap) Push(x any)        { *h = append(*h, x.(core.Candidate)) }
func (h *candidateHeap) Pop() any {
	old := *h
	n := len(old)
	x := old[n-1]
	*h = old[:n-1]
	return x
}
