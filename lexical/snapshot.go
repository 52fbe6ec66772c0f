package lexical

import (
	"math"
	"sort"
	"strings"

	"github.com/kodeks/mevzu/analysis"
	"github.com/kodeks/mevzu/core"
	"github.com/kodeks/mevzu/query"
)

// maxPrefixExpansions bounds how many distinct terms one prefix variant
// may expand to, keeping worst-case query cost bounded.
const maxPrefixExpansions = 128

// posting records one article's occurrences of a term.
type posting struct {
	article   core.ID
	positions []int // token positions in the canonical sequence
}

// termEntry is the postings list of one canonical term.
type termEntry struct {
	postings []posting // sorted by article ID
}

type articleMeta struct {
	tokenCount int
}

// Snapshot is an immutable inverted index over one generation of the
// corpus. It is safe for unlimited concurrent reads.
type Snapshot struct {
	terms     map[string]*termEntry
	termKeys  []string // sorted canonical terms, for prefix scans
	aliases   map[string][]string
	aliasKeys []string // sorted folded forms that differ from canonical
	meta      map[core.ID]articleMeta
	count     int
}

// Build derives an immutable snapshot from the staged article set.
func (s *Staging) Build() *Snapshot {
	snap := &Snapshot{
		terms:   make(map[string]*termEntry),
		aliases: make(map[string][]string),
		meta:    make(map[core.ID]articleMeta, len(s.articles)),
		count:   len(s.articles),
	}

	ids := make([]core.ID, 0, len(s.articles))
	for id := range s.articles {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	for _, id := range ids {
		a := s.articles[id]
		snap.meta[id] = articleMeta{tokenCount: a.tokenCount}

		positions := make(map[string][]int)
		for pos, term := range a.tokens {
			positions[term] = append(positions[term], pos)
		}
		for term, pos := range positions {
			entry, ok := snap.terms[term]
			if !ok {
				entry = &termEntry{}
				snap.terms[term] = entry
			}
			entry.postings = append(entry.postings, posting{article: id, positions: pos})
		}
	}

	snap.termKeys = make([]string, 0, len(snap.terms))
	aliasSeen := make(map[string]map[string]bool)
	for term := range snap.terms {
		snap.termKeys = append(snap.termKeys, term)

		folded := analysis.Fold(term)
		if folded == term {
			continue
		}
		if aliasSeen[folded] == nil {
			aliasSeen[folded] = make(map[string]bool)
		}
		if !aliasSeen[folded][term] {
			aliasSeen[folded][term] = true
			snap.aliases[folded] = append(snap.aliases[folded], term)
		}
	}
	sort.Strings(snap.termKeys)

	snap.aliasKeys = make([]string, 0, len(snap.aliases))
	for folded, canonicals := range snap.aliases {
		sort.Strings(canonicals)
		snap.aliasKeys = append(snap.aliasKeys, folded)
	}
	sort.Strings(snap.aliasKeys)

	return snap
}

// Len reports the number of articles in the snapshot.
func (sn *Snapshot) Len() int {
	return sn.count
}

// Contains reports whether an article is present in the snapshot.
func (sn *Snapshot) Contains(id core.ID) bool {
	_, ok := sn.meta[id]
	return ok
}

// idf computes the smoothed inverse document frequency for a postings
// list of the given length.
func (sn *Snapshot) idf(df int) float64 {
	return math.Log(1 + float64(sn.count)/float64(1+df))
}

// resolve maps a variant to the canonical term entries it matches.
func (sn *Snapshot) resolve(v query.Variant) []*termEntry {
	if !v.Prefix {
		var entries []*termEntry
		if e, ok := sn.terms[v.Text]; ok {
			entries = append(entries, e)
		}
		for _, canonical := range sn.aliases[v.Text] {
			if canonical != v.Text {
				entries = append(entries, sn.terms[canonical])
			}
		}
		return entries
	}

	seen := make(map[string]bool)
	var entries []*termEntry
	collect := func(canonical string) bool {
		if seen[canonical] {
			return true
		}
		seen[canonical] = true
		entries = append(entries, sn.terms[canonical])
		return len(entries) < maxPrefixExpansions
	}

	for _, term := range keysWithPrefix(sn.termKeys, v.Text) {
		if !collect(term) {
			return entries
		}
	}
	for _, folded := range keysWithPrefix(sn.aliasKeys, v.Text) {
		for _, canonical := range sn.aliases[folded] {
			if !collect(canonical) {
				return entries
			}
		}
	}
	return entries
}

// keysWithPrefix returns the contiguous run of sorted keys having the
// given prefix.
func keysWithPrefix(keys []string, prefix string) []string {
	lo := sort.SearchStrings(keys, prefix)
	hi := lo
	for hi < len(keys) && strings.HasPrefix(keys[hi], prefix) {
		hi++
	}
	return keys[lo:hi]
}

// termHit is the per-article evidence one query term gathered.
type termHit struct {
	weight    float64 // best variant contribution: weight * tf * idf
	tf        int     // raw term frequency behind the best variant
	positions []int   // merged positions, for phrase adjacency
}

// hitsFor evaluates one query term against the snapshot. For every
// matching article the best-weighted variant wins; positions from all
// matched canonical terms are merged.
func (sn *Snapshot) hitsFor(term query.Term, wantPositions bool) map[core.ID]*termHit {
	hits := make(map[core.ID]*termHit)

	for _, v := range term.Variants {
		for _, entry := range sn.resolve(v) {
			idf := sn.idf(len(entry.postings))
			for _, p := range entry.postings {
				tf := len(p.positions)
				contribution := v.Weight * float64(tf) * idf

				h, ok := hits[p.article]
				if !ok {
					h = &termHit{}
					hits[p.article] = h
				}
				if contribution > h.weight {
					h.weight = contribution
					h.tf = tf
				}
				if wantPositions {
					h.positions = mergePositions(h.positions, p.positions)
				}
			}
		}
	}
	return hits
}

func mergePositions(a, b []int) []int {
	if len(a) == 0 {
		out := make([]int, len(b))
		copy(out, b)
		return out
	}
	merged := append(a, b...)
	sort.Ints(merged)
	out := merged[:1]
	for _, p := range merged[1:] {
		if p != out[len(out)-1] {
			out = append(out, p)
		}
	}
	return out
}

// scored carries an article through ranking with its tie-break keys.
type scored struct {
	id    core.ID
	score float64
	rawTF int
}

// Search evaluates the lexical side of a query and returns the top-k
// candidates in deterministic order.
func (sn *Snapshot) Search(q query.Query, topK int) []core.Candidate {
	if q.Empty() || sn.count == 0 || topK == 0 {
		return nil
	}

	perTerm := make([]map[core.ID]*termHit, len(q.Terms))
	wantPositions := q.Mode == query.ModePhrase
	for i, term := range q.Terms {
		perTerm[i] = sn.hitsFor(term, wantPositions)
	}

	var results []scored
	switch q.Mode {
	case query.ModeComprehensive:
		results = combineUnion(perTerm)
	case query.ModePhrase:
		results = sn.combinePhrase(perTerm, q.PhraseWindow)
	default: // ModeExact, ModeSimple: all terms must match
		results = combineIntersection(perTerm)
	}

	sort.Slice(results, func(i, j int) bool {
		a, b := results[i], results[j]
		if a.score != b.score {
			return a.score > b.score
		}
		if a.rawTF != b.rawTF {
			return a.rawTF > b.rawTF
		}
		la, lb := sn.meta[a.id].tokenCount, sn.meta[b.id].tokenCount
		if la != lb {
			return la < lb
		}
		return a.id < b.id
	})

	if topK > 0 && len(results) > topK {
		results = results[:topK]
	}
	candidates := make([]core.Candidate, len(results))
	for i, r := range results {
		candidates[i] = core.Candidate{ArticleId: r.id, Score: r.score}
	}
	return candidates
}

// combineUnion sums contributions of every term (OR semantics).
func combineUnion(perTerm []map[core.ID]*termHit) []scored {
	acc := make(map[core.ID]*scored)
	for _, hits := range perTerm {
		for id, h := range hits {
			s, ok := acc[id]
			if !ok {
				s = &scored{id: id}
				acc[id] = s
			}
			s.score += h.weight
			s.rawTF += h.tf
		}
	}
	out := make([]scored, 0, len(acc))
	for _, s := range acc {
		out = append(out, *s)
	}
	return out
}

// combineIntersection keeps only articles matched by every term.
func combineIntersection(perTerm []map[core.ID]*termHit) []scored {
	if len(perTerm) == 0 {
		return nil
	}
	var out []scored
	for id, first := range perTerm[0] {
		score := first.weight
		rawTF := first.tf
		matched := true
		for _, hits := range perTerm[1:] {
			h, ok := hits[id]
			if !ok {
				matched = false
				break
			}
			score += h.weight
			rawTF += h.tf
		}
		if matched {
			out = append(out, scored{id: id, score: score, rawTF: rawTF})
		}
	}
	return out
}

// combinePhrase keeps articles where the terms occur in order with every
// adjacent pair within the window, and applies a proximity bonus
// inversely proportional to the average token gap.
func (sn *Snapshot) combinePhrase(perTerm []map[core.ID]*termHit, window int) []scored {
	if window < 1 {
		window = 1
	}
	base := combineIntersection(perTerm)

	var out []scored
	for _, s := range base {
		positions := make([][]int, len(perTerm))
		for i, hits := range perTerm {
			positions[i] = hits[s.id].positions
		}
		gap, ok := bestChainGap(positions, window)
		if !ok {
			continue
		}
		if len(perTerm) > 1 {
			avgGap := float64(gap) / float64(len(perTerm)-1)
			s.score *= 1 + 1/avgGap
		}
		out = append(out, s)
	}
	return out
}

// bestChainGap finds the in-order chain through the position lists with
// minimal total gap, every step at most window tokens apart. Returns
// false when no such chain exists.
func bestChainGap(positions [][]int, window int) (int, bool) {
	if len(positions) == 0 {
		return 0, false
	}
	// best[p] = minimal total gap of a chain ending at position p
	best := make(map[int]int, len(positions[0]))
	for _, p := range positions[0] {
		best[p] = 0
	}

	for _, list := range positions[1:] {
		next := make(map[int]int, len(list))
		for _, p := range list {
			for prev, total := range best {
				gap := p - prev
				if gap < 1 || gap > window {
					continue
				}
				if cur, ok := next[p]; !ok || total+gap < cur {
					next[p] = total + gap
				}
			}
		}
		if len(next) == 0 {
			return 0, false
		}
		best = next
	}

	minTotal := -1
	for _, total := range best {
		if minTotal < 0 || total < minTotal {
			minTotal = total
		}
	}
	return minTotal, true
}

// Suggest returns canonical terms starting with the given prefix, in
// lexicographic order. The folded alias table is consulted so an ASCII
// prefix completes to diacritic spellings as well.
func (sn *Snapshot) Suggest(prefix string, limit int) []string {
	if prefix == "" || limit <= 0 {
		return nil
	}

	seen := make(map[string]bool)
	var out []string
	add := func(term string) {
		if !seen[term] {
			seen[term] = true
			out = append(out, term)
		}
	}

	for _, term := range keysWithPrefix(sn.termKeys, prefix) {
		add(term)
	}
	for _, folded := range keysWithPrefix(sn.aliasKeys, prefix) {
		for _, canonical := range sn.aliases[folded] {
			add(canonical)
		}
	}

	sort.Strings(out)
	if len(out) > limit {
		out = out[:limit]
	}
	return out
}
