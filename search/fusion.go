package search

import (
	"sort"

	"github.com/kodeks/mevzu/core"
)

// Default fusion weights. Lexical evidence dominates: legal retrieval
// is citation-heavy and exact wording matters more than topical
// similarity.
const (
	defaultLexicalWeight  = 0.6
	defaultSemanticWeight = 0.4
)

// normalizeScores min-max normalizes candidate scores into [0, 1].
// A single candidate, or a list where all scores are equal, maps to 1.
func normalizeScores(candidates []core.Candidate) map[core.ID]float64 {
	if len(candidates) == 0 {
		return nil
	}
	lo, hi := candidates[0].Score, candidates[0].Score
	for _, c := range candidates[1:] {
		if c.Score < lo {
			lo = c.Score
		}
		if c.Score > hi {
			hi = c.Score
		}
	}

	out := make(map[core.ID]float64, len(candidates))
	span := hi - lo
	for _, c := range candidates {
		if span == 0 {
			out[c.ArticleId] = 1
			continue
		}
		out[c.ArticleId] = (c.Score - lo) / span
	}
	return out
}

// fusedResult pairs a fused score with the per-backend evidence.
type fusedResult struct {
	id       core.ID
	lexical  float64
	semantic float64
	fused    float64
	match    core.MatchType
}

// fuse combines normalized backend scores into one ranked list using
// the given weights. Articles found by both backends get the weighted
// sum and rank as hybrid matches; one-sided hits keep only their
// backend's weighted contribution. Ordering is deterministic: fused
// score descending, then lexical score descending, then article id
// ascending.
func fuse(lexical, semantic map[core.ID]float64, lexWeight, semWeight float64) []fusedResult {
	out := make([]fusedResult, 0, len(lexical)+len(semantic))

	for id, ls := range lexical {
		r := fusedResult{id: id, lexical: ls, match: core.MatchLexical}
		if ss, ok := semantic[id]; ok {
			r.semantic = ss
			r.match = core.MatchHybrid
			r.fused = lexWeight*ls + semWeight*ss
		} else {
			r.fused = lexWeight * ls
		}
		out = append(out, r)
	}
	for id, ss := range semantic {
		if _, ok := lexical[id]; ok {
			continue
		}
		out = append(out, fusedResult{
			id:       id,
			semantic: ss,
			fused:    semWeight * ss,
			match:    core.MatchSemantic,
		})
	}

	sort.Slice(out, func(i, j int) bool {
		if out[i].fused != out[j].fused {
			return out[i].fused > out[j].fused
		}
		if out[i].lexical != out[j].lexical {
			return out[i].lexical > out[j].lexical
		}
		return out[i].id < out[j].id
	})
	return out
}
