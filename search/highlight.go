package search

import (
	"sort"
	"strings"

	"github.com/kodeks/mevzu/analysis"
	"github.com/kodeks/mevzu/core"
)

// defaultHighlightCap bounds the number of spans per article. Long
// articles matching a common term do not need hundreds of markers.
const defaultHighlightCap = 50

// highlightSpans finds byte ranges of raw article text that match any
// of the expanded query terms. Matching is fold-aware and containment
// based: a raw token matches when its folded form contains the folded
// query term. Offsets always index the original raw text, so callers
// can slice it directly. Overlapping or adjacent spans are merged.
func highlightSpans(raw string, terms []string, limit int) []core.HighlightSpan {
	if raw == "" || len(terms) == 0 || limit <= 0 {
		return nil
	}

	folded := make([]string, 0, len(terms))
	for _, term := range terms {
		f := analysis.Fold(term)
		if f != "" {
			folded = append(folded, f)
		}
	}
	if len(folded) == 0 {
		return nil
	}

	var spans []core.HighlightSpan
	for _, token := range analysis.Tokenize(raw) {
		tokenFolded := token.Folded()
		for _, term := range folded {
			if strings.Contains(tokenFolded, term) {
				spans = append(spans, core.HighlightSpan{Start: token.Start, End: token.End})
				break
			}
		}
	}

	spans = mergeSpans(spans)
	if len(spans) > limit {
		spans = spans[:limit]
	}
	return spans
}

// mergeSpans collapses overlapping or touching spans. Input order is
// ascending by Start since tokens are produced left to right.
func mergeSpans(spans []core.HighlightSpan) []core.HighlightSpan {
	if len(spans) < 2 {
		return spans
	}
	sort.Slice(spans, func(i, j int) bool { return spans[i].Start < spans[j].Start })

	out := spans[:1]
	for _, s := range spans[1:] {
		last := &out[len(out)-1]
		if s.Start <= last.End {
			if s.End > last.End {
				last.End = s.End
			}
			continue
		}
		out = append(out, s)
	}
	return out
}
