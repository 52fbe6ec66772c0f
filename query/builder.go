package query

import (
	"github.com/kodeks/mevzu/analysis"
)

// Mode selects how the lexical side of a query is constructed.
type Mode int

const (
	// ModeComprehensive ORs exact, prefix and ASCII-folded variants of
	// every token. The default.
	ModeComprehensive Mode = iota
	// ModeExact requires full-token matches.
	ModeExact
	// ModePhrase requires adjacent-token matches within the window.
	ModePhrase
	// ModeSimple emits only prefix queries, for interactive typing.
	ModeSimple
)

// String returns the mode name as accepted by ParseMode.
func (m Mode) String() string {
	switch m {
	case ModeExact:
		return "exact"
	case ModePhrase:
		return "phrase"
	case ModeSimple:
		return "simple"
	default:
		return "comprehensive"
	}
}

// ParseMode maps a mode name to its Mode. Unknown names fall back to
// ModeComprehensive.
func ParseMode(s string) Mode {
	switch s {
	case "exact":
		return ModeExact
	case "phrase":
		return ModePhrase
	case "simple":
		return ModeSimple
	default:
		return ModeComprehensive
	}
}

// Match weights per variant kind. An exact canonical hit outweighs its
// folded alternate, which outweighs prefix expansions.
const (
	weightExact        = 1.0
	weightFolded       = 0.9
	weightPrefix       = 0.7
	weightFoldedPrefix = 0.6
)

// minPrefixLength is the shortest token that gets a prefix variant.
// Shorter tokens match exactly only, to keep postings scans bounded.
const minPrefixLength = 3

// defaultPhraseWindow is the maximum token gap phrase mode tolerates.
const defaultPhraseWindow = 3

// Variant is one OR-branch of a term lookup.
type Variant struct {
	Text   string
	Prefix bool    // trailing wildcard match
	Weight float64 // contribution multiplier for this branch
}

// Term is one normalized query token with its lookup variants.
type Term struct {
	Canonical string
	Folded    string
	Variants  []Variant
}

// Query is the retrieval-ready form of one user query.
type Query struct {
	Raw          string
	Mode         Mode
	Terms        []Term   // ordered as typed
	Expanded     []string // deduplicated variant texts, used for highlighting
	PhraseWindow int      // max gap between adjacent phrase tokens
	SemanticText string   // canonical normalized text for the embedding path
}

// Empty reports whether no usable tokens survived normalization.
// An empty query yields an empty result set by contract.
func (q Query) Empty() bool {
	return len(q.Terms) == 0
}

// Builder constructs queries using the shared text analyzer.
type Builder struct {
	analyzer     *analysis.Analyzer
	phraseWindow int
}

// Option configures a Builder.
type Option func(*Builder)

// WithPhraseWindow overrides the adjacency window for phrase mode.
// Values below 1 are ignored.
func WithPhraseWindow(window int) Option {
	return func(b *Builder) {
		if window >= 1 {
			b.phraseWindow = window
		}
	}
}

// NewBuilder creates a query builder on top of the analyzer.
func NewBuilder(analyzer *analysis.Analyzer, opts ...Option) *Builder {
	b := &Builder{
		analyzer:     analyzer,
		phraseWindow: defaultPhraseWindow,
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Build normalizes the query text and expands it for the given mode.
// The semantic side always receives the canonical text unchanged.
func (b *Builder) Build(text string, mode Mode) Query {
	normalized := b.analyzer.Normalize(text)

	q := Query{
		Raw:          text,
		Mode:         mode,
		PhraseWindow: b.phraseWindow,
		SemanticText: normalized.Canonical,
	}
	if normalized.Empty() {
		return q
	}

	seen := make(map[string]bool)
	for _, tok := range analysis.Tokenize(normalized.Canonical) {
		term := Term{
			Canonical: tok.Text,
			Folded:    analysis.Fold(tok.Text),
			Variants:  variantsFor(tok.Text, mode),
		}
		q.Terms = append(q.Terms, term)

		for _, v := range term.Variants {
			if !seen[v.Text] {
				seen[v.Text] = true
				q.Expanded = append(q.Expanded, v.Text)
			}
		}
	}
	return q
}

// variantsFor expands one canonical token according to the mode.
func variantsFor(canonical string, mode Mode) []Variant {
	folded := analysis.Fold(canonical)
	long := len([]rune(canonical)) >= minPrefixLength

	switch mode {
	case ModeExact, ModePhrase:
		variants := []Variant{{Text: canonical, Weight: weightExact}}
		if folded != canonical {
			variants = append(variants, Variant{Text: folded, Weight: weightFolded})
		}
		return variants

	case ModeSimple:
		if !long {
			return []Variant{{Text: canonical, Weight: weightExact}}
		}
		variants := []Variant{{Text: canonical, Prefix: true, Weight: weightPrefix}}
		if folded != canonical {
			variants = append(variants, Variant{Text: folded, Prefix: true, Weight: weightFoldedPrefix})
		}
		return variants

	default: // ModeComprehensive
		variants := []Variant{{Text: canonical, Weight: weightExact}}
		if folded != canonical {
			variants = append(variants, Variant{Text: folded, Weight: weightFolded})
		}
		if long {
			variants = append(variants, Variant{Text: canonical, Prefix: true, Weight: weightPrefix})
			if folded != canonical {
				variants = append(variants, Variant{Text: folded, Prefix: true, Weight: weightFoldedPrefix})
			}
		}
		return variants
	}
}
