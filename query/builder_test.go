package query

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kodeks/mevzu/analysis"
)

func newBuilder(t *testing.T, opts ...Option) *Builder {
	t.Helper()
	return NewBuilder(analysis.NewAnalyzer(), opts...)
}

func TestParseMode(t *testing.T) {
	assert.Equal(t, ModeExact, ParseMode("exact"))
	assert.Equal(t, ModePhrase, ParseMode("phrase"))
	assert.Equal(t, ModeSimple, ParseMode("simple"))
	assert.Equal(t, ModeComprehensive, ParseMode("comprehensive"))
	assert.Equal(t, ModeComprehensive, ParseMode("anything else"))
}

func TestBuildComprehensive(t *testing.T) {
	b := newBuilder(t)
	q := b.Build("mükellefi", ModeComprehensive)
	require.Len(t, q.Terms, 1)

	term := q.Terms[0]
	assert.Equal(t, "mükellefi", term.Canonical)
	assert.Equal(t, "mukellefi", term.Folded)

	// Exact canonical, exact folded, prefix canonical, prefix folded.
	require.Len(t, term.Variants, 4)
	assert.Equal(t, Variant{Text: "mükellefi", Weight: 1.0}, term.Variants[0])
	assert.Equal(t, Variant{Text: "mukellefi", Weight: 0.9}, term.Variants[1])
	assert.True(t, term.Variants[2].Prefix)
	assert.True(t, term.Variants[3].Prefix)

	// Exact outweighs folded outweighs prefix branches.
	assert.Greater(t, term.Variants[0].Weight, term.Variants[1].Weight)
	assert.Greater(t, term.Variants[1].Weight, term.Variants[2].Weight)
	assert.Greater(t, term.Variants[2].Weight, term.Variants[3].Weight)
}

func TestBuildComprehensiveASCIIInput(t *testing.T) {
	// ASCII input has identical folded form: no duplicate variants.
	b := newBuilder(t)
	q := b.Build("beyanname", ModeComprehensive)
	require.Len(t, q.Terms, 1)
	require.Len(t, q.Terms[0].Variants, 2)
	assert.False(t, q.Terms[0].Variants[0].Prefix)
	assert.True(t, q.Terms[0].Variants[1].Prefix)
}

func TestBuildExact(t *testing.T) {
	b := newBuilder(t)
	q := b.Build("Gelir Vergisi", ModeExact)
	require.Len(t, q.Terms, 2)
	for _, term := range q.Terms {
		for _, v := range term.Variants {
			assert.False(t, v.Prefix)
		}
	}
}

func TestBuildPhrase(t *testing.T) {
	b := newBuilder(t, WithPhraseWindow(5))
	q := b.Build("gelir vergisi", ModePhrase)
	assert.Equal(t, 5, q.PhraseWindow)
	require.Len(t, q.Terms, 2)
	assert.Equal(t, "gelir", q.Terms[0].Canonical)
	assert.Equal(t, "vergisi", q.Terms[1].Canonical)
}

func TestBuildSimple(t *testing.T) {
	b := newBuilder(t)
	q := b.Build("beyannam", ModeSimple)
	require.Len(t, q.Terms, 1)
	for _, v := range q.Terms[0].Variants {
		assert.True(t, v.Prefix)
	}
}

func TestBuildSemanticTextPassesThrough(t *testing.T) {
	b := newBuilder(t)
	q := b.Build("Mükellefin BEYANNAME yükümlülüğü!", ModeComprehensive)
	// Normalized, but no boolean structure.
	assert.Equal(t, "mükellefin beyanname yükümlülüğü", q.SemanticText)
}

func TestBuildEmptyQuery(t *testing.T) {
	b := newBuilder(t)

	for _, input := range []string{"", "   ", "?!.,;"} {
		q := b.Build(input, ModeComprehensive)
		assert.True(t, q.Empty(), "input %q", input)
	}
}

func TestBuildExpandedTermsDeduplicated(t *testing.T) {
	b := newBuilder(t)
	q := b.Build("vergi vergi", ModeComprehensive)
	assert.Len(t, q.Terms, 2)
	assert.Equal(t, []string{"vergi"}, q.Expanded)
}
