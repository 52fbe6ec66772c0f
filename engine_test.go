package mevzu

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kodeks/mevzu/core"
	"github.com/kodeks/mevzu/indexer"
	"github.com/kodeks/mevzu/query"
	"github.com/kodeks/mevzu/search"
)

func newTestEngine(t *testing.T, opts ...EngineOption) *Engine {
	t.Helper()
	e, err := NewEngine("", append([]EngineOption{WithInMemory()}, opts...)...)
	require.NoError(t, err)
	t.Cleanup(func() { e.Close() })
	return e
}

func sampleDocument() Document {
	return Document{
		ID:   "213",
		Type: core.DocTypeKanun,
		Articles: []DocumentArticle{
			{No: "3", Text: "Vergi kanunları lafzı ve ruhu ile hüküm ifade eder"},
			{No: "10", Text: "Mükellefler vergi matrahı için beyanname vermek zorundadır"},
		},
	}
}

func TestNewEngine(t *testing.T) {
	t.Run("opens on disk", func(t *testing.T) {
		e, err := NewEngine(filepath.Join(t.TempDir(), "mevzu_db"))
		require.NoError(t, err)
		require.NotNil(t, e)
		defer e.Close()

		assert.NotNil(t, e.Manager())
		assert.Equal(t, indexer.StateIdle, e.Manager().State())
	})

	t.Run("opens in memory", func(t *testing.T) {
		e := newTestEngine(t)
		assert.NotNil(t, e.Manager())
	})
}

func TestEngineIndexAndSearch(t *testing.T) {
	e := newTestEngine(t)
	ctx := context.Background()

	require.NoError(t, e.IndexDocument(ctx, sampleDocument()))
	require.NoError(t, e.Flush(ctx))

	results, err := e.Search(ctx, "beyanname", nil)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "213", results[0].DocumentID)
	assert.Equal(t, "10", results[0].ArticleNo)
	assert.NotEmpty(t, results[0].Highlights)
}

func TestEngineTurkishFoldedQuery(t *testing.T) {
	e := newTestEngine(t)
	ctx := context.Background()

	require.NoError(t, e.IndexDocument(ctx, Document{
		ID:   "193",
		Type: core.DocTypeKanun,
		Articles: []DocumentArticle{
			{No: "1", Text: "Mükellefin beyanname verme yükümlülüğü"},
		},
	}))
	require.NoError(t, e.Flush(ctx))

	// ASCII-typed query must find the diacritic original.
	results, err := e.Search(ctx, "mukellefin", nil)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "193", results[0].DocumentID)
}

func TestEngineRemoveDocument(t *testing.T) {
	e := newTestEngine(t)
	ctx := context.Background()

	require.NoError(t, e.IndexDocument(ctx, sampleDocument()))
	require.NoError(t, e.Flush(ctx))

	require.NoError(t, e.RemoveDocument(ctx, "213"))
	results, err := e.Search(ctx, "beyanname", nil)
	require.NoError(t, err)
	assert.Empty(t, results)

	// Unknown document is a no-op.
	assert.NoError(t, e.RemoveDocument(ctx, "9999"))
}

func TestEngineRebuildEnablesSemantic(t *testing.T) {
	e := newTestEngine(t)
	ctx := context.Background()

	require.NoError(t, e.IndexDocument(ctx, sampleDocument()))
	require.NoError(t, e.RebuildIndex(ctx))

	results, err := e.Search(ctx, "beyanname", nil)
	require.NoError(t, err)
	require.NotEmpty(t, results)
	assert.Equal(t, core.MatchHybrid, results[0].Match)
	assert.Greater(t, results[0].SemanticScore, 0.0)
}

func TestEngineSuggestions(t *testing.T) {
	e := newTestEngine(t)
	ctx := context.Background()

	require.NoError(t, e.IndexDocument(ctx, sampleDocument()))

	// Staged only: nothing published yet beyond the empty snapshot.
	assert.Empty(t, e.Suggestions("bey", 5))

	require.NoError(t, e.Flush(ctx))
	suggestions := e.Suggestions("bey", 5)
	require.NotEmpty(t, suggestions)
	assert.Contains(t, suggestions, "beyanname")
}

func TestEngineSearchDefaults(t *testing.T) {
	e := newTestEngine(t, WithDefaultLimit(1), WithMinScore(0.99))
	ctx := context.Background()

	require.NoError(t, e.IndexDocument(ctx, sampleDocument()))
	require.NoError(t, e.Flush(ctx))

	// Lexical-only fused scores cap at 0.6, below the engine floor.
	results, err := e.Search(ctx, "vergi", nil)
	require.NoError(t, err)
	assert.Empty(t, results)

	// Explicit options override the defaults.
	results, err = e.Search(ctx, "vergi", &search.Options{Limit: 10, MinScore: 0.01})
	require.NoError(t, err)
	assert.NotEmpty(t, results)
}

func TestEngineDefaultModeApplied(t *testing.T) {
	ctx := context.Background()

	exact := newTestEngine(t, WithDefaultMode(query.ModeExact))
	require.NoError(t, exact.IndexDocument(ctx, sampleDocument()))
	require.NoError(t, exact.Flush(ctx))

	loose := newTestEngine(t)
	require.NoError(t, loose.IndexDocument(ctx, sampleDocument()))
	require.NoError(t, loose.Flush(ctx))

	// A truncated token only matches through prefix expansion, which
	// exact mode does not do. The default mode must hold even when the
	// caller passes options without a mode.
	results, err := loose.Search(ctx, "beyannam", &search.Options{Limit: 5})
	require.NoError(t, err)
	require.NotEmpty(t, results)

	results, err = exact.Search(ctx, "beyannam", &search.Options{Limit: 5})
	require.NoError(t, err)
	assert.Empty(t, results)
}

func TestEngineNegativeMinScoreDisablesFloor(t *testing.T) {
	e := newTestEngine(t, WithMinScore(0.99))
	ctx := context.Background()

	require.NoError(t, e.IndexDocument(ctx, sampleDocument()))
	require.NoError(t, e.Flush(ctx))

	results, err := e.Search(ctx, "vergi", nil)
	require.NoError(t, err)
	require.Empty(t, results)

	results, err = e.Search(ctx, "vergi", &search.Options{MinScore: -1})
	require.NoError(t, err)
	assert.NotEmpty(t, results)
}

func TestEngineFusionAndHighlightOptions(t *testing.T) {
	e := newTestEngine(t, WithFusionWeights(1, 0), WithHighlightCap(1))
	ctx := context.Background()

	require.NoError(t, e.IndexDocument(ctx, sampleDocument()))
	require.NoError(t, e.RebuildIndex(ctx))

	results, err := e.Search(ctx, "vergi hüküm", nil)
	require.NoError(t, err)
	require.NotEmpty(t, results)
	for _, r := range results {
		assert.Equal(t, r.LexicalScore, r.FusedScore, "semantic weight zero leaves only lexical evidence")
		assert.LessOrEqual(t, len(r.Highlights), 1)
	}
}

func TestEngineWarmStartRestoresCorpus(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "mevzu_db")
	ctx := context.Background()

	e, err := NewEngine(dir)
	require.NoError(t, err)
	require.NoError(t, e.IndexDocument(ctx, sampleDocument()))
	require.NoError(t, e.Flush(ctx))
	require.NoError(t, e.Close())

	reopened, err := NewEngine(dir)
	require.NoError(t, err)
	defer reopened.Close()

	results, err := reopened.Search(ctx, "beyanname", nil)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "213", results[0].DocumentID)
}
