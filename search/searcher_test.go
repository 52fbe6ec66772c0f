package search

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kodeks/mevzu/core"
	"github.com/kodeks/mevzu/indexer"
	"github.com/kodeks/mevzu/storage/badger"
)

func newTestManager(t *testing.T) *indexer.Manager {
	t.Helper()
	articles, vectors, manifests, backend, err := badger.NewMemoryRepositories()
	require.NoError(t, err)
	t.Cleanup(func() { backend.Close() })

	m, err := indexer.NewManager(articles, vectors, manifests)
	require.NoError(t, err)
	t.Cleanup(func() { m.Close() })
	return m
}

func testArticle(docID, articleNo, docType, content string, position int) *core.Article {
	return &core.Article{
		DocumentID:   docID,
		ArticleNo:    articleNo,
		DocumentType: docType,
		ContentRaw:   content,
		Position:     position,
	}
}

// seedCorpus indexes a small legislation sample and publishes. With
// rebuild set the vectorizer is trained so both backends serve.
func seedCorpus(t *testing.T, m *indexer.Manager, rebuild bool) {
	t.Helper()
	ctx := context.Background()
	require.NoError(t, m.IndexArticles(ctx,
		testArticle("5237", "1", core.DocTypeKanun,
			"Ceza kanununun amacı kişi hak ve özgürlüklerini korumaktır", 1),
		testArticle("213", "3", core.DocTypeKanun,
			"Vergi kanunları lafzı ve ruhu ile hüküm ifade eder", 1),
		testArticle("213", "10", core.DocTypeKanun,
			"Mükellefler vergi matrahı için beyanname vermek zorundadır", 2),
		testArticle("Y-2024-1", "4", core.DocTypeYonetmelik,
			"Bu yönetmelik vergi dairelerinin çalışma usullerini düzenler", 1),
	))
	if rebuild {
		require.NoError(t, m.Rebuild(ctx))
	} else {
		require.NoError(t, m.Publish(ctx))
	}
}

// recordingMonitor captures the search stages for assertions.
type recordingMonitor struct {
	lexicalCalls  int
	semanticCalls int
	unavailable   []string
	finished      int
}

func (r *recordingMonitor) Start(_ string)                         {}
func (r *recordingMonitor) AfterLexicalSearch(_ []core.Candidate)  { r.lexicalCalls++ }
func (r *recordingMonitor) AfterSemanticSearch(_ []core.Candidate) { r.semanticCalls++ }
func (r *recordingMonitor) SemanticUnavailable(reason string) {
	r.unavailable = append(r.unavailable, reason)
}
func (r *recordingMonitor) HybridHit(_ *core.SearchResult)   {}
func (r *recordingMonitor) LexicalHit(_ *core.SearchResult)  {}
func (r *recordingMonitor) SemanticHit(_ *core.SearchResult) {}
func (r *recordingMonitor) Finish(_ []*core.SearchResult)    { r.finished++ }

func TestNewSearcherRequiresProvider(t *testing.T) {
	_, err := NewSearcher(nil)
	assert.ErrorIs(t, err, ErrSnapshotProviderRequired)
}

func TestSearchEmptyQueryYieldsEmptyResults(t *testing.T) {
	m := newTestManager(t)
	seedCorpus(t, m, false)
	s, err := NewSearcher(m)
	require.NoError(t, err)

	for _, text := range []string{"", "   ", "?!."} {
		results, err := s.Search(context.Background(), text, nil)
		require.NoError(t, err)
		assert.Empty(t, results, "query %q", text)
	}
}

func TestSearchEmptyCorpus(t *testing.T) {
	m := newTestManager(t)
	s, err := NewSearcher(m)
	require.NoError(t, err)

	results, err := s.Search(context.Background(), "vergi beyannamesi", nil)
	require.NoError(t, err)
	assert.Empty(t, results)
}

func TestSearchLexicalOnlyFusedWeight(t *testing.T) {
	m := newTestManager(t)
	seedCorpus(t, m, false) // no rebuild, no vectorizer
	s, err := NewSearcher(m)
	require.NoError(t, err)

	results, err := s.Search(context.Background(), "beyanname", nil)
	require.NoError(t, err)
	require.Len(t, results, 1)

	r := results[0]
	assert.Equal(t, "213", r.DocumentID)
	assert.Equal(t, "10", r.ArticleNo)
	assert.Equal(t, core.MatchLexical, r.Match)
	// Single lexical candidate normalizes to 1, one-sided fusion
	// applies only the lexical weight.
	assert.InDelta(t, 1.0, r.LexicalScore, 1e-9)
	assert.Zero(t, r.SemanticScore)
	assert.InDelta(t, 0.6, r.FusedScore, 1e-9)
	assert.NotEmpty(t, r.Highlights)
}

func TestSearchHybridAfterRebuild(t *testing.T) {
	m := newTestManager(t)
	seedCorpus(t, m, true)
	s, err := NewSearcher(m)
	require.NoError(t, err)

	results, err := s.Search(context.Background(), "beyanname", nil)
	require.NoError(t, err)
	require.NotEmpty(t, results)

	r := results[0]
	assert.Equal(t, "10", r.ArticleNo)
	assert.Equal(t, core.MatchHybrid, r.Match)
	// Sole candidate on both sides: both normalized scores are 1 and
	// the fused score is the full weight sum.
	assert.InDelta(t, 1.0, r.FusedScore, 1e-9)
}

func TestSearchHighlightsPointIntoRawContent(t *testing.T) {
	m := newTestManager(t)
	seedCorpus(t, m, false)
	s, err := NewSearcher(m)
	require.NoError(t, err)

	results, err := s.Search(context.Background(), "beyanname", nil)
	require.NoError(t, err)
	require.Len(t, results, 1)

	raw := results[0].ContentRaw
	require.NotEmpty(t, results[0].Highlights)
	for _, span := range results[0].Highlights {
		require.Less(t, span.Start, span.End)
		require.LessOrEqual(t, span.End, len(raw))
		assert.Equal(t, "beyanname", raw[span.Start:span.End])
	}
}

func TestSearchTombstonedArticleExcluded(t *testing.T) {
	m := newTestManager(t)
	seedCorpus(t, m, false)
	s, err := NewSearcher(m)
	require.NoError(t, err)
	ctx := context.Background()

	results, err := s.Search(ctx, "beyanname", nil)
	require.NoError(t, err)
	require.Len(t, results, 1)
	id := results[0].ArticleId

	// Tombstoned: gone from results before the next publish.
	require.NoError(t, m.RemoveArticles(ctx, id))
	results, err = s.Search(ctx, "beyanname", nil)
	require.NoError(t, err)
	assert.Empty(t, results)

	// Still gone after the removal is published.
	require.NoError(t, m.Publish(ctx))
	results, err = s.Search(ctx, "beyanname", nil)
	require.NoError(t, err)
	assert.Empty(t, results)
}

func TestSearchDocumentFilters(t *testing.T) {
	m := newTestManager(t)
	seedCorpus(t, m, false)
	s, err := NewSearcher(m)
	require.NoError(t, err)
	ctx := context.Background()

	all, err := s.Search(ctx, "vergi", nil)
	require.NoError(t, err)
	require.Greater(t, len(all), 1)

	byDoc, err := s.Search(ctx, "vergi", &Options{
		Filters: Filters{DocumentIDs: []string{"213"}},
	})
	require.NoError(t, err)
	require.NotEmpty(t, byDoc)
	for _, r := range byDoc {
		assert.Equal(t, "213", r.DocumentID)
	}

	byType, err := s.Search(ctx, "vergi", &Options{
		Filters: Filters{DocumentTypes: []string{core.DocTypeYonetmelik}},
	})
	require.NoError(t, err)
	require.NotEmpty(t, byType)
	for _, r := range byType {
		assert.Equal(t, core.DocTypeYonetmelik, r.DocumentType)
	}
}

func TestSearchRepealedExcludedByDefault(t *testing.T) {
	m := newTestManager(t)
	ctx := context.Background()

	repealed := testArticle("1086", "7", core.DocTypeKanun,
		"Mülga hükümler beyanname usulüne dairdir", 1)
	repealed.Repealed = true
	require.NoError(t, m.IndexArticles(ctx, repealed))
	require.NoError(t, m.Publish(ctx))

	s, err := NewSearcher(m)
	require.NoError(t, err)

	results, err := s.Search(ctx, "beyanname", nil)
	require.NoError(t, err)
	assert.Empty(t, results)

	results, err = s.Search(ctx, "beyanname", &Options{
		Filters: Filters{IncludeRepealed: true},
	})
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "1086", results[0].DocumentID)
}

func TestSearchMinScoreThreshold(t *testing.T) {
	m := newTestManager(t)
	seedCorpus(t, m, false)
	s, err := NewSearcher(m)
	require.NoError(t, err)

	// Lexical-only results cap at the lexical weight.
	results, err := s.Search(context.Background(), "beyanname", &Options{MinScore: 0.9})
	require.NoError(t, err)
	assert.Empty(t, results)
}

func TestSearchLimit(t *testing.T) {
	m := newTestManager(t)
	seedCorpus(t, m, false)
	s, err := NewSearcher(m)
	require.NoError(t, err)

	results, err := s.Search(context.Background(), "vergi", &Options{Limit: 1})
	require.NoError(t, err)
	assert.Len(t, results, 1)
}

func TestSearchDeterministicOrdering(t *testing.T) {
	m := newTestManager(t)
	seedCorpus(t, m, true)
	s, err := NewSearcher(m)
	require.NoError(t, err)

	first, err := s.Search(context.Background(), "vergi", nil)
	require.NoError(t, err)
	require.NotEmpty(t, first)

	for range 5 {
		again, err := s.Search(context.Background(), "vergi", nil)
		require.NoError(t, err)
		require.Len(t, again, len(first))
		for i := range first {
			assert.Equal(t, first[i].ArticleId, again[i].ArticleId)
			assert.Equal(t, first[i].FusedScore, again[i].FusedScore)
		}
	}
}

func TestSearchCachesWithinSnapshot(t *testing.T) {
	m := newTestManager(t)
	seedCorpus(t, m, false)
	s, err := NewSearcher(m)
	require.NoError(t, err)
	ctx := context.Background()

	monitor := &recordingMonitor{}
	opts := &Options{Monitor: monitor}

	_, err = s.Search(ctx, "vergi", opts)
	require.NoError(t, err)
	_, err = s.Search(ctx, "vergi", opts)
	require.NoError(t, err)

	// Second identical search is served from the cache: no backend call.
	assert.Equal(t, 1, monitor.lexicalCalls)
	assert.Equal(t, 2, monitor.finished)
}

func TestSearchCacheInvalidatedByPublish(t *testing.T) {
	m := newTestManager(t)
	seedCorpus(t, m, false)
	s, err := NewSearcher(m)
	require.NoError(t, err)
	ctx := context.Background()

	monitor := &recordingMonitor{}
	opts := &Options{Monitor: monitor}

	_, err = s.Search(ctx, "vergi", opts)
	require.NoError(t, err)

	require.NoError(t, m.IndexArticles(ctx,
		testArticle("6102", "11", core.DocTypeKanun,
			"Ticari işletme esnaf işletmesi sınırını aşan işletmedir", 1)))
	require.NoError(t, m.Publish(ctx))

	_, err = s.Search(ctx, "vergi", opts)
	require.NoError(t, err)
	assert.Equal(t, 2, monitor.lexicalCalls)
}

// failingVectorProvider wraps a manager but breaks query vectorization,
// as a failing embedding service would.
type failingVectorProvider struct {
	*indexer.Manager
}

func (p *failingVectorProvider) QueryVector(context.Context, string) ([]float32, error) {
	return nil, errors.New("embedding service unreachable")
}

func TestSearchDegradesWhenSemanticFails(t *testing.T) {
	m := newTestManager(t)
	seedCorpus(t, m, true) // vectors exist, so the semantic path is attempted

	s, err := NewSearcher(&failingVectorProvider{m})
	require.NoError(t, err)

	monitor := &recordingMonitor{}
	results, err := s.Search(context.Background(), "beyanname", &Options{Monitor: monitor})
	require.NoError(t, err)

	require.Len(t, results, 1)
	assert.Equal(t, core.MatchLexical, results[0].Match)
	require.Len(t, monitor.unavailable, 1)
	assert.Contains(t, monitor.unavailable[0], "unreachable")
	assert.Zero(t, monitor.semanticCalls)
}

// stalledVectorProvider wraps a manager but never answers query
// vectorization, ignoring the deadline like a wedged embedding service.
type stalledVectorProvider struct {
	*indexer.Manager
	release chan struct{}
}

func (p *stalledVectorProvider) QueryVector(context.Context, string) ([]float32, error) {
	<-p.release
	return nil, nil
}

func TestSearchExcludesStalledSemanticBackend(t *testing.T) {
	m := newTestManager(t)
	seedCorpus(t, m, true) // vectors exist, so the semantic path is attempted

	provider := &stalledVectorProvider{Manager: m, release: make(chan struct{})}
	defer close(provider.release)

	s, err := NewSearcher(provider, WithBackendTimeout(50*time.Millisecond))
	require.NoError(t, err)

	monitor := &recordingMonitor{}
	start := time.Now()
	results, err := s.Search(context.Background(), "beyanname", &Options{Monitor: monitor})
	require.NoError(t, err)

	assert.Less(t, time.Since(start), time.Second, "a stalled backend must not stall the search")
	require.NotEmpty(t, results)
	for _, r := range results {
		assert.Equal(t, core.MatchLexical, r.Match)
	}
	require.Len(t, monitor.unavailable, 1)
	assert.Contains(t, monitor.unavailable[0], "deadline")
}

func TestSearchFusionWeightOptions(t *testing.T) {
	m := newTestManager(t)
	seedCorpus(t, m, true)

	s, err := NewSearcher(m, WithFusionWeights(1, 0))
	require.NoError(t, err)

	results, err := s.Search(context.Background(), "beyanname", nil)
	require.NoError(t, err)
	require.NotEmpty(t, results)
	for _, r := range results {
		assert.Equal(t, r.LexicalScore, r.FusedScore, "semantic weight zero leaves only lexical evidence")
	}

	_, err = NewSearcher(m, WithFusionWeights(-0.5, 0.5))
	assert.ErrorIs(t, err, ErrInvalidFusionWeights)
	_, err = NewSearcher(m, WithFusionWeights(0, 0))
	assert.ErrorIs(t, err, ErrInvalidFusionWeights)
}

func TestSearchHighlightCapOption(t *testing.T) {
	m := newTestManager(t)
	seedCorpus(t, m, false)

	capped, err := NewSearcher(m, WithHighlightCap(1))
	require.NoError(t, err)

	// "Vergi kanunları lafzı ve ruhu ile hüküm ifade eder" matches both
	// terms, so the uncapped searcher marks more than one span.
	full, err := NewSearcher(m)
	require.NoError(t, err)
	results, err := full.Search(context.Background(), "vergi hüküm", &Options{
		Filters: Filters{DocumentIDs: []string{"213"}},
	})
	require.NoError(t, err)
	require.NotEmpty(t, results)
	require.Greater(t, len(results[0].Highlights), 1)

	results, err = capped.Search(context.Background(), "vergi hüküm", &Options{
		Filters: Filters{DocumentIDs: []string{"213"}},
	})
	require.NoError(t, err)
	require.NotEmpty(t, results)
	for _, r := range results {
		assert.LessOrEqual(t, len(r.Highlights), 1)
	}

	_, err = NewSearcher(m, WithHighlightCap(0))
	assert.ErrorIs(t, err, ErrInvalidHighlightCap)
}

func TestSearchSemanticUnavailableWithoutVectors(t *testing.T) {
	m := newTestManager(t)
	seedCorpus(t, m, false)
	s, err := NewSearcher(m)
	require.NoError(t, err)

	monitor := &recordingMonitor{}
	_, err = s.Search(context.Background(), "vergi", &Options{Monitor: monitor})
	require.NoError(t, err)
	require.Len(t, monitor.unavailable, 1)
	assert.Contains(t, monitor.unavailable[0], "no vectors")
}
