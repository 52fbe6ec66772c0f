package lexical

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kodeks/mevzu/analysis"
	"github.com/kodeks/mevzu/core"
	"github.com/kodeks/mevzu/query"
)

var testAnalyzer = analysis.NewAnalyzer()

func makeArticle(t *testing.T, docID, no, content string) *core.Article {
	t.Helper()
	n := testAnalyzer.Normalize(content)
	return &core.Article{
		Id:            core.ArticleID(docID, no),
		DocumentID:    docID,
		ArticleNo:     no,
		ContentRaw:    content,
		ContentNorm:   n.Canonical,
		ContentFolded: n.Folded,
		ContentHash:   core.IDFromContent(content),
	}
}

func buildSnapshot(t *testing.T, articles ...*core.Article) *Snapshot {
	t.Helper()
	staging := NewStaging()
	for _, a := range articles {
		staging.Add(a)
	}
	return staging.Build()
}

func buildQuery(text string, mode query.Mode, opts ...query.Option) query.Query {
	return query.NewBuilder(testAnalyzer, opts...).Build(text, mode)
}

func TestSearchExactMatch(t *testing.T) {
	a1 := makeArticle(t, "193-GVK", "1", "Gerçek kişilerin gelirleri gelir vergisine tabidir.")
	a2 := makeArticle(t, "193-GVK", "2", "Kurumların kazançları kurumlar vergisine tabidir.")
	snap := buildSnapshot(t, a1, a2)

	got := snap.Search(buildQuery("gelir", query.ModeExact), 10)
	require.Len(t, got, 1)
	assert.Equal(t, a1.Id, got[0].ArticleId)
	assert.Greater(t, got[0].Score, 0.0)
}

func TestSearchTurkishFold(t *testing.T) {
	a := makeArticle(t, "193-GVK", "85", "Mükellefin beyanname verme yükümlülüğü")
	snap := buildSnapshot(t, a)

	// ASCII-folded query with no caller-side normalization.
	got := snap.Search(buildQuery("mukellefin", query.ModeComprehensive), 10)
	require.Len(t, got, 1)
	assert.Equal(t, a.Id, got[0].ArticleId)

	// The diacritic spelling finds the same postings.
	got2 := snap.Search(buildQuery("mükellefin", query.ModeComprehensive), 10)
	require.Len(t, got2, 1)
	assert.Equal(t, a.Id, got2[0].ArticleId)
}

func TestSearchFoldedAliasSharesPostings(t *testing.T) {
	a := makeArticle(t, "d", "1", "mükellef hakları saklıdır")
	snap := buildSnapshot(t, a)

	// Both spellings resolve to the same postings list and score
	// identically; the alias table holds no duplicate postings.
	exact := snap.Search(buildQuery("mükellef", query.ModeExact), 10)
	folded := snap.Search(buildQuery("mukellef", query.ModeExact), 10)
	require.Len(t, exact, 1)
	require.Len(t, folded, 1)
	assert.Equal(t, exact[0].Score, folded[0].Score)
}

func TestSearchPrefix(t *testing.T) {
	a1 := makeArticle(t, "d", "1", "beyanname verilmesi zorunludur")
	a2 := makeArticle(t, "d", "2", "bildirim süresi otuz gündür")
	snap := buildSnapshot(t, a1, a2)

	got := snap.Search(buildQuery("beyan", query.ModeSimple), 10)
	require.Len(t, got, 1)
	assert.Equal(t, a1.Id, got[0].ArticleId)
}

func TestSearchPhraseAdjacencyRanksHigher(t *testing.T) {
	adjacent := makeArticle(t, "d", "1", "Bu kanun gelir vergisi hükümlerini düzenler.")
	apart := makeArticle(t, "d", "2",
		"Gelir elde eden kişiler bakımından uygulanacak olan ve matraha bağlı hesaplanan vergisi tutarları saklıdır.")
	snap := buildSnapshot(t, adjacent, apart)

	// Window wide enough that both articles qualify.
	q := buildQuery("gelir vergisi", query.ModePhrase, query.WithPhraseWindow(12))
	got := snap.Search(q, 10)
	require.Len(t, got, 2)
	assert.Equal(t, adjacent.Id, got[0].ArticleId)
	assert.Greater(t, got[0].Score, got[1].Score)
}

func TestSearchPhraseWindowExcludes(t *testing.T) {
	apart := makeArticle(t, "d", "2",
		"Gelir elde eden kişiler bakımından uygulanacak olan ve matraha bağlı hesaplanan vergisi tutarları saklıdır.")
	snap := buildSnapshot(t, apart)

	q := buildQuery("gelir vergisi", query.ModePhrase) // default window
	assert.Empty(t, snap.Search(q, 10))
}

func TestSearchPhraseRequiresOrder(t *testing.T) {
	reversed := makeArticle(t, "d", "1", "vergisi gelir denmez")
	snap := buildSnapshot(t, reversed)

	q := buildQuery("gelir vergisi", query.ModePhrase)
	assert.Empty(t, snap.Search(q, 10))
}

func TestSearchTieBreakDeterministic(t *testing.T) {
	// Same single-term tf in both, longer article loses.
	short := makeArticle(t, "d", "1", "vergi ödenir")
	long := makeArticle(t, "d", "2", "vergi her yıl beyan üzerine tarh olunur")
	snap := buildSnapshot(t, short, long)

	for i := 0; i < 5; i++ {
		got := snap.Search(buildQuery("vergi", query.ModeExact), 10)
		require.Len(t, got, 2)
		assert.Equal(t, short.Id, got[0].ArticleId)
		assert.Equal(t, long.Id, got[1].ArticleId)
	}
}

func TestSearchIntersectionModes(t *testing.T) {
	both := makeArticle(t, "d", "1", "gelir vergisi beyannamesi verilir")
	one := makeArticle(t, "d", "2", "gelir elde edilir")
	snap := buildSnapshot(t, both, one)

	t.Run("exact requires all terms", func(t *testing.T) {
		got := snap.Search(buildQuery("gelir beyannamesi", query.ModeExact), 10)
		require.Len(t, got, 1)
		assert.Equal(t, both.Id, got[0].ArticleId)
	})

	t.Run("comprehensive is a union", func(t *testing.T) {
		got := snap.Search(buildQuery("gelir beyannamesi", query.ModeComprehensive), 10)
		assert.Len(t, got, 2)
	})
}

func TestSearchEmptyCases(t *testing.T) {
	snap := buildSnapshot(t)
	assert.Empty(t, snap.Search(buildQuery("vergi", query.ModeExact), 10))

	populated := buildSnapshot(t, makeArticle(t, "d", "1", "vergi"))
	assert.Empty(t, populated.Search(buildQuery("", query.ModeComprehensive), 10))
	assert.Empty(t, populated.Search(buildQuery("vergi", query.ModeExact), 0))
}

func TestStagingRemove(t *testing.T) {
	a := makeArticle(t, "d", "1", "vergi ödenir")
	staging := NewStaging()
	staging.Add(a)
	require.True(t, staging.Contains(a.Id))

	staging.Remove(a.Id)
	assert.False(t, staging.Contains(a.Id))

	snap := staging.Build()
	assert.Zero(t, snap.Len())
	assert.Empty(t, snap.Search(buildQuery("vergi", query.ModeExact), 10))
}

func TestStagingInvisibleUntilBuild(t *testing.T) {
	staging := NewStaging()
	snap := staging.Build()

	staging.Add(makeArticle(t, "d", "1", "vergi ödenir"))

	// The already-built snapshot must not see the staged article.
	assert.Empty(t, snap.Search(buildQuery("vergi", query.ModeExact), 10))
	assert.Zero(t, snap.Len())

	rebuilt := staging.Build()
	assert.Equal(t, 1, rebuilt.Len())
}

func TestSuggest(t *testing.T) {
	snap := buildSnapshot(t,
		makeArticle(t, "d", "1", "mükellef beyanname verir"),
		makeArticle(t, "d", "2", "beyan süresi uzatılabilir"),
	)

	t.Run("prefix lookup", func(t *testing.T) {
		got := snap.Suggest("beyan", 10)
		assert.Equal(t, []string{"beyan", "beyanname"}, got)
	})

	t.Run("ascii prefix reaches diacritic terms", func(t *testing.T) {
		got := snap.Suggest("mukel", 10)
		assert.Equal(t, []string{"mükellef"}, got)
	})

	t.Run("limit", func(t *testing.T) {
		got := snap.Suggest("beyan", 1)
		assert.Len(t, got, 1)
	})

	t.Run("empty prefix", func(t *testing.T) {
		assert.Empty(t, snap.Suggest("", 10))
	})
}
