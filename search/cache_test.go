package search

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kodeks/mevzu/core"
	"github.com/kodeks/mevzu/query"
)

func cachedResults(ids ...core.ID) []*core.SearchResult {
	out := make([]*core.SearchResult, len(ids))
	for i, id := range ids {
		out[i] = &core.SearchResult{ArticleId: id}
	}
	return out
}

func TestResultCacheRoundTrip(t *testing.T) {
	c := newResultCache(8)

	_, ok := c.get(1, "k")
	assert.False(t, ok)

	c.put(1, "k", cachedResults(10, 11))
	got, ok := c.get(1, "k")
	require.True(t, ok)
	require.Len(t, got, 2)
	assert.Equal(t, core.ID(10), got[0].ArticleId)
}

func TestResultCacheReturnsCopy(t *testing.T) {
	c := newResultCache(8)
	c.put(1, "k", cachedResults(10, 11))

	got, ok := c.get(1, "k")
	require.True(t, ok)
	got[0] = nil // caller may mutate its slice

	again, ok := c.get(1, "k")
	require.True(t, ok)
	require.NotNil(t, again[0])
	assert.Equal(t, core.ID(10), again[0].ArticleId)
}

func TestResultCacheFlushesOnVersionChange(t *testing.T) {
	c := newResultCache(8)
	c.put(1, "k", cachedResults(10))

	// A newer snapshot version invalidates everything cached before it.
	c.put(2, "other", cachedResults(20))
	_, ok := c.get(1, "k")
	assert.False(t, ok)
	_, ok = c.get(2, "k")
	assert.False(t, ok)
	_, ok = c.get(2, "other")
	assert.True(t, ok)
}

func TestResultCacheFlushesWhenFull(t *testing.T) {
	c := newResultCache(2)
	c.put(1, "a", cachedResults(1))
	c.put(1, "b", cachedResults(2))
	c.put(1, "c", cachedResults(3))

	_, okA := c.get(1, "a")
	_, okB := c.get(1, "b")
	_, okC := c.get(1, "c")
	assert.False(t, okA)
	assert.False(t, okB)
	assert.True(t, okC)
}

func TestCacheKeyDistinguishesOptions(t *testing.T) {
	base := &Options{Limit: 10}
	keys := map[string]string{
		"base":     cacheKey("vergi", query.ModeComprehensive, base),
		"text":     cacheKey("ceza", query.ModeComprehensive, base),
		"mode":     cacheKey("vergi", query.ModeExact, base),
		"limit":    cacheKey("vergi", query.ModeComprehensive, &Options{Limit: 20}),
		"minscore": cacheKey("vergi", query.ModeComprehensive, &Options{Limit: 10, MinScore: 0.5}),
		"repealed": cacheKey("vergi", query.ModeComprehensive, &Options{Limit: 10, Filters: Filters{IncludeRepealed: true}}),
		"docs":     cacheKey("vergi", query.ModeComprehensive, &Options{Limit: 10, Filters: Filters{DocumentIDs: []string{"213"}}}),
		"types":    cacheKey("vergi", query.ModeComprehensive, &Options{Limit: 10, Filters: Filters{DocumentTypes: []string{core.DocTypeKanun}}}),
	}

	seen := make(map[string]string)
	for name, key := range keys {
		if prev, dup := seen[key]; dup {
			t.Fatalf("cache key collision between %s and %s", prev, name)
		}
		seen[key] = name
	}

	assert.Equal(t, keys["base"],
		cacheKey("vergi", query.ModeComprehensive, &Options{Limit: 10}))
}
