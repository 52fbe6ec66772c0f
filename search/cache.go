package search

import (
	"fmt"
	"strings"
	"sync"

	"github.com/kodeks/mevzu/core"
	"github.com/kodeks/mevzu/query"
)

const defaultCacheEntries = 512

// resultCache memoizes search results per snapshot version. Snapshots
// are immutable, so a (snapshot, query, options) triple always yields
// the same results; publishing a new snapshot invalidates everything
// at once.
type resultCache struct {
	mu         sync.Mutex
	version    uint64
	entries    map[string][]*core.SearchResult
	maxEntries int
}

func newResultCache(maxEntries int) *resultCache {
	if maxEntries < 1 {
		maxEntries = defaultCacheEntries
	}
	return &resultCache{
		entries:    make(map[string][]*core.SearchResult),
		maxEntries: maxEntries,
	}
}

func (c *resultCache) get(version uint64, key string) ([]*core.SearchResult, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.version != version {
		return nil, false
	}
	results, ok := c.entries[key]
	if !ok {
		return nil, false
	}
	out := make([]*core.SearchResult, len(results))
	copy(out, results)
	return out, true
}

func (c *resultCache) put(version uint64, key string, results []*core.SearchResult) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.version != version {
		c.version = version
		c.entries = make(map[string][]*core.SearchResult)
	}
	if len(c.entries) >= c.maxEntries {
		// Full flush beats bookkeeping an eviction order here: entries
		// are cheap to recompute and die at the next publish anyway.
		c.entries = make(map[string][]*core.SearchResult)
	}
	c.entries[key] = results
}

// cacheKey encodes everything that affects the result set.
func cacheKey(text string, mode query.Mode, opts *Options) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%d|%s|%d|%g|%t|", mode, text, opts.Limit, opts.MinScore, opts.Filters.IncludeRepealed)
	for _, id := range opts.Filters.DocumentIDs {
		b.WriteString(id)
		b.WriteByte(',')
	}
	b.WriteByte('|')
	for _, dt := range opts.Filters.DocumentTypes {
		b.WriteString(dt)
		b.WriteByte(',')
	}
	return b.String()
}
