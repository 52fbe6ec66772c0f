package lexical

import (
	"github.com/kodeks/mevzu/analysis"
	"github.com/kodeks/mevzu/core"
)

// stagedArticle is one article prepared for indexing: its token
// sequence over the canonical form plus the metadata scoring needs.
type stagedArticle struct {
	id         core.ID
	tokens     []string // canonical token sequence, in order
	tokenCount int
}

// Staging accumulates additions and removals invisible to queries.
// It is the authoritative set of live articles for the lexical side;
// Build derives an immutable Snapshot from it. Not safe for concurrent
// use; the indexer serializes writes.
type Staging struct {
	articles map[core.ID]*stagedArticle
}

// NewStaging creates an empty staging structure.
func NewStaging() *Staging {
	return &Staging{articles: make(map[core.ID]*stagedArticle)}
}

// Add stages an article. A previously staged article with the same ID
// is replaced.
func (s *Staging) Add(article *core.Article) {
	toks := analysis.Tokenize(article.ContentNorm)
	tokens := make([]string, len(toks))
	for i, t := range toks {
		tokens[i] = t.Text
	}
	s.articles[article.Id] = &stagedArticle{
		id:         article.Id,
		tokens:     tokens,
		tokenCount: len(tokens),
	}
}

// Remove tombstones an article; it will be absent from the next built
// snapshot. Removing an unknown ID is a no-op.
func (s *Staging) Remove(id core.ID) {
	delete(s.articles, id)
}

// Contains reports whether the article is currently staged.
func (s *Staging) Contains(id core.ID) bool {
	_, ok := s.articles[id]
	return ok
}

// Len reports the number of staged articles.
func (s *Staging) Len() int {
	return len(s.articles)
}

// Reset discards all staged state.
func (s *Staging) Reset() {
	s.articles = make(map[core.ID]*stagedArticle)
}

// UniqueTerms returns the distinct canonical terms of a staged article,
// used to maintain the corpus frequency table.
func (s *Staging) UniqueTerms(id core.ID) map[string]struct{} {
	a, ok := s.articles[id]
	if !ok {
		return nil
	}
	terms := make(map[string]struct{}, len(a.tokens))
	for _, t := range a.tokens {
		terms[t] = struct{}{}
	}
	return terms
}
