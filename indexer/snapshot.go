package indexer

import (
	"time"

	"github.com/kodeks/mevzu/core"
	"github.com/kodeks/mevzu/lexical"
	"github.com/kodeks/mevzu/semantic"
)

// Snapshot is an immutable, internally consistent bundle of both
// indexes plus the article records they were built from. A search
// request resolves against exactly one snapshot from start to finish.
type Snapshot struct {
	Manifest core.Manifest
	Lexical  *lexical.Snapshot
	Semantic *semantic.Snapshot

	articles map[core.ID]*core.Article
}

func newSnapshot(version, vocabGen uint64, lex *lexical.Snapshot, sem *semantic.Snapshot, articles map[core.ID]*core.Article) *Snapshot {
	return &Snapshot{
		Manifest: core.Manifest{
			Version:      version,
			VocabGen:     vocabGen,
			ArticleCount: uint64(len(articles)),
			CreatedAt:    time.Now().UTC(),
		},
		Lexical:  lex,
		Semantic: sem,
		articles: articles,
	}
}

// Article returns the stored record for an indexed article.
func (s *Snapshot) Article(id core.ID) (*core.Article, bool) {
	if s == nil {
		return nil, false
	}
	a, ok := s.articles[id]
	return a, ok
}

// Len returns the number of articles in the snapshot.
func (s *Snapshot) Len() int {
	if s == nil {
		return 0
	}
	return len(s.articles)
}

// Version returns the snapshot's publish version.
func (s *Snapshot) Version() uint64 {
	if s == nil {
		return 0
	}
	return s.Manifest.Version
}
