// Copyright 2026 Kodeks Bilisim
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package search

import (
	"context"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/kodeks/mevzu/analysis"
	"github.com/kodeks/mevzu/core"
	"github.com/kodeks/mevzu/indexer"
	"github.com/kodeks/mevzu/query"
)

const (
	defaultLimit          = 10
	defaultBackendTimeout = 2 * time.Second

	// Backends overfetch so that tombstone and attribute filtering
	// still leaves enough candidates to fill the limit.
	overfetchFactor = 4
)

// SnapshotProvider hands out the current immutable index snapshot and
// the query-side services bound to it. *indexer.Manager implements it.
type SnapshotProvider interface {
	Current() *indexer.Snapshot
	IsDeleted(id core.ID) bool
	QueryVector(ctx context.Context, text string) ([]float32, error)
}

// Filters restricts a search to a subset of the corpus.
type Filters struct {
	// DocumentIDs limits results to the given documents. Empty means
	// all documents.
	DocumentIDs []string

	// DocumentTypes limits results to the given document types
	// (KANUN, YONETMELIK, ...). Empty means all types.
	DocumentTypes []string

	// IncludeRepealed includes repealed articles, which are excluded
	// by default.
	IncludeRepealed bool
}

// Options are per-search parameters.
type Options struct {
	// Mode selects query expansion. Default is ModeComprehensive.
	Mode query.Mode

	// Limit caps the number of results. Default is 10.
	Limit int

	// MinScore drops results with a fused score below the threshold.
	MinScore float64

	// Filters restricts the searched corpus.
	Filters Filters

	// Monitor observes the search stages. Nil means no monitoring.
	Monitor SearchMonitor
}

func (o *Options) withDefaults() Options {
	out := Options{Limit: defaultLimit}
	if o == nil {
		return out
	}
	out = *o
	if out.Limit <= 0 {
		out.Limit = defaultLimit
	}
	return out
}

// Searcher runs hybrid searches over published snapshots. It is safe
// for concurrent use.
type Searcher struct {
	provider       SnapshotProvider
	builder        *query.Builder
	cache          *resultCache
	backendTimeout time.Duration
	lexWeight      float64
	semWeight      float64
	highlightCap   int
	logger         *slog.Logger
}

// Option configures a Searcher.
type Option func(*Searcher) error

// WithLogger sets a custom logger. Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(s *Searcher) error {
		if logger == nil {
			logger = slog.Default()
		}
		s.logger = logger
		return nil
	}
}

// WithBackendTimeout bounds each retrieval backend. A backend that
// misses the deadline is excluded from fusion instead of failing the
// search. Default is 2s.
func WithBackendTimeout(d time.Duration) Option {
	return func(s *Searcher) error {
		if d > 0 {
			s.backendTimeout = d
		}
		return nil
	}
}

// WithFusionWeights sets the weights for combining lexical and
// semantic scores. Defaults are 0.6 and 0.4. Callers that want fused
// scores to stay within [0, 1] keep the weights summing to 1.
func WithFusionWeights(lexical, semantic float64) Option {
	return func(s *Searcher) error {
		if lexical < 0 || semantic < 0 || lexical+semantic == 0 {
			return ErrInvalidFusionWeights
		}
		s.lexWeight = lexical
		s.semWeight = semantic
		return nil
	}
}

// WithHighlightCap sets the maximum highlight spans per result.
// Default is 50.
func WithHighlightCap(n int) Option {
	return func(s *Searcher) error {
		if n < 1 {
			return ErrInvalidHighlightCap
		}
		s.highlightCap = n
		return nil
	}
}

// WithCacheSize sets the per-snapshot result cache capacity.
func WithCacheSize(entries int) Option {
	return func(s *Searcher) error {
		s.cache = newResultCache(entries)
		return nil
	}
}

// WithQueryBuilder replaces the default query builder.
func WithQueryBuilder(b *query.Builder) Option {
	return func(s *Searcher) error {
		if b != nil {
			s.builder = b
		}
		return nil
	}
}

// NewSearcher creates a searcher over the given snapshot provider.
func NewSearcher(provider SnapshotProvider, opts ...Option) (*Searcher, error) {
	if provider == nil {
		return nil, ErrSnapshotProviderRequired
	}

	s := &Searcher{
		provider:       provider,
		builder:        query.NewBuilder(analysis.NewAnalyzer()),
		cache:          newResultCache(defaultCacheEntries),
		backendTimeout: defaultBackendTimeout,
		lexWeight:      defaultLexicalWeight,
		semWeight:      defaultSemanticWeight,
		highlightCap:   defaultHighlightCap,
		logger:         slog.Default(),
	}
	for _, opt := range opts {
		if err := opt(s); err != nil {
			return nil, err
		}
	}
	return s, nil
}

// Search runs a hybrid search for the query text. The whole request
// resolves against one snapshot; results are ranked by fused score
// with deterministic tie-breaks and carry highlight offsets into the
// raw article text.
func (s *Searcher) Search(ctx context.Context, text string, opts *Options) ([]*core.SearchResult, error) {
	options := opts.withDefaults()
	monitor := options.Monitor
	if monitor == nil {
		monitor = &noopMonitor{}
	}
	monitor.Start(text)

	q := s.builder.Build(text, options.Mode)
	if q.Empty() {
		// Empty queries yield empty results by contract.
		results := []*core.SearchResult{}
		monitor.Finish(results)
		return results, nil
	}

	snapshot := s.provider.Current()

	key := cacheKey(q.Raw, q.Mode, &options)
	if cached, ok := s.cache.get(snapshot.Version(), key); ok {
		monitor.Finish(cached)
		return cached, nil
	}

	lexCands, semCands := s.retrieve(ctx, snapshot, q, options.Limit*overfetchFactor, monitor)

	results := s.assemble(snapshot, q, lexCands, semCands, &options, monitor)

	s.cache.put(snapshot.Version(), key, results)
	monitor.Finish(results)
	return results, nil
}

// retrieve runs both backends in parallel against the same snapshot,
// each under its own deadline. A backend that fails or misses the
// deadline is excluded from fusion; the search itself never fails.
func (s *Searcher) retrieve(ctx context.Context, snapshot *indexer.Snapshot, q query.Query, topK int, monitor SearchMonitor) (lexical, semantic []core.Candidate) {
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		lctx, cancel := context.WithTimeout(gctx, s.backendTimeout)
		defer cancel()

		done := make(chan []core.Candidate, 1)
		go func() { done <- snapshot.Lexical.Search(q, topK) }()

		select {
		case lexical = <-done:
			monitor.AfterLexicalSearch(lexical)
		case <-lctx.Done():
			s.logger.Warn("lexical backend excluded from fusion", "err", lctx.Err())
		}
		return nil
	})

	g.Go(func() error {
		if snapshot.Semantic.Len() == 0 {
			monitor.SemanticUnavailable("no vectors in snapshot")
			return nil
		}
		sctx, cancel := context.WithTimeout(gctx, s.backendTimeout)
		defer cancel()

		done := make(chan []core.Candidate, 1)
		unavailable := make(chan string, 1)
		go func() {
			vector, err := s.provider.QueryVector(sctx, q.SemanticText)
			if err != nil {
				unavailable <- err.Error()
				return
			}
			if len(vector) == 0 {
				unavailable <- "query has no vector"
				return
			}
			done <- snapshot.Semantic.Search(vector, topK)
		}()

		select {
		case semantic = <-done:
			monitor.AfterSemanticSearch(semantic)
		case reason := <-unavailable:
			s.logger.Warn("semantic backend excluded from fusion", "reason", reason)
			monitor.SemanticUnavailable(reason)
		case <-sctx.Done():
			s.logger.Warn("semantic backend excluded from fusion", "reason", sctx.Err())
			monitor.SemanticUnavailable(sctx.Err().Error())
		}
		return nil
	})

	// Backends never return errors; degradation is per-backend.
	_ = g.Wait()
	return lexical, semantic
}

// assemble fuses candidates, applies tombstones and filters, and
// builds the final results with highlights.
func (s *Searcher) assemble(snapshot *indexer.Snapshot, q query.Query, lexCands, semCands []core.Candidate, options *Options, monitor SearchMonitor) []*core.SearchResult {
	lexNorm := normalizeScores(lexCands)
	semNorm := normalizeScores(semCands)
	fused := fuse(lexNorm, semNorm, s.lexWeight, s.semWeight)

	wantDocs := toSet(options.Filters.DocumentIDs)
	wantTypes := toSet(options.Filters.DocumentTypes)

	results := make([]*core.SearchResult, 0, options.Limit)
	for _, f := range fused {
		if len(results) == options.Limit {
			break
		}
		if f.fused < options.MinScore {
			// fused is sorted descending, nothing below passes either.
			break
		}
		if s.provider.IsDeleted(f.id) {
			continue
		}
		article, ok := snapshot.Article(f.id)
		if !ok {
			continue
		}
		if article.Repealed && !options.Filters.IncludeRepealed {
			continue
		}
		if len(wantDocs) > 0 {
			if _, ok := wantDocs[article.DocumentID]; !ok {
				continue
			}
		}
		if len(wantTypes) > 0 {
			if _, ok := wantTypes[article.DocumentType]; !ok {
				continue
			}
		}

		result := &core.SearchResult{
			ArticleId:     article.Id,
			DocumentID:    article.DocumentID,
			ArticleNo:     article.ArticleNo,
			DocumentType:  article.DocumentType,
			ContentRaw:    article.ContentRaw,
			LexicalScore:  f.lexical,
			SemanticScore: f.semantic,
			FusedScore:    f.fused,
			Match:         f.match,
			Highlights:    highlightSpans(article.ContentRaw, q.Expanded, s.highlightCap),
		}

		switch f.match {
		case core.MatchHybrid:
			monitor.HybridHit(result)
		case core.MatchSemantic:
			monitor.SemanticHit(result)
		default:
			monitor.LexicalHit(result)
		}
		results = append(results, result)
	}
	return results
}

func toSet(values []string) map[string]struct{} {
	if len(values) == 0 {
		return nil
	}
	out := make(map[string]struct{}, len(values))
	for _, v := range values {
		out[v] = struct{}{}
	}
	return out
}
