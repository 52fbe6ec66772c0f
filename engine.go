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

package mevzu

import (
	"context"
	"log/slog"

	"github.com/kodeks/mevzu/core"
	"github.com/kodeks/mevzu/embed"
	"github.com/kodeks/mevzu/embed/openai"
	"github.com/kodeks/mevzu/indexer"
	"github.com/kodeks/mevzu/query"
	"github.com/kodeks/mevzu/search"
	"github.com/kodeks/mevzu/storage"
	"github.com/kodeks/mevzu/storage/badger"
)

// Document is one legal document handed over by an ingestion
// collaborator: clean article texts in document order.
type Document struct {
	ID       string
	Type     string // KANUN, YONETMELIK, ... (core.DocType* constants)
	Articles []DocumentArticle
}

// DocumentArticle is one article of a Document. Position within the
// document follows slice order.
type DocumentArticle struct {
	No       string
	Text     string
	Repealed bool
}

// Engine is the top-level facade: one Badger-backed store, one index
// manager owning the write path, one searcher over the published
// snapshots.
type Engine struct {
	backend      *badger.Backend
	articleRepo  storage.ArticleRepository
	vectorRepo   storage.VectorRepository
	manifests    storage.ManifestStore
	manager      *indexer.Manager
	searcher     *search.Searcher
	logger       *slog.Logger
	defaultMode  query.Mode
	defaultLimit int
	minScore     float64
}

// EngineOption configures an Engine.
type EngineOption func(*engineOptions)

type engineOptions struct {
	inMemory     bool
	logger       *slog.Logger
	embedConfig  *embed.Config
	batchSize    int
	defaultMode  query.Mode
	defaultLimit int
	minScore     float64
	lexWeight    float64
	semWeight    float64
	weightsSet   bool
	highlightCap int
}

// WithInMemory keeps all storage in memory. Used by tests and
// throwaway corpora.
func WithInMemory() EngineOption {
	return func(o *engineOptions) { o.inMemory = true }
}

// WithEngineLogger sets a custom logger. Default is slog.Default().
func WithEngineLogger(logger *slog.Logger) EngineOption {
	return func(o *engineOptions) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// WithEmbedder routes semantic vectorization to an OpenAI-compatible
// embedding service instead of the built-in corpus TF-IDF vectorizer.
func WithEmbedder(config *embed.Config) EngineOption {
	return func(o *engineOptions) { o.embedConfig = config }
}

// WithBatchThreshold overrides the number of staged articles that
// triggers an automatic publish.
func WithBatchThreshold(n int) EngineOption {
	return func(o *engineOptions) {
		if n > 0 {
			o.batchSize = n
		}
	}
}

// WithDefaultMode sets the query mode used when a search does not
// specify one. Default is comprehensive.
func WithDefaultMode(mode query.Mode) EngineOption {
	return func(o *engineOptions) { o.defaultMode = mode }
}

// WithDefaultLimit sets the result count used when a search does not
// specify one.
func WithDefaultLimit(limit int) EngineOption {
	return func(o *engineOptions) {
		if limit > 0 {
			o.defaultLimit = limit
		}
	}
}

// WithMinScore sets a fused-score floor applied to every search.
func WithMinScore(score float64) EngineOption {
	return func(o *engineOptions) {
		if score > 0 {
			o.minScore = score
		}
	}
}

// WithFusionWeights sets the lexical and semantic weights for hybrid
// ranking. Defaults are 0.6 and 0.4.
func WithFusionWeights(lexical, semantic float64) EngineOption {
	return func(o *engineOptions) {
		o.lexWeight = lexical
		o.semWeight = semantic
		o.weightsSet = true
	}
}

// WithHighlightCap sets the maximum highlight spans per result.
// Default is 50.
func WithHighlightCap(n int) EngineOption {
	return func(o *engineOptions) { o.highlightCap = n }
}

// NewEngine opens the store at filePath, restores the serving snapshot
// from it, and wires the index manager and searcher. An unreachable
// embedding service is a logged degradation: the engine still opens
// and serves lexical-only results.
func NewEngine(filePath string, opts ...EngineOption) (*Engine, error) {
	options := &engineOptions{
		logger:       slog.Default(),
		defaultLimit: 10,
	}
	for _, opt := range opts {
		opt(options)
	}

	backend, err := badger.OpenBackend(filePath, options.inMemory)
	if err != nil {
		return nil, err
	}

	articleRepo, err := badger.NewArticleRepository(backend)
	if err != nil {
		backend.Close()
		return nil, err
	}
	vectorRepo, err := badger.NewVectorRepository(backend)
	if err != nil {
		backend.Close()
		return nil, err
	}
	manifests, err := badger.NewManifestStore(backend)
	if err != nil {
		backend.Close()
		return nil, err
	}

	managerOpts := []indexer.Option{indexer.WithLogger(options.logger)}
	if options.batchSize > 0 {
		managerOpts = append(managerOpts, indexer.WithBatchSize(options.batchSize))
	}
	if options.embedConfig != nil {
		embedder, err := openai.NewEmbedder(options.embedConfig)
		if err != nil {
			// Semantic path degrades, lexical search still serves.
			options.logger.Warn("embedding service unavailable, serving lexical-only", "err", err)
		} else {
			vectorizer := embed.NewVectorizer(embedder, 1, options.embedConfig.Dimension)
			managerOpts = append(managerOpts, indexer.WithVectorizer(vectorizer))
		}
	}

	manager, err := indexer.NewManager(articleRepo, vectorRepo, manifests, managerOpts...)
	if err != nil {
		backend.Close()
		return nil, err
	}

	if err := manager.WarmStart(context.Background()); err != nil {
		manager.Close()
		backend.Close()
		return nil, err
	}

	searchOpts := []search.Option{search.WithLogger(options.logger)}
	if options.weightsSet {
		searchOpts = append(searchOpts, search.WithFusionWeights(options.lexWeight, options.semWeight))
	}
	if options.highlightCap > 0 {
		searchOpts = append(searchOpts, search.WithHighlightCap(options.highlightCap))
	}

	searcher, err := search.NewSearcher(manager, searchOpts...)
	if err != nil {
		manager.Close()
		backend.Close()
		return nil, err
	}

	return &Engine{
		backend:      backend,
		articleRepo:  articleRepo,
		vectorRepo:   vectorRepo,
		manifests:    manifests,
		manager:      manager,
		searcher:     searcher,
		logger:       options.logger,
		defaultMode:  options.defaultMode,
		defaultLimit: options.defaultLimit,
		minScore:     options.minScore,
	}, nil
}

// IndexDocument stages every article of the document. Articles whose
// content is unchanged since the last ingestion are skipped. Staged
// articles become searchable at the next publish.
func (e *Engine) IndexDocument(ctx context.Context, doc Document) error {
	articles := make([]*core.Article, 0, len(doc.Articles))
	for i, da := range doc.Articles {
		articles = append(articles, &core.Article{
			DocumentID:   doc.ID,
			ArticleNo:    da.No,
			DocumentType: doc.Type,
			ContentRaw:   da.Text,
			Position:     i + 1,
			Repealed:     da.Repealed,
		})
	}
	return e.manager.IndexArticles(ctx, articles...)
}

// RemoveDocument tombstones every article of the document. The
// articles disappear from results immediately and from the snapshot at
// the next publish. Removing an unknown document is a no-op.
func (e *Engine) RemoveDocument(ctx context.Context, documentID string) error {
	articles, err := e.articleRepo.GetArticlesByDocument(ctx, documentID)
	if err != nil {
		return err
	}
	if len(articles) == 0 {
		return nil
	}
	ids := make([]core.ID, len(articles))
	for i, a := range articles {
		ids[i] = a.Id
	}
	return e.manager.RemoveArticles(ctx, ids...)
}

// Search runs a hybrid search with the engine's defaults filled into
// unset options. ModeComprehensive is the zero Mode and reads as
// unset, so it falls back to the engine's default mode. A zero
// MinScore falls back to the engine's floor; a negative MinScore
// disables the floor for that one search.
func (e *Engine) Search(ctx context.Context, text string, opts *search.Options) ([]*core.SearchResult, error) {
	merged := search.Options{
		Mode:     e.defaultMode,
		Limit:    e.defaultLimit,
		MinScore: e.minScore,
	}
	if opts != nil {
		merged = *opts
		if merged.Mode == query.ModeComprehensive {
			merged.Mode = e.defaultMode
		}
		if merged.Limit <= 0 {
			merged.Limit = e.defaultLimit
		}
		if merged.MinScore < 0 {
			merged.MinScore = 0
		} else if merged.MinScore == 0 {
			merged.MinScore = e.minScore
		}
	}
	return e.searcher.Search(ctx, text, &merged)
}

// Suggestions returns up to limit indexed terms starting with the
// prefix, from the published snapshot only.
func (e *Engine) Suggestions(prefix string, limit int) []string {
	snapshot := e.manager.Current()
	if snapshot == nil || snapshot.Lexical == nil {
		return nil
	}
	return snapshot.Lexical.Suggest(prefix, limit)
}

// Flush publishes staged changes as a new snapshot.
func (e *Engine) Flush(ctx context.Context) error {
	return e.manager.Publish(ctx)
}

// RebuildIndex re-derives both indexes from the stored article set at
// a new vocabulary generation. It is the recovery path after
// vocabulary drift or a failed publish.
func (e *Engine) RebuildIndex(ctx context.Context) error {
	return e.manager.Rebuild(ctx)
}

// Manager exposes the index lifecycle for callers needing state
// inspection or fine-grained control.
func (e *Engine) Manager() *indexer.Manager {
	return e.manager
}

// Close releases the index manager and the underlying store.
func (e *Engine) Close() error {
	if err := e.manager.Close(); err != nil {
		e.logger.Error("error closing index manager", "err", err)
	}
	if err := e.backend.Close(); err != nil {
		e.logger.Error("error closing storage backend", "err", err)
		return err
	}
	return nil
}
