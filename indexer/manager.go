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

package indexer

import (
	"context"
	"errors"
	"log/slog"
	"runtime"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"github.com/panjf2000/ants/v2"

	"github.com/kodeks/mevzu/analysis"
	"github.com/kodeks/mevzu/core"
	"github.com/kodeks/mevzu/lexical"
	"github.com/kodeks/mevzu/semantic"
	"github.com/kodeks/mevzu/storage"
)

const (
	defaultBatchSize      = 256
	defaultMaxRetries     = 3
	defaultRetryBaseDelay = 200 * time.Millisecond
)

// VectorizerFactory builds a vectorizer over the live corpus at a new
// vocabulary generation. The default factory trains the corpus TF-IDF
// vectorizer; deployments with an external embedder use a fixed
// vectorizer instead.
type VectorizerFactory func(articles []*core.Article, gen uint64) (semantic.Vectorizer, error)

// vectorizerBox wraps the active vectorizer so it can sit behind an
// atomic pointer. Query vectorization reads it lock-free and is never
// held up by an indexing batch in flight.
type vectorizerBox struct {
	v semantic.Vectorizer
}

// Manager owns all index mutations. Readers obtain immutable snapshots
// via Current and are never blocked by writers.
type Manager struct {
	mu    sync.Mutex
	state atomic.Int32

	current atomic.Pointer[Snapshot]
	version uint64

	analyzer *analysis.Analyzer
	freq     *analysis.FrequencyTable

	articles map[core.ID]*core.Article

	tombMu     sync.RWMutex
	tombstones map[core.ID]struct{}

	lexStaging *lexical.Staging
	semStaging *semantic.Staging
	vectorizer semantic.Vectorizer
	activeVec  atomic.Pointer[vectorizerBox]
	factory    VectorizerFactory

	articleRepo storage.ArticleRepository
	vectorRepo  storage.VectorRepository
	manifests   storage.ManifestStore

	pool   *ants.Pool
	logger *slog.Logger

	batchSize         int
	pendingSinceFlush int
	maxRetries        int
	retryBaseDelay    time.Duration

	semanticDisabledLogged bool
	closed                 bool
}

// Option configures a Manager.
type Option func(*Manager) error

// WithBatchSize sets how many staged mutations accumulate before an
// automatic publish. Default is 256.
func WithBatchSize(n int) Option {
	return func(m *Manager) error {
		if n < 1 {
			n = 1
		}
		m.batchSize = n
		return nil
	}
}

// WithPoolSize sets the vectorization worker pool size.
// Default is runtime.NumCPU() / 2, with a minimum of 1.
func WithPoolSize(size int) Option {
	return func(m *Manager) error {
		if size < 1 {
			size = 1
		}
		if m.pool != nil {
			m.pool.Release()
		}
		pool, err := ants.NewPool(size)
		if err != nil {
			return err
		}
		m.pool = pool
		return nil
	}
}

// WithLogger sets a custom logger. Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(m *Manager) error {
		if logger == nil {
			logger = slog.Default()
		}
		m.logger = logger
		return nil
	}
}

// WithVectorizer fixes the vectorizer, typically an external embedder
// adapter. Disables the TF-IDF factory.
func WithVectorizer(v semantic.Vectorizer) Option {
	return func(m *Manager) error {
		m.vectorizer = v
		m.factory = nil
		return nil
	}
}

// WithVectorizerFactory replaces the default TF-IDF factory.
func WithVectorizerFactory(f VectorizerFactory) Option {
	return func(m *Manager) error {
		m.factory = f
		return nil
	}
}

// WithRetryPolicy sets the retry policy for vectorization calls and
// durable staging writes.
func WithRetryPolicy(maxRetries int, baseDelay time.Duration) Option {
	return func(m *Manager) error {
		if maxRetries < 1 {
			return ErrInvalidMaxAttempts
		}
		m.maxRetries = maxRetries
		m.retryBaseDelay = baseDelay
		return nil
	}
}

// NewManager creates an index manager over the given repositories.
// The manager starts with an empty published snapshot; use WarmStart
// to restore a persisted corpus.
func NewManager(articleRepo storage.ArticleRepository, vectorRepo storage.VectorRepository, manifests storage.ManifestStore, opts ...Option) (*Manager, error) {
	if articleRepo == nil {
		return nil, ErrArticleRepositoryRequired
	}
	if vectorRepo == nil {
		return nil, ErrVectorRepositoryRequired
	}
	if manifests == nil {
		return nil, ErrManifestStoreRequired
	}

	poolSize := runtime.NumCPU() / 2
	if poolSize < 1 {
		poolSize = 1
	}
	pool, err := ants.NewPool(poolSize)
	if err != nil {
		return nil, err
	}

	m := &Manager{
		analyzer:       analysis.NewAnalyzer(),
		freq:           analysis.NewFrequencyTable(),
		articles:       make(map[core.ID]*core.Article),
		tombstones:     make(map[core.ID]struct{}),
		lexStaging:     lexical.NewStaging(),
		semStaging:     semantic.NewStaging(0),
		articleRepo:    articleRepo,
		vectorRepo:     vectorRepo,
		manifests:      manifests,
		pool:           pool,
		logger:         slog.Default().With("component", "index-manager"),
		batchSize:      defaultBatchSize,
		maxRetries:     defaultMaxRetries,
		retryBaseDelay: defaultRetryBaseDelay,
		factory: func(articles []*core.Article, gen uint64) (semantic.Vectorizer, error) {
			return semantic.TrainVectorizer(articles, gen, nil)
		},
	}

	for _, opt := range opts {
		if optErr := opt(m); optErr != nil {
			m.pool.Release()
			return nil, optErr
		}
	}

	if m.vectorizer != nil {
		m.semStaging = semantic.NewStaging(m.vectorizer.VocabGen())
	}
	m.activeVec.Store(&vectorizerBox{v: m.vectorizer})

	// Publish the empty snapshot so searches never see a nil pointer.
	m.current.Store(newSnapshot(0, m.semStaging.Gen(), m.lexStaging.Build(), m.semStaging.Build(), map[core.ID]*core.Article{}))

	return m, nil
}

// Current returns the published snapshot. Never nil.
func (m *Manager) Current() *Snapshot {
	return m.current.Load()
}

// State reports the lifecycle state.
func (m *Manager) State() State {
	return State(m.state.Load())
}

// IsDeleted reports whether the article is tombstoned: still present
// in the published snapshot but awaiting removal at the next publish.
func (m *Manager) IsDeleted(id core.ID) bool {
	m.tombMu.RLock()
	defer m.tombMu.RUnlock()
	_, ok := m.tombstones[id]
	return ok
}

// QueryVector vectorizes query text with the active vectorizer, the
// same one that produced the stored vectors. Returns nil and no error
// when no vectorizer is available: the caller treats that as semantic
// search being disabled.
func (m *Manager) QueryVector(ctx context.Context, text string) ([]float32, error) {
	box := m.activeVec.Load()
	if box == nil || box.v == nil {
		return nil, nil
	}
	return box.v.Vectorize(ctx, text)
}

// Frequencies returns an immutable copy of the corpus frequency table.
func (m *Manager) Frequencies() *analysis.FrequencyTable {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.freq.Snapshot()
}

// IndexArticles validates, persists, and stages articles. Derived
// fields (id, normalized forms, content hash) are filled in here;
// callers supply identity and raw content. Re-indexing an article
// whose content hash is unchanged is a no-op.
//
// Staged articles become searchable at the next publish, which happens
// automatically once enough mutations accumulate.
//
// A failed manager rejects all mutations with ErrRebuildRequired until
// an explicit Rebuild recovers it.
func (m *Manager) IndexArticles(ctx context.Context, articles ...*core.Article) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return ErrManagerClosed
	}
	if m.State() == StateFailed {
		return ErrRebuildRequired
	}
	if m.State() == StateRebuilding {
		return ErrRebuildInProgress
	}
	m.state.Store(int32(StateIndexing))
	defer m.restoreIdle()

	fresh := make([]*core.Article, 0, len(articles))
	for _, article := range articles {
		if err := core.ValidateArticle(article); err != nil {
			return err
		}
		m.prepare(article)

		if old, ok := m.articles[article.Id]; ok && old.ContentHash == article.ContentHash && !m.IsDeleted(article.Id) {
			continue
		}
		fresh = append(fresh, article)
	}
	if len(fresh) == 0 {
		return nil
	}

	if err := m.retryWrite(ctx, func() error {
		_, putErr := m.articleRepo.PutArticles(ctx, fresh...)
		return putErr
	}); err != nil {
		return err
	}

	for _, article := range fresh {
		if old, ok := m.articles[article.Id]; ok {
			m.freq.RemoveDocument(m.lexStaging.UniqueTerms(old.Id))
		}
		m.articles[article.Id] = article
		m.lexStaging.Add(article)
		m.freq.AddDocument(m.lexStaging.UniqueTerms(article.Id))

		m.tombMu.Lock()
		delete(m.tombstones, article.Id)
		m.tombMu.Unlock()
	}

	if err := m.stageVectors(ctx, fresh); err != nil {
		m.markFailed(err)
		return err
	}

	m.pendingSinceFlush += len(fresh)
	if m.pendingSinceFlush >= m.batchSize {
		return m.publishLocked(ctx)
	}
	return nil
}

// RemoveArticles tombstones articles and deletes them from durable
// storage. Unknown ids are ignored. Tombstoned articles disappear from
// search results immediately and from the snapshot at the next publish.
func (m *Manager) RemoveArticles(ctx context.Context, ids ...core.ID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return ErrManagerClosed
	}
	if m.State() == StateFailed {
		return ErrRebuildRequired
	}
	if m.State() == StateRebuilding {
		return ErrRebuildInProgress
	}
	m.state.Store(int32(StateIndexing))
	defer m.restoreIdle()

	var removed int
	for _, id := range ids {
		if _, ok := m.articles[id]; !ok {
			continue
		}

		m.freq.RemoveDocument(m.lexStaging.UniqueTerms(id))
		m.lexStaging.Remove(id)
		m.semStaging.Remove(id)
		delete(m.articles, id)

		m.tombMu.Lock()
		m.tombstones[id] = struct{}{}
		m.tombMu.Unlock()

		if err := m.retryWrite(ctx, func() error {
			if delErr := m.articleRepo.DeleteArticles(ctx, id); delErr != nil && !errors.Is(delErr, storage.ErrNotFound) {
				return delErr
			}
			return nil
		}); err != nil {
			return err
		}
		if err := m.retryWrite(ctx, func() error {
			return m.vectorRepo.DeleteVectors(ctx, id)
		}); err != nil {
			return err
		}
		removed++
	}

	m.pendingSinceFlush += removed
	if m.pendingSinceFlush >= m.batchSize {
		return m.publishLocked(ctx)
	}
	return nil
}

// Publish swaps the staged state in as the new immutable snapshot.
func (m *Manager) Publish(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return ErrManagerClosed
	}
	if m.State() == StateFailed {
		return ErrRebuildRequired
	}
	return m.publishLocked(ctx)
}

// Rebuild retrains the vectorizer over the live corpus at a new
// vocabulary generation, re-vectorizes every article, reconstructs
// both staging areas from scratch, and publishes. It is the recovery
// path for ErrVocabularyDrift and the way vocabulary growth reaches
// older articles.
func (m *Manager) Rebuild(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return ErrManagerClosed
	}
	return m.rebuildLocked(ctx)
}

// rebuildLocked is Rebuild's body for callers already holding mu.
func (m *Manager) rebuildLocked(ctx context.Context) error {
	m.state.Store(int32(StateRebuilding))

	live := m.liveArticles()

	// Reconstruct the lexical side from the live records. After a
	// failure this discards any half-staged state.
	m.lexStaging = lexical.NewStaging()
	m.freq = analysis.NewFrequencyTable()
	for _, article := range live {
		m.lexStaging.Add(article)
		m.freq.AddDocument(m.lexStaging.UniqueTerms(article.Id))
	}

	gen := m.semStaging.Gen() + 1
	if m.factory != nil {
		if len(live) == 0 {
			m.setVectorizer(nil)
		} else {
			v, err := m.factory(live, gen)
			if err != nil {
				m.state.Store(int32(StateFailed))
				return err
			}
			m.setVectorizer(v)
			gen = v.VocabGen()
		}
	} else if m.vectorizer != nil {
		gen = m.vectorizer.VocabGen()
	}

	m.semStaging = semantic.NewStaging(gen)
	if err := m.stageVectors(ctx, live); err != nil {
		m.state.Store(int32(StateFailed))
		return err
	}

	if err := m.publishLocked(ctx); err != nil {
		return err
	}
	m.logger.Info("rebuild complete", "articles", len(live), "vocabGen", gen)
	return nil
}

// WarmStart restores the in-memory indexes from durable storage and
// publishes. With a TF-IDF factory the vectorizer is retrained and all
// vectors recomputed locally; with a fixed external vectorizer, stored
// vectors from the manifest's generation are loaded instead so the
// embedding service is not re-queried.
func (m *Manager) WarmStart(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return ErrManagerClosed
	}
	m.state.Store(int32(StateRebuilding))
	defer m.restoreIdle()

	manifest, err := m.manifests.LoadManifest(ctx)
	if err != nil && !errors.Is(err, storage.ErrNotFound) {
		m.state.Store(int32(StateFailed))
		return err
	}

	m.articles = make(map[core.ID]*core.Article)
	m.lexStaging = lexical.NewStaging()
	m.freq = analysis.NewFrequencyTable()
	err = m.articleRepo.ScanArticles(ctx, func(article *core.Article) error {
		m.articles[article.Id] = article
		m.lexStaging.Add(article)
		m.freq.AddDocument(m.lexStaging.UniqueTerms(article.Id))
		return nil
	})
	if err != nil {
		m.state.Store(int32(StateFailed))
		return err
	}

	if manifest != nil {
		m.version = manifest.Version
	}

	if m.factory != nil {
		m.state.Store(int32(StateIdle))
		if len(m.articles) == 0 {
			return m.publishLocked(ctx)
		}
		return m.rebuildLocked(ctx)
	}

	// External vectorizer: reuse persisted vectors.
	gen := m.semStaging.Gen()
	if m.vectorizer != nil {
		gen = m.vectorizer.VocabGen()
	} else if manifest != nil {
		gen = manifest.VocabGen
	}
	m.semStaging = semantic.NewStaging(gen)

	var skipped int
	err = m.vectorRepo.ScanVectors(ctx, func(vector *core.EmbeddingVector) error {
		if vector.VocabGen != gen {
			skipped++
			return nil
		}
		if _, ok := m.articles[vector.ArticleId]; !ok {
			return nil
		}
		return m.semStaging.Add(*vector)
	})
	if err != nil {
		m.state.Store(int32(StateFailed))
		return err
	}
	if skipped > 0 {
		m.logger.Warn("skipped stale vectors during warm start", "count", skipped, "vocabGen", gen)
	}

	m.state.Store(int32(StateIdle))
	return m.publishLocked(ctx)
}

// Close releases the worker pool. The last published snapshot stays
// readable.
func (m *Manager) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return nil
	}
	m.closed = true
	m.pool.Release()
	return nil
}

func (m *Manager) restoreIdle() {
	if m.State() != StateFailed {
		m.state.Store(int32(StateIdle))
	}
}

// setVectorizer swaps the staging vectorizer together with its
// lock-free query copy. Callers hold mu.
func (m *Manager) setVectorizer(v semantic.Vectorizer) {
	m.vectorizer = v
	m.activeVec.Store(&vectorizerBox{v: v})
}

// markFailed moves the manager to StateFailed, the terminal state that
// only Rebuild leaves. The caller's own cancellation is not a fault
// and leaves the state alone.
func (m *Manager) markFailed(err error) {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return
	}
	m.state.Store(int32(StateFailed))
}

// retryWrite pushes a durable staging write through the retry policy.
// Exhausting the attempts is fatal for the manager.
func (m *Manager) retryWrite(ctx context.Context, op func() error) error {
	err := RetryWithBackoff(ctx, op, m.maxRetries, m.retryBaseDelay)
	if err != nil {
		m.markFailed(err)
	}
	return err
}

// prepare fills the derived fields of a validated article.
func (m *Manager) prepare(article *core.Article) {
	norm := m.analyzer.Normalize(article.ContentRaw)
	article.ContentNorm = norm.Canonical
	article.ContentFolded = norm.Folded
	article.Id = core.ArticleID(article.DocumentID, article.ArticleNo)
	article.ContentHash = core.IDFromContent(article.ContentRaw)
}

func (m *Manager) liveArticles() []*core.Article {
	live := make([]*core.Article, 0, len(m.articles))
	for _, article := range m.articles {
		live = append(live, article)
	}
	sort.Slice(live, func(i, j int) bool { return live[i].Id < live[j].Id })
	return live
}

// stageVectors vectorizes articles on the worker pool, persists the
// vectors, and stages them. With no vectorizer available the semantic
// side degrades to a no-op, logged once.
func (m *Manager) stageVectors(ctx context.Context, articles []*core.Article) error {
	if m.vectorizer == nil {
		if !m.semanticDisabledLogged {
			m.logger.Warn("no vectorizer available, semantic indexing disabled")
			m.semanticDisabledLogged = true
		}
		return nil
	}
	if len(articles) == 0 {
		return nil
	}

	vectors := make([]*core.EmbeddingVector, len(articles))
	errs := make([]error, len(articles))
	var wg sync.WaitGroup

	for i, article := range articles {
		wg.Add(1)
		i, article := i, article
		submitErr := m.pool.Submit(func() {
			defer wg.Done()
			var values []float32
			err := RetryWithBackoff(ctx, func() error {
				var verr error
				values, verr = m.vectorizer.Vectorize(ctx, article.ContentNorm)
				return verr
			}, m.maxRetries, m.retryBaseDelay)
			if err != nil {
				errs[i] = err
				return
			}
			vectors[i] = &core.EmbeddingVector{
				ArticleId: article.Id,
				VocabGen:  m.vectorizer.VocabGen(),
				Values:    values,
			}
		})
		if submitErr != nil {
			wg.Done()
			errs[i] = submitErr
		}
	}
	wg.Wait()

	for _, err := range errs {
		if err != nil {
			return err
		}
	}

	persist := make([]*core.EmbeddingVector, 0, len(vectors))
	for _, vector := range vectors {
		if err := m.semStaging.Add(*vector); err != nil {
			return err
		}
		if len(vector.Values) > 0 {
			persist = append(persist, vector)
		}
	}
	if len(persist) > 0 {
		if err := m.retryWrite(ctx, func() error {
			return m.vectorRepo.PutVectors(ctx, persist...)
		}); err != nil {
			return err
		}
	}
	return nil
}

// publishLocked swaps in a new snapshot. Callers hold mu.
func (m *Manager) publishLocked(ctx context.Context) error {
	m.state.Store(int32(StatePublishing))

	if m.vectorizer != nil && m.semStaging.Gen() != m.vectorizer.VocabGen() {
		m.state.Store(int32(StateFailed))
		m.logger.Error("publish aborted",
			"err", ErrVocabularyDrift,
			"stagingGen", m.semStaging.Gen(),
			"vectorizerGen", m.vectorizer.VocabGen())
		return ErrVocabularyDrift
	}

	articles := make(map[core.ID]*core.Article, len(m.articles))
	for id, article := range m.articles {
		articles[id] = article
	}

	m.version++
	snapshot := newSnapshot(m.version, m.semStaging.Gen(), m.lexStaging.Build(), m.semStaging.Build(), articles)

	if err := m.manifests.SaveManifest(ctx, &snapshot.Manifest); err != nil {
		m.version--
		m.state.Store(int32(StateFailed))
		return err
	}

	m.current.Store(snapshot)

	m.tombMu.Lock()
	m.tombstones = make(map[core.ID]struct{})
	m.tombMu.Unlock()

	m.pendingSinceFlush = 0
	m.state.Store(int32(StateIdle))
	m.logger.Debug("snapshot published",
		"version", snapshot.Manifest.Version,
		"articles", snapshot.Len(),
		"vocabGen", snapshot.Manifest.VocabGen)
	return nil
}
