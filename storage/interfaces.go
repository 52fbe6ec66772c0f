package storage

import (
	"context"

	"github.com/kodeks/mevzu/core"
)

// Repository provides common operations shared across all repositories.
// Implementations must be thread-safe and support concurrent access.
type Repository interface {
	// WithTransaction executes a function within a transaction.
	// If fn returns an error, the transaction is rolled back.
	// If fn returns nil, the transaction is committed.
	WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error

	// Close closes the repository and releases resources.
	Close() error
}

// ArticleRepository provides durable storage for article records.
type ArticleRepository interface {
	Repository

	// PutArticles inserts or replaces articles. Article ids derive
	// from (DocumentID, ArticleNo), so re-putting the same article is
	// an update. InsertedAt is preserved on update; UpdatedAt is set.
	// Returns the records with timestamps populated.
	PutArticles(ctx context.Context, articles ...*core.Article) ([]*core.Article, error)

	// DeleteArticles removes articles by their ids, including their
	// document index entries. Returns ErrNotFound if any article
	// doesn't exist.
	DeleteArticles(ctx context.Context, ids ...core.ID) error

	// GetArticle retrieves a single article by id.
	// Returns ErrNotFound if the article doesn't exist.
	GetArticle(ctx context.Context, id core.ID) (*core.Article, error)

	// GetArticles retrieves multiple articles by their ids. Returns
	// only the articles that exist (no error for missing ones).
	GetArticles(ctx context.Context, ids ...core.ID) ([]*core.Article, error)

	// GetArticlesByDocument retrieves all articles of a document,
	// ordered by position.
	GetArticlesByDocument(ctx context.Context, documentID string) ([]*core.Article, error)

	// ScanArticles streams every stored article to fn. Used for warm
	// starts and rebuilds. Iteration stops on the first error fn
	// returns.
	ScanArticles(ctx context.Context, fn func(*core.Article) error) error

	// CountArticles returns the number of stored articles.
	CountArticles(ctx context.Context) (int, error)
}

// VectorRepository provides durable storage for embedding vectors.
type VectorRepository interface {
	Repository

	// PutVectors inserts or replaces vectors keyed by article id.
	PutVectors(ctx context.Context, vectors ...*core.EmbeddingVector) error

	// DeleteVectors removes vectors by article id. Missing vectors are
	// not an error: an article may never have been vectorized.
	DeleteVectors(ctx context.Context, ids ...core.ID) error

	// GetVector retrieves the vector for an article.
	// Returns ErrNotFound if no vector is stored.
	GetVector(ctx context.Context, id core.ID) (*core.EmbeddingVector, error)

	// ScanVectors streams every stored vector to fn. Iteration stops
	// on the first error fn returns.
	ScanVectors(ctx context.Context, fn func(*core.EmbeddingVector) error) error
}

// ManifestStore persists the index manifest written at each publish.
type ManifestStore interface {
	// SaveManifest stores the manifest, replacing any previous one.
	SaveManifest(ctx context.Context, manifest *core.Manifest) error

	// LoadManifest retrieves the stored manifest.
	// Returns ErrNotFound if no manifest has been saved.
	LoadManifest(ctx context.Context) (*core.Manifest, error)
}
