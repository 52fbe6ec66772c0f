package badger

import (
	"context"
	"time"

	"github.com/dgraph-io/badger/v4"

	"github.com/kodeks/mevzu/core"
	"github.com/kodeks/mevzu/storage"
)

// ArticleRepository implements storage.ArticleRepository for BadgerDB.
type ArticleRepository struct {
	backend *Backend
}

var _ storage.ArticleRepository = (*ArticleRepository)(nil)

// NewArticleRepository creates a new ArticleRepository.
func NewArticleRepository(backend *Backend) (*ArticleRepository, error) {
	return &ArticleRepository{backend: backend}, nil
}

// Close is a no-op: the repository holds no resources beyond the
// shared backend, which the caller closes.
func (r *ArticleRepository) Close() error {
	return nil
}

// WithTransaction delegates to the backend.
func (r *ArticleRepository) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return r.backend.WithTransaction(ctx, fn)
}

// PutArticles inserts or replaces articles.
func (r *ArticleRepository) PutArticles(ctx context.Context, articles ...*core.Article) ([]*core.Article, error) {
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		now := time.Now().UTC()
		for _, article := range articles {
			key := makeArticleKey(article.Id)

			old, err := r.readArticle(tx, key)
			if err != nil {
				return err
			}
			if old == nil {
				article.InsertedAt = now
			} else {
				article.InsertedAt = old.InsertedAt
			}
			article.UpdatedAt = now

			if err := tx.Set(key, storage.MarshalArticle(article)); err != nil {
				return err
			}

			// Refresh the document index entry when position or
			// document moved.
			if old != nil && (old.DocumentID != article.DocumentID || old.Position != article.Position) {
				oldDocKey := makeArticleDocKey(old.DocumentID, old.Position, old.Id)
				if err := tx.Delete(oldDocKey); err != nil {
					return err
				}
			}
			docKey := makeArticleDocKey(article.DocumentID, article.Position, article.Id)
			if err := tx.Set(docKey, storage.MarshalID(article.Id)); err != nil {
				return err
			}
		}
		return tx.Commit()
	}, true)

	return articles, err
}

// DeleteArticles removes articles by their IDs.
func (r *ArticleRepository) DeleteArticles(ctx context.Context, ids ...core.ID) error {
	return r.backend.WithTx(func(tx *badger.Txn) error {
		for _, id := range ids {
			key := makeArticleKey(id)

			article, err := r.readArticle(tx, key)
			if err != nil {
				return err
			}
			if article == nil {
				return storage.ErrNotFound
			}

			docKey := makeArticleDocKey(article.DocumentID, article.Position, article.Id)
			if err := tx.Delete(docKey); err != nil {
				return err
			}
			if err := tx.Delete(key); err != nil {
				return err
			}
		}
		return tx.Commit()
	}, true)
}

// GetArticle retrieves a single article by ID.
func (r *ArticleRepository) GetArticle(ctx context.Context, id core.ID) (*core.Article, error) {
	var result *core.Article
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		var err error
		result, err = r.readArticle(tx, makeArticleKey(id))
		if err != nil {
			return err
		}
		if result == nil {
			return storage.ErrNotFound
		}
		return nil
	}, false)
	return result, err
}

// GetArticles retrieves multiple articles by their IDs. Missing
// articles are skipped.
func (r *ArticleRepository) GetArticles(ctx context.Context, ids ...core.ID) ([]*core.Article, error) {
	var results []*core.Article
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		for _, id := range ids {
			article, err := r.readArticle(tx, makeArticleKey(id))
			if err != nil {
				return err
			}
			if article != nil {
				results = append(results, article)
			}
		}
		return nil
	}, false)
	if err != nil {
		return nil, err
	}
	return results, nil
}

// GetArticlesByDocument retrieves all articles of a document, ordered
// by position.
func (r *ArticleRepository) GetArticlesByDocument(ctx context.Context, documentID string) ([]*core.Article, error) {
	var results []*core.Article
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = makePartialArticleDocKey(documentID)
		iter := tx.NewIterator(opts)
		defer iter.Close()

		for iter.Rewind(); iter.Valid(); iter.Next() {
			var id core.ID
			err := iter.Item().Value(func(val []byte) error {
				var err error
				id, err = storage.UnmarshalID(val)
				return err
			})
			if err != nil {
				return err
			}

			article, err := r.readArticle(tx, makeArticleKey(id))
			if err != nil {
				return err
			}
			if article != nil {
				results = append(results, article)
			}
		}
		return nil
	}, false)
	if err != nil {
		return nil, err
	}
	return results, nil
}

// ScanArticles streams every stored article to fn.
func (r *ArticleRepository) ScanArticles(ctx context.Context, fn func(*core.Article) error) error {
	return r.backend.WithTx(func(tx *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(articlePrefix + ":")
		iter := tx.NewIterator(opts)
		defer iter.Close()

		for iter.Rewind(); iter.Valid(); iter.Next() {
			if err := ctx.Err(); err != nil {
				return err
			}
			var article *core.Article
			err := iter.Item().Value(func(val []byte) error {
				var err error
				article, err = storage.UnmarshalArticle(val)
				return err
			})
			if err != nil {
				return err
			}
			if err := fn(article); err != nil {
				return err
			}
		}
		return nil
	}, false)
}

// CountArticles returns the number of stored articles.
func (r *ArticleRepository) CountArticles(ctx context.Context) (int, error) {
	var count int
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(articlePrefix + ":")
		opts.PrefetchValues = false
		iter := tx.NewIterator(opts)
		defer iter.Close()

		for iter.Rewind(); iter.Valid(); iter.Next() {
			count++
		}
		return nil
	}, false)
	return count, err
}

// readArticle reads an article within a transaction. Returns nil (not
// an error) if the key is absent.
func (r *ArticleRepository) readArticle(tx *badger.Txn, key []byte) (*core.Article, error) {
	item, err := tx.Get(key)
	if err == badger.ErrKeyNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var article *core.Article
	err = item.Value(func(val []byte) error {
		var err error
		article, err = storage.UnmarshalArticle(val)
		return err
	})
	if err != nil {
		return nil, err
	}
	return article, nil
}
