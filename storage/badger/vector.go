package badger

import (
	"context"

	"github.com/dgraph-io/badger/v4"

	"github.com/kodeks/mevzu/core"
	"github.com/kodeks/mevzu/storage"
)

// VectorRepository implements storage.VectorRepository for BadgerDB.
type VectorRepository struct {
	backend *Backend
}

var _ storage.VectorRepository = (*VectorRepository)(nil)

// NewVectorRepository creates a new VectorRepository.
func NewVectorRepository(backend *Backend) (*VectorRepository, error) {
	return &VectorRepository{backend: backend}, nil
}

// Close is a no-op: the shared backend is closed by the caller.
func (r *VectorRepository) Close() error {
	return nil
}

// WithTransaction delegates to the backend.
func (r *VectorRepository) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return r.backend.WithTransaction(ctx, fn)
}

// PutVectors inserts or replaces vectors keyed by article ID.
func (r *VectorRepository) PutVectors(ctx context.Context, vectors ...*core.EmbeddingVector) error {
	return r.backend.WithTx(func(tx *badger.Txn) error {
		for _, vector := range vectors {
			key := makeVectorKey(vector.ArticleId)
			if err := tx.Set(key, storage.MarshalVector(vector)); err != nil {
				return err
			}
		}
		return tx.Commit()
	}, true)
}

// DeleteVectors removes vectors by article ID. Missing vectors are
// not an error.
func (r *VectorRepository) DeleteVectors(ctx context.Context, ids ...core.ID) error {
	return r.backend.WithTx(func(tx *badger.Txn) error {
		for _, id := range ids {
			if err := tx.Delete(makeVectorKey(id)); err != nil {
				return err
			}
		}
		return tx.Commit()
	}, true)
}

// GetVector retrieves the vector for an article.
func (r *VectorRepository) GetVector(ctx context.Context, id core.ID) (*core.EmbeddingVector, error) {
	var result *core.EmbeddingVector
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		item, err := tx.Get(makeVectorKey(id))
		if err == badger.ErrKeyNotFound {
			return storage.ErrNotFound
		}
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			var err error
			result, err = storage.UnmarshalVector(val)
			return err
		})
	}, false)
	if err != nil {
		return nil, err
	}
	return result, nil
}

// ScanVectors streams every stored vector to fn.
func (r *VectorRepository) ScanVectors(ctx context.Context, fn func(*core.EmbeddingVector) error) error {
	return r.backend.WithTx(func(tx *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(vectorPrefix + ":")
		iter := tx.NewIterator(opts)
		defer iter.Close()

		for iter.Rewind(); iter.Valid(); iter.Next() {
			if err := ctx.Err(); err != nil {
				return err
			}
			var vector *core.EmbeddingVector
			err := iter.Item().Value(func(val []byte) error {
				var err error
				vector, err = storage.UnmarshalVector(val)
				return err
			})
			if err != nil {
				return err
			}
			if err := fn(vector); err != nil {
				return err
			}
		}
		return nil
	}, false)
}
