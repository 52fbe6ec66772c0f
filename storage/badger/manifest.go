package badger

import (
	"context"

	"github.com/dgraph-io/badger/v4"

	"github.com/kodeks/mevzu/core"
	"github.com/kodeks/mevzu/storage"
)

// ManifestStore implements storage.ManifestStore for BadgerDB.
type ManifestStore struct {
	backend *Backend
}

var _ storage.ManifestStore = (*ManifestStore)(nil)

// NewManifestStore creates a new ManifestStore.
func NewManifestStore(backend *Backend) (*ManifestStore, error) {
	return &ManifestStore{backend: backend}, nil
}

// SaveManifest stores the manifest, replacing any previous one.
func (s *ManifestStore) SaveManifest(ctx context.Context, manifest *core.Manifest) error {
	return s.backend.WithTx(func(tx *badger.Txn) error {
		if err := tx.Set(makeManifestKey(), storage.MarshalManifest(manifest)); err != nil {
			return err
		}
		return tx.Commit()
	}, true)
}

// LoadManifest retrieves the stored manifest.
func (s *ManifestStore) LoadManifest(ctx context.Context) (*core.Manifest, error) {
	var result *core.Manifest
	err := s.backend.WithTx(func(tx *badger.Txn) error {
		item, err := tx.Get(makeManifestKey())
		if err == badger.ErrKeyNotFound {
			return storage.ErrNotFound
		}
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			var err error
			result, err = storage.UnmarshalManifest(val)
			return err
		})
	}, false)
	if err != nil {
		return nil, err
	}
	return result, nil
}
