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

// Package storage provides the persistence abstraction layer for mevzu.
//
// The in-memory indexes are authoritative at query time; storage is
// the durable record that warm starts rebuild from. This package
// defines repository interfaces that decouple the storage backend from
// the indexing and search logic.
//
// # Constructor Return Type Pattern
//
// Public constructors in backend packages return interface types to
// enforce abstraction and keep alternative backends swappable:
//
//	repo, err := badger.NewArticleRepository(backend)  // returns storage.ArticleRepository
//
// Internal constructors may return concrete types since they are only
// used within the implementation package.
//
// # Architecture
//
// The storage layer follows the Repository pattern:
//
//   - ArticleRepository: durable article records plus the document index
//   - VectorRepository: embedding vectors keyed by article id
//   - ManifestStore: the index manifest written at each publish
//
// # Usage
//
//	backend, err := badger.OpenBackend("/path/to/db", false)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer backend.Close()
//	articles, err := badger.NewArticleRepository(backend)
//
// Use in tests with in-memory storage:
//
//	articles, vectors, manifests, backend, err := badger.NewMemoryRepositories()
//
// # Thread Safety
//
// All repository implementations must be thread-safe and support
// concurrent access from multiple goroutines.
//
// # Context Support
//
// All repository methods accept context.Context for cancellation and
// timeout support.
package storage
