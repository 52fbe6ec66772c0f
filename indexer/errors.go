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

import "errors"

var (
	// ErrArticleRepositoryRequired is returned when an article repository is not provided.
	ErrArticleRepositoryRequired = errors.New("article repository required")

	// ErrVectorRepositoryRequired is returned when a vector repository is not provided.
	ErrVectorRepositoryRequired = errors.New("vector repository required")

	// ErrManifestStoreRequired is returned when a manifest store is not provided.
	ErrManifestStoreRequired = errors.New("manifest store required")

	// ErrInvalidMaxAttempts is returned for a non-positive retry attempt count.
	ErrInvalidMaxAttempts = errors.New("max attempts must be positive")

	// ErrVocabularyDrift is returned when staged vectors were produced
	// under a different vocabulary generation than the active
	// vectorizer. The index stays on its last good snapshot; Rebuild
	// recovers by re-vectorizing the full corpus.
	ErrVocabularyDrift = errors.New("vocabulary drift detected, rebuild required")

	// ErrRebuildInProgress is returned when a mutation is attempted
	// while a rebuild holds the writer.
	ErrRebuildInProgress = errors.New("rebuild in progress")

	// ErrRebuildRequired is returned for mutations attempted on a
	// failed manager. The last good snapshot keeps serving reads;
	// Rebuild is the only way back to an indexable state.
	ErrRebuildRequired = errors.New("index manager failed, rebuild required")

	// ErrManagerClosed is returned after Close.
	ErrManagerClosed = errors.New("index manager is closed")
)
