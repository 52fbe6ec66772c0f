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

// Package indexer coordinates the index lifecycle: staging, snapshot
// publication, tombstones, and full rebuilds.
//
// Writes land in mutable staging areas (lexical and semantic) and in
// durable storage. Queries only ever see immutable Snapshot bundles,
// swapped in atomically at publish time. A reader that obtained a
// snapshot keeps a consistent view for its whole request even while
// the next snapshot is being built.
//
// Removals between publishes are handled with tombstones: the article
// stays in the current snapshot's postings but is filtered from
// results until the next publish drops it for good.
//
// The Manager is the only writer. Its state machine (Idle, Indexing,
// Publishing, Rebuilding, Failed) serializes mutations; searches are
// lock-free reads of the current snapshot pointer.
package indexer
