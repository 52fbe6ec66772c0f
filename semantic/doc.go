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

// Package semantic implements the vector index over article embeddings.
//
// Vectors come from a Vectorizer: either the corpus-trained TF-IDF
// vectorizer (deterministic, no external service) or an adapter over an
// external embedding provider. The vocabulary of the TF-IDF vectorizer
// is fixed at the last rebuild; out-of-vocabulary query tokens are
// dropped rather than failing, and vocabulary growth does not
// retroactively re-vectorize older articles until the next rebuild.
//
// Similarity is cosine over unit-normalized vectors. Top-k selection
// uses a bounded min-heap, never a full sort of the corpus.
package semantic
