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

// Package embed provides abstractions for external embedding services.
//
// The indexer works out of the box with the corpus-trained TF-IDF
// vectorizer and needs no external service. For deployments with an
// embedding model available, this package defines the Embedder
// interface and two implementations:
//
//   - embed/openai: OpenAI-compatible APIs (Ollama, LocalAI, vLLM)
//   - embed/mock: deterministic test doubles, no network
//
// Public constructors (openai.NewEmbedder) return the Embedder
// interface to keep callers decoupled from the concrete client. Mock
// constructors return concrete types so tests can inject behavior and
// assert call counts.
//
// Vectorizer adapts an Embedder to the semantic index's Vectorizer
// interface, normalizing returned vectors to unit length so cosine
// similarity reduces to a dot product.
//
// # Usage
//
//	cfg := embed.NewConfig(
//	    embed.WithHost("http://localhost:11434"),
//	    embed.WithModel("embeddinggemma"),
//	)
//	embedder, err := openai.NewEmbedder(cfg)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	vec, err := embedder.EmbedText(ctx, "vergi beyannamesi")
package embed
