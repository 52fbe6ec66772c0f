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

// Package search provides hybrid lexical and semantic search over
// indexed legislation.
//
// A search resolves against exactly one immutable index snapshot: the
// lexical and semantic backends run in parallel over the same
// snapshot, their scores are min-max normalized and fused with fixed
// weights, and results carry highlight offsets into the original
// article text.
//
// The semantic backend degrades gracefully: if it is unavailable,
// times out, or fails, the search returns lexical-only results rather
// than an error.
package search
