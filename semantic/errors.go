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

package semantic

import "errors"

var (
	// ErrEmptyCorpus is returned when training a vectorizer over zero
	// articles.
	ErrEmptyCorpus = errors.New("semantic: empty training corpus")

	// ErrDimensionMismatch is returned when a vector's length does not
	// match the index dimensionality.
	ErrDimensionMismatch = errors.New("semantic: vector dimension mismatch")

	// ErrVocabGenMismatch is returned when a vector produced under a
	// different vocabulary generation is added to a staging area.
	ErrVocabGenMismatch = errors.New("semantic: vocabulary generation mismatch")
)
