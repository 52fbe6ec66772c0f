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

package core

import (
	"fmt"
	"time"
)

// ValidateArticle validates an Article according to domain rules.
//
// Validation rules:
//   - DocumentID must not be empty
//   - ArticleNo must not be empty
//   - ContentRaw must not be empty
//
// NOT validated (populated by the indexer):
//   - ContentNorm / ContentFolded (derived by the analyzer)
//   - ContentHash (derived from ContentRaw)
//   - Id (derived from DocumentID and ArticleNo)
func ValidateArticle(article *Article) error {
	if article == nil {
		return fmt.Errorf("%w: article is nil", ErrInvalidArticle)
	}

	if article.DocumentID == "" {
		return fmt.Errorf("%w: %w", ErrInvalidArticle, ErrEmptyDocumentID)
	}

	if article.ArticleNo == "" {
		return fmt.Errorf("%w: %w", ErrInvalidArticle, ErrEmptyArticleNo)
	}

	if article.ContentRaw == "" {
		return fmt.Errorf("%w: %w", ErrInvalidArticle, ErrEmptyContent)
	}

	return nil
}

// IsValidTimestamp reports whether ts is usable as an ingestion timestamp.
// Zero is allowed (the repository fills it in); future timestamps are not.
func IsValidTimestamp(ts time.Time) bool {
	if ts.IsZero() {
		return true
	}
	return !ts.After(time.Now().Add(time.Minute))
}
