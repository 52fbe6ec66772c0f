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

package analysis

import (
	"regexp"
	"sort"
	"strings"
)

const (
	// minKeywordLength is the shortest token considered a keyword.
	minKeywordLength = 3

	// maxKeywords bounds keyword extraction output.
	maxKeywords = 50
)

// Analysis is the result of annotating one text.
type Analysis struct {
	Keywords      []string
	LegalTerms    []string
	Citations     []Citation
	WordCount     int
	SentenceCount int
	Readability   float64
}

// Analyzer normalizes and annotates Turkish legal text. It holds only
// immutable tables and compiled patterns; all methods are pure and safe
// for concurrent use.
type Analyzer struct{}

// NewAnalyzer creates a text analyzer.
func NewAnalyzer() *Analyzer {
	return &Analyzer{}
}

// Normalize produces both retained forms of the input. Empty or
// whitespace-only input yields an empty NormalizedText.
func (a *Analyzer) Normalize(text string) NormalizedText {
	canonical := canonicalize(cleanText(text))
	return NormalizedText{
		Canonical: canonical,
		Folded:    Fold(canonical),
	}
}

var sentenceSplit = regexp.MustCompile(`[.!?]+`)

// Analyze annotates text against the given corpus frequency snapshot.
// freq may be nil; keyword ranking then degrades to raw term frequency.
// Malformed or empty input returns a zero Analysis, never an error.
func (a *Analyzer) Analyze(text string, freq *FrequencyTable) Analysis {
	clean := cleanText(text)
	if clean == "" {
		return Analysis{}
	}

	lowered := lowerTurkish(clean)
	canonical := canonicalize(clean)
	tokens := Tokenize(canonical)

	wordCount := 0
	for _, tok := range tokens {
		if isAlpha(tok.Text) {
			wordCount++
		}
	}

	sentenceCount := 0
	for _, s := range sentenceSplit.Split(clean, -1) {
		if strings.TrimSpace(s) != "" {
			sentenceCount++
		}
	}

	return Analysis{
		Keywords:      a.extractKeywords(tokens, freq),
		LegalTerms:    a.extractLegalTerms(canonical),
		Citations:     extractCitations(lowered),
		WordCount:     wordCount,
		SentenceCount: sentenceCount,
		Readability:   readability(wordCount, sentenceCount),
	}
}

// extractKeywords ranks alphabetic non-stop-word tokens by term
// frequency weighted with corpus IDF. Ties break on first occurrence.
func (a *Analyzer) extractKeywords(tokens []Token, freq *FrequencyTable) []string {
	type candidate struct {
		term  string
		count int
		first int // byte offset of first occurrence
	}

	byTerm := make(map[string]*candidate)
	var order []*candidate

	for _, tok := range tokens {
		if len([]rune(tok.Text)) < minKeywordLength {
			continue
		}
		if IsStopWord(tok.Text) || !isAlpha(tok.Text) {
			continue
		}
		c, ok := byTerm[tok.Text]
		if !ok {
			c = &candidate{term: tok.Text, first: tok.Start}
			byTerm[tok.Text] = c
			order = append(order, c)
		}
		c.count++
	}

	weight := func(c *candidate) float64 {
		if freq == nil || freq.DocCount() == 0 {
			return float64(c.count)
		}
		return float64(c.count) * freq.IDF(c.term)
	}

	sort.SliceStable(order, func(i, j int) bool {
		wi, wj := weight(order[i]), weight(order[j])
		if wi != wj {
			return wi > wj
		}
		return order[i].first < order[j].first
	})

	if len(order) > maxKeywords {
		order = order[:maxKeywords]
	}
	keywords := make([]string, len(order))
	for i, c := range order {
		keywords[i] = c.term
	}
	return keywords
}

// extractLegalTerms matches the gazetteer against the canonical form.
// Matches are whole-word; returned in gazetteer order.
func (a *Analyzer) extractLegalTerms(canonical string) []string {
	if canonical == "" {
		return nil
	}
	padded := " " + canonical + " "

	var found []string
	for _, term := range legalTerms {
		if strings.Contains(padded, " "+term+" ") {
			found = append(found, term)
		}
	}
	return found
}

// readability is the original corpus heuristic: average words per
// sentence mapped to a 0..100 score, with 10-15 words considered ideal.
func readability(words, sentences int) float64 {
	if sentences == 0 {
		return 0
	}
	avg := float64(words) / float64(sentences)
	if avg <= 15 {
		score := (15 - avg + 10) * 5
		if score > 100 {
			return 100
		}
		return score
	}
	score := 100 - (avg-15)*2
	if score < 0 {
		return 0
	}
	return score
}

func isAlpha(s string) bool {
	for _, r := range s {
		if r >= '0' && r <= '9' {
			return false
		}
	}
	return s != ""
}
