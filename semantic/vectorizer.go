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

import (
	"context"
	"math"
	"sort"

	"github.com/kodeks/mevzu/analysis"
	"github.com/kodeks/mevzu/core"
)

const (
	defaultMaxFeatures = 10000
	defaultMinDocFreq  = 1
	minVocabTermLength = 2
)

// Vectorizer maps article or query text to a dense vector. Query
// vectors must come from the same Vectorizer that produced the stored
// vectors, which VocabGen enforces.
type Vectorizer interface {
	// VocabGen identifies the vocabulary the vectorizer was built
	// against. Vectors from different generations are not comparable.
	VocabGen() uint64

	// Dimension is the length of produced vectors.
	Dimension() int

	// Vectorize turns text into a unit-normalized vector. Text that
	// maps to the zero vector (all tokens out of vocabulary) returns a
	// nil slice and no error.
	Vectorize(ctx context.Context, text string) ([]float32, error)
}

// VectorizerConfig tunes corpus-trained vectorizers.
type VectorizerConfig struct {
	// MaxFeatures caps the vocabulary size. Terms are kept by
	// descending document frequency, ties broken alphabetically.
	MaxFeatures int

	// MinDocFreq drops terms seen in fewer documents than this.
	MinDocFreq int
}

func (c *VectorizerConfig) withDefaults() VectorizerConfig {
	out := VectorizerConfig{MaxFeatures: defaultMaxFeatures, MinDocFreq: defaultMinDocFreq}
	if c == nil {
		return out
	}
	if c.MaxFeatures > 0 {
		out.MaxFeatures = c.MaxFeatures
	}
	if c.MinDocFreq > 0 {
		out.MinDocFreq = c.MinDocFreq
	}
	return out
}

// TFIDFVectorizer is a bag-of-words vectorizer with a vocabulary frozen
// at training time. It is fully deterministic and needs no external
// service.
type TFIDFVectorizer struct {
	gen   uint64
	vocab map[string]int
	idf   []float64
}

// TrainVectorizer builds a TF-IDF vectorizer over the given corpus.
// The generation number must be strictly greater than the one of any
// vectorizer whose vectors are still live, so staging can detect drift.
func TrainVectorizer(articles []*core.Article, gen uint64, cfg *VectorizerConfig) (*TFIDFVectorizer, error) {
	if len(articles) == 0 {
		return nil, ErrEmptyCorpus
	}
	conf := cfg.withDefaults()

	docFreq := make(map[string]int)
	for _, a := range articles {
		seen := make(map[string]struct{})
		for _, tok := range analysis.Tokenize(a.ContentNorm) {
			t := tok.Text
			if len([]rune(t)) < minVocabTermLength || analysis.IsStopWord(t) {
				continue
			}
			seen[t] = struct{}{}
		}
		for t := range seen {
			docFreq[t]++
		}
	}

	terms := make([]string, 0, len(docFreq))
	for t, df := range docFreq {
		if df >= conf.MinDocFreq {
			terms = append(terms, t)
		}
	}
	sort.Slice(terms, func(i, j int) bool {
		if docFreq[terms[i]] != docFreq[terms[j]] {
			return docFreq[terms[i]] > docFreq[terms[j]]
		}
		return terms[i] < terms[j]
	})
	if len(terms) > conf.MaxFeatures {
		terms = terms[:conf.MaxFeatures]
	}
	// Alphabetical vector layout keeps the mapping independent of
	// frequency order once the feature set is chosen.
	sort.Strings(terms)

	v := &TFIDFVectorizer{
		gen:   gen,
		vocab: make(map[string]int, len(terms)),
		idf:   make([]float64, len(terms)),
	}
	n := float64(len(articles))
	for i, t := range terms {
		v.vocab[t] = i
		v.idf[i] = math.Log(1+n/(1+float64(docFreq[t]))) + 1
	}
	return v, nil
}

func (v *TFIDFVectorizer) VocabGen() uint64 { return v.gen }

func (v *TFIDFVectorizer) Dimension() int { return len(v.vocab) }

func (v *TFIDFVectorizer) Vectorize(_ context.Context, text string) ([]float32, error) {
	counts := make(map[int]float64)
	for _, tok := range analysis.Tokenize(text) {
		idx, ok := v.vocab[tok.Text]
		if !ok {
			// Out-of-vocabulary tokens are dropped.
			continue
		}
		counts[idx]++
	}
	if len(counts) == 0 {
		return nil, nil
	}

	vec := make([]float32, len(v.vocab))
	var sumSq float64
	for idx, tf := range counts {
		w := tf * v.idf[idx]
		vec[idx] = float32(w)
		sumSq += w * w
	}
	inv := 1 / math.Sqrt(sumSq)
	for idx := range counts {
		vec[idx] = float32(float64(vec[idx]) * inv)
	}
	return vec, nil
}
