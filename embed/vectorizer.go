package embed

import (
	"context"
	"fmt"
	"math"

	"github.com/kodeks/mevzu/semantic"
)

// externalVectorizer adapts an Embedder to the semantic index's
// Vectorizer interface.
type externalVectorizer struct {
	embedder Embedder
	gen      uint64
	dim      int
}

// NewVectorizer wraps an Embedder as a semantic.Vectorizer. The
// generation identifies the embedding model configuration; changing
// model or dimension requires a new generation and a rebuild, the same
// rule that applies to TF-IDF vocabularies.
func NewVectorizer(embedder Embedder, gen uint64, dim int) semantic.Vectorizer {
	return &externalVectorizer{embedder: embedder, gen: gen, dim: dim}
}

func (v *externalVectorizer) VocabGen() uint64 { return v.gen }

func (v *externalVectorizer) Dimension() int { return v.dim }

func (v *externalVectorizer) Vectorize(ctx context.Context, text string) ([]float32, error) {
	if text == "" {
		return nil, nil
	}
	vec, err := v.embedder.EmbedText(ctx, text)
	if err != nil {
		return nil, err
	}
	if len(vec) == 0 {
		return nil, nil
	}
	if len(vec) != v.dim {
		return nil, fmt.Errorf("%w: service returned %d, configured %d",
			semantic.ErrDimensionMismatch, len(vec), v.dim)
	}
	return unitNorm(vec), nil
}

// unitNorm scales the vector to unit length so cosine similarity in
// the index reduces to a dot product. Embedding services do not all
// return normalized vectors.
func unitNorm(vec []float32) []float32 {
	var sumSq float64
	for _, x := range vec {
		sumSq += float64(x) * float64(x)
	}
	if sumSq == 0 {
		return nil
	}
	inv := 1 / math.Sqrt(sumSq)
	out := make([]float32, len(vec))
	for i, x := range vec {
		out[i] = float32(float64(x) * inv)
	}
	return out
}
