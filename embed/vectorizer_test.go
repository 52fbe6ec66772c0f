package embed

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kodeks/mevzu/semantic"
)

type stubEmbedder struct {
	vec []float32
	err error
}

func (s *stubEmbedder) EmbedText(_ context.Context, _ string) ([]float32, error) {
	return s.vec, s.err
}

func (s *stubEmbedder) EmbedTexts(_ context.Context, texts []string) ([][]float32, error) {
	if s.err != nil {
		return nil, s.err
	}
	out := make([][]float32, len(texts))
	for i := range texts {
		out[i] = s.vec
	}
	return out, nil
}

func TestVectorizerNormalizes(t *testing.T) {
	v := NewVectorizer(&stubEmbedder{vec: []float32{3, 4}}, 1, 2)

	got, err := v.Vectorize(context.Background(), "vergi")
	require.NoError(t, err)
	assert.InDelta(t, 0.6, float64(got[0]), 1e-6)
	assert.InDelta(t, 0.8, float64(got[1]), 1e-6)
}

func TestVectorizerDimensionMismatch(t *testing.T) {
	v := NewVectorizer(&stubEmbedder{vec: []float32{1, 2, 3}}, 1, 2)

	_, err := v.Vectorize(context.Background(), "vergi")
	require.ErrorIs(t, err, semantic.ErrDimensionMismatch)
}

func TestVectorizerPropagatesError(t *testing.T) {
	boom := errors.New("service down")
	v := NewVectorizer(&stubEmbedder{err: boom}, 1, 2)

	_, err := v.Vectorize(context.Background(), "vergi")
	require.ErrorIs(t, err, boom)
}

func TestVectorizerEmptyInputs(t *testing.T) {
	v := NewVectorizer(&stubEmbedder{vec: []float32{1, 0}}, 1, 2)

	got, err := v.Vectorize(context.Background(), "")
	require.NoError(t, err)
	assert.Nil(t, got)

	v = NewVectorizer(&stubEmbedder{vec: nil}, 1, 2)
	got, err = v.Vectorize(context.Background(), "vergi")
	require.NoError(t, err)
	assert.Nil(t, got)

	v = NewVectorizer(&stubEmbedder{vec: []float32{0, 0}}, 1, 2)
	got, err = v.Vectorize(context.Background(), "vergi")
	require.NoError(t, err)
	assert.Nil(t, got, "zero vector carries no signal")
}

func TestVectorizerMetadata(t *testing.T) {
	v := NewVectorizer(&stubEmbedder{}, 7, 384)
	assert.Equal(t, uint64(7), v.VocabGen())
	assert.Equal(t, 384, v.Dimension())
}
