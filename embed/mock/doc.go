// Package mock provides test double implementations of embedding
// service interfaces.
//
// MockEmbedder implements embed.Embedder without external
// dependencies, returning deterministic vectors derived from a text
// hash so tests are repeatable.
//
// # Usage in Tests
//
//	m := mock.NewMockEmbedder()
//	vec, err := m.EmbedText(ctx, "test")
//
//	// Custom behavior injection
//	m.EmbedTextFunc = func(ctx context.Context, text string) ([]float32, error) {
//	    return []float32{0.1, 0.2, 0.3}, nil
//	}
//
//	// Check call counts
//	count := m.CallCount()
package mock
