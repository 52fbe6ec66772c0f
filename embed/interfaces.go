package embed

import "context"

// Embedder generates vector embeddings from text for semantic
// similarity search. Implementations must be safe for concurrent use.
type Embedder interface {
	// EmbedText generates a vector embedding for a single text string.
	// Returns an error if the embedding generation fails.
	EmbedText(ctx context.Context, text string) ([]float32, error)

	// EmbedTexts generates embeddings for multiple texts in a batch.
	// The returned slice is in input order. Returns an error if any
	// embedding generation fails.
	EmbedTexts(ctx context.Context, texts []string) ([][]float32, error)
}
