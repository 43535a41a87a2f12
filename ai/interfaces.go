package ai

import "context"

// Embedder generates vector embeddings from text for semantic similarity.
// Implementations must be thread-safe for concurrent use.
type Embedder interface {
	// EmbedText generates a vector embedding for a single text string.
	EmbedText(ctx context.Context, text string) ([]float32, error)

	// EmbedTexts generates embeddings for multiple texts in a batch.
	// Batch processing is more efficient than calling EmbedText repeatedly;
	// the returned slice matches the order of the input texts.
	EmbedTexts(ctx context.Context, texts []string) ([][]float32, error)
}

// Completer generates a text completion for a prompt. Used by synthesis-style
// steps layered above retrieval; treated as an opaque, possibly slow,
// possibly failing external call.
// Implementations must be thread-safe for concurrent use.
type Completer interface {
	Complete(ctx context.Context, prompt string) (string, error)
}

// Provider aggregates AI services for convenient initialization and
// lifecycle management.
type Provider interface {
	// Embedder returns the text embedding service.
	Embedder() Embedder

	// Completer returns the text completion service.
	Completer() Completer

	// Close releases resources held by the provider and its services.
	Close() error
}
