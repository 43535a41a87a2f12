package embed

import (
	"context"

	lru "github.com/hashicorp/golang-lru/v2"
)

// DefaultCacheSize bounds the number of vectors kept per retrieval call.
const DefaultCacheSize = 4096

// Cache memoizes embedding vectors for the duration of one retrieval call.
// It is created by the retriever, attached to the request context, and
// discarded with the call; it is never shared across concurrent requests,
// so context-dependent embeddings cannot leak between queries.
type Cache struct {
	vectors *lru.Cache[string, []float32]
}

// NewCache creates a cache holding at most size vectors. A non-positive
// size falls back to DefaultCacheSize.
func NewCache(size int) *Cache {
	if size <= 0 {
		size = DefaultCacheSize
	}
	// lru.New only fails on non-positive sizes, which are filtered above.
	vectors, _ := lru.New[string, []float32](size)
	return &Cache{vectors: vectors}
}

// Get returns the cached vector for text.
func (c *Cache) Get(text string) ([]float32, bool) {
	return c.vectors.Get(text)
}

// Put stores a vector for text.
func (c *Cache) Put(text string, vector []float32) {
	c.vectors.Add(text, vector)
}

// Len returns the number of cached vectors.
func (c *Cache) Len() int {
	return c.vectors.Len()
}

type cacheContextKey struct{}

// WithCache attaches a per-call cache to the context.
func WithCache(ctx context.Context, c *Cache) context.Context {
	return context.WithValue(ctx, cacheContextKey{}, c)
}

// CacheFrom extracts the per-call cache from the context, if any.
func CacheFrom(ctx context.Context) (*Cache, bool) {
	c, ok := ctx.Value(cacheContextKey{}).(*Cache)
	return c, ok
}
