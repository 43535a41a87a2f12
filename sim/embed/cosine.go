// Copyright 2026 Poiesic Systems
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


// Package embed provides an embedding-backed text similarity measure.
//
// Vector production is delegated to an injected ai.Embedder; the measure
// itself only computes cosine similarity on the returned vectors. Within a
// retrieval call, vectors are memoized in a per-call Cache and all case
// texts are embedded in one batch via the Primer hook, so the external
// provider sees the minimum number of requests.
package embed

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"sort"

	"github.com/poiesic/casekit/ai"
	"github.com/poiesic/casekit/core"
	"github.com/poiesic/casekit/sim"
)

// Cosine scores two texts by the cosine of their embedding vectors, shifted
// into [0, 1] via (cos + 1) / 2 so that opposite vectors score 0.
type Cosine struct {
	embedder ai.Embedder
	logger   *slog.Logger
}

// CosineOption configures a Cosine measure.
type CosineOption func(*Cosine)

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) CosineOption {
	return func(c *Cosine) {
		if logger == nil {
			logger = slog.Default()
		}
		c.logger = logger
	}
}

// NewCosine creates an embedding cosine measure around the given embedder.
func NewCosine(embedder ai.Embedder, opts ...CosineOption) (*Cosine, error) {
	if embedder == nil {
		return nil, fmt.Errorf("%w: embedder must not be nil", core.ErrInvalidConfiguration)
	}

	c := &Cosine{
		embedder: embedder,
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

var (
	_ sim.Func   = (*Cosine)(nil)
	_ sim.Primer = (*Cosine)(nil)
)

// Compare implements sim.Func.
func (c *Cosine) Compare(ctx context.Context, x, y core.Value) (float64, error) {
	a, ok := x.(string)
	if !ok {
		return 0, fmt.Errorf("%w: want string, got %T", core.ErrTypeMismatch, x)
	}
	b, ok := y.(string)
	if !ok {
		return 0, fmt.Errorf("%w: want string, got %T", core.ErrTypeMismatch, y)
	}

	va, err := c.vector(ctx, a)
	if err != nil {
		return 0, err
	}
	vb, err := c.vector(ctx, b)
	if err != nil {
		return 0, err
	}

	if len(va) != len(vb) {
		return 0, fmt.Errorf("%w: embedding dimensionality mismatch (%d vs %d)",
			core.ErrEmbeddingUnavailable, len(va), len(vb))
	}
	return (cosine(va, vb) + 1) / 2, nil
}

// Prime implements sim.Primer: it batch-embeds every distinct text among
// the queries and cases, filling the per-call cache so that the subsequent
// pairwise comparisons never hit the provider individually.
func (c *Cosine) Prime(ctx context.Context, queries []core.Value, cases []core.Value) error {
	cache, ok := CacheFrom(ctx)
	if !ok {
		// No per-call cache installed, nothing to pre-fill.
		return nil
	}

	distinct := make(map[string]bool)
	for _, v := range append(append([]core.Value{}, queries...), cases...) {
		if text, ok := v.(string); ok && !distinct[text] {
			if _, cached := cache.Get(text); !cached {
				distinct[text] = true
			}
		}
	}
	if len(distinct) == 0 {
		return nil
	}

	texts := make([]string, 0, len(distinct))
	for text := range distinct {
		texts = append(texts, text)
	}
	sort.Strings(texts)

	c.logger.Debug("batch embedding texts for retrieval", "count", len(texts))
	vectors, err := c.embedder.EmbedTexts(ctx, texts)
	if err != nil {
		return fmt.Errorf("%w: %v", core.ErrEmbeddingUnavailable, err)
	}
	if len(vectors) != len(texts) {
		return fmt.Errorf("%w: embedder returned %d vectors for %d texts",
			core.ErrEmbeddingUnavailable, len(vectors), len(texts))
	}

	for i, text := range texts {
		cache.Put(text, vectors[i])
	}
	return nil
}

func (c *Cosine) vector(ctx context.Context, text string) ([]float32, error) {
	cache, hasCache := CacheFrom(ctx)
	if hasCache {
		if v, ok := cache.Get(text); ok {
			return v, nil
		}
	}

	v, err := c.embedder.EmbedText(ctx, text)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", core.ErrEmbeddingUnavailable, err)
	}
	if hasCache {
		cache.Put(text, v)
	}
	return v, nil
}

// cosine computes cosine similarity in [-1, 1]. A zero vector yields 0.
func cosine(a, b []float32) float64 {
	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}
