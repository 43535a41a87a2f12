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


package casekit

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/poiesic/casekit/ai/mock"
	"github.com/poiesic/casekit/core"
)

const carSimilarityConfig = `
type: attribute_value
aggregator: weighted_mean
weights:
  price: 2
  color: 1
attributes:
  price:
    type: linear
    scale: 10
  color:
    type: levenshtein
`

func TestFuncBuilderLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "similarity.yaml")
	require.NoError(t, os.WriteFile(path, []byte(carSimilarityConfig), 0644))

	fn, err := NewFuncBuilder().Load(path)
	require.NoError(t, err)

	score, err := fn.Compare(context.Background(),
		map[string]core.Value{"price": 10, "color": "red"},
		map[string]core.Value{"price": 12, "color": "red"},
	)
	require.NoError(t, err)
	// price 0.8 with weight 2, color 1.0 with weight 1.
	assert.InDelta(t, (0.8*2+1.0)/3, score, 1e-9)
}

func TestFuncBuilderBuild(t *testing.T) {
	b := NewFuncBuilder()

	t.Run("simple measures", func(t *testing.T) {
		for _, spec := range []*FuncSpec{
			{Type: "linear", Scale: 10},
			{Type: "threshold", Threshold: 2},
			{Type: "exponential", Alpha: 0.5},
			{Type: "sigmoid", Alpha: 1, Theta: 2},
			{Type: "levenshtein"},
			{Type: "jaro_winkler"},
			{Type: "equality"},
			{Type: "static", Value: 0.5},
			{Type: "jaccard"},
			{Type: "overlap"},
			{Type: "dtw"},
			{Type: "graph"},
		} {
			fn, err := b.Build(spec)
			require.NoError(t, err, spec.Type)
			assert.NotNil(t, fn, spec.Type)
		}
	})

	t.Run("table with default", func(t *testing.T) {
		fallback := 0.1
		fn, err := b.Build(&FuncSpec{
			Type:      "table",
			Symmetric: true,
			Default:   &fallback,
			Entries: []TableEntrySpec{
				{X: "red", Y: "orange", Score: 0.8},
			},
		})
		require.NoError(t, err)

		score, err := fn.Compare(context.Background(), "orange", "red")
		require.NoError(t, err)
		assert.InDelta(t, 0.8, score, 1e-9)

		score, err = fn.Compare(context.Background(), "red", "blue")
		require.NoError(t, err)
		assert.InDelta(t, 0.1, score, 1e-9)
	})

	t.Run("embedding requires an embedder", func(t *testing.T) {
		_, err := b.Build(&FuncSpec{Type: "embedding"})
		assert.ErrorIs(t, err, core.ErrInvalidConfiguration)

		withEmbedder := NewFuncBuilder(WithEmbedder(mock.NewEmbedder()))
		fn, err := withEmbedder.Build(&FuncSpec{Type: "embedding"})
		require.NoError(t, err)
		assert.NotNil(t, fn)
	})

	t.Run("invalid parameters propagate", func(t *testing.T) {
		_, err := b.Build(&FuncSpec{Type: "linear", Scale: 0})
		assert.ErrorIs(t, err, core.ErrInvalidConfiguration)
	})

	t.Run("missing type", func(t *testing.T) {
		_, err := b.Build(&FuncSpec{})
		assert.ErrorIs(t, err, core.ErrInvalidConfiguration)
	})

	t.Run("unknown type", func(t *testing.T) {
		_, err := b.Build(&FuncSpec{Type: "psychic"})
		assert.ErrorIs(t, err, core.ErrInvalidConfiguration)
	})

	t.Run("nested attribute error names the attribute", func(t *testing.T) {
		_, err := b.Build(&FuncSpec{
			Type: "attribute_value",
			Attributes: map[string]*FuncSpec{
				"price": {Type: "linear", Scale: -1},
			},
		})
		assert.ErrorIs(t, err, core.ErrInvalidConfiguration)
		assert.ErrorContains(t, err, `"price"`)
	})
}
