package sim

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/poiesic/casekit/core"
)

func mustLinear(t *testing.T, scale float64) *Linear {
	t.Helper()
	linear, err := NewLinear(scale)
	require.NoError(t, err)
	return linear
}

func TestAttributeValue_Construction(t *testing.T) {
	t.Run("requires at least one attribute", func(t *testing.T) {
		_, err := NewAttributeValue(nil)
		assert.ErrorIs(t, err, core.ErrInvalidConfiguration)
	})

	t.Run("rejects nil attribute function", func(t *testing.T) {
		_, err := NewAttributeValue(map[string]Func{"age": nil})
		assert.ErrorIs(t, err, core.ErrInvalidConfiguration)
	})

	t.Run("rejects cyclic composition", func(t *testing.T) {
		inner, err := NewAttributeValue(map[string]Func{"x": NewEquality()})
		require.NoError(t, err)

		// Force a cycle by aliasing the inner node into its own subtree.
		inner.attributes["self"] = inner
		inner.names = append(inner.names, "self")

		_, err = NewAttributeValue(map[string]Func{"nested": inner})
		assert.ErrorIs(t, err, core.ErrInvalidConfiguration)
	})

	t.Run("shared subtree is not a cycle", func(t *testing.T) {
		shared, err := NewAttributeValue(map[string]Func{"x": NewEquality()})
		require.NoError(t, err)

		_, err = NewAttributeValue(map[string]Func{"a": shared, "b": shared})
		assert.NoError(t, err)
	})
}

func TestAttributeValue_Compare(t *testing.T) {
	ctx := context.Background()

	av, err := NewAttributeValue(map[string]Func{
		"name": NewEquality(),
		"age":  NewEquality(),
	})
	require.NoError(t, err)

	query := map[string]any{"name": "John", "age": 30}

	score, err := av.Compare(ctx, map[string]any{"name": "John", "age": 25}, query)
	require.NoError(t, err)
	assert.InDelta(t, 0.5, score, 1e-9)

	score, err = av.Compare(ctx, map[string]any{"name": "Jane", "age": 30}, query)
	require.NoError(t, err)
	assert.InDelta(t, 0.5, score, 1e-9)
}

func TestAttributeValue_Detailed(t *testing.T) {
	ctx := context.Background()

	av, err := NewAttributeValue(map[string]Func{
		"price": mustLinear(t, 100),
		"brand": NewEquality(),
	})
	require.NoError(t, err)

	detail, err := av.CompareDetailed(ctx,
		map[string]any{"price": 80.0, "brand": "acme"},
		map[string]any{"price": 100.0, "brand": "acme"},
	)
	require.NoError(t, err)
	assert.InDelta(t, 0.9, detail.Score, 1e-9)
	assert.InDelta(t, 0.8, detail.ByAttribute["price"], 1e-9)
	assert.Equal(t, 1.0, detail.ByAttribute["brand"])
}

func TestAttributeValue_Nested(t *testing.T) {
	ctx := context.Background()

	engine, err := NewAttributeValue(map[string]Func{
		"power": mustLinear(t, 100),
		"fuel":  NewEquality(),
	})
	require.NoError(t, err)

	car, err := NewAttributeValue(map[string]Func{
		"price":  mustLinear(t, 1000),
		"engine": engine,
	})
	require.NoError(t, err)

	score, err := car.Compare(ctx,
		map[string]any{
			"price":  900.0,
			"engine": map[string]any{"power": 150.0, "fuel": "diesel"},
		},
		map[string]any{
			"price":  1000.0,
			"engine": map[string]any{"power": 100.0, "fuel": "diesel"},
		},
	)
	require.NoError(t, err)
	// price 0.9, engine mean(power 0.5, fuel 1.0) = 0.75 -> mean 0.825
	assert.InDelta(t, 0.825, score, 1e-9)
}

func TestAttributeValue_PartialQueries(t *testing.T) {
	ctx := context.Background()
	attrs := map[string]Func{
		"name": NewEquality(),
		"age":  NewEquality(),
	}
	caseValue := map[string]any{"name": "John", "age": 25}

	t.Run("missing query attribute fails by default", func(t *testing.T) {
		av, err := NewAttributeValue(attrs)
		require.NoError(t, err)

		_, err = av.Compare(ctx, caseValue, map[string]any{"name": "John"})
		assert.ErrorIs(t, err, core.ErrTypeMismatch)
	})

	t.Run("partial queries score declared attributes present", func(t *testing.T) {
		av, err := NewAttributeValue(attrs, WithPartialQueries())
		require.NoError(t, err)

		score, err := av.Compare(ctx, caseValue, map[string]any{"name": "John"})
		require.NoError(t, err)
		assert.Equal(t, 1.0, score)
	})
}

func TestAttributeValue_MissingCaseAttribute(t *testing.T) {
	ctx := context.Background()

	av, err := NewAttributeValue(map[string]Func{"age": NewEquality()})
	require.NoError(t, err)

	_, err = av.Compare(ctx, map[string]any{}, map[string]any{"age": 30})
	assert.ErrorIs(t, err, core.ErrTypeMismatch)
}

func TestAttributeValue_DepthBound(t *testing.T) {
	ctx := context.Background()

	leaf, err := NewAttributeValue(map[string]Func{"v": NewEquality()})
	require.NoError(t, err)

	mid, err := NewAttributeValue(map[string]Func{"inner": leaf}, WithMaxDepth(2))
	require.NoError(t, err)

	outer, err := NewAttributeValue(map[string]Func{"mid": mid}, WithMaxDepth(2))
	require.NoError(t, err)

	value := map[string]any{
		"mid": map[string]any{
			"inner": map[string]any{"v": 1},
		},
	}
	_, err = outer.Compare(ctx, value, value)
	assert.ErrorIs(t, err, core.ErrGraphTooDeep)
}

func TestAttributeValue_WeightedComposition(t *testing.T) {
	ctx := context.Background()

	agg, err := NewAggregator(StrategyWeightedMean, WithWeights(map[string]float64{
		"price": 3,
		"brand": 1,
	}))
	require.NoError(t, err)

	av, err := NewAttributeValue(map[string]Func{
		"price": mustLinear(t, 100),
		"brand": NewEquality(),
	}, WithAggregator(agg))
	require.NoError(t, err)

	score, err := av.Compare(ctx,
		map[string]any{"price": 100.0, "brand": "other"},
		map[string]any{"price": 100.0, "brand": "acme"},
	)
	require.NoError(t, err)
	assert.InDelta(t, 0.75, score, 1e-9)
}
