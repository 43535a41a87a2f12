package sim

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/poiesic/casekit/core"
)

func TestLinear(t *testing.T) {
	ctx := context.Background()

	t.Run("rejects non-positive scale", func(t *testing.T) {
		_, err := NewLinear(0)
		assert.ErrorIs(t, err, core.ErrInvalidConfiguration)

		_, err = NewLinear(-3)
		assert.ErrorIs(t, err, core.ErrInvalidConfiguration)
	})

	t.Run("scores by scaled distance", func(t *testing.T) {
		linear, err := NewLinear(10)
		require.NoError(t, err)

		for _, tc := range []struct {
			x, y  float64
			score float64
		}{
			{10, 12, 0.8},
			{15, 12, 0.7},
			{20, 12, 0.2},
			{12, 12, 1.0},
			{100, 12, 0.0},
		} {
			score, err := linear.Compare(ctx, tc.x, tc.y)
			require.NoError(t, err)
			assert.InDelta(t, tc.score, score, 1e-9, "compare(%v, %v)", tc.x, tc.y)
		}
	})

	t.Run("accepts integer input", func(t *testing.T) {
		linear, err := NewLinear(10)
		require.NoError(t, err)

		score, err := linear.Compare(ctx, 10, 12)
		require.NoError(t, err)
		assert.InDelta(t, 0.8, score, 1e-9)
	})

	t.Run("type mismatch fails explicitly", func(t *testing.T) {
		linear, err := NewLinear(10)
		require.NoError(t, err)

		_, err = linear.Compare(ctx, "ten", 12)
		assert.ErrorIs(t, err, core.ErrTypeMismatch)
	})
}

func TestThreshold(t *testing.T) {
	ctx := context.Background()

	threshold, err := NewThreshold(2)
	require.NoError(t, err)

	score, err := threshold.Compare(ctx, 10, 12)
	require.NoError(t, err)
	assert.Equal(t, 1.0, score)

	score, err = threshold.Compare(ctx, 10, 13)
	require.NoError(t, err)
	assert.Equal(t, 0.0, score)

	_, err = NewThreshold(-1)
	assert.ErrorIs(t, err, core.ErrInvalidConfiguration)
}

func TestExponential(t *testing.T) {
	ctx := context.Background()

	exp, err := NewExponential(1)
	require.NoError(t, err)

	score, err := exp.Compare(ctx, 5.0, 5.0)
	require.NoError(t, err)
	assert.Equal(t, 1.0, score)

	score, err = exp.Compare(ctx, 5.0, 6.0)
	require.NoError(t, err)
	assert.InDelta(t, 0.3678794, score, 1e-6)

	_, err = NewExponential(0)
	assert.ErrorIs(t, err, core.ErrInvalidConfiguration)
}

func TestSigmoid(t *testing.T) {
	ctx := context.Background()

	sig, err := NewSigmoid(1, 1)
	require.NoError(t, err)

	// At |x-y| == theta the similarity is exactly 0.5.
	score, err := sig.Compare(ctx, 3.0, 4.0)
	require.NoError(t, err)
	assert.InDelta(t, 0.5, score, 1e-9)

	_, err = NewSigmoid(0, 1)
	assert.ErrorIs(t, err, core.ErrInvalidConfiguration)
}

func TestNumericSelfSimilarity(t *testing.T) {
	ctx := context.Background()

	linear, err := NewLinear(10)
	require.NoError(t, err)

	score, err := linear.Compare(ctx, 42.0, 42.0)
	require.NoError(t, err)
	assert.Equal(t, 1.0, score)
}
