package sim

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/poiesic/casekit/core"
)

func TestEquality(t *testing.T) {
	ctx := context.Background()
	eq := NewEquality()

	score, err := eq.Compare(ctx, "a", "a")
	require.NoError(t, err)
	assert.Equal(t, 1.0, score)

	score, err = eq.Compare(ctx, "a", "b")
	require.NoError(t, err)
	assert.Equal(t, 0.0, score)

	score, err = eq.Compare(ctx, []string{"x"}, []string{"x"})
	require.NoError(t, err)
	assert.Equal(t, 1.0, score)
}

func TestStatic(t *testing.T) {
	ctx := context.Background()

	static, err := NewStatic(0.5)
	require.NoError(t, err)

	score, err := static.Compare(ctx, "anything", 42)
	require.NoError(t, err)
	assert.Equal(t, 0.5, score)

	_, err = NewStatic(1.5)
	assert.ErrorIs(t, err, core.ErrInvalidConfiguration)
}

func TestTable(t *testing.T) {
	ctx := context.Background()
	entries := []TableEntry{
		{X: "a", Y: "b", Score: 0.5},
		{X: "b", Y: "c", Score: 0.7},
	}

	t.Run("symmetric lookup", func(t *testing.T) {
		table, err := NewTable(entries, true, WithTableDefault(0.0))
		require.NoError(t, err)

		score, err := table.Compare(ctx, "b", "a")
		require.NoError(t, err)
		assert.Equal(t, 0.5, score)

		score, err = table.Compare(ctx, "a", "c")
		require.NoError(t, err)
		assert.Equal(t, 0.0, score)
	})

	t.Run("asymmetric lookup", func(t *testing.T) {
		table, err := NewTable(entries, false, WithTableDefault(0.1))
		require.NoError(t, err)

		score, err := table.Compare(ctx, "b", "a")
		require.NoError(t, err)
		assert.Equal(t, 0.1, score)
	})

	t.Run("missing pair without default fails", func(t *testing.T) {
		table, err := NewTable(entries, true)
		require.NoError(t, err)

		_, err = table.Compare(ctx, "x", "y")
		assert.ErrorIs(t, err, core.ErrLookup)
	})

	t.Run("rejects out-of-range scores", func(t *testing.T) {
		_, err := NewTable([]TableEntry{{X: "a", Y: "b", Score: 2}}, true)
		assert.ErrorIs(t, err, core.ErrInvalidConfiguration)
	})
}
