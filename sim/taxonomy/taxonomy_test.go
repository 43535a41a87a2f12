package taxonomy

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/poiesic/casekit/core"
)

const carsTaxonomy = `
key: vehicle
children:
  - key: car
    children:
      - sedan
      - suv
  - key: bike
    children:
      - mountainbike
`

func mustParse(t *testing.T) *Taxonomy {
	t.Helper()
	tax, err := Parse([]byte(carsTaxonomy))
	require.NoError(t, err)
	return tax
}

func TestParse(t *testing.T) {
	tax := mustParse(t)

	for _, term := range []string{"vehicle", "car", "sedan", "suv", "bike", "mountainbike"} {
		assert.True(t, tax.Contains(term), "expected term %q", term)
	}
	assert.False(t, tax.Contains("boat"))
}

func TestParse_Invalid(t *testing.T) {
	t.Run("duplicate term", func(t *testing.T) {
		_, err := Parse([]byte("key: a\nchildren: [a]"))
		assert.ErrorIs(t, err, core.ErrInvalidConfiguration)
	})

	t.Run("missing root key", func(t *testing.T) {
		_, err := Parse([]byte("children: [a]"))
		assert.ErrorIs(t, err, core.ErrInvalidConfiguration)
	})
}

func TestWuPalmer(t *testing.T) {
	tax := mustParse(t)

	t.Run("identical terms score 1", func(t *testing.T) {
		score, err := tax.WuPalmer("sedan", "sedan")
		require.NoError(t, err)
		assert.Equal(t, 1.0, score)
	})

	t.Run("siblings share their parent", func(t *testing.T) {
		// lca(sedan, suv) = car at depth 1, both terms at depth 2.
		score, err := tax.WuPalmer("sedan", "suv")
		require.NoError(t, err)
		assert.InDelta(t, 0.5, score, 1e-9)
	})

	t.Run("cousins only share the root", func(t *testing.T) {
		score, err := tax.WuPalmer("sedan", "mountainbike")
		require.NoError(t, err)
		assert.Equal(t, 0.0, score)
	})

	t.Run("unknown term fails", func(t *testing.T) {
		_, err := tax.WuPalmer("sedan", "boat")
		assert.ErrorIs(t, err, core.ErrLookup)
	})
}

func TestPathDecay(t *testing.T) {
	tax := mustParse(t)

	score, err := tax.PathDecay("sedan", "sedan")
	require.NoError(t, err)
	assert.Equal(t, 1.0, score)

	// sedan -> car -> suv: two edges
	score, err = tax.PathDecay("sedan", "suv")
	require.NoError(t, err)
	assert.InDelta(t, 1.0/3.0, score, 1e-9)

	// sedan -> car -> vehicle -> bike -> mountainbike: four edges
	score, err = tax.PathDecay("sedan", "mountainbike")
	require.NoError(t, err)
	assert.InDelta(t, 0.2, score, 1e-9)
}

func TestMeasure(t *testing.T) {
	ctx := context.Background()
	tax := mustParse(t)

	t.Run("wu palmer measure", func(t *testing.T) {
		m, err := NewMeasure(tax, WuPalmer)
		require.NoError(t, err)

		score, err := m.Compare(ctx, "sedan", "suv")
		require.NoError(t, err)
		assert.InDelta(t, 0.5, score, 1e-9)
	})

	t.Run("unknown term without fallback", func(t *testing.T) {
		m, err := NewMeasure(tax, WuPalmer)
		require.NoError(t, err)

		_, err = m.Compare(ctx, "sedan", "boat")
		assert.ErrorIs(t, err, core.ErrLookup)
	})

	t.Run("unknown term with fallback", func(t *testing.T) {
		m, err := NewMeasure(tax, WuPalmer, WithFallback(0.1))
		require.NoError(t, err)

		score, err := m.Compare(ctx, "sedan", "boat")
		require.NoError(t, err)
		assert.Equal(t, 0.1, score)
	})

	t.Run("type mismatch", func(t *testing.T) {
		m, err := NewMeasure(tax, PathDecay)
		require.NoError(t, err)

		_, err = m.Compare(ctx, 1, "suv")
		assert.ErrorIs(t, err, core.ErrTypeMismatch)
	})

	t.Run("rejects unknown measure name", func(t *testing.T) {
		_, err := NewMeasure(tax, "resnik")
		assert.ErrorIs(t, err, core.ErrInvalidConfiguration)
	})
}
