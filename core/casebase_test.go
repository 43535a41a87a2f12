package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCaseBase_InsertionOrder(t *testing.T) {
	cb := NewCaseBase()
	cb.Add("c1", 10)
	cb.Add("c2", 20)
	cb.Add("c3", 15)

	assert.Equal(t, 3, cb.Len())
	assert.Equal(t, []CaseID{"c1", "c2", "c3"}, cb.Keys())
	assert.Equal(t, 0, cb.Index("c1"))
	assert.Equal(t, 2, cb.Index("c3"))
	assert.Equal(t, -1, cb.Index("missing"))
}

func TestCaseBase_ReplaceKeepsIndex(t *testing.T) {
	cb := NewCaseBase()
	cb.Add("a", 1)
	cb.Add("b", 2)
	cb.Add("a", 99)

	assert.Equal(t, 2, cb.Len())
	assert.Equal(t, 0, cb.Index("a"))

	v, ok := cb.Get("a")
	require.True(t, ok)
	assert.Equal(t, 99, v)
}

func TestCaseBase_Subset(t *testing.T) {
	cb := NewCaseBase()
	cb.Add("a", 1)
	cb.Add("b", 2)
	cb.Add("c", 3)

	sub := cb.Subset([]CaseID{"c", "a", "nope"})
	assert.Equal(t, []CaseID{"c", "a"}, sub.Keys())
	assert.Equal(t, 0, sub.Index("c"))

	v, ok := sub.Get("a")
	require.True(t, ok)
	assert.Equal(t, 1, v)
}

func TestGraph_AddEdgeValidatesEndpoints(t *testing.T) {
	g := NewGraph()
	g.AddNode("n1", "person")
	g.AddNode("n2", "city")

	require.NoError(t, g.AddEdge("e1", "n1", "n2", "lives-in"))

	err := g.AddEdge("e2", "n1", "missing", "knows")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidConfiguration)

	assert.Equal(t, 2, g.NodeCount())
	assert.Equal(t, 1, g.EdgeCount())
}
