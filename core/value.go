package core

import "fmt"

// CaseID uniquely identifies a case within a case base.
type CaseID string

// Value is an arbitrary case or query value: a scalar, a string, a
// map[string]Value record, a slice, a TimeSeries, or a Graph. Values are
// treated as immutable once stored in a case base.
type Value = any

// TimeSeries is an equally-spaced sequence of observations.
type TimeSeries []float64

// GraphNode is a labeled node in a Graph.
type GraphNode struct {
	Key   string
	Label string
}

// GraphEdge is a directed labeled edge between two nodes of a Graph.
type GraphEdge struct {
	Key    string
	Source string
	Target string
	Label  string
}

// Graph is a directed labeled graph value.
type Graph struct {
	nodes map[string]GraphNode
	edges map[string]GraphEdge
}

// NewGraph creates an empty graph.
func NewGraph() *Graph {
	return &Graph{
		nodes: make(map[string]GraphNode),
		edges: make(map[string]GraphEdge),
	}
}

// AddNode adds a node to the graph, replacing any node with the same key.
func (g *Graph) AddNode(key, label string) {
	g.nodes[key] = GraphNode{Key: key, Label: label}
}

// AddEdge adds a directed edge. Both endpoints must already exist.
func (g *Graph) AddEdge(key, source, target, label string) error {
	if _, ok := g.nodes[source]; !ok {
		return fmt.Errorf("%w: edge %q references unknown source node %q", ErrInvalidConfiguration, key, source)
	}
	if _, ok := g.nodes[target]; !ok {
		return fmt.Errorf("%w: edge %q references unknown target node %q", ErrInvalidConfiguration, key, target)
	}
	g.edges[key] = GraphEdge{Key: key, Source: source, Target: target, Label: label}
	return nil
}

// Node returns the node with the given key.
func (g *Graph) Node(key string) (GraphNode, bool) {
	n, ok := g.nodes[key]
	return n, ok
}

// Edge returns the edge with the given key.
func (g *Graph) Edge(key string) (GraphEdge, bool) {
	e, ok := g.edges[key]
	return e, ok
}

// Nodes returns the node map. Callers must not mutate it.
func (g *Graph) Nodes() map[string]GraphNode { return g.nodes }

// Edges returns the edge map. Callers must not mutate it.
func (g *Graph) Edges() map[string]GraphEdge { return g.edges }

// NodeCount returns the number of nodes.
func (g *Graph) NodeCount() int { return len(g.nodes) }

// EdgeCount returns the number of edges.
func (g *Graph) EdgeCount() int { return len(g.edges) }
