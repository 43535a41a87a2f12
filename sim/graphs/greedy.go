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


// Package graphs scores labeled graphs by building an approximate node and
// edge mapping between them.
//
// Exact graph matching is NP-hard, so the measure uses a deterministic
// greedy best-first strategy: query nodes are visited in sorted key order
// and each is mapped to the unmapped case node with the highest matcher
// score, ties resolved by key order. No stochastic step is involved, so
// repeated comparisons always produce the same mapping and score.
package graphs

import (
	"context"
	"fmt"
	"sort"

	"github.com/poiesic/casekit/core"
	"github.com/poiesic/casekit/sim"
)

// ElementMatcher scores the labels of a mapped element pair in [0, 1].
type ElementMatcher func(caseLabel, queryLabel string) float64

// equalityMatcher is the default: 1 for equal labels, 0 otherwise.
func equalityMatcher(a, b string) float64 {
	if a == b {
		return 1
	}
	return 0
}

// Greedy is an approximate graph similarity measure.
type Greedy struct {
	nodeMatcher ElementMatcher
	edgeMatcher ElementMatcher
}

// GreedyOption configures a Greedy measure.
type GreedyOption func(*Greedy)

// WithNodeMatcher sets the node label matcher. Default is label equality.
func WithNodeMatcher(m ElementMatcher) GreedyOption {
	return func(g *Greedy) {
		g.nodeMatcher = m
	}
}

// WithEdgeMatcher sets the edge label matcher. Default is label equality.
func WithEdgeMatcher(m ElementMatcher) GreedyOption {
	return func(g *Greedy) {
		g.edgeMatcher = m
	}
}

// NewGreedy creates a greedy graph matching measure.
func NewGreedy(opts ...GreedyOption) *Greedy {
	g := &Greedy{
		nodeMatcher: equalityMatcher,
		edgeMatcher: equalityMatcher,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

var _ sim.Func = (*Greedy)(nil)

// Compare implements sim.Func. The score is the sum of matcher scores over
// mapped nodes and edges, normalized by the element count of the larger
// graph. Two empty graphs score 1.
func (g *Greedy) Compare(_ context.Context, x, y core.Value) (float64, error) {
	caseGraph, ok := x.(*core.Graph)
	if !ok {
		return 0, fmt.Errorf("%w: want *core.Graph, got %T", core.ErrTypeMismatch, x)
	}
	queryGraph, ok := y.(*core.Graph)
	if !ok {
		return 0, fmt.Errorf("%w: want *core.Graph, got %T", core.ErrTypeMismatch, y)
	}

	denom := maxInt(caseGraph.NodeCount(), queryGraph.NodeCount()) +
		maxInt(caseGraph.EdgeCount(), queryGraph.EdgeCount())
	if denom == 0 {
		return 1, nil
	}

	nodeMapping, nodeScore := g.mapNodes(caseGraph, queryGraph)
	edgeScore := g.mapEdges(caseGraph, queryGraph, nodeMapping)

	return (nodeScore + edgeScore) / float64(denom), nil
}

// mapNodes greedily maps each query node to its best unmapped case node.
// The mapping is query key -> case key.
func (g *Greedy) mapNodes(caseGraph, queryGraph *core.Graph) (map[string]string, float64) {
	queryKeys := sortedNodeKeys(queryGraph)
	caseKeys := sortedNodeKeys(caseGraph)

	mapping := make(map[string]string, len(queryKeys))
	used := make(map[string]bool, len(caseKeys))
	total := 0.0

	for _, qk := range queryKeys {
		qn, _ := queryGraph.Node(qk)

		best := ""
		bestScore := -1.0
		for _, ck := range caseKeys {
			if used[ck] {
				continue
			}
			cn, _ := caseGraph.Node(ck)
			if score := g.nodeMatcher(cn.Label, qn.Label); score > bestScore {
				best = ck
				bestScore = score
			}
		}
		if best == "" {
			continue
		}
		mapping[qk] = best
		used[best] = true
		total += bestScore
	}
	return mapping, total
}

// mapEdges credits each query edge whose endpoints map onto an existing case
// edge with the same direction, taking the best-scoring such edge.
func (g *Greedy) mapEdges(caseGraph, queryGraph *core.Graph, nodeMapping map[string]string) float64 {
	total := 0.0
	used := make(map[string]bool)

	for _, qk := range sortedEdgeKeys(queryGraph) {
		qe, _ := queryGraph.Edge(qk)
		mappedSource, okS := nodeMapping[qe.Source]
		mappedTarget, okT := nodeMapping[qe.Target]
		if !okS || !okT {
			continue
		}

		best := ""
		bestScore := -1.0
		for _, ck := range sortedEdgeKeys(caseGraph) {
			if used[ck] {
				continue
			}
			ce, _ := caseGraph.Edge(ck)
			if ce.Source != mappedSource || ce.Target != mappedTarget {
				continue
			}
			if score := g.edgeMatcher(ce.Label, qe.Label); score > bestScore {
				best = ck
				bestScore = score
			}
		}
		if best == "" {
			continue
		}
		used[best] = true
		total += bestScore
	}
	return total
}

func sortedNodeKeys(g *core.Graph) []string {
	keys := make([]string, 0, g.NodeCount())
	for k := range g.Nodes() {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func sortedEdgeKeys(g *core.Graph) []string {
	keys := make([]string, 0, g.EdgeCount())
	for k := range g.Edges() {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
