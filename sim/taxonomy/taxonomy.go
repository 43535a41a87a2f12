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


// Package taxonomy scores terms by their position in a fixed hierarchy.
//
// A taxonomy is a rooted tree of terms loaded from YAML. Similarity between
// two terms is derived from their lowest common ancestor: the Wu-Palmer
// measure relates the ancestor's depth to the terms' depths, while the path
// measure decays with the number of edges separating the terms.
package taxonomy

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/poiesic/casekit/core"
)

// node is one term in the hierarchy.
type node struct {
	key      string
	depth    int
	parent   *node
	children []*node
}

// Taxonomy is an immutable term hierarchy. Safe for concurrent use once
// built.
type Taxonomy struct {
	root     *node
	nodes    map[string]*node
	maxDepth int
}

// serializedNode mirrors the YAML layout: a node is either a plain string
// or a mapping with a key and optional children.
type serializedNode struct {
	Key      string
	Children []serializedNode
}

func (n *serializedNode) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind == yaml.ScalarNode {
		return value.Decode(&n.Key)
	}

	var raw struct {
		Key      string           `yaml:"key"`
		Children []serializedNode `yaml:"children"`
	}
	if err := value.Decode(&raw); err != nil {
		return err
	}
	n.Key = raw.Key
	n.Children = raw.Children
	return nil
}

// Load reads a taxonomy from a YAML file.
func Load(path string) (*Taxonomy, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading taxonomy %s: %w", path, err)
	}
	return Parse(data)
}

// Parse builds a taxonomy from YAML bytes.
func Parse(data []byte) (*Taxonomy, error) {
	var root serializedNode
	if err := yaml.Unmarshal(data, &root); err != nil {
		return nil, fmt.Errorf("%w: parsing taxonomy: %v", core.ErrInvalidConfiguration, err)
	}
	return build(root)
}

func build(root serializedNode) (*Taxonomy, error) {
	if root.Key == "" {
		return nil, fmt.Errorf("%w: taxonomy root needs a key", core.ErrInvalidConfiguration)
	}

	t := &Taxonomy{nodes: make(map[string]*node)}
	var err error
	t.root, err = t.add(root, nil, 0)
	if err != nil {
		return nil, err
	}
	return t, nil
}

func (t *Taxonomy) add(data serializedNode, parent *node, depth int) (*node, error) {
	if data.Key == "" {
		return nil, fmt.Errorf("%w: taxonomy node below %q is missing a key", core.ErrInvalidConfiguration, parentKey(parent))
	}
	if _, exists := t.nodes[data.Key]; exists {
		return nil, fmt.Errorf("%w: duplicate taxonomy term %q", core.ErrInvalidConfiguration, data.Key)
	}

	n := &node{key: data.Key, depth: depth, parent: parent}
	t.nodes[n.key] = n
	if depth > t.maxDepth {
		t.maxDepth = depth
	}

	for _, child := range data.Children {
		childNode, err := t.add(child, n, depth+1)
		if err != nil {
			return nil, err
		}
		n.children = append(n.children, childNode)
	}
	return n, nil
}

func parentKey(n *node) string {
	if n == nil {
		return "<root>"
	}
	return n.key
}

// Contains reports whether the term exists in the hierarchy.
func (t *Taxonomy) Contains(term string) bool {
	_, ok := t.nodes[term]
	return ok
}

// lca returns the lowest common ancestor of two nodes.
func (t *Taxonomy) lca(a, b *node) *node {
	for a != b {
		if a.parent == nil || b.parent == nil {
			return t.root
		}
		if a.depth > b.depth {
			a = a.parent
		} else {
			b = b.parent
		}
	}
	return a
}

// WuPalmer computes 2*depth(lca) / (depth(x) + depth(y)).
// Two root terms (depth 0) are identical by construction, scoring 1.
func (t *Taxonomy) WuPalmer(x, y string) (float64, error) {
	nx, ny, err := t.lookup(x, y)
	if err != nil {
		return 0, err
	}
	if nx == ny {
		return 1, nil
	}
	denom := nx.depth + ny.depth
	if denom == 0 {
		return 1, nil
	}
	return float64(2*t.lca(nx, ny).depth) / float64(denom), nil
}

// PathDecay computes 1 / (1 + edges), where edges is the number of edges on
// the path between the terms through their lowest common ancestor.
func (t *Taxonomy) PathDecay(x, y string) (float64, error) {
	nx, ny, err := t.lookup(x, y)
	if err != nil {
		return 0, err
	}
	anc := t.lca(nx, ny)
	edges := (nx.depth - anc.depth) + (ny.depth - anc.depth)
	return 1 / float64(1+edges), nil
}

func (t *Taxonomy) lookup(x, y string) (*node, *node, error) {
	nx, ok := t.nodes[x]
	if !ok {
		return nil, nil, fmt.Errorf("%w: term %q not in taxonomy", core.ErrLookup, x)
	}
	ny, ok := t.nodes[y]
	if !ok {
		return nil, nil, fmt.Errorf("%w: term %q not in taxonomy", core.ErrLookup, y)
	}
	return nx, ny, nil
}
