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


package sim

import (
	"context"
	"fmt"
	"sort"

	"github.com/poiesic/casekit/core"
)

// DefaultMaxDepth bounds composition recursion to guard against pathological
// or cyclic input data.
const DefaultMaxDepth = 32

// AttributeValue scores structured record values attribute by attribute and
// folds the per-attribute scores through an Aggregator. Attributes may be
// scored by any Func, including a nested AttributeValue for nested records,
// forming an acyclic similarity graph over the whole case shape.
//
// The composition is validated at construction time: nil measures, a reused
// node forming a cycle, or a bad aggregator fail fast with
// core.ErrInvalidConfiguration. Built once, an AttributeValue is immutable
// and safe for concurrent use across retrieval calls.
type AttributeValue struct {
	attributes map[string]Func
	names      []string
	aggregator *Aggregator
	maxDepth   int

	// queryAttributesOnly restricts scoring to the attributes present in
	// the query, allowing partial queries.
	queryAttributesOnly bool
}

// AttributeValueOption configures an AttributeValue.
type AttributeValueOption func(*AttributeValue)

// WithAggregator sets the aggregator folding attribute scores.
// Default is the arithmetic mean.
func WithAggregator(agg *Aggregator) AttributeValueOption {
	return func(av *AttributeValue) {
		av.aggregator = agg
	}
}

// WithMaxDepth overrides the recursion safety bound.
func WithMaxDepth(depth int) AttributeValueOption {
	return func(av *AttributeValue) {
		av.maxDepth = depth
	}
}

// WithPartialQueries makes the composer score only the declared attributes
// actually present in the query record instead of requiring all of them.
func WithPartialQueries() AttributeValueOption {
	return func(av *AttributeValue) {
		av.queryAttributesOnly = true
	}
}

// NewAttributeValue creates a composite measure over the given attributes.
func NewAttributeValue(attributes map[string]Func, opts ...AttributeValueOption) (*AttributeValue, error) {
	if len(attributes) == 0 {
		return nil, fmt.Errorf("%w: attribute-value measure needs at least one attribute", core.ErrInvalidConfiguration)
	}

	av := &AttributeValue{
		attributes: make(map[string]Func, len(attributes)),
		aggregator: MustAggregator(StrategyMean),
		maxDepth:   DefaultMaxDepth,
	}
	for _, opt := range opts {
		opt(av)
	}
	if av.aggregator == nil {
		return nil, fmt.Errorf("%w: aggregator must not be nil", core.ErrInvalidConfiguration)
	}
	if av.maxDepth < 1 {
		return nil, fmt.Errorf("%w: max depth must be at least 1, got %d", core.ErrInvalidConfiguration, av.maxDepth)
	}

	for name, fn := range attributes {
		if fn == nil {
			return nil, fmt.Errorf("%w: attribute %q has a nil similarity function", core.ErrInvalidConfiguration, name)
		}
		av.attributes[name] = fn
		av.names = append(av.names, name)
	}
	sort.Strings(av.names)

	if err := av.checkAcyclic(map[*AttributeValue]bool{}); err != nil {
		return nil, err
	}
	return av, nil
}

// checkAcyclic walks nested AttributeValue nodes and rejects compositions
// where a node appears in its own subtree.
func (av *AttributeValue) checkAcyclic(onPath map[*AttributeValue]bool) error {
	if onPath[av] {
		return fmt.Errorf("%w: similarity graph contains a cycle", core.ErrInvalidConfiguration)
	}
	onPath[av] = true
	defer delete(onPath, av)

	for _, name := range av.names {
		if child, ok := av.attributes[name].(*AttributeValue); ok {
			if err := child.checkAcyclic(onPath); err != nil {
				return err
			}
		}
	}
	return nil
}

// Attributes returns the declared attribute names in sorted order.
func (av *AttributeValue) Attributes() []string {
	names := make([]string, len(av.names))
	copy(names, av.names)
	return names
}

// Compare implements Func.
func (av *AttributeValue) Compare(ctx context.Context, x, y core.Value) (float64, error) {
	detail, err := av.compareAt(ctx, x, y, 0)
	if err != nil {
		return 0, err
	}
	return detail.Score, nil
}

// CompareDetailed implements DetailedFunc, reporting the per-attribute
// contributions of the top-level composition.
func (av *AttributeValue) CompareDetailed(ctx context.Context, x, y core.Value) (Detail, error) {
	return av.compareAt(ctx, x, y, 0)
}

func (av *AttributeValue) compareAt(ctx context.Context, x, y core.Value, depth int) (Detail, error) {
	if depth >= av.maxDepth {
		return Detail{}, fmt.Errorf("%w: nesting exceeds bound of %d", core.ErrGraphTooDeep, av.maxDepth)
	}

	xRec, err := toRecord(x)
	if err != nil {
		return Detail{}, err
	}
	yRec, err := toRecord(y)
	if err != nil {
		return Detail{}, err
	}

	scores := make(map[string]float64, len(av.names))
	for _, name := range av.names {
		qv, inQuery := yRec[name]
		if !inQuery {
			if av.queryAttributesOnly {
				continue
			}
			return Detail{}, fmt.Errorf("%w: query is missing attribute %q", core.ErrTypeMismatch, name)
		}

		cv, inCase := xRec[name]
		if !inCase {
			return Detail{}, fmt.Errorf("%w: case is missing attribute %q", core.ErrTypeMismatch, name)
		}

		var score float64
		if child, ok := av.attributes[name].(*AttributeValue); ok {
			nested, err := child.compareAt(ctx, cv, qv, depth+1)
			if err != nil {
				return Detail{}, fmt.Errorf("attribute %q: %w", name, err)
			}
			score = nested.Score
		} else {
			score, err = av.attributes[name].Compare(ctx, cv, qv)
			if err != nil {
				return Detail{}, fmt.Errorf("attribute %q: %w", name, err)
			}
		}
		scores[name] = score
	}

	total, err := av.aggregator.Aggregate(scores)
	if err != nil {
		return Detail{}, err
	}
	return Detail{Score: total, ByAttribute: scores}, nil
}

// Prime implements Primer by projecting attribute values out of the query
// and case records and delegating to every attribute measure that itself
// supports priming.
func (av *AttributeValue) Prime(ctx context.Context, queries []core.Value, cases []core.Value) error {
	for _, name := range av.names {
		primer, ok := av.attributes[name].(Primer)
		if !ok {
			continue
		}
		if err := primer.Prime(ctx, projectAttribute(queries, name), projectAttribute(cases, name)); err != nil {
			return err
		}
	}
	return nil
}

func projectAttribute(values []core.Value, name string) []core.Value {
	out := make([]core.Value, 0, len(values))
	for _, v := range values {
		if rec, err := toRecord(v); err == nil {
			if attr, ok := rec[name]; ok {
				out = append(out, attr)
			}
		}
	}
	return out
}

func toRecord(v core.Value) (map[string]core.Value, error) {
	switch rec := v.(type) {
	case map[string]core.Value:
		return rec, nil
	case map[string]string:
		out := make(map[string]core.Value, len(rec))
		for k, e := range rec {
			out[k] = e
		}
		return out, nil
	}
	return nil, typeMismatch("record", v)
}
