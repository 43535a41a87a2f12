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
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/poiesic/casekit/ai"
	"github.com/poiesic/casekit/core"
	"github.com/poiesic/casekit/sim"
	"github.com/poiesic/casekit/sim/embed"
	"github.com/poiesic/casekit/sim/graphs"
	"github.com/poiesic/casekit/sim/taxonomy"
	"github.com/poiesic/casekit/sim/timeseries"
)

// FuncSpec is the YAML description of a similarity function. The Type
// field selects the measure; the remaining fields configure it and nested
// attribute_value specs recurse.
type FuncSpec struct {
	Type string `yaml:"type"`

	// numeric measures
	Scale     float64 `yaml:"scale"`
	Threshold float64 `yaml:"threshold"`
	Alpha     float64 `yaml:"alpha"`
	Theta     float64 `yaml:"theta"`

	// static
	Value float64 `yaml:"value"`

	// table
	Entries   []TableEntrySpec `yaml:"entries"`
	Symmetric bool             `yaml:"symmetric"`
	Default   *float64         `yaml:"default"`

	// taxonomy
	Path     string   `yaml:"path"`
	Measure  string   `yaml:"measure"`
	Fallback *float64 `yaml:"fallback"`

	// attribute_value
	Attributes     map[string]*FuncSpec `yaml:"attributes"`
	Aggregator     string               `yaml:"aggregator"`
	Weights        map[string]float64   `yaml:"weights"`
	MaxDepth       int                  `yaml:"max_depth"`
	PartialQueries bool                 `yaml:"partial_queries"`
}

// TableEntrySpec is one row of a table measure in YAML form.
type TableEntrySpec struct {
	X     string  `yaml:"x"`
	Y     string  `yaml:"y"`
	Score float64 `yaml:"score"`
}

// FuncBuilder turns FuncSpec trees into similarity functions.
type FuncBuilder struct {
	embedder ai.Embedder
}

// BuilderOption configures a FuncBuilder.
type BuilderOption func(*FuncBuilder)

// WithEmbedder supplies the embedder backing "embedding" specs. Specs
// using that type fail to build without one.
func WithEmbedder(embedder ai.Embedder) BuilderOption {
	return func(b *FuncBuilder) {
		b.embedder = embedder
	}
}

// NewFuncBuilder creates a builder.
func NewFuncBuilder(opts ...BuilderOption) *FuncBuilder {
	b := &FuncBuilder{}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Load reads a YAML spec file and builds the function it describes.
func (b *FuncBuilder) Load(path string) (sim.Func, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading similarity config: %w", err)
	}

	var spec FuncSpec
	if err := yaml.Unmarshal(data, &spec); err != nil {
		return nil, fmt.Errorf("parsing similarity config: %w", err)
	}
	return b.Build(&spec)
}

// Build constructs the similarity function a spec describes.
func (b *FuncBuilder) Build(spec *FuncSpec) (sim.Func, error) {
	if spec == nil {
		return nil, fmt.Errorf("%w: similarity spec is nil", core.ErrInvalidConfiguration)
	}

	switch spec.Type {
	case "linear":
		return sim.NewLinear(spec.Scale)
	case "threshold":
		return sim.NewThreshold(spec.Threshold)
	case "exponential":
		return sim.NewExponential(spec.Alpha)
	case "sigmoid":
		return sim.NewSigmoid(spec.Alpha, spec.Theta)
	case "levenshtein":
		return sim.NewLevenshtein(), nil
	case "jaro_winkler":
		return sim.NewJaroWinkler(), nil
	case "equality":
		return sim.NewEquality(), nil
	case "static":
		return sim.NewStatic(spec.Value)
	case "table":
		return b.buildTable(spec)
	case "jaccard":
		return sim.NewJaccard(), nil
	case "overlap":
		return sim.NewOverlap(), nil
	case "taxonomy":
		return b.buildTaxonomy(spec)
	case "dtw":
		return timeseries.NewDTW(), nil
	case "graph":
		return graphs.NewGreedy(), nil
	case "embedding":
		if b.embedder == nil {
			return nil, fmt.Errorf("%w: embedding spec needs an embedder", core.ErrInvalidConfiguration)
		}
		return embed.NewCosine(b.embedder)
	case "attribute_value":
		return b.buildAttributeValue(spec)
	case "":
		return nil, fmt.Errorf("%w: similarity spec is missing a type", core.ErrInvalidConfiguration)
	default:
		return nil, fmt.Errorf("%w: unknown similarity type %q", core.ErrInvalidConfiguration, spec.Type)
	}
}

func (b *FuncBuilder) buildTable(spec *FuncSpec) (sim.Func, error) {
	entries := make([]sim.TableEntry, len(spec.Entries))
	for i, entry := range spec.Entries {
		entries[i] = sim.TableEntry{X: entry.X, Y: entry.Y, Score: entry.Score}
	}

	var opts []sim.TableOption
	if spec.Default != nil {
		opts = append(opts, sim.WithTableDefault(*spec.Default))
	}
	return sim.NewTable(entries, spec.Symmetric, opts...)
}

func (b *FuncBuilder) buildTaxonomy(spec *FuncSpec) (sim.Func, error) {
	tax, err := taxonomy.Load(spec.Path)
	if err != nil {
		return nil, err
	}

	name := taxonomy.MeasureName(spec.Measure)
	if spec.Measure == "" {
		name = taxonomy.WuPalmer
	}

	var opts []taxonomy.MeasureOption
	if spec.Fallback != nil {
		opts = append(opts, taxonomy.WithFallback(*spec.Fallback))
	}
	return taxonomy.NewMeasure(tax, name, opts...)
}

func (b *FuncBuilder) buildAttributeValue(spec *FuncSpec) (sim.Func, error) {
	if len(spec.Attributes) == 0 {
		return nil, fmt.Errorf("%w: attribute_value spec has no attributes", core.ErrInvalidConfiguration)
	}

	attributes := make(map[string]sim.Func, len(spec.Attributes))
	for name, child := range spec.Attributes {
		fn, err := b.Build(child)
		if err != nil {
			return nil, fmt.Errorf("attribute %q: %w", name, err)
		}
		attributes[name] = fn
	}

	var opts []sim.AttributeValueOption
	if spec.Aggregator != "" || len(spec.Weights) > 0 {
		strategy := sim.Strategy(spec.Aggregator)
		if spec.Aggregator == "" {
			strategy = sim.StrategyWeightedMean
		}

		var aggOpts []sim.AggregatorOption
		if len(spec.Weights) > 0 {
			aggOpts = append(aggOpts, sim.WithWeights(spec.Weights))
		}
		agg, err := sim.NewAggregator(strategy, aggOpts...)
		if err != nil {
			return nil, err
		}
		opts = append(opts, sim.WithAggregator(agg))
	}
	if spec.MaxDepth > 0 {
		opts = append(opts, sim.WithMaxDepth(spec.MaxDepth))
	}
	if spec.PartialQueries {
		opts = append(opts, sim.WithPartialQueries())
	}
	return sim.NewAttributeValue(attributes, opts...)
}
