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
	"fmt"
	"math"
	"sort"

	"github.com/poiesic/casekit/core"
)

// Strategy selects how an Aggregator folds per-attribute scores into one.
type Strategy string

// Aggregation strategies.
const (
	StrategyMean          Strategy = "mean"
	StrategyWeightedMean  Strategy = "weighted_mean"
	StrategyMin           Strategy = "min"
	StrategyMax           Strategy = "max"
	StrategyMedian        Strategy = "median"
	StrategyGeometricMean Strategy = "geometric_mean"
	StrategyHarmonicMean  Strategy = "harmonic_mean"
	// StrategyProduct is the fuzzy product t-norm: the product of all scores.
	StrategyProduct Strategy = "product"
	// StrategyProbSum is the probabilistic sum t-conorm: 1 - prod(1 - s).
	StrategyProbSum Strategy = "prob_sum"
)

var strategies = map[Strategy]bool{
	StrategyMean:          true,
	StrategyWeightedMean:  true,
	StrategyMin:           true,
	StrategyMax:           true,
	StrategyMedian:        true,
	StrategyGeometricMean: true,
	StrategyHarmonicMean:  true,
	StrategyProduct:       true,
	StrategyProbSum:       true,
}

// Aggregator folds a mapping of per-attribute scores into a single score.
// Weights are normalized internally, so they need not sum to 1.
type Aggregator struct {
	strategy           Strategy
	weights            map[string]float64
	dropMissingWeights bool
}

// AggregatorOption configures an Aggregator.
type AggregatorOption func(*Aggregator)

// WithWeights sets per-attribute weights. Only meaningful together with
// StrategyWeightedMean. Attributes without a configured weight default to 1.
func WithWeights(weights map[string]float64) AggregatorOption {
	return func(a *Aggregator) {
		a.weights = weights
	}
}

// WithDropMissingWeights makes the weighted mean silently drop configured
// weights whose attribute produced no score, instead of failing with
// core.ErrMissingWeight. The policy is explicit configuration by design of
// the aggregation contract.
func WithDropMissingWeights() AggregatorOption {
	return func(a *Aggregator) {
		a.dropMissingWeights = true
	}
}

// NewAggregator creates an aggregator with the given strategy.
// Weight validation happens here, at construction time: weights must not be
// negative and at least one must be positive.
func NewAggregator(strategy Strategy, opts ...AggregatorOption) (*Aggregator, error) {
	if !strategies[strategy] {
		return nil, fmt.Errorf("%w: unknown aggregation strategy %q", core.ErrInvalidConfiguration, strategy)
	}

	a := &Aggregator{strategy: strategy}
	for _, opt := range opts {
		opt(a)
	}

	if a.weights != nil {
		positive := false
		for name, w := range a.weights {
			if w < 0 {
				return nil, fmt.Errorf("%w: weight for %q must not be negative, got %v", core.ErrInvalidConfiguration, name, w)
			}
			if w > 0 {
				positive = true
			}
		}
		if !positive {
			return nil, fmt.Errorf("%w: at least one weight must be positive", core.ErrInvalidConfiguration)
		}
	}
	return a, nil
}

// MustAggregator is like NewAggregator but panics on configuration errors.
// Intended for package-level defaults with known-good arguments.
func MustAggregator(strategy Strategy, opts ...AggregatorOption) *Aggregator {
	a, err := NewAggregator(strategy, opts...)
	if err != nil {
		panic(err)
	}
	return a
}

// Aggregate folds the scores into one. An empty scores map fails with
// core.ErrEmptyInput.
func (a *Aggregator) Aggregate(scores map[string]float64) (float64, error) {
	if len(scores) == 0 {
		return 0, fmt.Errorf("%w: aggregator received no scores", core.ErrEmptyInput)
	}

	if a.strategy == StrategyWeightedMean {
		return a.weightedMean(scores)
	}

	// Sorted iteration keeps order-sensitive strategies deterministic.
	keys := make([]string, 0, len(scores))
	for k := range scores {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	values := make([]float64, len(keys))
	for i, k := range keys {
		values[i] = scores[k]
	}

	switch a.strategy {
	case StrategyMean:
		sum := 0.0
		for _, v := range values {
			sum += v
		}
		return sum / float64(len(values)), nil
	case StrategyMin:
		m := values[0]
		for _, v := range values[1:] {
			if v < m {
				m = v
			}
		}
		return m, nil
	case StrategyMax:
		m := values[0]
		for _, v := range values[1:] {
			if v > m {
				m = v
			}
		}
		return m, nil
	case StrategyMedian:
		sort.Float64s(values)
		mid := len(values) / 2
		if len(values)%2 == 1 {
			return values[mid], nil
		}
		return (values[mid-1] + values[mid]) / 2, nil
	case StrategyGeometricMean:
		prod := 1.0
		for _, v := range values {
			prod *= v
		}
		return math.Pow(prod, 1/float64(len(values))), nil
	case StrategyHarmonicMean:
		sum := 0.0
		for _, v := range values {
			if v == 0 {
				return 0, nil
			}
			sum += 1 / v
		}
		return float64(len(values)) / sum, nil
	case StrategyProduct:
		prod := 1.0
		for _, v := range values {
			prod *= v
		}
		return prod, nil
	case StrategyProbSum:
		prod := 1.0
		for _, v := range values {
			prod *= 1 - v
		}
		return 1 - prod, nil
	}
	return 0, fmt.Errorf("%w: unknown aggregation strategy %q", core.ErrInvalidConfiguration, a.strategy)
}

func (a *Aggregator) weightedMean(scores map[string]float64) (float64, error) {
	for name := range a.weights {
		if _, ok := scores[name]; !ok && !a.dropMissingWeights {
			return 0, fmt.Errorf("%w: weight configured for %q but no score present", core.ErrMissingWeight, name)
		}
	}

	sum := 0.0
	denom := 0.0
	for name, score := range scores {
		weight := 1.0
		if a.weights != nil {
			if w, ok := a.weights[name]; ok {
				weight = w
			}
		}
		sum += score * weight
		denom += weight
	}
	if denom == 0 {
		return 0, fmt.Errorf("%w: weighted mean with all-zero weights", core.ErrInvalidConfiguration)
	}
	return sum / denom, nil
}
