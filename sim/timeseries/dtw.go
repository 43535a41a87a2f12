// Package timeseries scores sequences of observations by aligning them with
// dynamic time warping, which tolerates sequences of unequal length and
// local time shifts.
package timeseries

import (
	"context"
	"fmt"
	"math"

	"github.com/poiesic/casekit/core"
	"github.com/poiesic/casekit/sim"
)

// DTW aligns two sequences with dynamic time warping and turns the average
// per-step alignment cost into a similarity: 1 / (1 + cost/(len(x)+len(y))).
//
// Degenerate inputs are defined explicitly rather than inherited from the
// recurrence: two empty sequences score 1, an empty against a non-empty
// sequence scores 0.
type DTW struct{}

// NewDTW creates a dynamic-time-warping measure.
func NewDTW() *DTW {
	return &DTW{}
}

var _ sim.Func = (*DTW)(nil)

// Compare implements sim.Func.
func (d *DTW) Compare(_ context.Context, x, y core.Value) (float64, error) {
	a, err := toSeries(x)
	if err != nil {
		return 0, err
	}
	b, err := toSeries(y)
	if err != nil {
		return 0, err
	}

	if len(a) == 0 && len(b) == 0 {
		return 1, nil
	}
	if len(a) == 0 || len(b) == 0 {
		return 0, nil
	}

	cost := alignmentCost(a, b)
	normalized := cost / float64(len(a)+len(b))
	return 1 / (1 + normalized), nil
}

// alignmentCost computes the classic DTW cumulative cost with absolute
// difference as the local distance. Two rolling rows keep memory at O(len(b)).
func alignmentCost(a, b []float64) float64 {
	prev := make([]float64, len(b)+1)
	curr := make([]float64, len(b)+1)

	for j := 1; j <= len(b); j++ {
		prev[j] = math.Inf(1)
	}

	for i := 1; i <= len(a); i++ {
		curr[0] = math.Inf(1)
		for j := 1; j <= len(b); j++ {
			d := math.Abs(a[i-1] - b[j-1])
			curr[j] = d + math.Min(prev[j], math.Min(curr[j-1], prev[j-1]))
		}
		prev, curr = curr, prev
	}
	return prev[len(b)]
}

func toSeries(v core.Value) ([]float64, error) {
	switch s := v.(type) {
	case core.TimeSeries:
		return s, nil
	case []float64:
		return s, nil
	case []int:
		out := make([]float64, len(s))
		for i, e := range s {
			out[i] = float64(e)
		}
		return out, nil
	case []any:
		out := make([]float64, len(s))
		for i, e := range s {
			f, ok := toNumber(e)
			if !ok {
				return nil, fmt.Errorf("%w: time series element %d is %T, want number", core.ErrTypeMismatch, i, e)
			}
			out[i] = f
		}
		return out, nil
	}
	return nil, fmt.Errorf("%w: want time series, got %T", core.ErrTypeMismatch, v)
}

func toNumber(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	}
	return 0, false
}
