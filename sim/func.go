package sim

import (
	"context"
	"fmt"
	"math"

	"github.com/poiesic/casekit/core"
)

// Func is the contract every similarity measure implements.
//
// Compare must be pure and deterministic: identical inputs yield identical
// scores, and no observable side effects occur. By convention x is the case
// value and y is the query value; most measures are symmetric, but composite
// measures rely on the ordering (e.g. for partial queries). Scores are
// normalized to [0, 1] where 1 means identical. A value pair outside the
// measure's declared domain fails with core.ErrTypeMismatch rather than
// producing a silent zero.
type Func interface {
	Compare(ctx context.Context, x, y core.Value) (float64, error)
}

// Detail carries a composite score together with its per-attribute
// contributions for explainability.
type Detail struct {
	Score       float64
	ByAttribute map[string]float64
}

// DetailedFunc is implemented by composite measures that can report
// per-attribute score breakdowns alongside the aggregate.
type DetailedFunc interface {
	Func
	CompareDetailed(ctx context.Context, x, y core.Value) (Detail, error)
}

// Primer is implemented by measures that benefit from seeing all values of
// a retrieval up front, e.g. to batch external embedding calls. The
// retriever calls Prime once per request before scoring begins.
type Primer interface {
	Prime(ctx context.Context, queries []core.Value, cases []core.Value) error
}

// FuncOf adapts a plain comparison function to Func.
type FuncOf func(ctx context.Context, x, y core.Value) (float64, error)

// Compare implements Func.
func (f FuncOf) Compare(ctx context.Context, x, y core.Value) (float64, error) {
	return f(ctx, x, y)
}

func typeMismatch(want string, got any) error {
	return fmt.Errorf("%w: want %s, got %T", core.ErrTypeMismatch, want, got)
}

// toFloat converts the numeric types a loader may produce to float64.
func toFloat(v core.Value) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case uint:
		return float64(n), true
	case uint32:
		return float64(n), true
	case uint64:
		return float64(n), true
	}
	return 0, false
}

// checkScore guards against measures leaking NaN or out-of-range values.
func checkScore(s float64) (float64, error) {
	if math.IsNaN(s) || math.IsInf(s, 0) {
		return 0, fmt.Errorf("%w: similarity produced non-finite score", core.ErrInvalidConfiguration)
	}
	return s, nil
}
