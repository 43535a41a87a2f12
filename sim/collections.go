package sim

import (
	"context"
	"fmt"

	"github.com/poiesic/casekit/core"
)

// toSet converts slice-shaped values into a set. Elements must be comparable.
func toSet(v core.Value) (map[any]struct{}, error) {
	out := make(map[any]struct{})
	switch s := v.(type) {
	case []string:
		for _, e := range s {
			out[e] = struct{}{}
		}
	case []int:
		for _, e := range s {
			out[e] = struct{}{}
		}
	case []float64:
		for _, e := range s {
			out[e] = struct{}{}
		}
	case []any:
		for _, e := range s {
			if err := safeInsert(out, e); err != nil {
				return nil, err
			}
		}
	default:
		return nil, typeMismatch("slice", v)
	}
	return out, nil
}

func intersectionSize(x, y map[any]struct{}) int {
	small, large := x, y
	if len(y) < len(x) {
		small, large = y, x
	}
	n := 0
	for e := range small {
		if _, ok := large[e]; ok {
			n++
		}
	}
	return n
}

// Jaccard scores two collections by |x ∩ y| / |x ∪ y| over their element
// sets. Two empty collections score 1; an empty against a non-empty one
// scores 0.
type Jaccard struct{}

// NewJaccard creates a Jaccard set-overlap measure.
func NewJaccard() *Jaccard {
	return &Jaccard{}
}

// Compare implements Func.
func (j *Jaccard) Compare(_ context.Context, x, y core.Value) (float64, error) {
	xs, err := toSet(x)
	if err != nil {
		return 0, err
	}
	ys, err := toSet(y)
	if err != nil {
		return 0, err
	}
	if len(xs) == 0 && len(ys) == 0 {
		return 1, nil
	}

	inter := intersectionSize(xs, ys)
	union := len(xs) + len(ys) - inter
	return float64(inter) / float64(union), nil
}

// Overlap scores two collections with the overlap coefficient
// |x ∩ y| / min(|x|, |y|). Two empty collections score 1; an empty against
// a non-empty one scores 0.
type Overlap struct{}

// NewOverlap creates an overlap-coefficient measure.
func NewOverlap() *Overlap {
	return &Overlap{}
}

// Compare implements Func.
func (o *Overlap) Compare(_ context.Context, x, y core.Value) (float64, error) {
	xs, err := toSet(x)
	if err != nil {
		return 0, err
	}
	ys, err := toSet(y)
	if err != nil {
		return 0, err
	}
	if len(xs) == 0 && len(ys) == 0 {
		return 1, nil
	}
	if len(xs) == 0 || len(ys) == 0 {
		return 0, nil
	}

	smaller := len(xs)
	if len(ys) < smaller {
		smaller = len(ys)
	}
	return float64(intersectionSize(xs, ys)) / float64(smaller), nil
}

// safeInsert surfaces non-comparable elements as a typed error rather than
// a runtime panic from the map insert.
func safeInsert(set map[any]struct{}, e any) (err error) {
	defer func() {
		if recover() != nil {
			err = fmt.Errorf("%w: collection element %T is not comparable", core.ErrTypeMismatch, e)
		}
	}()
	set[e] = struct{}{}
	return nil
}
