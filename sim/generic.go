package sim

import (
	"context"
	"fmt"
	"reflect"

	"github.com/poiesic/casekit/core"
)

// Equality scores 1 when the two values are deeply equal, 0 otherwise.
// It accepts values of any type.
type Equality struct{}

// NewEquality creates an exact-equality measure.
func NewEquality() *Equality {
	return &Equality{}
}

// Compare implements Func.
func (e *Equality) Compare(_ context.Context, x, y core.Value) (float64, error) {
	if reflect.DeepEqual(x, y) {
		return 1, nil
	}
	return 0, nil
}

// Static returns a constant score for every pair. Useful as a fallback in
// table lookups and for testing compositions.
type Static struct {
	value float64
}

// NewStatic creates a constant measure. The value must lie in [0, 1].
func NewStatic(value float64) (*Static, error) {
	if value < 0 || value > 1 {
		return nil, fmt.Errorf("%w: static similarity must be in [0, 1], got %v", core.ErrInvalidConfiguration, value)
	}
	return &Static{value: value}, nil
}

// Compare implements Func.
func (s *Static) Compare(_ context.Context, _, _ core.Value) (float64, error) {
	return s.value, nil
}

// TableEntry is one row of a Table measure.
type TableEntry struct {
	X     string
	Y     string
	Score float64
}

// Table looks up the similarity of a string pair in a fixed table.
// Pairs absent from the table fall back to a configured default score, or
// fail with core.ErrLookup when no default is set.
type Table struct {
	entries     map[[2]string]float64
	fallback    float64
	hasFallback bool
}

// TableOption configures a Table.
type TableOption func(*Table)

// WithTableDefault sets the score returned for pairs missing from the table.
func WithTableDefault(score float64) TableOption {
	return func(t *Table) {
		t.fallback = score
		t.hasFallback = true
	}
}

// NewTable creates a table measure. When symmetric is true each entry also
// covers the mirrored pair. All scores must lie in [0, 1].
func NewTable(entries []TableEntry, symmetric bool, opts ...TableOption) (*Table, error) {
	t := &Table{entries: make(map[[2]string]float64, len(entries))}
	for _, opt := range opts {
		opt(t)
	}

	if t.hasFallback && (t.fallback < 0 || t.fallback > 1) {
		return nil, fmt.Errorf("%w: table default must be in [0, 1], got %v", core.ErrInvalidConfiguration, t.fallback)
	}
	for _, e := range entries {
		if e.Score < 0 || e.Score > 1 {
			return nil, fmt.Errorf("%w: table score for (%q, %q) must be in [0, 1], got %v",
				core.ErrInvalidConfiguration, e.X, e.Y, e.Score)
		}
		t.entries[[2]string{e.X, e.Y}] = e.Score
		if symmetric {
			t.entries[[2]string{e.Y, e.X}] = e.Score
		}
	}
	return t, nil
}

// Compare implements Func.
func (t *Table) Compare(_ context.Context, x, y core.Value) (float64, error) {
	a, ok := x.(string)
	if !ok {
		return 0, typeMismatch("string", x)
	}
	b, ok := y.(string)
	if !ok {
		return 0, typeMismatch("string", y)
	}

	if score, ok := t.entries[[2]string{a, b}]; ok {
		return score, nil
	}
	if t.hasFallback {
		return t.fallback, nil
	}
	return 0, fmt.Errorf("%w: pair (%q, %q) not in similarity table", core.ErrLookup, a, b)
}
