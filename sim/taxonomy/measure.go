package taxonomy

import (
	"context"
	"errors"
	"fmt"

	"github.com/poiesic/casekit/core"
	"github.com/poiesic/casekit/sim"
)

// MeasureName selects the taxonomy measure.
type MeasureName string

// Supported measures.
const (
	WuPalmer  MeasureName = "wu_palmer"
	PathDecay MeasureName = "path_decay"
)

// Measure is a sim.Func over taxonomy terms.
type Measure struct {
	tax         *Taxonomy
	name        MeasureName
	fallback    float64
	hasFallback bool
}

// MeasureOption configures a Measure.
type MeasureOption func(*Measure)

// WithFallback sets the score used when a term is not in the taxonomy.
// Without a fallback, unknown terms fail with core.ErrLookup.
func WithFallback(score float64) MeasureOption {
	return func(m *Measure) {
		m.fallback = score
		m.hasFallback = true
	}
}

// NewMeasure creates a taxonomy similarity measure.
func NewMeasure(tax *Taxonomy, name MeasureName, opts ...MeasureOption) (*Measure, error) {
	if tax == nil {
		return nil, fmt.Errorf("%w: taxonomy must not be nil", core.ErrInvalidConfiguration)
	}
	if name != WuPalmer && name != PathDecay {
		return nil, fmt.Errorf("%w: unknown taxonomy measure %q", core.ErrInvalidConfiguration, name)
	}

	m := &Measure{tax: tax, name: name}
	for _, opt := range opts {
		opt(m)
	}
	if m.hasFallback && (m.fallback < 0 || m.fallback > 1) {
		return nil, fmt.Errorf("%w: taxonomy fallback must be in [0, 1], got %v", core.ErrInvalidConfiguration, m.fallback)
	}
	return m, nil
}

var _ sim.Func = (*Measure)(nil)

// Compare implements sim.Func.
func (m *Measure) Compare(_ context.Context, x, y core.Value) (float64, error) {
	a, ok := x.(string)
	if !ok {
		return 0, fmt.Errorf("%w: want string, got %T", core.ErrTypeMismatch, x)
	}
	b, ok := y.(string)
	if !ok {
		return 0, fmt.Errorf("%w: want string, got %T", core.ErrTypeMismatch, y)
	}

	var score float64
	var err error
	switch m.name {
	case WuPalmer:
		score, err = m.tax.WuPalmer(a, b)
	case PathDecay:
		score, err = m.tax.PathDecay(a, b)
	}
	if err != nil {
		if m.hasFallback && errors.Is(err, core.ErrLookup) {
			return m.fallback, nil
		}
		return 0, err
	}
	return score, nil
}
