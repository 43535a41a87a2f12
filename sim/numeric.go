package sim

import (
	"context"
	"fmt"
	"math"

	"github.com/poiesic/casekit/core"
)

// Linear scores two numbers by their absolute difference relative to a
// scale: 1 - min(1, |x-y|/scale). Differences at or beyond the scale score 0.
type Linear struct {
	scale float64
}

// NewLinear creates a linear numeric measure. The scale must be positive.
func NewLinear(scale float64) (*Linear, error) {
	if scale <= 0 {
		return nil, fmt.Errorf("%w: linear scale must be positive, got %v", core.ErrInvalidConfiguration, scale)
	}
	return &Linear{scale: scale}, nil
}

// Compare implements Func.
func (l *Linear) Compare(_ context.Context, x, y core.Value) (float64, error) {
	a, ok := toFloat(x)
	if !ok {
		return 0, typeMismatch("number", x)
	}
	b, ok := toFloat(y)
	if !ok {
		return 0, typeMismatch("number", y)
	}
	return 1 - math.Min(1, math.Abs(a-b)/l.scale), nil
}

// Threshold scores 1 when the absolute difference is at most the threshold,
// 0 otherwise.
type Threshold struct {
	threshold float64
}

// NewThreshold creates a threshold numeric measure. The threshold must not
// be negative.
func NewThreshold(threshold float64) (*Threshold, error) {
	if threshold < 0 {
		return nil, fmt.Errorf("%w: threshold must not be negative, got %v", core.ErrInvalidConfiguration, threshold)
	}
	return &Threshold{threshold: threshold}, nil
}

// Compare implements Func.
func (t *Threshold) Compare(_ context.Context, x, y core.Value) (float64, error) {
	a, ok := toFloat(x)
	if !ok {
		return 0, typeMismatch("number", x)
	}
	b, ok := toFloat(y)
	if !ok {
		return 0, typeMismatch("number", y)
	}
	if math.Abs(a-b) <= t.threshold {
		return 1, nil
	}
	return 0, nil
}

// Exponential scores exp(-alpha * |x-y|). Larger alpha makes the similarity
// fall off faster.
type Exponential struct {
	alpha float64
}

// NewExponential creates an exponential numeric measure. Alpha must be
// positive.
func NewExponential(alpha float64) (*Exponential, error) {
	if alpha <= 0 {
		return nil, fmt.Errorf("%w: exponential alpha must be positive, got %v", core.ErrInvalidConfiguration, alpha)
	}
	return &Exponential{alpha: alpha}, nil
}

// Compare implements Func.
func (e *Exponential) Compare(_ context.Context, x, y core.Value) (float64, error) {
	a, ok := toFloat(x)
	if !ok {
		return 0, typeMismatch("number", x)
	}
	b, ok := toFloat(y)
	if !ok {
		return 0, typeMismatch("number", y)
	}
	return math.Exp(-e.alpha * math.Abs(a-b)), nil
}

// Sigmoid scores 1 / (1 + exp((|x-y| - theta) / alpha)). Theta is the
// difference at which the similarity is 0.5; alpha controls the steepness.
type Sigmoid struct {
	alpha float64
	theta float64
}

// NewSigmoid creates a sigmoid numeric measure. Alpha must be positive and
// theta must not be negative.
func NewSigmoid(alpha, theta float64) (*Sigmoid, error) {
	if alpha <= 0 {
		return nil, fmt.Errorf("%w: sigmoid alpha must be positive, got %v", core.ErrInvalidConfiguration, alpha)
	}
	if theta < 0 {
		return nil, fmt.Errorf("%w: sigmoid theta must not be negative, got %v", core.ErrInvalidConfiguration, theta)
	}
	return &Sigmoid{alpha: alpha, theta: theta}, nil
}

// Compare implements Func.
func (s *Sigmoid) Compare(_ context.Context, x, y core.Value) (float64, error) {
	a, ok := toFloat(x)
	if !ok {
		return 0, typeMismatch("number", x)
	}
	b, ok := toFloat(y)
	if !ok {
		return 0, typeMismatch("number", y)
	}
	return 1.0 / (1.0 + math.Exp((math.Abs(a-b)-s.theta)/s.alpha)), nil
}
