package sim

import (
	"context"

	"github.com/xrash/smetrics"

	"github.com/poiesic/casekit/core"
)

// Levenshtein scores two strings by normalized edit distance:
// 1 - distance(x, y) / max(len(x), len(y)). Two empty strings score 1.
type Levenshtein struct{}

// NewLevenshtein creates a normalized edit-distance measure.
func NewLevenshtein() *Levenshtein {
	return &Levenshtein{}
}

// Compare implements Func.
func (l *Levenshtein) Compare(_ context.Context, x, y core.Value) (float64, error) {
	a, ok := x.(string)
	if !ok {
		return 0, typeMismatch("string", x)
	}
	b, ok := y.(string)
	if !ok {
		return 0, typeMismatch("string", y)
	}
	if len(a) == 0 && len(b) == 0 {
		return 1, nil
	}

	dist := smetrics.WagnerFischer(a, b, 1, 1, 1)
	longest := len(a)
	if len(b) > longest {
		longest = len(b)
	}
	return 1 - float64(dist)/float64(longest), nil
}

// JaroWinkler scores two strings with the Jaro-Winkler metric, which favors
// strings sharing a common prefix.
type JaroWinkler struct {
	boostThreshold float64
	prefixSize     int
}

// NewJaroWinkler creates a Jaro-Winkler measure with the conventional
// parameters (boost threshold 0.7, prefix size 4).
func NewJaroWinkler() *JaroWinkler {
	return &JaroWinkler{boostThreshold: 0.7, prefixSize: 4}
}

// Compare implements Func.
func (j *JaroWinkler) Compare(_ context.Context, x, y core.Value) (float64, error) {
	a, ok := x.(string)
	if !ok {
		return 0, typeMismatch("string", x)
	}
	b, ok := y.(string)
	if !ok {
		return 0, typeMismatch("string", y)
	}
	if len(a) == 0 && len(b) == 0 {
		return 1, nil
	}
	return checkScore(smetrics.JaroWinkler(a, b, j.boostThreshold, j.prefixSize))
}
