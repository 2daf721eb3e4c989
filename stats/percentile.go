// Package stats provides the order statistics used to summarize a batch of
// change-point probability vectors.
package stats

import (
	"math"
	"sort"

	mstats "github.com/montanaflynn/stats"
	"github.com/pkg/errors"
	"gonum.org/v1/gonum/floats"
)

// ErrEmpty is returned when a statistic is requested over zero observations.
var ErrEmpty = errors.New("no observations")

// Median returns the middle value of values, or the mean of the two middle
// values for an even count. Any NaN makes the result NaN.
func Median(values []float64) (float64, error) {
	if len(values) == 0 {
		return math.NaN(), ErrEmpty
	}
	if floats.HasNaN(values) {
		return math.NaN(), nil
	}

	m, err := mstats.Median(values)
	if err != nil {
		return math.NaN(), errors.WithStack(err)
	}
	return m, nil
}

// Percentile returns the p-th percentile (0 <= p <= 100) of values using
// linear interpolation between closest ranks: rank = p/100 * (n-1). Any NaN
// makes the result NaN. The input is not modified.
func Percentile(values []float64, p float64) (float64, error) {
	if len(values) == 0 {
		return math.NaN(), ErrEmpty
	}
	if p < 0 || p > 100 || math.IsNaN(p) {
		return math.NaN(), errors.Errorf("percentile %v out of range [0, 100]", p)
	}
	if floats.HasNaN(values) {
		return math.NaN(), nil
	}

	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)

	return percentileSorted(sorted, p), nil
}

// percentileSorted expects sorted, non-empty, NaN-free input.
func percentileSorted(sorted []float64, p float64) float64 {
	n := len(sorted)
	rank := p / 100 * float64(n-1)
	lower := int(math.Floor(rank))
	upper := int(math.Ceil(rank))

	if lower == upper || upper >= n {
		return sorted[lower]
	}

	frac := rank - float64(lower)
	return sorted[lower] + (sorted[upper]-sorted[lower])*frac
}
