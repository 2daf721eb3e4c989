// Package timeseries provides the series, table, and time axis types used by
// the change-point pipeline.
package timeseries

import (
	"math"
	"sort"

	"github.com/pkg/errors"
)

// Series represents one observed record: values sampled on a time axis
// expressed in years.
type Series struct {
	Time   []float64
	Values []float64
	Name   string
}

// New creates a new series from values. The time axis is the sample index.
func New(values []float64) *Series {
	t := make([]float64, len(values))
	for i := range t {
		t[i] = float64(i)
	}
	return &Series{
		Time:   t,
		Values: values,
	}
}

// NewWithTime creates a series with an explicit time axis.
func NewWithTime(t, values []float64) (*Series, error) {
	if len(t) != len(values) {
		return nil, errors.Errorf("time axis has %d points but series has %d values", len(t), len(values))
	}
	return &Series{
		Time:   t,
		Values: values,
	}, nil
}

// Len returns the length of the series.
func (s *Series) Len() int {
	return len(s.Values)
}

// Mean calculates the arithmetic mean of the series.
func (s *Series) Mean() float64 {
	if len(s.Values) == 0 {
		return 0
	}
	sum := 0.0
	for _, v := range s.Values {
		sum += v
	}
	return sum / float64(len(s.Values))
}

// Variance calculates the sample variance of the series.
func (s *Series) Variance() float64 {
	if len(s.Values) < 2 {
		return 0
	}
	mean := s.Mean()
	sumSq := 0.0
	for _, v := range s.Values {
		diff := v - mean
		sumSq += diff * diff
	}
	return sumSq / float64(len(s.Values)-1)
}

// Std calculates the standard deviation of the series.
func (s *Series) Std() float64 {
	return math.Sqrt(s.Variance())
}

// Min returns the minimum value in the series.
func (s *Series) Min() float64 {
	if len(s.Values) == 0 {
		return math.NaN()
	}
	min := s.Values[0]
	for _, v := range s.Values[1:] {
		if v < min {
			min = v
		}
	}
	return min
}

// Max returns the maximum value in the series.
func (s *Series) Max() float64 {
	if len(s.Values) == 0 {
		return math.NaN()
	}
	max := s.Values[0]
	for _, v := range s.Values[1:] {
		if v > max {
			max = v
		}
	}
	return max
}

// Median returns the median value of the series.
func (s *Series) Median() float64 {
	if len(s.Values) == 0 {
		return math.NaN()
	}
	sorted := make([]float64, len(s.Values))
	copy(sorted, s.Values)
	sort.Float64s(sorted)

	n := len(sorted)
	if n%2 == 0 {
		return (sorted[n/2-1] + sorted[n/2]) / 2
	}
	return sorted[n/2]
}

// IsFinite reports whether every value is a finite number.
func (s *Series) IsFinite() bool {
	for _, v := range s.Values {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

// Observed returns the series without its NaN samples, which mark missing
// observations. Times are kept alongside the remaining values.
func (s *Series) Observed() *Series {
	out := &Series{Name: s.Name}
	for i, v := range s.Values {
		if math.IsNaN(v) {
			continue
		}
		out.Values = append(out.Values, v)
		if i < len(s.Time) {
			out.Time = append(out.Time, s.Time[i])
		}
	}
	return out
}

// Copy creates a deep copy of the series.
func (s *Series) Copy() *Series {
	values := make([]float64, len(s.Values))
	copy(values, s.Values)

	t := make([]float64, len(s.Time))
	copy(t, s.Time)

	return &Series{
		Time:   t,
		Values: values,
		Name:   s.Name,
	}
}

// Normalize standardizes the series (z-score normalization) using the
// statistics of its observed samples. A constant series is centered to zero
// instead. NaN samples stay NaN.
func (s *Series) Normalize() *Series {
	obs := s.Observed()
	mean := obs.Mean()
	std := obs.Std()

	out := s.Copy()
	for i, v := range out.Values {
		if std == 0 {
			out.Values[i] = v - mean
			continue
		}
		out.Values[i] = (v - mean) / std
	}
	out.Name = s.Name + "_normalized"

	return out
}
