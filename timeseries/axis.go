package timeseries

import (
	"math"

	"github.com/pkg/errors"
)

// YearsPerKa converts years to thousands of years.
const YearsPerKa = 1e3

// Arange returns evenly spaced values in the half-open interval [start, stop)
// with the given step. A negative step produces a decreasing sequence.
func Arange(start, stop, step float64) ([]float64, error) {
	if step == 0 || math.IsNaN(step) || math.IsInf(step, 0) {
		return nil, errors.Errorf("invalid step %v", step)
	}

	n := int(math.Ceil((stop - start) / step))
	if n <= 0 {
		return []float64{}, nil
	}

	out := make([]float64, n)
	for i := range out {
		out[i] = start + float64(i)*step
	}
	return out, nil
}

// TimeAxis returns the equally spaced axis from start to end inclusive. Step
// is the spacing magnitude; the direction follows from start and end, so
// TimeAxis(1e6, 0, 1e3) is the decreasing 1001-point axis of years before
// present.
func TimeAxis(start, end, step float64) ([]float64, error) {
	if step <= 0 || math.IsNaN(step) || math.IsInf(step, 0) {
		return nil, errors.Errorf("time step must be positive, got %v", step)
	}

	n := int(math.Floor(math.Abs(end-start)/step+1e-9)) + 1
	dir := 1.0
	if end < start {
		dir = -1
	}

	// half a step past the last point keeps it inside the half-open range
	return Arange(start, start+dir*(float64(n)-0.5)*step, dir*step)
}

// ToKa rescales an axis in years to thousands of years.
func ToKa(axis []float64) []float64 {
	out := make([]float64, len(axis))
	for i, v := range axis {
		out[i] = v / YearsPerKa
	}
	return out
}
