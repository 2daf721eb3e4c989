package stats

import (
	"math"

	"github.com/pkg/errors"
	"gonum.org/v1/gonum/floats"
)

// Quartile levels used by the population summary.
const (
	Lower = 25.0
	Upper = 75.0
)

// Summary holds per-column order statistics of a series × time matrix. All
// slices have one entry per time column.
type Summary struct {
	Median []float64 `json:"median"`
	P25    []float64 `json:"percentile_25"`
	P75    []float64 `json:"percentile_75"`
	IQR    []float64 `json:"iqr"`
}

// Len returns the number of time columns.
func (s *Summary) Len() int {
	return len(s.Median)
}

// newSummary allocates a summary for n columns.
func newSummary(n int) *Summary {
	return &Summary{
		Median: make([]float64, n),
		P25:    make([]float64, n),
		P75:    make([]float64, n),
		IQR:    make([]float64, n),
	}
}

// fillIQR sets IQR = P75 - P25 for every column.
func (s *Summary) fillIQR() {
	floats.SubTo(s.IQR, s.P75, s.P25)
}

// Summarize reduces matrix (rows = series, columns = time steps) along the
// series dimension, independently per column. Every row must have the same
// length. A NaN anywhere in a column turns that column's statistics into NaN.
func Summarize(matrix [][]float64) (*Summary, error) {
	if len(matrix) == 0 {
		return nil, ErrEmpty
	}

	width := len(matrix[0])
	for i, row := range matrix {
		if len(row) != width {
			return nil, errors.Errorf("row %d has %d columns, expected %d", i, len(row), width)
		}
	}

	out := newSummary(width)
	col := make([]float64, len(matrix))
	for j := 0; j < width; j++ {
		for i, row := range matrix {
			col[i] = row[j]
		}

		med, err := Median(col)
		if err != nil {
			return nil, errors.Wrapf(err, "median of column %d", j)
		}
		out.Median[j] = med

		if math.IsNaN(med) {
			out.P25[j], out.P75[j] = math.NaN(), math.NaN()
			continue
		}

		if out.P25[j], err = Percentile(col, Lower); err != nil {
			return nil, errors.Wrapf(err, "lower quartile of column %d", j)
		}
		if out.P75[j], err = Percentile(col, Upper); err != nil {
			return nil, errors.Wrapf(err, "upper quartile of column %d", j)
		}
	}
	out.fillIQR()

	return out, nil
}
