package timeseries

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// Table is a rectangular numeric table stored row-major. After loading with
// the default options each row is one series and each column one time step.
type Table struct {
	rows [][]float64
	cols int
}

// NewTable builds a table from rows. All rows must have the same length.
func NewTable(rows [][]float64) (*Table, error) {
	t := &Table{rows: rows}
	for i, r := range rows {
		if i == 0 {
			t.cols = len(r)
			continue
		}
		if len(r) != t.cols {
			return nil, errors.Errorf("row %d has %d columns, expected %d", i, len(r), t.cols)
		}
	}
	return t, nil
}

// Shape returns the number of rows and columns.
func (t *Table) Shape() (rows, cols int) {
	return len(t.rows), t.cols
}

// NumSeries is the number of rows.
func (t *Table) NumSeries() int { return len(t.rows) }

// NumSteps is the number of columns.
func (t *Table) NumSteps() int { return t.cols }

// Row returns row i. The returned slice is shared with the table and must not
// be modified.
func (t *Table) Row(i int) []float64 {
	return t.rows[i]
}

// Series returns row i as a named series on the given time axis. A nil axis
// falls back to the sample index.
func (t *Table) Series(i int, axis []float64) (*Series, error) {
	if i < 0 || i >= len(t.rows) {
		return nil, errors.Errorf("series index %d out of range [0, %d)", i, len(t.rows))
	}
	values := make([]float64, t.cols)
	copy(values, t.rows[i])

	var s *Series
	if axis == nil {
		s = New(values)
	} else {
		var err error
		if s, err = NewWithTime(axis, values); err != nil {
			return nil, errors.Wrapf(err, "series %d", i)
		}
	}
	s.Name = "series_" + strconv.Itoa(i)
	return s, nil
}

// Transpose returns a new table with rows and columns swapped.
func (t *Table) Transpose() *Table {
	out := make([][]float64, t.cols)
	for j := range out {
		out[j] = make([]float64, len(t.rows))
		for i, r := range t.rows {
			out[j][i] = r[j]
		}
	}
	return &Table{rows: out, cols: len(t.rows)}
}

// Head renders the first n rows and up to maxCols columns as text, for
// diagnostic previews.
func (t *Table) Head(n, maxCols int) string {
	if n > len(t.rows) {
		n = len(t.rows)
	}
	cols := t.cols
	if maxCols > 0 && cols > maxCols {
		cols = maxCols
	}

	var b strings.Builder
	for i := 0; i < n; i++ {
		fmt.Fprintf(&b, "%d", i)
		for _, v := range t.rows[i][:cols] {
			b.WriteString("\t")
			b.WriteString(strconv.FormatFloat(v, 'g', 6, 64))
		}
		if cols < t.cols {
			b.WriteString("\t...")
		}
		b.WriteString("\n")
	}
	return b.String()
}
