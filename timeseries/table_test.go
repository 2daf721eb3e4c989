package timeseries

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewTableRejectsRaggedRows(t *testing.T) {
	_, err := NewTable([][]float64{{1, 2, 3}, {4, 5}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "row 1")
}

func TestTransposeShapeRoundTrip(t *testing.T) {
	for _, shape := range [][2]int{{1, 1}, {1, 11}, {3, 5}, {7, 2}} {
		rows := make([][]float64, shape[0])
		for i := range rows {
			rows[i] = make([]float64, shape[1])
			for j := range rows[i] {
				rows[i][j] = float64(i*shape[1] + j)
			}
		}
		tbl, err := NewTable(rows)
		require.NoError(t, err)

		tr := tbl.Transpose()
		r, c := tr.Shape()
		assert.Equal(t, shape[1], r)
		assert.Equal(t, shape[0], c)

		back := tr.Transpose()
		for i := range rows {
			assert.Equal(t, rows[i], back.Row(i))
		}
	}
}

func TestTableSeries(t *testing.T) {
	tbl, err := NewTable([][]float64{{1, 2, 3}, {4, 5, 6}})
	require.NoError(t, err)

	assert.Equal(t, 2, tbl.NumSeries())
	assert.Equal(t, 3, tbl.NumSteps())

	s, err := tbl.Series(1, []float64{2000, 1000, 0})
	require.NoError(t, err)
	assert.Equal(t, "series_1", s.Name)
	assert.Equal(t, []float64{4, 5, 6}, s.Values)
	assert.Equal(t, []float64{2000, 1000, 0}, s.Time)

	s.Values[0] = 99
	assert.Equal(t, 4.0, tbl.Row(1)[0], "series must not alias the table")

	_, err = tbl.Series(2, nil)
	assert.Error(t, err)

	_, err = tbl.Series(0, []float64{1})
	assert.Error(t, err)
}

func TestTableHead(t *testing.T) {
	tbl, err := NewTable([][]float64{{1, 2, 3}, {4, 5, 6}, {7, 8, 9}})
	require.NoError(t, err)

	head := tbl.Head(2, 2)
	assert.Equal(t, "0\t1\t2\t...\n1\t4\t5\t...\n", head)
	assert.Equal(t, tbl.Head(10, 0), "0\t1\t2\t3\n1\t4\t5\t6\n2\t7\t8\t9\n")
}
