// Package timeseries provides the data structures the change-point pipeline
// works on.
//
// # Loading a Table
//
// The input is a headerless delimited file whose rows are time steps and
// whose columns are individual records. LoadTable transposes it by default so
// that every row of the returned Table is one series:
//
//	table, err := timeseries.LoadTable("input.csv", nil)
//	rows, cols := table.Shape() // rows = series, cols = time steps
//
// Keep the file orientation with custom options:
//
//	opts := timeseries.DefaultTableOptions()
//	opts.Transpose = false
//	raw, err := timeseries.LoadTable("input.csv", opts)
//
// # Time Axis
//
// Build the sampling axis in years before present:
//
//	axis, _ := timeseries.TimeAxis(1e6, 0, 1e3) // 1001 points, decreasing
//	ka := timeseries.ToKa(axis)
//
// # Series
//
// A single row can be pulled out as a Series for summary statistics and
// normalization:
//
//	s, _ := table.Series(0, axis)
//	fmt.Println(s.Mean(), s.Std(), s.Median())
//	z := s.Normalize()
package timeseries
