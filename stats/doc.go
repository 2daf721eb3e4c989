// Package stats provides order statistics over batches of change-point
// probability vectors.
//
// # Percentiles
//
// Percentile uses linear interpolation between closest ranks, the rank of
// the p-th percentile being p/100 * (n-1):
//
//	p25, _ := stats.Percentile([]float64{0.1, 0.3, 0.7, 0.9}, 25) // 0.25
//	med, _ := stats.Median([]float64{0.1, 0.3, 0.7, 0.9})         // 0.5
//
// Neither function skips missing values: a NaN in the input yields NaN.
//
// # Population Summary
//
// Summarize reduces a series × time matrix column by column:
//
//	summary, err := stats.Summarize(matrix)
//	// summary.Median, summary.P25, summary.P75, summary.IQR
//
// # Streaming
//
// When the batch is too large to keep in memory, StreamingSummary estimates
// the same quartiles with one P² estimator per column:
//
//	s, _ := stats.NewStreamingSummary(width)
//	for _, row := range rows {
//	    s.Add(row)
//	}
//	summary, _ := s.Summary()
package stats
