// Package tephracp performs Bayesian change-point analysis over a batch of
// tephra volume records and summarizes the population of results.
//
// Every record is run through a change-point estimator that returns, per time
// step, the posterior probability of a change. The probabilities of all
// records are stacked and reduced, per time step, to the median and the 25th
// and 75th percentiles, which are plotted as a line over a shaded band.
//
// # Quick Start
//
//	table, _ := timeseries.LoadTable("records.csv", nil) // one record per row
//	axis, _ := timeseries.TimeAxis(1e6, 0, 1e3)
//
//	agg := &aggregate.Aggregator{
//	    Estimator: changepoint.NewBayes(),
//	    Options:   changepoint.DefaultOptions(),
//	}
//	res, _ := agg.Run(table)
//
//	p, _ := report.SummaryPlot(axis, res.Summary, "Change point distribution (median - IQR)")
//	report.Save(p, "cp_summary.png")
//
// Or from the command line:
//
//	tephracp analyze --config tephracp.yaml
//	tephracp inspect --record 0
//
// # Packages
//
//   - timeseries: tables, series, and time axes
//   - changepoint: estimator contract and the Bayesian implementation
//   - stats: median, percentiles, and streaming quartiles
//   - aggregate: the batch loop
//   - report: plots and summary export
//   - config: YAML configuration
//   - operations: command line entry points
package tephracp
