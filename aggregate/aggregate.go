// Package aggregate runs a change-point estimator over every series of a table
// and reduces the per-series probabilities to a population summary.
package aggregate

import (
	"github.com/mongodb/grip"
	"github.com/mongodb/grip/message"
	"github.com/pkg/errors"
	"github.com/sartorproj/tephracp/changepoint"
	"github.com/sartorproj/tephracp/stats"
	"github.com/sartorproj/tephracp/timeseries"
)

// ErrLimitExceeded is returned when the configured batch size is larger than
// the number of series in the table.
var ErrLimitExceeded = errors.New("batch size exceeds number of series")

// Aggregator processes a batch of series strictly in index order, one
// estimator call at a time.
type Aggregator struct {
	Estimator changepoint.Estimator
	Options   changepoint.Options

	// Limit caps the number of series processed. Zero processes every series.
	Limit int
	// Streaming reduces rows as they arrive instead of keeping the full
	// probability table.
	Streaming bool
	// LogEvery controls how often progress is logged at info level.
	LogEvery int
}

// Result is the outcome of a batch run.
type Result struct {
	// Probabilities holds one change-point probability vector per series.
	// It is nil in streaming mode.
	Probabilities [][]float64
	Summary       *stats.Summary
	Processed     int
}

// BatchSize returns the number of series Run will process for the table.
func (a *Aggregator) BatchSize(table *timeseries.Table) (int, error) {
	n := table.NumSeries()
	switch {
	case a.Limit < 0:
		return 0, errors.Errorf("batch size must not be negative, got %d", a.Limit)
	case a.Limit == 0:
		return n, nil
	case a.Limit > n:
		return 0, errors.Wrapf(ErrLimitExceeded, "batch size %d, table has %d series", a.Limit, n)
	}
	return a.Limit, nil
}

// Run estimates every series and summarizes the results. The first estimator
// error or malformed result aborts the batch.
func (a *Aggregator) Run(table *timeseries.Table) (*Result, error) {
	if a.Estimator == nil {
		return nil, errors.New("no estimator configured")
	}

	total, err := a.BatchSize(table)
	if err != nil {
		return nil, errors.WithStack(err)
	}
	if total == 0 {
		return nil, errors.Wrap(stats.ErrEmpty, "table has no series")
	}

	steps := table.NumSteps()
	var (
		stream *stats.StreamingSummary
		probs  [][]float64
	)
	if a.Streaming {
		if stream, err = stats.NewStreamingSummary(steps); err != nil {
			return nil, errors.WithStack(err)
		}
	} else {
		probs = make([][]float64, 0, total)
	}

	every := a.LogEvery
	if every <= 0 {
		every = 1
	}

	for i := 0; i < total; i++ {
		if i%every == 0 {
			grip.Info(message.Fields{
				"message": "estimating change points",
				"series":  i,
				"total":   total,
			})
		}

		cp, err := a.estimate(table.Row(i), steps)
		if err != nil {
			return nil, errors.Wrapf(err, "series %d", i)
		}

		if stream != nil {
			if err = stream.Add(cp); err != nil {
				return nil, errors.Wrapf(err, "series %d", i)
			}
			continue
		}
		probs = append(probs, cp)
	}

	res := &Result{Probabilities: probs, Processed: total}
	if stream != nil {
		res.Summary, err = stream.Summary()
	} else {
		res.Summary, err = stats.Summarize(probs)
	}
	if err != nil {
		return nil, errors.Wrap(err, "summarizing change point probabilities")
	}

	grip.Info(message.Fields{
		"message":   "batch complete",
		"series":    total,
		"steps":     steps,
		"streaming": a.Streaming,
	})

	return res, nil
}

func (a *Aggregator) estimate(values []float64, steps int) ([]float64, error) {
	res, err := a.Estimator.Estimate(values, a.Options)
	if err != nil {
		return nil, errors.Wrap(err, "estimating change points")
	}
	if res == nil {
		return nil, errors.New("estimator returned no result")
	}
	if len(res.Trend.CpOccPr) != steps {
		return nil, errors.Errorf("estimator returned %d probabilities for %d steps", len(res.Trend.CpOccPr), steps)
	}
	return res.Trend.CpOccPr, nil
}
