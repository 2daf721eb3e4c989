package operations

import (
	"github.com/mongodb/grip"
	"github.com/mongodb/grip/message"
	"github.com/pkg/errors"
	"github.com/sartorproj/tephracp/aggregate"
	"github.com/sartorproj/tephracp/changepoint"
	"github.com/sartorproj/tephracp/config"
	"github.com/sartorproj/tephracp/report"
	"github.com/urfave/cli"
)

// Analyze returns the entry point for the batch change point analysis.
func Analyze() cli.Command {
	return cli.Command{
		Name:  "analyze",
		Usage: "estimate change points for every record and plot the population median and IQR",
		Flags: batchFlags(estimatorFlags(inputFlags()...)...),
		Action: func(c *cli.Context) error {
			cfg, err := resolveConfig(c)
			if err != nil {
				return errors.WithStack(err)
			}
			_, err = analyze(cfg, changepoint.NewBayes())
			return errors.WithStack(err)
		},
	}
}

// analyze runs the whole pipeline: load, optional single record diagnostic,
// batch estimation, summary, plots.
func analyze(cfg *config.Config, est changepoint.Estimator) (*aggregate.Result, error) {
	table, err := loadTable(cfg)
	if err != nil {
		return nil, errors.WithStack(err)
	}

	axis, err := timeAxis(cfg, table)
	if err != nil {
		return nil, errors.WithStack(err)
	}

	if cfg.Batch.DebugRecord != nil {
		if _, err = inspectRecord(cfg, table, axis, est, *cfg.Batch.DebugRecord); err != nil {
			return nil, errors.WithStack(err)
		}
	}

	opts, err := cfg.EstimatorOptions()
	if err != nil {
		return nil, errors.WithStack(err)
	}

	agg := &aggregate.Aggregator{
		Estimator: est,
		Options:   opts,
		Limit:     cfg.Batch.Limit,
		Streaming: cfg.Batch.Streaming,
		LogEvery:  cfg.Batch.LogEvery,
	}

	section("batch change point analysis")
	res, err := agg.Run(table)
	if err != nil {
		return nil, errors.Wrap(err, "batch analysis aborted")
	}

	section("median, 25th and 75th percentiles, and IQR")
	p, err := report.SummaryPlot(axis, res.Summary, "Change point distribution (median - IQR)")
	if err != nil {
		return nil, errors.WithStack(err)
	}
	if err = report.Save(p, cfg.Output.SummaryPlot); err != nil {
		return nil, errors.WithStack(err)
	}

	if cfg.Output.Summary != "" {
		if err = report.ExportFile(cfg.Output.Summary, axis, res.Processed, res.Summary); err != nil {
			return nil, errors.WithStack(err)
		}
	}

	grip.Info(message.Fields{
		"message":      "analysis complete",
		"series":       res.Processed,
		"summary_plot": cfg.Output.SummaryPlot,
		"summary":      cfg.Output.Summary,
	})

	return res, nil
}
