package operations

import (
	"github.com/mongodb/grip"
	"github.com/mongodb/grip/message"
	"github.com/pkg/errors"
	"github.com/sartorproj/tephracp/changepoint"
	"github.com/sartorproj/tephracp/config"
	"github.com/sartorproj/tephracp/report"
	"github.com/sartorproj/tephracp/timeseries"
	"github.com/urfave/cli"
)

// Inspect returns the entry point for the single record diagnostic.
func Inspect() cli.Command {
	return cli.Command{
		Name:  "inspect",
		Usage: "estimate and plot the change point probability of a single record",
		Flags: recordFlags(estimatorFlags(inputFlags()...)...),
		Action: func(c *cli.Context) error {
			cfg, err := resolveConfig(c)
			if err != nil {
				return errors.WithStack(err)
			}

			table, err := loadTable(cfg)
			if err != nil {
				return errors.WithStack(err)
			}
			axis, err := timeAxis(cfg, table)
			if err != nil {
				return errors.WithStack(err)
			}

			idx := c.Int(recordFlag)
			if cfg.Batch.DebugRecord != nil {
				idx = *cfg.Batch.DebugRecord
			}
			_, err = inspectRecord(cfg, table, axis, changepoint.NewBayes(), idx)
			return errors.WithStack(err)
		},
	}
}

// inspectRecord estimates one record with the batch options and plots its
// change point probability.
func inspectRecord(cfg *config.Config, table *timeseries.Table, axis []float64, est changepoint.Estimator, idx int) (*changepoint.Result, error) {
	section("single record change point analysis")

	series, err := table.Series(idx, axis)
	if err != nil {
		return nil, errors.WithStack(err)
	}

	opts, err := cfg.EstimatorOptions()
	if err != nil {
		return nil, errors.WithStack(err)
	}

	res, err := est.Estimate(series.Values, opts)
	if err != nil {
		return nil, errors.Wrapf(err, "estimating record %d", idx)
	}
	if len(res.Trend.CpOccPr) != series.Len() {
		return nil, errors.Errorf("estimator returned %d probabilities for %d steps", len(res.Trend.CpOccPr), series.Len())
	}

	grip.Info(message.Fields{
		"message":  "record estimated",
		"record":   idx,
		"steps":    series.Len(),
		"mean":     series.Mean(),
		"median":   series.Median(),
		"min":      series.Min(),
		"max":      series.Max(),
		"ncp":      res.Trend.Ncp,
		"evidence": res.LogEvidence,
	})
	grip.Debug(message.Fields{
		"message": "record change point probability",
		"record":  idx,
		"cp":      res.Trend.CpOccPr,
	})

	p, err := report.SeriesPlot(axis, res.Trend.CpOccPr, "Tephra record "+series.Name+" - Change point probability")
	if err != nil {
		return nil, errors.WithStack(err)
	}
	if err = report.Save(p, cfg.Output.RecordPlot); err != nil {
		return nil, errors.WithStack(err)
	}
	grip.Infoln("wrote record plot to", cfg.Output.RecordPlot)

	return res, nil
}
