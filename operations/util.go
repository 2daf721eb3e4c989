package operations

import (
	"strings"

	"github.com/mongodb/grip"
	"github.com/mongodb/grip/message"
	"github.com/pkg/errors"
	"github.com/sartorproj/tephracp/config"
	"github.com/sartorproj/tephracp/timeseries"
)

const previewRows = 5

func section(msg string) {
	grip.Info(strings.Repeat("-", 70))
	grip.Info(msg)
}

// loadTable reads the input file, logs a preview and its shape, and returns
// the table oriented with one record per row.
func loadTable(cfg *config.Config) (*timeseries.Table, error) {
	section("reading the input table")

	opts := timeseries.DefaultTableOptions()
	opts.Delimiter = cfg.Delimiter()
	opts.Transpose = false

	raw, err := timeseries.LoadTable(cfg.Input.Path, opts)
	if err != nil {
		return nil, errors.WithStack(err)
	}

	rows, cols := raw.Shape()
	grip.Info(message.Fields{
		"message": "loaded input table",
		"path":    cfg.Input.Path,
		"rows":    rows,
		"columns": cols,
	})
	grip.Infof("first %d rows:\n%s", previewRows, raw.Head(previewRows, 10))

	if !*cfg.Input.Transpose {
		return raw, nil
	}

	table := raw.Transpose()
	rows, cols = table.Shape()
	grip.Info(message.Fields{
		"message": "transposed input table",
		"series":  rows,
		"steps":   cols,
	})

	return table, nil
}

// timeAxis builds the configured axis and checks it against the table.
func timeAxis(cfg *config.Config, table *timeseries.Table) ([]float64, error) {
	axis, err := timeseries.TimeAxis(*cfg.Axis.Start, *cfg.Axis.End, cfg.Axis.Step)
	if err != nil {
		return nil, errors.Wrap(err, "building time axis")
	}
	if len(axis) != table.NumSteps() {
		return nil, errors.Errorf("time axis has %d points but each record has %d steps", len(axis), table.NumSteps())
	}
	return axis, nil
}
