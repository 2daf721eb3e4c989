package report

import (
	"encoding/csv"
	"encoding/json"
	"io"
	"math"
	"os"
	"strconv"

	"github.com/pkg/errors"
	"github.com/sartorproj/tephracp/stats"
)

// SummaryExport is the serialized form of a population summary. Missing
// values are written as null.
type SummaryExport struct {
	Series int        `json:"n_series"`
	Time   nullFloats `json:"time_years"`
	Median nullFloats `json:"median"`
	P25    nullFloats `json:"percentile_25"`
	P75    nullFloats `json:"percentile_75"`
	IQR    nullFloats `json:"iqr"`
}

type nullFloats []float64

func (f nullFloats) MarshalJSON() ([]byte, error) {
	buf := make([]byte, 0, 8*len(f)+2)
	buf = append(buf, '[')
	for i, v := range f {
		if i > 0 {
			buf = append(buf, ',')
		}
		if math.IsNaN(v) || math.IsInf(v, 0) {
			buf = append(buf, "null"...)
			continue
		}
		buf = strconv.AppendFloat(buf, v, 'g', -1, 64)
	}
	return append(buf, ']'), nil
}

func checkSummary(axis []float64, summary *stats.Summary) error {
	if summary == nil {
		return errors.New("no summary to export")
	}
	if summary.Len() != len(axis) {
		return errors.Errorf("summary has %d points but time axis has %d", summary.Len(), len(axis))
	}
	return nil
}

// ExportJSON writes the summary and its time axis as indented JSON.
func ExportJSON(w io.Writer, axis []float64, series int, summary *stats.Summary) error {
	if err := checkSummary(axis, summary); err != nil {
		return err
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return errors.Wrap(enc.Encode(SummaryExport{
		Series: series,
		Time:   axis,
		Median: summary.Median,
		P25:    summary.P25,
		P75:    summary.P75,
		IQR:    summary.IQR,
	}), "encoding summary")
}

// ExportCSV writes one row per time step with a header.
func ExportCSV(w io.Writer, axis []float64, summary *stats.Summary) error {
	if err := checkSummary(axis, summary); err != nil {
		return err
	}

	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"time_years", "median", "percentile_25", "percentile_75", "iqr"}); err != nil {
		return errors.WithStack(err)
	}

	fmtf := func(v float64) string { return strconv.FormatFloat(v, 'g', -1, 64) }
	for i, t := range axis {
		rec := []string{fmtf(t), fmtf(summary.Median[i]), fmtf(summary.P25[i]), fmtf(summary.P75[i]), fmtf(summary.IQR[i])}
		if err := cw.Write(rec); err != nil {
			return errors.WithStack(err)
		}
	}
	cw.Flush()
	return errors.WithStack(cw.Error())
}

// ExportFile writes the summary to path, as CSV for a .csv extension and JSON
// otherwise.
func ExportFile(path string, axis []float64, series int, summary *stats.Summary) error {
	file, err := os.Create(path)
	if err != nil {
		return errors.Wrapf(err, "creating '%s'", path)
	}

	if Format(path) == "csv" {
		err = ExportCSV(file, axis, summary)
	} else {
		err = ExportJSON(file, axis, series, summary)
	}
	if err != nil {
		file.Close()
		return errors.Wrapf(err, "exporting summary to '%s'", path)
	}
	return errors.WithStack(file.Close())
}
