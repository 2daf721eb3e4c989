// Package report renders change-point probabilities and population summaries.
package report

import (
	"image/color"
	"io"
	"math"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
	"github.com/sartorproj/tephracp/stats"
	"github.com/sartorproj/tephracp/timeseries"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
)

// Axis labels shared by every figure.
const (
	TimeLabel        = "Time [Ka]"
	ProbabilityLabel = "Posterior probability"
)

var (
	// MedianColor is the dark red of the median line.
	MedianColor = color.RGBA{R: 139, A: 255}
	// BandColor is orange at 40% opacity for the interquartile band.
	BandColor = color.NRGBA{R: 255, G: 165, A: 102}
	// TraceColor is used for single record traces.
	TraceColor = color.RGBA{R: 31, G: 119, B: 180, A: 255}
)

// Default figure size.
var (
	Width  = 8 * vg.Inch
	Height = 4 * vg.Inch
)

// newPlot sets up a probability plot over an axis in years.
func newPlot(title string, axis []float64) *plot.Plot {
	p := plot.New()
	p.Title.Text = title
	p.X.Label.Text = TimeLabel
	p.Y.Label.Text = ProbabilityLabel

	ka := timeseries.ToKa(axis)
	lo, hi := ka[0], ka[0]
	for _, v := range ka {
		if v < lo {
			lo = v
		}
		if v > hi {
			hi = v
		}
	}
	p.X.Min, p.X.Max = lo, hi
	p.Y.Min, p.Y.Max = 0, 1

	return p
}

func xys(ka, y []float64) plotter.XYs {
	pts := make(plotter.XYs, len(ka))
	for i := range ka {
		pts[i].X = ka[i]
		pts[i].Y = y[i]
	}
	return pts
}

// finiteRuns returns the half-open index ranges over which every series is
// finite.
func finiteRuns(series ...[]float64) [][2]int {
	var (
		runs  [][2]int
		start = -1
	)
	n := len(series[0])
	for i := 0; i <= n; i++ {
		ok := i < n
		for _, s := range series {
			if !ok {
				break
			}
			ok = !math.IsNaN(s[i]) && !math.IsInf(s[i], 0)
		}
		switch {
		case ok && start < 0:
			start = i
		case !ok && start >= 0:
			runs = append(runs, [2]int{start, i})
			start = -1
		}
	}
	return runs
}

// SeriesPlot draws the change-point probability of one record against the
// time axis in years.
func SeriesPlot(axis, probs []float64, title string) (*plot.Plot, error) {
	if len(axis) == 0 {
		return nil, errors.New("empty time axis")
	}
	if len(axis) != len(probs) {
		return nil, errors.Errorf("time axis has %d points but record has %d", len(axis), len(probs))
	}

	p := newPlot(title, axis)
	line, err := plotter.NewLine(xys(timeseries.ToKa(axis), probs))
	if err != nil {
		return nil, errors.Wrap(err, "building record trace")
	}
	line.LineStyle.Color = TraceColor
	line.LineStyle.Width = vg.Points(1)
	p.Add(line)

	return p, nil
}

// SummaryPlot draws the median line over a shaded band between the 25th and
// 75th percentiles.
func SummaryPlot(axis []float64, summary *stats.Summary, title string) (*plot.Plot, error) {
	if len(axis) == 0 {
		return nil, errors.New("empty time axis")
	}
	if summary == nil || summary.Len() != len(axis) {
		return nil, errors.New("summary does not match time axis")
	}

	ka := timeseries.ToKa(axis)
	p := newPlot(title, axis)

	// NaN columns break the band and the line into separate runs
	var rings []plotter.XYer
	for _, r := range finiteRuns(summary.P25, summary.P75) {
		// upper bound forward, lower bound back, closes the band
		ring := make(plotter.XYs, 0, 2*(r[1]-r[0]))
		ring = append(ring, xys(ka[r[0]:r[1]], summary.P75[r[0]:r[1]])...)
		for i := r[1] - 1; i >= r[0]; i-- {
			ring = append(ring, plotter.XY{X: ka[i], Y: summary.P25[i]})
		}
		rings = append(rings, ring)
	}
	if len(rings) > 0 {
		poly, err := plotter.NewPolygon(rings...)
		if err != nil {
			return nil, errors.Wrap(err, "building interquartile band")
		}
		poly.Color = BandColor
		poly.LineStyle.Width = 0
		p.Add(poly)
		p.Legend.Add("IQR", poly)
	}

	for k, r := range finiteRuns(summary.Median) {
		line, err := plotter.NewLine(xys(ka[r[0]:r[1]], summary.Median[r[0]:r[1]]))
		if err != nil {
			return nil, errors.Wrap(err, "building median line")
		}
		line.LineStyle.Color = MedianColor
		line.LineStyle.Width = vg.Points(0.7)
		p.Add(line)
		if k == 0 {
			p.Legend.Add("median", line)
		}
	}
	p.Legend.Top = true

	return p, nil
}

// Save writes the plot to path. The format follows the extension
// (png, svg, pdf, eps, jpg, tif).
func Save(p *plot.Plot, path string) error {
	return errors.Wrapf(p.Save(Width, Height, path), "saving plot to '%s'", path)
}

// WriteTo renders the plot in the given format to w.
func WriteTo(p *plot.Plot, w io.Writer, format string) error {
	wt, err := p.WriterTo(Width, Height, strings.TrimPrefix(format, "."))
	if err != nil {
		return errors.Wrapf(err, "rendering %s", format)
	}
	_, err = wt.WriteTo(w)
	return errors.WithStack(err)
}

// Format returns the image format implied by path.
func Format(path string) string {
	return strings.ToLower(strings.TrimPrefix(filepath.Ext(path), "."))
}
