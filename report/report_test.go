package report

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/sartorproj/tephracp/stats"
	"github.com/sartorproj/tephracp/timeseries"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testAxis(t *testing.T) []float64 {
	axis, err := timeseries.TimeAxis(1e4, 0, 1e3)
	require.NoError(t, err)
	return axis
}

func testSummary(n int) *stats.Summary {
	s := &stats.Summary{
		Median: make([]float64, n),
		P25:    make([]float64, n),
		P75:    make([]float64, n),
		IQR:    make([]float64, n),
	}
	for i := 0; i < n; i++ {
		s.P25[i] = 0.1
		s.Median[i] = 0.2 + 0.01*float64(i)
		s.P75[i] = 0.5
		s.IQR[i] = 0.4
	}
	return s
}

func TestSummaryPlot(t *testing.T) {
	axis := testAxis(t)
	p, err := SummaryPlot(axis, testSummary(len(axis)), "Change point distribution (median - IQR)")
	require.NoError(t, err)

	assert.Equal(t, TimeLabel, p.X.Label.Text)
	assert.Equal(t, ProbabilityLabel, p.Y.Label.Text)
	assert.Equal(t, 0.0, p.X.Min)
	assert.Equal(t, 10.0, p.X.Max)
	assert.Equal(t, 0.0, p.Y.Min)
	assert.Equal(t, 1.0, p.Y.Max)

	var buf bytes.Buffer
	require.NoError(t, WriteTo(p, &buf, "png"))
	assert.True(t, bytes.HasPrefix(buf.Bytes(), []byte("\x89PNG")))
}

func TestSummaryPlotMismatch(t *testing.T) {
	axis := testAxis(t)

	_, err := SummaryPlot(axis, testSummary(3), "x")
	assert.Error(t, err)
	_, err = SummaryPlot(axis, nil, "x")
	assert.Error(t, err)
	_, err = SummaryPlot(nil, testSummary(0), "x")
	assert.Error(t, err)
}

func TestSummaryPlotSkipsNaNColumns(t *testing.T) {
	summary, err := stats.Summarize([][]float64{{0.1, math.NaN(), 0.2}, {0.2, 0.3, 0.4}})
	require.NoError(t, err)
	require.True(t, math.IsNaN(summary.Median[1]))

	p, err := SummaryPlot([]float64{2000, 1000, 0}, summary, "summary")
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, WriteTo(p, &buf, "png"))
	assert.NotZero(t, buf.Len())

	allNaN := testSummary(3)
	for i := range allNaN.Median {
		allNaN.Median[i], allNaN.P25[i], allNaN.P75[i] = math.NaN(), math.NaN(), math.NaN()
	}
	_, err = SummaryPlot([]float64{2000, 1000, 0}, allNaN, "summary")
	assert.NoError(t, err)
}

func TestFiniteRuns(t *testing.T) {
	nan := math.NaN()
	assert.Equal(t, [][2]int{{0, 2}, {3, 5}}, finiteRuns([]float64{1, 2, nan, 4, 5}))
	assert.Equal(t, [][2]int{{1, 2}}, finiteRuns([]float64{nan, 2, 3}, []float64{1, 2, math.Inf(1)}))
	assert.Nil(t, finiteRuns([]float64{nan, nan}))
}

func TestSeriesPlot(t *testing.T) {
	axis := testAxis(t)
	probs := make([]float64, len(axis))
	probs[5] = 0.9

	p, err := SeriesPlot(axis, probs, "First tephra record - Change point probability")
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, WriteTo(p, &buf, ".svg"))
	assert.Contains(t, buf.String(), "<svg")

	_, err = SeriesPlot(axis, probs[:3], "x")
	assert.Error(t, err)
}

func TestSave(t *testing.T) {
	axis := testAxis(t)
	p, err := SummaryPlot(axis, testSummary(len(axis)), "summary")
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "cp_summary.png")
	require.NoError(t, Save(p, path))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.NotZero(t, info.Size())
}

func TestFormat(t *testing.T) {
	assert.Equal(t, "png", Format("out/cp_summary.PNG"))
	assert.Equal(t, "csv", Format("summary.csv"))
	assert.Equal(t, "", Format("summary"))
}

func TestExportJSON(t *testing.T) {
	axis := []float64{2000, 1000, 0}
	s := testSummary(3)
	s.Median[1] = math.NaN()

	var buf bytes.Buffer
	require.NoError(t, ExportJSON(&buf, axis, 12, s))

	var out struct {
		Series int        `json:"n_series"`
		Time   []float64  `json:"time_years"`
		Median []*float64 `json:"median"`
		IQR    []float64  `json:"iqr"`
	}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &out))

	assert.Equal(t, 12, out.Series)
	assert.Equal(t, axis, out.Time)
	require.Len(t, out.Median, 3)
	assert.Nil(t, out.Median[1])
	assert.InDelta(t, 0.2, *out.Median[0], 1e-12)
	assert.Equal(t, []float64{0.4, 0.4, 0.4}, out.IQR)

	assert.Error(t, ExportJSON(&buf, axis, 1, testSummary(2)))
}

func TestExportCSV(t *testing.T) {
	axis := []float64{1000, 0}

	var buf bytes.Buffer
	require.NoError(t, ExportCSV(&buf, axis, testSummary(2)))

	records, err := csv.NewReader(strings.NewReader(buf.String())).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 3)
	assert.Equal(t, []string{"time_years", "median", "percentile_25", "percentile_75", "iqr"}, records[0])
	assert.Equal(t, []string{"1000", "0.2", "0.1", "0.5", "0.4"}, records[1])

	assert.Error(t, ExportCSV(&buf, axis, nil))
}

func TestExportFile(t *testing.T) {
	dir := t.TempDir()
	axis := []float64{1000, 0}

	csvPath := filepath.Join(dir, "summary.csv")
	require.NoError(t, ExportFile(csvPath, axis, 2, testSummary(2)))
	data, err := os.ReadFile(csvPath)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(data), "time_years,"))

	jsonPath := filepath.Join(dir, "summary.json")
	require.NoError(t, ExportFile(jsonPath, axis, 2, testSummary(2)))
	data, err = os.ReadFile(jsonPath)
	require.NoError(t, err)
	assert.True(t, json.Valid(data))

	assert.Error(t, ExportFile(filepath.Join(dir, "missing", "x.json"), axis, 2, testSummary(2)))
}
