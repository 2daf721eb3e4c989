package operations

import (
	"encoding/json"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/mongodb/grip"
	"github.com/sartorproj/tephracp/aggregate"
	"github.com/sartorproj/tephracp/changepoint"
	"github.com/sartorproj/tephracp/config"
	"github.com/stretchr/testify/suite"
	"github.com/urfave/cli"
)

func init() {
	grip.SetName("tephracp.operations.test")
}

// CommandsSuite exercises the command entry points against a small table
// written to a temporary directory.
type CommandsSuite struct {
	dir   string
	input string
	suite.Suite
}

func TestCommandsSuite(t *testing.T) {
	suite.Run(t, new(CommandsSuite))
}

func (s *CommandsSuite) SetupTest() {
	s.dir = s.T().TempDir()
	s.input = filepath.Join(s.dir, "tephra.csv")

	// 11 time steps (rows) by 4 records (columns); record j shifts at step 3+j
	var b strings.Builder
	for i := 0; i < 11; i++ {
		row := make([]string, 4)
		for j := range row {
			v := math.Sin(float64(i*4+j)) * 0.05
			if i >= 3+j {
				v += 3
			}
			row[j] = fmt.Sprintf("%.6f", v)
		}
		b.WriteString(strings.Join(row, ",") + "\n")
	}
	s.Require().NoError(os.WriteFile(s.input, []byte(b.String()), 0644))
}

func (s *CommandsSuite) writeConfig(extra string) string {
	path := filepath.Join(s.dir, "tephracp.yaml")
	data := fmt.Sprintf(`
input:
  path: %s
axis:
  start: 10000
  end: 0
  step: 1000
estimator:
  samples: 0
  min_separation: 1
output:
  summary_plot: %s
  record_plot: %s
%s`, s.input, filepath.Join(s.dir, "summary.png"), filepath.Join(s.dir, "record.png"), extra)
	s.Require().NoError(os.WriteFile(path, []byte(data), 0644))
	return path
}

func (s *CommandsSuite) config(extra string) *config.Config {
	cfg, err := config.Load(s.writeConfig(extra))
	s.Require().NoError(err)
	return cfg
}

func (s *CommandsSuite) run(cmd cli.Command, args ...string) error {
	app := cli.NewApp()
	app.Commands = []cli.Command{cmd}
	return app.Run(append([]string{"tephracp", cmd.Name}, args...))
}

func (s *CommandsSuite) TestAnalyzeFlags() {
	names := map[string]bool{}
	for _, f := range Analyze().Flags {
		names[f.GetName()] = true
	}
	for _, n := range []string{configFlag, inputFlag, samplesFlag, seedFlag, limitFlag, streamingFlag, outputFlag, summaryFlag, recordFlag} {
		s.True(names[n], n)
	}
}

func (s *CommandsSuite) TestInspectFlags() {
	names := map[string]bool{}
	for _, f := range Inspect().Flags {
		names[f.GetName()] = true
	}
	for _, n := range []string{configFlag, inputFlag, samplesFlag, seedFlag, recordFlag, recordPlotFlag} {
		s.True(names[n], n)
	}
	s.False(names[limitFlag])
}

func (s *CommandsSuite) TestAnalyzeWithConstantEstimator() {
	cfg := s.config("")
	cfg.Output.Summary = filepath.Join(s.dir, "summary.json")

	calls := 0
	est := changepoint.EstimatorFunc(func(values []float64, opts changepoint.Options) (*changepoint.Result, error) {
		calls++
		s.Equal(changepoint.Ka, opts.Deltat)
		s.Equal(int64(1), opts.Seed)
		cp := make([]float64, len(values))
		for i := range cp {
			cp[i] = 0.5
		}
		return &changepoint.Result{Trend: changepoint.Trend{CpOccPr: cp}}, nil
	})

	res, err := analyze(cfg, est)
	s.Require().NoError(err)
	s.Equal(4, calls)
	s.Equal(4, res.Processed)
	s.Len(res.Probabilities, 4)
	for j := 0; j < res.Summary.Len(); j++ {
		s.Equal(0.5, res.Summary.Median[j])
	}

	s.FileExists(cfg.Output.SummaryPlot)
	data, err := os.ReadFile(cfg.Output.Summary)
	s.Require().NoError(err)
	s.True(json.Valid(data))
	s.NoFileExists(cfg.Output.RecordPlot)
}

func (s *CommandsSuite) TestAnalyzeDebugRecordRunsFirst() {
	cfg := s.config("batch:\n  debug_record: 2\n")

	var order []float64
	est := changepoint.EstimatorFunc(func(values []float64, _ changepoint.Options) (*changepoint.Result, error) {
		order = append(order, values[len(values)-1])
		return &changepoint.Result{Trend: changepoint.Trend{CpOccPr: make([]float64, len(values))}}, nil
	})

	_, err := analyze(cfg, est)
	s.Require().NoError(err)
	s.Require().Len(order, 5)
	// record 2 ends at step 10 with a shifted level
	s.InDelta(math.Sin(42)*0.05+3, order[0], 1e-6)
	s.Equal(order[3], order[0])
	s.NotEqual(order[1], order[0])
	s.FileExists(cfg.Output.RecordPlot)
}

func (s *CommandsSuite) TestAnalyzeLimitTooLarge() {
	cfg := s.config("batch:\n  limit: 50000\n")

	calls := 0
	est := changepoint.EstimatorFunc(func(values []float64, _ changepoint.Options) (*changepoint.Result, error) {
		calls++
		return &changepoint.Result{Trend: changepoint.Trend{CpOccPr: make([]float64, len(values))}}, nil
	})

	_, err := analyze(cfg, est)
	s.Require().Error(err)
	s.Contains(err.Error(), aggregate.ErrLimitExceeded.Error())
	s.Equal(0, calls)
}

func (s *CommandsSuite) TestAnalyzeAxisMismatch() {
	cfg := s.config("")
	step := 500.0
	cfg.Axis.Step = step

	_, err := analyze(cfg, changepoint.NewBayes())
	s.Error(err)
}

func (s *CommandsSuite) TestAnalyzeMissingInput() {
	cfg := s.config("")
	cfg.Input.Path = filepath.Join(s.dir, "missing.csv")

	_, err := analyze(cfg, changepoint.NewBayes())
	s.Error(err)
}

func (s *CommandsSuite) TestAnalyzeCommand() {
	summary := filepath.Join(s.dir, "summary.csv")
	err := s.run(Analyze(), "--config", s.writeConfig(""), "--summary", summary, "--streaming")
	s.Require().NoError(err)

	s.FileExists(filepath.Join(s.dir, "summary.png"))
	data, err := os.ReadFile(summary)
	s.Require().NoError(err)
	s.Len(strings.Split(strings.TrimSpace(string(data)), "\n"), 12)
}

func (s *CommandsSuite) TestInspectCommand() {
	out := filepath.Join(s.dir, "inspect.png")
	err := s.run(Inspect(), "--config", s.writeConfig(""), "--record", "1", "--record-out", out)
	s.Require().NoError(err)
	s.FileExists(out)

	err = s.run(Inspect(), "--config", s.writeConfig(""), "--record", "9")
	s.Error(err)
}

func (s *CommandsSuite) TestResolveConfigOverrides() {
	var got *config.Config
	cmd := Analyze()
	cmd.Action = func(c *cli.Context) error {
		var err error
		got, err = resolveConfig(c)
		return err
	}

	err := s.run(cmd, "--config", s.writeConfig(""), "--input", "other.csv", "--limit", "2", "--samples", "10", "--seed", "9", "--record", "0")
	s.Require().NoError(err)
	s.Require().NotNil(got)
	s.Equal("other.csv", got.Input.Path)
	s.Equal(2, got.Batch.Limit)
	s.Equal(10, *got.Estimator.Samples)
	s.Equal(int64(9), *got.Estimator.Seed)
	s.Require().NotNil(got.Batch.DebugRecord)
	s.Equal(0, *got.Batch.DebugRecord)
}

func (s *CommandsSuite) TestResolveConfigDefaults() {
	var got *config.Config
	cmd := Analyze()
	cmd.Action = func(c *cli.Context) error {
		var err error
		got, err = resolveConfig(c)
		return err
	}

	s.Require().NoError(s.run(cmd))
	s.Equal(config.DefaultInput, got.Input.Path)
	s.Nil(got.Batch.DebugRecord)
	s.Equal(0, got.Batch.Limit)
}
