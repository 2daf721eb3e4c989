// Package config loads the pipeline configuration from YAML.
package config

import (
	"os"

	"github.com/pkg/errors"
	"github.com/sartorproj/tephracp/changepoint"
	"gopkg.in/yaml.v3"
)

// Default values applied when fields are absent from the config file.
const (
	DefaultInput       = "input_files/aggregated_resampled_timeseries_WEIGHTED_1000y.csv"
	DefaultSummaryPlot = "cp_summary.png"
	DefaultRecordPlot  = "cp_record.png"
	DefaultDeltat      = "1000 year"
	DefaultSeason      = changepoint.SeasonNone
	DefaultSeed        = 1
	DefaultAxisStart   = 1e6
	DefaultAxisEnd     = 0
	DefaultAxisStep    = 1e3
	DefaultLogEvery    = 1
)

// Config is the top-level pipeline configuration.
type Config struct {
	Input     InputConfig     `yaml:"input"`
	Axis      AxisConfig      `yaml:"axis"`
	Estimator EstimatorConfig `yaml:"estimator"`
	Batch     BatchConfig     `yaml:"batch"`
	Output    OutputConfig    `yaml:"output"`
}

// InputConfig describes the input table.
type InputConfig struct {
	Path      string `yaml:"path"`
	Delimiter string `yaml:"delimiter"`
	// Transpose swaps rows and columns after loading. The tephra file has
	// one record per column, so this defaults to true.
	Transpose *bool `yaml:"transpose"`
}

// AxisConfig describes the time axis in years before present.
type AxisConfig struct {
	Start *float64 `yaml:"start"`
	End   *float64 `yaml:"end"`
	Step  float64  `yaml:"step"`
}

// EstimatorConfig holds the per-series estimator parameters.
type EstimatorConfig struct {
	Start         float64  `yaml:"start"`
	Deltat        string   `yaml:"deltat"`
	Seed          *int64   `yaml:"seed"`
	Season        string   `yaml:"season"`
	Samples       *int     `yaml:"samples"`
	Hazard        *float64 `yaml:"hazard"`
	MinSeparation *int     `yaml:"min_separation"`
}

// BatchConfig controls the aggregation loop.
type BatchConfig struct {
	// Limit caps the number of series processed; zero means all.
	Limit int `yaml:"limit"`
	// Streaming reduces results incrementally instead of keeping them all.
	Streaming bool `yaml:"streaming"`
	// LogEvery is the progress logging interval in series.
	LogEvery int `yaml:"log_every"`
	// DebugRecord, when set, runs the single-record diagnostic on that
	// series index before the batch.
	DebugRecord *int `yaml:"debug_record"`
}

// OutputConfig names the produced files. Empty paths disable that output,
// except the summary plot which always has a default.
type OutputConfig struct {
	SummaryPlot string `yaml:"summary_plot"`
	RecordPlot  string `yaml:"record_plot"`
	Summary     string `yaml:"summary"`
}

// Default returns the configuration of the reference tephra analysis.
func Default() *Config {
	cfg := &Config{}
	applyDefaults(cfg)
	return cfg
}

// Load reads and validates a YAML config file.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "reading config '%s'", path)
	}
	return Parse(data)
}

// Parse decodes YAML, applies defaults and validates the result.
func Parse(data []byte) (*Config, error) {
	cfg := &Config{}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, errors.Wrap(err, "parsing config")
	}

	applyDefaults(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid config")
	}
	return cfg, nil
}

func applyDefaults(cfg *Config) {
	if cfg.Input.Path == "" {
		cfg.Input.Path = DefaultInput
	}
	if cfg.Input.Delimiter == "" {
		cfg.Input.Delimiter = ","
	}
	if cfg.Input.Transpose == nil {
		t := true
		cfg.Input.Transpose = &t
	}

	if cfg.Axis.Start == nil {
		v := float64(DefaultAxisStart)
		cfg.Axis.Start = &v
	}
	if cfg.Axis.End == nil {
		v := float64(DefaultAxisEnd)
		cfg.Axis.End = &v
	}
	if cfg.Axis.Step == 0 {
		cfg.Axis.Step = DefaultAxisStep
	}

	defaults := changepoint.DefaultOptions()
	if cfg.Estimator.Deltat == "" {
		cfg.Estimator.Deltat = DefaultDeltat
	}
	if cfg.Estimator.Seed == nil {
		s := int64(DefaultSeed)
		cfg.Estimator.Seed = &s
	}
	if cfg.Estimator.Season == "" {
		cfg.Estimator.Season = DefaultSeason
	}
	if cfg.Estimator.Samples == nil {
		n := defaults.Samples
		cfg.Estimator.Samples = &n
	}
	if cfg.Estimator.Hazard == nil {
		h := defaults.Hazard
		cfg.Estimator.Hazard = &h
	}
	if cfg.Estimator.MinSeparation == nil {
		m := defaults.MinSeparation
		cfg.Estimator.MinSeparation = &m
	}

	if cfg.Batch.LogEvery == 0 {
		cfg.Batch.LogEvery = DefaultLogEvery
	}

	if cfg.Output.SummaryPlot == "" {
		cfg.Output.SummaryPlot = DefaultSummaryPlot
	}
	if cfg.Output.RecordPlot == "" {
		cfg.Output.RecordPlot = DefaultRecordPlot
	}
}

// Validate checks field ranges and the estimator options.
func (c *Config) Validate() error {
	if len([]rune(c.Input.Delimiter)) != 1 {
		return errors.Errorf("input.delimiter must be a single character, got '%s'", c.Input.Delimiter)
	}
	if c.Axis.Step <= 0 {
		return errors.Errorf("axis.step must be positive, got %v", c.Axis.Step)
	}
	if c.Batch.Limit < 0 {
		return errors.Errorf("batch.limit must not be negative, got %d", c.Batch.Limit)
	}
	if c.Batch.LogEvery < 0 {
		return errors.Errorf("batch.log_every must not be negative, got %d", c.Batch.LogEvery)
	}
	if c.Batch.DebugRecord != nil && *c.Batch.DebugRecord < 0 {
		return errors.Errorf("batch.debug_record must not be negative, got %d", *c.Batch.DebugRecord)
	}

	opts, err := c.EstimatorOptions()
	if err != nil {
		return errors.WithStack(err)
	}
	return errors.Wrap(opts.Validate(), "estimator")
}

// Delimiter returns the input delimiter rune.
func (c *Config) Delimiter() rune {
	return []rune(c.Input.Delimiter)[0]
}

// EstimatorOptions converts the estimator section into changepoint.Options.
func (c *Config) EstimatorOptions() (changepoint.Options, error) {
	deltat, err := changepoint.ParseDeltat(c.Estimator.Deltat)
	if err != nil {
		return changepoint.Options{}, errors.Wrap(err, "estimator.deltat")
	}

	opts := changepoint.Options{
		Start:  c.Estimator.Start,
		Deltat: deltat,
		Season: c.Estimator.Season,
	}
	if c.Estimator.Seed != nil {
		opts.Seed = *c.Estimator.Seed
	}
	if c.Estimator.Samples != nil {
		opts.Samples = *c.Estimator.Samples
	}
	if c.Estimator.Hazard != nil {
		opts.Hazard = *c.Estimator.Hazard
	}
	if c.Estimator.MinSeparation != nil {
		opts.MinSeparation = *c.Estimator.MinSeparation
	}
	return opts, nil
}
