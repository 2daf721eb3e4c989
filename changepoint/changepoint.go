// Package changepoint defines the change-point estimator contract used by the
// batch pipeline and provides a Bayesian implementation of it.
package changepoint

import (
	"math"

	"github.com/pkg/errors"
)

// SeasonNone is the only supported seasonality mode: the series is modelled
// as trend only.
const SeasonNone = "none"

var (
	// ErrEmptySeries is returned for zero-length input.
	ErrEmptySeries = errors.New("empty series")
	// ErrNonFinite is returned when the input holds infinite values. NaN
	// samples are treated as missing.
	ErrNonFinite = errors.New("series contains non-finite values")
	// ErrSeasonUnsupported is returned for any season other than "none".
	ErrSeasonUnsupported = errors.New("unsupported season mode")
)

// Options are the per-call estimator parameters.
type Options struct {
	Start  float64 // time of the first sample
	Deltat Deltat  // spacing between samples
	Seed   int64   // sampler seed; equal seeds give equal results
	Season string  // seasonality mode, only "none"

	// Samples is the number of posterior segmentations drawn. Zero computes
	// the exact marginal posterior instead of sampling.
	Samples int
	// Hazard is the prior probability of a change at any step.
	Hazard float64
	// MinSeparation is the minimum segment length in steps.
	MinSeparation int
}

// DefaultOptions returns start=0, deltat="1000 year", seed=1, season=none.
func DefaultOptions() Options {
	return Options{
		Start:         0,
		Deltat:        1000 * Year,
		Seed:          1,
		Season:        SeasonNone,
		Samples:       500,
		Hazard:        0.01,
		MinSeparation: 3,
	}
}

// Validate checks the options.
func (o Options) Validate() error {
	if o.Season != "" && o.Season != SeasonNone {
		return errors.Wrapf(ErrSeasonUnsupported, "season '%s'", o.Season)
	}
	if o.Deltat <= 0 || math.IsInf(float64(o.Deltat), 0) || math.IsNaN(float64(o.Deltat)) {
		return errors.Errorf("deltat must be positive, got %v", float64(o.Deltat))
	}
	if !(o.Hazard > 0 && o.Hazard < 1) {
		return errors.Errorf("hazard must be in (0, 1), got %v", o.Hazard)
	}
	if o.MinSeparation < 1 {
		return errors.Errorf("minimum separation must be at least 1, got %d", o.MinSeparation)
	}
	if o.Samples < 0 {
		return errors.Errorf("samples must not be negative, got %d", o.Samples)
	}
	return nil
}

// Trend holds the trend component of an estimate.
type Trend struct {
	// CpOccPr is the posterior probability, per step, that a change point
	// occurs at that step.
	CpOccPr []float64 `json:"cpOccPr"`
	// Y is the posterior mean fitted level. Only set when sampling.
	Y []float64 `json:"Y,omitempty"`
	// Ncp is the posterior mean number of change points.
	Ncp float64 `json:"ncp"`
}

// Result is the output of one estimator call.
type Result struct {
	Time        []float64 `json:"time"`
	LogEvidence float64   `json:"marg_lik"`
	Trend       Trend     `json:"trend"`
}

// Estimator computes per-step change-point probabilities for one series.
type Estimator interface {
	Estimate(values []float64, opts Options) (*Result, error)
}

// EstimatorFunc adapts a function to the Estimator interface.
type EstimatorFunc func(values []float64, opts Options) (*Result, error)

// Estimate calls f.
func (f EstimatorFunc) Estimate(values []float64, opts Options) (*Result, error) {
	return f(values, opts)
}

// timeAxis returns Start + i*Deltat for n samples.
func timeAxis(n int, opts Options) []float64 {
	t := make([]float64, n)
	for i := range t {
		t[i] = opts.Start + float64(i)*opts.Deltat.Years()
	}
	return t
}
