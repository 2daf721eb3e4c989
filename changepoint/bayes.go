package changepoint

import (
	"math"
	"math/rand"

	"github.com/pkg/errors"
	"github.com/sartorproj/tephracp/timeseries"
	"gonum.org/v1/gonum/floats"
)

// Prior holds the Normal-Inverse-Gamma hyperparameters of a segment's level
// and variance. They apply to the standardized series.
type Prior struct {
	Mu0    float64
	Kappa0 float64
	Alpha0 float64
	Beta0  float64
}

// DefaultPrior is a weak prior centered on the series mean.
func DefaultPrior() Prior {
	return Prior{Mu0: 0, Kappa0: 0.01, Alpha0: 1, Beta0: 1}
}

// Bayes is a Bayesian mean-shift segmentation model. Each segment has its own
// unknown level and variance; segment lengths follow a geometric prior with
// the configured hazard. Change-point probabilities are either computed
// exactly with a forward-backward recursion or estimated from posterior
// segmentations drawn by backward sampling.
type Bayes struct {
	Prior Prior
}

// NewBayes creates an estimator with the default prior.
func NewBayes() *Bayes {
	return &Bayes{Prior: DefaultPrior()}
}

// segments holds the sufficient statistics of the standardized series. NaN
// samples are missing: they count toward segment lengths but not the
// likelihood.
type segments struct {
	prior  Prior
	count  []float64 // prefix counts of observed samples
	sum    []float64 // prefix sums
	sumSq  []float64 // prefix sums of squares
	logH   float64
	log1mH float64
	minLen int
	n      int
}

func newSegments(z []float64, prior Prior, opts Options) *segments {
	s := &segments{
		prior:  prior,
		count:  make([]float64, len(z)+1),
		sum:    make([]float64, len(z)+1),
		sumSq:  make([]float64, len(z)+1),
		logH:   math.Log(opts.Hazard),
		log1mH: math.Log1p(-opts.Hazard),
		minLen: opts.MinSeparation,
		n:      len(z),
	}
	for i, v := range z {
		s.count[i+1], s.sum[i+1], s.sumSq[i+1] = s.count[i], s.sum[i], s.sumSq[i]
		if math.IsNaN(v) {
			continue
		}
		s.count[i+1]++
		s.sum[i+1] += v
		s.sumSq[i+1] += v * v
	}
	return s
}

// logLik is the marginal log likelihood of samples [a, b] forming one segment.
func (s *segments) logLik(a, b int) float64 {
	p := s.prior
	n := s.count[b+1] - s.count[a]
	if n == 0 {
		return 0
	}
	sum := s.sum[b+1] - s.sum[a]
	mean := sum / n
	ss := s.sumSq[b+1] - s.sumSq[a] - n*mean*mean
	if ss < 0 {
		ss = 0
	}

	kn := p.Kappa0 + n
	an := p.Alpha0 + n/2
	bn := p.Beta0 + ss/2 + p.Kappa0*n*(mean-p.Mu0)*(mean-p.Mu0)/(2*kn)

	lgAn, _ := math.Lgamma(an)
	lgA0, _ := math.Lgamma(p.Alpha0)

	return lgAn - lgA0 + p.Alpha0*math.Log(p.Beta0) - an*math.Log(bn) +
		(math.Log(p.Kappa0)-math.Log(kn))/2 - n/2*math.Log(2*math.Pi)
}

// level is the posterior mean level of samples [a, b].
func (s *segments) level(a, b int) float64 {
	n := s.count[b+1] - s.count[a]
	return (s.prior.Kappa0*s.prior.Mu0 + s.sum[b+1] - s.sum[a]) / (s.prior.Kappa0 + n)
}

// logLength is the prior log probability of a segment of length l ending
// in a change; logSurvive of a final segment of length l.
func (s *segments) logLength(l int) float64  { return s.logH + float64(l-1)*s.log1mH }
func (s *segments) logSurvive(l int) float64 { return float64(l-1) * s.log1mH }

// allowedLast reports whether a final segment may start at a.
func (s *segments) allowedLast(a int) bool {
	return a == 0 || s.n-a >= s.minLen
}

// logSumExp sums finite log terms; an empty set is -Inf.
func logSumExp(terms []float64) float64 {
	if len(terms) == 0 {
		return math.Inf(-1)
	}
	return floats.LogSumExp(terms)
}

// forward returns F where F[t] is the log joint of y[0:t) with a segment
// ending at t-1, and the log evidence of the whole series.
func (s *segments) forward() ([]float64, float64) {
	n := s.n
	f := make([]float64, n+1)
	terms := make([]float64, 0, n)

	for e := 0; e < n; e++ {
		terms = terms[:0]
		for a := 0; a <= e-s.minLen+1; a++ {
			if math.IsInf(f[a], -1) {
				continue
			}
			terms = append(terms, f[a]+s.logLik(a, e)+s.logLength(e-a+1))
		}
		f[e+1] = logSumExp(terms)
	}

	terms = terms[:0]
	for a := 0; a < n; a++ {
		if !s.allowedLast(a) || math.IsInf(f[a], -1) {
			continue
		}
		terms = append(terms, f[a]+s.logLik(a, n-1)+s.logSurvive(n-a))
	}

	return f, logSumExp(terms)
}

// backward returns B where B[t] is the log likelihood of y[t:n) given a
// segment starts at t.
func (s *segments) backward() []float64 {
	n := s.n
	b := make([]float64, n+1)
	b[n] = math.Inf(-1)
	terms := make([]float64, 0, n+1)

	for a := n - 1; a >= 0; a-- {
		terms = terms[:0]
		if s.allowedLast(a) {
			terms = append(terms, s.logLik(a, n-1)+s.logSurvive(n-a))
		}
		for e := a + s.minLen - 1; e <= n-1-s.minLen; e++ {
			if math.IsInf(b[e+1], -1) {
				continue
			}
			terms = append(terms, s.logLik(a, e)+s.logLength(e-a+1)+b[e+1])
		}
		b[a] = logSumExp(terms)
	}
	return b
}

// Estimate implements Estimator.
func (m *Bayes) Estimate(values []float64, opts Options) (*Result, error) {
	if err := opts.Validate(); err != nil {
		return nil, errors.WithStack(err)
	}
	if len(values) == 0 {
		return nil, ErrEmptySeries
	}

	series := timeseries.New(values)
	observed := series.Observed()
	if observed.Len() == 0 {
		return nil, errors.Wrap(ErrEmptySeries, "every sample is missing")
	}
	if !observed.IsFinite() {
		return nil, ErrNonFinite
	}

	mean, scale := observed.Mean(), observed.Std()
	if scale == 0 {
		scale = 1
	}

	z := series.Normalize()
	seg := newSegments(z.Values, m.Prior, opts)
	f, evidence := seg.forward()
	if math.IsInf(evidence, 0) || math.IsNaN(evidence) {
		return nil, errors.Errorf("degenerate evidence %v", evidence)
	}

	res := &Result{
		Time:        timeAxis(len(values), opts),
		LogEvidence: evidence,
	}

	if opts.Samples == 0 {
		res.Trend.CpOccPr = seg.exact(f, evidence)
	} else {
		cp, y := seg.sample(f, opts)
		for i := range y {
			y[i] = y[i]*scale + mean
		}
		res.Trend.CpOccPr = cp
		res.Trend.Y = y
	}
	res.Trend.Ncp = floats.Sum(res.Trend.CpOccPr)

	return res, nil
}

// exact computes P(segment starts at t | y) for every t.
func (s *segments) exact(f []float64, evidence float64) []float64 {
	b := s.backward()
	cp := make([]float64, s.n)
	for t := 1; t < s.n; t++ {
		cp[t] = clamp01(math.Exp(f[t] + b[t] - evidence))
	}
	return cp
}

// sample draws opts.Samples segmentations from the posterior and returns the
// change-point frequency per step and the mean fitted level in standardized
// units.
func (s *segments) sample(f []float64, opts Options) ([]float64, []float64) {
	rng := rand.New(rand.NewSource(opts.Seed))
	counts := make([]float64, s.n)
	level := make([]float64, s.n)
	starts := make([]int, 0, s.n)
	weights := make([]float64, 0, s.n)

	for k := 0; k < opts.Samples; k++ {
		end, last := s.n-1, true
		for {
			starts, weights = starts[:0], weights[:0]
			for a := 0; a <= end; a++ {
				if math.IsInf(f[a], -1) {
					continue
				}
				var w float64
				if last {
					if !s.allowedLast(a) {
						continue
					}
					w = f[a] + s.logLik(a, end) + s.logSurvive(end-a+1)
				} else {
					if end-a+1 < s.minLen {
						continue
					}
					w = f[a] + s.logLik(a, end) + s.logLength(end-a+1)
				}
				starts = append(starts, a)
				weights = append(weights, w)
			}

			start := starts[draw(rng, weights)]
			mu := s.level(start, end)
			for i := start; i <= end; i++ {
				level[i] += mu
			}
			if start == 0 {
				break
			}
			counts[start]++
			end, last = start-1, false
		}
	}

	total := float64(opts.Samples)
	for i := range counts {
		counts[i] /= total
		level[i] /= total
	}
	return counts, level
}

// draw picks an index with probability proportional to exp(weights).
func draw(rng *rand.Rand, weights []float64) int {
	norm := floats.LogSumExp(weights)
	u := rng.Float64()
	acc := 0.0
	for i, w := range weights {
		acc += math.Exp(w - norm)
		if u < acc {
			return i
		}
	}
	return len(weights) - 1
}

func clamp01(v float64) float64 {
	switch {
	case v < 0 || math.IsNaN(v):
		return 0
	case v > 1:
		return 1
	}
	return v
}
