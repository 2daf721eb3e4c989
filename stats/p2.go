package stats

import (
	"math"
	"sort"

	"github.com/pkg/errors"
)

// P2Quantile estimates a single quantile of a stream in constant memory using
// the P² algorithm of Jain and Chlamtac (1985). Until five observations have
// been seen the estimate is the exact interpolated percentile.
type P2Quantile struct {
	p     float64
	count int
	nan   bool

	q   [5]float64 // marker heights
	n   [5]float64 // actual marker positions
	np  [5]float64 // desired marker positions
	dnp [5]float64 // desired position increments
}

// NewP2Quantile creates an estimator for quantile p in [0, 1].
func NewP2Quantile(p float64) (*P2Quantile, error) {
	if p < 0 || p > 1 || math.IsNaN(p) {
		return nil, errors.Errorf("quantile %v out of range [0, 1]", p)
	}
	return &P2Quantile{
		p:   p,
		dnp: [5]float64{0, p / 2, p, (1 + p) / 2, 1},
	}, nil
}

// Count returns the number of observations added.
func (e *P2Quantile) Count() int { return e.count }

// Add adds one observation. A NaN poisons the estimate.
func (e *P2Quantile) Add(x float64) {
	if math.IsNaN(x) {
		e.nan = true
	}
	if e.count < 5 {
		e.q[e.count] = x
		e.count++
		if e.count == 5 {
			sort.Float64s(e.q[:])
			p := e.p
			e.n = [5]float64{0, 1, 2, 3, 4}
			e.np = [5]float64{0, 2 * p, 4 * p, 2 + 2*p, 4}
		}
		return
	}
	e.count++

	var k int
	switch {
	case x < e.q[0]:
		e.q[0] = x
		k = 0
	case x >= e.q[4]:
		e.q[4] = x
		k = 3
	default:
		for k = 0; k < 3; k++ {
			if x < e.q[k+1] {
				break
			}
		}
	}

	for i := k + 1; i < 5; i++ {
		e.n[i]++
	}
	for i := range e.np {
		e.np[i] += e.dnp[i]
	}

	for i := 1; i <= 3; i++ {
		d := e.np[i] - e.n[i]
		if (d >= 1 && e.n[i+1]-e.n[i] > 1) || (d <= -1 && e.n[i-1]-e.n[i] < -1) {
			s := math.Copysign(1, d)
			qp := e.parabolic(i, s)
			if e.q[i-1] < qp && qp < e.q[i+1] {
				e.q[i] = qp
			} else {
				e.q[i] = e.linear(i, s)
			}
			e.n[i] += s
		}
	}
}

func (e *P2Quantile) parabolic(i int, d float64) float64 {
	return e.q[i] + d/(e.n[i+1]-e.n[i-1])*
		((e.n[i]-e.n[i-1]+d)*(e.q[i+1]-e.q[i])/(e.n[i+1]-e.n[i])+
			(e.n[i+1]-e.n[i]-d)*(e.q[i]-e.q[i-1])/(e.n[i]-e.n[i-1]))
}

func (e *P2Quantile) linear(i int, d float64) float64 {
	j := i + int(d)
	return e.q[i] + d*(e.q[j]-e.q[i])/(e.n[j]-e.n[i])
}

// Value returns the current estimate.
func (e *P2Quantile) Value() (float64, error) {
	if e.count == 0 {
		return math.NaN(), ErrEmpty
	}
	if e.nan {
		return math.NaN(), nil
	}
	if e.count < 5 {
		sorted := make([]float64, e.count)
		copy(sorted, e.q[:e.count])
		sort.Float64s(sorted)
		return percentileSorted(sorted, e.p*100), nil
	}
	return e.q[2], nil
}

// StreamingSummary accumulates rows one at a time and keeps a P² estimator
// per column for each quartile, so the full matrix is never held in memory.
type StreamingSummary struct {
	width int
	rows  int
	est   [3][]*P2Quantile
}

// NewStreamingSummary creates a summary over rows of the given width.
func NewStreamingSummary(width int) (*StreamingSummary, error) {
	if width <= 0 {
		return nil, errors.Errorf("width must be positive, got %d", width)
	}

	s := &StreamingSummary{width: width}
	for k, p := range []float64{Lower / 100, 0.5, Upper / 100} {
		s.est[k] = make([]*P2Quantile, width)
		for j := range s.est[k] {
			e, err := NewP2Quantile(p)
			if err != nil {
				return nil, errors.WithStack(err)
			}
			s.est[k][j] = e
		}
	}
	return s, nil
}

// Rows returns the number of rows added.
func (s *StreamingSummary) Rows() int { return s.rows }

// Add feeds one row into every column estimator.
func (s *StreamingSummary) Add(row []float64) error {
	if len(row) != s.width {
		return errors.Errorf("row has %d columns, expected %d", len(row), s.width)
	}
	for k := range s.est {
		for j, v := range row {
			s.est[k][j].Add(v)
		}
	}
	s.rows++
	return nil
}

// Summary returns the current quartile estimates, ordered so that
// P25 <= Median <= P75 in every column.
func (s *StreamingSummary) Summary() (*Summary, error) {
	if s.rows == 0 {
		return nil, ErrEmpty
	}

	out := newSummary(s.width)
	for j := 0; j < s.width; j++ {
		var err error
		if out.P25[j], err = s.est[0][j].Value(); err != nil {
			return nil, errors.Wrapf(err, "lower quartile of column %d", j)
		}
		if out.Median[j], err = s.est[1][j].Value(); err != nil {
			return nil, errors.Wrapf(err, "median of column %d", j)
		}
		if out.P75[j], err = s.est[2][j].Value(); err != nil {
			return nil, errors.Wrapf(err, "upper quartile of column %d", j)
		}

		// the three estimators run independently and may cross
		q := []float64{out.P25[j], out.Median[j], out.P75[j]}
		sort.Float64s(q)
		out.P25[j], out.Median[j], out.P75[j] = q[0], q[1], q[2]
	}
	out.fillIQR()

	return out, nil
}
