package changepoint

import (
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// Deltat is a sampling interval measured in years.
type Deltat float64

// Common intervals.
const (
	Month Deltat = 1.0 / 12
	Year  Deltat = 1
	Ka    Deltat = 1e3
	Ma    Deltat = 1e6
)

var deltatUnits = map[string]Deltat{
	"month":  Month,
	"months": Month,
	"year":   Year,
	"years":  Year,
	"yr":     Year,
	"y":      Year,
	"ka":     Ka,
	"kyr":    Ka,
	"ma":     Ma,
	"myr":    Ma,
}

// ParseDeltat parses intervals such as "1000 year", "1 ka" or "1". A bare
// number is taken as years.
func ParseDeltat(s string) (Deltat, error) {
	fields := strings.Fields(strings.ToLower(s))
	if len(fields) == 0 || len(fields) > 2 {
		return 0, errors.Errorf("invalid deltat '%s'", s)
	}

	v, err := strconv.ParseFloat(fields[0], 64)
	if err != nil {
		return 0, errors.Wrapf(err, "invalid deltat '%s'", s)
	}
	if v <= 0 {
		return 0, errors.Errorf("deltat must be positive, got '%s'", s)
	}

	unit := Year
	if len(fields) == 2 {
		var ok bool
		if unit, ok = deltatUnits[fields[1]]; !ok {
			return 0, errors.Errorf("unknown deltat unit '%s'", fields[1])
		}
	}

	return Deltat(v) * unit, nil
}

// Years returns the interval in years.
func (d Deltat) Years() float64 { return float64(d) }

// String formats the interval in years.
func (d Deltat) String() string {
	return strconv.FormatFloat(float64(d), 'g', -1, 64) + " year"
}
