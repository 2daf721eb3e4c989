// Package changepoint estimates, for every step of a series, the posterior
// probability that a change point occurs there.
//
// The batch pipeline only depends on the Estimator interface; Bayes is the
// implementation shipped with the module.
//
// # Basic Usage
//
//	opts := changepoint.DefaultOptions() // start=0, deltat=1000 year, seed=1
//	res, err := changepoint.NewBayes().Estimate(values, opts)
//	if err != nil {
//	    return err
//	}
//	probs := res.Trend.CpOccPr
//
// # Model
//
// Bayes splits the series into segments, each with its own unknown level and
// variance under a Normal-Inverse-Gamma prior, with geometrically distributed
// segment lengths. With Options.Samples set to zero the marginal posterior of
// a segment starting at each step is computed exactly. Otherwise that many
// segmentations are drawn with a seeded sampler and CpOccPr is the fraction of
// draws placing a change at each step; Trend.Y is then the mean fitted level.
//
// # Intervals
//
// Deltat accepts the usual spellings:
//
//	d, _ := changepoint.ParseDeltat("1000 year") // == changepoint.Ka
//	d, _ = changepoint.ParseDeltat("1 ka")       // same interval
package changepoint
