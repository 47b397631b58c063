// Package stats summarizes per-frame measurements over a whole signal.
package stats

import (
	"fmt"
	"slices"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// Summary describes the distribution of a series of values.
type Summary struct {
	Count  int     `json:"count" yaml:"count"`
	Min    float64 `json:"min" yaml:"min"`
	Max    float64 `json:"max" yaml:"max"`
	Mean   float64 `json:"mean" yaml:"mean"`
	StdDev float64 `json:"std_dev" yaml:"std_dev"`
	P10    float64 `json:"p10" yaml:"p10"`
	Median float64 `json:"median" yaml:"median"`
	P90    float64 `json:"p90" yaml:"p90"`
}

// Summarize computes the Summary of values, which are left unmodified. The
// standard deviation is the unbiased sample estimate and is 0 for a single
// value. An empty series gives the zero Summary.
func Summarize(values []float64) Summary {
	if len(values) == 0 {
		return Summary{}
	}

	sorted := slices.Clone(values)
	slices.Sort(sorted)

	s := Summary{
		Count:  len(sorted),
		Min:    sorted[0],
		Max:    sorted[len(sorted)-1],
		P10:    stat.Quantile(0.1, stat.Empirical, sorted, nil),
		Median: stat.Quantile(0.5, stat.Empirical, sorted, nil),
		P90:    stat.Quantile(0.9, stat.Empirical, sorted, nil),
	}
	if len(sorted) == 1 {
		s.Mean = sorted[0]
		return s
	}
	s.Mean, s.StdDev = stat.MeanStdDev(sorted, nil)
	return s
}

// Percentile returns the p-th percentile, p in [0, 100], as the smallest
// value with at least p percent of the values at or below it.
func Percentile(values []float64, p float64) (float64, error) {
	if len(values) == 0 {
		return 0, fmt.Errorf("percentile of an empty series")
	}
	if p < 0 || p > 100 {
		return 0, fmt.Errorf("percentile %g not in [0, 100]", p)
	}
	if p == 0 {
		return floats.Min(values), nil
	}

	sorted := slices.Clone(values)
	slices.Sort(sorted)
	return stat.Quantile(p/100, stat.Empirical, sorted, nil), nil
}
