package spectral

import (
	"math"

	"gonum.org/v1/gonum/stat"
)

// slopeFloor excludes near-silent bins from the regression.
const slopeFloor = 1e-10

// Slope is the least-squares slope of log10 amplitude against log10
// frequency. An amplitude spectrum falling as 1/f has slope -1; a flat one
// has slope 0. Bin 0 and silent bins are left out, and frames with fewer than
// two usable bins score 0.
func Slope(harmonics []Harmonic) float64 {
	x := make([]float64, 0, len(harmonics))
	y := make([]float64, 0, len(harmonics))
	for _, h := range harmonics {
		a, f := float64(h.Amplitude()), float64(h.Frequency())
		if a <= slopeFloor || f <= 0 {
			continue
		}
		x = append(x, math.Log10(f))
		y = append(y, math.Log10(a))
	}

	if len(x) < 2 {
		return 0
	}

	_, beta := stat.LinearRegression(x, y, nil, false)
	if math.IsNaN(beta) {
		return 0
	}
	return beta
}
