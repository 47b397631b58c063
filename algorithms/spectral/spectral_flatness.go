package spectral

import (
	"math"

	"gonum.org/v1/gonum/floats"
)

// flatnessFloor replaces zero amplitudes so the geometric mean stays finite.
const flatnessFloor = 1e-10

// Flatness is the ratio of the geometric to the arithmetic mean amplitude
// (Wiener entropy), in [0, 1]. Tonal frames score near 0 and white noise
// near 1. Empty and silent frames score 0.
func Flatness(harmonics []Harmonic) float64 {
	if len(harmonics) == 0 {
		return 0
	}

	amps := amplitudes(harmonics)
	arithmetic := floats.Sum(amps) / float64(len(amps))
	if arithmetic <= flatnessFloor {
		return 0
	}

	logSum := 0.0
	for _, a := range amps {
		logSum += math.Log(max(a, flatnessFloor))
	}
	geometric := math.Exp(logSum / float64(len(amps)))

	return min(geometric/arithmetic, 1)
}

// Crest is the peak amplitude over the RMS amplitude. A frame with one
// non-zero bin out of n has crest sqrt(n); a flat frame has crest 1.
func Crest(harmonics []Harmonic) float64 {
	if len(harmonics) == 0 {
		return 0
	}

	amps := amplitudes(harmonics)
	rms := math.Sqrt(floats.Dot(amps, amps) / float64(len(amps)))
	if rms == 0 {
		return 0
	}
	return floats.Max(amps) / rms
}
