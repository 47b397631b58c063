package spectral

import (
	"math"

	"gonum.org/v1/gonum/floats"
)

// Centroid is the amplitude-weighted mean frequency of harmonics in Hz, or 0
// when every amplitude is zero. Any subset of bins may be passed, so it works
// for Goertzel output as well as full spectra.
func Centroid(harmonics []Harmonic) float32 {
	amps := amplitudes(harmonics)
	total := floats.Sum(amps)
	if total == 0 {
		return 0
	}
	return float32(floats.Dot(frequencies(harmonics), amps) / total)
}

// Bandwidth is the amplitude-weighted standard deviation of frequency around
// centroid, in Hz.
func Bandwidth(harmonics []Harmonic, centroid float32) float32 {
	amps := amplitudes(harmonics)
	total := floats.Sum(amps)
	if total == 0 {
		return 0
	}

	dev := frequencies(harmonics)
	floats.AddConst(-float64(centroid), dev)
	floats.Mul(dev, dev)
	return float32(math.Sqrt(floats.Dot(dev, amps) / total))
}

func amplitudes(harmonics []Harmonic) []float64 {
	out := make([]float64, len(harmonics))
	for i, h := range harmonics {
		out[i] = float64(h.Amplitude())
	}
	return out
}

func frequencies(harmonics []Harmonic) []float64 {
	out := make([]float64, len(harmonics))
	for i, h := range harmonics {
		out[i] = float64(h.Frequency())
	}
	return out
}
