package filters

import (
	"fmt"
	"math"
)

// DefaultPreEmphasis is the coefficient commonly used for speech.
const DefaultPreEmphasis = 0.97

// PreEmphasis is a first-order high-frequency boost:
//
//	y[n] = x[n] - a*x[n-1]
//
// It flattens the spectral tilt of speech and most music so that upper
// harmonics are not buried under the low end.
//
// Reference: L. R. Rabiner, R. W. Schafer, "Digital Processing of Speech
// Signals", chapter 4.
type PreEmphasis struct {
	coefficient float64
	last        float64
}

// NewPreEmphasis creates a filter with coefficient a in [0, 1). A coefficient
// of 0 passes the signal through.
func NewPreEmphasis(coefficient float64) (*PreEmphasis, error) {
	if coefficient < 0 || coefficient >= 1 {
		return nil, fmt.Errorf("pre-emphasis coefficient %g not in [0, 1)", coefficient)
	}
	return &PreEmphasis{coefficient: coefficient}, nil
}

func (pe *PreEmphasis) Coefficient() float64 {
	return pe.coefficient
}

// Process filters one sample.
func (pe *PreEmphasis) Process(x float32) float32 {
	in := float64(x)
	out := in - pe.coefficient*pe.last
	pe.last = in
	return float32(out)
}

func (pe *PreEmphasis) ProcessInPlace(samples []float32) {
	for i, s := range samples {
		samples[i] = pe.Process(s)
	}
}

func (pe *PreEmphasis) Reset() {
	pe.last = 0
}

// Gain is the magnitude response at frequency Hz: |1 - a*e^(-jw)|.
func (pe *PreEmphasis) Gain(frequency float64, sampleRate int) float64 {
	w := 2 * math.Pi * frequency / float64(sampleRate)
	re := 1 - pe.coefficient*math.Cos(w)
	im := pe.coefficient * math.Sin(w)
	return math.Hypot(re, im)
}
