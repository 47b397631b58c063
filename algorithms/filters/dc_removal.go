package filters

import (
	"fmt"
	"math"
)

// DefaultPole gives a cutoff of roughly 35 Hz at 44.1 kHz.
const DefaultPole = 0.995

// DCRemoval is a DC blocking filter, a one-pole one-zero high-pass:
//
//	y[n] = x[n] - x[n-1] + R*y[n-1]
//
// A constant offset in the input decays to zero in the output, which keeps
// bin 0 from dominating the spectrum of recordings with a DC bias.
//
// Reference: J. O. Smith III, "Introduction to Digital Filters with Audio
// Applications", DC Blocker.
type DCRemoval struct {
	pole float64 // R, in (0, 1)

	x1 float64
	y1 float64
}

// NewDCRemoval creates a DC blocker with the default pole.
func NewDCRemoval() *DCRemoval {
	return &DCRemoval{pole: DefaultPole}
}

// NewDCRemovalWithCutoff places the pole for a -3 dB cutoff near cutoff Hz,
// using R = 1 - 2*pi*fc/fs, which holds for fc much lower than fs/2.
func NewDCRemovalWithCutoff(sampleRate int, cutoff float64) (*DCRemoval, error) {
	if sampleRate <= 0 {
		return nil, fmt.Errorf("sample rate must be positive, got %d", sampleRate)
	}
	if cutoff <= 0 || cutoff >= float64(sampleRate)/2 {
		return nil, fmt.Errorf("cutoff %g Hz not in (0, %g)", cutoff, float64(sampleRate)/2)
	}

	pole := 1 - 2*math.Pi*cutoff/float64(sampleRate)
	return &DCRemoval{pole: min(max(pole, 0.001), 0.999)}, nil
}

// Pole returns R.
func (dc *DCRemoval) Pole() float64 {
	return dc.pole
}

// Cutoff is the approximate -3 dB frequency in Hz at sampleRate.
func (dc *DCRemoval) Cutoff(sampleRate int) float64 {
	return (1 - dc.pole) * float64(sampleRate) / (2 * math.Pi)
}

// Process filters one sample.
func (dc *DCRemoval) Process(x float32) float32 {
	in := float64(x)
	out := in - dc.x1 + dc.pole*dc.y1
	dc.x1, dc.y1 = in, out
	return float32(out)
}

func (dc *DCRemoval) ProcessInPlace(samples []float32) {
	for i, s := range samples {
		samples[i] = dc.Process(s)
	}
}

// Reset clears the filter state. Call it between unrelated signals.
func (dc *DCRemoval) Reset() {
	dc.x1, dc.y1 = 0, 0
}
