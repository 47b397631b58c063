package audio

import (
	"math"
)

// Partial is one sinusoidal component of a synthesized tone.
type Partial struct {
	Frequency float64 // Hz
	Amplitude float64
	Phase     float64 // radians, at sample 0
}

// Synthesize renders n samples of the sum of A*cos(2*pi*f*i/sampleRate + phase)
// over all partials.
func Synthesize(sampleRate, n int, partials ...Partial) []float32 {
	out := make([]float32, n)
	if sampleRate <= 0 {
		return out
	}

	for _, p := range partials {
		w := 2 * math.Pi * p.Frequency / float64(sampleRate)
		for i := range out {
			out[i] += float32(p.Amplitude * math.Cos(w*float64(i)+p.Phase))
		}
	}
	return out
}

// Chord returns equal-amplitude, zero-phase partials whose amplitudes sum
// to 1, so the rendered signal stays within [-1, 1].
func Chord(frequencies ...float64) []Partial {
	partials := make([]Partial, len(frequencies))
	for i, f := range frequencies {
		partials[i] = Partial{Frequency: f, Amplitude: 1 / float64(len(frequencies))}
	}
	return partials
}

// NewToneSource is a mono, finite Source of a synthesized tone.
func NewToneSource(sampleRate int, duration float64, partials ...Partial) *SliceSource {
	n := int(math.Round(duration * float64(sampleRate)))
	return NewSliceSource(sampleRate, 1, Synthesize(sampleRate, max(n, 0), partials...))
}
