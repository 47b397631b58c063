package chroma

import (
	"fmt"
	"math"

	"github.com/RyanBlaney/sonido-dft/algorithms/spectral"
)

// Vector is a pitch class profile, normalized to unit sum unless silent.
type Vector [12]float64

// Dominant returns the strongest pitch class. ok is false for a silent vector.
func (v Vector) Dominant() (class int, ok bool) {
	best := 0.0
	for i, e := range v {
		if e > best {
			class, best = i, e
		}
	}
	return class, best > 0
}

// Add accumulates other into v without normalizing.
func (v *Vector) Add(other Vector) {
	for i := range v {
		v[i] += other[i]
	}
}

// Normalize scales v to unit sum. Silent vectors are left at zero.
func (v *Vector) Normalize() {
	total := 0.0
	for _, e := range v {
		total += e
	}
	if total <= 1e-10 {
		return
	}
	for i := range v {
		v[i] /= total
	}
}

// Chroma folds spectra into pitch classes: the power of each harmonic within
// the frequency range is added to the class of its nearest note.
type Chroma struct {
	tuning  float64
	minFreq float64
	maxFreq float64
}

// New creates a Chroma for the given A4 tuning over [minFreq, maxFreq] Hz.
func New(tuning, minFreq, maxFreq float64) (*Chroma, error) {
	if tuning <= 0 {
		return nil, fmt.Errorf("tuning must be positive, got %g", tuning)
	}
	if minFreq <= 0 || maxFreq <= minFreq {
		return nil, fmt.Errorf("invalid frequency range [%g, %g] Hz", minFreq, maxFreq)
	}
	return &Chroma{tuning: tuning, minFreq: minFreq, maxFreq: maxFreq}, nil
}

// NewDefault covers E2 to 8 kHz at A4 = 440 Hz.
func NewDefault() *Chroma {
	return &Chroma{tuning: DefaultTuning, minFreq: 80, maxFreq: 8000}
}

// Vector computes the normalized pitch class profile of one frame. Any set
// of harmonics works, full spectra or Goertzel bins.
func (c *Chroma) Vector(frame []spectral.Harmonic) Vector {
	var v Vector
	for _, h := range frame {
		f := float64(h.Frequency())
		if f < c.minFreq || f > c.maxFreq {
			continue
		}
		nearest := int(math.Round(MIDINumber(f, c.tuning)))
		v[((nearest%12)+12)%12] += float64(h.Power())
	}
	v.Normalize()
	return v
}

// Profile sums the vectors of every frame of a spectrogram and normalizes
// the result.
func (c *Chroma) Profile(s *spectral.Spectrogram) Vector {
	var total Vector
	for _, frame := range s.Frames {
		total.Add(c.Vector(frame))
	}
	total.Normalize()
	return total
}
