package spectral

import (
	"fmt"
	"math/cmplx"
)

// Harmonic is the complex DFT coefficient of one frequency bin.
type Harmonic struct {
	Phasor complex64
	Bin    DiscreteFrequency
}

// Amplitude is |Phasor|.
func (h Harmonic) Amplitude() float32 {
	return float32(cmplx.Abs(complex128(h.Phasor)))
}

// Phase is arg(Phasor) in radians, within (-pi, pi].
func (h Harmonic) Phase() float32 {
	return float32(cmplx.Phase(complex128(h.Phasor)))
}

// Power is |Phasor|^2.
func (h Harmonic) Power() float32 {
	re, im := real(h.Phasor), imag(h.Phasor)
	return re*re + im*im
}

func (h Harmonic) Frequency() float32 {
	return h.Bin.Frequency()
}

func (h Harmonic) BinIndex() int {
	return h.Bin.Index()
}

func (h Harmonic) String() string {
	return fmt.Sprintf("%.2f Hz: amplitude %.4f, phase %.4f", h.Frequency(), h.Amplitude(), h.Phase())
}

// Peak returns the harmonic with the highest power. Ties go to the lowest bin.
// ok is false for an empty slice.
func Peak(harmonics []Harmonic) (peak Harmonic, ok bool) {
	if len(harmonics) == 0 {
		return Harmonic{}, false
	}

	peak = harmonics[0]
	best := peak.Power()
	for _, h := range harmonics[1:] {
		if p := h.Power(); p > best {
			peak, best = h, p
		}
	}
	return peak, true
}

// CloneHarmonics returns a copy of harmonics that does not alias the input.
func CloneHarmonics(harmonics []Harmonic) []Harmonic {
	if harmonics == nil {
		return nil
	}
	out := make([]Harmonic, len(harmonics))
	copy(out, harmonics)
	return out
}
