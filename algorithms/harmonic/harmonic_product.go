// Package harmonic estimates the fundamental frequency of full spectra.
package harmonic

import (
	"errors"
	"fmt"

	"github.com/RyanBlaney/sonido-dft/algorithms/spectral"
)

var (
	// ErrNotFullSpectrum is returned for frames that do not hold every bin
	// from 0 up in order, such as Goertzel results.
	ErrNotFullSpectrum = errors.New("harmonic: frame is not a full spectrum")

	// ErrNoFundamental is returned when the search range holds no energy.
	ErrNoFundamental = errors.New("harmonic: no fundamental in range")
)

// Estimator finds the fundamental with the Harmonic Product Spectrum: the
// power spectrum is multiplied by copies of itself decimated by 2, 3, ...,
// which lines up the harmonics of a pitched sound on its fundamental bin.
//
// Reference: M. R. Schroeder, "Period histogram and product spectrum: New
// methods for fundamental-frequency measurement", JASA 43, 1968.
type Estimator struct {
	harmonics int
	minF0     float64
	maxF0     float64
}

// NewEstimator creates an estimator multiplying harmonics spectra and
// searching for the fundamental in [minF0, maxF0] Hz.
func NewEstimator(harmonics int, minF0, maxF0 float64) (*Estimator, error) {
	if harmonics < 1 {
		return nil, fmt.Errorf("harmonic count must be at least 1, got %d", harmonics)
	}
	if minF0 < 0 || maxF0 <= minF0 {
		return nil, fmt.Errorf("invalid fundamental range [%g, %g] Hz", minF0, maxF0)
	}
	return &Estimator{harmonics: harmonics, minF0: minF0, maxF0: maxF0}, nil
}

// DefaultEstimator covers voices and most pitched instruments.
func DefaultEstimator() *Estimator {
	return &Estimator{harmonics: 5, minF0: 50, maxF0: 2000}
}

// ProductSpectrum returns hps[k] = power[k] * power[2k] * ... * power[h*k].
// Products that would read past the spectrum are 0.
func ProductSpectrum(power []float64, harmonics int) []float64 {
	hps := make([]float64, len(power))
	copy(hps, power)

	for h := 2; h <= harmonics; h++ {
		for k := range hps {
			if k*h < len(power) {
				hps[k] *= power[k*h]
			} else {
				hps[k] = 0
			}
		}
	}
	return hps
}

// Estimate returns the harmonic at the fundamental of frame, which must be a
// full spectrum as produced by the STFT analyzer.
func (e *Estimator) Estimate(frame []spectral.Harmonic) (spectral.Harmonic, error) {
	if err := checkFullSpectrum(frame); err != nil {
		return spectral.Harmonic{}, err
	}

	sc := frame[0].Bin.Context()
	hps := ProductSpectrum(spectral.PowerSpectrum(frame), e.harmonics)

	lo := max(1, sc.FrequencyToBin(float32(e.minF0)))
	hi := min(len(hps)-1, sc.FrequencyToBin(float32(e.maxF0)))

	best, bestValue := -1, 0.0
	for k := lo; k <= hi; k++ {
		if hps[k] > bestValue {
			best, bestValue = k, hps[k]
		}
	}
	if best < 0 {
		return spectral.Harmonic{}, ErrNoFundamental
	}
	return frame[best], nil
}

// Harmonicity is the share of the frame's power found in the bins nearest to
// the first harmonics multiples of f0, in [0, 1].
func Harmonicity(frame []spectral.Harmonic, f0 spectral.Harmonic, harmonics int) float64 {
	if len(frame) == 0 || f0.BinIndex() == 0 {
		return 0
	}

	power := spectral.PowerSpectrum(frame)
	total := 0.0
	for _, p := range power {
		total += p
	}
	if total == 0 {
		return 0
	}

	harmonic := 0.0
	for h := 1; h <= harmonics; h++ {
		k := h * f0.BinIndex()
		if k >= len(power) {
			break
		}
		harmonic += power[k]
	}
	return harmonic / total
}

func checkFullSpectrum(frame []spectral.Harmonic) error {
	if len(frame) == 0 || len(frame) != frame[0].Bin.Context().BinCount() {
		return ErrNotFullSpectrum
	}
	for i, h := range frame {
		if h.BinIndex() != i {
			return ErrNotFullSpectrum
		}
	}
	return nil
}
