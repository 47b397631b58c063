package spectral

import (
	"errors"
	"fmt"
	"math"
)

var (
	// ErrInvalidSamplingContext is returned for a non-positive sample rate or window length.
	ErrInvalidSamplingContext = errors.New("spectral: invalid sampling context")

	// ErrContextMismatch is the panic value when bins of different sampling contexts meet.
	ErrContextMismatch = errors.New("spectral: frequency bins belong to different sampling contexts")

	// ErrBinOutOfRange is returned when a bin index falls outside [0, BinCount()).
	ErrBinOutOfRange = errors.New("spectral: bin out of range")
)

// SamplingContext fixes the sample rate and analysis window length that
// together define the frequency bins of a discrete Fourier transform.
//
// Bin b is centered on b*SampleRate/WindowLength Hz. Only the non-negative
// half of the spectrum is modeled, so valid bins are 0..WindowLength/2.
type SamplingContext struct {
	sampleRate   int
	windowLength int
}

// NewSamplingContext validates and returns a sampling context.
func NewSamplingContext(sampleRate, windowLength int) (SamplingContext, error) {
	if sampleRate < 1 {
		return SamplingContext{}, fmt.Errorf("sample rate must be positive, got %d: %w", sampleRate, ErrInvalidSamplingContext)
	}
	if windowLength < 1 {
		return SamplingContext{}, fmt.Errorf("window length must be positive, got %d: %w", windowLength, ErrInvalidSamplingContext)
	}
	return SamplingContext{sampleRate: sampleRate, windowLength: windowLength}, nil
}

// MustSamplingContext is like NewSamplingContext but panics on error.
func MustSamplingContext(sampleRate, windowLength int) SamplingContext {
	sc, err := NewSamplingContext(sampleRate, windowLength)
	if err != nil {
		panic(err)
	}
	return sc
}

func (sc SamplingContext) SampleRate() int {
	return sc.sampleRate
}

func (sc SamplingContext) WindowLength() int {
	return sc.windowLength
}

// BinCount is the number of non-negative frequency bins, WindowLength/2 + 1.
func (sc SamplingContext) BinCount() int {
	return sc.windowLength/2 + 1
}

// FrequencyGap is the width of one bin in Hz.
func (sc SamplingContext) FrequencyGap() float32 {
	return float32(float64(sc.sampleRate) / float64(sc.windowLength))
}

// FrequencyToBin returns the bin whose interval contains frequency. Results are
// clamped to [0, BinCount()-1]; NaN maps to bin 0.
func (sc SamplingContext) FrequencyToBin(frequency float32) int {
	scaled := float64(frequency) / float64(sc.sampleRate) * float64(sc.windowLength)
	if math.IsNaN(scaled) {
		return 0
	}

	// round half up, matching the half-open bin intervals
	bin := math.Floor(scaled + 0.5)
	if bin <= 0 {
		return 0
	}
	if last := float64(sc.windowLength / 2); bin >= last {
		return int(last)
	}
	return int(bin)
}

// BinToFrequency returns the center frequency of bin in Hz.
func (sc SamplingContext) BinToFrequency(bin int) float32 {
	return float32(float64(bin) * float64(sc.sampleRate) / float64(sc.windowLength))
}

// BinFrequencyInterval returns the half-open interval [low, high) of
// frequencies that map to bin. Bin 0 starts below 0 Hz and the last bin may
// extend past Nyquist.
func (sc SamplingContext) BinFrequencyInterval(bin int) (low, high float32) {
	center := float64(bin) * float64(sc.sampleRate) / float64(sc.windowLength)
	half := float64(sc.sampleRate) / float64(sc.windowLength) / 2
	return float32(center - half), float32(center + half)
}

// Bin returns the identity of bin index. It panics if index is out of range.
func (sc SamplingContext) Bin(index int) DiscreteFrequency {
	if index < 0 || index >= sc.BinCount() {
		panic(fmt.Errorf("bin %d not in [0, %d): %w", index, sc.BinCount(), ErrBinOutOfRange))
	}
	return DiscreteFrequency{ctx: sc, index: index}
}

// BinForFrequency returns the bin containing frequency.
func (sc SamplingContext) BinForFrequency(frequency float32) DiscreteFrequency {
	return DiscreteFrequency{ctx: sc, index: sc.FrequencyToBin(frequency)}
}

// Bins returns every bin in ascending order.
func (sc SamplingContext) Bins() []DiscreteFrequency {
	bins := make([]DiscreteFrequency, sc.BinCount())
	for i := range bins {
		bins[i] = DiscreteFrequency{ctx: sc, index: i}
	}
	return bins
}

// IsZero reports whether sc is the zero value rather than a validated context.
func (sc SamplingContext) IsZero() bool {
	return sc.sampleRate == 0 && sc.windowLength == 0
}

func (sc SamplingContext) String() string {
	return fmt.Sprintf("%d Hz / %d samples", sc.sampleRate, sc.windowLength)
}
