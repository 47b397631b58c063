package spectral

import (
	"fmt"
	"math/cmplx"
	"strings"

	"github.com/mjibson/go-dsp/dsputils"
	"github.com/mjibson/go-dsp/fft"
	"gonum.org/v1/gonum/dsp/fourier"
)

// Plan is a real-input FFT of fixed length.
//
// Coefficients returns the Len()/2+1 non-negative frequency coefficients of
// seq, unnormalized, with the e^{-i2pi kn/N} sign convention. Sequence is the
// unnormalized inverse, returning Len() times the original samples. Both
// panic on length mismatch, reusing dst when it is non-nil.
//
// Plans hold scratch memory and are not safe for concurrent use.
type Plan interface {
	Len() int
	Coefficients(dst []complex128, seq []float64) []complex128
	Sequence(dst []float64, coeff []complex128) []float64
}

// PlanFactory creates a Plan for a window length.
type PlanFactory func(n int) Plan

// Backend names an FFT implementation.
type Backend string

const (
	BackendGonum Backend = "gonum"
	BackendGoDSP Backend = "go-dsp"
)

// GonumPlan builds a plan on gonum's dsp/fourier package. It is the default.
func GonumPlan(n int) Plan {
	return fourier.NewFFT(n)
}

// DSPPlan builds a plan on github.com/mjibson/go-dsp/fft. Power-of-two
// lengths use its radix-2 path, others Bluestein.
func DSPPlan(n int) Plan {
	if n > 1 && dsputils.IsPowerOf2(n) {
		fft.EnsureRadix2Factors(n)
	}
	return &dspPlan{n: n}
}

// PlanFor returns the plan factory for backend.
func PlanFor(backend Backend) (PlanFactory, error) {
	switch Backend(strings.ToLower(string(backend))) {
	case BackendGonum, "":
		return GonumPlan, nil
	case BackendGoDSP, "godsp", "dsp":
		return DSPPlan, nil
	default:
		return nil, fmt.Errorf("unknown FFT backend %q", backend)
	}
}

type dspPlan struct {
	n int
}

func (p *dspPlan) Len() int {
	return p.n
}

func (p *dspPlan) Coefficients(dst []complex128, seq []float64) []complex128 {
	if len(seq) != p.n {
		panic("spectral: sequence length mismatch")
	}
	half := p.n/2 + 1
	if dst == nil {
		dst = make([]complex128, half)
	} else if len(dst) != half {
		panic("spectral: destination length mismatch")
	}

	full := fft.FFTReal(seq)
	copy(dst, full[:half])
	return dst
}

func (p *dspPlan) Sequence(dst []float64, coeff []complex128) []float64 {
	half := p.n/2 + 1
	if len(coeff) != half {
		panic("spectral: coefficients length mismatch")
	}
	if dst == nil {
		dst = make([]float64, p.n)
	} else if len(dst) != p.n {
		panic("spectral: destination length mismatch")
	}

	// rebuild the Hermitian-symmetric spectrum of a real signal
	full := make([]complex128, p.n)
	copy(full, coeff)
	for k := half; k < p.n; k++ {
		full[k] = cmplx.Conj(coeff[p.n-k])
	}

	// go-dsp normalizes its inverse; Plan.Sequence does not
	scale := float64(p.n)
	for i, v := range fft.IFFT(full) {
		dst[i] = real(v) * scale
	}
	return dst
}
