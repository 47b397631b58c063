package spectral

import (
	"fmt"

	"github.com/RyanBlaney/sonido-dft/algorithms/windowing"
	"github.com/RyanBlaney/sonido-dft/logging"
)

// STFTAnalyzer computes every non-negative frequency bin of a window with a
// real FFT. Coefficients are scaled by 1/sqrt(N).
type STFTAnalyzer struct {
	ctx       SamplingContext
	window    *windowing.Window
	plan      Plan
	scale     float64
	scratch   []float64
	coeffs    []complex128
	harmonics []Harmonic
	logger    logging.Logger
}

// NewSTFTAnalyzer precomputes the window weights, the FFT plan and a result
// buffer tagged with bins 0..N/2. It panics on a zero SamplingContext.
func NewSTFTAnalyzer(ctx SamplingContext, window windowing.Function, opts ...Option) *STFTAnalyzer {
	checkContext(ctx)
	o := applyOptions(opts)

	n := ctx.windowLength
	plan := o.plan(n)
	if plan.Len() != n {
		panic(fmt.Sprintf("spectral: FFT plan has length %d, want %d", plan.Len(), n))
	}

	s := &STFTAnalyzer{
		ctx:       ctx,
		window:    windowing.New(window, n),
		plan:      plan,
		scale:     normalization(n),
		scratch:   make([]float64, n),
		coeffs:    make([]complex128, ctx.BinCount()),
		harmonics: make([]Harmonic, ctx.BinCount()),
		logger: o.logger.WithFields(logging.Fields{
			"component": "stft_analyzer",
		}),
	}
	for i := range s.harmonics {
		s.harmonics[i].Bin = DiscreteFrequency{ctx: ctx, index: i}
	}

	s.logger.Debug("STFT analyzer ready", logging.Fields{
		"sample_rate":   ctx.sampleRate,
		"window_length": n,
		"window":        string(window.Type()),
		"bins":          ctx.BinCount(),
	})

	return s
}

func (s *STFTAnalyzer) SamplingContext() SamplingContext {
	return s.ctx
}

// AnalyzeInPlace windows signal, transforms it and returns all BinCount()
// harmonics in ascending bin order. The returned slice is reused by the next call.
func (s *STFTAnalyzer) AnalyzeInPlace(signal []float32) []Harmonic {
	checkSignalLength(signal, s.ctx)

	s.window.ApplyTo(s.scratch, signal)
	s.coeffs = s.plan.Coefficients(s.coeffs, s.scratch)

	for i, c := range s.coeffs {
		s.harmonics[i].Phasor = complex64(c * complex(s.scale, 0))
	}
	return s.harmonics
}

// Analyze is AnalyzeInPlace returning a copy the caller owns.
func (s *STFTAnalyzer) Analyze(signal []float32) []Harmonic {
	return CloneHarmonics(s.AnalyzeInPlace(signal))
}

// Synthesize inverts a full set of harmonics, as produced by Analyze, back
// into the windowed time-domain signal. It panics unless len(harmonics) is BinCount().
func (s *STFTAnalyzer) Synthesize(harmonics []Harmonic) []float32 {
	if len(harmonics) != s.ctx.BinCount() {
		panic(fmt.Sprintf("spectral: got %d harmonics, want %d", len(harmonics), s.ctx.BinCount()))
	}

	coeffs := make([]complex128, len(harmonics))
	for i, h := range harmonics {
		coeffs[i] = complex128(h.Phasor)
	}

	seq := s.plan.Sequence(nil, coeffs)
	out := make([]float32, len(seq))
	for i, v := range seq {
		out[i] = float32(v * s.scale)
	}
	return out
}
