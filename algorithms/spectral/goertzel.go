package spectral

import (
	"fmt"
	"math"
	"slices"

	"github.com/RyanBlaney/sonido-dft/algorithms/windowing"
	"github.com/RyanBlaney/sonido-dft/logging"
)

// goertzelBin holds the per-bin constants of the recurrence.
type goertzelBin struct {
	coeff float64 // 2cos(w)
	cos   float64
	sin   float64
}

// GoertzelAnalyzer computes a chosen subset of DFT bins with the Goertzel
// recurrence. Results match STFTAnalyzer for the same bins, window and
// normalization.
type GoertzelAnalyzer struct {
	ctx       SamplingContext
	window    *windowing.Window
	bins      []goertzelBin
	scale     float64
	scratch   []float64
	harmonics []Harmonic
	logger    logging.Logger
}

// NewGoertzelAnalyzer prepares an analyzer for the given bin indices. Bins
// are sorted ascending; duplicates are kept and computed twice. Any index
// outside [0, BinCount()) yields ErrBinOutOfRange.
func NewGoertzelAnalyzer(ctx SamplingContext, bins []int, window windowing.Function, opts ...Option) (*GoertzelAnalyzer, error) {
	checkContext(ctx)
	o := applyOptions(opts)

	sorted := slices.Clone(bins)
	slices.Sort(sorted)
	for _, b := range sorted {
		if b < 0 || b >= ctx.BinCount() {
			return nil, fmt.Errorf("bin %d not in [0, %d) for %s: %w", b, ctx.BinCount(), ctx, ErrBinOutOfRange)
		}
	}

	n := ctx.windowLength
	g := &GoertzelAnalyzer{
		ctx:       ctx,
		window:    windowing.New(window, n),
		bins:      make([]goertzelBin, len(sorted)),
		scale:     normalization(n),
		scratch:   make([]float64, n),
		harmonics: make([]Harmonic, len(sorted)),
		logger: o.logger.WithFields(logging.Fields{
			"component": "goertzel_analyzer",
		}),
	}

	for i, b := range sorted {
		w := 2 * math.Pi * float64(b) / float64(n)
		sin, cos := math.Sincos(w)
		g.bins[i] = goertzelBin{coeff: 2 * cos, cos: cos, sin: sin}
		g.harmonics[i].Bin = DiscreteFrequency{ctx: ctx, index: b}
	}

	g.logger.Debug("Goertzel analyzer ready", logging.Fields{
		"sample_rate":   ctx.sampleRate,
		"window_length": n,
		"window":        string(window.Type()),
		"bins":          len(sorted),
	})

	return g, nil
}

// NewGoertzelAnalyzerForFrequencies maps each frequency to its bin and builds
// an analyzer for those bins.
func NewGoertzelAnalyzerForFrequencies(ctx SamplingContext, frequencies []float32, window windowing.Function, opts ...Option) (*GoertzelAnalyzer, error) {
	checkContext(ctx)
	bins := make([]int, len(frequencies))
	for i, f := range frequencies {
		bins[i] = ctx.FrequencyToBin(f)
	}
	return NewGoertzelAnalyzer(ctx, bins, window, opts...)
}

func (g *GoertzelAnalyzer) SamplingContext() SamplingContext {
	return g.ctx
}

// Bins returns the analyzed bins in result order.
func (g *GoertzelAnalyzer) Bins() []DiscreteFrequency {
	out := make([]DiscreteFrequency, len(g.harmonics))
	for i, h := range g.harmonics {
		out[i] = h.Bin
	}
	return out
}

// AnalyzeInPlace returns one harmonic per configured bin, ascending. The
// returned slice is reused by the next call.
func (g *GoertzelAnalyzer) AnalyzeInPlace(signal []float32) []Harmonic {
	checkSignalLength(signal, g.ctx)

	g.window.ApplyTo(g.scratch, signal)

	for i, b := range g.bins {
		var z1, z2 float64
		for _, s := range g.scratch {
			z0 := s + b.coeff*z1 - z2
			z2 = z1
			z1 = z0
		}

		re := (z1*b.cos - z2) * g.scale
		im := z1 * b.sin * g.scale
		g.harmonics[i].Phasor = complex(float32(re), float32(im))
	}
	return g.harmonics
}

// Analyze is AnalyzeInPlace returning a copy the caller owns.
func (g *GoertzelAnalyzer) Analyze(signal []float32) []Harmonic {
	return CloneHarmonics(g.AnalyzeInPlace(signal))
}
