package spectral

import (
	"fmt"
	"math"

	"github.com/RyanBlaney/sonido-dft/logging"
)

// Analyzer turns one window of mono samples into harmonics.
//
// AnalyzeInPlace returns a slice owned by the analyzer that the next call
// overwrites; Analyze returns a copy. Both panic when len(signal) differs
// from the context's window length. Analyzers are not safe for concurrent use.
type Analyzer interface {
	SamplingContext() SamplingContext
	Analyze(signal []float32) []Harmonic
	AnalyzeInPlace(signal []float32) []Harmonic
}

// AnalyzerFactory creates an independent Analyzer, for example one per worker.
type AnalyzerFactory func() (Analyzer, error)

// Option configures an analyzer.
type Option func(*options)

type options struct {
	plan   PlanFactory
	logger logging.Logger
}

func defaultOptions() options {
	return options{plan: GonumPlan}
}

// WithPlan selects the FFT implementation of an STFT analyzer. Other
// analyzers ignore it.
func WithPlan(plan PlanFactory) Option {
	return func(o *options) {
		if plan != nil {
			o.plan = plan
		}
	}
}

// WithLogger sets the logger used at construction. The global logger is used otherwise.
func WithLogger(logger logging.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

func applyOptions(opts []Option) options {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	o.logger = logging.OrGlobal(o.logger)
	return o
}

func checkSignalLength(signal []float32, ctx SamplingContext) {
	if len(signal) != ctx.windowLength {
		panic(fmt.Sprintf("spectral: signal length %d does not match window length %d", len(signal), ctx.windowLength))
	}
}

func checkContext(ctx SamplingContext) {
	if ctx.sampleRate < 1 || ctx.windowLength < 1 {
		panic(fmt.Errorf("%w: %s", ErrInvalidSamplingContext, ctx))
	}
}

// normalization is the 1/sqrt(N) factor applied to every coefficient.
func normalization(n int) float64 {
	return 1 / math.Sqrt(float64(n))
}
