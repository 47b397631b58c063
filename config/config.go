// Package config describes an analysis setup and builds analyzers from it.
package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/RyanBlaney/sonido-dft/algorithms/filters"
	"github.com/RyanBlaney/sonido-dft/algorithms/spectral"
	"github.com/RyanBlaney/sonido-dft/algorithms/windowing"
	"github.com/RyanBlaney/sonido-dft/logging"
)

// Analyzer kinds.
const (
	AnalyzerSTFT     = "stft"
	AnalyzerGoertzel = "goertzel"
)

// ErrInvalidConfig wraps every validation failure.
var ErrInvalidConfig = errors.New("invalid analysis config")

// AnalysisConfig selects the sampling context, window, analyzer and its
// parameters for a run.
type AnalysisConfig struct {
	// Sampling
	SampleRate   int `json:"sample_rate" yaml:"sample_rate" mapstructure:"sample_rate"`
	WindowLength int `json:"window_length" yaml:"window_length" mapstructure:"window_length"`
	HopLength    int `json:"hop_length" yaml:"hop_length" mapstructure:"hop_length"` // 0 means WindowLength

	// Window
	Window         string `json:"window" yaml:"window" mapstructure:"window"`
	RectangleWidth int    `json:"rectangle_width,omitempty" yaml:"rectangle_width,omitempty" mapstructure:"rectangle_width"`

	// Analyzer
	Analyzer    string    `json:"analyzer" yaml:"analyzer" mapstructure:"analyzer"` // "stft", "goertzel"
	Bins        []int     `json:"bins,omitempty" yaml:"bins,omitempty" mapstructure:"bins"`
	Frequencies []float64 `json:"frequencies,omitempty" yaml:"frequencies,omitempty" mapstructure:"frequencies"` // Hz, mapped to bins
	Backend     string    `json:"backend" yaml:"backend" mapstructure:"backend"`                                 // "gonum", "go-dsp"

	// Pre-filtering
	DCCutoff    float64 `json:"dc_cutoff,omitempty" yaml:"dc_cutoff,omitempty" mapstructure:"dc_cutoff"`          // Hz, 0 disables the DC blocker
	PreEmphasis float64 `json:"pre_emphasis,omitempty" yaml:"pre_emphasis,omitempty" mapstructure:"pre_emphasis"` // coefficient, 0 disables

	// Execution
	Workers   int `json:"workers" yaml:"workers" mapstructure:"workers"`       // 0 picks a count from the machine
	Smoothing int `json:"smoothing" yaml:"smoothing" mapstructure:"smoothing"` // windows in the peak moving average
}

// Profile names a preset configuration.
type Profile string

const (
	ProfileDefault Profile = "default"
	ProfileTuner   Profile = "tuner"
	ProfileFast    Profile = "fast"
	ProfilePrecise Profile = "precise"
)

// Default returns a full-spectrum STFT setup at CD sample rate with 10 Hz bins.
func Default() *AnalysisConfig {
	return &AnalysisConfig{
		SampleRate:   44100,
		WindowLength: 4410,
		HopLength:    0,
		Window:       string(windowing.TypeHann),
		Analyzer:     AnalyzerSTFT,
		Backend:      string(spectral.BackendGonum),
		Workers:      0,
		Smoothing:    1,
	}
}

// ForProfile returns the preset for profile. Unknown profiles get Default.
func ForProfile(profile Profile) *AnalysisConfig {
	config := Default()

	switch profile {
	case ProfileTuner:
		// A2..A6, one Goertzel bin each
		config.Analyzer = AnalyzerGoertzel
		config.Frequencies = []float64{110, 220, 440, 880, 1760}
		config.Smoothing = 4
		config.DCCutoff = 20

	case ProfileFast:
		config.WindowLength = 1024
		config.Backend = string(spectral.BackendGoDSP)
		config.HopLength = 512

	case ProfilePrecise:
		config.WindowLength = 8820
		config.Window = string(windowing.TypeBlackmanHarris)
		config.HopLength = 2205
	}

	return config
}

// Profiles lists the preset names.
func Profiles() []Profile {
	return []Profile{ProfileDefault, ProfileTuner, ProfileFast, ProfilePrecise}
}

// Hop returns the effective hop length.
func (c *AnalysisConfig) Hop() int {
	if c.HopLength <= 0 {
		return c.WindowLength
	}
	return c.HopLength
}

// Validate checks every field and reports all problems at once.
func (c *AnalysisConfig) Validate() error {
	var errs []error

	sc, err := spectral.NewSamplingContext(c.SampleRate, c.WindowLength)
	if err != nil {
		errs = append(errs, err)
	}

	if c.HopLength < 0 {
		errs = append(errs, fmt.Errorf("hop length must not be negative, got %d", c.HopLength))
	}

	if window, err := c.WindowFunction(); err != nil {
		errs = append(errs, err)
	} else if minLen := windowing.MinLength(window); c.WindowLength > 0 && c.WindowLength < minLen {
		errs = append(errs, fmt.Errorf("%s window needs at least %d samples, got %d", window.Type(), minLen, c.WindowLength))
	}

	if _, err := spectral.PlanFor(spectral.Backend(c.Backend)); err != nil {
		errs = append(errs, err)
	}

	switch strings.ToLower(c.Analyzer) {
	case AnalyzerSTFT:
	case AnalyzerGoertzel:
		if len(c.Bins)+len(c.Frequencies) == 0 {
			errs = append(errs, errors.New("goertzel analyzer needs at least one bin or frequency"))
		}
		if err == nil {
			for _, b := range c.Bins {
				if b < 0 || b >= sc.BinCount() {
					errs = append(errs, fmt.Errorf("bin %d not in [0, %d)", b, sc.BinCount()))
				}
			}
		}
		for _, f := range c.Frequencies {
			if f < 0 || f > float64(c.SampleRate)/2 {
				errs = append(errs, fmt.Errorf("frequency %g Hz outside [0, %d/2]", f, c.SampleRate))
			}
		}
	default:
		errs = append(errs, fmt.Errorf("unknown analyzer %q", c.Analyzer))
	}

	if c.DCCutoff < 0 || (c.DCCutoff > 0 && c.DCCutoff >= float64(c.SampleRate)/2) {
		errs = append(errs, fmt.Errorf("dc cutoff %g Hz not in [0, %d/2)", c.DCCutoff, c.SampleRate))
	}
	if c.PreEmphasis < 0 || c.PreEmphasis >= 1 {
		errs = append(errs, fmt.Errorf("pre-emphasis %g not in [0, 1)", c.PreEmphasis))
	}

	if c.Workers < 0 {
		errs = append(errs, fmt.Errorf("workers must not be negative, got %d", c.Workers))
	}
	if c.Smoothing < 1 {
		errs = append(errs, fmt.Errorf("smoothing must be at least 1, got %d", c.Smoothing))
	}

	if len(errs) > 0 {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, errors.Join(errs...))
	}
	return nil
}

// SamplingContext builds the bin model of the configuration.
func (c *AnalysisConfig) SamplingContext() (spectral.SamplingContext, error) {
	return spectral.NewSamplingContext(c.SampleRate, c.WindowLength)
}

// WindowFunction resolves the configured window name.
func (c *AnalysisConfig) WindowFunction() (windowing.Function, error) {
	return windowing.ByName(c.Window, c.RectangleWidth)
}

// GoertzelBins merges Bins with the bins of Frequencies.
func (c *AnalysisConfig) GoertzelBins(sc spectral.SamplingContext) []int {
	bins := make([]int, 0, len(c.Bins)+len(c.Frequencies))
	bins = append(bins, c.Bins...)
	for _, f := range c.Frequencies {
		bins = append(bins, sc.FrequencyToBin(float32(f)))
	}
	return bins
}

// NewAnalyzer validates the configuration and builds its analyzer.
func (c *AnalysisConfig) NewAnalyzer(logger logging.Logger) (spectral.Analyzer, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}

	sc, _ := c.SamplingContext()
	window, _ := c.WindowFunction()
	plan, _ := spectral.PlanFor(spectral.Backend(c.Backend))

	opts := []spectral.Option{spectral.WithPlan(plan), spectral.WithLogger(logger)}

	if strings.ToLower(c.Analyzer) == AnalyzerGoertzel {
		g, err := spectral.NewGoertzelAnalyzer(sc, c.GoertzelBins(sc), window, opts...)
		if err != nil {
			return nil, err
		}
		return g, nil
	}
	return spectral.NewSTFTAnalyzer(sc, window, opts...), nil
}

// Filters builds the configured pre-filter chain, DC blocker first. The
// chain is empty when both filters are disabled.
func (c *AnalysisConfig) Filters() (filters.Chain, error) {
	var chain filters.Chain

	if c.DCCutoff > 0 {
		dc, err := filters.NewDCRemovalWithCutoff(c.SampleRate, c.DCCutoff)
		if err != nil {
			return nil, err
		}
		chain = append(chain, dc)
	}

	if c.PreEmphasis > 0 {
		pe, err := filters.NewPreEmphasis(c.PreEmphasis)
		if err != nil {
			return nil, err
		}
		chain = append(chain, pe)
	}

	return chain, nil
}

// AnalyzerFactory returns a factory producing independent analyzers, one per
// spectrogram worker.
func (c *AnalysisConfig) AnalyzerFactory(logger logging.Logger) spectral.AnalyzerFactory {
	return func() (spectral.Analyzer, error) {
		return c.NewAnalyzer(logger)
	}
}
