package cmd

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/RyanBlaney/sonido-dft/config"
	"github.com/RyanBlaney/sonido-dft/logging"
)

// addAnalysisFlags registers the AnalysisConfig fields as flags. The flag
// defaults are only shown in help; the effective defaults come from the
// selected profile through viper.
func addAnalysisFlags(cmd *cobra.Command) {
	d := config.Default()
	f := cmd.Flags()

	f.Int("sample-rate", d.SampleRate, "sample rate in Hz")
	f.IntP("window-length", "n", d.WindowLength, "samples per analysis window")
	f.Int("hop-length", d.HopLength, "samples between window starts (0 = window length)")
	f.StringP("window", "w", d.Window, "window function (hann, rectangle, identity, hamming, blackman, blackman_harris)")
	f.Int("rectangle-width", d.RectangleWidth, "passed samples of the rectangle window")
	f.StringP("analyzer", "a", d.Analyzer, "analyzer (stft, goertzel)")
	f.IntSlice("bins", nil, "bin indices for the goertzel analyzer")
	f.StringSlice("frequencies", nil, "frequencies in Hz for the goertzel analyzer")
	f.String("backend", d.Backend, "FFT backend for stft (gonum, go-dsp)")
	f.Float64("dc-cutoff", d.DCCutoff, "DC blocker cutoff in Hz applied before analysis (0 = off)")
	f.Float64("pre-emphasis", d.PreEmphasis, "pre-emphasis coefficient applied before analysis (0 = off)")
	f.Int("workers", d.Workers, "spectrogram workers (0 = automatic)")
	f.Int("smoothing", d.Smoothing, "windows averaged into the smoothed peak")
}

// loadAnalysisConfig resolves the analysis configuration of the running
// command: the profile supplies defaults, then config file, env and flags.
func loadAnalysisConfig() (*config.AnalysisConfig, error) {
	v := viper.GetViper()
	profile := config.Profile(v.GetString("profile"))
	config.SetDefaultsFrom(v, config.ForProfile(profile))

	cfg, err := config.Load(v)
	if err != nil {
		return nil, err
	}

	logging.Debug("Analysis configuration resolved", logging.Fields{
		"profile":       string(profile),
		"sample_rate":   cfg.SampleRate,
		"window_length": cfg.WindowLength,
		"window":        cfg.Window,
		"analyzer":      cfg.Analyzer,
		"backend":       cfg.Backend,
	})
	return cfg, nil
}
