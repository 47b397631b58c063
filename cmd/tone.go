package cmd

import (
	"fmt"
	"math"
	"time"

	"github.com/spf13/cobra"

	"github.com/RyanBlaney/sonido-dft/audio"
	"github.com/RyanBlaney/sonido-dft/logging"
	"github.com/RyanBlaney/sonido-dft/transcode"
)

var (
	toneFrequencies []float64
	toneDuration    time.Duration
	toneRate        int
	toneAmplitude   float64
	toneChannels    int
)

var toneCmd = &cobra.Command{
	Use:   "tone [out.wav]",
	Short: "Write a synthesized tone to a WAV file",
	Long: `Render a chord of cosines with equal amplitudes to a 16-bit WAV file. The
same signal is written to every channel. Useful as a known input for the
other commands.`,
	Example: `  sonido-dft tone a440.wav
  sonido-dft tone dtmf-1.wav --rate 8000 --frequencies 697,1209 --duration 100ms`,
	Args: cobra.ExactArgs(1),
	RunE: runTone,
}

func init() {
	rootCmd.AddCommand(toneCmd)

	toneCmd.Flags().Float64SliceVar(&toneFrequencies, "frequencies", []float64{440}, "partial frequencies in Hz")
	toneCmd.Flags().DurationVar(&toneDuration, "duration", time.Second, "length of the tone")
	toneCmd.Flags().IntVar(&toneRate, "rate", 44100, "sample rate in Hz")
	toneCmd.Flags().Float64Var(&toneAmplitude, "amplitude", 0.8, "peak amplitude of the chord (0-1]")
	toneCmd.Flags().IntVar(&toneChannels, "channels", 1, "channels to write")
}

func runTone(cmd *cobra.Command, args []string) error {
	samples, err := renderTone(toneRate, toneChannels, toneDuration, toneAmplitude, toneFrequencies)
	if err != nil {
		return err
	}

	if err := transcode.WriteWAVFile(args[0], toneRate, toneChannels, samples); err != nil {
		return err
	}

	logging.Info("Wrote tone", logging.Fields{
		"path":        args[0],
		"frequencies": toneFrequencies,
		"duration":    toneDuration.String(),
		"sample_rate": toneRate,
		"channels":    toneChannels,
	})
	return nil
}

// renderTone returns the interleaved samples of the chord.
func renderTone(rate, channels int, duration time.Duration, amplitude float64, frequencies []float64) ([]float32, error) {
	switch {
	case rate <= 0:
		return nil, fmt.Errorf("sample rate must be positive, got %d", rate)
	case channels < 1:
		return nil, fmt.Errorf("channel count must be positive, got %d", channels)
	case duration <= 0:
		return nil, fmt.Errorf("duration must be positive, got %s", duration)
	case amplitude <= 0 || amplitude > 1:
		return nil, fmt.Errorf("amplitude must be in (0, 1], got %g", amplitude)
	case len(frequencies) == 0:
		return nil, fmt.Errorf("at least one frequency is required")
	}

	nyquist := float64(rate) / 2
	partials := audio.Chord(frequencies...)
	for i := range partials {
		if partials[i].Frequency < 0 || partials[i].Frequency > nyquist {
			return nil, fmt.Errorf("frequency %g Hz is outside [0, %g]", partials[i].Frequency, nyquist)
		}
		partials[i].Amplitude *= amplitude
	}

	n := int(math.Round(duration.Seconds() * float64(rate)))
	mono := audio.Synthesize(rate, n, partials...)
	if channels == 1 {
		return mono, nil
	}

	out := make([]float32, 0, n*channels)
	for _, s := range mono {
		for range channels {
			out = append(out, s)
		}
	}
	return out, nil
}
