package cmd

import (
	"fmt"
	"math"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/RyanBlaney/sonido-dft/algorithms/spectral"
	"github.com/RyanBlaney/sonido-dft/algorithms/windowing"
	"github.com/RyanBlaney/sonido-dft/config"
)

// goertzelFloorDB is the lowest level printed with --db.
const goertzelFloorDB = -120

var (
	goertzelMaxDuration time.Duration
	goertzelDB          bool
)

var goertzelCmd = &cobra.Command{
	Use:   "goertzel [file]",
	Short: "Measure selected frequencies of an audio file over time",
	Long: `Run the Goertzel analyzer on the bins given by --bins and --frequencies and
print the amplitude of each bin for every frame. Only the requested bins are
computed, which makes this cheaper than a full spectrum for a handful of
frequencies (DTMF digits, pilot tones, tuning references).`,
	Example: `  sonido-dft goertzel call.wav --sample-rate 8000 -n 205 --frequencies 697,770,852,941,1209,1336,1477`,
	Args:    cobra.ExactArgs(1),
	RunE:    runGoertzel,
}

func init() {
	rootCmd.AddCommand(goertzelCmd)
	addAnalysisFlags(goertzelCmd)

	goertzelCmd.Flags().DurationVar(&goertzelMaxDuration, "max-duration", 0,
		"decode at most this much audio (0 = whole file)")
	goertzelCmd.Flags().BoolVar(&goertzelDB, "db", false,
		"print amplitudes in dB relative to a full-scale bin-centered cosine")
}

type goertzelFrame struct {
	Frame      int       `json:"frame" yaml:"frame"`
	Time       float64   `json:"time_s" yaml:"time_s"`
	Amplitudes []float32 `json:"amplitudes" yaml:"amplitudes"`
}

type goertzelReport struct {
	Source string          `json:"source" yaml:"source"`
	Bins   []int           `json:"bins" yaml:"bins"`
	Hz     []float32       `json:"frequencies_hz" yaml:"frequencies_hz"`
	Frames []goertzelFrame `json:"frames" yaml:"frames"`
}

func runGoertzel(cmd *cobra.Command, args []string) error {
	// --frequencies alone selects the bins, whatever the configured analyzer
	GetConfig().Set("analyzer", config.AnalyzerGoertzel)

	cfg, err := loadAnalysisConfig()
	if err != nil {
		return err
	}

	data, err := decodeMono(args[0], goertzelMaxDuration)
	if err != nil {
		return err
	}
	adoptSampleRate(cfg, data.SampleRate)

	spec, err := spectral.ComputeSpectrogram(cmd.Context(), data.Mono(), cfg.Hop(), cfg.AnalyzerFactory(nil), cfg.Workers)
	if err != nil {
		return fmt.Errorf("analysis failed: %w", err)
	}

	report := &goertzelReport{Source: data.Source}
	columns := []string{"frame", "time_s"}
	for _, h := range spec.Frames[0] {
		report.Bins = append(report.Bins, h.BinIndex())
		report.Hz = append(report.Hz, h.Frequency())
		columns = append(columns, formatFloat(float64(h.Frequency()), 1)+"_hz")
	}

	reference, err := fullScaleAmplitude(cfg)
	if err != nil {
		return err
	}

	table := &Table{
		Title:   fmt.Sprintf("%s, %d bins", args[0], len(report.Bins)),
		Columns: columns,
		Value:   report,
	}

	for i, frame := range spec.Frames {
		row := goertzelFrame{Frame: i, Time: spec.FrameTime(i).Seconds()}
		cells := []string{strconv.Itoa(i), formatFloat(row.Time, 3)}

		var levels []float64
		if goertzelDB {
			levels = spectral.PowerSpectrumDB(frame, reference*reference, goertzelFloorDB)
		}
		for j, h := range frame {
			a := h.Amplitude()
			row.Amplitudes = append(row.Amplitudes, a)
			if levels != nil {
				cells = append(cells, formatFloat(levels[j], 1))
			} else {
				cells = append(cells, formatFloat(float64(a), 4))
			}
		}
		report.Frames = append(report.Frames, row)
		table.Rows = append(table.Rows, cells)
	}

	return emit(table)
}

// fullScaleAmplitude is the amplitude reported for a unit cosine centered on
// a bin: sqrt(N)/2 scaled by the coherent gain of the window.
func fullScaleAmplitude(cfg *config.AnalysisConfig) (float64, error) {
	window, err := cfg.WindowFunction()
	if err != nil {
		return 0, err
	}
	weights := windowing.Weights(window, cfg.WindowLength)

	gain := 0.0
	for _, w := range weights {
		gain += float64(w)
	}
	gain /= float64(len(weights))

	return math.Sqrt(float64(cfg.WindowLength)) / 2 * gain, nil
}
