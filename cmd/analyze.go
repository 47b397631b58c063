package cmd

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/RyanBlaney/sonido-dft/algorithms/chroma"
	"github.com/RyanBlaney/sonido-dft/algorithms/common"
	"github.com/RyanBlaney/sonido-dft/algorithms/harmonic"
	"github.com/RyanBlaney/sonido-dft/algorithms/spectral"
	"github.com/RyanBlaney/sonido-dft/algorithms/stats"
	"github.com/RyanBlaney/sonido-dft/config"
	"github.com/RyanBlaney/sonido-dft/logging"
	"github.com/RyanBlaney/sonido-dft/transcode"
)

var (
	analyzeMaxDuration time.Duration
	analyzeTimeout     time.Duration
	analyzeSummary     bool
	analyzeNormalize   bool
	analyzeTuning      float64
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze [file]",
	Short: "Track the dominant frequency of an audio file",
	Long: `Decode a WAV, AIFF, MP3 or Ogg Vorbis file to mono, analyze every window
and print the strongest harmonic of each frame together with its interpolated
frequency, nearest note, fundamental estimate, spectral centroid, flatness
and the flux from the previous frame. The sample rate of the file replaces
the configured one.`,
	Args: cobra.ExactArgs(1),
	RunE: runAnalyze,
}

func init() {
	rootCmd.AddCommand(analyzeCmd)
	addAnalysisFlags(analyzeCmd)

	analyzeCmd.Flags().DurationVar(&analyzeMaxDuration, "max-duration", 0,
		"decode at most this much audio (0 = whole file)")
	analyzeCmd.Flags().DurationVar(&analyzeTimeout, "timeout", 5*time.Minute,
		"abort the analysis after this long")
	analyzeCmd.Flags().BoolVar(&analyzeSummary, "summary", false,
		"print only the averaged descriptors")
	analyzeCmd.Flags().BoolVar(&analyzeNormalize, "normalize", false,
		"scale the audio to full scale before analysis")
	analyzeCmd.Flags().Float64Var(&analyzeTuning, "tuning", chroma.DefaultTuning,
		"frequency of A4 in Hz used for note names")
}

type frameRow struct {
	Frame     int                  `json:"frame" yaml:"frame"`
	Time      float64              `json:"time_s" yaml:"time_s"`
	Bin       int                  `json:"bin" yaml:"bin"`
	Frequency float32              `json:"frequency_hz" yaml:"frequency_hz"`
	Amplitude float32              `json:"amplitude" yaml:"amplitude"`
	Phase     float32              `json:"phase" yaml:"phase"`
	Refined   float32              `json:"refined_hz" yaml:"refined_hz"`
	Note      string               `json:"note,omitempty" yaml:"note,omitempty"`
	F0        float32              `json:"f0_hz,omitempty" yaml:"f0_hz,omitempty"`
	Flux      float64              `json:"flux" yaml:"flux"`
	Shape     spectral.Descriptors `json:"descriptors" yaml:"descriptors"`
}

type analysisReport struct {
	Source   string                `json:"source" yaml:"source"`
	Format   string                `json:"format" yaml:"format"`
	Duration string                `json:"duration" yaml:"duration"`
	Config   *config.AnalysisConfig `json:"config" yaml:"config"`
	Summary  spectral.Descriptors  `json:"summary" yaml:"summary"`
	Peaks    stats.Summary         `json:"peak_frequency_hz" yaml:"peak_frequency_hz"`
	Pitch    string                `json:"pitch_class,omitempty" yaml:"pitch_class,omitempty"`
	Frames   []frameRow            `json:"frames,omitempty" yaml:"frames,omitempty"`
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	cfg, err := loadAnalysisConfig()
	if err != nil {
		return err
	}

	data, err := decodeMono(args[0], analyzeMaxDuration)
	if err != nil {
		return err
	}
	adoptSampleRate(cfg, data.SampleRate)

	signal, err := prepareSignal(cfg, data.Mono(), analyzeNormalize)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(cmd.Context(), analyzeTimeout)
	defer cancel()

	spec, err := spectral.ComputeSpectrogram(ctx, signal, cfg.Hop(), cfg.AnalyzerFactory(nil), cfg.Workers)
	if err != nil {
		return fmt.Errorf("analysis failed: %w", err)
	}

	report := buildReport(data, cfg, spec)

	table := &Table{
		Title:   fmt.Sprintf("%s (%s, %s)", args[0], data.Format, data.Duration),
		Columns: []string{"frame", "time_s", "bin", "frequency_hz", "refined_hz", "note", "f0_hz", "amplitude", "centroid_hz", "flatness", "flux"},
		Value:   report,
	}
	if analyzeSummary {
		report.Frames = nil
		table.Columns = []string{"median_peak_hz", "pitch_class", "centroid_hz", "bandwidth_hz", "rolloff_hz", "flatness", "crest", "slope"}
		s := report.Summary
		table.Rows = [][]string{{
			formatFloat(report.Peaks.Median, 2),
			report.Pitch,
			formatFloat(float64(s.Centroid), 2),
			formatFloat(float64(s.Bandwidth), 2),
			formatFloat(float64(s.Rolloff), 2),
			formatFloat(s.Flatness, 4),
			formatFloat(s.Crest, 2),
			formatFloat(s.Slope, 3),
		}}
		return emit(table)
	}

	for _, r := range report.Frames {
		table.Rows = append(table.Rows, []string{
			strconv.Itoa(r.Frame),
			formatFloat(r.Time, 3),
			strconv.Itoa(r.Bin),
			formatFloat(float64(r.Frequency), 2),
			formatFloat(float64(r.Refined), 2),
			r.Note,
			formatFloat(float64(r.F0), 2),
			formatFloat(float64(r.Amplitude), 4),
			formatFloat(float64(r.Shape.Centroid), 1),
			formatFloat(r.Shape.Flatness, 4),
			formatFloat(r.Flux, 3),
		})
	}
	return emit(table)
}

func buildReport(data *transcode.AudioData, cfg *config.AnalysisConfig, spec *spectral.Spectrogram) *analysisReport {
	descriptors := spec.Descriptors()
	flux := spec.Flux()
	estimator := harmonic.DefaultEstimator()

	report := &analysisReport{
		Source:   data.Source,
		Format:   data.Format,
		Duration: data.Duration.String(),
		Config:   cfg,
		Frames:   make([]frameRow, 0, len(spec.Frames)),
	}

	peaks := make([]float64, 0, len(spec.Frames))
	for i, frame := range spec.Frames {
		peak, ok := spectral.Peak(frame)
		if !ok {
			continue
		}
		refined, _ := spectral.RefinedPeak(frame)
		peaks = append(peaks, float64(refined))

		row := frameRow{
			Frame:     i,
			Time:      spec.FrameTime(i).Seconds(),
			Bin:       peak.BinIndex(),
			Frequency: peak.Frequency(),
			Amplitude: peak.Amplitude(),
			Phase:     peak.Phase(),
			Refined:   refined,
			Shape:     descriptors[i],
		}
		if note, ok := chroma.NoteFor(float64(refined), analyzeTuning); ok {
			row.Note = note.Name
		}
		// Goertzel frames are not full spectra and have no fundamental estimate
		if f0, err := estimator.Estimate(frame); err == nil {
			row.F0 = f0.Frequency()
		}
		if i > 0 {
			row.Flux = flux[i-1]
		}
		report.Frames = append(report.Frames, row)
	}

	report.Summary = averageDescriptors(descriptors)
	report.Peaks = stats.Summarize(peaks)

	if c, err := chroma.New(analyzeTuning, 80, 8000); err == nil {
		if class, ok := c.Profile(spec).Dominant(); ok {
			report.Pitch = chroma.Labels[class]
		}
	}
	return report
}

func averageDescriptors(ds []spectral.Descriptors) spectral.Descriptors {
	var avg spectral.Descriptors
	if len(ds) == 0 {
		return avg
	}
	n := float64(len(ds))
	var centroid, bandwidth, rolloff float64
	for _, d := range ds {
		centroid += float64(d.Centroid)
		bandwidth += float64(d.Bandwidth)
		rolloff += float64(d.Rolloff)
		avg.Flatness += d.Flatness / n
		avg.Crest += d.Crest / n
		avg.Slope += d.Slope / n
	}
	avg.Centroid = float32(centroid / n)
	avg.Bandwidth = float32(bandwidth / n)
	avg.Rolloff = float32(rolloff / n)
	return avg
}

// prepareSignal applies the configured pre-filters and optional peak
// normalization to signal in place.
func prepareSignal(cfg *config.AnalysisConfig, signal []float32, normalize bool) ([]float32, error) {
	chain, err := cfg.Filters()
	if err != nil {
		return nil, err
	}
	chain.ProcessInPlace(signal)

	if normalize {
		gain := common.NormalizePeak(signal, 1)
		logging.Debug("Normalized audio", logging.Fields{"gain": gain})
	}
	return signal, nil
}

// decodeMono decodes path to mono, keeping at most maxDuration of audio.
func decodeMono(path string, maxDuration time.Duration) (*transcode.AudioData, error) {
	decoder := transcode.NewDecoder(&transcode.DecoderConfig{
		TargetChannels: 1,
		MaxDuration:    maxDuration,
	})
	if err := decoder.ValidateConfig(); err != nil {
		return nil, err
	}

	data, err := decoder.DecodeFile(path)
	if err != nil {
		return nil, err
	}

	logging.Info("Decoded audio", logging.Fields{
		"path":        path,
		"format":      data.Format,
		"sample_rate": data.SampleRate,
		"duration":    data.Duration.String(),
	})
	return data, nil
}

// adoptSampleRate replaces the configured sample rate with the one of the
// audio. The window length is kept, so the bin spacing changes.
func adoptSampleRate(cfg *config.AnalysisConfig, sampleRate int) {
	if cfg.SampleRate == sampleRate {
		return
	}
	logging.Warn("Using the sample rate of the audio", logging.Fields{
		"configured": cfg.SampleRate,
		"audio":      sampleRate,
	})
	cfg.SampleRate = sampleRate
}
