package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/RyanBlaney/sonido-dft/algorithms/chroma"
	"github.com/RyanBlaney/sonido-dft/audio"
	"github.com/RyanBlaney/sonido-dft/monitor"
	"github.com/RyanBlaney/sonido-dft/transcode"
)

var (
	monitorTone      []float64
	monitorDuration  time.Duration
	monitorSilenceDB float64
	monitorLimit     int
	monitorTuning    float64
)

var monitorCmd = &cobra.Command{
	Use:   "monitor [file]",
	Short: "Stream audio through the analyzer and print the dominant frequency",
	Long: `Read an audio file (or a synthesized tone with --tone) chunk by chunk and
print one line per analyzed window as soon as it is complete: the strongest
harmonic, its interpolated frequency and nearest note, its moving average
over --smoothing windows and the window level.
Nothing is decoded ahead of the analysis, so long files start printing
immediately. Interrupt with Ctrl-C.`,
	Example: `  sonido-dft monitor guitar.mp3 --profile tuner
  sonido-dft monitor --tone 440,660 --duration 2s -o json`,
	Args: cobra.MaximumNArgs(1),
	RunE: runMonitor,
}

func init() {
	rootCmd.AddCommand(monitorCmd)
	addAnalysisFlags(monitorCmd)

	monitorCmd.Flags().Float64SliceVar(&monitorTone, "tone", nil,
		"monitor a synthesized chord of these frequencies in Hz instead of a file")
	monitorCmd.Flags().DurationVar(&monitorDuration, "duration", time.Second,
		"length of the synthesized tone")
	monitorCmd.Flags().Float64Var(&monitorSilenceDB, "silence-db", -90,
		"skip windows quieter than this level in dBFS")
	monitorCmd.Flags().IntVar(&monitorLimit, "limit", 0,
		"stop after this many readings (0 = no limit)")
	monitorCmd.Flags().Float64Var(&monitorTuning, "tuning", chroma.DefaultTuning,
		"frequency of A4 in Hz used for note names")
}

type readingRow struct {
	Index     int     `json:"index" yaml:"index"`
	Time      float64 `json:"time_s" yaml:"time_s"`
	Bin       int     `json:"bin" yaml:"bin"`
	Frequency float32 `json:"frequency_hz" yaml:"frequency_hz"`
	Refined   float32 `json:"refined_hz" yaml:"refined_hz"`
	Note      string  `json:"note,omitempty" yaml:"note,omitempty"`
	Cents     float64 `json:"cents" yaml:"cents"`
	Amplitude float32 `json:"amplitude" yaml:"amplitude"`
	Smoothed  float32 `json:"smoothed_hz" yaml:"smoothed_hz"`
	Level     float64 `json:"level_db" yaml:"level_db"`
}

func newReadingRow(r monitor.Reading, tuning float64) readingRow {
	row := readingRow{
		Index:     r.Index,
		Time:      r.Time.Seconds(),
		Bin:       r.Peak.BinIndex(),
		Frequency: r.Peak.Frequency(),
		Refined:   r.Refined,
		Amplitude: r.Peak.Amplitude(),
		Smoothed:  r.Smoothed,
		Level:     r.Level,
	}
	if note, ok := chroma.NoteFor(float64(r.Refined), tuning); ok {
		row.Note = note.Name
		row.Cents = note.Cents
	}
	return row
}

func runMonitor(cmd *cobra.Command, args []string) error {
	if len(args) == 0 && len(monitorTone) == 0 {
		return errors.New("give an audio file or --tone")
	}

	cfg, err := loadAnalysisConfig()
	if err != nil {
		return err
	}

	src, err := openMonitorSource(args, cfg.SampleRate)
	if err != nil {
		return err
	}
	defer src.Close()

	adoptSampleRate(cfg, src.SampleRate())

	analyzer, err := cfg.NewAnalyzer(nil)
	if err != nil {
		return err
	}

	out, err := newReadingWriter(os.Stdout, viper.GetString("output_format"))
	if err != nil {
		return err
	}

	chain, err := cfg.Filters()
	if err != nil {
		return err
	}

	opts := []monitor.Option{
		monitor.WithHop(cfg.Hop()),
		monitor.WithSmoothing(cfg.Smoothing),
		monitor.WithSilenceThreshold(monitorSilenceDB),
	}
	if len(chain) > 0 {
		opts = append(opts, monitor.WithFilter(chain))
	}

	m, err := monitor.New(src, analyzer, opts...)
	if err != nil {
		return err
	}

	count := 0
	err = m.Run(cmd.Context(), func(r monitor.Reading) error {
		if err := out.Write(newReadingRow(r, monitorTuning)); err != nil {
			return err
		}
		count++
		if monitorLimit > 0 && count >= monitorLimit {
			return audio.ErrStop
		}
		return nil
	})
	if errors.Is(err, context.Canceled) {
		err = nil
	}
	if ferr := out.Flush(); err == nil {
		err = ferr
	}
	return err
}

func openMonitorSource(args []string, sampleRate int) (audio.Source, error) {
	if len(monitorTone) > 0 {
		return audio.NewToneSource(sampleRate, monitorDuration.Seconds(), audio.Chord(monitorTone...)...), nil
	}

	decoder := transcode.NewDecoder(transcode.DefaultDecoderConfig())
	src, err := decoder.OpenFile(args[0])
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", args[0], err)
	}
	return src, nil
}

var readingColumns = []string{"index", "time_s", "bin", "frequency_hz", "refined_hz", "note", "cents", "amplitude", "smoothed_hz", "level_db"}

// readingWriter prints readings as they arrive. Json output is one object per
// line and yaml output a stream of documents; table rows are aligned one at
// a time so they show up live.
type readingWriter struct {
	w      io.Writer
	format string
	tw     *tabwriter.Writer
	enc    *json.Encoder
}

func newReadingWriter(w io.Writer, format string) (*readingWriter, error) {
	rw := &readingWriter{w: w, format: strings.ToLower(format)}
	switch rw.format {
	case "json":
		rw.enc = json.NewEncoder(w)
	case "yaml", "yml":
	case "table", "":
		rw.tw = tabwriter.NewWriter(w, 10, 0, 2, ' ', tabwriter.AlignRight)
		headers := make([]string, len(readingColumns))
		for i, c := range readingColumns {
			headers[i] = titleCaser.String(strings.ReplaceAll(c, "_", " "))
		}
		fmt.Fprintln(rw.tw, strings.Join(headers, "\t")+"\t")
	default:
		return nil, fmt.Errorf("unknown output format %q (want table, json or yaml)", format)
	}
	return rw, nil
}

func (rw *readingWriter) Write(r readingRow) error {
	switch {
	case rw.enc != nil:
		return rw.enc.Encode(r)
	case rw.tw == nil:
		fmt.Fprintln(rw.w, "---")
		return render(rw.w, "yaml", &Table{Value: r})
	}

	fmt.Fprintln(rw.tw, strings.Join([]string{
		strconv.Itoa(r.Index),
		formatFloat(r.Time, 3),
		strconv.Itoa(r.Bin),
		formatFloat(float64(r.Frequency), 2),
		formatFloat(float64(r.Refined), 2),
		r.Note,
		formatFloat(r.Cents, 1),
		formatFloat(float64(r.Amplitude), 4),
		formatFloat(float64(r.Smoothed), 2),
		formatFloat(r.Level, 1),
	}, "\t")+"\t")
	return rw.tw.Flush()
}

func (rw *readingWriter) Flush() error {
	if rw.tw != nil {
		return rw.tw.Flush()
	}
	return nil
}
