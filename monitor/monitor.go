// Package monitor runs an analyzer continuously over an audio stream and
// reports the dominant harmonic of every window.
package monitor

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/RyanBlaney/sonido-dft/algorithms/common"
	"github.com/RyanBlaney/sonido-dft/algorithms/filters"
	"github.com/RyanBlaney/sonido-dft/algorithms/spectral"
	"github.com/RyanBlaney/sonido-dft/audio"
	"github.com/RyanBlaney/sonido-dft/logging"
)

// ErrSampleRateMismatch is returned when the stream and the analyzer disagree
// on the sample rate.
var ErrSampleRateMismatch = errors.New("monitor: source sample rate does not match analyzer")

// Reading is the result of one analyzed window.
type Reading struct {
	Index int
	// Time is the offset of the window start from the start of the stream.
	Time time.Duration
	Peak spectral.Harmonic
	// Refined is the peak frequency interpolated between bins, in Hz.
	Refined float32
	// Smoothed is the moving average of recent peak frequencies in Hz.
	Smoothed float32
	// Level is the RMS level of the window in dBFS.
	Level float64
}

// Option configures a Monitor.
type Option func(*Monitor)

// WithHop sets the distance in samples between window starts. The default is
// the window length.
func WithHop(hop int) Option {
	return func(m *Monitor) {
		m.hop = hop
	}
}

// WithSmoothing sets how many peak frequencies are averaged into
// Reading.Smoothed.
func WithSmoothing(windows int) Option {
	return func(m *Monitor) {
		m.smoothing = windows
	}
}

// WithChunkSize sets how many frames are read from the source at a time.
func WithChunkSize(frames int) Option {
	return func(m *Monitor) {
		m.chunkSize = frames
	}
}

// WithSilenceThreshold drops windows quieter than db dBFS. Dropped windows
// still advance the reading index.
func WithSilenceThreshold(db float64) Option {
	return func(m *Monitor) {
		m.silenceDB = db
	}
}

// WithFilter runs f over the mono samples before they are windowed. The
// filter state carries over between chunks.
func WithFilter(f filters.Filter) Option {
	return func(m *Monitor) {
		m.filter = f
	}
}

func WithLogger(logger logging.Logger) Option {
	return func(m *Monitor) {
		m.logger = logger
	}
}

// Monitor feeds a Source through a mono downmix and a Hopper into an
// Analyzer. A Monitor is used by a single goroutine.
type Monitor struct {
	src       audio.Source
	analyzer  spectral.Analyzer
	hop       int
	smoothing int
	chunkSize int
	silenceDB float64
	filter    filters.Filter
	logger    logging.Logger

	hopper  *audio.Hopper
	average *common.MovingAverage
}

// New checks that src and analyzer agree on the sample rate and prepares the
// pipeline. The caller keeps ownership of src.
func New(src audio.Source, analyzer spectral.Analyzer, opts ...Option) (*Monitor, error) {
	sc := analyzer.SamplingContext()
	if src.SampleRate() != sc.SampleRate() {
		return nil, fmt.Errorf("%w: source %d Hz, analyzer %d Hz", ErrSampleRateMismatch, src.SampleRate(), sc.SampleRate())
	}
	if src.Channels() < 1 {
		return nil, audio.ErrInvalidChannels
	}

	m := &Monitor{
		src:       src,
		analyzer:  analyzer,
		hop:       sc.WindowLength(),
		smoothing: 1,
		chunkSize: 1024,
		silenceDB: common.SilenceDB,
	}
	for _, opt := range opts {
		opt(m)
	}

	if m.smoothing < 1 {
		return nil, fmt.Errorf("smoothing must be at least 1 window, got %d", m.smoothing)
	}
	if m.chunkSize < 1 {
		return nil, fmt.Errorf("chunk size must be positive, got %d", m.chunkSize)
	}

	hopper, err := audio.NewHopper(sc.WindowLength(), m.hop)
	if err != nil {
		return nil, err
	}
	m.hopper = hopper
	m.average = common.NewMovingAverage(m.smoothing)

	m.logger = logging.OrGlobal(m.logger).WithFields(logging.Fields{
		"component":   "monitor",
		"sample_rate": sc.SampleRate(),
		"window":      sc.WindowLength(),
		"hop":         m.hop,
	})

	if src.Channels() > 1 {
		m.src = audio.NewMonoMixer(src)
	}
	return m, nil
}

// Run reads the source until it ends, ctx is cancelled or fn fails, calling fn
// with a Reading for every completed window. Returning audio.ErrStop from fn
// ends Run without error. The end of the source is not an error either.
func (m *Monitor) Run(ctx context.Context, fn func(Reading) error) error {
	chunk := make([]float32, m.chunkSize)
	sampleRate := m.analyzer.SamplingContext().SampleRate()

	handle := func(window []float32, index int) error {
		if err := ctx.Err(); err != nil {
			return err
		}

		level := common.AmplitudeToDB(common.RMS(window))
		if level < m.silenceDB {
			return nil
		}

		harmonics := m.analyzer.AnalyzeInPlace(window)
		peak, ok := spectral.Peak(harmonics)
		if !ok {
			return nil
		}
		refined, _ := spectral.RefinedPeak(harmonics)
		m.average.Push(float64(peak.Frequency()))

		offset := float64(index*m.hop) / float64(sampleRate)
		return fn(Reading{
			Index:    index,
			Time:     time.Duration(offset * float64(time.Second)),
			Peak:     peak,
			Refined:  refined,
			Smoothed: float32(m.average.Average()),
			Level:    level,
		})
	}

	m.logger.Debug("Monitor started")

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		n, readErr := m.src.ReadSamples(chunk)
		if n > 0 {
			if m.filter != nil {
				m.filter.ProcessInPlace(chunk[:n])
			}
			if err := m.hopper.Feed(chunk[:n], handle); err != nil {
				if errors.Is(err, audio.ErrStop) {
					m.logger.Debug("Monitor stopped by callback", logging.Fields{"windows": m.hopper.Processed()})
					return nil
				}
				if ctx.Err() == nil {
					m.logger.Error(err, "Monitor callback failed")
				}
				return err
			}
		}

		if errors.Is(readErr, io.EOF) {
			m.logger.Debug("Monitor reached end of stream", logging.Fields{"windows": m.hopper.Processed()})
			return nil
		}
		if readErr != nil {
			m.logger.Error(readErr, "Failed to read from source")
			return fmt.Errorf("reading source: %w", readErr)
		}
		if n == 0 {
			return io.ErrNoProgress
		}
	}
}

// Windows is the number of windows completed so far, including silent ones.
func (m *Monitor) Windows() int {
	return m.hopper.Processed()
}

// Reset discards buffered samples and smoothing history so the monitor can be
// run over a new position of the same source.
func (m *Monitor) Reset() {
	m.hopper.Reset()
	m.average.Reset()
	if m.filter != nil {
		m.filter.Reset()
	}
}
