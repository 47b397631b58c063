package spectral

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/RyanBlaney/sonido-dft/logging"
)

// Spectrogram holds the harmonics of consecutive, possibly overlapping frames.
type Spectrogram struct {
	Frames  [][]Harmonic
	Hop     int
	Context SamplingContext
}

// FrameTime is the start time of frame i relative to the signal start.
func (s *Spectrogram) FrameTime(i int) time.Duration {
	seconds := float64(i*s.Hop) / float64(s.Context.sampleRate)
	return time.Duration(seconds * float64(time.Second))
}

// PeakTrack returns the strongest harmonic of every frame.
func (s *Spectrogram) PeakTrack() []Harmonic {
	track := make([]Harmonic, 0, len(s.Frames))
	for _, frame := range s.Frames {
		if peak, ok := Peak(frame); ok {
			track = append(track, peak)
		}
	}
	return track
}

// FrameCount is the number of whole windows of length n that fit in a signal
// of the given length when advancing by hop.
func FrameCount(signalLength, n, hop int) int {
	if hop < 1 || n < 1 || signalLength < n {
		return 0
	}
	return (signalLength-n)/hop + 1
}

// ComputeSpectrogram analyzes every whole window of signal, advancing by hop
// samples. Frames are spread over workers, each with its own analyzer from
// factory; workers <= 0 picks a count from the machine and the workload.
// Trailing samples that do not fill a window are ignored.
func ComputeSpectrogram(ctx context.Context, signal []float32, hop int, factory AnalyzerFactory, workers int) (*Spectrogram, error) {
	if len(signal) == 0 {
		return nil, errors.New("empty signal")
	}

	if hop <= 0 {
		return nil, fmt.Errorf("hop size must be positive, got %d", hop)
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	probe, err := factory()
	if err != nil {
		return nil, fmt.Errorf("failed to create analyzer: %w", err)
	}
	sc := probe.SamplingContext()
	n := sc.windowLength

	numFrames := FrameCount(len(signal), n, hop)
	if numFrames == 0 {
		return nil, fmt.Errorf("signal of %d samples is shorter than one window of %d", len(signal), n)
	}

	if workers <= 0 {
		workers = optimalWorkerCount(numFrames)
	}
	workers = max(1, min(workers, numFrames))

	logger := logging.WithContext(ctx).WithFields(logging.Fields{
		"component": "spectrogram",
	})
	logger.Debug("Computing spectrogram", logging.Fields{
		"frames":  numFrames,
		"hop":     hop,
		"workers": workers,
	})

	analyzers := make([]Analyzer, workers)
	analyzers[0] = probe
	for w := 1; w < workers; w++ {
		if analyzers[w], err = factory(); err != nil {
			return nil, fmt.Errorf("failed to create analyzer for worker %d: %w", w, err)
		}
	}

	frames := make([][]Harmonic, numFrames)
	jobs := make(chan int)

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		defer close(jobs)
		for i := range numFrames {
			select {
			case jobs <- i:
			case <-gctx.Done():
				return gctx.Err()
			}
		}
		return nil
	})

	for _, analyzer := range analyzers {
		g.Go(func() error {
			for i := range jobs {
				start := i * hop
				frames[i] = analyzer.Analyze(signal[start : start+n])
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		logger.Error(err, "Spectrogram computation aborted")
		return nil, err
	}

	return &Spectrogram{Frames: frames, Hop: hop, Context: sc}, nil
}

// optimalWorkerCount scales the worker count with the number of frames.
func optimalWorkerCount(numFrames int) int {
	numCPU := runtime.NumCPU()

	// small workloads gain little from parallelism
	if numFrames < 100 {
		return max(1, min(numCPU/2, numFrames))
	}

	if numFrames < 1000 {
		return min(numCPU, 8)
	}

	return numCPU
}
