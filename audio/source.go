// Package audio holds the sample containers and streaming helpers that feed
// the spectral analyzers: interleaved buffers, sources, mono downmixing,
// fixed-size window hopping and tone synthesis.
package audio

import (
	"errors"
	"fmt"
	"io"
)

var (
	// ErrInvalidDstSize is returned when a destination cannot hold whole frames.
	ErrInvalidDstSize = errors.New("dst size must be multiple of channels")

	// ErrInvalidChannels is returned for a channel count below 1.
	ErrInvalidChannels = errors.New("channel count must be positive")

	// ErrRaggedBuffer is returned when interleaved data does not hold whole frames.
	ErrRaggedBuffer = errors.New("interleaved data length is not a multiple of the channel count")

	// ErrStop may be returned by streaming callbacks to end processing early
	// without reporting a failure.
	ErrStop = errors.New("audio: stop")
)

// Source is a stream of interleaved float32 PCM samples in [-1, 1].
type Source interface {
	// SampleRate of the stream in Hz.
	SampleRate() int
	// Channels per frame, 1 for mono.
	Channels() int
	// ReadSamples fills dst with interleaved samples and returns the number of
	// values written, not frames. n may be positive together with io.EOF.
	// n == 0 with io.EOF means the stream is finished.
	ReadSamples(dst []float32) (n int, err error)
	// Close releases any resources.
	Close() error
}

// ReadAll drains src into an interleaved buffer. It does not close src.
func ReadAll(src Source) (*InterleavedBuffer, error) {
	channels := src.Channels()
	if channels < 1 {
		return nil, ErrInvalidChannels
	}

	chunk := make([]float32, 4096*channels)
	var data []float32
	for {
		n, err := src.ReadSamples(chunk)
		data = append(data, chunk[:n]...)
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("reading samples: %w", err)
		}
		if n == 0 {
			// a source that neither advances nor ends would spin forever
			return nil, io.ErrNoProgress
		}
	}

	// drop a trailing partial frame from a misbehaving source
	data = data[:len(data)-len(data)%channels]
	return NewInterleavedBuffer(src.SampleRate(), channels, data)
}

// SliceSource serves samples from memory.
type SliceSource struct {
	sampleRate int
	channels   int
	data       []float32
	pos        int
}

// NewSliceSource wraps interleaved data. The slice is not copied.
func NewSliceSource(sampleRate, channels int, data []float32) *SliceSource {
	return &SliceSource{sampleRate: sampleRate, channels: channels, data: data}
}

func (s *SliceSource) SampleRate() int { return s.sampleRate }
func (s *SliceSource) Channels() int   { return s.channels }
func (s *SliceSource) Close() error    { return nil }

// Reset rewinds the source to its first sample.
func (s *SliceSource) Reset() {
	s.pos = 0
}

func (s *SliceSource) ReadSamples(dst []float32) (int, error) {
	if len(dst)%s.channels != 0 {
		return 0, ErrInvalidDstSize
	}
	if s.pos >= len(s.data) {
		return 0, io.EOF
	}

	n := copy(dst, s.data[s.pos:])
	s.pos += n
	if s.pos >= len(s.data) {
		return n, io.EOF
	}
	return n, nil
}
