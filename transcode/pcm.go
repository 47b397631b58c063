package transcode

import (
	"fmt"
	"io"

	goaudio "github.com/go-audio/audio"
	"github.com/go-audio/aiff"
	"github.com/go-audio/wav"

	"github.com/RyanBlaney/sonido-dft/audio"
)

// pcmReader is the part of the go-audio WAV and AIFF decoders the sources use.
type pcmReader interface {
	PCMBuffer(buf *goaudio.IntBuffer) (int, error)
}

// pcmSource adapts a go-audio integer PCM decoder to audio.Source.
type pcmSource struct {
	dec        pcmReader
	sampleRate int
	channels   int
	scale      float32
	offset     int // 8-bit WAV is unsigned
	intBuf     *goaudio.IntBuffer
	done       bool
}

func newPCMSource(dec pcmReader, format *goaudio.Format, bitDepth int, unsigned8 bool) (*pcmSource, error) {
	if format == nil || format.NumChannels < 1 || format.SampleRate < 1 {
		return nil, fmt.Errorf("missing or empty format: %w", ErrInvalidFile)
	}
	scale, err := intScale(bitDepth)
	if err != nil {
		return nil, err
	}

	s := &pcmSource{
		dec:        dec,
		sampleRate: format.SampleRate,
		channels:   format.NumChannels,
		scale:      scale,
		intBuf:     &goaudio.IntBuffer{Format: format, Data: make([]int, 0, 4096)},
	}
	if bitDepth == 8 && unsigned8 {
		s.offset = 128
	}
	return s, nil
}

func (s *pcmSource) SampleRate() int { return s.sampleRate }
func (s *pcmSource) Channels() int   { return s.channels }
func (s *pcmSource) Close() error    { return nil }

func (s *pcmSource) ReadSamples(dst []float32) (int, error) {
	if len(dst) == 0 {
		return 0, nil
	}
	if len(dst)%s.channels != 0 {
		return 0, audio.ErrInvalidDstSize
	}
	if s.done {
		return 0, io.EOF
	}

	if cap(s.intBuf.Data) < len(dst) {
		s.intBuf.Data = make([]int, len(dst))
	}
	s.intBuf.Data = s.intBuf.Data[:len(dst)]

	n, err := s.dec.PCMBuffer(s.intBuf)
	if err != nil && err != io.EOF {
		return 0, fmt.Errorf("decoding PCM: %w", err)
	}
	// keep whole frames only
	n -= n % s.channels

	for i := range n {
		dst[i] = float32(s.intBuf.Data[i]-s.offset) / s.scale
	}

	// the go-audio decoders report the end of data as a short or empty read
	if n < len(dst) || err == io.EOF {
		s.done = true
		return n, io.EOF
	}
	return n, nil
}

type wavDecoder struct{}

func (wavDecoder) Decode(r io.Reader) (audio.Source, error) {
	rs, err := readSeeker(r)
	if err != nil {
		return nil, err
	}

	dec := wav.NewDecoder(rs)
	if !dec.IsValidFile() {
		return nil, fmt.Errorf("not a PCM WAV file: %w", ErrInvalidFile)
	}

	return newPCMSource(dec, dec.Format(), int(dec.BitDepth), true)
}

type aiffDecoder struct{}

func (aiffDecoder) Decode(r io.Reader) (audio.Source, error) {
	rs, err := readSeeker(r)
	if err != nil {
		return nil, err
	}

	dec := aiff.NewDecoder(rs)
	if !dec.IsValidFile() {
		return nil, fmt.Errorf("not an AIFF file: %w", ErrInvalidFile)
	}
	dec.ReadInfo()

	return newPCMSource(dec, dec.Format(), int(dec.BitDepth), false)
}
