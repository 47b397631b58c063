package transcode

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"slices"
	"strings"
	"sync"

	"github.com/RyanBlaney/sonido-dft/audio"
)

var (
	ErrUnsupportedFormat = errors.New("transcode: unsupported audio format")
	ErrInvalidFile       = errors.New("transcode: invalid audio file")
	ErrUnsupportedDepth  = errors.New("transcode: unsupported bit depth")
)

// Format keys understood by the default registry.
const (
	FormatWAV    = "wav"
	FormatAIFF   = "aiff"
	FormatMP3    = "mp3"
	FormatVorbis = "ogg"
)

// FormatDecoder constructs a Source from an encoded stream.
type FormatDecoder interface {
	Decode(r io.Reader) (audio.Source, error)
}

// FormatDecoderFunc adapts a function to FormatDecoder.
type FormatDecoderFunc func(r io.Reader) (audio.Source, error)

func (f FormatDecoderFunc) Decode(r io.Reader) (audio.Source, error) {
	return f(r)
}

// Registry maps format keys to decoders. It is safe for concurrent use.
type Registry struct {
	codecs map[string]FormatDecoder
	mtx    sync.RWMutex
}

func NewRegistry() *Registry {
	return &Registry{
		codecs: make(map[string]FormatDecoder),
	}
}

// DefaultRegistry returns a registry with WAV, AIFF, MP3 and Ogg Vorbis decoders.
func DefaultRegistry() *Registry {
	r := NewRegistry()
	r.Register(FormatWAV, wavDecoder{})
	r.Register(FormatAIFF, aiffDecoder{})
	r.Register(FormatMP3, mp3Decoder{})
	r.Register(FormatVorbis, vorbisDecoder{})
	return r
}

func (r *Registry) Register(format string, d FormatDecoder) {
	r.mtx.Lock()
	defer r.mtx.Unlock()

	r.codecs[strings.ToLower(format)] = d
}

func (r *Registry) Get(format string) (FormatDecoder, bool) {
	r.mtx.RLock()
	defer r.mtx.RUnlock()

	d, ok := r.codecs[strings.ToLower(format)]
	return d, ok
}

// Formats lists the registered format keys, sorted.
func (r *Registry) Formats() []string {
	r.mtx.RLock()
	defer r.mtx.RUnlock()

	out := make([]string, 0, len(r.codecs))
	for k := range r.codecs {
		out = append(out, k)
	}
	slices.Sort(out)
	return out
}

// FormatFromPath maps a file extension to a format key.
func FormatFromPath(path string) (string, error) {
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".wav", ".wave":
		return FormatWAV, nil
	case ".aif", ".aiff", ".aifc":
		return FormatAIFF, nil
	case ".mp3":
		return FormatMP3, nil
	case ".ogg", ".oga":
		return FormatVorbis, nil
	default:
		return "", fmt.Errorf("extension %q: %w", ext, ErrUnsupportedFormat)
	}
}

// readSeeker returns r as an io.ReadSeeker, buffering it in memory when it
// cannot seek. The go-audio decoders need to seek between chunks.
func readSeeker(r io.Reader) (io.ReadSeeker, error) {
	if rs, ok := r.(io.ReadSeeker); ok {
		return rs, nil
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("buffering input: %w", err)
	}
	return bytes.NewReader(data), nil
}

// intScale returns the divisor that maps signed PCM of the given depth to [-1, 1).
func intScale(bitDepth int) (float32, error) {
	switch bitDepth {
	case 8:
		return 128, nil
	case 16:
		return 32768, nil
	case 24:
		return 8388608, nil
	case 32:
		return 2147483648, nil
	default:
		return 0, fmt.Errorf("%d bits: %w", bitDepth, ErrUnsupportedDepth)
	}
}
