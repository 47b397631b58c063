// Package transcode decodes audio files into sample buffers and streams for
// analysis, and writes WAV files. Decoding is pure Go: WAV and AIFF through
// go-audio, MP3 through go-mp3 and Ogg Vorbis through oggvorbis.
package transcode

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/RyanBlaney/sonido-dft/audio"
	"github.com/RyanBlaney/sonido-dft/logging"
)

// AudioData represents decoded audio data
type AudioData struct {
	Buffer     *audio.InterleavedBuffer `json:"-"`
	SampleRate int                      `json:"sample_rate"`
	Channels   int                      `json:"channels"`
	Duration   time.Duration            `json:"duration"`
	Format     string                   `json:"format"`
	Source     string                   `json:"source,omitempty"`
}

// Mono returns the channel-averaged samples.
func (a *AudioData) Mono() []float32 {
	return a.Buffer.ToMono()
}

// DecoderConfig holds decoder configuration
type DecoderConfig struct {
	// TargetChannels of 1 downmixes to mono; 0 keeps the source layout.
	TargetChannels int `json:"target_channels" yaml:"target_channels" mapstructure:"target_channels"`
	// MaxDuration stops decoding after this much audio; 0 means no limit.
	MaxDuration time.Duration `json:"max_duration" yaml:"max_duration" mapstructure:"max_duration"`
}

// DefaultDecoderConfig returns default decoder configuration
func DefaultDecoderConfig() *DecoderConfig {
	return &DecoderConfig{
		TargetChannels: 1, // analyzers take mono input
		MaxDuration:    0,
	}
}

// Decoder decodes files and streams with the decoders of a Registry.
type Decoder struct {
	config   *DecoderConfig
	registry *Registry
	logger   logging.Logger
}

// NewDecoder creates a decoder over the default registry. A nil config uses
// DefaultDecoderConfig.
func NewDecoder(config *DecoderConfig) *Decoder {
	if config == nil {
		config = DefaultDecoderConfig()
	}
	return &Decoder{
		config:   config,
		registry: DefaultRegistry(),
		logger: logging.WithFields(logging.Fields{
			"component": "decoder",
		}),
	}
}

// WithRegistry replaces the format registry.
func (d *Decoder) WithRegistry(r *Registry) *Decoder {
	d.registry = r
	return d
}

// WithLogger replaces the logger.
func (d *Decoder) WithLogger(logger logging.Logger) *Decoder {
	d.logger = logging.OrGlobal(logger)
	return d
}

// ValidateConfig checks the decoder configuration.
func (d *Decoder) ValidateConfig() error {
	if d.config.TargetChannels != 0 && d.config.TargetChannels != 1 {
		return fmt.Errorf("target channels must be 0 (keep) or 1 (mono), got %d", d.config.TargetChannels)
	}
	if d.config.MaxDuration < 0 {
		return fmt.Errorf("max duration must not be negative, got %s", d.config.MaxDuration)
	}
	return nil
}

// GetSupportedFormats lists the registered format keys.
func (d *Decoder) GetSupportedFormats() []string {
	return d.registry.Formats()
}

// OpenFile returns a streaming Source for path, choosing the decoder by file
// extension and applying TargetChannels. Closing the source closes the file.
func (d *Decoder) OpenFile(path string) (audio.Source, error) {
	format, err := FormatFromPath(path)
	if err != nil {
		return nil, err
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open audio file: %w", err)
	}

	src, err := d.OpenReader(f, format)
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to decode %s: %w", path, err)
	}

	d.logger.Debug("Opened audio file", logging.Fields{
		"path":        path,
		"format":      format,
		"sample_rate": src.SampleRate(),
		"channels":    src.Channels(),
	})

	return &fileSource{Source: src, file: f}, nil
}

// OpenReader returns a streaming Source decoding r as format.
func (d *Decoder) OpenReader(r io.Reader, format string) (audio.Source, error) {
	dec, ok := d.registry.Get(format)
	if !ok {
		return nil, fmt.Errorf("format %q: %w", format, ErrUnsupportedFormat)
	}

	src, err := dec.Decode(r)
	if err != nil {
		return nil, err
	}

	if d.config.TargetChannels == 1 && src.Channels() > 1 {
		src = audio.NewMonoMixer(src)
	}
	return src, nil
}

// DecodeFile decodes a whole file into memory.
func (d *Decoder) DecodeFile(path string) (*AudioData, error) {
	format, err := FormatFromPath(path)
	if err != nil {
		return nil, err
	}

	src, err := d.OpenFile(path)
	if err != nil {
		return nil, err
	}
	defer src.Close()

	data, err := d.readAll(src, format)
	if err != nil {
		return nil, fmt.Errorf("failed to decode %s: %w", path, err)
	}
	data.Source = path
	return data, nil
}

// DecodeReader decodes a whole stream of the given format into memory.
func (d *Decoder) DecodeReader(r io.Reader, format string) (*AudioData, error) {
	src, err := d.OpenReader(r, format)
	if err != nil {
		return nil, err
	}
	defer src.Close()

	return d.readAll(src, format)
}

// DecodeBytes decodes an in-memory file of the given format.
func (d *Decoder) DecodeBytes(data []byte, format string) (*AudioData, error) {
	return d.DecodeReader(bytes.NewReader(data), format)
}

func (d *Decoder) readAll(src audio.Source, format string) (*AudioData, error) {
	if d.config.MaxDuration > 0 {
		src = limitSource(src, d.config.MaxDuration)
	}

	buf, err := audio.ReadAll(src)
	if err != nil {
		return nil, err
	}

	data := &AudioData{
		Buffer:     buf,
		SampleRate: buf.SampleRate,
		Channels:   buf.Channels,
		Duration:   buf.Duration(),
		Format:     format,
	}

	d.logger.Debug("Decoded audio", logging.Fields{
		"format":   format,
		"frames":   buf.Frames(),
		"duration": data.Duration.String(),
	})

	return data, nil
}

// fileSource closes the underlying file together with the decoder.
type fileSource struct {
	audio.Source
	file *os.File
}

func (f *fileSource) Close() error {
	return errors.Join(f.Source.Close(), f.file.Close())
}

// limitedSource stops after a fixed number of frames.
type limitedSource struct {
	audio.Source
	remaining int // values, not frames
}

func limitSource(src audio.Source, d time.Duration) audio.Source {
	frames := int(d.Seconds() * float64(src.SampleRate()))
	return &limitedSource{Source: src, remaining: frames * src.Channels()}
}

func (l *limitedSource) ReadSamples(dst []float32) (int, error) {
	if l.remaining <= 0 {
		return 0, io.EOF
	}
	if len(dst) > l.remaining {
		dst = dst[:l.remaining]
	}
	n, err := l.Source.ReadSamples(dst)
	l.remaining -= n
	if err == nil && l.remaining <= 0 {
		err = io.EOF
	}
	return n, err
}
