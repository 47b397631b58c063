package transcode

import (
	"fmt"
	"io"
	"math"
	"os"

	goaudio "github.com/go-audio/audio"
	"github.com/go-audio/wav"
)

const (
	wavBitDepth  = 16
	wavFormatPCM = 1
)

// WriteWAV encodes interleaved float32 samples as 16-bit PCM. Samples are
// clipped to [-1, 1]. The encoder seeks back to patch chunk sizes, hence the
// io.WriteSeeker.
func WriteWAV(w io.WriteSeeker, sampleRate, channels int, samples []float32) error {
	if channels < 1 {
		return fmt.Errorf("channel count must be positive, got %d", channels)
	}
	if len(samples)%channels != 0 {
		return fmt.Errorf("%d samples do not fill %d-channel frames", len(samples), channels)
	}

	enc := wav.NewEncoder(w, sampleRate, wavBitDepth, channels, wavFormatPCM)

	maxVal := float64(goaudio.IntMaxSignedValue(wavBitDepth))
	buf := &goaudio.IntBuffer{
		Format:         &goaudio.Format{NumChannels: channels, SampleRate: sampleRate},
		Data:           make([]int, len(samples)),
		SourceBitDepth: wavBitDepth,
	}
	for i, s := range samples {
		v := math.Max(-1, math.Min(1, float64(s)))
		buf.Data[i] = int(math.Round(v * maxVal))
	}

	if err := enc.Write(buf); err != nil {
		return fmt.Errorf("writing wav samples: %w", err)
	}
	if err := enc.Close(); err != nil {
		return fmt.Errorf("finalizing wav: %w", err)
	}
	return nil
}

// WriteWAVFile creates path and writes samples to it as WAV.
func WriteWAVFile(path string, sampleRate, channels int, samples []float32) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}

	if err := WriteWAV(f, sampleRate, channels, samples); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
