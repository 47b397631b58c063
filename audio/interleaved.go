package audio

import (
	"fmt"
	"time"
)

// InterleavedBuffer stores multi-channel samples frame by frame:
// L0 R0 L1 R1 ... for stereo.
type InterleavedBuffer struct {
	SampleRate int
	Channels   int
	Data       []float32
}

// NewInterleavedBuffer validates that data holds whole frames. data is not copied.
func NewInterleavedBuffer(sampleRate, channels int, data []float32) (*InterleavedBuffer, error) {
	if channels < 1 {
		return nil, ErrInvalidChannels
	}
	if len(data)%channels != 0 {
		return nil, fmt.Errorf("%d samples for %d channels: %w", len(data), channels, ErrRaggedBuffer)
	}
	return &InterleavedBuffer{SampleRate: sampleRate, Channels: channels, Data: data}, nil
}

// Frames is the number of samples per channel.
func (b *InterleavedBuffer) Frames() int {
	return len(b.Data) / b.Channels
}

// Duration of the buffer at its sample rate.
func (b *InterleavedBuffer) Duration() time.Duration {
	if b.SampleRate <= 0 {
		return 0
	}
	return time.Duration(float64(b.Frames()) / float64(b.SampleRate) * float64(time.Second))
}

// Frame returns the samples of frame i, one per channel. The slice aliases Data.
func (b *InterleavedBuffer) Frame(i int) []float32 {
	return b.Data[i*b.Channels : (i+1)*b.Channels]
}

// Channel extracts one channel into a new slice.
func (b *InterleavedBuffer) Channel(c int) []float32 {
	out := make([]float32, b.Frames())
	for i := range out {
		out[i] = b.Data[i*b.Channels+c]
	}
	return out
}

// ToMono averages the channels of every frame. A mono buffer is copied.
func (b *InterleavedBuffer) ToMono() []float32 {
	return DownmixInto(make([]float32, b.Frames()), b.Data, b.Channels)
}

// Concat appends other, which must share the channel count and sample rate.
func (b *InterleavedBuffer) Concat(other *InterleavedBuffer) error {
	if other.Channels != b.Channels {
		return fmt.Errorf("cannot concat %d-channel buffer onto %d channels", other.Channels, b.Channels)
	}
	if other.SampleRate != b.SampleRate {
		return fmt.Errorf("cannot concat %d Hz buffer onto %d Hz", other.SampleRate, b.SampleRate)
	}
	b.Data = append(b.Data, other.Data...)
	return nil
}

// DownmixInto writes the per-frame channel mean of interleaved into dst and
// returns dst[:frames]. dst must hold len(interleaved)/channels samples.
func DownmixInto(dst, interleaved []float32, channels int) []float32 {
	frames := len(interleaved) / channels
	dst = dst[:frames]

	switch channels {
	case 1:
		copy(dst, interleaved)
	case 2:
		for f := range frames {
			idx := f << 1
			dst[f] = (interleaved[idx] + interleaved[idx+1]) * 0.5
		}
	default:
		inv := 1 / float32(channels)
		for f := range frames {
			var sum float32
			base := f * channels
			for c := range channels {
				sum += interleaved[base+c]
			}
			dst[f] = sum * inv
		}
	}
	return dst
}
