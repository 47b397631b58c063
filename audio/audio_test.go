package audio

import (
	"errors"
	"io"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewInterleavedBuffer(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		channels int
		data     []float32
		wantErr  error
	}{
		{"stereo", 2, []float32{1, 2, 3, 4}, nil},
		{"empty", 3, nil, nil},
		{"ragged", 2, []float32{1, 2, 3}, ErrRaggedBuffer},
		{"no channels", 0, []float32{1}, ErrInvalidChannels},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			buf, err := NewInterleavedBuffer(44100, tt.channels, tt.data)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, len(tt.data)/tt.channels, buf.Frames())
		})
	}
}

func TestInterleavedBufferAccessors(t *testing.T) {
	t.Parallel()

	buf, err := NewInterleavedBuffer(4, 2, []float32{0, 1, 2, 3, 4, 5, 6, 7})
	require.NoError(t, err)

	assert.Equal(t, 4, buf.Frames())
	assert.Equal(t, time.Second, buf.Duration())
	assert.Equal(t, []float32{2, 3}, buf.Frame(1))
	assert.Equal(t, []float32{1, 3, 5, 7}, buf.Channel(1))
	assert.Equal(t, []float32{0.5, 2.5, 4.5, 6.5}, buf.ToMono())
}

func TestToMono(t *testing.T) {
	t.Parallel()

	mono, _ := NewInterleavedBuffer(1, 1, []float32{1, 2})
	out := mono.ToMono()
	assert.Equal(t, []float32{1, 2}, out)
	out[0] = 9
	assert.Equal(t, float32(1), mono.Data[0], "mono downmix is a copy")

	tri, _ := NewInterleavedBuffer(1, 3, []float32{0, 1, 2, 3, 3, 3})
	got := tri.ToMono()
	assert.InDelta(t, 1, got[0], 1e-6)
	assert.InDelta(t, 3, got[1], 1e-6)
}

func TestConcat(t *testing.T) {
	t.Parallel()

	a, _ := NewInterleavedBuffer(8000, 2, []float32{1, 2})
	b, _ := NewInterleavedBuffer(8000, 2, []float32{3, 4})
	require.NoError(t, a.Concat(b))
	assert.Equal(t, []float32{1, 2, 3, 4}, a.Data)

	mono, _ := NewInterleavedBuffer(8000, 1, []float32{5})
	assert.Error(t, a.Concat(mono))

	other, _ := NewInterleavedBuffer(16000, 2, []float32{5, 6})
	assert.Error(t, a.Concat(other))
}

func TestSliceSourceAndReadAll(t *testing.T) {
	t.Parallel()

	data := []float32{1, 2, 3, 4, 5, 6}
	src := NewSliceSource(8000, 2, data)

	dst := make([]float32, 4)
	n, err := src.ReadSamples(dst)
	require.NoError(t, err)
	assert.Equal(t, 4, n)

	n, err = src.ReadSamples(dst)
	assert.ErrorIs(t, err, io.EOF)
	assert.Equal(t, 2, n)

	n, err = src.ReadSamples(dst)
	assert.ErrorIs(t, err, io.EOF)
	assert.Zero(t, n)

	_, err = src.ReadSamples(make([]float32, 3))
	assert.ErrorIs(t, err, ErrInvalidDstSize)

	src.Reset()
	buf, err := ReadAll(src)
	require.NoError(t, err)
	assert.Equal(t, 8000, buf.SampleRate)
	assert.Equal(t, 2, buf.Channels)
	assert.Equal(t, data, buf.Data)
}

type failingSource struct{ SliceSource }

func (failingSource) ReadSamples([]float32) (int, error) { return 0, errors.New("device gone") }

func TestReadAllPropagatesErrors(t *testing.T) {
	t.Parallel()

	_, err := ReadAll(&failingSource{SliceSource{sampleRate: 1, channels: 1}})
	assert.ErrorContains(t, err, "device gone")
}

func TestMonoMixer(t *testing.T) {
	t.Parallel()

	stereo := NewSliceSource(8000, 2, []float32{1, 0, 0.5, 0.5, -1, 1, 0.25, 0.75, 1, 1})
	m := NewMonoMixer(stereo)
	assert.Equal(t, 1, m.Channels())
	assert.Equal(t, 8000, m.SampleRate())

	dst := make([]float32, 3)
	n, err := m.ReadSamples(dst)
	require.NoError(t, err)
	assert.Equal(t, 3, n)
	assert.Equal(t, []float32{0.5, 0.5, 0}, dst)

	n, err = m.ReadSamples(dst)
	assert.ErrorIs(t, err, io.EOF)
	assert.Equal(t, 2, n)
	assert.Equal(t, []float32{0.5, 1}, dst[:n])

	n, err = m.ReadSamples(nil)
	assert.NoError(t, err)
	assert.Zero(t, n)
	assert.NoError(t, m.Close())

	mono := NewMonoMixer(NewSliceSource(8000, 1, []float32{0.1, 0.2}))
	all, err := ReadAll(mono)
	require.NoError(t, err)
	assert.Equal(t, []float32{0.1, 0.2}, all.Data)
}

func TestSynthesize(t *testing.T) {
	t.Parallel()

	out := Synthesize(8, 8, Partial{Frequency: 2, Amplitude: 0.5})
	want := []float64{0.5, 0, -0.5, 0, 0.5, 0, -0.5, 0}
	for i := range want {
		assert.InDelta(t, want[i], out[i], 1e-6, "sample %d", i)
	}

	phased := Synthesize(8, 1, Partial{Frequency: 1, Amplitude: 1, Phase: math.Pi})
	assert.InDelta(t, -1, phased[0], 1e-6)

	chord := Synthesize(44100, 1000, Chord(440, 660, 880)...)
	for _, v := range chord {
		assert.LessOrEqual(t, math.Abs(float64(v)), 1.0+1e-6)
	}
	assert.InDelta(t, 1, chord[0], 1e-6, "zero-phase partials add up at sample 0")

	assert.Equal(t, make([]float32, 4), Synthesize(0, 4, Partial{Frequency: 1, Amplitude: 1}))
}

func TestToneSource(t *testing.T) {
	t.Parallel()

	src := NewToneSource(1000, 0.5, Partial{Frequency: 100, Amplitude: 1})
	assert.Equal(t, 1, src.Channels())
	buf, err := ReadAll(src)
	require.NoError(t, err)
	assert.Equal(t, 500, buf.Frames())
}
