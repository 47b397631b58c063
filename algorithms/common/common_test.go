package common

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCircularBuffer(t *testing.T) {
	cb := NewCircularBuffer(3)
	assert.True(t, cb.IsEmpty())
	assert.Empty(t, cb.Values(nil))

	_, evicted := cb.Push(1)
	assert.False(t, evicted)
	cb.Write([]float64{2, 3})
	assert.True(t, cb.IsFull())
	assert.Equal(t, []float64{1, 2, 3}, cb.Values(nil))

	old, evicted := cb.Push(4)
	assert.True(t, evicted)
	assert.Equal(t, 1.0, old)
	assert.Equal(t, []float64{2, 3, 4}, cb.Values(nil))

	cb.Write([]float64{5, 6, 7, 8})
	assert.Equal(t, []float64{6, 7, 8}, cb.Values(make([]float64, 0, 8)))
	assert.Equal(t, 3, cb.Len())

	cb.Clear()
	assert.True(t, cb.IsEmpty())
	assert.Panics(t, func() { NewCircularBuffer(0) })
}

func TestMovingAverage(t *testing.T) {
	avg := NewMovingAverage(3)
	assert.Equal(t, 3, avg.WindowSize())
	assert.Zero(t, avg.Average())
	assert.True(t, avg.IsWindowEmpty())

	steps := []struct {
		push float64
		want float64
	}{
		{0, 0},
		{1, 0.5},
		{1, 0.67},
		{1, 1},
		{2, 1.33},
	}
	for _, s := range steps {
		avg.Push(s.push)
		assert.InDelta(t, s.want, avg.Average(), 0.01, "after pushing %v", s.push)
	}
	assert.True(t, avg.IsWindowFull())

	avg.Reset()
	assert.True(t, avg.IsWindowEmpty())
	assert.Zero(t, avg.Average())
}

func TestLevels(t *testing.T) {
	assert.Zero(t, RMS(nil))
	assert.InDelta(t, 1, RMS([]float32{1, -1, 1, -1}), 1e-12)

	sine := make([]float32, 1000)
	for i := range sine {
		sine[i] = float32(math.Sin(2 * math.Pi * float64(i) / 100))
	}
	assert.InDelta(t, 1/math.Sqrt2, RMS(sine), 1e-4)
	assert.Zero(t, testing.AllocsPerRun(10, func() { RMS(sine) }))

	assert.InDelta(t, 0, AmplitudeToDB(1), 1e-12)
	assert.InDelta(t, -6.0206, AmplitudeToDB(0.5), 1e-4)
	assert.Equal(t, SilenceDB, AmplitudeToDB(0))

	assert.Equal(t, 1.0, Clamp(3, -1, 1))
	assert.Equal(t, -1.0, Clamp(-3, -1, 1))
	assert.Equal(t, 0.5, Clamp(0.5, -1, 1))
}

func TestParabolicVertex(t *testing.T) {
	// samples of -(x-0.25)^2 + 1 at -1, 0, 1
	f := func(x float64) float64 { return 1 - (x-0.25)*(x-0.25) }
	offset, value := ParabolicVertex(f(-1), f(0), f(1))
	assert.InDelta(t, 0.25, offset, 1e-12)
	assert.InDelta(t, 1, value, 1e-12)

	offset, value = ParabolicVertex(2, 2, 2)
	assert.Equal(t, 0.0, offset)
	assert.Equal(t, 2.0, value)

	// symmetric neighbours keep the center
	offset, _ = ParabolicVertex(1, 3, 1)
	assert.Equal(t, 0.0, offset)
}

func TestLinearAt(t *testing.T) {
	data := []float64{0, 10, 20}
	assert.Equal(t, 5.0, LinearAt(data, 0.5))
	assert.Equal(t, 20.0, LinearAt(data, 2))
	assert.Equal(t, 0.0, LinearAt(data, 2.5))
	assert.Equal(t, 0.0, LinearAt(data, -0.1))
	assert.Equal(t, 0.0, LinearAt(nil, 0))
}

func TestNormalize(t *testing.T) {
	samples := []float32{0.1, -0.25, 0.2}
	gain := NormalizePeak(samples, 1)
	assert.InDelta(t, 4, gain, 1e-6)
	assert.InDelta(t, -1, samples[1], 1e-6)
	assert.InDelta(t, 0.4, samples[0], 1e-6)

	silent := []float32{0, 0}
	assert.Equal(t, float32(1), NormalizePeak(silent, 1))
	assert.Equal(t, float32(1), NormalizeRMS(silent, 0.5))

	square := []float32{0.25, -0.25, 0.25, -0.25}
	gain = NormalizeRMS(square, 0.5)
	assert.InDelta(t, 2, gain, 1e-6)
	assert.InDelta(t, 0.5, RMS(square), 1e-6)
	assert.False(t, math.IsNaN(float64(gain)))
}
