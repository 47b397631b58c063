package filters

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sine(freq float64, sampleRate, n int) []float32 {
	out := make([]float32, n)
	for i := range out {
		out[i] = float32(math.Sin(2 * math.Pi * freq * float64(i) / float64(sampleRate)))
	}
	return out
}

func peak(samples []float32) float64 {
	p := 0.0
	for _, s := range samples {
		p = math.Max(p, math.Abs(float64(s)))
	}
	return p
}

func TestDCRemovalBlocksOffset(t *testing.T) {
	dc := NewDCRemoval()

	samples := make([]float32, 4000)
	for i := range samples {
		samples[i] = 1
	}
	dc.ProcessInPlace(samples)

	assert.InDelta(t, 1, samples[0], 1e-6)
	assert.InDelta(t, DefaultPole, samples[1], 1e-6)
	assert.Less(t, math.Abs(float64(samples[len(samples)-1])), 1e-3)
}

func TestDCRemovalPassesAudio(t *testing.T) {
	dc, err := NewDCRemovalWithCutoff(44100, 10)
	require.NoError(t, err)
	assert.InDelta(t, 10, dc.Cutoff(44100), 1e-9)

	samples := sine(1000, 44100, 44100)
	for i := range samples {
		samples[i] += 0.5
	}
	dc.ProcessInPlace(samples)

	// after settling, the offset is gone and the tone is intact
	settled := samples[len(samples)/2:]
	assert.InDelta(t, 1, peak(settled), 0.01)

	mean := 0.0
	for _, s := range settled {
		mean += float64(s)
	}
	assert.InDelta(t, 0, mean/float64(len(settled)), 1e-3)
}

func TestDCRemovalCutoffValidation(t *testing.T) {
	_, err := NewDCRemovalWithCutoff(0, 10)
	assert.Error(t, err)
	_, err = NewDCRemovalWithCutoff(8000, 0)
	assert.Error(t, err)
	_, err = NewDCRemovalWithCutoff(8000, 4000)
	assert.Error(t, err)
}

func TestPreEmphasis(t *testing.T) {
	pe, err := NewPreEmphasis(0.5)
	require.NoError(t, err)

	samples := []float32{1, 1, 1, 0}
	pe.ProcessInPlace(samples)
	assert.Equal(t, []float32{1, 0.5, 0.5, -0.5}, samples)

	assert.InDelta(t, 0.5, pe.Gain(0, 8000), 1e-9)
	assert.InDelta(t, 1.5, pe.Gain(4000, 8000), 1e-9)

	_, err = NewPreEmphasis(1)
	assert.Error(t, err)
	_, err = NewPreEmphasis(-0.1)
	assert.Error(t, err)
}

func TestChunksMatchWholeSignal(t *testing.T) {
	newChain := func() Chain {
		pe, err := NewPreEmphasis(DefaultPreEmphasis)
		require.NoError(t, err)
		return Chain{NewDCRemoval(), pe}
	}

	whole := sine(440, 8000, 1000)
	chunked := append([]float32(nil), whole...)

	newChain().ProcessInPlace(whole)

	chain := newChain()
	for start := 0; start < len(chunked); start += 128 {
		chain.ProcessInPlace(chunked[start:min(start+128, len(chunked))])
	}
	assert.Equal(t, whole, chunked)

	// after Reset the chain starts from silence again
	chain.Reset()
	again := sine(440, 8000, 1000)
	chain.ProcessInPlace(again)
	assert.Equal(t, whole, again)
}
