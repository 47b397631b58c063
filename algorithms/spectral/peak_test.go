package spectral

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/RyanBlaney/sonido-dft/algorithms/windowing"
)

func TestRefinedPeakBetweenBins(t *testing.T) {
	sc := MustSamplingContext(8000, 800) // 10 Hz bins
	a := NewSTFTAnalyzer(sc, windowing.Hann{}, quiet())

	for _, f := range []float64{103, 107.5, 250, 1234} {
		hs := a.Analyze(cosineTone(8000, 800, f, 0.3))

		peak, ok := Peak(hs)
		require.True(t, ok)
		refined, ok := RefinedPeak(hs)
		require.True(t, ok)

		assert.InDelta(t, f, refined, 1, "tone at %g Hz", f)
		assert.LessOrEqual(t, math.Abs(float64(refined-peak.Frequency())), 5.0)
	}
}

func TestRefinedPeakFallsBackToBin(t *testing.T) {
	sc := MustSamplingContext(8000, 800)

	_, ok := RefinedPeak(nil)
	assert.False(t, ok)

	// peak at the edge
	f, ok := RefinedPeak(frame(sc, 5, 1, 0))
	require.True(t, ok)
	assert.Equal(t, float32(0), f)

	// silent neighbour
	f, _ = RefinedPeak(frame(sc, 0, 0, 3, 1))
	assert.Equal(t, float32(20), f)

	// neighbours that are not adjacent bins, as produced by Goertzel
	sparse := []Harmonic{
		{Phasor: 1, Bin: sc.Bin(3)},
		{Phasor: 4, Bin: sc.Bin(10)},
		{Phasor: 2, Bin: sc.Bin(20)},
	}
	f, _ = RefinedPeak(sparse)
	assert.Equal(t, float32(100), f)

	// equal neighbours keep the bin frequency
	f, _ = RefinedPeak(frame(sc, 0, 1, 4, 1))
	assert.InDelta(t, 20, f, 1e-4)
}

func TestPowerSpectrum(t *testing.T) {
	sc := MustSamplingContext(8000, 800)
	hs := frame(sc, 0, 1, 2, 10)

	assert.Equal(t, []float64{0, 1, 4, 100}, PowerSpectrum(hs))

	db := PowerSpectrumDB(hs, 100, -120)
	assert.InDelta(t, -120, db[0], 1e-9)
	assert.InDelta(t, -20, db[1], 1e-9)
	assert.InDelta(t, 0, db[3], 1e-9)

	// a non-positive reference means unity
	assert.InDelta(t, 20, PowerSpectrumDB(hs, 0, -120)[3], 1e-9)

	spec := &Spectrogram{Frames: [][]Harmonic{hs, hs}, Hop: 800, Context: sc}
	all := spec.PowerDB(100, -120)
	require.Len(t, all, 2)
	assert.Equal(t, db, all[1])
}

func TestSlope(t *testing.T) {
	sc := MustSamplingContext(8000, 800)

	amps := make([]float32, 50)
	for i := 1; i < len(amps); i++ {
		amps[i] = 1 / float32(i) // 1/f
	}
	assert.InDelta(t, -1, Slope(frame(sc, amps...)), 1e-4)

	flat := make([]float32, 50)
	for i := range flat {
		flat[i] = 0.5
	}
	assert.InDelta(t, 0, Slope(frame(sc, flat...)), 1e-9)

	// fewer than two usable bins
	assert.Zero(t, Slope(frame(sc, 3, 1)))
	assert.Zero(t, Slope(nil))
}
