package spectral

import (
	"context"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/RyanBlaney/sonido-dft/algorithms/windowing"
)

// frame builds harmonics for bins 0..len(amps)-1 of sc with real phasors.
func frame(sc SamplingContext, amps ...float32) []Harmonic {
	hs := make([]Harmonic, len(amps))
	for i, a := range amps {
		hs[i] = Harmonic{Phasor: complex(a, 0), Bin: sc.Bin(i)}
	}
	return hs
}

func TestCentroidAndBandwidth(t *testing.T) {
	sc := MustSamplingContext(8000, 800) // 10 Hz bins

	hs := frame(sc, 0, 1, 0, 1)
	assert.InDelta(t, 20, Centroid(hs), 1e-4)
	assert.InDelta(t, 10, Bandwidth(hs, Centroid(hs)), 1e-4)

	hs = frame(sc, 0, 0, 0, 0, 5)
	assert.InDelta(t, 40, Centroid(hs), 1e-4)
	assert.Zero(t, Bandwidth(hs, 40))

	assert.Zero(t, Centroid(frame(sc, 0, 0)))
	assert.Zero(t, Centroid(nil))
}

func TestRolloff(t *testing.T) {
	sc := MustSamplingContext(8000, 800)
	hs := frame(sc, 0, 1, 0, 1)

	assert.Equal(t, float32(30), Rolloff(hs, DefaultRolloff))
	assert.Equal(t, float32(10), Rolloff(hs, 0.5))
	assert.Equal(t, float32(0), Rolloff(hs, -1))
	assert.Equal(t, float32(30), Rolloff(hs, 2))
	assert.Zero(t, Rolloff(frame(sc, 0, 0), 0.5))
}

func TestFlatnessAndCrest(t *testing.T) {
	sc := MustSamplingContext(8000, 800)

	flat := frame(sc, 2, 2, 2, 2)
	assert.InDelta(t, 1, Flatness(flat), 1e-9)
	assert.InDelta(t, 1, Crest(flat), 1e-9)

	spike := frame(sc, 0, 3, 0)
	assert.Less(t, Flatness(spike), 1e-6)
	assert.InDelta(t, math.Sqrt(3), Crest(spike), 1e-6)

	assert.Zero(t, Flatness(frame(sc, 0, 0)))
	assert.Zero(t, Crest(frame(sc, 0, 0)))
	assert.Zero(t, Flatness(nil))
	assert.Zero(t, Crest(nil))
}

func TestFlux(t *testing.T) {
	sc := MustSamplingContext(8000, 800)

	assert.InDelta(t, 1, Flux(frame(sc, 1, 1), frame(sc, 2, 0.5)), 1e-6)
	assert.Zero(t, Flux(frame(sc, 2, 2), frame(sc, 1, 1)))
	assert.Panics(t, func() { Flux(frame(sc, 1), frame(sc, 1, 1)) })
}

func TestNoiseIsFlatterThanTone(t *testing.T) {
	sc := MustSamplingContext(8000, 800)
	a := NewSTFTAnalyzer(sc, windowing.Hann{}, quiet())

	tone := Describe(a.Analyze(cosineTone(8000, 800, 1000, 0)))
	white := Describe(a.Analyze(noise(800, 7)))

	assert.Less(t, tone.Flatness, white.Flatness)
	assert.Greater(t, tone.Crest, white.Crest)
	assert.InDelta(t, 1000, tone.Centroid, 5)
}

func TestSpectrogramDescriptorsAndFlux(t *testing.T) {
	sc := MustSamplingContext(8000, 80)
	signal := steppedTones(sc, []int{5, 5, 20})

	spec, err := ComputeSpectrogram(context.Background(), signal, 80, stftFactory(sc), 1)
	require.NoError(t, err)

	desc := spec.Descriptors()
	require.Len(t, desc, 3)
	assert.InDelta(t, 500, desc[0].Centroid, 1)
	assert.InDelta(t, 2000, desc[2].Centroid, 1)

	flux := spec.Flux()
	require.Len(t, flux, 2)
	assert.Less(t, flux[0], 1e-3)
	assert.Greater(t, flux[1], 1.0)
}
