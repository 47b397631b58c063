package spectral

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHarmonicAccessors(t *testing.T) {
	sc := MustSamplingContext(44100, 100)
	h := Harmonic{Phasor: complex(3, 4), Bin: sc.Bin(2)}

	assert.InDelta(t, 5, h.Amplitude(), 1e-6)
	assert.InDelta(t, 25, h.Power(), 1e-6)
	assert.InDelta(t, math.Atan2(4, 3), h.Phase(), 1e-6)
	assert.Equal(t, float32(882), h.Frequency())
	assert.Equal(t, 2, h.BinIndex())

	neg := Harmonic{Phasor: complex(-1, 0), Bin: sc.Bin(0)}
	assert.InDelta(t, math.Pi, neg.Phase(), 1e-6, "phase lies in (-pi, pi]")
}

func TestPeak(t *testing.T) {
	sc := MustSamplingContext(8000, 8)

	_, ok := Peak(nil)
	assert.False(t, ok)

	hs := []Harmonic{
		{Phasor: 1, Bin: sc.Bin(0)},
		{Phasor: complex(0, -3), Bin: sc.Bin(1)},
		{Phasor: 3, Bin: sc.Bin(2)},
		{Phasor: 2, Bin: sc.Bin(3)},
	}
	peak, ok := Peak(hs)
	require.True(t, ok)
	assert.Equal(t, 1, peak.BinIndex(), "ties keep the lowest bin")
}

func TestCloneHarmonics(t *testing.T) {
	sc := MustSamplingContext(8000, 8)
	hs := []Harmonic{{Phasor: 1, Bin: sc.Bin(0)}}
	clone := CloneHarmonics(hs)
	clone[0].Phasor = 2
	assert.Equal(t, complex64(1), hs[0].Phasor)
	assert.Nil(t, CloneHarmonics(nil))
}
