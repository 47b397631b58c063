package harmonic

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/RyanBlaney/sonido-dft/algorithms/spectral"
	"github.com/RyanBlaney/sonido-dft/algorithms/windowing"
	"github.com/RyanBlaney/sonido-dft/audio"
	"github.com/RyanBlaney/sonido-dft/logging"
)

func analyze(t *testing.T, partials ...audio.Partial) []spectral.Harmonic {
	t.Helper()
	sc := spectral.MustSamplingContext(8000, 800) // 10 Hz bins
	a := spectral.NewSTFTAnalyzer(sc, windowing.Identity{}, spectral.WithLogger(&logging.NoOpLogger{}))
	return a.Analyze(audio.Synthesize(8000, 800, partials...))
}

func TestProductSpectrum(t *testing.T) {
	power := []float64{1, 2, 3, 4, 5, 6}
	assert.Equal(t, []float64{1, 6, 15, 0, 0, 0}, ProductSpectrum(power, 2))
	assert.Equal(t, []float64{1, 24, 0, 0, 0, 0}, ProductSpectrum(power, 3))
	assert.Equal(t, power, ProductSpectrum(power, 1))
}

func TestEstimateFindsFundamentalUnderStrongerOvertone(t *testing.T) {
	frame := analyze(t,
		audio.Partial{Frequency: 200, Amplitude: 0.3},
		audio.Partial{Frequency: 400, Amplitude: 1},
		audio.Partial{Frequency: 600, Amplitude: 0.6},
		audio.Partial{Frequency: 800, Amplitude: 0.4},
	)

	peak, ok := spectral.Peak(frame)
	require.True(t, ok)
	assert.Equal(t, float32(400), peak.Frequency())

	e, err := NewEstimator(4, 50, 1000)
	require.NoError(t, err)
	f0, err := e.Estimate(frame)
	require.NoError(t, err)
	assert.Equal(t, 20, f0.BinIndex())
	assert.Equal(t, float32(200), f0.Frequency())

	assert.InDelta(t, 1, Harmonicity(frame, f0, 4), 1e-3)
	assert.Less(t, Harmonicity(frame, frame[30], 4), 0.5)
}

func TestEstimateRejectsPartialSpectra(t *testing.T) {
	frame := analyze(t, audio.Partial{Frequency: 440, Amplitude: 1})

	_, err := DefaultEstimator().Estimate(frame[:100])
	assert.ErrorIs(t, err, ErrNotFullSpectrum)

	_, err = DefaultEstimator().Estimate(nil)
	assert.ErrorIs(t, err, ErrNotFullSpectrum)

	sparse := []spectral.Harmonic{frame[44], frame[88]}
	_, err = DefaultEstimator().Estimate(sparse)
	assert.ErrorIs(t, err, ErrNotFullSpectrum)
}

func TestEstimateSilence(t *testing.T) {
	frame := analyze(t)
	_, err := DefaultEstimator().Estimate(frame)
	assert.ErrorIs(t, err, ErrNoFundamental)
	assert.Zero(t, Harmonicity(frame, frame[10], 3))
}

func TestNewEstimatorValidation(t *testing.T) {
	_, err := NewEstimator(0, 50, 100)
	assert.Error(t, err)
	_, err = NewEstimator(3, 100, 100)
	assert.Error(t, err)
	_, err = NewEstimator(3, -1, 100)
	assert.Error(t, err)
}
