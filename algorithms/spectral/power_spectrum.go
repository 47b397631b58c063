package spectral

import "math"

// PowerSpectrum returns the power of every harmonic.
func PowerSpectrum(harmonics []Harmonic) []float64 {
	power := make([]float64, len(harmonics))
	for i, h := range harmonics {
		power[i] = float64(h.Power())
	}
	return power
}

// PowerSpectrumDB returns 10*log10(power/reference) for every harmonic.
// Values below floorDB are raised to it, so silent bins stay finite.
func PowerSpectrumDB(harmonics []Harmonic, reference, floorDB float64) []float64 {
	if reference <= 0 {
		reference = 1
	}
	floor := math.Pow(10, floorDB/10)

	db := PowerSpectrum(harmonics)
	for i, p := range db {
		db[i] = 10 * math.Log10(max(p/reference, floor))
	}
	return db
}

// PowerDB converts every frame of the spectrogram with PowerSpectrumDB.
func (s *Spectrogram) PowerDB(reference, floorDB float64) [][]float64 {
	out := make([][]float64, len(s.Frames))
	for i, frame := range s.Frames {
		out[i] = PowerSpectrumDB(frame, reference, floorDB)
	}
	return out
}
