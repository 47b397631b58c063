package spectral

// Descriptors summarizes the shape of one frame's spectrum.
type Descriptors struct {
	Centroid  float32 `json:"centroid_hz" yaml:"centroid_hz"`
	Bandwidth float32 `json:"bandwidth_hz" yaml:"bandwidth_hz"`
	Rolloff   float32 `json:"rolloff_hz" yaml:"rolloff_hz"`
	Flatness  float64 `json:"flatness" yaml:"flatness"`
	Crest     float64 `json:"crest" yaml:"crest"`
	Slope     float64 `json:"slope" yaml:"slope"`
}

// Describe computes every descriptor of a frame, using DefaultRolloff.
func Describe(harmonics []Harmonic) Descriptors {
	centroid := Centroid(harmonics)
	return Descriptors{
		Centroid:  centroid,
		Bandwidth: Bandwidth(harmonics, centroid),
		Rolloff:   Rolloff(harmonics, DefaultRolloff),
		Flatness:  Flatness(harmonics),
		Crest:     Crest(harmonics),
		Slope:     Slope(harmonics),
	}
}

// Descriptors describes every frame.
func (s *Spectrogram) Descriptors() []Descriptors {
	out := make([]Descriptors, len(s.Frames))
	for i, frame := range s.Frames {
		out[i] = Describe(frame)
	}
	return out
}

// Flux returns the flux between consecutive frames; the first frame has none,
// so the result is one shorter than Frames.
func (s *Spectrogram) Flux() []float64 {
	if len(s.Frames) < 2 {
		return nil
	}
	out := make([]float64, len(s.Frames)-1)
	for i := 1; i < len(s.Frames); i++ {
		out[i-1] = Flux(s.Frames[i-1], s.Frames[i])
	}
	return out
}
