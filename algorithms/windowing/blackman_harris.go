package windowing

// BlackmanHarris is the symmetric four-term Blackman-Harris window. Its side
// lobes sit around -92 dB, at the cost of a main lobe four bins wide.
type BlackmanHarris struct{}

func (BlackmanHarris) RatioAt(index, windowLength int) float32 {
	return cosineSum(TypeBlackmanHarris, index, windowLength, 0.35875, 0.48829, 0.14128, 0.01168)
}

func (BlackmanHarris) Type() Type {
	return TypeBlackmanHarris
}
