package windowing

// Blackman is the symmetric three-term Blackman window.
type Blackman struct{}

func (Blackman) RatioAt(index, windowLength int) float32 {
	return cosineSum(TypeBlackman, index, windowLength, 0.42, 0.5, 0.08)
}

func (Blackman) Type() Type {
	return TypeBlackman
}
