package windowing

// Hamming is the symmetric Hamming window, 0.54 - 0.46*cos(2*pi*i/(N-1)).
type Hamming struct{}

func (Hamming) RatioAt(index, windowLength int) float32 {
	return cosineSum(TypeHamming, index, windowLength, 0.54, 0.46)
}

func (Hamming) Type() Type {
	return TypeHamming
}
