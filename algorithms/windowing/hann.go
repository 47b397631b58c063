package windowing

// Hann is the symmetric Hann window, 0.5*(1 - cos(2*pi*i/(N-1))).
//
// It is zero at both ends and 1 at the center of odd-length windows.
// RatioAt panics for windows shorter than 2 samples.
type Hann struct{}

func (Hann) RatioAt(index, windowLength int) float32 {
	return cosineSum(TypeHann, index, windowLength, 0.5, 0.5)
}

func (Hann) Type() Type {
	return TypeHann
}
