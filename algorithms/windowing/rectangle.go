package windowing

// Rectangle passes a centered run of Width samples and zeroes the rest.
//
// For a window of length N the run starts at (N-Width)/2. A Width at or above
// N passes every sample; a Width of 0 passes none.
type Rectangle struct {
	Width int
}

func (r Rectangle) RatioAt(index, windowLength int) float32 {
	width := min(max(r.Width, 0), windowLength)
	offset := (windowLength - width) / 2
	if index >= offset && index < offset+width {
		return 1
	}
	return 0
}

func (Rectangle) Type() Type {
	return TypeRectangle
}

// Identity leaves the signal untouched.
type Identity struct{}

func (Identity) RatioAt(int, int) float32 {
	return 1
}

func (Identity) Type() Type {
	return TypeIdentity
}
