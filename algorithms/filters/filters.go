// Package filters holds streaming pre-filters applied to mono samples before
// spectral analysis. Filters keep state between calls, so consecutive chunks
// of one stream are filtered as a single signal.
package filters

// Filter processes samples in place.
type Filter interface {
	ProcessInPlace(samples []float32)
	Reset()
}

// Chain runs filters in order.
type Chain []Filter

func (c Chain) ProcessInPlace(samples []float32) {
	for _, f := range c {
		f.ProcessInPlace(samples)
	}
}

func (c Chain) Reset() {
	for _, f := range c {
		f.Reset()
	}
}
