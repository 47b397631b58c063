package spectral

import (
	"fmt"
)

// DiscreteFrequency identifies one frequency bin of a SamplingContext.
type DiscreteFrequency struct {
	ctx   SamplingContext
	index int
}

// Index is the bin number, 0 for DC.
func (f DiscreteFrequency) Index() int {
	return f.index
}

func (f DiscreteFrequency) Context() SamplingContext {
	return f.ctx
}

// Frequency is the bin's center frequency in Hz.
func (f DiscreteFrequency) Frequency() float32 {
	return f.ctx.BinToFrequency(f.index)
}

// FrequencyInterval is the half-open range of frequencies mapped to this bin.
func (f DiscreteFrequency) FrequencyInterval() (low, high float32) {
	return f.ctx.BinFrequencyInterval(f.index)
}

// Add moves n bins up, saturating at the highest bin.
func (f DiscreteFrequency) Add(n int) DiscreteFrequency {
	return DiscreteFrequency{ctx: f.ctx, index: clampBin(f.index+n, f.ctx.BinCount())}
}

// Sub moves n bins down, saturating at DC.
func (f DiscreteFrequency) Sub(n int) DiscreteFrequency {
	return DiscreteFrequency{ctx: f.ctx, index: clampBin(f.index-n, f.ctx.BinCount())}
}

// Compare orders bins by index and returns -1, 0 or +1.
// It panics with ErrContextMismatch if the bins come from different contexts.
func (f DiscreteFrequency) Compare(other DiscreteFrequency) int {
	if f.ctx != other.ctx {
		panic(fmt.Errorf("%w: %s vs %s", ErrContextMismatch, f.ctx, other.ctx))
	}
	switch {
	case f.index < other.index:
		return -1
	case f.index > other.index:
		return 1
	default:
		return 0
	}
}

// Equal reports whether both bins share a context and an index.
func (f DiscreteFrequency) Equal(other DiscreteFrequency) bool {
	return f == other
}

func (f DiscreteFrequency) String() string {
	return fmt.Sprintf("bin %d (%.2f Hz)", f.index, f.Frequency())
}

func clampBin(index, count int) int {
	return min(max(index, 0), count-1)
}
