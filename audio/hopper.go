package audio

import "fmt"

// Hopper collects samples arriving in arbitrary chunks and hands out
// fixed-size windows that start every hop samples. With hop equal to size
// the windows are back to back; a smaller hop makes them overlap.
type Hopper struct {
	size      int
	hop       int
	buf       []float32
	skip      int
	processed int
}

// NewHopper creates a hopper. hop may exceed size, in which case the samples
// between windows are discarded.
func NewHopper(size, hop int) (*Hopper, error) {
	if size < 1 {
		return nil, fmt.Errorf("window size must be positive, got %d", size)
	}
	if hop < 1 {
		return nil, fmt.Errorf("hop must be positive, got %d", hop)
	}
	return &Hopper{
		size: size,
		hop:  hop,
		buf:  make([]float32, 0, size),
	}, nil
}

// Feed appends data and calls fn for every window it completes, passing the
// window and its zero-based index. The window slice is only valid during the
// call. An error from fn stops feeding and is returned; the samples after
// the failing window are dropped.
func (h *Hopper) Feed(data []float32, fn func(window []float32, index int) error) error {
	for len(data) > 0 {
		if h.skip > 0 {
			n := min(h.skip, len(data))
			h.skip -= n
			data = data[n:]
			continue
		}

		fill := min(h.size-len(h.buf), len(data))
		h.buf = append(h.buf, data[:fill]...)
		data = data[fill:]

		if len(h.buf) < h.size {
			continue
		}

		idx := h.processed
		h.processed++
		err := fn(h.buf, idx)
		h.advance()
		if err != nil {
			return err
		}
	}
	return nil
}

func (h *Hopper) advance() {
	if h.hop >= h.size {
		h.skip = h.hop - h.size
		h.buf = h.buf[:0]
		return
	}
	kept := copy(h.buf, h.buf[h.hop:])
	h.buf = h.buf[:kept]
}

// Processed is the number of windows emitted so far.
func (h *Hopper) Processed() int {
	return h.processed
}

// Pending is the number of buffered samples not yet part of an emitted window.
func (h *Hopper) Pending() int {
	return len(h.buf)
}

// Reset drops buffered samples and restarts window numbering.
func (h *Hopper) Reset() {
	h.buf = h.buf[:0]
	h.skip = 0
	h.processed = 0
}
