// Package chroma maps frequencies to equal-tempered notes and folds spectra
// into 12 pitch classes.
package chroma

import (
	"fmt"
	"math"
)

// DefaultTuning is the frequency of A4 in Hz.
const DefaultTuning = 440.0

// Labels are the pitch class names, C first.
var Labels = [12]string{"C", "C#", "D", "D#", "E", "F", "F#", "G", "G#", "A", "A#", "B"}

// Note is the equal-tempered note nearest to a frequency.
type Note struct {
	MIDI   int     `json:"midi" yaml:"midi"`
	Name   string  `json:"name" yaml:"name"` // pitch class and octave, "A4"
	Class  int     `json:"class" yaml:"class"`
	Octave int     `json:"octave" yaml:"octave"`
	Cents  float64 `json:"cents" yaml:"cents"` // deviation from the note, in [-50, 50]
}

func (n Note) String() string {
	return fmt.Sprintf("%s %+.0f cents", n.Name, n.Cents)
}

// MIDINumber is the fractional MIDI note number of frequency, A4 (tuning Hz)
// being 69.
func MIDINumber(frequency, tuning float64) float64 {
	return 69 + 12*math.Log2(frequency/tuning)
}

// NoteFor returns the note nearest to frequency under the given A4 tuning.
// ok is false for non-positive frequencies or tuning.
func NoteFor(frequency, tuning float64) (note Note, ok bool) {
	if frequency <= 0 || tuning <= 0 {
		return Note{}, false
	}

	midi := MIDINumber(frequency, tuning)
	nearest := int(math.Round(midi))
	class := ((nearest % 12) + 12) % 12
	octave := floorDiv(nearest, 12) - 1

	return Note{
		MIDI:   nearest,
		Name:   fmt.Sprintf("%s%d", Labels[class], octave),
		Class:  class,
		Octave: octave,
		Cents:  (midi - float64(nearest)) * 100,
	}, true
}

// Frequency is the exact frequency of a MIDI note under the given tuning.
func Frequency(midi int, tuning float64) float64 {
	return tuning * math.Pow(2, float64(midi-69)/12)
}

func floorDiv(a, b int) int {
	q := a / b
	if a%b != 0 && (a < 0) != (b < 0) {
		q--
	}
	return q
}
