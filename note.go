package toid

import (
	"cmp"
	"math"
	"strings"

	"gitlab.com/gomidi/midi/v2"
)

type (
	// Note is the capability every note type placed in a Phrase has: a start
	// time and a total order among notes of the same type. Notes are
	// comparable, so two notes with all fields equal are true duplicates.
	Note[N any] interface {
		comparable
		StartBeat() Beat
		Compare(other N) int
	}

	// Pitch is a MIDI note number; fractional values are microtonal.
	Pitch float64

	// PitchNote is a note with a pitch and a duration, played by oscillators or
	// sampled instruments.
	PitchNote struct {
		Pitch    Pitch `yaml:"pitch" json:"pitch"`
		Start    Beat  `yaml:"start" json:"start"`
		Duration Beat  `yaml:"duration" json:"duration"`
	}

	// SampleNote triggers the named sound of a drum kit at Start. The sound
	// plays until its sample data ends.
	SampleNote struct {
		Sound string `yaml:"sound" json:"sound"`
		Start Beat   `yaml:"start" json:"start"`
	}
)

// Hertz returns the frequency of the pitch, with A4 (69) at 440 Hz.
func (p Pitch) Hertz() float64 {
	return 440 * math.Pow(2, (float64(p)-69)/12)
}

// MIDI returns the pitch rounded to the nearest MIDI note, clamped to 0..127.
func (p Pitch) MIDI() uint8 {
	r := math.Round(float64(p))
	if !(r >= 0) {
		return 0
	}
	if r > 127 {
		return 127
	}
	return uint8(r)
}

func (p Pitch) String() string {
	return midi.Note(p.MIDI()).String()
}

func (n PitchNote) StartBeat() Beat { return n.Start }

func (n PitchNote) Compare(o PitchNote) int {
	if c := cmp.Compare(n.Pitch, o.Pitch); c != 0 {
		return c
	}
	if c := n.Start.Compare(o.Start); c != 0 {
		return c
	}
	return n.Duration.Compare(o.Duration)
}

func (n SampleNote) StartBeat() Beat { return n.Start }

func (n SampleNote) Compare(o SampleNote) int {
	if c := strings.Compare(n.Sound, o.Sound); c != 0 {
		return c
	}
	return n.Start.Compare(o.Start)
}
