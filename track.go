package toid

import (
	"errors"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

type (
	// InstrumentKind is the closed set of instruments a track can be bound to.
	InstrumentKind int

	// Instrument selects how the notes of a track are turned into audio. Name
	// and Preset are used only by the sampled kinds: for Bank, Name is the
	// sample bank resource and Preset the preset index in it; for Kit, Name is
	// the drum kit whose sounds SampleNotes trigger.
	Instrument struct {
		Kind   InstrumentKind `yaml:"kind" json:"kind"`
		Name   string         `yaml:"name,omitempty" json:"name,omitempty"`
		Preset int            `yaml:"preset,omitempty" json:"preset,omitempty"`
	}

	// Track binds a phrase to an instrument, a volume in [0,1], a pan in
	// [-1,1] (-1 is left) and a chain of effects. Tracks are values; editing
	// one means building a new Track.
	Track[N Note[N]] struct {
		Name       string       `yaml:"name,omitempty" json:"name,omitempty"`
		Phrase     Phrase[N]    `yaml:"phrase" json:"phrase"`
		Instrument Instrument   `yaml:"instrument" json:"instrument"`
		Vol        float32      `yaml:"vol" json:"vol"`
		Pan        float32      `yaml:"pan" json:"pan"`
		Effects    []EffectInfo `yaml:"effects,omitempty" json:"effects,omitempty"`
	}
)

const (
	Unsupported InstrumentKind = iota
	Sine
	Triangle
	Sawtooth
	Bank
	Kit
)

var instrumentKindNames = [...]string{"unsupported", "sine", "triangle", "sawtooth", "bank", "kit"}

func Sin() Instrument { return Instrument{Kind: Sine} }
func Tri() Instrument { return Instrument{Kind: Triangle} }
func Saw() Instrument { return Instrument{Kind: Sawtooth} }

// SampleBank returns an instrument playing the preset of the named sample bank.
func SampleBank(name string, preset int) Instrument {
	return Instrument{Kind: Bank, Name: name, Preset: preset}
}

// DrumKit returns an instrument for SampleNote tracks using the named kit.
func DrumKit(name string) Instrument {
	return Instrument{Kind: Kit, Name: name}
}

func (k InstrumentKind) String() string {
	if k < 0 || int(k) >= len(instrumentKindNames) {
		return instrumentKindNames[Unsupported]
	}
	return instrumentKindNames[k]
}

// ParseInstrumentKind is the inverse of InstrumentKind.String. Unknown names
// map to Unsupported.
func ParseInstrumentKind(s string) InstrumentKind {
	s = strings.ToLower(strings.TrimSpace(s))
	for i, n := range instrumentKindNames {
		if n == s {
			return InstrumentKind(i)
		}
	}
	return Unsupported
}

// IsOscillator reports if the kind is one of the built-in oscillators.
func (k InstrumentKind) IsOscillator() bool {
	return k == Sine || k == Triangle || k == Sawtooth
}

func (k InstrumentKind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

func (k *InstrumentKind) UnmarshalText(text []byte) error {
	*k = ParseInstrumentKind(string(text))
	return nil
}

func (k InstrumentKind) MarshalYAML() (interface{}, error) {
	return k.String(), nil
}

func (k *InstrumentKind) UnmarshalYAML(value *yaml.Node) error {
	var s string
	if err := value.Decode(&s); err != nil {
		return fmt.Errorf("instrument kind: %w", err)
	}
	*k = ParseInstrumentKind(s)
	return nil
}

// Validate checks that the volume is in [0,1] and the pan in [-1,1]. Notes
// are not checked: negative durations are played as zero length.
func (t *Track[N]) Validate() error {
	var errs []error
	if !(t.Vol >= 0 && t.Vol <= 1) {
		errs = append(errs, fmt.Errorf("track %q: volume %v outside [0,1]", t.Name, t.Vol))
	}
	if !(t.Pan >= -1 && t.Pan <= 1) {
		errs = append(errs, fmt.Errorf("track %q: pan %v outside [-1,1]", t.Name, t.Pan))
	}
	return errors.Join(errs...)
}

// Levels returns the volume and pan clamped to their valid ranges; NaNs
// become 0.
func (t *Track[N]) Levels() (vol, pan float32) {
	return clamp32(t.Vol, 0, 1), clamp32(t.Pan, -1, 1)
}

// Copy returns a copy of the track that shares no mutable state with t.
func (t *Track[N]) Copy() Track[N] {
	ret := *t
	ret.Effects = make([]EffectInfo, len(t.Effects))
	for i, e := range t.Effects {
		ret.Effects[i] = e.Copy()
	}
	return ret
}

func clamp32(v, lo, hi float32) float32 {
	if v != v {
		return 0
	}
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
