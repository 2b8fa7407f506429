package toid

import (
	"encoding/json"
	"fmt"
	"math"

	"gopkg.in/yaml.v3"
)

// TicksPerBeat is the resolution of Beat. It is divisible by 2^10, 3^3, 5 and
// 7, so the usual musical subdivisions (halves, triplets, quintuplets,
// sixteenths...) and decimal fractions like 0.1 are represented exactly.
const TicksPerBeat = 967680

// SampleRate is the fixed sample rate of all rendering, in Hz.
const SampleRate = 44100

// Beat is the musical time unit, stored as a fixed-point number of ticks so that
// addition and modulo never drift, and equality is exact.
type Beat int64

// NewBeat converts a floating point number of beats into a Beat, rounding to
// the nearest tick.
func NewBeat(beats float64) Beat {
	return Beat(math.Round(beats * TicksPerBeat))
}

// BeatFromSeconds returns the number of beats elapsing in the given number of
// seconds at the given tempo.
func BeatFromSeconds(seconds, bpm float64) Beat {
	return NewBeat(seconds * bpm / 60)
}

func (b Beat) Add(o Beat) Beat { return b + o }
func (b Beat) Sub(o Beat) Beat { return b - o }

// Mod returns b modulo m, always in [0, m) for positive m. For m <= 0, b is
// returned unchanged.
func (b Beat) Mod(m Beat) Beat {
	if m <= 0 {
		return b
	}
	return (b%m + m) % m
}

func (b Beat) Compare(o Beat) int {
	switch {
	case b < o:
		return -1
	case b > o:
		return 1
	}
	return 0
}

func (b Beat) Less(o Beat) bool { return b < o }

// Float64 returns the beat as a floating point number of beats.
func (b Beat) Float64() float64 {
	return float64(b) / TicksPerBeat
}

// Seconds returns the duration of b in seconds at the given tempo.
func (b Beat) Seconds(bpm float64) float64 {
	if bpm <= 0 {
		return 0
	}
	return b.Float64() * 60 / bpm
}

// Samples returns the duration of b in (fractional) samples at the given
// tempo, assuming SampleRate.
func (b Beat) Samples(bpm float64) float64 {
	if bpm <= 0 {
		return 0
	}
	return b.Float64() * SampleRate * 60 / bpm
}

func (b Beat) String() string {
	return fmt.Sprintf("%gb", b.Float64())
}

func (b Beat) MarshalYAML() (interface{}, error) {
	return b.Float64(), nil
}

func (b *Beat) UnmarshalYAML(value *yaml.Node) error {
	var f float64
	if err := value.Decode(&f); err != nil {
		return fmt.Errorf("beat: %w", err)
	}
	*b = NewBeat(f)
	return nil
}

func (b Beat) MarshalJSON() ([]byte, error) {
	return json.Marshal(b.Float64())
}

func (b *Beat) UnmarshalJSON(data []byte) error {
	var f float64
	if err := json.Unmarshal(data, &f); err != nil {
		return fmt.Errorf("beat: %w", err)
	}
	*b = NewBeat(f)
	return nil
}
