package player

import (
	"math"

	"github.com/toid-audio/toid"
)

// oscillator returns the waveform of a built-in oscillator kind, as a function
// of the phase in radians.
func oscillator(kind toid.InstrumentKind) func(x float64) float64 {
	switch kind {
	case toid.Sine:
		return math.Sin
	case toid.Triangle:
		return tri
	case toid.Sawtooth:
		return saw
	}
	return nil
}

// tri is a triangle wave in phase with math.Sin: 0 at 0, 1 at π/2.
func tri(x float64) float64 {
	x = math.Mod(x-0.5*math.Pi, 2*math.Pi)
	if x < 0 {
		x += 2 * math.Pi
	}
	return math.Abs(x-math.Pi)/math.Pi*2 - 1
}

// saw rises from -1 to 1 over each period.
func saw(x float64) float64 {
	x = math.Mod(x, 2*math.Pi)
	return x/math.Pi - 1
}
