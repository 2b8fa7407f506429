package effect

import "github.com/viterin/vek/vek32"

// ToLeft downmixes to the left channel: left' = left + right, right' = 0.
type ToLeft struct{}

func (*ToLeft) Process(left, right []float32) ([]float32, []float32) {
	n := min(len(left), len(right))
	return vek32.Add(left[:n], right[:n]), vek32.Zeros(n)
}

// Gain scales both channels.
type Gain struct {
	Gain float32
}

func (g *Gain) Process(left, right []float32) ([]float32, []float32) {
	return vek32.MulNumber(left, g.Gain), vek32.MulNumber(right, g.Gain)
}
