package effect

import (
	"fmt"
	"math"

	"github.com/toid-audio/toid"
	"github.com/viterin/vek/vek32"
)

const maxDelaySeconds = 10

// Delay is a feedback delay. The delay lines persist between blocks.
type Delay struct {
	lines    [2][]float32
	pos      int
	feedback float32
	mix      float32
	wet      [2][]float32
}

func newDelay(info toid.EffectInfo, _ toid.ResourceProvider) (toid.Effect, error) {
	seconds := info.Param("time", 0.25)
	if !(seconds > 0 && seconds <= maxDelaySeconds) {
		return nil, fmt.Errorf("delay time %v s outside (0, %v]", seconds, maxDelaySeconds)
	}
	n := max(int(math.Round(seconds*toid.SampleRate)), 1)
	return &Delay{
		lines:    [2][]float32{make([]float32, n), make([]float32, n)},
		feedback: float32(info.Param("feedback", 0.5)),
		mix:      float32(info.Param("mix", 0.5)),
	}, nil
}

func (d *Delay) Process(left, right []float32) ([]float32, []float32) {
	n := min(len(left), len(right))
	for c := range d.wet {
		if cap(d.wet[c]) < n {
			d.wet[c] = make([]float32, n)
		}
		d.wet[c] = d.wet[c][:n]
	}
	pos := d.pos
	for i := 0; i < n; i++ {
		for c, in := range [2][]float32{left, right} {
			wet := d.lines[c][pos]
			d.wet[c][i] = wet
			d.lines[c][pos] = in[i] + wet*d.feedback
		}
		if pos++; pos >= len(d.lines[0]) {
			pos = 0
		}
	}
	d.pos = pos
	outLeft := vek32.MulNumber(left[:n], 1-d.mix)
	outRight := vek32.MulNumber(right[:n], 1-d.mix)
	vek32.Add_Inplace(outLeft, vek32.MulNumber(d.wet[0], d.mix))
	vek32.Add_Inplace(outRight, vek32.MulNumber(d.wet[1], d.mix))
	return outLeft, outRight
}
