package effect

import (
	"errors"
	"fmt"

	"github.com/toid-audio/toid"
	"github.com/viterin/vek/vek32"
)

// Reverb convolves the signal with an impulse response; the tail of the
// convolution carries over to the next blocks.
type Reverb struct {
	ir   [2][]float32
	tail [2][]float32
	tmp  []float32
	mix  float32
}

func newReverb(info toid.EffectInfo, provider toid.ResourceProvider) (toid.Effect, error) {
	if provider == nil {
		return nil, errors.New("reverb needs a resource provider")
	}
	ir, err := provider.Wave(info.Resource)
	if err != nil {
		return nil, fmt.Errorf("impulse response %q: %w", info.Resource, err)
	}
	if ir.SampleNum == 0 {
		return nil, fmt.Errorf("impulse response %q is empty", info.Resource)
	}
	return NewReverb(ir.Channel(0), ir.Channel(1), float32(info.Param("mix", 0.3))), nil
}

// NewReverb returns a reverb with the given impulse responses for the left
// and right channel, which must have the same length.
func NewReverb(irLeft, irRight []float32, mix float32) *Reverb {
	n := min(len(irLeft), len(irRight))
	return &Reverb{
		ir:   [2][]float32{irLeft[:n], irRight[:n]},
		tail: [2][]float32{make([]float32, max(n-1, 0)), make([]float32, max(n-1, 0))},
		tmp:  make([]float32, n),
		mix:  mix,
	}
}

func (r *Reverb) Process(left, right []float32) ([]float32, []float32) {
	n := min(len(left), len(right))
	var out [2][]float32
	for c, in := range [2][]float32{left[:n], right[:n]} {
		wet := r.convolve(c, in)
		out[c] = vek32.MulNumber(in, 1-r.mix)
		vek32.Add_Inplace(out[c], vek32.MulNumber(wet, r.mix))
	}
	return out[0], out[1]
}

func (r *Reverb) convolve(c int, in []float32) []float32 {
	ir := r.ir[c]
	if len(ir) == 0 {
		return make([]float32, len(in))
	}
	acc := make([]float32, len(in)+len(ir)-1)
	copy(acc, r.tail[c])
	for i, x := range in {
		if x == 0 {
			continue
		}
		vek32.MulNumber_Into(r.tmp, ir, x)
		vek32.Add_Inplace(acc[i:i+len(ir)], r.tmp)
	}
	copy(r.tail[c], acc[len(in):])
	return acc[:len(in)]
}
