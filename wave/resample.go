package wave

// ChangeSampleRate resamples the wave with linear interpolation, without any
// anti-aliasing. It walks a fractional source index in steps of
// SampleRate/newRate while the index is below SampleNum-1, so the resulting
// SampleNum is ceil((SampleNum-1)*q) with q = newRate/SampleRate: within
// [SampleNum*q - q, SampleNum*q - q + 1), i.e. within ±0.5 of SampleNum*q when
// halving the rate. A non-positive newRate yields an empty wave.
func (w *Wave) ChangeSampleRate(newRate float64) *Wave {
	if !(newRate > 0) || !(w.SampleRate > 0) {
		return w.withData(emptyLike(w.Data), newRate)
	}
	step := w.SampleRate / newRate
	last := float64(w.SampleNum - 1)
	n := 0
	for float64(n)*step < last {
		n++
	}
	resample := func(src []float32) []float32 {
		dst := make([]float32, n)
		for k := range dst {
			dst[k] = interpolate(src, float64(k)*step)
		}
		return dst
	}
	switch d := w.Data.(type) {
	case Mono:
		return NewMono(resample(d), newRate)
	case Stereo:
		return NewStereo(resample(d.Left), resample(d.Right), newRate)
	}
	return &Wave{SampleRate: newRate}
}

// interpolate reads v at fractional index i. A missing neighbour contributes
// nothing, its weight is not redistributed.
func interpolate(v []float32, i float64) float32 {
	l := int(i)
	r := l + 1
	rw := float32(i - float64(l))
	lw := 1 - rw
	var ret float32
	if l >= 0 && l < len(v) {
		ret += lw * v[l]
	}
	if r >= 0 && r < len(v) {
		ret += rw * v[r]
	}
	return ret
}

func emptyLike(d Data) Data {
	if _, ok := d.(Stereo); ok {
		return Stereo{Left: []float32{}, Right: []float32{}}
	}
	return Mono{}
}

func (w *Wave) withData(d Data, rate float64) *Wave {
	return &Wave{Data: d, SampleNum: d.frames(), SampleRate: rate}
}
