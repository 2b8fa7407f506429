// Package wave decodes, resamples and encodes uncompressed PCM audio in the
// RIFF/WAVE container.
package wave

type (
	// Data is the sample data of a Wave: either Mono or Stereo.
	Data interface {
		Channels() int
		frames() int
	}

	// Mono is single channel sample data, normalized to [-1,1].
	Mono []float32

	// Stereo is two channel sample data, normalized to [-1,1]. Left and Right
	// have the same length.
	Stereo struct {
		Left  []float32
		Right []float32
	}

	// Wave is decoded audio. SampleNum is the number of frames and always
	// equals the length of every channel in Data.
	Wave struct {
		Data       Data
		SampleNum  int
		SampleRate float64
	}
)

func (Mono) Channels() int { return 1 }
func (m Mono) frames() int { return len(m) }
func (Stereo) Channels() int { return 2 }
func (s Stereo) frames() int { return min(len(s.Left), len(s.Right)) }

func NewMono(data []float32, sampleRate float64) *Wave {
	return &Wave{Data: Mono(data), SampleNum: len(data), SampleRate: sampleRate}
}

// NewStereo builds a stereo wave. If the channels differ in length, the longer
// one is truncated.
func NewStereo(left, right []float32, sampleRate float64) *Wave {
	n := min(len(left), len(right))
	return &Wave{Data: Stereo{Left: left[:n], Right: right[:n]}, SampleNum: n, SampleRate: sampleRate}
}

// Channels returns 1 or 2; 0 for a wave without data.
func (w *Wave) Channels() int {
	if w.Data == nil {
		return 0
	}
	return w.Data.Channels()
}

// Channel returns the samples of channel 0 (left) or 1 (right). A mono wave
// returns its only channel for both.
func (w *Wave) Channel(i int) []float32 {
	switch d := w.Data.(type) {
	case Mono:
		return d
	case Stereo:
		if i == 0 {
			return d.Left
		}
		return d.Right
	}
	return nil
}

// Seconds returns the duration of the wave.
func (w *Wave) Seconds() float64 {
	if w.SampleRate <= 0 {
		return 0
	}
	return float64(w.SampleNum) / w.SampleRate
}

// GetSamples returns the frames [start, end) as separate left and right
// channels; a mono wave is duplicated into both. Frames outside the wave are
// zeros, so both slices always have length end-start. If end < start, both
// slices are empty.
func (w *Wave) GetSamples(start, end int) (left, right []float32) {
	size := max(end-start, 0)
	left = make([]float32, size)
	right = make([]float32, size)
	if size == 0 {
		return left, right
	}
	lo := min(max(start, 0), w.SampleNum)
	hi := min(max(end, 0), w.SampleNum)
	if lo >= hi {
		return left, right
	}
	// frames before index 0 are zeros, so the copied data starts at lo-start
	offset := lo - start
	copy(left[offset:], w.Channel(0)[lo:hi])
	copy(right[offset:], w.Channel(1)[lo:hi])
	return left, right
}
