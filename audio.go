package toid

import (
	"github.com/toid-audio/toid/wave"
	"github.com/viterin/vek/vek32"
)

type (
	// AudioBuffer is a stereo buffer of float32 samples, nominally in [-1,1].
	// Left and Right always have the same length.
	AudioBuffer struct {
		Left  []float32
		Right []float32
	}

	AudioSink interface {
		WriteAudio(buffer AudioBuffer) error
		Close() error
	}

	AudioContext interface {
		Output() AudioSink
		Close() error
	}
)

// NewAudioBuffer returns a silent buffer of n frames.
func NewAudioBuffer(n int) AudioBuffer {
	return AudioBuffer{Left: make([]float32, n), Right: make([]float32, n)}
}

func (b AudioBuffer) Len() int { return len(b.Left) }

// Append returns b with the frames of o appended.
func (b AudioBuffer) Append(o AudioBuffer) AudioBuffer {
	return AudioBuffer{Left: append(b.Left, o.Left...), Right: append(b.Right, o.Right...)}
}

// Mix adds o into b, frame by frame. Frames of o beyond the length of b are
// ignored.
func (b AudioBuffer) Mix(o AudioBuffer) {
	n := min(b.Len(), o.Len())
	vek32.Add_Inplace(b.Left[:n], o.Left[:n])
	vek32.Add_Inplace(b.Right[:n], o.Right[:n])
}

// Interleaved returns the frames as L, R, L, R...
func (b AudioBuffer) Interleaved() []float32 {
	ret := make([]float32, 2*b.Len())
	for i := range b.Left {
		ret[2*i] = b.Left[i]
		ret[2*i+1] = b.Right[i]
	}
	return ret
}

// Wave wraps the buffer as a stereo wave at SampleRate, e.g. for exporting.
// The wave shares memory with the buffer.
func (b AudioBuffer) Wave() *wave.Wave {
	return wave.NewStereo(b.Left, b.Right, SampleRate)
}
