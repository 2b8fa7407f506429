package wave

import (
	"bytes"
	"fmt"

	"github.com/go-audio/audio"
	goaudiowav "github.com/go-audio/wav"
)

// FormatError is returned by Parse when the input is not a supported wave
// file.
type FormatError struct {
	Reason string
	Err    error
}

func (e *FormatError) Error() string {
	if e.Err != nil {
		return "wave: " + e.Reason + ": " + e.Err.Error()
	}
	return "wave: " + e.Reason
}

func (e *FormatError) Unwrap() error { return e.Err }

func formatErrorf(format string, args ...any) *FormatError {
	return &FormatError{Reason: fmt.Sprintf(format, args...)}
}

const (
	formatPCM        = 1
	formatExtensible = 0xFFFE

	max16 = 32767
	max24 = 32767 * 255
)

// Parse decodes a RIFF/WAVE file with 16 or 24 bit signed PCM samples, mono or
// stereo. 16-bit samples are divided by 32767 and 24-bit samples by 32767*255.
// Chunks other than "fmt " and "data" are skipped. On error, no wave is
// returned and the error is a *FormatError.
func Parse(b []byte) (*Wave, error) {
	r := bytes.NewReader(b)
	d := goaudiowav.NewDecoder(r)
	// also rejects RIFF forms other than WAVE
	if !d.IsValidFile() {
		return nil, &FormatError{Reason: "invalid wave file", Err: d.Err()}
	}
	if d.WavAudioFormat != formatPCM && d.WavAudioFormat != formatExtensible {
		return nil, formatErrorf("unsupported format tag %d, only PCM is supported", d.WavAudioFormat)
	}
	if d.NumChans != 1 && d.NumChans != 2 {
		return nil, formatErrorf("invalid channel count %d", d.NumChans)
	}
	var scale float32
	switch d.BitDepth {
	case 16:
		scale = max16
	case 24:
		scale = max24
	default:
		return nil, formatErrorf("unsupported bit depth %d", d.BitDepth)
	}
	if err := d.FwdToPCM(); err != nil {
		return nil, &FormatError{Reason: "no data chunk", Err: err}
	}
	// the data chunk size is padded to even, a lone pad byte is not a sample
	bytesPerSample := int(d.BitDepth) / 8
	expected := int(d.PCMLen()) / bytesPerSample
	if r.Len() < expected*bytesPerSample {
		return nil, formatErrorf("data chunk claims %d bytes, only %d left", d.PCMLen(), r.Len())
	}
	buf := &audio.IntBuffer{Data: make([]int, expected)}
	n, err := d.PCMBuffer(buf)
	if err != nil {
		return nil, &FormatError{Reason: "could not read samples", Err: err}
	}
	if n < expected {
		return nil, formatErrorf("data chunk claims %d samples, only %d present", expected, n)
	}
	return decode(buf.Data[:n], int(d.NumChans), scale, float64(d.SampleRate)), nil
}

func decode(data []int, channels int, scale float32, sampleRate float64) *Wave {
	sampleNum := len(data) / channels
	if channels == 1 {
		mono := make([]float32, sampleNum)
		for i := range mono {
			mono[i] = float32(data[i]) / scale
		}
		return NewMono(mono, sampleRate)
	}
	left := make([]float32, sampleNum)
	right := make([]float32, sampleNum)
	for i := range left {
		left[i] = float32(data[2*i]) / scale
		right[i] = float32(data[2*i+1]) / scale
	}
	return NewStereo(left, right, sampleRate)
}
