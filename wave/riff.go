package wave

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"os"
)

// RiffBuffer encodes the wave as a canonical 16-bit PCM RIFF/WAVE file,
// whatever the bit depth of the source was. Samples are clamped to [-1,1],
// multiplied by 32767 and truncated towards zero.
func (w *Wave) RiffBuffer() []byte {
	channels := w.Channels()
	if channels == 0 {
		channels = 1
	}
	frames := w.SampleNum
	if w.Data != nil {
		frames = min(frames, w.Data.frames())
	} else {
		frames = 0
	}
	dataSize := frames * 2 * channels
	buf := bytes.NewBuffer(make([]byte, 0, 44+dataSize))
	wavHeader(buf, channels, uint32(w.SampleRate), dataSize)
	pcm := make([]int16, frames*channels)
	switch d := w.Data.(type) {
	case Mono:
		for i := 0; i < frames; i++ {
			pcm[i] = toInt16(d[i])
		}
	case Stereo:
		for i := 0; i < frames; i++ {
			pcm[2*i] = toInt16(d.Left[i])
			pcm[2*i+1] = toInt16(d.Right[i])
		}
	}
	binary.Write(buf, binary.LittleEndian, pcm) // writes to a bytes.Buffer do not fail
	return buf.Bytes()
}

// Save writes the RiffBuffer encoding of the wave to path.
func (w *Wave) Save(path string) error {
	if err := os.WriteFile(path, w.RiffBuffer(), 0644); err != nil {
		return fmt.Errorf("could not save wave: %w", err)
	}
	return nil
}

// wavHeader writes the RIFF header, a 16 byte PCM fmt chunk and the data chunk
// header for 16-bit samples.
// Refer to: http://www-mmsp.ece.mcgill.ca/Documents/AudioFormats/WAVE/WAVE.html
func wavHeader(buf *bytes.Buffer, channels int, sampleRate uint32, dataSize int) {
	const fmtChunkSize = 16
	const bytesPerSample = 2
	buf.Write([]byte("RIFF"))
	binary.Write(buf, binary.LittleEndian, uint32(4+(8+fmtChunkSize)+(8+dataSize)))
	buf.Write([]byte("WAVE"))
	buf.Write([]byte("fmt "))
	binary.Write(buf, binary.LittleEndian, uint32(fmtChunkSize))
	binary.Write(buf, binary.LittleEndian, uint16(formatPCM))
	binary.Write(buf, binary.LittleEndian, uint16(channels))
	binary.Write(buf, binary.LittleEndian, sampleRate)
	binary.Write(buf, binary.LittleEndian, sampleRate*uint32(bytesPerSample*channels)) // avgBytesPerSec
	binary.Write(buf, binary.LittleEndian, uint16(bytesPerSample*channels))             // blockAlign
	binary.Write(buf, binary.LittleEndian, uint16(8*bytesPerSample))                    // bits per sample
	buf.Write([]byte("data"))
	binary.Write(buf, binary.LittleEndian, uint32(dataSize))
}

func toInt16(v float32) int16 {
	if v != v {
		return 0
	}
	return int16(min(max(v, -1), 1) * max16)
}
