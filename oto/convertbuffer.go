package oto

import (
	"encoding/binary"
	"math"

	"github.com/toid-audio/toid"
)

// AppendFloat32LE appends the buffer to dst as interleaved little-endian
// float32 frames, the layout of oto.FormatFloat32LE. Samples are clamped to
// [-1, 1] and NaNs are written as silence.
func AppendFloat32LE(dst []byte, buffer toid.AudioBuffer) []byte {
	for _, v := range buffer.Interleaved() {
		dst = binary.LittleEndian.AppendUint32(dst, math.Float32bits(clamp(v)))
	}
	return dst
}

func clamp(v float32) float32 {
	switch {
	case v != v:
		return 0
	case v < -1:
		return -1
	case v > 1:
		return 1
	}
	return v
}
