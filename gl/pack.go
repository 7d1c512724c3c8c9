package gl

import (
	"encoding/binary"
	"math"
)

// PackFloat32 appends the native byte representation of each value in vs to
// dst, in order, and returns the extended slice.
func PackFloat32(dst []byte, vs ...float32) []byte {
	for _, v := range vs {
		dst = binary.NativeEndian.AppendUint32(dst, math.Float32bits(v))
	}
	return dst
}

// PackUint16 appends the native byte representation of each value in vs to
// dst, in order, and returns the extended slice.
func PackUint16(dst []byte, vs ...uint16) []byte {
	for _, v := range vs {
		dst = binary.NativeEndian.AppendUint16(dst, v)
	}
	return dst
}

// Float32At decodes the float32 stored at byte offset off in b.
func Float32At(b []byte, off int) float32 {
	return math.Float32frombits(binary.NativeEndian.Uint32(b[off:]))
}

// Uint16At decodes the uint16 stored at byte offset off in b.
func Uint16At(b []byte, off int) uint16 {
	return binary.NativeEndian.Uint16(b[off:])
}
