// ABOUTME: Audio type definitions
// ABOUTME: Defines the volume range, stereo layout and int16 sample helpers
package audio

import "encoding/binary"

const (
	// Volume range used by every backend and by the stored configuration
	MinVolume = 0
	MaxVolume = 100

	// Channels is fixed: every stream handled here is interleaved stereo
	Channels = 2

	// BytesPerFrame is one interleaved stereo frame of 16-bit samples
	BytesPerFrame = Channels * 2
)

// ClampVolume limits v to [MinVolume, MaxVolume]
func ClampVolume(v int) int {
	if v < MinVolume {
		return MinVolume
	}
	if v > MaxVolume {
		return MaxVolume
	}
	return v
}

// EffectiveVolume returns the level a backend should play at
func EffectiveVolume(volume int, muted bool) int {
	if muted {
		return 0
	}
	return ClampVolume(volume)
}

// VolumeMultiplier converts a 0-100 volume to a linear gain
func VolumeMultiplier(volume int) float64 {
	return float64(ClampVolume(volume)) / float64(MaxVolume)
}

// ClampInt16 saturates a wide sample to the int16 range
func ClampInt16(v int32) int16 {
	if v > 32767 {
		return 32767
	}
	if v < -32768 {
		return -32768
	}
	return int16(v)
}

// Int16ToBytes writes samples as little-endian bytes into out.
// out must hold at least len(samples)*2 bytes.
func Int16ToBytes(samples []int16, out []byte) {
	for i, s := range samples {
		binary.LittleEndian.PutUint16(out[i*2:], uint16(s))
	}
}

// BytesToInt16 reads little-endian 16-bit samples from data into out and
// returns how many were read
func BytesToInt16(data []byte, out []int16) int {
	n := len(data) / 2
	if n > len(out) {
		n = len(out)
	}
	for i := 0; i < n; i++ {
		out[i] = int16(binary.LittleEndian.Uint16(data[i*2:]))
	}
	return n
}
