package monitor

import "encoding/binary"

// writeInt16LE clamps a float64 sample to [-1, 1] and writes it as a
// little-endian signed 16-bit PCM frame into buf at the given byte offset.
// Both the oto playback path (ClickSynth.Read) and the WAV writer encode
// through this single conversion so the clamp/scale math lives in exactly
// one place.
func writeInt16LE(buf []byte, offset int, sample float64) {
	if sample > 1.0 {
		sample = 1.0
	} else if sample < -1.0 {
		sample = -1.0
	}
	binary.LittleEndian.PutUint16(buf[offset:], uint16(int16(sample*32767)))
}
