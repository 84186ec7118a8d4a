package monitor

import (
	"encoding/binary"
	"fmt"
	"io"
)

// wavHeader is the 44-byte canonical RIFF/WAVE header for 16-bit mono PCM,
// written as a single struct rather than the teacher's sequence of
// individual field writes, so the binary layout is visible in one place.
type wavHeader struct {
	ChunkID       [4]byte
	ChunkSize     uint32
	Format        [4]byte
	Subchunk1ID   [4]byte
	Subchunk1Size uint32
	AudioFormat   uint16
	NumChannels   uint16
	SampleRate    uint32
	ByteRate      uint32
	BlockAlign    uint16
	BitsPerSample uint16
	Subchunk2ID   [4]byte
	Subchunk2Size uint32
}

// wavWriter streams 16-bit mono PCM WAV to an io.Writer. Sample encoding
// goes through writeInt16LE (pcm.go), the same conversion RealtimeMonitor
// uses, instead of repeating the clamp/scale math here.
type wavWriter struct {
	writer  io.Writer
	scratch [2]byte
}

func newWAVWriter(w io.Writer) *wavWriter {
	return &wavWriter{writer: w}
}

func (w *wavWriter) writeHeader(sampleRate int32, dataSize int) error {
	h := wavHeader{
		ChunkID:       [4]byte{'R', 'I', 'F', 'F'},
		ChunkSize:     uint32(dataSize + 36),
		Format:        [4]byte{'W', 'A', 'V', 'E'},
		Subchunk1ID:   [4]byte{'f', 'm', 't', ' '},
		Subchunk1Size: 16,
		AudioFormat:   1,
		NumChannels:   1,
		SampleRate:    uint32(sampleRate),
		ByteRate:      uint32(sampleRate) * 2,
		BlockAlign:    2,
		BitsPerSample: 16,
		Subchunk2ID:   [4]byte{'d', 'a', 't', 'a'},
		Subchunk2Size: uint32(dataSize),
	}
	if err := binary.Write(w.writer, binary.LittleEndian, h); err != nil {
		return fmt.Errorf("writing WAV header: %w", err)
	}
	return nil
}

func (w *wavWriter) writeSamples(samples []float64) error {
	for _, s := range samples {
		writeInt16LE(w.scratch[:], 0, s)
		if _, err := w.writer.Write(w.scratch[:]); err != nil {
			return fmt.Errorf("writing WAV samples: %w", err)
		}
	}
	return nil
}

// ExportWAV renders durationSeconds of engine-driven click output to writer
// as a WAV file, the golden-vector export path of SPEC_FULL.md §B. Unlike
// the teacher's ExportWAV, which pulled from a Player that advanced its
// own row/tick position as it generated samples, ClickSynth has no notion
// of sequencer steps at all — so the step clock has to be driven
// explicitly from here, one advanceStep call every samplesPerStep frames,
// interleaved with the sample pulls rather than generated in one pass.
func ExportWAV(synth *ClickSynth, sampleRate, samplesPerStep int32, advanceStep func(), writer io.Writer, durationSeconds float64) error {
	totalSamples := int(durationSeconds * float64(sampleRate))
	dataSize := totalSamples * 2

	ww := newWAVWriter(writer)
	if err := ww.writeHeader(sampleRate, dataSize); err != nil {
		return err
	}

	buffer := make([]float64, samplesPerStep)
	for written := 0; written < totalSamples; {
		advanceStep()

		n := len(buffer)
		if remaining := totalSamples - written; remaining < n {
			n = remaining
		}
		synth.GenerateSamples(buffer[:n])
		if err := ww.writeSamples(buffer[:n]); err != nil {
			return err
		}
		written += n
	}
	return nil
}
