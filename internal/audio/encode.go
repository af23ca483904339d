package audio

import (
	"fmt"
	"io"
	"math"

	gaudio "github.com/go-audio/audio"
	"github.com/go-audio/wav"
)

// EncodeWAV writes the signal as an uncompressed PCM WAV container: 16-bit
// signed samples at the signal's own sample rate and channel count. Encoding
// to plain PCM guarantees the trimmed output stays decodable everywhere,
// whatever compressed format the original upload used.
func EncodeWAV(w io.WriteSeeker, sig *Signal) error {
	if sig == nil || sig.Samples() == 0 {
		return ErrEmptySignal
	}

	channels := len(sig.Channels)
	frames := sig.Samples()

	// Interleave and quantize to 16-bit. Samples are clamped before
	// quantizing; rounding is half away from zero.
	data := make([]int, frames*channels)
	for i := 0; i < frames; i++ {
		for ch := 0; ch < channels; ch++ {
			data[i*channels+ch] = quantize16(sig.Channels[ch][i])
		}
	}

	enc := wav.NewEncoder(w, sig.SampleRate, 16, channels, 1)
	buf := &gaudio.IntBuffer{
		Format:         &gaudio.Format{NumChannels: channels, SampleRate: sig.SampleRate},
		Data:           data,
		SourceBitDepth: 16,
	}
	if err := enc.Write(buf); err != nil {
		return fmt.Errorf("failed to write PCM data: %w", err)
	}
	if err := enc.Close(); err != nil {
		return fmt.Errorf("failed to finalize WAV header: %w", err)
	}
	return nil
}

// EncodeBytes encodes the signal into an in-memory WAV byte buffer, for
// callers handing the result straight to an upload pathway.
func EncodeBytes(sig *Signal) ([]byte, error) {
	ws := &memWriteSeeker{}
	if err := EncodeWAV(ws, sig); err != nil {
		return nil, err
	}
	return ws.buf, nil
}

// quantize16 clamps a float sample to [-1, 1] and converts it to a signed
// 16-bit value, rounding half away from zero.
func quantize16(v float64) int {
	if v > 1.0 {
		v = 1.0
	} else if v < -1.0 {
		v = -1.0
	}
	q := int(math.Round(v * 32767.0))
	if q > 32767 {
		q = 32767
	} else if q < -32768 {
		q = -32768
	}
	return q
}

// memWriteSeeker is a minimal in-memory io.WriteSeeker. The WAV encoder
// seeks back to patch chunk sizes after the data is written, so a plain
// bytes.Buffer is not enough.
type memWriteSeeker struct {
	buf []byte
	pos int
}

func (m *memWriteSeeker) Write(p []byte) (int, error) {
	if need := m.pos + len(p); need > len(m.buf) {
		grown := make([]byte, need)
		copy(grown, m.buf)
		m.buf = grown
	}
	copy(m.buf[m.pos:], p)
	m.pos += len(p)
	return len(p), nil
}

func (m *memWriteSeeker) Seek(offset int64, whence int) (int64, error) {
	var next int
	switch whence {
	case io.SeekStart:
		next = int(offset)
	case io.SeekCurrent:
		next = m.pos + int(offset)
	case io.SeekEnd:
		next = len(m.buf) + int(offset)
	default:
		return 0, fmt.Errorf("invalid seek whence: %d", whence)
	}
	if next < 0 {
		return 0, fmt.Errorf("negative seek position: %d", next)
	}
	m.pos = next
	return int64(next), nil
}
