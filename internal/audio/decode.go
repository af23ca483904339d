// Package audio provides decoding and encoding between opaque recording
// bytes and the in-memory sample representation used by the analysis code.
package audio

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/go-audio/wav"
	mp3 "github.com/hajimehoshi/go-mp3"
)

// Sentinel errors surfaced to callers. Decode failures are not retried here;
// re-attempting an upload is the surrounding application's job.
var (
	// ErrDecodeFailure means the source bytes could not be decoded into a
	// signal (corrupt or unsupported container).
	ErrDecodeFailure = errors.New("audio: decode failure")

	// ErrEmptySignal means the container decoded cleanly but holds no samples.
	ErrEmptySignal = errors.New("audio: empty signal")
)

// Signal is a decoded recording: per-channel float samples in [-1, 1] at a
// known sample rate. All channels have equal length. A Signal is treated as
// read-only once decoded; concurrent consumers (trim vs. timeline build) may
// share it without locking.
type Signal struct {
	SampleRate int
	Channels   [][]float64
}

// Samples returns the per-channel sample count.
func (s *Signal) Samples() int {
	if len(s.Channels) == 0 {
		return 0
	}
	return len(s.Channels[0])
}

// Duration returns the signal length in seconds.
func (s *Signal) Duration() float64 {
	if s.SampleRate <= 0 {
		return 0
	}
	return float64(s.Samples()) / float64(s.SampleRate)
}

// Decode converts recording bytes into a Signal. The content type is a
// MIME-ish hint from the uploader; when it is empty or unrecognised the
// container is sniffed from the leading bytes.
func Decode(data []byte, contentType string) (*Signal, error) {
	switch {
	case isWAVType(contentType, data):
		return decodeWAV(data)
	case isMP3Type(contentType, data):
		return decodeMP3(data)
	default:
		return nil, fmt.Errorf("%w: unsupported content type %q", ErrDecodeFailure, contentType)
	}
}

func isWAVType(contentType string, data []byte) bool {
	ct := strings.ToLower(contentType)
	if ct == "audio/wav" || ct == "audio/x-wav" || ct == "audio/wave" || ct == "audio/vnd.wave" {
		return true
	}
	// Sniff the RIFF/WAVE magic when no usable type was declared
	return len(data) >= 12 && string(data[0:4]) == "RIFF" && string(data[8:12]) == "WAVE"
}

func isMP3Type(contentType string, data []byte) bool {
	ct := strings.ToLower(contentType)
	if ct == "audio/mpeg" || ct == "audio/mp3" {
		return true
	}
	// ID3 tag or MPEG frame sync
	if len(data) >= 3 && string(data[0:3]) == "ID3" {
		return true
	}
	return len(data) >= 2 && data[0] == 0xFF && data[1]&0xE0 == 0xE0
}

// decodeWAV decodes PCM WAV bytes into per-channel float samples.
func decodeWAV(data []byte) (*Signal, error) {
	dec := wav.NewDecoder(bytes.NewReader(data))
	dec.ReadInfo()
	if !dec.IsValidFile() {
		return nil, fmt.Errorf("%w: not a valid WAV file", ErrDecodeFailure)
	}

	buf, err := dec.FullPCMBuffer()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDecodeFailure, err)
	}
	if buf == nil || buf.Format == nil || len(buf.Data) == 0 {
		return nil, ErrEmptySignal
	}

	channels := buf.Format.NumChannels
	if channels < 1 {
		return nil, fmt.Errorf("%w: invalid channel count %d", ErrDecodeFailure, channels)
	}

	bitDepth := int(dec.BitDepth)
	if buf.SourceBitDepth > 0 {
		bitDepth = buf.SourceBitDepth
	}
	if bitDepth <= 0 {
		bitDepth = 16
	}
	scale := float64(int64(1) << (bitDepth - 1))

	frames := len(buf.Data) / channels
	if frames == 0 {
		return nil, ErrEmptySignal
	}

	sig := &Signal{
		SampleRate: buf.Format.SampleRate,
		Channels:   make([][]float64, channels),
	}
	for ch := range sig.Channels {
		sig.Channels[ch] = make([]float64, frames)
	}
	for i := 0; i < frames; i++ {
		for ch := 0; ch < channels; ch++ {
			sig.Channels[ch][i] = float64(buf.Data[i*channels+ch]) / scale
		}
	}
	return sig, nil
}

// decodeMP3 decodes MP3 bytes. go-mp3 always emits 16-bit little-endian
// stereo PCM regardless of the source channel layout.
func decodeMP3(data []byte) (*Signal, error) {
	dec, err := mp3.NewDecoder(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDecodeFailure, err)
	}

	pcm, err := io.ReadAll(dec)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDecodeFailure, err)
	}

	// 2 channels x 2 bytes per sample
	frames := len(pcm) / 4
	if frames == 0 {
		return nil, ErrEmptySignal
	}

	sig := &Signal{
		SampleRate: dec.SampleRate(),
		Channels:   [][]float64{make([]float64, frames), make([]float64, frames)},
	}
	for i := 0; i < frames; i++ {
		l := int16(uint16(pcm[i*4]) | uint16(pcm[i*4+1])<<8)
		r := int16(uint16(pcm[i*4+2]) | uint16(pcm[i*4+3])<<8)
		sig.Channels[0][i] = float64(l) / 32768.0
		sig.Channels[1][i] = float64(r) / 32768.0
	}
	return sig, nil
}
