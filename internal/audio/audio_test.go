package audio

import (
	"errors"
	"math"
	"testing"
)

// makeToneSignal generates a mono sine tone for round-trip tests.
func makeToneSignal(t *testing.T, sampleRate int, seconds, freq, amp float64) *Signal {
	t.Helper()
	n := int(seconds * float64(sampleRate))
	samples := make([]float64, n)
	for i := range samples {
		samples[i] = amp * math.Sin(2.0*math.Pi*freq*float64(i)/float64(sampleRate))
	}
	return &Signal{SampleRate: sampleRate, Channels: [][]float64{samples}}
}

func TestEncodeDecodeRoundTrip(t *testing.T) {
	sig := makeToneSignal(t, 16000, 0.5, 440.0, 0.5)

	data, err := EncodeBytes(sig)
	if err != nil {
		t.Fatalf("EncodeBytes failed: %v", err)
	}
	if len(data) < 44 {
		t.Fatalf("encoded WAV too small: %d bytes", len(data))
	}

	decoded, err := Decode(data, "audio/wav")
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}

	if decoded.SampleRate != sig.SampleRate {
		t.Errorf("sample rate = %d, want %d", decoded.SampleRate, sig.SampleRate)
	}
	if len(decoded.Channels) != 1 {
		t.Fatalf("channel count = %d, want 1", len(decoded.Channels))
	}
	if decoded.Samples() != sig.Samples() {
		t.Errorf("sample count = %d, want %d", decoded.Samples(), sig.Samples())
	}

	// 16-bit quantization noise is below 1/32767; allow a little slack
	maxErr := 0.0
	for i, want := range sig.Channels[0] {
		diff := math.Abs(decoded.Channels[0][i] - want)
		if diff > maxErr {
			maxErr = diff
		}
	}
	if maxErr > 0.001 {
		t.Errorf("round-trip error too large: %v", maxErr)
	}
}

func TestEncodeStereoPreservesChannels(t *testing.T) {
	left := makeToneSignal(t, 8000, 0.1, 440.0, 0.4).Channels[0]
	right := makeToneSignal(t, 8000, 0.1, 880.0, 0.2).Channels[0]
	sig := &Signal{SampleRate: 8000, Channels: [][]float64{left, right}}

	data, err := EncodeBytes(sig)
	if err != nil {
		t.Fatalf("EncodeBytes failed: %v", err)
	}

	decoded, err := Decode(data, "")
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}
	if len(decoded.Channels) != 2 {
		t.Fatalf("channel count = %d, want 2", len(decoded.Channels))
	}
	if math.Abs(decoded.Channels[0][40]-left[40]) > 0.001 {
		t.Errorf("left channel diverged at sample 40")
	}
	if math.Abs(decoded.Channels[1][40]-right[40]) > 0.001 {
		t.Errorf("right channel diverged at sample 40")
	}
}

func TestDecodeErrors(t *testing.T) {
	tests := []struct {
		name        string
		data        []byte
		contentType string
		wantErr     error
	}{
		{
			name:        "unsupported type",
			data:        []byte("not audio at all"),
			contentType: "application/pdf",
			wantErr:     ErrDecodeFailure,
		},
		{
			name:        "corrupt wav",
			data:        []byte("RIFFxxxxWAVEgarbage-not-a-chunk"),
			contentType: "audio/wav",
			wantErr:     ErrDecodeFailure,
		},
		{
			name:        "empty input",
			data:        nil,
			contentType: "audio/wav",
			wantErr:     ErrDecodeFailure,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Decode(tt.data, tt.contentType)
			if err == nil {
				t.Fatal("expected error, got nil")
			}
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestEncodeEmptySignal(t *testing.T) {
	if _, err := EncodeBytes(&Signal{SampleRate: 44100}); !errors.Is(err, ErrEmptySignal) {
		t.Errorf("error = %v, want ErrEmptySignal", err)
	}
}

func TestQuantize16(t *testing.T) {
	tests := []struct {
		name string
		in   float64
		want int
	}{
		{"zero", 0.0, 0},
		{"full scale positive clamps", 1.5, 32767},
		{"full scale negative clamps", -1.5, -32768},
		{"unity", 1.0, 32767},
		{"half", 0.5, 16384}, // round(16383.5) away from zero
		{"negative half", -0.5, -16384},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := quantize16(tt.in); got != tt.want {
				t.Errorf("quantize16(%v) = %d, want %d", tt.in, got, tt.want)
			}
		})
	}
}

func TestSignalDuration(t *testing.T) {
	sig := makeToneSignal(t, 16000, 2.0, 100.0, 0.1)
	if d := sig.Duration(); math.Abs(d-2.0) > 1e-9 {
		t.Errorf("Duration = %v, want 2.0", d)
	}
	empty := &Signal{}
	if d := empty.Duration(); d != 0 {
		t.Errorf("empty Duration = %v, want 0", d)
	}
}
