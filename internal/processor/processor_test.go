package processor

import (
	"encoding/json"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/quietcut/quietcut/internal/audio"
	"github.com/quietcut/quietcut/internal/match"
	"github.com/quietcut/quietcut/internal/timeline"
	"github.com/quietcut/quietcut/internal/transcript"
	"github.com/quietcut/quietcut/internal/tuning"
	"github.com/quietcut/quietcut/internal/waveform"
)

// writeSpeechWAV writes a synthetic voice-memo-like recording: a sine
// carrier with short breathing gaps, plus one long removable gap in the
// middle.
func writeSpeechWAV(t *testing.T, dir string, longGap float64) (string, float64) {
	t.Helper()

	const rate = 16000
	const amplitude = 0.5
	type span struct {
		seconds float64
		silent  bool
	}
	spans := []span{
		{1.0, false},
		{0.5, true},
		{1.0, false},
		{0.5, true},
		{1.0, false},
		{longGap, true},
		{1.0, false},
		{0.5, true},
		{1.0, false},
	}

	var samples []float64
	total := 0.0
	for _, s := range spans {
		n := int(s.seconds * rate)
		for i := 0; i < n; i++ {
			if s.silent {
				samples = append(samples, 0)
			} else {
				samples = append(samples, amplitude*math.Sin(2*math.Pi*220*float64(i)/rate))
			}
		}
		total += s.seconds
	}

	sig := &audio.Signal{SampleRate: rate, Channels: [][]float64{samples}}
	data, err := audio.EncodeBytes(sig)
	if err != nil {
		t.Fatalf("failed to encode fixture: %v", err)
	}

	path := filepath.Join(dir, "memo.wav")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("failed to write fixture: %v", err)
	}
	return path, total
}

func writeTranscriptJSON(t *testing.T, dir string) string {
	t.Helper()
	doc := `{
		"text": "Hello world. This is a test.",
		"segments": [
			{"text": "Hello world.", "start": 0.0, "end": 2.0},
			{"text": "This is a test.", "start": 4.0, "end": 7.0}
		],
		"duration": 7.6
	}`
	path := filepath.Join(dir, "memo-transcript.json")
	if err := os.WriteFile(path, []byte(doc), 0o644); err != nil {
		t.Fatalf("failed to write transcript: %v", err)
	}
	return path
}

func TestProcessRecordingFullPipeline(t *testing.T) {
	dir := t.TempDir()
	inputPath, total := writeSpeechWAV(t, dir, 3.0)
	transcriptPath := writeTranscriptJSON(t, dir)

	cache := waveform.NewCache()
	var stages []string
	result, err := ProcessRecording(inputPath, Options{
		Settings:       tuning.Defaults(),
		TranscriptPath: transcriptPath,
		ExportCaptions: true,
		PeaksSidecar:   true,
		Cache:          cache,
	}, func(stage string, fraction float64) {
		if fraction == 0.0 {
			stages = append(stages, stage)
		}
	})
	if err != nil {
		t.Fatalf("ProcessRecording failed: %v", err)
	}

	if result.TrimSkipped {
		t.Fatal("expected the long gap to be trimmed")
	}
	if result.OutputPath != filepath.Join(dir, "memo-trimmed.wav") {
		t.Errorf("OutputPath = %q", result.OutputPath)
	}
	if math.Abs(result.Stats.RemovedSeconds-3.0) > 0.2 {
		t.Errorf("RemovedSeconds = %v, want ~3.0", result.Stats.RemovedSeconds)
	}
	if math.Abs(result.Stats.OriginalSeconds-total) > 0.01 {
		t.Errorf("OriginalSeconds = %v, want %v", result.Stats.OriginalSeconds, total)
	}

	// The output must decode as PCM16 WAV at the trimmed length.
	data, err := os.ReadFile(result.OutputPath)
	if err != nil {
		t.Fatalf("failed to read output: %v", err)
	}
	out, err := audio.Decode(data, "audio/wav")
	if err != nil {
		t.Fatalf("output did not decode: %v", err)
	}
	if math.Abs(out.Duration()-result.Stats.ProcessedSeconds) > 0.01 {
		t.Errorf("output duration %v, stats say %v", out.Duration(), result.Stats.ProcessedSeconds)
	}

	if len(result.Peaks) != waveform.DefaultBuckets {
		t.Errorf("got %d peaks, want %d", len(result.Peaks), waveform.DefaultBuckets)
	}
	if cache.Len() != 1 {
		t.Errorf("cache has %d entries, want 1", cache.Len())
	}

	var sidecar struct {
		Peaks    []float64 `json:"peaks"`
		Duration float64   `json:"duration"`
	}
	raw, err := os.ReadFile(result.PeaksPath)
	if err != nil {
		t.Fatalf("failed to read peaks sidecar: %v", err)
	}
	if err := json.Unmarshal(raw, &sidecar); err != nil {
		t.Fatalf("sidecar is not valid JSON: %v", err)
	}
	if len(sidecar.Peaks) != len(result.Peaks) {
		t.Errorf("sidecar has %d peaks, want %d", len(sidecar.Peaks), len(result.Peaks))
	}

	if result.Timeline == nil || result.Timeline.Source != "segments" {
		t.Fatalf("timeline = %+v, want segment-sourced", result.Timeline)
	}
	if len(result.Seeks) != 6 {
		t.Fatalf("got %d token seeks, want 6: %+v", len(result.Seeks), result.Seeks)
	}
	prevStart := -1.0
	for i, seek := range result.Seeks {
		if !seek.OK {
			t.Errorf("token %d unseekable", i)
		}
		if seek.Start < prevStart {
			t.Errorf("token %d start %v before previous %v", i, seek.Start, prevStart)
		}
		prevStart = seek.Start
	}

	if result.CaptionsPath == "" {
		t.Fatal("expected a captions export")
	}
	srt, err := os.ReadFile(result.CaptionsPath)
	if err != nil {
		t.Fatalf("failed to read captions: %v", err)
	}
	if len(srt) == 0 {
		t.Error("captions file is empty")
	}
	// Cue times reference the original clip, not the trimmed output: the
	// last cue starts at 4.0s and runs its full 2s tail, which would have
	// been clamped against the ~4.6s trimmed duration.
	if !strings.Contains(string(srt), "00:00:06,000") {
		t.Errorf("captions:\n%s\nwant last cue running to 00:00:06,000", srt)
	}

	if len(stages) == 0 || stages[0] != StageDecoding {
		t.Errorf("stages = %v, want decode first", stages)
	}
}

func TestProcessRecordingNothingToTrim(t *testing.T) {
	dir := t.TempDir()
	// Longest gap 0.5s, below the 1.5s default minimum.
	inputPath, _ := writeSpeechWAV(t, dir, 0.5)

	result, err := ProcessRecording(inputPath, Options{Settings: tuning.Defaults()}, nil)
	if err != nil {
		t.Fatalf("ProcessRecording failed: %v", err)
	}
	if !result.TrimSkipped {
		t.Fatal("expected TrimSkipped")
	}
	if result.OutputPath != "" {
		t.Errorf("no output should be written, got %q", result.OutputPath)
	}
	if result.Analysis == nil {
		t.Error("analysis should still be reported")
	}
	if len(result.Peaks) == 0 {
		t.Error("peaks should still be summarized")
	}
}

func TestProcessRecordingAnalyzeOnly(t *testing.T) {
	dir := t.TempDir()
	inputPath, _ := writeSpeechWAV(t, dir, 3.0)

	result, err := ProcessRecording(inputPath, Options{
		Settings:    tuning.Defaults(),
		AnalyzeOnly: true,
	}, nil)
	if err != nil {
		t.Fatalf("ProcessRecording failed: %v", err)
	}
	if result.OutputPath != "" {
		t.Errorf("analyze-only must not write audio, got %q", result.OutputPath)
	}
	if result.Analysis == nil || len(result.Analysis.Runs) == 0 {
		t.Error("expected detected silence runs in analysis")
	}
	if _, err := os.Stat(filepath.Join(dir, "memo-trimmed.wav")); !os.IsNotExist(err) {
		t.Error("analyze-only wrote an output file")
	}
}

func TestBuildSeeksRejectsOutOfWindowMatches(t *testing.T) {
	// The only timed "hello" sits at 30s, far outside its sentence's 0-1s
	// span. The matcher must refuse it and fall back to the sentence
	// estimate instead of seeking half a minute away.
	wordStart, wordEnd := 30.0, 30.4
	tl := &timeline.Timeline{
		Sentences: []timeline.Sentence{
			{Text: "hello there.", Start: 0, End: 1.0},
		},
		Words: []transcript.Word{
			{Word: "hello", Start: &wordStart, End: &wordEnd},
		},
	}

	seeks := buildSeeks("hello there.", tl, match.DefaultConfig())
	if len(seeks) != 2 {
		t.Fatalf("got %d seeks, want 2", len(seeks))
	}
	if !seeks[0].OK {
		t.Fatal("first token should fall back to its sentence estimate")
	}
	if seeks[0].Start >= 1.0 {
		t.Errorf("seek start = %v, want inside the 0-1s sentence", seeks[0].Start)
	}
}

func TestProcessRecordingMissingInput(t *testing.T) {
	_, err := ProcessRecording(filepath.Join(t.TempDir(), "absent.wav"), Options{
		Settings: tuning.Defaults(),
	}, nil)
	if err == nil {
		t.Fatal("expected error for missing input")
	}
}
