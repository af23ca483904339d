// Package processor orchestrates the per-recording pipeline: decode, detect
// and splice out dead air, summarize the waveform, rebuild transcript
// timing, and export captions.
package processor

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/quietcut/quietcut/internal/audio"
	"github.com/quietcut/quietcut/internal/captions"
	"github.com/quietcut/quietcut/internal/match"
	"github.com/quietcut/quietcut/internal/timeline"
	"github.com/quietcut/quietcut/internal/transcript"
	"github.com/quietcut/quietcut/internal/trim"
	"github.com/quietcut/quietcut/internal/tuning"
	"github.com/quietcut/quietcut/internal/waveform"
)

// Pipeline stage names reported through the progress callback.
const (
	StageDecoding    = "Decoding"
	StageAnalyzing   = "Analyzing"
	StageTrimming    = "Trimming"
	StageSummarizing = "Summarizing"
	StageAligning    = "Aligning"
	StageExporting   = "Exporting"
)

// Progress receives stage transitions. fraction is 0.0 at stage start and
// 1.0 at stage end; stages run strictly in order.
type Progress func(stage string, fraction float64)

// Options controls one processing run.
type Options struct {
	Settings       tuning.Settings
	TranscriptPath string // provider transcript JSON; empty = skip alignment
	ExportCaptions bool   // write an SRT next to the output
	PeaksSidecar   bool   // write waveform peaks JSON next to the output
	BucketCount    int    // 0 = waveform.DefaultBuckets
	Cache          *waveform.Cache
	AnalyzeOnly    bool // measure and report without writing audio
}

// Result is everything one run produced.
type Result struct {
	RecordingID  uuid.UUID
	InputPath    string
	OutputPath   string // empty when AnalyzeOnly or nothing was written
	CaptionsPath string
	PeaksPath    string

	Analysis *trim.Analysis
	Stats    trim.Stats
	Peaks    []float64
	Timeline *timeline.Timeline

	// Seeks maps each whitespace token of the transcript text to a
	// playback position, aligned against the word timeline.
	Seeks []match.Seek

	// TrimSkipped is set when no removable silence was found; the input is
	// left untouched and OutputPath stays empty.
	TrimSkipped bool
	Elapsed     time.Duration
}

// ProcessRecording runs the full pipeline for one file. The output is always
// written as PCM16 WAV regardless of the input container, named
// <base>-trimmed.wav next to the input.
func ProcessRecording(inputPath string, opts Options, progress Progress) (*Result, error) {
	started := time.Now()
	report := func(stage string, fraction float64) {
		if progress != nil {
			progress(stage, fraction)
		}
	}

	result := &Result{
		RecordingID: uuid.New(),
		InputPath:   inputPath,
	}

	report(StageDecoding, 0.0)
	data, err := os.ReadFile(inputPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read input: %w", err)
	}
	sig, err := audio.Decode(data, contentTypeForPath(inputPath))
	if err != nil {
		return nil, err
	}
	report(StageDecoding, 1.0)

	report(StageAnalyzing, 0.0)
	trimmed, analysis, stats, err := trim.Trim(sig, opts.Settings.Trim)
	switch {
	case errors.Is(err, trim.ErrNoRemovableSilence):
		result.TrimSkipped = true
		trimmed = sig
	case err != nil:
		return nil, err
	}
	result.Analysis = analysis
	result.Stats = stats
	report(StageAnalyzing, 1.0)

	if !opts.AnalyzeOnly && !result.TrimSkipped {
		report(StageTrimming, 0.0)
		outputPath := trimmedPath(inputPath)
		if err := writeWAV(outputPath, trimmed); err != nil {
			return nil, err
		}
		result.OutputPath = outputPath
		report(StageTrimming, 1.0)
	}

	report(StageSummarizing, 0.0)
	buckets := opts.BucketCount
	if buckets <= 0 {
		buckets = waveform.DefaultBuckets
	}
	result.Peaks = waveform.Peaks(trimmed, buckets)
	if opts.Cache != nil {
		opts.Cache.Put(result.RecordingID.String(), result.Peaks, trimmed.Duration())
	}
	if opts.PeaksSidecar && !opts.AnalyzeOnly {
		path, err := writePeaksSidecar(inputPath, result.Peaks, trimmed.Duration())
		if err != nil {
			return nil, err
		}
		result.PeaksPath = path
	}
	report(StageSummarizing, 1.0)

	if opts.TranscriptPath != "" {
		report(StageAligning, 0.0)
		// Provider timestamps reference the original clip, so alignment
		// reads the untrimmed signal; result.Peaks stays the trimmed
		// output's summary.
		alignPeaks := waveform.Peaks(sig, buckets)
		tl, tr, err := alignTranscript(opts.TranscriptPath, alignPeaks, sig.Duration(), opts.Settings.Timeline)
		if err != nil {
			return nil, err
		}
		result.Timeline = tl
		result.Seeks = buildSeeks(tr.Text, tl, opts.Settings.Match)
		report(StageAligning, 1.0)

		if opts.ExportCaptions && !opts.AnalyzeOnly {
			report(StageExporting, 0.0)
			path, err := exportCaptions(inputPath, tl, sig.Duration())
			if err != nil {
				return nil, err
			}
			result.CaptionsPath = path
			report(StageExporting, 1.0)
		}
	}

	result.Elapsed = time.Since(started)
	return result, nil
}

// contentTypeForPath guesses a MIME type from the file extension; Decode
// falls back to content sniffing when the extension lies.
func contentTypeForPath(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".mp3":
		return "audio/mpeg"
	case ".wav":
		return "audio/wav"
	default:
		return ""
	}
}

// trimmedPath is <base>-trimmed.wav next to the input.
func trimmedPath(inputPath string) string {
	base := strings.TrimSuffix(inputPath, filepath.Ext(inputPath))
	return base + "-trimmed.wav"
}

func writeWAV(path string, sig *audio.Signal) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create output: %w", err)
	}
	if err := audio.EncodeWAV(f, sig); err != nil {
		f.Close()
		os.Remove(path)
		return err
	}
	return f.Close()
}

// peaksSidecar is the JSON shape of the waveform sidecar file.
type peaksSidecar struct {
	Peaks    []float64 `json:"peaks"`
	Duration float64   `json:"duration"`
}

func writePeaksSidecar(inputPath string, peaks []float64, duration float64) (string, error) {
	base := strings.TrimSuffix(inputPath, filepath.Ext(inputPath))
	path := base + "-peaks.json"

	data, err := json.Marshal(peaksSidecar{Peaks: peaks, Duration: duration})
	if err != nil {
		return "", fmt.Errorf("failed to encode peaks sidecar: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("failed to write peaks sidecar: %w", err)
	}
	return path, nil
}

func alignTranscript(path string, peaks []float64, duration float64, cfg timeline.Config) (*timeline.Timeline, *transcript.Transcript, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read transcript: %w", err)
	}
	tr, err := transcript.Parse(data)
	if err != nil {
		return nil, nil, err
	}
	tl := timeline.Build(timeline.Recording{
		Transcript: tr,
		Peaks:      peaks,
		Duration:   duration,
	}, cfg)
	return tl, tr, nil
}

// buildSeeks aligns every display token of the transcript text to the word
// timeline so the application can seek playback from tapped words. Each
// token carries the bounds of its sentence so the matcher can reject a
// same-text word from elsewhere in the clip. Pause anchors hold no display
// tokens and are skipped so estimates stay in step with the text.
func buildSeeks(text string, tl *timeline.Timeline, cfg match.Config) []match.Seek {
	fields := strings.Fields(text)
	if len(fields) == 0 {
		return nil
	}

	var estimates []transcript.Word
	var windows []match.Span
	for _, s := range tl.Sentences {
		if s.Text == timeline.PauseText {
			continue
		}
		for _, w := range timeline.SentenceWords([]timeline.Sentence{s}) {
			estimates = append(estimates, w)
			windows = append(windows, match.Span{Start: s.Start, End: s.End})
		}
	}

	tokens := make([]match.Token, len(fields))
	for i, f := range fields {
		tokens[i] = match.Token{Text: f}
		if i < len(estimates) {
			tokens[i].Expected = *estimates[i].Start
			tokens[i].Window = &windows[i]
		}
	}
	return match.Align(tokens, tl.Words, estimates, cfg)
}

// exportCaptions writes the sentence timeline as an SRT next to the input.
// Pause anchors are timing scaffolding, not captions, and are skipped.
func exportCaptions(inputPath string, tl *timeline.Timeline, duration float64) (string, error) {
	var anchors []captions.Anchor
	for _, s := range tl.Sentences {
		if s.Text == timeline.PauseText {
			continue
		}
		anchors = append(anchors, captions.Anchor{Text: s.Text, At: s.Start})
	}
	if len(anchors) == 0 {
		return "", nil
	}

	base := strings.TrimSuffix(filepath.Base(inputPath), filepath.Ext(inputPath))
	path := filepath.Join(filepath.Dir(inputPath), captions.Filename(base))

	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("failed to create captions file: %w", err)
	}
	if err := captions.EncodeSRT(anchors, duration, f); err != nil {
		f.Close()
		os.Remove(path)
		return "", err
	}
	return path, f.Close()
}
