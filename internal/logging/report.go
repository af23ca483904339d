// Package logging generates the human-readable trim reports and console
// analysis output.
package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/quietcut/quietcut/internal/processor"
)

// ReportData bundles everything the report writer needs for one recording.
type ReportData struct {
	InputPath string
	StartTime time.Time
	EndTime   time.Time
	Result    *processor.Result
}

// interpretNoiseFloor describes the recording environment from the measured
// 20th-percentile frame energy. Mean-absolute amplitude, not dB: 1.0 is
// full scale.
func interpretNoiseFloor(level float64) string {
	switch {
	case level < 0.001:
		return "studio quiet"
	case level < 0.005:
		return "quiet room"
	case level < 0.02:
		return "typical room tone"
	case level < 0.06:
		return "noticeable background noise"
	default:
		return "noisy environment"
	}
}

// interpretRemovalRatio describes how much dead air the recording carried.
func interpretRemovalRatio(ratio float64) string {
	switch {
	case ratio <= 0:
		return "no removable silence"
	case ratio < 0.1:
		return "tight delivery, little dead air"
	case ratio < 0.3:
		return "normal pausing"
	case ratio < 0.5:
		return "long pauses throughout"
	default:
		return "mostly silence"
	}
}

// GenerateReport writes a trim report next to the input, named
// <base>-trim-report.txt.
func GenerateReport(data ReportData) error {
	base := strings.TrimSuffix(data.InputPath, filepath.Ext(data.InputPath))
	path := base + "-trim-report.txt"

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create report file: %w", err)
	}
	defer f.Close()

	writeReportHeader(f, data)
	writeSilenceSection(f, data.Result)
	writeTrimSection(f, data.Result)
	writeAlignmentSection(f, data.Result)
	writeTipsSection(f, data.Result)
	return nil
}

func writeSection(w io.Writer, title string) {
	fmt.Fprintln(w)
	fmt.Fprintln(w, title)
	fmt.Fprintln(w, strings.Repeat("-", len(title)))
}

func writeReportHeader(w io.Writer, data ReportData) {
	fmt.Fprintln(w, strings.Repeat("=", 70))
	fmt.Fprintf(w, "TRIM REPORT: %s\n", filepath.Base(data.InputPath))
	fmt.Fprintln(w, strings.Repeat("=", 70))
	fmt.Fprintf(w, "Recording ID: %s\n", data.Result.RecordingID)
	fmt.Fprintf(w, "Generated:    %s\n", data.EndTime.Format(time.RFC3339))
	fmt.Fprintf(w, "Elapsed:      %s\n", data.EndTime.Sub(data.StartTime).Round(time.Millisecond))
}

func writeSilenceSection(w io.Writer, result *processor.Result) {
	a := result.Analysis
	if a == nil {
		return
	}

	writeSection(w, "SILENCE DETECTION")
	table := &MetricTable{Rows: []MetricRow{
		{Label: "Frames analyzed", Values: []string{fmt.Sprintf("%d", a.FrameCount)}},
		{Label: "Noise floor", Values: []string{fmt.Sprintf("%.5f", a.NoiseFloor)}, Unit: "(" + interpretNoiseFloor(a.NoiseFloor) + ")"},
		{Label: "Peak energy", Values: []string{fmt.Sprintf("%.5f", a.PeakEnergy)}},
		{Label: "Threshold", Values: []string{fmt.Sprintf("%.5f", a.Threshold)}},
		{Label: "Runs found", Values: []string{fmt.Sprintf("%d", len(a.Runs))}},
	}}
	fmt.Fprint(w, table.String())

	for i, run := range a.Runs {
		fmt.Fprintf(w, "  run %d: %.2fs wide at sample %d\n", i+1, run.Seconds(a.SampleRate), run.Start)
	}
}

func writeTrimSection(w io.Writer, result *processor.Result) {
	writeSection(w, "TRIM RESULT")

	if result.TrimSkipped {
		fmt.Fprintln(w, "No removable silence found; input left untouched.")
		return
	}

	s := result.Stats
	ratio := 0.0
	if s.OriginalSeconds > 0 {
		ratio = s.RemovedSeconds / s.OriginalSeconds
	}
	table := &MetricTable{Rows: []MetricRow{
		{Label: "Original", Values: []string{fmt.Sprintf("%.2f", s.OriginalSeconds)}, Unit: "s"},
		{Label: "Removed", Values: []string{fmt.Sprintf("%.2f", s.RemovedSeconds)}, Unit: "s (" + interpretRemovalRatio(ratio) + ")"},
		{Label: "Output", Values: []string{fmt.Sprintf("%.2f", s.ProcessedSeconds)}, Unit: "s"},
	}}
	fmt.Fprint(w, table.String())
	if result.OutputPath != "" {
		fmt.Fprintf(w, "Written to: %s\n", result.OutputPath)
	}
}

func writeAlignmentSection(w io.Writer, result *processor.Result) {
	tl := result.Timeline
	if tl == nil {
		return
	}

	writeSection(w, "TRANSCRIPT ALIGNMENT")
	table := &MetricTable{Rows: []MetricRow{
		{Label: "Timing source", Values: []string{tl.Source}},
		{Label: "Unit scale", Values: []string{fmt.Sprintf("%g", tl.Scale)}},
		{Label: "Sentence anchors", Values: []string{fmt.Sprintf("%d", len(tl.Sentences))}},
		{Label: "Word timings", Values: []string{fmt.Sprintf("%d", len(tl.Words))}},
	}}
	fmt.Fprint(w, table.String())
	if result.CaptionsPath != "" {
		fmt.Fprintf(w, "Captions:   %s\n", result.CaptionsPath)
	}
}

func writeTipsSection(w io.Writer, result *processor.Result) {
	tips := GenerateRecordingTips(result)
	if len(tips) == 0 {
		return
	}

	writeSection(w, "RECORDING TIPS")
	for _, tip := range tips {
		fmt.Fprintf(w, "  - %s\n", tip.Message)
	}
}
