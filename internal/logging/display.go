// Console display for analyze-only mode.

package logging

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/quietcut/quietcut/internal/processor"
)

// DisplayAnalysisResults prints the silence analysis to the console without
// writing any files. Used by analyze-only mode for a quick look at what a
// trim would do.
func DisplayAnalysisResults(w io.Writer, result *processor.Result) {
	fmt.Fprintln(w, strings.Repeat("=", 70))
	fmt.Fprintf(w, "ANALYSIS: %s\n", filepath.Base(result.InputPath))
	fmt.Fprintln(w, strings.Repeat("=", 70))

	a := result.Analysis
	if a == nil {
		fmt.Fprintln(w, "No analysis available.")
		return
	}

	fmt.Fprintf(w, "Duration:    %.2f s\n", result.Stats.OriginalSeconds)
	fmt.Fprintf(w, "Sample Rate: %d Hz\n", a.SampleRate)
	fmt.Fprintln(w)

	fmt.Fprintln(w, "SILENCE DETECTION")
	fmt.Fprintf(w, "  Noise floor: %.5f (%s)\n", a.NoiseFloor, interpretNoiseFloor(a.NoiseFloor))
	fmt.Fprintf(w, "  Threshold:   %.5f\n", a.Threshold)

	if result.TrimSkipped || len(a.Runs) == 0 {
		fmt.Fprintln(w, "  Nothing to trim at the current minimum silence length.")
		return
	}

	fmt.Fprintf(w, "  Removable runs: %d (%.2f s total)\n", len(a.Runs), result.Stats.RemovedSeconds)
	for i, run := range a.Runs {
		start := float64(run.Start) / float64(a.SampleRate)
		fmt.Fprintf(w, "    %2d. %8.2fs  +%.2fs\n", i+1, start, run.Seconds(a.SampleRate))
	}
	fmt.Fprintf(w, "  Would keep %.2f s of %.2f s\n",
		result.Stats.ProcessedSeconds, result.Stats.OriginalSeconds)
}
