package captions

import (
	"fmt"
	"io"
	"math"
	"strings"
)

// lastCueSeconds extends the final anchor when no following anchor bounds it.
const lastCueSeconds = 2.0

// EncodeSRT writes the anchors as a SubRip track: one cue per anchor,
// numbered from 1, start at the anchor time and end at the next anchor's
// time (the last cue runs min(durationHint, at+2) seconds, ignoring a
// duration hint of zero). Cues with empty text are skipped, and a cue whose
// end would not exceed its start is never emitted with that end.
func EncodeSRT(anchors []Anchor, durationHint float64, w io.Writer) error {
	anchors = Normalize(anchors)

	cue := 0
	for i, a := range anchors {
		end := a.At + lastCueSeconds
		if i+1 < len(anchors) {
			end = anchors[i+1].At
		} else if durationHint > 0 && durationHint < end {
			end = durationHint
		}
		if end <= a.At {
			end = a.At + lastCueSeconds
		}

		cue++
		if _, err := fmt.Fprintf(w, "%d\n%s --> %s\n%s\n\n",
			cue, formatTimestamp(a.At), formatTimestamp(end), strings.TrimSpace(a.Text)); err != nil {
			return fmt.Errorf("failed to write cue %d: %w", cue, err)
		}
	}
	return nil
}

// formatTimestamp renders seconds as the SubRip HH:MM:SS,mmm form.
func formatTimestamp(seconds float64) string {
	if seconds < 0 {
		seconds = 0
	}
	millis := int(math.Round(seconds * 1000.0))
	h := millis / 3600000
	millis -= h * 3600000
	m := millis / 60000
	millis -= m * 60000
	s := millis / 1000
	ms := millis % 1000
	return fmt.Sprintf("%02d:%02d:%02d,%03d", h, m, s, ms)
}
