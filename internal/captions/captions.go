// Package captions models the persisted caption anchors for a recording and
// their export as a subtitle track. Anchors are the source of truth; the
// subtitle format is export-only.
package captions

import (
	"sort"
	"strings"
)

// MaxAnchors caps the persisted anchor list per recording.
const MaxAnchors = 500

// Anchor marks where a piece of transcript text begins: text plus a start
// offset in seconds.
type Anchor struct {
	Text string  `json:"text"`
	At   float64 `json:"at"`
}

// Normalize returns the anchor list ordered by time, with empty-text and
// negative-time entries dropped, exact duplicates removed, and the result
// capped at MaxAnchors. The input slice is not modified.
func Normalize(anchors []Anchor) []Anchor {
	out := make([]Anchor, 0, len(anchors))
	for _, a := range anchors {
		if strings.TrimSpace(a.Text) == "" || a.At < 0 {
			continue
		}
		out = append(out, a)
	}

	sort.SliceStable(out, func(i, j int) bool { return out[i].At < out[j].At })

	deduped := out[:0]
	for i, a := range out {
		if i > 0 && a.At == out[i-1].At && a.Text == deduped[len(deduped)-1].Text {
			continue
		}
		deduped = append(deduped, a)
	}

	if len(deduped) > MaxAnchors {
		deduped = deduped[:MaxAnchors]
	}
	return deduped
}

// Filename returns the export filename convention for a recording title.
func Filename(title string) string {
	title = strings.TrimSpace(title)
	if title == "" {
		title = "recording"
	}
	return title + "-captions.srt"
}
