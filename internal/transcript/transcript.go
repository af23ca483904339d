// Package transcript defines the transcription-provider input shapes:
// transcript text plus whatever timing metadata the provider managed to
// attach. Providers disagree on field names and on units, so parsing is
// deliberately tolerant; unit correction happens downstream.
package transcript

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/quietcut/quietcut/internal/captions"
)

// Segment is a provider transcript segment with start/end in the provider's
// own (possibly millisecond) units.
type Segment struct {
	Text  string
	Start float64
	End   float64
}

// Valid reports whether the segment carries usable timing.
func (s Segment) Valid() bool {
	return strings.TrimSpace(s.Text) != "" && s.End > s.Start
}

// Word is a provider word timing. Start/End are nil when the provider did
// not report them.
type Word struct {
	Word  string
	Start *float64
	End   *float64
}

// Transcript is everything the provider delivered for one recording.
type Transcript struct {
	Text         string
	Segments     []Segment
	AltSegments  []Segment
	Words        []Word
	Captions     []captions.Anchor
	DurationHint float64 // seconds; 0 = unknown
}

// rawSegment accepts both start/end and startTime/endTime spellings.
type rawSegment struct {
	Text      string   `json:"text"`
	Start     *float64 `json:"start"`
	End       *float64 `json:"end"`
	StartTime *float64 `json:"startTime"`
	EndTime   *float64 `json:"endTime"`
}

func (r rawSegment) segment() Segment {
	s := Segment{Text: r.Text}
	if r.Start != nil {
		s.Start = *r.Start
	} else if r.StartTime != nil {
		s.Start = *r.StartTime
	}
	if r.End != nil {
		s.End = *r.End
	} else if r.EndTime != nil {
		s.End = *r.EndTime
	}
	return s
}

// rawWord accepts word/text and start/startTime spellings, keeping absent
// timings as nil.
type rawWord struct {
	Word      string   `json:"word"`
	Text      string   `json:"text"`
	Start     *float64 `json:"start"`
	End       *float64 `json:"end"`
	StartTime *float64 `json:"startTime"`
	EndTime   *float64 `json:"endTime"`
}

func (r rawWord) word() Word {
	w := Word{Word: r.Word}
	if w.Word == "" {
		w.Word = r.Text
	}
	w.Start = firstOf(r.Start, r.StartTime)
	w.End = firstOf(r.End, r.EndTime)
	return w
}

func firstOf(vals ...*float64) *float64 {
	for _, v := range vals {
		if v != nil {
			return v
		}
	}
	return nil
}

type rawTranscript struct {
	Text       string            `json:"text"`
	Segments   []rawSegment      `json:"segments"`
	Utterances []rawSegment      `json:"utterances"`
	Words      []rawWord         `json:"words"`
	Captions   []captions.Anchor `json:"captions"`
	Duration   float64           `json:"duration"`
}

// Parse decodes a provider transcript document. Every timing group is
// optional; only the document itself has to be valid JSON.
func Parse(data []byte) (*Transcript, error) {
	var raw rawTranscript
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("failed to parse transcript: %w", err)
	}

	tr := &Transcript{
		Text:         raw.Text,
		Captions:     captions.Normalize(raw.Captions),
		DurationHint: raw.Duration,
	}
	for _, s := range raw.Segments {
		tr.Segments = append(tr.Segments, s.segment())
	}
	for _, s := range raw.Utterances {
		tr.AltSegments = append(tr.AltSegments, s.segment())
	}
	for _, w := range raw.Words {
		tr.Words = append(tr.Words, w.word())
	}
	return tr, nil
}

// MaxTimestamp returns the largest timestamp observed across segments and
// word timings, used for unit-scale detection.
func (t *Transcript) MaxTimestamp() float64 {
	max := 0.0
	for _, s := range append(append([]Segment(nil), t.Segments...), t.AltSegments...) {
		if s.Start > max {
			max = s.Start
		}
		if s.End > max {
			max = s.End
		}
	}
	for _, w := range t.Words {
		if w.Start != nil && *w.Start > max {
			max = *w.Start
		}
		if w.End != nil && *w.End > max {
			max = *w.End
		}
	}
	return max
}

// Rescale multiplies every segment and word timestamp by factor, in place.
// Caption anchors are already stored in seconds and are not touched.
func (t *Transcript) Rescale(factor float64) {
	if factor == 1.0 {
		return
	}
	for i := range t.Segments {
		t.Segments[i].Start *= factor
		t.Segments[i].End *= factor
	}
	for i := range t.AltSegments {
		t.AltSegments[i].Start *= factor
		t.AltSegments[i].End *= factor
	}
	for i := range t.Words {
		if t.Words[i].Start != nil {
			v := *t.Words[i].Start * factor
			t.Words[i].Start = &v
		}
		if t.Words[i].End != nil {
			v := *t.Words[i].End * factor
			t.Words[i].End = &v
		}
	}
}
