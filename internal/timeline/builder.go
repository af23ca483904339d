package timeline

import (
	"strings"

	"github.com/quietcut/quietcut/internal/captions"
	"github.com/quietcut/quietcut/internal/transcript"
)

// PauseText is the synthetic anchor text inserted into long silences so word
// timelines do not compress across them.
const PauseText = "[pause]"

// Sentence is a timed sentence anchor, end > start.
type Sentence struct {
	Text  string
	Start float64
	End   float64
}

// Recording is everything the builder needs about one clip. Peaks may be nil
// and Duration may be zero; the builder degrades accordingly.
type Recording struct {
	Transcript *transcript.Transcript
	Peaks      []float64
	Duration   float64 // seconds; 0 = unknown
}

// Timeline is the reconstructed timing for one recording.
type Timeline struct {
	Sentences []Sentence
	Words     []transcript.Word
	Source    string  // which sentence strategy won
	Scale     float64 // unit correction applied to provider timings
}

// DetectScale decides the multiplicative correction for provider timestamps.
// Providers occasionally report milliseconds where seconds are expected; a
// maximum timestamp wildly beyond the clip duration (or implausibly large
// when no duration is known) implies milliseconds.
func DetectScale(maxTimestamp, durationHint float64, cfg Config) float64 {
	if maxTimestamp <= 0 {
		return 1.0
	}
	if durationHint > 0 {
		if maxTimestamp > durationHint*cfg.ScaleRatioLimit {
			return 0.001
		}
		return 1.0
	}
	if maxTimestamp > cfg.ScaleAbsoluteLimit {
		return 0.001
	}
	return 1.0
}

// sentenceProvider is one strategy for producing sentence anchors. Providers
// are tried in order; the first non-empty result wins.
type sentenceProvider struct {
	name  string
	build func(rec Recording, duration float64, cfg Config) []Sentence
}

func sentenceProviders() []sentenceProvider {
	return []sentenceProvider{
		{"segments", fromNativeSegments},
		{"utterances", fromAltSegments},
		{"captions", fromCaptionAnchors},
		{"heuristic", fromTextHeuristic},
	}
}

// Build reconstructs the sentence and word timelines for a recording. The
// transcript's provider timings are rescaled in place when unit-scale
// detection fires; every other input is read-only.
func Build(rec Recording, cfg Config) *Timeline {
	tl := &Timeline{Scale: 1.0}
	if rec.Transcript == nil {
		return tl
	}

	duration, hinted := effectiveDuration(rec, cfg)

	// Only a real duration may drive the ratio rule; with nothing but the
	// word-count estimate, scale detection falls back to the absolute limit.
	hint := duration
	if !hinted {
		hint = 0
	}
	tl.Scale = DetectScale(rec.Transcript.MaxTimestamp(), hint, cfg)
	rec.Transcript.Rescale(tl.Scale)

	for _, p := range sentenceProviders() {
		if anchors := p.build(rec, duration, cfg); len(anchors) > 0 {
			tl.Sentences = insertPauses(anchors, cfg)
			tl.Source = p.name
			break
		}
	}

	tl.Words = buildWords(rec, tl.Sentences, duration, cfg)
	return tl
}

// effectiveDuration prefers the measured clip duration, then the provider's
// hint, then a speaking-rate estimate from the word count. The second return
// reports whether the value came from a real duration; the estimate is good
// enough for placing anchors but must never be treated as a scale hint.
func effectiveDuration(rec Recording, cfg Config) (float64, bool) {
	if rec.Duration > 0 {
		return rec.Duration, true
	}
	if rec.Transcript.DurationHint > 0 {
		return rec.Transcript.DurationHint, true
	}
	return float64(len(strings.Fields(rec.Transcript.Text))) * cfg.FallbackWordSeconds, false
}

func fromNativeSegments(rec Recording, _ float64, _ Config) []Sentence {
	return segmentAnchors(rec.Transcript.Segments)
}

func fromAltSegments(rec Recording, _ float64, _ Config) []Sentence {
	return segmentAnchors(rec.Transcript.AltSegments)
}

func segmentAnchors(segs []transcript.Segment) []Sentence {
	var anchors []Sentence
	for _, s := range segs {
		if !s.Valid() {
			continue
		}
		anchors = append(anchors, Sentence{Text: strings.TrimSpace(s.Text), Start: s.Start, End: s.End})
	}
	return anchors
}

// fromCaptionAnchors widens point-in-time caption anchors into intervals:
// each runs to the next anchor, the last gets a fixed tail. Anchors that
// would produce a non-increasing interval are dropped rather than reordered.
func fromCaptionAnchors(rec Recording, _ float64, cfg Config) []Sentence {
	anchors := rec.Transcript.Captions
	var out []Sentence
	for i, a := range anchors {
		end := a.At + cfg.LastCaptionSeconds
		if i+1 < len(anchors) {
			end = anchors[i+1].At
		}
		if end <= a.At {
			continue
		}
		out = append(out, Sentence{Text: a.Text, Start: a.At, End: end})
	}
	return out
}

// fromTextHeuristic synthesizes anchors from the raw transcript text when no
// timing exists at all: split into sentences, and place each sentence at the
// point where its cumulative character share of the text falls inside the
// detected speech window, weighted toward energetic waveform buckets.
func fromTextHeuristic(rec Recording, duration float64, cfg Config) []Sentence {
	sentences := splitSentences(rec.Transcript.Text)
	if len(sentences) == 0 || duration <= 0 {
		return nil
	}

	spanStart, spanEnd := 0.0, duration
	if w := SpeechWindow(rec.Peaks, duration, cfg); w != nil {
		spanStart, spanEnd = w.Start, w.End
	}
	m := NewWeightedMapSpan(rec.Peaks, duration, spanStart, spanEnd, cfg)

	total := 0
	for _, s := range sentences {
		total += len(s)
	}
	if total == 0 {
		return nil
	}

	var out []Sentence
	consumed := 0
	for _, s := range sentences {
		start := m.MapFraction(float64(consumed) / float64(total))
		consumed += len(s)
		end := m.MapFraction(float64(consumed) / float64(total))
		if end <= start {
			continue
		}
		out = append(out, Sentence{Text: s, Start: start, End: end})
	}
	return out
}

// splitSentences splits transcript text on terminal punctuation, keeping the
// punctuation attached to its sentence.
func splitSentences(text string) []string {
	var sentences []string
	var b strings.Builder
	for _, r := range text {
		b.WriteRune(r)
		if r == '.' || r == '!' || r == '?' {
			if s := strings.TrimSpace(b.String()); s != "" {
				sentences = append(sentences, s)
			}
			b.Reset()
		}
	}
	if s := strings.TrimSpace(b.String()); s != "" {
		sentences = append(sentences, s)
	}
	return sentences
}

// insertPauses adds a synthetic anchor into every inter-sentence gap long
// enough to register as an intentional silence.
func insertPauses(anchors []Sentence, cfg Config) []Sentence {
	out := make([]Sentence, 0, len(anchors))
	for i, a := range anchors {
		out = append(out, a)
		if i+1 < len(anchors) {
			if gap := anchors[i+1].Start - a.End; gap >= cfg.PauseGapSeconds {
				out = append(out, Sentence{Text: PauseText, Start: a.End, End: anchors[i+1].Start})
			}
		}
	}
	return out
}

// buildWords produces the word-level timeline, trying the richest source
// first: provider word timings, then segment text interpolated over the
// waveform, then caption anchors, then the sentence timeline itself.
func buildWords(rec Recording, sentences []Sentence, duration float64, cfg Config) []transcript.Word {
	if words := providerWords(rec.Transcript.Words); len(words) > 0 {
		return words
	}
	if words := segmentWords(rec, duration, cfg); len(words) > 0 {
		return words
	}
	if words := captionWords(rec.Transcript.Captions, cfg); len(words) > 0 {
		return words
	}
	return SentenceWords(sentences)
}

func providerWords(words []transcript.Word) []transcript.Word {
	var out []transcript.Word
	for _, w := range words {
		if w.Start == nil || strings.TrimSpace(w.Word) == "" {
			continue
		}
		out = append(out, w)
	}
	return out
}

// segmentWords splits each timed segment's text on whitespace and spreads
// the words across the segment's span via the span-scoped weighted map, so
// words land where the waveform shows energy inside the segment.
func segmentWords(rec Recording, duration float64, cfg Config) []transcript.Word {
	segs := rec.Transcript.Segments
	if len(segs) == 0 {
		segs = rec.Transcript.AltSegments
	}

	var out []transcript.Word
	for _, seg := range segs {
		if !seg.Valid() {
			continue
		}
		fields := strings.Fields(seg.Text)
		if len(fields) == 0 {
			continue
		}
		m := NewWeightedMapSpan(rec.Peaks, duration, seg.Start, seg.End, cfg)
		n := float64(len(fields))
		for i, word := range fields {
			start := m.MapFraction(float64(i) / n)
			end := m.MapFraction(float64(i+1) / n)
			out = append(out, timedWord(word, start, end))
		}
	}
	return out
}

// captionWords synthesizes word timings from caption anchors alone. The
// anchor's text is spread over an estimated speaking duration, clamped to the
// gap before the next anchor, distributed by character weight; leftover gap
// long enough to be an intentional silence becomes a [pause] word.
func captionWords(anchors []captions.Anchor, cfg Config) []transcript.Word {
	var out []transcript.Word
	for i, a := range anchors {
		fields := strings.Fields(a.Text)
		if len(fields) == 0 {
			continue
		}

		gap := cfg.LastCaptionSeconds
		if i+1 < len(anchors) {
			gap = anchors[i+1].At - a.At
		}
		if gap <= 0 {
			continue
		}
		spoken := cfg.WordRateFloorSeconds
		if est := float64(len(fields)) * cfg.PerWordSeconds; est > spoken {
			spoken = est
		}
		if spoken > gap {
			spoken = gap
		}

		totalChars := 0
		for _, f := range fields {
			totalChars += len(f)
		}
		at := a.At
		for _, f := range fields {
			dur := spoken * float64(len(f)) / float64(totalChars)
			out = append(out, timedWord(f, at, at+dur))
			at += dur
		}

		if i+1 < len(anchors) && gap-spoken >= cfg.PauseGapSeconds {
			out = append(out, timedWord(PauseText, a.At+spoken, anchors[i+1].At))
		}
	}
	return out
}

// SentenceWords distributes each sentence's words linearly over its
// interval. Besides serving as the last-resort word timeline, it is the
// positional estimate the token matcher falls back to.
func SentenceWords(sentences []Sentence) []transcript.Word {
	var out []transcript.Word
	for _, s := range sentences {
		if s.Text == PauseText {
			out = append(out, timedWord(PauseText, s.Start, s.End))
			continue
		}
		fields := strings.Fields(s.Text)
		if len(fields) == 0 {
			continue
		}
		step := (s.End - s.Start) / float64(len(fields))
		for i, f := range fields {
			start := s.Start + float64(i)*step
			out = append(out, timedWord(f, start, start+step))
		}
	}
	return out
}

func timedWord(word string, start, end float64) transcript.Word {
	return transcript.Word{Word: word, Start: &start, End: &end}
}
