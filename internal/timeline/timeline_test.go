package timeline

import (
	"math"
	"testing"

	"github.com/quietcut/quietcut/internal/captions"
	"github.com/quietcut/quietcut/internal/transcript"
)

func approxEqual(t *testing.T, got, want, tol float64, label string) {
	t.Helper()
	if math.Abs(got-want) > tol {
		t.Errorf("%s = %v, want %v (±%v)", label, got, want, tol)
	}
}

func uniformPeaks(n int, value float64) []float64 {
	peaks := make([]float64, n)
	for i := range peaks {
		peaks[i] = value
	}
	return peaks
}

func TestSpeechWindow(t *testing.T) {
	cfg := DefaultConfig()

	t.Run("uniform loud peaks cover the whole clip", func(t *testing.T) {
		w := SpeechWindow(uniformPeaks(150, 1.0), 4.0, cfg)
		if w == nil {
			t.Fatal("expected a window")
		}
		if w.Start != 0 || w.End != 4.0 {
			t.Errorf("window = [%v, %v], want [0, 4]", w.Start, w.End)
		}
	})

	t.Run("floored silent peaks never open a window", func(t *testing.T) {
		if w := SpeechWindow(uniformPeaks(150, 0.08), 4.0, cfg); w != nil {
			t.Errorf("expected nil window, got [%v, %v]", w.Start, w.End)
		}
	})

	t.Run("no peaks", func(t *testing.T) {
		if w := SpeechWindow(nil, 4.0, cfg); w != nil {
			t.Error("expected nil window without peaks")
		}
	})

	t.Run("speech burst in the middle", func(t *testing.T) {
		peaks := uniformPeaks(100, 0.08)
		for i := 40; i < 60; i++ {
			peaks[i] = 0.9
		}
		w := SpeechWindow(peaks, 10.0, cfg)
		if w == nil {
			t.Fatal("expected a window")
		}
		// Burst covers 4.0s-6.0s, padded by 0.7 buckets (0.07s) each side.
		approxEqual(t, w.Start, 3.93, 0.001, "window start")
		approxEqual(t, w.End, 6.07, 0.001, "window end")
	})
}

func TestMapFractionMonotonic(t *testing.T) {
	cfg := DefaultConfig()
	peaks := make([]float64, 120)
	for i := range peaks {
		peaks[i] = 0.08 + 0.9*math.Abs(math.Sin(float64(i)*0.37))
	}

	m := NewWeightedMap(peaks, 30.0, cfg)
	prev := m.MapFraction(0)
	for i := 1; i <= 200; i++ {
		f := float64(i) / 200.0
		cur := m.MapFraction(f)
		if cur < prev {
			t.Fatalf("MapFraction(%v) = %v < MapFraction(%v) = %v", f, cur, f-0.005, prev)
		}
		if cur < 0 || cur > 30.0 {
			t.Fatalf("MapFraction(%v) = %v outside clip", f, cur)
		}
		prev = cur
	}
}

func TestWeightedMapLinearFallback(t *testing.T) {
	m := NewWeightedMapSpan(nil, 10.0, 1.0, 3.0, DefaultConfig())
	approxEqual(t, m.MapFraction(0), 1.0, 1e-9, "f=0")
	approxEqual(t, m.MapFraction(0.5), 2.0, 1e-9, "f=0.5")
	approxEqual(t, m.MapFraction(1), 3.0, 1e-9, "f=1")
}

func TestWeightedMapFavorsEnergeticBuckets(t *testing.T) {
	// First half silent-floored, second half loud: the midpoint of the text
	// should land past the clip midpoint of the covered span.
	cfg := DefaultConfig()
	peaks := uniformPeaks(100, 0.09)
	for i := 50; i < 100; i++ {
		peaks[i] = 1.0
	}
	m := NewWeightedMap(peaks, 10.0, cfg)
	if mid := m.MapFraction(0.5); mid <= 5.0 {
		t.Errorf("MapFraction(0.5) = %v, want > 5.0 with back-loaded energy", mid)
	}
}

func TestDetectScale(t *testing.T) {
	cfg := DefaultConfig()
	tests := []struct {
		name string
		max  float64
		hint float64
		want float64
	}{
		{"milliseconds against hint", 8000, 4.0, 0.001},
		{"seconds against hint", 60, 4.0, 1.0},
		{"no timestamps", 0, 4.0, 1.0},
		{"milliseconds without hint", 1500, 0, 0.001},
		{"seconds without hint", 900, 0, 1.0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := DetectScale(tt.max, tt.hint, cfg); got != tt.want {
				t.Errorf("DetectScale(%v, %v) = %v, want %v", tt.max, tt.hint, got, tt.want)
			}
		})
	}
}

func TestBuildFromNativeSegments(t *testing.T) {
	rec := Recording{
		Transcript: &transcript.Transcript{
			Text: "Hello world. This is a test.",
			Segments: []transcript.Segment{
				{Text: "Hello world.", Start: 0, End: 1.4},
				{Text: "This is a test.", Start: 3.4, End: 3.8},
			},
		},
		Duration: 4.0,
	}

	tl := Build(rec, DefaultConfig())
	if tl.Source != "segments" {
		t.Fatalf("Source = %q, want segments", tl.Source)
	}
	if tl.Scale != 1.0 {
		t.Errorf("Scale = %v, want 1.0", tl.Scale)
	}
	// The 2.0s gap between segments earns a [pause] anchor.
	if len(tl.Sentences) != 3 {
		t.Fatalf("got %d sentence anchors, want 3: %+v", len(tl.Sentences), tl.Sentences)
	}
	if tl.Sentences[1].Text != PauseText {
		t.Errorf("middle anchor = %q, want %q", tl.Sentences[1].Text, PauseText)
	}
	if len(tl.Words) != 6 {
		t.Errorf("got %d words, want 6: %+v", len(tl.Words), tl.Words)
	}
}

func TestBuildRescalesMillisecondSegments(t *testing.T) {
	rec := Recording{
		Transcript: &transcript.Transcript{
			Text: "Hello world. This is a test.",
			Segments: []transcript.Segment{
				{Text: "Hello world.", Start: 0, End: 1400},
				{Text: "This is a test.", Start: 1600, End: 8000},
			},
		},
		Duration: 4.0,
	}

	tl := Build(rec, DefaultConfig())
	if tl.Scale != 0.001 {
		t.Fatalf("Scale = %v, want 0.001", tl.Scale)
	}
	approxEqual(t, tl.Sentences[0].End, 1.4, 1e-6, "first anchor end")
	approxEqual(t, tl.Sentences[1].Start, 1.6, 1e-6, "second anchor start")
}

func TestBuildKeepsSecondsWithoutDurationHint(t *testing.T) {
	// No measured duration and no provider hint. The word-count estimate
	// (one word, well under a second) must not act as a hint: timestamps
	// around 30s are plausible seconds and stay untouched.
	rec := Recording{
		Transcript: &transcript.Transcript{
			Text: "Ok.",
			Segments: []transcript.Segment{
				{Text: "Ok.", Start: 0, End: 30},
			},
		},
	}

	tl := Build(rec, DefaultConfig())
	if tl.Scale != 1.0 {
		t.Fatalf("Scale = %v, want 1.0", tl.Scale)
	}
	if len(tl.Sentences) != 1 {
		t.Fatalf("got %d sentences, want 1", len(tl.Sentences))
	}
	approxEqual(t, tl.Sentences[0].End, 30.0, 1e-6, "anchor end")
}

func TestBuildHeuristicFromBareText(t *testing.T) {
	rec := Recording{
		Transcript: &transcript.Transcript{
			Text:         "Hello world. This is a test.",
			DurationHint: 4.0,
		},
		Peaks:    uniformPeaks(150, 1.0),
		Duration: 4.0,
	}

	tl := Build(rec, DefaultConfig())
	if tl.Source != "heuristic" {
		t.Fatalf("Source = %q, want heuristic", tl.Source)
	}
	if len(tl.Sentences) != 2 {
		t.Fatalf("got %d sentence anchors, want 2: %+v", len(tl.Sentences), tl.Sentences)
	}
	prevEnd := 0.0
	for i, s := range tl.Sentences {
		if s.End <= s.Start {
			t.Errorf("anchor %d not increasing: %+v", i, s)
		}
		if s.Start < prevEnd {
			t.Errorf("anchor %d overlaps previous: %+v", i, s)
		}
		if s.Start < 0 || s.End > 4.0 {
			t.Errorf("anchor %d outside clip bound: %+v", i, s)
		}
		prevEnd = s.End
	}
}

func TestBuildFromCaptionAnchors(t *testing.T) {
	rec := Recording{
		Transcript: &transcript.Transcript{
			Text: "Hello world. This is a test.",
			Captions: []captions.Anchor{
				{Text: "Hello world.", At: 0.5},
				{Text: "This is a test.", At: 2.0},
			},
		},
		Duration: 4.0,
	}

	cfg := DefaultConfig()
	tl := Build(rec, cfg)
	if tl.Source != "captions" {
		t.Fatalf("Source = %q, want captions", tl.Source)
	}
	first := tl.Sentences[0]
	if first.Start != 0.5 || first.End != 2.0 {
		t.Errorf("first interval = [%v, %v], want [0.5, 2.0]", first.Start, first.End)
	}
	last := tl.Sentences[len(tl.Sentences)-1]
	approxEqual(t, last.End, 2.0+cfg.LastCaptionSeconds, 1e-9, "last interval end")
}

func TestCaptionWords(t *testing.T) {
	cfg := DefaultConfig()
	anchors := []captions.Anchor{
		{Text: "Hello world.", At: 0.0},
		{Text: "Yes.", At: 3.0},
	}

	words := captionWords(anchors, cfg)

	// Two words spread over max(0.45, 2*0.22) = 0.45s, then a pause filling
	// the remainder of the 3.0s gap, then the final single word.
	if len(words) != 4 {
		t.Fatalf("got %d words, want 4: %+v", len(words), words)
	}
	if *words[0].Start != 0.0 {
		t.Errorf("first word start = %v, want 0", *words[0].Start)
	}
	approxEqual(t, *words[1].End, 0.45, 1e-9, "spoken span end")
	if words[2].Word != PauseText {
		t.Fatalf("third word = %q, want %q", words[2].Word, PauseText)
	}
	approxEqual(t, *words[2].End, 3.0, 1e-9, "pause end")
	prev := 0.0
	for i, w := range words {
		if *w.Start < prev {
			t.Errorf("word %d start %v before previous %v", i, *w.Start, prev)
		}
		prev = *w.Start
	}
}

func TestSplitSentences(t *testing.T) {
	tests := []struct {
		name string
		text string
		want int
	}{
		{"two sentences", "Hello world. This is a test.", 2},
		{"mixed terminators", "One! Two? Three.", 3},
		{"trailing fragment", "Done. And then", 2},
		{"empty", "", 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := splitSentences(tt.text); len(got) != tt.want {
				t.Errorf("splitSentences(%q) = %v, want %d parts", tt.text, got, tt.want)
			}
		})
	}
}

func TestBuildNilTranscript(t *testing.T) {
	tl := Build(Recording{}, DefaultConfig())
	if len(tl.Sentences) != 0 || len(tl.Words) != 0 {
		t.Errorf("expected empty timeline: %+v", tl)
	}
}
