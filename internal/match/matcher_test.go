package match

import (
	"testing"

	"github.com/quietcut/quietcut/internal/transcript"
)

func timedWord(word string, start, end float64) transcript.Word {
	return transcript.Word{Word: word, Start: &start, End: &end}
}

func TestCanonical(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Hello,", "Hello"},
		{"world.", "world"},
		{"don't", "dont"},
		{"(ok)", "ok"},
		{"—", ""},
		{"42!", "42"},
	}
	for _, tt := range tests {
		if got := Canonical(tt.in); got != tt.want {
			t.Errorf("Canonical(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestMatcherBasic(t *testing.T) {
	words := []transcript.Word{
		timedWord("Hello", 0.0, 0.4),
		timedWord("world", 0.5, 0.9),
	}
	m := NewMatcher(words, DefaultConfig())

	seek, ok := m.Match(Token{Text: "Hello,", Expected: 0.0})
	if !ok || seek.Start != 0.0 {
		t.Fatalf("first match = %+v, ok=%v", seek, ok)
	}
	seek, ok = m.Match(Token{Text: "world.", Expected: 0.5})
	if !ok || seek.Start != 0.5 || seek.End != 0.9 {
		t.Fatalf("second match = %+v, ok=%v", seek, ok)
	}
}

func TestMatcherRepeatedWordsAdvance(t *testing.T) {
	words := []transcript.Word{
		timedWord("no", 1.0, 1.2),
		timedWord("no", 1.3, 1.5),
		timedWord("no", 1.6, 1.8),
	}
	m := NewMatcher(words, DefaultConfig())

	var starts []float64
	for i := 0; i < 3; i++ {
		seek, ok := m.Match(Token{Text: "no", Expected: 1.0})
		if !ok {
			t.Fatalf("match %d failed", i)
		}
		starts = append(starts, seek.Start)
	}
	if starts[0] != 1.0 || starts[1] != 1.3 || starts[2] != 1.6 {
		t.Errorf("repeated words did not advance: %v", starts)
	}
}

func TestMatcherPrefersCloserInTime(t *testing.T) {
	words := []transcript.Word{
		timedWord("so", 0.2, 0.3),
		timedWord("later", 4.0, 4.2),
		timedWord("so", 8.0, 8.1),
	}
	m := NewMatcher(words, DefaultConfig())

	seek, ok := m.Match(Token{Text: "so", Expected: 7.9})
	if !ok {
		t.Fatal("expected a match")
	}
	if seek.Start != 8.0 {
		t.Errorf("matched start %v, want the 8.0 occurrence", seek.Start)
	}
}

func TestMatcherWindowRejection(t *testing.T) {
	words := []transcript.Word{
		timedWord("yes", 10.0, 10.2),
	}
	m := NewMatcher(words, DefaultConfig())

	// Candidate lies well outside the containing sentence plus slack.
	_, ok := m.Match(Token{
		Text:     "yes",
		Expected: 2.0,
		Window:   &Span{Start: 1.0, End: 3.0},
	})
	if ok {
		t.Error("expected rejection of out-of-window candidate")
	}

	// Within slack of the window edge it is accepted.
	m = NewMatcher(words, DefaultConfig())
	seek, ok := m.Match(Token{
		Text:     "yes",
		Expected: 9.5,
		Window:   &Span{Start: 8.0, End: 9.5},
	})
	if !ok || seek.Start != 10.0 {
		t.Errorf("expected acceptance within slack, got %+v, ok=%v", seek, ok)
	}
}

func TestMatcherLookaheadBound(t *testing.T) {
	words := make([]transcript.Word, 0, 60)
	for i := 0; i < 59; i++ {
		words = append(words, timedWord("filler", float64(i), float64(i)+0.1))
	}
	words = append(words, timedWord("target", 59.0, 59.2))

	cfg := DefaultConfig()
	m := NewMatcher(words, cfg)

	// The target sits past the lookahead window from index 0.
	if _, ok := m.Match(Token{Text: "target", Expected: 59.0}); ok {
		t.Error("expected miss beyond lookahead window")
	}
}

func TestAlignFallsBackToEstimates(t *testing.T) {
	words := []transcript.Word{
		timedWord("Hello", 0.0, 0.4),
	}
	estimates := []transcript.Word{
		timedWord("Hello", 0.0, 0.5),
		timedWord("there", 0.5, 1.0),
		timedWord("friend", 1.0, 1.5),
	}
	tokens := []Token{
		{Text: "Hello", Expected: 0.0},
		{Text: "there", Expected: 0.5},
		{Text: "friend", Expected: 1.0},
	}

	seeks := Align(tokens, words, estimates, DefaultConfig())
	if !seeks[0].OK || seeks[0].Start != 0.0 {
		t.Errorf("token 0 = %+v, want primary match at 0.0", seeks[0])
	}
	if !seeks[1].OK || seeks[1].Start != 0.5 {
		t.Errorf("token 1 = %+v, want estimate at 0.5", seeks[1])
	}
	if !seeks[2].OK || seeks[2].Start != 1.0 {
		t.Errorf("token 2 = %+v, want estimate at 1.0", seeks[2])
	}
}

func TestAlignUnseekableToken(t *testing.T) {
	tokens := []Token{{Text: "orphan", Expected: 0.0}}
	seeks := Align(tokens, nil, nil, DefaultConfig())
	if seeks[0].OK {
		t.Errorf("expected unseekable token, got %+v", seeks[0])
	}
}
