// Package match aligns rendered transcript tokens to timed words so tapping
// a word in the transcript can seek playback. Word timings rarely line up
// one-to-one with display tokens (punctuation, fillers, provider hiccups),
// so matching is a windowed nearest-match search rather than a zip.
package match

import (
	"math"
	"strings"
	"unicode"

	"github.com/quietcut/quietcut/internal/transcript"
)

// Config carries the matcher heuristics.
type Config struct {
	Lookahead          int     `toml:"lookahead"`            // entries scanned past the last match
	IndexPenalty       float64 `toml:"index_penalty"`        // seconds charged per entry of lookahead depth
	WindowSlackSeconds float64 `toml:"window_slack_seconds"` // tolerance outside the containing sentence
}

// DefaultConfig returns the matcher tuning the application ships with.
func DefaultConfig() Config {
	return Config{
		Lookahead:          52,
		IndexPenalty:       0.03,
		WindowSlackSeconds: 0.8,
	}
}

// Span is the time bounds of the sentence containing a token, when known.
type Span struct {
	Start float64
	End   float64
}

// Token is one display word to align.
type Token struct {
	Text     string
	Expected float64 // estimated start from position in its sentence
	Window   *Span   // containing sentence bounds, nil when unknown
}

// Seek is the resolved playback position for one token. OK is false when the
// token could not be matched anywhere; such tokens are rendered unseekable.
type Seek struct {
	Start float64
	End   float64
	OK    bool
}

// Canonical reduces a display token to its matchable form: punctuation
// stripped, case preserved.
func Canonical(s string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			return r
		}
		return -1
	}, s)
}

// Matcher performs windowed nearest-match search over a word timing
// sequence. The internal index only moves forward, so repeated identical
// words resolve to successive timing slots.
type Matcher struct {
	words []transcript.Word
	cfg   Config
	next  int
}

// NewMatcher returns a matcher over words, which must be time-ordered.
func NewMatcher(words []transcript.Word, cfg Config) *Matcher {
	if cfg.Lookahead <= 0 {
		cfg = DefaultConfig()
	}
	return &Matcher{words: words, cfg: cfg}
}

// Match finds the best timing entry for token near expected. Candidates are
// scored by time distance plus a small per-entry penalty, so an equally
// close earlier entry always wins; entries far outside the containing
// sentence are rejected outright.
func (m *Matcher) Match(token Token) (Seek, bool) {
	canon := Canonical(token.Text)
	if canon == "" {
		return Seek{}, false
	}

	limit := m.next + m.cfg.Lookahead
	if limit > len(m.words) {
		limit = len(m.words)
	}

	bestIdx := -1
	bestScore := math.Inf(1)
	for i := m.next; i < limit; i++ {
		w := m.words[i]
		if w.Start == nil || Canonical(w.Word) != canon {
			continue
		}
		start := *w.Start
		if token.Window != nil {
			if start < token.Window.Start-m.cfg.WindowSlackSeconds ||
				start > token.Window.End+m.cfg.WindowSlackSeconds {
				continue
			}
		}
		score := math.Abs(start-token.Expected) + m.cfg.IndexPenalty*float64(i-m.next)
		if score < bestScore {
			bestScore = score
			bestIdx = i
		}
	}
	if bestIdx < 0 {
		return Seek{}, false
	}

	m.next = bestIdx + 1
	w := m.words[bestIdx]
	seek := Seek{Start: *w.Start, OK: true}
	if w.End != nil {
		seek.End = *w.End
	} else {
		seek.End = seek.Start
	}
	return seek, true
}

// Align resolves every token in order. Tokens the primary word timings
// cannot place fall back to the sentence timeline's word estimate at the
// same scan position; tokens neither source can place are left unseekable.
func Align(tokens []Token, words, estimates []transcript.Word, cfg Config) []Seek {
	m := NewMatcher(words, cfg)

	out := make([]Seek, len(tokens))
	for i, tok := range tokens {
		if seek, ok := m.Match(tok); ok {
			out[i] = seek
			continue
		}
		if i < len(estimates) && estimates[i].Start != nil {
			est := estimates[i]
			out[i] = Seek{Start: *est.Start, OK: true}
			if est.End != nil {
				out[i].End = *est.End
			} else {
				out[i].End = *est.Start
			}
		}
	}
	return out
}
