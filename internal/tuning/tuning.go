// Package tuning aggregates the per-component heuristic settings into one
// overridable TOML document. Defaults are the shipped behaviour; a tuning
// file overrides only the keys it names.
package tuning

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"

	"github.com/quietcut/quietcut/internal/match"
	"github.com/quietcut/quietcut/internal/timeline"
	"github.com/quietcut/quietcut/internal/trim"
)

// Settings is the full tuning document.
type Settings struct {
	Trim     trim.Config     `toml:"trim"`
	Timeline timeline.Config `toml:"timeline"`
	Match    match.Config    `toml:"match"`
}

// Defaults returns the shipped tuning.
func Defaults() Settings {
	return Settings{
		Trim:     trim.DefaultConfig(),
		Timeline: timeline.DefaultConfig(),
		Match:    match.DefaultConfig(),
	}
}

// Load reads a tuning file over the defaults, so partial files work.
func Load(path string) (Settings, error) {
	settings := Defaults()

	path = os.ExpandEnv(path)
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return settings, fmt.Errorf("tuning file not found: %s", path)
	}
	if _, err := toml.DecodeFile(path, &settings); err != nil {
		return settings, fmt.Errorf("failed to parse tuning file: %w", err)
	}
	if err := settings.Validate(); err != nil {
		return settings, err
	}
	return settings, nil
}

// Validate rejects settings that would make the pipeline misbehave rather
// than merely sound different.
func (s Settings) Validate() error {
	if err := s.Trim.Validate(); err != nil {
		return fmt.Errorf("trim: %w", err)
	}
	if s.Timeline.PauseGapSeconds <= 0 {
		return fmt.Errorf("timeline: pause_gap_seconds must be positive, got %v", s.Timeline.PauseGapSeconds)
	}
	if s.Timeline.WeightBase <= 0 {
		return fmt.Errorf("timeline: weight_base must be positive, got %v", s.Timeline.WeightBase)
	}
	if s.Timeline.FallbackWordSeconds <= 0 {
		return fmt.Errorf("timeline: fallback_word_seconds must be positive, got %v", s.Timeline.FallbackWordSeconds)
	}
	if s.Match.Lookahead <= 0 {
		return fmt.Errorf("match: lookahead must be positive, got %d", s.Match.Lookahead)
	}
	if s.Match.WindowSlackSeconds < 0 {
		return fmt.Errorf("match: window_slack_seconds must not be negative, got %v", s.Match.WindowSlackSeconds)
	}
	return nil
}
