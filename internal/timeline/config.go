// Package timeline reconstructs sentence- and word-level timing for a
// transcript whose timestamps are unreliable, missing, or wrongly scaled,
// so transcript text can seek audio playback and captions can be exported.
package timeline

// Config carries the timing heuristics. The values are empirically chosen
// and exposed for override, but the defaults are the behavioural contract;
// change them and caption placement shifts.
type Config struct {
	// Speech window detection over waveform peaks
	WindowThresholdRatio float64 `toml:"window_threshold_ratio"` // fraction of peak dynamic range
	WindowThresholdFloor float64 `toml:"window_threshold_floor"` // absolute minimum threshold
	WindowPadBuckets     float64 `toml:"window_pad_buckets"`     // outward padding, in bucket durations

	// Weighted-speech mapping. The active floor is looser than the window
	// threshold so quiet speech at the tail is not discarded.
	ActiveFloor float64 `toml:"active_floor"`
	WeightBase  float64 `toml:"weight_base"`
	WeightGain  float64 `toml:"weight_gain"`

	// Sentence and word synthesis
	PauseGapSeconds      float64 `toml:"pause_gap_seconds"`       // gap that earns a [pause] anchor
	LastCaptionSeconds   float64 `toml:"last_caption_seconds"`    // interval for the final caption anchor
	WordRateFloorSeconds float64 `toml:"word_rate_floor_seconds"` // natural-speech floor per anchor
	PerWordSeconds       float64 `toml:"per_word_seconds"`        // natural-speech rate per word
	FallbackWordSeconds  float64 `toml:"fallback_word_seconds"`   // duration estimate per word with no hint

	// Timestamp unit-scale detection
	ScaleRatioLimit    float64 `toml:"scale_ratio_limit"`    // x duration hint implying milliseconds
	ScaleAbsoluteLimit float64 `toml:"scale_absolute_limit"` // absolute value implying milliseconds
}

// DefaultConfig returns the tuning the application ships with.
func DefaultConfig() Config {
	return Config{
		WindowThresholdRatio: 0.18,
		WindowThresholdFloor: 0.12,
		WindowPadBuckets:     0.7,
		ActiveFloor:          0.085,
		WeightBase:           0.08,
		WeightGain:           4.5,
		PauseGapSeconds:      1.1,
		LastCaptionSeconds:   1.2,
		WordRateFloorSeconds: 0.45,
		PerWordSeconds:       0.22,
		FallbackWordSeconds:  0.4,
		ScaleRatioLimit:      20.0,
		ScaleAbsoluteLimit:   1000.0,
	}
}
