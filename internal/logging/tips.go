package logging

import (
	"sort"

	"github.com/quietcut/quietcut/internal/processor"
)

// RecordingTip is one piece of actionable recording advice derived from the
// trim analysis.
type RecordingTip struct {
	Priority int    // higher = more important (1-10)
	Message  string // 1-2 sentences of advice
	RuleID   string // stable identifier for testing/logging
}

// MaxRecordingTips caps how many tips a report shows.
const MaxRecordingTips = 3

// GenerateRecordingTips inspects the analysis and returns prioritised
// suggestions for the next recording.
func GenerateRecordingTips(result *processor.Result) []RecordingTip {
	if result == nil || result.Analysis == nil {
		return nil
	}

	var tips []RecordingTip
	fired := make(map[string]bool)

	rules := []func(*processor.Result) *RecordingTip{
		tipVeryQuiet,
		tipNoisyRoom,
		tipMostlySilence,
		tipLongPauses,
	}
	for _, rule := range rules {
		if tip := rule(result); tip != nil {
			tips = append(tips, *tip)
			fired[tip.RuleID] = true
		}
	}

	tips = applyExclusions(tips, fired)

	sort.Slice(tips, func(i, j int) bool {
		return tips[i].Priority > tips[j].Priority
	})
	if len(tips) > MaxRecordingTips {
		tips = tips[:MaxRecordingTips]
	}
	return tips
}

// applyExclusions drops tips implied by a more specific one that also fired.
func applyExclusions(tips []RecordingTip, fired map[string]bool) []RecordingTip {
	var out []RecordingTip
	for _, tip := range tips {
		switch tip.RuleID {
		case "noisy_room":
			// A very quiet recording makes the noise-floor reading
			// unreliable; the level advice comes first.
			if fired["very_quiet"] {
				continue
			}
		case "long_pauses":
			if fired["mostly_silence"] {
				continue
			}
		}
		out = append(out, tip)
	}
	return out
}

func tipVeryQuiet(r *processor.Result) *RecordingTip {
	if r.Analysis.PeakEnergy >= 0.02 {
		return nil
	}
	return &RecordingTip{
		Priority: 9,
		RuleID:   "very_quiet",
		Message:  "The recording is very quiet. Move closer to the microphone or raise the input gain.",
	}
}

func tipNoisyRoom(r *processor.Result) *RecordingTip {
	a := r.Analysis
	// Noise floor relative to peak: a floor above 15% of peak energy means
	// background noise competes with speech.
	if a.PeakEnergy <= 0 || a.NoiseFloor/a.PeakEnergy < 0.15 {
		return nil
	}
	return &RecordingTip{
		Priority: 7,
		RuleID:   "noisy_room",
		Message:  "Background noise is close to the speech level. Try a quieter room or reduce fan and traffic noise.",
	}
}

func tipMostlySilence(r *processor.Result) *RecordingTip {
	if r.Stats.OriginalSeconds <= 0 {
		return nil
	}
	if r.Stats.RemovedSeconds/r.Stats.OriginalSeconds < 0.5 {
		return nil
	}
	return &RecordingTip{
		Priority: 6,
		RuleID:   "mostly_silence",
		Message:  "More than half of the recording was silence. Consider pausing the recorder when collecting your thoughts.",
	}
}

func tipLongPauses(r *processor.Result) *RecordingTip {
	if r.Stats.OriginalSeconds <= 0 {
		return nil
	}
	ratio := r.Stats.RemovedSeconds / r.Stats.OriginalSeconds
	if ratio < 0.25 {
		return nil
	}
	return &RecordingTip{
		Priority: 4,
		RuleID:   "long_pauses",
		Message:  "Long pauses made up a good share of the recording. They were trimmed, but tighter delivery keeps memos easier to review.",
	}
}
