package trim

import (
	"errors"
	"fmt"
	"math"
	"sort"

	"github.com/quietcut/quietcut/internal/audio"
)

// Detection tuning defaults. The multipliers are empirically chosen; they are
// exposed through Config so deployments can override them, but the defaults
// are the behavioural contract.
const (
	// defaultMinSilence is how much continuous sub-threshold audio must
	// accumulate before a gap is considered removable dead air.
	defaultMinSilence = 1.5 // seconds

	// minSilenceFloor / minSilenceCeil bound the user-configurable minimum.
	minSilenceFloor = 0.3  // seconds
	minSilenceCeil  = 10.0 // seconds

	// defaultAbsoluteFloor keeps near-silent full recordings from being
	// classified entirely as speech: frames below this are always silence
	// candidates.
	defaultAbsoluteFloor = 0.0025

	// defaultNoiseFloorRatio scales the measured noise floor so a noisy but
	// uniform signal is not carved up.
	defaultNoiseFloorRatio = 2.8

	// defaultPeakRatio keys the threshold to the loudest frame so normal
	// speech dynamics are never mistaken for silence.
	defaultPeakRatio = 0.03

	// defaultNoisePercentile is where in the sorted energy distribution the
	// noise floor is read.
	defaultNoisePercentile = 0.20

	// defaultCrossfade is the splice fade length (floored at 32 samples).
	defaultCrossfade = 0.006 // seconds
)

// Config carries the silence-detection and splicing heuristics. Zero values
// are not usable; start from DefaultConfig.
type Config struct {
	MinSilenceSeconds float64 `toml:"min_silence_seconds"`
	AbsoluteFloor     float64 `toml:"absolute_floor"`
	NoiseFloorRatio   float64 `toml:"noise_floor_ratio"`
	PeakRatio         float64 `toml:"peak_ratio"`
	NoisePercentile   float64 `toml:"noise_percentile"`
	CrossfadeSeconds  float64 `toml:"crossfade_seconds"`
}

// DefaultConfig returns the tuning the application ships with.
func DefaultConfig() Config {
	return Config{
		MinSilenceSeconds: defaultMinSilence,
		AbsoluteFloor:     defaultAbsoluteFloor,
		NoiseFloorRatio:   defaultNoiseFloorRatio,
		PeakRatio:         defaultPeakRatio,
		NoisePercentile:   defaultNoisePercentile,
		CrossfadeSeconds:  defaultCrossfade,
	}
}

// Validate rejects configurations outside the supported domain.
func (c Config) Validate() error {
	if c.MinSilenceSeconds < minSilenceFloor || c.MinSilenceSeconds > minSilenceCeil {
		return fmt.Errorf("min silence %.2fs out of range [%.1f, %.1f]",
			c.MinSilenceSeconds, minSilenceFloor, minSilenceCeil)
	}
	if c.NoisePercentile < 0 || c.NoisePercentile >= 1 {
		return fmt.Errorf("noise percentile %.2f out of range [0, 1)", c.NoisePercentile)
	}
	if c.AbsoluteFloor < 0 || c.NoiseFloorRatio < 0 || c.PeakRatio < 0 {
		return errors.New("threshold factors must be non-negative")
	}
	if c.CrossfadeSeconds < 0 {
		return errors.New("crossfade must be non-negative")
	}
	return nil
}

// Run is a half-open sample interval [Start, End) classified as removable
// silence. Runs are non-overlapping and ordered in time.
type Run struct {
	Start int
	End   int
}

// Seconds returns the run duration for a sample rate.
func (r Run) Seconds(sampleRate int) float64 {
	return float64(r.End-r.Start) / float64(sampleRate)
}

// Analysis is the detector's full output, kept so callers (and the report
// writer) can see how the threshold was derived.
type Analysis struct {
	SampleRate       int
	FrameSize        int
	FrameCount       int
	NoiseFloor       float64
	PeakEnergy       float64
	Threshold        float64
	MinSilenceFrames int
	Runs             []Run
}

// Analyze computes frame energies, derives the adaptive threshold, and merges
// contiguous sub-threshold frames into removable silence runs.
//
// A signal entirely below threshold produces one run spanning the whole
// signal; Splice rejects that case rather than emitting empty audio. A signal
// with no run meeting the minimum length produces an empty run list, which
// means "nothing to trim".
func Analyze(sig *audio.Signal, cfg Config) (*Analysis, error) {
	if sig == nil || sig.Samples() == 0 {
		return nil, audio.ErrEmptySignal
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid trim config: %w", err)
	}

	total := sig.Samples()
	frameSize := FrameSize(sig.SampleRate)
	energies := FrameEnergies(sig)

	a := &Analysis{
		SampleRate: sig.SampleRate,
		FrameSize:  frameSize,
		FrameCount: len(energies),
	}

	// Noise floor from the quiet end of the energy distribution, peak from
	// the loud end. Sorting a copy keeps the frame order intact for the scan.
	sorted := append([]float64(nil), energies...)
	sort.Float64s(sorted)
	idx := int(float64(len(sorted)) * cfg.NoisePercentile)
	if idx >= len(sorted) {
		idx = len(sorted) - 1
	}
	a.NoiseFloor = sorted[idx]
	a.PeakEnergy = sorted[len(sorted)-1]

	a.Threshold = math.Max(cfg.AbsoluteFloor,
		math.Max(a.NoiseFloor*cfg.NoiseFloorRatio, a.PeakEnergy*cfg.PeakRatio))

	frameDur := float64(frameSize) / float64(sig.SampleRate)
	a.MinSilenceFrames = int(cfg.MinSilenceSeconds / frameDur)
	if a.MinSilenceFrames < 1 {
		a.MinSilenceFrames = 1
	}

	// Scan: open a run at the first sub-threshold frame, close at the first
	// frame back at or above threshold. A run still open at end-of-stream
	// closes at the final frame boundary under the same length test.
	runStart := -1
	for f, e := range energies {
		if e < a.Threshold {
			if runStart < 0 {
				runStart = f
			}
			continue
		}
		if runStart >= 0 {
			a.appendRun(runStart, f, frameSize, total)
			runStart = -1
		}
	}
	if runStart >= 0 {
		a.appendRun(runStart, len(energies), frameSize, total)
	}

	return a, nil
}

// appendRun emits a frame run as a sample-index run if it is long enough.
func (a *Analysis) appendRun(startFrame, endFrame, frameSize, totalSamples int) {
	if endFrame-startFrame < a.MinSilenceFrames {
		return
	}
	start := startFrame * frameSize
	end := endFrame * frameSize
	if end > totalSamples {
		end = totalSamples
	}
	if end > start {
		a.Runs = append(a.Runs, Run{Start: start, End: end})
	}
}
