package trim

import (
	"errors"
	"math"

	"github.com/quietcut/quietcut/internal/audio"
)

// Splice outcome errors.
var (
	// ErrNoRemovableSilence means the detector found no run meeting the
	// minimum length. Callers should present this as "nothing to do", not as
	// a failure.
	ErrNoRemovableSilence = errors.New("trim: no removable silence")

	// ErrEmptyAfterTrim means every sample was classified as silence. An
	// empty recording is never useful, so this is a hard failure rather
	// than a zero-length output file.
	ErrEmptyAfterTrim = errors.New("trim: everything classified as silence")
)

// minCrossfadeSamples floors the fade so low sample rates still get an
// audible-click guard.
const minCrossfadeSamples = 32

// Stats summarises a splice for the caller and the report writer.
type Stats struct {
	RemovedSeconds   float64
	OriginalSeconds  float64
	ProcessedSeconds float64
}

// KeepRanges returns the ordered complement of the silence runs over
// [0, totalSamples). Zero-length ranges are discarded. Together the keep
// ranges and silence runs tile the whole signal exactly.
func KeepRanges(runs []Run, totalSamples int) []Run {
	var keep []Run
	pos := 0
	for _, r := range runs {
		if r.Start > pos {
			keep = append(keep, Run{Start: pos, End: r.Start})
		}
		pos = r.End
	}
	if pos < totalSamples {
		keep = append(keep, Run{Start: pos, End: totalSamples})
	}
	return keep
}

// Splice concatenates the keep ranges into a new signal, with a short linear
// crossfade at every cut boundary: a fade-in at the start of every range
// after the first and a fade-out at the end of every range before the last.
// The fade never exceeds the range's own span.
func Splice(sig *audio.Signal, runs []Run, cfg Config) (*audio.Signal, Stats, error) {
	if sig == nil || sig.Samples() == 0 {
		return nil, Stats{}, audio.ErrEmptySignal
	}

	total := sig.Samples()
	stats := Stats{OriginalSeconds: sig.Duration()}

	if len(runs) == 0 {
		return nil, stats, ErrNoRemovableSilence
	}

	keep := KeepRanges(runs, total)
	if len(keep) == 0 {
		return nil, stats, ErrEmptyAfterTrim
	}

	kept := 0
	for _, k := range keep {
		kept += k.End - k.Start
	}

	fade := int(math.Round(float64(sig.SampleRate) * cfg.CrossfadeSeconds))
	if fade < minCrossfadeSamples {
		fade = minCrossfadeSamples
	}

	out := &audio.Signal{
		SampleRate: sig.SampleRate,
		Channels:   make([][]float64, len(sig.Channels)),
	}
	for ch := range out.Channels {
		out.Channels[ch] = make([]float64, kept)
	}

	pos := 0
	for i, k := range keep {
		span := k.End - k.Start
		f := fade
		if f > span {
			f = span
		}

		for ch, src := range sig.Channels {
			dst := out.Channels[ch][pos : pos+span]
			copy(dst, src[k.Start:k.End])

			// Fade in after a cut (every range but the first)
			if i > 0 {
				for j := 0; j < f; j++ {
					dst[j] *= float64(j) / float64(f)
				}
			}
			// Fade out before a cut (every range but the last)
			if i < len(keep)-1 {
				for j := 0; j < f; j++ {
					dst[span-1-j] *= float64(j) / float64(f)
				}
			}
		}
		pos += span
	}

	stats.ProcessedSeconds = out.Duration()
	stats.RemovedSeconds = stats.OriginalSeconds - stats.ProcessedSeconds
	return out, stats, nil
}

// Trim runs detection and splicing in one step. On ErrNoRemovableSilence the
// analysis is still returned so callers can report what was measured.
func Trim(sig *audio.Signal, cfg Config) (*audio.Signal, *Analysis, Stats, error) {
	analysis, err := Analyze(sig, cfg)
	if err != nil {
		return nil, nil, Stats{}, err
	}
	out, stats, err := Splice(sig, analysis.Runs, cfg)
	if err != nil {
		return nil, analysis, stats, err
	}
	return out, analysis, stats, nil
}
