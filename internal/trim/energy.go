// Package trim implements dead-air removal: frame energy analysis, adaptive
// silence detection, and splicing of the retained audio with crossfades.
package trim

import (
	"math"

	"github.com/quietcut/quietcut/internal/audio"
)

// frameSeconds is the fixed analysis frame duration. 20ms frames are short
// enough to localise cut points within one caption word and long enough to
// smooth over single-sample clicks.
const frameSeconds = 0.02

// minFrameSamples guards the frame size for very low sample rates.
const minFrameSamples = 256

// FrameSize returns the analysis frame length in samples for a sample rate.
func FrameSize(sampleRate int) int {
	size := int(math.Round(float64(sampleRate) * frameSeconds))
	if size < minFrameSamples {
		size = minFrameSamples
	}
	return size
}

// FrameEnergies slices the signal into fixed-size frames and returns one
// non-negative energy value per frame: the mean absolute sample value across
// all channels. The final partial frame is averaged over the samples it
// actually covers. Pure function, O(n) in sample count.
func FrameEnergies(sig *audio.Signal) []float64 {
	total := sig.Samples()
	if total == 0 {
		return nil
	}

	frameSize := FrameSize(sig.SampleRate)
	frameCount := (total + frameSize - 1) / frameSize
	energies := make([]float64, frameCount)

	for f := 0; f < frameCount; f++ {
		start := f * frameSize
		end := start + frameSize
		if end > total {
			end = total
		}

		sum := 0.0
		for _, ch := range sig.Channels {
			for i := start; i < end; i++ {
				sum += math.Abs(ch[i])
			}
		}
		count := (end - start) * len(sig.Channels)
		if count > 0 {
			energies[f] = sum / float64(count)
		}
	}
	return energies
}
