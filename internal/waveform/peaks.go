// Package waveform downsamples a decoded signal into a small fixed number of
// amplitude buckets, used for the playback scrubber and as the energy input
// to the timing heuristics.
package waveform

import (
	"github.com/quietcut/quietcut/internal/audio"
)

const (
	// DefaultBuckets is the scrubber resolution the application renders at.
	DefaultBuckets = 150

	// floorValue keeps visually-silent buckets non-zero for rendering and
	// numerically non-zero for the weighted-speech mapper.
	floorValue = 0.08
)

// Peaks partitions the signal into bucketCount contiguous blocks (the last
// block may be shorter), averages absolute amplitude across channels and
// samples per block, and normalizes so the loudest bucket maps to exactly
// 1.0. Every value lands in [0.08, 1.0]. Returns nil for an empty signal or
// a non-positive bucket count.
func Peaks(sig *audio.Signal, bucketCount int) []float64 {
	if sig == nil || bucketCount <= 0 {
		return nil
	}
	total := sig.Samples()
	if total == 0 {
		return nil
	}

	// Round up so the final block is the short one; timing code assumes
	// every bucket spans duration/len(peaks) except the last.
	blockSize := (total + bucketCount - 1) / bucketCount
	if blockSize < 1 {
		blockSize = 1
	}

	peaks := make([]float64, bucketCount)
	maxPeak := 0.0
	for b := 0; b < bucketCount; b++ {
		start := b * blockSize
		if start >= total {
			break
		}
		end := start + blockSize
		if end > total {
			end = total
		}

		sum := 0.0
		for _, ch := range sig.Channels {
			for i := start; i < end; i++ {
				v := ch[i]
				if v < 0 {
					v = -v
				}
				sum += v
			}
		}
		count := (end - start) * len(sig.Channels)
		if count > 0 {
			peaks[b] = sum / float64(count)
		}
		if peaks[b] > maxPeak {
			maxPeak = peaks[b]
		}
	}

	// Normalize to the loudest bucket, then floor. A fully-silent signal
	// normalizes to the floor everywhere.
	for b := range peaks {
		if maxPeak > 0 {
			peaks[b] /= maxPeak
		}
		if peaks[b] < floorValue {
			peaks[b] = floorValue
		}
	}
	return peaks
}
