package timeline

// Window is the active-speech region of a clip in seconds.
type Window struct {
	Start float64
	End   float64
}

// SpeechWindow locates the region of the clip where the waveform shows
// speech energy. The threshold adapts to the peak dynamic range (quiet
// recordings still get a window) with an absolute floor so scrubber noise
// alone never opens one. The window is padded outward by a fraction of a
// bucket duration on each side and clamped to the clip.
//
// Returns nil when no peaks are available or nothing rises above threshold;
// callers fall back to the full clip.
func SpeechWindow(peaks []float64, duration float64, cfg Config) *Window {
	if len(peaks) == 0 || duration <= 0 {
		return nil
	}

	minPeak, maxPeak := peaks[0], peaks[0]
	for _, p := range peaks {
		if p < minPeak {
			minPeak = p
		}
		if p > maxPeak {
			maxPeak = p
		}
	}

	threshold := minPeak + (maxPeak-minPeak)*cfg.WindowThresholdRatio
	if threshold < cfg.WindowThresholdFloor {
		threshold = cfg.WindowThresholdFloor
	}

	first, last := -1, -1
	for i, p := range peaks {
		if p >= threshold {
			if first < 0 {
				first = i
			}
			last = i
		}
	}
	if first < 0 {
		return nil
	}

	bucketDur := duration / float64(len(peaks))
	pad := bucketDur * cfg.WindowPadBuckets

	start := float64(first)*bucketDur - pad
	end := float64(last+1)*bucketDur + pad
	if start < 0 {
		start = 0
	}
	if end > duration {
		end = duration
	}
	if end <= start {
		return nil
	}
	return &Window{Start: start, End: end}
}
