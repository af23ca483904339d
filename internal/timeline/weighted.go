package timeline

// WeightedMap is a monotonic mapping from a normalized position (0..1) in a
// block of text to an estimated time offset, biased toward where the
// waveform shows energy. High-energy buckets get more of the text span, so
// caption anchors cluster where speech is dense; when weights are uniform
// the mapping degrades gracefully to linear.
type WeightedMap struct {
	start float64
	end   float64

	// Piecewise-linear interpolation tables. Nil cum means pure linear.
	edges []float64 // time at bucket boundaries, len n+1
	cum   []float64 // cumulative weight at boundaries, len n+1, cum[0] = 0
}

// NewLinearMap returns a uniform mapping over [start, end].
func NewLinearMap(start, end float64) *WeightedMap {
	if end < start {
		end = start
	}
	return &WeightedMap{start: start, end: end}
}

// NewWeightedMap builds an energy-weighted mapping over the whole clip.
func NewWeightedMap(peaks []float64, duration float64, cfg Config) *WeightedMap {
	return NewWeightedMapSpan(peaks, duration, 0, duration, cfg)
}

// NewWeightedMapSpan builds an energy-weighted mapping restricted to the
// [spanStart, spanEnd) sub-range of the clip, used to interpolate per-word
// positions inside one already-timed transcript segment. Falls back to a
// linear map when no peaks cover the span or nothing in it is active.
func NewWeightedMapSpan(peaks []float64, duration, spanStart, spanEnd float64, cfg Config) *WeightedMap {
	if spanStart < 0 {
		spanStart = 0
	}
	if spanEnd > duration {
		spanEnd = duration
	}
	if len(peaks) == 0 || duration <= 0 || spanEnd <= spanStart {
		return NewLinearMap(spanStart, spanEnd)
	}

	bucketDur := duration / float64(len(peaks))

	// Buckets overlapping the span, then narrowed to first..last active.
	// The active floor is deliberately looser than the speech-window
	// threshold so quiet speech at the tail still receives time.
	b0 := int(spanStart / bucketDur)
	b1 := int(spanEnd/bucketDur) + 1
	if b1 > len(peaks) {
		b1 = len(peaks)
	}
	firstActive, lastActive := -1, -1
	for b := b0; b < b1; b++ {
		if peaks[b] >= cfg.ActiveFloor {
			if firstActive < 0 {
				firstActive = b
			}
			lastActive = b
		}
	}
	if firstActive < 0 {
		return NewLinearMap(spanStart, spanEnd)
	}

	clampToSpan := func(t float64) float64 {
		if t < spanStart {
			return spanStart
		}
		if t > spanEnd {
			return spanEnd
		}
		return t
	}

	n := lastActive - firstActive + 1
	edges := make([]float64, n+1)
	cum := make([]float64, n+1)
	for i := 0; i <= n; i++ {
		edges[i] = clampToSpan(float64(firstActive+i) * bucketDur)
	}
	for i := 0; i < n; i++ {
		voiced := peaks[firstActive+i] - cfg.ActiveFloor
		if voiced < 0 {
			voiced = 0
		}
		weight := cfg.WeightBase + voiced*cfg.WeightGain
		// Edge buckets may be clipped by the span; scale their weight by
		// the surviving fraction to keep the density proportional
		if frac := (edges[i+1] - edges[i]) / bucketDur; frac < 1 {
			weight *= frac
		}
		cum[i+1] = cum[i] + weight
	}
	if cum[n] <= 0 {
		return NewLinearMap(spanStart, spanEnd)
	}

	return &WeightedMap{
		start: edges[0],
		end:   edges[n],
		edges: edges,
		cum:   cum,
	}
}

// Start returns the first time the map can produce.
func (m *WeightedMap) Start() float64 { return m.start }

// End returns the last time the map can produce.
func (m *WeightedMap) End() float64 { return m.end }

// MapFraction maps a fractional position f in [0,1] of the covered text to
// an absolute time offset. The result is non-decreasing in f.
func (m *WeightedMap) MapFraction(f float64) float64 {
	if f <= 0 {
		return m.start
	}
	if f >= 1 {
		return m.end
	}
	if m.cum == nil {
		return m.start + f*(m.end-m.start)
	}

	target := m.cum[len(m.cum)-1] * f

	// Binary search for the bucket whose cumulative bracket contains target
	lo, hi := 0, len(m.cum)-2
	for lo < hi {
		mid := (lo + hi) / 2
		if m.cum[mid+1] < target {
			lo = mid + 1
		} else {
			hi = mid
		}
	}

	span := m.cum[lo+1] - m.cum[lo]
	if span <= 0 {
		return m.edges[lo]
	}
	frac := (target - m.cum[lo]) / span
	return m.edges[lo] + frac*(m.edges[lo+1]-m.edges[lo])
}
