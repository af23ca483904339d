package waveform

import "sync"

// Entry is the cached analysis for one recording: its scrubber peaks and the
// duration they were computed against.
type Entry struct {
	Peaks           []float64
	DurationSeconds float64
}

// Cache memoizes waveform peaks per recording identity so repeated playback
// sessions do not re-decode the audio. It is owned by the caller and must be
// invalidated explicitly on re-upload; it is memoization, not control state.
type Cache struct {
	mu      sync.RWMutex
	entries map[string]Entry
}

// NewCache returns an empty peaks cache.
func NewCache() *Cache {
	return &Cache{entries: make(map[string]Entry)}
}

// Get returns the cached entry for a recording, if present.
func (c *Cache) Get(recordingID string) (Entry, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	e, ok := c.entries[recordingID]
	return e, ok
}

// Put stores the peaks and duration for a recording, replacing any previous
// entry.
func (c *Cache) Put(recordingID string, peaks []float64, durationSeconds float64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[recordingID] = Entry{Peaks: peaks, DurationSeconds: durationSeconds}
}

// Invalidate drops the entry for a recording. Call on re-upload.
func (c *Cache) Invalidate(recordingID string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, recordingID)
}

// Len reports the number of cached recordings.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}
