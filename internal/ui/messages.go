package ui

import (
	"github.com/quietcut/quietcut/internal/processor"
)

// ProgressMsg is a pipeline stage update for the current file.
type ProgressMsg struct {
	Stage    string  // processor stage name
	Fraction float64 // 0.0 at stage start, 1.0 at stage end
}

// FileStartMsg indicates a new file has started processing.
type FileStartMsg struct {
	FileIndex int
	FileName  string
}

// FileCompleteMsg indicates a file has finished processing.
type FileCompleteMsg struct {
	FileIndex int
	Result    *processor.Result
	Error     error
}

// AllCompleteMsg indicates every queued file has been processed.
type AllCompleteMsg struct{}
