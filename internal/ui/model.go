// Package ui provides the Bubbletea terminal user interface for quietcut.
package ui

import (
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/quietcut/quietcut/internal/processor"
)

// FileStatus is the processing state of a single queued file.
type FileStatus int

const (
	StatusQueued FileStatus = iota
	StatusWorking
	StatusComplete
	StatusSkipped // nothing to trim
	StatusError
)

// FileProgress tracks one audio file through the pipeline.
type FileProgress struct {
	InputPath string
	Status    FileStatus

	// Stage tracking
	Stage    string // current processor stage name
	Fraction float64

	StartTime   time.Time
	ElapsedTime time.Duration

	// Completion data
	Result *processor.Result
	Error  error
}

// Model is the Bubbletea model for the batch processing UI.
type Model struct {
	Files          []FileProgress
	CurrentIndex   int
	TotalFiles     int
	CompletedFiles int
	SkippedFiles   int
	FailedFiles    int

	StartTime time.Time
	Done      bool

	// Terminal dimensions
	Width  int
	Height int
}

// NewModel creates a UI model for the given input files.
func NewModel(inputFiles []string) Model {
	files := make([]FileProgress, len(inputFiles))
	for i, path := range inputFiles {
		files[i] = FileProgress{
			InputPath: path,
			Status:    StatusQueued,
		}
	}
	return Model{
		Files:        files,
		CurrentIndex: -1,
		TotalFiles:   len(inputFiles),
		StartTime:    time.Now(),
	}
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		}

	case tea.WindowSizeMsg:
		m.Width = msg.Width
		m.Height = msg.Height

	case ProgressMsg:
		if m.CurrentIndex >= 0 && m.CurrentIndex < len(m.Files) {
			fp := &m.Files[m.CurrentIndex]
			fp.Stage = msg.Stage
			fp.Fraction = msg.Fraction
			fp.ElapsedTime = time.Since(fp.StartTime)
		}

	case FileStartMsg:
		m.CurrentIndex = msg.FileIndex
		m.Files[m.CurrentIndex].Status = StatusWorking
		m.Files[m.CurrentIndex].StartTime = time.Now()

	case FileCompleteMsg:
		if msg.FileIndex >= 0 && msg.FileIndex < len(m.Files) {
			fp := &m.Files[msg.FileIndex]
			fp.Result = msg.Result
			fp.Error = msg.Error
			switch {
			case msg.Error != nil:
				fp.Status = StatusError
				m.FailedFiles++
			case msg.Result != nil && msg.Result.TrimSkipped:
				fp.Status = StatusSkipped
				m.SkippedFiles++
			default:
				fp.Status = StatusComplete
				m.CompletedFiles++
			}
		}

	case AllCompleteMsg:
		m.Done = true
		return m, tea.Quit
	}

	return m, nil
}

// View implements tea.Model.
func (m Model) View() string {
	if m.Width == 0 {
		return fmt.Sprintf("Initializing...\nFiles: %d\n", len(m.Files))
	}
	if m.Done {
		return renderCompletionSummary(m)
	}
	return renderProcessingView(m)
}
