package ui

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/quietcut/quietcut/internal/processor"
)

// Spinner frames for indeterminate progress
var spinnerFrames = []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}

// AnalysisModel is the Bubbletea model for analyze-only mode: a single file,
// a spinner, and quit on completion. The full analysis is printed to the
// console after the UI exits.
type AnalysisModel struct {
	FileName string
	FilePath string

	Stage     string
	StartTime time.Time

	spinnerIndex int

	Result *processor.Result
	Error  error
	Done   bool

	Width  int
	Height int
}

// AnalysisStartMsg signals analysis has started.
type AnalysisStartMsg struct {
	FilePath string
}

// AnalysisProgressMsg signals a stage transition.
type AnalysisProgressMsg struct {
	Stage string
}

// AnalysisCompleteMsg signals analysis has completed.
type AnalysisCompleteMsg struct {
	Result *processor.Result
	Error  error
}

// tickMsg drives the spinner animation.
type tickMsg time.Time

// NewAnalysisModel creates the analyze-only UI model.
func NewAnalysisModel() AnalysisModel {
	return AnalysisModel{StartTime: time.Now()}
}

// Init implements tea.Model.
func (m AnalysisModel) Init() tea.Cmd {
	return tickCmd()
}

func tickCmd() tea.Cmd {
	return tea.Tick(100*time.Millisecond, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

// Update implements tea.Model.
func (m AnalysisModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		}

	case tea.WindowSizeMsg:
		m.Width = msg.Width
		m.Height = msg.Height

	case tickMsg:
		if !m.Done {
			m.spinnerIndex = (m.spinnerIndex + 1) % len(spinnerFrames)
			return m, tickCmd()
		}
		return m, nil

	case AnalysisStartMsg:
		m.FileName = filepath.Base(msg.FilePath)
		m.FilePath = msg.FilePath
		m.StartTime = time.Now()
		return m, nil

	case AnalysisProgressMsg:
		m.Stage = msg.Stage
		return m, nil

	case AnalysisCompleteMsg:
		m.Result = msg.Result
		m.Error = msg.Error
		m.Done = true
		return m, tea.Quit
	}

	return m, nil
}

// View implements tea.Model.
func (m AnalysisModel) View() string {
	if m.Width == 0 {
		return "Initializing..."
	}

	var b strings.Builder

	title := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("#005F87")).
		Render("QuietCut")
	subtitle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("#888888")).
		Italic(true).
		Render("Analysis Mode")
	b.WriteString(title + " " + subtitle)
	b.WriteString("\n\n")

	if m.FileName == "" {
		b.WriteString("Waiting...")
		return b.String()
	}

	fileStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("#FFFFFF")).
		Bold(true)
	b.WriteString("Analysing: ")
	b.WriteString(fileStyle.Render(m.FileName))
	b.WriteString("\n\n")

	if !m.Done {
		spinnerStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("#005F87"))
		b.WriteString(spinnerStyle.Render(spinnerFrames[m.spinnerIndex]))
		stage := m.Stage
		if stage == "" {
			stage = "Starting"
		}
		b.WriteString(" " + stage + "...")
		b.WriteString(fmt.Sprintf(" [%s]", formatElapsed(time.Since(m.StartTime))))
		b.WriteString("\n")
	}

	return b.String()
}

// formatElapsed formats elapsed time as MM:SS or HH:MM:SS.
func formatElapsed(d time.Duration) string {
	d = d.Round(time.Second)
	h := d / time.Hour
	d -= h * time.Hour
	m := d / time.Minute
	d -= m * time.Minute
	s := d / time.Second

	if h > 0 {
		return fmt.Sprintf("%02d:%02d:%02d", h, m, s)
	}
	return fmt.Sprintf("%02d:%02d", m, s)
}
