package ui

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// renderProcessingView renders the main batch view.
func renderProcessingView(m Model) string {
	var b strings.Builder

	b.WriteString(renderHeader(m))
	b.WriteString("\n\n")
	b.WriteString(renderFileQueue(m))
	b.WriteString("\n\n")
	b.WriteString(renderOverallProgress(m))

	return b.String()
}

// renderHeader renders the application header.
func renderHeader(m Model) string {
	title := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("#005F87")).
		Render("QuietCut ✂ - Voice Memo Silence Trimmer")

	subtitle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("#888888")).
		Italic(true).
		Render(fmt.Sprintf("Trimming %d file(s)", m.TotalFiles))

	return title + "\n" + subtitle
}

// renderFileQueue renders the list of files with their status.
func renderFileQueue(m Model) string {
	var b strings.Builder
	for i, file := range m.Files {
		b.WriteString(renderFileEntry(file, i, m.CurrentIndex))
		b.WriteString("\n")
	}
	return b.String()
}

// renderFileEntry renders a single file entry in the queue.
func renderFileEntry(file FileProgress, index int, currentIndex int) string {
	fileName := filepath.Base(file.InputPath)

	switch file.Status {
	case StatusComplete:
		icon := lipgloss.NewStyle().Foreground(lipgloss.Color("#00AA00")).Render("✓")
		s := file.Result.Stats
		summary := fmt.Sprintf("%.1fs → %.1fs | removed %.1fs of silence",
			s.OriginalSeconds, s.ProcessedSeconds, s.RemovedSeconds)
		return fmt.Sprintf(" %s %s → %s\n   %s",
			icon, fileName, filepath.Base(file.Result.OutputPath), summary)

	case StatusSkipped:
		icon := lipgloss.NewStyle().Foreground(lipgloss.Color("#888888")).Render("−")
		return fmt.Sprintf(" %s %s\n   Nothing to trim", icon, fileName)

	case StatusWorking:
		icon := lipgloss.NewStyle().Foreground(lipgloss.Color("#FFA500")).Render("⚙")
		return fmt.Sprintf(" %s %s\n%s", icon, fileName, renderFileDetails(file))

	case StatusError:
		icon := lipgloss.NewStyle().Foreground(lipgloss.Color("#A40000")).Render("✗")
		return fmt.Sprintf(" %s %s\n   Error: %v", icon, fileName, file.Error)

	default:
		icon := lipgloss.NewStyle().Foreground(lipgloss.Color("#888888")).Render("○")
		return fmt.Sprintf(" %s %s\n   Queued...", icon, fileName)
	}
}

// renderFileDetails renders detailed progress for the active file.
func renderFileDetails(file FileProgress) string {
	box := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("#005F87")).
		Padding(0, 1).
		Width(60)

	var content strings.Builder
	stage := file.Stage
	if stage == "" {
		stage = "Starting"
	}
	content.WriteString(stage + "\n")
	content.WriteString(renderProgressBar(file.Fraction, 40))
	content.WriteString("\n")
	content.WriteString(fmt.Sprintf("⏱  Elapsed: %.1fs", file.ElapsedTime.Seconds()))

	return box.Render(content.String())
}

// renderProgressBar renders a progress bar.
func renderProgressBar(progress float64, width int) string {
	filled := int(progress * float64(width))
	if filled > width {
		filled = width
	}
	bar := strings.Repeat("█", filled) + strings.Repeat("░", width-filled)
	return fmt.Sprintf("%s %d%%", bar, int(progress*100))
}

// renderOverallProgress renders the footer.
func renderOverallProgress(m Model) string {
	box := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("#888888")).
		Padding(0, 1).
		Width(60)

	var content string
	if m.CurrentIndex >= 0 && m.CurrentIndex < len(m.Files) {
		content = fmt.Sprintf("Trimming file %d of %d (%d complete)",
			m.CurrentIndex+1, m.TotalFiles, m.CompletedFiles)
	} else {
		content = fmt.Sprintf("Overall: %d/%d complete", m.CompletedFiles, m.TotalFiles)
	}
	return box.Render(content)
}

// renderCompletionSummary renders the final summary view.
func renderCompletionSummary(m Model) string {
	var b strings.Builder

	header := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("#00AA00")).
		Render("✨ Trimming Complete!")
	b.WriteString(header)
	b.WriteString("\n\n")

	var totalRemoved float64
	for _, file := range m.Files {
		switch file.Status {
		case StatusComplete:
			b.WriteString(renderCompletedFile(file))
			b.WriteString("\n")
			totalRemoved += file.Result.Stats.RemovedSeconds
		case StatusSkipped:
			b.WriteString(fmt.Sprintf(" − %s: nothing to trim\n", filepath.Base(file.InputPath)))
		case StatusError:
			b.WriteString(fmt.Sprintf(" ✗ %s: %v\n", filepath.Base(file.InputPath), file.Error))
		}
	}

	b.WriteString("\n")
	b.WriteString(strings.Repeat("─", 60))
	b.WriteString("\n")
	b.WriteString(fmt.Sprintf("Removed %.1fs of dead air across %d file(s)\n", totalRemoved, m.CompletedFiles))
	if m.SkippedFiles > 0 {
		b.WriteString(fmt.Sprintf("%d file(s) were already tight and left untouched\n", m.SkippedFiles))
	}

	return b.String()
}

// renderCompletedFile renders the summary line for one trimmed file.
func renderCompletedFile(file FileProgress) string {
	icon := lipgloss.NewStyle().Foreground(lipgloss.Color("#00AA00")).Render("✓")
	r := file.Result

	line := fmt.Sprintf(" %s %s → %s\n   Removed: %.1fs | Kept: %.1fs",
		icon, filepath.Base(file.InputPath), filepath.Base(r.OutputPath),
		r.Stats.RemovedSeconds, r.Stats.ProcessedSeconds)
	if r.CaptionsPath != "" {
		line += fmt.Sprintf("\n   Captions: %s", filepath.Base(r.CaptionsPath))
	}
	return line
}
