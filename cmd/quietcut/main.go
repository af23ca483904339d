package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/alecthomas/kong"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/quietcut/quietcut/internal/cli"
	"github.com/quietcut/quietcut/internal/logging"
	"github.com/quietcut/quietcut/internal/processor"
	"github.com/quietcut/quietcut/internal/tuning"
	"github.com/quietcut/quietcut/internal/ui"
	"github.com/quietcut/quietcut/internal/waveform"
)

var (
	version = "0.0.1"
)

// CLI defines the command-line interface
type CLI struct {
	Version      bool     `short:"v" help:"Show version information"`
	Config       string   `short:"c" type:"path" help:"Path to TOML tuning file (optional)"`
	MinSilence   float64  `help:"Minimum silence length to remove, in seconds" default:"1.5"`
	Transcript   string   `short:"t" type:"path" help:"Provider transcript JSON to align (single file only)"`
	Captions     bool     `help:"Export an SRT captions file from the aligned transcript"`
	PeaksSidecar bool     `help:"Write waveform peaks JSON next to the output"`
	Analyze      bool     `help:"Analyze and report without writing trimmed audio"`
	Logs         bool     `help:"Save a detailed trim report next to each input"`
	Files        []string `arg:"" name:"files" help:"Audio files to trim (WAV or MP3)" type:"existingfile" optional:""`
}

func main() {
	cliArgs := &CLI{}
	ctx := kong.Parse(cliArgs,
		kong.Name("quietcut"),
		kong.Description("Voice memo silence trimmer and transcript aligner"),
		kong.UsageOnError(),
		kong.Vars{
			"version": version,
		},
		kong.Help(cli.StyledHelpPrinter(kong.HelpOptions{Compact: true})),
	)

	if cliArgs.Version {
		cli.PrintVersion(version)
		os.Exit(0)
	}

	if len(cliArgs.Files) == 0 {
		cli.PrintError("No input files specified")
		ctx.PrintUsage(false)
		os.Exit(1)
	}
	if cliArgs.Transcript != "" && len(cliArgs.Files) > 1 {
		cli.PrintError("--transcript only applies when trimming a single file")
		os.Exit(1)
	}

	settings, err := loadSettings(cliArgs)
	if err != nil {
		cli.PrintError(err.Error())
		os.Exit(1)
	}

	if cliArgs.Analyze {
		runAnalysis(cliArgs, settings)
		return
	}
	runBatch(cliArgs, settings)
}

// loadSettings resolves the tuning: file overrides on top of defaults, then
// the --min-silence flag on top of both.
func loadSettings(cliArgs *CLI) (tuning.Settings, error) {
	settings := tuning.Defaults()
	if cliArgs.Config != "" {
		var err error
		settings, err = tuning.Load(cliArgs.Config)
		if err != nil {
			return settings, err
		}
	}
	if cliArgs.MinSilence != settings.Trim.MinSilenceSeconds {
		settings.Trim.MinSilenceSeconds = cliArgs.MinSilence
		if err := settings.Validate(); err != nil {
			return settings, err
		}
	}
	return settings, nil
}

func optionsFor(cliArgs *CLI, settings tuning.Settings, cache *waveform.Cache) processor.Options {
	return processor.Options{
		Settings:       settings,
		TranscriptPath: cliArgs.Transcript,
		ExportCaptions: cliArgs.Captions,
		PeaksSidecar:   cliArgs.PeaksSidecar,
		Cache:          cache,
		AnalyzeOnly:    cliArgs.Analyze,
	}
}

// runBatch trims every queued file behind the batch TUI.
func runBatch(cliArgs *CLI, settings tuning.Settings) {
	cache := waveform.NewCache()
	model := ui.NewModel(cliArgs.Files)
	p := tea.NewProgram(model, tea.WithAltScreen())

	go func() {
		for i, inputPath := range cliArgs.Files {
			startTime := time.Now()
			p.Send(ui.FileStartMsg{FileIndex: i, FileName: inputPath})

			result, err := processor.ProcessRecording(inputPath, optionsFor(cliArgs, settings, cache),
				func(stage string, fraction float64) {
					p.Send(ui.ProgressMsg{Stage: stage, Fraction: fraction})
				})
			if err != nil {
				p.Send(ui.FileCompleteMsg{FileIndex: i, Error: err})
				continue
			}

			if cliArgs.Logs {
				reportErr := logging.GenerateReport(logging.ReportData{
					InputPath: inputPath,
					StartTime: startTime,
					EndTime:   time.Now(),
					Result:    result,
				})
				if reportErr != nil {
					cli.PrintError(fmt.Sprintf("report for %s: %v", filepath.Base(inputPath), reportErr))
				}
			}

			p.Send(ui.FileCompleteMsg{FileIndex: i, Result: result})
		}
		p.Send(ui.AllCompleteMsg{})
	}()

	if _, err := p.Run(); err != nil {
		cli.PrintError(fmt.Sprintf("UI error: %v", err))
		os.Exit(1)
	}
}

// runAnalysis measures each file without writing audio, showing a spinner
// per file and printing the analysis afterwards.
func runAnalysis(cliArgs *CLI, settings tuning.Settings) {
	for _, inputPath := range cliArgs.Files {
		model := ui.NewAnalysisModel()
		p := tea.NewProgram(model)

		go func(path string) {
			p.Send(ui.AnalysisStartMsg{FilePath: path})
			result, err := processor.ProcessRecording(path, optionsFor(cliArgs, settings, nil),
				func(stage string, fraction float64) {
					if fraction == 0.0 {
						p.Send(ui.AnalysisProgressMsg{Stage: stage})
					}
				})
			p.Send(ui.AnalysisCompleteMsg{Result: result, Error: err})
		}(inputPath)

		final, err := p.Run()
		if err != nil {
			cli.PrintError(fmt.Sprintf("UI error: %v", err))
			os.Exit(1)
		}

		m, ok := final.(ui.AnalysisModel)
		if !ok || m.Result == nil {
			if ok && m.Error != nil {
				cli.PrintError(fmt.Sprintf("%s: %v", filepath.Base(inputPath), m.Error))
			}
			continue
		}
		logging.DisplayAnalysisResults(os.Stdout, m.Result)
		fmt.Println(strings.Repeat("─", 70))
	}
}
