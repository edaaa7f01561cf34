// cmd/stagegate/main.go
//
// Entry point for the stagegate binary. The current working directory is
// the project being gated: the first run seeds the .stagegate folder and
// every later run resumes from the saved workflow state.
//
// By default the interactive console starts. With -plain the gates run as
// line-mode prompts on stdin/stdout, which suits terminals where the full
// console cannot draw.

package main

import (
	"flag"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/evanhart/stagegate/internal/audit"
	"github.com/evanhart/stagegate/internal/config"
	"github.com/evanhart/stagegate/internal/gate"
	"github.com/evanhart/stagegate/internal/logbook"
	"github.com/evanhart/stagegate/internal/orchestrator"
	"github.com/evanhart/stagegate/internal/phase"
	"github.com/evanhart/stagegate/internal/state"
	"github.com/evanhart/stagegate/internal/tui"
)

func main() {
	plain := flag.Bool("plain", false, "run gates as line-mode prompts instead of the interactive console")
	flag.Parse()

	cwd, err := os.Getwd()
	if err != nil {
		fatal("Error getting working directory: %v", err)
	}

	if err := config.InitProjectDir(cwd); err != nil {
		fatal("Error initializing %s directory: %v", config.StagegateDir, err)
	}

	if *plain {
		runPlain(cwd)
		return
	}

	app, err := tui.NewApp(cwd)
	if err != nil {
		fatal("Error loading project: %v", err)
	}
	p := tea.NewProgram(app, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		fatal("Error running console: %v", err)
	}
}

// runPlain drives the full gate sequence on stdin/stdout.
func runPlain(projectDir string) {
	cfg, err := config.New(projectDir)
	if err != nil {
		fatal("Error loading configuration: %v", err)
	}
	paths := cfg.Paths()

	roster, err := phase.LoadRoster(paths.RosterFile)
	if err != nil {
		fatal("Error loading agent roster: %v", err)
	}

	ctrl, err := gate.New(state.NewFileStore(paths.StateFile), audit.NewTrail(paths.AuditFile), roster)
	if err != nil {
		fatal("Error loading workflow state: %v", err)
	}

	lb, err := logbook.Open(paths.LogFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: logbook unavailable: %v\n", err)
	} else {
		defer lb.Close()
	}

	loop, err := orchestrator.NewLoop(ctrl, orchestrator.NewTerminalPrompter(os.Stdin, os.Stdout), lb)
	if err != nil {
		fatal("Error building orchestrator: %v", err)
	}

	outcome, err := loop.Run()
	if err != nil {
		fatal("Error running workflow: %v", err)
	}
	switch outcome {
	case orchestrator.OutcomePaused:
		fmt.Println("Workflow paused. Run stagegate again to resume.")
	case orchestrator.OutcomeCompleted:
		fmt.Println("Workflow complete.")
	}
}

func fatal(format string, args ...any) {
	fmt.Fprintf(os.Stderr, format+"\n", args...)
	os.Exit(1)
}
