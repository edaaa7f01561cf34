// internal/tui/app.go
//
// The interactive gate console. It uses bubbletea, which follows The Elm
// Architecture: the App model holds all state, Update reacts to messages,
// and View renders a string. The console is one adapter over the gate
// controller; the plain prompter in internal/orchestrator is another.

package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/evanhart/stagegate/internal/audit"
	"github.com/evanhart/stagegate/internal/config"
	"github.com/evanhart/stagegate/internal/gate"
	"github.com/evanhart/stagegate/internal/logbook"
	"github.com/evanhart/stagegate/internal/phase"
	"github.com/evanhart/stagegate/internal/state"
)

// appState represents which screen is showing.
type appState int

const (
	stateMainMenu   appState = iota // menu with gate / audit options
	stateGate                       // the current gate awaiting a decision
	stateAuditTrail                 // recorded decisions
	stateOutcome                    // paused or completed summary
)

const auditTailLimit = 20

var (
	titleStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#F7B801")).Bold(true)
	labelStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#5B8DEF")).Bold(true)
	dimStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#A0AEC0"))
	approveStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#4CAF50")).Bold(true)
	pauseStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF6B6B")).Bold(true)
	panelStyle   = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(1, 2)
)

// App is the main application model.
type App struct {
	state  appState
	config *config.Config
	ctrl   *gate.Controller
	trail  *audit.Trail
	log    *logbook.Logbook

	mainMenu list.Model
	gateView *gateView

	auditEntries []audit.Entry
	auditErr     error

	outcomeTitle string
	outcomeBody  string

	statusMsg string
	width     int
	height    int
}

// menuItem implements the list.Item interface for menu entries.
type menuItem struct {
	title string
	desc  string
}

func (i menuItem) Title() string       { return i.title }
func (i menuItem) Description() string { return i.desc }
func (i menuItem) FilterValue() string { return i.title }

// NewApp loads the project configuration and wires the console to the gate
// controller for this project's state files.
func NewApp(projectDir string) (*App, error) {
	cfg, err := config.New(projectDir)
	if err != nil {
		return nil, err
	}
	paths := cfg.Paths()
	roster, err := phase.LoadRoster(paths.RosterFile)
	if err != nil {
		return nil, err
	}
	trail := audit.NewTrail(paths.AuditFile)
	ctrl, err := gate.New(state.NewFileStore(paths.StateFile), trail, roster)
	if err != nil {
		return nil, err
	}
	lb, err := logbook.Open(paths.LogFile)
	if err == nil {
		ws := ctrl.State()
		lb.Info("Console opened at phase %d (%s), status %s", ws.CurrentPhase, ws.PhaseName, ws.Status)
	}

	mainMenu := list.New(buildMainMenu(ctrl.State()), list.NewDefaultDelegate(), 0, 0)
	mainMenu.Title = "STAGEGATE"
	mainMenu.SetShowStatusBar(false)
	mainMenu.SetFilteringEnabled(false)

	app := &App{
		state:    stateMainMenu,
		config:   cfg,
		ctrl:     ctrl,
		trail:    trail,
		log:      lb,
		mainMenu: mainMenu,
	}
	app.gateView = newGateView(app)
	return app, nil
}

// buildMainMenu creates menu items reflecting the workflow state.
func buildMainMenu(ws state.Workflow) []list.Item {
	items := []list.Item{}
	switch {
	case ws.Completed():
		items = append(items, menuItem{
			title: "Workflow Complete",
			desc:  "All 14 phases are approved; nothing left to gate",
		})
	case ws.Status == state.StatusPaused:
		items = append(items, menuItem{
			title: fmt.Sprintf("Resume at Phase %d (%s)", ws.CurrentPhase, ws.PhaseName),
			desc:  "Pick up the gate the workflow paused on",
		})
	case ws.Status == state.StatusNotStarted:
		items = append(items, menuItem{
			title: "Start Workflow",
			desc:  fmt.Sprintf("Begin at phase %d (%s)", ws.CurrentPhase, ws.PhaseName),
		})
	default:
		items = append(items, menuItem{
			title: fmt.Sprintf("Review Gate %d (%s)", ws.CurrentPhase, ws.PhaseName),
			desc:  "Decide the phase currently awaiting confirmation",
		})
	}
	items = append(items,
		menuItem{title: "Audit Trail", desc: "Browse recorded gate decisions"},
		menuItem{title: "Exit", desc: "Quit stagegate"},
	)
	return items
}

func (a *App) refreshMainMenu() {
	a.mainMenu.SetItems(buildMainMenu(a.ctrl.State()))
	a.mainMenu.Select(0)
}

// Init is called once when the program starts.
func (a *App) Init() tea.Cmd {
	return nil
}

// Update reacts to one message.
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.mainMenu.SetSize(maxInt(0, msg.Width-6), maxInt(0, msg.Height-8))
		return a, nil

	case decisionAppliedMsg:
		return a, a.gateView.Update(msg)

	case tea.KeyMsg:
		key := msg.String()
		if key == "ctrl+c" {
			return a, tea.Quit
		}
		switch a.state {
		case stateMainMenu:
			switch key {
			case "q":
				return a, tea.Quit
			case "enter":
				return a.handleMainMenuSelection()
			}
		case stateGate:
			if cmd, handled := a.gateView.handleKey(msg); handled {
				return a, cmd
			}
		case stateAuditTrail, stateOutcome:
			switch key {
			case "q":
				return a, tea.Quit
			case "esc", "enter":
				a.returnToMainMenu()
				return a, nil
			}
		}
	}

	if a.state == stateMainMenu {
		var cmd tea.Cmd
		a.mainMenu, cmd = a.mainMenu.Update(msg)
		return a, cmd
	}
	if a.state == stateGate {
		return a, a.gateView.Update(msg)
	}
	return a, nil
}

func (a *App) handleMainMenuSelection() (tea.Model, tea.Cmd) {
	item, ok := a.mainMenu.SelectedItem().(menuItem)
	if !ok {
		return a, nil
	}
	switch {
	case item.title == "Audit Trail":
		a.openAuditTrail()
		return a, nil
	case item.title == "Exit":
		return a, tea.Quit
	case item.title == "Workflow Complete":
		a.showCompleted()
		return a, nil
	default:
		a.log.Info("Gate opened for phase %d", a.ctrl.State().CurrentPhase)
		a.state = stateGate
		a.gateView.reset()
		return a, nil
	}
}

func (a *App) openAuditTrail() {
	a.auditEntries, a.auditErr = a.trail.Tail(auditTailLimit)
	a.state = stateAuditTrail
}

func (a *App) returnToMainMenu() {
	a.refreshMainMenu()
	a.statusMsg = ""
	a.state = stateMainMenu
}

func (a *App) showPaused(ws state.Workflow) {
	a.outcomeTitle = "Workflow paused"
	a.outcomeBody = fmt.Sprintf(
		"Phase %d (%s) was not approved.\nRun stagegate again to resume at the same gate.",
		ws.CurrentPhase, ws.PhaseName)
	a.state = stateOutcome
}

func (a *App) showCompleted() {
	a.outcomeTitle = "Workflow complete"
	a.outcomeBody = "Every phase has been approved and the completion is on the audit trail."
	a.state = stateOutcome
}

// View renders the current screen.
func (a *App) View() string {
	switch a.state {
	case stateGate:
		return a.gateView.View()
	case stateAuditTrail:
		return a.viewAuditTrail()
	case stateOutcome:
		return a.viewOutcome()
	default:
		view := a.mainMenu.View()
		if a.statusMsg != "" {
			view += "\n" + dimStyle.Render(a.statusMsg)
		}
		return view
	}
}

func (a *App) viewAuditTrail() string {
	lines := []string{titleStyle.Render("Audit Trail"), ""}
	switch {
	case a.auditErr != nil:
		lines = append(lines, pauseStyle.Render(fmt.Sprintf("Cannot read audit trail: %v", a.auditErr)))
	case len(a.auditEntries) == 0:
		lines = append(lines, dimStyle.Render("No decisions recorded yet."))
	default:
		for _, entry := range a.auditEntries {
			lines = append(lines, renderAuditEntry(entry))
		}
	}
	lines = append(lines, "", dimStyle.Render("esc=back  q=quit"))
	return strings.Join(lines, "\n")
}

func renderAuditEntry(entry audit.Entry) string {
	style := dimStyle
	switch entry.Action {
	case audit.ActionApproved:
		style = approveStyle
	case audit.ActionPaused:
		style = pauseStyle
	case audit.ActionCompleted:
		style = titleStyle
	}
	return fmt.Sprintf("%s  %s  phase %-2d  %-9s  %s",
		entry.Timestamp.Format("2006-01-02 15:04:05"),
		style.Render(string(entry.Action)),
		entry.Phase,
		entry.Agent,
		entry.Comment,
	)
}

func (a *App) viewOutcome() string {
	body := titleStyle.Render(a.outcomeTitle) + "\n\n" + a.outcomeBody
	return panelStyle.Render(body) + "\n" + dimStyle.Render("esc=menu  q=quit")
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
