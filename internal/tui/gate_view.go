// internal/tui/gate_view.go
//
// The gate screen. It shows the prompt for the phase awaiting confirmation
// and collects the decision: approve or pause, with an optional comment.
// Submitting runs the controller in a command and the result arrives back
// as a decisionAppliedMsg.

package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/evanhart/stagegate/internal/gate"
)

type gateMode int

const (
	modeDeciding gateMode = iota // waiting for approve or pause
	modeComment                  // collecting the optional comment
)

// decisionAppliedMsg carries the controller result back into the model.
type decisionAppliedMsg struct {
	result gate.TransitionResult
	err    error
}

type gateView struct {
	app      *App
	mode     gateMode
	approved bool
	comment  textinput.Model
	errMsg   string
}

func newGateView(app *App) *gateView {
	input := textinput.New()
	input.Placeholder = "optional comment, enter to submit"
	input.CharLimit = 240
	input.Width = 60
	return &gateView{app: app, comment: input}
}

func (v *gateView) reset() {
	v.mode = modeDeciding
	v.approved = false
	v.errMsg = ""
	v.comment.Reset()
	v.comment.Blur()
}

// handleKey consumes navigation keys. It reports false for anything that
// should fall through to the focused text input.
func (v *gateView) handleKey(msg tea.KeyMsg) (tea.Cmd, bool) {
	key := msg.String()
	if v.mode == modeComment {
		switch key {
		case "enter":
			return v.submit(), true
		case "esc":
			v.mode = modeDeciding
			v.comment.Reset()
			v.comment.Blur()
			return nil, true
		}
		return nil, false
	}
	switch key {
	case "y", "a":
		v.approved = true
		v.beginComment()
		return nil, true
	case "n", "p":
		v.approved = false
		v.beginComment()
		return nil, true
	case "esc":
		v.app.returnToMainMenu()
		return nil, true
	case "q":
		return tea.Quit, true
	}
	return nil, true
}

func (v *gateView) beginComment() {
	v.mode = modeComment
	v.comment.Reset()
	v.comment.Focus()
}

func (v *gateView) submit() tea.Cmd {
	decision := gate.Decision{
		Approved: v.approved,
		Comment:  strings.TrimSpace(v.comment.Value()),
	}
	ctrl := v.app.ctrl
	return func() tea.Msg {
		result, err := ctrl.SubmitDecision(decision)
		return decisionAppliedMsg{result: result, err: err}
	}
}

func (v *gateView) Update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case decisionAppliedMsg:
		return v.applyDecision(msg)
	}
	if v.mode == modeComment {
		var cmd tea.Cmd
		v.comment, cmd = v.comment.Update(msg)
		return cmd
	}
	return nil
}

func (v *gateView) applyDecision(msg decisionAppliedMsg) tea.Cmd {
	if msg.err != nil {
		v.errMsg = msg.err.Error()
		v.mode = modeDeciding
		v.comment.Blur()
		v.app.log.Error("Gate decision failed: %v", msg.err)
		return nil
	}
	switch msg.result.Outcome {
	case gate.OutcomeAdvanced:
		ws := msg.result.State
		v.app.log.Info("Advanced to phase %d (%s)", ws.CurrentPhase, ws.PhaseName)
		v.app.statusMsg = fmt.Sprintf("Approved. Now gating phase %d (%s).", ws.CurrentPhase, ws.PhaseName)
		v.reset()
	case gate.OutcomePaused:
		v.app.log.Info("Workflow paused at phase %d", msg.result.State.CurrentPhase)
		v.app.showPaused(msg.result.State)
	case gate.OutcomeCompleted:
		v.app.log.Info("Workflow completed")
		v.app.showCompleted()
	}
	return nil
}

func (v *gateView) View() string {
	prompt := v.app.ctrl.Prompt()
	lines := []string{
		titleStyle.Render(fmt.Sprintf("Phase %d: %s", prompt.Phase, prompt.Name)),
		"",
		labelStyle.Render("Agent:        ") + prompt.Agent,
		labelStyle.Render("Instructions: ") + prompt.Instructions,
		"",
	}
	if v.mode == modeComment {
		verb := approveStyle.Render("approve")
		if !v.approved {
			verb = pauseStyle.Render("pause")
		}
		lines = append(lines,
			fmt.Sprintf("Comment for %s:", verb),
			v.comment.View(),
			"",
			dimStyle.Render("enter=submit  esc=back"),
		)
	} else {
		lines = append(lines,
			approveStyle.Render("y")+dimStyle.Render("=approve  ")+
				pauseStyle.Render("n")+dimStyle.Render("=pause  esc=menu  q=quit"),
		)
	}
	if v.errMsg != "" {
		lines = append(lines, "", pauseStyle.Render("Error: "+v.errMsg))
	}
	return panelStyle.Render(strings.Join(lines, "\n"))
}
