// internal/orchestrator/prompter.go
//
// Plain line-oriented prompter for running the loop without the TUI, so the
// workflow can be driven over a pipe or a bare terminal.

package orchestrator

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/evanhart/stagegate/internal/gate"
)

// TerminalPrompter renders gates as text prompts on a reader/writer pair.
type TerminalPrompter struct {
	in  *bufio.Scanner
	out io.Writer
}

// NewTerminalPrompter creates a prompter over the given streams.
func NewTerminalPrompter(in io.Reader, out io.Writer) *TerminalPrompter {
	return &TerminalPrompter{in: bufio.NewScanner(in), out: out}
}

// Confirm prints the gate and reads a yes/no answer plus an optional
// comment. It re-asks on answers it cannot interpret.
func (t *TerminalPrompter) Confirm(p gate.Prompt) (gate.Decision, error) {
	fmt.Fprintf(t.out, "\n--- Phase %d: %s ---\n", p.Phase, p.Name)
	fmt.Fprintf(t.out, "Agent: %s\n", p.Agent)
	if p.Instructions != "" {
		fmt.Fprintf(t.out, "%s\n", p.Instructions)
	}
	for {
		fmt.Fprintf(t.out, "Approve phase %d? [y/n]: ", p.Phase)
		answer, err := t.readLine()
		if err != nil {
			return gate.Decision{}, err
		}
		switch strings.ToLower(strings.TrimSpace(answer)) {
		case "y", "yes":
			comment, err := t.readComment()
			if err != nil {
				return gate.Decision{}, err
			}
			return gate.Decision{Approved: true, Comment: comment}, nil
		case "n", "no":
			comment, err := t.readComment()
			if err != nil {
				return gate.Decision{}, err
			}
			return gate.Decision{Approved: false, Comment: comment}, nil
		default:
			fmt.Fprintln(t.out, "Please answer y or n.")
		}
	}
}

func (t *TerminalPrompter) readComment() (string, error) {
	fmt.Fprint(t.out, "Comment (optional): ")
	comment, err := t.readLine()
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(comment), nil
}

func (t *TerminalPrompter) readLine() (string, error) {
	if !t.in.Scan() {
		if err := t.in.Err(); err != nil {
			return "", err
		}
		return "", io.EOF
	}
	return t.in.Text(), nil
}
