// Package ui renders finlink's terminal output: colored status lines, tables,
// interactive prompts, and step progress.
package ui

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/briandowns/spinner"
	"github.com/chzyer/readline"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
)

// Terminal writes user-facing output to a single writer and reads prompt
// answers from the controlling terminal.
type Terminal struct {
	out  io.Writer
	spin *spinner.Spinner
}

// NewTerminal creates a Terminal writing to stdout.
func NewTerminal() *Terminal {
	return &Terminal{out: os.Stdout}
}

// newTerminalWithWriter is used by tests to capture output.
func newTerminalWithWriter(out io.Writer) *Terminal {
	return &Terminal{out: out}
}

// Print writes a plain line.
func (t *Terminal) Print(format string, args ...interface{}) {
	fmt.Fprintf(t.out, format+"\n", args...)
}

// Bold writes an emphasized line.
func (t *Terminal) Bold(format string, args ...interface{}) {
	fmt.Fprintln(t.out, text.Bold.Sprintf(format, args...))
}

// Success writes a green status line.
func (t *Terminal) Success(format string, args ...interface{}) {
	fmt.Fprintln(t.out, text.FgGreen.Sprintf(format, args...))
}

// Warning writes a yellow status line.
func (t *Terminal) Warning(format string, args ...interface{}) {
	fmt.Fprintln(t.out, text.FgYellow.Sprintf(format, args...))
}

// Error writes a red status line.
func (t *Terminal) Error(format string, args ...interface{}) {
	fmt.Fprintln(t.out, text.FgRed.Sprintf(format, args...))
}

// Prompt reads one line of input under the given label.
func (t *Terminal) Prompt(label string) (string, error) {
	rl, err := readline.New(label + " ")
	if err != nil {
		return "", fmt.Errorf("failed to open prompt: %w", err)
	}
	defer rl.Close()

	line, err := rl.Readline()
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(line), nil
}

// Confirm asks a yes/no question. Only an explicit "y" counts as yes.
func (t *Terminal) Confirm(question string) (bool, error) {
	answer, err := t.Prompt(question + " (y/n):")
	if err != nil {
		return false, err
	}
	return strings.EqualFold(answer, "y"), nil
}

// Table renders rows under a titled header.
func (t *Terminal) Table(title string, header []string, rows [][]string) {
	tw := table.NewWriter()
	tw.SetOutputMirror(t.out)
	tw.SetStyle(table.StyleLight)
	tw.SetTitle(title)

	headerRow := table.Row{}
	for _, h := range header {
		headerRow = append(headerRow, h)
	}
	tw.AppendHeader(headerRow)

	for _, row := range rows {
		tableRow := table.Row{}
		for _, cell := range row {
			tableRow = append(tableRow, cell)
		}
		tw.AppendRow(tableRow)
	}

	tw.Render()
}

// StartProgress begins a spinner with the given message. Any prior spinner is
// replaced.
func (t *Terminal) StartProgress(message string) {
	t.StopProgress()
	t.spin = spinner.New(spinner.CharSets[14], 100*time.Millisecond, spinner.WithWriter(t.out))
	t.spin.Suffix = " " + message
	t.spin.Start()
}

// UpdateProgress changes the spinner message.
func (t *Terminal) UpdateProgress(message string) {
	if t.spin != nil {
		t.spin.Suffix = " " + message
	}
}

// StopProgress stops the spinner, if one is running.
func (t *Terminal) StopProgress() {
	if t.spin != nil {
		t.spin.Stop()
		t.spin = nil
	}
}
