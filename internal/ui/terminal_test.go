package ui

import (
	"bytes"
	"strings"
	"testing"
)

func TestStatusLines(t *testing.T) {
	var buf bytes.Buffer
	term := newTerminalWithWriter(&buf)

	term.Print("plain %d", 1)
	term.Bold("bold line")
	term.Success("all good")
	term.Warning("careful")
	term.Error("broken")

	out := buf.String()
	for _, want := range []string{"plain 1", "bold line", "all good", "careful", "broken"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestTable(t *testing.T) {
	var buf bytes.Buffer
	term := newTerminalWithWriter(&buf)

	term.Table("Your Financial Connections",
		[]string{"ID", "Name", "Date Added"},
		[][]string{
			{"item-1", "chequing", "2026-01-02 15:04:05"},
			{"item-2", "savings", "2026-01-03 09:30:00"},
		})

	out := buf.String()
	for _, want := range []string{"Your Financial Connections", "ID", "chequing", "savings", "item-2"} {
		if !strings.Contains(out, want) {
			t.Errorf("table output missing %q:\n%s", want, out)
		}
	}
}

func TestProgressLifecycle(t *testing.T) {
	var buf bytes.Buffer
	term := newTerminalWithWriter(&buf)

	// UpdateProgress and StopProgress without a spinner must be safe.
	term.UpdateProgress("nothing running")
	term.StopProgress()

	term.StartProgress("working...")
	if term.spin == nil {
		t.Fatal("expected a running spinner after StartProgress")
	}
	term.UpdateProgress("still working...")
	if !strings.Contains(term.spin.Suffix, "still working") {
		t.Errorf("spinner suffix not updated, got %q", term.spin.Suffix)
	}

	term.StopProgress()
	if term.spin != nil {
		t.Error("expected spinner to be cleared after StopProgress")
	}
}
