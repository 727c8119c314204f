package main

import (
	"fmt"
	"io"

	"github.com/fatih/color"

	"lemonc/internal/diag"
)

// printDiagnostics renders bag's messages to w, severity-colored when
// useColor is true, matching how vovakirdan-surge/cmd/surge colors its own
// diagnostic output — the core (package diag) emits only structured
// Message values, never text, so all rendering lives here (SPEC_FULL.md
// §2.1).
func printDiagnostics(w io.Writer, bag *diag.Bag, useColor bool) {
	if bag == nil {
		return
	}
	bag.Sort()
	for _, m := range bag.Items() {
		fmt.Fprintln(w, formatMessage(m, useColor))
		for _, n := range m.Notes {
			fmt.Fprintf(w, "    note: %s\n", n.Message)
		}
	}
}

func formatMessage(m *diag.Message, useColor bool) string {
	label := m.Severity.String()
	if useColor {
		label = severityColor(m.Severity).Sprint(label)
	}
	loc := ""
	if m.HasSpan {
		loc = fmt.Sprintf(" %s", m.Range)
	}
	return fmt.Sprintf("%s[%s]%s: %s", label, m.Stage, loc, m.Text)
}

func severityColor(sev diag.Severity) *color.Color {
	switch sev {
	case diag.Error:
		return color.New(color.FgRed, color.Bold)
	case diag.Warning:
		return color.New(color.FgYellow, color.Bold)
	default:
		return color.New(color.FgWhite)
	}
}

// exitCode maps a compilation's diagnostics to the process exit status
// (spec.md §6 Exit codes: 0 clean, 1 has errors).
func exitCode(bag *diag.Bag) int {
	if bag != nil && bag.HasErrors() {
		return 1
	}
	return 0
}
