package cli

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/charmbracelet/lipgloss"

	"github.com/dotsync-labs/dotsync/internal/sync"
)

var (
	styleHeader  = lipgloss.NewStyle().Bold(true)
	styleWritten = lipgloss.NewStyle().Foreground(lipgloss.Color("#5FD787"))
	styleDim     = lipgloss.NewStyle().Foreground(lipgloss.Color("#888888"))
	styleWarn    = lipgloss.NewStyle().Foreground(lipgloss.Color("#FFD75F"))
	styleError   = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF6B6B")).Bold(true)
)

// newLogger builds the structured logger commands pass to the engine.
func newLogger(w io.Writer) *slog.Logger {
	level := slog.LevelInfo
	if isVerbose() {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

func outcomeStyle(o sync.Outcome) lipgloss.Style {
	switch {
	case o.Changed():
		return styleWritten
	case o == sync.OutcomeLocked:
		return styleWarn
	default:
		return styleDim
	}
}

// printReport writes one line per rule and hook, then a summary.
func printReport(w io.Writer, r *sync.Report) {
	if r.DryRun {
		fmt.Fprintln(w, styleWarn.Render("Dry run: nothing was written."))
	}
	for _, res := range r.Results {
		label := fmt.Sprintf("%-10s", res.Outcome)
		fmt.Fprintf(w, "  %s %s %s\n", outcomeStyle(res.Outcome).Render(label), res.Path, styleDim.Render("("+string(res.Mode)+")"))
	}
	for _, h := range r.Hooks {
		label, style := "ran", styleWritten
		switch {
		case h.Locked:
			label, style = "locked", outcomeStyle(sync.OutcomeLocked)
		case h.Skipped:
			label, style = "skipped", styleWarn
		}
		fmt.Fprintf(w, "  %s %s\n", style.Render(fmt.Sprintf("%-10s", label)), "hook "+h.Name)
	}
	fmt.Fprintf(w, "%s %d changed, %d locked, %d rules\n",
		styleHeader.Render("Summary:"), r.Changed(), r.Count(sync.OutcomeLocked), len(r.Results))
}
