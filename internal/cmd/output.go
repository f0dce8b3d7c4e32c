package cmd

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"

	"github.com/felixgeelhaar/pressdesk/internal/agents"
)

var (
	successStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("46"))
	warnStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("226"))
	labelStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
)

func printSuccess(w io.Writer, format string, args ...any) {
	fmt.Fprintln(w, successStyle.Render("✓ "+fmt.Sprintf(format, args...)))
}

func printWarning(w io.Writer, format string, args ...any) {
	fmt.Fprintln(w, warnStyle.Render(fmt.Sprintf(format, args...)))
}

// printField writes an aligned "Label: value" line.
func printField(w io.Writer, label, value string) {
	fmt.Fprintf(w, "%s %s\n", labelStyle.Render(fmt.Sprintf("%-10s", label+":")), value)
}

func printJSON(w io.Writer, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal output: %w", err)
	}
	fmt.Fprintln(w, string(data))
	return nil
}

// printMarkdown renders markdown with the configured style, or writes it as
// is when raw is set.
func (a *app) printMarkdown(w io.Writer, markdown string, raw bool) error {
	if raw {
		_, err := io.WriteString(w, markdown)
		return err
	}
	r, err := agents.NewRenderer(a.cfg.RenderStyle, 0)
	if err != nil {
		return err
	}
	_, err = io.WriteString(w, r.Render(markdown))
	return err
}
