package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/felixgeelhaar/pressdesk/internal/agents"
	"github.com/felixgeelhaar/pressdesk/internal/errors"
	"github.com/felixgeelhaar/pressdesk/internal/guard"
	"github.com/felixgeelhaar/pressdesk/internal/tui"
)

// LogFileName receives logs while the dashboard owns the terminal.
const LogFileName = "pressdesk.log"

func newDashboardCmd(a *app) *cobra.Command {
	var (
		plain     bool
		raw       bool
		route     string
		exportDir string
	)

	cmd := &cobra.Command{
		Use:   "dashboard",
		Short: "Open the interactive dashboard",
		Long: `Open the interactive dashboard. It restores your session, shows the sign-in
screen when needed, and gives access to the overview and all four agents.

With --plain the overview is printed once and the command exits.

Examples:
  pressdesk dashboard
  pressdesk dashboard --route /agents/brief
  pressdesk dashboard --plain`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if plain {
				if _, err := a.requireSession(cmd.Context(), guard.Dashboard); err != nil {
					return err
				}
				overview, err := a.agentService().Overview(cmd.Context())
				if err != nil {
					return fmt.Errorf("failed to load dashboard: %w", err)
				}
				return a.printMarkdown(cmd.OutOrStdout(), agents.OverviewMarkdown(overview), raw)
			}

			if !tui.IsInteractive() {
				return errors.New(errors.ErrCodeInputInvalid, "the dashboard needs an interactive terminal").
					WithSuggestion("Use 'pressdesk dashboard --plain' for a one-shot overview")
			}

			closeLog, err := a.logToFile()
			if err != nil {
				return err
			}
			defer closeLog()

			return tui.Run(cmd.Context(), a.sessionManager(), a.agentService(), tui.Options{
				Route:       guard.ParseRoute(route),
				RenderStyle: a.cfg.RenderStyle,
				ExportDir:   exportDir,
			})
		},
	}

	cmd.Flags().BoolVar(&plain, "plain", false, "print the overview and exit")
	cmd.Flags().BoolVar(&raw, "raw", false, "with --plain, print markdown without terminal styling")
	cmd.Flags().StringVar(&route, "route", string(guard.Root), "route to open, e.g. /agents/brief")
	cmd.Flags().StringVar(&exportDir, "export-dir", ".", "directory for saved briefs and content")
	return cmd
}

// logToFile points the app logger at <home>/pressdesk.log so log lines do not
// draw over the dashboard. Components built afterwards use the new logger.
func (a *app) logToFile() (func(), error) {
	if err := os.MkdirAll(a.cfg.Home, 0o700); err != nil {
		return nil, errors.Wrap(errors.ErrCodeDirectoryFailed, fmt.Sprintf("failed to create %s", a.cfg.Home), err)
	}
	path := filepath.Join(a.cfg.Home, LogFileName)
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeFileWriteFailed, fmt.Sprintf("failed to open %s", path), err)
	}
	a.logger = newLogger(a.cfg, f)
	return func() { _ = f.Close() }, nil
}
