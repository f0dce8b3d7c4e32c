package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/felixgeelhaar/pressdesk/internal/errors"
	"github.com/felixgeelhaar/pressdesk/internal/guard"
	"github.com/felixgeelhaar/pressdesk/internal/session"
	"github.com/felixgeelhaar/pressdesk/internal/tui"
)

func newAuthCmd(a *app) *cobra.Command {
	authCmd := &cobra.Command{
		Use:   "auth",
		Short: "Manage your PressDesk session",
		Long: `Manage authentication for the PressDesk platform.

The access token is stored in <home>/credentials.json (mode 0600) and is
validated against the backend whenever a command needs it.

Subcommands:
  register  Create an account and sign in
  login     Sign in with email and password
  logout    Forget the stored credential
  status    Show the signed-in user

Examples:
  pressdesk auth login --email ada@example.com
  pressdesk auth register --email ada@example.com --full-name "Ada Lovelace" --company "Engines Ltd"
  pressdesk auth status
  pressdesk auth logout`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	authCmd.AddCommand(
		newAuthLoginCmd(a),
		newAuthRegisterCmd(a),
		newAuthLogoutCmd(a),
		newAuthStatusCmd(a),
	)
	return authCmd
}

func newAuthLoginCmd(a *app) *cobra.Command {
	var creds tui.Credentials

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Sign in to PressDesk",
		Long: `Sign in with your email and password. Missing values are prompted for
when running in an interactive terminal.

Examples:
  pressdesk auth login
  pressdesk auth login --email ada@example.com --password s3cret`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := collectCredentials(&creds, false); err != nil {
				return err
			}

			m := a.sessionManager()
			res := m.Login(cmd.Context(), creds.Email, creds.Password)
			return reportSignIn(cmd, m, res)
		},
	}

	cmd.Flags().StringVar(&creds.Email, "email", "", "account email")
	cmd.Flags().StringVar(&creds.Password, "password", "", "account password (prompted when omitted)")
	return cmd
}

func newAuthRegisterCmd(a *app) *cobra.Command {
	var creds tui.Credentials

	cmd := &cobra.Command{
		Use:   "register",
		Short: "Create a PressDesk account",
		Long: `Create an account and sign in with it.

Examples:
  pressdesk auth register
  pressdesk auth register --email ada@example.com --full-name "Ada Lovelace" --company "Engines Ltd"`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := collectCredentials(&creds, true); err != nil {
				return err
			}

			m := a.sessionManager()
			res := m.Register(cmd.Context(), creds.Email, creds.Password, creds.FullName, creds.Company)
			return reportSignIn(cmd, m, res)
		},
	}

	cmd.Flags().StringVar(&creds.Email, "email", "", "account email")
	cmd.Flags().StringVar(&creds.Password, "password", "", "account password (prompted when omitted)")
	cmd.Flags().StringVar(&creds.FullName, "full-name", "", "your full name")
	cmd.Flags().StringVar(&creds.Company, "company", "", "your company (optional)")
	return cmd
}

// collectCredentials prompts for missing values, or fails when prompting is
// not possible.
func collectCredentials(c *tui.Credentials, register bool) error {
	if c.Email != "" && c.Password != "" {
		return nil
	}
	if !tui.ShouldPrompt() {
		if c.Email == "" {
			return errors.NewCredentialsMissingError("email")
		}
		return errors.NewCredentialsMissingError("password")
	}
	return tui.PromptCredentials(c, register)
}

func reportSignIn(cmd *cobra.Command, m *session.Manager, res session.Result) error {
	if !res.Success {
		return errors.NewCredentialsRejectedError(res.Error)
	}
	state := m.State()
	if state.User != nil {
		printSuccess(cmd.OutOrStdout(), "Signed in as %s", state.User.DisplayName())
	} else {
		printSuccess(cmd.OutOrStdout(), "Signed in")
	}
	return nil
}

func newAuthLogoutCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Sign out and remove the stored credential",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			m := a.sessionManager()
			hadCredential := m.State().HasCredential
			m.Logout()
			if !hadCredential {
				fmt.Fprintln(cmd.OutOrStdout(), "Not logged in.")
				return nil
			}
			printSuccess(cmd.OutOrStdout(), "Logged out")
			return nil
		},
	}
}

func newAuthStatusCmd(a *app) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show the signed-in user",
		Long: `Validate the stored credential and show who you are signed in as.
An invalid or expired credential is removed.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			m := a.sessionManager()
			m.Restore(cmd.Context())
			state := m.State()
			out := cmd.OutOrStdout()

			if asJSON {
				return printJSON(out, struct {
					Authenticated bool   `json:"authenticated"`
					User          any    `json:"user"`
					Credential    string `json:"credential,omitempty"`
				}{state.IsAuthenticated, state.User, fingerprintOf(m)})
			}

			if !state.IsAuthenticated {
				fmt.Fprintln(out, "Not logged in.")
				fmt.Fprintln(out, "Use 'pressdesk auth login' to authenticate.")
				return nil
			}

			u := state.User
			fmt.Fprintln(out, successStyle.Render("Logged in"))
			printField(out, "Name", u.DisplayName())
			printField(out, "Email", u.Email)
			if u.Company != "" {
				printField(out, "Company", u.Company)
			}
			if !u.CreatedAt.IsZero() {
				printField(out, "Member", "since "+u.CreatedAt.Format("Jan 2, 2006"))
			}
			printField(out, "Token", fingerprintOf(m))
			printField(out, "API", a.cfg.APIURL)
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "output as JSON")
	return cmd
}

func fingerprintOf(m *session.Manager) string {
	if token := m.Token(); token != "" {
		return session.Fingerprint(token)
	}
	return ""
}

// requireSession restores the session and applies the route guard for route.
// It fails with a not-authenticated error when the guard sends the user to sign in.
func (a *app) requireSession(ctx context.Context, route guard.Route) (*session.Manager, error) {
	m := a.sessionManager()
	m.Restore(ctx)

	state := m.State()
	outcome := guard.Decide(state.Loading, state.IsAuthenticated, route)
	if outcome.Action == guard.Redirect && outcome.Target == guard.Auth {
		return nil, errors.NewNotAuthenticatedError()
	}
	return m, nil
}
