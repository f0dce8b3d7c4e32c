package cmd

import (
	"fmt"
	"os"
	"os/exec"

	"github.com/spf13/cobra"

	"github.com/felixgeelhaar/pressdesk/internal/config"
)

func newConfigCmd(a *app) *cobra.Command {
	configCmd := &cobra.Command{
		Use:   "config",
		Short: "View or edit pressdesk configuration",
		Long: `Manage pressdesk configuration stored at <home>/config.yaml.

Settings are layered: built-in defaults, the config file, PRESSDESK_* environment
variables (a .env file in the working directory is read first), then flags.

Keys:
  api_url           backend base URL
  timeout           request timeout, e.g. 30s
  log_level         debug, info, warn or error
  log_format        text or json
  agent_rate_limit  agent requests per second, 0 for unlimited
  health_retries    retries for 'pressdesk status'
  render_style      markdown style: auto, notty, dark, light or a style file

Examples:
  pressdesk config view
  pressdesk config get api_url
  pressdesk config set api_url https://api.pressdesk.example
  pressdesk config path`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	configCmd.AddCommand(
		newConfigViewCmd(a),
		newConfigGetCmd(a),
		newConfigSetCmd(a),
		newConfigEditCmd(a),
		newConfigPathCmd(a),
	)
	return configCmd
}

func newConfigViewCmd(a *app) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "view",
		Short: "Display the effective configuration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()

			values := make(map[string]string, len(config.Keys()))
			for _, key := range config.Keys() {
				v, _ := a.cfg.Get(key)
				values[key] = v
			}
			if asJSON {
				return printJSON(out, values)
			}

			fmt.Fprintf(out, "Configuration file: %s\n\n", a.cfg.Path())
			for _, key := range config.Keys() {
				fmt.Fprintf(out, "%s: %s\n", key, values[key])
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "output as JSON")
	return cmd
}

func newConfigGetCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "get <key>",
		Short: "Get a configuration value",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			v, err := a.cfg.Get(args[0])
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), v)
			return nil
		},
	}
}

func newConfigSetCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "set <key> <value>",
		Short: "Set a configuration value in the config file",
		Long: `Set a value in the config file. Environment variables and flags are not
written to the file.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			fileCfg, err := config.LoadFile(a.cfg.Home)
			if err != nil {
				return err
			}
			if err := fileCfg.Set(args[0], args[1]); err != nil {
				return err
			}
			if err := fileCfg.Save(); err != nil {
				return err
			}
			printSuccess(cmd.OutOrStdout(), "Set %s = %s", args[0], args[1])
			return nil
		},
	}
}

func newConfigEditCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "edit",
		Short: "Edit the config file in $EDITOR",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			editor := os.Getenv("EDITOR")
			if editor == "" {
				editor = "vi"
			}

			// Make sure there is a file to open.
			if _, err := os.Stat(a.cfg.Path()); os.IsNotExist(err) {
				fileCfg, err := config.LoadFile(a.cfg.Home)
				if err != nil {
					return err
				}
				if err := fileCfg.Save(); err != nil {
					return err
				}
			}

			editCmd := exec.CommandContext(cmd.Context(), editor, a.cfg.Path())
			editCmd.Stdin = os.Stdin
			editCmd.Stdout = os.Stdout
			editCmd.Stderr = os.Stderr
			if err := editCmd.Run(); err != nil {
				return fmt.Errorf("failed to run editor %s: %w", editor, err)
			}

			// Report a broken file now rather than on the next command.
			edited, err := config.LoadFile(a.cfg.Home)
			if err != nil {
				return err
			}
			return edited.Validate()
		},
	}
}

func newConfigPathCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Show the config file path",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Fprintln(cmd.OutOrStdout(), a.cfg.Path())
			return nil
		},
	}
}
