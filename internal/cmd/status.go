package cmd

import (
	"github.com/spf13/cobra"

	"github.com/felixgeelhaar/pressdesk/internal/errors"
	"github.com/felixgeelhaar/pressdesk/internal/platform"
)

func newStatusCmd(a *app) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "status",
		Short: "Check that the backend is reachable",
		Long: `Ping the backend root endpoint and print its name, version and status.
Transient failures are retried (health_retries in the config).`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			client := a.platformClient()
			health, err := client.Health(cmd.Context())
			if err != nil {
				if platform.IsKind(err, platform.NetworkFailure) {
					return errors.NewAPIUnreachableError(client.BaseURL(), err)
				}
				return err
			}

			out := cmd.OutOrStdout()
			if asJSON {
				return printJSON(out, health)
			}

			if health.Status == "healthy" || health.Status == "ok" {
				printSuccess(out, "%s is up", client.BaseURL())
			} else {
				printWarning(out, "%s answered with status %q", client.BaseURL(), health.Status)
			}
			if health.Message != "" {
				printField(out, "Service", health.Message)
			}
			if health.Version != "" {
				printField(out, "Version", health.Version)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "output as JSON")
	return cmd
}
