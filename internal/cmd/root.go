package cmd

import (
	"context"
	"io"

	"github.com/spf13/cobra"

	"github.com/felixgeelhaar/pressdesk/internal/agents"
	"github.com/felixgeelhaar/pressdesk/internal/config"
	"github.com/felixgeelhaar/pressdesk/internal/credstore"
	"github.com/felixgeelhaar/pressdesk/internal/log"
	"github.com/felixgeelhaar/pressdesk/internal/platform"
	"github.com/felixgeelhaar/pressdesk/internal/session"
)

// app holds what a command run needs. Everything past the config is built
// on first use so commands like "config path" never touch the network layer.
type app struct {
	flags   config.Flags
	envFile string

	cfg    *config.Config
	logger *log.Logger

	client  *platform.Client
	store   *credstore.FileStore
	session *session.Manager
	service *agents.Service
}

// NewRootCmd builds the pressdesk command tree.
func NewRootCmd() *cobra.Command {
	a := &app{}

	rootCmd := &cobra.Command{
		Use:   "pressdesk",
		Short: "AI public relations desk for your terminal",
		Long: `pressdesk is the command-line client for the PressDesk AI PR platform.

It signs you in, keeps your session in ~/.pressdesk, and runs the four AI agents:
reputation scans, PR brief generation, media stress tests and content repurposing.
Run 'pressdesk dashboard' for the interactive dashboard.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.load(cmd.ErrOrStderr())
		},
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&a.flags.APIURL, "api-url", "", "backend base URL (env PRESSDESK_API_URL)")
	flags.StringVar(&a.flags.Home, "home", "", "pressdesk home directory (env PRESSDESK_HOME, default ~/.pressdesk)")
	flags.StringVar(&a.flags.LogLevel, "log-level", "", "log level: debug, info, warn, error")
	flags.StringVar(&a.flags.LogFormat, "log-format", "", "log format: text or json")

	rootCmd.AddCommand(
		newAuthCmd(a),
		newAgentsCmd(a),
		newDashboardCmd(a),
		newStatusCmd(a),
		newConfigCmd(a),
		newVersionCmd(),
	)
	return rootCmd
}

// ExecuteContext runs the root command with ctx
func ExecuteContext(ctx context.Context) error {
	return NewRootCmd().ExecuteContext(ctx)
}

// load reads the configuration and installs the process logger.
func (a *app) load(logOut io.Writer) error {
	cfg, err := config.Load(config.Options{Flags: a.flags, EnvFile: a.envFile})
	if err != nil {
		return err
	}
	a.cfg = cfg
	a.logger = newLogger(cfg, logOut)
	log.SetDefaultLogger(a.logger)
	return nil
}

func newLogger(cfg *config.Config, out io.Writer) *log.Logger {
	return log.New(log.Config{
		Level:       log.ParseLevel(cfg.LogLevel),
		Format:      log.ParseFormat(cfg.LogFormat),
		Output:      log.NewOutput(out),
		ServiceName: "pressdesk",
	})
}

func (a *app) platformClient() *platform.Client {
	if a.client == nil {
		a.client = platform.NewClient(platform.Options{
			BaseURL:       a.cfg.APIURL,
			Timeout:       a.cfg.Timeout,
			HealthRetries: a.cfg.HealthRetries,
			Logger:        a.logger,
		})
	}
	return a.client
}

func (a *app) credentials() *credstore.FileStore {
	if a.store == nil {
		a.store = credstore.NewFileStore(a.cfg.Home)
	}
	return a.store
}

func (a *app) sessionManager() *session.Manager {
	if a.session == nil {
		a.session = session.NewManager(a.platformClient(), a.credentials(), a.logger)
	}
	return a.session
}

func (a *app) agentService() *agents.Service {
	if a.service == nil {
		client := platform.NewAgents(a.platformClient(), a.sessionManager(), a.cfg.AgentRateLimit)
		a.service = agents.NewService(client, a.logger)
	}
	return a.service
}
