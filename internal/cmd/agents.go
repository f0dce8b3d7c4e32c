package cmd

import (
	stderrors "errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/felixgeelhaar/pressdesk/internal/agents"
	"github.com/felixgeelhaar/pressdesk/internal/errors"
	"github.com/felixgeelhaar/pressdesk/internal/tui"
)

// agentFlag binds a command-line flag to an agent form field.
type agentFlag struct {
	name  string
	key   string
	usage string
	list  bool
	// file names an extra flag that reads the field from a file.
	file string
}

var agentFlags = map[agents.Kind][]agentFlag{
	agents.KindReputation: {
		{name: "company", key: "company_name", usage: "company to scan"},
		{name: "url", key: "urls", usage: "media URL to analyze (repeatable)", list: true},
		{name: "keyword", key: "keywords", usage: "keyword or phrase to track (repeatable)", list: true},
	},
	agents.KindBrief: {
		{name: "company", key: "company_name", usage: "company name"},
		{name: "product", key: "product_description", usage: "product, service or announcement", file: "product-file"},
		{name: "audience", key: "target_audience", usage: "target audience"},
		{name: "message", key: "key_messages", usage: "key message (repeatable)", list: true},
		{name: "goal", key: "campaign_goals", usage: "campaign goal (repeatable)", list: true},
	},
	agents.KindStressTest: {
		{name: "company", key: "company_name", usage: "company name"},
		{name: "industry", key: "industry", usage: "industry, e.g. Technology"},
		{name: "brief", key: "brief_content", usage: "brief or announcement text", file: "brief-file"},
	},
	agents.KindContent: {
		{name: "content", key: "original_content", usage: "long-form content to repurpose", file: "file"},
		{name: "format", key: "target_format", usage: "target format: linkedin_post, twitter_thread, instagram_reel, carousel"},
		{name: "voice", key: "brand_voice", usage: "brand voice: professional, casual, inspirational, educational, storytelling"},
	},
}

var agentUse = map[agents.Kind]string{
	agents.KindReputation: `Examples:
  pressdesk agents reputation --company "Engines Ltd" --keyword "analytical engine"
  pressdesk agents reputation --company "Engines Ltd" --url https://news.example.com/story --json`,
	agents.KindBrief: `Examples:
  pressdesk agents brief --company "Engines Ltd" --product "An analytical engine" \
    --audience "Mathematicians" --message "Fast" --message "Reliable" --out ./briefs`,
	agents.KindStressTest: `Examples:
  pressdesk agents stress-test --company "Engines Ltd" --industry Technology --brief-file brief.txt`,
	agents.KindContent: `Examples:
  pressdesk agents content --file post.md --format twitter_thread --voice casual
  pressdesk agents content --content "..." --format carousel --out ./content`,
}

func newAgentsCmd(a *app) *cobra.Command {
	agentsCmd := &cobra.Command{
		Use:     "agents",
		Aliases: []string{"agent"},
		Short:   "Run the PressDesk AI agents",
		Long: `Run one of the four AI agents against the backend. You must be signed in.

Required fields that were not given as flags are prompted for in an
interactive terminal.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	for _, k := range agents.Kinds() {
		agentsCmd.AddCommand(newAgentCmd(a, k))
	}
	return agentsCmd
}

func newAgentCmd(a *app, kind agents.Kind) *cobra.Command {
	var (
		asJSON bool
		raw    bool
		outDir string
	)
	texts := map[string]*string{}
	lists := map[string]*[]string{}
	files := map[string]*string{}

	cmd := &cobra.Command{
		Use:   string(kind),
		Short: kind.Title(),
		Long:  kind.Description() + "\n\n" + agentUse[kind],
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := a.requireSession(cmd.Context(), kind.Route()); err != nil {
				return err
			}

			values, err := agentValues(kind, texts, lists, files)
			if err != nil {
				return err
			}
			if tui.ShouldPrompt() {
				if err := promptMissing(kind, values); err != nil {
					return err
				}
			}

			form, err := agents.FormFromValues(kind, values)
			if err != nil {
				return err
			}
			report, err := a.agentService().Run(cmd.Context(), form)
			if err != nil {
				return agentError(kind, err)
			}

			out := cmd.OutOrStdout()
			if asJSON {
				err = printJSON(out, report.Raw())
			} else {
				err = a.printMarkdown(out, report.Markdown(), raw)
			}
			if err != nil {
				return err
			}

			if outDir != "" {
				path, err := agents.WriteExport(outDir, report, time.Now())
				if err != nil {
					return err
				}
				printSuccess(cmd.ErrOrStderr(), "Saved to %s", path)
			}
			return nil
		},
	}

	for _, f := range agentFlags[kind] {
		if f.list {
			lists[f.key] = cmd.Flags().StringSlice(f.name, nil, f.usage)
		} else {
			texts[f.key] = cmd.Flags().String(f.name, "", f.usage)
		}
		if f.file != "" {
			files[f.key] = cmd.Flags().String(f.file, "", "read --"+f.name+" from a file")
		}
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the raw agent response as JSON")
	cmd.Flags().BoolVar(&raw, "raw", false, "print markdown without terminal styling")
	if kind == agents.KindBrief || kind == agents.KindContent {
		cmd.Flags().StringVar(&outDir, "out", "", "also save the result as a text file in this directory")
	}
	return cmd
}

// agentValues collects flag values keyed by form field.
func agentValues(kind agents.Kind, texts map[string]*string, lists map[string]*[]string, files map[string]*string) (map[string]string, error) {
	values := map[string]string{}
	for key, v := range texts {
		values[key] = *v
	}
	for key, v := range lists {
		values[key] = strings.Join(agents.CleanList(*v), ",")
	}
	for key, path := range files {
		if *path == "" || strings.TrimSpace(values[key]) != "" {
			continue
		}
		data, err := os.ReadFile(*path)
		if err != nil {
			if os.IsNotExist(err) {
				return nil, errors.NewFileNotFoundError(*path)
			}
			return nil, errors.Wrap(errors.ErrCodeFileReadFailed, fmt.Sprintf("failed to read %s", *path), err)
		}
		values[key] = string(data)
	}
	return values, nil
}

// promptMissing asks for required fields and unset options.
func promptMissing(kind agents.Kind, values map[string]string) error {
	for _, f := range agents.Fields(kind) {
		if strings.TrimSpace(values[f.Key]) != "" {
			continue
		}
		switch {
		case len(f.Options) > 0:
			v, err := tui.PromptForOption(f.Label, f.Options, f.Default)
			if err != nil {
				return err
			}
			values[f.Key] = v
		case f.Required:
			v, err := tui.PromptForString(f.Label, f.Placeholder, f.Long)
			if err != nil {
				return err
			}
			values[f.Key] = v
		}
	}
	return nil
}

// agentError keeps typed errors intact for exit codes while giving backend
// failures the agent's readable message.
func agentError(kind agents.Kind, err error) error {
	var pdErr *errors.PressdeskError
	if stderrors.As(err, &pdErr) {
		return err
	}
	return fmt.Errorf("%s: %w", agents.ErrorMessage(kind, err), err)
}
