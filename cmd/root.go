package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/bnema/agent-cli/internal/config"
	"github.com/bnema/agent-cli/internal/domain"
)

func Execute() error {
	return newRootCmd().Execute()
}

type rootFlags struct {
	task       string
	verbose    bool
	dryRun     bool
	debug      bool
	configFile string
}

// cli holds the parsed flags and the application, which is built on first
// use so that commands like version never touch the filesystem.
type cli struct {
	flags rootFlags
	app   *app
}

func (c *cli) load(cmd *cobra.Command) (*app, error) {
	if c.app != nil {
		return c.app, nil
	}

	cfg, err := c.config()
	if err != nil {
		return nil, err
	}

	a, err := wireApp(cfg, wireOptions{
		Debug:   c.flags.debug,
		Verbose: c.flags.verbose,
		Stdout:  cmd.OutOrStdout(),
		Stderr:  cmd.ErrOrStderr(),
	})
	if err != nil {
		return nil, err
	}

	c.app = a
	return a, nil
}

func (c *cli) config() (config.Config, error) {
	return config.Load(config.LoadOptions{ConfigFile: c.flags.configFile})
}

func (c *cli) execution() domain.Execution {
	return domain.Execution{
		RequestID: uuid.NewString(),
		DryRun:    c.flags.dryRun,
		Verbose:   c.flags.verbose,
	}
}

func newRootCmd() *cobra.Command {
	c := &cli{}

	rootCmd := &cobra.Command{
		Use:   "agent",
		Short: "Conversational agent with guarded tools",
		Long: "agent answers requests with an OpenAI-compatible model that can search the web, call HTTP APIs, " +
			"read and write files in a workspace, run allowlisted commands, and look up weather and crypto prices. " +
			"Without --task it starts an interactive session.",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: false,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := c.load(cmd)
			if err != nil {
				return err
			}
			if c.flags.task != "" {
				return runTask(cmd, c, a)
			}
			return runREPL(cmd, c, a)
		},
	}

	rootCmd.Flags().StringVarP(&c.flags.task, "task", "t", "", "run a single request and exit")
	rootCmd.PersistentFlags().BoolVarP(&c.flags.verbose, "verbose", "v", false, "trace tool calls")
	rootCmd.PersistentFlags().BoolVar(&c.flags.dryRun, "dry-run", false, "describe write_file and execute_terminal instead of running them")
	rootCmd.PersistentFlags().BoolVar(&c.flags.debug, "debug", false, "enable debug logging")
	rootCmd.PersistentFlags().StringVar(&c.flags.configFile, "config", "", "path to a TOML config file (default ./agent.toml when present)")

	rootCmd.AddCommand(
		newVersionCmd(),
		newToolsCmd(c),
		newMemoryCmd(c),
		newConfigCmd(c),
	)

	return rootCmd
}

func runTask(cmd *cobra.Command, c *cli, a *app) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()

	answer, err := a.ask(ctx, c.flags.task, c.execution())
	if answer != "" {
		if _, writeErr := fmt.Fprintln(cmd.OutOrStdout(), a.renderer.Answer(answer)); writeErr != nil {
			return writeErr
		}
	}
	return err
}

func (a *app) ask(ctx context.Context, query string, exec domain.Execution) (string, error) {
	if a.spinner == nil {
		return a.agent.ProcessQuery(ctx, query, exec)
	}

	return withSpinner(ctx, a.spinner, "Thinking...", func(ctx context.Context) (string, error) {
		return a.agent.ProcessQuery(ctx, query, exec)
	})
}
