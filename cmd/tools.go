package cmd

import (
	"fmt"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"github.com/bnema/agent-cli/internal/domain"
)

func newToolsCmd(c *cli) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tools",
		Short: "Inspect and call the built-in tools",
	}

	cmd.AddCommand(newToolsListCmd(c), newToolsCallCmd(c))
	return cmd
}

func newToolsListCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List the tools offered to the model",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := c.load(cmd)
			if err != nil {
				return err
			}

			_, err = fmt.Fprintln(cmd.OutOrStdout(), a.renderer.Tools(a.registry.Definitions()))
			return err
		},
	}
}

func newToolsCallCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "call <name> [json-arguments]",
		Short: "Call a tool directly, with the same guards the model gets",
		Example: `  agent tools call list_files
  agent tools call read_file '{"path":"notes.txt"}'
  agent tools call --dry-run execute_terminal '{"command":"ls -la"}'`,
		Args: cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := c.load(cmd)
			if err != nil {
				return err
			}

			call := domain.ToolCall{ID: "cli", Name: args[0]}
			if len(args) == 2 {
				call.Arguments = args[1]
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
			defer stop()

			result := a.registry.Call(ctx, c.execution(), call)
			if _, err := fmt.Fprintln(cmd.OutOrStdout(), result); err != nil {
				return err
			}
			return ctx.Err()
		},
	}
}
