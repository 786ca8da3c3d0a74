package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/bnema/agent-cli/internal/adapters/render/console"
	"github.com/bnema/agent-cli/internal/domain"
)

func newMemoryCmd(c *cli) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "memory",
		Short: "Inspect and compact the conversation memory",
	}

	cmd.AddCommand(newMemoryShowCmd(c), newMemoryCompactCmd(c))
	return cmd
}

func newMemoryShowCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Show the stored summary, facts, todos and log size",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := c.load(cmd)
			if err != nil {
				return err
			}

			record, err := a.memory.Memory(cmd.Context())
			if err != nil {
				return err
			}
			stats, err := a.memory.Stats(cmd.Context())
			if err != nil {
				return err
			}

			_, err = fmt.Fprintln(cmd.OutOrStdout(), a.renderer.Memory(console.MemoryView{
				Record:  record,
				Stats:   stats,
				Policy:  a.memory.Policy(),
				LogPath: a.log.Path(),
			}))
			return err
		},
	}
}

func newMemoryCompactCmd(c *cli) *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "compact",
		Short: "Summarize old entries into memory.json",
		Long:  "Summarizes all but the most recent entries when the log exceeds its limits. --force compacts regardless of the limits.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := c.load(cmd)
			if err != nil {
				return err
			}

			var result domain.CompactionResult
			if force {
				result, err = a.memory.Compact(cmd.Context())
			} else {
				result, err = a.memory.CompactIfNeeded(cmd.Context())
			}
			if err != nil {
				return err
			}

			_, err = fmt.Fprintln(cmd.OutOrStdout(), a.renderer.Compaction(result))
			return err
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "compact even when the log is within its limits")
	return cmd
}
