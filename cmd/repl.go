package cmd

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"

	"github.com/spf13/cobra"
)

const maxInputLine = 1024 * 1024

// runREPL reads one request per line until an empty line, EOF or an
// interrupt while idle. An interrupt during a request cancels only that
// request.
func runREPL(cmd *cobra.Command, c *cli, a *app) error {
	parent := cmd.Context()
	if parent == nil {
		parent = context.Background()
	}
	ctx, cancel := context.WithCancel(parent)
	defer cancel()
	out := cmd.OutOrStdout()
	errOut := cmd.ErrOrStderr()

	interrupts := make(chan os.Signal, 1)
	signal.Notify(interrupts, os.Interrupt)
	defer signal.Stop(interrupts)

	lines := readLines(ctx, cmd.InOrStdin())

	fmt.Fprintln(out, a.renderer.Banner(c.flags.dryRun))
	for {
		fmt.Fprint(out, a.renderer.Prompt())

		var line string
		select {
		case <-ctx.Done():
			return nil
		case <-interrupts:
			fmt.Fprintln(out)
			fmt.Fprintln(out, a.renderer.Notice("Bye."))
			return nil
		case next, ok := <-lines:
			if !ok {
				fmt.Fprintln(out)
				fmt.Fprintln(out, a.renderer.Notice("Bye."))
				return nil
			}
			line = strings.TrimSpace(next)
		}

		if line == "" {
			fmt.Fprintln(out, a.renderer.Notice("Bye."))
			return nil
		}

		answer, err := askInterruptible(ctx, a, line, c, interrupts)
		if answer != "" {
			fmt.Fprintln(out, a.renderer.Answer(answer))
		}
		switch {
		case err == nil:
		case errors.Is(err, context.Canceled) && ctx.Err() == nil:
			fmt.Fprintln(out, a.renderer.Notice("Interrupted."))
		default:
			fmt.Fprintln(errOut, a.renderer.Error(err))
		}
	}
}

func askInterruptible(ctx context.Context, a *app, query string, c *cli, interrupts <-chan os.Signal) (string, error) {
	turnCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	done := make(chan struct{})
	defer close(done)
	go func() {
		select {
		case <-interrupts:
			cancel()
		case <-done:
		}
	}()

	return a.ask(turnCtx, query, c.execution())
}

func readLines(ctx context.Context, in io.Reader) <-chan string {
	lines := make(chan string)
	go func() {
		defer close(lines)
		scanner := bufio.NewScanner(in)
		scanner.Buffer(make([]byte, 0, 64*1024), maxInputLine)
		for scanner.Scan() {
			select {
			case lines <- scanner.Text():
			case <-ctx.Done():
				return
			}
		}
	}()
	return lines
}
