package tools

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os/exec"
	"strings"
	"time"

	"github.com/bnema/agent-cli/internal/domain"
	"github.com/bnema/agent-cli/internal/policy"
)

const truncatedMarker = "\n... (truncated)"

// Terminal runs allowlisted commands without a shell, with the workspace
// as working directory.
type Terminal struct {
	Workspace      string
	Timeout        time.Duration
	MaxOutputChars int
}

type terminalArgs struct {
	Command string `json:"command"`
}

func (t *Terminal) Tool() Tool {
	return Tool{
		Name:        "execute_terminal",
		Description: "Run a command in the workspace. Allowed: " + policy.AllowedCommandsLabel + ". No shell: pipes, redirects and chaining are rejected.",
		Parameters: objectSchema([]string{"command"}, map[string]any{
			"command": stringProperty("Command with arguments, for example: ls -la or git status"),
		}),
		Handler: t.Run,
	}
}

func (t *Terminal) Run(ctx context.Context, execution domain.Execution, raw json.RawMessage) string {
	var args terminalArgs
	if msg, ok := decodeArgs(raw, &args); !ok {
		return msg
	}
	command := args.Command

	if execution.DryRun {
		return fmt.Sprintf("[DRY-RUN] Would execute: %s. Run without --dry-run to apply.", command)
	}
	if !policy.ValidateNoShellInjection(command) {
		return "Error: command contains disallowed characters (|, ;, &&, $ and similar)."
	}
	if !policy.IsAllowedCommand(command) {
		name := ""
		if fields := policy.SplitCommand(command); len(fields) > 0 {
			name = fields[0]
		}
		return fmt.Sprintf("Error: command '%s' is not in the allowlist. Allowed: %s.", name, policy.AllowedCommandsLabel)
	}

	argv := policy.SplitCommand(command)
	if len(argv) == 0 {
		return "Error: empty command."
	}

	return t.execute(ctx, argv)
}

func (t *Terminal) execute(ctx context.Context, argv []string) string {
	timeout := t.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	runCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(runCtx, argv[0], argv[1:]...)
	cmd.Dir = t.Workspace
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	cmd.WaitDelay = time.Second

	err := cmd.Run()
	if errors.Is(runCtx.Err(), context.DeadlineExceeded) && ctx.Err() == nil {
		return fmt.Sprintf("Error: timeout (%s)", timeout)
	}
	if ctx.Err() != nil {
		return fmt.Sprintf("Error: canceled: %v", ctx.Err())
	}

	exitCode := 0
	if err != nil {
		var exitErr *exec.ExitError
		if !errors.As(err, &exitErr) {
			return fmt.Sprintf("Execution error: %v", err)
		}
		exitCode = exitErr.ExitCode()
	}

	output := truncateRunes(stdout.String()+stderr.String(), t.MaxOutputChars)
	return fmt.Sprintf("exit_code=%d\n%s", exitCode, output)
}

func truncateRunes(text string, limit int) string {
	if limit <= 0 {
		return text
	}

	runes := []rune(text)
	if len(runes) <= limit {
		return text
	}

	var b strings.Builder
	b.WriteString(string(runes[:limit]))
	b.WriteString(truncatedMarker)
	return b.String()
}
