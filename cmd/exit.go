package cmd

import (
	"context"
	"errors"
)

const (
	exitOK          = 0
	exitError       = 1
	exitInterrupted = 130
)

// ExitCode maps the error returned by Execute to a process exit status.
func ExitCode(err error) int {
	switch {
	case err == nil:
		return exitOK
	case errors.Is(err, context.Canceled):
		return exitInterrupted
	default:
		return exitError
	}
}
