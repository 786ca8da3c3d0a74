package policy

import "strings"

var allowedCommands = map[string]struct{}{
	"ls":     {},
	"cat":    {},
	"grep":   {},
	"head":   {},
	"tail":   {},
	"wc":     {},
	"python": {},
	"pip":    {},
	"git":    {},
}

var allowedGitSubcommands = map[string]struct{}{
	"status": {},
}

var forbiddenSequences = []string{"|", ";", "&&", "||", "$", "`", ">", "<", "\n", "\\"}

// AllowedCommandsLabel is the human readable allowlist used in rejection
// messages.
const AllowedCommandsLabel = "ls, cat, grep, head, tail, wc, python, pip, git status"

func IsAllowedCommand(cmd string) bool {
	parts := strings.Fields(cmd)
	if len(parts) == 0 {
		return false
	}

	base := strings.ToLower(parts[0])
	if _, ok := allowedCommands[base]; !ok {
		return false
	}

	if base != "git" {
		return true
	}

	if len(parts) < 2 {
		return false
	}

	_, ok := allowedGitSubcommands[strings.ToLower(parts[1])]
	return ok
}

// ValidateNoShellInjection reports whether cmd is free of shell control
// characters. Commands never reach a shell; this is checked anyway.
func ValidateNoShellInjection(cmd string) bool {
	for _, seq := range forbiddenSequences {
		if strings.Contains(cmd, seq) {
			return false
		}
	}

	return true
}

// SplitCommand returns the argument vector for cmd.
func SplitCommand(cmd string) []string {
	return strings.Fields(cmd)
}
