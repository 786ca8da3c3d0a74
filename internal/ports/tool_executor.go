package ports

import (
	"context"

	"github.com/bnema/agent-cli/internal/domain"
)

// ToolExecutor runs named tools. Call always returns text; expected
// failures are reported in the returned string.
type ToolExecutor interface {
	Definitions() []domain.ToolDefinition
	Call(ctx context.Context, exec domain.Execution, call domain.ToolCall) string
}
