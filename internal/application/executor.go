package application

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/bnema/agent-cli/internal/domain"
	"github.com/bnema/agent-cli/internal/ports"
)

const DefaultMaxSteps = 12

// Executor drives the model and tool loop for one request. Tool calls
// requested in the same step run concurrently; their results are fed back
// in the order the model asked for them.
type Executor struct {
	model    ports.ChatModel
	tools    ports.ToolExecutor
	maxSteps int
	logger   *zap.Logger
}

func NewExecutor(model ports.ChatModel, tools ports.ToolExecutor, maxSteps int, logger *zap.Logger) *Executor {
	if maxSteps <= 0 {
		maxSteps = DefaultMaxSteps
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Executor{model: model, tools: tools, maxSteps: maxSteps, logger: logger}
}

func (e *Executor) ToolNames() []string {
	definitions := e.tools.Definitions()
	names := make([]string, 0, len(definitions))
	for _, definition := range definitions {
		names = append(names, definition.Name)
	}
	return names
}

// Run returns the content of the first model reply without tool calls.
func (e *Executor) Run(ctx context.Context, exec domain.Execution, messages []domain.ChatMessage) (string, error) {
	definitions := e.tools.Definitions()
	transcript := append([]domain.ChatMessage(nil), messages...)

	for step := 1; step <= e.maxSteps; step++ {
		reply, err := e.model.Complete(ctx, domain.ChatRequest{Messages: transcript, Tools: definitions})
		if err != nil {
			return "", fmt.Errorf("model step %d: %w", step, err)
		}
		reply.Role = domain.ChatRoleAssistant

		if len(reply.ToolCalls) == 0 {
			return reply.Content, nil
		}

		for i := range reply.ToolCalls {
			if reply.ToolCalls[i].ID == "" {
				reply.ToolCalls[i].ID = "call_" + uuid.NewString()
			}
		}
		transcript = append(transcript, reply)

		e.logger.Debug("model requested tools",
			zap.String("request_id", exec.RequestID),
			zap.Int("step", step),
			zap.Int("tool_calls", len(reply.ToolCalls)),
		)

		results, err := e.callTools(ctx, exec, reply.ToolCalls)
		if err != nil {
			return "", err
		}
		for i, call := range reply.ToolCalls {
			transcript = append(transcript, domain.ChatMessage{
				Role:       domain.ChatRoleTool,
				Content:    results[i],
				ToolCallID: call.ID,
			})
		}
	}

	return "", fmt.Errorf("%w (%d steps)", domain.ErrStepLimit, e.maxSteps)
}

func (e *Executor) callTools(ctx context.Context, exec domain.Execution, calls []domain.ToolCall) ([]string, error) {
	results := make([]string, len(calls))

	var group errgroup.Group
	for i, call := range calls {
		i, call := i, call
		group.Go(func() error {
			results[i] = e.tools.Call(ctx, exec, call)
			return nil
		})
	}
	_ = group.Wait()

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return results, nil
}
