package tools

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/bnema/agent-cli/internal/domain"
	"github.com/bnema/agent-cli/internal/ports"
)

// Handler runs one tool call. Expected failures are returned as text.
type Handler func(ctx context.Context, exec domain.Execution, args json.RawMessage) string

type Tool struct {
	Name        string
	Description string
	Parameters  map[string]any
	Handler     Handler
}

// Registry maps tool names to handlers. Definitions are returned in
// registration order.
type Registry struct {
	tools  []Tool
	index  map[string]int
	logger *zap.Logger
}

var _ ports.ToolExecutor = (*Registry)(nil)

func NewRegistry(logger *zap.Logger) *Registry {
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Registry{index: map[string]int{}, logger: logger}
}

func (r *Registry) Register(tool Tool) error {
	name := strings.TrimSpace(tool.Name)
	if name == "" {
		return fmt.Errorf("register tool: name is required")
	}
	if tool.Handler == nil {
		return fmt.Errorf("register tool %s: handler is required", name)
	}
	if _, exists := r.index[name]; exists {
		return fmt.Errorf("register tool %s: already registered", name)
	}

	tool.Name = name
	r.index[name] = len(r.tools)
	r.tools = append(r.tools, tool)
	return nil
}

func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.tools))
	for _, tool := range r.tools {
		names = append(names, tool.Name)
	}
	return names
}

func (r *Registry) Definitions() []domain.ToolDefinition {
	definitions := make([]domain.ToolDefinition, 0, len(r.tools))
	for _, tool := range r.tools {
		definitions = append(definitions, domain.ToolDefinition{
			Name:        tool.Name,
			Description: tool.Description,
			Parameters:  tool.Parameters,
		})
	}
	return definitions
}

// Call dispatches call to its handler. It never returns an error and
// never panics: unknown tools, bad arguments and handler panics are
// reported as text.
func (r *Registry) Call(ctx context.Context, exec domain.Execution, call domain.ToolCall) (result string) {
	fields := []zap.Field{
		zap.String("request_id", exec.RequestID),
		zap.String("tool", call.Name),
		zap.Bool("dry_run", exec.DryRun),
	}
	r.trace(exec, "tool call", append(fields, zap.String("args", preview(call.Arguments, 200)))...)

	idx, ok := r.index[call.Name]
	if !ok {
		return fmt.Sprintf("Error: unknown tool %q", call.Name)
	}

	defer func() {
		if recovered := recover(); recovered != nil {
			r.logger.Error("tool panicked", append(fields, zap.Any("panic", recovered))...)
			result = fmt.Sprintf("Error: tool %s failed: %v", call.Name, recovered)
		}
	}()

	args := json.RawMessage(strings.TrimSpace(call.Arguments))
	if len(args) == 0 {
		args = json.RawMessage("{}")
	}

	result = r.tools[idx].Handler(ctx, exec, args)
	r.trace(exec, "tool result", append(fields, zap.String("result", preview(result, 200)))...)
	return result
}

func (r *Registry) trace(exec domain.Execution, msg string, fields ...zap.Field) {
	if exec.Verbose {
		r.logger.Info(msg, fields...)
		return
	}
	r.logger.Debug(msg, fields...)
}

// decodeArgs unmarshals args into dst. The returned text is meant to be
// handed back to the model as the tool result.
func decodeArgs(args json.RawMessage, dst any) (string, bool) {
	if err := json.Unmarshal(args, dst); err != nil {
		return fmt.Sprintf("Error: invalid arguments: %v", err), false
	}
	return "", true
}

func objectSchema(required []string, properties map[string]any) map[string]any {
	schema := map[string]any{
		"type":       "object",
		"properties": properties,
	}
	if len(required) > 0 {
		schema["required"] = required
	}
	return schema
}

func stringProperty(description string) map[string]any {
	return map[string]any{"type": "string", "description": description}
}

func encodeJSON(value any) string {
	var buf strings.Builder
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(value); err != nil {
		return fmt.Sprintf("Error: encode result: %v", err)
	}
	return strings.TrimSuffix(buf.String(), "\n")
}

func preview(text string, limit int) string {
	runes := []rune(text)
	if len(runes) <= limit {
		return text
	}
	return string(runes[:limit]) + "..."
}
