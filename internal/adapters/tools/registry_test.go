package tools

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bnema/agent-cli/internal/domain"
)

func TestRegistryCallDispatchesByName(t *testing.T) {
	t.Parallel()

	registry := NewRegistry(nil)
	require.NoError(t, registry.Register(echoTool("echo")))

	got := registry.Call(context.Background(), domain.Execution{}, domain.ToolCall{Name: "echo", Arguments: `{"text":"hi"}`})
	assert.Equal(t, "hi", got)
}

func TestRegistryCallUnknownToolReturnsText(t *testing.T) {
	t.Parallel()

	got := NewRegistry(nil).Call(context.Background(), domain.Execution{}, domain.ToolCall{Name: "nope"})
	assert.Equal(t, `Error: unknown tool "nope"`, got)
}

func TestRegistryCallInvalidArgumentsReturnsText(t *testing.T) {
	t.Parallel()

	registry := NewRegistry(nil)
	require.NoError(t, registry.Register(echoTool("echo")))

	got := registry.Call(context.Background(), domain.Execution{}, domain.ToolCall{Name: "echo", Arguments: `{"text":`})
	assert.Contains(t, got, "Error: invalid arguments")
}

func TestRegistryCallEmptyArgumentsDecodeAsObject(t *testing.T) {
	t.Parallel()

	registry := NewRegistry(nil)
	require.NoError(t, registry.Register(echoTool("echo")))

	got := registry.Call(context.Background(), domain.Execution{}, domain.ToolCall{Name: "echo"})
	assert.Equal(t, "", got)
}

func TestRegistryCallRecoversPanics(t *testing.T) {
	t.Parallel()

	registry := NewRegistry(nil)
	require.NoError(t, registry.Register(Tool{
		Name: "boom",
		Handler: func(context.Context, domain.Execution, json.RawMessage) string {
			panic("kaboom")
		},
	}))

	got := registry.Call(context.Background(), domain.Execution{Verbose: true}, domain.ToolCall{Name: "boom"})
	assert.Equal(t, "Error: tool boom failed: kaboom", got)
}

func TestRegistryRegisterRejectsDuplicatesAndMissingHandler(t *testing.T) {
	t.Parallel()

	registry := NewRegistry(nil)
	require.NoError(t, registry.Register(echoTool("echo")))
	require.Error(t, registry.Register(echoTool("echo")))
	require.Error(t, registry.Register(Tool{Name: "nohandler"}))
	require.Error(t, registry.Register(Tool{Name: " ", Handler: echoTool("x").Handler}))
}

func TestDefaultRegistryDefinitions(t *testing.T) {
	t.Parallel()

	registry, err := NewDefaultRegistry(Config{Workspace: t.TempDir()}, nil, nil)
	require.NoError(t, err)

	assert.Equal(t, []string{
		"web_search",
		"http_request",
		"read_file",
		"write_file",
		"list_files",
		"execute_terminal",
		"get_weather",
		"get_crypto_price",
	}, registry.Names())

	for _, def := range registry.Definitions() {
		assert.NotEmpty(t, def.Description, def.Name)
		assert.Equal(t, "object", def.Parameters["type"], def.Name)
	}
}

func echoTool(name string) Tool {
	return Tool{
		Name:        name,
		Description: "echo text",
		Parameters:  objectSchema([]string{"text"}, map[string]any{"text": stringProperty("text")}),
		Handler: func(_ context.Context, _ domain.Execution, raw json.RawMessage) string {
			var args struct {
				Text string `json:"text"`
			}
			if msg, ok := decodeArgs(raw, &args); !ok {
				return msg
			}
			return args.Text
		},
	}
}
