package openai

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/sony/gobreaker"
	"go.uber.org/zap"

	"github.com/bnema/agent-cli/internal/adapters/outbound"
	"github.com/bnema/agent-cli/internal/domain"
	"github.com/bnema/agent-cli/internal/ports"
)

const (
	DefaultBaseURL      = "https://api.openai.com/v1"
	defaultTimeout      = 2 * time.Minute
	maxResponseBytes    = 8 << 20
	completionsEndpoint = "/chat/completions"
)

type Options struct {
	BaseURL    string
	APIKey     string
	Model      string
	Timeout    time.Duration
	HTTPClient *http.Client
	Logger     *zap.Logger
}

// Client talks to an OpenAI-compatible chat completions endpoint.
type Client struct {
	baseURL string
	apiKey  string
	model   string
	http    *http.Client
	breaker *gobreaker.CircuitBreaker
	logger  *zap.Logger
}

var (
	_ ports.ChatModel  = (*Client)(nil)
	_ ports.Summarizer = (*Client)(nil)
)

func NewClient(opts Options) (*Client, error) {
	if strings.TrimSpace(opts.Model) == "" {
		return nil, errors.New("model is required")
	}

	baseURL := strings.TrimRight(strings.TrimSpace(opts.BaseURL), "/")
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}

	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	httpClient := opts.HTTPClient
	if httpClient == nil {
		timeout := opts.Timeout
		if timeout <= 0 {
			timeout = defaultTimeout
		}
		httpClient = &http.Client{Timeout: timeout}
	}

	return &Client{
		baseURL: baseURL,
		apiKey:  opts.APIKey,
		model:   opts.Model,
		http:    httpClient,
		breaker: outbound.NewBreaker("openai", logger),
		logger:  logger,
	}, nil
}

func (c *Client) Model() string {
	return c.model
}

func (c *Client) Complete(ctx context.Context, request domain.ChatRequest) (domain.ChatMessage, error) {
	payload := chatRequest{
		Model:    c.model,
		Messages: toWireMessages(request.Messages),
		Tools:    toWireTools(request.Tools),
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return domain.ChatMessage{}, fmt.Errorf("encode chat request: %w", err)
	}

	started := time.Now()
	raw, err := c.post(ctx, completionsEndpoint, body)
	if err != nil {
		return domain.ChatMessage{}, fmt.Errorf("chat completion: %w", err)
	}

	var response chatResponse
	if err := json.Unmarshal(raw, &response); err != nil {
		return domain.ChatMessage{}, fmt.Errorf("decode chat response: %w", err)
	}
	if len(response.Choices) == 0 {
		return domain.ChatMessage{}, domain.ErrEmptyCompletion
	}

	fields := []zap.Field{
		zap.String("model", response.Model),
		zap.Duration("elapsed", time.Since(started)),
		zap.String("finish_reason", response.Choices[0].FinishReason),
	}
	if response.Usage != nil {
		fields = append(fields, zap.Int("total_tokens", response.Usage.TotalTokens))
	}
	c.logger.Debug("chat completion", fields...)

	return fromWireMessage(response.Choices[0].Message), nil
}

func (c *Client) post(ctx context.Context, path string, body []byte) ([]byte, error) {
	result, err := c.breaker.Execute(func() (interface{}, error) {
		request, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(body))
		if err != nil {
			return nil, fmt.Errorf("create request: %w", err)
		}
		request.Header.Set("Content-Type", "application/json")
		request.Header.Set("Accept", "application/json")
		if c.apiKey != "" {
			request.Header.Set("Authorization", "Bearer "+c.apiKey)
		}

		response, err := c.http.Do(request)
		if err != nil {
			return nil, fmt.Errorf("perform request: %w", err)
		}
		defer response.Body.Close()

		raw, err := io.ReadAll(io.LimitReader(response.Body, maxResponseBytes))
		if err != nil {
			return nil, fmt.Errorf("read response: %w", err)
		}
		if response.StatusCode < 200 || response.StatusCode > 299 {
			return nil, &outbound.StatusError{StatusCode: response.StatusCode, Body: truncate(strings.TrimSpace(string(raw)), 300)}
		}

		return raw, nil
	})
	if err != nil {
		return nil, err
	}

	return result.([]byte), nil
}

func toWireMessages(messages []domain.ChatMessage) []chatMessage {
	wire := make([]chatMessage, 0, len(messages))
	for _, message := range messages {
		content := message.Content
		item := chatMessage{
			Role:       string(message.Role),
			Content:    &content,
			ToolCallID: message.ToolCallID,
		}
		if len(message.ToolCalls) > 0 {
			if content == "" {
				item.Content = nil
			}
			for _, call := range message.ToolCalls {
				item.ToolCalls = append(item.ToolCalls, chatToolCall{
					ID:       call.ID,
					Type:     "function",
					Function: chatFunctionCall{Name: call.Name, Arguments: call.Arguments},
				})
			}
		}
		wire = append(wire, item)
	}
	return wire
}

func toWireTools(definitions []domain.ToolDefinition) []chatTool {
	if len(definitions) == 0 {
		return nil
	}

	tools := make([]chatTool, 0, len(definitions))
	for _, definition := range definitions {
		tools = append(tools, chatTool{
			Type: "function",
			Function: chatFunction{
				Name:        definition.Name,
				Description: definition.Description,
				Parameters:  definition.Parameters,
			},
		})
	}
	return tools
}

func fromWireMessage(message chatMessage) domain.ChatMessage {
	out := domain.ChatMessage{Role: domain.ChatRoleAssistant}
	if message.Role != "" {
		out.Role = domain.ChatRole(message.Role)
	}
	if message.Content != nil {
		out.Content = *message.Content
	}
	for _, call := range message.ToolCalls {
		out.ToolCalls = append(out.ToolCalls, domain.ToolCall{
			ID:        call.ID,
			Name:      call.Function.Name,
			Arguments: call.Function.Arguments,
		})
	}
	return out
}

func truncate(text string, limit int) string {
	runes := []rune(text)
	if len(runes) <= limit {
		return text
	}
	return string(runes[:limit]) + "..."
}
