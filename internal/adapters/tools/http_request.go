package tools

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/bnema/agent-cli/internal/domain"
	"github.com/bnema/agent-cli/internal/policy"
)

const msgURLRejected = "Error: URL is not allowed (localhost and private networks are blocked)."

var errRedirectBlocked = errors.New("redirect target is not allowed")

// HTTPRequest performs GET and POST requests to public hosts. Every
// redirect hop is checked against the same URL policy as the first
// request.
type HTTPRequest struct {
	Timeout      time.Duration
	MaxBytes     int64
	MaxRedirects int
	// Allow overrides policy.IsSafeURL.
	Allow     func(raw string) bool
	Transport http.RoundTripper
}

type httpRequestArgs struct {
	URL     string            `json:"url"`
	Method  string            `json:"method"`
	Headers map[string]string `json:"headers"`
	Body    *string           `json:"body"`
}

type httpResponsePayload struct {
	StatusCode int               `json:"status_code"`
	Headers    map[string]string `json:"headers"`
	Body       string            `json:"body"`
	Truncated  bool              `json:"truncated"`
}

func (h *HTTPRequest) Tool() Tool {
	return Tool{
		Name:        "http_request",
		Description: "Perform an HTTP request (GET or POST) to a public URL. Localhost and private networks are blocked. Returns status_code, headers, body and truncated.",
		Parameters: objectSchema([]string{"url"}, map[string]any{
			"url":    stringProperty("URL to request"),
			"method": map[string]any{"type": "string", "enum": []string{"GET", "POST"}, "description": "HTTP method, GET by default"},
			"headers": map[string]any{
				"type":                 "object",
				"additionalProperties": map[string]any{"type": "string"},
				"description":          "Optional request headers",
			},
			"body": stringProperty("Request body for POST"),
		}),
		Handler: h.Run,
	}
}

func (h *HTTPRequest) Run(ctx context.Context, _ domain.Execution, raw json.RawMessage) string {
	var args httpRequestArgs
	if msg, ok := decodeArgs(raw, &args); !ok {
		return msg
	}

	if !h.allow(args.URL) {
		return msgURLRejected
	}

	method := strings.ToUpper(strings.TrimSpace(args.Method))
	if method == "" {
		method = http.MethodGet
	}
	if method != http.MethodGet && method != http.MethodPost {
		return fmt.Sprintf("Error: only GET and POST are supported, got: %s", method)
	}

	var body io.Reader
	if args.Body != nil {
		body = strings.NewReader(*args.Body)
	}

	request, err := http.NewRequestWithContext(ctx, method, args.URL, body)
	if err != nil {
		return fmt.Sprintf("HTTP error: %v", err)
	}
	for key, value := range args.Headers {
		request.Header.Set(key, value)
	}

	response, err := h.client().Do(request)
	if err != nil {
		if errors.Is(err, errRedirectBlocked) {
			return msgURLRejected + " (redirect)"
		}
		return fmt.Sprintf("HTTP error: %v", err)
	}
	defer response.Body.Close()

	maxBytes := h.maxBytes()
	content, err := io.ReadAll(io.LimitReader(response.Body, maxBytes+1))
	if err != nil {
		return fmt.Sprintf("HTTP error: read body: %v", err)
	}

	truncated := int64(len(content)) > maxBytes
	if truncated {
		content = content[:maxBytes]
	}

	headers := make(map[string]string, len(response.Header))
	for key, values := range response.Header {
		headers[key] = strings.Join(values, ", ")
	}

	return encodeJSON(httpResponsePayload{
		StatusCode: response.StatusCode,
		Headers:    headers,
		Body:       strings.ToValidUTF8(string(content), "�"),
		Truncated:  truncated,
	})
}

func (h *HTTPRequest) client() *http.Client {
	timeout := h.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	return &http.Client{
		Timeout:   timeout,
		Transport: h.Transport,
		CheckRedirect: func(req *http.Request, via []*http.Request) error {
			if h.MaxRedirects <= 0 {
				return http.ErrUseLastResponse
			}
			if len(via) > h.MaxRedirects {
				return fmt.Errorf("stopped after %d redirects", h.MaxRedirects)
			}
			if !h.allow(req.URL.String()) {
				return errRedirectBlocked
			}
			return nil
		},
	}
}

func (h *HTTPRequest) allow(raw string) bool {
	if h.Allow != nil {
		return h.Allow(raw)
	}
	return policy.IsSafeURL(raw)
}

func (h *HTTPRequest) maxBytes() int64 {
	if h.MaxBytes <= 0 {
		return 1 << 20
	}
	return h.MaxBytes
}
