package tools

import (
	"time"

	"go.uber.org/zap"

	"github.com/bnema/agent-cli/internal/adapters/outbound"
)

type Config struct {
	Workspace              string
	HTTPTimeout            time.Duration
	HTTPMaxBytes           int64
	HTTPMaxRedirects       int
	TerminalTimeout        time.Duration
	TerminalMaxOutputChars int
}

// NewDefaultRegistry registers every built-in tool. client is shared by
// the tools that call fixed public APIs.
func NewDefaultRegistry(cfg Config, client *outbound.Client, logger *zap.Logger) (*Registry, error) {
	registry := NewRegistry(logger)
	files := &Files{Workspace: cfg.Workspace}
	fileTools := files.Tools()

	all := []Tool{
		(&WebSearch{Client: client}).Tool(),
		(&HTTPRequest{
			Timeout:      cfg.HTTPTimeout,
			MaxBytes:     cfg.HTTPMaxBytes,
			MaxRedirects: cfg.HTTPMaxRedirects,
		}).Tool(),
	}
	all = append(all, fileTools...)
	all = append(all,
		(&Terminal{
			Workspace:      cfg.Workspace,
			Timeout:        cfg.TerminalTimeout,
			MaxOutputChars: cfg.TerminalMaxOutputChars,
		}).Tool(),
		(&Weather{Client: client}).Tool(),
		(&CryptoPrice{Client: client}).Tool(),
	)

	for _, tool := range all {
		if err := registry.Register(tool); err != nil {
			return nil, err
		}
	}

	return registry, nil
}
