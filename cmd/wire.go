package cmd

import (
	"fmt"
	"io"
	"os"

	"go.uber.org/zap"
	"golang.org/x/term"

	"github.com/bnema/agent-cli/internal/adapters/llm/openai"
	"github.com/bnema/agent-cli/internal/adapters/outbound"
	"github.com/bnema/agent-cli/internal/adapters/render/console"
	"github.com/bnema/agent-cli/internal/adapters/repo/jsonfile"
	"github.com/bnema/agent-cli/internal/adapters/repo/jsonl"
	"github.com/bnema/agent-cli/internal/adapters/tools"
	"github.com/bnema/agent-cli/internal/application"
	"github.com/bnema/agent-cli/internal/config"
	"github.com/bnema/agent-cli/internal/domain"
	"github.com/bnema/agent-cli/internal/logger"
	"github.com/bnema/agent-cli/internal/ports"
)

type app struct {
	cfg      config.Config
	logger   *zap.Logger
	log      *jsonl.Log
	memory   *application.MemoryService
	agent    *application.AgentService
	registry *tools.Registry
	renderer *console.Renderer
	// spinner is shown while a request runs. Only set for terminals.
	spinner io.Writer
}

type wireOptions struct {
	Debug   bool
	Verbose bool
	Stdout  io.Writer
	Stderr  io.Writer
}

func wireApp(cfg config.Config, opts wireOptions) (*app, error) {
	if err := cfg.EnsureDirs(); err != nil {
		return nil, err
	}

	log := logger.New(logger.Options{
		Debug:   opts.Debug,
		Verbose: opts.Verbose,
		Writers: []io.Writer{opts.Stderr},
	})

	conversationLog, err := jsonl.NewLog(cfg.MemoryDir, jsonl.Options{Strict: cfg.MemoryStrict})
	if err != nil {
		return nil, fmt.Errorf("wire conversation log: %w", err)
	}

	memoryRepo, err := jsonfile.NewRepository(cfg.MemoryDir)
	if err != nil {
		return nil, fmt.Errorf("wire memory repository: %w", err)
	}

	model, err := openai.NewClient(openai.Options{
		BaseURL: cfg.BaseURL,
		APIKey:  cfg.APIKey,
		Model:   cfg.Model,
		Logger:  log,
	})
	if err != nil {
		return nil, fmt.Errorf("wire chat model: %w", err)
	}

	client := outbound.NewClient(outbound.Options{
		Name:     "public-api",
		Timeout:  cfg.HTTPTimeoutDuration(),
		MaxBytes: cfg.HTTPMaxBytes,
		Logger:   log,
	})

	registry, err := tools.NewDefaultRegistry(tools.Config{
		Workspace:              cfg.Workspace,
		HTTPTimeout:            cfg.HTTPTimeoutDuration(),
		HTTPMaxBytes:           cfg.HTTPMaxBytes,
		HTTPMaxRedirects:       cfg.HTTPMaxRedirects,
		TerminalTimeout:        cfg.TerminalTimeoutDuration(),
		TerminalMaxOutputChars: cfg.TerminalMaxOutputChars,
	}, client, log)
	if err != nil {
		return nil, fmt.Errorf("wire tools: %w", err)
	}

	memory := application.NewMemoryService(
		conversationLog,
		memoryRepo,
		model,
		ports.SystemClock{},
		domain.MemoryPolicy{
			MaxMessages: cfg.MemoryMaxMessages,
			MaxBytes:    cfg.MemoryMaxBytes(),
			KeepRecent:  cfg.MemoryKeepRecent,
		},
		log,
	)
	executor := application.NewExecutor(model, registry, cfg.MaxSteps, log)

	a := &app{
		cfg:      cfg,
		logger:   log,
		log:      conversationLog,
		memory:   memory,
		agent:    application.NewAgentService(memory, executor, log),
		registry: registry,
		renderer: console.NewRenderer(console.Options{
			Markdown: isTerminal(opts.Stdout),
			Width:    terminalWidth(opts.Stdout),
		}),
	}
	if isTerminal(opts.Stderr) && !opts.Verbose && !opts.Debug {
		a.spinner = opts.Stderr
	}

	return a, nil
}

func isTerminal(w io.Writer) bool {
	file, ok := w.(*os.File)
	return ok && term.IsTerminal(int(file.Fd()))
}

func terminalWidth(w io.Writer) int {
	file, ok := w.(*os.File)
	if !ok {
		return 0
	}
	width, _, err := term.GetSize(int(file.Fd()))
	if err != nil {
		return 0
	}
	return width
}
