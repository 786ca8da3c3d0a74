package application

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/bnema/agent-cli/internal/domain"
)

// AgentService answers one query at a time using the conversation history
// and the rolling memory summary.
type AgentService struct {
	memory   *MemoryService
	executor *Executor
	logger   *zap.Logger
}

func NewAgentService(memory *MemoryService, executor *Executor, logger *zap.Logger) *AgentService {
	if logger == nil {
		logger = zap.NewNop()
	}

	return &AgentService{memory: memory, executor: executor, logger: logger}
}

// ProcessQuery runs one turn. The turn is appended to the log only when
// the model produced an answer; compaction failures are logged and do not
// affect the returned answer.
func (s *AgentService) ProcessQuery(ctx context.Context, query string, exec domain.Execution) (string, error) {
	logger := s.logger.With(zap.String("request_id", exec.RequestID))

	record, err := s.memory.Memory(ctx)
	if err != nil {
		return "", err
	}
	history, err := s.memory.Conversation(ctx)
	if err != nil {
		return "", err
	}

	messages := BuildMessages(record.Summary, history, s.executor.ToolNames(), query)
	logger.Debug("processing query",
		zap.Int("history", len(history)),
		zap.Bool("has_summary", record.Summary != ""),
		zap.Bool("dry_run", exec.DryRun),
	)

	answer, err := s.executor.Run(ctx, exec, messages)
	if err != nil {
		return "", fmt.Errorf("run agent: %w", err)
	}
	if strings.TrimSpace(answer) == "" {
		answer = NoAnswerFallback
	}

	if err := s.memory.AppendTurn(ctx, query, answer); err != nil {
		return answer, fmt.Errorf("save turn: %w", err)
	}

	result, err := s.memory.CompactIfNeeded(ctx)
	if err != nil {
		logger.Warn("memory compaction failed", zap.Error(err))
	} else if result.Compacted {
		logger.Debug("memory compacted", zap.Int("kept", result.Kept))
	}

	return answer, nil
}
