package application

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"go.uber.org/zap"

	"github.com/bnema/agent-cli/internal/domain"
	"github.com/bnema/agent-cli/internal/ports"
)

// CompactionPlaceholder replaces the summary when the summarizer fails.
const CompactionPlaceholder = "Conversation compacted (summary unavailable)."

// MemoryService owns the conversation log and the memory record. Appends
// and compaction are serialized so a compaction never drops an entry
// appended while it runs.
type MemoryService struct {
	log        ports.ConversationLog
	repo       ports.MemoryRepository
	summarizer ports.Summarizer
	clock      ports.Clock
	policy     domain.MemoryPolicy
	logger     *zap.Logger

	mu sync.Mutex
}

func NewMemoryService(
	log ports.ConversationLog,
	repo ports.MemoryRepository,
	summarizer ports.Summarizer,
	clock ports.Clock,
	policy domain.MemoryPolicy,
	logger *zap.Logger,
) *MemoryService {
	if clock == nil {
		clock = ports.SystemClock{}
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	return &MemoryService{
		log:        log,
		repo:       repo,
		summarizer: summarizer,
		clock:      clock,
		policy:     policy,
		logger:     logger,
	}
}

func (s *MemoryService) Policy() domain.MemoryPolicy {
	return s.policy
}

func (s *MemoryService) Append(ctx context.Context, role domain.Role, content string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.appendLocked(ctx, role, content)
}

// AppendTurn records a user query and the assistant answer back to back.
func (s *MemoryService) AppendTurn(ctx context.Context, query, answer string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.appendLocked(ctx, domain.RoleUser, query); err != nil {
		return err
	}
	return s.appendLocked(ctx, domain.RoleAssistant, answer)
}

func (s *MemoryService) appendLocked(ctx context.Context, role domain.Role, content string) error {
	entry := domain.ConversationEntry{
		Role:      role,
		Content:   content,
		Timestamp: s.clock.Now(),
	}
	if err := s.log.Append(ctx, entry); err != nil {
		return fmt.Errorf("append %s message: %w", role, err)
	}
	return nil
}

func (s *MemoryService) Conversation(ctx context.Context) ([]domain.ConversationEntry, error) {
	entries, err := s.log.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("load conversation: %w", err)
	}
	return entries, nil
}

func (s *MemoryService) Memory(ctx context.Context) (domain.MemoryRecord, error) {
	record, err := s.repo.Load(ctx)
	if err != nil {
		return domain.MemoryRecord{}, fmt.Errorf("load memory record: %w", err)
	}
	return record, nil
}

func (s *MemoryService) Stats(ctx context.Context) (domain.LogStats, error) {
	stats, err := s.log.Stats(ctx)
	if err != nil {
		return domain.LogStats{}, fmt.Errorf("read conversation stats: %w", err)
	}
	return stats, nil
}

func (s *MemoryService) ShouldCompact(ctx context.Context) (bool, error) {
	stats, err := s.Stats(ctx)
	if err != nil {
		return false, err
	}
	return s.policy.Exceeded(stats), nil
}

func (s *MemoryService) CompactIfNeeded(ctx context.Context) (domain.CompactionResult, error) {
	return s.compact(ctx, false)
}

// Compact summarizes everything but the most recent entries regardless of
// the size trigger.
func (s *MemoryService) Compact(ctx context.Context) (domain.CompactionResult, error) {
	return s.compact(ctx, true)
}

func (s *MemoryService) compact(ctx context.Context, force bool) (domain.CompactionResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !force {
		should, err := s.ShouldCompact(ctx)
		if err != nil {
			return domain.CompactionResult{}, err
		}
		if !should {
			return domain.CompactionResult{}, nil
		}
	}

	entries, err := s.Conversation(ctx)
	if err != nil {
		return domain.CompactionResult{}, err
	}

	keep := max(s.policy.KeepRecent, 0)
	if len(entries) <= keep {
		return domain.CompactionResult{Kept: len(entries)}, nil
	}

	cut := len(entries) - keep
	older := entries[:cut]
	recent := entries[cut:]

	summary, fallback, err := s.summarize(ctx, older)
	if err != nil {
		return domain.CompactionResult{}, err
	}

	record, err := s.Memory(ctx)
	if err != nil {
		return domain.CompactionResult{}, err
	}
	record.Summary = record.AppendSummary(summary)
	record.UpdatedAt = s.clock.Now()

	if err := s.repo.Save(ctx, record); err != nil {
		return domain.CompactionResult{}, fmt.Errorf("save memory record: %w", err)
	}
	if err := s.log.Replace(ctx, recent); err != nil {
		return domain.CompactionResult{}, fmt.Errorf("rewrite conversation log: %w", err)
	}

	s.logger.Info("conversation compacted",
		zap.Int("summarized", len(older)),
		zap.Int("kept", len(recent)),
		zap.Bool("fallback_summary", fallback),
	)

	return domain.CompactionResult{
		Compacted:  true,
		Summarized: len(older),
		Kept:       len(recent),
		Fallback:   fallback,
	}, nil
}

// summarize returns the placeholder on summarizer failure. Cancellation
// is returned as an error so nothing is rewritten.
func (s *MemoryService) summarize(ctx context.Context, entries []domain.ConversationEntry) (string, bool, error) {
	summary, err := s.summarizer.Summarize(ctx, entries)
	if ctxErr := ctx.Err(); ctxErr != nil {
		return "", false, ctxErr
	}
	if err != nil && errors.Is(err, context.Canceled) {
		return "", false, err
	}

	summary = strings.TrimSpace(summary)
	if err != nil || summary == "" {
		s.logger.Warn("summary unavailable, using placeholder", zap.Error(err))
		return CompactionPlaceholder, true, nil
	}

	return summary, false, nil
}
