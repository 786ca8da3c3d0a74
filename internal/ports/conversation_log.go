package ports

import (
	"context"

	"github.com/bnema/agent-cli/internal/domain"
)

type ConversationLog interface {
	Append(ctx context.Context, entry domain.ConversationEntry) error
	Load(ctx context.Context) ([]domain.ConversationEntry, error)
	Stats(ctx context.Context) (domain.LogStats, error)
	// Replace swaps the whole log for entries. Readers observe either the
	// old or the new content, never a partial file.
	Replace(ctx context.Context, entries []domain.ConversationEntry) error
}
