package ports

import (
	"context"

	"github.com/bnema/agent-cli/internal/domain"
)

type Summarizer interface {
	Summarize(ctx context.Context, entries []domain.ConversationEntry) (string, error)
}
