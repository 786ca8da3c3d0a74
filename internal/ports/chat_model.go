package ports

import (
	"context"

	"github.com/bnema/agent-cli/internal/domain"
)

type ChatModel interface {
	Complete(ctx context.Context, request domain.ChatRequest) (domain.ChatMessage, error)
}
