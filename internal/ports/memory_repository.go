package ports

import (
	"context"

	"github.com/bnema/agent-cli/internal/domain"
)

type MemoryRepository interface {
	Load(ctx context.Context) (domain.MemoryRecord, error)
	Save(ctx context.Context, record domain.MemoryRecord) error
}
