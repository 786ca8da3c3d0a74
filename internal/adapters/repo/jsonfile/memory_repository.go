package jsonfile

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/bnema/agent-cli/internal/adapters/repo/atomicfile"
	"github.com/bnema/agent-cli/internal/domain"
	"github.com/bnema/agent-cli/internal/ports"
)

const (
	MemoryFile      = "memory.json"
	tempFilePattern = ".memory-*.json.tmp"
)

type Repository struct {
	path string
	mu   *sync.RWMutex
}

var _ ports.MemoryRepository = (*Repository)(nil)

func NewRepository(memoryDir string) (*Repository, error) {
	if memoryDir == "" {
		return nil, errors.New("memory directory is empty")
	}

	path, err := atomicfile.NormalizePath(filepath.Join(memoryDir, MemoryFile))
	if err != nil {
		return nil, err
	}

	return &Repository{path: path, mu: atomicfile.LockForPath(path)}, nil
}

func (r *Repository) Path() string {
	return r.path
}

// Load returns the stored record. A missing, unreadable or non-object file
// yields an empty record; a malformed field only loses that field.
func (r *Repository) Load(ctx context.Context) (domain.MemoryRecord, error) {
	if err := ctx.Err(); err != nil {
		return domain.MemoryRecord{}, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	data, err := os.ReadFile(r.path)
	if err != nil {
		return domain.MemoryRecord{}, nil
	}

	record, ok := decodeRecord(data)
	if !ok {
		return domain.MemoryRecord{}, nil
	}
	return record, nil
}

func (r *Repository) Save(ctx context.Context, record domain.MemoryRecord) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	schema, err := toSchema(record)
	if err != nil {
		return fmt.Errorf("encode memory record: %w", err)
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(schema); err != nil {
		return fmt.Errorf("encode memory record: %w", err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if err := atomicfile.WriteFile(r.path, buf.Bytes(), tempFilePattern); err != nil {
		return fmt.Errorf("write memory record: %w", err)
	}

	return nil
}
