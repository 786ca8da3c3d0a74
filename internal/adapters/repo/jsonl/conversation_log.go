package jsonl

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"

	"github.com/bnema/agent-cli/internal/adapters/repo/atomicfile"
	"github.com/bnema/agent-cli/internal/domain"
	"github.com/bnema/agent-cli/internal/ports"
)

const (
	ConversationFile = "conversation.jsonl"
	tempFilePattern  = ".conversation-*.jsonl.tmp"
)

type Options struct {
	// Strict makes Load fail on the first malformed line instead of
	// skipping it.
	Strict bool
}

type Log struct {
	path   string
	strict bool
	mu     *sync.RWMutex
}

var _ ports.ConversationLog = (*Log)(nil)

func NewLog(memoryDir string, opts Options) (*Log, error) {
	if memoryDir == "" {
		return nil, errors.New("memory directory is empty")
	}

	path, err := atomicfile.NormalizePath(filepath.Join(memoryDir, ConversationFile))
	if err != nil {
		return nil, err
	}

	return &Log{path: path, strict: opts.Strict, mu: atomicfile.LockForPath(path)}, nil
}

func (l *Log) Path() string {
	return l.path
}

func (l *Log) Append(ctx context.Context, entry domain.ConversationEntry) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	line, err := encodeLine(entry)
	if err != nil {
		return fmt.Errorf("encode conversation entry: %w", err)
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	if err := os.MkdirAll(filepath.Dir(l.path), atomicfile.DirMode); err != nil {
		return fmt.Errorf("create memory directory: %w", err)
	}

	file, err := os.OpenFile(l.path, os.O_CREATE|os.O_RDWR|os.O_APPEND, atomicfile.FileMode)
	if err != nil {
		return fmt.Errorf("open conversation log: %w", err)
	}
	defer file.Close()

	// A torn previous write must not swallow this entry.
	terminated, err := endsWithNewline(file)
	if err != nil {
		return fmt.Errorf("inspect conversation log: %w", err)
	}
	if !terminated {
		line = append([]byte{'\n'}, line...)
	}

	if _, err := file.Write(line); err != nil {
		return fmt.Errorf("append conversation entry: %w", err)
	}

	return nil
}

func (l *Log) Load(ctx context.Context) ([]domain.ConversationEntry, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	l.mu.RLock()
	defer l.mu.RUnlock()

	file, err := os.Open(l.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("open conversation log: %w", err)
	}
	defer file.Close()

	var entries []domain.ConversationEntry
	lineNo := 0
	err = scanLines(file, func(line []byte) error {
		lineNo++
		trimmed := bytes.TrimSpace(line)
		if len(trimmed) == 0 {
			return nil
		}

		var decoded entrySchema
		if err := json.Unmarshal(trimmed, &decoded); err != nil {
			if l.strict {
				return fmt.Errorf("%w: line %d: %v", domain.ErrCorruptLog, lineNo, err)
			}
			return nil
		}

		entries = append(entries, fromSchema(decoded))
		return nil
	})
	if err != nil {
		return nil, err
	}

	return entries, nil
}

func (l *Log) Stats(ctx context.Context) (domain.LogStats, error) {
	if err := ctx.Err(); err != nil {
		return domain.LogStats{}, err
	}

	l.mu.RLock()
	defer l.mu.RUnlock()

	file, err := os.Open(l.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return domain.LogStats{}, nil
		}
		return domain.LogStats{}, fmt.Errorf("open conversation log: %w", err)
	}
	defer file.Close()

	var stats domain.LogStats
	err = scanLines(file, func(line []byte) error {
		stats.Bytes += int64(len(line))
		if len(bytes.TrimSpace(line)) > 0 {
			stats.Entries++
		}
		return nil
	})
	if err != nil {
		return domain.LogStats{}, err
	}

	return stats, nil
}

func (l *Log) Replace(ctx context.Context, entries []domain.ConversationEntry) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	var buf bytes.Buffer
	for _, entry := range entries {
		line, err := encodeLine(entry)
		if err != nil {
			return fmt.Errorf("encode conversation entry: %w", err)
		}
		buf.Write(line)
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	if err := atomicfile.WriteFile(l.path, buf.Bytes(), tempFilePattern); err != nil {
		return fmt.Errorf("rewrite conversation log: %w", err)
	}

	return nil
}

// scanLines calls fn for every line including its trailing newline.
func scanLines(r io.Reader, fn func(line []byte) error) error {
	reader := bufio.NewReader(r)
	for {
		line, err := reader.ReadBytes('\n')
		if len(line) > 0 {
			if fnErr := fn(line); fnErr != nil {
				return fnErr
			}
		}
		if err != nil {
			if errors.Is(err, io.EOF) {
				return nil
			}
			return fmt.Errorf("read conversation log: %w", err)
		}
	}
}

func endsWithNewline(file *os.File) (bool, error) {
	info, err := file.Stat()
	if err != nil {
		return false, err
	}
	if info.Size() == 0 {
		return true, nil
	}

	last := make([]byte, 1)
	if _, err := file.ReadAt(last, info.Size()-1); err != nil {
		return false, err
	}

	return last[0] == '\n', nil
}
