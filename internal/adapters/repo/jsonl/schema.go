package jsonl

import (
	"bytes"
	"encoding/json"
	"time"

	"github.com/bnema/agent-cli/internal/domain"
)

type entrySchema struct {
	Role    string `json:"role"`
	Content string `json:"content"`
	TS      string `json:"ts"`
}

func toSchema(entry domain.ConversationEntry) entrySchema {
	return entrySchema{
		Role:    string(entry.Role),
		Content: entry.Content,
		TS:      formatTime(entry.Timestamp),
	}
}

func fromSchema(entry entrySchema) domain.ConversationEntry {
	return domain.ConversationEntry{
		Role:      domain.Role(entry.Role),
		Content:   entry.Content,
		Timestamp: parseTime(entry.TS),
	}
}

func encodeLine(entry domain.ConversationEntry) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(toSchema(entry)); err != nil {
		return nil, err
	}

	return buf.Bytes(), nil
}

func parseTime(raw string) time.Time {
	if raw == "" {
		return time.Time{}
	}

	parsed, err := time.Parse(time.RFC3339Nano, raw)
	if err != nil {
		return time.Time{}
	}

	return parsed.UTC()
}

func formatTime(value time.Time) string {
	if value.IsZero() {
		return ""
	}

	return value.UTC().Format(time.RFC3339Nano)
}
