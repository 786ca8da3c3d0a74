package jsonfile

import (
	"encoding/json"
	"time"

	"github.com/bnema/agent-cli/internal/domain"
)

type recordSchema struct {
	Summary   string            `json:"summary"`
	Facts     []json.RawMessage `json:"facts"`
	Todos     []json.RawMessage `json:"todos"`
	UpdatedAt string            `json:"updated_at"`
}

type factSchema struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

type todoSchema struct {
	Text   string `json:"text"`
	Status string `json:"status"`
}

func toSchema(record domain.MemoryRecord) (recordSchema, error) {
	facts := make([]json.RawMessage, 0, len(record.Facts))
	for _, fact := range record.Facts {
		raw, err := encodeItem(fact.Payload, factSchema{Key: fact.Key, Value: fact.Value})
		if err != nil {
			return recordSchema{}, err
		}
		facts = append(facts, raw)
	}

	todos := make([]json.RawMessage, 0, len(record.Todos))
	for _, todo := range record.Todos {
		raw, err := encodeItem(todo.Payload, todoSchema{Text: todo.Text, Status: todo.Status})
		if err != nil {
			return recordSchema{}, err
		}
		todos = append(todos, raw)
	}

	updatedAt := ""
	if !record.UpdatedAt.IsZero() {
		updatedAt = record.UpdatedAt.UTC().Format(time.RFC3339Nano)
	}

	return recordSchema{
		Summary:   record.Summary,
		Facts:     facts,
		Todos:     todos,
		UpdatedAt: updatedAt,
	}, nil
}

func encodeItem(payload json.RawMessage, typed any) (json.RawMessage, error) {
	if len(payload) > 0 {
		return payload, nil
	}
	return json.Marshal(typed)
}

// decodeRecord reads each top-level field on its own so that a malformed
// facts or todos slot never costs the summary. ok is false only when data
// is not a JSON object.
func decodeRecord(data []byte) (domain.MemoryRecord, bool) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil || fields == nil {
		return domain.MemoryRecord{}, false
	}

	var record domain.MemoryRecord
	record.Summary, _ = stringField(fields, "summary")

	var facts []json.RawMessage
	if err := json.Unmarshal(fields["facts"], &facts); err == nil {
		for _, raw := range facts {
			key, value, payload := decodePair(raw, "key", "value")
			record.Facts = append(record.Facts, domain.Fact{Key: key, Value: value, Payload: payload})
		}
	}

	var todos []json.RawMessage
	if err := json.Unmarshal(fields["todos"], &todos); err == nil {
		for _, raw := range todos {
			text, status, payload := decodePair(raw, "text", "status")
			record.Todos = append(record.Todos, domain.Todo{Text: text, Status: status, Payload: payload})
		}
	}

	if updatedAt, ok := stringField(fields, "updated_at"); ok && updatedAt != "" {
		if parsed, err := time.Parse(time.RFC3339Nano, updatedAt); err == nil {
			record.UpdatedAt = parsed.UTC()
		}
	}

	return record, true
}

// decodePair reads an object holding two string fields. Anything else is
// returned as payload so it survives the next save.
func decodePair(raw json.RawMessage, first, second string) (string, string, json.RawMessage) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(raw, &fields); err != nil || fields == nil {
		return "", string(raw), raw
	}

	a, aOK := stringField(fields, first)
	b, bOK := stringField(fields, second)
	if !bOK {
		b = string(fields[second])
	}
	if aOK && bOK && len(fields) == 2 {
		return a, b, nil
	}
	return a, b, raw
}

func stringField(fields map[string]json.RawMessage, name string) (string, bool) {
	raw, ok := fields[name]
	if !ok {
		return "", false
	}

	var value string
	if err := json.Unmarshal(raw, &value); err != nil {
		return "", false
	}
	return value, true
}
