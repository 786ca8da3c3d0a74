package domain

import (
	"encoding/json"
	"time"
)

// Fact is a stored key/value pair. Payload holds the stored JSON object
// when it carries more than a string key and value (numbers, extra
// fields); it is written back unchanged and Value then shows the raw
// JSON of the value.
type Fact struct {
	Key     string
	Value   string
	Payload json.RawMessage
}

// Todo follows the same rule as Fact for Payload.
type Todo struct {
	Text    string
	Status  string
	Payload json.RawMessage
}

// MemoryRecord is the rolling summary of everything compacted out of the
// conversation log. Facts and Todos are carried through compaction as-is.
type MemoryRecord struct {
	Summary   string
	Facts     []Fact
	Todos     []Todo
	UpdatedAt time.Time
}

// AppendSummary returns the summary with next joined on a newline. The
// prior text is never trimmed.
func (r MemoryRecord) AppendSummary(next string) string {
	if r.Summary == "" {
		return next
	}

	return r.Summary + "\n" + next
}

type MemoryPolicy struct {
	MaxMessages int
	MaxBytes    int64
	KeepRecent  int
}

func (p MemoryPolicy) Exceeded(stats LogStats) bool {
	if p.MaxMessages > 0 && stats.Entries >= p.MaxMessages {
		return true
	}

	return p.MaxBytes > 0 && stats.Bytes >= p.MaxBytes
}

type CompactionResult struct {
	Compacted  bool
	Summarized int
	Kept       int
	Fallback   bool
}
