package domain

import (
	"fmt"
	"strings"
	"time"
)

type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

func ParseRole(raw string) (Role, error) {
	switch Role(strings.ToLower(strings.TrimSpace(raw))) {
	case RoleUser, "human":
		return RoleUser, nil
	case RoleAssistant, "ai":
		return RoleAssistant, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownRole, raw)
	}
}

// ConversationEntry is one turn half as stored in the conversation log.
// Entries are never edited after they are appended.
type ConversationEntry struct {
	Role      Role
	Content   string
	Timestamp time.Time
}

type LogStats struct {
	Entries int
	Bytes   int64
}
