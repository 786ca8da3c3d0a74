package openai

import (
	"context"
	"fmt"
	"strings"

	"github.com/bnema/agent-cli/internal/domain"
)

const summaryClipRunes = 500

// Summarize condenses entries into a short paragraph. An empty answer is
// reported as ErrEmptyCompletion so callers can fall back.
func (c *Client) Summarize(ctx context.Context, entries []domain.ConversationEntry) (string, error) {
	if len(entries) == 0 {
		return "", nil
	}

	message, err := c.Complete(ctx, domain.ChatRequest{
		Messages: []domain.ChatMessage{
			{Role: domain.ChatRoleUser, Content: SummaryPrompt(entries)},
		},
	})
	if err != nil {
		return "", fmt.Errorf("summarize conversation: %w", err)
	}

	summary := strings.TrimSpace(message.Content)
	if summary == "" {
		return "", domain.ErrEmptyCompletion
	}
	return summary, nil
}

// SummaryPrompt renders entries one per line as "role: content", each
// content clipped to 500 characters.
func SummaryPrompt(entries []domain.ConversationEntry) string {
	var transcript strings.Builder
	for i, entry := range entries {
		if i > 0 {
			transcript.WriteByte('\n')
		}
		role := string(entry.Role)
		if role == "" {
			role = "?"
		}
		transcript.WriteString(role)
		transcript.WriteString(": ")
		transcript.WriteString(clipRunes(entry.Content, summaryClipRunes))
	}

	return "Briefly summarize this conversation in 2-4 sentences. Keep the key facts and decisions. Answer in the language of the conversation.\n\n" +
		transcript.String() +
		"\n\nSummary:"
}

func clipRunes(text string, limit int) string {
	runes := []rune(text)
	if len(runes) <= limit {
		return text
	}
	return string(runes[:limit])
}
