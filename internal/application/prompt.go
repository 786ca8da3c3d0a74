package application

import (
	"strings"

	"github.com/bnema/agent-cli/internal/domain"
)

const (
	NoAnswerFallback  = "No answer received."
	memoryContextHead = "Context from memory:\n"
)

const systemPromptTemplate = `You are a helpful CLI agent. Answer in a structured way: the result first, then details and sources.
If the context is not sufficient, ask one clarifying question instead of guessing.
Available tools: `

func SystemPrompt(toolNames []string) string {
	return systemPromptTemplate + strings.Join(toolNames, ", ") + "."
}

// BuildMessages assembles the model input for one turn. History entries
// with roles other than user and assistant are dropped.
func BuildMessages(summary string, history []domain.ConversationEntry, toolNames []string, query string) []domain.ChatMessage {
	messages := make([]domain.ChatMessage, 0, len(history)+3)
	if summary != "" {
		messages = append(messages, domain.ChatMessage{
			Role:    domain.ChatRoleSystem,
			Content: memoryContextHead + summary,
		})
	}
	messages = append(messages, domain.ChatMessage{
		Role:    domain.ChatRoleSystem,
		Content: SystemPrompt(toolNames),
	})

	for _, entry := range history {
		role, err := domain.ParseRole(string(entry.Role))
		if err != nil {
			continue
		}

		chatRole := domain.ChatRoleUser
		if role == domain.RoleAssistant {
			chatRole = domain.ChatRoleAssistant
		}
		messages = append(messages, domain.ChatMessage{Role: chatRole, Content: entry.Content})
	}

	return append(messages, domain.ChatMessage{Role: domain.ChatRoleUser, Content: query})
}
