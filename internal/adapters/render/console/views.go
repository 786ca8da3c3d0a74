package console

import (
	"fmt"
	"slices"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/bnema/agent-cli/internal/domain"
)

type MemoryView struct {
	Record  domain.MemoryRecord
	Stats   domain.LogStats
	Policy  domain.MemoryPolicy
	LogPath string
}

func (r *Renderer) Memory(view MemoryView) string {
	s := r.styles
	lines := []string{
		s.title.Render("Memory"),
		r.keyValue("log", view.LogPath),
		r.keyValue("entries", fmt.Sprintf("%d / %d", view.Stats.Entries, view.Policy.MaxMessages)),
		r.keyValue("size", fmt.Sprintf("%s / %s", formatBytes(view.Stats.Bytes), formatBytes(view.Policy.MaxBytes))),
		r.keyValue("keep recent", view.Policy.KeepRecent),
		r.keyValue("compaction due", view.Policy.Exceeded(view.Stats)),
	}
	if !view.Record.UpdatedAt.IsZero() {
		lines = append(lines, r.keyValue("updated", view.Record.UpdatedAt.Local().Format("2006-01-02 15:04:05")))
	}

	summary := s.empty.Render("No summary yet.")
	if strings.TrimSpace(view.Record.Summary) != "" {
		summary = s.detail.Render(view.Record.Summary)
	}
	lines = append(lines, s.section.Render(lipgloss.JoinVertical(lipgloss.Left, s.header.Render("summary"), summary)))

	if len(view.Record.Facts) > 0 {
		facts := []string{s.header.Render("facts")}
		for _, fact := range view.Record.Facts {
			facts = append(facts, r.keyValue(fact.Key, fact.Value))
		}
		lines = append(lines, s.section.Render(lipgloss.JoinVertical(lipgloss.Left, facts...)))
	}

	if len(view.Record.Todos) > 0 {
		todos := []string{s.header.Render("todos")}
		for _, todo := range view.Record.Todos {
			todos = append(todos, s.detail.Render(fmt.Sprintf("[%s] %s", todo.Status, todo.Text)))
		}
		lines = append(lines, s.section.Render(lipgloss.JoinVertical(lipgloss.Left, todos...)))
	}

	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

func (r *Renderer) Tools(definitions []domain.ToolDefinition) string {
	s := r.styles
	lines := []string{
		s.title.Render("Tools"),
		s.header.Render(fmt.Sprintf("available: %d", len(definitions))),
	}
	if len(definitions) == 0 {
		lines = append(lines, s.empty.Render("No tools registered."))
		return lipgloss.JoinVertical(lipgloss.Left, lines...)
	}

	for _, definition := range definitions {
		entry := []string{s.name.Render(definition.Name), s.detail.Render(definition.Description)}
		if params := parameterNames(definition.Parameters); params != "" {
			entry = append(entry, r.keyValue("params", params))
		}
		lines = append(lines, s.section.Render(lipgloss.JoinVertical(lipgloss.Left, entry...)))
	}

	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

func (r *Renderer) Compaction(result domain.CompactionResult) string {
	if !result.Compacted {
		return r.Notice(fmt.Sprintf("Nothing to compact (%d entries kept).", result.Kept))
	}

	text := fmt.Sprintf("Compacted %d entries, kept %d.", result.Summarized, result.Kept)
	if result.Fallback {
		text += " " + r.styles.badge.Render("summary unavailable, placeholder stored")
	}
	return text
}

// parameterNames lists schema properties, required ones first, marking
// optional ones with a trailing question mark.
func parameterNames(schema map[string]any) string {
	properties, _ := schema["properties"].(map[string]any)
	if len(properties) == 0 {
		return ""
	}

	required := map[string]bool{}
	switch values := schema["required"].(type) {
	case []string:
		for _, name := range values {
			required[name] = true
		}
	case []any:
		for _, name := range values {
			if text, ok := name.(string); ok {
				required[text] = true
			}
		}
	}

	var requiredNames, optionalNames []string
	for name := range properties {
		if required[name] {
			requiredNames = append(requiredNames, name)
		} else {
			optionalNames = append(optionalNames, name+"?")
		}
	}
	slices.Sort(requiredNames)
	slices.Sort(optionalNames)

	return strings.Join(append(requiredNames, optionalNames...), ", ")
}

func formatBytes(n int64) string {
	const unit = 1024
	if n < unit {
		return fmt.Sprintf("%d B", n)
	}
	if n < unit*unit {
		return fmt.Sprintf("%.1f KB", float64(n)/unit)
	}
	return fmt.Sprintf("%.1f MB", float64(n)/(unit*unit))
}
