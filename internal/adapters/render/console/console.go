package console

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"
)

type Options struct {
	// Markdown renders answers through glamour. Enable it only when
	// stdout is a terminal.
	Markdown bool
	Width    int
}

// Renderer formats everything the CLI prints besides logs.
type Renderer struct {
	markdown *glamour.TermRenderer
	styles   styles
}

func NewRenderer(opts Options) *Renderer {
	r := &Renderer{styles: newStyles()}
	if !opts.Markdown {
		return r
	}

	width := opts.Width
	if width <= 0 {
		width = 100
	}

	md, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(width),
	)
	if err == nil {
		r.markdown = md
	}
	return r
}

// Answer renders a model answer. Markdown failures fall back to the raw
// text.
func (r *Renderer) Answer(answer string) string {
	if r.markdown == nil {
		return answer
	}

	rendered, err := r.markdown.Render(answer)
	if err != nil {
		return answer
	}
	return strings.TrimRight(rendered, "\n")
}

func (r *Renderer) Banner(dryRun bool) string {
	lines := []string{
		r.styles.title.Render("Agent CLI") + " " + r.styles.header.Render("enter a request, empty line to exit"),
	}
	if dryRun {
		lines = append(lines, r.styles.badge.Render("[DRY-RUN]")+" "+r.styles.detail.Render("write_file and execute_terminal are not executed"))
	}
	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

func (r *Renderer) Prompt() string {
	return "\n" + r.styles.prompt.Render(">") + " "
}

func (r *Renderer) Error(err error) string {
	return r.styles.errMark.Render("Error:") + " " + err.Error()
}

func (r *Renderer) Notice(text string) string {
	return r.styles.empty.Render(text)
}

func (r *Renderer) keyValue(key string, value any) string {
	return r.styles.key.Render(key+":") + " " + r.styles.detail.Render(fmt.Sprint(value))
}
