package cmd

import (
	"context"
	"fmt"
	"io"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

type spinnerStopMsg struct{}

type spinnerModel struct {
	spinner spinner.Model
	label   string
	stopped bool
}

func newSpinnerModel(label string) spinnerModel {
	return spinnerModel{
		spinner: spinner.New(
			spinner.WithSpinner(spinner.MiniDot),
			spinner.WithStyle(lipgloss.NewStyle().Foreground(lipgloss.Color("69"))),
		),
		label: label,
	}
}

func (m spinnerModel) Init() tea.Cmd {
	return m.spinner.Tick
}

func (m spinnerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if _, ok := msg.(spinnerStopMsg); ok {
		m.stopped = true
		return m, tea.Quit
	}

	var cmd tea.Cmd
	m.spinner, cmd = m.spinner.Update(msg)
	return m, cmd
}

func (m spinnerModel) View() string {
	if m.stopped {
		return ""
	}
	return fmt.Sprintf("%s %s", m.spinner.View(), m.label)
}

type spinnerResult[T any] struct {
	value T
	err   error
}

// withSpinner draws label on output while work runs and returns work's
// result. work owns cancellation through ctx; the spinner only stops when
// work has returned, and a drawing failure never hides the result.
func withSpinner[T any](ctx context.Context, output io.Writer, label string, work func(context.Context) (T, error)) (T, error) {
	program := tea.NewProgram(
		newSpinnerModel(label),
		tea.WithInput(nil),
		tea.WithOutput(output),
		tea.WithoutSignalHandler(),
	)

	done := make(chan spinnerResult[T], 1)
	go func() {
		value, err := work(ctx)
		done <- spinnerResult[T]{value: value, err: err}
		program.Send(spinnerStopMsg{})
	}()

	_, _ = program.Run()
	result := <-done
	return result.value, result.err
}
