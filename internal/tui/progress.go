// Package tui drives the CLI's live progress view, built on bubbletea
// and lipgloss in the same style as the interactive simulation viewer.
package tui

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/vantage-audio/spatialmix/internal/dsp"
)

var (
	headerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("86")).Bold(true)
	stepStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("252"))
	doneStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
)

// stepMsg carries one progress update from the pipeline into the Bubble
// Tea event loop.
type stepMsg string

// doneMsg signals that the pipeline goroutine has returned.
type doneMsg struct{ err error }

// Model is the progress view's Bubble Tea model: a scrolling log of
// pipeline steps plus the final error, if any.
type Model struct {
	track   string
	history []string
	current string
	err     error
	done    bool
	updates chan string
	result  chan error
}

// NewModel builds a progress Model for the named track. updates is fed
// by ProgressFunc (see Run); result receives the pipeline's final error.
func NewModel(track string, updates chan string, result chan error) Model {
	return Model{track: track, updates: updates, result: result}
}

func (m Model) Init() tea.Cmd {
	return waitForUpdate(m.updates, m.result)
}

func waitForUpdate(updates chan string, result chan error) tea.Cmd {
	return func() tea.Msg {
		select {
		case msg, ok := <-updates:
			if !ok {
				return doneMsg{err: <-result}
			}
			return stepMsg(msg)
		case err := <-result:
			return doneMsg{err: err}
		}
	}
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
	case stepMsg:
		if m.current != "" {
			m.history = append(m.history, m.current)
		}
		m.current = string(msg)
		return m, waitForUpdate(m.updates, m.result)
	case doneMsg:
		if m.current != "" {
			m.history = append(m.history, m.current)
		}
		m.current = ""
		m.err = msg.err
		m.done = true
		return m, tea.Quit
	}
	return m, nil
}

func (m Model) View() string {
	out := headerStyle.Render(fmt.Sprintf("spatialmix: %s", m.track)) + "\n\n"
	for _, line := range m.history {
		out += doneStyle.Render("  ✓ "+line) + "\n"
	}
	if m.current != "" {
		out += stepStyle.Render("  … "+m.current) + "\n"
	}
	if m.done {
		if m.err != nil {
			out += "\n" + stepStyle.Render("failed: "+m.err.Error()) + "\n"
		} else {
			out += "\n" + headerStyle.Render("done.") + "\n"
		}
	}
	return out
}

// Run drives fn (a pipeline call expecting a dsp.ProgressFunc) through a
// Bubble Tea program, rendering each progress message as it arrives.
// ctx cancellation stops the underlying operation cooperatively; fn is
// responsible for honoring it.
func Run(ctx context.Context, track string, fn func(dsp.ProgressFunc) error) error {
	updates := make(chan string, 64)
	result := make(chan error, 1)

	go func() {
		err := fn(func(msg string) {
			select {
			case updates <- msg:
			case <-ctx.Done():
			}
		})
		close(updates)
		result <- err
	}()

	m := NewModel(track, updates, result)
	p := tea.NewProgram(m)
	finalModel, err := p.Run()
	if err != nil {
		return err
	}
	if fm, ok := finalModel.(Model); ok && fm.err != nil {
		return fm.err
	}
	return err
}
