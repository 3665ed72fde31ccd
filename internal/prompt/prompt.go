// Package prompt collects literal argument values for a method's
// parameters, one prompt per parameter in declared order.
package prompt

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"charm.land/bubbles/v2/textinput"
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/xonecas/nestcall/internal/invoke"
	"github.com/xonecas/nestcall/internal/treesitter"
)

// ErrCancelled is returned when the user dismisses the prompt.
var ErrCancelled = errors.New("prompt cancelled")

// Collector gathers one literal value per parameter.
type Collector interface {
	Collect(ctx context.Context, header string, params []treesitter.Parameter) ([]string, error)
}

// Static returns preset values, e.g. from command-line flags.
type Static []string

// Collect implements Collector.
func (s Static) Collect(_ context.Context, _ string, _ []treesitter.Parameter) ([]string, error) {
	return []string(s), nil
}

// Action is the result of handling a message. nil means no action.
type Action any

// ActionCancel signals the prompt was dismissed.
type ActionCancel struct{}

// ActionDone signals every parameter has a value.
type ActionDone struct{ Values []string }

// Colors holds the theme colors for the prompt.
type Colors struct {
	Accent string
	Dim    string
}

// DefaultColors is used when no theme is configured.
var DefaultColors = Colors{Accent: "#7aa2f7", Dim: "#666666"}

// Model asks for each parameter in turn.
type Model struct {
	header string
	params []treesitter.Parameter
	values []string
	input  textinput.Model
	colors Colors

	result Action
}

// New creates a prompt for params. header is shown above the inputs,
// typically the invocation being built.
func New(header string, params []treesitter.Parameter, colors Colors) Model {
	in := textinput.New()
	in.Focus()
	m := Model{
		header: header,
		params: params,
		values: make([]string, 0, len(params)),
		input:  in,
		colors: colors,
	}
	m.setLabel()
	return m
}

func (m *Model) setLabel() {
	if len(m.values) < len(m.params) {
		m.input.Prompt = invoke.Label(m.params[len(m.values)]) + " > "
	}
}

// HandleMsg processes a tea.Msg and returns an optional Action.
func (m *Model) HandleMsg(msg tea.Msg) (Action, tea.Cmd) {
	if key, ok := msg.(tea.KeyPressMsg); ok {
		switch key.Keystroke() {
		case "esc", "ctrl+c":
			return ActionCancel{}, nil
		case "enter":
			m.values = append(m.values, m.input.Value())
			m.input.Reset()
			if len(m.values) == len(m.params) {
				return ActionDone{Values: m.values}, nil
			}
			m.setLabel()
			return nil, nil
		}
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return nil, cmd
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model. The program quits once an action fires.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	action, cmd := m.HandleMsg(msg)
	if action != nil {
		m.result = action
		return m, tea.Quit
	}
	return m, cmd
}

// View implements tea.Model.
func (m Model) View() tea.View {
	return tea.NewView(m.render())
}

func (m Model) render() string {
	if m.result != nil {
		return ""
	}
	accent := lipgloss.NewStyle().Foreground(lipgloss.Color(m.colors.Accent)).Bold(true)
	dim := lipgloss.NewStyle().Foreground(lipgloss.Color(m.colors.Dim))

	var b strings.Builder
	b.WriteString(accent.Render(m.header))
	b.WriteByte('\n')
	for i, v := range m.values {
		shown := v
		if shown == "" {
			shown = "(empty)"
		}
		b.WriteString(dim.Render(fmt.Sprintf("%s = %s", invoke.Label(m.params[i]), shown)))
		b.WriteByte('\n')
	}
	b.WriteString(m.input.View())
	b.WriteByte('\n')
	b.WriteString(dim.Render(fmt.Sprintf("%d/%d  enter confirm · esc cancel", len(m.values)+1, len(m.params))))
	b.WriteByte('\n')
	return b.String()
}

// Interactive collects values through a terminal prompt.
type Interactive struct {
	In     io.Reader
	Out    io.Writer
	Colors Colors
}

// Collect implements Collector. Methods without parameters never prompt.
func (p Interactive) Collect(ctx context.Context, header string, params []treesitter.Parameter) ([]string, error) {
	if len(params) == 0 {
		return nil, nil
	}
	colors := p.Colors
	if colors == (Colors{}) {
		colors = DefaultColors
	}

	opts := []tea.ProgramOption{tea.WithContext(ctx)}
	if p.In != nil {
		opts = append(opts, tea.WithInput(p.In))
	}
	if p.Out != nil {
		opts = append(opts, tea.WithOutput(p.Out))
	}
	final, err := tea.NewProgram(New(header, params, colors), opts...).Run()
	if err != nil {
		return nil, fmt.Errorf("run prompt: %w", err)
	}

	m, ok := final.(Model)
	if !ok {
		return nil, fmt.Errorf("unexpected prompt model %T", final)
	}
	switch r := m.result.(type) {
	case ActionDone:
		return r.Values, nil
	default:
		return nil, ErrCancelled
	}
}
