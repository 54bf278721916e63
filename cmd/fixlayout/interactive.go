package main

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/wippyai/fixcodec/inspect"
	"github.com/wippyai/fixcodec/schema"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4")).
			Padding(0, 1)

	nameStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#98FB98"))

	typeStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#87CEEB"))

	selectedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4"))

	resultStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#90EE90"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF6B6B"))

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#666666"))
)

type modelState int

const (
	stateSelectType modelState = iota
	stateInputBytes
	stateShowResult
)

type interactiveModel struct {
	err      error
	filename string
	result   string
	types    []typeInfo
	input    textinput.Model
	selected int
	state    modelState
}

func newInteractiveModel(filename string, types []typeInfo) *interactiveModel {
	return &interactiveModel{
		filename: filename,
		types:    types,
		state:    stateSelectType,
	}
}

func (m *interactiveModel) Init() tea.Cmd {
	return nil
}

func (m *interactiveModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok {
		switch key.String() {
		case "ctrl+c":
			return m, tea.Quit

		case "q":
			if m.state != stateInputBytes {
				return m, tea.Quit
			}

		case "up", "k":
			if m.state == stateSelectType && m.selected > 0 {
				m.selected--
			}

		case "down", "j":
			if m.state == stateSelectType && m.selected < len(m.types)-1 {
				m.selected++
			}

		case "enter":
			switch m.state {
			case stateSelectType:
				if len(m.types) == 0 || m.types[m.selected].err != nil {
					return m, nil
				}
				m.prepareInput()
				m.state = stateInputBytes
				return m, textinput.Blink

			case stateInputBytes:
				m.decode()
				m.state = stateShowResult
				return m, nil

			case stateShowResult:
				m.state = stateSelectType
				m.result = ""
				m.err = nil
			}

		case "esc":
			switch m.state {
			case stateInputBytes, stateShowResult:
				m.state = stateSelectType
				m.result = ""
				m.err = nil
			}
		}
	}

	if m.state == stateInputBytes {
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m *interactiveModel) prepareInput() {
	ti := textinput.New()
	ti.Placeholder = fmt.Sprintf("%d bytes as hex", m.types[m.selected].size)
	ti.Prompt = "bytes: "
	ti.Width = 60
	ti.Focus()
	m.input = ti
}

func (m *interactiveModel) decode() {
	t := m.types[m.selected]
	var (
		entries []inspect.Entry
		err     error
	)
	if strings.TrimSpace(m.input.Value()) == "" {
		entries, err = inspect.Layout(t.schema)
	} else {
		entries, err = describe(t.schema, m.input.Value())
	}
	if err != nil {
		m.err = err
		return
	}
	m.result = formatEntries(entries, strings.TrimSpace(m.input.Value()) != "")
}

func (m *interactiveModel) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("Fixed Layout"))
	b.WriteString(" ")
	b.WriteString(m.filename)
	b.WriteString("\n\n")

	switch m.state {
	case stateSelectType:
		if len(m.types) == 0 {
			b.WriteString("No named types.\n")
		}
		for i, t := range m.types {
			line := m.formatType(t)
			if i == m.selected {
				b.WriteString(selectedStyle.Render("> " + line))
			} else {
				b.WriteString("  " + line)
			}
			b.WriteString("\n")
		}
		b.WriteString("\n")
		b.WriteString(helpStyle.Render("↑/↓ select • enter decode • q quit"))

	case stateInputBytes:
		t := m.types[m.selected]
		b.WriteString(fmt.Sprintf("Decoding %s\n  %s\n\n", nameStyle.Render(t.name), typeStyle.Render(schema.String(t.schema))))
		b.WriteString(m.input.View())
		b.WriteString("\n\n")
		b.WriteString(helpStyle.Render("enter decode (empty shows layout) • esc back"))

	case stateShowResult:
		t := m.types[m.selected]
		b.WriteString(fmt.Sprintf("%s:\n\n", nameStyle.Render(t.name)))
		if m.err != nil {
			b.WriteString(errorStyle.Render(fmt.Sprintf("Error: %v", m.err)))
		} else {
			b.WriteString(resultStyle.Render(m.result))
		}
		b.WriteString("\n\n")
		b.WriteString(helpStyle.Render("enter continue • q quit"))
	}

	return b.String()
}

func (m *interactiveModel) formatType(t typeInfo) string {
	if t.err != nil {
		return nameStyle.Render(t.name) + " " + errorStyle.Render("(no fixed layout)")
	}
	return nameStyle.Render(t.name) + " " + typeStyle.Render(fmt.Sprintf("%d bytes", t.size))
}

func runInteractive(filename string, types []typeInfo) error {
	p := tea.NewProgram(newInteractiveModel(filename, types), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
