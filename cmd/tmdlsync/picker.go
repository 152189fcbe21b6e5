package main

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

var pickerCursorStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("212")).Bold(true)

// picker is a single-select TUI; Enter confirms the highlighted item, Esc
// cancels with no selection.
type picker struct {
	title  string
	items  []string
	cursor int
	choice string
	done   bool
}

func newPicker(title string, items []string) picker {
	return picker{title: title, items: items}
}

func (p picker) Init() tea.Cmd { return nil }

func (p picker) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q", "esc":
			p.done = true
			return p, tea.Quit
		case "up", "k":
			if p.cursor > 0 {
				p.cursor--
			}
		case "down", "j":
			if p.cursor < len(p.items)-1 {
				p.cursor++
			}
		case "enter":
			p.choice = p.items[p.cursor]
			p.done = true
			return p, tea.Quit
		}
	}
	return p, nil
}

func (p picker) View() string {
	if p.done {
		return ""
	}
	var sb strings.Builder
	sb.WriteString(p.title + "\n\n")
	for i, item := range p.items {
		if i == p.cursor {
			sb.WriteString(pickerCursorStyle.Render("> "+item) + "\n")
		} else {
			sb.WriteString("  " + item + "\n")
		}
	}
	sb.WriteString("\n(enter to select, esc to cancel)\n")
	return sb.String()
}

// runPicker runs the picker and returns the chosen item, or "" if the user
// cancelled.
func runPicker(title string, items []string) (string, error) {
	final, err := tea.NewProgram(newPicker(title, items)).Run()
	if err != nil {
		return "", fmt.Errorf("running picker: %w", err)
	}
	return final.(picker).choice, nil
}
