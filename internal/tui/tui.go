package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
)

// Cancelled is returned by ShowMenu when the user leaves with esc or q.
const Cancelled = "cancelled"

// recentLines bounds the event log shown below the menu.
const recentLines = 8

type menuModel struct {
	list   list.Model
	choice string
	recent []string
}

// NewMenu builds the menu model. recent is rendered below the list,
// newest last.
func NewMenu(items []Item, title string, recent []string) *menuModel {
	if len(recent) > recentLines {
		recent = recent[len(recent)-recentLines:]
	}
	return &menuModel{list: newList(items, title), recent: recent}
}

// Choice returns the selected value, Cancelled, or "" while running.
func (m *menuModel) Choice() string { return m.choice }

func (m *menuModel) Init() tea.Cmd { return nil }

func (m *menuModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		switch msg.String() {
		case "enter":
			if itm, ok := m.list.SelectedItem().(Item); ok {
				m.choice = itm.Value
			}
			return m, tea.Quit
		case "esc", "q", "ctrl+c":
			m.choice = Cancelled
			return m, tea.Quit
		case "up", "k":
			m.list.CursorUp()
			return m, nil
		case "down", "j":
			m.list.CursorDown()
			return m, nil
		}
	}
	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m *menuModel) View() string {
	if m.choice != "" {
		return ""
	}
	if len(m.recent) == 0 {
		return m.list.View()
	}
	var b strings.Builder
	b.WriteString(m.list.View())
	b.WriteString("\n--- recent ---\n")
	for _, l := range m.recent {
		b.WriteString(strings.TrimRight(l, "\n"))
		b.WriteByte('\n')
	}
	return b.String()
}

// ShowMenu blocks and returns the selected value (or Cancelled).
func ShowMenu(items []Item, title string, recent []string) (string, error) {
	m := NewMenu(items, title, recent)
	p := tea.NewProgram(m)
	if _, err := p.Run(); err != nil {
		return "", err
	}
	return m.choice, nil
}
