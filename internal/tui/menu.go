package tui

import (
	"io"

	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/lipgloss"
)

// Item is one selectable row. Value is returned when the row is chosen.
type Item struct {
	Label string
	Value string
}

func (i Item) Title() string       { return i.Label }
func (i Item) Description() string { return i.Value }
func (i Item) FilterValue() string { return i.Label }

// compactDelegate reduces per-item height to 1 line to make list dense
type compactDelegate struct{ list.DefaultDelegate }

func (d compactDelegate) Height() int { return 1 }

func (d compactDelegate) Spacing() int { return 0 }

// Render only the label with a selected marker and a dimmed value.
func (d compactDelegate) Render(w io.Writer, m list.Model, index int, listItem list.Item) {
	it := listItem.(Item)
	if index == m.Index() {
		_, _ = io.WriteString(w, d.Styles.SelectedTitle.Render("> "+it.Label)+" "+d.Styles.SelectedDesc.Render(it.Value))
		return
	}
	_, _ = io.WriteString(w, d.Styles.NormalTitle.Render("  "+it.Label)+" "+d.Styles.NormalDesc.Render(it.Value))
}

func newList(items []Item, title string) list.Model {
	lItems := make([]list.Item, 0, len(items))
	for _, it := range items {
		lItems = append(lItems, it)
	}

	delegate := compactDelegate{list.NewDefaultDelegate()}
	delegate.Styles.SelectedTitle = lipgloss.NewStyle().Foreground(lipgloss.Color("#ff79c6")).Bold(true)
	delegate.Styles.SelectedDesc = lipgloss.NewStyle().Foreground(lipgloss.Color("#8be9fd"))
	delegate.Styles.NormalTitle = lipgloss.NewStyle().Foreground(lipgloss.Color("#f8f8f2"))
	delegate.Styles.NormalDesc = lipgloss.NewStyle().Foreground(lipgloss.Color("#6272a4"))

	l := list.New(lItems, delegate, 48, len(lItems)+4)
	l.Title = title
	l.SetShowHelp(false)
	l.SetFilteringEnabled(false)
	l.SetShowStatusBar(false)
	l.SetShowPagination(false)
	return l
}
