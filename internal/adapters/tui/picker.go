package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/sahilm/fuzzy"
)

// PickerItem is one selectable row in the picker.
type PickerItem struct {
	ID    string
	Title string
	Desc  string
}

// pickerItems adapts a slice of items to fuzzy.Source.
type pickerItems []PickerItem

func (p pickerItems) String(i int) string { return p[i].Title }
func (p pickerItems) Len() int            { return len(p) }

// PickerModel is a filterable list used to choose a training day, for
// example when picking which missed workout to make up.
type PickerModel struct {
	title  string
	items  pickerItems
	filter textinput.Model

	matches []int
	cursor  int

	// Chosen holds the selected item's ID after the program exits, or
	// "" if the picker was cancelled.
	Chosen string
}

// NewPicker creates a picker over the given items.
func NewPicker(title string, items []PickerItem) PickerModel {
	filter := textinput.New()
	filter.Placeholder = "Type to filter"
	filter.Focus()
	filter.Width = 40

	m := PickerModel{
		title:  title,
		items:  pickerItems(items),
		filter: filter,
	}
	m.applyFilter()
	return m
}

// Init implements tea.Model.
func (m PickerModel) Init() tea.Cmd {
	return textinput.Blink
}

// applyFilter recomputes the visible matches for the current query.
func (m *PickerModel) applyFilter() {
	query := strings.TrimSpace(m.filter.Value())
	if query == "" {
		m.matches = make([]int, len(m.items))
		for i := range m.items {
			m.matches[i] = i
		}
	} else {
		results := fuzzy.FindFrom(query, m.items)
		m.matches = make([]int, len(results))
		for i, r := range results {
			m.matches[i] = r.Index
		}
	}

	if m.cursor >= len(m.matches) {
		m.cursor = 0
	}
}

// Update implements tea.Model.
func (m PickerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok {
		switch key.String() {
		case "ctrl+c", "esc":
			m.Chosen = ""
			return m, tea.Quit
		case "up", "ctrl+k":
			if m.cursor > 0 {
				m.cursor--
			}
			return m, nil
		case "down", "ctrl+j":
			if m.cursor < len(m.matches)-1 {
				m.cursor++
			}
			return m, nil
		case "enter":
			if len(m.matches) > 0 {
				m.Chosen = m.items[m.matches[m.cursor]].ID
			}
			return m, tea.Quit
		}
	}

	var cmd tea.Cmd
	m.filter, cmd = m.filter.Update(msg)
	m.applyFilter()
	return m, cmd
}

// View implements tea.Model.
func (m PickerModel) View() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render(m.title))
	b.WriteString("\n\n")
	b.WriteString(m.filter.View())
	b.WriteString("\n\n")

	if len(m.matches) == 0 {
		b.WriteString(focusStyle.Render("no matches"))
		b.WriteString("\n")
	}

	for i, idx := range m.matches {
		item := m.items[idx]
		line := item.Title
		if item.Desc != "" {
			line += "  " + focusStyle.Render(item.Desc)
		}
		if i == m.cursor {
			b.WriteString(selectedItemStyle.Render("▸ " + line))
		} else {
			b.WriteString("  " + line)
		}
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(helpStyle.Render("↑/↓ move · enter choose · esc cancel"))
	return b.String()
}
