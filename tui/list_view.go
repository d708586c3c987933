package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

func (m Model) renderListView() string {
	var s strings.Builder

	// Title
	title := "CONFLICT REVIEW"
	if m.batchID != "" {
		title += " · batch " + m.batchID
	}
	s.WriteString(titleStyle.Render(title))
	s.WriteString("\n\n")

	// Tabs
	s.WriteString(m.renderTabs())
	s.WriteString("\n\n")

	// Table
	s.WriteString(m.renderTable())
	s.WriteString("\n")

	if m.message != "" {
		s.WriteString("\n")
		s.WriteString(m.message)
		s.WriteString("\n")
	}

	// Help
	s.WriteString(m.renderListHelp())

	return s.String()
}

func (m Model) renderTabs() string {
	var rendered []string

	for i, tab := range statusTabs {
		label := strings.ToUpper(tab[:1]) + tab[1:]
		if i == m.tab {
			rendered = append(rendered, tabActiveStyle.Render(label))
		} else {
			rendered = append(rendered, tabInactiveStyle.Render(label))
		}
	}

	return lipgloss.JoinHorizontal(lipgloss.Top, rendered...)
}

func (m Model) renderTable() string {
	if m.err != nil {
		return fmt.Sprintf("Error: %v", m.err)
	}
	if len(m.conflicts) == 0 {
		return fmt.Sprintf("No %s conflicts", statusTabs[m.tab])
	}

	columns := []table.Column{
		{Title: "Contact", Width: 24},
		{Title: "Field", Width: 16},
		{Title: "Existing", Width: 24},
		{Title: "Incoming", Width: 24},
	}

	var rows []table.Row
	for _, c := range m.conflicts {
		rows = append(rows, table.Row{
			m.names[c.ContactID],
			string(c.Field),
			c.ExistingValue,
			c.IncomingValue,
		})
	}

	t := table.New(
		table.WithColumns(columns),
		table.WithRows(rows),
		table.WithFocused(true),
		table.WithHeight(max(m.height-12, 3)),
	)

	if m.selectedRow < len(rows) {
		t.SetCursor(m.selectedRow)
	}

	return t.View()
}

func (m Model) renderListHelp() string {
	help := []string{
		"↑/↓: Navigate",
		"Tab: Switch status",
		"Enter: Details",
	}
	if statusTabs[m.tab] == statusTabs[0] {
		help = append(help, "a: Accept incoming", "r: Keep existing")
	}
	help = append(help, "q: Quit")
	return helpStyle.Render(strings.Join(help, " • "))
}

func (m Model) handleListKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "up", "k":
		if m.selectedRow > 0 {
			m.selectedRow--
		}
	case "down", "j":
		if m.selectedRow < len(m.conflicts)-1 {
			m.selectedRow++
		}
	case "tab":
		m.tab = (m.tab + 1) % len(statusTabs)
		m.selectedRow = 0
		m.message = ""
		m.reload()
	case "enter":
		if m.selected() != nil {
			m.viewMode = ViewDetail
		}
	}

	return m, nil
}
