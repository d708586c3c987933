package tui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/harperreed/rolodex/db"
	"github.com/harperreed/rolodex/models"
)

var (
	fieldLabelStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("170")).
			Width(20)

	fieldValueStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("252"))

	changedValueStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(lipgloss.Color("11"))
)

func (m Model) renderDetailView() string {
	var s strings.Builder

	c := m.selected()
	if c == nil {
		return titleStyle.Render("CONFLICT") + "\n\nNothing selected"
	}

	s.WriteString(titleStyle.Render(fmt.Sprintf("CONFLICT · %s", m.names[c.ContactID])))
	s.WriteString("\n\n")

	s.WriteString(m.renderField("Field", string(c.Field)))
	s.WriteString(m.renderField("Existing", c.ExistingValue))
	s.WriteString(fieldLabelStyle.Render("Incoming:") + " " + changedValueStyle.Render(c.IncomingValue) + "\n")
	s.WriteString(m.renderField("Status", c.Status))
	s.WriteString(m.renderField("Batch", c.BatchID))
	s.WriteString("\n")

	s.WriteString(m.renderContactDetail(c))
	s.WriteString("\n")

	if m.message != "" {
		s.WriteString(m.message)
		s.WriteString("\n")
	}

	s.WriteString(m.renderDetailHelp(c))

	return s.String()
}

// renderContactDetail shows the stored contact the conflict was raised against.
func (m Model) renderContactDetail(c *models.StoredConflict) string {
	contact, err := db.GetContact(m.db, c.ContactID)
	if err != nil {
		return fmt.Sprintf("Error: %v", err)
	}
	if contact == nil {
		return "Contact no longer exists"
	}

	var s strings.Builder
	s.WriteString(titleStyle.Render("Stored contact"))
	s.WriteString("\n")
	for _, field := range models.CanonicalFields {
		if v := contact.Get(field); v != "" {
			s.WriteString(m.renderField(string(field), v))
		}
	}
	return s.String()
}

func (m Model) renderField(label, value string) string {
	if value == "" {
		value = "-"
	}
	return fieldLabelStyle.Render(label+":") + " " + fieldValueStyle.Render(value) + "\n"
}

func (m Model) renderDetailHelp(c *models.StoredConflict) string {
	help := []string{"Esc: Back"}
	if c.Status == models.ConflictPending {
		help = append(help, "a: Accept incoming", "r: Keep existing")
	}
	help = append(help, "q: Quit")
	return helpStyle.Render(strings.Join(help, " • "))
}

func (m Model) handleDetailKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc", "backspace":
		m.viewMode = ViewList
	}
	return m, nil
}
