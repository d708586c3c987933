// ABOUTME: Terminal User Interface using bubbletea framework
// ABOUTME: Interactive review of field conflicts raised by contact imports
package tui

import (
	"context"
	"database/sql"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/google/uuid"

	"github.com/harperreed/rolodex/db"
	"github.com/harperreed/rolodex/models"
)

// ViewMode represents the current TUI view
type ViewMode int

const (
	ViewList ViewMode = iota
	ViewDetail
)

// statusTabs are the conflict states the list can be filtered to.
var statusTabs = []string{models.ConflictPending, models.ConflictAccepted, models.ConflictRejected}

// Resolver applies a review decision to a stored conflict.
type Resolver interface {
	Resolve(ctx context.Context, conflictID uuid.UUID, accept bool) (*models.Contact, error)
}

// Model is the main bubbletea model
type Model struct {
	db       *sql.DB
	resolver Resolver
	viewMode ViewMode
	tab      int
	batchID  string

	conflicts   []models.StoredConflict
	names       map[uuid.UUID]string
	selectedRow int

	message string
	width   int
	height  int
	err     error
}

// NewModel creates a review model. An empty batchID shows every batch.
func NewModel(database *sql.DB, resolver Resolver, batchID string) Model {
	m := Model{
		db:       database,
		resolver: resolver,
		viewMode: ViewList,
		batchID:  batchID,
		names:    map[uuid.UUID]string{},
		width:    80,
		height:   24,
	}
	m.reload()
	return m
}

// reload fetches the conflicts for the active tab and the names of their contacts.
func (m *Model) reload() {
	conflicts, err := db.ListConflicts(m.db, m.batchID, statusTabs[m.tab])
	if err != nil {
		m.err = err
		return
	}
	m.err = nil
	m.conflicts = conflicts

	for _, c := range conflicts {
		if _, ok := m.names[c.ContactID]; ok {
			continue
		}
		contact, err := db.GetContact(m.db, c.ContactID)
		if err != nil || contact == nil {
			m.names[c.ContactID] = c.ContactID.String()[:8]
			continue
		}
		m.names[c.ContactID] = contactName(contact)
	}

	if m.selectedRow >= len(m.conflicts) {
		m.selectedRow = max(len(m.conflicts)-1, 0)
	}
}

func (m Model) selected() *models.StoredConflict {
	if m.selectedRow < 0 || m.selectedRow >= len(m.conflicts) {
		return nil
	}
	return &m.conflicts[m.selectedRow]
}

func (m Model) Init() tea.Cmd {
	return nil
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKeyPress(msg)
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil
	}
	return m, nil
}

func (m Model) View() string {
	switch m.viewMode {
	case ViewList:
		return m.renderListView()
	case ViewDetail:
		return m.renderDetailView()
	}
	return ""
}

func (m Model) handleKeyPress(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit
	case "a":
		return m.resolveSelected(true), nil
	case "r":
		return m.resolveSelected(false), nil
	}

	switch m.viewMode {
	case ViewList:
		return m.handleListKeys(msg)
	case ViewDetail:
		return m.handleDetailKeys(msg)
	}

	return m, nil
}

// resolveSelected accepts or rejects the highlighted pending conflict.
func (m Model) resolveSelected(accept bool) Model {
	c := m.selected()
	if c == nil || c.Status != models.ConflictPending {
		return m
	}

	contact, err := m.resolver.Resolve(context.Background(), c.ID, accept)
	if err != nil {
		m.message = errorStyle.Render(err.Error())
		return m
	}

	if accept {
		m.message = okStyle.Render("✓ " + contactName(contact) + ": " + string(c.Field) + " set to " + c.IncomingValue)
	} else {
		m.message = okStyle.Render("✓ " + contactName(contact) + ": kept " + string(c.Field))
	}

	m.reload()
	m.viewMode = ViewList
	return m
}

func contactName(c *models.Contact) string {
	name := c.FirstName
	if c.LastName != "" {
		if name != "" {
			name += " "
		}
		name += c.LastName
	}
	return name
}

// Styles
var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("170")).
			MarginBottom(1)

	tabActiveStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("170")).
			Background(lipgloss.Color("235")).
			Padding(0, 2)

	tabInactiveStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("240")).
				Padding(0, 2)

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240")).
			MarginTop(1)

	okStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	errorStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
)
