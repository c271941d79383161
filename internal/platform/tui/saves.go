package tui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/raidsim/internal/storage"
)

// SavesKeyMap defines the key bindings for the save browser.
type SavesKeyMap struct {
	Up     key.Binding
	Down   key.Binding
	Delete key.Binding
	Quit   key.Binding
}

// ShortHelp returns key bindings for the short help view.
func (k SavesKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.Delete, k.Quit}
}

// FullHelp returns key bindings for the full help view.
func (k SavesKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{{k.Up, k.Down}, {k.Delete, k.Quit}}
}

// DefaultSavesKeyMap returns default key bindings.
func DefaultSavesKeyMap() SavesKeyMap {
	return SavesKeyMap{
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("up/k", "up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("down/j", "down"),
		),
		Delete: key.NewBinding(
			key.WithKeys("x", "delete"),
			key.WithHelp("x", "delete save"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "esc", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}

// SavesModel is the Bubble Tea model for browsing stored saves.
type SavesModel struct {
	store    *storage.Store
	entries  []storage.SaveEntry
	table    table.Model
	help     help.Model
	keys     SavesKeyMap
	quitting bool
	errMsg   string
}

// NewSavesModel creates a save browser backed by the given store.
func NewSavesModel(store *storage.Store) SavesModel {
	columns := []table.Column{
		{Title: "Slot", Width: 16},
		{Title: "Level", Width: 14},
		{Title: "Tic", Width: 10},
		{Title: "Saved", Width: 17},
	}

	t := table.New(
		table.WithColumns(columns),
		table.WithFocused(true),
		table.WithHeight(12),
	)
	styles := table.DefaultStyles()
	styles.Header = styles.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderBottom(true).
		Bold(true)
	styles.Selected = styles.Selected.
		Foreground(lipgloss.Color("232")).
		Background(lipgloss.Color("205"))
	t.SetStyles(styles)

	m := SavesModel{
		store: store,
		table: t,
		help:  help.New(),
		keys:  DefaultSavesKeyMap(),
	}
	m.reload()
	return m
}

// reload refreshes the table rows from the store.
func (m *SavesModel) reload() {
	entries, err := m.store.List()
	if err != nil {
		m.errMsg = err.Error()
		return
	}
	m.entries = entries

	rows := make([]table.Row, len(entries))
	for i, e := range entries {
		rows[i] = table.Row{
			e.Slot,
			e.LevelID,
			fmt.Sprintf("%d", e.Tics),
			e.CreatedAt.Format("2006-01-02 15:04"),
		}
	}
	m.table.SetRows(rows)
}

// Init implements tea.Model.
func (m SavesModel) Init() tea.Cmd {
	return nil
}

// Update handles messages and updates the model state.
func (m SavesModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			m.quitting = true
			return m, tea.Quit

		case key.Matches(msg, m.keys.Delete):
			if cur := m.table.Cursor(); cur >= 0 && cur < len(m.entries) {
				if err := m.store.Delete(m.entries[cur].Slot); err != nil {
					m.errMsg = err.Error()
				} else {
					m.reload()
				}
			}
			return m, nil
		}

	case tea.WindowSizeMsg:
		m.help.Width = msg.Width
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

// View renders the save table.
func (m SavesModel) View() string {
	if m.quitting {
		return ""
	}

	title := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("205")).Render("Saved Games")
	body := m.table.View()
	if len(m.entries) == 0 {
		body = lipgloss.NewStyle().Foreground(lipgloss.Color("245")).Render("No saves recorded yet.")
	}
	out := lipgloss.JoinVertical(lipgloss.Left, title, "", body, "", m.help.View(m.keys))
	if m.errMsg != "" {
		out += "\n" + lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Render(m.errMsg)
	}
	return out
}

// RunSavesBrowser runs the interactive save browser.
func RunSavesBrowser(store *storage.Store) error {
	if _, err := tea.NewProgram(NewSavesModel(store), tea.WithAltScreen()).Run(); err != nil {
		return fmt.Errorf("tui: saves browser failed: %w", err)
	}
	return nil
}
