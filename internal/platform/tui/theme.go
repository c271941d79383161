package tui

import (
	"github.com/charmbracelet/lipgloss"
)

// Theme contains the visual styles for the watch view.
type Theme struct {
	// Map cells
	Wall     lipgloss.Style
	Floor    lipgloss.Style
	Door     lipgloss.Style
	DoorOpen lipgloss.Style
	PushWall lipgloss.Style
	Elevator lipgloss.Style
	Actor    lipgloss.Style
	Corpse   lipgloss.Style
	Player   lipgloss.Style

	// HUD
	HUDTitle lipgloss.Style
	HUDLabel lipgloss.Style
	HUDValue lipgloss.Style

	// Event tail
	EventNormal lipgloss.Style
	EventSound  lipgloss.Style
	EventError  lipgloss.Style

	StatusBar lipgloss.Style
}

// DefaultTheme returns the default visual theme.
func DefaultTheme() Theme {
	return Theme{
		Wall:     lipgloss.NewStyle().Foreground(lipgloss.Color("240")),
		Floor:    lipgloss.NewStyle().Foreground(lipgloss.Color("236")),
		Door:     lipgloss.NewStyle().Foreground(lipgloss.Color("172")), // Amber
		DoorOpen: lipgloss.NewStyle().Foreground(lipgloss.Color("113")), // Green
		PushWall: lipgloss.NewStyle().Foreground(lipgloss.Color("135")), // Purple
		Elevator: lipgloss.NewStyle().Foreground(lipgloss.Color("51")),  // Cyan
		Actor:    lipgloss.NewStyle().Foreground(lipgloss.Color("203")), // Red
		Corpse:   lipgloss.NewStyle().Foreground(lipgloss.Color("238")),
		Player:   lipgloss.NewStyle().Foreground(lipgloss.Color("226")).Bold(true),

		HUDTitle: lipgloss.NewStyle().Foreground(lipgloss.Color("205")).Bold(true),
		HUDLabel: lipgloss.NewStyle().Foreground(lipgloss.Color("245")),
		HUDValue: lipgloss.NewStyle().Foreground(lipgloss.Color("255")),

		EventNormal: lipgloss.NewStyle().Foreground(lipgloss.Color("250")),
		EventSound:  lipgloss.NewStyle().Foreground(lipgloss.Color("117")),
		EventError:  lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true),

		StatusBar: lipgloss.NewStyle().Foreground(lipgloss.Color("232")).Background(lipgloss.Color("205")).Padding(0, 1),
	}
}
